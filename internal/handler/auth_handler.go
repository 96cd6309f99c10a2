package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/service"
	"github.com/vietlabs/base-backend/pkg/response"
	"github.com/vietlabs/base-backend/pkg/validator"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Register(c.Request.Context(), req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

func (h *AuthHandler) LoginGoogle(c *gin.Context) {
	var req dto.OAuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.LoginGoogle(c.Request.Context(), req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

func (h *AuthHandler) LoginFacebook(c *gin.Context) {
	var req dto.OAuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.LoginFacebook(c.Request.Context(), req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Refresh(c.Request.Context(), req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req, response.GetLang(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req, response.GetLang(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.Logout(c.Request.Context(), user, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}
