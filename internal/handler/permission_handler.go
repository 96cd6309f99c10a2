package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/service"
	"github.com/vietlabs/base-backend/pkg/response"
	"github.com/vietlabs/base-backend/pkg/validator"
)

type PermissionHandler struct {
	permissionService service.PermissionService
}

func NewPermissionHandler(permissionService service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

func (h *PermissionHandler) Create(c *gin.Context) {
	var req dto.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	permission, err := h.permissionService.Create(c.Request.Context(), req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, permission)
}

func (h *PermissionHandler) Find(c *gin.Context) {
	var query dto.ListPermissionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	list, err := h.permissionService.Find(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *PermissionHandler) FindOne(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	permission, err := h.permissionService.FindOne(c.Request.Context(), id, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, permission)
}

func (h *PermissionHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req dto.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	permission, err := h.permissionService.Update(c.Request.Context(), id, req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, permission)
}

func (h *PermissionHandler) Remove(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.permissionService.Remove(c.Request.Context(), id, response.GetLang(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

// Catalog lists every capability grouped by module, for admin UIs building
// permission pickers.
func (h *PermissionHandler) Catalog(c *gin.Context) {
	response.OK(c, h.permissionService.Catalog())
}
