package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/service"
	"github.com/vietlabs/base-backend/pkg/response"
	"github.com/vietlabs/base-backend/pkg/validator"
)

type FaqHandler struct {
	faqService service.FaqService
}

func NewFaqHandler(faqService service.FaqService) *FaqHandler {
	return &FaqHandler{faqService: faqService}
}

func (h *FaqHandler) Create(c *gin.Context) {
	var req dto.CreateFaqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	faq, err := h.faqService.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faq)
}

func (h *FaqHandler) Find(c *gin.Context) {
	var query dto.ListFaqQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	list, err := h.faqService.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *FaqHandler) FindOne(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	faq, err := h.faqService.FindOne(c.Request.Context(), id, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, faq)
}

func (h *FaqHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req dto.UpdateFaqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	faq, err := h.faqService.Update(c.Request.Context(), id, req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, faq)
}

func (h *FaqHandler) Remove(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.faqService.Remove(c.Request.Context(), id, response.GetLang(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}
