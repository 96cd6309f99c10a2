package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/service"
	"github.com/vietlabs/base-backend/pkg/response"
	"github.com/vietlabs/base-backend/pkg/validator"
)

// 20 MB
const maxUploadSize = 20 << 20

type FileHandler struct {
	fileService service.FileService
}

func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (h *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	user, _ := response.GetUser(c)

	file, err := h.fileService.Upload(c.Request.Context(), src, fileHeader.Filename, fileHeader.Size, user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, file)
}

func (h *FileHandler) Find(c *gin.Context) {
	var query dto.ListFileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	list, err := h.fileService.Find(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *FileHandler) FindOne(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	file, err := h.fileService.FindOne(c.Request.Context(), id, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, file)
}

func (h *FileHandler) Remove(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.fileService.Remove(c.Request.Context(), id, response.GetLang(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}
