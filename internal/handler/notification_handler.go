package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/service"
	"github.com/vietlabs/base-backend/pkg/response"
	"github.com/vietlabs/base-backend/pkg/validator"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) CreateTopic(c *gin.Context) {
	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	topic, err := h.notificationService.CreateTopic(c.Request.Context(), req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, topic)
}

func (h *NotificationHandler) FindTopics(c *gin.Context) {
	var query dto.ListTopicQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	list, err := h.notificationService.FindTopics(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *NotificationHandler) FindOneTopic(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	topic, err := h.notificationService.FindOneTopic(c.Request.Context(), id, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, topic)
}

func (h *NotificationHandler) UpdateTopic(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req dto.UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	topic, err := h.notificationService.UpdateTopic(c.Request.Context(), id, req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, topic)
}

func (h *NotificationHandler) RemoveTopic(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.notificationService.RemoveTopic(c.Request.Context(), id, response.GetLang(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

func (h *NotificationHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	template, err := h.notificationService.CreateTemplate(c.Request.Context(), req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

func (h *NotificationHandler) FindTemplates(c *gin.Context) {
	var query dto.ListTemplateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	list, err := h.notificationService.FindTemplates(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *NotificationHandler) FindOneTemplate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	template, err := h.notificationService.FindOneTemplate(c.Request.Context(), id, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, template)
}

func (h *NotificationHandler) UpdateTemplate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	template, err := h.notificationService.UpdateTemplate(c.Request.Context(), id, req, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, template)
}

func (h *NotificationHandler) RemoveTemplate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.notificationService.RemoveTemplate(c.Request.Context(), id, response.GetLang(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

func (h *NotificationHandler) Send(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.notificationService.Send(c.Request.Context(), id, response.GetLang(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

func (h *NotificationHandler) CreateMine(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	notification, err := h.notificationService.CreateNotice(c.Request.Context(), req, user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notification)
}

func (h *NotificationHandler) FindMine(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var query dto.ListNotificationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	list, err := h.notificationService.FindByUser(c.Request.Context(), user.ID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *NotificationHandler) FindOneMine(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	notification, err := h.notificationService.FindOneByUser(c.Request.Context(), id, user.ID, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, notification)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), id, user.ID, response.GetLang(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, notification)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

func (h *NotificationHandler) RemoveMine(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.notificationService.RemoveByUser(c.Request.Context(), id, user.ID, response.GetLang(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

func (h *NotificationHandler) RemoveManyMine(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.DeleteMultiNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.notificationService.RemoveManyByUser(c.Request.Context(), req.IDs, user.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}

func (h *NotificationHandler) RemoveAllMine(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.notificationService.RemoveAllByUser(c.Request.Context(), user.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "ok"})
}
