package dto

import "github.com/vietlabs/base-backend/internal/model"

type CreateTopicRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	UserIDs     []uint `json:"user_ids"`
}

type UpdateTopicRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	UserIDs     []uint `json:"user_ids"`
}

type ListTopicQuery struct {
	ListQuery
	Name string `form:"name"`
}

type CreateTemplateRequest struct {
	Title    string             `json:"title" binding:"required"`
	Content  string             `json:"content"`
	Type     model.TemplateType `json:"type" binding:"required,oneof=USER TOPIC"`
	UserIDs  []uint             `json:"user_ids"`
	TopicIDs []uint             `json:"topic_ids"`
}

type UpdateTemplateRequest struct {
	Title    string             `json:"title" binding:"required"`
	Content  string             `json:"content"`
	Type     model.TemplateType `json:"type" binding:"required,oneof=USER TOPIC"`
	UserIDs  []uint             `json:"user_ids"`
	TopicIDs []uint             `json:"topic_ids"`
}

type ListTemplateQuery struct {
	ListQuery
	Type model.TemplateType `form:"type" binding:"omitempty,oneof=USER TOPIC"`
}

type CreateNotificationRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type ReadNotificationRequest struct {
	ID uint `json:"id" binding:"required"`
}

type DeleteMultiNotificationRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

type ListNotificationQuery struct {
	ListQuery
}
