package dto

import "time"

type CreateRequestRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" binding:"required"`
	UserID      uint      `json:"user_id" binding:"required"`
}

type UpdateRequestRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" binding:"required"`
	UserID      uint      `json:"user_id" binding:"required"`
}

type ListRequestQuery struct {
	ListQuery
	Name   string `form:"name"`
	UserID uint   `form:"user_id"`
}
