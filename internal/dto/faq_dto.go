package dto

type CreateFaqRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type UpdateFaqRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type ListFaqQuery struct {
	ListQuery
	Title string `form:"title"`
}
