package dto

// ListQuery carries the shared pagination/ordering query parameters.
type ListQuery struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	SortBy   string `form:"sort_by"`
	OrderBy  string `form:"order_by,default=asc" binding:"omitempty,oneof=asc desc"`
}

// Limit returns the page size clamped to a sane range.
func (q *ListQuery) Limit() int {
	if q.PageSize < 1 {
		return 20
	}
	if q.PageSize > 100 {
		return 100
	}
	return q.PageSize
}

// Offset returns the row offset for the requested page.
func (q *ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

// Order builds an ORDER BY clause from a whitelisted sort column.
func (q *ListQuery) Order(allowed map[string]bool, fallback string) string {
	column := q.SortBy
	if column == "" || !allowed[column] {
		column = fallback
	}
	direction := "asc"
	if q.OrderBy == "desc" {
		direction = "desc"
	}
	return column + " " + direction
}

// List is the paginated response envelope.
type List[T any] struct {
	Data      []T   `json:"data"`
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewList assembles the envelope from a page of rows and the total row count.
func NewList[T any](data []T, q ListQuery, total int64) List[T] {
	page := q.Page
	if page < 1 {
		page = 1
	}

	limit := int64(q.Limit())
	totalPage := total / limit
	if total%limit != 0 {
		totalPage++
	}

	return List[T]{
		Data:      data,
		Page:      page,
		PageSize:  int(limit),
		Total:     total,
		TotalPage: totalPage,
	}
}
