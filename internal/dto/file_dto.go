package dto

type ListFileQuery struct {
	ListQuery
	Name string `form:"name"`
}
