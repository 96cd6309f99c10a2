package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryLimit(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		want     int
	}{
		{"zero falls back to default", 0, 20},
		{"negative falls back to default", -5, 20},
		{"in range", 50, 50},
		{"capped at 100", 500, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ListQuery{PageSize: tt.pageSize}
			assert.Equal(t, tt.want, q.Limit())
		})
	}
}

func TestListQueryOffset(t *testing.T) {
	q := ListQuery{Page: 3, PageSize: 10}
	assert.Equal(t, 20, q.Offset())

	q = ListQuery{Page: 0, PageSize: 10}
	assert.Equal(t, 0, q.Offset())
}

func TestListQueryOrder(t *testing.T) {
	allowed := map[string]bool{"email": true, "created_at": true}

	q := ListQuery{SortBy: "email", OrderBy: "desc"}
	assert.Equal(t, "email desc", q.Order(allowed, "id"))

	// Unknown columns fall back to the default, never to the raw input.
	q = ListQuery{SortBy: "password; drop table users", OrderBy: "asc"}
	assert.Equal(t, "id asc", q.Order(allowed, "id"))

	q = ListQuery{}
	assert.Equal(t, "id asc", q.Order(allowed, "id"))
}

func TestNewList(t *testing.T) {
	list := NewList([]int{1, 2, 3}, ListQuery{Page: 2, PageSize: 3}, 7)

	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 3, list.PageSize)
	assert.Equal(t, int64(7), list.Total)
	assert.Equal(t, int64(3), list.TotalPage)

	empty := NewList([]int(nil), ListQuery{}, 0)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, int64(0), empty.TotalPage)
}
