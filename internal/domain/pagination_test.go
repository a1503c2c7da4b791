package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Validate(t *testing.T) {
	p := PaginationParams{Page: 0, PageSize: 500, Skip: -3}
	p.Validate()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 0, p.Skip)
	assert.Equal(t, 0, p.Offset())
}

func TestPaginationParams_OffsetPrefersSkip(t *testing.T) {
	p := PaginationParams{Page: 3, PageSize: 10}
	assert.Equal(t, 20, p.Offset())

	p.Skip = 45
	assert.Equal(t, 45, p.Offset())
	assert.Equal(t, 5, p.CurrentPage())
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a", "b"}, PaginationParams{Page: 2, PageSize: 2}, 5)

	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)

	empty := NewPaginatedResponse[string](nil, DefaultPagination(), 0)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
