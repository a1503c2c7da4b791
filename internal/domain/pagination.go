package domain

type PaginationParams struct {
	Page     int `json:"page" query:"page"`
	PageSize int `json:"page_size" query:"limit"`
	Skip     int `json:"skip,omitempty" query:"skip"`
}

type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPaginatedResponse[T any](data []T, params PaginationParams, totalItems int64) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	page := params.CurrentPage()

	return PaginatedResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func DefaultPagination() PaginationParams {
	return PaginationParams{
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

// Offset honours an explicit skip over the page number.
func (p *PaginationParams) Offset() int {
	if p.Skip > 0 {
		return p.Skip
	}
	return (p.Page - 1) * p.PageSize
}

func (p PaginationParams) CurrentPage() int {
	if p.Skip > 0 && p.PageSize > 0 {
		return p.Skip/p.PageSize + 1
	}
	if p.Page < 1 {
		return 1
	}
	return p.Page
}
