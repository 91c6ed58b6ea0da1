package utils

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 30
	MaxPageSize     = 50
	MaxPage         = 1_000_000
)

// PageParams selects one page of a listing. Page is zero based.
type PageParams struct {
	Page   int    `form:"page" validate:"gte=0,lte=1000000"`
	Size   int    `form:"size" validate:"gte=1,lte=50"`
	SortBy string `form:"sortBy"`
}

func DefaultPageParams() PageParams {
	return PageParams{Page: 0, Size: DefaultPageSize, SortBy: "id"}
}

// Offset is the number of rows before the page. Page and size are clamped to
// their limits so the product cannot overflow.
func (p PageParams) Offset() int {
	page, size := min(max(p.Page, 0), MaxPage), min(max(p.Size, 0), MaxPageSize)
	return page * size
}

// Order returns the ORDER BY clause for p. Columns outside allowed fall back
// to the first allowed column. A leading '-' sorts descending.
func (p PageParams) Order(allowed ...string) string {
	column, desc := p.SortBy, false
	if strings.HasPrefix(column, "-") {
		column, desc = column[1:], true
	}

	valid := false
	for _, a := range allowed {
		if a == column {
			valid = true
			break
		}
	}
	if !valid {
		if len(allowed) == 0 {
			return "id"
		}
		column = allowed[0]
	}

	if desc {
		return column + " DESC"
	}
	return column
}

// Scope applies limit and offset to a gorm query.
func (p PageParams) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.Size)
}

// Paged is one page of results.
type Paged[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

func NewPaged[T any](content []T, p PageParams, total int64) Paged[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if p.Size > 0 {
		totalPages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Paged[T]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          p.Page >= totalPages-1,
	}
}

// MapPaged converts the content of a page.
func MapPaged[T, R any](in Paged[T], fn func(T) R) Paged[R] {
	out := make([]R, 0, len(in.Content))
	for _, v := range in.Content {
		out = append(out, fn(v))
	}
	return Paged[R]{
		Content:       out,
		Page:          in.Page,
		Size:          in.Size,
		TotalElements: in.TotalElements,
		TotalPages:    in.TotalPages,
		Last:          in.Last,
	}
}
