// Package pagination defines the request parameters and the response
// envelope shared by every list endpoint.
package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

var (
	ErrInvalidPage     = errors.New("page must be an integer >= 1")
	ErrInvalidPageSize = errors.New("page_size must be an integer between 1 and 1000")
)

// Params is a validated page request.
type Params struct {
	Page     int
	PageSize int
	Search   string
}

// New validates page and pageSize and trims search.
func New(page, pageSize int, search string) (Params, error) {
	if page < 1 {
		return Params{}, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return Params{}, ErrInvalidPageSize
	}
	// The offset (page-1)*pageSize must fit in an int.
	if page-1 > math.MaxInt/pageSize {
		return Params{}, ErrInvalidPage
	}
	return Params{Page: page, PageSize: pageSize, Search: strings.TrimSpace(search)}, nil
}

// FromQuery parses raw query-string values.  Empty values fall back to
// the defaults; anything else must be a valid number in range.
func FromQuery(page, pageSize, search string) (Params, error) {
	p, ps := DefaultPage, DefaultPageSize
	if page = strings.TrimSpace(page); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			return Params{}, ErrInvalidPage
		}
		p = n
	}
	if pageSize = strings.TrimSpace(pageSize); pageSize != "" {
		n, err := strconv.Atoi(pageSize)
		if err != nil {
			return Params{}, ErrInvalidPageSize
		}
		ps = n
	}
	return New(p, ps, search)
}

// Offset is the number of rows to skip: (page-1) * page_size.
func (p Params) Offset() int { return (p.Page - 1) * p.PageSize }

// Limit is the maximum number of rows in the window.
func (p Params) Limit() int { return p.PageSize }

// Page is the response envelope for a list endpoint.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
}

// NewPage wraps one window of items.  Pages is ceil(total / page_size),
// and 0 when there is nothing to show.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if total > 0 && p.PageSize > 0 {
		pages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return Page[T]{
		Items:    items,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Pages:    pages,
	}
}

// Map converts the items of a page, keeping the paging metadata.
func Map[T, U any](pg Page[T], f func(T) U) Page[U] {
	out := make([]U, len(pg.Items))
	for i, it := range pg.Items {
		out[i] = f(it)
	}
	return Page[U]{
		Items:    out,
		Total:    pg.Total,
		Page:     pg.Page,
		PageSize: pg.PageSize,
		Pages:    pg.Pages,
	}
}
