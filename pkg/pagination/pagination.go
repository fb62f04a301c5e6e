package pagination

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Page  int
	Limit int
}

// FromContext extracts page and limit from the query string. Missing,
// non-numeric and non-positive values fall back to the defaults; limit is
// capped at MaxLimit. A page whose offset would overflow int falls back to
// DefaultPage.
func FromContext(c echo.Context) Params {
	page := positiveInt(c.QueryParam("page"), DefaultPage)
	limit := positiveInt(c.QueryParam("limit"), DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page-1 > math.MaxInt/limit {
		page = DefaultPage
	}
	return Params{Page: page, Limit: limit}
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Skip returns the number of rows before the requested page.
func (p Params) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Take returns the page size.
func (p Params) Take() int {
	return p.Limit
}

// Meta describes where a page sits in the full result set.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Result wraps one page of items.
type Result[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

func NewResult[T any](data []T, total int, p Params) *Result[T] {
	if data == nil {
		data = []T{}
	}
	return &Result[T]{
		Data: data,
		Pagination: Meta{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: TotalPages(total, p.Limit),
		},
	}
}

// TotalPages returns ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
