package pagination

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	// MaxPage and MaxLimit cap what a caller may request, keeping
	// (page-1)*limit well inside int range.
	MaxPage  = 1_000_000
	MaxLimit = 1_000
)

type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Meta is the pagination block returned next to every list.
type Meta struct {
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

// Parse reads raw page/limit query values. Missing, malformed or
// non-positive values fall back to the defaults; values above MaxPage or
// MaxLimit are clamped.
func Parse(page, limit string) Params {
	p := min(positiveOr(page, DefaultPage), MaxPage)
	l := min(positiveOr(limit, DefaultLimit), MaxLimit)
	return Params{
		Page:   p,
		Limit:  l,
		Offset: (p - 1) * l,
	}
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// NewMeta computes totalPages = ceil(total/limit), never less than 1.
func NewMeta(totalCount int64, params Params) Meta {
	limit := params.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	pages := int((totalCount + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return Meta{
		TotalCount: totalCount,
		TotalPages: pages,
		Page:       params.Page,
		Limit:      limit,
	}
}
