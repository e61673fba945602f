package pagination

import (
	"math"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a normalized page request.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Meta describes a page of results for the client.
type Meta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// FromRequest clamps raw query values; garbage falls back to page 1 / DefaultLimit.
func FromRequest(pageStr, limitStr string) Params {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// Skip is the number of documents to skip in the store query.
func (p Params) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

func (p Params) Meta(total int64) Meta {
	pages := int(math.Ceil(float64(total) / float64(p.Limit)))
	if pages < 1 {
		pages = 1
	}

	return Meta{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
}
