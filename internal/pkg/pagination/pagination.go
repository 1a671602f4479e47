package pagination

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 50

// MaxLimit is the maximum number of items per page
const MaxLimit = 500

// GetParams extracts pagination parameters from request
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))
	return NewParams(page, limit)
}

// NewParams clamps page and limit into range
func NewParams(page, limit int) *Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	// pages past math.MaxInt/limit cannot hold any item; pin the offset past the end
	offset := math.MaxInt
	if page-1 <= (math.MaxInt-limit)/limit {
		offset = (page - 1) * limit
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// Slice returns the page of items selected by params.
// Procedures return complete result sets, so paging happens in memory.
func Slice[T any](items []T, params *Params) []T {
	if params.Offset < 0 || params.Offset >= len(items) {
		return []T{}
	}
	end := params.Offset + params.Limit
	if end < params.Offset || end > len(items) {
		end = len(items)
	}
	return items[params.Offset:end]
}

// Response represents paginated response
type Response struct {
	Items interface{} `json:"items"`
	Meta  *Meta       `json:"meta"`
}

// NewResponse creates a new paginated response
func NewResponse(items interface{}, params *Params, total int64) *Response {
	return &Response{
		Items: items,
		Meta:  GetMeta(params, total),
	}
}
