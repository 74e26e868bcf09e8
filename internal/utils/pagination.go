package utils

import (
	"math"
	"strconv"
)

// DefaultPageSize applies when page is given without page_size
const DefaultPageSize = 20

// MaxPageSize caps page_size
const MaxPageSize = 100

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// PaginationResponse represents pagination response metadata
type PaginationResponse struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Offset returns the row offset for the page
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// CalculatePaginationInfo calculates pagination metadata
func CalculatePaginationInfo(total, page, pageSize int) PaginationResponse {
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	return PaginationResponse{
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// ParsePaginationFromQuery parses pagination parameters from query string.
// ok is false when neither parameter is present, meaning the whole list is wanted.
func ParsePaginationFromQuery(pageStr, pageSizeStr string) (params PaginationParams, ok bool) {
	if pageStr == "" && pageSizeStr == "" {
		return PaginationParams{}, false
	}

	params = PaginationParams{Page: 1, PageSize: DefaultPageSize}
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		params.Page = p
	}
	if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps > 0 {
		params.PageSize = ps
	}
	if params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}
	return params, true
}
