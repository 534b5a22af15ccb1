package domain

import (
	"math"
	"strings"
)

// Paging defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (Page-1)*Limit from overflowing for any accepted limit.
	MaxPage = math.MaxInt / MaxLimit
)

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder maps any case of "desc" to SortDesc and everything else to SortAsc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// ListOptions controls paging and sorting of a list query.
type ListOptions struct {
	Page   int
	Limit  int
	SortBy string
	Order  SortOrder
}

// Normalize clamps paging into range and fills defaults.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Page > MaxPage {
		o.Page = MaxPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Order != SortDesc {
		o.Order = SortAsc
	}
	return o
}

// Offset is the number of rows to skip for the current page.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// UserFilter narrows an admin user listing. Every non-empty field is a
// case-insensitive substring match.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    string
}

// StoreFilter narrows a store listing. Every non-empty field is a
// case-insensitive substring match.
type StoreFilter struct {
	Name    string
	Email   string
	Address string
}

// Pagination describes the page returned with a list response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count for total rows at opts.Limit rows per page.
func NewPagination(total int, opts ListOptions) Pagination {
	pages := 0
	if opts.Limit > 0 {
		pages = (total + opts.Limit - 1) / opts.Limit
	}
	return Pagination{Total: total, Page: opts.Page, Limit: opts.Limit, TotalPages: pages}
}
