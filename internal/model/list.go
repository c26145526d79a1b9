// internal/model/list.go
package model

import "strings"

const (
	SortAsc  = "ASC"
	SortDesc = "DESC"

	DefaultSortField = "id"
)

// sortFields is the allow-list of sortable customer columns.
var sortFields = map[string]bool{
	"id":           true,
	"first_name":   true,
	"last_name":    true,
	"phone_number": true,
}

// CustomerListQuery carries search, sort and paging for the customer list.
type CustomerListQuery struct {
	Search string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

// SortField returns the requested column when allowed and id otherwise.
func SortField(field string) string {
	if sortFields[field] {
		return field
	}
	return DefaultSortField
}

// SortDirection is DESC only for a case-insensitive "desc".
func SortDirection(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), "desc") {
		return SortDesc
	}
	return SortAsc
}

func (q CustomerListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Pagination is the envelope returned next to a page of customers.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
	Limit       int  `json:"limit"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
		Limit:       limit,
	}
}
