package models

// ListResponse is the paginated list payload shared by list endpoints.
// Total is the match count before pagination.
type ListResponse[T any] struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Items    []T `json:"items"`
}

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Default pagination values shared by every list query.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
)
