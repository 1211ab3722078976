package models

// MaxPage bounds the page number accepted by list endpoints.
const MaxPage = 10000

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ListFilter carries the search, activity and paging knobs shared by every list endpoint.
type ListFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Count wraps a single aggregate returned by count endpoints.
type Count struct {
	Count int `json:"count"`
}
