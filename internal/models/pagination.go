package models

// PaginatedResponse wraps one page of results with the counters the
// storefront needs to render page controls.
type PaginatedResponse struct {
	Data     any `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}
