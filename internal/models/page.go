package models

// Page is a paginated list response
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// PageRequest holds page-number pagination parameters
type PageRequest struct {
	Page  int
	Limit int
}

// Offset returns the zero-based index of the first item on the page
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
