package models

// Pagination is the block every paged backend response carries
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Page is one settled page of rows from any list endpoint. CurrentPage is
// the page the backend actually served, which may differ from the one asked.
type Page[T any] struct {
	Rows        []T
	TotalCount  int
	CurrentPage int
}

// NewPage builds a Page from rows and the backend pagination block
func NewPage[T any](rows []T, p Pagination) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{Rows: rows, TotalCount: p.TotalCount, CurrentPage: p.CurrentPage}
}

// Ref is the small {id, name, email} object nested in many responses
type Ref struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Option is a value/label pair used by type and method pickers
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
