package pages

import (
	"sponsorship_console/services"
)

// PaginationView is the pagination block of every list payload
type PaginationView struct {
	CurrentPage  int    `json:"current_page"`
	TotalPages   int    `json:"total_pages"`
	TotalCount   int    `json:"total_count"`
	ItemsPerPage int    `json:"items_per_page"`
	Pages        []int  `json:"pages"`
	Showing      string `json:"showing"`
	HasPrevious  bool   `json:"has_previous"`
	HasNext      bool   `json:"has_next"`
}

// ListView is the view-model of a paged list. Rows stay populated when the
// latest fetch failed so the table does not blank out under the error toast.
type ListView[T any] struct {
	Success      bool              `json:"success"`
	Rows         []T               `json:"rows"`
	Pagination   PaginationView    `json:"pagination"`
	Search       string            `json:"search"`
	Filters      map[string]string `json:"filters"`
	Empty        bool              `json:"empty"`
	EmptyMessage string            `json:"empty_message,omitempty"`
	Error        string            `json:"error,omitempty"`
	Seq          uint64            `json:"seq"`
}

// NewListView renders a list snapshot
func NewListView[T any](snap services.ListSnapshot[T], emptyMessage string) ListView[T] {
	rows := snap.Rows
	if rows == nil {
		rows = []T{}
	}
	pages := snap.Pages
	if pages == nil {
		pages = []int{}
	}

	view := ListView[T]{
		Success: snap.Err == nil,
		Rows:    rows,
		Pagination: PaginationView{
			CurrentPage:  snap.Page,
			TotalPages:   snap.TotalPages,
			TotalCount:   snap.TotalCount,
			ItemsPerPage: snap.PageSize,
			Pages:        pages,
			Showing:      snap.Showing,
			HasPrevious:  snap.Page > 1,
			HasNext:      snap.Page < snap.TotalPages,
		},
		Search:  snap.Query.Search,
		Filters: snap.Query.Filters,
		Empty:   snap.Empty,
		Seq:     snap.Seq,
	}
	if snap.Empty {
		view.EmptyMessage = emptyMessage
	}
	if snap.Err != nil {
		view.Error = services.UserMessage(snap.Err)
	}
	return view
}
