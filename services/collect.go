package services

import (
	"context"
	"fmt"
)

// ExportPageSize is the page size used when walking a whole list
const ExportPageSize = 50

// CollectAll walks every page of q through a throwaway controller and
// returns all rows. progress, when set, is called after each page.
func CollectAll[T any](ctx context.Context, fetch Fetcher[T], q ListQuery, filters []FilterSpec, progress func(ListSnapshot[T])) ([]T, error) {
	list := NewListController(fetch, ListOptions{Name: "export", PageSize: ExportPageSize, Filters: filters})
	defer list.Close()

	q.Page = 1
	q.PageSize = ExportPageSize
	snap, err := list.Apply(ctx, q)
	if err != nil {
		return nil, err
	}

	rows := append([]T{}, snap.Rows...)
	if progress != nil {
		progress(snap)
	}
	for page := 2; page <= snap.TotalPages; page++ {
		next, err := list.SetPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if next.Page != page {
			// the list shrank while we were reading it
			break
		}
		rows = append(rows, next.Rows...)
		if progress != nil {
			progress(next)
		}
	}
	return rows, nil
}
