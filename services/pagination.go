package services

import "fmt"

// MaxPageButtons is the width of the page-number window
const MaxPageButtons = 5

// PageSizes are the page sizes a list may be shown with
var PageSizes = []int{5, 10, 25, 50}

// DefaultPageSize is used when a list does not pick one
const DefaultPageSize = 10

// TotalPages returns ceil(totalCount/itemsPerPage), 0 for an empty list
func TotalPages(totalCount, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		itemsPerPage = 1
	}
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + itemsPerPage - 1) / itemsPerPage
}

// ClampPage keeps page inside [1, max(1,totalPages)]
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageWindow returns the page numbers to render as buttons: every page when
// there are at most five, otherwise five contiguous pages around currentPage.
func PageWindow(currentPage, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	currentPage = ClampPage(currentPage, totalPages)

	var start int
	switch {
	case totalPages <= MaxPageButtons:
		start = 1
	case currentPage <= 3:
		start = 1
	case currentPage >= totalPages-2:
		start = totalPages - MaxPageButtons + 1
	default:
		start = currentPage - 2
	}

	size := min(MaxPageButtons, totalPages)
	pages := make([]int, size)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

// RowRange returns the 1-based first and last row shown on page and the
// "Showing X to Y of N" label.
func RowRange(page, itemsPerPage, totalCount int) (first, last int, label string) {
	if totalCount <= 0 {
		return 0, 0, "Showing 0 to 0 of 0"
	}
	if itemsPerPage <= 0 {
		itemsPerPage = 1
	}
	page = ClampPage(page, TotalPages(totalCount, itemsPerPage))
	first = RowNumber(page, itemsPerPage, 0)
	last = min(RowNumber(page, itemsPerPage, itemsPerPage-1), totalCount)
	return first, last, fmt.Sprintf("Showing %d to %d of %d", first, last, totalCount)
}

// RowNumber is the 1-based number of the index-th row of page
func RowNumber(page, itemsPerPage, index int) int {
	if page < 1 {
		page = 1
	}
	return (page-1)*itemsPerPage + index + 1
}

// ValidPageSize reports whether n is one of PageSizes
func ValidPageSize(n int) bool {
	for _, size := range PageSizes {
		if size == n {
			return true
		}
	}
	return false
}
