// Package pagination computes the page-number layout of the pagination control.
package pagination

// Item is one slot of the pagination control: a page number or an ellipsis marker.
type Item struct {
	Page     int
	Ellipsis bool
}

// PageItem returns the item for page p.
func PageItem(p int) Item { return Item{Page: p} }

// EllipsisItem is the gap marker.
var EllipsisItem = Item{Ellipsis: true}

// TotalPages returns how many pages total items occupy, never less than one.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return max(pages, 1)
}

// Window lays out the pagination control for current out of totalPages.
//
// Page 1 and the last page are always present, with up to three pages centred on
// current between them. A gap of two or more pages collapses into one ellipsis; a gap
// of exactly one page shows that page instead, so the output never exceeds seven items.
// This departs from the plain "ellipsis whenever the window starts after page 2" layout:
// (4, 10) gives 1 2 3 4 5 … 10 rather than 1 … 3 4 5 … 10, so no ellipsis ever hides a
// single page.
// Callers hide the control when totalPages <= 1; Window then returns just page 1.
func Window(current, totalPages int) []Item {
	if totalPages < 1 {
		totalPages = 1
	}
	current = clamp(current, 1, totalPages)

	items := make([]Item, 0, 7)
	push := func(it Item) {
		if n := len(items); n > 0 && items[n-1] == it {
			return
		}
		items = append(items, it)
	}

	windowStart := max(2, current-1)
	windowEnd := totalPages - 1
	if current < windowEnd {
		windowEnd = current + 1
	}

	push(PageItem(1))

	switch {
	case windowStart == 3:
		push(PageItem(2))
	case windowStart > 3:
		push(EllipsisItem)
	}

	for p := windowStart; p <= windowEnd; p++ {
		push(PageItem(p))
	}

	switch {
	case windowEnd == totalPages-2:
		push(PageItem(totalPages - 1))
	case windowEnd < totalPages-2:
		push(EllipsisItem)
	}

	if totalPages > 1 {
		push(PageItem(totalPages))
	}

	return items
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
