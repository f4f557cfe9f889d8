// Package pagination slices an ordered collection into fixed-size pages and
// tracks the current page.
package pagination

// DefaultPageSize is the number of items shown per page.
const DefaultPageSize = 10

// View tracks the current page over a collection of a known size. The current
// page is 1-based and always lies in [1, TotalPages()]; an empty collection
// has zero pages and the current page stays at 1.
type View struct {
	size    int
	total   int
	current int
}

// New returns a View with the given page size. A size below 1 selects
// DefaultPageSize.
func New(pageSize int) *View {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &View{size: pageSize, current: 1}
}

// PageSize returns the fixed page size.
func (v *View) PageSize() int { return v.size }

// Current returns the 1-based current page.
func (v *View) Current() int { return v.current }

// Total returns the collection size.
func (v *View) Total() int { return v.total }

// TotalPages returns ceil(total / pageSize).
func (v *View) TotalPages() int {
	return (v.total + v.size - 1) / v.size
}

// SetTotal records a new collection size and clamps the current page so it
// never points past the last page.
func (v *View) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	v.total = n
	if pages := v.TotalPages(); v.current > pages {
		v.current = max(pages, 1)
	}
}

// Reset records a replaced collection and returns to page 1.
func (v *View) Reset(n int) {
	v.current = 1
	v.SetTotal(n)
}

// GoToPage moves to page n. It is a no-op, returning false, when n is outside
// [1, TotalPages()].
func (v *View) GoToPage(n int) bool {
	if n < 1 || n > v.TotalPages() {
		return false
	}
	v.current = n
	return true
}

// Bounds returns the half-open index range of the current page.
func (v *View) Bounds() (start, end int) {
	start = (v.current - 1) * v.size
	if start > v.total {
		start = v.total
	}
	end = min(start+v.size, v.total)
	return start, end
}

// Visible returns the items of the current page.
func Visible[T any](v *View, items []T) []T {
	start, end := v.Bounds()
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return items[start:end]
}
