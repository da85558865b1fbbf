package views

// PageSize is the number of rows per page in every paginated list
const PageSize = 10

// Page is one page of a filtered list
type Page[T any] struct {
	Items      []T
	Number     int // 1-based, clamped to [1, TotalPages]
	TotalPages int // at least 1
	Total      int
}

// Paginate returns page number of items. Out-of-range pages are clamped.
func Paginate[T any](items []T, number int) Page[T] {
	total := len(items)
	pages := (total + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	number = ClampPage(number, pages)

	start := (number - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     number,
		TotalPages: pages,
		Total:      total,
	}
}

// ClampPage keeps number within [1, pages]
func ClampPage(number, pages int) int {
	if pages < 1 {
		pages = 1
	}
	if number < 1 {
		return 1
	}
	if number > pages {
		return pages
	}
	return number
}

// HasNext reports whether a later page exists
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}
