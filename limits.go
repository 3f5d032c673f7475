package rowset

import "math"

const (
	DefaultRowsPerPage = 25
	MaxRowsPerPage     = 1000
)

// IsNormalizedRowsPerPageMax clamps rowsPerPage into [1, maxRowsPerPage].
// Non-positive values fall back to DefaultRowsPerPage. The boolean is true
// when the value was already in range.
func IsNormalizedRowsPerPageMax(rowsPerPage int, maxRowsPerPage int) (int, bool) {
	if rowsPerPage <= 0 {
		return min(DefaultRowsPerPage, maxRowsPerPage), false
	} else if rowsPerPage > maxRowsPerPage {
		return maxRowsPerPage, false
	}

	return rowsPerPage, true
}

func NormalizeRowsPerPageMax(rowsPerPage int, maxRowsPerPage int) int {
	ret, _ := IsNormalizedRowsPerPageMax(rowsPerPage, maxRowsPerPage)
	return ret
}

func NormalizeRowsPerPage(rowsPerPage int) int {
	return NormalizeRowsPerPageMax(rowsPerPage, MaxRowsPerPage)
}

// NormalizePage maps non-positive page numbers onto the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}

	return page
}

// pageOffset returns the index of the first row of page. ok is false when
// the offset does not fit in an int.
func pageOffset(page, rowsPerPage int) (offset int, ok bool) {
	page = NormalizePage(page)
	if rowsPerPage <= 0 {
		return 0, true
	}
	if page-1 > math.MaxInt/rowsPerPage {
		return math.MaxInt, false
	}

	return (page - 1) * rowsPerPage, true
}

// pageFits reports whether every row index of page fits in an int.
func pageFits(page, rowsPerPage int) bool {
	return rowsPerPage <= 0 || NormalizePage(page) <= math.MaxInt/rowsPerPage
}
