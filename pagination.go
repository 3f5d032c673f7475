package rowset

import (
	"fmt"

	"github.com/samber/lo"
)

// PaginationRule restricts cursor traversal to one page of the view.
type PaginationRule struct {
	Enabled     bool
	RowsPerPage int
	CurrentPage int
}

// DefaultPaginationRule returns a disabled rule on the first page with
// DefaultRowsPerPage rows per page.
func DefaultPaginationRule() PaginationRule {
	return PaginationRule{
		Enabled:     false,
		RowsPerPage: DefaultRowsPerPage,
		CurrentPage: 1,
	}
}

func (p PaginationRule) validate() error {
	if p.RowsPerPage <= 0 {
		return ruleErrorf(RuleKindPagination, "rows per page must be positive, got %d", p.RowsPerPage)
	}
	if p.CurrentPage < 1 {
		return ruleErrorf(RuleKindPagination, "current page must be at least 1, got %d", p.CurrentPage)
	}
	if !pageFits(p.CurrentPage, p.RowsPerPage) {
		return ruleErrorf(RuleKindPagination, "page %d of %d rows is out of range", p.CurrentPage, p.RowsPerPage)
	}

	return nil
}

// RawPagination is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging RawPagination `json:",inline"`
//	}
type RawPagination struct {
	// RowsPerPage - maximum number of rows to return in the response.
	RowsPerPage int `json:"rowsPerPage"`
	// PageToken - token obtained via PageToken.String().
	// If empty, the first page is returned.
	PageToken string `json:"pageToken"`
}

// Decode converts RawPagination into an enabled PaginationRule, normalizing
// RowsPerPage and validating PageToken.
func (p RawPagination) Decode() (PaginationRule, error) {
	token, err := DecodePageToken(p.PageToken)
	if err != nil {
		return PaginationRule{}, err
	}

	rule := PaginationRule{
		Enabled:     true,
		RowsPerPage: NormalizeRowsPerPage(p.RowsPerPage),
		CurrentPage: token.Page(),
	}
	if err := rule.validate(); err != nil {
		return PaginationRule{}, err
	}

	return rule, nil
}

// PageResult is one page of a cursor's view.
type PageResult struct {
	// Rows of the page in view order.
	Rows []Row
	// Total number of rows in the view.
	Total int
	// Page number of the returned page.
	Page int
	// RowsPerPage effective page size, 0 when pagination is disabled.
	RowsPerPage int
	// NextPageToken token for the next page, nil on the last page.
	NextPageToken *PageToken
}

// FetchPage executes the cursor and collects the rows of the current page.
func (c *Cursor) FetchPage() PageResult {
	c.Execute()

	rows := make([]Row, 0, lo.Ternary(c.pagination.Enabled, c.pagination.RowsPerPage, 0))
	for row, ok := c.Next(); ok; row, ok = c.Next() {
		rows = append(rows, row)
	}

	return PageResult{
		Rows:          rows,
		Total:         c.Len(),
		Page:          lo.Ternary(c.pagination.Enabled, c.pagination.CurrentPage, 1),
		RowsPerPage:   lo.Ternary(c.pagination.Enabled, c.pagination.RowsPerPage, 0),
		NextPageToken: c.NextPageToken(),
	}
}

// PageCount returns the number of pages of the view. Without pagination the
// whole view is one page.
func (c *Cursor) PageCount() int {
	n := c.Len()
	if !c.pagination.Enabled {
		return lo.Ternary(n > 0, 1, 0)
	}

	return (n + c.pagination.RowsPerPage - 1) / c.pagination.RowsPerPage
}

// IsLastPage returns true if no rows follow the current page.
func (c *Cursor) IsLastPage() bool {
	if !c.pagination.Enabled {
		return true
	}

	return c.pagination.CurrentPage >= c.PageCount()
}

// NextPageToken returns the token of the page after the current one, or nil
// on the last page.
func (c *Cursor) NextPageToken() *PageToken {
	if c.IsLastPage() {
		return nil
	}

	return NewPageToken(c.pagination.CurrentPage + 1)
}

// ExecuteToken enables pagination, moves to the page named by token and
// executes the cursor. An empty token selects the first page.
func (c *Cursor) ExecuteToken(token string) error {
	pageToken, err := DecodePageToken(token)
	if err != nil {
		return fmt.Errorf("cannot execute page token: %w", err)
	}

	c.Execute(WithPage(pageToken.Page()))

	return nil
}
