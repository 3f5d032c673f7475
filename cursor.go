package rowset

import (
	"fmt"
	"slices"
)

// Cursor is a pagination-aware bidirectional iterator over a filtered and
// sorted view of a RowStore.
//
// Rules accumulate on the cursor and take effect on the next Execute (or the
// first Next, which executes implicitly). Sort rules reorder the shared
// store; other cursors of the same store pick the new order up on their next
// access.
//
// A cursor whose view is rebuilt after another cursor sorted the store keeps
// its position, and rows that tie on all of its own sort rules take the order
// the other cursor left behind. Iterating across such a rebuild can repeat
// or skip tied rows; Execute again to restart from a consistent order.
type Cursor struct {
	store  *RowStore
	view   *View
	logger *Logger

	pagination PaginationRule
	position   int
	executed   bool
	current    *record
}

// NewCursor creates a cursor over store.
func NewCursor(store *RowStore) (*Cursor, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	return newCursor(store), nil
}

func newCursor(store *RowStore) *Cursor {
	c := &Cursor{
		store:      store,
		view:       newView(store),
		logger:     store.logger,
		pagination: DefaultPaginationRule(),
	}
	c.position = c.minRow() - 1

	return c
}

// Store returns the store the cursor iterates.
func (c *Cursor) Store() *RowStore {
	return c.store
}

// AddFilterRule appends rule to the filter rules.
func (c *Cursor) AddFilterRule(rule FilterRule) error {
	if err := rule.validate(); err != nil {
		return fmt.Errorf("cannot add filter rule: %w", err)
	}

	c.view.setFilters(append(c.view.filters, rule))

	return nil
}

// SetFilterRules replaces the filter rules. An executed cursor is executed
// again. Nothing changes if any rule is malformed.
func (c *Cursor) SetFilterRules(rules ...FilterRule) error {
	if err := FilterRules(rules).validate(); err != nil {
		return fmt.Errorf("cannot set filter rules: %w", err)
	}

	c.view.setFilters(slices.Clone(rules))
	if c.executed {
		c.Execute()
	}

	return nil
}

func (c *Cursor) ClearFilterRules() {
	c.view.setFilters(nil)
}

// FilterRules returns a copy of the filter rules.
func (c *Cursor) FilterRules() FilterRules {
	return slices.Clone(c.view.filters)
}

// AddSortRule appends rule to the sort rules. Rules are applied in order, so
// the last one decides the primary order.
func (c *Cursor) AddSortRule(rule SortRule) error {
	if err := rule.validate(); err != nil {
		return fmt.Errorf("cannot add sort rule: %w", err)
	}

	c.view.setSorts(append(c.view.sorts, rule))

	return nil
}

// SetSortRules replaces the sort rules. Nothing changes if any rule is
// malformed.
func (c *Cursor) SetSortRules(rules ...SortRule) error {
	if err := SortRules(rules).validate(); err != nil {
		return fmt.Errorf("cannot set sort rules: %w", err)
	}

	c.view.setSorts(slices.Clone(rules))

	return nil
}

func (c *Cursor) ClearSortRules() {
	c.view.setSorts(nil)
}

// SortRules returns a copy of the sort rules.
func (c *Cursor) SortRules() SortRules {
	return slices.Clone(c.view.sorts)
}

// SetPaginationRule replaces the pagination rule.
func (c *Cursor) SetPaginationRule(rule PaginationRule) error {
	if err := rule.validate(); err != nil {
		return fmt.Errorf("cannot set pagination rule: %w", err)
	}

	c.pagination = rule

	return nil
}

func (c *Cursor) Pagination() PaginationRule {
	return c.pagination
}

// SetPage selects the page returned by the next Execute.
func (c *Cursor) SetPage(page int) error {
	rule := c.pagination
	rule.CurrentPage = page

	return c.SetPaginationRule(rule)
}

// SetRowsPerPage changes the page size and goes back to the first page.
func (c *Cursor) SetRowsPerPage(rowsPerPage int) error {
	rule := c.pagination
	rule.RowsPerPage = rowsPerPage
	rule.CurrentPage = 1

	return c.SetPaginationRule(rule)
}

func (c *Cursor) SetPaginationEnabled(enabled bool) {
	c.pagination.Enabled = enabled
}

// Where adds a filter rule matching rows whose field satisfies comparator
// against any of values. A malformed rule is logged and dropped.
func (c *Cursor) Where(field string, comparator Comparator, values ...any) *Cursor {
	rule := NewFilterRule(field, comparator, values...)
	if err := rule.validate(); err != nil {
		c.logger.LogRuleRejected(RuleKindFilter, err)
		return c
	}

	c.view.setFilters(append(c.view.filters, rule))

	return c
}

// And is an alias of Where that reads better in chains.
func (c *Cursor) And(field string, comparator Comparator, values ...any) *Cursor {
	return c.Where(field, comparator, values...)
}

// OrderBy adds a sort rule. A malformed rule is logged and dropped.
func (c *Cursor) OrderBy(column string, direction Direction) *Cursor {
	rule := SortRule{Column: column, Direction: direction}
	if err := rule.validate(); err != nil {
		c.logger.LogRuleRejected(RuleKindSort, err)
		return c
	}

	c.view.setSorts(append(c.view.sorts, rule))

	return c
}

// ExecuteOption configures a single Execute call.
type ExecuteOption func(*Cursor)

// WithPage enables pagination and selects page. Pages below 1 select the
// first page.
func WithPage(page int) ExecuteOption {
	return func(c *Cursor) {
		c.pagination.Enabled = true
		c.pagination.CurrentPage = NormalizePage(page)
	}
}

// Execute rebuilds the view if its rules or the store changed and moves the
// cursor before the first row of the current page.
func (c *Cursor) Execute(opts ...ExecuteOption) *Cursor {
	for _, opt := range opts {
		opt(c)
	}

	c.position = c.minRow() - 1
	c.current = nil
	c.view.ensure()
	c.executed = true

	return c
}

// Executed reports whether the cursor was executed since it was created or
// last reset.
func (c *Cursor) Executed() bool {
	return c.executed
}

// minRow and maxRow bound the current page. A page whose rows lie beyond
// the int range starts and ends past the last row of the view.
func (c *Cursor) minRow() int {
	if !c.pagination.Enabled {
		return 0
	}
	if !pageFits(c.pagination.CurrentPage, c.pagination.RowsPerPage) {
		return len(c.view.records)
	}

	offset, _ := pageOffset(c.pagination.CurrentPage, c.pagination.RowsPerPage)

	return offset
}

func (c *Cursor) maxRow() int {
	if !c.pagination.Enabled {
		return len(c.view.records)
	}
	if !pageFits(c.pagination.CurrentPage, c.pagination.RowsPerPage) {
		return len(c.view.records)
	}

	return c.pagination.CurrentPage*c.pagination.RowsPerPage - 1
}

// inPage reports whether the position points at a row of the current page.
func (c *Cursor) inPage() bool {
	return c.position >= c.minRow() &&
		c.position <= c.maxRow() &&
		c.position >= 0 &&
		c.position < len(c.view.records)
}

func (c *Cursor) settle() {
	c.current = nil
	if c.inPage() {
		c.current = c.view.records[c.position]
	}
}

// Next advances the cursor and returns the row it lands on. It executes the
// cursor first if needed. ok is false once the page or the view is
// exhausted.
func (c *Cursor) Next() (Row, bool) {
	if !c.executed {
		c.Execute()
	}

	c.view.ensure()
	if c.position <= c.maxRow() {
		c.position++
	}
	c.settle()

	return c.currentRow()
}

// Prev moves the cursor back and returns the row it lands on.
func (c *Cursor) Prev() (Row, bool, error) {
	if !c.executed {
		return nil, false, ErrNotExecuted
	}

	c.view.ensure()
	if c.position >= c.minRow() {
		c.position--
	}
	c.settle()

	row, ok := c.currentRow()

	return row, ok, nil
}

// Current returns the row last returned by Next or Prev, or the row that
// took the place of a removed one.
func (c *Cursor) Current() (Row, bool, error) {
	if !c.executed {
		return nil, false, ErrNotExecuted
	}

	row, ok := c.currentRow()

	return row, ok, nil
}

func (c *Cursor) currentRow() (Row, bool) {
	if c.current == nil {
		return nil, false
	}

	return c.current.row, true
}

// Remove deletes the current row from the view and from the store. The row
// that moves into its place becomes the current row, so a removal loop
// continues with Current rather than Next:
//
//	row, ok := c.Next()
//	for ok {
//		if drop(row) {
//			_ = c.Remove()
//			row, ok, _ = c.Current()
//			continue
//		}
//		row, ok = c.Next()
//	}
func (c *Cursor) Remove() error {
	if !c.executed {
		return ErrNotExecuted
	}
	if c.current == nil {
		return ErrNoCurrentRow
	}

	c.view.ensure()

	idx := c.position
	if idx < 0 || idx >= len(c.view.records) || c.view.records[idx] != c.current {
		idx = slices.Index(c.view.records, c.current)
	}
	if idx == -1 || !c.store.remove(c.current) {
		c.current = nil
		return ErrNoCurrentRow
	}
	c.view.removeAt(idx)

	c.position = idx
	for c.position > len(c.view.records) {
		c.position--
	}
	c.settle()

	return nil
}

// Len returns the number of rows matching the filter rules, ignoring
// pagination.
func (c *Cursor) Len() int {
	return c.view.Len()
}

// Reset clears the filter and sort rules and returns the cursor to the
// unexecuted state. Pagination is kept.
func (c *Cursor) Reset() {
	c.ClearFilterRules()
	c.ClearSortRules()

	c.position = c.minRow() - 1
	c.current = nil
	c.executed = false
}

// Rows returns every row of the view in order, ignoring pagination.
func (c *Cursor) Rows() []Row {
	return c.view.Rows()
}
