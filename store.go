package rowset

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// RowStore owns an ordered collection of rows and the multi-column sort that
// reorders it.
//
// A RowStore is not safe for concurrent use. Several Cursors may share one
// store; each of them detects changes made through the others and rebuilds
// its view on the next access.
type RowStore struct {
	records   []*record
	validator SchemaValidator
	logger    *Logger

	sortColumn    string
	sortDirection Direction

	// version is bumped on every structural change so that views can tell
	// they are stale.
	version uint64
}

// NewRowStore creates an empty store. Rows passed with WithRows are loaded
// after the validator is attached.
func NewRowStore(opts ...Option) *RowStore {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	s := &RowStore{
		validator: o.validator,
		logger:    o.logger,
	}
	if s.logger == nil {
		s.logger = NewLogger(nil)
	}

	if o.rows != nil {
		s.ReplaceAll(o.rows)
	}

	return s
}

// Insert appends row unless it is nil or rejected by the validator.
// Returns whether the row was accepted.
func (s *RowStore) Insert(row Row) bool {
	if !s.insert(row) {
		return false
	}
	s.bump()

	return true
}

func (s *RowStore) insert(row Row) bool {
	if row == nil {
		s.logger.Warn("a nil data row was rejected")
		return false
	}

	if len(row) == 0 {
		s.logger.Warn("an empty data row was inserted")
	}

	if s.validator != nil && !s.validator.IsValidRow(row) {
		s.logger.Debug("a data row failed schema validation", "row", row)
		return false
	}

	s.records = append(s.records, &record{row: row, pos: len(s.records)})

	return true
}

// ReplaceAll truncates the store and inserts rows in order.
func (s *RowStore) ReplaceAll(rows []Row) LoadResult {
	s.truncate()

	result := LoadResult{}
	for _, row := range rows {
		if s.insert(row) {
			result.Accepted++
		} else {
			result.Rejected++
		}
	}
	s.bump()
	s.logger.LogLoad(result)

	return result
}

// SetValidator attaches v and re-validates the rows already in the store,
// dropping the ones v rejects. A nil v detaches the validator.
func (s *RowStore) SetValidator(v SchemaValidator) LoadResult {
	s.validator = v

	result := LoadResult{}
	kept := s.records[:0]
	for _, rec := range s.records {
		if v != nil && !v.IsValidRow(rec.row) {
			result.Rejected++
			continue
		}
		kept = append(kept, rec)
		result.Accepted++
	}
	clear(s.records[len(kept):])
	s.records = kept

	s.reindex()
	s.bump()
	s.logger.LogLoad(result)

	return result
}

// Validator returns the attached validator, if any.
func (s *RowStore) Validator() SchemaValidator {
	return s.validator
}

// Logger returns the logger shared by the store and its cursors.
func (s *RowStore) Logger() *Logger {
	return s.logger
}

func (s *RowStore) Len() int {
	return len(s.records)
}

// Rows returns the rows in their current order. The slice is a snapshot,
// the rows are not copied.
func (s *RowStore) Rows() []Row {
	return recordsToRows(s.records)
}

// Row returns the row at index i.
func (s *RowStore) Row(i int) (Row, bool) {
	if i < 0 || i >= len(s.records) {
		return nil, false
	}

	return s.records[i].row, true
}

// Reindex sets every row's position tag to its current index.
func (s *RowStore) Reindex() {
	s.reindex()
	s.bump()
}

func (s *RowStore) reindex() {
	for i, rec := range s.records {
		rec.pos = i
	}
}

// SortState returns the column and direction of the last sort, or an empty
// column if the store has not been sorted since it was last truncated.
func (s *RowStore) SortState() (string, Direction) {
	return s.sortColumn, s.sortDirection
}

// Sort reorders the store by rule.
//
// Rows whose value is missing (absent, nil or "") sink below present ones
// before a descending sort reverses the sequence, so for DirectionDESC they
// come first. Ties keep their previous relative order, which makes repeated
// sorts on different columns compose into a multi-column sort.
//
// A rule without direction on the column the store is already sorted by
// reverses the current order instead.
func (s *RowStore) Sort(rule SortRule) error {
	if err := rule.validate(); err != nil {
		return err
	}

	s.applySort(rule)

	return nil
}

// applySort sorts a validated rule and returns the direction it resolved to.
func (s *RowStore) applySort(rule SortRule) Direction {
	if rule.Direction == DirectionNone && s.sortColumn != "" && rule.Column == s.sortColumn {
		slices.Reverse(s.records)
		s.sortDirection = s.sortDirection.Reverse()
		s.reindex()
		s.bump()

		s.logger.Trace("data rows sort toggled", "column", rule.Column, "direction", s.sortDirection)

		return s.sortDirection
	}

	if hinter, ok := s.validator.(SortHinter); ok {
		if hints, ok := hinter.SortHints(rule.Column); ok {
			rule = rule.withHints(hints)
		}
	}

	direction := rule.Direction
	if direction == DirectionNone {
		direction = DirectionASC
	}
	comparator := rule.Comparator
	if comparator == nil {
		comparator = DefaultSortComparator
	}

	tieBreak := func(a, b *record) int {
		if direction == DirectionDESC {
			return cmp.Compare(b.pos, a.pos)
		}

		return cmp.Compare(a.pos, b.pos)
	}

	slices.SortStableFunc(s.records, func(a, b *record) int {
		av, bv := a.row[rule.Column], b.row[rule.Column]
		if rule.Transformer != nil {
			av, bv = rule.Transformer(av), rule.Transformer(bv)
		}

		aMissing, bMissing := isNullish(av), isNullish(bv)
		switch {
		case aMissing && bMissing:
			return tieBreak(a, b)
		case aMissing:
			return 1
		case bMissing:
			return -1
		case strictEqual(av, bv):
			return tieBreak(a, b)
		default:
			return comparator(av, bv)
		}
	})

	if direction == DirectionDESC {
		slices.Reverse(s.records)
	}

	s.reindex()
	s.sortColumn = rule.Column
	s.sortDirection = direction
	s.bump()

	s.logger.Trace("data rows sorted", "column", rule.Column, "direction", direction)

	return direction
}

// Truncate empties the store and forgets the current sort.
func (s *RowStore) Truncate() {
	s.truncate()
	s.bump()
}

func (s *RowStore) truncate() {
	clear(s.records)
	s.records = s.records[:0]
	s.sortColumn = ""
	s.sortDirection = DirectionNone
}

// Clone returns a store with the same validator, logger and sort state whose
// rows are shallow copies of this store's rows. The copies are re-validated.
func (s *RowStore) Clone() *RowStore {
	clone := &RowStore{
		validator: s.validator,
		logger:    s.logger,
	}

	rows := make([]Row, 0, len(s.records))
	for _, rec := range s.records {
		rows = append(rows, maps.Clone(rec.row))
	}
	clone.ReplaceAll(rows)

	clone.sortColumn = s.sortColumn
	clone.sortDirection = s.sortDirection

	return clone
}

// Find returns the first row that loosely equals match on every field of
// match. Missing values (nil or "") in match are ignored.
func (s *RowStore) Find(match Row) (Row, bool) {
	for _, rec := range s.records {
		if rowMatchesExample(rec.row, match) {
			return rec.row, true
		}
	}

	return nil, false
}

func rowMatchesExample(row, match Row) bool {
	for field, want := range match {
		if isNullish(want) {
			continue
		}

		got, ok := row[field]
		if !ok || !looseEqual(got, want) {
			return false
		}
	}

	return true
}

// Splice removes every row of the cursor's view from the store, ignoring
// pagination, and returns how many rows were removed. The cursor must be
// bound to this store.
func (s *RowStore) Splice(c *Cursor) (int, error) {
	if c == nil {
		return 0, fmt.Errorf("cannot splice: %w", ErrNilCursor)
	}
	if c.store != s {
		return 0, fmt.Errorf("cannot splice: %w", ErrForeignCursor)
	}

	c.view.ensure()

	removed := make(map[*record]struct{}, len(c.view.records))
	for _, rec := range c.view.records {
		removed[rec] = struct{}{}
	}
	if len(removed) == 0 {
		return 0, nil
	}

	s.records = slices.DeleteFunc(s.records, func(rec *record) bool {
		_, ok := removed[rec]
		return ok
	})
	s.reindex()
	s.bump()

	s.logger.Debug("data rows spliced", "count", len(removed))

	return len(removed), nil
}

// NewCursor creates a Cursor over the store.
func (s *RowStore) NewCursor() *Cursor {
	return newCursor(s)
}

// remove deletes rec from the store and reports whether it was found.
func (s *RowStore) remove(rec *record) bool {
	idx := rec.pos
	if idx < 0 || idx >= len(s.records) || s.records[idx] != rec {
		idx = slices.Index(s.records, rec)
	}
	if idx == -1 {
		return false
	}

	s.records = slices.Delete(s.records, idx, idx+1)
	s.reindex()
	s.bump()

	return true
}

func (s *RowStore) bump() {
	s.version++
}
