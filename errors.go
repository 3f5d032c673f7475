package rowset

import (
	"errors"
	"fmt"
)

var (
	// ErrNilStore is returned when a Cursor or View is bound to a nil RowStore.
	ErrNilStore = errors.New("row store is nil")

	// ErrNotExecuted is returned by Prev, Current and Remove before the
	// cursor was executed.
	ErrNotExecuted = errors.New("cursor must be executed before it can be iterated")

	// ErrNoCurrentRow is returned by Remove when the cursor does not point
	// at a row of its view.
	ErrNoCurrentRow = errors.New("cursor has no current row")

	// ErrNilCursor is returned when a nil Cursor is passed to RowStore.Splice.
	ErrNilCursor = errors.New("cursor is nil")

	// ErrForeignCursor is returned when a cursor bound to another store is
	// passed to RowStore.Splice.
	ErrForeignCursor = errors.New("cursor is bound to another row store")

	// ErrInvalidRule is the base error for malformed filter, sort and
	// pagination rules. Use errors.Is to test for it.
	ErrInvalidRule = errors.New("invalid rule")
)

// RuleKind names the rule family a RuleError belongs to.
type RuleKind string

const (
	RuleKindFilter     RuleKind = "filter"
	RuleKindSort       RuleKind = "sort"
	RuleKindPagination RuleKind = "pagination"
)

// RuleError describes a structurally malformed rule.
//
// It always unwraps to ErrInvalidRule.
type RuleError struct {
	Kind   RuleKind
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("invalid %s rule: %s", e.Kind, e.Reason)
}

func (e *RuleError) Unwrap() error { return ErrInvalidRule }

func ruleErrorf(kind RuleKind, format string, args ...any) error {
	return &RuleError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
