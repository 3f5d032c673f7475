package rowset

// SchemaValidator decides which rows a RowStore accepts. It is consulted on
// insertion only.
type SchemaValidator interface {
	IsValidRow(row Row) bool
	IsValidField(column string, value any) bool
}

// SortHints are per-column sort defaults supplied by a schema.
type SortHints struct {
	Direction   Direction
	Comparator  SortComparator
	Transformer Transformer
}

// SortHinter is implemented by validators that carry per-column sort
// defaults. When the store's validator implements it, the hints fill in the
// parts of a SortRule the caller left unset.
type SortHinter interface {
	SortHints(column string) (SortHints, bool)
}

// withHints fills the unset parts of rule from hints.
func (o SortRule) withHints(hints SortHints) SortRule {
	if o.Direction == DirectionNone {
		o.Direction = hints.Direction
	}
	if o.Comparator == nil {
		o.Comparator = hints.Comparator
	}
	if o.Transformer == nil {
		o.Transformer = hints.Transformer
	}

	return o
}
