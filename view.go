package rowset

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// View is a filtered and sorted projection of a RowStore. It references the
// store's rows and never copies them.
//
// Filtering and sorting are cached separately and rebuilt lazily. Sorting is
// applied to the store itself, so it changes the order every other view of
// the same store sees; those views notice on their next access and rebuild.
type View struct {
	store   *RowStore
	filters FilterRules
	sorts   SortRules

	records     []*record
	filterValid bool
	sortValid   bool
	// version is the store version the records were derived from.
	version uint64
	// applied holds the directions the sort rules resolved to when they were
	// last applied. Rebuilds caused by changes elsewhere in the store replay
	// them, so a rule without direction does not toggle again.
	applied []Direction
}

// NewView creates an empty view over store with no rules.
func NewView(store *RowStore) (*View, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	return newView(store), nil
}

func newView(store *RowStore) *View {
	return &View{store: store}
}

// Refresh replaces the view's rules and rebuilds it.
func (v *View) Refresh(filters FilterRules, sorts SortRules) error {
	if err := filters.validate(); err != nil {
		return fmt.Errorf("cannot refresh view: %w", err)
	}
	if err := sorts.validate(); err != nil {
		return fmt.Errorf("cannot refresh view: %w", err)
	}

	v.setFilters(slices.Clone(filters))
	v.setSorts(slices.Clone(sorts))
	v.ensure()

	return nil
}

// Len returns the number of rows matching the filter rules. It does not
// sort the store.
func (v *View) Len() int {
	v.ensureFiltered()

	return len(v.records)
}

// Rows returns the filtered rows in sorted order.
func (v *View) Rows() []Row {
	v.ensure()

	return recordsToRows(v.records)
}

func (v *View) setFilters(filters FilterRules) {
	v.filters = filters
	v.filterValid = false
}

func (v *View) setSorts(sorts SortRules) {
	v.sorts = sorts
	v.sortValid = false
	v.applied = nil
}

// sync drops both caches when the store changed since the last build.
func (v *View) sync() {
	if v.version != v.store.version {
		v.filterValid = false
		v.sortValid = false
	}
}

func (v *View) ensureFiltered() {
	v.sync()
	if !v.filterValid {
		v.rebuildFilter()
	}
}

func (v *View) ensure() {
	v.ensureFiltered()
	if !v.sortValid {
		v.rebuildSort()
	}
}

func (v *View) rebuildFilter() {
	v.records = lo.Filter(v.store.records, func(rec *record, _ int) bool {
		return v.filters.Matches(rec.row)
	})
	v.filterValid = true
	v.version = v.store.version
}

func (v *View) rebuildSort() {
	if len(v.sorts) > 0 {
		replay := len(v.applied) == len(v.sorts)
		applied := make([]Direction, 0, len(v.sorts))
		for i, rule := range v.sorts {
			if replay {
				rule.Direction = v.applied[i]
			}
			applied = append(applied, v.store.applySort(rule))
		}
		v.applied = applied

		// Sorting does not change which rows match, only their order.
		slices.SortFunc(v.records, func(a, b *record) int {
			return cmp.Compare(a.pos, b.pos)
		})
	}

	v.sortValid = true
	v.version = v.store.version
}

// removeAt drops the record at i after it was removed from the store.
func (v *View) removeAt(i int) {
	v.records = slices.Delete(v.records, i, i+1)
	v.version = v.store.version
}
