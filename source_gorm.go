package rowset

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Apply applies the page window to a gorm query. A disabled rule leaves db
// as is.
func (p PaginationRule) Apply(db *gorm.DB) *gorm.DB {
	if !p.Enabled {
		return db
	}

	db = db.Limit(p.RowsPerPage)
	// An offset past the int range saturates, which selects no rows.
	if offset, _ := pageOffset(p.CurrentPage, p.RowsPerPage); offset > 0 {
		db = db.Offset(offset)
	}

	return db
}

// GORMSource loads rows of a table into a RowStore, pushing the filter,
// sort and pagination rules down into the query.
//
// The pushed-down filter uses SQL comparison semantics. Loose equality and
// JavaScript-style coercion are only available in memory, so load with
// coarse rules and refine them on a Cursor when exact in-memory semantics
// matter.
type GORMSource struct {
	DB         *gorm.DB
	Table      string
	Filters    FilterRules
	Sorts      SortRules
	Pagination PaginationRule
}

func (s GORMSource) validate() error {
	if s.DB == nil {
		return fmt.Errorf("gorm source has no database")
	}
	if s.Table == "" {
		return fmt.Errorf("gorm source has no table")
	}
	if !lo.Every(_availableColumnNameSymbols, []rune(s.Table)) {
		return fmt.Errorf("table name contains forbidden symbols '%s'", s.Table)
	}

	if err := s.Sorts.validateSQL(); err != nil {
		return err
	}

	if s.Pagination.Enabled {
		return s.Pagination.validate()
	}

	return nil
}

// Query builds the SELECT statement without running it.
func (s GORMSource) Query(ctx context.Context) (*gorm.DB, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("cannot build query: %w", err)
	}

	db := s.DB.WithContext(ctx).Table(s.Table)

	where, err := s.Filters.ToGORMExpression()
	if err != nil {
		return nil, fmt.Errorf("cannot build query: %w", err)
	}
	if where != nil {
		db = db.Where(where)
	}

	db = s.Sorts.Apply(db)
	db = s.Pagination.Apply(db)

	return db, nil
}

// Load runs the query and replaces the contents of store with the result.
func (s GORMSource) Load(ctx context.Context, store *RowStore) (LoadResult, error) {
	if store == nil {
		return LoadResult{}, ErrNilStore
	}

	db, err := s.Query(ctx)
	if err != nil {
		return LoadResult{}, err
	}

	var found []map[string]any
	if err = db.Find(&found).Error; err != nil {
		return LoadResult{}, fmt.Errorf("failed to load rows from '%s': %w", s.Table, err)
	}

	rows := lo.Map(found, func(item map[string]any, _ int) Row {
		return Row(item)
	})

	return store.ReplaceAll(rows), nil
}

// LoadGORM loads the rows of table matching filters, ordered by sorts, into
// store.
func LoadGORM(
	ctx context.Context,
	db *gorm.DB,
	table string,
	store *RowStore,
	filters FilterRules,
	sorts SortRules,
) (LoadResult, error) {
	return GORMSource{
		DB:      db,
		Table:   table,
		Filters: filters,
		Sorts:   sorts,
	}.Load(ctx, store)
}
