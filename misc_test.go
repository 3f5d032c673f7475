package rowset

import (
	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

// newTestStore creates a store with a silent logger.
func newTestStore(rows ...Row) *RowStore {
	return NewRowStore(WithLogger(NoopLogger()), WithRows(rows))
}

// column extracts one field of every row.
func column(rows []Row, field string) []any {
	ret := make([]any, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row[field])
	}

	return ret
}

// drain collects the rows Next returns until it runs out.
func drain(c *Cursor) []Row {
	var rows []Row
	for row, ok := c.Next(); ok; row, ok = c.Next() {
		rows = append(rows, row)
	}

	return rows
}
