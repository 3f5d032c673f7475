package rowset

// Row is one record: an open mapping from field name to value.
//
// Rows are held by reference. The store never copies or mutates them.
type Row map[string]any

// record is the store-owned handle of a row. pos is the position tag used as
// the stable sort tie-breaker; it equals the record's index after every
// structural change to the store.
type record struct {
	row Row
	pos int
}

// LoadResult counts rows accepted and rejected by a bulk load.
type LoadResult struct {
	Accepted int
	Rejected int
}

// isNullish reports whether v is a missing value: nil or the empty string.
// An absent key reads as nil from a Row.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}

	return false
}

func recordsToRows(records []*record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.row)
	}

	return rows
}
