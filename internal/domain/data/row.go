package data

// Row represents a single table row
// Key = column name, Value = cell value (int64, float64, string, bool, time.Time or nil)
type Row map[string]interface{}

// Copy creates a shallow copy of the row to prevent mutation
func (r Row) Copy() Row {
	copy := make(Row, len(r))
	for k, v := range r {
		copy[k] = v
	}
	return copy
}

// Project returns a new row holding only the given columns, in the
// canonical names given
func (r Row) Project(columns []string) Row {
	out := make(Row, len(columns))
	for _, c := range columns {
		out[c] = r[c]
	}
	return out
}
