package catalog

import (
	"math"
	"time"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/validation"
)

// rehydrate restores typed cell values lost in the JSON round trip:
// timestamp-looking strings become time.Time and whole numbers in integer
// columns become int64 again
func rehydrate(db *schema.Database) {
	if db.Tables == nil {
		db.Tables = make([]*schema.Table, 0)
	}
	for _, t := range db.Tables {
		if t.Data == nil {
			t.Data = make([]data.Row, 0)
		}
		if t.Indexes == nil {
			t.Indexes = make([]string, 0)
		}
		if t.Constraints == nil {
			t.Constraints = make([]schema.Constraint, 0)
		}
		for _, row := range t.Data {
			for k, v := range row {
				row[k] = rehydrateValue(t, k, v)
			}
		}
	}
}

func rehydrateValue(t *schema.Table, column string, v interface{}) interface{} {
	switch x := v.(type) {
	case string:
		if !validation.LooksLikeTimestamp(x) {
			return x
		}
		if ts, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return ts.UTC()
		}
	case float64:
		if col, ok := t.Column(column); ok && col.Type.IsInteger() && x == math.Trunc(x) {
			return int64(x)
		}
	}
	return v
}
