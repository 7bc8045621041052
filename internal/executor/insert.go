package executor

import (
	"regexp"
	"strings"
	"time"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/value"
)

var insertRe = regexp.MustCompile(`(?is)^INSERT\s+INTO\s+([^\s(]+)\s*(?:\(([^)]*)\))?\s*VALUES?\s*(.+)$`)

// Insert appends one row per VALUES group. Either every group is inserted
// or none is.
func Insert(ctx *Context, query string) *Result {
	n, err := insertRows(ctx, query)
	if err != nil {
		return Fail(QueryInsert, err)
	}
	res := Succeed(QueryInsert, "%d row(s) inserted", n)
	res.AffectedRows = n
	return res
}

func insertRows(ctx *Context, query string) (int, error) {
	m := insertRe.FindStringSubmatch(query)
	if m == nil {
		return 0, &domainerrors.SyntaxError{Statement: "INSERT"}
	}
	t, err := ctx.table(m[1])
	if err != nil {
		return 0, err
	}

	targets, err := insertTargets(t, m[2])
	if err != nil {
		return 0, err
	}

	groups, err := parser.ValueGroups(m[3])
	if err != nil {
		return 0, &domainerrors.SyntaxError{Statement: "INSERT", Detail: err.Error()}
	}

	// rows are appended as they are built so that auto-increment sees the
	// ids generated earlier in the same statement; on error the table is
	// cut back to its original length
	original := len(t.Data)
	for i, group := range groups {
		row, err := buildRow(t, targets, group, i, ctx.Now)
		if err != nil {
			t.Data = t.Data[:original]
			return 0, err
		}
		t.Data = append(t.Data, row)
	}
	return len(groups), nil
}

// insertTargets resolves the explicit column list, or all columns in
// declaration order when there is none
func insertTargets(t *schema.Table, list string) ([]*schema.Column, error) {
	if strings.TrimSpace(list) == "" {
		targets := make([]*schema.Column, len(t.Columns))
		for i := range t.Columns {
			targets[i] = &t.Columns[i]
		}
		return targets, nil
	}

	var targets []*schema.Column
	for _, item := range parser.SplitTopLevel(list, ',') {
		name := parser.Ident(item)
		c, ok := t.Column(name)
		if !ok {
			return nil, &domainerrors.ColumnNotFoundError{Table: t.Name, Column: name}
		}
		targets = append(targets, c)
	}
	return targets, nil
}

func buildRow(t *schema.Table, targets []*schema.Column, group []string, index int, now time.Time) (data.Row, error) {
	if len(group) > len(targets) {
		return nil, domainerrors.NewColumnCountMismatch(t.Name, index, len(targets), len(group))
	}

	row := make(data.Row, len(t.Columns))
	for i, raw := range group {
		col := targets[i]
		switch {
		case value.IsDefaultToken(raw):
			row[col.Name] = backfill(t, col, now)
		case value.IsNullToken(raw) && col.AutoIncrement && col.PrimaryKey:
			row[col.Name] = t.NextAutoIncrement(col.Name)
		case value.IsNullToken(raw):
			row[col.Name] = nil
		default:
			row[col.Name] = value.FromToken(*col, raw)
		}
	}

	for i := range t.Columns {
		col := &t.Columns[i]
		if _, set := row[col.Name]; !set {
			row[col.Name] = backfill(t, col, now)
		}
	}
	return row, nil
}

// backfill is the value of a column the statement did not provide:
// the next auto-increment id, the declared default, NULL when nullable,
// otherwise the zero value of the column's type family
func backfill(t *schema.Table, col *schema.Column, now time.Time) interface{} {
	switch {
	case col.AutoIncrement && col.PrimaryKey:
		return t.NextAutoIncrement(col.Name)
	case col.HasDefault():
		return value.DefaultFor(*col, now)
	case col.Nullable:
		return nil
	default:
		return value.ZeroValue(col.Type)
	}
}
