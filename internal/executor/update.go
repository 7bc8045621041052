package executor

import (
	"regexp"

	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/value"
)

var (
	updateRe     = regexp.MustCompile(`(?is)^UPDATE\s+(\S+)\s+SET\s+(.+?)(?:\s+WHERE\s+(.+))?$`)
	assignmentRe = regexp.MustCompile(`(?s)^([^=\s]+)\s*=\s*(.*)$`)
)

type assignment struct {
	col *schema.Column
	val interface{}
}

// Update applies SET assignments to every row matching WHERE (all rows
// when there is none)
func Update(ctx *Context, query string) *Result {
	n, err := updateRows(ctx, query)
	if err != nil {
		return Fail(QueryUpdate, err)
	}
	res := Succeed(QueryUpdate, "%d row(s) updated", n)
	res.AffectedRows = n
	return res
}

func updateRows(ctx *Context, query string) (int, error) {
	m := clauseMatch(updateRe, query)
	if m == nil {
		return 0, &domainerrors.SyntaxError{Statement: "UPDATE"}
	}
	t, err := ctx.table(m[1])
	if err != nil {
		return 0, err
	}

	var sets []assignment
	for _, pair := range parser.SplitTopLevel(m[2], ',') {
		am := assignmentRe.FindStringSubmatch(pair)
		if am == nil {
			return 0, &domainerrors.SyntaxError{Statement: "UPDATE", Detail: "bad assignment " + pair}
		}
		name := parser.Ident(am[1])
		col, ok := t.Column(name)
		if !ok {
			return 0, &domainerrors.ColumnNotFoundError{Table: t.Name, Column: name}
		}
		sets = append(sets, assignment{col: col, val: setValue(t, col, am[2], ctx)})
	}

	pred := CompileWhere(t, m[3])
	affected := 0
	for _, row := range t.Data {
		if !pred(row) {
			continue
		}
		for _, s := range sets {
			row[s.col.Name] = s.val
		}
		affected++
	}
	return affected, nil
}

// setValue follows the INSERT rules for one SET value; date and time
// columns additionally get their text parsed
func setValue(t *schema.Table, col *schema.Column, raw string, ctx *Context) interface{} {
	switch {
	case value.IsNullToken(raw):
		return nil
	case value.IsDefaultToken(raw):
		if col.HasDefault() {
			return value.DefaultFor(*col, ctx.Now)
		}
		if col.Nullable {
			return nil
		}
		return value.ZeroValue(col.Type)
	}
	v := value.FromToken(*col, raw)
	if col.Type.IsTemporal() {
		v = value.CoerceTemporal(*col, v)
	}
	return v
}
