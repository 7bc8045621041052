package executor

import (
	"regexp"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
)

var deleteRe = regexp.MustCompile(`(?is)^DELETE\s+FROM\s+(\S+)(?:\s+WHERE\s+(.+))?$`)

// Delete removes the rows matching WHERE, or every row when there is none
func Delete(ctx *Context, query string) *Result {
	n, err := deleteRows(ctx, query)
	if err != nil {
		return Fail(QueryDelete, err)
	}
	res := Succeed(QueryDelete, "%d row(s) deleted", n)
	res.AffectedRows = n
	return res
}

func deleteRows(ctx *Context, query string) (int, error) {
	m := clauseMatch(deleteRe, query)
	if m == nil {
		return 0, &domainerrors.SyntaxError{Statement: "DELETE"}
	}
	t, err := ctx.table(m[1])
	if err != nil {
		return 0, err
	}

	if m[2] == "" {
		n := len(t.Data)
		t.Data = make([]data.Row, 0)
		return n, nil
	}

	pred := CompileWhere(t, m[2])
	kept := make([]data.Row, 0, len(t.Data))
	for _, row := range t.Data {
		if !pred(row) {
			kept = append(kept, row)
		}
	}
	n := len(t.Data) - len(kept)
	t.Data = kept
	return n, nil
}
