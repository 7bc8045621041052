package executor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/parser"
)

var (
	dropTableRe = regexp.MustCompile(`(?is)^DROP\s+(?:TEMPORARY\s+)?TABLE\s+(IF\s+EXISTS\s+)?(.+?)(?:\s+(?:CASCADE|RESTRICT))?$`)
	truncateRe  = regexp.MustCompile(`(?is)^TRUNCATE\s+(?:TABLE\s+)?(\S+)$`)
)

// DropTable removes one or more tables. With several names, nothing is
// dropped unless all of them exist (or IF EXISTS is given).
func DropTable(ctx *Context, query string) *Result {
	m := dropTableRe.FindStringSubmatch(query)
	if m == nil {
		return Fail(QueryDrop, &domainerrors.SyntaxError{Statement: "DROP TABLE"})
	}
	ifExists := m[1] != ""

	var names []string
	for _, item := range parser.SplitTopLevel(m[2], ',') {
		name := parser.Ident(item)
		if _, err := ctx.table(name); err != nil {
			if ifExists {
				continue
			}
			return Fail(QueryDrop, err)
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return Succeed(QueryDrop, "No tables dropped")
	}
	for _, name := range names {
		ctx.DB.RemoveTable(name)
	}
	if len(names) == 1 {
		return Succeed(QueryDrop, "Table %q dropped", names[0])
	}
	return Succeed(QueryDrop, "Tables %s dropped", quoteList(names))
}

// Truncate removes every row and reports how many there were
func Truncate(ctx *Context, query string) *Result {
	m := truncateRe.FindStringSubmatch(query)
	if m == nil {
		return Fail(QueryTruncate, &domainerrors.SyntaxError{Statement: "TRUNCATE"})
	}
	t, err := ctx.table(m[1])
	if err != nil {
		return Fail(QueryTruncate, err)
	}

	n := len(t.Data)
	t.Data = make([]data.Row, 0)
	res := Succeed(QueryTruncate, "Table %q truncated", t.Name)
	res.AffectedRows = n
	return res
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
