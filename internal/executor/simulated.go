package executor

import (
	"regexp"
	"strings"

	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/domain/transaction"
	"github.com/leengari/sqlsandbox/internal/parser"
)

// The handlers in this file acknowledge a statement without applying it.
// Their results carry Simulated so callers can tell them apart from real
// mutations.

var (
	alterRe       = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+(\S+)\s+(.+)$`)
	createIndexRe = regexp.MustCompile(`(?is)^CREATE\s+(?:UNIQUE\s+|FULLTEXT\s+|SPATIAL\s+)?INDEX\s+(\S+)\s+ON\s+([^\s(]+)\s*\(([^)]*)\)`)
	dropIndexRe   = regexp.MustCompile(`(?is)^DROP\s+INDEX\s+(\S+)(?:\s+ON\s+(\S+))?$`)
	beginRe       = regexp.MustCompile(`(?i)^(BEGIN|START\s+TRANSACTION)\b`)
	commitRe      = regexp.MustCompile(`(?i)^COMMIT\b`)
	rollbackRe    = regexp.MustCompile(`(?i)^ROLLBACK\b`)
)

func simulated(qt QueryType, format string, args ...interface{}) *Result {
	res := Succeed(qt, format, args...)
	res.Simulated = true
	return res
}

// Alter checks that the table exists and otherwise leaves it unchanged
func Alter(ctx *Context, query string) *Result {
	m := alterRe.FindStringSubmatch(query)
	if m == nil {
		return Fail(QueryAlter, &domainerrors.SyntaxError{Statement: "ALTER TABLE"})
	}
	t, err := ctx.table(m[1])
	if err != nil {
		return Fail(QueryAlter, err)
	}
	return simulated(QueryAlter, "Table %q altered (simulated, structure unchanged)", t.Name)
}

// CreateIndex acknowledges CREATE INDEX on an existing table
func CreateIndex(ctx *Context, query string) *Result {
	m := createIndexRe.FindStringSubmatch(query)
	if m == nil {
		return Fail(QueryCreate, &domainerrors.SyntaxError{Statement: "CREATE INDEX"})
	}
	t, err := ctx.table(m[2])
	if err != nil {
		return Fail(QueryCreate, err)
	}
	return simulated(QueryCreate, "Index %q created on %q (simulated)", parser.Ident(m[1]), t.Name)
}

// DropIndex acknowledges DROP INDEX
func DropIndex(ctx *Context, query string) *Result {
	m := dropIndexRe.FindStringSubmatch(query)
	if m == nil {
		return Fail(QueryDrop, &domainerrors.SyntaxError{Statement: "DROP INDEX"})
	}
	if m[2] != "" {
		if _, err := ctx.table(m[2]); err != nil {
			return Fail(QueryDrop, err)
		}
	}
	return simulated(QueryDrop, "Index %q dropped (simulated)", parser.Ident(m[1]))
}

// Transaction handles BEGIN, START TRANSACTION, COMMIT and ROLLBACK.
// Statements always apply immediately; the session only remembers that
// a transaction was opened.
func Transaction(ctx *Context, query string) *Result {
	q := strings.TrimSpace(query)

	switch {
	case beginRe.MatchString(q):
		if tx := currentTx(ctx); tx != nil && tx.Active {
			return simulated(QueryTransaction, "Transaction %s already active (simulated)", tx.ID)
		}
		tx := transaction.NewTransaction(ctx.Now)
		if ctx.Session != nil {
			ctx.Session.SetTransaction(tx)
		}
		return simulated(QueryTransaction, "Transaction %s started (simulated, statements apply immediately)", tx.ID)

	case commitRe.MatchString(q):
		return closeTx(ctx, "committed", "")

	case rollbackRe.MatchString(q):
		return closeTx(ctx, "rolled back", ", changes were not undone")
	}
	return Fail(QueryTransaction, &domainerrors.SyntaxError{Statement: "TRANSACTION"})
}

func currentTx(ctx *Context) *transaction.Transaction {
	if ctx.Session == nil {
		return nil
	}
	return ctx.Session.Transaction()
}

func closeTx(ctx *Context, verb, note string) *Result {
	tx := currentTx(ctx)
	if tx == nil || !tx.Active {
		return simulated(QueryTransaction, "No active transaction, nothing %s", verb)
	}
	tx.Close()
	ctx.Session.SetTransaction(nil)
	return simulated(QueryTransaction, "Transaction %s %s (simulated%s)", tx.ID, verb, note)
}
