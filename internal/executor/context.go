// Package executor holds one handler per statement kind. Every handler
// takes the execution context and the cleaned query text and returns a
// *Result; none of them panic on bad input.
package executor

import (
	"errors"
	"time"

	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/domain/transaction"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/storage/catalog"
)

// Session is the caller-owned state a handler may change
type Session interface {
	SetCurrentDatabase(name string)
	Transaction() *transaction.Transaction
	SetTransaction(tx *transaction.Transaction)
}

// Context carries what a handler works against
type Context struct {
	// DB is the executing database. DROP DATABASE of the executing
	// database sets it to nil so the dispatcher does not write it back.
	DB      *schema.Database
	Catalog *catalog.Catalog
	Session Session
	Now     time.Time
}

var errNoDatabase = errors.New("no database selected")

// Handler implements one statement kind
type Handler func(ctx *Context, query string) *Result

func (c *Context) table(name string) (*schema.Table, error) {
	name = parser.Ident(name)
	if c.DB == nil {
		return nil, &domainerrors.TableNotFoundError{Table: name}
	}
	t, ok := c.DB.Table(name)
	if !ok {
		return nil, &domainerrors.TableNotFoundError{Table: name}
	}
	return t, nil
}
