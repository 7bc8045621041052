package executor

import (
	"errors"
	"regexp"
	"strings"

	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/parser"
)

var (
	createDatabaseRe = regexp.MustCompile(`(?is)^CREATE\s+(?:DATABASE|SCHEMA)\s+(IF\s+NOT\s+EXISTS\s+)?([^\s;]+)`)
	dropDatabaseRe   = regexp.MustCompile(`(?is)^DROP\s+(?:DATABASE|SCHEMA)\s+(IF\s+EXISTS\s+)?([^\s;]+)$`)
	useRe            = regexp.MustCompile(`(?is)^USE\s+(\S+)$`)
)

// CreateDatabase adds an empty database to the catalog
func CreateDatabase(ctx *Context, query string) *Result {
	m := createDatabaseRe.FindStringSubmatch(query)
	if m == nil {
		return Fail(QueryCreate, &domainerrors.SyntaxError{Statement: "CREATE DATABASE"})
	}
	name := parser.Ident(m[2])

	if _, err := ctx.Catalog.CreateDatabase(name, ""); err != nil {
		var exists *domainerrors.DatabaseExistsError
		if m[1] != "" && errors.As(err, &exists) {
			return Succeed(QueryCreate, "Database %q already exists, skipped", name)
		}
		return Fail(QueryCreate, err)
	}
	return Succeed(QueryCreate, "Database %q created successfully", name)
}

// DropDatabase deletes a database from the catalog. Dropping the
// executing database clears ctx.DB.
func DropDatabase(ctx *Context, query string) *Result {
	m := dropDatabaseRe.FindStringSubmatch(query)
	if m == nil {
		return Fail(QueryDrop, &domainerrors.SyntaxError{Statement: "DROP DATABASE"})
	}
	name := parser.Ident(m[2])

	if err := ctx.Catalog.DeleteDatabase(name); err != nil {
		var missing *domainerrors.DatabaseNotFoundError
		if m[1] != "" && errors.As(err, &missing) {
			return Succeed(QueryDrop, "Database %q does not exist, skipped", name)
		}
		return Fail(QueryDrop, err)
	}

	if ctx.DB != nil && strings.EqualFold(ctx.DB.Name, name) {
		ctx.DB = nil
		if ctx.Session != nil {
			ctx.Session.SetCurrentDatabase("")
		}
	}
	return Succeed(QueryDrop, "Database %q dropped", name)
}

// Use switches the session's current database
func Use(ctx *Context, query string) *Result {
	m := useRe.FindStringSubmatch(query)
	if m == nil {
		return Fail(QueryUse, &domainerrors.SyntaxError{Statement: "USE"})
	}

	db, err := ctx.Catalog.Database(parser.Ident(m[1]))
	if err != nil {
		return Fail(QueryUse, err)
	}
	if err := ctx.Catalog.SetCurrentDatabase(db.Name); err != nil {
		return Fail(QueryUse, err)
	}
	if ctx.Session != nil {
		ctx.Session.SetCurrentDatabase(db.Name)
	}
	return Succeed(QueryUse, "Database changed to %q", db.Name)
}
