package executor

import (
	"errors"
	"fmt"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
)

// QueryType names the statement kind a handler implements
type QueryType string

const (
	QuerySelect      QueryType = "SELECT"
	QueryInsert      QueryType = "INSERT"
	QueryUpdate      QueryType = "UPDATE"
	QueryDelete      QueryType = "DELETE"
	QueryCreate      QueryType = "CREATE"
	QueryDrop        QueryType = "DROP"
	QueryAlter       QueryType = "ALTER"
	QueryTruncate    QueryType = "TRUNCATE"
	QueryShow        QueryType = "SHOW"
	QueryDescribe    QueryType = "DESCRIBE"
	QueryUse         QueryType = "USE"
	QueryExplain     QueryType = "EXPLAIN"
	QueryTransaction QueryType = "TRANSACTION"
	QueryUnknown     QueryType = "UNKNOWN"
)

// Mutating reports whether a successful statement of this type changes the
// executing database and must be persisted
func (q QueryType) Mutating() bool {
	switch q {
	case QueryCreate, QueryDrop, QueryAlter, QueryInsert, QueryUpdate, QueryDelete, QueryTruncate:
		return true
	}
	return false
}

// Result is the uniform shape every handler returns
type Result struct {
	Success      bool       `json:"success"`
	Output       string     `json:"output"`
	Error        string     `json:"error,omitempty"`
	ResultSet    []data.Row `json:"resultSet,omitempty"`
	Columns      []string   `json:"columns,omitempty"`
	RowCount     int        `json:"rowCount"`
	AffectedRows int        `json:"affectedRows"`
	QueryType    QueryType  `json:"queryType,omitempty"`

	// ExecutionTime is wall-clock milliseconds
	ExecutionTime float64 `json:"executionTime"`

	// SimulatedMemoryMB is a synthetic figure. Nothing is measured.
	SimulatedMemoryMB float64 `json:"memory"`

	Database string `json:"database"`

	// Simulated marks statements that were acknowledged but not applied
	Simulated bool `json:"simulated,omitempty"`
}

// Succeed builds a successful result carrying only a message
func Succeed(qt QueryType, format string, args ...interface{}) *Result {
	return &Result{
		Success:   true,
		Output:    fmt.Sprintf(format, args...),
		QueryType: qt,
	}
}

// Rows builds a successful result carrying a result set
func Rows(qt QueryType, columns []string, rows []data.Row) *Result {
	if rows == nil {
		rows = []data.Row{}
	}
	return &Result{
		Success:   true,
		Output:    fmt.Sprintf("%d row(s) returned", len(rows)),
		ResultSet: rows,
		Columns:   columns,
		RowCount:  len(rows),
		QueryType: qt,
	}
}

// Fail converts a handler error into a failed result. Errors from the
// domain taxonomy are reported verbatim; anything else is unexpected and
// gets the "<TYPE> error:" prefix.
func Fail(qt QueryType, err error) *Result {
	msg := err.Error()
	if !isDomainError(err) {
		msg = fmt.Sprintf("%s error: %s", qt, msg)
	}
	return &Result{
		Success:   false,
		Output:    msg,
		Error:     msg,
		QueryType: qt,
	}
}

func isDomainError(err error) bool {
	var (
		syntax       *domainerrors.SyntaxError
		tableMissing *domainerrors.TableNotFoundError
		tableExists  *domainerrors.TableExistsError
		dbMissing    *domainerrors.DatabaseNotFoundError
		dbExists     *domainerrors.DatabaseExistsError
		column       *domainerrors.ColumnNotFoundError
		invalid      *domainerrors.InvalidColumnsError
		constraint   *domainerrors.ConstraintError
	)
	return errors.As(err, &syntax) ||
		errors.As(err, &tableMissing) ||
		errors.As(err, &tableExists) ||
		errors.As(err, &dbMissing) ||
		errors.As(err, &dbExists) ||
		errors.As(err, &column) ||
		errors.As(err, &invalid) ||
		errors.As(err, &constraint)
}
