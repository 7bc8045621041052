package errors

import (
	"fmt"
	"strings"
)

// SyntaxError means a statement did not match the shape its handler expects
type SyntaxError struct {
	Statement string // e.g. "CREATE TABLE"
	Detail    string // optional
}

func (e *SyntaxError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("Invalid %s syntax: %s", e.Statement, e.Detail)
	}
	return fmt.Sprintf("Invalid %s syntax", e.Statement)
}

type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("Table \"%s\" does not exist", e.Table)
}

type TableExistsError struct {
	Table string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("Table \"%s\" already exists", e.Table)
}

type DatabaseNotFoundError struct {
	Database string
}

func (e *DatabaseNotFoundError) Error() string {
	return fmt.Sprintf("Database \"%s\" does not exist", e.Database)
}

type DatabaseExistsError struct {
	Database string
}

func (e *DatabaseExistsError) Error() string {
	return fmt.Sprintf("Database \"%s\" already exists", e.Database)
}

// ColumnNotFoundError is returned when INSERT/UPDATE names an undeclared column
type ColumnNotFoundError struct {
	Table  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("Unknown column \"%s\" in table \"%s\"", e.Column, e.Table)
}

// InvalidColumnsError is returned when a SELECT list resolves to no known column
type InvalidColumnsError struct {
	Requested []string
	Available []string
}

func (e *InvalidColumnsError) Error() string {
	return fmt.Sprintf("Invalid column(s): %s. Available columns: %s",
		strings.Join(e.Requested, ", "), strings.Join(e.Available, ", "))
}

// ConstraintError represents a structural violation detected while building rows
type ConstraintError struct {
	Table      string
	Column     string      // empty if table-level
	Value      interface{} // offending value (may be nil)
	Constraint string      // "column_count", ...
	Reason     string
	RowIndex   int // value group (0-based), -1 if unknown
}

func (e *ConstraintError) Error() string {
	var parts []string

	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("constraint violation in %s.%s", e.Table, e.Column))
	} else {
		parts = append(parts, fmt.Sprintf("constraint violation in %s", e.Table))
	}

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}

	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	if e.RowIndex >= 0 {
		parts = append(parts, fmt.Sprintf("at row %d", e.RowIndex+1))
	}

	return strings.Join(parts, " - ")
}

func NewColumnCountMismatch(table string, rowIndex, columns, values int) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Constraint: "column_count",
		Reason:     fmt.Sprintf("column count (%d) doesn't match value count (%d)", columns, values),
		RowIndex:   rowIndex,
	}
}
