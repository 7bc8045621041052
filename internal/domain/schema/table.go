package schema

import (
	"math"
	"strconv"
	"strings"

	"github.com/leengari/sqlsandbox/internal/domain/data"
)

// ConstraintType classifies a table-level constraint
type ConstraintType string

const (
	ConstraintPrimaryKey ConstraintType = "PRIMARY_KEY"
	ConstraintForeignKey ConstraintType = "FOREIGN_KEY"
	ConstraintUnique     ConstraintType = "UNIQUE"
	ConstraintCheck      ConstraintType = "CHECK"
	ConstraintIndex      ConstraintType = "INDEX"
)

// Constraint is recorded from CREATE TABLE for bookkeeping only.
// Nothing enforces it at write time.
type Constraint struct {
	Type              ConstraintType `json:"type"`
	Name              string         `json:"name"`
	Columns           []string       `json:"columns"`
	ReferencedTable   string         `json:"referencedTable,omitempty"`
	ReferencedColumns []string       `json:"referencedColumns,omitempty"`
	OnDelete          string         `json:"onDelete,omitempty"`
	OnUpdate          string         `json:"onUpdate,omitempty"`
}

// Table represents a database table with its columns and rows.
// Every key of a row in Data is the Name of one of Columns.
type Table struct {
	Name        string       `json:"name"`
	Columns     []Column     `json:"columns"`
	Data        []data.Row   `json:"data"`
	Indexes     []string     `json:"indexes"`
	Constraints []Constraint `json:"constraints"`
	Engine      string       `json:"engine,omitempty"`
	Charset     string       `json:"charset,omitempty"`
}

// NewTable creates an empty table with the given columns
func NewTable(name string, columns []Column) *Table {
	return &Table{
		Name:        name,
		Columns:     columns,
		Data:        make([]data.Row, 0),
		Indexes:     make([]string, 0),
		Constraints: make([]Constraint, 0),
	}
}

// Column looks up a column by case-insensitive name
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns the declared column names in declaration order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// AutoIncrementColumn returns the column that is both AUTO_INCREMENT and
// PRIMARY KEY, if any
func (t *Table) AutoIncrementColumn() *Column {
	for i := range t.Columns {
		if t.Columns[i].AutoIncrement && t.Columns[i].PrimaryKey {
			return &t.Columns[i]
		}
	}
	return nil
}

// NextAutoIncrement returns max(existing values of col)+1, starting from 0.
// Deleting the current max row therefore lets the next insert reuse its id.
func (t *Table) NextAutoIncrement(col string) int64 {
	var max int64
	for _, row := range t.Data {
		if v, ok := normalizeToInt64(row[col]); ok && v > max {
			max = v
		}
	}
	return max + 1
}

// normalizeToInt64 converts the numeric shapes a cell can hold to int64
func normalizeToInt64(val interface{}) (int64, bool) {
	switch v := val.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(math.Floor(v)), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int64(math.Floor(f)), true
		}
	}
	return 0, false
}
