package schema

import (
	"fmt"
	"strings"
)

// ColumnType is one of the MySQL-like type names accepted by CREATE TABLE
type ColumnType string

const (
	ColumnTypeInt        ColumnType = "INT"
	ColumnTypeInteger    ColumnType = "INTEGER"
	ColumnTypeTinyInt    ColumnType = "TINYINT"
	ColumnTypeSmallInt   ColumnType = "SMALLINT"
	ColumnTypeMediumInt  ColumnType = "MEDIUMINT"
	ColumnTypeBigInt     ColumnType = "BIGINT"
	ColumnTypeDecimal    ColumnType = "DECIMAL"
	ColumnTypeNumeric    ColumnType = "NUMERIC"
	ColumnTypeFloat      ColumnType = "FLOAT"
	ColumnTypeDouble     ColumnType = "DOUBLE"
	ColumnTypeReal       ColumnType = "REAL"
	ColumnTypeVarchar    ColumnType = "VARCHAR"
	ColumnTypeChar       ColumnType = "CHAR"
	ColumnTypeText       ColumnType = "TEXT"
	ColumnTypeTinyText   ColumnType = "TINYTEXT"
	ColumnTypeMediumText ColumnType = "MEDIUMTEXT"
	ColumnTypeLongText   ColumnType = "LONGTEXT"
	ColumnTypeBoolean    ColumnType = "BOOLEAN"
	ColumnTypeBool       ColumnType = "BOOL"
	ColumnTypeDate       ColumnType = "DATE"
	ColumnTypeDateTime   ColumnType = "DATETIME"
	ColumnTypeTimestamp  ColumnType = "TIMESTAMP"
	ColumnTypeTime       ColumnType = "TIME"
	ColumnTypeYear       ColumnType = "YEAR"
	ColumnTypeJSON       ColumnType = "JSON"
	ColumnTypeBlob       ColumnType = "BLOB"
	ColumnTypeEnum       ColumnType = "ENUM"
)

// DefaultCurrentTimestamp is the sentinel stored in Column.DefaultValue
// for DEFAULT CURRENT_TIMESTAMP
const DefaultCurrentTimestamp = "CURRENT_TIMESTAMP"

// IsInteger reports whether values of this type are stored as int64
func (t ColumnType) IsInteger() bool {
	switch t {
	case ColumnTypeInt, ColumnTypeInteger, ColumnTypeTinyInt, ColumnTypeSmallInt,
		ColumnTypeMediumInt, ColumnTypeBigInt, ColumnTypeYear:
		return true
	}
	return false
}

// IsFloat reports whether values of this type are stored as float64
func (t ColumnType) IsFloat() bool {
	switch t {
	case ColumnTypeDecimal, ColumnTypeNumeric, ColumnTypeFloat, ColumnTypeDouble, ColumnTypeReal:
		return true
	}
	return false
}

// IsNumeric is IsInteger or IsFloat
func (t ColumnType) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// IsBoolean reports BOOLEAN/BOOL
func (t ColumnType) IsBoolean() bool {
	return t == ColumnTypeBoolean || t == ColumnTypeBool
}

// IsTemporal reports whether UPDATE parses values of this type into time.Time
func (t ColumnType) IsTemporal() bool {
	switch t {
	case ColumnTypeDate, ColumnTypeDateTime, ColumnTypeTimestamp, ColumnTypeTime:
		return true
	}
	return false
}

// ForeignKeyRef is an inline REFERENCES clause on a column
type ForeignKeyRef struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Column describes one declared column of a table
type Column struct {
	Name          string         `json:"name"`
	Type          ColumnType     `json:"type"`
	Length        string         `json:"length,omitempty"` // raw text inside the type parens, e.g. "10,2"
	Nullable      bool           `json:"nullable"`
	PrimaryKey    bool           `json:"primaryKey"`
	AutoIncrement bool           `json:"autoIncrement"`
	Unique        bool           `json:"unique"`
	DefaultValue  interface{}    `json:"defaultValue"`
	ForeignKey    *ForeignKeyRef `json:"foreignKey,omitempty"`
}

// HasDefault reports whether a non-NULL DEFAULT was declared
func (c Column) HasDefault() bool {
	return c.DefaultValue != nil
}

// SQLType renders the type the way DESCRIBE shows it, e.g. "varchar(50)"
func (c Column) SQLType() string {
	t := strings.ToLower(string(c.Type))
	if c.Length != "" {
		return fmt.Sprintf("%s(%s)", t, c.Length)
	}
	return t
}
