// Package value converts SQL literal text into typed cell values and
// compares cell values the way WHERE and ORDER BY need.
package value

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/validation"
)

var (
	leadingInt   = regexp.MustCompile(`^\s*[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// IsQuoted reports whether s is wrapped in a matching pair of ', " or `
func IsQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '\'' || q == '"' || q == '`') && s[len(s)-1] == q
}

// Dequote strips one matching pair of ', " or ` and unescapes doubled
// or backslash-escaped quotes inside. Unquoted input is returned trimmed.
func Dequote(s string) string {
	s = strings.TrimSpace(s)
	if !IsQuoted(s) {
		return s
	}
	q := string(s[0])
	inner := s[1 : len(s)-1]
	inner = strings.ReplaceAll(inner, q+q, q)
	inner = strings.ReplaceAll(inner, `\`+q, q)
	return inner
}

// IsNullToken reports whether a raw (still quoted) token is the NULL keyword
func IsNullToken(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "NULL")
}

// IsDefaultToken reports whether a raw token is the DEFAULT keyword
func IsDefaultToken(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "DEFAULT")
}

// ParseInt mimics a lenient integer parse: the leading integer prefix, or 0
func ParseInt(s string) int64 {
	m := leadingInt.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(m), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseFloat mimics a lenient float parse: the leading numeric prefix, or 0
func ParseFloat(s string) float64 {
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0
	}
	return f
}

// Truthy is the BOOLEAN coercion: "true" (any case) or "1"
func Truthy(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "true") || s == "1"
}

// ZeroValue is the back-fill for a NOT NULL column with no default
func ZeroValue(t schema.ColumnType) interface{} {
	switch {
	case t.IsInteger():
		return int64(0)
	case t.IsFloat():
		return float64(0)
	case t.IsBoolean():
		return false
	default:
		return ""
	}
}

// Coerce converts v to the storage type of col. Strings are parsed
// leniently; already-typed values are converted between numeric shapes.
// Temporal columns are left alone here, see CoerceTemporal.
func Coerce(col schema.Column, v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch {
	case col.Type.IsInteger():
		switch x := v.(type) {
		case string:
			return ParseInt(x)
		case int64:
			return x
		case int:
			return int64(x)
		case float64:
			return int64(x)
		case bool:
			if x {
				return int64(1)
			}
			return int64(0)
		}
	case col.Type.IsFloat():
		switch x := v.(type) {
		case string:
			return ParseFloat(x)
		case int64:
			return float64(x)
		case int:
			return float64(x)
		case float64:
			return x
		case bool:
			if x {
				return float64(1)
			}
			return float64(0)
		}
	case col.Type.IsBoolean():
		switch x := v.(type) {
		case string:
			return Truthy(x)
		case bool:
			return x
		default:
			if n, ok := ToNumber(x); ok {
				return n != 0
			}
		}
	}
	return v
}

// CoerceTemporal parses a DATE/DATETIME/TIMESTAMP string into time.Time and
// normalizes a TIME string to HH:MM:SS. Unparseable input is kept as given.
func CoerceTemporal(col schema.Column, v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if col.Type == schema.ColumnTypeTime {
		if t, err := validation.ParseTimeOfDay(s); err == nil {
			return t.Format("15:04:05")
		}
		return s
	}
	if t, err := validation.ParseDateTime(s); err == nil {
		return t
	}
	return s
}

// FromToken turns one raw value token of an INSERT or SET clause into a
// cell value for col. NULL and DEFAULT are handled by the caller.
func FromToken(col schema.Column, raw string) interface{} {
	return Coerce(col, Dequote(raw))
}

// DefaultFor materializes the declared default of col
func DefaultFor(col schema.Column, now time.Time) interface{} {
	if s, ok := col.DefaultValue.(string); ok && s == schema.DefaultCurrentTimestamp {
		return now.UTC()
	}
	return Coerce(col, col.DefaultValue)
}
