package testutil

import (
	"strings"
	"testing"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	"github.com/leengari/sqlsandbox/internal/executor"
)

// AssertSuccess fails the test if the statement did not succeed
func AssertSuccess(t *testing.T, res *executor.Result, context string) {
	t.Helper()
	if res == nil {
		t.Fatalf("%s: expected a result, got nil", context)
	}
	if !res.Success {
		t.Fatalf("%s: expected success, got error: %s", context, res.Error)
	}
}

// AssertFailure checks that the statement failed with an error containing want
func AssertFailure(t *testing.T, res *executor.Result, want, context string) {
	t.Helper()
	if res == nil {
		t.Fatalf("%s: expected a result, got nil", context)
	}
	if res.Success {
		t.Fatalf("%s: expected failure, statement succeeded: %s", context, res.Output)
	}
	if !strings.Contains(res.Error, want) {
		t.Errorf("%s: expected error containing %q, got %q", context, want, res.Error)
	}
}

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumnExists checks if a column exists in a row
func AssertColumnExists(t *testing.T, row data.Row, column, context string) {
	t.Helper()
	if _, exists := row[column]; !exists {
		t.Errorf("%s: expected column '%s' to exist", context, column)
	}
}

// AssertColumnNotExists checks if a column does not exist in a row
func AssertColumnNotExists(t *testing.T, row data.Row, column, context string) {
	t.Helper()
	if _, exists := row[column]; exists {
		t.Errorf("%s: did not expect column '%s' to exist", context, column)
	}
}

// AssertNullValue checks if a value is nil
func AssertNullValue(t *testing.T, value interface{}, context string) {
	t.Helper()
	if value != nil {
		t.Errorf("%s: expected NULL value, got: %v", context, value)
	}
}

// AssertNotNullValue checks if a value is not nil
func AssertNotNullValue(t *testing.T, value interface{}, context string) {
	t.Helper()
	if value == nil {
		t.Errorf("%s: expected non-NULL value, got nil", context)
	}
}

// Column collects one column's values across rows, in order
func Column(rows []data.Row, name string) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r[name]
	}
	return out
}
