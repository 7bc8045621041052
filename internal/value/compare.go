package value

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// collate.Collator keeps internal buffers, so access is serialized
	collatorMu sync.Mutex
	collator   = collate.New(language.English)
)

// ToNumber attempts a numeric reading of a cell or literal value.
// Strings must parse completely (after trimming) to count as numbers.
func ToNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String renders a value for string comparison and grouping keys
func String(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// numericPair succeeds only when both sides read as numbers. A bool reads
// as 1 or 0, so `active = true` falls back to text and `active = 1` does not.
func numericPair(a, b interface{}) (float64, float64, bool) {
	x, ok := ToNumber(a)
	if !ok {
		return 0, 0, false
	}
	y, ok := ToNumber(b)
	if !ok {
		return 0, 0, false
	}
	return x, y, true
}

// Equal compares numerically when both sides are numbers, otherwise as
// case-insensitive strings
func Equal(a, b interface{}) bool {
	if x, y, ok := numericPair(a, b); ok {
		return x == y
	}
	return strings.EqualFold(String(a), String(b))
}

// Compare orders two non-null values for WHERE range operators: numeric
// when both sides are numbers, otherwise case-insensitive lexicographic.
func Compare(a, b interface{}) int {
	if x, y, ok := numericPair(a, b); ok {
		return cmpFloat(x, y)
	}
	return strings.Compare(strings.ToLower(String(a)), strings.ToLower(String(b)))
}

// SortCompare orders values for ORDER BY ascending: nil first, then
// numeric when both are numbers, then locale-aware string order.
func SortCompare(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if x, y, ok := numericPair(a, b); ok {
		return cmpFloat(x, y)
	}
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(String(a), String(b))
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
