package executor

import (
	"regexp"
	"strings"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/value"
)

// Predicate reports whether a row satisfies a WHERE clause
type Predicate func(row data.Row) bool

var (
	isNullRe     = regexp.MustCompile(`(?is)^(\S+)\s+IS\s+(NOT\s+)?NULL$`)
	inRe         = regexp.MustCompile(`(?is)^(\S+)\s+(NOT\s+)?IN\s*\((.*)\)$`)
	likeRe       = regexp.MustCompile(`(?is)^(\S+)\s+(NOT\s+)?LIKE\s+(.+)$`)
	betweenRe    = regexp.MustCompile(`(?is)^(\S+)\s+(NOT\s+)?BETWEEN\s+(.+?)\s+AND\s+(.+)$`)
	comparisonRe = regexp.MustCompile(`(?s)^([^\s=!<>]+)\s*(>=|<=|!=|<>|=|>|<)\s*(.+)$`)
)

// CompileWhere turns a WHERE body into a predicate. Conditions are folded
// strictly left to right with the connective that precedes each one, so
// "a OR b AND c" means "(a OR b) AND c". Existing exercises depend on this.
// An empty body matches every row.
func CompileWhere(t *schema.Table, where string) Predicate {
	where = strings.TrimSpace(where)
	if where == "" {
		return func(data.Row) bool { return true }
	}

	conds := parser.SplitConditions(where)
	preds := make([]Predicate, len(conds))
	for i, c := range conds {
		preds[i] = compileCondition(t, c.Text)
	}

	return func(row data.Row) bool {
		result := preds[0](row)
		for i := 1; i < len(preds); i++ {
			switch conds[i].Connective {
			case "OR":
				result = result || preds[i](row)
			default:
				result = result && preds[i](row)
			}
		}
		return result
	}
}

// compileCondition recognizes one condition. Anything it cannot read
// matches nothing.
func compileCondition(t *schema.Table, cond string) Predicate {
	if m := isNullRe.FindStringSubmatch(cond); m != nil {
		col := resolveColumn(t, m[1])
		wantNull := m[2] == ""
		return func(row data.Row) bool {
			return (row[col] == nil) == wantNull
		}
	}

	if m := inRe.FindStringSubmatch(cond); m != nil {
		col := resolveColumn(t, m[1])
		negate := m[2] != ""
		var list []interface{}
		for _, raw := range parser.SplitTopLevel(m[3], ',') {
			list = append(list, literal(raw))
		}
		return func(row data.Row) bool {
			v := row[col]
			if v == nil {
				return false
			}
			for _, want := range list {
				if want != nil && value.Equal(v, want) {
					return !negate
				}
			}
			return negate
		}
	}

	if m := betweenRe.FindStringSubmatch(cond); m != nil {
		col := resolveColumn(t, m[1])
		negate := m[2] != ""
		lo, hi := literal(m[3]), literal(m[4])
		return func(row data.Row) bool {
			v := row[col]
			if v == nil || lo == nil || hi == nil {
				return false
			}
			in := value.Compare(v, lo) >= 0 && value.Compare(v, hi) <= 0
			return in != negate
		}
	}

	if m := likeRe.FindStringSubmatch(cond); m != nil {
		col := resolveColumn(t, m[1])
		negate := m[2] != ""
		re := likePattern(value.Dequote(m[3]))
		return func(row data.Row) bool {
			v := row[col]
			if v == nil {
				return false
			}
			return re.MatchString(value.String(v)) != negate
		}
	}

	if m := comparisonRe.FindStringSubmatch(cond); m != nil {
		col := resolveColumn(t, m[1])
		return comparison(col, m[2], literal(m[3]))
	}

	return func(data.Row) bool { return false }
}

func comparison(col, op string, want interface{}) Predicate {
	// "= NULL" and "!= NULL" are read as null tests rather than never matching
	if want == nil {
		switch op {
		case "=":
			return func(row data.Row) bool { return row[col] == nil }
		case "!=", "<>":
			return func(row data.Row) bool { return row[col] != nil }
		}
		return func(data.Row) bool { return false }
	}

	return func(row data.Row) bool {
		v := row[col]
		if v == nil {
			return false
		}
		switch op {
		case "=":
			return value.Equal(v, want)
		case "!=", "<>":
			return !value.Equal(v, want)
		case ">":
			return value.Compare(v, want) > 0
		case "<":
			return value.Compare(v, want) < 0
		case ">=":
			return value.Compare(v, want) >= 0
		case "<=":
			return value.Compare(v, want) <= 0
		}
		return false
	}
}

// likePattern translates SQL LIKE wildcards into an anchored,
// case-insensitive regexp
func likePattern(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?is)^`)
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// literal reads the right-hand side of a condition: NULL becomes nil,
// quoted text is dequoted, anything else is kept as its trimmed text and
// compared numerically when it reads as a number
func literal(raw string) interface{} {
	raw = strings.TrimSpace(raw)
	if value.IsNullToken(raw) {
		return nil
	}
	return value.Dequote(raw)
}

// resolveColumn maps an identifier onto the table's canonical column
// name. Unknown names are returned as written and read as NULL.
func resolveColumn(t *schema.Table, ident string) string {
	name := parser.Ident(ident)
	if c, ok := t.Column(name); ok {
		return c.Name
	}
	return name
}
