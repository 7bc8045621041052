package executor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/value"
)

var (
	selectListRe = regexp.MustCompile(`(?is)^SELECT\s+(.*?)\s+FROM\s`)
	fromRe       = regexp.MustCompile(`(?is)\bFROM\s+([^\s,()]+)`)
	whereRe      = regexp.MustCompile(`(?is)\bWHERE\s+(.+?)(?:\s+GROUP\s+BY\s|\s+ORDER\s+BY\s|\s+LIMIT\s|$)`)
	groupByRe    = regexp.MustCompile(`(?is)\bGROUP\s+BY\s+(.+?)(?:\s+HAVING\s|\s+ORDER\s+BY\s|\s+LIMIT\s|$)`)
	orderByRe    = regexp.MustCompile(`(?is)\bORDER\s+BY\s+(.+?)(?:\s+LIMIT\s|$)`)
	limitRe      = regexp.MustCompile(`(?is)\bLIMIT\s+(\d+)(?:\s*,\s*(\d+))?\s*$`)
	distinctRe   = regexp.MustCompile(`(?is)^DISTINCT\s+`)
	aliasRe      = regexp.MustCompile(`(?is)\s+AS\s+\S+$`)
	orderItemRe  = regexp.MustCompile(`(?is)^(.+?)(?:\s+(ASC|DESC))?$`)
)

type orderKey struct {
	column string
	desc   bool
}

// Select runs a single-table query. Clauses are applied in a fixed order:
// WHERE, GROUP BY, ORDER BY, projection with DISTINCT, then LIMIT.
func Select(ctx *Context, query string) *Result {
	columns, rows, err := selectRows(ctx, query)
	if err != nil {
		return Fail(QuerySelect, err)
	}
	return Rows(QuerySelect, columns, rows)
}

func selectRows(ctx *Context, query string) ([]string, []data.Row, error) {
	m := clauseMatch(fromRe, query)
	if m == nil {
		return nil, nil, &domainerrors.SyntaxError{Statement: "SELECT", Detail: "missing FROM clause"}
	}
	t, err := ctx.table(m[1])
	if err != nil {
		return nil, nil, err
	}

	list := ""
	if lm := clauseMatch(selectListRe, query); lm != nil {
		list = strings.TrimSpace(lm[1])
	}
	distinct := false
	if distinctRe.MatchString(list) {
		distinct = true
		list = distinctRe.ReplaceAllString(list, "")
	}
	columns, err := selectColumns(t, list)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]data.Row, 0, len(t.Data))
	if wm := clauseMatch(whereRe, query); wm != nil {
		pred := CompileWhere(t, wm[1])
		for _, row := range t.Data {
			if pred(row) {
				rows = append(rows, row)
			}
		}
	} else {
		rows = append(rows, t.Data...)
	}

	if gm := clauseMatch(groupByRe, query); gm != nil {
		rows = groupRows(t, rows, gm[1])
	}

	if om := clauseMatch(orderByRe, query); om != nil {
		sortRows(rows, orderKeys(t, om[1]))
	}

	out := make([]data.Row, 0, len(rows))
	seen := make(map[string]bool)
	for _, row := range rows {
		projected := row.Project(columns)
		if distinct {
			key := rowKey(projected, columns)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, projected)
	}

	// after DISTINCT so LIMIT counts distinct rows
	if lm := clauseMatch(limitRe, query); lm != nil {
		out = limitRows(out, lm[1], lm[2])
	}
	return columns, out, nil
}

// clauseMatch matches re against query with string literals masked, so a
// keyword inside quotes never opens a clause. Submatches come from query.
func clauseMatch(re *regexp.Regexp, query string) []string {
	idx := re.FindStringSubmatchIndex(parser.MaskLiterals(query))
	if idx == nil {
		return nil
	}
	m := make([]string, len(idx)/2)
	for i := range m {
		if idx[2*i] >= 0 {
			m[i] = query[idx[2*i]:idx[2*i+1]]
		}
	}
	return m
}

// selectColumns resolves the select list against the table. Unknown
// names are dropped; if nothing survives the query fails.
func selectColumns(t *schema.Table, list string) ([]string, error) {
	items := parser.SplitTopLevel(list, ',')
	if len(items) == 0 {
		return nil, &domainerrors.SyntaxError{Statement: "SELECT", Detail: "empty column list"}
	}

	var columns []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}

	for _, item := range items {
		item = aliasRe.ReplaceAllString(item, "")
		name := parser.Ident(item)
		if name == "*" || strings.HasSuffix(item, ".*") {
			for _, c := range t.Columns {
				add(c.Name)
			}
			continue
		}
		if c, ok := t.Column(name); ok {
			add(c.Name)
		}
	}

	if len(columns) == 0 {
		return nil, &domainerrors.InvalidColumnsError{Requested: items, Available: t.ColumnNames()}
	}
	return columns, nil
}

// groupRows keeps the first row seen for each distinct group key. No
// aggregate is computed.
func groupRows(t *schema.Table, rows []data.Row, clause string) []data.Row {
	var cols []string
	for _, item := range parser.SplitTopLevel(clause, ',') {
		cols = append(cols, resolveColumn(t, item))
	}

	seen := make(map[string]bool)
	out := make([]data.Row, 0, len(rows))
	for _, row := range rows {
		key := rowKey(row, cols)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

func rowKey(row data.Row, cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		if row[c] == nil {
			parts[i] = "\x00"
			continue
		}
		parts[i] = value.String(row[c])
	}
	return strings.Join(parts, "\x1f")
}

func orderKeys(t *schema.Table, clause string) []orderKey {
	var keys []orderKey
	for _, item := range parser.SplitTopLevel(clause, ',') {
		m := orderItemRe.FindStringSubmatch(item)
		if m == nil {
			continue
		}
		keys = append(keys, orderKey{
			column: resolveColumn(t, m[1]),
			desc:   strings.EqualFold(m[2], "DESC"),
		})
	}
	return keys
}

// sortRows is a stable multi-key sort. Nulls sort first ascending and
// last descending.
func sortRows(rows []data.Row, keys []orderKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := value.SortCompare(rows[i][k.column], rows[j][k.column])
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// limitRows applies "LIMIT n" or "LIMIT offset, n". A number too large
// for an int means no bound.
func limitRows(rows []data.Row, first, second string) []data.Row {
	offset, count := 0, len(rows)
	if second == "" {
		count = limitNumber(first, len(rows))
	} else {
		offset = limitNumber(first, len(rows))
		count = limitNumber(second, len(rows))
	}
	if offset >= len(rows) {
		return rows[:0]
	}
	end := len(rows)
	if count < end-offset {
		end = offset + count
	}
	return rows[offset:end]
}

// limitNumber parses a LIMIT operand; overflow gives unbounded
func limitNumber(s string, unbounded int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return unbounded
	}
	return n
}
