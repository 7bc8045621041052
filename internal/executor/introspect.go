package executor

import (
	"regexp"
	"strings"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
)

var (
	describeRe    = regexp.MustCompile(`(?is)^(?:DESCRIBE|DESC)\s+(\S+)`)
	showColumnsRe = regexp.MustCompile(`(?is)^SHOW\s+(?:FULL\s+)?(?:COLUMNS|FIELDS)\s+(?:FROM|IN)\s+(\S+)`)
)

var describeColumns = []string{"Field", "Type", "Null", "Key", "Default", "Extra"}

// ShowTables lists the tables of the executing database with MySQL-like
// metadata columns
func ShowTables(ctx *Context, query string) *Result {
	if ctx.DB == nil {
		return Fail(QueryShow, errNoDatabase)
	}

	nameCol := "Tables_in_" + ctx.DB.Name
	columns := []string{nameCol, "Table_type", "Engine", "Rows", "Create_time", "Collation"}
	rows := make([]data.Row, 0, len(ctx.DB.Tables))
	for _, t := range ctx.DB.Tables {
		rows = append(rows, data.Row{
			nameCol:       t.Name,
			"Table_type":  "BASE TABLE",
			"Engine":      orDefault(t.Engine, "InnoDB"),
			"Rows":        int64(len(t.Data)),
			"Create_time": ctx.DB.CreatedAt,
			"Collation":   orDefault(t.Charset, "utf8mb4") + "_general_ci",
		})
	}
	return Rows(QueryShow, columns, rows)
}

// ShowDatabases lists catalog databases
func ShowDatabases(ctx *Context, query string) *Result {
	names, err := ctx.Catalog.DatabaseNames()
	if err != nil {
		return Fail(QueryShow, err)
	}
	rows := make([]data.Row, len(names))
	for i, n := range names {
		rows[i] = data.Row{"Database": n}
	}
	return Rows(QueryShow, []string{"Database"}, rows)
}

// Describe reports each column of a table as Field/Type/Null/Key/Default/Extra.
// SHOW COLUMNS FROM t is routed here too.
func Describe(ctx *Context, query string) *Result {
	m := describeRe.FindStringSubmatch(query)
	if m == nil {
		m = showColumnsRe.FindStringSubmatch(query)
	}
	if m == nil {
		return Fail(QueryDescribe, &domainerrors.SyntaxError{Statement: "DESCRIBE"})
	}
	t, err := ctx.table(m[1])
	if err != nil {
		return Fail(QueryDescribe, err)
	}

	rows := make([]data.Row, 0, len(t.Columns))
	for _, c := range t.Columns {
		null := "YES"
		if !c.Nullable {
			null = "NO"
		}
		extra := ""
		if c.AutoIncrement {
			extra = "auto_increment"
		}
		rows = append(rows, data.Row{
			"Field":   c.Name,
			"Type":    c.SQLType(),
			"Null":    null,
			"Key":     columnKey(t, c),
			"Default": c.DefaultValue,
			"Extra":   extra,
		})
	}
	return Rows(QueryDescribe, describeColumns, rows)
}

// columnKey is the MySQL Key column: PRI, UNI, MUL or empty
func columnKey(t *schema.Table, c schema.Column) string {
	switch {
	case c.PrimaryKey:
		return "PRI"
	case c.Unique:
		return "UNI"
	case c.ForeignKey != nil:
		return "MUL"
	}
	for _, con := range t.Constraints {
		if con.Type != schema.ConstraintForeignKey && con.Type != schema.ConstraintIndex {
			continue
		}
		if len(con.Columns) > 0 && strings.EqualFold(con.Columns[0], c.Name) {
			return "MUL"
		}
	}
	return ""
}

// Explain returns one fixed plan row. The query is not analysed.
func Explain(ctx *Context, query string) *Result {
	columns := []string{"id", "select_type", "table", "type", "possible_keys", "key", "rows", "Extra"}
	row := data.Row{
		"id":            int64(1),
		"select_type":   "SIMPLE",
		"table":         nil,
		"type":          "ALL",
		"possible_keys": nil,
		"key":           nil,
		"rows":          int64(1),
		"Extra":         "Simulated plan",
	}
	res := Rows(QueryExplain, columns, []data.Row{row})
	res.Output = "Query plan (simulated)"
	res.Simulated = true
	return res
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
