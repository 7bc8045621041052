package executor

import (
	"fmt"
	"regexp"
	"strings"

	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/value"
)

var (
	createTableRe = regexp.MustCompile(`(?is)^CREATE\s+(?:TEMPORARY\s+)?TABLE\s+(IF\s+NOT\s+EXISTS\s+)?([^\s(]+)\s*\((.*)\)\s*(.*)$`)
	engineRe      = regexp.MustCompile(`(?i)\bENGINE\s*=?\s*(\w+)`)
	charsetRe     = regexp.MustCompile(`(?i)\b(?:CHARSET|CHARACTER\s+SET)\s*=?\s*(\w+)`)

	tableClauseRe = regexp.MustCompile(`(?is)^(?:CONSTRAINT\s+(\S+)\s+)?(PRIMARY\s+KEY|FOREIGN\s+KEY|UNIQUE|CHECK|KEY|INDEX|FULLTEXT|SPATIAL)\b`)
	parenListRe   = regexp.MustCompile(`\(([^)]*)\)`)
	indexNameRe   = regexp.MustCompile(`(?is)^(?:UNIQUE\b\s*)?(?:(?:KEY|INDEX)\b\s*)?([^\s(]+)?\s*\(`)
	foreignKeyRe  = regexp.MustCompile(`(?is)FOREIGN\s+KEY\s*(?:[^\s(]+\s*)?\(([^)]*)\)\s*REFERENCES\s+([^\s(]+)\s*\(([^)]*)\)(.*)$`)
	onDeleteRe    = regexp.MustCompile(`(?i)\bON\s+DELETE\s+(CASCADE|SET\s+NULL|SET\s+DEFAULT|RESTRICT|NO\s+ACTION)`)
	onUpdateRe    = regexp.MustCompile(`(?i)\bON\s+UPDATE\s+(CASCADE|SET\s+NULL|SET\s+DEFAULT|RESTRICT|NO\s+ACTION)`)

	columnDefRe   = regexp.MustCompile(`(?is)^([^\s(]+)\s+(\w+)(?:\s*\(([^)]*)\))?\s*(.*)$`)
	notNullRe     = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	primaryKeyRe  = regexp.MustCompile(`(?i)\bPRIMARY\s+KEY\b`)
	autoIncRe     = regexp.MustCompile(`(?i)\bAUTO_?INCREMENT\b`)
	uniqueRe      = regexp.MustCompile(`(?i)\bUNIQUE\b`)
	defaultRe     = regexp.MustCompile(`(?is)\bDEFAULT\s+('(?:[^'\\]|\\.|'')*'|"(?:[^"\\]|\\.)*"|[^\s,]+)`)
	currentTimeRe = regexp.MustCompile(`(?i)^(CURRENT_TIMESTAMP|NOW)(\(\))?$`)
	referencesRe  = regexp.MustCompile(`(?i)\bREFERENCES\s+([^\s(]+)\s*\(([^)]*)\)`)
)

// CreateTable parses a CREATE TABLE statement into a new table of the
// executing database
func CreateTable(ctx *Context, query string) *Result {
	res, err := createTable(ctx, query)
	if err != nil {
		return Fail(QueryCreate, err)
	}
	return res
}

func createTable(ctx *Context, query string) (*Result, error) {
	m := createTableRe.FindStringSubmatch(query)
	if m == nil {
		return nil, &domainerrors.SyntaxError{Statement: "CREATE TABLE"}
	}
	ifNotExists := m[1] != ""
	name := parser.Ident(m[2])

	if ctx.DB == nil {
		return nil, errNoDatabase
	}
	if _, exists := ctx.DB.Table(name); exists {
		if ifNotExists {
			return Succeed(QueryCreate, "Table %q already exists, skipped", name), nil
		}
		return nil, &domainerrors.TableExistsError{Table: name}
	}

	t := schema.NewTable(name, nil)
	for _, def := range parser.SplitTopLevel(m[3], ',') {
		if cm := tableClauseRe.FindStringSubmatch(def); cm != nil {
			addTableClause(t, cm[1], strings.ToUpper(cm[2]), def)
			continue
		}
		col, err := parseColumn(def)
		if err != nil {
			return nil, err
		}
		if _, dup := t.Column(col.Name); dup {
			return nil, &domainerrors.SyntaxError{Statement: "CREATE TABLE", Detail: fmt.Sprintf("duplicate column name %q", col.Name)}
		}
		t.Columns = append(t.Columns, col)
	}

	if len(t.Columns) == 0 {
		return nil, &domainerrors.SyntaxError{Statement: "CREATE TABLE", Detail: "no columns defined"}
	}
	autoInc := 0
	for _, c := range t.Columns {
		if c.AutoIncrement {
			autoInc++
		}
	}
	if autoInc > 1 {
		return nil, &domainerrors.SyntaxError{Statement: "CREATE TABLE", Detail: "only one AUTO_INCREMENT column is allowed"}
	}

	for _, c := range t.Columns {
		if c.PrimaryKey && !hasConstraint(t, schema.ConstraintPrimaryKey) {
			t.Constraints = append(t.Constraints, schema.Constraint{
				Type: schema.ConstraintPrimaryKey, Name: "PRIMARY", Columns: []string{c.Name},
			})
		}
	}

	t.Engine = "InnoDB"
	if em := engineRe.FindStringSubmatch(m[4]); em != nil {
		t.Engine = em[1]
	}
	t.Charset = "utf8mb4"
	if cm := charsetRe.FindStringSubmatch(m[4]); cm != nil {
		t.Charset = cm[1]
	}

	ctx.DB.AddTable(t)
	return Succeed(QueryCreate, "Table %q created successfully", name), nil
}

// parseColumn reads "name TYPE[(length)] [attributes...]"
func parseColumn(def string) (schema.Column, error) {
	m := columnDefRe.FindStringSubmatch(def)
	if m == nil {
		return schema.Column{}, &domainerrors.SyntaxError{Statement: "CREATE TABLE", Detail: "bad column definition " + def}
	}

	rest := m[4]
	col := schema.Column{
		Name:          parser.Ident(m[1]),
		Type:          schema.ColumnType(strings.ToUpper(m[2])),
		Length:        strings.TrimSpace(m[3]),
		Nullable:      !notNullRe.MatchString(rest),
		PrimaryKey:    primaryKeyRe.MatchString(rest),
		AutoIncrement: autoIncRe.MatchString(rest),
		Unique:        uniqueRe.MatchString(rest),
	}
	if col.PrimaryKey {
		col.Nullable = false
	}

	if dm := defaultRe.FindStringSubmatch(rest); dm != nil {
		raw := dm[1]
		switch {
		case value.IsNullToken(raw):
			col.DefaultValue = nil
		case currentTimeRe.MatchString(raw):
			col.DefaultValue = schema.DefaultCurrentTimestamp
		default:
			col.DefaultValue = value.Dequote(raw)
		}
	}

	if rm := referencesRe.FindStringSubmatch(rest); rm != nil {
		col.ForeignKey = &schema.ForeignKeyRef{
			Table:  parser.Ident(rm[1]),
			Column: parser.Ident(rm[2]),
		}
	}
	return col, nil
}

// addTableClause records a table-level clause. Nothing is enforced; the
// clauses are kept for DESCRIBE and export.
func addTableClause(t *schema.Table, name, kind, def string) {
	kind = strings.Join(strings.Fields(kind), " ")
	switch kind {
	case "PRIMARY KEY":
		cols := identList(def)
		for _, c := range cols {
			if col, ok := t.Column(c); ok {
				col.PrimaryKey = true
				col.Nullable = false
			}
		}
		t.Constraints = append(t.Constraints, schema.Constraint{
			Type: schema.ConstraintPrimaryKey, Name: "PRIMARY", Columns: cols,
		})

	case "FOREIGN KEY":
		fm := foreignKeyRe.FindStringSubmatch(def)
		if fm == nil {
			return
		}
		cols := splitIdents(fm[1])
		if name == "" && len(cols) > 0 {
			name = fmt.Sprintf("fk_%s_%s", t.Name, cols[0])
		}
		c := schema.Constraint{
			Type:              schema.ConstraintForeignKey,
			Name:              parser.Ident(name),
			Columns:           cols,
			ReferencedTable:   parser.Ident(fm[2]),
			ReferencedColumns: splitIdents(fm[3]),
		}
		if om := onDeleteRe.FindStringSubmatch(fm[4]); om != nil {
			c.OnDelete = strings.ToUpper(om[1])
		}
		if om := onUpdateRe.FindStringSubmatch(fm[4]); om != nil {
			c.OnUpdate = strings.ToUpper(om[1])
		}
		t.Constraints = append(t.Constraints, c)

	case "UNIQUE":
		cols := identList(def)
		if name == "" {
			name = indexName(def, cols)
		}
		name = parser.Ident(name)
		if len(cols) == 1 {
			if col, ok := t.Column(cols[0]); ok {
				col.Unique = true
			}
		}
		t.Constraints = append(t.Constraints, schema.Constraint{
			Type: schema.ConstraintUnique, Name: name, Columns: cols,
		})
		t.Indexes = append(t.Indexes, name)

	case "KEY", "INDEX":
		cols := identList(def)
		name = indexName(def, cols)
		t.Constraints = append(t.Constraints, schema.Constraint{
			Type: schema.ConstraintIndex, Name: name, Columns: cols,
		})
		t.Indexes = append(t.Indexes, name)

	case "CHECK":
		if name == "" {
			name = fmt.Sprintf("%s_chk_%d", t.Name, countConstraints(t, schema.ConstraintCheck)+1)
		}
		t.Constraints = append(t.Constraints, schema.Constraint{
			Type: schema.ConstraintCheck, Name: parser.Ident(name),
		})
	}
	// FULLTEXT and SPATIAL are accepted and ignored
}

// identList returns the identifiers of the first parenthesized list in def
func identList(def string) []string {
	m := parenListRe.FindStringSubmatch(def)
	if m == nil {
		return nil
	}
	return splitIdents(m[1])
}

func splitIdents(list string) []string {
	var out []string
	for _, item := range parser.SplitTopLevel(list, ',') {
		out = append(out, parser.Ident(item))
	}
	return out
}

// indexName takes the explicit name of a KEY/INDEX/UNIQUE clause, or
// falls back to the first column like MySQL does
func indexName(def string, cols []string) string {
	if m := indexNameRe.FindStringSubmatch(def); m != nil && m[1] != "" {
		return parser.Ident(m[1])
	}
	if len(cols) > 0 {
		return cols[0]
	}
	return "idx"
}

func hasConstraint(t *schema.Table, kind schema.ConstraintType) bool {
	return countConstraints(t, kind) > 0
}

func countConstraints(t *schema.Table, kind schema.ConstraintType) int {
	n := 0
	for _, c := range t.Constraints {
		if c.Type == kind {
			n++
		}
	}
	return n
}
