package engine

import (
	"regexp"
	"strings"

	"github.com/leengari/sqlsandbox/internal/executor"
)

type route struct {
	prefix    *regexp.Regexp
	queryType executor.QueryType
	handler   executor.Handler
}

func prefix(p string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + p + `\b`)
}

// routes is matched in order; the first matching prefix wins. More
// specific prefixes come before the generic ones they overlap with.
var routes = []route{
	{prefix(`SELECT`), executor.QuerySelect, executor.Select},
	{prefix(`INSERT\s+INTO`), executor.QueryInsert, executor.Insert},
	{prefix(`INSERT`), executor.QueryInsert, executor.Insert},
	{prefix(`UPDATE`), executor.QueryUpdate, executor.Update},
	{prefix(`DELETE\s+FROM`), executor.QueryDelete, executor.Delete},
	{prefix(`DELETE`), executor.QueryDelete, executor.Delete},
	{prefix(`CREATE\s+(?:DATABASE|SCHEMA)`), executor.QueryCreate, executor.CreateDatabase},
	{prefix(`CREATE\s+(?:UNIQUE\s+|FULLTEXT\s+|SPATIAL\s+)?INDEX`), executor.QueryCreate, executor.CreateIndex},
	{prefix(`CREATE\s+(?:TEMPORARY\s+)?TABLE`), executor.QueryCreate, executor.CreateTable},
	{prefix(`DROP\s+(?:DATABASE|SCHEMA)`), executor.QueryDrop, executor.DropDatabase},
	{prefix(`DROP\s+INDEX`), executor.QueryDrop, executor.DropIndex},
	{prefix(`DROP\s+(?:TEMPORARY\s+)?TABLE`), executor.QueryDrop, executor.DropTable},
	{prefix(`ALTER\s+TABLE`), executor.QueryAlter, executor.Alter},
	{prefix(`TRUNCATE`), executor.QueryTruncate, executor.Truncate},
	{prefix(`SHOW\s+(?:FULL\s+)?TABLES`), executor.QueryShow, executor.ShowTables},
	{prefix(`SHOW\s+(?:DATABASES|SCHEMAS)`), executor.QueryShow, executor.ShowDatabases},
	{prefix(`SHOW\s+(?:FULL\s+)?(?:COLUMNS|FIELDS)`), executor.QueryDescribe, executor.Describe},
	{prefix(`(?:DESCRIBE|DESC)`), executor.QueryDescribe, executor.Describe},
	{prefix(`USE`), executor.QueryUse, executor.Use},
	{prefix(`EXPLAIN`), executor.QueryExplain, executor.Explain},
	{prefix(`(?:BEGIN|START\s+TRANSACTION|COMMIT|ROLLBACK)`), executor.QueryTransaction, executor.Transaction},
}

// Classify picks the handler for a cleaned statement. The handler is nil
// and the type UNKNOWN when no prefix matches.
func Classify(query string) (executor.QueryType, executor.Handler) {
	for _, r := range routes {
		if r.prefix.MatchString(query) {
			return r.queryType, r.handler
		}
	}
	return executor.QueryUnknown, nil
}

// leadingKeyword is the first word of a statement, for error messages
func leadingKeyword(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
