package repl

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	"github.com/leengari/sqlsandbox/internal/engine"
	"github.com/leengari/sqlsandbox/internal/executor"
	"github.com/leengari/sqlsandbox/internal/testutil"
)

func newShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	eng := engine.New(testutil.NewCatalog(t))
	return NewShell(eng.NewSession(""), &out), &out
}

func TestStatementComplete(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"SELECT * FROM users;", true},
		{"SELECT * FROM users", false},
		{"SELECT ';' FROM users", false},
		{"INSERT INTO t VALUES ('a;b');", true},
		{"SELECT 1; -- trailing note", true},
		{"SELECT 1; SELECT", false},
		{"SELECT 'it''s;'", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statementComplete(tt.in), tt.in)
	}
}

func TestMultiLineStatement(t *testing.T) {
	shell, out := newShell(t)

	stmt, quit := shell.HandleLine("SELECT name")
	assert.Equal(t, "", stmt)
	assert.Check(t, !quit)
	assert.Equal(t, continuationPrompt, shell.Prompt())

	stmt, _ = shell.HandleLine("FROM users WHERE city = 'Tokyo';")
	assert.Equal(t, "SELECT name\nFROM users WHERE city = 'Tokyo';", stmt)
	assert.Equal(t, prompt, shell.Prompt())
	assert.Check(t, is.Contains(out.String(), "Alice Brown"))
	assert.Check(t, is.Contains(out.String(), "1 row(s) returned"))
}

func TestSeveralStatementsOnOneLine(t *testing.T) {
	shell, out := newShell(t)

	shell.HandleLine("DELETE FROM users WHERE id = 1; DELETE FROM users WHERE id = 2;")
	assert.Equal(t, 2, strings.Count(out.String(), "1 row(s) deleted"))

	out.Reset()
	shell.HandleLine("SELECT * FROM users;")
	assert.Check(t, is.Contains(out.String(), "3 row(s) returned"))

	out.Reset()
	shell.HandleLine("DELETE FROM ghosts; DELETE FROM users;")
	assert.Check(t, is.Contains(out.String(), "does not exist"))
	assert.Check(t, is.Contains(out.String(), "Skipped 1 remaining statement(s)"))

	out.Reset()
	shell.HandleLine("SELECT * FROM users;")
	assert.Check(t, is.Contains(out.String(), "3 row(s) returned"))
}

func TestResetDropsPendingInput(t *testing.T) {
	shell, out := newShell(t)

	shell.HandleLine("DELETE FROM users")
	shell.Reset()
	shell.HandleLine("SELECT id FROM users;")

	assert.Check(t, is.Contains(out.String(), "5 row(s) returned"))
}

func TestMetaCommands(t *testing.T) {
	shell, out := newShell(t)

	_, quit := shell.HandleLine("\\help")
	assert.Check(t, !quit)
	assert.Check(t, is.Contains(out.String(), "meta commands"))

	out.Reset()
	shell.HandleLine("SELECT id FROM users;")
	shell.HandleLine("DROP TABLE nope;")
	out.Reset()
	shell.HandleLine("\\history")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Assert(t, is.Len(lines, 2))
	assert.Check(t, is.Contains(lines[0], "[ok] SELECT id FROM users"))
	assert.Check(t, is.Contains(lines[1], "[err] DROP TABLE nope"))

	out.Reset()
	shell.HandleLine("\\dbs")
	assert.Check(t, is.Contains(out.String(), "sample_db"))

	out.Reset()
	shell.HandleLine("\\frobnicate")
	assert.Check(t, is.Contains(out.String(), "unknown command"))

	for _, q := range []string{"exit", "QUIT", "\\q"} {
		_, quit = shell.HandleLine(q)
		assert.Check(t, quit, q)
	}
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	PrintResult(&out, &executor.Result{
		Success:   true,
		Output:    "2 row(s) returned",
		Columns:   []string{"id", "name", "age"},
		ResultSet: []data.Row{{"id": int64(1), "name": "alice", "age": int64(30)}, {"id": int64(2), "name": "bob", "age": nil}},
	})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Assert(t, is.Len(lines, 5))
	assert.Equal(t, "id   name   age", lines[0])
	assert.Equal(t, "---  ---    ---", lines[1])
	assert.Equal(t, "1    alice  30", lines[2])
	assert.Equal(t, "2    bob    NULL", lines[3])
	assert.Check(t, strings.HasPrefix(lines[4], "2 row(s) returned ("))
}

func TestPrintResultErrorAndSimulated(t *testing.T) {
	var out bytes.Buffer
	PrintResult(&out, &executor.Result{Error: "Table 'x' does not exist"})
	assert.Equal(t, "Error: Table 'x' does not exist\n", out.String())

	out.Reset()
	PrintResult(&out, &executor.Result{Success: true, Output: "Index created", Simulated: true})
	assert.Check(t, is.Contains(out.String(), "Index created [simulated]"))
}
