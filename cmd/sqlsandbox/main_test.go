package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	assert.NilError(t, rootCmd.Execute(), "%v", args)
	return out.String()
}

func TestCommandsShareFileStorage(t *testing.T) {
	dir := t.TempDir()
	exported := filepath.Join(dir, "shop.json")

	out := run(t, "--backend", "file", "--data", dir, "--log-level", "error",
		"exec", "-e", "DELETE FROM users WHERE city = 'Tokyo'")
	assert.Check(t, is.Contains(out, "1 row(s) deleted"))

	out = run(t, "--backend", "file", "--data", dir, "--log-level", "error",
		"export", "sample_db", "-o", exported)
	assert.Check(t, is.Contains(out, "exported"))

	blob, err := os.ReadFile(exported)
	assert.NilError(t, err)
	assert.Check(t, !bytes.Contains(blob, []byte("Tokyo")))

	out = run(t, "--backend", "file", "--data", dir, "--log-level", "error",
		"import", exported, "--as", "copy_db")
	assert.Check(t, is.Contains(out, `Database "copy_db" imported (3 tables)`))

	out = run(t, "--backend", "file", "--data", dir, "--log-level", "error",
		"history", "-n", "5")
	assert.Check(t, is.Contains(out, "DELETE FROM users WHERE city = 'Tokyo'"))
}

func TestExecRunsSeveralStatements(t *testing.T) {
	dir := t.TempDir()

	out := run(t, "--backend", "file", "--data", dir, "--log-level", "error",
		"exec", "-e", "DELETE FROM users WHERE id = 1; DELETE FROM users WHERE id = 2")
	assert.Check(t, is.Equal(2, strings.Count(out, "1 row(s) deleted")))

	out = run(t, "--backend", "file", "--data", dir, "--log-level", "error",
		"exec", "-e", "SELECT id FROM users")
	assert.Check(t, is.Contains(out, "3 row(s) returned"))
}
