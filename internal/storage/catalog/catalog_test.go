package catalog

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/domain/data"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/storage/kv"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestCatalog creates a catalog over a fresh in-memory store
func newTestCatalog(t *testing.T, opts ...Option) *Catalog {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(kv.NewMemoryStore(), opts...)
}

func TestEnsureDatabaseSeedsEmptyCatalog(t *testing.T) {
	c := newTestCatalog(t)

	db, err := c.EnsureDatabase("")
	assert.NilError(t, err)
	assert.Equal(t, DefaultDatabaseName, db.Name)
	assert.DeepEqual(t, []string{"users", "products", "orders"}, db.TableNames())

	users, ok := db.Table("USERS")
	assert.Assert(t, ok)
	assert.Equal(t, 5, len(users.Data))

	names, err := c.DatabaseNames()
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{DefaultDatabaseName}, names)
}

func TestEnsureDatabaseCreatesOnFirstAccess(t *testing.T) {
	c := newTestCatalog(t)

	db, err := c.EnsureDatabase("school")
	assert.NilError(t, err)
	assert.Equal(t, "school", db.Name)
	assert.Equal(t, 0, len(db.Tables))

	// second access returns the stored one, case-insensitively
	again, err := c.EnsureDatabase("SCHOOL")
	assert.NilError(t, err)
	assert.Equal(t, "school", again.Name)

	names, err := c.DatabaseNames()
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{DefaultDatabaseName, "school"}, names)
}

func TestEnsureDatabaseUsesCurrentPointer(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.CreateDatabase("shop", "")
	assert.NilError(t, err)
	assert.NilError(t, c.SetCurrentDatabase("shop"))

	db, err := c.EnsureDatabase("")
	assert.NilError(t, err)
	assert.Equal(t, "shop", db.Name)
}

func TestSaveDatabaseRoundTripsTypes(t *testing.T) {
	c := newTestCatalog(t)
	db, err := c.EnsureDatabase("typed")
	assert.NilError(t, err)

	when := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	tbl := schema.NewTable("events", []schema.Column{
		{Name: "id", Type: schema.ColumnTypeBigInt},
		{Name: "score", Type: schema.ColumnTypeDouble},
		{Name: "happened", Type: schema.ColumnTypeDateTime},
		{Name: "label", Type: schema.ColumnTypeVarchar},
		{Name: "ok", Type: schema.ColumnTypeBoolean},
	})
	tbl.Data = append(tbl.Data, data.Row{
		"id": int64(7), "score": 2.0, "happened": when, "label": "Total", "ok": true,
	})
	db.AddTable(tbl)
	version := db.Version
	assert.NilError(t, c.SaveDatabase(db))

	loaded, err := c.Database("typed")
	assert.NilError(t, err)
	assert.Equal(t, version+1, loaded.Version)
	assert.Equal(t, fixedNow, loaded.LastModified)

	events, ok := loaded.Table("events")
	assert.Assert(t, ok)
	row := events.Data[0]
	assert.Equal(t, int64(7), row["id"])
	assert.Equal(t, 2.0, row["score"])
	assert.Equal(t, when, row["happened"])
	assert.Equal(t, "Total", row["label"])
	assert.Equal(t, true, row["ok"])
}

func TestCreateAndDeleteDatabase(t *testing.T) {
	c := newTestCatalog(t)

	db, err := c.CreateDatabase("lab", "exercise 1")
	assert.NilError(t, err)
	assert.Equal(t, "exercise 1", db.Description)
	assert.Equal(t, 1, db.Version)

	_, err = c.CreateDatabase("LAB", "")
	var exists *domainerrors.DatabaseExistsError
	assert.Assert(t, errors.As(err, &exists))

	assert.NilError(t, c.SetCurrentDatabase("lab"))
	assert.NilError(t, c.DeleteDatabase("Lab"))

	current, err := c.CurrentDatabase()
	assert.NilError(t, err)
	assert.Equal(t, "", current)

	err = c.DeleteDatabase("lab")
	var missing *domainerrors.DatabaseNotFoundError
	assert.Assert(t, errors.As(err, &missing))
	assert.ErrorContains(t, err, "does not exist")
}

func TestHistory(t *testing.T) {
	c := newTestCatalog(t, WithHistoryLimit(3))

	for i := 1; i <= 5; i++ {
		_, err := c.AppendHistory(HistoryItem{Query: fmt.Sprintf("SELECT %d", i), Success: true})
		assert.NilError(t, err)
	}

	items, err := c.History()
	assert.NilError(t, err)
	assert.Equal(t, 3, len(items))
	assert.Equal(t, "SELECT 5", items[0].Query)
	assert.Equal(t, "SELECT 3", items[2].Query)
	assert.Assert(t, items[0].ID != "")
	assert.Assert(t, items[0].ID != items[1].ID)
	assert.Equal(t, fixedNow, items[0].Timestamp)

	long, err := c.AppendHistory(HistoryItem{Query: strings.Repeat("x", 250)})
	assert.NilError(t, err)
	assert.Equal(t, MaxHistoryQueryLength, len(long.Query))

	assert.NilError(t, c.ClearHistory())
	items, err = c.History()
	assert.NilError(t, err)
	assert.Equal(t, 0, len(items))
}

func TestHistoryDefaultLimit(t *testing.T) {
	c := newTestCatalog(t)
	for i := 0; i < DefaultHistoryLimit+10; i++ {
		_, err := c.AppendHistory(HistoryItem{Query: "SELECT 1"})
		assert.NilError(t, err)
	}
	items, err := c.History()
	assert.NilError(t, err)
	assert.Equal(t, DefaultHistoryLimit, len(items))
}

func TestViews(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.SaveView(View{Query: "SELECT 1"})
	assert.ErrorContains(t, err, "name is required")

	v, err := c.SaveView(View{
		Name:      "adults",
		Query:     "SELECT name FROM users WHERE age > 25",
		Database:  "sample_db",
		Columns:   []string{"name"},
		ResultSet: []data.Row{{"name": "Jane Smith"}},
	})
	assert.NilError(t, err)
	assert.Assert(t, v.ID != "")

	v.Name = "adults (renamed)"
	_, err = c.SaveView(v)
	assert.NilError(t, err)

	views, err := c.Views()
	assert.NilError(t, err)
	assert.Equal(t, 1, len(views))
	assert.Equal(t, "adults (renamed)", views[0].Name)

	assert.NilError(t, c.DeleteView(v.ID))
	assert.ErrorContains(t, c.DeleteView(v.ID), "not found")
	views, err = c.Views()
	assert.NilError(t, err)
	assert.Check(t, is.Len(views, 0))
}

func TestExportImportRoundTrip(t *testing.T) {
	c := newTestCatalog(t)
	original, err := c.EnsureDatabase("")
	assert.NilError(t, err)

	blob, err := c.Export(original.Name)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(string(blob), "\n  \"name\""), "export should be pretty-printed")

	imported, err := c.Import(blob, "sample_copy")
	assert.NilError(t, err)
	assert.Equal(t, "sample_copy", imported.Name)

	reloadedOriginal, err := c.Database(original.Name)
	assert.NilError(t, err)
	reloadedCopy, err := c.Database("sample_copy")
	assert.NilError(t, err)
	assert.DeepEqual(t, reloadedOriginal.Tables, reloadedCopy.Tables)

	current, err := c.CurrentDatabase()
	assert.NilError(t, err)
	assert.Equal(t, "sample_copy", current)
}

func TestImportReplacesSameName(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.CreateDatabase("lab", "")
	assert.NilError(t, err)

	_, err = c.Import([]byte(`{"name":"LAB","tables":[{"name":"t","columns":[],"data":[]}]}`), "")
	assert.NilError(t, err)

	names, err := c.DatabaseNames()
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{"LAB"}, names)
}

func TestImportValidation(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name string
		blob string
		err  string
	}{
		{"not json", "{", "invalid database file"},
		{"missing name", `{"tables":[]}`, "missing name"},
		{"missing tables", `{"name":"x"}`, "missing tables"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Import([]byte(tt.blob), "")
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}
