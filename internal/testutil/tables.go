package testutil

import (
	"testing"
	"time"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/storage/catalog"
	"github.com/leengari/sqlsandbox/internal/storage/kv"
)

// Now is the fixed clock used by test catalogs
var Now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// NewCatalog returns a catalog over a fresh in-memory store with the
// clock pinned to Now
func NewCatalog(t *testing.T, opts ...catalog.Option) *catalog.Catalog {
	t.Helper()
	opts = append([]catalog.Option{catalog.WithClock(func() time.Time { return Now })}, opts...)
	return catalog.New(kv.NewMemoryStore(), opts...)
}

// CreateUsersTable creates a small users table with a NULL age and a
// numeric-looking VARCHAR column
func CreateUsersTable() *schema.Table {
	table := schema.NewTable("users", []schema.Column{
		{Name: "id", Type: schema.ColumnTypeInt, PrimaryKey: true, AutoIncrement: true},
		{Name: "username", Type: schema.ColumnTypeVarchar, Length: "50"},
		{Name: "age", Type: schema.ColumnTypeInt, Nullable: true},
		{Name: "code", Type: schema.ColumnTypeVarchar, Length: "10", Nullable: true},
	})
	table.Data = []data.Row{
		{"id": int64(1), "username": "alice", "age": int64(30), "code": "10"},
		{"id": int64(2), "username": "bob", "age": int64(25), "code": "9"},
		{"id": int64(3), "username": "charlie", "age": nil, "code": "x-1"},
	}
	return table
}
