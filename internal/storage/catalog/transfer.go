package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/leengari/sqlsandbox/internal/domain/schema"
)

// Export renders one database as pretty-printed JSON
func (c *Catalog) Export(name string) ([]byte, error) {
	db, err := c.Database(name)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal database %s: %w", db.Name, err)
	}
	return data, nil
}

// Import loads a database exported by Export. When rename is non-empty the
// database is stored under that name. A same-named database is replaced,
// otherwise it is appended. The imported database becomes current.
func (c *Catalog) Import(blob []byte, rename string) (*schema.Database, error) {
	var db schema.Database
	if err := json.Unmarshal(blob, &db); err != nil {
		return nil, fmt.Errorf("invalid database file: %w", err)
	}
	if db.Name == "" {
		return nil, fmt.Errorf("invalid database file: missing name")
	}
	if db.Tables == nil {
		return nil, fmt.Errorf("invalid database file: missing tables")
	}
	if rename != "" {
		db.Name = rename
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rehydrate(&db)

	dbs, err := c.loadUnsafe()
	if err != nil {
		return nil, err
	}
	if i := indexOf(dbs, db.Name); i >= 0 {
		slog.Info("import replaces existing database", "database", db.Name)
		dbs[i] = &db
	} else {
		dbs = append(dbs, &db)
	}
	if err := c.saveUnsafe(dbs); err != nil {
		return nil, err
	}
	if err := c.setJSONUnsafe(keyCurrent, db.Name); err != nil {
		return nil, err
	}
	return &db, nil
}
