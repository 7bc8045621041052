// Package catalog is the persistence layer: the set of named databases,
// the current-database pointer, query history and saved views, each kept
// as one JSON value under a namespaced key of a kv.Store.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	domainerrors "github.com/leengari/sqlsandbox/internal/domain/errors"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
	"github.com/leengari/sqlsandbox/internal/storage/kv"
)

const (
	keyDatabases = "databases"
	keyCurrent   = "current_database"
	keyHistory   = "query_history"
	keyViews     = "query_views"

	DefaultNamespace    = "sqlsandbox"
	DefaultHistoryLimit = 100
	DefaultDatabaseName = "sample_db"
)

// Catalog reads and writes the whole set of databases. Every save is a
// full read-modify-write of the databases key.
type Catalog struct {
	mu           sync.Mutex
	store        kv.Store
	namespace    string
	historyLimit int
	defaultName  string
	now          func() time.Time
}

type Option func(*Catalog)

func WithNamespace(ns string) Option {
	return func(c *Catalog) { c.namespace = ns }
}

// WithHistoryLimit caps the history ring (newest entries are kept)
func WithHistoryLimit(n int) Option {
	return func(c *Catalog) { c.historyLimit = n }
}

// WithDefaultDatabase names the database seeded into an empty catalog
func WithDefaultDatabase(name string) Option {
	return func(c *Catalog) { c.defaultName = name }
}

func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// New creates a catalog over store
func New(store kv.Store, opts ...Option) *Catalog {
	c := &Catalog{
		store:        store,
		namespace:    DefaultNamespace,
		historyLimit: DefaultHistoryLimit,
		defaultName:  DefaultDatabaseName,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultDatabaseName is the name seeded into an empty catalog
func (c *Catalog) DefaultDatabaseName() string {
	return c.defaultName
}

// Now is the catalog clock, exposed so handlers stamp times consistently
func (c *Catalog) Now() time.Time {
	return c.now().UTC()
}

func (c *Catalog) key(name string) string {
	return c.namespace + ":" + name
}

// Databases loads every database in the catalog
func (c *Catalog) Databases() ([]*schema.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadUnsafe()
}

// DatabaseNames lists catalog database names in stored order
func (c *Catalog) DatabaseNames() ([]string, error) {
	dbs, err := c.Databases()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(dbs))
	for i, db := range dbs {
		names[i] = db.Name
	}
	return names, nil
}

// Database looks up a database by case-insensitive name
func (c *Catalog) Database(name string) (*schema.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dbs, err := c.loadUnsafe()
	if err != nil {
		return nil, err
	}
	if i := indexOf(dbs, name); i >= 0 {
		return dbs[i], nil
	}
	return nil, &domainerrors.DatabaseNotFoundError{Database: name}
}

// EnsureDatabase returns the named database, creating it on first access.
// An empty catalog is seeded with the sample database first. An empty
// name resolves to the current-database pointer, then the default name.
func (c *Catalog) EnsureDatabase(name string) (*schema.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dbs, err := c.loadUnsafe()
	if err != nil {
		return nil, err
	}

	changed := false
	if len(dbs) == 0 {
		slog.Info("catalog empty, seeding sample database", "database", c.defaultName)
		dbs = append(dbs, SampleDatabase(c.defaultName, c.Now()))
		changed = true
	}

	if name == "" {
		name, err = c.currentUnsafe()
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = c.defaultName
		}
	}

	i := indexOf(dbs, name)
	if i < 0 {
		slog.Info("creating database on first access", "database", name)
		dbs = append(dbs, schema.NewDatabase(name, c.Now()))
		i = len(dbs) - 1
		changed = true
	}

	if changed {
		if err := c.saveUnsafe(dbs); err != nil {
			return nil, err
		}
	}
	return dbs[i], nil
}

// SaveDatabase writes db back into the catalog, replacing the entry with
// the same case-insensitive name or appending it
func (c *Catalog) SaveDatabase(db *schema.Database) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dbs, err := c.loadUnsafe()
	if err != nil {
		return err
	}

	db.Touch(c.Now())
	if i := indexOf(dbs, db.Name); i >= 0 {
		dbs[i] = db
	} else {
		dbs = append(dbs, db)
	}
	return c.saveUnsafe(dbs)
}

// CreateDatabase adds a new empty database
func (c *Catalog) CreateDatabase(name, description string) (*schema.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dbs, err := c.loadUnsafe()
	if err != nil {
		return nil, err
	}
	if indexOf(dbs, name) >= 0 {
		return nil, &domainerrors.DatabaseExistsError{Database: name}
	}

	db := schema.NewDatabase(name, c.Now())
	db.Description = description
	if err := c.saveUnsafe(append(dbs, db)); err != nil {
		return nil, err
	}
	return db, nil
}

// DeleteDatabase removes a database. If it was the current database the
// pointer is cleared.
func (c *Catalog) DeleteDatabase(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dbs, err := c.loadUnsafe()
	if err != nil {
		return err
	}
	i := indexOf(dbs, name)
	if i < 0 {
		return &domainerrors.DatabaseNotFoundError{Database: name}
	}
	dbs = append(dbs[:i], dbs[i+1:]...)
	if err := c.saveUnsafe(dbs); err != nil {
		return err
	}

	current, err := c.currentUnsafe()
	if err != nil {
		return err
	}
	if strings.EqualFold(current, name) {
		return c.setJSONUnsafe(keyCurrent, "")
	}
	return nil
}

// CurrentDatabase returns the persisted current-database pointer ("" if unset)
func (c *Catalog) CurrentDatabase() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentUnsafe()
}

// SetCurrentDatabase persists the current-database pointer
func (c *Catalog) SetCurrentDatabase(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setJSONUnsafe(keyCurrent, name)
}

func (c *Catalog) currentUnsafe() (string, error) {
	var name string
	if _, err := c.getJSONUnsafe(keyCurrent, &name); err != nil {
		return "", err
	}
	return name, nil
}

func (c *Catalog) loadUnsafe() ([]*schema.Database, error) {
	var dbs []*schema.Database
	if _, err := c.getJSONUnsafe(keyDatabases, &dbs); err != nil {
		return nil, err
	}
	for _, db := range dbs {
		rehydrate(db)
	}
	return dbs, nil
}

func (c *Catalog) saveUnsafe(dbs []*schema.Database) error {
	if dbs == nil {
		dbs = make([]*schema.Database, 0)
	}
	return c.setJSONUnsafe(keyDatabases, dbs)
}

// getJSONUnsafe decodes the value at key into out; found is false when the
// key was never written
func (c *Catalog) getJSONUnsafe(key string, out interface{}) (bool, error) {
	raw, ok, err := c.store.Get(c.key(key))
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return true, nil
}

func (c *Catalog) setJSONUnsafe(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.store.Set(c.key(key), string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func indexOf(dbs []*schema.Database, name string) int {
	for i, db := range dbs {
		if strings.EqualFold(db.Name, name) {
			return i
		}
	}
	return -1
}
