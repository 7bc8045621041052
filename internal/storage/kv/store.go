// Package kv is the durable key-value layer the catalog persists through.
// Every value is an opaque string (JSON in practice).
package kv

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Store is a string key-value store
type Store interface {
	// Get returns the value for key; ok is false when the key was never set
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend
type Options struct {
	Backend string
	Path    string // directory for file and default sqlite location
	DSN     string // connection string for SQL backends
}

// Open creates the Store described by opts
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		return NewFileStore(opts.Path)
	case BackendSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = filepath.Join(opts.Path, "sqlsandbox.db")
		}
		return NewSQLStore(BackendSQLite, dsn)
	case BackendMySQL, BackendPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("storage backend %s requires a dsn", opts.Backend)
		}
		return NewSQLStore(strings.ToLower(opts.Backend), opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", opts.Backend)
	}
}
