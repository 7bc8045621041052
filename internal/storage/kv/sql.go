package kv

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// dialect holds the statements that differ between SQL backends
type dialect struct {
	driver string
	create string
	get    string
	upsert string
}

var dialects = map[string]dialect{
	BackendSQLite: {
		driver: "sqlite",
		create: `CREATE TABLE IF NOT EXISTS kv_store (k TEXT PRIMARY KEY, v TEXT NOT NULL)`,
		get:    `SELECT v FROM kv_store WHERE k = ?`,
		upsert: `INSERT INTO kv_store (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
	},
	BackendMySQL: {
		driver: "mysql",
		create: `CREATE TABLE IF NOT EXISTS kv_store (k VARCHAR(191) PRIMARY KEY, v LONGTEXT NOT NULL)`,
		get:    `SELECT v FROM kv_store WHERE k = ?`,
		upsert: `INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
	},
	BackendPostgres: {
		driver: "postgres",
		create: `CREATE TABLE IF NOT EXISTS kv_store (k TEXT PRIMARY KEY, v TEXT NOT NULL)`,
		get:    `SELECT v FROM kv_store WHERE k = $1`,
		upsert: `INSERT INTO kv_store (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`,
	},
}

// SQLStore keeps keys in a single kv_store table of an SQL database
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLStore opens the database and creates kv_store if missing.
// backend is one of sqlite, mysql, postgres.
func NewSQLStore(backend, dsn string) (*SQLStore, error) {
	d, ok := dialects[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported SQL backend: %s", backend)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", backend, err)
	}
	if backend == BackendSQLite {
		// one writer; also keeps ":memory:" on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s store: %w", backend, err)
	}

	if _, err := db.Exec(d.create); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}

	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(s.dialect.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLStore) Set(key, value string) error {
	if _, err := s.db.Exec(s.dialect.upsert, key, value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
