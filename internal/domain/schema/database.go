package schema

import (
	"strings"
	"time"
)

// Database is one named entry of the catalog
type Database struct {
	Name         string    `json:"name"`
	Tables       []*Table  `json:"tables"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
	Version      int       `json:"version"`
	Description  string    `json:"description,omitempty"`
}

// NewDatabase creates an empty database stamped with now
func NewDatabase(name string, now time.Time) *Database {
	return &Database{
		Name:         name,
		Tables:       make([]*Table, 0),
		CreatedAt:    now,
		LastModified: now,
		Version:      1,
	}
}

// Table looks up a table by case-insensitive name
func (d *Database) Table(name string) (*Table, bool) {
	if i := d.tableIndex(name); i >= 0 {
		return d.Tables[i], true
	}
	return nil, false
}

// AddTable appends a table. Callers check for name clashes first.
func (d *Database) AddTable(t *Table) {
	d.Tables = append(d.Tables, t)
}

// RemoveTable drops the table with the given case-insensitive name
func (d *Database) RemoveTable(name string) bool {
	i := d.tableIndex(name)
	if i < 0 {
		return false
	}
	d.Tables = append(d.Tables[:i], d.Tables[i+1:]...)
	return true
}

// TableNames returns table names in catalog order
func (d *Database) TableNames() []string {
	names := make([]string, len(d.Tables))
	for i, t := range d.Tables {
		names[i] = t.Name
	}
	return names
}

// Touch records a modification
func (d *Database) Touch(now time.Time) {
	d.LastModified = now
	d.Version++
}

func (d *Database) tableIndex(name string) int {
	for i, t := range d.Tables {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return -1
}
