package catalog

import (
	"time"

	"github.com/google/uuid"
)

// MaxHistoryQueryLength is how much of a query text a history entry keeps
const MaxHistoryQueryLength = 200

// HistoryItem is one executed statement
type HistoryItem struct {
	ID            string    `json:"id"`
	Query         string    `json:"query"`
	Result        string    `json:"result"`
	Timestamp     time.Time `json:"timestamp"`
	Success       bool      `json:"success"`
	ExecutionTime float64   `json:"executionTime"`
	RowCount      int       `json:"rowCount,omitempty"`
	AffectedRows  int       `json:"affectedRows,omitempty"`
	Database      string    `json:"database,omitempty"`
}

// AppendHistory prepends item, truncating its query and dropping the
// oldest entries beyond the history limit
func (c *Catalog) AppendHistory(item HistoryItem) (HistoryItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = c.Now()
	}
	item.Query = Truncate(item.Query, MaxHistoryQueryLength)

	var items []HistoryItem
	if _, err := c.getJSONUnsafe(keyHistory, &items); err != nil {
		return item, err
	}

	items = append([]HistoryItem{item}, items...)
	if c.historyLimit > 0 && len(items) > c.historyLimit {
		items = items[:c.historyLimit]
	}
	return item, c.setJSONUnsafe(keyHistory, items)
}

// History returns entries newest first
func (c *Catalog) History() ([]HistoryItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]HistoryItem, 0)
	if _, err := c.getJSONUnsafe(keyHistory, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Catalog) ClearHistory() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setJSONUnsafe(keyHistory, []HistoryItem{})
}

// Truncate shortens s to at most n runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
