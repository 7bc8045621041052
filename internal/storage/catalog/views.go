package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/sqlsandbox/internal/domain/data"
)

// View is a saved query together with the result it produced
type View struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Query     string     `json:"query"`
	Database  string     `json:"database"`
	Columns   []string   `json:"columns"`
	ResultSet []data.Row `json:"resultSet"`
	CreatedAt time.Time  `json:"createdAt"`
}

// SaveView stores v, assigning an ID when it has none. A view with an
// existing ID is replaced.
func (c *Catalog) SaveView(v View) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v.Name == "" {
		return v, fmt.Errorf("view name is required")
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = c.Now()
	}

	var views []View
	if _, err := c.getJSONUnsafe(keyViews, &views); err != nil {
		return v, err
	}

	replaced := false
	for i := range views {
		if views[i].ID == v.ID {
			views[i] = v
			replaced = true
			break
		}
	}
	if !replaced {
		views = append(views, v)
	}
	return v, c.setJSONUnsafe(keyViews, views)
}

// Views returns saved views in insertion order
func (c *Catalog) Views() ([]View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	views := make([]View, 0)
	if _, err := c.getJSONUnsafe(keyViews, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Catalog) DeleteView(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var views []View
	if _, err := c.getJSONUnsafe(keyViews, &views); err != nil {
		return err
	}
	for i := range views {
		if views[i].ID == id {
			views = append(views[:i], views[i+1:]...)
			return c.setJSONUnsafe(keyViews, views)
		}
	}
	return fmt.Errorf("view %s not found", id)
}
