package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction marks a BEGIN ... COMMIT/ROLLBACK span on a session.
// Statements inside it are applied immediately; COMMIT and ROLLBACK only
// close the marker. Nothing is buffered or undone.
type Transaction struct {
	ID         string    // Unique transaction identifier (UUID)
	Active     bool      // Whether transaction is currently open
	StartTime  time.Time // When BEGIN was acknowledged
	Statements int       // Statements executed while open
}

// NewTransaction creates a new open transaction marker with a unique ID
func NewTransaction(now time.Time) *Transaction {
	return &Transaction{
		ID:        uuid.New().String(),
		Active:    true,
		StartTime: now,
	}
}

// Close marks the transaction as inactive
func (tx *Transaction) Close() {
	tx.Active = false
}
