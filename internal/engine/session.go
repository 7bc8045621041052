package engine

import (
	"fmt"
	"sync"

	"github.com/leengari/sqlsandbox/internal/domain/transaction"
	"github.com/leengari/sqlsandbox/internal/executor"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/storage/catalog"
)

// Session is the caller-owned execution state: the current database and
// an optional simulated transaction. A REPL or a network connection owns
// one session; USE changes only that session (and the persisted pointer).
type Session struct {
	engine *Engine

	mu      sync.Mutex
	current string
	tx      *transaction.Transaction
}

// CurrentDatabase returns the session's current database ("" means the
// catalog pointer, then the default database)
func (s *Session) CurrentDatabase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) SetCurrentDatabase(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = name
}

func (s *Session) Transaction() *transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx
}

func (s *Session) SetTransaction(tx *transaction.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tx = tx
}

func (s *Session) Engine() *Engine {
	return s.engine
}

// Execute runs one statement against the session's current database
func (s *Session) Execute(query string) *executor.Result {
	return s.engine.execute(s, query)
}

// BatchResult reports a semicolon-separated script run
type BatchResult struct {
	Results []*executor.Result `json:"results"`
	Success bool               `json:"success"`

	// FailedIndex is the 0-based index of the failing statement, -1 if none
	FailedIndex     int    `json:"failedIndex"`
	FailedStatement string `json:"failedStatement,omitempty"`
	Error           string `json:"error,omitempty"`
}

// maxFailedStatementLength bounds the statement echoed in a batch error
const maxFailedStatementLength = 100

// ExecuteBatch runs every statement of script in order and stops at the
// first failure. Effects of earlier statements stay in place. A USE in
// the script switches the database for the statements after it.
func (s *Session) ExecuteBatch(script string) *BatchResult {
	batch := &BatchResult{Success: true, FailedIndex: -1}

	for i, stmt := range parser.SplitStatements(script) {
		res := s.Execute(stmt)
		batch.Results = append(batch.Results, res)
		if !res.Success {
			batch.Success = false
			batch.FailedIndex = i
			batch.FailedStatement = catalog.Truncate(stmt, maxFailedStatementLength)
			batch.Error = fmt.Sprintf("Statement %d failed (%s): %s", i+1, batch.FailedStatement, res.Error)
			break
		}
	}
	return batch
}
