// Package engine is the statement dispatcher: it cleans and classifies a
// query, runs the matching handler, stamps execution metadata, records
// history and persists databases changed by successful statements.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/sqlsandbox/internal/executor"
	"github.com/leengari/sqlsandbox/internal/parser"
	"github.com/leengari/sqlsandbox/internal/storage/catalog"
)

// Engine is the main entry point for the query engine. Execute calls are
// serialized, so a multi-connection host still sees one statement at a
// time and the last persisted write wins.
type Engine struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	observers []Observer // Observers for lifecycle events
	obsMu     sync.RWMutex

	memory func() float64
	now    func() time.Time
}

type Option func(*Engine)

// WithMemorySampler replaces the source of the synthetic memory figure
func WithMemorySampler(sample func() float64) Option {
	return func(e *Engine) { e.memory = sample }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over cat
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:   cat,
		observers: make([]Observer, 0),
		memory:    simulatedMemoryMB,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// simulatedMemoryMB is a random figure between 1 and 11 MB. It is not a
// measurement of anything.
func simulatedMemoryMB() float64 {
	return math.Round((1+rand.Float64()*10)*100) / 100
}

// Catalog exposes the persistence layer the engine writes to
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// NewSession opens a session on dbName. An empty name starts from the
// persisted current-database pointer.
func (e *Engine) NewSession(dbName string) *Session {
	if dbName == "" {
		current, err := e.catalog.CurrentDatabase()
		if err != nil {
			slog.Warn("failed to read current database pointer", "error", err)
		}
		dbName = current
	}
	return &Session{engine: e, current: dbName}
}

// Execute runs a single statement against dbName
func (e *Engine) Execute(dbName, query string) *executor.Result {
	return e.NewSession(dbName).Execute(query)
}

// ExecuteBatch runs a semicolon-separated script against dbName
func (e *Engine) ExecuteBatch(dbName, script string) *BatchResult {
	return e.NewSession(dbName).ExecuteBatch(script)
}

func (e *Engine) execute(s *Session, query string) *executor.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	traceID := uuid.New().String()
	e.notify(Event{Type: EventExecuteStart, TraceID: traceID, Data: query})

	cleaned := parser.Clean(query)
	if cleaned == "" {
		res := &executor.Result{Output: "Empty query", Error: "Empty query"}
		e.stamp(res, start, s.CurrentDatabase())
		e.notify(Event{Type: EventExecuteEnd, TraceID: traceID, Data: summary(res)})
		return res
	}

	qt, handler := Classify(cleaned)
	e.notify(Event{Type: EventClassified, TraceID: traceID, Data: qt})
	if handler == nil {
		msg := fmt.Sprintf("Unsupported statement: %s", leadingKeyword(cleaned))
		res := &executor.Result{Output: msg, Error: msg, QueryType: executor.QueryUnknown}
		e.stamp(res, start, s.CurrentDatabase())
		e.notify(Event{Type: EventExecuteEnd, TraceID: traceID, Data: summary(res)})
		return res
	}

	if parser.HasSeparator(cleaned) {
		msg := "Multiple statements in one query; run them as a script"
		res := &executor.Result{Output: msg, Error: msg, QueryType: qt}
		e.stamp(res, start, s.CurrentDatabase())
		e.notify(Event{Type: EventExecuteEnd, TraceID: traceID, Data: summary(res)})
		return res
	}

	db, err := e.catalog.EnsureDatabase(s.CurrentDatabase())
	if err != nil {
		res := executor.Fail(qt, err)
		e.stamp(res, start, s.CurrentDatabase())
		e.recordHistory(traceID, cleaned, res)
		e.notify(Event{Type: EventExecuteEnd, TraceID: traceID, Data: summary(res)})
		return res
	}

	ctx := &executor.Context{DB: db, Catalog: e.catalog, Session: s, Now: e.now().UTC()}
	res := invoke(handler, qt, ctx, cleaned)
	e.notify(Event{Type: EventHandlerEnd, TraceID: traceID, Data: summary(res)})

	if tx := s.Transaction(); tx != nil && tx.Active && qt != executor.QueryTransaction {
		tx.Statements++
	}

	e.stamp(res, start, db.Name)
	e.recordHistory(traceID, cleaned, res)

	// ctx.DB is nil when the statement dropped the executing database
	if res.Success && qt.Mutating() && ctx.DB != nil {
		if err := e.catalog.SaveDatabase(ctx.DB); err != nil {
			slog.Error("failed to persist database", "database", ctx.DB.Name, "error", err)
			res.Success = false
			res.Error = fmt.Sprintf("%s error: failed to persist database: %v", qt, err)
			res.Output = res.Error
		} else {
			e.notify(Event{Type: EventPersisted, TraceID: traceID, Data: ctx.DB.Name})
		}
	}

	e.notify(Event{Type: EventExecuteEnd, TraceID: traceID, Data: summary(res)})
	return res
}

// invoke runs the handler and turns a panic into a failed result
func invoke(h executor.Handler, qt executor.QueryType, ctx *executor.Context, query string) (res *executor.Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("handler panicked", "query_type", qt, "panic", r)
			res = executor.Fail(qt, fmt.Errorf("%v", r))
		}
	}()

	res = h(ctx, query)
	if res == nil {
		return executor.Fail(qt, errors.New("handler returned no result"))
	}
	if res.QueryType == "" {
		res.QueryType = qt
	}
	return res
}

// stamp attaches the metadata every result carries
func (e *Engine) stamp(res *executor.Result, start time.Time, dbName string) {
	res.ExecutionTime = float64(time.Since(start).Microseconds()) / 1000
	res.SimulatedMemoryMB = e.memory()
	res.Database = dbName
}

// recordHistory appends a history entry. A failure here is logged and does
// not change the statement's result.
func (e *Engine) recordHistory(traceID, query string, res *executor.Result) {
	summaryText := res.Output
	if !res.Success {
		summaryText = res.Error
	}
	item, err := e.catalog.AppendHistory(catalog.HistoryItem{
		Query:         query,
		Result:        summaryText,
		Success:       res.Success,
		ExecutionTime: res.ExecutionTime,
		RowCount:      res.RowCount,
		AffectedRows:  res.AffectedRows,
		Database:      res.Database,
	})
	if err != nil {
		slog.Warn("failed to append query history", "error", err)
		return
	}
	e.notify(Event{Type: EventHistoryAppended, TraceID: traceID, Data: item.ID})
}

func summary(res *executor.Result) map[string]interface{} {
	return map[string]interface{}{
		"query_type":    res.QueryType,
		"success":       res.Success,
		"rows_returned": res.RowCount,
		"rows_affected": res.AffectedRows,
		"error":         res.Error,
	}
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	e.obsMu.RLock()
	defer e.obsMu.RUnlock()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
