package engine

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/leengari/sqlsandbox/internal/executor"
	"github.com/leengari/sqlsandbox/internal/testutil"
)

// MockObserver is a test observer that records events
type MockObserver struct {
	Events []Event
}

func (m *MockObserver) OnEvent(event Event) {
	m.Events = append(m.Events, event)
}

func (m *MockObserver) types() []EventType {
	out := make([]EventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Type
	}
	return out
}

func TestAddObserver(t *testing.T) {
	eng := New(testutil.NewCatalog(t))
	observer := &MockObserver{}

	eng.AddObserver(observer)

	if len(eng.observers) != 1 {
		t.Errorf("Expected 1 observer, got %d", len(eng.observers))
	}
}

func TestRemoveObserver(t *testing.T) {
	eng := New(testutil.NewCatalog(t))
	observer := &MockObserver{}

	eng.AddObserver(observer)
	eng.RemoveObserver(observer)

	if len(eng.observers) != 0 {
		t.Errorf("Expected 0 observers, got %d", len(eng.observers))
	}
}

func TestNotifyWithNoObservers(t *testing.T) {
	eng := New(testutil.NewCatalog(t))

	// Should not panic
	eng.notify(Event{Type: EventExecuteStart, TraceID: "test-trace"})
}

func TestNotifyWithMultipleObservers(t *testing.T) {
	eng := New(testutil.NewCatalog(t))
	observer1 := &MockObserver{}
	observer2 := &MockObserver{}

	eng.AddObserver(observer1)
	eng.AddObserver(observer2)

	eng.notify(Event{Type: EventExecuteStart, TraceID: "test-trace", Data: "SELECT * FROM users"})

	assert.Check(t, is.Len(observer1.Events, 1))
	assert.Check(t, is.Len(observer2.Events, 1))
	assert.Equal(t, EventExecuteStart, observer1.Events[0].Type)
	assert.Equal(t, EventExecuteStart, observer2.Events[0].Type)
	assert.Check(t, !observer1.Events[0].Timestamp.IsZero())
}

func TestLifecycleOfMutatingStatement(t *testing.T) {
	eng := New(testutil.NewCatalog(t))
	observer := &MockObserver{}
	eng.AddObserver(observer)

	res := eng.Execute("", "INSERT INTO products (name, price) VALUES ('Pen', 1.5)")
	testutil.AssertSuccess(t, res, "insert")

	assert.DeepEqual(t, []EventType{
		EventExecuteStart,
		EventClassified,
		EventHandlerEnd,
		EventHistoryAppended,
		EventPersisted,
		EventExecuteEnd,
	}, observer.types())

	traceID := observer.Events[0].TraceID
	assert.Check(t, traceID != "")
	for _, e := range observer.Events {
		assert.Equal(t, traceID, e.TraceID)
	}
	assert.Equal(t, executor.QueryInsert, observer.Events[1].Data)
}

func TestReadOnlyStatementIsNotPersisted(t *testing.T) {
	eng := New(testutil.NewCatalog(t))
	observer := &MockObserver{}
	eng.AddObserver(observer)

	testutil.AssertSuccess(t, eng.Execute("", "SELECT * FROM users"), "select")

	assert.DeepEqual(t, []EventType{
		EventExecuteStart,
		EventClassified,
		EventHandlerEnd,
		EventHistoryAppended,
		EventExecuteEnd,
	}, observer.types())
}

func TestEachStatementGetsItsOwnTrace(t *testing.T) {
	eng := New(testutil.NewCatalog(t))
	observer := &MockObserver{}
	eng.AddObserver(observer)

	eng.Execute("", "SELECT id FROM users")
	first := observer.Events[0].TraceID
	observer.Events = nil
	eng.Execute("", "SELECT id FROM users")

	assert.Check(t, first != observer.Events[0].TraceID)
}

func TestInvokeRecoversFromPanic(t *testing.T) {
	panicking := func(*executor.Context, string) *executor.Result {
		panic("index out of range")
	}

	res := invoke(panicking, executor.QuerySelect, &executor.Context{}, "SELECT 1")

	assert.Check(t, !res.Success)
	assert.Equal(t, "SELECT error: index out of range", res.Error)
	assert.Equal(t, executor.QuerySelect, res.QueryType)
}

func TestInvokeFillsQueryType(t *testing.T) {
	bare := func(*executor.Context, string) *executor.Result {
		return &executor.Result{Success: true, Output: "ok"}
	}
	missing := func(*executor.Context, string) *executor.Result { return nil }

	res := invoke(bare, executor.QueryShow, &executor.Context{}, "SHOW TABLES")
	assert.Equal(t, executor.QueryShow, res.QueryType)

	res = invoke(missing, executor.QueryShow, &executor.Context{}, "SHOW TABLES")
	assert.Check(t, !res.Success)
	assert.Check(t, is.Contains(res.Error, "handler returned no result"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  executor.QueryType
	}{
		{"select * from users", executor.QuerySelect},
		{"INSERT INTO t VALUES (1)", executor.QueryInsert},
		{"UPDATE t SET a = 1", executor.QueryUpdate},
		{"DELETE FROM t", executor.QueryDelete},
		{"CREATE TABLE t (id INT)", executor.QueryCreate},
		{"CREATE DATABASE shop", executor.QueryCreate},
		{"CREATE UNIQUE INDEX i ON t (a)", executor.QueryCreate},
		{"DROP TABLE t", executor.QueryDrop},
		{"DROP DATABASE shop", executor.QueryDrop},
		{"ALTER TABLE t ADD COLUMN b INT", executor.QueryAlter},
		{"TRUNCATE TABLE t", executor.QueryTruncate},
		{"SHOW TABLES", executor.QueryShow},
		{"SHOW DATABASES", executor.QueryShow},
		{"SHOW COLUMNS FROM t", executor.QueryDescribe},
		{"DESC t", executor.QueryDescribe},
		{"USE shop", executor.QueryUse},
		{"EXPLAIN SELECT * FROM t", executor.QueryExplain},
		{"START TRANSACTION", executor.QueryTransaction},
		{"commit", executor.QueryTransaction},
		{"GRANT ALL ON t TO bob", executor.QueryUnknown},
		{"SELECTED", executor.QueryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, h := Classify(tt.query)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == executor.QueryUnknown, h == nil)
		})
	}
}
