package engine

import "time"

// EventType represents different lifecycle phases in statement execution
type EventType string

const (
	EventExecuteStart    EventType = "execute_start"
	EventClassified      EventType = "classified"
	EventHandlerEnd      EventType = "handler_end"
	EventHistoryAppended EventType = "history_appended"
	EventPersisted       EventType = "persisted"
	EventExecuteEnd      EventType = "execute_end"
)

// Event represents a lifecycle event of one Execute call
type Event struct {
	Type      EventType   // Type of event
	TraceID   string      // Shared by every event of one statement
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Phase-specific data (query text, query type, result summary)
}

// Observer interface for event subscribers
// Observers receive events at major execution phases
type Observer interface {
	OnEvent(event Event)
}
