package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGenerate EventType = "generate"
	EventLineHit  EventType = "line_hit"
	EventVariable EventType = "variable"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// GenerateEvent is emitted after a program was turned into source text.
type GenerateEvent struct {
	EventBase
	Program     string        `json:"program"`
	Functions   int           `json:"functions"`
	Lines       int           `json:"lines"`
	Breakpoints int           `json:"breakpoints"`
	Duration    time.Duration `json:"duration"`
}

// LineHitEvent reports that the debugger stopped on a source line.
// Node is NoTag when the line has no originating node (e.g. a closing brace).
type LineHitEvent struct {
	EventBase
	SessionID string `json:"session_id"`
	Line      int    `json:"line"`
	Node      Tag    `json:"node"`
	Function  string `json:"function,omitempty"`
}

// VariableEvent reports a variable binding observed by the debugger.
type VariableEvent struct {
	EventBase
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

// LifecycleHooks defines callbacks for observability.
type LifecycleHooks struct {
	OnGenerate func(context.Context, *GenerateEvent)
	OnLineHit  func(context.Context, *LineHitEvent)
	OnVariable func(context.Context, *VariableEvent)
}
