package core

import (
	"time"

	"github.com/google/uuid"
)

// Trace event kinds emitted over the observability boundary.
const (
	TraceQueryReceived  = "query_received"
	TraceRouted         = "routed"
	TraceAgentCompleted = "agent_completed"
	TraceTurnCompleted  = "turn_completed"
)

// TraceEvent is a structured observability record summarizing one step of a
// turn. After emission it should be treated as immutable.
type TraceEvent struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Kind      string         `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewTraceEvent creates an event with a fresh ID and UTC timestamp.
func NewTraceEvent(sessionID, kind string) TraceEvent {
	return TraceEvent{
		ID:        NewID(),
		SessionID: sessionID,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Data:      map[string]any{},
	}
}

// TraceEmitter delivers events to an external observability sink. Emit is
// fire-and-forget: implementations must never block or fail the calling turn,
// even when the sink is unreachable.
type TraceEmitter interface {
	Emit(ev TraceEvent)
}

// NopEmitter discards all events. Useful for tests or when tracing is disabled.
type NopEmitter struct{}

// Emit implements TraceEmitter.
func (NopEmitter) Emit(TraceEvent) {}

// NewID generates a new unique identifier for trace events and sessions.
func NewID() string { return uuid.NewString() }
