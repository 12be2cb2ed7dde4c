package observability

import (
	"encoding/json"
	"io"
	"sync"

	"advisormesh/core"
)

// JSONLEmitter writes trace events as JSON lines to an io.Writer from a
// background goroutine. Emit never blocks the calling turn: when the buffer
// is full the event is dropped. Close flushes pending events and stops the
// writer; Emit after Close is a no-op.
type JSONLEmitter struct {
	ch     chan core.TraceEvent
	done   chan struct{}
	closed sync.Once
	logger Logger
}

// JSONLEmitterOptions configure the emitter.
type JSONLEmitterOptions struct {
	// BufferSize sets the channel buffering for pending events.
	BufferSize int
	// Logger receives a warning when events are dropped.
	Logger Logger
}

// NewJSONLEmitter starts an emitter writing to w.
func NewJSONLEmitter(w io.Writer, optFns ...func(o *JSONLEmitterOptions)) *JSONLEmitter {
	opts := JSONLEmitterOptions{BufferSize: 256, Logger: NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	e := &JSONLEmitter{
		ch:     make(chan core.TraceEvent, opts.BufferSize),
		done:   make(chan struct{}),
		logger: opts.Logger,
	}

	go func() {
		defer close(e.done)
		enc := json.NewEncoder(w)
		for ev := range e.ch {
			if err := enc.Encode(ev); err != nil {
				// The sink being unreachable must never fail a turn.
				e.logger.Warn("trace event write failed", "error", err.Error())
			}
		}
	}()

	return e
}

// Emit implements core.TraceEmitter.
func (e *JSONLEmitter) Emit(ev core.TraceEvent) {
	defer func() {
		// Emit on a closed emitter drops the event instead of panicking.
		_ = recover()
	}()
	select {
	case e.ch <- ev:
	default:
		e.logger.Warn("trace event dropped", "kind", ev.Kind, "session_id", ev.SessionID)
	}
}

// Close stops the background writer after draining pending events.
func (e *JSONLEmitter) Close() {
	e.closed.Do(func() {
		close(e.ch)
		<-e.done
	})
}

// MemoryEmitter collects events in memory for tests and examples.
type MemoryEmitter struct {
	mu     sync.Mutex
	events []core.TraceEvent
}

// NewMemoryEmitter constructs an empty collecting emitter.
func NewMemoryEmitter() *MemoryEmitter { return &MemoryEmitter{} }

// Emit implements core.TraceEmitter.
func (e *MemoryEmitter) Emit(ev core.TraceEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

// Events returns a copy of all collected events in emission order.
func (e *MemoryEmitter) Events() []core.TraceEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.TraceEvent, len(e.events))
	copy(out, e.events)
	return out
}
