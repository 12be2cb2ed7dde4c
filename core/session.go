package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Turn records one completed query/response exchange within a session.
// Turns are append-only: the history is never reordered or truncated.
type Turn struct {
	Query      string     `json:"query"`
	Answer     string     `json:"answer"`
	Categories []Category `json:"categories,omitempty"`
	Failed     bool       `json:"failed,omitempty"`
	Partial    bool       `json:"partial,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Session represents a conversational container tracking an ordered turn
// history plus a context-attribute mapping (major, year, interests, ...)
// built incrementally as specialist agents extract facts. It is safe for
// concurrent access.
//
// Contract:
//   - Turns and context attributes are monotonically appended/merged
//   - Mutations update the Updated timestamp
//   - Accessors return defensive copies
//   - Clone performs deep copies for safe divergence
type Session struct {
	ID      string            `json:"id"`
	Turns   []Turn            `json:"turns"`
	Context map[string]string `json:"context"`
	Created time.Time         `json:"created"`
	Updated time.Time         `json:"updated"`
	mu      sync.RWMutex
}

// NewSession creates an empty session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, Turns: []Turn{}, Context: map[string]string{}, Created: now, Updated: now}
}

// AppendTurn adds a completed turn to the history. Missing timestamps are
// filled in at append time.
func (s *Session) AppendTurn(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	s.Turns = append(s.Turns, t)
	s.Updated = time.Now()
}

// MergeContext merges the attribute delta into the session context. Existing
// keys are overwritten; nothing is ever removed.
func (s *Session) MergeContext(delta map[string]string) {
	if len(delta) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range delta {
		s.Context[k] = v
	}
	s.Updated = time.Now()
}

// Attribute returns the value and existence flag for one context key.
func (s *Session) Attribute(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Context[key]
	return v, ok
}

// Attributes returns a copy of the full context-attribute mapping.
func (s *Session) Attributes() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.Context))
	for k, v := range s.Context {
		out[k] = v
	}
	return out
}

// RecentTurns returns a copy of the last n turns in chronological order.
func (s *Session) RecentTurns(n int) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || len(s.Turns) == 0 {
		return nil
	}
	start := len(s.Turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(s.Turns)-start)
	copy(out, s.Turns[start:])
	return out
}

// TurnCount returns the number of recorded turns.
func (s *Session) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Turns)
}

// ContextSummary renders the accumulated student context as a single line
// suitable for inclusion in agent prompts, with keys sorted for determinism.
func (s *Session) ContextSummary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Context) == 0 {
		return "No prior context"
	}
	keys := make([]string, 0, len(s.Context))
	for k := range s.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, s.Context[k]))
	}
	return strings.Join(parts, " | ")
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:      s.ID,
		Turns:   make([]Turn, len(s.Turns)),
		Context: make(map[string]string, len(s.Context)),
		Created: s.Created,
		Updated: s.Updated,
	}
	copy(clone.Turns, s.Turns)
	for k, v := range s.Context {
		clone.Context[k] = v
	}
	return clone
}

// SessionStore persists sessions keyed by their identifier. Load returns
// (nil, nil) for an unknown ID; creation on first query is the caller's
// responsibility. Acquire grants exclusive access to one session's record for
// the duration of a turn; the returned release function must always be called.
type SessionStore interface {
	Load(sessionID string) (*Session, error)
	Save(session *Session) error
	Acquire(sessionID string) (release func())
}
