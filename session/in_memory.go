package session

import (
	"sync"

	"advisormesh/core"
)

// InMemoryStore is a volatile core.SessionStore storing sessions in a process
// local map. Each returned session is cloned to prevent external mutation of
// internal state. Acquire hands out a per-session mutex so exactly one turn
// mutates a given session at a time; sessions are never proactively destroyed
// (retention is an external policy).
type InMemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*core.Session
	locks    map[string]*sync.Mutex
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*core.Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Load returns a clone of the stored session, or (nil, nil) when unknown.
func (s *InMemoryStore) Load(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess.Clone(), nil
	}
	return nil, nil
}

// Save stores a clone of the provided session snapshot.
func (s *InMemoryStore) Save(sess *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Acquire locks the session's record for the duration of one turn and
// returns the release function. Distinct session IDs never contend.
func (s *InMemoryStore) Acquire(sessionID string) (release func()) {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Len returns the number of stored sessions.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
