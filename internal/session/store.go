package session

import (
	"context"
	"sync"
	"time"

	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

// Store serializes access per session: Update runs fn with exclusive
// ownership of the session, so no two turns of the same session are ever
// processed concurrently. Turns of different sessions run in parallel.
type Store interface {
	// Update loads (or creates) the session and runs fn on it under the
	// session's lock. Mutations made by fn are persisted when fn returns
	// nil and discarded when it returns an error.
	Update(ctx context.Context, sessionID string, fn func(*Session) error) error
	// Get returns a snapshot of the session, reporting whether it exists.
	Get(ctx context.Context, sessionID string) (Session, bool, error)
	// Reset clears the session's facts and transcript.
	Reset(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	mu      sync.Mutex
	session Session
}

// MemoryStore keeps sessions in process memory with per-session locking and
// idle eviction.
type MemoryStore struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	idleTimeout time.Duration
	logger      *logging.Logger
	now         func() time.Time
}

// NewMemoryStore creates an in-memory session store. Sessions idle longer
// than idleTimeout are dropped by RunJanitor; idleTimeout <= 0 disables
// eviction.
func NewMemoryStore(idleTimeout time.Duration, logger *logging.Logger) *MemoryStore {
	if logger == nil {
		panic("session: logger required")
	}
	return &MemoryStore{
		entries:     make(map[string]*memoryEntry),
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *MemoryStore) entry(sessionID string) *memoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sessionID]
	if !ok {
		now := s.now()
		e = &memoryEntry{session: Session{ID: sessionID, CreatedAt: now, LastActiveAt: now}}
		s.entries[sessionID] = e
	}
	return e
}

func (s *MemoryStore) Update(_ context.Context, sessionID string, fn func(*Session) error) error {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	working := cloneSession(e.session)
	if err := fn(&working); err != nil {
		return err
	}
	e.session = working
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (Session, bool, error) {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	s.mu.Unlock()
	if !ok {
		return Session{}, false, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneSession(e.session), true, nil
}

func (s *MemoryStore) Reset(_ context.Context, sessionID string) error {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Reset(s.now())
	return nil
}

// RunJanitor evicts idle sessions every interval until ctx is cancelled.
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.idleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

func (s *MemoryStore) evictIdle() {
	cutoff := s.now().Add(-s.idleTimeout)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		e.mu.Lock()
		idle := e.session.LastActiveAt.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.entries, id)
			s.logger.Debug("evicted idle session", "session_id", id)
		}
	}
}

func cloneSession(in Session) Session {
	out := in
	out.Transcript = append([]TranscriptEntry(nil), in.Transcript...)
	out.Facts.Symptoms = append([]string(nil), in.Facts.Symptoms...)
	return out
}
