package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Ledger is the append-only record of bookings. Append must be durable
// before it returns; the availability slot is only flipped after a
// successful Append.
type Ledger interface {
	Append(ctx context.Context, b Booking) error
	Cancel(ctx context.Context, id string) error
	ListBySession(ctx context.Context, sessionID string) ([]Booking, error)
}

// MemoryLedger keeps bookings in process memory. Used in tests and as the
// backing when no durable store is configured.
type MemoryLedger struct {
	mu       sync.Mutex
	bookings []Booking
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Append(_ context.Context, b Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings = append(l.bookings, b)
	return nil
}

func (l *MemoryLedger) Cancel(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.bookings {
		if l.bookings[i].ID == id {
			l.bookings[i].Status = StatusCancelled
			return nil
		}
	}
	return fmt.Errorf("booking: unknown booking %s", id)
}

func (l *MemoryLedger) ListBySession(_ context.Context, sessionID string) ([]Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Booking
	for _, b := range l.bookings {
		if b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	return out, nil
}

// All returns every booking in append order.
func (l *MemoryLedger) All() []Booking {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Booking, len(l.bookings))
	copy(out, l.bookings)
	return out
}

// JSONFileLedger persists bookings as a JSON array, matching the clinic data
// file layout. Every Append rewrites the file through a temp file + rename.
type JSONFileLedger struct {
	mu       sync.Mutex
	path     string
	bookings []Booking
}

// OpenJSONFileLedger loads the ledger file, creating an empty ledger when
// the file does not exist yet.
func OpenJSONFileLedger(path string) (*JSONFileLedger, error) {
	if path == "" {
		panic("booking: ledger file path required")
	}
	l := &JSONFileLedger{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("booking: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &l.bookings); err != nil {
		return nil, fmt.Errorf("booking: parse %s: %w", path, err)
	}
	return l, nil
}

func (l *JSONFileLedger) Append(_ context.Context, b Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings = append(l.bookings, b)
	if err := l.flush(); err != nil {
		l.bookings = l.bookings[:len(l.bookings)-1]
		return err
	}
	return nil
}

func (l *JSONFileLedger) Cancel(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.bookings {
		if l.bookings[i].ID == id {
			l.bookings[i].Status = StatusCancelled
			if err := l.flush(); err != nil {
				l.bookings[i].Status = StatusConfirmed
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("booking: unknown booking %s", id)
}

func (l *JSONFileLedger) ListBySession(_ context.Context, sessionID string) ([]Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Booking
	for _, b := range l.bookings {
		if b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	return out, nil
}

// flush writes the ledger to disk. Callers hold l.mu.
func (l *JSONFileLedger) flush() error {
	data, err := json.MarshalIndent(l.bookings, "", "  ")
	if err != nil {
		return fmt.Errorf("booking: marshal ledger: %w", err)
	}
	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".bookings-*.json")
	if err != nil {
		return fmt.Errorf("booking: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("booking: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("booking: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("booking: replace %s: %w", l.path, err)
	}
	return nil
}
