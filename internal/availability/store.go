package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var availabilityTracer = otel.Tracer("clinic.internal.availability")

// ErrSlotUnavailable is returned when a take is attempted on a slot that is
// taken or not present in the table.
var ErrSlotUnavailable = errors.New("availability: slot is not free")

// Persister loads and saves the full availability table. Load-all/save-all
// semantics; Save must be atomic at the file level.
type Persister interface {
	Load() (Table, error)
	Save(Table) error
}

// Store owns the availability table. It is the one mutable resource shared
// across sessions, so every mutation runs under the store lock.
type Store struct {
	mu        sync.Mutex
	table     Table
	persister Persister
}

// NewStore creates a store seeded with table. A nil table starts empty.
func NewStore(table Table) *Store {
	if table == nil {
		table = make(Table)
	}
	return &Store{table: table}
}

// Open loads the table from the persister and keeps it for later saves.
func Open(p Persister) (*Store, error) {
	if p == nil {
		panic("availability: persister required")
	}
	table, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("availability: load table: %w", err)
	}
	if table == nil {
		table = make(Table)
	}
	return &Store{table: table, persister: p}, nil
}

// Check reports whether a slot reads as free. A slot absent from the table
// reads free here for display purposes only; TakeIfFree still rejects it.
func (s *Store) Check(date, at string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots, ok := s.table[date]
	if !ok {
		return true
	}
	free, ok := slots[at]
	if !ok {
		return true
	}
	return free
}

// HasSlot reports whether the slot structurally exists in the table.
func (s *Store) HasSlot(date, at string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.table[date][at]
	return ok
}

// FreeSlots returns the explicitly free times for a date, sorted ascending.
func (s *Store) FreeSlots(date string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.FreeSlots(date)
}

// Dates returns every date key present in the table, sorted ascending so
// the list shown to patients is stable between turns.
func (s *Store) Dates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.table))
	for date := range s.table {
		out = append(out, date)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a deep copy of the current table.
func (s *Store) Snapshot() Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Clone()
}

// TakeIfFree atomically flips a free slot to taken. The slot must be present
// in the table and explicitly free; absence is never bookable. When beforeTake
// is non-nil it runs inside the critical section before the flip; the
// booking service uses it for the durable ledger append, so the slot is never
// marked taken unless that write succeeded. If persisting the flipped table
// fails the flip is rolled back and the error returned.
func (s *Store) TakeIfFree(ctx context.Context, date, at string, beforeTake func() error) error {
	_, span := availabilityTracer.Start(ctx, "availability.take_if_free")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.slot_date", date),
		attribute.String("clinic.slot_time", at),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, ok := s.table[date]
	if !ok {
		return ErrSlotUnavailable
	}
	free, ok := slots[at]
	if !ok || !free {
		return ErrSlotUnavailable
	}

	if beforeTake != nil {
		if err := beforeTake(); err != nil {
			span.RecordError(err)
			return err
		}
	}

	slots[at] = false
	if s.persister != nil {
		if err := s.persister.Save(s.table); err != nil {
			slots[at] = true
			span.RecordError(err)
			return fmt.Errorf("availability: persist table: %w", err)
		}
	}
	return nil
}
