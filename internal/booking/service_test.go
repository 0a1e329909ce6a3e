package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/medcareclinic/clinic-ai-assistant/internal/availability"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

type failingLedger struct {
	appendErr error
	cancelled []string
}

func (l *failingLedger) Append(_ context.Context, _ Booking) error { return l.appendErr }
func (l *failingLedger) Cancel(_ context.Context, id string) error {
	l.cancelled = append(l.cancelled, id)
	return nil
}
func (l *failingLedger) ListBySession(_ context.Context, _ string) ([]Booking, error) {
	return nil, nil
}

func testRequest() Request {
	return Request{
		SessionID:   "sess-1",
		ServiceID:   "cardiology_consultation",
		PatientName: "John Smith",
		PatientDOB:  "1990-05-15",
		Date:        "2025-03-10",
		Time:        "10:00",
	}
}

func newTestService(t *testing.T, ledger Ledger) *Service {
	t.Helper()
	slots := availability.NewStore(availability.Table{
		"2025-03-10": {"09:00": true, "10:00": true, "11:00": false},
	})
	return NewService(slots, ledger, logging.New("error"))
}

func TestCommitConfirmsAndTakesSlot(t *testing.T) {
	ledger := NewMemoryLedger()
	svc := newTestService(t, ledger)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	}

	b, err := svc.Commit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}
	if !strings.HasPrefix(b.ID, "BK-20250309143000-") {
		t.Fatalf("unexpected booking id %s", b.ID)
	}
	if got := ledger.All(); len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected one ledger record for %s, got %v", b.ID, got)
	}
	if svc.slots.Check("2025-03-10", "10:00") {
		t.Fatal("slot should be taken after commit")
	}
}

func TestCommitSlotConflict(t *testing.T) {
	ledger := NewMemoryLedger()
	svc := newTestService(t, ledger)

	if _, err := svc.Commit(context.Background(), testRequest()); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	_, err := svc.Commit(context.Background(), testRequest())
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected slot conflict, got %v", err)
	}
	if got := ledger.All(); len(got) != 1 {
		t.Fatalf("conflicting commit must not append, ledger has %d records", len(got))
	}
}

func TestCommitUntrackedSlotConflicts(t *testing.T) {
	svc := newTestService(t, NewMemoryLedger())
	req := testRequest()
	req.Time = "16:00"

	_, err := svc.Commit(context.Background(), req)
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("untracked slot must conflict, got %v", err)
	}
}

func TestCommitLedgerFailureFailsClosed(t *testing.T) {
	ledger := &failingLedger{appendErr: errors.New("disk full")}
	svc := newTestService(t, ledger)

	_, err := svc.Commit(context.Background(), testRequest())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence failure, got %v", err)
	}
	if !svc.slots.Check("2025-03-10", "10:00") {
		t.Fatal("slot must stay free when the ledger write fails")
	}
	if len(ledger.cancelled) != 0 {
		t.Fatalf("no compensation expected when append failed, got %v", ledger.cancelled)
	}
}

func TestCommitIncompleteRequestRejected(t *testing.T) {
	svc := newTestService(t, NewMemoryLedger())
	req := testRequest()
	req.PatientDOB = ""

	if _, err := svc.Commit(context.Background(), req); err == nil {
		t.Fatal("expected error for incomplete request")
	}
	if !svc.slots.Check("2025-03-10", "10:00") {
		t.Fatal("slot must stay free when the request is incomplete")
	}
}

func TestCommitConcurrentExactlyOneWinner(t *testing.T) {
	ledger := NewMemoryLedger()
	svc := newTestService(t, ledger)

	const attempts = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successes, conflicts int

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Commit(context.Background(), testRequest())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one successful commit, got %d", successes)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicts)
	}
	if got := ledger.All(); len(got) != 1 {
		t.Fatalf("expected exactly one ledger record, got %d", len(got))
	}
}

func TestListBySession(t *testing.T) {
	ledger := NewMemoryLedger()
	svc := newTestService(t, ledger)

	if _, err := svc.Commit(context.Background(), testRequest()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	other := testRequest()
	other.SessionID = "sess-2"
	other.Time = "09:00"
	if _, err := svc.Commit(context.Background(), other); err != nil {
		t.Fatalf("second commit failed: %v", err)
	}

	got, err := svc.ListBySession(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 || got[0].SessionID != "sess-1" {
		t.Fatalf("expected one booking for sess-1, got %v", got)
	}
}

func TestBookingIDsMonotonicWithinTick(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	first := newBookingID(at)
	second := newBookingID(at)
	if first == second {
		t.Fatalf("ids within one tick must differ, both %s", first)
	}
	if !(first < second) {
		t.Fatalf("ids must sort in mint order, got %s then %s", first, second)
	}
}
