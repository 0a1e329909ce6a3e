package booking

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testBooking(id, sessionID string) Booking {
	return Booking{
		ID:          id,
		SessionID:   sessionID,
		ServiceID:   "general_checkup",
		PatientName: "Jane Doe",
		PatientDOB:  "1985-01-20",
		Date:        "2025-03-10",
		Time:        "09:30",
		Status:      StatusConfirmed,
		CreatedAt:   time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
	}
}

func TestJSONFileLedgerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.json")
	ctx := context.Background()

	ledger, err := OpenJSONFileLedger(path)
	if err != nil {
		t.Fatalf("open missing file: %v", err)
	}
	if err := ledger.Append(ctx, testBooking("BK-1", "sess-1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := ledger.Append(ctx, testBooking("BK-2", "sess-2")); err != nil {
		t.Fatalf("append: %v", err)
	}

	reopened, err := OpenJSONFileLedger(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.ListBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "BK-1" {
		t.Fatalf("expected BK-1 for sess-1, got %v", got)
	}
}

func TestJSONFileLedgerCancelPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.json")
	ctx := context.Background()

	ledger, err := OpenJSONFileLedger(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := ledger.Append(ctx, testBooking("BK-1", "sess-1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := ledger.Cancel(ctx, "BK-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := ledger.Cancel(ctx, "BK-missing"); err == nil {
		t.Fatal("cancel of unknown id must fail")
	}

	reopened, err := OpenJSONFileLedger(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.ListBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Status != StatusCancelled {
		t.Fatalf("expected cancelled record to survive reload, got %v", got)
	}
}

func TestMemoryLedgerCancel(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Append(ctx, testBooking("BK-1", "sess-1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := ledger.Cancel(ctx, "BK-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := ledger.All(); got[0].Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got[0].Status)
	}
}
