package booking

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Booking statuses. The ledger is append-only; a cancelled booking stays in
// the ledger with its status flipped.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is one confirmed appointment.
type Booking struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	ServiceID   string    `json:"service_id"`
	PatientName string    `json:"patient_name"`
	PatientDOB  string    `json:"patient_dob"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// idCounter disambiguates ids minted within the same clock second.
var idCounter atomic.Uint64

// newBookingID derives an id from the creation timestamp plus a monotonic
// counter, so ids sort in creation order and never collide within a tick.
func newBookingID(createdAt time.Time) string {
	return fmt.Sprintf("BK-%s-%06d", createdAt.UTC().Format("20060102150405"), idCounter.Add(1))
}
