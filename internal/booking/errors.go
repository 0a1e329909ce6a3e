package booking

import "errors"

// ErrSlotConflict is returned when a commit targets a slot that is taken or
// not present in the availability table. Recoverable; callers surface the
// remaining free slots for the date.
var ErrSlotConflict = errors.New("booking: slot conflict")

// ErrPersistence is returned when the ledger or availability table cannot be
// written durably. The commit fails closed: no booking exists and the slot
// stays free.
var ErrPersistence = errors.New("booking: persistence failure")
