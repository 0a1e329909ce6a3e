package availability

import (
	"sort"
	"time"
)

// Table maps an ISO 8601 date to a map of HH:MM slots. A slot entry of true
// means the slot is free; false means taken. A slot missing from the table
// has never been offered for that date.
type Table map[string]map[string]bool

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for date, slots := range t {
		copied := make(map[string]bool, len(slots))
		for at, free := range slots {
			copied[at] = free
		}
		out[date] = copied
	}
	return out
}

// FreeSlots returns the explicitly free times for a date, sorted ascending.
// Zero-padded HH:MM sorts lexicographically in chronological order.
func (t Table) FreeSlots(date string) []string {
	slots := t[date]
	if len(slots) == 0 {
		return nil
	}
	out := make([]string, 0, len(slots))
	for at, free := range slots {
		if free {
			out = append(out, at)
		}
	}
	sort.Strings(out)
	return out
}

// defaultSlotTimes is the display-only schedule used when a date has no
// entries. These slots are never bookable until written into the table.
var defaultSlotTimes = []string{"09:00", "09:30", "10:00", "10:30", "11:00"}

// DefaultSlots generates a display-only table covering days consecutive days
// starting at start. Callers must not commit against it.
func DefaultSlots(start time.Time, days int) Table {
	out := make(Table, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		slots := make(map[string]bool, len(defaultSlotTimes))
		for _, at := range defaultSlotTimes {
			slots[at] = true
		}
		out[date] = slots
	}
	return out
}
