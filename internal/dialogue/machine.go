package dialogue

import "github.com/medcareclinic/clinic-ai-assistant/internal/catalog"

// Action kinds the state machine can emit. The machine never crafts
// natural-language text; the generator renders each action.
const (
	KindCommitBooking    = "commit_booking"
	KindBookingConfirmed = "booking_confirmed"
	KindTryAgain         = "try_again"
	KindRequestIdentity  = "request_identity"
	KindSlotConflict     = "slot_conflict"
	KindShowAvailability = "show_availability"
	KindSuggestServices  = "suggest_services"
	KindClarifyService   = "clarify_service"
	KindClarify          = "clarify"
)

// Action is the structured outcome of one turn.
type Action struct {
	Kind string `json:"kind"`

	ServiceID string `json:"service_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	BookingID string `json:"booking_id,omitempty"`

	// Free times for Date when Kind is slot_conflict.
	Alternatives []string `json:"alternatives,omitempty"`
	// Candidate dates when Kind is show_availability.
	Dates []string `json:"dates,omitempty"`
	// Top-ranked services when Kind is suggest_services.
	Services []catalog.Service `json:"services,omitempty"`
	Category string            `json:"category,omitempty"`
}

// Decide maps a turn snapshot to the next action. It is a pure function:
// the same context always yields the same action. Rules are checked in
// order and are mutually exclusive; the first match fires.
func Decide(ctx TurnContext) Action {
	// 1. Everything needed for a booking is known.
	if ctx.Stage == StageReadyToConfirm {
		return Action{
			Kind:      KindCommitBooking,
			ServiceID: ctx.Facts.ServiceID,
			Date:      ctx.Facts.Date,
			Time:      ctx.Facts.Time,
		}
	}

	// 2. A concrete slot just landed; ask who the patient is, or surface
	// the conflict with the remaining free times.
	if ctx.DatetimeNewThisTurn && !ctx.IdentityRequested {
		if ctx.SlotFree {
			return Action{
				Kind:      KindRequestIdentity,
				ServiceID: ctx.Facts.ServiceID,
				Date:      ctx.Facts.Date,
				Time:      ctx.Facts.Time,
			}
		}
		return Action{
			Kind:         KindSlotConflict,
			Date:         ctx.Facts.Date,
			Time:         ctx.Facts.Time,
			Alternatives: ctx.FreeAlternatives,
		}
	}

	// 3. Service settled and the patient wants to know when.
	if ctx.Facts.ServiceID != "" && ctx.AsksAvailability && !ctx.AvailabilityShown {
		return Action{
			Kind:      KindShowAvailability,
			ServiceID: ctx.Facts.ServiceID,
			Dates:     ctx.AvailableDates,
		}
	}

	// 4. We know the category but have not pitched services yet.
	if ctx.Category != "" && !ctx.ServiceSuggested {
		return Action{
			Kind:     KindSuggestServices,
			Category: ctx.Category,
			Services: ctx.Suggestions,
		}
	}

	// 5. Wants to book but we cannot tell for what.
	if ctx.BookingIntent && ctx.Facts.ServiceID == "" {
		return Action{Kind: KindClarifyService}
	}

	// 6. Nothing actionable this turn.
	return Action{Kind: KindClarify}
}
