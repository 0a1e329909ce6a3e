package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medcareclinic/clinic-ai-assistant/internal/catalog"
	"github.com/medcareclinic/clinic-ai-assistant/internal/session"
)

func TestDecideCommitWhenReady(t *testing.T) {
	ctx := TurnContext{
		Stage: StageReadyToConfirm,
		Facts: session.ExtractedFacts{
			ServiceID: "cardiology_consultation",
			Date:      "2025-03-10",
			Time:      "10:00",
			Name:      "John Smith",
			DOB:       "1990-05-15",
		},
		// Commit must win even when later rules would also match.
		DatetimeNewThisTurn: true,
		AsksAvailability:    true,
	}
	got := Decide(ctx)
	assert.Equal(t, KindCommitBooking, got.Kind)
	assert.Equal(t, "2025-03-10", got.Date)
	assert.Equal(t, "10:00", got.Time)
}

func TestDecideRequestIdentityOnFreshFreeSlot(t *testing.T) {
	ctx := TurnContext{
		Stage:               StageDatetimeSelected,
		Facts:               session.ExtractedFacts{ServiceID: "x", Date: "2025-03-10", Time: "10:00"},
		DatetimeNewThisTurn: true,
		SlotFree:            true,
	}
	got := Decide(ctx)
	assert.Equal(t, KindRequestIdentity, got.Kind)
}

func TestDecideSlotConflictOnTakenSlot(t *testing.T) {
	ctx := TurnContext{
		Stage:               StageDatetimeSelected,
		Facts:               session.ExtractedFacts{ServiceID: "x", Date: "2025-03-10", Time: "10:00"},
		DatetimeNewThisTurn: true,
		SlotFree:            false,
		FreeAlternatives:    []string{"09:00", "11:00"},
	}
	got := Decide(ctx)
	assert.Equal(t, KindSlotConflict, got.Kind)
	assert.Equal(t, []string{"09:00", "11:00"}, got.Alternatives)
}

func TestDecideNoIdentityRepeat(t *testing.T) {
	// Identity already requested: rule 2 must not fire again.
	ctx := TurnContext{
		Stage:               StageDatetimeSelected,
		Facts:               session.ExtractedFacts{ServiceID: "x", Date: "2025-03-10", Time: "10:00"},
		DatetimeNewThisTurn: true,
		IdentityRequested:   true,
		SlotFree:            true,
	}
	got := Decide(ctx)
	assert.Equal(t, KindClarify, got.Kind)
}

func TestDecideShowAvailability(t *testing.T) {
	ctx := TurnContext{
		Stage:            StageServiceSelected,
		Facts:            session.ExtractedFacts{ServiceID: "x"},
		AsksAvailability: true,
		AvailableDates:   []string{"2025-03-10", "2025-03-11"},
	}
	got := Decide(ctx)
	assert.Equal(t, KindShowAvailability, got.Kind)
	assert.Equal(t, []string{"2025-03-10", "2025-03-11"}, got.Dates)

	// Already shown: no repeat pitch.
	ctx.AvailabilityShown = true
	assert.Equal(t, KindClarify, Decide(ctx).Kind)
}

func TestDecideSuggestServices(t *testing.T) {
	suggestions := []catalog.Service{{ID: "cardiology_consultation", Name: "Cardiology Consultation"}}
	ctx := TurnContext{
		Stage:       StageInitial,
		Category:    catalog.CategoryCardiology,
		Suggestions: suggestions,
	}
	got := Decide(ctx)
	assert.Equal(t, KindSuggestServices, got.Kind)
	assert.Equal(t, suggestions, got.Services)

	ctx.ServiceSuggested = true
	assert.Equal(t, KindClarify, Decide(ctx).Kind)
}

func TestDecideClarifyServiceOnBareBookingIntent(t *testing.T) {
	ctx := TurnContext{Stage: StageInitial, BookingIntent: true}
	assert.Equal(t, KindClarifyService, Decide(ctx).Kind)
}

func TestDecideDefaultClarify(t *testing.T) {
	assert.Equal(t, KindClarify, Decide(TurnContext{Stage: StageInitial}).Kind)
}

func TestDecideIsPure(t *testing.T) {
	ctx := TurnContext{
		Stage:               StageDatetimeSelected,
		Facts:               session.ExtractedFacts{ServiceID: "x", Date: "2025-03-10", Time: "10:00"},
		DatetimeNewThisTurn: true,
		SlotFree:            true,
	}
	first := Decide(ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Decide(ctx))
	}
}
