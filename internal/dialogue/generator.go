package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/medcareclinic/clinic-ai-assistant/internal/catalog"
)

// TextGenerator turns a prompt into patient-facing text. Implementations
// may fail or return an empty string; callers fall back to canned replies,
// so a broken generator never breaks a turn.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StaticGenerator always returns the same text. The zero value returns ""
// and exercises the no-LLM path.
type StaticGenerator struct {
	Text string
	Err  error
}

func (g StaticGenerator) Generate(_ context.Context, _ string) (string, error) {
	return g.Text, g.Err
}

// promptFor builds the generator prompt for an action. The generator only
// adds warmth; all facts it may state are in the prompt.
func promptFor(a Action) string {
	var b strings.Builder
	b.WriteString("You are a friendly clinic booking assistant. ")
	b.WriteString("Write 1-2 warm sentences for the patient. ")
	switch a.Kind {
	case KindBookingConfirmed:
		fmt.Fprintf(&b, "Confirm booking %s for %s on %s at %s.", a.BookingID, a.ServiceID, a.Date, a.Time)
	case KindTryAgain:
		b.WriteString("Apologize that something went wrong on our side and ask them to try again in a moment.")
	case KindRequestIdentity:
		fmt.Fprintf(&b, "The slot %s %s is free. Ask for the patient's full name and date of birth.", a.Date, a.Time)
	case KindSlotConflict:
		fmt.Fprintf(&b, "The slot %s %s is taken. Offer these times on %s instead: %s.",
			a.Date, a.Time, a.Date, strings.Join(a.Alternatives, ", "))
	case KindShowAvailability:
		fmt.Fprintf(&b, "List the dates we can offer: %s.", strings.Join(a.Dates, ", "))
	case KindSuggestServices:
		names := make([]string, 0, len(a.Services))
		for _, svc := range a.Services {
			names = append(names, svc.Name)
		}
		fmt.Fprintf(&b, "Suggest these services: %s.", strings.Join(names, ", "))
	case KindClarifyService:
		b.WriteString("Ask what symptoms they have or which service they need.")
	default:
		b.WriteString("Ask how you can help with their appointment.")
	}
	return b.String()
}

// cannedReply renders a deterministic reply for an action. Used when the
// generator fails or returns nothing.
func cannedReply(a Action) string {
	switch a.Kind {
	case KindBookingConfirmed:
		return fmt.Sprintf("Your appointment is confirmed for %s at %s. Your booking reference is %s.",
			a.Date, a.Time, a.BookingID)
	case KindTryAgain:
		return "Sorry, something went wrong on our side. Please try again in a moment."
	case KindRequestIdentity:
		return fmt.Sprintf("The slot on %s at %s is free. To book it I need your %s.",
			a.Date, a.Time, identityQuestionMarker)
	case KindSlotConflict:
		if len(a.Alternatives) == 0 {
			return fmt.Sprintf("Unfortunately %s at %s is already taken and no other times are free that day.", a.Date, a.Time)
		}
		return fmt.Sprintf("Unfortunately %s at %s is already taken. Free times on %s: %s.",
			a.Date, a.Time, a.Date, strings.Join(a.Alternatives, ", "))
	case KindShowAvailability:
		return fmt.Sprintf("We have openings on: %s. Which date suits you?", strings.Join(a.Dates, ", "))
	case KindSuggestServices:
		var names []string
		for _, svc := range a.Services {
			names = append(names, fmt.Sprintf("%s (%.0f EUR)", svc.Name, svc.Price))
		}
		return fmt.Sprintf("Based on what you described, these services could help: %s.", strings.Join(names, "; "))
	case KindClarifyService:
		return "Could you tell me a bit more about your symptoms, or which service you would like to book?"
	default:
		return "How can I help you with your appointment today?"
	}
}

// ensureMarkers appends the substrings later turns depend on when the
// generated text dropped them: the identity question phrase, offered dates,
// and suggested service names all feed the discourse flags.
func ensureMarkers(a Action, reply string) string {
	var missing []string
	switch a.Kind {
	case KindRequestIdentity:
		if !strings.Contains(strings.ToLower(reply), identityQuestionMarker) {
			missing = append(missing, fmt.Sprintf("Please share your %s.", identityQuestionMarker))
		}
	case KindShowAvailability:
		for _, date := range a.Dates {
			if !strings.Contains(reply, date) {
				missing = append(missing, fmt.Sprintf("Available: %s.", strings.Join(a.Dates, ", ")))
				break
			}
		}
	case KindSuggestServices:
		for _, svc := range a.Services {
			if !strings.Contains(strings.ToLower(reply), strings.ToLower(svc.Name)) {
				missing = append(missing, fmt.Sprintf("Options: %s.", serviceNames(a.Services)))
				break
			}
		}
	}
	if len(missing) == 0 {
		return reply
	}
	return strings.TrimSpace(reply + "\n" + strings.Join(missing, " "))
}

func serviceNames(services []catalog.Service) string {
	names := make([]string, 0, len(services))
	for _, svc := range services {
		names = append(names, svc.Name)
	}
	return strings.Join(names, ", ")
}
