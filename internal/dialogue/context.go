// Package dialogue drives one patient conversation turn: it analyzes the
// utterance against the session, decides the next action with a pure state
// machine, and hands the action to a text generator.
package dialogue

import (
	"regexp"
	"strings"
	"time"

	"github.com/medcareclinic/clinic-ai-assistant/internal/availability"
	"github.com/medcareclinic/clinic-ai-assistant/internal/catalog"
	"github.com/medcareclinic/clinic-ai-assistant/internal/extract"
	"github.com/medcareclinic/clinic-ai-assistant/internal/session"
)

// Booking stages, derived purely from which facts are populated. The stage
// is recomputed every turn and never stored, so it cannot drift from the
// facts that define it.
const (
	StageInitial          = "initial"
	StageServiceSelected  = "service_selected"
	StageDatetimeSelected = "datetime_selected"
	StageReadyToConfirm   = "ready_to_confirm"
)

// Marker phrase the assistant uses when asking for identity. The discourse
// flag below keys off it, so the phrase must survive response generation
// (the generator receives it as mandatory payload text).
const identityQuestionMarker = "full name and date of birth"

// TurnContext is the immutable snapshot the state machine decides on. It is
// rebuilt from scratch each turn.
type TurnContext struct {
	SessionID string
	Utterance string
	Facts     session.ExtractedFacts
	Stage     string
	Category  string

	// Discourse flags, computed by substring checks against the
	// transcript. They keep the machine from repeating a question or a
	// pitch it already delivered.
	IdentityRequested bool
	AvailabilityShown bool
	ServiceSuggested  bool

	// Signals from the current utterance.
	DatetimeNewThisTurn bool
	AsksAvailability    bool
	BookingIntent       bool

	// Slot snapshot for Facts.Date/Facts.Time, empty-valued unless both
	// are set.
	SlotFree         bool
	FreeAlternatives []string

	Suggestions    []catalog.Service
	AvailableDates []string
}

var availabilityWords = []string{
	"availability", "available", "slots", "times", "openings", "opening",
	"when can", "what days", "which days",
}

var bookingIntentWords = []string{
	"book", "appointment", "schedule", "reserve", "see a doctor", "visit",
	"come in",
}

var confirmationPattern = regexp.MustCompile(`\b(yes|yeah|sure|okay|ok|sounds good|the first|that one|let's do it)\b`)

// Analyzer builds TurnContext snapshots. It owns fact extraction and the
// non-destructive merge into session state.
type Analyzer struct {
	catalog *catalog.Store
	slots   *availability.Store
	now     func() time.Time
}

// NewAnalyzer creates a context analyzer. Both stores are required.
func NewAnalyzer(cat *catalog.Store, slots *availability.Store) *Analyzer {
	if cat == nil {
		panic("dialogue: catalog store required")
	}
	if slots == nil {
		panic("dialogue: availability store required")
	}
	return &Analyzer{catalog: cat, slots: slots, now: time.Now}
}

// Analyze extracts facts from the utterance, merges them into the session,
// and returns the turn snapshot. The session's transcript must not yet
// include the current utterance.
func (a *Analyzer) Analyze(sess *session.Session, utterance string) TurnContext {
	transcript := flattenTranscript(sess.Transcript)
	assistantSaid := flattenRole(sess.Transcript, session.RoleAssistant)
	knownDates := a.slots.Dates()

	identityRequested := strings.Contains(strings.ToLower(assistantSaid), identityQuestionMarker)

	var update session.ExtractedFacts
	hadDatetime := sess.Facts.Date != "" && sess.Facts.Time != ""
	if date, ok := extract.Date(utterance, knownDates, a.now()); ok {
		update.Date = date
	}
	if at, ok := extract.Time(utterance); ok {
		update.Time = at
	}
	if name, ok := extract.Name(utterance, identityRequested); ok {
		update.Name = name
	}
	if dob, ok := extract.DOB(utterance, identityRequested); ok {
		update.DOB = dob
	}
	update.Symptoms = extract.Symptoms(utterance)
	update.ServiceID = a.resolveService(sess, utterance, assistantSaid)
	sess.Facts.Merge(update)

	fullText := transcript + "\n" + utterance
	category := catalog.MatchCategory(fullText)
	lowerUtterance := strings.ToLower(utterance)

	ctx := TurnContext{
		SessionID:           sess.ID,
		Utterance:           utterance,
		Facts:               sess.Facts,
		Category:            category,
		IdentityRequested:   identityRequested,
		AvailabilityShown:   a.availabilityShown(transcript, knownDates),
		ServiceSuggested:    a.serviceSuggested(assistantSaid),
		DatetimeNewThisTurn: !hadDatetime && sess.Facts.Date != "" && sess.Facts.Time != "",
		AsksAvailability:    containsAny(lowerUtterance, availabilityWords),
		BookingIntent:       containsAny(lowerUtterance, bookingIntentWords),
		Suggestions:         a.catalog.Suggest(category, fullText),
		AvailableDates:      knownDates,
	}
	ctx.Stage = computeStage(sess.Facts)
	if sess.Facts.Date != "" && sess.Facts.Time != "" {
		ctx.SlotFree = a.slots.HasSlot(sess.Facts.Date, sess.Facts.Time) &&
			a.slots.Check(sess.Facts.Date, sess.Facts.Time)
		ctx.FreeAlternatives = a.slots.FreeSlots(sess.Facts.Date)
	}
	return ctx
}

// computeStage derives the booking stage from populated facts alone. Each
// stage requires everything the previous one did, so staging is monotonic
// as facts accumulate.
func computeStage(f session.ExtractedFacts) string {
	if f.ServiceID == "" {
		return StageInitial
	}
	if f.Date == "" || f.Time == "" {
		return StageServiceSelected
	}
	if f.Name == "" || f.DOB == "" {
		return StageDatetimeSelected
	}
	return StageReadyToConfirm
}

// resolveService finds the service the patient settled on: an explicit
// service name in the utterance wins, otherwise a plain confirmation after
// a delivered suggestion picks the top-ranked candidate.
func (a *Analyzer) resolveService(sess *session.Session, utterance, assistantSaid string) string {
	lower := strings.ToLower(utterance)
	for _, svc := range a.catalog.List("") {
		if strings.Contains(lower, strings.ToLower(svc.Name)) || strings.Contains(lower, svc.ID) {
			return svc.ID
		}
	}
	if !a.serviceSuggested(assistantSaid) {
		return ""
	}
	if !confirmationPattern.MatchString(lower) {
		return ""
	}
	transcript := flattenTranscript(sess.Transcript) + "\n" + utterance
	category := catalog.MatchCategory(transcript)
	if suggestions := a.catalog.Suggest(category, transcript); len(suggestions) > 0 {
		return suggestions[0].ID
	}
	return ""
}

func (a *Analyzer) availabilityShown(transcript string, knownDates []string) bool {
	for _, date := range knownDates {
		if strings.Contains(transcript, date) {
			return true
		}
	}
	return false
}

func (a *Analyzer) serviceSuggested(assistantSaid string) bool {
	lower := strings.ToLower(assistantSaid)
	for _, svc := range a.catalog.List("") {
		if strings.Contains(lower, strings.ToLower(svc.Name)) {
			return true
		}
	}
	return false
}

func flattenTranscript(entries []session.TranscriptEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func flattenRole(entries []session.TranscriptEntry, role string) string {
	var b strings.Builder
	for _, e := range entries {
		if e.Role != role {
			continue
		}
		b.WriteString(e.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
