package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/medcareclinic/clinic-ai-assistant/internal/booking"
	"github.com/medcareclinic/clinic-ai-assistant/internal/observability/metrics"
	"github.com/medcareclinic/clinic-ai-assistant/internal/session"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

var dialogueTracer = otel.Tracer("clinic.internal.dialogue")

// TurnResult is what one processed utterance yields: the structured action,
// the patient-facing reply, and the booking when one was committed.
type TurnResult struct {
	Action  Action           `json:"action"`
	Reply   string           `json:"reply"`
	Booking *booking.Booking `json:"booking,omitempty"`
}

// Service processes patient turns end to end. Fact extraction, the state
// machine decision, and any booking commit all happen under the session
// lock; the text generator runs outside it so a slow LLM never extends the
// critical section.
type Service struct {
	sessions        session.Store
	analyzer        *Analyzer
	bookings        *booking.Service
	generator       TextGenerator
	logger          *logging.Logger
	convMetrics     *metrics.ConversationMetrics
	bookingMetrics  *metrics.BookingMetrics
	transcriptLimit int
	now             func() time.Time
}

// NewService wires a dialogue service. Metrics may be nil; everything else
// is required.
func NewService(
	sessions session.Store,
	analyzer *Analyzer,
	bookings *booking.Service,
	generator TextGenerator,
	logger *logging.Logger,
	convMetrics *metrics.ConversationMetrics,
	bookingMetrics *metrics.BookingMetrics,
	transcriptLimit int,
) *Service {
	if sessions == nil {
		panic("dialogue: session store required")
	}
	if analyzer == nil {
		panic("dialogue: analyzer required")
	}
	if bookings == nil {
		panic("dialogue: booking service required")
	}
	if generator == nil {
		panic("dialogue: text generator required")
	}
	if logger == nil {
		panic("dialogue: logger required")
	}
	return &Service{
		sessions:        sessions,
		analyzer:        analyzer,
		bookings:        bookings,
		generator:       generator,
		logger:          logger,
		convMetrics:     convMetrics,
		bookingMetrics:  bookingMetrics,
		transcriptLimit: transcriptLimit,
		now:             time.Now,
	}
}

// ProcessTurn consumes one utterance and returns the resulting action and
// reply. Turns of the same session are serialized by the session store.
func (s *Service) ProcessTurn(ctx context.Context, sessionID, utterance string) (TurnResult, error) {
	ctx, span := dialogueTracer.Start(ctx, "dialogue.process_turn")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.session_id", sessionID))
	started := s.now()

	var action Action
	var committed *booking.Booking
	err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		before := sess.Facts
		turnCtx := s.analyzer.Analyze(sess, utterance)
		s.observeFacts(before, sess.Facts)

		action = Decide(turnCtx)
		if action.Kind == KindCommitBooking {
			action, committed = s.commit(ctx, sess, turnCtx)
		}
		if action.Kind == KindSlotConflict {
			// Free the slot facts so the patient can pick another time;
			// this is the one deliberate clear outside a session reset.
			sess.Facts.Date = ""
			sess.Facts.Time = ""
		}
		sess.Append(session.RolePatient, utterance, s.now(), s.transcriptLimit)
		s.convMetrics.ObserveStage(computeStage(sess.Facts))
		return nil
	})
	if err != nil {
		s.convMetrics.ObserveTurn("error", "error", s.now().Sub(started).Seconds())
		return TurnResult{}, fmt.Errorf("dialogue: process turn for %s: %w", sessionID, err)
	}

	// The generator runs outside the session lock. Its failure or empty
	// output degrades to the canned reply, never to a failed turn.
	reply := s.render(ctx, action)
	if err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Append(session.RoleAssistant, reply, s.now(), s.transcriptLimit)
		return nil
	}); err != nil {
		return TurnResult{}, fmt.Errorf("dialogue: record reply for %s: %w", sessionID, err)
	}

	span.SetAttributes(attribute.String("clinic.action", action.Kind))
	s.convMetrics.ObserveTurn(action.Kind, "ok", s.now().Sub(started).Seconds())
	return TurnResult{Action: action, Reply: reply, Booking: committed}, nil
}

// commit runs the booking attempt for a ready_to_confirm turn and maps the
// outcome to an action. Runs under the session lock; the availability store
// does its own slot-scoped locking.
func (s *Service) commit(ctx context.Context, sess *session.Session, turnCtx TurnContext) (Action, *booking.Booking) {
	b, err := s.bookings.Commit(ctx, booking.Request{
		SessionID:   sess.ID,
		ServiceID:   sess.Facts.ServiceID,
		PatientName: sess.Facts.Name,
		PatientDOB:  sess.Facts.DOB,
		Date:        sess.Facts.Date,
		Time:        sess.Facts.Time,
	})
	switch {
	case err == nil:
		s.bookingMetrics.ObserveCommit("confirmed")
		return Action{
			Kind:      KindBookingConfirmed,
			BookingID: b.ID,
			ServiceID: b.ServiceID,
			Date:      b.Date,
			Time:      b.Time,
		}, &b
	case errors.Is(err, booking.ErrSlotConflict):
		s.bookingMetrics.ObserveCommit("conflict")
		return Action{
			Kind:         KindSlotConflict,
			Date:         sess.Facts.Date,
			Time:         sess.Facts.Time,
			Alternatives: turnCtx.FreeAlternatives,
		}, nil
	default:
		s.bookingMetrics.ObserveCommit("failure")
		s.logger.Error("booking commit failed",
			"session_id", sess.ID, "error", err)
		return Action{Kind: KindTryAgain}, nil
	}
}

func (s *Service) render(ctx context.Context, action Action) string {
	text, err := s.generator.Generate(ctx, promptFor(action))
	if err != nil {
		s.logger.Warn("text generation failed, using canned reply", "error", err)
		text = ""
	}
	if text == "" {
		text = cannedReply(action)
	}
	return ensureMarkers(action, text)
}

func (s *Service) observeFacts(before, after session.ExtractedFacts) {
	if before.ServiceID == "" && after.ServiceID != "" {
		s.convMetrics.ObserveFact("service_id")
	}
	if before.Date == "" && after.Date != "" {
		s.convMetrics.ObserveFact("date")
	}
	if before.Time == "" && after.Time != "" {
		s.convMetrics.ObserveFact("time")
	}
	if before.Name == "" && after.Name != "" {
		s.convMetrics.ObserveFact("name")
	}
	if before.DOB == "" && after.DOB != "" {
		s.convMetrics.ObserveFact("dob")
	}
}

// Reset clears a session's facts and transcript.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.sessions.Reset(ctx, sessionID)
}

// History returns a snapshot of the session, reporting whether it exists.
func (s *Service) History(ctx context.Context, sessionID string) (session.Session, bool, error) {
	return s.sessions.Get(ctx, sessionID)
}
