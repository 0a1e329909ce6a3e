package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/medcareclinic/clinic-ai-assistant/internal/availability"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

var bookingTracer = otel.Tracer("clinic.internal.booking")

// Service commits bookings against the availability table and the ledger.
//
// Commit order is fixed: the ledger record is written first, then the slot
// is flipped. A slot is never marked taken unless a durable ledger write
// succeeded, and a failed commit leaves the slot free.
type Service struct {
	slots  *availability.Store
	ledger Ledger
	logger *logging.Logger
	now    func() time.Time
}

// NewService creates a booking service. All dependencies are required.
func NewService(slots *availability.Store, ledger Ledger, logger *logging.Logger) *Service {
	if slots == nil {
		panic("booking: availability store required")
	}
	if ledger == nil {
		panic("booking: ledger required")
	}
	if logger == nil {
		panic("booking: logger required")
	}
	return &Service{slots: slots, ledger: ledger, logger: logger, now: time.Now}
}

// Request carries the validated facts a commit needs. Every field must be
// present; Commit rejects partial requests.
type Request struct {
	SessionID   string
	ServiceID   string
	PatientName string
	PatientDOB  string
	Date        string
	Time        string
}

// Commit books the requested slot. On success the returned booking is
// confirmed, durably recorded, and the slot is taken. ErrSlotConflict means
// the slot is taken or not offered; ErrPersistence means nothing was booked.
func (s *Service) Commit(ctx context.Context, req Request) (Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.commit")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.service_id", req.ServiceID),
		attribute.String("clinic.slot_date", req.Date),
		attribute.String("clinic.slot_time", req.Time),
	)

	if req.SessionID == "" || req.ServiceID == "" || req.PatientName == "" ||
		req.PatientDOB == "" || req.Date == "" || req.Time == "" {
		return Booking{}, fmt.Errorf("booking: incomplete request: %+v", req)
	}

	createdAt := s.now().UTC()
	b := Booking{
		ID:          newBookingID(createdAt),
		SessionID:   req.SessionID,
		ServiceID:   req.ServiceID,
		PatientName: req.PatientName,
		PatientDOB:  req.PatientDOB,
		Date:        req.Date,
		Time:        req.Time,
		Status:      StatusConfirmed,
		CreatedAt:   createdAt,
	}

	appended := false
	err := s.slots.TakeIfFree(ctx, req.Date, req.Time, func() error {
		if err := s.ledger.Append(ctx, b); err != nil {
			return fmt.Errorf("%w: ledger append: %v", ErrPersistence, err)
		}
		appended = true
		return nil
	})
	if err != nil {
		if errors.Is(err, availability.ErrSlotUnavailable) {
			s.logger.Warn("slot conflict on commit",
				"session_id", req.SessionID, "date", req.Date, "time", req.Time)
			return Booking{}, fmt.Errorf("%w: %s %s", ErrSlotConflict, req.Date, req.Time)
		}
		if appended {
			// The ledger record exists but the slot flip did not persist.
			// Flip the record to cancelled so the ledger and table agree.
			if cancelErr := s.ledger.Cancel(ctx, b.ID); cancelErr != nil {
				s.logger.Error("compensating cancel failed",
					"booking_id", b.ID, "error", cancelErr)
			}
		}
		if errors.Is(err, ErrPersistence) {
			return Booking{}, err
		}
		return Booking{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.logger.Info("booking confirmed",
		"booking_id", b.ID,
		"session_id", b.SessionID,
		"service_id", b.ServiceID,
		"date", b.Date,
		"time", b.Time,
	)
	return b, nil
}

// Cancel flips a booking to cancelled and frees nothing; the slot stays
// taken so staff can rebook it deliberately.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if err := s.ledger.Cancel(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.logger.Info("booking cancelled", "booking_id", id)
	return nil
}

// ListBySession returns the bookings made in a session, oldest first.
func (s *Service) ListBySession(ctx context.Context, sessionID string) ([]Booking, error) {
	return s.ledger.ListBySession(ctx, sessionID)
}
