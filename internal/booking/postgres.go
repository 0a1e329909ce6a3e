package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresLedger persists bookings to PostgreSQL for long-term history.
// Rows are only inserted and status-updated, never deleted.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger creates a Postgres-backed ledger.
func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	if db == nil {
		panic("booking: db required")
	}
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) Append(ctx context.Context, b Booking) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO bookings (id, booking_id, session_id, service_id, patient_name, patient_dob, slot_date, slot_time, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.New(), b.ID, b.SessionID, b.ServiceID, b.PatientName, b.PatientDOB, b.Date, b.Time, b.Status, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("booking: insert booking %s: %w", b.ID, err)
	}
	return nil
}

func (l *PostgresLedger) Cancel(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1 WHERE booking_id = $2`,
		StatusCancelled, id,
	)
	if err != nil {
		return fmt.Errorf("booking: cancel booking %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("booking: unknown booking %s", id)
	}
	return nil
}

func (l *PostgresLedger) ListBySession(ctx context.Context, sessionID string) ([]Booking, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT booking_id, session_id, service_id, patient_name, patient_dob, slot_date, slot_time, status, created_at
		 FROM bookings WHERE session_id = $1 ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("booking: list bookings for %s: %w", sessionID, err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.SessionID, &b.ServiceID, &b.PatientName, &b.PatientDOB, &b.Date, &b.Time, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("booking: scan booking row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate booking rows: %w", err)
	}
	return out, nil
}
