package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/jaldikaro/jaldikaro/internal/tracing"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRepository creates a PostgresRepository over an open handle.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{db: db, logger: logger}
}

const bookingColumns = `
	id, user_phone, provider_id, service_id, service_address, pin_code,
	scheduled_datetime, estimated_price, payment_method,
	special_instructions, status, payment_status, created_at, updated_at
`

// Insert adds a new booking, assigning an ID and defaults where missing.
func (r *PostgresRepository) Insert(ctx context.Context, b *Booking) (err error) {
	ctx, end := tracing.StartDBSpan(ctx, "bookings", tracing.DBOperationInsert)
	defer func() { end(err) }()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentPending
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = MethodCash
	}

	query := `
		INSERT INTO bookings (
			id, user_phone, provider_id, service_id, service_address,
			pin_code, scheduled_datetime, estimated_price, payment_method,
			special_instructions, status, payment_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		b.ID, b.UserPhone, b.ProviderID, b.ServiceID, b.ServiceAddress,
		b.PinCode, b.ScheduledDatetime, b.EstimatedPrice, b.PaymentMethod,
		b.SpecialInstructions, b.Status, b.PaymentStatus,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to insert booking",
			slog.String("error", err.Error()),
			slog.String("booking_id", b.ID))
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (_ *Booking, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "bookings", tracing.DBOperationQuery)
	defer func() { end(err) }()

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return b, nil
}

// List returns all bookings, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at, id`
	return r.queryBookings(ctx, query)
}

// ListByPhone returns the customer's bookings, oldest first.
func (r *PostgresRepository) ListByPhone(ctx context.Context, phone string) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_phone = $1 ORDER BY created_at, id`
	return r.queryBookings(ctx, query, phone)
}

// UpdateStatus transitions a booking to a new status inside a transaction
// so concurrent updates cannot skip lifecycle steps.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) (_ *Booking, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "bookings", tracing.DBOperationUpdate)
	defer func() { end(err) }()

	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			r.logger.Warn("failed to rollback transaction",
				slog.String("error", err.Error()))
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, id,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock booking %s: %w", id, err)
	}

	if !CanTransition(current, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}

	query := `
		UPDATE bookings SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookingColumns
	b, err := scanBooking(tx.QueryRowContext(ctx, query, id, status))
	if err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	r.logger.Info("booking status updated",
		slog.String("booking_id", id),
		slog.String("from", current),
		slog.String("to", status))
	return b, nil
}

// UpdatePaymentStatus sets a booking's payment status.
func (r *PostgresRepository) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) (err error) {
	ctx, end := tracing.StartDBSpan(ctx, "bookings", tracing.DBOperationUpdate)
	defer func() { end(err) }()

	result, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`,
		id, paymentStatus)
	if err != nil {
		return fmt.Errorf("failed to update payment status for %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *PostgresRepository) queryBookings(ctx context.Context, query string, args ...any) (_ []Booking, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "bookings", tracing.DBOperationQuery)
	defer func() { end(err) }()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	var b Booking
	var scheduled sql.NullTime
	var instructions sql.NullString
	err := row.Scan(
		&b.ID, &b.UserPhone, &b.ProviderID, &b.ServiceID, &b.ServiceAddress,
		&b.PinCode, &scheduled, &b.EstimatedPrice, &b.PaymentMethod,
		&instructions, &b.Status, &b.PaymentStatus, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if scheduled.Valid {
		b.ScheduledDatetime = &scheduled.Time
	}
	b.SpecialInstructions = instructions.String
	return &b, nil
}
