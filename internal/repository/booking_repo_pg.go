package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/malchincamp/campbooking/internal/domain"
)

type BookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.Booking) error
	GetByToken(ctx context.Context, token string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, token string, status domain.BookingStatus) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	BookedRanges(ctx context.Context, campID int64) ([]domain.DateRange, error)
	CancelPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
	CompleteFinishedBefore(ctx context.Context, day time.Time) ([]domain.Booking, error)
	HasActiveForCamp(ctx context.Context, campID int64) (bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, camp_id, user_id, order_id, token, start_date, end_date, guests, nights, total_tugrik, status, email, expires_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.CampID, &b.UserID, &b.OrderID, &b.Token, &b.StartDate, &b.EndDate, &b.Guests, &b.Nights, &b.TotalTugrik, &b.Status, &b.Email, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// insertBookingTx holds the camp row lock while checking for an overlapping
// PENDING or CONFIRMED booking, so two concurrent requests for the same camp
// serialize and the loser sees the winner's row. The caller sets the status
// (PENDING for a direct hold, CONFIRMED inside checkout).
func insertBookingTx(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error {
	var campID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM camps WHERE id=$1 FOR UPDATE`, booking.CampID).Scan(&campID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var conflict bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE camp_id=$1 AND status = ANY($2)
			AND start_date < $4 AND end_date > $3)`,
		booking.CampID, []string{string(domain.BookingStatusPending), string(domain.BookingStatusConfirmed)}, booking.StartDate, booking.EndDate).Scan(&conflict); err != nil {
		return err
	}
	if conflict {
		return domain.ErrDateConflict
	}

	return tx.QueryRow(ctx, `INSERT INTO bookings (camp_id, user_id, order_id, token, start_date, end_date, guests, nights, total_tugrik, status, email, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		booking.CampID, booking.UserID, booking.OrderID, booking.Token, booking.StartDate, booking.EndDate, booking.Guests, booking.Nights, booking.TotalTugrik, booking.Status, booking.Email, booking.ExpiresAt).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	booking.Status = domain.BookingStatusPending
	if err := insertBookingTx(ctx, tx, booking); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE token=$1`, token)
	return scanBooking(row)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, token string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE token=$2 RETURNING `+bookingColumns, status, token)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// BookedRanges returns the date ranges still holding the camp, for the
// availability calendar.
func (r *PGBookingRepository) BookedRanges(ctx context.Context, campID int64) ([]domain.DateRange, error) {
	rows, err := r.db.Query(ctx, `SELECT start_date, end_date FROM bookings
		WHERE camp_id=$1 AND status = ANY($2)
		ORDER BY start_date`,
		campID, []string{string(domain.BookingStatusPending), string(domain.BookingStatusConfirmed)})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranges := make([]domain.DateRange, 0)
	for rows.Next() {
		var dr domain.DateRange
		if err := rows.Scan(&dr.StartDate, &dr.EndDate); err != nil {
			return nil, err
		}
		ranges = append(ranges, dr)
	}
	return ranges, rows.Err()
}

func (r *PGBookingRepository) CancelPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status=$2 AND order_id = 0 AND expires_at <= $3
		RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) CompleteFinishedBefore(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status=$2 AND end_date <= $3
		RETURNING `+bookingColumns,
		domain.BookingStatusCompleted, domain.BookingStatusConfirmed, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) HasActiveForCamp(ctx context.Context, campID int64) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(
		SELECT 1 FROM bookings WHERE camp_id=$1 AND status = ANY($2))`,
		campID, []string{string(domain.BookingStatusPending), string(domain.BookingStatusConfirmed)}).Scan(&active)
	return active, err
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
