package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/magicalboonies/safaribook/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListActiveInRange(ctx context.Context, packageID string, start, end time.Time) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, paymentReference string) (*domain.Booking, error)
	MarkPendingFailedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

const bookingColumns = `id, user_id, package_id, start_date, end_date, adults, children, special_requests, contact_name, contact_email, contact_phone, contact_country, total_cents, status, payment_reference, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings (id, user_id, package_id, start_date, end_date, adults, children, special_requests, contact_name, contact_email, contact_phone, contact_country, total_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		booking.ID, booking.UserID, booking.PackageID, booking.StartDate, booking.EndDate, booking.Adults, booking.Children, booking.SpecialRequests,
		booking.ContactName, booking.ContactEmail, booking.ContactPhone, booking.ContactCountry, booking.TotalCents, booking.Status).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListActiveInRange returns non-cancelled bookings whose stored date range
// lies inside [start, end]. Inclusive containment, not interval overlap; the
// availability check depends on exactly this shape.
func (r *PGBookingRepository) ListActiveInRange(ctx context.Context, packageID string, start, end time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE package_id=$1 AND start_date >= $2 AND end_date <= $3 AND status <> $4`,
		packageID, start, end, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, paymentReference string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings
		SET status=$1, payment_reference=COALESCE(NULLIF($2, ''), payment_reference), updated_at=now()
		WHERE id=$3
		RETURNING `+bookingColumns, status, paymentReference, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// MarkPendingFailedBefore sweeps bookings stuck in pending since before
// deadline, i.e. payment was initiated but never completed.
func (r *PGBookingRepository) MarkPendingFailedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status=$2 AND created_at <= $3
		RETURNING `+bookingColumns, domain.BookingStatusFailed, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
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

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.PackageID, &b.StartDate, &b.EndDate, &b.Adults, &b.Children, &b.SpecialRequests, &b.ContactName, &b.ContactEmail, &b.ContactPhone, &b.ContactCountry, &b.TotalCents, &b.Status, &b.PaymentReference, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
