package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Karavaev93/campusparking/internal/domain"
)

type BookingRepository interface {
	CreateBooked(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.BookingWithSlot, error)
	ListByUser(ctx context.Context, userID string) ([]domain.BookingWithSlot, error)
	ActiveByUser(ctx context.Context, userID string) (*domain.Booking, error)
	CheckIn(ctx context.Context, id string, at time.Time) (*domain.Booking, error)
	CheckOut(ctx context.Context, id string, at time.Time) (*domain.Booking, error)
	Cancel(ctx context.Context, id string) (*domain.Booking, error)
	CountByStatus(ctx context.Context, userID string) (map[domain.BookingStatus]int, error)
	RevenueCents(ctx context.Context) (int64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, slot_id, status, booked_at, checked_in_at, checked_out_at, total_cents, created_at, updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.SlotID, &b.Status, &b.BookedAt, &b.CheckedInAt, &b.CheckedOutAt, &b.TotalCents, &b.CreatedAt, &b.UpdatedAt)
}

// CreateBooked inserts the booking and flips the slot to booked in one
// transaction. The slot row is locked first, so two users racing for the same
// slot serialize here; the loser sees a non-available status and gets a
// conflict. The partial unique index on active bookings backs the same check
// against a race on the user side.
func (r *PGBookingRepository) CreateBooked(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var slotStatus domain.SlotStatus
	if err := tx.QueryRow(ctx, `SELECT status FROM parking_slots WHERE id=$1 FOR UPDATE`, booking.SlotID).Scan(&slotStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if slotStatus != domain.SlotStatusAvailable {
		return domain.ErrConflict
	}

	var active int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE user_id=$1 AND status IN ('booked','checked_in')`, booking.UserID).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return domain.ErrConflict
	}

	booking.Status = domain.BookingStatusBooked
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, user_id, slot_id, status, booked_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING booked_at, created_at, updated_at`, booking.ID, booking.UserID, booking.SlotID, booking.Status).
		Scan(&booking.BookedAt, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrConflict
		}
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE parking_slots SET status=$1, updated_at=now() WHERE id=$2`, domain.SlotStatusBooked, booking.SlotID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

const bookingJoinQuery = `SELECT b.id, b.user_id, b.slot_id, b.status, b.booked_at, b.checked_in_at, b.checked_out_at, b.total_cents, b.created_at, b.updated_at,
	s.slot_number, s.zone, s.price_cents
	FROM bookings b JOIN parking_slots s ON s.id = b.slot_id`

func (r *PGBookingRepository) listJoined(ctx context.Context, query string, args ...interface{}) ([]domain.BookingWithSlot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingWithSlot, 0)
	for rows.Next() {
		var b domain.BookingWithSlot
		if err := rows.Scan(&b.ID, &b.UserID, &b.SlotID, &b.Status, &b.BookedAt, &b.CheckedInAt, &b.CheckedOutAt, &b.TotalCents, &b.CreatedAt, &b.UpdatedAt,
			&b.SlotNumber, &b.Zone, &b.SlotPriceCents); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.BookingWithSlot, error) {
	return r.listJoined(ctx, bookingJoinQuery+` ORDER BY b.created_at DESC`)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.BookingWithSlot, error) {
	return r.listJoined(ctx, bookingJoinQuery+` WHERE b.user_id=$1 ORDER BY b.created_at DESC`, userID)
}

func (r *PGBookingRepository) ActiveByUser(ctx context.Context, userID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 AND status IN ('booked','checked_in')`, userID)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// lockBooking reads the booking inside tx with its row locked for the rest of
// the transition.
func lockBooking(ctx context.Context, tx pgx.Tx, id string) (*domain.Booking, error) {
	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) CheckIn(ctx context.Context, id string, at time.Time) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := lockBooking(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, domain.BookingStatusCheckedIn) {
		return nil, domain.ErrConflict
	}

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, checked_in_at=$2, updated_at=now() WHERE id=$3 RETURNING `+bookingColumns,
		domain.BookingStatusCheckedIn, at, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE parking_slots SET status=$1, updated_at=now() WHERE id=$2`, domain.SlotStatusOccupied, b.SlotID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

// CheckOut completes the booking and bills it. The hourly rate is read from
// the slot row inside the same transaction, so a concurrent price change
// either lands before the lock or after the charge is already written.
func (r *PGBookingRepository) CheckOut(ctx context.Context, id string, at time.Time) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := lockBooking(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, domain.BookingStatusCompleted) || current.CheckedInAt == nil {
		return nil, domain.ErrConflict
	}

	var priceCents int64
	if err := tx.QueryRow(ctx, `SELECT price_cents FROM parking_slots WHERE id=$1 FOR UPDATE`, current.SlotID).Scan(&priceCents); err != nil {
		return nil, err
	}
	total := domain.BillTotalCents(*current.CheckedInAt, at, priceCents)

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, checked_out_at=$2, total_cents=$3, updated_at=now() WHERE id=$4 RETURNING `+bookingColumns,
		domain.BookingStatusCompleted, at, total, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE parking_slots SET status=$1, updated_at=now() WHERE id=$2`, domain.SlotStatusAvailable, b.SlotID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := lockBooking(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, domain.BookingStatusCancelled) {
		return nil, domain.ErrConflict
	}

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE parking_slots SET status=$1, updated_at=now() WHERE id=$2`, domain.SlotStatusAvailable, b.SlotID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) CountByStatus(ctx context.Context, userID string) (map[domain.BookingStatus]int, error) {
	query := `SELECT status, count(*) FROM bookings GROUP BY status`
	args := []interface{}{}
	if userID != "" {
		query = `SELECT status, count(*) FROM bookings WHERE user_id=$1 GROUP BY status`
		args = append(args, userID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int)
	for rows.Next() {
		var status domain.BookingStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *PGBookingRepository) RevenueCents(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT coalesce(sum(total_cents), 0) FROM bookings WHERE status='completed'`).Scan(&total)
	return total, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
