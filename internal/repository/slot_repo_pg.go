package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Karavaev93/campusparking/internal/domain"
)

type SlotRepository interface {
	List(ctx context.Context, zone string) ([]domain.Slot, error)
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
	Create(ctx context.Context, slot *domain.Slot) error
	UpdatePrice(ctx context.Context, id string, priceCents int64) (*domain.Slot, error)
	StatusCounts(ctx context.Context) (map[domain.SlotStatus]int, error)
}

type PGSlotRepository struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &PGSlotRepository{db: db}
}

const slotColumns = `id, slot_number, zone, price_cents, status, created_at, updated_at`

func scanSlot(row pgx.Row, s *domain.Slot) error {
	return row.Scan(&s.ID, &s.SlotNumber, &s.Zone, &s.PriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt)
}

func (r *PGSlotRepository) List(ctx context.Context, zone string) ([]domain.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM parking_slots ORDER BY slot_number`
	args := []interface{}{}
	if zone != "" {
		query = `SELECT ` + slotColumns + ` FROM parking_slots WHERE zone=$1 ORDER BY slot_number`
		args = append(args, zone)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var s domain.Slot
		if err := scanSlot(rows, &s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *PGSlotRepository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	row := r.db.QueryRow(ctx, `SELECT `+slotColumns+` FROM parking_slots WHERE id=$1`, id)
	var s domain.Slot
	if err := scanSlot(row, &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	slot.Status = domain.SlotStatusAvailable
	return r.db.QueryRow(ctx, `INSERT INTO parking_slots (id, slot_number, zone, price_cents, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`, slot.ID, slot.SlotNumber, slot.Zone, slot.PriceCents, slot.Status).
		Scan(&slot.CreatedAt, &slot.UpdatedAt)
}

func (r *PGSlotRepository) UpdatePrice(ctx context.Context, id string, priceCents int64) (*domain.Slot, error) {
	row := r.db.QueryRow(ctx, `UPDATE parking_slots SET price_cents=$1, updated_at=now() WHERE id=$2 RETURNING `+slotColumns, priceCents, id)
	var s domain.Slot
	if err := scanSlot(row, &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSlotRepository) StatusCounts(ctx context.Context) (map[domain.SlotStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM parking_slots GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.SlotStatus]int)
	for rows.Next() {
		var status domain.SlotStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

var _ SlotRepository = (*PGSlotRepository)(nil)
