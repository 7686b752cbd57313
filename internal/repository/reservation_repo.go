package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-event-planner/internal/model"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `id, event_id, user_id, code, attended, created_at`

// Create relies on the (event_id, user_id) unique constraint to reject a
// second reservation for the same seat holder.
func (r *ReservationRepository) Create(ctx context.Context, res model.Reservation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reservations (id, event_id, user_id, code, attended, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.EventID, res.UserID, res.Code, res.Attended, res.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyReserved
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (model.Reservation, error) {
	var res model.Reservation
	err := r.pool.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id).
		Scan(&res.ID, &res.EventID, &res.UserID, &res.Code, &res.Attended, &res.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Reservation{}, model.ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, fmt.Errorf("find reservation by id: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) FindByCode(ctx context.Context, code string) (model.Reservation, error) {
	var res model.Reservation
	err := r.pool.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE code = $1`, code).
		Scan(&res.ID, &res.EventID, &res.UserID, &res.Code, &res.Attended, &res.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Reservation{}, model.ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, fmt.Errorf("find reservation by code: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by user: %w", err)
	}
	defer rows.Close()

	reservations := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.EventID, &res.UserID, &res.Code, &res.Attended, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *ReservationRepository) ExistsByEventAndUser(ctx context.Context, eventID string, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reservations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reservation exists: %w", err)
	}
	return exists, nil
}

func (r *ReservationRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reservations WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return count, nil
}

func (r *ReservationRepository) MarkAttended(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reservations SET attended = true WHERE id = $1 AND attended = false`, id)
	if err != nil {
		return fmt.Errorf("mark reservation attended: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAlreadyCheckedIn
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReservationNotFound
	}
	return nil
}
