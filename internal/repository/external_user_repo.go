package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-event-planner/internal/model"
)

type ExternalUserRepository struct {
	pool *pgxpool.Pool
}

func NewExternalUserRepository(pool *pgxpool.Pool) *ExternalUserRepository {
	return &ExternalUserRepository{pool: pool}
}

const externalUserColumns = `u.id, u.username, u.firstname, u.lastname, u.email, u.role,
	u.created_at, u.updated_at, e.external_id, e.provider`

func (r *ExternalUserRepository) FindByID(ctx context.Context, id string) (model.ExternalUser, error) {
	var u model.ExternalUser
	err := r.pool.QueryRow(ctx,
		`SELECT `+externalUserColumns+`
		 FROM users u JOIN ext_users e ON e.user_id = u.id
		 WHERE u.id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Firstname, &u.Lastname, &u.Email, &u.Role,
			&u.CreatedAt, &u.UpdatedAt, &u.ExternalID, &u.Provider)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.ExternalUser{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.ExternalUser{}, fmt.Errorf("find external user by id: %w", err)
	}
	return u, nil
}

func (r *ExternalUserRepository) FindByExternalID(ctx context.Context, externalID string) (model.ExternalUser, error) {
	var u model.ExternalUser
	err := r.pool.QueryRow(ctx,
		`SELECT `+externalUserColumns+`
		 FROM users u JOIN ext_users e ON e.user_id = u.id
		 WHERE e.external_id = $1`, externalID).
		Scan(&u.ID, &u.Username, &u.Firstname, &u.Lastname, &u.Email, &u.Role,
			&u.CreatedAt, &u.UpdatedAt, &u.ExternalID, &u.Provider)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.ExternalUser{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.ExternalUser{}, fmt.Errorf("find external user by external id: %w", err)
	}
	return u, nil
}

func (r *ExternalUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM ext_users WHERE user_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check external user exists: %w", err)
	}
	return exists, nil
}

// Create inserts the base row and the external variant row in one
// transaction. A unique violation on external_id surfaces as
// model.ErrUserAlreadyExists so callers can re-read the winner of a
// concurrent first login.
func (r *ExternalUserRepository) Create(ctx context.Context, u model.ExternalUser) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create external user: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, username, firstname, lastname, email, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Firstname, u.Lastname, u.Email, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO ext_users (user_id, external_id, provider) VALUES ($1, $2, $3)`,
		u.ID, u.ExternalID, u.Provider)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert external user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return model.ErrUserAlreadyExists
		}
		return fmt.Errorf("commit create external user: %w", err)
	}
	return nil
}
