package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-event-planner/internal/model"
)

type InternalUserRepository struct {
	pool *pgxpool.Pool
}

func NewInternalUserRepository(pool *pgxpool.Pool) *InternalUserRepository {
	return &InternalUserRepository{pool: pool}
}

const internalUserColumns = `u.id, u.username, u.firstname, u.lastname, u.email, u.role,
	u.created_at, u.updated_at, i.password_hash`

func (r *InternalUserRepository) FindByID(ctx context.Context, id string) (model.InternalUser, error) {
	var u model.InternalUser
	err := r.pool.QueryRow(ctx,
		`SELECT `+internalUserColumns+`
		 FROM users u JOIN int_users i ON i.user_id = u.id
		 WHERE u.id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Firstname, &u.Lastname, &u.Email, &u.Role,
			&u.CreatedAt, &u.UpdatedAt, &u.PasswordHash)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.InternalUser{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.InternalUser{}, fmt.Errorf("find internal user by id: %w", err)
	}
	return u, nil
}

func (r *InternalUserRepository) FindByUsername(ctx context.Context, username string) (model.InternalUser, error) {
	var u model.InternalUser
	err := r.pool.QueryRow(ctx,
		`SELECT `+internalUserColumns+`
		 FROM users u JOIN int_users i ON i.user_id = u.id
		 WHERE lower(u.username) = lower($1)`, strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.Firstname, &u.Lastname, &u.Email, &u.Role,
			&u.CreatedAt, &u.UpdatedAt, &u.PasswordHash)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.InternalUser{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.InternalUser{}, fmt.Errorf("find internal user by username: %w", err)
	}
	return u, nil
}

func (r *InternalUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM int_users WHERE user_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check internal user exists: %w", err)
	}
	return exists, nil
}

// Create inserts the base row and the internal variant row in one
// transaction.
func (r *InternalUserRepository) Create(ctx context.Context, u model.InternalUser) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create internal user: %w", err)
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
		`INSERT INTO int_users (user_id, password_hash) VALUES ($1, $2)`,
		u.ID, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert internal user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create internal user: %w", err)
	}
	return nil
}

func (r *InternalUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE int_users SET password_hash = $2 WHERE user_id = $1`,
		userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	_, err = r.pool.Exec(ctx,
		`UPDATE users SET updated_at = $2 WHERE id = $1`, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("touch user after password update: %w", err)
	}
	return nil
}
