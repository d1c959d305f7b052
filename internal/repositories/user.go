package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
	"github.com/tadikamesra/tadika-mesra/internal/models"
)

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByID returns the user with the given id, or nil if absent.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	const query = `
		SELECT id, username, email, password_hash, is_admin, created_at
		FROM users
		WHERE id = $1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &user, query, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByUsername returns the user with the given username, or nil if absent.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT id, username, email, password_hash, is_admin, created_at
		FROM users
		WHERE username = $1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &user, query, username)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetConflicting returns any user other than excludeID already holding the
// given username or email, or nil when both are free. Pass excludeID 0 for
// registration checks.
func (r *UserReadRepository) GetConflicting(ctx context.Context, username, email string, excludeID int64) (*models.UserDB, error) {
	const query = `
		SELECT id, username, email, password_hash, is_admin, created_at
		FROM users
		WHERE (username = $1 OR email = $2) AND id != $3
		LIMIT 1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &user, query, username, email, excludeID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email, excludeID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ListAll returns every user ordered by id.
func (r *UserReadRepository) ListAll(ctx context.Context) ([]models.UserDB, error) {
	const query = `
		SELECT id, username, email, password_hash, is_admin, created_at
		FROM users
		ORDER BY id
	`

	users := make([]models.UserDB, 0)
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &users, query)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"rows", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return users, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns its generated id.
func (r *UserWriteRepository) Save(ctx context.Context, username, email, passwordHash string) (int64, error) {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	args := []any{username, email, passwordHash}

	var id int64
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &id, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"result", id,
		"error", err,
	)

	return id, mapError(err)
}

// Update rewrites the mutable user fields. passwordHash and isAdmin are
// optional: nil leaves the stored value untouched.
func (r *UserWriteRepository) Update(ctx context.Context, id int64, username, email string, passwordHash *string, isAdmin *bool) error {
	const query = `
		UPDATE users
		SET username = $2,
		    email = $3,
		    password_hash = COALESCE($4, password_hash),
		    is_admin = COALESCE($5, is_admin)
		WHERE id = $1
	`
	args := []any{id, username, email, passwordHash, isAdmin}

	res, err := ext(ctx, r.db).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, username, email},
		"result", rowsAffected,
		"error", err,
	)

	return mapError(err)
}

// Delete removes a user row and returns the number of rows affected.
// Posts referencing the user are removed by the ON DELETE CASCADE
// constraint in the same statement.
func (r *UserWriteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM users WHERE id = $1`

	res, err := ext(ctx, r.db).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", query,
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}
