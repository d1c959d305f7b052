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

type PostReadRepository struct {
	db *sqlx.DB
}

func NewPostReadRepository(db *sqlx.DB) *PostReadRepository {
	return &PostReadRepository{db: db}
}

// ListWithAuthor returns every post joined with its author's username,
// newest first.
func (r *PostReadRepository) ListWithAuthor(ctx context.Context) ([]models.Post, error) {
	const query = `
		SELECT p.id, p.text_content, p.image_url, p.created_at,
		       u.username AS author
		FROM posts p
		JOIN users u ON p.author_id = u.id
		ORDER BY p.created_at DESC, p.id DESC
	`

	posts := make([]models.Post, 0)
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &posts, query)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"rows", len(posts),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return posts, nil
}

// GetByIDWithAuthor returns one enriched post, or nil if absent.
func (r *PostReadRepository) GetByIDWithAuthor(ctx context.Context, id int64) (*models.Post, error) {
	const query = `
		SELECT p.id, p.text_content, p.image_url, p.created_at,
		       u.username AS author
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = $1
	`

	var post models.Post
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &post, query, id)

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

	return &post, nil
}

// GetByID returns the raw post row, or nil if absent. Used for ownership
// checks before deletion.
func (r *PostReadRepository) GetByID(ctx context.Context, id int64) (*models.PostDB, error) {
	const query = `
		SELECT id, text_content, image_url, created_at, author_id
		FROM posts
		WHERE id = $1
	`

	var post models.PostDB
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &post, query, id)

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

	return &post, nil
}

type PostWriteRepository struct {
	db *sqlx.DB
}

func NewPostWriteRepository(db *sqlx.DB) *PostWriteRepository {
	return &PostWriteRepository{db: db}
}

// Save inserts a new post and returns its generated id.
func (r *PostWriteRepository) Save(ctx context.Context, textContent, imageURL *string, authorID int64) (int64, error) {
	const query = `
		INSERT INTO posts (text_content, image_url, author_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	args := []any{textContent, imageURL, authorID}

	var id int64
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &id, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", id,
		"error", err,
	)

	return id, err
}

// Delete removes a post row and returns the number of rows affected.
func (r *PostWriteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM posts WHERE id = $1`

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
