package todo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidelist/tidelist/internal/shared"
)

// Repository provides PostgreSQL backed persistence. Every statement filters
// by owner so a caller can never touch another user's rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByOwner returns every to-do belonging to the given user.
func (r *Repository) ListByOwner(ctx context.Context, userID int64) ([]Todo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, category, done, created_at, updated_at FROM todos WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var todos []Todo
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Category, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}

// Create inserts a to-do under the given owner.
func (r *Repository) Create(ctx context.Context, userID int64, title, category string) (*Todo, error) {
	var t Todo
	err := r.pool.QueryRow(ctx,
		`INSERT INTO todos (user_id, title, category) VALUES ($1, $2, $3)
		 RETURNING id, user_id, title, category, done, created_at, updated_at`,
		userID, title, category,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Category, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update applies a patch to a to-do owned by the given user. A missing row
// and a row owned by someone else both report shared.ErrNotFound.
func (r *Repository) Update(ctx context.Context, userID, todoID int64, patch Patch) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE todos SET
			title = COALESCE($3, title),
			category = COALESCE($4, category),
			done = COALESCE($5, done),
			updated_at = now()
		 WHERE id = $1 AND user_id = $2`,
		todoID, userID, patch.Title, patch.Category, patch.Done,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a to-do owned by the given user.
func (r *Repository) Delete(ctx context.Context, userID, todoID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, todoID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
