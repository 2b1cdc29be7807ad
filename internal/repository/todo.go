package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/tasktrack/tasktrack-go/internal/model"
)

// TodoRepository handles todo persistence. Every method is a single
// statement; rows are scoped to their owner's email.
type TodoRepository struct {
	db *sqlx.DB
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create inserts a todo for ownerEmail and returns the generated ID.
func (r *TodoRepository) Create(ctx context.Context, text string, done bool, ownerEmail string) (int64, error) {
	query := `INSERT INTO todos (todo, done, fk_email_user) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, text, done, ownerEmail)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// ListByOwner returns every todo owned by ownerEmail, oldest first.
func (r *TodoRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]model.Todo, error) {
	query := `SELECT id, todo, done, fk_email_user FROM todos WHERE fk_email_user = ? ORDER BY id`

	todos := []model.Todo{}
	if err := r.db.SelectContext(ctx, &todos, query, ownerEmail); err != nil {
		return nil, err
	}

	return todos, nil
}

// ToggleDone flips the done flag of the todo with the given id owned by
// ownerEmail. It reports the number of rows changed; zero means no such row
// for this owner.
func (r *TodoRepository) ToggleDone(ctx context.Context, id int64, ownerEmail string) (int64, error) {
	query := `UPDATE todos SET done = CASE WHEN done = 1 THEN 0 ELSE 1 END
		WHERE id = ? AND fk_email_user = ?`

	result, err := r.db.ExecContext(ctx, query, id, ownerEmail)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// Delete removes the todo with the given id owned by ownerEmail and reports
// the number of rows removed.
func (r *TodoRepository) Delete(ctx context.Context, id int64, ownerEmail string) (int64, error) {
	query := `DELETE FROM todos WHERE id = ? AND fk_email_user = ?`

	result, err := r.db.ExecContext(ctx, query, id, ownerEmail)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
