// Package tasks stores the demo task list.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// DBTX is the subset of *sql.DB and *sql.Tx the repository needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository reads and writes tasks.
type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// List returns all tasks in id order.
func (r *Repository) List(ctx context.Context) ([]types.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, completed FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := []types.Task{}
	for rows.Next() {
		var t types.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// Get returns a single task.
func (r *Repository) Get(ctx context.Context, id int64) (types.Task, error) {
	var t types.Task
	err := r.db.QueryRowContext(ctx, `SELECT id, title, completed FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Create inserts an incomplete task.
func (r *Repository) Create(ctx context.Context, title string) (types.Task, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO tasks (title, completed) VALUES (?, 0)`, title)
	if err != nil {
		return types.Task{}, fmt.Errorf("create task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Task{}, fmt.Errorf("create task: %w", err)
	}
	return types.Task{ID: id, Title: title}, nil
}

// Update changes the fields set in req and returns the stored task.
func (r *Repository) Update(ctx context.Context, id int64, req types.UpdateTaskRequest) (types.Task, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return types.Task{}, err
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}

	_, err = r.db.ExecContext(ctx, `
UPDATE tasks SET title = ?, completed = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`, t.Title, t.Completed, id)
	if err != nil {
		return types.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

// Delete removes a task. Deleting a missing task reports ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}
