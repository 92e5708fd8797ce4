package debug

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jrichmond93/ChatbotPOC/internal/logger"
)

var seedTasks = []struct {
	title     string
	completed bool
}{
	{"Learn React", false},
	{"Build Flask API", true},
	{"Connect Frontend to Backend", false},
}

// ResetTasks restores the task table to its seeded contents (dev-only helper).
func ResetTasks(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM tasks`)
	if err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'tasks'`); err != nil {
		return fmt.Errorf("reset task ids: %w", err)
	}
	for _, t := range seedTasks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks (title, completed) VALUES (?, ?)`, t.title, t.completed); err != nil {
			return fmt.Errorf("seed task %q: %w", t.title, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		logger.Warnf("[debug] reset tasks, row count unavailable: %v", err)
		return nil
	}
	logger.Infof("[debug] reset tasks, removed %d rows", n)
	return nil
}
