package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/enserhq/enserv/internal/domain/task"
	"github.com/enserhq/enserv/internal/repository"
)

// TaskRepository implements task.TaskRepository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task and its optional seed remark in one transaction,
// so a failed seed leaves no task row behind.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task, seed *task.Remark) error {
	query := `
		INSERT INTO tasks (
			id, department_id, customer_id, site_id, assigned_user_id,
			title, description, created_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, query,
		t.ID,
		t.DepartmentID,
		t.CustomerID,
		nullable(t.SiteID),
		t.AssignedUserID,
		t.Title,
		t.Description,
		t.CreatedBy,
		t.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	if seed != nil {
		if err := insertRemark(ctx, tx, seed); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task create: %w", err)
	}
	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	query := `
		SELECT id, department_id, customer_id, site_id, assigned_user_id,
		       title, description, created_by, created_at
		FROM tasks
		WHERE id = ?
	`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// List returns all tasks ordered by creation time, newest first
func (r *TaskRepository) List(ctx context.Context) ([]task.Task, error) {
	query := `
		SELECT id, department_id, customer_id, site_id, assigned_user_id,
		       title, description, created_by, created_at
		FROM tasks
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Delete removes a task; remarks cascade via foreign keys
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*task.Task, error) {
	var t task.Task
	var siteID sql.NullString
	err := row.Scan(
		&t.ID,
		&t.DepartmentID,
		&t.CustomerID,
		&siteID,
		&t.AssignedUserID,
		&t.Title,
		&t.Description,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.SiteID = siteID.String
	return &t, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
