package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/enserhq/enserv/internal/domain/task"
	"github.com/enserhq/enserv/internal/repository"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the remark statements
// can run standalone or inside a task-create transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// RemarkRepository implements task.RemarkRepository for SQLite
type RemarkRepository struct {
	db *DB
}

// NewRemarkRepository creates a new RemarkRepository
func NewRemarkRepository(db *DB) *RemarkRepository {
	return &RemarkRepository{db: db}
}

// Append inserts a remark at the tail of a task's log. The decision callback
// runs against the remarks as read inside the same transaction, so the
// status it derives cannot be invalidated by another writer before the
// insert commits. A decision error rolls the whole append back.
func (r *RemarkRepository) Append(ctx context.Context, rm *task.Remark, decide task.DecideStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := listRemarks(ctx, tx, rm.TaskID)
	if err != nil {
		return err
	}
	status, err := decide(current)
	if err != nil {
		return err
	}
	rm.Status = status

	if err := insertRemark(ctx, tx, rm); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit remark append: %w", err)
	}
	return nil
}

// ListByTask returns a task's remarks ordered by creation time, then
// sequence, so the last element is always the effective-status remark.
func (r *RemarkRepository) ListByTask(ctx context.Context, taskID string) ([]task.Remark, error) {
	return listRemarks(ctx, r.db, taskID)
}

// Update edits a remark in place. The creation timestamp is left untouched.
func (r *RemarkRepository) Update(ctx context.Context, rm *task.Remark) error {
	query := `
		UPDATE remarks
		SET body = ?, status = ?
		WHERE task_id = ? AND seq = ?
	`

	res, err := r.db.ExecContext(ctx, query, rm.Body, rm.Status, rm.TaskID, rm.Seq)
	if err != nil {
		return fmt.Errorf("failed to update remark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// insertRemark inserts one remark and assigns its sequence number from the
// AUTOINCREMENT key.
func insertRemark(ctx context.Context, q querier, rm *task.Remark) error {
	query := `
		INSERT INTO remarks (task_id, body, status, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := q.ExecContext(ctx, query,
		rm.TaskID,
		rm.Body,
		rm.Status,
		rm.CreatedBy,
		rm.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to append remark: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read remark sequence: %w", err)
	}
	rm.Seq = seq
	return nil
}

func listRemarks(ctx context.Context, q querier, taskID string) ([]task.Remark, error) {
	query := `
		SELECT seq, task_id, body, status, created_by, created_at
		FROM remarks
		WHERE task_id = ?
		ORDER BY created_at ASC, seq ASC
	`

	rows, err := q.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list remarks: %w", err)
	}
	defer rows.Close()

	var remarks []task.Remark
	for rows.Next() {
		var rm task.Remark
		if err := rows.Scan(&rm.Seq, &rm.TaskID, &rm.Body, &rm.Status, &rm.CreatedBy, &rm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan remark: %w", err)
		}
		remarks = append(remarks, rm)
	}
	return remarks, rows.Err()
}
