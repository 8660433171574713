package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/enserhq/enserv/internal/domain/billing"
	"github.com/enserhq/enserv/internal/repository"
)

// BillingRepository implements billing.Repository for SQLite
type BillingRepository struct {
	db *DB
}

// NewBillingRepository creates a new BillingRepository
func NewBillingRepository(db *DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// Replace swaps a contract type's entire entry set inside one transaction so
// a crash can never leave the contract with a half-written schedule.
func (r *BillingRepository) Replace(ctx context.Context, contractTypeID string, entries []billing.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM billing_entries WHERE contract_type_id = ?`, contractTypeID); err != nil {
		return fmt.Errorf("failed to delete prior entries: %w", err)
	}

	insert := `
		INSERT INTO billing_entries (id, contract_type_id, due_date, status, overdue_days)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, insert,
			e.ID, e.ContractTypeID, e.DueDate, e.Status, e.OverdueDays); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schedule replace: %w", err)
	}
	return nil
}

// ListByContractType returns a contract type's entries ordered by due date
func (r *BillingRepository) ListByContractType(ctx context.Context, contractTypeID string) ([]billing.Entry, error) {
	query := `
		SELECT id, contract_type_id, due_date, status, overdue_days
		FROM billing_entries
		WHERE contract_type_id = ?
		ORDER BY due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, contractTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []billing.Entry
	for rows.Next() {
		var e billing.Entry
		if err := rows.Scan(&e.ID, &e.ContractTypeID, &e.DueDate, &e.Status, &e.OverdueDays); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get retrieves one entry by ID
func (r *BillingRepository) Get(ctx context.Context, entryID string) (*billing.Entry, error) {
	query := `
		SELECT id, contract_type_id, due_date, status, overdue_days
		FROM billing_entries
		WHERE id = ?
	`

	var e billing.Entry
	err := r.db.QueryRowContext(ctx, query, entryID).Scan(
		&e.ID, &e.ContractTypeID, &e.DueDate, &e.Status, &e.OverdueDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return &e, nil
}

// Update persists an entry's status and overdue count
func (r *BillingRepository) Update(ctx context.Context, e *billing.Entry) error {
	query := `
		UPDATE billing_entries
		SET status = ?, overdue_days = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query, e.Status, e.OverdueDays, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
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
