package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/enserhq/enserv/internal/repository"
)

// DirectoryRepository implements task.RecipientResolver over the directory
// tables (departments, customer contacts, users).
type DirectoryRepository struct {
	db *DB
}

// NewDirectoryRepository creates a new DirectoryRepository
func NewDirectoryRepository(db *DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// DepartmentEmails returns a department's registered notification addresses
func (r *DirectoryRepository) DepartmentEmails(ctx context.Context, departmentID string) ([]string, error) {
	query := `
		SELECT email FROM department_emails
		WHERE department_id = ?
		ORDER BY email ASC
	`
	return r.listEmails(ctx, query, departmentID)
}

// CustomerContactEmails returns the addresses of all contacts linked to a
// customer
func (r *DirectoryRepository) CustomerContactEmails(ctx context.Context, customerID string) ([]string, error) {
	query := `
		SELECT email FROM customer_contacts
		WHERE customer_id = ?
		ORDER BY email ASC
	`
	return r.listEmails(ctx, query, customerID)
}

// InternalUserEmail returns a staff user's address
func (r *DirectoryRepository) InternalUserEmail(ctx context.Context, userID string) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx, `SELECT email FROM users WHERE id = ?`, userID).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user email: %w", err)
	}
	return email, nil
}

func (r *DirectoryRepository) listEmails(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
