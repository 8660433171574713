package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func insertDepartment(t *testing.T, db *DB, id, name string, emails ...string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO departments (id, name) VALUES (?, ?)`, id, name)
	require.NoError(t, err)
	for _, email := range emails {
		_, err := db.Exec(`INSERT INTO department_emails (department_id, email) VALUES (?, ?)`, id, email)
		require.NoError(t, err)
	}
}

func insertCustomer(t *testing.T, db *DB, id, name string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO customers (id, name) VALUES (?, ?)`, id, name)
	require.NoError(t, err)
}

func insertCustomerContact(t *testing.T, db *DB, id, customerID, email string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO customer_contacts (id, customer_id, email) VALUES (?, ?, ?)`, id, customerID, email)
	require.NoError(t, err)
}

func insertSite(t *testing.T, db *DB, id, customerID, name string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO sites (id, customer_id, name) VALUES (?, ?, ?)`, id, customerID, name)
	require.NoError(t, err)
}

func insertUser(t *testing.T, db *DB, id, name, email string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, name, email) VALUES (?, ?, ?)`, id, name, email)
	require.NoError(t, err)
}
