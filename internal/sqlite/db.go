package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys so task deletion cascades to owned rows
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// Migrate creates the schema if it doesn't exist yet.
func (db *DB) Migrate() error {
	schema := `
-- Directory tables backing recipient resolution
CREATE TABLE IF NOT EXISTS departments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS department_emails (
    department_id TEXT NOT NULL,
    email TEXT NOT NULL,
    PRIMARY KEY (department_id, email),
    FOREIGN KEY (department_id) REFERENCES departments(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS customers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS customer_contacts (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_customer_contacts ON customer_contacts(customer_id);

CREATE TABLE IF NOT EXISTS sites (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    name TEXT NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL
);

-- Tasks and their append-only remark log
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    department_id TEXT NOT NULL,
    customer_id TEXT NOT NULL,
    site_id TEXT,
    assigned_user_id TEXT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (department_id) REFERENCES departments(id),
    FOREIGN KEY (customer_id) REFERENCES customers(id),
    FOREIGN KEY (site_id) REFERENCES sites(id),
    FOREIGN KEY (assigned_user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_customer_tasks ON tasks(customer_id);
CREATE INDEX IF NOT EXISTS idx_department_tasks ON tasks(department_id);

CREATE TABLE IF NOT EXISTS remarks (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id TEXT NOT NULL,
    body TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN (
        'Open', 'Scheduled', 'Work in Progress', 'Rescheduled',
        'On-Hold', 'Completed', 'Reopen'
    )),
    created_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_task_remarks ON remarks(task_id);

-- Billing schedule entries for paid contract types
CREATE TABLE IF NOT EXISTS billing_entries (
    id TEXT PRIMARY KEY,
    contract_type_id TEXT NOT NULL,
    due_date TIMESTAMP NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('Paid', 'Unpaid')),
    overdue_days INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_contract_entries ON billing_entries(contract_type_id);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
