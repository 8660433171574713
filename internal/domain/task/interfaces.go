package task

import "context"

// TaskRepository provides persistence for tasks.
type TaskRepository interface {
	// Create inserts the task and its optional seed remark in one
	// transaction; a nil seed inserts the task alone. The seed's sequence
	// number is assigned on success.
	Create(ctx context.Context, t *Task, seed *Remark) error
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context) ([]Task, error)
	// Delete removes the task; owned rows (remarks, contacts, schedule)
	// cascade at the storage layer.
	Delete(ctx context.Context, id string) error
}

// DecideStatus picks the status to record given the task's remarks as read
// inside the append transaction. Returning an error aborts the append.
type DecideStatus func(current []Remark) (Status, error)

// RemarkRepository provides persistence for the append-only remark log.
type RemarkRepository interface {
	// Append reads the task's remarks, calls decide, and inserts the remark
	// with the decided status, all inside one transaction, so no other
	// writer can change the effective status between the read and the
	// insert. The sequence number is assigned on success.
	Append(ctx context.Context, rm *Remark, decide DecideStatus) error
	// ListByTask returns remarks ordered by creation time, then sequence.
	ListByTask(ctx context.Context, taskID string) ([]Remark, error)
	// Update edits a remark in place, matched by task ID and sequence.
	Update(ctx context.Context, rm *Remark) error
}

// RecipientResolver looks up notification addresses.
type RecipientResolver interface {
	DepartmentEmails(ctx context.Context, departmentID string) ([]string, error)
	CustomerContactEmails(ctx context.Context, customerID string) ([]string, error)
	InternalUserEmail(ctx context.Context, userID string) (string, error)
}

// Notifier delivers a notification. Failures are logged by the caller and
// never propagated into the write path.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}
