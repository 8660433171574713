package task

import (
	"strings"
	"time"
)

// Status represents the workflow status of a service task.
type Status string

const (
	StatusOpen        Status = "Open"
	StatusScheduled   Status = "Scheduled"
	StatusInProgress  Status = "Work in Progress"
	StatusRescheduled Status = "Rescheduled"
	StatusOnHold      Status = "On-Hold"
	StatusCompleted   Status = "Completed"
	StatusReopen      Status = "Reopen"
)

// InternalCreatorLabel marks remarks and tasks created by staff, as opposed
// to the customer name used for external actors.
const InternalCreatorLabel = "Internal User"

// TaskIDPrefix prefixes every generated task ID.
const TaskIDPrefix = "ENSR"

// Task represents a support task raised against a customer site.
type Task struct {
	ID             string    `json:"id"`
	DepartmentID   string    `json:"department_id"`
	CustomerID     string    `json:"customer_id"`
	SiteID         string    `json:"site_id"`
	AssignedUserID *string   `json:"assigned_user_id,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`

	// Remarks is the append-only status log, ordered by creation. Populated
	// by the service, not by the task repository.
	Remarks []Remark `json:"remarks,omitempty"`
}

// Remark is one entry in a task's append-only status log. Only the most
// recent remark of a task may be edited in place.
type Remark struct {
	Seq       int64     `json:"seq"`
	TaskID    string    `json:"task_id"`
	Body      string    `json:"body"`
	Status    Status    `json:"status"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskID builds the human-readable task identifier: the ENSR prefix
// followed by a compact YYMMDDHHMMSS timestamp.
func NewTaskID(now time.Time) string {
	return TaskIDPrefix + now.Format("060102150405")
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusScheduled, StatusInProgress, StatusRescheduled,
		StatusOnHold, StatusCompleted, StatusReopen:
		return true
	}
	return false
}

// ParseStatus folds a free-text status label into the enumerated type.
// Normalization happens here, once, at the boundary: internal logic never
// string-matches. Variants of "work in progress" ("wip", "in progress",
// case and whitespace noise) all map to StatusInProgress.
func ParseStatus(raw string) (Status, error) {
	folded := strings.ToLower(strings.Join(strings.Fields(raw), " "))

	if folded == "wip" || strings.Contains(folded, "progress") {
		return StatusInProgress, nil
	}

	switch folded {
	case "open":
		return StatusOpen, nil
	case "scheduled":
		return StatusScheduled, nil
	case "rescheduled", "re-scheduled":
		return StatusRescheduled, nil
	case "on-hold", "on hold", "onhold":
		return StatusOnHold, nil
	case "completed", "complete":
		return StatusCompleted, nil
	case "reopen", "re-open", "reopened":
		return StatusReopen, nil
	}
	return "", ErrUnknownStatus
}

// EffectiveStatus derives a task's current status from its remark log: the
// status of the remark with the latest creation time, ties broken by the
// highest sequence number. A task with no remarks is Open.
func EffectiveStatus(remarks []Remark) Status {
	if len(remarks) == 0 {
		return StatusOpen
	}
	latest := remarks[0]
	for _, rm := range remarks[1:] {
		if rm.CreatedAt.After(latest.CreatedAt) ||
			(rm.CreatedAt.Equal(latest.CreatedAt) && rm.Seq > latest.Seq) {
			latest = rm
		}
	}
	return latest.Status
}
