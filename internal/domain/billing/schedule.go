package billing

import (
	"time"

	"github.com/google/uuid"
)

// GenerateSchedule produces the due-date sequence for a contract: entries at
// start, start+cycleDays, and so on, inclusive of any date up to end. Every
// entry starts Unpaid with its overdue count computed against now.
//
// A zero start or end, or a non-positive cycle, yields an empty schedule.
// That is the "contract has no billing" case (Free contracts), not an error.
func GenerateSchedule(contractTypeID string, start, end time.Time, cycleDays int, now time.Time) []Entry {
	if start.IsZero() || end.IsZero() || cycleDays <= 0 {
		return nil
	}

	var entries []Entry
	for due := start; !due.After(end); due = due.AddDate(0, 0, cycleDays) {
		entries = append(entries, Entry{
			ID:             uuid.NewString(),
			ContractTypeID: contractTypeID,
			DueDate:        due,
			Status:         PaymentUnpaid,
			OverdueDays:    OverdueDays(due, PaymentUnpaid, now),
		})
	}
	return entries
}
