package billing

import (
	"strings"
	"time"
)

// PaymentStatus marks a schedule entry as settled or outstanding.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "Paid"
	PaymentUnpaid PaymentStatus = "Unpaid"
)

// Valid reports whether s is one of the enumerated payment statuses.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPaid || s == PaymentUnpaid
}

// ParsePaymentStatus folds a free-text payment status into the enumerated
// type.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid":
		return PaymentPaid, nil
	case "unpaid":
		return PaymentUnpaid, nil
	}
	return "", ErrUnknownStatus
}

// Entry is one due-date record of a contract's billing schedule.
//
// OverdueDays is never ground truth: it is recomputed against "now" whenever
// the schedule is read or an entry's status changes.
type Entry struct {
	ID             string        `json:"id"`
	ContractTypeID string        `json:"contract_type_id"`
	DueDate        time.Time     `json:"due_date"`
	Status         PaymentStatus `json:"status"`
	OverdueDays    int           `json:"overdue_days"`
}

// OverdueDays computes the whole days an unpaid entry is past due at the
// given time. Paid or not-yet-due entries are never overdue. Partial days
// truncate.
func OverdueDays(dueDate time.Time, status PaymentStatus, now time.Time) int {
	if status != PaymentUnpaid {
		return 0
	}
	days := int(now.Sub(dueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
