package billing

import "errors"

var (
	// ErrEntryNotFound indicates the billing entry doesn't exist.
	ErrEntryNotFound = errors.New("billing entry not found")
	// ErrUnknownStatus indicates a payment status outside Paid/Unpaid.
	ErrUnknownStatus = errors.New("unknown payment status")
)
