package task

// allowedNext is the status transition table. Completed is terminal except
// for the customer-triggered Reopen.
var allowedNext = map[Status][]Status{
	StatusOpen:        {StatusScheduled},
	StatusScheduled:   {StatusInProgress, StatusRescheduled, StatusOnHold},
	StatusInProgress:  {StatusOnHold, StatusCompleted},
	StatusRescheduled: {StatusInProgress, StatusOnHold},
	StatusOnHold:      {StatusRescheduled},
	StatusCompleted:   {StatusReopen},
	StatusReopen:      {StatusRescheduled},
}

// CanTransition reports whether the table allows moving from one status to
// another. Unknown current statuses have no legal transitions.
func CanTransition(from, to Status) bool {
	for _, next := range allowedNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one.
func NextStatuses(from Status) []Status {
	next := allowedNext[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}
