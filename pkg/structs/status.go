package structs

import (
	"strings"
)

type Status string

const (
	// transient states
	SUBMITTING  Status = "SUBMITTING"
	PENDING     Status = "PENDING"
	CONFIGURING Status = "CONFIGURING"
	RUNNING     Status = "RUNNING"

	// UNKNOWN marks a job whose scheduler reported a token we have no mapping for.
	// It is a warning state, not an end state; we keep polling it.
	UNKNOWN Status = "UNKNOWN"

	// end states
	COMPLETED Status = "COMPLETED"
	FAILED    Status = "FAILED"
	CANCELLED Status = "CANCELLED"
)

// transitions maps each non-terminal status to the statuses it may move to.
// End states have no entries; nothing transitions out of them.
var transitions = map[Status][]Status{
	SUBMITTING:  {PENDING, FAILED},
	PENDING:     {CONFIGURING, RUNNING, COMPLETED, CANCELLED, FAILED, UNKNOWN},
	CONFIGURING: {PENDING, RUNNING, COMPLETED, CANCELLED, FAILED, UNKNOWN},
	RUNNING:     {COMPLETED, CANCELLED, FAILED, UNKNOWN},
	UNKNOWN:     {PENDING, CONFIGURING, RUNNING, COMPLETED, CANCELLED, FAILED},
}

func IsTerminalStatus(status Status) bool {
	switch status {
	case COMPLETED, FAILED, CANCELLED:
		return true
	default:
		return false
	}
}

// NonTerminalStatuses returns every status the reconciler still needs to poll.
func NonTerminalStatuses() []Status {
	return []Status{SUBMITTING, PENDING, CONFIGURING, RUNNING, UNKNOWN}
}

// CanTransition reports whether a job in status `from` may move to status `to`.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ToStatus(s string) Status {
	switch strings.ToUpper(s) {
	case "SUBMITTING":
		return SUBMITTING
	case "PENDING":
		return PENDING
	case "CONFIGURING":
		return CONFIGURING
	case "RUNNING":
		return RUNNING
	case "UNKNOWN":
		return UNKNOWN
	case "COMPLETED":
		return COMPLETED
	case "FAILED":
		return FAILED
	case "CANCELLED":
		return CANCELLED
	default:
		return ""
	}
}
