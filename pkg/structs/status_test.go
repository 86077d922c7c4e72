package structs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminalStatus(t *testing.T) {
	cases := []struct {
		Name   string
		Given  Status
		Expect bool
	}{
		{"StatusUndefined", "x", false},
		{"StatusSubmitting", SUBMITTING, false},
		{"StatusPending", PENDING, false},
		{"StatusConfiguring", CONFIGURING, false},
		{"StatusRunning", RUNNING, false},
		{"StatusUnknown", UNKNOWN, false},
		{"StatusCompleted", COMPLETED, true},
		{"StatusFailed", FAILED, true},
		{"StatusCancelled", CANCELLED, true},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, IsTerminalStatus(c.Given), c.Expect)
		})
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	all := []Status{SUBMITTING, PENDING, CONFIGURING, RUNNING, UNKNOWN, COMPLETED, FAILED, CANCELLED}

	for _, from := range []Status{COMPLETED, FAILED, CANCELLED} {
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "unexpected transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		Name   string
		From   Status
		To     Status
		Expect bool
	}{
		{"SubmittingToPending", SUBMITTING, PENDING, true},
		{"SubmittingToFailed", SUBMITTING, FAILED, true},
		{"SubmittingToRunning", SUBMITTING, RUNNING, false},
		{"PendingToRunning", PENDING, RUNNING, true},
		{"PendingToCancelled", PENDING, CANCELLED, true},
		{"ConfiguringToRunning", CONFIGURING, RUNNING, true},
		{"RunningToCompleted", RUNNING, COMPLETED, true},
		{"RunningToPending", RUNNING, PENDING, false},
		{"PendingToUnknown", PENDING, UNKNOWN, true},
		{"UnknownToCompleted", UNKNOWN, COMPLETED, true},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, CanTransition(c.From, c.To))
		})
	}
}

func TestToStatus(t *testing.T) {
	cases := []struct {
		Name   string
		Given  string
		Expect Status
	}{
		{"StatusUndefined", "x", ""},
		{"StatusSubmitting", "SUBMITTING", SUBMITTING},
		{"StatusPending", "pending", PENDING},
		{"StatusConfiguring", "CONFIGURING", CONFIGURING},
		{"StatusRunning", "RUNNING", RUNNING},
		{"StatusUnknown", "UNKNOWN", UNKNOWN},
		{"StatusCompleted", "COMPLETED", COMPLETED},
		{"StatusFailed", "FAILED", FAILED},
		{"StatusCancelled", "CANCELLED", CANCELLED},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, ToStatus(c.Given), c.Expect)
		})
	}
}
