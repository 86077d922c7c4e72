package slurm

import (
	"strings"

	"github.com/voidshard/slipway/pkg/structs"
)

// statusTable is the explicit, finite mapping from scheduler status tokens to
// our closed status enum. Schedulers grow new tokens over time; anything not
// listed here surfaces as UNKNOWN rather than crashing or being dropped.
var statusTable = map[string]structs.Status{
	"PENDING":       structs.PENDING,
	"REQUEUED":      structs.PENDING,
	"REQUEUE_HOLD":  structs.PENDING,
	"CONFIGURING":   structs.CONFIGURING,
	"RUNNING":       structs.RUNNING,
	"COMPLETING":    structs.RUNNING,
	"RESIZING":      structs.RUNNING,
	"COMPLETED":     structs.COMPLETED,
	"FAILED":        structs.FAILED,
	"TIMEOUT":       structs.FAILED,
	"OUT_OF_MEMORY": structs.FAILED,
	"NODE_FAIL":     structs.FAILED,
	"BOOT_FAIL":     structs.FAILED,
	"DEADLINE":      structs.FAILED,
	"PREEMPTED":     structs.FAILED,
	"CANCELLED":     structs.CANCELLED,
	"CANCELED":      structs.CANCELLED,
}

// ToLocalStatus maps a raw scheduler token to our status enum.
// Unmapped tokens return UNKNOWN.
func ToLocalStatus(token string) structs.Status {
	t := strings.ToUpper(strings.TrimSpace(token))
	// sacct reports cancellations as "CANCELLED by <uid>"
	if i := strings.Index(t, " BY "); i > 0 {
		t = t[:i]
	}
	if st, ok := statusTable[t]; ok {
		return st
	}
	return structs.UNKNOWN
}
