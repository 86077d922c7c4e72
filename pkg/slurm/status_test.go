package slurm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voidshard/slipway/pkg/structs"
)

func TestToLocalStatus(t *testing.T) {
	cases := []struct {
		Name   string
		Given  string
		Expect structs.Status
	}{
		{"Pending", "PENDING", structs.PENDING},
		{"Configuring", "CONFIGURING", structs.CONFIGURING},
		{"Running", "RUNNING", structs.RUNNING},
		{"Completing", "COMPLETING", structs.RUNNING},
		{"Completed", "COMPLETED", structs.COMPLETED},
		{"Failed", "FAILED", structs.FAILED},
		{"Timeout", "TIMEOUT", structs.FAILED},
		{"OutOfMemory", "OUT_OF_MEMORY", structs.FAILED},
		{"NodeFail", "NODE_FAIL", structs.FAILED},
		{"Cancelled", "CANCELLED", structs.CANCELLED},
		{"CancelledByUser", "CANCELLED by 1001", structs.CANCELLED},
		{"Lowercase", "running", structs.RUNNING},
		{"Whitespace", " COMPLETED \n", structs.COMPLETED},
		{"UnmappedToken", "SPECIAL_EXIT", structs.UNKNOWN},
		{"Empty", "", structs.UNKNOWN},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, ToLocalStatus(c.Given))
		})
	}
}
