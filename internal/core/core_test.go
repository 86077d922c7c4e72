package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voidshard/slipway/internal/mocks/pkg/database_mock"
	"github.com/voidshard/slipway/internal/mocks/pkg/remote_mock"
	"github.com/voidshard/slipway/pkg/config"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/remote"
	"github.com/voidshard/slipway/pkg/structs"
)

func init() {
	timeNow = func() int64 { return 1000000 }
}

func testHosts(t *testing.T) *config.Hosts {
	hs, err := config.NewHosts([]*structs.RemoteHost{
		{Name: "cluster-a", Address: "a.example.com", User: "mluser", Workspace: "/scratch/jobs"},
		{Name: "cluster-b", Address: "b.example.com", User: "mluser", Workspace: "/scratch/jobs"},
	})
	require.Nil(t, err)
	return hs
}

// testService builds a Service with mocks & no background loop. A nil queue
// is fine; paths that enqueue check for it.
func testService(t *testing.T, db *database_mock.MockDatabase, ch *remote_mock.MockChannel, qu queue.Queue) *Service {
	svc, err := NewService(db, ch, qu, testHosts(t), &Options{})
	require.Nil(t, err)
	return svc
}

// hostNamed matches a *structs.RemoteHost by name.
type hostNamed string

func (h hostNamed) Matches(x interface{}) bool {
	rh, ok := x.(*structs.RemoteHost)
	return ok && rh.Name == string(h)
}

func (h hostNamed) String() string {
	return "host named " + string(h)
}

func remoteResult(stdout string) *remote.Result {
	return &remote.Result{Stdout: stdout}
}

func testSpec() *structs.JobSpec {
	return &structs.JobSpec{
		Name:      "train-base",
		Host:      "cluster-a",
		Partition: "gpu",
		Resources: structs.Resources{
			GPUType:     "A6000",
			GPUsPerNode: 2,
			NumNodes:    1,
			CPUsPerTask: 8,
			MemoryGB:    64,
			TimeLimit:   "24:00:00",
		},
		Overrides: map[string]string{"lr": "0.001"},
	}
}
