package api

import (
	"context"

	"github.com/voidshard/slipway/pkg/lineage"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/slurm"
	"github.com/voidshard/slipway/pkg/structs"
)

// API represents the functions slipway servers expose to UI / CLI layers.
type API interface {
	// Implemented in slipway/internal/core.Service

	// Preview renders the batch script a spec would submit, without side
	// effects. Byte-identical to what Submit dispatches for the same inputs.
	Preview(spec *structs.JobSpec, rc *slurm.RenderContext) (string, error)

	// Submit runs the full submission pipeline. Past validation the caller
	// always receives a Job, possibly one that has already FAILED.
	Submit(ctx context.Context, spec *structs.JobSpec, rc *slurm.RenderContext) (*structs.Job, error)

	Jobs(q *structs.Query) ([]*structs.Job, error)

	// RefreshStatus forces one reconciliation check for a job, outside the
	// normal polling cycle.
	RefreshStatus(ctx context.Context, id string) (*structs.Job, error)

	Logs(ctx context.Context, id string) (string, error)
	Cancel(ctx context.Context, id string) (*structs.Job, error)

	Archive(ids []string) (int64, error)
	Unarchive(ids []string) (int64, error)

	Availability(ctx context.Context, host string) (*structs.ResourceSnapshot, error)
	Partitions(ctx context.Context, host string) ([]string, error)
	TestConnection(ctx context.Context, host string) (*structs.ConnectionResult, error)

	InferLineage(q *structs.Query) (*lineage.Graph, error)

	// HandleScan processes one queued log-scan request. Worker processes
	// register this as their queue handler.
	HandleScan(ctx context.Context, req *queue.ScanRequest) error

	Close() error
}

type Server interface {
	ServeForever(api API) error
	Close() error
}
