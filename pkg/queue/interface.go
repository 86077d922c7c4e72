package queue

import (
	"context"
)

// ScanRequest asks a worker to read a job's output file on its remote
// host and pull out anything useful (currently: the metrics URL the
// training process prints on startup).
type ScanRequest struct {
	JobID       string `json:"job_id"`
	Host        string `json:"host"`
	RemoteJobID string `json:"remote_job_id"`
}

type Queue interface {
	// RegisterScan sets the handler called for each queued scan request.
	//
	// A scan that returns an error is retried by the queue (up to its
	// retry limit); handlers should return nil for permanent failures
	// they don't want retried.
	RegisterScan(handler func(ctx context.Context, req *ScanRequest) error) error

	// Run the queue & process tasks (via RegisterScan). This blocks until Close() is called.
	Run() error

	// EnqueueScan queues a scan request, returning the queued task id.
	EnqueueScan(req *ScanRequest) (string, error)

	// Close & shutdown the queue.
	Close() error
}
