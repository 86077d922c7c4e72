package database

import (
	"github.com/voidshard/slipway/pkg/structs"
)

// JobUpdate is a partial update applied to a single job row. Nil fields are
// left untouched.
type JobUpdate struct {
	Status      *structs.Status
	RemoteJobID *string
	ErrorDetail *string
	MetricsURL  *string
	StartedAt   *int64
	FinishedAt  *int64
}

type Database interface {
	// InsertJob writes a new job row.
	InsertJob(j *structs.Job) error

	// Jobs returns jobs matching the given query.
	Jobs(q *structs.Query) ([]*structs.Job, error)

	// UpdateJob applies a partial update to one job, compare-and-swapping on
	// (id, etag) & minting newTag. Returns rows affected: 0 means the etag
	// didn't match (someone else got there first).
	UpdateJob(id, etag, newTag string, upd *JobUpdate) (int64, error)

	// SetJobsArchived flips the archived flag on the given jobs.
	SetJobsArchived(archived bool, newTag string, ids []*structs.JobRef) (int64, error)

	Close() error
}
