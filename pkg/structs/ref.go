package structs

// JobRef pins an exact job & version for optimistic-lock updates.
type JobRef struct {
	// ID is the unique identifier of the job.
	ID string `json:"id"`

	// ETag is the version of the job the caller last saw.
	ETag string `json:"etag"`
}

// NewJobRef creates a new JobRef.
func NewJobRef(id, etag string) *JobRef {
	return &JobRef{ID: id, ETag: etag}
}
