package structs

const (
	queryLimitDefault = 1000

	// MaxLimit is the largest page a single query may return.
	MaxLimit = 10000
)

type Query struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Filters
	JobIDs     []string `json:"job_ids,omitempty"`
	ProjectIDs []string `json:"project_ids,omitempty"`
	Hosts      []string `json:"hosts,omitempty"`
	Statuses   []Status `json:"statuses,omitempty"`

	// WithRemoteID restricts results to jobs that have a scheduler-assigned
	// ID; the reconciler uses this to skip jobs that never dispatched.
	WithRemoteID bool `json:"with_remote_id,omitempty"`

	// IncludeArchived includes soft-deleted jobs, excluded by default.
	IncludeArchived bool `json:"include_archived,omitempty"`

	CreatedBefore int64 `json:"created_before,omitempty"`
	CreatedAfter  int64 `json:"created_after,omitempty"`
	UpdatedBefore int64 `json:"updated_before,omitempty"`
	UpdatedAfter  int64 `json:"updated_after,omitempty"`
}

func (q *Query) Sanitize() {
	if q.Limit <= 0 {
		q.Limit = queryLimitDefault
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.JobIDs == nil || len(q.JobIDs) == 0 {
		q.JobIDs = nil
	}
	if q.ProjectIDs == nil || len(q.ProjectIDs) == 0 {
		q.ProjectIDs = nil
	}
	if q.Hosts == nil || len(q.Hosts) == 0 {
		q.Hosts = nil
	}
	if q.Statuses == nil || len(q.Statuses) == 0 {
		q.Statuses = nil
	}
}
