package structs

import (
	"time"
)

// Resources is the compute request attached to a JobSpec.
type Resources struct {
	// GPUType constrains the accelerator model (eg. "A6000"). Optional.
	GPUType string `json:"gpu_type"`

	// GPUsPerNode is the number of accelerators requested per node.
	GPUsPerNode int `json:"gpus_per_node"`

	// NumNodes is the number of nodes requested.
	NumNodes int `json:"num_nodes"`

	// CPUsPerTask is the number of CPUs requested per task.
	CPUsPerTask int `json:"cpus_per_task"`

	// MemoryGB is memory per node in GB.
	MemoryGB int `json:"memory_gb"`

	// TimeLimit is the wall-clock limit in scheduler notation (eg. "24:00:00").
	TimeLimit string `json:"time_limit"`
}

// JobSpec are fields that can be set when a job is submitted.
type JobSpec struct {
	// Name is a human readable name for the job.
	//
	// Required.
	Name string `json:"name"`

	// Description is free text.
	Description string `json:"description"`

	// ProjectID ties the job to a project for listing purposes.
	ProjectID string `json:"project_id"`

	// Host names the RemoteHost (cluster) this job targets.
	//
	// Required.
	Host string `json:"host"`

	// Partition is the scheduling queue / partition on the host.
	Partition string `json:"partition"`

	Resources `json:",inline"`

	// Variant is the named configuration variant this job was built from
	// (eg. the chosen option of a config group). Advisory.
	Variant string `json:"variant"`

	// BranchedFrom optionally references the job this one was branched off.
	BranchedFrom string `json:"branched_from"`

	// Overrides is an open-ended map of parameter overrides passed through
	// to the rendered script verbatim.
	Overrides map[string]string `json:"overrides"`

	// ExtraDirectives is a raw text blob appended to the generated scheduler
	// directives, merged on top of everything else.
	ExtraDirectives string `json:"extra_directives"`
}

// Job is the full lifecycle record of a submitted (or submitting) job.
//
// The JobSpec fields are copied in at submission time, not referenced, so
// later edits to project defaults never retroactively change history.
type Job struct {
	JobSpec `json:",inline"`

	// ID is our own unique identifier, distinct from the scheduler's.
	ID string `json:"id"`

	// Status is the current lifecycle status.
	Status Status `json:"status"`

	// ETag is used for optimistic locking on updates.
	ETag string `json:"etag"`

	// RemoteJobID is the scheduler-assigned identifier. Empty until a
	// submission has been accepted by the remote scheduler.
	RemoteJobID string `json:"remote_job_id"`

	// Script is the rendered batch script, persisted verbatim for audit.
	Script string `json:"script"`

	// CommitSHA records the source revision embedded into the script.
	CommitSHA string `json:"commit_sha"`

	// ErrorDetail is free text captured when the job fails.
	ErrorDetail string `json:"error_detail"`

	// MetricsURL is the metrics-dashboard URL scraped from job logs, if any.
	MetricsURL string `json:"metrics_url"`

	// Archived soft-deletes the job from default listings.
	Archived bool `json:"archived"`

	// CreatedAt is the time this job was created, unix time in seconds
	CreatedAt int64 `json:"created_at"`

	// StartedAt is the time we first saw the job RUNNING (0 if never).
	StartedAt int64 `json:"started_at"`

	// FinishedAt is the time we saw the job reach an end state (0 if not yet).
	FinishedAt int64 `json:"finished_at"`

	// UpdatedAt is the time this job was last updated, unix time in seconds
	UpdatedAt int64 `json:"updated_at"`
}

// Runtime derives how long the job has been (or was) running.
func (j *Job) Runtime() time.Duration {
	if j.StartedAt == 0 {
		return 0
	}
	end := j.FinishedAt
	if end == 0 {
		end = time.Now().Unix()
	}
	if end < j.StartedAt {
		return 0
	}
	return time.Duration(end-j.StartedAt) * time.Second
}
