package common

const (
	// API_JOBS is used to list (GET) or submit (POST) jobs
	API_JOBS = "/api/v1/jobs"

	// API_PREVIEW renders a spec's script without submitting
	API_PREVIEW = "/api/v1/jobs/preview"

	// API_ARCHIVE / API_UNARCHIVE flip the soft-delete flag on jobs
	API_ARCHIVE   = "/api/v1/jobs/archive"
	API_UNARCHIVE = "/api/v1/jobs/unarchive"

	// API_JOB_LOGS tails one job's output
	API_JOB_LOGS = "/api/v1/jobs/{id}/logs"

	// API_JOB_REFRESH forces a reconciliation check for one job
	API_JOB_REFRESH = "/api/v1/jobs/{id}/refresh"

	// API_JOB_CANCEL asks the remote scheduler to cancel one job
	API_JOB_CANCEL = "/api/v1/jobs/{id}/cancel"

	// API_LINEAGE builds the lineage graph over queried jobs
	API_LINEAGE = "/api/v1/lineage"

	// API_HOST_AVAILABILITY / API_HOST_PARTITIONS / API_HOST_TEST query one host
	API_HOST_AVAILABILITY = "/api/v1/hosts/{host}/availability"
	API_HOST_PARTITIONS   = "/api/v1/hosts/{host}/partitions"
	API_HOST_TEST         = "/api/v1/hosts/{host}/test"
)
