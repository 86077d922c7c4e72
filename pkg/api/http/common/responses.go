package common

// PreviewResponse returns the rendered batch script without submitting it.
type PreviewResponse struct {
	Script string `json:"script"`
}

// UpdateResponse reports how many rows a bulk write touched.
type UpdateResponse struct {
	Updated int64 `json:"updated"`
}

// LogsResponse returns the tail of a job's remote output.
type LogsResponse struct {
	JobID string `json:"job_id"`
	Logs  string `json:"logs"`
}

// PartitionsResponse lists the partitions a job may target on one host.
type PartitionsResponse struct {
	Host       string   `json:"host"`
	Partitions []string `json:"partitions"`
}
