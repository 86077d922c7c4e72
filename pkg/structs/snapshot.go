package structs

// GPUAvailability describes one accelerator type on a host.
type GPUAvailability struct {
	GPUType   string `json:"gpu_type"`
	Total     int    `json:"total"`
	Available int    `json:"available"`
	InUse     int    `json:"in_use"`
	Pending   int    `json:"pending"`

	// NodesWithFree lists "node:count" entries for nodes with free capacity.
	NodesWithFree []string `json:"nodes_with_free"`
}

// ResourceSnapshot is a point-in-time view of a host's free capacity.
//
// Snapshots are ephemeral; they live in an in-memory TTL cache keyed by host
// name and are never persisted.
type ResourceSnapshot struct {
	Host          string            `json:"host"`
	TotalFreeGPUs int               `json:"total_free_gpus"`
	GPUs          []GPUAvailability `json:"gpus"`

	// Cached indicates the snapshot was served from cache; CacheAgeSeconds
	// is how stale it is.
	Cached          bool `json:"cached"`
	CacheAgeSeconds int  `json:"cache_age_seconds"`

	// CollectedAt is when the data was actually gathered, unix seconds.
	CollectedAt int64 `json:"collected_at"`
}

// ConnectionResult is the outcome of a reachability test against a host.
// Network-level failures are reported here, never raised.
type ConnectionResult struct {
	Host      string `json:"host"`
	Reachable bool   `json:"reachable"`

	// Address is the resolved "host:port" we dialled.
	Address string `json:"address"`

	// Hostname is what the remote side reported, when reachable.
	Hostname string `json:"hostname"`

	// Message is a human readable diagnostic.
	Message string `json:"message"`
}
