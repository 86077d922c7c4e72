package structs

// RemoteHost is a named SLURM cluster we can reach over SSH.
//
// Host definitions are loaded once at process start from static configuration
// and treated as read-only everywhere; a change requires a restart.
type RemoteHost struct {
	// Name uniquely identifies this host; jobs reference it by name.
	Name string `yaml:"name" json:"name"`

	// Address is "host" or "host:port" (port defaults to 22).
	Address string `yaml:"address" json:"address"`

	// User is the SSH login user.
	User string `yaml:"user" json:"user"`

	// KeyPath is the path to the private key used to authenticate.
	KeyPath string `yaml:"key_path" json:"key_path"`

	// Workspace is the root working directory for job scripts & logs.
	Workspace string `yaml:"workspace" json:"workspace"`

	// AllowedPartitions, if set, restricts the partitions we will submit to
	// (and short-circuits the remote partition query).
	AllowedPartitions []string `yaml:"allowed_partitions,omitempty" json:"allowed_partitions,omitempty"`

	// AllowedGPUTypes, if set, filters availability results to these types.
	AllowedGPUTypes []string `yaml:"allowed_gpu_types,omitempty" json:"allowed_gpu_types,omitempty"`

	// RequiresTunnel marks hosts only reachable once a tunnel has been
	// established manually; we surface this in reachability diagnostics.
	RequiresTunnel bool `yaml:"requires_tunnel,omitempty" json:"requires_tunnel,omitempty"`
}
