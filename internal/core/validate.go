package core

import (
	"fmt"
	"regexp"

	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/structs"
)

// SLURM wall-clock notation: "MM", "MM:SS", "HH:MM:SS", "D-HH", "D-HH:MM",
// "D-HH:MM:SS"
var timeLimitPattern = regexp.MustCompile(`^(\d+-)?\d+(:\d{2}){0,2}$`)

// validateJobSpec checks every invariant and reports all violations at once,
// not just the first.
func (c *Service) validateJobSpec(spec *structs.JobSpec) error {
	violations := []string{}

	if spec.Name == "" {
		violations = append(violations, "name is required")
	}
	if len(spec.Name) > maxNameLength {
		violations = append(violations, fmt.Sprintf("name is %d chars, max %d", len(spec.Name), maxNameLength))
	}
	if len(spec.Description) > maxDescLength {
		violations = append(violations, fmt.Sprintf("description is %d chars, max %d", len(spec.Description), maxDescLength))
	}

	if spec.Host == "" {
		violations = append(violations, "host is required")
	} else if c.hosts.Get(spec.Host) == nil {
		violations = append(violations, fmt.Sprintf("host %s is not configured", spec.Host))
	}

	if spec.NumNodes < 1 {
		violations = append(violations, fmt.Sprintf("num_nodes must be at least 1, got %d", spec.NumNodes))
	}
	if spec.GPUsPerNode < 0 {
		violations = append(violations, fmt.Sprintf("gpus_per_node must not be negative, got %d", spec.GPUsPerNode))
	}
	if spec.CPUsPerTask < 0 {
		violations = append(violations, fmt.Sprintf("cpus_per_task must not be negative, got %d", spec.CPUsPerTask))
	}
	if spec.MemoryGB < 0 {
		violations = append(violations, fmt.Sprintf("memory_gb must not be negative, got %d", spec.MemoryGB))
	}
	if spec.TimeLimit != "" && !timeLimitPattern.MatchString(spec.TimeLimit) {
		violations = append(violations, fmt.Sprintf("time_limit %q is not a valid duration", spec.TimeLimit))
	}

	if len(violations) > 0 {
		return &errors.ValidationError{Violations: violations}
	}
	return nil
}
