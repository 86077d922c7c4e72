package slurm

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/voidshard/slipway/internal/utils"
	"github.com/voidshard/slipway/pkg/errors"
)

const (
	// inspectSeparator splits the two halves of the inspection command output
	inspectSeparator = "__SLIPWAY_SECTION__"
)

var (
	// sbatch acceptance line; anything else is a parse failure
	submitPattern = regexp.MustCompile(`Submitted batch job (\d+)`)
)

// SubmitCommand submits a previously uploaded batch script.
func SubmitCommand(scriptPath string) string {
	return "sbatch " + utils.ShellQuote(scriptPath)
}

// ParseSubmitOutput extracts the scheduler-assigned job ID from sbatch output.
func ParseSubmitOutput(stdout string) (string, error) {
	m := submitPattern.FindStringSubmatch(stdout)
	if m == nil {
		return "", &errors.ParseError{Source: "sbatch", Detail: fmt.Sprintf("no job id in output: %q", strings.TrimSpace(stdout))}
	}
	return m[1], nil
}

// StatusCommand builds the single batched status query for all of a host's
// active jobs. squeue covers live jobs, sacct covers ones that already left
// the queue; both run in one remote call.
func StatusCommand(remoteIDs []string) string {
	ids := append([]string{}, remoteIDs...)
	sort.Strings(ids)
	joined := strings.Join(ids, ",")
	return fmt.Sprintf("squeue -h -j %s -o '%%i %%T' 2>/dev/null; sacct -n -P -j %s -o JobID,State 2>/dev/null", joined, joined)
}

// ParseStatusOutput parses the combined squeue + sacct output into a map of
// remote job ID -> raw status token. squeue lines win over sacct lines since
// they reflect the live queue. Job steps (1234.batch etc) are skipped.
func ParseStatusOutput(stdout string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var id, token string
		if strings.Contains(line, "|") {
			// sacct: "1234|COMPLETED"
			parts := strings.SplitN(line, "|", 3)
			if len(parts) < 2 {
				continue
			}
			id, token = parts[0], parts[1]
		} else {
			// squeue: "1234 RUNNING"
			parts := strings.Fields(line)
			if len(parts) < 2 {
				continue
			}
			id, token = parts[0], strings.Join(parts[1:], " ")
		}

		if strings.Contains(id, ".") { // a step, not the job itself
			continue
		}
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = token
	}
	return out
}

// CancelCommand cancels a job via the scheduler's native cancel; the only
// cancellation path we support.
func CancelCommand(remoteID string) string {
	return "scancel " + utils.ShellQuote(remoteID)
}

// PartitionsCommand lists the host's partitions.
func PartitionsCommand() string {
	return "sinfo -o %P --noheader"
}

// ParsePartitions parses sinfo partition output, stripping the asterisk that
// marks the default partition & dropping duplicates.
func ParsePartitions(stdout string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, line := range strings.Split(stdout, "\n") {
		p := strings.TrimSuffix(strings.TrimSpace(line), "*")
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// TailCommand fetches the last n lines of a remote log file.
func TailCommand(path string, lines int) string {
	return fmt.Sprintf("tail -n %d %s", lines, utils.ShellQuote(path))
}

// InspectCommand gathers node capacity & pending GPU demand in one call.
func InspectCommand() string {
	return fmt.Sprintf(
		"scontrol show node; echo %s; squeue --state=PD -a -o '%%.18i %%.2t %%.25R %%.20b' --noheader 2>/dev/null",
		inspectSeparator,
	)
}

// SplitInspectOutput splits InspectCommand output into its node & pending halves.
func SplitInspectOutput(stdout string) (nodes string, pending string) {
	parts := strings.SplitN(stdout, inspectSeparator, 2)
	nodes = parts[0]
	if len(parts) == 2 {
		pending = parts[1]
	}
	return nodes, pending
}
