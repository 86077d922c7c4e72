package slurm

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/voidshard/slipway/pkg/structs"
)

// node states excluded from availability; a drained or down node's GPUs are
// not schedulable no matter what its GRES says
var excludedNodeStates = map[string]bool{
	"DRAIN":   true,
	"DRAINED": true,
	"DOWN":    true,
	"MAINT":   true,
}

var (
	nodeNamePattern  = regexp.MustCompile(`NodeName=(\S+)`)
	nodeStatePattern = regexp.MustCompile(`State=(\S+)`)
	// GRES / TRES strings never contain spaces, so \S* keeps the match from
	// swallowing whatever else scontrol prints on the same line
	nodeGresPattern  = regexp.MustCompile(`Gres=(\S*)`)
	allocTresPattern = regexp.MustCompile(`AllocTRES=(\S*)`)

	leadingDigits = regexp.MustCompile(`^\d+`)
)

// ParseGresGPUs parses a SLURM GRES string (eg. "gpu:a6000:4(S:0-1),gpu:2")
// into accelerator type -> count. Types are lowercased; an untyped entry
// counts under "gpu".
func ParseGresGPUs(gres string) map[string]int {
	out := map[string]int{}
	gres = strings.TrimSpace(gres)
	if gres == "" || gres == "(null)" || gres == "N/A" {
		return out
	}

	for _, entry := range strings.Split(gres, ",") {
		entry = strings.TrimPrefix(strings.TrimSpace(entry), "gres/")
		fields := strings.Split(entry, ":")
		if fields[0] != "gpu" {
			// also accept "gpu=N" style (TRES notation)
			if !strings.HasPrefix(fields[0], "gpu=") {
				continue
			}
			n, _ := strconv.Atoi(strings.TrimPrefix(fields[0], "gpu="))
			if n > 0 {
				out["gpu"] += n
			}
			continue
		}

		switch len(fields) {
		case 1:
			out["gpu"]++
		case 2:
			// "gpu:4" or "gpu:a6000", plus the TRES form "gpu:a6000=2"
			if n := countOf(fields[1]); n > 0 {
				out["gpu"] += n
				continue
			}
			model := strings.ToLower(fields[1])
			n := 1
			if i := strings.Index(model, "="); i > 0 {
				if m := countOf(model[i+1:]); m > 0 {
					n = m
				}
				model = model[:i]
			}
			out[model] += n
		default:
			// "gpu:a6000:4(S:0-1)"
			model := strings.ToLower(fields[1])
			n := countOf(fields[2])
			if n == 0 {
				n = 1
			}
			// TRES form "gpu:a6000=4"
			if i := strings.Index(model, "="); i > 0 {
				if m := countOf(model[i+1:]); m > 0 {
					n = m
				}
				model = model[:i]
			}
			out[model] += n
		}
	}
	return out
}

// ParseTresGPUs extracts GPU counts from an AllocTRES string, eg.
// "cpu=8,mem=64G,gres/gpu=2,gres/gpu:a6000=2".
func ParseTresGPUs(tres string) map[string]int {
	out := map[string]int{}
	for _, entry := range strings.Split(tres, ",") {
		entry = strings.TrimSpace(entry)
		if !strings.HasPrefix(entry, "gres/gpu") {
			continue
		}
		kv := strings.SplitN(entry, "=", 2)
		if len(kv) != 2 {
			continue
		}
		n := countOf(kv[1])
		if n == 0 {
			continue
		}
		model := "gpu"
		if strings.HasPrefix(kv[0], "gres/gpu:") {
			model = strings.ToLower(strings.TrimPrefix(kv[0], "gres/gpu:"))
		}
		out[model] += n
	}
	return out
}

func countOf(s string) int {
	m := leadingDigits.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// BuildSnapshot parses `scontrol show node` + pending-job output into a
// ResourceSnapshot. Nodes in an excluded (drain/down/maint) state contribute
// nothing, even if they report GRES.
func BuildSnapshot(host string, nodesOut, pendingOut string) *structs.ResourceSnapshot {
	total := map[string]int{}
	freeNodes := map[string][]string{}
	free := map[string]int{}

	for _, block := range strings.Split(nodesOut, "\n\n") {
		name := nodeNamePattern.FindStringSubmatch(block)
		state := nodeStatePattern.FindStringSubmatch(block)
		if name == nil || state == nil || isExcludedState(state[1]) {
			continue
		}

		gres := map[string]int{}
		if m := nodeGresPattern.FindStringSubmatch(block); m != nil {
			gres = ParseGresGPUs(m[1])
		}
		alloc := map[string]int{}
		if m := allocTresPattern.FindStringSubmatch(block); m != nil {
			alloc = ParseTresGPUs(m[1])
		}

		for model, count := range gres {
			total[model] += count
			f := count - alloc[model]
			if f > 0 {
				free[model] += f
				freeNodes[model] = append(freeNodes[model], name[1]+":"+strconv.Itoa(f))
			}
		}
	}

	pending := parsePendingGPUs(pendingOut)

	models := map[string]bool{}
	for m := range total {
		models[m] = true
	}
	for m := range pending {
		models[m] = true
	}
	ordered := []string{}
	for m := range models {
		ordered = append(ordered, m)
	}
	sort.Strings(ordered)

	snap := &structs.ResourceSnapshot{Host: host, GPUs: []structs.GPUAvailability{}}
	for _, m := range ordered {
		nodes := freeNodes[m]
		sort.Strings(nodes)
		snap.GPUs = append(snap.GPUs, structs.GPUAvailability{
			GPUType:       m,
			Total:         total[m],
			Available:     free[m],
			InUse:         total[m] - free[m],
			Pending:       pending[m],
			NodesWithFree: nodes,
		})
		snap.TotalFreeGPUs += free[m]
	}
	return snap
}

// parsePendingGPUs counts GPUs requested by jobs pending on resources or
// priority, from `squeue --state=PD -o '%.18i %.2t %.25R %.20b'` output.
func parsePendingGPUs(out string) map[string]int {
	pending := map[string]int{}
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) < 4 {
			continue
		}
		reason := parts[2]
		if reason != "(Resources)" && reason != "(Priority)" {
			continue
		}
		for model, count := range ParseGresGPUs(parts[3]) {
			pending[model] += count
		}
	}
	return pending
}

func isExcludedState(state string) bool {
	for _, s := range strings.Split(strings.ToUpper(state), "+") {
		if excludedNodeStates[strings.TrimSuffix(s, "*")] {
			return true
		}
	}
	return false
}
