/*Package lineage derives a parent -> child graph over a set of jobs.

Explicit branch links are honoured as-is; for everything else we guess a
parent among strictly-earlier jobs using a similarity + recency score.
The output is for display only and never feeds back into job execution.
*/
package lineage

import (
	"fmt"
	"sort"
	"time"

	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/structs"
)

// Config holds the scoring knobs. Defaults are what we've found works;
// they're not validated so don't set weights that sum to something silly
// unless you mean it.
type Config struct {
	// relative weights within the similarity score
	ResourceWeight float64
	OverrideWeight float64
	VariantWeight  float64

	// how similarity & recency combine
	SimilarityWeight float64
	RecencyWeight    float64

	// minimum combined score before we'll claim a parent
	Threshold float64

	// candidates older than this score 0 on recency
	RecencyWindow time.Duration
}

func (c *Config) SetDefaults() {
	if c.ResourceWeight == 0 && c.OverrideWeight == 0 && c.VariantWeight == 0 {
		c.ResourceWeight = 0.3
		c.OverrideWeight = 0.5
		c.VariantWeight = 0.2
	}
	if c.SimilarityWeight == 0 && c.RecencyWeight == 0 {
		c.SimilarityWeight = 0.7
		c.RecencyWeight = 0.3
	}
	if c.Threshold == 0 {
		c.Threshold = 0.5
	}
	if c.RecencyWindow == 0 {
		c.RecencyWindow = 7 * 24 * time.Hour
	}
}

// Delta is one field that differs between a linked parent & child.
type Delta struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Edge links a parent job to a child, with the score that linked them
// (1 for explicit links) and the field-level diff for display.
type Edge struct {
	ParentID string   `json:"parent_id"`
	ChildID  string   `json:"child_id"`
	Inferred bool     `json:"inferred"`
	Score    float64  `json:"score"`
	Diff     []*Delta `json:"diff"`
}

// Graph is the final annotated structure; Nodes are the given jobs
// (unmodified), Edges the parent links we found.
type Graph struct {
	Nodes []*structs.Job `json:"nodes"`
	Edges []*Edge        `json:"edges"`
}

// Infer builds the lineage graph for the given jobs. Jobs are never
// mutated. Explicit branch links that form a cycle are rejected.
func Infer(cfg *Config, jobs []*structs.Job) (*Graph, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.SetDefaults()

	byID := map[string]*structs.Job{}
	for _, j := range jobs {
		byID[j.ID] = j
	}

	graph := &Graph{Nodes: jobs, Edges: []*Edge{}}
	explicit := map[string]string{} // child -> parent

	for _, j := range jobs {
		if j.BranchedFrom == "" {
			continue
		}
		parent, ok := byID[j.BranchedFrom]
		if !ok {
			// branched from a job outside this set; nothing to draw
			continue
		}
		explicit[j.ID] = parent.ID
		graph.Edges = append(graph.Edges, &Edge{
			ParentID: parent.ID,
			ChildID:  j.ID,
			Score:    1,
			Diff:     diff(parent, j),
		})
	}

	if err := checkCycles(explicit); err != nil {
		return nil, err
	}

	for _, j := range jobs {
		if j.BranchedFrom != "" {
			continue
		}
		parent, score := bestCandidate(cfg, j, jobs)
		if parent == nil {
			continue
		}
		graph.Edges = append(graph.Edges, &Edge{
			ParentID: parent.ID,
			ChildID:  j.ID,
			Inferred: true,
			Score:    score,
			Diff:     diff(parent, j),
		})
	}

	sort.Slice(graph.Edges, func(i, k int) bool {
		if graph.Edges[i].ChildID != graph.Edges[k].ChildID {
			return graph.Edges[i].ChildID < graph.Edges[k].ChildID
		}
		return graph.Edges[i].ParentID < graph.Edges[k].ParentID
	})
	return graph, nil
}

// bestCandidate returns the highest scoring strictly-earlier job whose
// combined score clears the threshold, or nil if the job is a root.
func bestCandidate(cfg *Config, j *structs.Job, jobs []*structs.Job) (*structs.Job, float64) {
	var best *structs.Job
	bestScore := 0.0

	for _, cand := range jobs {
		if cand.ID == j.ID || cand.CreatedAt >= j.CreatedAt {
			continue
		}
		score := cfg.SimilarityWeight*similarity(cfg, cand, j) + cfg.RecencyWeight*recency(cfg, cand, j)
		if score > bestScore || (score == bestScore && best != nil && cand.CreatedAt > best.CreatedAt) {
			best = cand
			bestScore = score
		}
	}

	if best == nil || bestScore <= cfg.Threshold {
		return nil, 0
	}
	return best, bestScore
}

func similarity(cfg *Config, a, b *structs.Job) float64 {
	total := cfg.ResourceWeight + cfg.OverrideWeight + cfg.VariantWeight
	if total == 0 {
		return 0
	}

	score := cfg.ResourceWeight * resourceMatch(a, b)
	score += cfg.OverrideWeight * overrideMatch(a.Overrides, b.Overrides)
	if a.Variant == b.Variant {
		score += cfg.VariantWeight
	}
	return score / total
}

func resourceMatch(a, b *structs.Job) float64 {
	matched := 0.0
	fields := 0.0
	for _, pair := range resourceFields(a, b) {
		fields++
		if pair[0] == pair[1] {
			matched++
		}
	}
	return matched / fields
}

// overrideMatch compares maps key-by-key over the union of keys.
// A key missing from both sides counts as a match, so two empty maps
// are identical.
func overrideMatch(a, b map[string]string) float64 {
	keys := unionKeys(a, b)
	if len(keys) == 0 {
		return 1
	}
	matched := 0.0
	for _, k := range keys {
		if a[k] == b[k] {
			matched++
		}
	}
	return matched / float64(len(keys))
}

func recency(cfg *Config, parent, child *structs.Job) float64 {
	age := time.Duration(child.CreatedAt-parent.CreatedAt) * time.Second
	if age >= cfg.RecencyWindow {
		return 0
	}
	return 1 - float64(age)/float64(cfg.RecencyWindow)
}

// diff lists every resource field then every override key whose value
// differs between parent & child, in a stable order.
func diff(parent, child *structs.Job) []*Delta {
	out := []*Delta{}

	names := []string{"gpu_type", "gpus_per_node", "num_nodes", "cpus_per_task", "memory_gb", "time_limit"}
	for i, pair := range resourceFields(parent, child) {
		if pair[0] != pair[1] {
			out = append(out, &Delta{Field: names[i], From: pair[0], To: pair[1]})
		}
	}

	for _, k := range unionKeys(parent.Overrides, child.Overrides) {
		if parent.Overrides[k] != child.Overrides[k] {
			out = append(out, &Delta{Field: k, From: parent.Overrides[k], To: child.Overrides[k]})
		}
	}
	return out
}

func resourceFields(a, b *structs.Job) [][2]string {
	return [][2]string{
		{a.GPUType, b.GPUType},
		{fmt.Sprintf("%d", a.GPUsPerNode), fmt.Sprintf("%d", b.GPUsPerNode)},
		{fmt.Sprintf("%d", a.NumNodes), fmt.Sprintf("%d", b.NumNodes)},
		{fmt.Sprintf("%d", a.CPUsPerTask), fmt.Sprintf("%d", b.CPUsPerTask)},
		{fmt.Sprintf("%d", a.MemoryGB), fmt.Sprintf("%d", b.MemoryGB)},
		{a.TimeLimit, b.TimeLimit},
	}
}

func unionKeys(a, b map[string]string) []string {
	seen := map[string]bool{}
	for k := range a {
		seen[k] = true
	}
	for k := range b {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkCycles walks explicit child -> parent links looking for a loop.
func checkCycles(parents map[string]string) error {
	for start := range parents {
		seen := map[string]bool{start: true}
		cur := start
		for {
			next, ok := parents[cur]
			if !ok {
				break
			}
			if seen[next] {
				return fmt.Errorf("%w branch links form a cycle at %s", errors.ErrValidation, next)
			}
			seen[next] = true
			cur = next
		}
	}
	return nil
}
