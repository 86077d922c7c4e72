package slurm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNodesOutput = `NodeName=gpu-01 Arch=x86_64
   State=MIXED
   Gres=gpu:a6000:4
   AllocTRES=cpu=16,mem=128G,gres/gpu=2,gres/gpu:a6000=2

NodeName=gpu-02 Arch=x86_64
   State=IDLE
   Gres=gpu:a6000:4
   AllocTRES=

NodeName=gpu-03 Arch=x86_64
   State=IDLE+DRAIN
   Gres=gpu:h100:8
   AllocTRES=

NodeName=cpu-01 Arch=x86_64
   State=IDLE
   Gres=(null)
   AllocTRES=
`

func TestParseGresGPUs(t *testing.T) {
	cases := []struct {
		Name   string
		Given  string
		Expect map[string]int
	}{
		{"TypedWithCount", "gpu:a6000:4", map[string]int{"a6000": 4}},
		{"TypedWithSocketInfo", "gpu:h100:8(S:0-1)", map[string]int{"h100": 8}},
		{"UntypedWithCount", "gpu:4", map[string]int{"gpu": 4}},
		{"TypedNoCount", "gpu:a100", map[string]int{"a100": 1}},
		{"TypedTresForm", "gpu:A6000=2", map[string]int{"a6000": 2}},
		{"Multiple", "gpu:a6000:2,gpu:l40:1", map[string]int{"a6000": 2, "l40": 1}},
		{"Null", "(null)", map[string]int{}},
		{"Empty", "", map[string]int{}},
		{"NonGPU", "shard:8", map[string]int{}},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, ParseGresGPUs(c.Given))
		})
	}
}

func TestParseTresGPUs(t *testing.T) {
	got := ParseTresGPUs("cpu=16,mem=128G,gres/gpu=2,gres/gpu:a6000=2")

	assert.Equal(t, map[string]int{"gpu": 2, "a6000": 2}, got)
}

func TestBuildSnapshot(t *testing.T) {
	snap := BuildSnapshot("cluster-a", testNodesOutput, "")

	require.Len(t, snap.GPUs, 1, "drained h100 node must not appear")
	gpu := snap.GPUs[0]

	assert.Equal(t, "a6000", gpu.GPUType)
	assert.Equal(t, 8, gpu.Total)
	assert.Equal(t, 6, gpu.Available) // gpu-01 has 2 allocated
	assert.Equal(t, 2, gpu.InUse)
	assert.Equal(t, []string{"gpu-01:2", "gpu-02:4"}, gpu.NodesWithFree)
	assert.Equal(t, 6, snap.TotalFreeGPUs)
}

// scontrol can emit each node as a single line; key=value matching must stop
// at whitespace rather than eating the rest of the line.
func TestBuildSnapshotSingleLineBlocks(t *testing.T) {
	out := "NodeName=gpu-01 State=IDLE Gres=gpu:A6000:4 AllocTRES=\n\n" +
		"NodeName=gpu-02 State=MIXED Gres=gpu:A6000:4 AllocTRES=cpu=8,gres/gpu:A6000=2\n"

	snap := BuildSnapshot("cluster-a", out, "")

	require.Len(t, snap.GPUs, 1)
	assert.Equal(t, "a6000", snap.GPUs[0].GPUType)
	assert.Equal(t, 8, snap.GPUs[0].Total)
	assert.Equal(t, 6, snap.TotalFreeGPUs)
}

func TestBuildSnapshotExcludesDrainedNodes(t *testing.T) {
	snap := BuildSnapshot("cluster-a", testNodesOutput, "")

	for _, g := range snap.GPUs {
		assert.NotEqual(t, "h100", g.GPUType)
	}
}

func TestBuildSnapshotCountsPending(t *testing.T) {
	pending := ` 4821 PD (Resources) gpu:a6000:2
 4822 PD (Priority) gpu:a6000:1
 4823 PD (Dependency) gpu:a6000:4
`

	snap := BuildSnapshot("cluster-a", testNodesOutput, pending)

	require.Len(t, snap.GPUs, 1)
	// dependency-held jobs aren't waiting on capacity, so they don't count
	assert.Equal(t, 3, snap.GPUs[0].Pending)
}
