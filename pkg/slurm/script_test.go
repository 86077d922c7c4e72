package slurm

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/slipway/pkg/structs"
)

func testSpec() *structs.JobSpec {
	return &structs.JobSpec{
		Name:      "train-resnet",
		Host:      "cluster-a",
		Partition: "gpu",
		Resources: structs.Resources{
			GPUType:     "A6000",
			GPUsPerNode: 2,
			NumNodes:    1,
			CPUsPerTask: 8,
			MemoryGB:    64,
			TimeLimit:   "24:00:00",
		},
		Overrides: map[string]string{"model": "resnet50", "optimizer.lr": "0.001"},
	}
}

func testDefaults() *RenderContext {
	return &RenderContext{
		RepoURL:    "git@github.com:acme/trainer.git",
		CommitSHA:  "abc123def",
		CondaEnv:   "trainer",
		Entrypoint: "train.py",
		Workspace:  "/scratch/slipway/jobs/j1",
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	// the preview-then-submit flow requires preview & submit to produce
	// byte-identical scripts; exercise a pile of randomized specs
	r := NewRenderer()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		spec := testSpec()
		spec.Name = fmt.Sprintf("job-%d", rng.Intn(10000))
		spec.NumNodes = 1 + rng.Intn(4)
		spec.GPUsPerNode = 1 + rng.Intn(8)
		spec.Overrides = map[string]string{}
		for j := 0; j < rng.Intn(10); j++ {
			spec.Overrides[fmt.Sprintf("param.k%d", rng.Intn(20))] = fmt.Sprintf("%d", rng.Intn(100))
		}

		a, err := r.Render(spec, testDefaults())
		require.NoError(t, err)
		b, err := r.Render(spec, testDefaults())
		require.NoError(t, err)

		assert.Equal(t, a, b)
	}
}

func TestRenderDirectives(t *testing.T) {
	r := NewRenderer()

	script, err := r.Render(testSpec(), testDefaults())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "#!/bin/bash\n"))
	assert.Contains(t, script, "#SBATCH --job-name=train-resnet")
	assert.Contains(t, script, "#SBATCH --partition=gpu")
	assert.Contains(t, script, "#SBATCH --nodes=1")
	assert.Contains(t, script, "#SBATCH --gres=gpu:A6000:2")
	assert.Contains(t, script, "#SBATCH --cpus-per-task=8")
	assert.Contains(t, script, "#SBATCH --mem=64G")
	assert.Contains(t, script, "#SBATCH --time=24:00:00")
	assert.Contains(t, script, "git checkout --quiet 'abc123def'")
	assert.Contains(t, script, "source activate 'trainer'")
	assert.Contains(t, script, "python 'train.py' 'model=resnet50' 'optimizer.lr=0.001'")
}

func TestRenderQuotesUserStrings(t *testing.T) {
	r := NewRenderer()

	spec := testSpec()
	spec.Name = "evil'; rm -rf /; echo '"
	spec.Description = "first line\n#SBATCH --partition=stolen"
	spec.Overrides = map[string]string{"cmd": "$(reboot)", "$(touch /tmp/pwn)": "on"}

	script, err := r.Render(spec, testDefaults())
	require.NoError(t, err)

	// the name is flattened into directive-safe characters
	assert.Contains(t, script, "#SBATCH --job-name=evil-rm--rf-echo-")
	// the description cannot smuggle in new directives
	assert.NotContains(t, script, "\n#SBATCH --partition=stolen")
	// override keys and values are quoted so the shell never expands them
	assert.Contains(t, script, "'cmd=$(reboot)'")
	assert.Contains(t, script, "'$(touch /tmp/pwn)=on'")
}

func TestRenderUnknownOverridesPassThrough(t *testing.T) {
	r := NewRenderer()

	spec := testSpec()
	spec.Overrides = map[string]string{"+experimental.flag": "on"}

	script, err := r.Render(spec, testDefaults())
	require.NoError(t, err)

	// option names are the scheduler's problem, not ours
	assert.Contains(t, script, "'+experimental.flag=on'")
}

func TestRenderMultiNodeUsesSrun(t *testing.T) {
	r := NewRenderer()

	spec := testSpec()
	spec.NumNodes = 4

	script, err := r.Render(spec, testDefaults())
	require.NoError(t, err)

	assert.Contains(t, script, "srun python")
}

func TestRenderExtraDirectivesVerbatim(t *testing.T) {
	r := NewRenderer()

	spec := testSpec()
	spec.ExtraDirectives = "#SBATCH --qos=high\n#SBATCH --exclusive"

	script, err := r.Render(spec, testDefaults())
	require.NoError(t, err)

	assert.Contains(t, script, "#SBATCH --qos=high\n#SBATCH --exclusive")
}

func TestRenderDefaultsMergedUnderSpec(t *testing.T) {
	r := NewRenderer()

	spec := testSpec()
	spec.Overrides = map[string]string{"model": "vit"}
	defaults := testDefaults()
	defaults.DefaultOverrides = map[string]string{"model": "resnet50", "seed": "7"}

	script, err := r.Render(spec, defaults)
	require.NoError(t, err)

	assert.Contains(t, script, "'model=vit'")
	assert.Contains(t, script, "'seed=7'")
	assert.NotContains(t, script, "'model=resnet50'")
}
