package slurm

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/voidshard/slipway/internal/utils"
	"github.com/voidshard/slipway/pkg/structs"
)

// defaultTemplate is the batch script skeleton. Everything user-controlled is
// quoted or sanitized before it reaches the template, so rendering is pure
// string substitution.
const defaultTemplate = `#!/bin/bash
{{- range .Directives}}
#SBATCH {{.}}
{{- end}}
{{- if .ExtraDirectives}}
{{.ExtraDirectives}}
{{- end}}

set -euo pipefail
{{- if .Description}}

# {{.Description}}
{{- end}}

cd {{.Workspace}}
{{- if .RepoURL}}

if [ ! -d repo ]; then
    git clone {{.RepoURL}} repo
fi
cd repo
git fetch --quiet
git checkout --quiet {{.CommitSHA}}
{{- end}}
{{- if .CondaEnv}}

source activate {{.CondaEnv}}
{{- end}}

{{.Command}}
`

// names & descriptions are embedded in #SBATCH directives / comments, which
// the shell never quotes for us; strip anything that could break out
var (
	safeNamePattern = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	safeTimePattern = regexp.MustCompile(`[^0-9:-]+`)
)

// RenderContext carries the resolved defaults merged into a render: source
// revision from the project's repo & settings from its config file. The spec
// wins wherever both say something.
type RenderContext struct {
	RepoURL    string `json:"repo_url,omitempty"`
	CommitSHA  string `json:"commit_sha,omitempty"`
	CondaEnv   string `json:"conda_env,omitempty"`
	Entrypoint string `json:"entrypoint,omitempty"`

	// Workspace is the job's working directory on the remote host.
	Workspace string `json:"workspace,omitempty"`

	// OutputFile is where the scheduler writes the job's combined output.
	OutputFile string `json:"output_file,omitempty"`

	// DefaultOverrides are the project's default parameters; the spec's
	// Overrides are merged on top.
	DefaultOverrides map[string]string `json:"default_overrides,omitempty"`
}

// Renderer renders JobSpecs into batch scripts.
//
// Rendering is pure & deterministic: the same spec and defaults always yield
// byte-identical output. The preview-then-submit flow depends on this.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer returns a Renderer using the built-in template.
func NewRenderer() *Renderer {
	r, err := NewRendererFromTemplate(defaultTemplate)
	if err != nil {
		panic(err) // the built-in template must parse
	}
	return r
}

// NewRendererFromTemplate returns a Renderer using a custom template text.
func NewRendererFromTemplate(text string) (*Renderer, error) {
	tmpl, err := template.New("sbatch").Parse(text)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

type templateContext struct {
	Directives      []string
	ExtraDirectives string
	Description     string
	Workspace       string
	RepoURL         string
	CommitSHA       string
	CondaEnv        string
	Command         string
}

// Render produces the batch script for a spec. Inputs are assumed validated;
// unknown override keys are passed through verbatim (the remote scheduler is
// the authority on option names, not us).
func (r *Renderer) Render(spec *structs.JobSpec, defaults *RenderContext) (string, error) {
	if defaults == nil {
		defaults = &RenderContext{}
	}

	ctx := &templateContext{
		Directives:      buildDirectives(spec, defaults),
		ExtraDirectives: strings.TrimSpace(spec.ExtraDirectives),
		Description:     sanitizeComment(spec.Description),
		Workspace:       utils.ShellQuote(defaults.Workspace),
		CommitSHA:       "",
		CondaEnv:        "",
		Command:         buildCommand(spec, defaults),
	}
	if defaults.RepoURL != "" && defaults.CommitSHA != "" {
		ctx.RepoURL = utils.ShellQuote(defaults.RepoURL)
		ctx.CommitSHA = utils.ShellQuote(defaults.CommitSHA)
	}
	if defaults.CondaEnv != "" {
		ctx.CondaEnv = utils.ShellQuote(defaults.CondaEnv)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildDirectives(spec *structs.JobSpec, defaults *RenderContext) []string {
	out := []string{
		"--job-name=" + SanitizeName(spec.Name),
	}
	if spec.Partition != "" {
		out = append(out, "--partition="+SanitizeName(spec.Partition))
	}
	if spec.NumNodes > 0 {
		out = append(out, fmt.Sprintf("--nodes=%d", spec.NumNodes))
	}
	if spec.GPUsPerNode > 0 {
		gres := fmt.Sprintf("gpu:%d", spec.GPUsPerNode)
		if spec.GPUType != "" {
			gres = fmt.Sprintf("gpu:%s:%d", SanitizeName(spec.GPUType), spec.GPUsPerNode)
		}
		out = append(out, "--gres="+gres)
	}
	if spec.CPUsPerTask > 0 {
		out = append(out, fmt.Sprintf("--cpus-per-task=%d", spec.CPUsPerTask))
	}
	if spec.MemoryGB > 0 {
		out = append(out, fmt.Sprintf("--mem=%dG", spec.MemoryGB))
	}
	if spec.TimeLimit != "" {
		// colons are legal here; D-HH:MM:SS and HH:MM:SS mean different things
		out = append(out, "--time="+safeTimePattern.ReplaceAllString(spec.TimeLimit, ""))
	}
	output := defaults.OutputFile
	if output == "" {
		output = "slurm-%j.out"
	}
	out = append(out, "--output="+output)
	return out
}

// buildCommand builds the training command: entrypoint plus merged overrides
// in sorted key order (sorting keeps rendering deterministic), srun-wrapped
// for multi-node jobs.
func buildCommand(spec *structs.JobSpec, defaults *RenderContext) string {
	entry := defaults.Entrypoint
	if entry == "" {
		entry = "train.py"
	}

	merged := map[string]string{}
	for k, v := range defaults.DefaultOverrides {
		merged[k] = v
	}
	for k, v := range spec.Overrides {
		merged[k] = v
	}
	keys := []string{}
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{"python", utils.ShellQuote(entry)}
	for _, k := range keys {
		// keys are user input too, quote the whole token
		parts = append(parts, utils.ShellQuote(k+"="+merged[k]))
	}

	cmd := strings.Join(parts, " ")
	if spec.NumNodes > 1 {
		cmd = "srun " + cmd
	}
	return cmd
}

// SanitizeName strips anything that couldn't appear safely in a #SBATCH
// directive value.
func SanitizeName(s string) string {
	return safeNamePattern.ReplaceAllString(s, "-")
}

func sanitizeComment(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
