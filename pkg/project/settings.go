package project

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const settingsFile = ".slipway.yaml"

// Settings are per-project defaults merged into the render context when
// the job spec doesn't say otherwise.
type Settings struct {
	// CondaEnv is the environment activated before the entrypoint runs.
	CondaEnv string `yaml:"conda_env" json:"conda_env"`

	// Entrypoint is the script run by the job (default train.py).
	Entrypoint string `yaml:"entrypoint" json:"entrypoint"`

	// DefaultOverrides are applied under any job-level overrides.
	DefaultOverrides map[string]string `yaml:"default_overrides" json:"default_overrides"`
}

// ReadSettings loads the project's settings file. A missing or broken
// file yields defaults; settings are advisory so we warn and carry on.
func ReadSettings(path string) *Settings {
	s := &Settings{
		Entrypoint:       "train.py",
		DefaultOverrides: map[string]string{},
	}

	data, err := os.ReadFile(filepath.Join(path, settingsFile))
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		log.Println("[Project]", "could not parse", settingsFile, "in", path, err)
		return &Settings{Entrypoint: "train.py", DefaultOverrides: map[string]string{}}
	}
	if s.Entrypoint == "" {
		s.Entrypoint = "train.py"
	}
	if s.DefaultOverrides == nil {
		s.DefaultOverrides = map[string]string{}
	}
	return s
}
