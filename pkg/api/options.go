package api

import (
	"time"

	"github.com/voidshard/slipway/pkg/lineage"
)

// Options passed to the slipway API on creation.
type Options struct {
	// ReconcileInterval is how often the background reconciler polls remote
	// schedulers. Zero disables the loop.
	ReconcileInterval time.Duration

	// SubmitTimeout bounds each remote call in the submission pipeline.
	SubmitTimeout time.Duration

	// LogFetchTimeout bounds log tail fetches.
	LogFetchTimeout time.Duration

	// LogTailLines is how many lines of job output to fetch at a time.
	LogTailLines int

	// Lineage overrides the lineage scoring config (optional).
	Lineage *lineage.Config
}

// OptionsClientDefault configures an API that serves requests but runs no
// background reconciliation; something else is expected to be polling.
func OptionsClientDefault() *Options {
	return &Options{}
}

// OptionsServerDefault configures an API with the background reconciler on.
func OptionsServerDefault() *Options {
	return &Options{
		ReconcileInterval: 30 * time.Second,
	}
}
