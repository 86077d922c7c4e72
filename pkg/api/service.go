package api

import (
	"github.com/voidshard/slipway/internal/core"
	"github.com/voidshard/slipway/pkg/config"
	"github.com/voidshard/slipway/pkg/database"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/remote"
)

// New builds an API from connection options, wiring up the database, the
// scan queue and an SSH channel to the configured hosts.
func New(dbOpts *database.Options, quOpts *queue.Options, hostsPath string, opts *Options) (API, error) {
	hosts, err := config.LoadHosts(hostsPath)
	if err != nil {
		return nil, err
	}

	db, err := database.NewPostgres(dbOpts)
	if err != nil {
		return nil, err
	}

	qu, err := queue.NewAsynqQueue(quOpts)
	if err != nil {
		db.Close()
		return nil, err
	}

	return NewAPI(db, remote.NewSSHChannel(nil), qu, hosts, opts)
}

// NewAPI builds an API from already-constructed components. Useful when
// embedding slipway or substituting implementations.
func NewAPI(db database.Database, ch remote.Channel, qu queue.Queue, hosts *config.Hosts, opts *Options) (API, error) {
	if opts == nil {
		opts = OptionsServerDefault()
	}
	return core.NewService(db, ch, qu, hosts, &core.Options{
		ReconcileInterval: opts.ReconcileInterval,
		SubmitTimeout:     opts.SubmitTimeout,
		LogFetchTimeout:   opts.LogFetchTimeout,
		LogTailLines:      opts.LogTailLines,
		Lineage:           opts.Lineage,
	})
}
