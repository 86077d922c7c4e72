package main

import (
	"github.com/voidshard/slipway/internal/utils"
	"github.com/voidshard/slipway/pkg/api"
	"github.com/voidshard/slipway/pkg/config"
	"github.com/voidshard/slipway/pkg/database"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/remote"
)

const (
	docWorker = `Run a slipway log-scan worker`
)

type optsWorker struct {
	optsGeneral
	optsDatabase
	optsQueue
	optsHosts
}

func (c *optsWorker) Execute(args []string) error {
	// Consumes queued log-scan tasks: tailing remote job output looking for
	// a metrics URL. Runs no reconciler (OptionsClientDefault) and serves
	// no HTTP; scale these out independently of the API server.
	tlsCfg, err := utils.TLSConfig(c.QueueTLSCaCert, c.QueueTLSCert, c.QueueTLSKey)
	if err != nil {
		panic(err)
	}

	hosts, err := config.LoadHosts(c.HostsFile)
	if err != nil {
		panic(err)
	}

	db, err := database.NewPostgres(&database.Options{URL: c.DatabaseURL})
	if err != nil {
		panic(err)
	}

	qu, err := queue.NewAsynqQueue(&queue.Options{URL: c.QueueURL, TLSConfig: tlsCfg})
	if err != nil {
		panic(err)
	}

	svc, err := api.NewAPI(db, remote.NewSSHChannel(nil), qu, hosts, api.OptionsClientDefault())
	if err != nil {
		panic(err)
	}
	defer svc.Close()

	if err := qu.RegisterScan(svc.HandleScan); err != nil {
		panic(err)
	}
	return qu.Run()
}
