package main

import (
	"log"

	"github.com/voidshard/slipway/internal/utils"
	"github.com/voidshard/slipway/pkg/api"
	"github.com/voidshard/slipway/pkg/api/http/server"
	"github.com/voidshard/slipway/pkg/config"
	"github.com/voidshard/slipway/pkg/database"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/remote"
)

const (
	docApi = `Run the API server`
)

type optsAPI struct {
	optsGeneral
	optsDatabase
	optsQueue
	optsHosts

	Addr string `long:"addr" env:"ADDR" default:"localhost:8100" description:"Address to bind to"`

	NoWorker bool `long:"no-worker" env:"NO_WORKER" description:"Don't consume scan tasks in this process"`
}

func (c *optsAPI) Execute(args []string) error {
	// Serves the slipway API over HTTP and runs the background reconciler.
	// By default this process also consumes the scan tasks it enqueues;
	// pass --no-worker to leave those to dedicated worker processes.
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

	svc, err := api.NewAPI(db, remote.NewSSHChannel(nil), qu, hosts, api.OptionsServerDefault())
	if err != nil {
		panic(err)
	}

	if !c.NoWorker {
		if err := qu.RegisterScan(svc.HandleScan); err != nil {
			panic(err)
		}
		go func() {
			if err := qu.Run(); err != nil {
				log.Println("[Queue]", err)
			}
		}()
	}

	s := server.NewServer(c.Addr, c.Debug)
	return s.ServeForever(svc)
}
