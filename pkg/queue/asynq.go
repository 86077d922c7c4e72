package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"
)

const (
	asyncScanQueue = "slipway:scan"
	asyncScanTask  = "scan_logs"

	// a scan re-reads the whole output file so retries are cheap,
	// but a host that's down won't come back because we hammer it
	asyncScanRetries = 5
)

type Asynq struct {
	opts *Options

	cli *asynq.Client

	// if RegisterScan is called we're intended to start a server
	lock sync.Mutex
	mux  *asynq.ServeMux
	srv  *asynq.Server
}

func NewAsynqQueue(opts *Options) (*Asynq, error) {
	cli := asynq.NewClient(redisOpt(opts))
	return &Asynq{opts: opts, cli: cli}, nil
}

func (a *Asynq) Close() error {
	if a.srv == nil {
		return a.cli.Close()
	}
	a.srv.Stop()
	a.srv.Shutdown()
	return a.cli.Close()
}

func (a *Asynq) RegisterScan(handler func(ctx context.Context, req *ScanRequest) error) error {
	if a.mux == nil {
		a.buildServer()
	}
	a.mux.HandleFunc(asyncScanTask, func(ctx context.Context, t *asynq.Task) error {
		req, err := decodeScan(t.Payload())
		if err != nil {
			// a payload we can't parse will never parse; don't retry
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return handler(ctx, req)
	})
	return nil
}

func (a *Asynq) Run() error {
	if a.srv == nil {
		return fmt.Errorf("no handlers registered")
	}
	return a.srv.Run(a.mux)
}

func (a *Asynq) EnqueueScan(req *ScanRequest) (string, error) {
	data, err := encodeScan(req)
	if err != nil {
		return "", err
	}
	info, err := a.cli.Enqueue(
		asynq.NewTask(asyncScanTask, data),
		asynq.Queue(asyncScanQueue),
		asynq.MaxRetry(asyncScanRetries),
	)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (a *Asynq) buildServer() {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.mux != nil {
		// someone locked and set this first
		return
	}
	srv := asynq.NewServer(
		redisOpt(a.opts),
		asynq.Config{
			Queues: map[string]int{asyncScanQueue: 1},
		},
	)
	mux := asynq.NewServeMux()
	a.srv = srv
	a.mux = mux
}

func redisOpt(opts *Options) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: opts.URL, TLSConfig: opts.TLSConfig}
}

func encodeScan(req *ScanRequest) ([]byte, error) {
	return json.Marshal(req)
}

func decodeScan(data []byte) (*ScanRequest, error) {
	req := &ScanRequest{}
	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}
	if req.JobID == "" || req.Host == "" {
		return nil, fmt.Errorf("scan request missing job id or host")
	}
	return req, nil
}
