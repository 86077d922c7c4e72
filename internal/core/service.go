package core

import (
	"context"
	"fmt"
	"log"
	"path"
	"sync/atomic"
	"time"

	"github.com/voidshard/slipway/internal/utils"
	"github.com/voidshard/slipway/pkg/cluster"
	"github.com/voidshard/slipway/pkg/config"
	"github.com/voidshard/slipway/pkg/database"
	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/lineage"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/remote"
	"github.com/voidshard/slipway/pkg/slurm"
	"github.com/voidshard/slipway/pkg/structs"
)

const (
	// max values
	maxNameLength = 500
	maxDescLength = 2000

	// defaults
	defReconcileInterval = 30 * time.Second
	defSubmitTimeout     = 60 * time.Second
	defLogFetchTimeout   = 120 * time.Second
	defLogTailLines      = 200
)

var timeNow = func() int64 { return time.Now().Unix() }

type Options struct {
	// ReconcileInterval is how often the reconciler polls remote schedulers.
	// Zero disables the background loop (callers can still RefreshStatus).
	ReconcileInterval time.Duration

	// SubmitTimeout bounds each remote call in the submission pipeline.
	SubmitTimeout time.Duration

	// LogFetchTimeout bounds log tail fetches; log files can be large and
	// remote hosts slow, so this is deliberately generous.
	LogFetchTimeout time.Duration

	// LogTailLines is how many lines of job output we fetch at a time.
	LogTailLines int

	// Lineage overrides the lineage scoring config (optional).
	Lineage *lineage.Config
}

func (o *Options) SetDefaults() {
	if o.SubmitTimeout <= 0 {
		o.SubmitTimeout = defSubmitTimeout
	}
	if o.LogFetchTimeout <= 0 {
		o.LogFetchTimeout = defLogFetchTimeout
	}
	if o.LogTailLines <= 0 {
		o.LogTailLines = defLogTailLines
	}
}

// Service is the job lifecycle coordinator: it owns submission, status
// reconciliation, cancellation and the read paths the API exposes.
type Service struct {
	db       database.Database
	ch       remote.Channel
	insp     *cluster.Inspector
	qu       queue.Queue
	renderer *slurm.Renderer
	hosts    *config.Hosts
	opts     *Options

	// reconcile cycles never overlap
	reconciling atomic.Bool
	stop        chan struct{}
}

// NewService wires the coordinator together & starts the reconcile loop
// (when the interval is non-zero).
func NewService(db database.Database, ch remote.Channel, qu queue.Queue, hosts *config.Hosts, opts *Options) (*Service, error) {
	if opts == nil {
		opts = &Options{ReconcileInterval: defReconcileInterval}
	}
	opts.SetDefaults()

	me := &Service{
		db:       db,
		ch:       ch,
		insp:     cluster.NewInspector(ch, nil),
		qu:       qu,
		renderer: slurm.NewRenderer(),
		hosts:    hosts,
		opts:     opts,
		stop:     make(chan struct{}),
	}

	if opts.ReconcileInterval > 0 {
		go func() {
			tick := time.NewTicker(opts.ReconcileInterval)
			defer tick.Stop()
			for {
				select {
				case <-me.stop:
					return
				case <-tick.C:
					err := me.ReconcileOnce(context.Background())
					if err != nil {
						log.Println("[Reconciler]", err)
					}
				}
			}
		}()
	}

	return me, nil
}

func (c *Service) Close() error {
	close(c.stop)
	if c.qu != nil {
		c.qu.Close()
	}
	c.ch.Close()
	c.db.Close()
	return nil
}

func (c *Service) Jobs(q *structs.Query) ([]*structs.Job, error) {
	q.Sanitize()
	return c.db.Jobs(q)
}

// InferLineage builds the lineage graph over jobs matching the query.
// Read-only; jobs are never mutated.
func (c *Service) InferLineage(q *structs.Query) (*lineage.Graph, error) {
	q.Sanitize()
	jobs, err := c.db.Jobs(q)
	if err != nil {
		return nil, err
	}
	return lineage.Infer(c.opts.Lineage, jobs)
}

func (c *Service) Availability(ctx context.Context, host string) (*structs.ResourceSnapshot, error) {
	h, err := c.host(host)
	if err != nil {
		return nil, err
	}
	return c.insp.GetAvailability(ctx, h)
}

func (c *Service) Partitions(ctx context.Context, host string) ([]string, error) {
	h, err := c.host(host)
	if err != nil {
		return nil, err
	}
	return c.insp.GetPartitions(ctx, h)
}

func (c *Service) TestConnection(ctx context.Context, host string) (*structs.ConnectionResult, error) {
	h, err := c.host(host)
	if err != nil {
		return nil, err
	}
	return c.ch.TestReachability(ctx, h)
}

func (c *Service) host(name string) (*structs.RemoteHost, error) {
	h := c.hosts.Get(name)
	if h == nil {
		return nil, fmt.Errorf("%w host %s", errors.ErrNotFound, name)
	}
	return h, nil
}

// jobByID fetches one job, archived or not.
func (c *Service) jobByID(id string) (*structs.Job, error) {
	jobs, err := c.db.Jobs(&structs.Query{Limit: 1, JobIDs: []string{id}, IncludeArchived: true})
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w job %s", errors.ErrNotFound, id)
	}
	return jobs[0], nil
}

// jobWorkspace is the job's directory on its host. Derived from the spec
// name (not the job id) so a previewed script and the submitted script are
// byte-identical.
func jobWorkspace(host *structs.RemoteHost, spec *structs.JobSpec) string {
	return path.Join(host.Workspace, slurm.SanitizeName(spec.Name))
}

func scriptPath(host *structs.RemoteHost, spec *structs.JobSpec) string {
	return path.Join(jobWorkspace(host, spec), "job.sbatch")
}

// logPath is where the scheduler writes the job's combined output.
func logPath(host *structs.RemoteHost, j *structs.Job) string {
	return path.Join(jobWorkspace(host, &j.JobSpec), fmt.Sprintf("slurm-%s.out", j.RemoteJobID))
}

func newTag() string {
	return utils.NewRandomID()
}
