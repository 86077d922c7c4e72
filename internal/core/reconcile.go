package core

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/voidshard/slipway/pkg/database"
	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/slurm"
	"github.com/voidshard/slipway/pkg/structs"
)

// hostResult is one host's answer for a reconcile cycle: remote id -> raw
// scheduler token. Ok=false means the query failed and this host's jobs
// keep their previous status.
type hostResult struct {
	statuses map[string]string
	ok       bool
}

// ReconcileOnce runs a single reconcile cycle: fetch non-terminal jobs that
// have a scheduler id, query each distinct host once (concurrently), and
// apply detected transitions. Cycles never overlap; a call while another
// cycle is running returns immediately.
func (c *Service) ReconcileOnce(ctx context.Context) error {
	if !c.reconciling.CompareAndSwap(false, true) {
		return nil
	}
	defer c.reconciling.Store(false)

	jobs, err := c.db.Jobs(&structs.Query{
		Limit:        structs.MaxLimit,
		Statuses:     structs.NonTerminalStatuses(),
		WithRemoteID: true,
	})
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		// nothing in flight, no remote calls at all
		return nil
	}

	byHost := map[string][]*structs.Job{}
	for _, j := range jobs {
		byHost[j.Host] = append(byHost[j.Host], j)
	}

	// one query per host, issued concurrently; a failed host is isolated
	results := map[string]*hostResult{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, group := range byHost {
		wg.Add(1)
		go func(name string, group []*structs.Job) {
			defer wg.Done()
			res := c.queryHost(ctx, name, group)
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}(name, group)
	}
	wg.Wait()

	for name, group := range byHost {
		res := results[name]
		if res == nil || !res.ok {
			continue
		}
		for _, j := range group {
			c.applyObserved(j, res.statuses)
		}
	}
	return nil
}

// queryHost asks one host's scheduler about all of its tracked jobs in a
// single remote call.
func (c *Service) queryHost(ctx context.Context, name string, group []*structs.Job) *hostResult {
	host := c.hosts.Get(name)
	if host == nil {
		log.Println("[Reconciler]", "jobs reference unconfigured host", name)
		return &hostResult{}
	}

	ids := make([]string, len(group))
	for i, j := range group {
		ids[i] = j.RemoteJobID
	}

	tctx, cancel := context.WithTimeout(ctx, c.opts.SubmitTimeout)
	defer cancel()
	res, err := c.ch.Execute(tctx, host, slurm.StatusCommand(ids))
	if err != nil {
		log.Println("[Reconciler]", "status query failed for", name, err)
		return &hostResult{}
	}
	if res.ExitCode != 0 {
		log.Println("[Reconciler]", "status query exited", res.ExitCode, "on", name, res.Stderr)
		return &hostResult{}
	}

	return &hostResult{statuses: slurm.ParseStatusOutput(res.Stdout), ok: true}
}

// applyObserved moves one job to the status its scheduler reported. A job
// missing from a successful response is treated as completed-or-purged.
func (c *Service) applyObserved(j *structs.Job, observed map[string]string) {
	token, present := observed[j.RemoteJobID]

	target := structs.COMPLETED
	if present {
		target = slurm.ToLocalStatus(token)
	}
	if target == j.Status {
		return
	}
	if !structs.CanTransition(j.Status, target) {
		log.Println("[Reconciler]", "ignoring", j.Status, "->", target, "for job", j.ID)
		return
	}
	if target == structs.UNKNOWN {
		log.Println("[Reconciler]", "job", j.ID, "reported unmapped scheduler state", token)
	}

	now := timeNow()
	upd := &database.JobUpdate{Status: &target}
	if target == structs.RUNNING && j.StartedAt == 0 {
		upd.StartedAt = &now
	}
	if structs.IsTerminalStatus(target) {
		upd.FinishedAt = &now
		if j.StartedAt == 0 && target == structs.COMPLETED {
			upd.StartedAt = &now
		}
	}

	count, err := c.db.UpdateJob(j.ID, j.ETag, newTag(), upd)
	if err != nil {
		log.Println("[Reconciler]", "failed to update job", j.ID, err)
		return
	}
	if count == 0 {
		// someone else updated the row this cycle; they win
		return
	}
	log.Println("[Reconciler]", "job", j.ID, j.Status, "->", target)

	// entering a state with output expected: scan the logs for the metrics
	// url, once, off the reconcile path
	if c.qu != nil && j.MetricsURL == "" && logsExpected(target) {
		_, err = c.qu.EnqueueScan(&queue.ScanRequest{JobID: j.ID, Host: j.Host, RemoteJobID: j.RemoteJobID})
		if err != nil {
			log.Println("[Reconciler]", "failed to enqueue log scan for job", j.ID, err)
		}
	}
}

// logsExpected is true for states where the job has produced output.
func logsExpected(s structs.Status) bool {
	return s == structs.RUNNING || structs.IsTerminalStatus(s)
}

// RefreshStatus forces one reconciliation check for a single job, outside
// the normal cycle, and returns the job as persisted afterwards.
func (c *Service) RefreshStatus(ctx context.Context, id string) (*structs.Job, error) {
	j, err := c.jobByID(id)
	if err != nil {
		return nil, err
	}
	if structs.IsTerminalStatus(j.Status) || j.RemoteJobID == "" {
		return j, nil
	}

	res := c.queryHost(ctx, j.Host, []*structs.Job{j})
	if !res.ok {
		return nil, fmt.Errorf("%w could not query host %s", errors.ErrTransport, j.Host)
	}
	c.applyObserved(j, res.statuses)

	return c.jobByID(id)
}
