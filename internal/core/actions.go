package core

import (
	"context"
	"fmt"
	"log"

	"github.com/voidshard/slipway/pkg/database"
	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/slurm"
	"github.com/voidshard/slipway/pkg/structs"
)

// Cancel asks the remote scheduler to cancel a job. The local status change
// arrives via reconciliation once the scheduler reports it; we don't guess.
func (c *Service) Cancel(ctx context.Context, id string) (*structs.Job, error) {
	j, err := c.jobByID(id)
	if err != nil {
		return nil, err
	}
	if structs.IsTerminalStatus(j.Status) {
		return nil, fmt.Errorf("%w job %s is already %s", errors.ErrInvalidState, id, j.Status)
	}
	if j.RemoteJobID == "" {
		return nil, fmt.Errorf("%w job %s was never dispatched", errors.ErrInvalidState, id)
	}

	host, err := c.host(j.Host)
	if err != nil {
		return nil, err
	}

	tctx, cancel := context.WithTimeout(ctx, c.opts.SubmitTimeout)
	defer cancel()
	res, err := c.ch.Execute(tctx, host, slurm.CancelCommand(j.RemoteJobID))
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &errors.RemoteCommandError{
			Host:     host.Name,
			Command:  "scancel",
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return j, nil
}

// Logs tails the job's output file on its host.
func (c *Service) Logs(ctx context.Context, id string) (string, error) {
	j, err := c.jobByID(id)
	if err != nil {
		return "", err
	}
	if j.RemoteJobID == "" {
		return "", fmt.Errorf("%w job %s has no output yet", errors.ErrInvalidState, id)
	}

	host, err := c.host(j.Host)
	if err != nil {
		return "", err
	}

	tctx, cancel := context.WithTimeout(ctx, c.opts.LogFetchTimeout)
	defer cancel()
	res, err := c.ch.Execute(tctx, host, slurm.TailCommand(logPath(host, j), c.opts.LogTailLines))
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &errors.RemoteCommandError{
			Host:     host.Name,
			Command:  "tail",
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return res.Stdout, nil
}

// Archive soft-deletes jobs from default listings. Jobs are never actually
// deleted.
func (c *Service) Archive(ids []string) (int64, error) {
	return c.setArchived(true, ids)
}

// Unarchive returns jobs to default listings.
func (c *Service) Unarchive(ids []string) (int64, error) {
	return c.setArchived(false, ids)
}

func (c *Service) setArchived(archived bool, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w no job ids given", errors.ErrInvalidArg)
	}

	jobs, err := c.db.Jobs(&structs.Query{Limit: len(ids), JobIDs: ids, IncludeArchived: true})
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		return 0, fmt.Errorf("%w no jobs matching given ids", errors.ErrNotFound)
	}

	refs := []*structs.JobRef{}
	for _, j := range jobs {
		if j.Archived == archived {
			continue
		}
		refs = append(refs, structs.NewJobRef(j.ID, j.ETag))
	}
	if len(refs) == 0 {
		return 0, nil
	}
	return c.db.SetJobsArchived(archived, newTag(), refs)
}

// HandleScan is the queue worker's handler: fetch the job's recent output
// and pull out the metrics-dashboard url if it's there. Stored once; a job
// that already has a url is never re-fetched.
func (c *Service) HandleScan(ctx context.Context, req *queue.ScanRequest) error {
	j, err := c.jobByID(req.JobID)
	if err != nil {
		return err
	}
	if j.MetricsURL != "" {
		return nil
	}

	host, err := c.host(j.Host)
	if err != nil {
		return err
	}

	tctx, cancel := context.WithTimeout(ctx, c.opts.LogFetchTimeout)
	defer cancel()
	res, err := c.ch.Execute(tctx, host, slurm.TailCommand(logPath(host, j), c.opts.LogTailLines))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		// log file may not exist yet; retry later
		return &errors.RemoteCommandError{
			Host:     host.Name,
			Command:  "tail",
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}

	url := slurm.ExtractMetricsURL(res.Stdout)
	if url == "" {
		if structs.IsTerminalStatus(j.Status) {
			// the job is done and never printed one; stop looking
			return nil
		}
		return fmt.Errorf("no metrics url in logs for job %s yet", j.ID)
	}

	count, err := c.db.UpdateJob(j.ID, j.ETag, newTag(), &database.JobUpdate{MetricsURL: &url})
	if err != nil {
		return err
	}
	if count == 0 {
		log.Println("[Scan]", "job", j.ID, "changed while scanning, dropping url", url)
	}
	return nil
}
