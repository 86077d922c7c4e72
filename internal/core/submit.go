package core

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"path"

	"github.com/voidshard/slipway/internal/utils"
	"github.com/voidshard/slipway/pkg/database"
	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/slurm"
	"github.com/voidshard/slipway/pkg/structs"
)

// Preview validates & renders a spec without touching anything: no job row,
// no remote calls. The returned script is byte-identical to what Submit
// would dispatch for the same inputs.
func (c *Service) Preview(spec *structs.JobSpec, rc *slurm.RenderContext) (string, error) {
	err := c.validateJobSpec(spec)
	if err != nil {
		return "", err
	}
	return c.render(spec, rc)
}

// Submit takes a spec through the whole pipeline: validate, render, persist
// a draft, prepare the remote workspace, upload, dispatch, persist the
// scheduler's id.
//
// Once the draft row exists, failures land in the job itself (status FAILED
// with detail) rather than erroring out; past validation the caller always
// gets a job record back.
func (c *Service) Submit(ctx context.Context, spec *structs.JobSpec, rc *slurm.RenderContext) (*structs.Job, error) {
	err := c.validateJobSpec(spec)
	if err != nil {
		return nil, err
	}

	script, err := c.render(spec, rc)
	if err != nil {
		return nil, err
	}

	host, err := c.host(spec.Host)
	if err != nil {
		return nil, err
	}

	commit := ""
	if rc != nil {
		commit = rc.CommitSHA
	}
	now := timeNow()
	job := &structs.Job{
		JobSpec:   *spec,
		ID:        utils.NewRandomID(),
		Status:    structs.SUBMITTING,
		ETag:      newTag(),
		Script:    script,
		CommitSHA: commit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = c.db.InsertJob(job)
	if err != nil {
		return nil, err
	}

	remoteID, err := c.dispatch(ctx, host, spec, script)
	if err != nil {
		detail := err.Error()
		if stderrors.Is(err, errors.ErrTimeout) {
			detail = fmt.Sprintf("timeout: %v", err)
		}
		return c.markFailed(job, detail), nil
	}

	status := structs.PENDING
	upd := &database.JobUpdate{Status: &status, RemoteJobID: &remoteID}
	count, err := c.db.UpdateJob(job.ID, job.ETag, newTag(), upd)
	if err == nil && count == 0 {
		// someone touched the row mid-submit (archive, most likely); re-read
		// and try once more with the fresh tag
		fresh, ferr := c.jobByID(job.ID)
		if ferr == nil {
			job = fresh
			count, err = c.db.UpdateJob(job.ID, job.ETag, newTag(), upd)
		}
	}
	if err != nil || count == 0 {
		// the row is still SUBMITTING with no remote id; the scheduler has
		// the job even though we failed to record it
		log.Println("[Submit]", "failed to record remote id", remoteID, "for job", job.ID, err)
		if err == nil {
			err = fmt.Errorf("%w could not record remote id %s for job %s", errors.ErrETagMismatch, remoteID, job.ID)
		}
		return job, err
	}
	job.Status = status
	job.RemoteJobID = remoteID
	return job, nil
}

// dispatch performs the remote half of a submission: workspace prep, script
// upload & sbatch. Each remote call is bounded by the submit timeout.
func (c *Service) dispatch(ctx context.Context, host *structs.RemoteHost, spec *structs.JobSpec, script string) (string, error) {
	dir := jobWorkspace(host, spec)
	target := scriptPath(host, spec)

	tctx, cancel := context.WithTimeout(ctx, c.opts.SubmitTimeout)
	defer cancel()
	err := c.ch.EnsureDir(tctx, host, dir)
	if err != nil {
		return "", err
	}

	tctx, cancel = context.WithTimeout(ctx, c.opts.SubmitTimeout)
	defer cancel()
	err = c.ch.Upload(tctx, host, []byte(script), target)
	if err != nil {
		return "", err
	}

	tctx, cancel = context.WithTimeout(ctx, c.opts.SubmitTimeout)
	defer cancel()
	res, err := c.ch.Execute(tctx, host, slurm.SubmitCommand(target))
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &errors.RemoteCommandError{
			Host:     host.Name,
			Command:  "sbatch",
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return slurm.ParseSubmitOutput(res.Stdout)
}

// markFailed records a submission failure on the job. The returned job
// reflects the update even if the write itself failed (which we log).
func (c *Service) markFailed(job *structs.Job, detail string) *structs.Job {
	status := structs.FAILED
	finished := timeNow()
	_, err := c.db.UpdateJob(job.ID, job.ETag, newTag(), &database.JobUpdate{
		Status:      &status,
		ErrorDetail: &detail,
		FinishedAt:  &finished,
	})
	if err != nil {
		log.Println("[Submit]", "failed to mark job", job.ID, "failed:", err)
	}
	job.Status = status
	job.ErrorDetail = detail
	job.FinishedAt = finished
	return job
}

func (c *Service) render(spec *structs.JobSpec, rc *slurm.RenderContext) (string, error) {
	if rc == nil {
		rc = &slurm.RenderContext{}
	}
	if h := c.hosts.Get(spec.Host); h != nil {
		if rc.Workspace == "" {
			rc.Workspace = jobWorkspace(h, spec)
		}
		if rc.OutputFile == "" {
			// sbatch resolves a relative --output against the submission cwd,
			// not the script's cd, so the path must be absolute for log
			// collection to find the file later
			rc.OutputFile = path.Join(jobWorkspace(h, spec), "slurm-%j.out")
		}
	}
	return c.renderer.Render(spec, rc)
}
