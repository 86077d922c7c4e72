package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voidshard/slipway/pkg/structs"
)

const jobsTable = "jobs"

// jobColumns is the column order every SELECT and INSERT uses.
const jobColumns = `name, description, project_id, host, partition, gpu_type, gpus_per_node, num_nodes, cpus_per_task, memory_gb, time_limit, variant, branched_from, overrides, extra_directives, id, status, etag, remote_job_id, script, commit_sha, error_detail, metrics_url, archived, created_at, started_at, finished_at, updated_at`

// Postgres is a slipway database implementation that uses postgres.
type Postgres struct {
	opts *Options
	pool *pgxpool.Pool
}

// NewPostgres returns a new Postgres database connection.
func NewPostgres(opts *Options) (*Postgres, error) {
	opts.SetDefaults()
	opts.URL = strings.Replace(opts.URL, "$"+opts.UsernameEnvVar, os.Getenv(opts.UsernameEnvVar), 1)
	opts.URL = strings.Replace(opts.URL, "$"+opts.PasswordEnvVar, os.Getenv(opts.PasswordEnvVar), 1)
	pool, err := pgxpool.New(context.Background(), opts.URL)
	return &Postgres{pool: pool, opts: opts}, err
}

// Close shuts down the database connection.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// InsertJob writes a new job row.
func (p *Postgres) InsertJob(j *structs.Job) error {
	placeholders, args, err := toJobSqlArgs(j)
	if err != nil {
		return err
	}
	qstr := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s);`, jobsTable, jobColumns, placeholders)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, qstr, args...)
	return err
}

// Jobs returns jobs matching the given query.
func (p *Postgres) Jobs(q *structs.Query) ([]*structs.Job, error) {
	where, args := toSqlQuery(q)
	args = append(args, q.Limit, q.Offset)

	qstr := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`,
		jobColumns, jobsTable, where, len(args)-1, len(args),
	)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, qstr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*structs.Job{}
	for rows.Next() {
		j := structs.Job{}
		var overrides []byte
		err = rows.Scan(
			&j.Name,
			&j.Description,
			&j.ProjectID,
			&j.Host,
			&j.Partition,
			&j.GPUType,
			&j.GPUsPerNode,
			&j.NumNodes,
			&j.CPUsPerTask,
			&j.MemoryGB,
			&j.TimeLimit,
			&j.Variant,
			&j.BranchedFrom,
			&overrides,
			&j.ExtraDirectives,
			&j.ID,
			&j.Status,
			&j.ETag,
			&j.RemoteJobID,
			&j.Script,
			&j.CommitSHA,
			&j.ErrorDetail,
			&j.MetricsURL,
			&j.Archived,
			&j.CreatedAt,
			&j.StartedAt,
			&j.FinishedAt,
			&j.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(overrides) > 0 {
			if err = json.Unmarshal(overrides, &j.Overrides); err != nil {
				return nil, err
			}
		}
		jobs = append(jobs, &j)
	}

	return jobs, nil
}

// UpdateJob applies a partial update to one job row, CAS'd on (id, etag).
func (p *Postgres) UpdateJob(id, etag, newTag string, upd *JobUpdate) (int64, error) {
	sets := []string{"etag=$1", "updated_at=$2"}
	args := []interface{}{newTag, timeNow()}

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.RemoteJobID != nil {
		add("remote_job_id", *upd.RemoteJobID)
	}
	if upd.ErrorDetail != nil {
		add("error_detail", *upd.ErrorDetail)
	}
	if upd.MetricsURL != nil {
		add("metrics_url", *upd.MetricsURL)
	}
	if upd.StartedAt != nil {
		add("started_at", *upd.StartedAt)
	}
	if upd.FinishedAt != nil {
		add("finished_at", *upd.FinishedAt)
	}

	args = append(args, id, etag)
	qstr := fmt.Sprintf(`UPDATE %s SET %s WHERE id=$%d AND etag=$%d;`,
		jobsTable, strings.Join(sets, ", "), len(args)-1, len(args),
	)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	info, err := conn.Exec(ctx, qstr, args...)
	if err != nil {
		return 0, err
	}
	return info.RowsAffected(), nil
}

// SetJobsArchived flips the archived flag on the given jobs.
func (p *Postgres) SetJobsArchived(archived bool, newTag string, ids []*structs.JobRef) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	qstr, args := toSqlTags(4, ids)
	qstr = fmt.Sprintf(`UPDATE %s SET archived=$1, etag=$2, updated_at=$3 WHERE %s;`, jobsTable, qstr)
	args = append([]interface{}{archived, newTag, timeNow()}, args...)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	info, err := conn.Exec(ctx, qstr, args...)
	if err != nil {
		return 0, err
	}
	return info.RowsAffected(), nil
}
