package database

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/voidshard/slipway/pkg/structs"
)

// so tests can pin time
var timeNow = func() int64 { return time.Now().Unix() }

// toJobSqlArgs builds the placeholder string & args for inserting a job,
// matching jobColumns order.
func toJobSqlArgs(j *structs.Job) (string, []interface{}, error) {
	overrides, err := json.Marshal(j.Overrides)
	if err != nil {
		return "", nil, err
	}

	args := []interface{}{
		j.Name,
		j.Description,
		j.ProjectID,
		j.Host,
		j.Partition,
		j.GPUType,
		j.GPUsPerNode,
		j.NumNodes,
		j.CPUsPerTask,
		j.MemoryGB,
		j.TimeLimit,
		j.Variant,
		j.BranchedFrom,
		overrides,
		j.ExtraDirectives,
		j.ID,
		j.Status,
		j.ETag,
		j.RemoteJobID,
		j.Script,
		j.CommitSHA,
		j.ErrorDetail,
		j.MetricsURL,
		j.Archived,
		j.CreatedAt,
		j.StartedAt,
		j.FinishedAt,
		j.UpdatedAt,
	}

	ph := make([]string, len(args))
	for i := range args {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", "), args, nil
}

// toSqlQuery converts a Query into a WHERE clause & args. Clause order is
// fixed so the same query always builds the same SQL.
func toSqlQuery(q *structs.Query) (string, []interface{}) {
	and := []string{}
	args := []interface{}{}

	addIn := func(col string, vals []string) {
		if len(vals) == 0 {
			return
		}
		ph := []string{}
		for _, v := range vals {
			args = append(args, v)
			ph = append(ph, fmt.Sprintf("$%d", len(args)))
		}
		and = append(and, fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ",")))
	}

	addIn("id", q.JobIDs)
	addIn("project_id", q.ProjectIDs)
	addIn("host", q.Hosts)
	addIn("status", statusToStrings(q.Statuses))

	if q.WithRemoteID {
		and = append(and, "remote_job_id != ''")
	}
	if !q.IncludeArchived {
		and = append(and, "archived = FALSE")
	}
	if q.CreatedBefore > 0 {
		args = append(args, q.CreatedBefore)
		and = append(and, fmt.Sprintf("created_at < $%d", len(args)))
	}
	if q.CreatedAfter > 0 {
		args = append(args, q.CreatedAfter)
		and = append(and, fmt.Sprintf("created_at > $%d", len(args)))
	}
	if q.UpdatedBefore > 0 {
		args = append(args, q.UpdatedBefore)
		and = append(and, fmt.Sprintf("updated_at < $%d", len(args)))
	}
	if q.UpdatedAfter > 0 {
		args = append(args, q.UpdatedAfter)
		and = append(and, fmt.Sprintf("updated_at > $%d", len(args)))
	}

	if len(and) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(and, " AND "), args
}

// toSqlTags builds "(id=$n AND etag=$n+1) OR ..." clauses for ref'd updates,
// starting placeholders at `start`.
func toSqlTags(start int, ids []*structs.JobRef) (string, []interface{}) {
	or := []string{}
	args := []interface{}{}
	for _, ref := range ids {
		or = append(or, fmt.Sprintf("(id=$%d AND etag=$%d)", start+len(args), start+len(args)+1))
		args = append(args, ref.ID, ref.ETag)
	}
	return strings.Join(or, " OR "), args
}

func statusToStrings(in []structs.Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
