package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/voidshard/slipway/internal/utils"
	se "github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/structs"
)

var (
	errmap map[int][]error = map[int][]error{
		http.StatusBadRequest: []error{
			se.ErrValidation,
			se.ErrInvalidArg,
			se.ErrInvalidState,
			se.ErrETagMismatch,
			se.ErrMaxExceeded,
			se.ErrNotSupported,
		},
		http.StatusNotFound: []error{
			se.ErrNotFound,
		},
		// the remote host misbehaved, not us
		http.StatusBadGateway: []error{
			se.ErrTransport,
			se.ErrRemoteCommand,
			se.ErrParse,
		},
		http.StatusGatewayTimeout: []error{
			se.ErrTimeout,
		},
	}
)

// mapError returns the http status code for a given error from slipway, or
// http.StatusInternalServerError if the error is not recognised.
func mapError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	for code, errs := range errmap {
		for _, e := range errs {
			if errors.Is(err, e) {
				return code
			}
		}
	}
	return http.StatusInternalServerError
}

func unmarshalQuery(w http.ResponseWriter, r *http.Request, out *structs.Query) error {
	q := r.URL.Query()

	if q.Has("limit") {
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return fmt.Errorf("bad limit: %v", err)
		}
		out.Limit = limit
	}

	if q.Has("offset") {
		offset, err := strconv.Atoi(q.Get("offset"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return fmt.Errorf("bad offset: %v", err)
		}
		out.Offset = offset
	}

	if q.Has("job_ids") {
		out.JobIDs = q["job_ids"]
		for _, id := range out.JobIDs {
			if !utils.IsValidID(id) {
				http.Error(w, "bad job id", http.StatusBadRequest)
				return fmt.Errorf("bad job id: %v", id)
			}
		}
	}
	if q.Has("project_ids") {
		out.ProjectIDs = q["project_ids"]
	}
	if q.Has("hosts") {
		out.Hosts = q["hosts"]
	}
	if q.Has("statuses") {
		out.Statuses = []structs.Status{}
		for _, s := range q["statuses"] {
			st := structs.ToStatus(s)
			if st == "" {
				http.Error(w, "bad status", http.StatusBadRequest)
				return fmt.Errorf("bad status: %v", s)
			}
			out.Statuses = append(out.Statuses, st)
		}
	}
	if q.Has("with_remote_id") {
		out.WithRemoteID = q.Get("with_remote_id") == "true"
	}
	if q.Has("include_archived") {
		out.IncludeArchived = q.Get("include_archived") == "true"
	}

	for name, dst := range map[string]*int64{
		"created_before": &out.CreatedBefore,
		"created_after":  &out.CreatedAfter,
		"updated_before": &out.UpdatedBefore,
		"updated_after":  &out.UpdatedAfter,
	} {
		if !q.Has(name) {
			continue
		}
		v, err := strconv.ParseInt(q.Get(name), 10, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return fmt.Errorf("bad %s: %v", name, err)
		}
		*dst = v
	}

	out.Sanitize()
	return nil
}

// unmarshalJson reads the body of a request and attempts to unmarshal it into the given object.
// This function write an error to the writer if an error occurs, and returns the error.
func unmarshalJson(w http.ResponseWriter, r *http.Request, obj interface{}) error {
	if r.Body == nil {
		http.Error(w, "No body", http.StatusBadRequest)
		return fmt.Errorf("no body")
	}
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields() // catch unwanted fields

	err := d.Decode(obj)
	if err != nil {
		// bad JSON or unrecognized json field
		http.Error(w, err.Error(), http.StatusBadRequest)
		return fmt.Errorf("bad json: %v", err)
	}

	return nil
}
