package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"github.com/voidshard/slipway/internal/utils"
	"github.com/voidshard/slipway/pkg/api"
	"github.com/voidshard/slipway/pkg/api/http/common"
	"github.com/voidshard/slipway/pkg/project"
	"github.com/voidshard/slipway/pkg/slurm"
	"github.com/voidshard/slipway/pkg/structs"
)

const (
	wait = 30 * time.Second
)

type Server struct {
	addr       string
	debug      bool
	svc        api.API
	exit       chan os.Signal
	httpserver *http.Server
}

func (s *Server) ServeForever(svc api.API) error {
	s.svc = svc

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.Health).Methods(http.MethodGet)
	router.HandleFunc(common.API_JOBS, s.Jobs).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc(common.API_PREVIEW, s.Preview).Methods(http.MethodPost)
	router.HandleFunc(common.API_ARCHIVE, s.ToggleOp(s.svc.Archive)).Methods(http.MethodPatch)
	router.HandleFunc(common.API_UNARCHIVE, s.ToggleOp(s.svc.Unarchive)).Methods(http.MethodPatch)
	router.HandleFunc(common.API_JOB_LOGS, s.Logs).Methods(http.MethodGet)
	router.HandleFunc(common.API_JOB_REFRESH, s.Refresh).Methods(http.MethodPost)
	router.HandleFunc(common.API_JOB_CANCEL, s.Cancel).Methods(http.MethodPatch)
	router.HandleFunc(common.API_LINEAGE, s.Lineage).Methods(http.MethodGet)
	router.HandleFunc(common.API_HOST_AVAILABILITY, s.Availability).Methods(http.MethodGet)
	router.HandleFunc(common.API_HOST_PARTITIONS, s.Partitions).Methods(http.MethodGet)
	router.HandleFunc(common.API_HOST_TEST, s.TestConnection).Methods(http.MethodGet)

	if s.debug {
		log.Println("Debug enabled, adding per-request logging middleware")
		router.Use(loggingMiddleware)
	}

	s.httpserver = &http.Server{
		Handler:      router,
		Addr:         s.addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		log.Println("Listening on", s.httpserver.Addr)
		if err := s.httpserver.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	signal.Notify(s.exit, os.Interrupt)
	defer s.Close()
	<-s.exit

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	s.httpserver.Shutdown(ctx)
	os.Exit(0)
	return nil
}

func (s *Server) Jobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getJobs(w, r)
	case http.MethodPost:
		s.submitJob(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getJobs(w http.ResponseWriter, r *http.Request) {
	q := &structs.Query{}
	err := unmarshalQuery(w, r, q)
	if err != nil {
		return
	}

	items, err := s.svc.Jobs(q)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	if s.debug {
		log.Println(r.URL, "returned", len(items), "items")
	}

	err = json.NewEncoder(w).Encode(items)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) submitJob(w http.ResponseWriter, r *http.Request) {
	req := &common.SubmitRequest{}
	err := unmarshalJson(w, r, req)
	if err != nil {
		return
	}
	if req.Spec == nil {
		http.Error(w, "no spec", http.StatusBadRequest)
		return
	}

	rc, err := s.renderContext(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	job, err := s.svc.Submit(r.Context(), req.Spec, rc)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(job)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) Preview(w http.ResponseWriter, r *http.Request) {
	req := &common.SubmitRequest{}
	err := unmarshalJson(w, r, req)
	if err != nil {
		return
	}
	if req.Spec == nil {
		http.Error(w, "no spec", http.StatusBadRequest)
		return
	}

	rc, err := s.renderContext(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	script, err := s.svc.Preview(req.Spec, rc)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(&common.PreviewResponse{Script: script})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// renderContext resolves the defaults merged into a rendered script. An
// explicit context wins; otherwise the project directory (if given) supplies
// git metadata and settings.
func (s *Server) renderContext(ctx context.Context, req *common.SubmitRequest) (*slurm.RenderContext, error) {
	if req.Context != nil {
		return req.Context, nil
	}
	if req.ProjectPath == "" {
		return &slurm.RenderContext{}, nil
	}

	meta, err := project.ReadGitMetadata(ctx, req.ProjectPath)
	if err != nil {
		return nil, err
	}
	settings := project.ReadSettings(req.ProjectPath)
	return &slurm.RenderContext{
		RepoURL:          meta.RemoteURL,
		CommitSHA:        meta.CommitSHA,
		CondaEnv:         settings.CondaEnv,
		Entrypoint:       settings.Entrypoint,
		DefaultOverrides: settings.DefaultOverrides,
	}, nil
}

func (s *Server) Logs(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !utils.IsValidID(id) {
		http.Error(w, "bad job id", http.StatusBadRequest)
		return
	}

	logs, err := s.svc.Logs(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(&common.LogsResponse{JobID: id, Logs: logs})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	s.jobOp(w, r, s.svc.RefreshStatus)
}

func (s *Server) Cancel(w http.ResponseWriter, r *http.Request) {
	s.jobOp(w, r, s.svc.Cancel)
}

func (s *Server) jobOp(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*structs.Job, error)) {
	id := mux.Vars(r)["id"]
	if !utils.IsValidID(id) {
		http.Error(w, "bad job id", http.StatusBadRequest)
		return
	}

	job, err := fn(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(job)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) ToggleOp(fn func([]string) (int64, error)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &common.ArchiveRequest{}
		err := unmarshalJson(w, r, req)
		if err != nil {
			return
		}
		for _, id := range req.IDs {
			if !utils.IsValidID(id) {
				http.Error(w, "bad job id", http.StatusBadRequest)
				return
			}
		}

		updated, err := fn(req.IDs)
		if err != nil {
			http.Error(w, err.Error(), mapError(err))
			return
		}

		err = json.NewEncoder(w).Encode(&common.UpdateResponse{Updated: updated})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (s *Server) Lineage(w http.ResponseWriter, r *http.Request) {
	q := &structs.Query{}
	err := unmarshalQuery(w, r, q)
	if err != nil {
		return
	}

	graph, err := s.svc.InferLineage(q)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(graph)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) Availability(w http.ResponseWriter, r *http.Request) {
	host := mux.Vars(r)["host"]

	snap, err := s.svc.Availability(r.Context(), host)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(snap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) Partitions(w http.ResponseWriter, r *http.Request) {
	host := mux.Vars(r)["host"]

	parts, err := s.svc.Partitions(r.Context(), host)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(&common.PartitionsResponse{Host: host, Partitions: parts})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) TestConnection(w http.ResponseWriter, r *http.Request) {
	host := mux.Vars(r)["host"]

	res, err := s.svc.TestConnection(r.Context(), host)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(res)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) Close() error {
	s.exit <- os.Interrupt
	return nil
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func NewServer(addr string, debug bool) *Server {
	return &Server{
		addr:  addr,
		debug: debug,
		exit:  make(chan os.Signal, 1),
	}
}
