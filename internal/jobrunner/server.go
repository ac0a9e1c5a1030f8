package jobrunner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
	"github.com/cwbudde/primitivefit/internal/svgexport"
)

// Server exposes jobrunner over JSON + SSE, adapted from the teacher's
// server.Server. Unlike the teacher's html/templ status page, this surface
// is JSON-only — DESIGN.md's non-goals drop the templ dependency: hand
// authoring the generated _templ.go output without the templ CLI (which
// cannot run here) would mean committing fabricated "generated" code, so
// the `serve` command exposes status via JSON and leaves any browser UI to
// a future client (see DESIGN.md).
type Server struct {
	manager *Manager
	store   Store
	addr    string
	server  *http.Server
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewServer creates a server; store may be nil to disable checkpointing.
func NewServer(addr string, store Store) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{manager: NewManager(), store: store, addr: addr, ctx: ctx, cancel: cancel}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/jobs", s.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsWithID)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	handler := s.loggingMiddleware(s.corsMiddleware(mux))
	s.server = &http.Server{Addr: s.addr, Handler: handler}

	slog.Info("starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting new work and blocks until every running job has
// saved its on-cancel checkpoint, bounded by ctx — mirroring the teacher's
// server.checkpointRunningJobs wait in shutdown, so a SIGTERM can't cut off
// a job mid-write the way a bare context cancel would.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	s.cancel()

	var httpErr error
	if s.server != nil {
		httpErr = s.server.Shutdown(ctx)
	}

	slog.Info("waiting for running jobs to checkpoint")
	if err := s.manager.WaitRunning(ctx); err != nil {
		slog.Warn("shutdown timed out waiting for jobs to checkpoint", "error", err)
		if httpErr == nil {
			httpErr = err
		}
	}

	return httpErr
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		s.handleListJobs(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleJobsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "job id required", http.StatusBadRequest)
		return
	}
	jobID := parts[0]

	switch {
	case len(parts) == 1 || parts[1] == "status":
		s.handleStatus(w, r, jobID)
	case parts[1] == "stream":
		ServeStream(w, r, s.manager, jobID)
	case parts[1] == "svg":
		s.handleSVG(w, r, jobID)
	case parts[1] == "resume":
		s.handleResume(w, r, jobID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var cfg Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}
	if cfg.RefPath == "" {
		http.Error(w, "refPath is required", http.StatusBadRequest)
		return
	}
	applyDefaults(&cfg)

	job := s.manager.Create(cfg)
	go Run(s.ctx, s.manager, s.store, job.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

func applyDefaults(cfg *Config) {
	if cfg.Steps <= 0 {
		cfg.Steps = 100
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = 128
	}
	if cfg.N <= 0 {
		cfg.N = 100
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 100
	}
	if cfg.Passes <= 0 {
		cfg.Passes = 10
	}
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.manager.List())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, ok := s.manager.Get(jobID)
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	var elapsed time.Duration
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime)
	} else {
		elapsed = time.Since(job.StartTime)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":           job.ID,
		"state":        job.State,
		"config":       job.Config,
		"stepsDone":    job.StepsDone,
		"bestScore":    job.BestScore,
		"initialScore": job.InitialScore,
		"elapsedSec":   elapsed.Seconds(),
		"startTime":    job.StartTime,
		"endTime":      job.EndTime,
		"error":        job.Error,
	})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request, jobID string) {
	if s.store == nil {
		http.Error(w, "checkpoint feature not enabled", http.StatusServiceUnavailable)
		return
	}
	checkpoint, err := s.store.LoadCheckpoint(jobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "no checkpoint yet", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	target, err := LoadTarget(checkpoint.Config.RefPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	doc := svgexport.New(target.Width(), target.Height(), raster.RGBA{R: 255, G: 255, B: 255, A: 255})
	for _, rec := range checkpoint.CommittedShapes {
		doc.Add(shape.FromParams(rec.Tag, rec.Params), rec.Color)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, doc.Build())
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		http.Error(w, "checkpoint feature not enabled", http.StatusServiceUnavailable)
		return
	}

	checkpoint, err := s.store.LoadCheckpoint(jobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, fmt.Sprintf("checkpoint not found for job %s", jobID), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := checkpoint.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("invalid checkpoint: %v", err), http.StatusBadRequest)
		return
	}

	newJob := s.manager.Create(checkpoint.Config)
	s.manager.Update(newJob.ID, func(j *Job) {
		j.StepsDone = checkpoint.StepsDone
		j.BestScore = checkpoint.BestScore
		j.InitialScore = checkpoint.InitialScore
	})

	go RunResumed(s.ctx, s.manager, s.store, newJob.ID, checkpoint)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"jobId":       newJob.ID,
		"resumedFrom": jobID,
		"state":       string(newJob.State),
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
