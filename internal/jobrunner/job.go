// Package jobrunner is the ambient driver around internal/engine: it turns
// a single Model.Step loop into a trackable, checkpointable, streamable
// background job, the way the teacher's internal/server + internal/store
// turn a single fit.OptimizeX call into one (SPEC_FULL.md §4
// "internal/jobrunner").
package jobrunner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the job lifecycle enumeration, kept from the teacher's
// server.JobState.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Config holds everything a run needs to reproduce: the reference image
// path, the engine tuning knobs, and the checkpoint cadence. Kept as the
// teacher's store.JobConfig is kept — a flat, JSON-serializable struct
// copied into every Checkpoint so resume can validate compatibility.
type Config struct {
	RefPath            string  `json:"refPath"`
	Steps              int     `json:"steps"`
	Alpha              int     `json:"alpha"`
	N                  int     `json:"n"`
	MaxAge             int     `json:"maxAge"`
	Passes             int     `json:"passes"`
	Workers            int     `json:"workers"`
	Seed               uint64  `json:"seed"`
	ConvergenceEnabled bool    `json:"convergenceEnabled"`
	Patience           int     `json:"patience"`
	Threshold          float64 `json:"threshold"`
	CheckpointInterval int     `json:"checkpointInterval,omitempty"`
}

// Job is one run of the engine against a reference image.
type Job struct {
	ID           string     `json:"id"`
	State        State      `json:"state"`
	Config       Config     `json:"config"`
	StepsDone    int        `json:"stepsDone"`
	BestScore    float64    `json:"bestScore"`
	InitialScore float64    `json:"initialScore"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// Manager owns the in-memory job table and its SSE broadcaster, mirroring
// the teacher's server.JobManager. runningWG tracks in-flight Run/RunResumed
// goroutines so Shutdown can block until their checkpoints are written,
// matching the teacher's JobManager.GetRunningJobs-driven shutdown wait in
// server.checkpointRunningJobs.
type Manager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	broadcaster *Broadcaster
	runningWG   sync.WaitGroup
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		jobs:        make(map[string]*Job),
		broadcaster: NewBroadcaster(),
	}
}

// Create registers a new pending job and returns it.
func (m *Manager) Create(cfg Config) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    cfg,
		StartTime: time.Now(),
	}
	m.jobs[job.ID] = job
	return job
}

// Get retrieves a job by ID.
func (m *Manager) Get(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	return job, ok
}

// List returns every known job.
func (m *Manager) List() []*Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	return out
}

// Update atomically mutates the job identified by id.
func (m *Manager) Update(id string, fn func(*Job)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	fn(job)
	return nil
}

// Broadcaster exposes the job's SSE broadcaster for subscribers.
func (m *Manager) Broadcaster() *Broadcaster { return m.broadcaster }

// TrackRun registers one in-flight job run. Callers must call the returned
// func exactly once, when the run (including its on-cancel checkpoint save)
// has finished.
func (m *Manager) TrackRun() func() {
	m.runningWG.Add(1)
	return m.runningWG.Done
}

// WaitRunning blocks until every tracked run has finished, or ctx is done
// first, whichever comes first.
func (m *Manager) WaitRunning(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.runningWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
