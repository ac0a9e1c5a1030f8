package jobrunner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ProgressEvent is one SSE update, adapted from the teacher's
// server.ProgressEvent (iterations/bestCost/cps) to the shape-compositing
// domain (stepsDone/bestScore/shapesPerSecond).
type ProgressEvent struct {
	JobID           string    `json:"jobId"`
	State           State     `json:"state"`
	StepsDone       int       `json:"stepsDone"`
	BestScore       float64   `json:"bestScore"`
	ShapesPerSecond float64   `json:"shapesPerSecond"`
	Timestamp       time.Time `json:"timestamp"`
}

// coalesceMinDelta is the minimum relative score improvement, against the
// last event actually forwarded to subscribers, required to forward a new
// one on its own. Early shapes swing the score by a large fraction; by the
// time a run has committed a few hundred shapes, each successive one moves
// it by a sliver, so forwarding every single step floods subscribers with
// updates that read as identical.
const coalesceMinDelta = 0.0005

// coalesceMaxSteps bounds how long a run can go without a forwarded event
// even while it's stuck below coalesceMinDelta, so a stalled-but-still-
// running job still looks alive to subscribers.
const coalesceMaxSteps = 20

// Broadcaster fans progress events out to SSE clients subscribed to a job,
// structurally based on the teacher's EventBroadcaster (same per-job
// buffered-channel fan-out, same replay-on-subscribe), with one addition:
// Broadcast coalesces consecutive StateRunning events by score-delta
// instead of forwarding every Model.Step unconditionally.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[string]map[chan ProgressEvent]bool
	// lastEvent is the most recent event per job regardless of whether it
	// was forwarded, used to replay current state to new subscribers.
	lastEvent map[string]ProgressEvent
	// lastSent is the most recent event per job that was actually
	// forwarded to subscribers, used as the coalescing baseline.
	lastSent map[string]ProgressEvent
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients:   make(map[string]map[chan ProgressEvent]bool),
		lastEvent: make(map[string]ProgressEvent),
		lastSent:  make(map[string]ProgressEvent),
	}
}

func (b *Broadcaster) Subscribe(jobID string) chan ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan ProgressEvent, 10)
	if b.clients[jobID] == nil {
		b.clients[jobID] = make(map[chan ProgressEvent]bool)
	}
	b.clients[jobID][ch] = true

	if last, ok := b.lastEvent[jobID]; ok {
		select {
		case ch <- last:
		default:
		}
	}
	return ch
}

func (b *Broadcaster) Unsubscribe(jobID string, ch chan ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if clients, ok := b.clients[jobID]; ok {
		delete(clients, ch)
		close(ch)
		if len(clients) == 0 {
			delete(b.clients, jobID)
		}
	}
}

// Broadcast records event as the job's latest known state and, unless it
// is coalesced away, forwards it to every subscriber. Terminal states
// (anything but StateRunning) and a job's first event always forward;
// a StateRunning event is coalesced only while both its score improvement
// since the last forwarded event is below coalesceMinDelta and fewer than
// coalesceMaxSteps have elapsed since that event.
func (b *Broadcaster) Broadcast(event ProgressEvent) {
	b.mu.Lock()
	b.lastEvent[event.JobID] = event

	forward := true
	if event.State == StateRunning {
		if prev, ok := b.lastSent[event.JobID]; ok {
			delta := relativeImprovement(prev.BestScore, event.BestScore)
			stepsSince := event.StepsDone - prev.StepsDone
			if delta < coalesceMinDelta && stepsSince < coalesceMaxSteps {
				forward = false
			}
		}
	}
	if forward {
		b.lastSent[event.JobID] = event
	}
	clients := b.clients[event.JobID]
	b.mu.Unlock()

	if !forward {
		return
	}
	for ch := range clients {
		select {
		case ch <- event:
		default:
			slog.Warn("SSE channel full, dropping event", "jobID", event.JobID)
		}
	}
}

// relativeImprovement is the same (prev-cur)/prev ratio ConvergenceTracker
// uses; a prev of zero (or a fresh-job baseline) always counts as maximal
// improvement so the comparison never blocks a first/only data point.
func relativeImprovement(prev, cur float64) float64 {
	if prev <= 0 {
		return 1
	}
	return (prev - cur) / prev
}

func (b *Broadcaster) CleanupJob(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if clients, ok := b.clients[jobID]; ok {
		for ch := range clients {
			close(ch)
		}
		delete(b.clients, jobID)
	}
	delete(b.lastEvent, jobID)
	delete(b.lastSent, jobID)
}

// ServeStream handles one SSE connection for a job's progress stream.
func ServeStream(w http.ResponseWriter, r *http.Request, manager *Manager, jobID string) {
	job, ok := manager.Get(jobID)
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events := manager.Broadcaster().Subscribe(jobID)
	defer manager.Broadcaster().Unsubscribe(jobID, events)

	initial := ProgressEvent{JobID: job.ID, State: job.State, StepsDone: job.StepsDone, BestScore: job.BestScore, Timestamp: time.Now()}
	if err := writeSSEEvent(w, initial); err != nil {
		return
	}
	flusher.Flush()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSEEvent(w, event); err != nil {
				return
			}
			flusher.Flush()
		case <-ping.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, event ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
