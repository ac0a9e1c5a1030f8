package jobrunner

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/cwbudde/primitivefit/internal/engine"
	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// LoadTarget decodes a reference image from refPath into a raster.Bitmap,
// registering bmp/tiff/jpeg decoders alongside the PNG decoder that the
// image/png import registers (SPEC_FULL.md §3 domain stack).
func LoadTarget(refPath string) (*raster.Bitmap, error) {
	f, err := os.Open(refPath)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode reference: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*w + x) * 4
			pix[i] = uint8(r >> 8)
			pix[i+1] = uint8(g >> 8)
			pix[i+2] = uint8(b >> 8)
			pix[i+3] = uint8(a >> 8)
		}
	}
	return raster.NewFromBytes(w, h, pix), nil
}

// Run drives a job to completion: load the target, run engine.Model.Step
// in a loop with convergence detection, checkpoint periodically, and
// broadcast progress, mirroring the teacher's server.runJob shape.
func Run(ctx context.Context, manager *Manager, checkpointStore Store, jobID string) error {
	done := manager.TrackRun()
	defer done()

	job, ok := manager.Get(jobID)
	if !ok {
		return fmt.Errorf("job not found: %s", jobID)
	}

	target, err := LoadTarget(job.Config.RefPath)
	if err != nil {
		markFailed(manager, jobID, err)
		return err
	}

	cfg := engine.Config{
		ShapeTypes: shape.AllTags,
		Alpha:      job.Config.Alpha,
		N:          job.Config.N,
		MaxAge:     job.Config.MaxAge,
		Passes:     job.Config.Passes,
		Workers:    job.Config.Workers,
		Seed:       job.Config.Seed,
	}
	model := engine.NewModel(target, raster.RGBA{R: 255, G: 255, B: 255, A: 255}, cfg)

	return runLoop(ctx, manager, checkpointStore, jobID, model, nil)
}

// RunResumed continues a job from a checkpoint's committed shape sequence,
// replayed onto a fresh Model, then runs the same step loop Run does for
// the remaining configured steps.
func RunResumed(ctx context.Context, manager *Manager, checkpointStore Store, jobID string, checkpoint *Checkpoint) error {
	done := manager.TrackRun()
	defer done()

	model, err := ReplayCheckpoint(checkpoint)
	if err != nil {
		markFailed(manager, jobID, err)
		return err
	}

	shapes := make([]ShapeRecord, len(checkpoint.CommittedShapes))
	copy(shapes, checkpoint.CommittedShapes)

	return runLoop(ctx, manager, checkpointStore, jobID, model, shapes)
}

func runLoop(ctx context.Context, manager *Manager, checkpointStore Store, jobID string, model *engine.Model, shapes []ShapeRecord) error {
	job, ok := manager.Get(jobID)
	if !ok {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := manager.Update(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}

	slog.Info("starting job", "job_id", jobID, "ref", job.Config.RefPath, "resumed_steps", len(shapes))

	initialScore := model.Score()
	if err := manager.Update(jobID, func(j *Job) {
		j.InitialScore = initialScore
		j.StepsDone = model.Steps()
		j.BestScore = model.Score()
	}); err != nil {
		return err
	}

	tracker := NewConvergenceTracker(ConvergenceConfig{
		Enabled:   job.Config.ConvergenceEnabled,
		Patience:  job.Config.Patience,
		Threshold: job.Config.Threshold,
	})

	start := time.Now()
	lastCheckpoint := start
	remaining := job.Config.Steps - model.Steps()

	for step := 0; step < remaining; step++ {
		select {
		case <-ctx.Done():
			if checkpointStore != nil {
				if err := saveCheckpoint(checkpointStore, jobID, shapes, model.Score(), initialScore, job.Config); err != nil {
					slog.Error("checkpoint save on shutdown failed", "job_id", jobID, "error", err)
				}
			}
			markCancelled(manager, jobID)
			return ctx.Err()
		default:
		}

		result := model.Step()
		shapes = append(shapes, ShapeRecord{Tag: result.Shape.Tag(), Params: result.Shape.Params(), Alpha: job.Config.Alpha, Color: result.Color})

		elapsed := time.Since(start).Seconds()
		var sps float64
		if elapsed > 0 {
			sps = float64(step+1) / elapsed
		}

		if err := manager.Update(jobID, func(j *Job) {
			j.StepsDone = model.Steps()
			j.BestScore = result.Score
		}); err != nil {
			return err
		}

		manager.Broadcaster().Broadcast(ProgressEvent{
			JobID: jobID, State: StateRunning, StepsDone: model.Steps(),
			BestScore: result.Score, ShapesPerSecond: sps, Timestamp: time.Now(),
		})

		if checkpointStore != nil && job.Config.CheckpointInterval > 0 &&
			time.Since(lastCheckpoint) >= time.Duration(job.Config.CheckpointInterval)*time.Second {
			if err := saveCheckpoint(checkpointStore, jobID, shapes, result.Score, initialScore, job.Config); err != nil {
				slog.Error("checkpoint save failed", "job_id", jobID, "error", err)
			}
			lastCheckpoint = time.Now()
		}

		if tracker.Update(result.Score) {
			slog.Info("stopping early, converged", "job_id", jobID, "steps", model.Steps())
			break
		}
	}

	endTime := time.Now()
	if err := manager.Update(jobID, func(j *Job) {
		j.State = StateCompleted
		j.EndTime = &endTime
	}); err != nil {
		return err
	}

	manager.Broadcaster().Broadcast(ProgressEvent{
		JobID: jobID, State: StateCompleted, StepsDone: model.Steps(), BestScore: model.Score(), Timestamp: endTime,
	})

	slog.Info("job completed", "job_id", jobID, "elapsed", time.Since(start), "final_score", model.Score())
	return nil
}

func markFailed(manager *Manager, jobID string, err error) {
	endTime := time.Now()
	manager.Update(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("job failed", "job_id", jobID, "error", err)
}

func markCancelled(manager *Manager, jobID string) {
	endTime := time.Now()
	manager.Update(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("job cancelled", "job_id", jobID)
}

func saveCheckpoint(store Store, jobID string, shapes []ShapeRecord, bestScore, initialScore float64, cfg Config) error {
	checkpoint := NewCheckpoint(jobID, shapes, bestScore, initialScore, len(shapes), cfg)
	if err := store.SaveCheckpoint(jobID, checkpoint); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	slog.Info("checkpoint saved", "job_id", jobID, "steps", len(shapes), "best_score", bestScore)
	return nil
}

// EncodePNG writes canvas to w as PNG, used by cmd/run.go and
// cmd/resume.go.
func EncodePNG(w *os.File, canvas *raster.Bitmap) error {
	img := image.NewNRGBA(image.Rect(0, 0, canvas.Width(), canvas.Height()))
	copy(img.Pix, canvas.Pix())
	return png.Encode(w, img)
}

// ReplayCheckpoint reconstructs a live engine.Model from a checkpoint's
// committed shape sequence: it loads the checkpoint's reference image and
// re-commits each ShapeRecord in order with its stored color, reproducing
// the canvas and score exactly. Unlike the teacher's store.Checkpoint,
// which can only hand back the parameter vector of its last iteration, this
// checkpoint format is replayable into a fully working Model — so resume
// is a continuation, not a restart.
func ReplayCheckpoint(checkpoint *Checkpoint) (*engine.Model, error) {
	target, err := LoadTarget(checkpoint.Config.RefPath)
	if err != nil {
		return nil, fmt.Errorf("load reference: %w", err)
	}

	cfg := engine.Config{
		ShapeTypes: shape.AllTags,
		Alpha:      checkpoint.Config.Alpha,
		N:          checkpoint.Config.N,
		MaxAge:     checkpoint.Config.MaxAge,
		Passes:     checkpoint.Config.Passes,
		Workers:    checkpoint.Config.Workers,
		Seed:       checkpoint.Config.Seed,
	}
	model := engine.NewModel(target, raster.RGBA{R: 255, G: 255, B: 255, A: 255}, cfg)

	for _, rec := range checkpoint.CommittedShapes {
		model.Commit(shape.FromParams(rec.Tag, rec.Params), rec.Color)
	}
	return model, nil
}
