package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/primitivefit/internal/jobrunner"
)

var (
	resumeServerURL string
	resumeLocalMode bool
	resumeOutputDir string
	resumeDataDir   string
)

var resumeCmd = &cobra.Command{
	Use:   "resume [job-id]",
	Short: "Resume approximation from a checkpoint",
	Long: `Resume an approximation job from a saved checkpoint.

Supports two modes:
  1. Server mode (default): POST to server's resume endpoint
  2. Local mode (--local): replay the checkpoint and keep stepping locally

Examples:
  # Resume via server
  primitivefit resume abc123 --server-url http://localhost:8080

  # Resume locally
  primitivefit resume abc123 --local --output ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeServerURL, "server-url", "http://localhost:8080", "Server URL for remote resume")
	resumeCmd.Flags().BoolVar(&resumeLocalMode, "local", false, "Run resume locally instead of via server")
	resumeCmd.Flags().StringVar(&resumeOutputDir, "output", "./resumed", "Output directory for local mode")
	resumeCmd.Flags().StringVar(&resumeDataDir, "data-dir", "./data", "Base directory for checkpoint storage (local mode)")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	if resumeLocalMode {
		return runResumeLocal(jobID)
	}
	return runResumeServer(jobID)
}

func runResumeServer(jobID string) error {
	url := fmt.Sprintf("%s/api/v1/jobs/%s/resume", resumeServerURL, jobID)

	slog.Info("resuming job via server", "job_id", jobID, "url", url)

	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("checkpoint not found for job %s", jobID)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var result struct {
		JobID       string `json:"jobId"`
		ResumedFrom string `json:"resumedFrom"`
		State       string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Job resumed successfully\n")
	fmt.Printf("  New job ID: %s\n", result.JobID)
	fmt.Printf("  Resumed from: %s\n", result.ResumedFrom)
	fmt.Printf("  State: %s\n", result.State)
	fmt.Printf("\nUse 'primitivefit status %s' to monitor progress\n", result.JobID)

	return nil
}

// runResumeLocal loads a checkpoint, replays its committed shapes onto a
// fresh engine.Model via jobrunner.ReplayCheckpoint, and keeps stepping for
// the configured number of remaining shapes, or for a full Config.Steps
// more when none remain.
func runResumeLocal(jobID string) error {
	slog.Info("resuming job locally", "job_id", jobID)

	checkpointStore, err := jobrunner.NewFSStore(resumeDataDir)
	if err != nil {
		return fmt.Errorf("create checkpoint store: %w", err)
	}

	checkpoint, err := checkpointStore.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	if err := checkpoint.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	fmt.Printf("Loaded checkpoint:\n")
	fmt.Printf("  Job ID: %s\n", checkpoint.JobID)
	fmt.Printf("  Steps done: %d\n", checkpoint.StepsDone)
	fmt.Printf("  Best score: %f\n", checkpoint.BestScore)
	fmt.Printf("  Checkpoint time: %s\n\n", checkpoint.Timestamp.Format(time.RFC3339))

	model, err := jobrunner.ReplayCheckpoint(checkpoint)
	if err != nil {
		return fmt.Errorf("replay checkpoint: %w", err)
	}

	remaining := checkpoint.Config.Steps - model.Steps()
	if remaining <= 0 {
		remaining = checkpoint.Config.Steps
	}

	fmt.Printf("Resuming approximation for up to %d more shapes...\n", remaining)
	start := time.Now()

	tracker := jobrunner.NewConvergenceTracker(jobrunner.ConvergenceConfig{
		Enabled:   checkpoint.Config.ConvergenceEnabled,
		Patience:  checkpoint.Config.Patience,
		Threshold: checkpoint.Config.Threshold,
	})

	shapes := make([]jobrunner.ShapeRecord, len(checkpoint.CommittedShapes))
	copy(shapes, checkpoint.CommittedShapes)

	for i := 0; i < remaining; i++ {
		result := model.Step()
		shapes = append(shapes, jobrunner.ShapeRecord{
			Tag: result.Shape.Tag(), Params: result.Shape.Params(), Alpha: checkpoint.Config.Alpha, Color: result.Color,
		})
		if tracker.Update(result.Score) {
			break
		}
	}

	elapsed := time.Since(start)

	fmt.Printf("\nApproximation completed in %s\n", elapsed)
	fmt.Printf("  Previous score: %f\n", checkpoint.BestScore)
	fmt.Printf("  New score: %f\n", model.Score())
	if checkpoint.BestScore > 0 {
		improvement := ((checkpoint.BestScore - model.Score()) / checkpoint.BestScore) * 100
		fmt.Printf("  Improvement: %.2f%%\n", improvement)
	}

	if err := os.MkdirAll(resumeOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	bestPath := filepath.Join(resumeOutputDir, fmt.Sprintf("%s_resumed.png", jobID))
	outFile, err := os.Create(bestPath)
	if err != nil {
		return fmt.Errorf("create output image: %w", err)
	}
	defer outFile.Close()
	if err := jobrunner.EncodePNG(outFile, model.Current()); err != nil {
		return fmt.Errorf("encode output image: %w", err)
	}

	fmt.Printf("\nOutput saved to: %s\n", bestPath)

	updated := jobrunner.NewCheckpoint(jobID, shapes, model.Score(), checkpoint.InitialScore, len(shapes), checkpoint.Config)
	if err := checkpointStore.SaveCheckpoint(jobID, updated); err != nil {
		slog.Warn("failed to update checkpoint", "error", err)
	} else {
		fmt.Printf("Checkpoint updated\n")
	}

	return nil
}
