package jobrunner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
)

// ShapeRecord is the serializable form of a committed shape: enough to
// reconstruct it via shape.FromParams and redraw it without needing the
// concrete Go type to implement json.Marshaler itself.
type ShapeRecord struct {
	Tag    shape.Tag   `json:"tag"`
	Params []int32     `json:"params"`
	Alpha  int         `json:"alpha"`
	Color  raster.RGBA `json:"color"`
}

// Checkpoint is a saved run: the committed shape sequence plus enough
// config to validate a resume, adapted from the teacher's
// store.Checkpoint (BestParams/BestCost/Config) to the shape-sequence
// domain (CommittedShapes/BestScore/Config). Unlike the teacher, the
// checkpoint here losslessly reproduces the canvas — replaying
// CommittedShapes in order against a fresh Model recreates it exactly,
// so there is no "reinitialized on resume" caveat to document.
type Checkpoint struct {
	JobID           string        `json:"jobId"`
	CommittedShapes []ShapeRecord `json:"committedShapes"`
	BestScore       float64       `json:"bestScore"`
	InitialScore    float64       `json:"initialScore"`
	StepsDone       int           `json:"stepsDone"`
	Timestamp       time.Time     `json:"timestamp"`
	Config          Config        `json:"config"`
}

// CheckpointInfo is checkpoint metadata without the full shape sequence,
// for cheap listing.
type CheckpointInfo struct {
	JobID     string    `json:"jobId"`
	BestScore float64   `json:"bestScore"`
	StepsDone int       `json:"stepsDone"`
	Timestamp time.Time `json:"timestamp"`
	RefPath   string    `json:"refPath"`
}

func NewCheckpoint(jobID string, shapes []ShapeRecord, bestScore, initialScore float64, stepsDone int, cfg Config) *Checkpoint {
	return &Checkpoint{
		JobID:           jobID,
		CommittedShapes: shapes,
		BestScore:       bestScore,
		InitialScore:    initialScore,
		StepsDone:       stepsDone,
		Timestamp:       time.Now(),
		Config:          cfg,
	}
}

func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{JobID: c.JobID, BestScore: c.BestScore, StepsDone: c.StepsDone, Timestamp: c.Timestamp, RefPath: c.Config.RefPath}
}

// Validate checks a checkpoint is well-formed, per the teacher's
// store.Checkpoint.Validate.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if c.Config.RefPath == "" {
		return &ValidationError{Field: "Config.RefPath", Reason: "cannot be empty"}
	}
	if c.BestScore < 0 {
		return &ValidationError{Field: "BestScore", Reason: "cannot be negative"}
	}
	if c.StepsDone < 0 {
		return &ValidationError{Field: "StepsDone", Reason: "cannot be negative"}
	}
	if c.StepsDone != len(c.CommittedShapes) {
		return &ValidationError{Field: "CommittedShapes", Reason: "length must match StepsDone"}
	}
	return nil
}

// IsCompatible reports whether cfg may resume this checkpoint.
func (c *Checkpoint) IsCompatible(cfg Config) error {
	if c.Config.RefPath != cfg.RefPath {
		return &CompatibilityError{Field: "RefPath", Expected: c.Config.RefPath, Actual: cfg.RefPath}
	}
	if c.Config.Alpha != cfg.Alpha {
		return &CompatibilityError{Field: "Alpha", Expected: fmt.Sprintf("%d", c.Config.Alpha), Actual: fmt.Sprintf("%d", cfg.Alpha)}
	}
	return nil
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Field + " " + e.Reason }

type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}

// Store persists checkpoints, kept from the teacher's store.Store
// interface verbatim in shape.
type Store interface {
	SaveCheckpoint(jobID string, checkpoint *Checkpoint) error
	LoadCheckpoint(jobID string) (*Checkpoint, error)
	ListCheckpoints() ([]CheckpointInfo, error)
	DeleteCheckpoint(jobID string) error
}

var ErrNotFound = &NotFoundError{}

type NotFoundError struct {
	JobID string
}

func (e *NotFoundError) Error() string {
	if e.JobID != "" {
		return "checkpoint not found: " + e.JobID
	}
	return "checkpoint not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// FSStore implements Store on the local filesystem, using the teacher's
// temp-file-then-rename atomic write pattern.
type FSStore struct {
	baseDir string
}

func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

func (fs *FSStore) jobDir(jobID string) string {
	return filepath.Join(fs.baseDir, "jobs", jobID)
}

func (fs *FSStore) checkpointPath(jobID string) string {
	return filepath.Join(fs.jobDir(jobID), "checkpoint.json")
}

func (fs *FSStore) SaveCheckpoint(jobID string, checkpoint *Checkpoint) error {
	if jobID == "" {
		return fmt.Errorf("jobID cannot be empty")
	}
	if err := os.MkdirAll(fs.jobDir(jobID), 0755); err != nil {
		return fmt.Errorf("create job directory: %w", err)
	}
	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize checkpoint: %w", err)
	}
	tempPath := fs.checkpointPath(jobID) + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("write temp checkpoint: %w", err)
	}
	if err := os.Rename(tempPath, fs.checkpointPath(jobID)); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}

func (fs *FSStore) LoadCheckpoint(jobID string) (*Checkpoint, error) {
	if jobID == "" {
		return nil, fmt.Errorf("jobID cannot be empty")
	}
	path := fs.checkpointPath(jobID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{JobID: jobID}
		}
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	var checkpoint Checkpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("deserialize checkpoint: %w", err)
	}
	return &checkpoint, nil
}

func (fs *FSStore) ListCheckpoints() ([]CheckpointInfo, error) {
	jobsDir := filepath.Join(fs.baseDir, "jobs")
	entries, err := os.ReadDir(jobsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []CheckpointInfo{}, nil
		}
		return nil, fmt.Errorf("read jobs directory: %w", err)
	}

	var infos []CheckpointInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		checkpoint, err := fs.LoadCheckpoint(entry.Name())
		if err != nil {
			continue
		}
		infos = append(infos, checkpoint.ToInfo())
	}
	return infos, nil
}

func (fs *FSStore) DeleteCheckpoint(jobID string) error {
	if jobID == "" {
		return fmt.Errorf("jobID cannot be empty")
	}
	jobDir := fs.jobDir(jobID)
	if _, err := os.Stat(jobDir); os.IsNotExist(err) {
		return &NotFoundError{JobID: jobID}
	}
	return os.RemoveAll(jobDir)
}
