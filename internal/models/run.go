package models

import (
	"errors"
	"time"
)

var _ Model = (*Run)(nil)

// Run records one change batch applied to a loaded catalog.
//
// The final catalog snapshot is stored alongside the run by the repositories package.
type Run struct {
	id          string
	sequence    int
	inputPath   string
	changesPath string
	applied     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewRun creates an unsaved run for the given input files. The id is assigned on creation.
func NewRun(sequence int, inputPath, changesPath string, applied int) *Run {
	now := time.Now().UTC()
	return &Run{
		sequence:    sequence,
		inputPath:   inputPath,
		changesPath: changesPath,
		applied:     applied,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (r *Run) ID() string           { return r.id }
func (r *Run) Sequence() int        { return r.sequence }
func (r *Run) InputPath() string    { return r.inputPath }
func (r *Run) ChangesPath() string  { return r.changesPath }
func (r *Run) Applied() int         { return r.applied }
func (r *Run) CreatedAt() time.Time { return r.createdAt }
func (r *Run) UpdatedAt() time.Time { return r.updatedAt }

func (r *Run) SetID(id string)            { r.id = id }
func (r *Run) SetSequence(seq int)        { r.sequence = seq }
func (r *Run) SetApplied(n int)           { r.applied = n }
func (r *Run) SetCreatedAt(t time.Time)   { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time)   { r.updatedAt = t }
func (r *Run) SetChangesPath(path string) { r.changesPath = path }

// Validate checks required fields.
func (r *Run) Validate() error {
	if r.id == "" {
		return errors.New("run id is required")
	}
	if r.inputPath == "" {
		return errors.New("run input path is required")
	}
	if r.applied < 0 {
		return errors.New("run applied count must not be negative")
	}
	return nil
}

// RunSummary is the JSON view of a [Run].
type RunSummary struct {
	ID          string    `json:"id"`
	Sequence    int       `json:"sequence"`
	InputPath   string    `json:"input_path"`
	ChangesPath string    `json:"changes_path,omitempty"`
	Applied     int       `json:"applied"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary converts the run into its JSON view.
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:          r.id,
		Sequence:    r.sequence,
		InputPath:   r.inputPath,
		ChangesPath: r.changesPath,
		Applied:     r.applied,
		CreatedAt:   r.createdAt,
	}
}
