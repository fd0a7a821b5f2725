// Package journal records conversion runs, and the frames that each run skipped,
// into a small sqlite database.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/solo2yolo/pkg/dbh"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Journal struct {
	Log logs.Log
	DB  *gorm.DB
}

// Open or create a journal database
func Open(log logs.Log, filename string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0777); err != nil {
		return nil, fmt.Errorf("Failed to create journal directory: %w", err)
	}
	db, err := dbh.OpenDB(log, filename, Migrations(log), 0)
	if err != nil {
		return nil, fmt.Errorf("Failed to open journal %v: %w", filename, err)
	}
	return &Journal{
		Log: log,
		DB:  db,
	}, nil
}

func (j *Journal) Close() {
	if sqlDB, err := j.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// NewRunID returns a fresh run id.
func NewRunID() string {
	return uuid.NewString()
}

// BeginRun inserts a new run in the 'running' state.
// If run.ID is empty, a new id is assigned.
func (j *Journal) BeginRun(run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = dbh.MakeIntTime(time.Now())
	}
	run.Status = RunStatusRunning
	return j.DB.Create(run).Error
}

func (j *Journal) SetYoloRoot(runID, yoloRoot string) error {
	return j.DB.Model(&Run{}).Where("id = ?", runID).Update("yolo_root", yoloRoot).Error
}

func (j *Journal) RecordSkip(runID string, frameIndex int, path, reason string) error {
	return j.DB.Create(&SkippedFrame{
		RunID:      runID,
		FrameIndex: frameIndex,
		Path:       path,
		Reason:     reason,
	}).Error
}

// FinishRun stores the final counters of a run.
// A nil runErr marks the run as finished, otherwise as failed.
func (j *Journal) FinishRun(runID string, found, converted, skipped int, runErr error) error {
	status := RunStatusFinished
	errMsg := ""
	if runErr != nil {
		status = RunStatusFailed
		errMsg = runErr.Error()
	}
	return j.DB.Model(&Run{}).Where("id = ?", runID).Updates(map[string]any{
		"finished_at":      dbh.MakeIntTime(time.Now()),
		"frames_found":     found,
		"frames_converted": converted,
		"frames_skipped":   skipped,
		"status":           string(status),
		"error":            errMsg,
	}).Error
}

// Runs returns all runs, most recent first
func (j *Journal) Runs() ([]Run, error) {
	runs := []Run{}
	err := j.DB.Order("started_at DESC, id").Find(&runs).Error
	return runs, err
}

func (j *Journal) Run(runID string) (*Run, error) {
	run := Run{}
	if err := j.DB.First(&run, "id = ?", runID).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// Skips returns the skipped frames of a run, in frame order
func (j *Journal) Skips(runID string) ([]SkippedFrame, error) {
	skips := []SkippedFrame{}
	err := j.DB.Where("run_id = ?", runID).Order("frame_index").Find(&skips).Error
	return skips, err
}
