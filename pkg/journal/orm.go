package journal

import (
	"time"

	"github.com/cyclopcam/solo2yolo/pkg/dbh"
)

type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one invocation of the converter
type Run struct {
	ID              string      `gorm:"primaryKey" json:"id"`
	StartedAt       dbh.IntTime `json:"startedAt"`
	FinishedAt      dbh.IntTime `json:"finishedAt"`
	SoloPath        string      `json:"soloPath"`
	OutputPath      string      `json:"outputPath"` // Directory that receives the yolo root
	YoloRoot        string      `json:"yoloRoot"`   // The yolo, yolo_1, ... directory that was actually created
	Task            string      `json:"task"`
	FramesFound     int         `json:"framesFound"`
	FramesConverted int         `json:"framesConverted"`
	FramesSkipped   int         `json:"framesSkipped"`
	Status          RunStatus   `json:"status"`
	Error           string      `json:"error"`
}

// SkippedFrame is a frame record that did not produce an output pair
type SkippedFrame struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	RunID      string `json:"runID"`
	FrameIndex int    `json:"frameIndex"` // 1-based position in the indexer's ordering
	Path       string `json:"path"`
	Reason     string `json:"reason"`
}

// Duration is zero while the run is still in progress
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
