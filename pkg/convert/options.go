package convert

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cyclopcam/solo2yolo/pkg/yolo"
)

// Options control a conversion run.
// They can be loaded from a JSON file, in which case command line flags override the file.
type Options struct {
	SoloPath     string `json:"soloPath"`     // Root of the SOLO dataset (contains metadata.json)
	OutputPath   string `json:"outputPath"`   // Directory that will receive yolo, yolo_1, ...
	Task         string `json:"task"`         // classify, detect, segment, pose
	VerifyImages bool   `json:"verifyImages"` // Warn when an image's header disagrees with its capture
	JournalPath  string `json:"journalPath"`  // Optional sqlite file that records runs and skipped frames
}

func LoadOptions(filename string) (*Options, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	opt := &Options{}
	if err := json.Unmarshal(raw, opt); err != nil {
		return nil, fmt.Errorf("Error loading as JSON %v: %w", filename, err)
	}
	return opt, nil
}

// Merge overwrites the fields of o with the non-empty fields of overrides
func (o *Options) Merge(overrides Options) {
	if overrides.SoloPath != "" {
		o.SoloPath = overrides.SoloPath
	}
	if overrides.OutputPath != "" {
		o.OutputPath = overrides.OutputPath
	}
	if overrides.Task != "" {
		o.Task = overrides.Task
	}
	if overrides.JournalPath != "" {
		o.JournalPath = overrides.JournalPath
	}
	o.VerifyImages = o.VerifyImages || overrides.VerifyImages
}

// Validate checks the task and both paths.
// On success, the returned copy holds the sanitized paths and the parsed task.
func (o *Options) Validate() (*Options, yolo.Task, error) {
	task, err := yolo.ParseTask(o.Task)
	if err != nil {
		return nil, 0, err
	}
	if err := task.Check(); err != nil {
		return nil, 0, err
	}
	clean := *o
	if clean.SoloPath, err = SanitizePath(o.SoloPath); err != nil {
		return nil, 0, fmt.Errorf("SOLO path: %w", err)
	}
	if clean.OutputPath, err = SanitizePath(o.OutputPath); err != nil {
		return nil, 0, fmt.Errorf("Output path: %w", err)
	}
	clean.Task = task.String()
	return &clean, task, nil
}
