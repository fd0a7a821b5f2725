package yolo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidTask = errors.New("invalid task")
var ErrTaskNotImplemented = errors.New("task not implemented")

// Task is the computer vision task that the converted dataset is intended for
type Task int

const (
	TaskClassify Task = iota
	TaskDetect
	TaskSegment
	TaskPose
)

// TaskNames are the names accepted by ParseTask, in Task order
var TaskNames = []string{"classify", "detect", "segment", "pose"}

func (t Task) String() string {
	if t < 0 || int(t) >= len(TaskNames) {
		return fmt.Sprintf("Task(%d)", int(t))
	}
	return TaskNames[t]
}

// Parse a task name (case insensitive)
func ParseTask(name string) (Task, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, tn := range TaskNames {
		if n == tn {
			return Task(i), nil
		}
	}
	return 0, fmt.Errorf("%w '%v' (expected one of %v)", ErrInvalidTask, name, strings.Join(TaskNames, ", "))
}

// Check returns nil if we know how to produce labels for this task
func (t Task) Check() error {
	switch t {
	case TaskDetect:
		return nil
	case TaskClassify, TaskSegment, TaskPose:
		return fmt.Errorf("%w: %v", ErrTaskNotImplemented, t)
	}
	return fmt.Errorf("%w: %v", ErrInvalidTask, t)
}

// Label is one object instance inside an image
type Label struct {
	Class int `json:"class"`
	Box   Box `json:"box"`
}

// Line returns the label in YOLO text format, without a trailing newline:
// "<class> <cx> <cy> <width> <height>"
func (l Label) Line() string {
	return strconv.Itoa(l.Class) + " " +
		formatFloat(l.Box.CX) + " " +
		formatFloat(l.Box.CY) + " " +
		formatFloat(l.Box.Width) + " " +
		formatFloat(l.Box.Height)
}

// FormatLabels produces the contents of a YOLO label file, one line per label.
// An empty list produces an empty string.
func FormatLabels(labels []Label) string {
	s := strings.Builder{}
	for _, l := range labels {
		s.WriteString(l.Line())
		s.WriteByte('\n')
	}
	return s.String()
}

// Plain decimal notation, shortest representation that round trips
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
