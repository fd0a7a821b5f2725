// Package convert turns a SOLO dataset into a YOLO dataset.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/solo2yolo/pkg/iox"
	"github.com/cyclopcam/solo2yolo/pkg/journal"
	"github.com/cyclopcam/solo2yolo/pkg/perfstats"
	"github.com/cyclopcam/solo2yolo/pkg/solo"
	"github.com/cyclopcam/solo2yolo/pkg/yolo"
)

// Reasons for skipping a frame
const (
	ReasonNoCaptures  = "no reported captures"
	ReasonNoImageFile = "no associated image file"
	ReasonNoLabels    = "no reported labels"
)

// SkippedFrame is a frame that did not produce an image/label pair
type SkippedFrame struct {
	Index  int    // 1-based position of the frame, out of Result.FramesFound
	Path   string // frame_data.json file
	Reason string
	Err    error // nil for the plain "no captures/image/labels" reasons
}

// Result summarizes a conversion run
type Result struct {
	RunID           string
	Layout          *yolo.Layout
	Task            yolo.Task
	Sequences       int
	FramesFound     int
	FramesConverted int
	Skipped         []SkippedFrame
	Classes         []yolo.Class

	// Boxes that were written although they extend beyond the image edge
	BoxesOutsideImage int

	FindSequencesTime time.Duration
	FindFramesTime    time.Duration
	ConvertTime       time.Duration
	AverageFrameTime  time.Duration
}

// Converter runs a single conversion
type Converter struct {
	Log     logs.Log
	Options Options

	// Populated during Run
	task    yolo.Task
	journal *journal.Journal
	result  *Result
}

func NewConverter(log logs.Log, options Options) *Converter {
	return &Converter{
		Log:     log,
		Options: options,
	}
}

// Run converts the dataset described by options
func Run(log logs.Log, options Options) (*Result, error) {
	return NewConverter(log, options).Run()
}

// Run performs the conversion.
// On a fatal error, the partial Result is returned along with the error.
// An output directory that was already created is left in place.
func (c *Converter) Run() (*Result, error) {
	runID := journal.NewRunID()
	c.result = &Result{RunID: runID}
	c.Log = newRunLog(c.Log, runID)

	opt, task, err := c.Options.Validate()
	if err != nil {
		c.Log.Errorf("%v", err)
		return c.result, err
	}
	c.Options = *opt
	c.task = task
	c.result.Task = task

	if c.Options.JournalPath != "" {
		c.openJournal(runID)
		if c.journal != nil {
			defer c.journal.Close()
		}
	}

	err = c.convert()
	c.finishJournal(err)
	if err != nil {
		c.Log.Errorf("%v", err)
	}
	return c.result, err
}

func (c *Converter) convert() error {
	res := c.result
	soloPath := c.Options.SoloPath

	metadata, err := solo.ReadMetadata(filepath.Join(soloPath, solo.MetadataFilename))
	if err != nil {
		return fmt.Errorf("Failed to read %v: %w", solo.MetadataFilename, err)
	}
	definition, nDefinitions, err := solo.ReadAnnotationDefinition(filepath.Join(soloPath, solo.AnnotationDefinitionsFilename))
	if err != nil {
		return fmt.Errorf("Failed to read %v: %w", solo.AnnotationDefinitionsFilename, err)
	}
	if nDefinitions > 1 {
		c.Log.Warnf("Found %v annotation definitions. Only the first (%v) is used for class names", nDefinitions, definition.ID)
	}

	// Sequences
	c.Log.Infof("Finding sequence(s)")
	sw := perfstats.StartStopwatch()
	sequences, err := solo.FindSequences(soloPath)
	if err != nil {
		return err
	}
	res.FindSequencesTime = sw.Stop()
	res.Sequences = len(sequences)
	if err := c.reportCount("sequence", len(sequences), metadata.TotalSequences, res.FindSequencesTime); err != nil {
		return err
	}

	// Frames
	c.Log.Infof("Finding frame(s)")
	sw.Restart()
	index := &solo.Index{Root: soloPath, Sequences: sequences}
	if err := index.FindFrames(); err != nil {
		return err
	}
	frames := index.Frames()
	res.FindFramesTime = sw.Stop()
	res.FramesFound = len(frames)
	if err := c.reportCount("frame", len(frames), metadata.TotalFrames, res.FindFramesTime); err != nil {
		return err
	}

	c.Log.Infof("Creating YOLO directory")
	layout, err := yolo.CreateLayout(c.Options.OutputPath)
	if err != nil {
		return err
	}
	res.Layout = layout
	c.Log.Infof("Writing to %v", layout.Root)
	if c.journal != nil {
		if err := c.journal.SetYoloRoot(res.RunID, layout.Root); err != nil {
			c.Log.Warnf("Failed to update journal: %v", err)
		}
	}

	c.Log.Infof("Converting dataset format")
	sw.Restart()
	frameTime := perfstats.TimeAccumulator{}
	soloIndex := 0
	yoloIndex := 0
	for _, ff := range frames {
		soloIndex++
		start := time.Now()
		reason, err := c.convertFrame(layout, ff, yoloIndex)
		if reason != "" {
			c.skip(SkippedFrame{
				Index:  soloIndex,
				Path:   ff.Path,
				Reason: reason,
				Err:    err,
			})
			continue
		}
		frameTime.AddSample(time.Since(start))
		c.Log.Debugf("Processed frame %v out of %v", soloIndex, len(frames))
		yoloIndex++
	}
	res.FramesConverted = yoloIndex
	res.AverageFrameTime = frameTime.Average()

	c.Log.Infof("Creating %v", yolo.ManifestFilename)
	for _, s := range definition.Spec {
		res.Classes = append(res.Classes, yolo.Class{ID: s.LabelID, Name: s.LabelName})
	}
	if err := yolo.NewManifest(layout.Root, res.Classes).WriteFile(layout.ManifestPath()); err != nil {
		return err
	}

	res.ConvertTime = sw.Stop()
	c.Log.Infof("Converted %v of %v frame%v in %.3f ms (%.3f ms per frame)",
		res.FramesConverted, res.FramesFound, plural(res.FramesFound),
		perfstats.Milliseconds(res.ConvertTime), perfstats.Milliseconds(res.AverageFrameTime))
	return nil
}

// reportCount logs the number of sequences or frames found, and compares it to the metadata.
// Finding none is fatal. A mismatch is only a warning.
func (c *Converter) reportCount(noun string, found, expected int, elapsed time.Duration) error {
	if found == 0 {
		if noun == "sequence" {
			return fmt.Errorf("%w, aborting", ErrNoSequences)
		}
		return fmt.Errorf("%w, aborting", ErrNoFrames)
	}
	if found == expected {
		c.Log.Infof("Found %v %v%v in %.3f ms", found, noun, plural(found), perfstats.Milliseconds(elapsed))
	} else {
		c.Log.Warnf("Found %v %v%v in %.3f ms, expected %v", found, noun, plural(found), perfstats.Milliseconds(elapsed), expected)
	}
	return nil
}

// convertFrame writes the image/label pair for one frame.
// If the frame must be skipped, it returns a non-empty reason, and possibly the error behind it.
func (c *Converter) convertFrame(layout *yolo.Layout, ff solo.FrameFile, yoloIndex int) (string, error) {
	frame, err := solo.ReadFrame(ff.Path)
	if err != nil {
		return fmt.Sprintf("failed to decode: %v", err), err
	}
	if len(frame.Captures) == 0 {
		return ReasonNoCaptures, nil
	}
	capture := frame.FirstRGBCapture()
	if capture == nil {
		return "no RGB capture", nil
	}
	if capture.Filename == "" {
		return ReasonNoImageFile, nil
	}
	srcImage := filepath.Join(filepath.Dir(ff.Path), capture.Filename)
	if st, err := os.Stat(srcImage); err != nil || st.IsDir() {
		err = fmt.Errorf("%w: image file '%v' not found", ErrMissingAsset, srcImage)
		return err.Error(), err
	}

	labels, outside, err := c.labels(capture)
	if err != nil {
		return err.Error(), err
	}
	text := yolo.FormatLabels(labels)
	if text == "" {
		return ReasonNoLabels, nil
	}

	if c.Options.VerifyImages {
		for _, p := range checkImage(srcImage, capture) {
			c.Log.Warnf("%v: %v", srcImage, p)
		}
	}

	ext, err := imageExtension(srcImage, capture)
	if err != nil {
		return err.Error(), err
	}
	labelPath := layout.LabelPath(yoloIndex)
	imagePath := layout.ImagePath(yoloIndex, ext)
	if err := iox.WriteFileExclusive(labelPath, []byte(text)); err != nil {
		err = fmt.Errorf("Failed to write label file: %w", err)
		return err.Error(), err
	}
	if err := iox.CopyFile(imagePath, srcImage); err != nil {
		// Keep the images and labels directories paired
		os.Remove(labelPath)
		return err.Error(), err
	}
	if outside != 0 {
		// Written as is. YOLO tools clip or reject these themselves.
		c.Log.Warnf("%v: %v of %v boxes extend outside the %v x %v image", ff.Path, outside, len(labels), capture.Dimension.X(), capture.Dimension.Y())
		c.result.BoxesOutsideImage += outside
	}
	return "", nil
}

// labels converts the capture's annotations for the selected task.
// outside is the number of boxes that are not fully inside the image.
func (c *Converter) labels(capture *solo.RGBCapture) (labels []yolo.Label, outside int, err error) {
	switch c.task {
	case yolo.TaskDetect:
		return detectLabels(capture)
	}
	return nil, 0, c.task.Check()
}

// detectLabels produces one label per box of the first 2D bounding box annotation
func detectLabels(capture *solo.RGBCapture) ([]yolo.Label, int, error) {
	bb := capture.FirstBoundingBox2D()
	if bb == nil {
		return nil, 0, nil
	}
	outside := 0
	iw, ih := capture.Dimension.X(), capture.Dimension.Y()
	labels := make([]yolo.Label, 0, len(bb.Values))
	for _, v := range bb.Values {
		r := yolo.Rect{
			X:      v.Origin.X(),
			Y:      v.Origin.Y(),
			Width:  v.Dimension.X(),
			Height: v.Dimension.Y(),
		}
		box, err := r.Normalize(iw, ih)
		if err != nil {
			return nil, 0, err
		}
		if !r.Inside(iw, ih) {
			outside++
		}
		labels = append(labels, yolo.Label{Class: v.LabelID, Box: box})
	}
	return labels, outside, nil
}

func (c *Converter) skip(s SkippedFrame) {
	c.result.Skipped = append(c.result.Skipped, s)
	c.Log.Warnf("Skipped frame %v out of %v: %v", s.Index, c.result.FramesFound, s.Reason)
	if c.journal != nil {
		rel, err := filepath.Rel(c.Options.SoloPath, s.Path)
		if err != nil {
			rel = s.Path
		}
		if err := c.journal.RecordSkip(c.result.RunID, s.Index, filepath.ToSlash(rel), s.Reason); err != nil {
			c.Log.Warnf("Failed to record skipped frame in journal: %v", err)
		}
	}
}

func (c *Converter) openJournal(runID string) {
	j, err := journal.Open(c.Log, c.Options.JournalPath)
	if err != nil {
		c.Log.Warnf("Journal disabled: %v", err)
		return
	}
	run := &journal.Run{
		ID:         runID,
		SoloPath:   c.Options.SoloPath,
		OutputPath: c.Options.OutputPath,
		Task:       c.task.String(),
	}
	if err := j.BeginRun(run); err != nil {
		c.Log.Warnf("Journal disabled, failed to record run: %v", err)
		j.Close()
		return
	}
	c.journal = j
}

func (c *Converter) finishJournal(runErr error) {
	if c.journal == nil {
		return
	}
	r := c.result
	if err := c.journal.FinishRun(r.RunID, r.FramesFound, r.FramesConverted, len(r.Skipped), runErr); err != nil {
		c.Log.Warnf("Failed to update journal: %v", err)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
