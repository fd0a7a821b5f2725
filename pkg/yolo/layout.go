package yolo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ManifestFilename = "dataset.yaml"

// Layout is the directory tree of a YOLO dataset:
//
//	<Root>/images/000000000000.png
//	<Root>/labels/000000000000.txt
//	<Root>/dataset.yaml
type Layout struct {
	Root string
}

// CreateLayout allocates a new output directory inside outputPath.
// The first candidate is "yolo", followed by "yolo_1", "yolo_2", etc.
// An existing directory is never reused, so a prior run is never overwritten.
func CreateLayout(outputPath string) (*Layout, error) {
	for i := 0; ; i++ {
		name := "yolo"
		if i != 0 {
			name = fmt.Sprintf("yolo_%d", i)
		}
		root := filepath.Join(outputPath, name)
		if _, err := os.Lstat(root); err == nil {
			continue
		}
		// Mkdir (not MkdirAll) so that we notice if somebody else created it in the meantime
		err := os.Mkdir(root, 0777)
		if errors.Is(err, os.ErrExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("Failed to create output directory '%v': %w", root, err)
		}
		layout := &Layout{Root: root}
		for _, sub := range []string{layout.ImagesDir(), layout.LabelsDir()} {
			if err := os.Mkdir(sub, 0777); err != nil {
				return nil, fmt.Errorf("Failed to create output directory '%v': %w", sub, err)
			}
		}
		return layout, nil
	}
}

func (l *Layout) ImagesDir() string {
	return filepath.Join(l.Root, "images")
}

func (l *Layout) LabelsDir() string {
	return filepath.Join(l.Root, "labels")
}

func (l *Layout) ManifestPath() string {
	return filepath.Join(l.Root, ManifestFilename)
}

// LabelPath returns labels/<index:012>.txt
func (l *Layout) LabelPath(index int) string {
	return filepath.Join(l.LabelsDir(), Stem(index)+".txt")
}

// ImagePath returns images/<index:012>.<ext>, with ext lowercased.
// ext may be given with or without a leading dot.
func (l *Layout) ImagePath(index int, ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return filepath.Join(l.ImagesDir(), Stem(index)+"."+ext)
}

// Stem is the shared filename stem of an image and its label file
func Stem(index int) string {
	return fmt.Sprintf("%012d", index)
}
