package solo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	MetadataFilename              = "metadata.json"
	AnnotationDefinitionsFilename = "annotation_definitions.json"
	SequencePattern               = "sequence.*"
	FramePattern                  = "step*.frame_data.json"
)

// FrameFile is a frame_data.json file that has been found, but not yet decoded
type FrameFile struct {
	Sequence int    // Index of the sequence that holds this frame
	Index    int    // Step number from the filename, or -1
	Path     string // Full path
}

// Sequence is a sequence.<N> directory
type Sequence struct {
	Index  int // N from the directory name, or -1
	Path   string
	Frames []FrameFile
}

// Index is the ordered list of all sequences and frames in a SOLO dataset
type Index struct {
	Root      string
	Sequences []Sequence
}

// namePattern matches a glob with a single '*', where the '*' is an integer index
type namePattern struct {
	glob string
	re   *regexp.Regexp
}

var sequenceName = newNamePattern(SequencePattern)
var frameName = newNamePattern(FramePattern)

var namePatterns = map[string]*namePattern{
	SequencePattern: sequenceName,
	FramePattern:    frameName,
}

func newNamePattern(glob string) *namePattern {
	before, after, _ := strings.Cut(glob, "*")
	return &namePattern{
		glob: glob,
		re:   regexp.MustCompile(`^` + regexp.QuoteMeta(before) + `(\d+)` + regexp.QuoteMeta(after) + `$`),
	}
}

func (p *namePattern) matchGlob(name string) bool {
	ok, _ := filepath.Match(p.glob, name)
	return ok
}

// Returns -1 if the name doesn't match
func (p *namePattern) index(name string) int {
	m := p.re.FindStringSubmatch(name)
	if m == nil {
		return -1
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return idx
}

// IndexFromName extracts the integer that takes the place of '*' in pattern.
// For example, IndexFromName("sequence.12", "sequence.*") is 12.
// If the name doesn't match the pattern, the result is -1.
// NOTE: -1 sorts before every valid index, so a badly named entry ends up first.
func IndexFromName(name, pattern string) int {
	p := namePatterns[pattern]
	if p == nil {
		p = newNamePattern(pattern)
	}
	return p.index(filepath.Base(name))
}

// FindSequences returns the sequence.* directories inside root, ordered by index.
// The Frames of each sequence are not populated.
func FindSequences(root string) ([]Sequence, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("Failed to read dataset directory '%v': %w", root, err)
	}
	seqs := []Sequence{}
	for _, e := range entries {
		if !sequenceName.matchGlob(e.Name()) || !isDir(root, e) {
			continue
		}
		seqs = append(seqs, Sequence{
			Index: sequenceName.index(e.Name()),
			Path:  filepath.Join(root, e.Name()),
		})
	}
	sort.SliceStable(seqs, func(i, j int) bool {
		if seqs[i].Index != seqs[j].Index {
			return seqs[i].Index < seqs[j].Index
		}
		return seqs[i].Path < seqs[j].Path
	})
	return seqs, nil
}

// FindFrames returns the step*.frame_data.json files inside a sequence directory, ordered by step
func FindFrames(seq Sequence) ([]FrameFile, error) {
	entries, err := os.ReadDir(seq.Path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read sequence directory '%v': %w", seq.Path, err)
	}
	frames := []FrameFile{}
	for _, e := range entries {
		if !frameName.matchGlob(e.Name()) || isDir(seq.Path, e) {
			continue
		}
		frames = append(frames, FrameFile{
			Sequence: seq.Index,
			Index:    frameName.index(e.Name()),
			Path:     filepath.Join(seq.Path, e.Name()),
		})
	}
	sort.SliceStable(frames, func(i, j int) bool {
		if frames[i].Index != frames[j].Index {
			return frames[i].Index < frames[j].Index
		}
		return frames[i].Path < frames[j].Path
	})
	return frames, nil
}

// IndexDataset finds all sequences, and all frames inside them
func IndexDataset(root string) (*Index, error) {
	seqs, err := FindSequences(root)
	if err != nil {
		return nil, err
	}
	x := &Index{
		Root:      root,
		Sequences: seqs,
	}
	if err := x.FindFrames(); err != nil {
		return nil, err
	}
	return x, nil
}

// FindFrames populates the Frames of every sequence
func (x *Index) FindFrames() error {
	for i := range x.Sequences {
		frames, err := FindFrames(x.Sequences[i])
		if err != nil {
			return err
		}
		x.Sequences[i].Frames = frames
	}
	return nil
}

func (x *Index) FrameCount() int {
	n := 0
	for _, s := range x.Sequences {
		n += len(s.Frames)
	}
	return n
}

// Frames returns all frames, ordered by sequence and then by step
func (x *Index) Frames() []FrameFile {
	all := make([]FrameFile, 0, x.FrameCount())
	for _, s := range x.Sequences {
		all = append(all, s.Frames...)
	}
	return all
}

// Follows symlinks
func isDir(parent string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	st, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && st.IsDir()
}
