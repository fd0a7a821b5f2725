package solo

// Vec2 is read from a JSON array of exactly 2 numbers
type Vec2 [2]float64

// Vec3 is read from a JSON array of exactly 3 numbers
type Vec3 [3]float64

// Vec4 is read from a JSON array of exactly 4 numbers
type Vec4 [4]float64

func (v Vec2) X() float64 { return v[0] }
func (v Vec2) Y() float64 { return v[1] }

// Capture is one sensor's output for a frame.
// The set of implementations is closed. See captureTypes.
type Capture interface {
	Base() *CaptureBase
	decode(o *object)
}

// CaptureBase holds the fields common to all sensors
type CaptureBase struct {
	Type         string
	ID           string
	Description  string
	Position     Vec3 // meters, world space
	Rotation     Vec4 // quaternion
	Velocity     Vec3 // meters/second
	Acceleration Vec3 // meters/second^2
	Annotations  []Annotation
}

func (c *CaptureBase) Base() *CaptureBase {
	return c
}

// RGBCapture is the output of an RGB camera
type RGBCapture struct {
	CaptureBase
	Filename    string    // Image file, relative to the sequence directory
	ImageFormat string    // eg "Png"
	Dimension   Vec2      // Image size in pixels (width, height)
	Projection  string    // "perspective" or "orthographic"
	Matrix      []float64 // Projection matrix
}

// Annotation is ground truth attached to a capture.
// The set of implementations is closed. See annotationTypes.
type Annotation interface {
	Base() *AnnotationBase
	decode(o *object)
}

type AnnotationBase struct {
	Type        string
	ID          string
	SensorID    string
	Description string
}

func (a *AnnotationBase) Base() *AnnotationBase {
	return a
}

// BoundingBox2DAnnotation holds one 2D box per visible labeled instance.
// Boxes are in pixels, with the origin at the top left of the image.
type BoundingBox2DAnnotation struct {
	AnnotationBase
	Values []BoxValue
}

type BoxValue struct {
	InstanceID int
	LabelID    int
	LabelName  string
	Origin     Vec2 // Top left corner, pixels
	Dimension  Vec2 // Width, height, pixels
}

// Frame is one simulation step, read from step<N>.frame_data.json
type Frame struct {
	Frame     int
	Sequence  int
	Step      int
	Timestamp float64
	Captures  []Capture
}

// FirstRGBCapture returns the first RGB camera capture, or nil
func (f *Frame) FirstRGBCapture() *RGBCapture {
	for _, c := range f.Captures {
		if rgb, ok := c.(*RGBCapture); ok {
			return rgb
		}
	}
	return nil
}

// FirstBoundingBox2D returns the first 2D bounding box annotation of the capture, or nil
func (c *CaptureBase) FirstBoundingBox2D() *BoundingBox2DAnnotation {
	for _, a := range c.Annotations {
		if bb, ok := a.(*BoundingBox2DAnnotation); ok {
			return bb
		}
	}
	return nil
}

// Metadata is the dataset summary in metadata.json
type Metadata struct {
	UnityVersion              string
	PerceptionVersion         string
	RenderPipeline            string
	SimulationStartTime       string
	SimulationEndTime         string
	ScenarioRandomSeed        int64
	ScenarioActiveRandomizers []string
	TotalFrames               int
	TotalSequences            int
	Sensors                   []string
	MetricCollectors          []string
	Annotators                []Annotator
}

type Annotator struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AnnotationDefinition describes one annotator, including its label id -> name mapping
type AnnotationDefinition struct {
	Type        string
	ID          string
	Description string
	Spec        []LabelSpec
}

type LabelSpec struct {
	LabelID   int
	LabelName string
}
