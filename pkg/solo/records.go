package solo

import (
	"encoding/json"
	"fmt"
	"os"
)

// Type tags of the records that we understand
const (
	TagRGBCamera     = "type.unity.com/unity.solo.RGBCamera"
	TagBoundingBox2D = "type.unity.com/unity.solo.BoundingBox2DAnnotation"
)

// Any tag that is not in these registries is a decode error
var captureTypes = map[string]func() Capture{
	TagRGBCamera: func() Capture { return &RGBCapture{} },
}

var annotationTypes = map[string]func() Annotation{
	TagBoundingBox2D: func() Annotation { return &BoundingBox2DAnnotation{} },
}

// DecodeCapture decodes a single capture object, choosing the variant from its @type
func DecodeCapture(raw []byte) (Capture, error) {
	return decodeCapture(raw, "")
}

// DecodeAnnotation decodes a single annotation object, choosing the variant from its @type
func DecodeAnnotation(raw []byte) (Annotation, error) {
	return decodeAnnotation(raw, "")
}

func decodeCapture(raw []byte, path string) (Capture, error) {
	o, err := parseObject(raw, "capture", path)
	if err != nil {
		return nil, err
	}
	tag, err := o.readTag()
	if err != nil {
		return nil, err
	}
	create, ok := captureTypes[tag]
	if !ok {
		return nil, o.newError(typeField, fmt.Errorf("%w '%v'", ErrUnknownType, tag))
	}
	c := create()
	c.decode(o)
	if o.err != nil {
		return nil, o.err
	}
	return c, nil
}

func decodeAnnotation(raw []byte, path string) (Annotation, error) {
	o, err := parseObject(raw, "annotation", path)
	if err != nil {
		return nil, err
	}
	tag, err := o.readTag()
	if err != nil {
		return nil, err
	}
	create, ok := annotationTypes[tag]
	if !ok {
		return nil, o.newError(typeField, fmt.Errorf("%w '%v'", ErrUnknownType, tag))
	}
	a := create()
	a.decode(o)
	if o.err != nil {
		return nil, o.err
	}
	return a, nil
}

func (c *CaptureBase) decode(o *object) {
	c.Type = o.tag
	c.ID = get[string](o, "id", true)
	c.Description = get[string](o, "description", false)
	vector(o, "position", c.Position[:], false)
	vector(o, "rotation", c.Rotation[:], false)
	vector(o, "velocity", c.Velocity[:], false)
	vector(o, "acceleration", c.Acceleration[:], false)
	for i, raw := range get[[]json.RawMessage](o, "annotations", false) {
		a, err := decodeAnnotation(raw, indexPath(o.fieldPath("annotations"), i))
		if err != nil {
			o.setErr(err)
			return
		}
		c.Annotations = append(c.Annotations, a)
	}
}

func (c *RGBCapture) decode(o *object) {
	c.CaptureBase.decode(o)
	c.Filename = get[string](o, "filename", false)
	c.ImageFormat = get[string](o, "imageFormat", false)
	vector(o, "dimension", c.Dimension[:], true)
	c.Projection = get[string](o, "projection", false)
	c.Matrix = get[[]float64](o, "matrix", false)
}

func (a *AnnotationBase) decode(o *object) {
	a.Type = o.tag
	a.ID = get[string](o, "id", true)
	a.SensorID = get[string](o, "sensorId", true)
	a.Description = get[string](o, "description", true)
}

func (a *BoundingBox2DAnnotation) decode(o *object) {
	a.AnnotationBase.decode(o)
	values := get[[]json.RawMessage](o, "values", true)
	if o.err != nil {
		return
	}
	a.Values = make([]BoxValue, 0, len(values))
	for i, raw := range values {
		v, err := decodeBoxValue(raw, indexPath(o.fieldPath("values"), i), o.tag)
		if err != nil {
			o.setErr(err)
			return
		}
		a.Values = append(a.Values, v)
	}
}

func decodeBoxValue(raw []byte, path, tag string) (BoxValue, error) {
	v := BoxValue{}
	o, err := parseObject(raw, "annotation", path)
	if err != nil {
		return v, err
	}
	o.tag = tag
	v.InstanceID = get[int](o, "instanceId", true)
	v.LabelID = get[int](o, "labelId", true)
	v.LabelName = get[string](o, "labelName", true)
	vector(o, "origin", v.Origin[:], true)
	vector(o, "dimension", v.Dimension[:], true)
	return v, o.err
}

// DecodeFrame decodes the contents of a step<N>.frame_data.json file.
// A missing or null "captures" field produces a frame with no captures.
func DecodeFrame(raw []byte) (*Frame, error) {
	o, err := parseObject(raw, "frame", "")
	if err != nil {
		return nil, err
	}
	f := &Frame{}
	f.Frame = get[int](o, "frame", false)
	f.Sequence = get[int](o, "sequence", false)
	f.Step = get[int](o, "step", false)
	f.Timestamp = get[float64](o, "timestamp", false)
	for i, craw := range get[[]json.RawMessage](o, "captures", false) {
		c, err := decodeCapture(craw, indexPath("captures", i))
		if err != nil {
			return nil, err
		}
		f.Captures = append(f.Captures, c)
	}
	if o.err != nil {
		return nil, o.err
	}
	return f, nil
}

// DecodeMetadata decodes the contents of metadata.json
func DecodeMetadata(raw []byte) (*Metadata, error) {
	o, err := parseObject(raw, "metadata", "")
	if err != nil {
		return nil, err
	}
	m := &Metadata{}
	m.UnityVersion = get[string](o, "unityVersion", false)
	m.PerceptionVersion = get[string](o, "perceptionVersion", false)
	m.RenderPipeline = get[string](o, "renderPipeline", false)
	m.SimulationStartTime = get[string](o, "simulationStartTime", false)
	m.SimulationEndTime = get[string](o, "simulationEndTime", false)
	m.ScenarioRandomSeed = get[int64](o, "scenarioRandomSeed", false)
	m.ScenarioActiveRandomizers = get[[]string](o, "scenarioActiveRandomizers", false)
	m.TotalFrames = get[int](o, "totalFrames", true)
	m.TotalSequences = get[int](o, "totalSequences", true)
	m.Sensors = get[[]string](o, "sensors", false)
	m.MetricCollectors = get[[]string](o, "metricCollectors", false)
	m.Annotators = get[[]Annotator](o, "annotators", false)
	if o.err != nil {
		return nil, o.err
	}
	return m, nil
}

// DecodeAnnotationDefinition decodes the first definition in annotation_definitions.json.
// Only the first definition is decoded. The others may be of a different kind, with a
// different spec format, so we don't look inside them. count is the total number of definitions.
func DecodeAnnotationDefinition(raw []byte) (def *AnnotationDefinition, count int, err error) {
	o, err := parseObject(raw, "annotation definitions", "")
	if err != nil {
		return nil, 0, err
	}
	all := get[[]json.RawMessage](o, "annotationDefinitions", true)
	if o.err != nil {
		return nil, 0, o.err
	}
	if len(all) == 0 {
		return nil, 0, o.newError("annotationDefinitions", fmt.Errorf("%w: no annotation definitions", ErrMissingField))
	}

	d, err := parseObject(all[0], "annotation definition", "annotationDefinitions[0]")
	if err != nil {
		return nil, 0, err
	}
	if _, err := d.readTag(); err != nil {
		return nil, 0, err
	}
	def = &AnnotationDefinition{Type: d.tag}
	def.ID = get[string](d, "id", true)
	def.Description = get[string](d, "description", true)
	spec := get[[]json.RawMessage](d, "spec", true)
	for i, sraw := range spec {
		if d.err != nil {
			break
		}
		s, err := parseObject(sraw, "annotation definition", indexPath(d.fieldPath("spec"), i))
		if err != nil {
			return nil, 0, err
		}
		s.tag = d.tag
		ls := LabelSpec{
			LabelID:   get[int](s, "label_id", true),
			LabelName: get[string](s, "label_name", true),
		}
		if s.err != nil {
			return nil, 0, s.err
		}
		def.Spec = append(def.Spec, ls)
	}
	if d.err != nil {
		return nil, 0, d.err
	}
	return def, len(all), nil
}

// ReadFrame reads and decodes a frame_data.json file
func ReadFrame(filename string) (*Frame, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return DecodeFrame(raw)
}

// ReadMetadata reads and decodes metadata.json
func ReadMetadata(filename string) (*Metadata, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return DecodeMetadata(raw)
}

// ReadAnnotationDefinition reads annotation_definitions.json and decodes the first definition
func ReadAnnotationDefinition(filename string) (*AnnotationDefinition, int, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, err
	}
	return DecodeAnnotationDefinition(raw)
}
