package solo

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const testFrame = `{
  "frame": 3,
  "sequence": 1,
  "step": 3,
  "timestamp": 0.05,
  "captures": [
    {
      "@type": "type.unity.com/unity.solo.RGBCamera",
      "id": "camera",
      "description": "main camera",
      "position": [0.0, 1.0, -10.0],
      "rotation": [0.0, 0.0, 0.0, 1.0],
      "velocity": [0.0, 0.0, 0.0],
      "acceleration": [0.0, 0.0, 0.0],
      "filename": "step3.camera.png",
      "imageFormat": "Png",
      "dimension": [100.0, 200.0],
      "projection": "Perspective",
      "matrix": [1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, -1.0],
      "someFutureField": {"a": 1},
      "annotations": [
        {
          "@type": "type.unity.com/unity.solo.BoundingBox2DAnnotation",
          "id": "bounding box",
          "sensorId": "camera",
          "description": "Produces 2D bounding box annotations",
          "values": [
            {
              "instanceId": 7,
              "labelId": 1,
              "labelName": "pedestrian",
              "origin": [10.0, 20.0],
              "dimension": [30.0, 40.0]
            }
          ]
        }
      ]
    }
  ]
}`

func TestDecodeFrame(t *testing.T) {
	f, err := DecodeFrame([]byte(testFrame))
	require.NoError(t, err)
	require.Equal(t, 3, f.Frame)
	require.Equal(t, 1, f.Sequence)
	require.Equal(t, 3, f.Step)
	require.InDelta(t, 0.05, f.Timestamp, 1e-9)
	require.Len(t, f.Captures, 1)

	expect := &RGBCapture{
		CaptureBase: CaptureBase{
			Type:         TagRGBCamera,
			ID:           "camera",
			Description:  "main camera",
			Position:     Vec3{0, 1, -10},
			Rotation:     Vec4{0, 0, 0, 1},
			Velocity:     Vec3{},
			Acceleration: Vec3{},
			Annotations: []Annotation{
				&BoundingBox2DAnnotation{
					AnnotationBase: AnnotationBase{
						Type:        TagBoundingBox2D,
						ID:          "bounding box",
						SensorID:    "camera",
						Description: "Produces 2D bounding box annotations",
					},
					Values: []BoxValue{
						{InstanceID: 7, LabelID: 1, LabelName: "pedestrian", Origin: Vec2{10, 20}, Dimension: Vec2{30, 40}},
					},
				},
			},
		},
		Filename:    "step3.camera.png",
		ImageFormat: "Png",
		Dimension:   Vec2{100, 200},
		Projection:  "Perspective",
		Matrix:      []float64{1, 0, 0, 0, 1, 0, 0, 0, -1},
	}
	rgb := f.FirstRGBCapture()
	require.NotNil(t, rgb)
	if diff := cmp.Diff(expect, rgb); diff != "" {
		t.Errorf("Decoded capture mismatch (-want +got):\n%v", diff)
	}

	bb := rgb.FirstBoundingBox2D()
	require.NotNil(t, bb)
	require.Equal(t, 1, bb.Values[0].LabelID)
}

func TestDecodeFrameWithoutCaptures(t *testing.T) {
	f, err := DecodeFrame([]byte(`{"frame": 0, "sequence": 0, "step": 0, "timestamp": 0}`))
	require.NoError(t, err)
	require.Empty(t, f.Captures)
	require.Nil(t, f.FirstRGBCapture())

	f, err = DecodeFrame([]byte(`{"frame": 0, "captures": null}`))
	require.NoError(t, err)
	require.Empty(t, f.Captures)
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{", "[1,2]", "null", `"frame"`} {
		_, err := DecodeFrame([]byte(raw))
		require.ErrorIs(t, err, ErrMalformed, "input %q", raw)
		var de *DecodeError
		require.True(t, errors.As(err, &de))
		require.Equal(t, "frame", de.Record)
	}
}

func TestUnknownCaptureType(t *testing.T) {
	_, err := DecodeCapture([]byte(`{"@type": "vendor.ns.LidarSensor", "id": "lidar"}`))
	require.ErrorIs(t, err, ErrUnknownType)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "vendor.ns.LidarSensor", de.Tag)
	require.Contains(t, err.Error(), "vendor.ns.LidarSensor")
}

func TestUnknownAnnotationType(t *testing.T) {
	raw := `{"captures": [{
		"@type": "type.unity.com/unity.solo.RGBCamera", "id": "camera", "dimension": [10, 10],
		"annotations": [
			{"@type": "type.unity.com/unity.solo.BoundingBox2DAnnotation", "id": "bb", "sensorId": "camera", "description": "", "values": []},
			{"@type": "type.unity.com/unity.solo.KeypointAnnotation", "id": "kp", "sensorId": "camera", "description": ""}
		]
	}]}`
	_, err := DecodeFrame([]byte(raw))
	require.ErrorIs(t, err, ErrUnknownType)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "annotation", de.Record)
	require.Equal(t, "type.unity.com/unity.solo.KeypointAnnotation", de.Tag)
	require.Equal(t, "captures[0].annotations[1].@type", de.Field)
}

func TestBadTypeTag(t *testing.T) {
	_, err := DecodeCapture([]byte(`{"id": "camera"}`))
	require.ErrorIs(t, err, ErrMissingField)
	_, err = DecodeCapture([]byte(`{"@type": null, "id": "camera"}`))
	require.ErrorIs(t, err, ErrMissingField)
	_, err = DecodeAnnotation([]byte(`{"@type": 5}`))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestMissingRequiredField(t *testing.T) {
	// sensorId is required on annotations
	_, err := DecodeAnnotation([]byte(`{"@type": "type.unity.com/unity.solo.BoundingBox2DAnnotation", "id": "bb", "description": "", "values": []}`))
	require.ErrorIs(t, err, ErrMissingField)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "sensorId", de.Field)

	// labelName is required on box values
	_, err = DecodeAnnotation([]byte(`{"@type": "type.unity.com/unity.solo.BoundingBox2DAnnotation", "id": "bb", "sensorId": "c", "description": "",
		"values": [{"instanceId": 1, "labelId": 1, "origin": [0, 0], "dimension": [1, 1]}]}`))
	require.ErrorIs(t, err, ErrMissingField)
	require.True(t, errors.As(err, &de))
	require.Equal(t, "values[0].labelName", de.Field)

	// RGB captures must declare their image size
	_, err = DecodeCapture([]byte(`{"@type": "type.unity.com/unity.solo.RGBCamera", "id": "camera"}`))
	require.ErrorIs(t, err, ErrMissingField)
}

func TestVectorLength(t *testing.T) {
	_, err := DecodeCapture([]byte(`{"@type": "type.unity.com/unity.solo.RGBCamera", "id": "camera", "dimension": [10, 10], "rotation": [0, 0, 1]}`))
	require.ErrorIs(t, err, ErrVectorLength)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "rotation", de.Field)
	require.Contains(t, err.Error(), "expected 4 components, got 3")

	_, err = DecodeCapture([]byte(`{"@type": "type.unity.com/unity.solo.RGBCamera", "id": "camera", "dimension": [10, 10, 10]}`))
	require.ErrorIs(t, err, ErrVectorLength)

	_, err = DecodeCapture([]byte(`{"@type": "type.unity.com/unity.solo.RGBCamera", "id": "camera", "dimension": ["a", "b"]}`))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeMetadata(t *testing.T) {
	m, err := DecodeMetadata([]byte(`{
		"unityVersion": "2022.3.4f1",
		"perceptionVersion": "1.0.0",
		"renderPipeline": "URP",
		"simulationStartTime": "2023/07/14 12:00:00",
		"scenarioRandomSeed": 539662031,
		"scenarioActiveRandomizers": ["BackgroundObjectPlacementRandomizer"],
		"totalFrames": 100,
		"totalSequences": 10,
		"sensors": ["camera"],
		"metricCollectors": [],
		"simulationEndTime": "2023/07/14 12:01:00",
		"annotators": [{"name": "bounding box", "type": "type.unity.com/unity.solo.BoundingBox2DAnnotation"}]
	}`))
	require.NoError(t, err)
	require.Equal(t, 100, m.TotalFrames)
	require.Equal(t, 10, m.TotalSequences)
	require.Equal(t, int64(539662031), m.ScenarioRandomSeed)
	require.Equal(t, []Annotator{{Name: "bounding box", Type: TagBoundingBox2D}}, m.Annotators)

	_, err = DecodeMetadata([]byte(`{"totalSequences": 10}`))
	require.ErrorIs(t, err, ErrMissingField)
}

func TestDecodeAnnotationDefinition(t *testing.T) {
	def, count, err := DecodeAnnotationDefinition([]byte(`{"annotationDefinitions": [
		{"@type": "type.unity.com/unity.solo.BoundingBox2DAnnotation", "id": "bounding box", "description": "boxes",
		 "spec": [{"label_id": 0, "label_name": "car"}, {"label_id": 1, "label_name": "pedestrian"}]},
		{"@type": "type.unity.com/unity.solo.KeypointAnnotation", "id": "keypoints", "description": "kp", "template": {}}
	]}`))
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, TagBoundingBox2D, def.Type)
	require.Equal(t, []LabelSpec{{LabelID: 0, LabelName: "car"}, {LabelID: 1, LabelName: "pedestrian"}}, def.Spec)

	_, _, err = DecodeAnnotationDefinition([]byte(`{"annotationDefinitions": []}`))
	require.ErrorIs(t, err, ErrMissingField)

	_, _, err = DecodeAnnotationDefinition([]byte(`{"annotationDefinitions": [{"@type": "x", "id": "a", "description": "", "spec": [{"label_id": 0}]}]}`))
	require.ErrorIs(t, err, ErrMissingField)
	require.Contains(t, err.Error(), "annotationDefinitions[0].spec[0].label_name")
}
