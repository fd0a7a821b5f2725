package yolo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	b, err := r.Normalize(100, 200)
	require.NoError(t, err)
	require.Equal(t, Box{CX: 0.25, CY: 0.2, Width: 0.3, Height: 0.2}, b)

	// Whole image
	b, err = Rect{X: 0, Y: 0, Width: 640, Height: 480}.Normalize(640, 480)
	require.NoError(t, err)
	require.Equal(t, Box{CX: 0.5, CY: 0.5, Width: 1, Height: 1}, b)
}

func TestNormalizeNotClamped(t *testing.T) {
	r := Rect{X: 90, Y: -10, Width: 20, Height: 20}
	require.False(t, r.Inside(100, 100))
	b, err := r.Normalize(100, 100)
	require.NoError(t, err)
	require.InDelta(t, 1.0, b.CX, 1e-12)
	require.InDelta(t, 0.0, b.CY, 1e-12)
	require.Greater(t, b.CX+b.Width/2, 1.0)
}

func TestNormalizeZeroImage(t *testing.T) {
	r := Rect{X: 1, Y: 1, Width: 2, Height: 2}
	_, err := r.Normalize(0, 100)
	require.ErrorIs(t, err, ErrInvalidImageSize)
	_, err = r.Normalize(100, 0)
	require.ErrorIs(t, err, ErrInvalidImageSize)
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	cx, cy := r.Center()
	require.Equal(t, 25.0, cx)
	require.Equal(t, 40.0, cy)
	require.True(t, r.Inside(40, 60))
	require.False(t, r.Inside(39, 60))
}
