package yolo

import "errors"

var ErrInvalidImageSize = errors.New("invalid image size")

// Rect is an axis aligned box in pixel space.
// X,Y is the top-left corner, and Y points down (OpenCV convention).
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box is a YOLO box, relative to the image size. CX,CY is the center of the box.
type Box struct {
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Center() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Returns true if the rectangle lies inside an image of the given size
func (r Rect) Inside(imageWidth, imageHeight float64) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= imageWidth && r.Y+r.Height <= imageHeight
}

// Normalize converts a pixel box into YOLO's center-relative format.
// The result is not clamped, so a box that hangs over the image edge produces values outside [0,1].
func (r Rect) Normalize(imageWidth, imageHeight float64) (Box, error) {
	if imageWidth <= 0 || imageHeight <= 0 {
		return Box{}, ErrInvalidImageSize
	}
	cx, cy := r.Center()
	return Box{
		CX:     cx / imageWidth,
		CY:     cy / imageHeight,
		Width:  r.Width / imageWidth,
		Height: r.Height / imageHeight,
	}, nil
}
