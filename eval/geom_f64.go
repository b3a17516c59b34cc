package eval

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedBox is returned when box corners are out of order or not finite
	ErrMalformedBox = errors.New("malformed box")
)

// Box is an axis-aligned bounding box given by its min corner (X1, Y1) and max corner (X2, Y2).
// Coordinates may be in any system (pixels, normalized) as long as both operands of an operation share it.
type Box struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

func NewBox(x1, y1, x2, y2 float64) Box {
	return Box{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}

// BoxFromYXYX builds a box from [ymin, xmin, ymax, xmax] as produced by TF object detection models
func BoxFromYXYX(coords [4]float64) Box {
	return Box{
		X1: coords[1],
		Y1: coords[0],
		X2: coords[3],
		Y2: coords[2],
	}
}

// Width returns box's extent along X axis
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns box's extent along Y axis
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// Area returns box's area. Malformed boxes may give negative values
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// Validate checks that box is well-ordered and has finite coordinates
func (b Box) Validate() error {
	for _, v := range [4]float64{b.X1, b.Y1, b.X2, b.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrMalformedBox, "non-finite coordinate in [%v, %v, %v, %v]", b.X1, b.Y1, b.X2, b.Y2)
		}
	}
	if b.X1 > b.X2 || b.Y1 > b.Y2 {
		return errors.Wrapf(ErrMalformedBox, "corners out of order in [%v, %v, %v, %v]", b.X1, b.Y1, b.X2, b.Y2)
	}
	return nil
}

// Rectangle is a box defined by its top-left corner and size (e.g. COCO's [x, y, w, h])
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func NewRect(x, y, width, height float64) Rectangle {
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// Normalized converts rectangle to corner form relative to the image size
func (r Rectangle) Normalized(imgWidth, imgHeight float64) Box {
	return Box{
		X1: r.X / imgWidth,
		Y1: r.Y / imgHeight,
		X2: r.X/imgWidth + r.Width/imgWidth,
		Y2: r.Y/imgHeight + r.Height/imgHeight,
	}
}

// IntervalOverlap returns length of overlap between closed intervals [aFrom, aTo] and [bFrom, bTo].
// Both intervals are expected to be well-ordered.
func IntervalOverlap(aFrom, aTo, bFrom, bTo float64) float64 {
	// A contains B
	if aFrom <= bFrom && aTo >= bTo {
		return bTo - bFrom
	}
	// B contains A
	if bFrom <= aFrom && bTo >= aTo {
		return aTo - aFrom
	}
	// A overlaps start of B
	if aFrom <= bFrom && aTo >= bFrom {
		return aTo - bFrom
	}
	// B overlaps start of A
	if bFrom <= aFrom && bTo >= aFrom {
		return bTo - aFrom
	}
	return 0
}

// BoxOverlap returns area of intersection of two boxes
func BoxOverlap(b1, b2 Box) float64 {
	overlapX := IntervalOverlap(b1.X1, b1.X2, b2.X1, b2.X2)
	overlapY := IntervalOverlap(b1.Y1, b1.Y2, b2.Y1, b2.Y2)
	return overlapX * overlapY
}

// IoU calculates Intersection over Union between two boxes.
// When union is not positive (both boxes have zero area, or input is malformed) IoU is 0.
func IoU(b1, b2 Box) float64 {
	intersection := BoxOverlap(b1, b2)
	union := b1.Area() + b2.Area() - intersection
	if union <= 0 {
		return 0.0
	}
	return intersection / union
}
