package diagram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PointsToDisplay converts renderer point units (1/72 inch) into host
// display units. It approximates 96/72.
const PointsToDisplay = 1.33

// ErrNoSize is returned when a graphic does not carry a readable intrinsic size
var ErrNoSize = errors.New("graphic has no intrinsic size")

// Size is a width/height pair in display units unless stated otherwise
type Size struct {
	Width  float64
	Height float64
}

// Scale multiplies both dimensions by f
func (s Size) Scale(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// ParsePoints reads a length in points such as "62pt". A bare number is
// taken to be in points as well.
func ParsePoints(v string) (float64, error) {
	s := strings.TrimSpace(v)
	s = strings.TrimSuffix(s, "pt")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad length %q", ErrNoSize, v)
	}
	return f, nil
}

// ToDisplay converts a point length to display units
func ToDisplay(points float64) float64 {
	return points * PointsToDisplay
}

// Fit scales intrinsic so it fits inside box, keeping the aspect ratio.
// Graphics are only ever shrunk: if the graphic already fits, or both
// ratios are equal, the intrinsic size is returned unchanged.
func Fit(intrinsic, box Size) Size {
	widthRatio := box.Width / intrinsic.Width
	heightRatio := box.Height / intrinsic.Height

	switch {
	case widthRatio < heightRatio && widthRatio < 1:
		return intrinsic.Scale(widthRatio)
	case heightRatio < widthRatio && heightRatio < 1:
		return intrinsic.Scale(heightRatio)
	default:
		return intrinsic
	}
}
