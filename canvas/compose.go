package canvas

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// FitMode controls how a source image is fitted onto the canvas.
type FitMode int

const (
	// Cover scales the source until it covers the whole canvas, cropping
	// whatever overflows either side of the centre.
	Cover FitMode = iota
	// Contain scales the source until it fits entirely within the canvas
	// and pads the remainder with white.
	Contain
)

// Valid reports whether f is a known fit mode.
func (f FitMode) Valid() bool {
	return f == Cover || f == Contain
}

func (f FitMode) String() string {
	switch f {
	case Cover:
		return "cover"
	case Contain:
		return "contain"
	default:
		return fmt.Sprintf("FitMode(%d)", int(f))
	}
}

// ParseFitMode converts a name into a FitMode. Besides the names returned by
// String, "scale" is accepted for Cover and "cut" for Contain.
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(s) {
	case "cover", "scale":
		return Cover, nil
	case "contain", "cut", "pad":
		return Contain, nil
	default:
		return Cover, fmt.Errorf("%w: %q", ErrUnsupportedFitMode, s)
	}
}

// Scaling into a destination rectangle allocates in proportion to its full
// size, placements larger than this multiple of the canvas area are
// resampled with an affine transform that only visits visible pixels.
const maxScaleFactor = 4

// Catmull-Rom is the bicubic filter.
var interpolator = xdraw.CatmullRom

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func scale(n int, ratio float64) int {
	v := int(math.Round(float64(n) * ratio))
	if v < 1 {
		v = 1
	}
	return v
}

// Placement returns where a source image of sw by sh pixels ends up on a
// canvas of the target size once resized according to fit. The rectangle
// may extend beyond the canvas for Cover; for Contain it never does.
func Placement(sw, sh int, target Size, fit FitMode) (image.Rectangle, error) {
	if sw <= 0 || sh <= 0 || target.Width <= 0 || target.Height <= 0 {
		return image.Rectangle{}, ErrInvalidGeometry
	}

	fx := float64(target.Width) / float64(sw)
	fy := float64(target.Height) / float64(sh)

	var ratio float64
	switch fit {
	case Cover:
		ratio = math.Max(fx, fy)
	case Contain:
		ratio = math.Min(fx, fy)
	default:
		return image.Rectangle{}, ErrUnsupportedFitMode
	}

	w, h := scale(sw, ratio), scale(sh, ratio)
	x := floorDiv(target.Width-w, 2)
	y := floorDiv(target.Height-h, 2)

	return image.Rect(x, y, x+w, y+h), nil
}

// Compose resizes src according to fit and centres it on a white canvas of
// the target size. The returned image always has exactly the target
// dimensions with its origin at (0, 0). Translucent source pixels are
// blended over the white background.
func Compose(src image.Image, target Size, fit FitMode) (*image.RGBA, error) {
	sb := src.Bounds()

	dr, err := Placement(sb.Dx(), sb.Dy(), target, fit)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	if int64(dr.Dx())*int64(dr.Dy()) <= maxScaleFactor*int64(target.Width)*int64(target.Height) {
		interpolator.Scale(dst, dr, src, sb, xdraw.Over, nil)
		return dst, nil
	}

	sx := float64(dr.Dx()) / float64(sb.Dx())
	sy := float64(dr.Dy()) / float64(sb.Dy())
	s2d := f64.Aff3{
		sx, 0, float64(dr.Min.X) - sx*float64(sb.Min.X),
		0, sy, float64(dr.Min.Y) - sy*float64(sb.Min.Y),
	}
	interpolator.Transform(dst, s2d, src, sb, xdraw.Over, nil)

	return dst, nil
}
