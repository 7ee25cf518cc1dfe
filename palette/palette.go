/*
Package palette implements colour quantization for seven colour ACeP
electronic paper panels.

Every pixel is mapped onto the fixed Panel palette, optionally with
Floyd-Steinberg error diffusion.
*/
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// Panel is the fixed palette of the display. The order is significant, the
// nearest colour search prefers lower indices, so the duplicate black at
// index 4 is never selected.
var Panel = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff}, // black
	color.RGBA{0xff, 0xff, 0xff, 0xff}, // white
	color.RGBA{0xff, 0xff, 0x00, 0xff}, // yellow
	color.RGBA{0xff, 0x00, 0x00, 0xff}, // red
	color.RGBA{0x00, 0x00, 0x00, 0xff}, // black
	color.RGBA{0x00, 0x00, 0xff, 0xff}, // blue
	color.RGBA{0x00, 0xff, 0x00, 0xff}, // green
}

// Names holds a human readable name for each entry in Panel.
var Names = [...]string{"black", "white", "yellow", "red", "black", "blue", "green"}

// Size is the number of entries in Panel.
const Size = 7

// rgb is Panel unpacked into 8-bit channels for the inner loops.
var rgb = func() (t [Size][3]int32) {
	for i, c := range Panel {
		r, g, b, _ := c.RGBA()
		t[i] = [3]int32{int32(r >> 8), int32(g >> 8), int32(b >> 8)}
	}
	return
}()

// Dither selects the error diffusion applied while quantizing.
type Dither int

const (
	// None maps every pixel to its nearest colour independently.
	None Dither = iota
	// FloydSteinberg diffuses the quantization error onto neighbouring
	// pixels in raster order.
	FloydSteinberg
)

// ErrUnsupportedDither is returned for a Dither value other than None or
// FloydSteinberg.
var ErrUnsupportedDither = errors.New("palette: unsupported dither mode")

// Valid reports whether d is a known dither mode.
func (d Dither) Valid() bool {
	return d == None || d == FloydSteinberg
}

func (d Dither) String() string {
	switch d {
	case None:
		return "none"
	case FloydSteinberg:
		return "floyd-steinberg"
	default:
		return fmt.Sprintf("Dither(%d)", int(d))
	}
}

// ParseDither accepts the names returned by String as well as the legacy
// numeric values 0 and 3.
func ParseDither(s string) (Dither, error) {
	switch strings.ToLower(s) {
	case "none", "0":
		return None, nil
	case "floyd-steinberg", "floydsteinberg", "fs", "3":
		return FloydSteinberg, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnsupportedDither, s)
	}
}

// Nearest returns the index in Panel closest to the given 8-bit colour.
func Nearest(r, g, b uint8) int {
	return nearest(float64(r), float64(g), float64(b))
}

func nearest(r, g, b float64) int {
	best, bestSum := 0, float64(-1)
	for i, c := range rgb {
		dr, dg, db := r-float64(c[0]), g-float64(c[1]), b-float64(c[2])
		sum := dr*dr + dg*dg + db*db
		// Strictly less keeps the lowest index on a tie
		if bestSum < 0 || sum < bestSum {
			best, bestSum = i, sum
		}
	}
	return best
}
