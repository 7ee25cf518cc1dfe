/*
Package canvas fits arbitrary source images onto the fixed size canvas of a
7.3 inch seven colour electronic paper panel.

The panel is 800 by 480 pixels and can be mounted either way up, so the
canvas is either landscape (800x480) or portrait (480x800).
*/
package canvas

import (
	"errors"
	"fmt"
	"strings"
)

const (
	longEdge  = 800
	shortEdge = 480
)

var (
	// ErrInvalidGeometry is returned for a source image with no pixels.
	ErrInvalidGeometry = errors.New("canvas: invalid source geometry")
	// ErrUnsupportedOrientation is returned for an unknown Orientation.
	ErrUnsupportedOrientation = errors.New("canvas: unsupported orientation")
	// ErrUnsupportedFitMode is returned for an unknown FitMode.
	ErrUnsupportedFitMode = errors.New("canvas: unsupported fit mode")
)

// Size is the width and height of a canvas.
type Size struct {
	Width, Height int
}

var (
	// LandscapeSize is the canvas size with the panel mounted sideways.
	LandscapeSize = Size{longEdge, shortEdge}
	// PortraitSize is the canvas size with the panel mounted upright.
	PortraitSize = Size{shortEdge, longEdge}
)

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Orientation requests a particular canvas orientation.
type Orientation int

const (
	// Auto picks the orientation that best matches the source image.
	Auto Orientation = iota
	// Landscape always uses LandscapeSize.
	Landscape
	// Portrait always uses PortraitSize.
	Portrait
)

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool {
	return o >= Auto && o <= Portrait
}

func (o Orientation) String() string {
	switch o {
	case Auto:
		return "auto"
	case Landscape:
		return "landscape"
	case Portrait:
		return "portrait"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// ParseOrientation converts a name as returned by String into an
// Orientation. An empty string means Auto.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return Auto, nil
	case "landscape":
		return Landscape, nil
	case "portrait":
		return Portrait, nil
	default:
		return Auto, fmt.Errorf("%w: %q", ErrUnsupportedOrientation, s)
	}
}

// Resolve returns the canvas size for a source image of the given
// dimensions. With Auto only strictly wider images get the landscape
// canvas; square images are portrait.
func Resolve(width, height int, o Orientation) (Size, error) {
	switch o {
	case Landscape:
		return LandscapeSize, nil
	case Portrait:
		return PortraitSize, nil
	case Auto:
		if width > height {
			return LandscapeSize, nil
		}
		return PortraitSize, nil
	default:
		return Size{}, ErrUnsupportedOrientation
	}
}
