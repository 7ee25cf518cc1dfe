package photoframe

import (
	"fmt"
	"image"

	"github.com/bodgit/photoframe/canvas"
	"github.com/bodgit/photoframe/palette"
)

// Config describes how a single image is converted. It is passed by value
// and never modified during a conversion.
type Config struct {
	Orientation canvas.Orientation
	Fit         canvas.FitMode
	Dither      palette.Dither
}

// DefaultConfig picks the orientation from the image, covers the whole
// canvas and dithers.
func DefaultConfig() Config {
	return Config{
		Orientation: canvas.Auto,
		Fit:         canvas.Cover,
		Dither:      palette.FloydSteinberg,
	}
}

// Validate checks every field holds a supported value.
func (c Config) Validate() error {
	if !c.Orientation.Valid() {
		return fmt.Errorf("%w: %v", canvas.ErrUnsupportedOrientation, c.Orientation)
	}
	if !c.Fit.Valid() {
		return fmt.Errorf("%w: %v", canvas.ErrUnsupportedFitMode, c.Fit)
	}
	if !c.Dither.Valid() {
		return fmt.Errorf("%w: %v", palette.ErrUnsupportedDither, c.Dither)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%v/%v/%v", c.Orientation, c.Fit, c.Dither)
}

// Convert fits m onto a panel canvas and quantizes it to palette.Panel. The
// result is always exactly canvas.LandscapeSize or canvas.PortraitSize.
func Convert(m image.Image, cfg Config) (*image.Paletted, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := m.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %dx%d", canvas.ErrInvalidGeometry, b.Dx(), b.Dy())
	}

	target, err := canvas.Resolve(b.Dx(), b.Dy(), cfg.Orientation)
	if err != nil {
		return nil, err
	}

	rgba, err := canvas.Compose(m, target, cfg.Fit)
	if err != nil {
		return nil, err
	}

	return palette.Quantize(rgba, cfg.Dither)
}
