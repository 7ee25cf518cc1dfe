package photoframe

import (
	"image"
	"image/color"
	"io"

	"github.com/bodgit/photoframe/canvas"
	"github.com/bodgit/photoframe/palette"
	"github.com/ericpauley/go-quantize/quantize"
)

// Swatch is one of the dominant colours of a source image together with
// the panel colour it is closest to.
type Swatch struct {
	Color color.RGBA
	Panel int
}

// Report describes a source image and how it would look on the panel.
type Report struct {
	Format string
	Width  int
	Height int
	// Target is the canvas the image would be fitted onto.
	Target canvas.Size
	// Dominant holds the median cut palette of the source image.
	Dominant []Swatch
	// Coverage is the fraction of the converted canvas using each panel
	// colour.
	Coverage [palette.Size]float64
}

// Inspect decodes an image from r and reports its dominant colours and the
// panel colour coverage after converting it with cfg.
func Inspect(r io.Reader, cfg Config, colors int) (*Report, error) {
	m, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	pm, err := Convert(m, cfg)
	if err != nil {
		return nil, err
	}

	b := m.Bounds()
	report := &Report{
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		Target: canvas.Size{Width: pm.Bounds().Dx(), Height: pm.Bounds().Dy()},
	}

	if colors > 0 {
		q := quantize.MedianCutQuantizer{}
		for _, c := range q.Quantize(make(color.Palette, 0, colors), m) {
			rgba := color.RGBAModel.Convert(c).(color.RGBA)
			report.Dominant = append(report.Dominant, Swatch{
				Color: rgba,
				Panel: palette.Nearest(rgba.R, rgba.G, rgba.B),
			})
		}
	}

	var counts [palette.Size]int
	for _, p := range pm.Pix {
		counts[p]++
	}
	for i, n := range counts {
		report.Coverage[i] = float64(n) / float64(len(pm.Pix))
	}

	return report, nil
}
