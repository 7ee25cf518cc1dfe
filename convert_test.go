package photoframe

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/bodgit/photoframe/canvas"
	"github.com/bodgit/photoframe/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	white = 1
	red   = 3
	blue  = 5
)

func solid(w, h int, c color.Color) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(m, m.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return m
}

func TestConvertCoverLandscape(t *testing.T) {
	// Red band through the middle, blue above and below
	src := solid(1600, 900, color.RGBA{0, 0, 255, 0xff})
	draw.Draw(src, image.Rect(0, 100, 1600, 800), &image.Uniform{color.RGBA{255, 0, 0, 0xff}}, image.Point{}, draw.Src)

	m, err := Convert(src, Config{Orientation: canvas.Auto, Fit: canvas.Cover, Dither: palette.None})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 480), m.Bounds())

	for _, p := range m.Pix {
		require.NotEqual(t, uint8(white), p, "cover fit left white border")
	}
	assert.Equal(t, uint8(blue), m.ColorIndexAt(400, 0))
	assert.Equal(t, uint8(red), m.ColorIndexAt(400, 240))
	assert.Equal(t, uint8(blue), m.ColorIndexAt(400, 479))
}

func TestConvertContainPortraitOnLandscape(t *testing.T) {
	src := solid(480, 800, color.RGBA{250, 0, 0, 0xff})

	m, err := Convert(src, Config{Orientation: canvas.Landscape, Fit: canvas.Contain, Dither: palette.None})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 480), m.Bounds())

	// Scaled to 288x480 and centred
	for y := 0; y < 480; y++ {
		for x := 0; x < 800; x++ {
			want := uint8(white)
			if x >= 256 && x < 544 {
				want = red
			}
			if got := m.ColorIndexAt(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestConvertDimensions(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 2000}, {2000, 3}, {500, 500}, {64, 40}}
	for _, s := range sizes {
		for _, o := range []canvas.Orientation{canvas.Auto, canvas.Landscape, canvas.Portrait} {
			for _, fit := range []canvas.FitMode{canvas.Cover, canvas.Contain} {
				m, err := Convert(solid(s[0], s[1], color.RGBA{90, 160, 30, 0xff}), Config{o, fit, palette.FloydSteinberg})
				require.NoError(t, err)

				size := canvas.Size{Width: m.Bounds().Dx(), Height: m.Bounds().Dy()}
				want, err := canvas.Resolve(s[0], s[1], o)
				require.NoError(t, err)
				assert.Equal(t, want, size)
				for _, p := range m.Pix {
					require.Less(t, p, uint8(palette.Size))
				}
			}
		}
	}
}

func TestConvertErrors(t *testing.T) {
	src := solid(10, 10, color.White)

	tables := []struct {
		name string
		m    image.Image
		cfg  Config
		err  error
	}{
		{"orientation", src, Config{Orientation: canvas.Orientation(5)}, canvas.ErrUnsupportedOrientation},
		{"fit", src, Config{Fit: canvas.FitMode(5)}, canvas.ErrUnsupportedFitMode},
		{"dither", src, Config{Dither: palette.Dither(5)}, palette.ErrUnsupportedDither},
		{"geometry", image.NewRGBA(image.Rect(0, 0, 10, 0)), DefaultConfig(), canvas.ErrInvalidGeometry},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m, err := Convert(table.m, table.cfg)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, table.err)
		})
	}
}

func TestConfigString(t *testing.T) {
	assert.Equal(t, "auto/cover/floyd-steinberg", DefaultConfig().String())
	assert.NoError(t, DefaultConfig().Validate())
}
