package frame

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/photoframe/canvas"
	"github.com/bodgit/photoframe/palette"
)

// ErrWrongSize is returned when encoding an image that is not the size of
// either canvas orientation.
var ErrWrongSize = errors.New("frame: image is wrong size")

type encoder struct {
	w io.Writer
}

func usesPanel(p color.Palette) bool {
	if len(p) != len(palette.Panel) {
		return false
	}
	for i, c := range p {
		r1, g1, b1, a1 := c.RGBA()
		r2, g2, b2, a2 := palette.Panel[i].RGBA()
		if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
			return false
		}
	}
	return true
}

func (e *encoder) encode(m *image.Paletted) error {
	b := m.Bounds()

	var header [headerSize]byte
	copy(header[:], magic)
	binary.LittleEndian.PutUint16(header[4:], uint16(b.Dx()))
	binary.LittleEndian.PutUint16(header[6:], uint16(b.Dy()))
	if _, err := e.w.Write(header[:]); err != nil {
		return err
	}

	row := make([]byte, b.Dx()>>1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		pix := m.Pix[m.PixOffset(b.Min.X, y):]
		for x := range row {
			// This is masking off any bits leaving a 0-15 value
			row[x] = pix[x<<1]&0x0f<<4 | pix[x<<1+1]&0x0f
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the Image m to w as a panel frame. Images that are not
// already quantized to palette.Panel are quantized without dithering.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if s := (canvas.Size{Width: b.Dx(), Height: b.Dy()}); s != canvas.LandscapeSize && s != canvas.PortraitSize {
		return ErrWrongSize
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil || !usesPanel(pm.Palette) {
		var err error
		if pm, err = palette.Quantize(m, palette.None); err != nil {
			return err
		}
	}

	e := encoder{w: w}

	return e.encode(pm)
}
