package frame

import (
	"encoding/binary"
	"errors"
	"image"
	"io"

	"github.com/bodgit/photoframe/palette"
)

var (
	// ErrBadHeader is returned when the magic or dimensions are invalid.
	ErrBadHeader = errors.New("frame: invalid header")
	// ErrNotEnough is returned when the pixel data is truncated.
	ErrNotEnough = errors.New("frame: not enough image data")
	// ErrTooMuch is returned when data follows the last pixel.
	ErrTooMuch = errors.New("frame: too much image data")
	// ErrBadIndex is returned for a pixel outside of the panel palette.
	ErrBadIndex = errors.New("frame: invalid palette index")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func upperNibble(b byte) byte {
	return b & 0xf0
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

type decoder struct {
	r io.Reader

	width, height int

	image *image.Paletted
}

func (d *decoder) readHeader() error {
	var tmp [headerSize]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return ErrBadHeader
		}
		return err
	}

	if string(tmp[:len(magic)]) != magic {
		return ErrBadHeader
	}

	d.width = int(binary.LittleEndian.Uint16(tmp[4:]))
	d.height = int(binary.LittleEndian.Uint16(tmp[6:]))
	if d.width == 0 || d.height == 0 || d.width&1 != 0 {
		return ErrBadHeader
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	d.image = image.NewPaletted(image.Rect(0, 0, d.width, d.height), palette.Panel)

	row := make([]byte, d.width>>1)
	for y := 0; y < d.height; y++ {
		if err := readFull(d.r, row); err != nil {
			if err != io.ErrUnexpectedEOF {
				return err
			}
			return ErrNotEnough
		}

		pix := d.image.Pix[y*d.image.Stride:]
		for x, b := range row {
			hi, lo := upperNibble(b)>>4, lowerNibble(b)
			if hi > maxIndex || lo > maxIndex {
				return ErrBadIndex
			}
			pix[x<<1+0] = hi
			pix[x<<1+1] = lo
		}
	}

	if n, err := r.Read(row[:1]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return err
		}
		return ErrTooMuch
	}

	return nil
}

// Decode reads a panel frame from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a panel frame
// without decoding the entire frame.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: palette.Panel,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
