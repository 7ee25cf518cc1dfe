package photoframe

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/photoframe/frame"
	"github.com/bodgit/photoframe/palette"
	"golang.org/x/image/bmp"
)

// Format is an output file format.
type Format int

const (
	// BMP writes an uncompressed 24-bit bitmap.
	BMP Format = iota
	// Frame writes a packed panel frame, see package frame.
	Frame
)

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("photoframe: unsupported output format")

// ParseFormat converts "bmp" or "epd" into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "bmp":
		return BMP, nil
	case "epd", "frame":
		return Frame, nil
	default:
		return BMP, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) String() string {
	switch f {
	case BMP:
		return "bmp"
	case Frame:
		return "epd"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// Encode writes m to w in format f.
func (f Format) Encode(w io.Writer, m *image.Paletted) error {
	switch f {
	case BMP:
		// The frame firmware only reads true colour bitmaps
		return bmp.Encode(w, palette.Expand(m))
	case Frame:
		return frame.Encode(w, m)
	default:
		return ErrUnsupportedFormat
	}
}

var sourceExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// IsSource reports whether the file name looks like a convertible image.
// Hidden files are never considered.
func IsSource(name string) bool {
	base := filepath.Base(name)
	if base == "" || base[0] == '.' {
		return false
	}
	_, ok := sourceExtensions[strings.ToLower(filepath.Ext(base))]
	return ok
}

// OutputPath returns the path the converted copy of file is written to.
func (f Format) OutputPath(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + f.Extension()
}
