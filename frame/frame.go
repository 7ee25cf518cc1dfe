/*
Package frame implements a decoder and encoder for packed seven colour panel
frames.

A frame starts with the four byte magic "EPD7" followed by the width and
height as little-endian 16-bit values. The pixel data follows as one 4-bit
palette index per pixel, two pixels per byte with the leftmost pixel in the
upper nibble, rows top to bottom. Indices refer to palette.Panel. The width
must be even so a row always fills a whole number of bytes; there is no
compression so a full 800 by 480 frame is 192008 bytes.

Importing this package registers the format with image.Decode.
*/
package frame

import (
	"image"

	"github.com/bodgit/photoframe/palette"
)

const (
	magic      = "EPD7"
	headerSize = len(magic) + 4
	maxIndex   = palette.Size - 1
)

func init() {
	image.RegisterFormat("epd7", magic, Decode, DecodeConfig)
}
