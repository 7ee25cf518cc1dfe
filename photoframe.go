/*
Package photoframe is a library for preparing pictures for seven colour
electronic paper photo frames such as the Waveshare 7.3 inch ACeP panel.

Source images are fitted onto an 800x480 or 480x800 canvas and quantized to
the fixed panel palette, then written either as a 24-bit BMP or as a packed
panel frame.
*/
package photoframe

import (
	"log"
	"runtime"

	// Source image formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Converter converts image files, either singly or a directory at a time.
type Converter struct {
	// Config is applied to every image.
	Config Config
	// Format selects the output file format.
	Format Format
	// Workers is the number of images converted concurrently when
	// processing a directory.
	Workers int

	cache  *CacheDB
	logger *log.Logger
}

// New returns a Converter writing BMP files. The cache may be nil.
func New(cfg Config, cache *CacheDB, logger *log.Logger) *Converter {
	return &Converter{
		Config:  cfg,
		Format:  BMP,
		Workers: runtime.NumCPU(),
		cache:   cache,
		logger:  logger,
	}
}
