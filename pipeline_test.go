package photoframe

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/photoframe/canvas"
	"github.com/bodgit/photoframe/frame"
	"github.com/bodgit/photoframe/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, file string, m image.Image) {
	t.Helper()

	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(file) {
	case ".jpg", ".jpeg":
		require.NoError(t, jpeg.Encode(f, m, nil))
	case ".gif":
		require.NoError(t, gif.Encode(f, m, nil))
	default:
		require.NoError(t, png.Encode(f, m))
	}
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestIsSource(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "dir/c.jpeg", "d.gif", "e.webp"} {
		assert.True(t, IsSource(name), name)
	}
	for _, name := range []string{".hidden.png", "notes.txt", "f.bmp", "g", "h.epd"} {
		assert.False(t, IsSource(name), name)
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/tmp/photo.bmp", BMP.OutputPath("/tmp/photo.jpeg"))
	assert.Equal(t, "/tmp/photo.epd", Frame.OutputPath("/tmp/photo.png"))

	f, err := ParseFormat("EPD")
	require.NoError(t, err)
	assert.Equal(t, Frame, f)

	_, err = ParseFormat("tiff")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "photo.png")
	writeImage(t, file, solid(1600, 900, color.RGBA{0, 0, 255, 0xff}))

	c := New(Config{canvas.Auto, canvas.Cover, palette.None}, nil, testLogger())
	require.NoError(t, c.Run(context.Background(), file))

	f, err := os.Open(filepath.Join(dir, "photo.bmp"))
	require.NoError(t, err)
	defer f.Close()

	m, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 480), m.Bounds())

	r, g, b, _ := m.At(400, 240).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0xffff}, [3]uint32{r, g, b})
}

func TestRunFrameFormat(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "photo.png")
	writeImage(t, file, solid(300, 500, color.RGBA{255, 255, 0, 0xff}))

	c := New(DefaultConfig(), nil, testLogger())
	c.Format = Frame
	require.NoError(t, c.Run(context.Background(), file))

	b, err := os.ReadFile(filepath.Join(dir, "photo.epd"))
	require.NoError(t, err)

	m, err := frame.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 480, 800), m.Bounds())
	assert.Equal(t, palette.Panel[2], m.At(240, 400))
}

func TestRunMissing(t *testing.T) {
	c := New(DefaultConfig(), nil, testLogger())
	assert.Error(t, c.Run(context.Background(), filepath.Join(t.TempDir(), "missing.png")))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()

	writeImage(t, filepath.Join(dir, "one.png"), solid(640, 480, color.RGBA{255, 0, 0, 0xff}))
	writeImage(t, filepath.Join(dir, "two.jpg"), solid(480, 640, color.RGBA{0, 255, 0, 0xff}))
	writeImage(t, filepath.Join(dir, "three.gif"), solid(100, 100, color.White))
	writeImage(t, filepath.Join(dir, ".hidden.png"), solid(10, 10, color.Black))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))
	writeImage(t, filepath.Join(dir, "sub.png", "nested.png"), solid(10, 10, color.Black))

	c := New(DefaultConfig(), nil, testLogger())
	c.Workers = 2
	require.NoError(t, c.Run(context.Background(), dir))

	for _, name := range []string{"one.bmp", "two.bmp", "three.bmp"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	for _, name := range []string{".hidden.bmp", "notes.bmp", filepath.Join("sub.png", "nested.bmp")} {
		assert.NoFileExists(t, filepath.Join(dir, name))
	}

	f, err := os.Open(filepath.Join(dir, "two.bmp"))
	require.NoError(t, err)
	defer f.Close()

	cfg, err := bmp.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 480, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
}

func TestScanContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()

	writeImage(t, filepath.Join(dir, "good.png"), solid(64, 40, color.RGBA{0, 0, 255, 0xff}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("\x89PNG garbage"), 0o644))
	writeImage(t, filepath.Join(dir, "also-good.png"), solid(40, 64, color.RGBA{0, 0, 255, 0xff}))

	c := New(DefaultConfig(), nil, testLogger())
	err := c.Scan(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.png")

	assert.FileExists(t, filepath.Join(dir, "good.bmp"))
	assert.FileExists(t, filepath.Join(dir, "also-good.bmp"))
	assert.NoFileExists(t, filepath.Join(dir, "broken.bmp"))
}

func TestScanDuplicateOutput(t *testing.T) {
	dir := t.TempDir()

	writeImage(t, filepath.Join(dir, "photo.jpg"), solid(800, 480, color.RGBA{0, 0, 255, 0xff}))
	writeImage(t, filepath.Join(dir, "photo.png"), solid(800, 480, color.RGBA{255, 0, 0, 0xff}))
	writeImage(t, filepath.Join(dir, "other.png"), solid(800, 480, color.RGBA{0, 255, 0, 0xff}))

	buf := new(bytes.Buffer)
	c := New(Config{canvas.Auto, canvas.Cover, palette.None}, nil, log.New(buf, "", 0))
	c.Workers = 4
	require.NoError(t, c.Scan(context.Background(), dir))

	assert.Contains(t, buf.String(), "Skipping "+filepath.Join(dir, "photo.png"))
	assert.NotContains(t, buf.String(), "Processing file photo.png")
	assert.Contains(t, buf.String(), "Successfully converted "+filepath.Join(dir, "other.png"))

	f, err := os.Open(filepath.Join(dir, "photo.bmp"))
	require.NoError(t, err)
	defer f.Close()

	m, err := bmp.Decode(f)
	require.NoError(t, err)

	r, g, b, _ := m.At(400, 240).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0xffff}, [3]uint32{r, g, b})
}

func TestScanCache(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "photo.png")
	writeImage(t, file, solid(200, 100, color.RGBA{255, 0, 0, 0xff}))

	db, err := NewCacheDB(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	c := New(DefaultConfig(), db, testLogger())
	require.NoError(t, c.Run(context.Background(), dir))

	n, err := db.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	first, err := os.ReadFile(filepath.Join(dir, "photo.bmp"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "photo.bmp")))

	// Served from the cache the second time around
	require.NoError(t, c.Run(context.Background(), dir))
	second, err := os.ReadFile(filepath.Join(dir, "photo.bmp"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	n, err = db.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Different settings are a separate entry
	c.Config.Fit = canvas.Contain
	require.NoError(t, c.Run(context.Background(), file))
	n, err = db.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
