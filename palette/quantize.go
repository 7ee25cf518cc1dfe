package palette

import (
	"image"
	"runtime"
	"sync"
)

// Quantize maps every pixel of m onto Panel and returns the result as a
// paletted image with its origin at (0, 0). With FloydSteinberg the image is
// processed in a single sequential pass, without dithering rows are
// quantized concurrently.
func Quantize(m image.Image, d Dither) (*image.Paletted, error) {
	if !d.Valid() {
		return nil, ErrUnsupportedDither
	}

	b := m.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), Panel)
	if b.Empty() {
		return dst, nil
	}

	switch d {
	case FloydSteinberg:
		floydSteinberg(dst, m)
	default:
		nearestAll(dst, m)
	}

	return dst, nil
}

// loadRow unpacks row y of m into 8-bit channel triples.
func loadRow(m image.Image, y int, row []float64) {
	b := m.Bounds()
	if rgba, ok := m.(*image.RGBA); ok {
		pix := rgba.Pix[rgba.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			row[x*3+0] = float64(pix[x*4+0])
			row[x*3+1] = float64(pix[x*4+1])
			row[x*3+2] = float64(pix[x*4+2])
		}
		return
	}
	for x := 0; x < b.Dx(); x++ {
		r, g, bl, _ := m.At(b.Min.X+x, y).RGBA()
		row[x*3+0] = float64(r >> 8)
		row[x*3+1] = float64(g >> 8)
		row[x*3+2] = float64(bl >> 8)
	}
}

func nearestAll(dst *image.Paletted, m image.Image) {
	b := m.Bounds()
	h := b.Dy()

	workers := runtime.GOMAXPROCS(0)
	if workers > h {
		workers = h
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(first int) {
			defer wg.Done()
			row := make([]float64, b.Dx()*3)
			for y := first; y < h; y += workers {
				loadRow(m, b.Min.Y+y, row)
				out := dst.Pix[y*dst.Stride:]
				for x := 0; x < b.Dx(); x++ {
					out[x] = uint8(nearest(row[x*3], row[x*3+1], row[x*3+2]))
				}
			}
		}(i)
	}
	wg.Wait()
}

const (
	weightRight      = 7.0 / 16
	weightBelowLeft  = 3.0 / 16
	weightBelow      = 5.0 / 16
	weightBelowRight = 1.0 / 16
)

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}

// diffuse adds a weighted share of the error to the pixel starting at i.
func diffuse(row []float64, i int, e [3]float64, w float64) {
	row[i+0] = clamp(row[i+0] + e[0]*w)
	row[i+1] = clamp(row[i+1] + e[1]*w)
	row[i+2] = clamp(row[i+2] + e[2]*w)
}

// floydSteinberg walks m in raster order keeping only the current and the
// next row of error adjusted colour values.
func floydSteinberg(dst *image.Paletted, m image.Image) {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	cur := make([]float64, w*3)
	next := make([]float64, w*3)
	loadRow(m, b.Min.Y, cur)

	for y := 0; y < h; y++ {
		below := y+1 < h
		if below {
			loadRow(m, b.Min.Y+y+1, next)
		}

		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			i := x * 3
			idx := nearest(cur[i], cur[i+1], cur[i+2])
			out[x] = uint8(idx)

			c := rgb[idx]
			e := [3]float64{
				cur[i+0] - float64(c[0]),
				cur[i+1] - float64(c[1]),
				cur[i+2] - float64(c[2]),
			}
			if e == [3]float64{} {
				continue
			}

			if x+1 < w {
				diffuse(cur, i+3, e, weightRight)
			}
			if below {
				if x > 0 {
					diffuse(next, i-3, e, weightBelowLeft)
				}
				diffuse(next, i, e, weightBelow)
				if x+1 < w {
					diffuse(next, i+3, e, weightBelowRight)
				}
			}
		}

		cur, next = next, cur
	}
}

// Expand converts a quantized image back into 24-bit colour.
func Expand(m *image.Paletted) *image.RGBA {
	b := m.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := m.Pix[m.PixOffset(b.Min.X, y):]
		out := dst.Pix[dst.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			var c [3]int32
			if i := int(src[x]); i < Size {
				c = rgb[i]
			}
			out[x*4+0] = uint8(c[0])
			out[x*4+1] = uint8(c[1])
			out[x*4+2] = uint8(c[2])
			out[x*4+3] = 0xff
		}
	}
	return dst
}
