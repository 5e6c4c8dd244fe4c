// Package chart renders the CPU history as a PNG line chart.
package chart

import (
	"image"
	"image/color"
	"io"
	"math"

	"emperror.dev/errors"
	"github.com/disintegration/imaging"
)

// Config controls the chart image.
type Config struct {
	// Width and Height are the output size in pixels.
	Width  int
	Height int
	// LineWidth is the stroke width in output pixels.
	LineWidth int
	// GridLines is the number of horizontal percentage guides (0 disables).
	GridLines int

	Background color.NRGBA
	Line       color.NRGBA
	Grid       color.NRGBA
}

// DefaultConfig returns the standard 850x200 dark chart with a teal line.
func DefaultConfig() Config {
	return Config{
		Width:      850,
		Height:     200,
		LineWidth:  2,
		GridLines:  4,
		Background: color.NRGBA{R: 0x05, G: 0x08, B: 0x0f, A: 0xff},
		Line:       color.NRGBA{R: 0x00, G: 0xff, B: 0xcc, A: 0xff},
		Grid:       color.NRGBA{R: 0x21, G: 0x26, B: 0x2d, A: 0xff},
	}
}

// supersample is the oversampling factor; the chart is drawn this many
// times larger and downscaled for smooth edges.
const supersample = 2

// Render draws samples (percentages, oldest first) left to right across the
// full width. Fewer than two samples produce an empty chart.
func Render(samples []float64, cfg Config) (image.Image, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.NewWithDetails("invalid chart size", "width", cfg.Width, "height", cfg.Height)
	}
	if cfg.LineWidth <= 0 {
		cfg.LineWidth = 1
	}

	w, h := cfg.Width*supersample, cfg.Height*supersample
	img := imaging.New(w, h, cfg.Background)

	for i := 1; i <= cfg.GridLines; i++ {
		y := h - i*h/(cfg.GridLines+1)
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, cfg.Grid)
		}
	}

	if len(samples) >= 2 {
		step := float64(w-1) / float64(len(samples)-1)
		stroke := cfg.LineWidth * supersample
		for i := 0; i < len(samples)-1; i++ {
			x1, y1 := int(math.Round(step*float64(i))), yFor(samples[i], h)
			x2, y2 := int(math.Round(step*float64(i+1))), yFor(samples[i+1], h)
			drawLine(img, x1, y1, x2, y2, stroke, cfg.Line)
		}
	}

	return imaging.Resize(img, cfg.Width, cfg.Height, imaging.Lanczos), nil
}

// Write renders samples and encodes the chart as PNG to w.
func Write(w io.Writer, samples []float64, cfg Config) error {
	img, err := Render(samples, cfg)
	if err != nil {
		return err
	}
	return errors.WrapIf(imaging.Encode(w, img, imaging.PNG), "encode chart")
}

// Save renders samples to a PNG file at path.
func Save(path string, samples []float64, cfg Config) error {
	img, err := Render(samples, cfg)
	if err != nil {
		return err
	}
	return errors.WrapIfWithDetails(imaging.Save(img, path), "save chart", "path", path)
}

// yFor maps a percentage to a pixel row, 100% at the top.
func yFor(v float64, h int) int {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(0, math.Min(100, v))
	return int(math.Round(float64(h-1) * (1 - v/100)))
}

// drawLine plots a line of the given stroke width with Bresenham's algorithm,
// stamping a square brush at each step.
func drawLine(img *image.NRGBA, x1, y1, x2, y2, stroke int, c color.NRGBA) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy

	for {
		stamp(img, x1, y1, stroke, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

func stamp(img *image.NRGBA, cx, cy, size int, c color.NRGBA) {
	b := img.Bounds()
	half := size / 2
	for y := cy - half; y < cy-half+size; y++ {
		for x := cx - half; x < cx-half+size; x++ {
			if image.Pt(x, y).In(b) {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
