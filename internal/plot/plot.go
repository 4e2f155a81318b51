// Package plot renders a light curve as a PNG scatter plot: magnitude
// against days from perihelion (or raw epoch), magnitude axis inverted so
// brighter points sit higher, the astronomical convention.
package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Point is one observation in plot space.
type Point struct {
	X float64 // days from perihelion, or epoch
	Y float64 // magnitude
}

const (
	width      = 960
	height     = 640
	marginLeft = 70
	marginRt   = 30
	marginTop  = 50
	marginBot  = 60
	tickCount  = 8
)

var (
	bgColor    = color.RGBA{255, 255, 255, 255}
	axisColor  = color.RGBA{40, 40, 40, 255}
	gridColor  = color.RGBA{225, 225, 225, 255}
	pointColor = color.RGBA{30, 90, 180, 255}
)

// Render draws the scatter plot and returns PNG bytes. An empty point
// set still produces a framed, labeled plot.
func Render(title, xLabel string, points []Point) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{bgColor}, image.Point{}, draw.Src)

	xMin, xMax, yMin, yMax := bounds(points)

	plotW := width - marginLeft - marginRt
	plotH := height - marginTop - marginBot

	toPx := func(p Point) (int, int) {
		x := marginLeft + int(float64(plotW)*(p.X-xMin)/(xMax-xMin))
		// inverted: smaller (brighter) magnitudes at the top
		y := marginTop + int(float64(plotH)*(p.Y-yMin)/(yMax-yMin))
		return x, y
	}

	// grid and tick labels
	for i := 0; i <= tickCount; i++ {
		frac := float64(i) / tickCount

		x := marginLeft + int(frac*float64(plotW))
		vline(img, x, marginTop, marginTop+plotH, gridColor)
		label(img, x-15, height-marginBot+18, fmt.Sprintf("%.0f", xMin+frac*(xMax-xMin)))

		y := marginTop + int(frac*float64(plotH))
		hline(img, marginLeft, marginLeft+plotW, y, gridColor)
		label(img, 8, y+4, fmt.Sprintf("%.1f", yMin+frac*(yMax-yMin)))
	}

	// axes
	vline(img, marginLeft, marginTop, marginTop+plotH, axisColor)
	hline(img, marginLeft, marginLeft+plotW, marginTop+plotH, axisColor)

	for _, p := range points {
		x, y := toPx(p)
		dot(img, x, y, pointColor)
	}

	label(img, marginLeft, marginTop-20, title)
	label(img, width/2-40, height-14, xLabel)
	label(img, 8, marginTop-20, "mag")

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// bounds pads the data range so points never sit on the frame.
func bounds(points []Point) (xMin, xMax, yMin, yMax float64) {
	if len(points) == 0 {
		return 0, 1, 1, 0
	}
	xMin, xMax = points[0].X, points[0].X
	lo, hi := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		xMin = math.Min(xMin, p.X)
		xMax = math.Max(xMax, p.X)
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	xPad := (xMax - xMin) * 0.05
	yPad := (hi - lo) * 0.05
	if xPad == 0 {
		xPad = 1
	}
	if yPad == 0 {
		yPad = 0.5
	}
	return xMin - xPad, xMax + xPad, lo - yPad, hi + yPad
}

func dot(img *image.RGBA, cx, cy int, c color.RGBA) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if dx*dx+dy*dy <= 5 {
				img.SetRGBA(cx+dx, cy+dy, c)
			}
		}
	}
}

func hline(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, c)
	}
}

func label(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{axisColor},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
