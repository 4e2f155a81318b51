package plot

import (
	"bytes"
	"image/png"
	"testing"
)

func TestRenderProducesPNG(t *testing.T) {
	points := []Point{
		{X: -40, Y: 15.6},
		{X: 0, Y: 12.1},
		{X: 30, Y: 14.2},
	}

	data, err := Render("1P reduced", "days from perihelion", points)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output does not decode as PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		t.Errorf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), width, height)
	}
}

func TestRenderEmptyPointSet(t *testing.T) {
	data, err := Render("empty", "epoch", nil)
	if err != nil {
		t.Fatalf("Render on empty set: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("empty plot does not decode as PNG: %v", err)
	}
}

func TestBoundsPadding(t *testing.T) {
	points := []Point{{X: 0, Y: 10}, {X: 100, Y: 20}}
	xMin, xMax, yMin, yMax := bounds(points)

	if xMin >= 0 || xMax <= 100 {
		t.Errorf("x range [%v, %v] does not pad past the data", xMin, xMax)
	}
	if yMin >= 10 || yMax <= 20 {
		t.Errorf("y range [%v, %v] does not pad past the data", yMin, yMax)
	}
}

func TestBoundsDegenerateRange(t *testing.T) {
	// a single point still needs a non-zero plot range
	xMin, xMax, yMin, yMax := bounds([]Point{{X: 5, Y: 15}})
	if xMax-xMin <= 0 {
		t.Errorf("x range [%v, %v] is not positive", xMin, xMax)
	}
	if yMax-yMin <= 0 {
		t.Errorf("y range [%v, %v] is not positive", yMin, yMax)
	}
}
