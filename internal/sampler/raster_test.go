package sampler

import (
	"errors"
	"math/rand"
	"testing"
)

const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect x="10" y="10" width="80" height="80" fill="#ff0000"/>
</svg>`

const wideSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 50">
  <rect x="0" y="0" width="200" height="50" fill="#00ff00"/>
</svg>`

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not svg at all", "<svg><unclosed"} {
		_, err := Parse(raw)
		if err == nil {
			t.Fatalf("expected a decode error for %q", raw)
		}
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected *DecodeError, got %T", err)
		}
	}
}

func TestRasterizeProducesFillPoints(t *testing.T) {
	artwork, err := Parse(squareSVG)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	img, err := artwork.Rasterize()
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}

	fill, _ := Sample(img, testSettings(), rand.New(rand.NewSource(1)))
	if len(fill) == 0 {
		t.Fatal("expected fill points from a filled rect")
	}
}

func TestRasterizeCentersAndFits(t *testing.T) {
	artwork, err := Parse(squareSVG)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	img, err := artwork.Rasterize()
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}

	// The artwork spans 80% of the canvas; the rect covers the middle 80% of
	// that, so 1600*0.8 = 1280px, i.e. +-64 world units around the center.
	fill, _ := Sample(img, testSettings(), rand.New(rand.NewSource(1)))
	for _, p := range fill {
		if abs(p.Position.X) > 65 || abs(p.Position.Y) > 65 {
			t.Fatalf("point %+v escapes the fitted extent", p.Position)
		}
	}

	// Corners of the working canvas must stay empty (10% margins).
	if alphaAt(img, 10, 10) != 0 || alphaAt(img, CanvasSize-10, CanvasSize-10) != 0 {
		t.Fatal("margins should be transparent")
	}
}

func TestRasterizePreservesAspect(t *testing.T) {
	artwork, err := Parse(wideSVG)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	img, err := artwork.Rasterize()
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}

	fill, _ := Sample(img, testSettings(), rand.New(rand.NewSource(1)))
	var maxX, maxY float64
	for _, p := range fill {
		if abs(p.Position.X) > maxX {
			maxX = abs(p.Position.X)
		}
		if abs(p.Position.Y) > maxY {
			maxY = abs(p.Position.Y)
		}
	}
	// 200x50 viewBox: width maps to the 80% extent (+-80), height to a
	// quarter of that.
	if maxX < 75 || maxX > 81 {
		t.Fatalf("expected width near +-80, got %v", maxX)
	}
	if maxY < 15 || maxY > 21 {
		t.Fatalf("expected height near +-20, got %v", maxY)
	}
}
