package sampler

import (
	"fmt"
	"image"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	// CanvasSize is the fixed working resolution the artwork is rasterized at.
	CanvasSize = 2000

	// worldScale maps canvas pixels to world units.
	worldScale = 0.1

	// alphaThreshold is ~20% opacity on an 8-bit alpha channel.
	alphaThreshold = 51
)

// DecodeError signals that the artwork failed to parse or rasterize. The
// import is aborted; no layer state is touched.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode artwork: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// Artwork is a parsed vector document, immutable once loaded into a layer.
type Artwork struct {
	Raw  string
	icon *oksvg.SvgIcon
}

// Parse validates and parses SVG text. A document that cannot be parsed, or
// that has an empty view box, yields a DecodeError.
func Parse(raw string) (*Artwork, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(raw), oksvg.WarnErrorMode)
	if err != nil {
		return nil, &DecodeError{Cause: err}
	}

	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		return nil, &DecodeError{Cause: fmt.Errorf("artwork has empty view box (%gx%g)", vb.W, vb.H)}
	}

	return &Artwork{Raw: raw, icon: icon}, nil
}

// Rasterize renders the artwork onto the working canvas. The artwork is
// scaled to fill 80% of the canvas's shorter dimension, aspect preserved,
// centered with a 10% margin on that axis.
func (a *Artwork) Rasterize() (img *image.RGBA, err error) {
	// oksvg panics on some malformed path data; fold that into DecodeError.
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = &DecodeError{Cause: fmt.Errorf("rasterizer panic: %v", r)}
		}
	}()

	vb := a.icon.ViewBox
	scale := CanvasSize * 0.8 / vb.W
	if vb.H > vb.W {
		scale = CanvasSize * 0.8 / vb.H
	}
	w := vb.W * scale
	h := vb.H * scale
	a.icon.SetTarget((CanvasSize-w)/2, (CanvasSize-h)/2, w, h)

	img = image.NewRGBA(image.Rect(0, 0, CanvasSize, CanvasSize))
	scanner := rasterx.NewScannerGV(CanvasSize, CanvasSize, img, img.Bounds())
	a.icon.Draw(rasterx.NewDasher(CanvasSize, CanvasSize, scanner), 1.0)

	return img, nil
}
