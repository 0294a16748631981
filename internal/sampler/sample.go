package sampler

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"svg-particles/internal/config"
	"svg-particles/internal/geom"
)

// Point is a candidate particle position extracted from the raster.
type Point struct {
	Position geom.Vec3
	Outline  bool
	HasColor bool
	Color    colorful.Color
}

// Sample walks the rasterized canvas and extracts fill points (every sampled
// pixel above the alpha threshold) and outline points (alpha-boundary pixels
// found by a finer-stride pass). Depth is rolled per point from the rng.
func Sample(img *image.RGBA, settings config.Settings, rng *rand.Rand) (fill, outline []Point) {
	fillStride := int(math.Round(2 * settings.Density))
	if fillStride < 1 {
		fillStride = 1
	}

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += fillStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += fillStride {
			if alphaAt(img, x, y) > alphaThreshold {
				fill = append(fill, makePoint(img, x, y, false, settings, rng))
			}
		}
	}

	if settings.IncludeStrokes {
		edgeStride := int(float64(fillStride) / settings.StrokeDetail)
		if edgeStride < 1 {
			edgeStride = 1
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y += edgeStride {
			for x := bounds.Min.X; x < bounds.Max.X; x += edgeStride {
				if isEdge(img, x, y) {
					outline = append(outline, makePoint(img, x, y, true, settings, rng))
				}
			}
		}
	}

	return fill, outline
}

// isEdge flags a pixel that is itself visible while at least one of its 8
// neighbors is not. A plain 3x3 alpha-boundary test, cheap and good enough
// for sparse edge sampling.
func isEdge(img *image.RGBA, x, y int) bool {
	if alphaAt(img, x, y) <= alphaThreshold {
		return false
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if alphaAt(img, x+dx, y+dy) <= alphaThreshold {
				return true
			}
		}
	}
	return false
}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return 0
	}
	return img.Pix[img.PixOffset(x, y)+3]
}

func makePoint(img *image.RGBA, x, y int, outline bool, settings config.Settings, rng *rand.Rand) Point {
	depth := 0.0
	if settings.SvgDepth > 0 {
		depth = (rng.Float64() - 0.5) * 2 * settings.SvgDepth
	}

	p := Point{
		Position: geom.Vec3{
			X: (float64(x) - CanvasSize/2) * worldScale,
			Y: -(float64(y) - CanvasSize/2) * worldScale,
			Z: depth,
		},
		Outline: outline,
	}

	if settings.PreserveColors {
		// Un-premultiply so the captured channels match the artwork verbatim.
		c := color.NRGBAModel.Convert(img.RGBAAt(x, y)).(color.NRGBA)
		p.HasColor = true
		p.Color = config.RGB255(c.R, c.G, c.B)
	}

	return p
}
