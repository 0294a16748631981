package particle

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"svg-particles/internal/config"
	"svg-particles/internal/geom"
	"svg-particles/internal/sampler"
)

// InstancedThreshold is the particle count above which the batched
// representation is used (strictly greater than, and only with UseInstanced).
const InstancedThreshold = 500

// BuildError signals that particle construction failed. The owning layer must
// be left safely empty, never partially populated.
type BuildError struct {
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build particles: %v", e.Cause)
}

func (e *BuildError) Unwrap() error { return e.Cause }

type bucketKey struct {
	color   colorful.Color
	outline bool
}

// Build converts selected points into a particle field, grouping into
// instanced buckets when the count warrants it.
func Build(points []sampler.Point, settings config.Settings, rng *rand.Rand) (field *Field, err error) {
	defer func() {
		if r := recover(); r != nil {
			field = nil
			err = &BuildError{Cause: fmt.Errorf("%v", r)}
		}
	}()

	field = &Field{
		Particles: make([]Particle, 0, len(points)),
		Instanced: settings.UseInstanced && len(points) > InstancedThreshold,
	}

	bucketIndex := make(map[bucketKey]int)

	for _, pt := range points {
		p := Particle{
			Origin:   pt.Position,
			Position: pt.Position,
			Size:     rollSize(pt.Outline, settings, rng),
			Outline:  pt.Outline,
			Color:    ResolveColor(pt, settings),

			Angle:     rng.Float64() * 2 * math.Pi,
			Speed:     0.05 + rng.Float64()*0.05,
			Amplitude: rng.Float64() * 2,

			NoiseCoord: randomNoiseCoord(rng),

			Batch: -1,
			Slot:  -1,
		}

		if field.Instanced {
			key := bucketKey{color: p.Color, outline: p.Outline}
			bi, ok := bucketIndex[key]
			if !ok {
				bi = len(field.Buckets)
				bucketIndex[key] = bi
				field.Buckets = append(field.Buckets, Bucket{Color: p.Color, Outline: p.Outline})
			}
			b := &field.Buckets[bi]
			p.Batch = bi
			p.Slot = len(b.Slots)
			b.Slots = append(b.Slots, SlotTransform{
				Translation: p.Origin,
				Scale:       p.Size,
			})
		}

		field.Particles = append(field.Particles, p)
	}

	return field, nil
}

// ResolveColor applies the color priority: captured artwork color, then
// gradient interpolation over vertical position, then the flat color with a
// brightened variant for outlines.
func ResolveColor(pt sampler.Point, settings config.Settings) colorful.Color {
	if settings.PreserveColors && pt.HasColor {
		return pt.Color
	}

	if settings.UseGradient {
		// Vertical position normalized against the assumed +-100 unit range.
		// Outline points interpolate the same way as fill points here.
		t := (pt.Position.Y + 100) / 200
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		return settings.GradientColor1.BlendRgb(settings.GradientColor2, t)
	}

	if pt.Outline {
		return brighten(settings.Color, 1.2)
	}
	return settings.Color
}

func rollSize(outline bool, settings config.Settings, rng *rand.Rand) float64 {
	size := settings.MinSize + rng.Float64()*(settings.MaxSize-settings.MinSize)
	if outline {
		size *= 0.8
	}
	return size
}

func randomNoiseCoord(rng *rand.Rand) geom.Vec3 {
	return geom.Vec3{
		X: rng.Float64() * 100,
		Y: rng.Float64() * 100,
		Z: rng.Float64() * 100,
	}
}

func brighten(c colorful.Color, factor float64) colorful.Color {
	return colorful.Color{
		R: math.Min(c.R*factor, 1),
		G: math.Min(c.G*factor, 1),
		B: math.Min(c.B*factor, 1),
	}
}
