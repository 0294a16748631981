package particle

import (
	"github.com/lucasb-eyer/go-colorful"

	"svg-particles/internal/geom"
)

// Particle is the renderable, animatable unit. All fields exist from
// construction; nothing is bolted on later.
type Particle struct {
	Origin   geom.Vec3 // immutable reference point
	Position geom.Vec3 // last rendered position
	Velocity geom.Vec3 // spring mode only

	Size    float64 // fixed at creation
	Outline bool
	Color   colorful.Color // resolved at creation

	Angle     float64 // oscillator phase
	Speed     float64 // fixed per particle, [0.05, 0.10)
	Amplitude float64 // fixed per particle, [0, 2)

	NoiseCoord geom.Vec3 // advances monotonically in noise mode
	Spin       geom.Vec3 // accumulated decorative rotation

	// Batched handle; both -1 for per-object particles.
	Batch int
	Slot  int
}

// SlotTransform keeps a batch slot's last written translation/rotation/scale.
// The commit composes the instance matrix from these instead of decomposing
// the previously written matrix.
type SlotTransform struct {
	Translation geom.Vec3
	Rotation    geom.Vec3
	Scale       float64
}

// Bucket groups the particles sharing one (color, outline) material under a
// single instanced draw. Membership is fixed after construction; recoloring
// means a full rebuild.
type Bucket struct {
	Color   colorful.Color
	Outline bool
	Slots   []SlotTransform
}

// Field is one layer's particle set plus its renderable representation.
type Field struct {
	Particles []Particle
	Instanced bool
	Buckets   []Bucket
}

// Count reports the number of particles in the field.
func (f *Field) Count() int {
	if f == nil {
		return 0
	}
	return len(f.Particles)
}
