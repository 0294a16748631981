package particle

import (
	"math"

	"github.com/aquilax/go-perlin"

	"svg-particles/internal/config"
	"svg-particles/internal/geom"
)

// noiseAdvance is how far each noise coordinate axis moves per frame at
// animation speed 1.
const noiseAdvance = 0.002

// Step advances every particle by one frame. The same update rule runs for
// both representations; only the commit differs. elapsed is total scene time
// in seconds, pointer is the pointer world position (nil when absent or
// interaction is off), layerScale is the owning layer's uniform scale.
func (f *Field) Step(settings config.Settings, noise *perlin.Perlin, elapsed float64, pointer *geom.Vec3, layerScale float64) {
	t := elapsed * 0.5 * settings.AnimationSpeed
	spin := 0.01 * settings.AnimationSpeed

	for i := range f.Particles {
		p := &f.Particles[i]

		disp := p.procedural(settings, noise, t)
		if p.Outline {
			disp = disp.Scale(1.2)
		}

		base := p.Origin.Add(disp)
		pos := base

		if settings.MouseInteraction && pointer != nil {
			pos = p.applyPointerForce(pos, base, *pointer, settings, layerScale)
		}

		if settings.SandEffect {
			// The position from the steps above is only a target; the spring
			// carries its own inertia from frame to frame. Pointer force is
			// excluded from the target, it only perturbed the velocity.
			returnForce := base.Sub(p.Position).Scale(0.05 * settings.SandReturn)
			p.Velocity = p.Velocity.Add(returnForce).Scale(0.95)
			pos = p.Position.Add(p.Velocity)
		}

		p.Spin.X += spin
		p.Spin.Y += spin

		p.Position = pos
		if p.Batch >= 0 {
			slot := &f.Buckets[p.Batch].Slots[p.Slot]
			slot.Translation = pos
			slot.Rotation = p.Spin
		}
	}
}

// procedural computes the frame's base displacement from either coherent
// noise or the per-particle oscillator.
func (p *Particle) procedural(settings config.Settings, noise *perlin.Perlin, t float64) geom.Vec3 {
	if settings.NoiseMovement {
		adv := noiseAdvance * settings.AnimationSpeed
		p.NoiseCoord.X += adv
		p.NoiseCoord.Y += adv
		p.NoiseCoord.Z += adv

		d := geom.Vec3{
			X: noise.Noise2D(p.NoiseCoord.X, p.NoiseCoord.Y) * settings.NoiseScale * 100,
			Y: noise.Noise2D(p.NoiseCoord.Y, p.NoiseCoord.Z) * settings.NoiseScale * 100,
			Z: noise.Noise2D(p.NoiseCoord.X, p.NoiseCoord.Z) * settings.NoiseScale * 50,
		}
		if settings.SvgDepth == 0 {
			d.Z = 0
		}
		return d
	}

	p.Angle += p.Speed * settings.AnimationSpeed
	d := geom.Vec3{
		X: math.Sin(p.Angle+t) * p.Amplitude,
		Y: math.Cos(p.Angle+1.5*t) * p.Amplitude,
	}
	if settings.SvgDepth > 0 {
		d.Z = math.Sin(p.Angle+0.7*t) * p.Amplitude * 0.5
	}
	return d
}

// applyPointerForce pushes the particle away from (or toward) the pointer
// when it sits inside the interaction radius. In sand mode the force also
// kicks the velocity so the spring carries the disturbance.
func (p *Particle) applyPointerForce(pos, base, pointer geom.Vec3, settings config.Settings, layerScale float64) geom.Vec3 {
	radius := settings.InteractionRadius * layerScale
	if radius <= 0 {
		return pos
	}

	distance := base.Distance(pointer) * layerScale
	if distance >= radius || distance == 0 {
		return pos
	}

	forceFactor := (radius - distance) / radius
	force := settings.InteractionStrength * forceFactor
	dir := base.Sub(pointer).Normalize()

	push := dir.Scale(force)
	if settings.RepelEffect {
		pos = pos.Add(push)
	} else {
		pos = pos.Sub(push)
	}

	if settings.SandEffect {
		kick := dir.Scale(force * settings.SandStrength * 0.1)
		if settings.RepelEffect {
			p.Velocity = p.Velocity.Add(kick)
		} else {
			p.Velocity = p.Velocity.Sub(kick)
		}
	}

	return pos
}
