package particle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/aquilax/go-perlin"

	"svg-particles/internal/config"
	"svg-particles/internal/geom"
	"svg-particles/internal/sampler"
)

func testNoise() *perlin.Perlin {
	return perlin.NewPerlin(2, 2, 3, 1)
}

func motionSettings() config.Settings {
	s := config.Default()
	s.UseInstanced = false
	s.NoiseMovement = true
	s.MouseInteraction = false
	s.SandEffect = false
	s.SvgDepth = 0
	s.AnimationSpeed = 1
	return s
}

func buildField(t *testing.T, n int, settings config.Settings) *Field {
	t.Helper()
	field, err := Build(makePoints(n, false), settings, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return field
}

func TestStepSizeStability(t *testing.T) {
	settings := motionSettings()
	field := buildField(t, 100, settings)

	sizes := make([]float64, len(field.Particles))
	for i, p := range field.Particles {
		sizes[i] = p.Size
	}

	noise := testNoise()
	for frame := 0; frame < 120; frame++ {
		field.Step(settings, noise, float64(frame)/60, nil, 1)
	}

	for i, p := range field.Particles {
		if p.Size != sizes[i] {
			t.Fatalf("particle %d size changed from %v to %v", i, sizes[i], p.Size)
		}
	}
}

func TestStepDepthZeroSuppressesZ(t *testing.T) {
	for _, noiseMode := range []bool{true, false} {
		settings := motionSettings()
		settings.NoiseMovement = noiseMode
		settings.SvgDepth = 0
		field := buildField(t, 50, settings)

		noise := testNoise()
		for frame := 0; frame < 60; frame++ {
			field.Step(settings, noise, float64(frame)/60, nil, 1)
		}
		for _, p := range field.Particles {
			if p.Position.Z != 0 {
				t.Fatalf("noiseMode=%v: z displacement %v, want 0", noiseMode, p.Position.Z)
			}
		}
	}
}

func TestStepNoiseMoves(t *testing.T) {
	settings := motionSettings()
	settings.NoiseScale = 0.1
	field := buildField(t, 50, settings)

	noise := testNoise()
	field.Step(settings, noise, 0, nil, 1)

	moved := 0
	for _, p := range field.Particles {
		if p.Position.Sub(p.Origin).Length() > 1e-9 {
			moved++
		}
	}
	if moved == 0 {
		t.Fatal("noise mode displaced no particles")
	}
}

func TestStepNoiseCoordAdvances(t *testing.T) {
	settings := motionSettings()
	field := buildField(t, 10, settings)

	before := field.Particles[0].NoiseCoord
	noise := testNoise()
	field.Step(settings, noise, 0, nil, 1)
	after := field.Particles[0].NoiseCoord

	wantDelta := 0.002 * settings.AnimationSpeed
	for axis, d := range map[string]float64{
		"x": after.X - before.X,
		"y": after.Y - before.Y,
		"z": after.Z - before.Z,
	} {
		if math.Abs(d-wantDelta) > 1e-12 {
			t.Fatalf("noise coordinate %s advanced by %v, want %v", axis, d, wantDelta)
		}
	}
}

func TestStepOscillatorAmplitudeBound(t *testing.T) {
	settings := motionSettings()
	settings.NoiseMovement = false
	field := buildField(t, 100, settings)

	noise := testNoise()
	for frame := 0; frame < 120; frame++ {
		field.Step(settings, noise, float64(frame)/60, nil, 1)
	}

	for _, p := range field.Particles {
		// Oscillator displacement components are bounded by the amplitude.
		d := p.Position.Sub(p.Origin)
		if math.Abs(d.X) > p.Amplitude+1e-9 || math.Abs(d.Y) > p.Amplitude+1e-9 {
			t.Fatalf("displacement %+v exceeds amplitude %v", d, p.Amplitude)
		}
	}
}

func TestStepOutlineDisplacementScaled(t *testing.T) {
	settings := motionSettings()
	settings.NoiseMovement = false

	field := &Field{Particles: []Particle{
		{Origin: geom.Vec3{}, Position: geom.Vec3{}, Angle: 0.3, Speed: 0.07, Amplitude: 1, Batch: -1, Slot: -1},
		{Origin: geom.Vec3{}, Position: geom.Vec3{}, Angle: 0.3, Speed: 0.07, Amplitude: 1, Outline: true, Batch: -1, Slot: -1},
	}}

	field.Step(settings, testNoise(), 0.5, nil, 1)

	fill := field.Particles[0].Position.Length()
	outline := field.Particles[1].Position.Length()
	if math.Abs(outline-fill*1.2) > 1e-9 {
		t.Fatalf("outline displacement %v, want 1.2x fill displacement %v", outline, fill)
	}
}

func TestStepPointerRepelAndAttract(t *testing.T) {
	base := motionSettings()
	base.MouseInteraction = true
	base.InteractionRadius = 50
	base.InteractionStrength = 5
	base.NoiseScale = 0 // isolate the pointer force
	pointer := geom.Vec3{X: 1}

	for _, repel := range []bool{true, false} {
		settings := base
		settings.RepelEffect = repel

		field := &Field{Particles: []Particle{
			{Origin: geom.Vec3{}, Batch: -1, Slot: -1},
		}}
		field.Step(settings, testNoise(), 0, &pointer, 1)

		x := field.Particles[0].Position.X
		if repel && x >= 0 {
			t.Fatalf("repel should push away from the pointer, got x=%v", x)
		}
		if !repel && x <= 0 {
			t.Fatalf("attract should pull toward the pointer, got x=%v", x)
		}
	}
}

func TestStepPointerOutOfRadius(t *testing.T) {
	settings := motionSettings()
	settings.MouseInteraction = true
	settings.InteractionRadius = 5
	settings.NoiseScale = 0
	pointer := geom.Vec3{X: 100}

	field := &Field{Particles: []Particle{
		{Origin: geom.Vec3{}, Batch: -1, Slot: -1},
	}}
	field.Step(settings, testNoise(), 0, &pointer, 1)

	if got := field.Particles[0].Position; got != (geom.Vec3{}) {
		t.Fatalf("particle outside the radius moved to %+v", got)
	}
}

func TestStepSpringConvergence(t *testing.T) {
	settings := motionSettings()
	settings.NoiseMovement = false
	settings.SandEffect = true
	settings.SandReturn = 1

	origin := geom.Vec3{X: 3, Y: -2}
	field := &Field{Particles: []Particle{
		{
			Origin:   origin,
			Position: origin.Add(geom.Vec3{X: 40, Y: 25, Z: 0}),
			// Amplitude 0 silences the oscillator so the spring target is
			// exactly the origin.
			Amplitude: 0,
			Speed:     0.07,
			Batch:     -1,
			Slot:      -1,
		},
	}}

	noise := testNoise()
	p := &field.Particles[0]
	initial := p.Position.Distance(origin)

	// The discrete spring is underdamped, so compare the envelope across
	// windows rather than frame to frame.
	prevWindow := initial
	for window := 0; window < 8; window++ {
		maxDist := 0.0
		for frame := 0; frame < 60; frame++ {
			field.Step(settings, noise, 0, nil, 1)
			if d := p.Position.Distance(origin); d > maxDist {
				maxDist = d
			}
		}
		if maxDist >= prevWindow {
			t.Fatalf("window %d: envelope %v did not shrink from %v", window, maxDist, prevWindow)
		}
		prevWindow = maxDist
	}

	if final := p.Position.Distance(origin); final > initial*0.01 {
		t.Fatalf("position did not converge: %v of initial %v", final, initial)
	}
	if v := p.Velocity.Length(); v > 1e-2 {
		t.Fatalf("velocity did not decay, still %v", v)
	}
}

func TestStepSpringVelocityDamping(t *testing.T) {
	settings := motionSettings()
	settings.NoiseMovement = false
	settings.SandEffect = true
	settings.SandReturn = 0 // no return force, pure damping

	field := &Field{Particles: []Particle{
		{Origin: geom.Vec3{}, Velocity: geom.Vec3{X: 10}, Amplitude: 0, Batch: -1, Slot: -1},
	}}

	noise := testNoise()
	prev := field.Particles[0].Velocity.Length()
	for frame := 0; frame < 30; frame++ {
		field.Step(settings, noise, 0, nil, 1)
		v := field.Particles[0].Velocity.Length()
		if v >= prev {
			t.Fatalf("frame %d: velocity %v did not decay from %v", frame, v, prev)
		}
		prev = v
	}
}

func TestStepSpinAccumulates(t *testing.T) {
	settings := motionSettings()
	field := buildField(t, 5, settings)

	noise := testNoise()
	for frame := 0; frame < 10; frame++ {
		field.Step(settings, noise, 0, nil, 1)
	}

	want := 10 * 0.01 * settings.AnimationSpeed
	for _, p := range field.Particles {
		if math.Abs(p.Spin.X-want) > 1e-9 || math.Abs(p.Spin.Y-want) > 1e-9 {
			t.Fatalf("spin %+v, want %v on both axes", p.Spin, want)
		}
	}
}

func TestStepCommitsBucketSlots(t *testing.T) {
	settings := motionSettings()
	settings.UseInstanced = true
	settings.NoiseScale = 0.2

	field, err := Build(makePoints(600, false), settings, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !field.Instanced {
		t.Fatal("expected batched field")
	}

	field.Step(settings, testNoise(), 0, nil, 1)

	for _, p := range field.Particles {
		slot := field.Buckets[p.Batch].Slots[p.Slot]
		if slot.Translation != p.Position {
			t.Fatalf("slot translation %+v out of sync with particle %+v", slot.Translation, p.Position)
		}
		if slot.Rotation != p.Spin {
			t.Fatalf("slot rotation %+v out of sync with spin %+v", slot.Rotation, p.Spin)
		}
		if slot.Scale != p.Size {
			t.Fatal("slot scale must stay the creation-time size")
		}
	}
}

// Plain construction check: a point set with captured colors keeps one bucket
// per distinct captured color.
func TestBuildBucketsPerCapturedColor(t *testing.T) {
	settings := motionSettings()
	settings.UseInstanced = true
	settings.PreserveColors = true

	points := make([]sampler.Point, 900)
	for i := range points {
		c := config.RGB255(uint8(i%3*40), 100, 200)
		points[i] = sampler.Point{
			Position: geom.Vec3{X: float64(i)},
			HasColor: true,
			Color:    c,
		}
	}

	field, err := Build(points, settings, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(field.Buckets) != 3 {
		t.Fatalf("expected 3 buckets for 3 captured colors, got %d", len(field.Buckets))
	}
}
