package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"svg-particles/internal/utils"
)

// Settings is the full generation and runtime configuration. One snapshot is
// taken per rebuild trigger; the engine never reads settings from anywhere
// else. All fields are plain scalars, booleans or colors.
type Settings struct {
	// Generation
	ParticleCount int     // target particle count per layer
	Density       float64 // sampling stride factor (fill stride = 2*Density)
	MinSize       float64 // particle size roll lower bound
	MaxSize       float64 // particle size roll upper bound
	SvgScale      float64 // uniform layer scale
	SvgDepth      float64 // depth range; 0 keeps the field flat

	// Color
	Color          colorful.Color // flat color
	UseGradient    bool
	GradientColor1 colorful.Color
	GradientColor2 colorful.Color
	PreserveColors bool // keep per-pixel colors captured from the artwork

	// Outline
	IncludeStrokes bool
	StrokeDetail   float64 // divides the fill stride for the edge pass

	// Motion
	AnimationSpeed float64
	NoiseMovement  bool // coherent noise when true, oscillator when false
	NoiseScale     float64

	// Pointer interaction
	MouseInteraction    bool
	RepelEffect         bool // repel when true, attract when false
	InteractionRadius   float64
	InteractionStrength float64

	// Spring ("sand") mode
	SandEffect   bool
	SandStrength float64
	SandReturn   float64

	// Post-processing
	GlowEffect     bool
	BloomStrength  float64
	BloomRadius    float64
	BloomThreshold float64

	// Camera
	EnableOrbit      bool
	OrbitSensitivity float64
	ZoomSpeed        float64
	PanSpeed         float64

	// Representation
	UseInstanced bool
}

// Default returns the documented defaults for every recognized option.
func Default() Settings {
	return Settings{
		ParticleCount:  2000,
		Density:        1,
		MinSize:        0.5,
		MaxSize:        1.5,
		SvgScale:       1,
		SvgDepth:       0,

		Color:          mustColor("#00aaff"),
		UseGradient:    false,
		GradientColor1: mustColor("#ff0066"),
		GradientColor2: mustColor("#00ffff"),
		PreserveColors: false,

		IncludeStrokes: true,
		StrokeDetail:   2,

		AnimationSpeed: 1,
		NoiseMovement:  true,
		NoiseScale:     0.1,

		MouseInteraction:    true,
		RepelEffect:         true,
		InteractionRadius:   80,
		InteractionStrength: 5,

		SandEffect:   false,
		SandStrength: 5,
		SandReturn:   1,

		GlowEffect:     true,
		BloomStrength:  0.9,
		BloomRadius:    0.5,
		BloomThreshold: 0.75,

		EnableOrbit:      true,
		OrbitSensitivity: 1,
		ZoomSpeed:        1,
		PanSpeed:         1,

		UseInstanced: true,
	}
}

// Sanitize replaces malformed values with their defaults. Settings problems
// are recovered locally and logged, never surfaced as errors.
func (s Settings) Sanitize() Settings {
	def := Default()

	fix := func(name string, v, d float64, ok bool) float64 {
		if ok {
			return v
		}
		utils.Warn("Settings: %s=%v invalid, using default %v", name, v, d)
		return d
	}
	positive := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 }
	nonNegative := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 }

	if s.ParticleCount <= 0 {
		utils.Warn("Settings: particleCount=%d invalid, using default %d", s.ParticleCount, def.ParticleCount)
		s.ParticleCount = def.ParticleCount
	}
	s.Density = fix("density", s.Density, def.Density, positive(s.Density))
	s.MinSize = fix("minSize", s.MinSize, def.MinSize, positive(s.MinSize))
	s.MaxSize = fix("maxSize", s.MaxSize, def.MaxSize, positive(s.MaxSize))
	if s.MaxSize < s.MinSize {
		utils.Warn("Settings: maxSize=%v below minSize=%v, swapping", s.MaxSize, s.MinSize)
		s.MinSize, s.MaxSize = s.MaxSize, s.MinSize
	}
	s.SvgScale = fix("svgScale", s.SvgScale, def.SvgScale, positive(s.SvgScale))
	s.SvgDepth = fix("svgDepth", s.SvgDepth, def.SvgDepth, nonNegative(s.SvgDepth))
	s.StrokeDetail = fix("strokeDetail", s.StrokeDetail, def.StrokeDetail, positive(s.StrokeDetail))
	s.AnimationSpeed = fix("animationSpeed", s.AnimationSpeed, def.AnimationSpeed, nonNegative(s.AnimationSpeed))
	s.NoiseScale = fix("noiseScale", s.NoiseScale, def.NoiseScale, nonNegative(s.NoiseScale))
	s.InteractionRadius = fix("interactionRadius", s.InteractionRadius, def.InteractionRadius, nonNegative(s.InteractionRadius))
	s.InteractionStrength = fix("interactionStrength", s.InteractionStrength, def.InteractionStrength, nonNegative(s.InteractionStrength))
	s.SandStrength = fix("sandStrength", s.SandStrength, def.SandStrength, nonNegative(s.SandStrength))
	s.SandReturn = fix("sandReturn", s.SandReturn, def.SandReturn, nonNegative(s.SandReturn))
	s.BloomStrength = fix("bloomStrength", s.BloomStrength, def.BloomStrength, nonNegative(s.BloomStrength))
	s.BloomRadius = fix("bloomRadius", s.BloomRadius, def.BloomRadius, nonNegative(s.BloomRadius))
	s.BloomThreshold = fix("bloomThreshold", s.BloomThreshold, def.BloomThreshold, nonNegative(s.BloomThreshold))
	s.OrbitSensitivity = fix("orbitSensitivity", s.OrbitSensitivity, def.OrbitSensitivity, positive(s.OrbitSensitivity))
	s.ZoomSpeed = fix("zoomSpeed", s.ZoomSpeed, def.ZoomSpeed, positive(s.ZoomSpeed))
	s.PanSpeed = fix("panSpeed", s.PanSpeed, def.PanSpeed, positive(s.PanSpeed))

	return s
}

// Dump renders the snapshot as key=value lines for export consumers.
func (s Settings) Dump() string {
	var b strings.Builder
	w := func(key string, value interface{}) {
		fmt.Fprintf(&b, "%s=%v\n", key, value)
	}

	w("particleCount", s.ParticleCount)
	w("density", s.Density)
	w("minSize", s.MinSize)
	w("maxSize", s.MaxSize)
	w("svgScale", s.SvgScale)
	w("svgDepth", s.SvgDepth)
	w("color", s.Color.Hex())
	w("useGradient", s.UseGradient)
	w("gradientColor1", s.GradientColor1.Hex())
	w("gradientColor2", s.GradientColor2.Hex())
	w("preserveColors", s.PreserveColors)
	w("includeStrokes", s.IncludeStrokes)
	w("strokeDetail", s.StrokeDetail)
	w("animationSpeed", s.AnimationSpeed)
	w("noiseMovement", s.NoiseMovement)
	w("noiseScale", s.NoiseScale)
	w("mouseInteraction", s.MouseInteraction)
	w("repelEffect", s.RepelEffect)
	w("interactionRadius", s.InteractionRadius)
	w("interactionStrength", s.InteractionStrength)
	w("sandEffect", s.SandEffect)
	w("sandStrength", s.SandStrength)
	w("sandReturn", s.SandReturn)
	w("glowEffect", s.GlowEffect)
	w("bloomStrength", s.BloomStrength)
	w("bloomRadius", s.BloomRadius)
	w("bloomThreshold", s.BloomThreshold)
	w("enableOrbit", s.EnableOrbit)
	w("orbitSensitivity", s.OrbitSensitivity)
	w("zoomSpeed", s.ZoomSpeed)
	w("panSpeed", s.PanSpeed)
	w("useInstanced", s.UseInstanced)

	return b.String()
}

func mustColor(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}
