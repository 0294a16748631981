package config

import (
	"math"
	"strings"
	"testing"
)

func TestSanitizeRepairsBadValues(t *testing.T) {
	s := Default()
	s.ParticleCount = -5
	s.Density = 0
	s.NoiseScale = math.NaN()
	s.InteractionRadius = math.Inf(1)
	s.MinSize = 2
	s.MaxSize = 1

	got := s.Sanitize()
	def := Default()

	if got.ParticleCount != def.ParticleCount {
		t.Fatalf("particleCount %d, want default %d", got.ParticleCount, def.ParticleCount)
	}
	if got.Density != def.Density {
		t.Fatalf("density %v, want default %v", got.Density, def.Density)
	}
	if got.NoiseScale != def.NoiseScale {
		t.Fatalf("noiseScale %v, want default %v", got.NoiseScale, def.NoiseScale)
	}
	if got.InteractionRadius != def.InteractionRadius {
		t.Fatalf("interactionRadius %v, want default %v", got.InteractionRadius, def.InteractionRadius)
	}
	if got.MinSize != 1 || got.MaxSize != 2 {
		t.Fatalf("inverted size bounds not swapped: [%v, %v]", got.MinSize, got.MaxSize)
	}
}

func TestSanitizeKeepsValidValues(t *testing.T) {
	s := Default()
	s.ParticleCount = 123
	s.Density = 2.5
	s.SvgDepth = 15

	got := s.Sanitize()
	if got.ParticleCount != 123 || got.Density != 2.5 || got.SvgDepth != 15 {
		t.Fatalf("valid values were rewritten: %+v", got)
	}
}

func TestDumpRoundTripKeys(t *testing.T) {
	dump := Default().Dump()
	for _, key := range []string{
		"particleCount", "density", "minSize", "maxSize", "svgScale", "svgDepth",
		"color", "useGradient", "gradientColor1", "gradientColor2", "preserveColors",
		"includeStrokes", "strokeDetail", "animationSpeed", "noiseMovement", "noiseScale",
		"mouseInteraction", "repelEffect", "interactionRadius", "interactionStrength",
		"sandEffect", "sandStrength", "sandReturn",
		"glowEffect", "bloomStrength", "bloomRadius", "bloomThreshold",
		"enableOrbit", "orbitSensitivity", "zoomSpeed", "panSpeed", "useInstanced",
	} {
		if !strings.Contains(dump, key+"=") {
			t.Fatalf("dump missing %q:\n%s", key, dump)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		wantR   float64
		wantG   float64
		wantB   float64
		wantErr bool
	}{
		{in: "#ff0000", wantR: 1, wantG: 0, wantB: 0},
		{in: "#FF8000", wantR: 1, wantG: 128.0 / 255, wantB: 0},
		{in: "#fff", wantR: 1, wantG: 1, wantB: 1},
		{in: "rgb(10,20,30)", wantR: 10.0 / 255, wantG: 20.0 / 255, wantB: 30.0 / 255},
		{in: "rgb(0, 255, 0)", wantR: 0, wantG: 1, wantB: 0},
		{in: "rgb(300,0,0)", wantErr: true},
		{in: "blue", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}
			if c.R != tt.wantR || c.G != tt.wantG || c.B != tt.wantB {
				t.Fatalf("parsed %q to %+v", tt.in, c)
			}
		})
	}
}
