package engine3D

import (
	"image"

	"svg-particles/internal/engine3D/particle"
	"svg-particles/internal/sampler"
)

// LayerID is the opaque handle the UI side holds onto.
type LayerID int

// Layer is one imported artwork's particle field. Particles are owned
// exclusively by their layer and fully rebuilt on generation-setting changes,
// never patched in place.
type Layer struct {
	ID      LayerID
	Name    string
	Visible bool
	Scale   float64
	Source  string // raw SVG text, kept for export consumers

	Field *particle.Field

	artwork *sampler.Artwork
	raster  *image.RGBA // cached working-canvas raster, settings-independent

	// generation invalidates in-flight decode results after removal or
	// rebuild; a completion carrying a stale generation is discarded.
	generation int
}

// Populated reports whether the layer has finished building at least once.
func (l *Layer) Populated() bool {
	return l.Field != nil
}

// ParticleCount returns the layer's current particle count.
func (l *Layer) ParticleCount() int {
	return l.Field.Count()
}
