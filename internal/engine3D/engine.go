package engine3D

import (
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"

	"svg-particles/internal/config"
	"svg-particles/internal/engine3D/particle"
	"svg-particles/internal/geom"
	"svg-particles/internal/sampler"
	"svg-particles/internal/utils"
)

// RebuildDelay coalesces rapid settings changes into at most one rebuild per
// settling period.
const RebuildDelay = 300 * time.Millisecond

// Engine owns the layer stack, the current settings snapshot and everything
// the per-frame update needs. One engine per scene; no ambient globals. All
// methods are meant to be called from the single render-loop goroutine.
type Engine struct {
	settings config.Settings
	layers   []*Layer
	nextID   LayerID

	rng   *rand.Rand
	noise *perlin.Perlin

	elapsed float64 // total scene time, seconds
	fps     float64

	// Debounced rebuild state.
	pending   *config.Settings
	pendingAt time.Time

	// Decode completions from import goroutines, drained at tick start.
	decoded chan decodeResult

	now    func() time.Time
	notify func(string)
}

type decodeResult struct {
	layer      LayerID
	generation int
	raster     *image.RGBA
	err        error
}

// Options configures a new engine. Zero fields fall back to defaults.
type Options struct {
	Settings config.Settings
	Seed     int64
	Now      func() time.Time
	Notify   func(string)
}

func NewEngine(opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	notify := opts.Notify
	if notify == nil {
		notify = func(msg string) { utils.Warn("%s", msg) }
	}

	return &Engine{
		settings: opts.Settings.Sanitize(),
		rng:      rand.New(rand.NewSource(seed)),
		noise:    perlin.NewPerlin(2, 2, 3, seed),
		decoded:  make(chan decodeResult, 8),
		now:      now,
		notify:   notify,
	}
}

// ImportArtwork parses SVG text and adds a layer for it. Parsing failures
// return a DecodeError and leave the stack untouched. Rasterization runs on
// its own goroutine; the layer stays unpopulated (and is not rendered) until
// the completion is drained by a later Tick.
func (e *Engine) ImportArtwork(raw, name string) (LayerID, error) {
	artwork, err := sampler.Parse(raw)
	if err != nil {
		return 0, err
	}

	e.nextID++
	layer := &Layer{
		ID:      e.nextID,
		Name:    name,
		Visible: true,
		Scale:   e.settings.SvgScale,
		Source:  raw,
		artwork: artwork,
	}
	e.layers = append(e.layers, layer)

	id := layer.ID
	generation := layer.generation
	go func() {
		img, rerr := artwork.Rasterize()
		e.decoded <- decodeResult{layer: id, generation: generation, raster: img, err: rerr}
	}()

	utils.Info("Importing layer %d (%s)", id, name)
	return id, nil
}

// Rebuild applies a settings snapshot and rebuilds one layer immediately.
func (e *Engine) Rebuild(id LayerID, settings config.Settings) {
	e.settings = settings.Sanitize()
	if layer := e.find(id); layer != nil {
		e.buildLayer(layer)
	}
}

// UpdateSettings installs a new snapshot. Motion-only changes take effect on
// the next tick; changes that affect particle generation schedule a debounced
// rebuild of every layer.
func (e *Engine) UpdateSettings(settings config.Settings) {
	settings = settings.Sanitize()
	needsRebuild := generationAffecting(e.settings, settings)
	e.settings = settings
	for _, layer := range e.layers {
		layer.Scale = settings.SvgScale
	}
	if needsRebuild {
		e.pending = &settings
		e.pendingAt = e.now()
	}
}

// Settings returns the current snapshot.
func (e *Engine) Settings() config.Settings { return e.settings }

// SetVisible toggles a layer's visibility.
func (e *Engine) SetVisible(id LayerID, visible bool) {
	if layer := e.find(id); layer != nil {
		layer.Visible = visible
	}
}

// Reorder moves a layer to a new index in the stack.
func (e *Engine) Reorder(id LayerID, index int) {
	from := -1
	for i, layer := range e.layers {
		if layer.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return
	}
	layer := e.layers[from]
	e.layers = append(e.layers[:from], e.layers[from+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(e.layers) {
		index = len(e.layers)
	}
	e.layers = append(e.layers[:index], append([]*Layer{layer}, e.layers[index:]...)...)
}

// Remove disposes a layer. Any in-flight decode for it becomes a no-op.
func (e *Engine) Remove(id LayerID) {
	for i, layer := range e.layers {
		if layer.ID == id {
			layer.generation++
			layer.Field = nil
			e.layers = append(e.layers[:i], e.layers[i+1:]...)
			utils.Info("Removed layer %d (%s)", id, layer.Name)
			return
		}
	}
}

// Layers returns the stack in render order.
func (e *Engine) Layers() []*Layer { return e.layers }

// Tick advances the scene by one frame: drain decode completions, fire a due
// debounced rebuild, then run the motion model for every visible layer. A
// failure inside one layer is logged and skipped; the loop always continues.
func (e *Engine) Tick(elapsedMs float64, pointer *geom.Vec3) {
	e.drainDecoded()

	if e.pending != nil && e.now().Sub(e.pendingAt) >= RebuildDelay {
		settings := *e.pending
		e.pending = nil
		e.settings = settings
		for _, layer := range e.layers {
			e.buildLayer(layer)
		}
	}

	if elapsedMs > 0 {
		e.elapsed += elapsedMs / 1000
		e.fps = e.fps*0.9 + (1000/elapsedMs)*0.1
	}

	if !e.settings.MouseInteraction {
		pointer = nil
	}

	for _, layer := range e.layers {
		if !layer.Visible || !layer.Populated() {
			continue
		}
		e.stepLayer(layer, pointer)
	}
}

func (e *Engine) stepLayer(layer *Layer, pointer *geom.Vec3) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("Layer %d update failed, skipping frame: %v", layer.ID, r)
		}
	}()
	layer.Field.Step(e.settings, e.noise, e.elapsed, pointer, layer.Scale)
}

// ParticleCount sums particles across all layers.
func (e *Engine) ParticleCount() int {
	total := 0
	for _, layer := range e.layers {
		total += layer.ParticleCount()
	}
	return total
}

// CurrentFPS returns the smoothed tick rate.
func (e *Engine) CurrentFPS() float64 { return e.fps }

// SettingsDump renders the current snapshot for export consumers.
func (e *Engine) SettingsDump() string { return e.settings.Dump() }

// FirstSource returns the first layer's raw artwork, or "" with no layers.
func (e *Engine) FirstSource() string {
	if len(e.layers) == 0 {
		return ""
	}
	return e.layers[0].Source
}

func (e *Engine) find(id LayerID) *Layer {
	for _, layer := range e.layers {
		if layer.ID == id {
			return layer
		}
	}
	return nil
}

func (e *Engine) drainDecoded() {
	for {
		select {
		case res := <-e.decoded:
			e.applyDecoded(res)
		default:
			return
		}
	}
}

func (e *Engine) applyDecoded(res decodeResult) {
	layer := e.find(res.layer)
	if layer == nil || layer.generation != res.generation {
		utils.Debug("Discarding stale decode for layer %d", res.layer)
		return
	}
	if res.err != nil {
		e.notify(fmt.Sprintf("Artwork failed to rasterize: %v", res.err))
		e.Remove(res.layer)
		return
	}
	layer.raster = res.raster
	e.buildLayer(layer)
}

// buildLayer regenerates a layer's particles from its cached raster and the
// current settings snapshot. On failure the layer is left safely empty.
func (e *Engine) buildLayer(layer *Layer) {
	if layer.raster == nil {
		return // still decoding; built when the completion arrives
	}
	layer.generation++

	fill, outline := sampler.Sample(layer.raster, e.settings, e.rng)
	if len(fill)+len(outline) == 0 {
		e.notify(fmt.Sprintf("Layer %s produced no visible pixels", layer.Name))
		layer.Field = &particle.Field{}
		return
	}

	selected := sampler.Select(fill, outline, e.settings.ParticleCount, e.rng)
	field, err := particle.Build(selected, e.settings, e.rng)
	if err != nil {
		e.notify(fmt.Sprintf("Particle build failed for %s: %v", layer.Name, err))
		layer.Field = &particle.Field{}
		return
	}

	layer.Field = field
	layer.Scale = e.settings.SvgScale
	utils.Debug("Layer %d rebuilt: %d particles (%d fill candidates, %d outline)",
		layer.ID, len(field.Particles), len(fill), len(outline))
}

// generationAffecting reports whether the change between two snapshots
// requires regenerating particles. Motion, camera, pointer and glow settings
// apply frame to frame without a rebuild; switching between noise and
// oscillator movement regenerates, since phases and noise coordinates are
// rolled at build time.
func generationAffecting(a, b config.Settings) bool {
	a = normalizeMotion(a)
	b = normalizeMotion(b)
	return a != b
}

// normalizeMotion zeroes every field that does not influence generation, so
// the two snapshots compare equal unless a generation input changed.
func normalizeMotion(s config.Settings) config.Settings {
	s.AnimationSpeed = 0
	s.NoiseScale = 0
	s.MouseInteraction = false
	s.RepelEffect = false
	s.InteractionRadius = 0
	s.InteractionStrength = 0
	s.SandEffect = false
	s.SandStrength = 0
	s.SandReturn = 0
	s.GlowEffect = false
	s.BloomStrength = 0
	s.BloomRadius = 0
	s.BloomThreshold = 0
	s.EnableOrbit = false
	s.OrbitSensitivity = 0
	s.ZoomSpeed = 0
	s.PanSpeed = 0
	s.SvgScale = 0
	return s
}
