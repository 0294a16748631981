package render

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"svg-particles/internal/engine3D"
	"svg-particles/internal/engine3D/particle"
	"svg-particles/internal/utils"
)

// Renderer commits the engine's particle fields to the GPU. Per-object
// particles draw one mesh each; batched buckets go through a single
// instanced submission per (color, outline) material.
type Renderer struct {
	mesh           rl.Mesh
	instanceShader rl.Shader

	// Materials cached per color+class; never evicted except on Unload.
	materials map[string]rl.Material

	bloom *bloomPass

	// Scratch instance matrices, reused across buckets and frames.
	transforms []rl.Matrix
}

func NewRenderer() *Renderer {
	r := &Renderer{
		mesh:      rl.GenMeshSphere(0.5, 8, 8),
		materials: make(map[string]rl.Material),
	}
	r.instanceShader = rl.LoadShaderFromMemory(instanceVS, instanceFS)
	r.instanceShader.UpdateLocation(rl.ShaderLocMatrixMvp, rl.GetShaderLocation(r.instanceShader, "mvp"))
	r.instanceShader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(r.instanceShader, "instanceTransform"))
	return r
}

// Draw renders one frame of the layer stack through the given camera,
// applying the bloom pass when glow is enabled.
func (r *Renderer) Draw(e *engine3D.Engine, camera rl.Camera3D, width, height int32) {
	settings := e.Settings()

	if settings.GlowEffect {
		r.ensureBloom(width, height)
		rl.BeginTextureMode(r.bloom.scene)
		rl.ClearBackground(rl.Black)
		r.drawScene(e, camera)
		rl.EndTextureMode()
		r.bloom.composite(settings)
		return
	}

	r.drawScene(e, camera)
}

func (r *Renderer) drawScene(e *engine3D.Engine, camera rl.Camera3D) {
	rl.BeginMode3D(camera)
	for _, layer := range e.Layers() {
		if !layer.Visible || !layer.Populated() {
			continue
		}
		r.drawField(layer.Field, layer.Scale)
	}
	rl.EndMode3D()
}

func (r *Renderer) drawField(f *particle.Field, scale float64) {
	if f.Instanced {
		for bi := range f.Buckets {
			r.drawBucket(&f.Buckets[bi], scale)
		}
		return
	}

	for i := range f.Particles {
		p := &f.Particles[i]
		transform := composeTransform(
			float32(p.Position.X*scale), float32(p.Position.Y*scale), float32(p.Position.Z*scale),
			float32(p.Spin.X), float32(p.Spin.Y),
			float32(p.Size*scale),
		)
		rl.DrawMesh(r.mesh, r.material(p.Color, p.Outline, false), transform)
	}
}

func (r *Renderer) drawBucket(b *particle.Bucket, scale float64) {
	if len(b.Slots) == 0 {
		return
	}
	if cap(r.transforms) < len(b.Slots) {
		r.transforms = make([]rl.Matrix, len(b.Slots))
	}
	transforms := r.transforms[:len(b.Slots)]

	for i := range b.Slots {
		s := &b.Slots[i]
		transforms[i] = composeTransform(
			float32(s.Translation.X*scale), float32(s.Translation.Y*scale), float32(s.Translation.Z*scale),
			float32(s.Rotation.X), float32(s.Rotation.Y),
			float32(s.Scale*scale),
		)
	}

	rl.DrawMeshInstanced(r.mesh, r.material(b.Color, b.Outline, true), transforms, len(transforms))
}

// composeTransform builds S*R*T from the retained slot components instead of
// decomposing the previously written matrix.
func composeTransform(x, y, z, rotX, rotY, scale float32) rl.Matrix {
	m := rl.MatrixScale(scale, scale, scale)
	m = rl.MatrixMultiply(m, rl.MatrixRotateXYZ(rl.NewVector3(rotX, rotY, 0)))
	return rl.MatrixMultiply(m, rl.MatrixTranslate(x, y, z))
}

func (r *Renderer) material(c colorful.Color, outline, instanced bool) rl.Material {
	key := materialKey(c, outline, instanced)
	if mat, ok := r.materials[key]; ok {
		return mat
	}

	mat := rl.LoadMaterialDefault()
	if instanced {
		mat.Shader = r.instanceShader
	}
	cr, cg, cb := c.RGB255()
	mat.GetMap(rl.MapDiffuse).Color = rl.NewColor(cr, cg, cb, 255)
	r.materials[key] = mat

	utils.Debug("Material cache: created %s (%d cached)", key, len(r.materials))
	return mat
}

func materialKey(c colorful.Color, outline, instanced bool) string {
	class := "fill"
	if outline {
		class = "outline"
	}
	if instanced {
		class += "_inst"
	}
	return fmt.Sprintf("%s_%s", c.Hex(), class)
}

func (r *Renderer) ensureBloom(width, height int32) {
	if r.bloom != nil && r.bloom.width == width && r.bloom.height == height {
		return
	}
	if r.bloom != nil {
		r.bloom.unload()
	}
	r.bloom = newBloomPass(width, height)
}

// Unload frees every GPU resource, including the material cache.
func (r *Renderer) Unload() {
	rl.UnloadMesh(&r.mesh)
	rl.UnloadShader(r.instanceShader)
	// Cached materials share the default shader and own no textures; dropping
	// the map is the whole teardown.
	r.materials = make(map[string]rl.Material)
	if r.bloom != nil {
		r.bloom.unload()
		r.bloom = nil
	}
}
