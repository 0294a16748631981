package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"svg-particles/internal/config"
)

// bloomPass implements the glow post-process: threshold extraction at half
// resolution, separable gaussian blur, additive combine.
type bloomPass struct {
	width, height int32

	scene rl.RenderTexture2D
	pingA rl.RenderTexture2D
	pingB rl.RenderTexture2D

	extract rl.Shader
	blur    rl.Shader
	combine rl.Shader

	locThreshold int32
	locDirection int32
	locStrength  int32
	locBloomTex  int32
}

func newBloomPass(width, height int32) *bloomPass {
	b := &bloomPass{
		width:  width,
		height: height,
		scene:  rl.LoadRenderTexture(width, height),
		pingA:  rl.LoadRenderTexture(width/2, height/2),
		pingB:  rl.LoadRenderTexture(width/2, height/2),
	}

	b.extract = rl.LoadShaderFromMemory("", extractFS)
	b.blur = rl.LoadShaderFromMemory("", blurFS)
	b.combine = rl.LoadShaderFromMemory("", combineFS)

	b.locThreshold = rl.GetShaderLocation(b.extract, "threshold")
	b.locDirection = rl.GetShaderLocation(b.blur, "direction")
	b.locStrength = rl.GetShaderLocation(b.combine, "bloomStrength")
	b.locBloomTex = rl.GetShaderLocation(b.combine, "bloomTexture")

	return b
}

// composite runs the post chain and draws the final image to the screen.
// The scene render texture must already contain this frame.
func (b *bloomPass) composite(settings config.Settings) {
	// 1. Bright-pass extract into the half-res buffer.
	rl.BeginTextureMode(b.pingA)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(b.extract)
	rl.SetShaderValue(b.extract, b.locThreshold, []float32{float32(settings.BloomThreshold)}, rl.ShaderUniformFloat)
	drawFlipped(b.scene, b.width/2, b.height/2)
	rl.EndShaderMode()
	rl.EndTextureMode()

	// 2. Two separable blur iterations, ping-ponging A<->B.
	texelX := float32(settings.BloomRadius*2) / float32(b.width/2)
	texelY := float32(settings.BloomRadius*2) / float32(b.height/2)
	for i := 0; i < 2; i++ {
		b.blurPass(b.pingA, b.pingB, texelX, 0)
		b.blurPass(b.pingB, b.pingA, 0, texelY)
	}

	// 3. Additive combine over the scene.
	rl.BeginShaderMode(b.combine)
	rl.SetShaderValue(b.combine, b.locStrength, []float32{float32(settings.BloomStrength)}, rl.ShaderUniformFloat)
	rl.SetShaderValueTexture(b.combine, b.locBloomTex, b.pingA.Texture)
	drawFlipped(b.scene, b.width, b.height)
	rl.EndShaderMode()
}

func (b *bloomPass) blurPass(src, dst rl.RenderTexture2D, dirX, dirY float32) {
	rl.BeginTextureMode(dst)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(b.blur)
	rl.SetShaderValue(b.blur, b.locDirection, []float32{dirX, dirY}, rl.ShaderUniformVec2)
	drawFlipped(src, b.width/2, b.height/2)
	rl.EndShaderMode()
	rl.EndTextureMode()
}

// drawFlipped blits a render texture over the full target, undoing the
// vertical flip render textures carry.
func drawFlipped(rt rl.RenderTexture2D, dstW, dstH int32) {
	src := rl.NewRectangle(0, 0, float32(rt.Texture.Width), -float32(rt.Texture.Height))
	dst := rl.NewRectangle(0, 0, float32(dstW), float32(dstH))
	rl.DrawTexturePro(rt.Texture, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

func (b *bloomPass) unload() {
	rl.UnloadRenderTexture(b.scene)
	rl.UnloadRenderTexture(b.pingA)
	rl.UnloadRenderTexture(b.pingB)
	rl.UnloadShader(b.extract)
	rl.UnloadShader(b.blur)
	rl.UnloadShader(b.combine)
}
