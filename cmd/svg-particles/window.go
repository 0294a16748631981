package main

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"svg-particles/internal/engine3D"
	"svg-particles/internal/engine3D/render"
	"svg-particles/internal/utils"
)

type Window struct {
	engine   *engine3D.Engine
	renderer *render.Renderer
	camera   *render.OrbitCamera

	width, height int32
	lastFrameTime time.Time
	showStats     bool
}

func NewWindow(engine *engine3D.Engine, width, height int32) *Window {
	rl.SetTraceLogCallback(utils.RaylibLogCallback)
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(width, height, "svg-particles")

	return &Window{
		engine:        engine,
		renderer:      render.NewRenderer(),
		camera:        render.NewOrbitCamera(),
		width:         width,
		height:        height,
		lastFrameTime: time.Now(),
		showStats:     true,
	}
}

func (window *Window) Run() {
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		window.Update()

		rl.BeginDrawing()
		window.Draw()
		rl.EndDrawing()
	}

	window.renderer.Unload()
	rl.CloseWindow()
}

func (window *Window) Update() {
	currentTime := time.Now()
	deltaMs := currentTime.Sub(window.lastFrameTime).Seconds() * 1000
	window.lastFrameTime = currentTime

	window.width = int32(rl.GetScreenWidth())
	window.height = int32(rl.GetScreenHeight())

	if rl.IsKeyPressed(rl.KeyF1) {
		window.showStats = !window.showStats
	}

	settings := window.engine.Settings()
	window.camera.Update(settings)

	pointer := render.PointerWorld(window.camera.Camera())
	window.engine.Tick(deltaMs, pointer)
}

func (window *Window) Draw() {
	rl.ClearBackground(rl.Black)

	window.renderer.Draw(window.engine, window.camera.Camera(), window.width, window.height)

	if window.showStats {
		window.drawStats()
	}
}

func (window *Window) drawStats() {
	rl.DrawText(fmt.Sprintf("FPS: %.0f", window.engine.CurrentFPS()), 10, 10, 18, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("Particles: %d", window.engine.ParticleCount()), 10, 32, 18, rl.RayWhite)
}
