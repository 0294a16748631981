package render

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"svg-particles/internal/config"
	"svg-particles/internal/geom"
)

// OrbitCamera is a target-orbiting camera: left-drag rotates, wheel zooms,
// right-drag pans. All speeds scale with the settings.
type OrbitCamera struct {
	Target   rl.Vector3
	Yaw      float64
	Pitch    float64
	Distance float64
}

func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Yaw:      -math.Pi / 2,
		Pitch:    0.15,
		Distance: 260,
	}
}

// Update consumes this frame's mouse input. No-op when orbit is disabled.
func (c *OrbitCamera) Update(settings config.Settings) {
	if !settings.EnableOrbit {
		return
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		delta := rl.GetMouseDelta()
		c.Yaw -= float64(delta.X) * 0.005 * settings.OrbitSensitivity
		c.Pitch += float64(delta.Y) * 0.005 * settings.OrbitSensitivity

		const maxPitch = math.Pi/2 - 0.05
		if c.Pitch > maxPitch {
			c.Pitch = maxPitch
		}
		if c.Pitch < -maxPitch {
			c.Pitch = -maxPitch
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Distance *= 1 - float64(wheel)*0.1*settings.ZoomSpeed
		if c.Distance < 10 {
			c.Distance = 10
		}
		if c.Distance > 1500 {
			c.Distance = 1500
		}
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		panScale := c.Distance * 0.001 * settings.PanSpeed
		right, up := c.axes()
		c.Target.X -= float32((right.X*float64(delta.X) - up.X*float64(delta.Y)) * panScale)
		c.Target.Y -= float32((right.Y*float64(delta.X) - up.Y*float64(delta.Y)) * panScale)
		c.Target.Z -= float32((right.Z*float64(delta.X) - up.Z*float64(delta.Y)) * panScale)
	}
}

// Camera materializes the raylib camera for this frame.
func (c *OrbitCamera) Camera() rl.Camera3D {
	cp := math.Cos(c.Pitch)
	offset := rl.NewVector3(
		float32(cp*math.Cos(c.Yaw)*c.Distance),
		float32(math.Sin(c.Pitch)*c.Distance),
		float32(cp*math.Sin(c.Yaw)*c.Distance),
	)
	return rl.Camera3D{
		Position:   rl.Vector3Add(c.Target, offset),
		Target:     c.Target,
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// axes returns the camera's right and up basis vectors in world space.
func (c *OrbitCamera) axes() (right, up geom.Vec3) {
	forward := geom.Vec3{
		X: -math.Cos(c.Pitch) * math.Cos(c.Yaw),
		Y: -math.Sin(c.Pitch),
		Z: -math.Cos(c.Pitch) * math.Sin(c.Yaw),
	}
	worldUp := geom.Vec3{Y: 1}
	right = geom.Vec3{
		X: forward.Y*worldUp.Z - forward.Z*worldUp.Y,
		Y: forward.Z*worldUp.X - forward.X*worldUp.Z,
		Z: forward.X*worldUp.Y - forward.Y*worldUp.X,
	}.Normalize()
	up = geom.Vec3{
		X: right.Y*forward.Z - right.Z*forward.Y,
		Y: right.Z*forward.X - right.X*forward.Z,
		Z: right.X*forward.Y - right.Y*forward.X,
	}.Scale(-1)
	return right, up
}

// PointerWorld intersects the mouse ray with the z=0 artwork plane, giving
// the pointer position the motion model consumes. Returns nil when the ray
// runs parallel to the plane.
func PointerWorld(camera rl.Camera3D) *geom.Vec3 {
	ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), camera)
	if math.Abs(float64(ray.Direction.Z)) < 1e-6 {
		return nil
	}
	t := -float64(ray.Position.Z) / float64(ray.Direction.Z)
	if t < 0 {
		return nil
	}
	return &geom.Vec3{
		X: float64(ray.Position.X) + float64(ray.Direction.X)*t,
		Y: float64(ray.Position.Y) + float64(ray.Direction.Y)*t,
		Z: 0,
	}
}
