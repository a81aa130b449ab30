// Package camera provides an orbiting perspective camera for viewing the particle cloud.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// maxPitch keeps the camera off the poles, where LookAt degenerates.
const maxPitch = math.Pi/2 - 0.01

// Orbit circles a target point at a given distance.
// Rotation input is damped: Rotate queues a delta and Update releases a
// fraction of it each frame.
type Orbit struct {
	// Target is the point the camera looks at
	Target mgl32.Vec3

	// Distance from Target
	Distance float32

	// Yaw around +Y and pitch above the XZ plane, in radians.
	// Zero yaw and pitch put the camera on +Z.
	Yaw, Pitch float32

	// Perspective parameters (FOV in degrees)
	FOV, Near, Far float32

	// Viewport dimensions (CSS-style pixels, not device pixels)
	ViewportW, ViewportH float32

	// Damping is the fraction of queued rotation applied per Update.
	// Zero disables damping.
	Damping float32

	// Distance constraints
	MinDistance, MaxDistance float32

	pendingYaw, pendingPitch float32
}

// Options configures a new Orbit.
type Options struct {
	FOV, Near, Far           float32
	Distance                 float32
	Damping                  float32
	MinDistance, MaxDistance float32
}

// New creates a camera on +Z looking at the origin.
func New(viewportW, viewportH float32, opts Options) *Orbit {
	c := &Orbit{
		Distance:    opts.Distance,
		FOV:         opts.FOV,
		Near:        opts.Near,
		Far:         opts.Far,
		Damping:     opts.Damping,
		MinDistance: opts.MinDistance,
		MaxDistance: opts.MaxDistance,
		ViewportW:   1,
		ViewportH:   1,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// Resize updates the viewport. Non-positive dimensions, as seen while a
// window is minimized, are ignored and false is returned.
func (c *Orbit) Resize(viewportW, viewportH float32) bool {
	if viewportW <= 0 || viewportH <= 0 {
		return false
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	return true
}

// Aspect returns the viewport aspect ratio.
func (c *Orbit) Aspect() float32 {
	return c.ViewportW / c.ViewportH
}

// Rotate queues a rotation in radians.
func (c *Orbit) Rotate(dYaw, dPitch float32) {
	c.pendingYaw += dYaw
	c.pendingPitch += dPitch
}

// ZoomBy multiplies the distance by factor, clamped to min/max.
func (c *Orbit) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Update applies queued rotation. Call once per frame.
func (c *Orbit) Update() {
	step := c.Damping
	if step <= 0 || step > 1 {
		step = 1
	}

	c.Yaw += c.pendingYaw * step
	c.Pitch = clamp(c.Pitch+c.pendingPitch*step, -maxPitch, maxPitch)

	c.pendingYaw *= 1 - step
	c.pendingPitch *= 1 - step
}

// Moving reports whether queued rotation is still being released.
func (c *Orbit) Moving() bool {
	const eps = 1e-5
	return absf(c.pendingYaw) > eps || absf(c.pendingPitch) > eps
}

// Position returns the camera's world position.
func (c *Orbit) Position() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	offset := mgl32.Vec3{
		float32(cp * sy),
		float32(sp),
		float32(cp * cy),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

// View returns the world-to-camera matrix.
func (c *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the camera-to-clip matrix.
func (c *Orbit) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

// Project maps a world point to viewport pixels, with y growing downward.
// depth is the distance in front of the camera along the view axis.
// ok is false for points behind the near plane.
func (c *Orbit) Project(p mgl32.Vec3) (sx, sy, depth float32, ok bool) {
	return c.ProjectWith(c.Projection().Mul4(c.View()), p)
}

// ProjectWith is Project with a precomputed projection·view matrix, for
// projecting many points per frame.
func (c *Orbit) ProjectWith(viewProj mgl32.Mat4, p mgl32.Vec3) (sx, sy, depth float32, ok bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w < c.Near {
		return 0, 0, w, false
	}
	ndcX := clip.X() / w
	ndcY := clip.Y() / w
	sx = (ndcX + 1) / 2 * c.ViewportW
	sy = (1 - ndcY) / 2 * c.ViewportH
	return sx, sy, w, true
}

// Reset returns the camera to +Z at distance d with no queued motion.
func (c *Orbit) Reset(d float32) {
	c.Yaw, c.Pitch = 0, 0
	c.pendingYaw, c.pendingPitch = 0, 0
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
