package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestCamera() *Orbit {
	return New(1280, 720, Options{
		FOV:         75,
		Near:        0.1,
		Far:         100,
		Distance:    3,
		Damping:     0.05,
		MinDistance: 0.5,
		MaxDistance: 20,
	})
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestNewStartsOnPositiveZ(t *testing.T) {
	cam := newTestCamera()

	p := cam.Position()
	if !near(p.X(), 0) || !near(p.Y(), 0) || !near(p.Z(), 3) {
		t.Errorf("expected camera at (0, 0, 3), got %v", p)
	}
	if !near(cam.Aspect(), 1280.0/720.0) {
		t.Errorf("unexpected aspect %f", cam.Aspect())
	}
}

func TestOriginProjectsToViewportCenter(t *testing.T) {
	cam := newTestCamera()

	sx, sy, depth, ok := cam.Project(mgl32.Vec3{0, 0, 0})
	if !ok {
		t.Fatal("origin should be in front of the camera")
	}
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
	if !near(depth, 3) {
		t.Errorf("expected depth 3, got %f", depth)
	}
}

func TestProjectOrientation(t *testing.T) {
	cam := newTestCamera()

	// +X is to the right and +Y is up (smaller screen y).
	rx, _, _, _ := cam.Project(mgl32.Vec3{0.5, 0, 0})
	_, uy, _, _ := cam.Project(mgl32.Vec3{0, 0.5, 0})
	if rx <= 640 {
		t.Errorf("+X projected left of center: %f", rx)
	}
	if uy >= 360 {
		t.Errorf("+Y projected below center: %f", uy)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := newTestCamera()

	if _, _, _, ok := cam.Project(mgl32.Vec3{0, 0, 5}); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestResizeIgnoresZeroDimensions(t *testing.T) {
	cam := newTestCamera()

	testCases := []struct{ w, h float32 }{
		{0, 0},
		{0, 600},
		{800, 0},
		{-1, 600},
	}
	for _, tc := range testCases {
		if cam.Resize(tc.w, tc.h) {
			t.Errorf("Resize(%f, %f) accepted", tc.w, tc.h)
		}
		if !near(cam.Aspect(), 1280.0/720.0) {
			t.Errorf("aspect changed to %f after Resize(%f, %f)", cam.Aspect(), tc.w, tc.h)
		}
	}

	// Projection stays finite through the transient state.
	m := cam.Projection()
	for i, v := range m {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("projection element %d is %f", i, v)
		}
	}

	if !cam.Resize(600, 600) {
		t.Fatal("Resize(600, 600) rejected")
	}
	if !near(cam.Aspect(), 1) {
		t.Errorf("expected aspect 1, got %f", cam.Aspect())
	}
}

func TestDampedRotationConverges(t *testing.T) {
	cam := newTestCamera()
	cam.Rotate(1, 0)

	cam.Update()
	if !near(cam.Yaw, 0.05) {
		t.Errorf("first update should release 5%%, got yaw %f", cam.Yaw)
	}
	if !cam.Moving() {
		t.Error("camera should still be moving")
	}

	for i := 0; i < 1000; i++ {
		cam.Update()
	}
	if !near(cam.Yaw, 1) {
		t.Errorf("expected yaw to converge to 1, got %f", cam.Yaw)
	}
	if cam.Moving() {
		t.Error("camera should have settled")
	}
}

func TestUndampedRotationIsImmediate(t *testing.T) {
	cam := newTestCamera()
	cam.Damping = 0
	cam.Rotate(math.Pi/2, 0)
	cam.Update()

	p := cam.Position()
	if !near(p.X(), 3) || !near(p.Z(), 0) {
		t.Errorf("quarter turn should put camera on +X, got %v", p)
	}
}

func TestPitchClamped(t *testing.T) {
	cam := newTestCamera()
	cam.Damping = 0
	cam.Rotate(0, 10)
	cam.Update()

	if cam.Pitch > maxPitch+1e-6 {
		t.Errorf("pitch %f exceeds limit", cam.Pitch)
	}
	// View must stay well defined near the pole.
	for i, v := range cam.View() {
		if math.IsNaN(float64(v)) {
			t.Fatalf("view element %d is NaN", i)
		}
	}
}

func TestZoomClamped(t *testing.T) {
	cam := newTestCamera()

	cam.ZoomBy(100)
	if cam.Distance != 20 {
		t.Errorf("expected max distance 20, got %f", cam.Distance)
	}
	cam.ZoomBy(0.0001)
	if cam.Distance != 0.5 {
		t.Errorf("expected min distance 0.5, got %f", cam.Distance)
	}
	cam.ZoomBy(-1)
	if cam.Distance != 0.5 {
		t.Errorf("negative factor changed distance to %f", cam.Distance)
	}
}

func TestReset(t *testing.T) {
	cam := newTestCamera()
	cam.Rotate(1, 1)
	cam.Update()
	cam.ZoomBy(2)

	cam.Reset(3)

	if cam.Yaw != 0 || cam.Pitch != 0 || cam.Distance != 3 || cam.Moving() {
		t.Errorf("reset left yaw=%f pitch=%f distance=%f", cam.Yaw, cam.Pitch, cam.Distance)
	}
}
