package render

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

func TestToMatrixKeepsTranslationColumn(t *testing.T) {
	got := toMatrix(mgl32.Translate3D(1, 2, 3))
	want := rl.MatrixTranslate(1, 2, 3)
	if got != want {
		t.Errorf("toMatrix(Translate3D) = %+v, want %+v", got, want)
	}
}

func TestToMatrixFlattensInMglOrder(t *testing.T) {
	// MultMatrix hands MatrixToFloatV's order to rlgl, which must match
	// the column-major order mgl32 stores.
	cam := mgl32.Perspective(mgl32.DegToRad(75), 1.6, 0.1, 100).
		Mul4(mgl32.LookAtV(mgl32.Vec3{0.5, 1, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))

	flat := rl.MatrixToFloatV(toMatrix(cam))
	for i := range flat {
		if flat[i] != cam[i] {
			t.Fatalf("element %d = %v, want %v", i, flat[i], cam[i])
		}
	}

	proj := toMatrix(mgl32.Perspective(mgl32.DegToRad(75), 1.6, 0.1, 100))
	if proj.M11 != -1 || proj.M15 != 0 {
		t.Errorf("perspective w row = (M11 %v, M15 %v), want (-1, 0)", proj.M11, proj.M15)
	}
}
