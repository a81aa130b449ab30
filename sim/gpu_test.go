package sim

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFloatBytesAliasesTexture(t *testing.T) {
	tex := rampTexture(2, 2)
	b := floatBytes(tex.Data)

	if len(b) != len(tex.Data)*4 {
		t.Fatalf("len = %d, want %d", len(b), len(tex.Data)*4)
	}
	for i, want := range tex.Data {
		got := math.Float32frombits(binary.NativeEndian.Uint32(b[i*4:]))
		if got != want {
			t.Fatalf("float %d = %v, want %v", i, got, want)
		}
	}

	// Writes through the bytes land in the texture.
	binary.NativeEndian.PutUint32(b[4:], math.Float32bits(-2.5))
	if tex.Data[1] != -2.5 {
		t.Errorf("Data[1] = %v after byte write, want -2.5", tex.Data[1])
	}
}

func TestFloatBytesEmpty(t *testing.T) {
	if b := floatBytes(nil); b != nil {
		t.Errorf("floatBytes(nil) = %v, want nil", b)
	}
}
