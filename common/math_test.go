package common

import (
	"math"
	"testing"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	BuildModelMatrix(m[:], 1, 2, 3, 0.4, 0.5, 0.6, 1, 2, 3)

	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Fatal("identity * m should equal m")
	}
	Mul4(out[:], m[:], id[:])
	if out != m {
		t.Fatal("m * identity should equal m")
	}
}

func TestMul4Aliasing(t *testing.T) {
	var a, b, want [16]float32
	BuildModelMatrix(a[:], 1, 0, 0, 0, 0.3, 0, 1, 1, 1)
	BuildModelMatrix(b[:], 0, 2, 0, 0.1, 0, 0, 2, 2, 2)
	Mul4(want[:], a[:], b[:])

	got := a
	Mul4(got[:], got[:], b[:])
	if got != want {
		t.Fatal("Mul4 with out aliasing a gave a different result")
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, out [16]float32
	BuildModelMatrix(m[:], 1.5, -2, 3, 0.2, 0.7, -0.1, 1, 2, 0.5)

	if !Invert4(inv[:], m[:]) {
		t.Fatal("expected matrix to be invertible")
	}
	Mul4(out[:], m[:], inv[:])

	var id [16]float32
	Identity(id[:])
	for i := range out {
		if !approx(out[i], id[i], 1e-4) {
			t.Fatalf("m * inv(m) not identity at element %d: %v", i, out[i])
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	if Invert4(out[:], zero[:]) {
		t.Fatal("expected zero matrix to be reported singular")
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	var p [16]float32
	Perspective(p[:], float32(math.Pi/3), 16.0/9.0, 0.1, 100)

	// A point on the near plane maps to clip depth 0, far plane to 1
	// (after perspective divide), the WebGPU convention.
	near := TransformVec4(p[:], [4]float32{0, 0, -0.1, 1})
	if !approx(near[2]/near[3], 0, 1e-5) {
		t.Fatalf("near plane depth %v, want 0", near[2]/near[3])
	}
	far := TransformVec4(p[:], [4]float32{0, 0, -100, 1})
	if !approx(far[2]/far[3], 1, 1e-4) {
		t.Fatalf("far plane depth %v, want 1", far[2]/far[3])
	}
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	var v [16]float32
	LookAt(v[:], 3, 4, 5, 0, 0, 0, 0, 1, 0)

	eye := TransformPoint(v[:], 3, 4, 5)
	for i, c := range eye {
		if !approx(c, 0, 1e-5) {
			t.Fatalf("eye should map to view-space origin, component %d = %v", i, c)
		}
	}
}

func TestRotationY(t *testing.T) {
	var m [16]float32
	RotationY(m[:], float32(math.Pi/2))

	// +X rotates to -Z under a quarter turn about Y.
	got := TransformPoint(m[:], 1, 0, 0)
	if !approx(got[0], 0, 1e-6) || !approx(got[1], 0, 1e-6) || !approx(got[2], -1, 1e-6) {
		t.Fatalf("expected (0,0,-1), got %v", got)
	}
}

func TestBuildModelMatrixTranslationAndScale(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 10, 20, 30, 0, 0, 0, 2, 3, 4)

	got := TransformPoint(m[:], 1, 1, 1)
	want := [3]float32{12, 23, 34}
	for i := range got {
		if !approx(got[i], want[i], 1e-5) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestNormalize3(t *testing.T) {
	v := Normalize3([3]float32{3, 0, 4})
	if !approx(v[0], 0.6, 1e-6) || !approx(v[2], 0.8, 1e-6) {
		t.Fatalf("unexpected normalization result: %v", v)
	}

	zero := Normalize3([3]float32{})
	if zero != [3]float32{} {
		t.Fatalf("zero vector should normalize to itself, got %v", zero)
	}
}

func TestSliceToBytesLength(t *testing.T) {
	data := []float32{1, 2, 3}
	b := SliceToBytes(data)
	if len(b) != 12 {
		t.Fatalf("expected 12 bytes, got %d", len(b))
	}
	if SliceToBytes([]float32(nil)) != nil {
		t.Fatal("empty slice should convert to nil")
	}
}

func TestStructToBytesLength(t *testing.T) {
	type block struct {
		A [16]float32
		B [4]float32
	}
	var v block
	if got := len(StructToBytes(&v)); got != 80 {
		t.Fatalf("expected 80 bytes, got %d", got)
	}
	if SizeOf[block]() != 80 {
		t.Fatalf("expected SizeOf 80, got %d", SizeOf[block]())
	}
}
