package towers

import (
	"math"
	"testing"
)

// sinkSource forces Gaussian to produce an extreme negative sample every
// draw: u1 near zero stretches the magnitude, u2 = 0.5 flips the sign.
type sinkSource struct {
	calls int
}

func (s *sinkSource) Float64() float64 {
	s.calls++
	if s.calls%2 == 1 {
		return 1e-30
	}
	return 0.5
}

func TestLayoutProducesSizeSquaredDescriptors(t *testing.T) {
	descriptors := Layout(12, Spacing, 0, NewSource(1))
	if len(descriptors) != 144 {
		t.Fatalf("expected 144 descriptors, got %d", len(descriptors))
	}
}

func TestLayoutDelayFormula(t *testing.T) {
	descriptors := Layout(12, Spacing, 0, NewSource(1))
	for _, d := range descriptors {
		want := float32(d.X+d.Z) * DelayStep
		if d.Delay != want {
			t.Fatalf("delay at (%d,%d) = %v, want %v", d.X, d.Z, d.Delay, want)
		}
	}
}

func TestLayoutPositionFormula(t *testing.T) {
	descriptors := Layout(4, 0.8, 1.5, NewSource(1))
	for _, d := range descriptors {
		wantX := (float32(d.X) - 2 + 0.5) * 0.8
		wantZ := (float32(d.Z) - 2 + 0.5) * 0.8
		if d.Position[0] != wantX || d.Position[2] != wantZ {
			t.Fatalf("position at (%d,%d) = %v, want (%v, 1.5, %v)", d.X, d.Z, d.Position, wantX, wantZ)
		}
		if d.Position[1] != 1.5 {
			t.Fatalf("baseY at (%d,%d) = %v, want 1.5", d.X, d.Z, d.Position[1])
		}
	}
}

func TestLayoutClampsHeightUnderExtremeNoise(t *testing.T) {
	descriptors := Layout(12, Spacing, 0, &sinkSource{})
	for _, d := range descriptors {
		if d.Height < MinHeight {
			t.Fatalf("height at (%d,%d) = %v, below minimum %v", d.X, d.Z, d.Height, MinHeight)
		}
	}
}

func TestLayoutHeightFallsOffFromCenter(t *testing.T) {
	// With a zero-noise source the height profile is purely radial.
	descriptors := Layout(12, Spacing, 0, zeroNoiseSource{})
	byCell := make(map[[2]int]Descriptor, len(descriptors))
	for _, d := range descriptors {
		byCell[[2]int{d.X, d.Z}] = d
	}
	center := byCell[[2]int{6, 6}]
	corner := byCell[[2]int{0, 0}]
	if center.Height <= corner.Height {
		t.Fatalf("expected center height %v > corner height %v", center.Height, corner.Height)
	}
}

// zeroNoiseSource makes Gaussian return exactly the mean: u1 = 1 gives
// magnitude 0.
type zeroNoiseSource struct{}

func (zeroNoiseSource) Float64() float64 { return 1 }

func TestGridIsDeterministicPerSeed(t *testing.T) {
	a := NewGrid(WithSeed(99))
	b := NewGrid(WithSeed(99))

	if len(a.Cubes()) != len(b.Cubes()) {
		t.Fatalf("cube counts differ: %d vs %d", len(a.Cubes()), len(b.Cubes()))
	}
	for i := range a.Towers() {
		ta, tb := a.Towers()[i], b.Towers()[i]
		if ta.Height() != tb.Height() || ta.Delay() != tb.Delay() {
			t.Fatalf("tower %d differs between same-seed grids", i)
		}
	}
	for i := range a.Cubes() {
		if a.Cubes()[i].Phase() != b.Cubes()[i].Phase() {
			t.Fatalf("cube %d phase differs between same-seed grids", i)
		}
	}
}

func TestGridYaw(t *testing.T) {
	g := NewGrid(WithGridSize(1))
	defer g.Close()

	for _, elapsed := range []float32{0, 1, 3, 10} {
		want := float32(RotationSpeed) * elapsed
		got := g.Yaw(elapsed)
		if math.Abs(float64(got-want)) > 1e-6 {
			t.Fatalf("Yaw(%v) = %v, want %v", elapsed, got, want)
		}
	}
}

func TestGridCubeIndicesAreGloballyUnique(t *testing.T) {
	g := NewGrid(WithGridSize(4), WithSeed(3))
	defer g.Close()

	seen := make(map[float32]bool, len(g.Cubes()))
	for _, c := range g.Cubes() {
		if seen[c.index] {
			t.Fatalf("duplicate cube index %v", c.index)
		}
		seen[c.index] = true
	}
}
