package palette

import (
	"math"
	"testing"
)

// anchorHull returns per-channel min/max across all five anchors.
func anchorHull() (minC, maxC RGB) {
	minC = Anchors[0]
	maxC = Anchors[0]
	for _, a := range Anchors[1:] {
		minC.R = minf(minC.R, a.R)
		minC.G = minf(minC.G, a.G)
		minC.B = minf(minC.B, a.B)
		maxC.R = maxf(maxC.R, a.R)
		maxC.G = maxf(maxC.G, a.G)
		maxC.B = maxf(maxC.B, a.B)
	}
	return minC, maxC
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func TestAtStaysWithinAnchorHull(t *testing.T) {
	minC, maxC := anchorHull()
	const eps = 1e-5
	for i := 0; i < 10000; i++ {
		phase := float32(i) / 10000
		c := At(phase)
		if c.R < minC.R-eps || c.R > maxC.R+eps ||
			c.G < minC.G-eps || c.G > maxC.G+eps ||
			c.B < minC.B-eps || c.B > maxC.B+eps {
			t.Fatalf("At(%v) = %+v escapes anchor hull [%+v, %+v]", phase, c, minC, maxC)
		}
	}
}

func TestAtWrapsPhase(t *testing.T) {
	for _, phase := range []float32{0.15, 0.6, 0.999} {
		if got, want := At(phase+1), At(phase); got != want {
			t.Errorf("At(%v+1) = %+v, want %+v", phase, got, want)
		}
		if got, want := At(phase-2), At(phase); got != want {
			t.Errorf("At(%v-2) = %+v, want %+v", phase, got, want)
		}
	}
}

func TestAtHitsAnchorsAtBandCenters(t *testing.T) {
	// Beyond the last band edge every smoothstep is saturated, so the final
	// anchor wins outright (up to float rounding in the mix chain).
	got := At(0.9)
	want := Anchors[4]
	const eps = 1e-6
	if math.Abs(float64(got.R-want.R)) > eps ||
		math.Abs(float64(got.G-want.G)) > eps ||
		math.Abs(float64(got.B-want.B)) > eps {
		t.Errorf("At(0.9) = %+v, want final anchor %+v", got, want)
	}
	if got := At(0); got != Anchors[0] {
		t.Errorf("At(0) = %+v, want first anchor %+v", got, Anchors[0])
	}
}

func TestShadeIsDeterministic(t *testing.T) {
	in := ShadeInput{
		Phase:  0.37,
		Time:   123.456,
		Index:  7,
		Base:   Anchors[2],
		View:   [3]float32{0.267, 0.534, 0.801},
		Normal: [3]float32{0, 1, 0},
		Hover:  0.5,
		Dist:   0.31,
	}
	a := Shade(in)
	b := Shade(in)
	if a != b {
		t.Fatalf("Shade not bit-identical for identical inputs: %+v vs %+v", a, b)
	}
}

func TestRimVanishesHeadOn(t *testing.T) {
	n := [3]float32{0, 0, 1}
	if got := Rim(n, n); got != (RGB{}) {
		t.Errorf("Rim head-on = %+v, want zero", got)
	}
}

func TestRimStrongestAtGrazingAngle(t *testing.T) {
	n := [3]float32{0, 0, 1}
	grazing := Rim([3]float32{1, 0, 0}, n)
	oblique := Rim([3]float32{0.707, 0, 0.707}, n)
	if grazing.R <= oblique.R {
		t.Errorf("grazing rim %v not stronger than oblique rim %v", grazing.R, oblique.R)
	}
}

func TestBrightnessBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		b := Brightness(float32(i)*0.173, float32(i%20))
		if b < 0.8-1e-5 || b > 1.2+1e-5 {
			t.Fatalf("Brightness out of ±20%% band: %v", b)
		}
	}
}

func TestShadeHoverAddsEnergyAtCubeEdge(t *testing.T) {
	in := ShadeInput{
		Phase:  0.2,
		Time:   1.0,
		Base:   Anchors[1],
		View:   [3]float32{1, 0, 0},
		Normal: [3]float32{0, 0, 1},
		Dist:   0.7,
	}
	plain := Shade(in)
	in.Hover = 1
	hovered := Shade(in)
	sum := func(c RGB) float64 { return float64(c.R) + float64(c.G) + float64(c.B) }
	if sum(hovered) <= sum(plain) {
		t.Errorf("hover overlay did not add energy: %+v vs %+v", hovered, plain)
	}
}

func TestMod1(t *testing.T) {
	cases := []struct{ in, want float32 }{
		{0, 0},
		{0.25, 0.25},
		{1, 0},
		{1.75, 0.75},
		{-0.25, 0.75},
	}
	for _, tc := range cases {
		if got := Mod1(tc.in); math.Abs(float64(got-tc.want)) > 1e-6 {
			t.Errorf("Mod1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
