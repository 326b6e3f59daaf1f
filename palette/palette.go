// Package palette holds the procedural color math for the glow grid. It is the
// CPU reference for the WGSL fragment shader in the shaders package: both
// evaluate the same closed-form expressions, so every term here is a pure
// function of its inputs and identical inputs produce bit-identical output.
package palette

import "math"

// RGB is a linear-space color triple.
type RGB struct {
	R, G, B float32
}

// Anchors are the five fixed control points of the band ramp, in band order.
var Anchors = [5]RGB{
	{R: 0.10, G: 0.05, B: 0.30}, // deep violet
	{R: 0.20, G: 0.40, B: 0.90}, // blue
	{R: 0.10, G: 0.90, B: 0.80}, // teal
	{R: 0.95, G: 0.60, B: 0.20}, // amber
	{R: 0.95, G: 0.15, B: 0.45}, // magenta
}

const (
	// PhaseDriftRate is how fast a cube's phase slides through the ramp per second.
	PhaseDriftRate = 0.1

	// RampWeight is how strongly the animated ramp color overrides the cube's base color.
	RampWeight = 0.85

	rimStrength      = 0.5
	brightnessAmp    = 0.2
	brightnessRate   = 2.0
	indexPhaseStep   = 0.35
	fogDensityBase   = 1.5
	fogDensityAmp    = 0.75
	fogDensityRate   = 3.0
	fogPulseRate     = 5.0
	emissionStrength = 0.15
	emissionRate     = 4.0
	fresnelStrength  = 0.5
)

// rimTint skews the rim term toward red.
var rimTint = RGB{R: 1.0, G: 0.3, B: 0.2}

// fogColor is the warm overlay blended in while a cube is hovered.
var fogColor = RGB{R: 1.0, G: 0.55, B: 0.25}

// ShadeInput carries everything the shade function needs for one fragment.
type ShadeInput struct {
	// Phase is the cube's per-instance phase offset.
	Phase float32

	// Time is elapsed wall-clock seconds since mount.
	Time float32

	// Index is the cube's index within its tower, used to desynchronize flicker.
	Index float32

	// Base is the cube's base color.
	Base RGB

	// View is the unit vector from the fragment toward the eye.
	View [3]float32

	// Normal is the unit surface normal.
	Normal [3]float32

	// Hover is the hover strength in [0, 1].
	Hover float32

	// Dist is the fragment's distance from the cube center in local units.
	Dist float32
}

// Mod1 wraps x into [0, 1).
//
// Parameters:
//   - x: the value to wrap
//
// Returns:
//   - float32: x - floor(x)
func Mod1(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}

// At maps a phase value to a ramp color. The unit interval is partitioned into
// five bands; each band blends the accumulated color toward its anchor with a
// smoothstep weight, so later bands dominate where their weight is high. The
// result is always a convex combination of the anchors.
//
// Parameters:
//   - phase: the phase value (wrapped into [0, 1) internally)
//
// Returns:
//   - RGB: the ramp color
func At(phase float32) RGB {
	p := Mod1(phase)
	c := Anchors[0]
	c = mix(c, Anchors[1], smoothstep(0.0, 0.2, p))
	c = mix(c, Anchors[2], smoothstep(0.2, 0.4, p))
	c = mix(c, Anchors[3], smoothstep(0.4, 0.6, p))
	c = mix(c, Anchors[4], smoothstep(0.6, 0.8, p))
	return c
}

// Rim computes the view-dependent edge glow contribution: strongest at grazing
// angles, zero when the surface faces the eye head-on, tinted toward red.
//
// Parameters:
//   - view: unit vector from the surface toward the eye
//   - normal: unit surface normal
//
// Returns:
//   - RGB: the additive rim contribution
func Rim(view, normal [3]float32) RGB {
	facing := maxf(dot3(view, normal), 0)
	rim := powf(1-facing, 3) * rimStrength
	return scale(rimTint, rim)
}

// Brightness returns the flicker multiplier for a cube at the given time. The
// per-index offset keeps neighbouring cubes out of sync.
//
// Parameters:
//   - time: elapsed seconds
//   - index: the cube's index within its tower
//
// Returns:
//   - float32: multiplier in [0.8, 1.2]
func Brightness(time, index float32) float32 {
	return 1 + brightnessAmp*sinf(time*brightnessRate+index*indexPhaseStep)
}

// Shade evaluates the full per-fragment color: animated ramp over the base
// color, rim glow, flicker, and while hovered the pulsating fog overlay,
// emission, and fresnel edge terms.
//
// Parameters:
//   - in: the fragment inputs
//
// Returns:
//   - RGB: the final color
func Shade(in ShadeInput) RGB {
	p := Mod1(in.Phase + in.Time*PhaseDriftRate)
	c := mix(in.Base, At(p), RampWeight)

	c = add(c, Rim(in.View, in.Normal))
	c = scale(c, Brightness(in.Time, in.Index))

	if in.Hover > 0 {
		density := fogDensityBase + fogDensityAmp*sinf(in.Time*fogDensityRate)
		fog := 1 - expf(-in.Dist*density)
		pulse := 0.5 + 0.5*sinf(in.Time*fogPulseRate)
		c = mix(c, fogColor, clamp01(fog*in.Hover*pulse))

		emission := emissionStrength * in.Hover * (0.5 + 0.5*sinf(in.Time*emissionRate))
		c = add(c, scale(fogColor, emission))

		facing := maxf(dot3(in.View, in.Normal), 0)
		edge := powf(1-facing, 4) * in.Hover * fresnelStrength
		c = add(c, RGB{R: edge, G: edge, B: edge})
	}

	return c
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func mix(a, b RGB, t float32) RGB {
	return RGB{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

func add(a, b RGB) RGB {
	return RGB{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B}
}

func scale(c RGB, s float32) RGB {
	return RGB{R: c.R * s, G: c.G * s, B: c.B * s}
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func sinf(x float32) float32 { return float32(math.Sin(float64(x))) }
func expf(x float32) float32 { return float32(math.Exp(float64(x))) }
func powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}
