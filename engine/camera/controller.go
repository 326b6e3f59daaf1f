package camera

import (
	"math"
	"sync"
)

type orbitController struct {
	mu *sync.Mutex

	target  [3]float32
	azimuth float32
	// elevation is clamped so the camera never passes through the poles.
	elevation float32
	radius    float32

	minRadius float32
	maxRadius float32

	dragSensitivity float32
	zoomSensitivity float32

	dragging     bool
	lastX, lastY int32
}

// Controller supplies the camera's eye position and look target each frame.
// The orbit implementation keeps the eye on a sphere around the target,
// driven by mouse drag and scroll input.
type Controller interface {
	// Position returns the current eye position in world space.
	//
	// Returns:
	//   - [3]float32: the eye position
	Position() [3]float32

	// Target returns the point the camera looks at.
	//
	// Returns:
	//   - [3]float32: the look target
	Target() [3]float32

	// BeginDrag starts an orbit drag from the given pixel position.
	//
	// Parameters:
	//   - x, y: pixel coordinates at press time
	BeginDrag(x, y int32)

	// EndDrag stops the current orbit drag, if any.
	EndDrag()

	// Drag updates the orbit angles from a new pixel position. Does nothing
	// unless a drag is in progress.
	//
	// Parameters:
	//   - x, y: the current pixel coordinates
	Drag(x, y int32)

	// Zoom moves the eye toward or away from the target.
	//
	// Parameters:
	//   - delta: scroll delta (positive zooms in)
	Zoom(delta float32)
}

var _ Controller = &orbitController{}

// NewOrbitController creates an orbit Controller with the provided options.
// Defaults: target at origin, radius 10 (bounds 3..40), azimuth 0,
// elevation ~20°.
//
// Parameters:
//   - options: functional options for controller configuration
//
// Returns:
//   - Controller: the configured controller
func NewOrbitController(options ...OrbitBuilderOption) Controller {
	c := &orbitController{
		mu:              &sync.Mutex{},
		elevation:       0.35,
		radius:          10,
		minRadius:       3,
		maxRadius:       40,
		dragSensitivity: 0.005,
		zoomSensitivity: 0.5,
	}
	for _, opt := range options {
		opt(c)
	}
	c.clamp()
	return c
}

func (c *orbitController) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	cosE := float32(math.Cos(float64(c.elevation)))
	return [3]float32{
		c.target[0] + c.radius*cosE*float32(math.Sin(float64(c.azimuth))),
		c.target[1] + c.radius*float32(math.Sin(float64(c.elevation))),
		c.target[2] + c.radius*cosE*float32(math.Cos(float64(c.azimuth))),
	}
}

func (c *orbitController) Target() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *orbitController) BeginDrag(x, y int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = true
	c.lastX, c.lastY = x, y
}

func (c *orbitController) EndDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = false
}

func (c *orbitController) Drag(x, y int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging {
		return
	}
	dx := float32(x - c.lastX)
	dy := float32(y - c.lastY)
	c.lastX, c.lastY = x, y

	c.azimuth -= dx * c.dragSensitivity
	c.elevation += dy * c.dragSensitivity
	c.clamp()
}

func (c *orbitController) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius -= delta * c.zoomSensitivity
	c.clamp()
}

// clamp keeps elevation off the poles and radius within bounds. Caller
// holds mu (or is the constructor).
func (c *orbitController) clamp() {
	const maxElevation = 1.5
	if c.elevation > maxElevation {
		c.elevation = maxElevation
	}
	if c.elevation < -maxElevation {
		c.elevation = -maxElevation
	}
	if c.radius < c.minRadius {
		c.radius = c.minRadius
	}
	if c.radius > c.maxRadius {
		c.radius = c.maxRadius
	}
}
