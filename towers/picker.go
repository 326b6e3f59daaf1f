package towers

import (
	"math"
	"sync"
)

// Ray is a world-space picking ray.
type Ray struct {
	Origin    [3]float32
	Direction [3]float32
}

// Picker resolves pointer hover against the grid's cubes. Each frame it
// casts the cursor ray against every visible cube's bounding sphere and
// moves the hover state to the nearest hit.
type Picker struct {
	mu *sync.Mutex

	grid    *Grid
	current *Cube
}

// NewPicker creates a Picker for the given grid.
//
// Parameters:
//   - grid: the grid whose cubes are pickable
//
// Returns:
//   - *Picker: the picker
func NewPicker(grid *Grid) *Picker {
	return &Picker{
		mu:   &sync.Mutex{},
		grid: grid,
	}
}

// Update casts the ray against all visible cubes and shifts hover to the
// nearest hit: the previous cube gets pointer-exit, the new one gets
// pointer-enter. Cube centers account for the grid yaw and each tower's
// growth scale at the given elapsed time.
//
// Parameters:
//   - ray: the world-space pointer ray
//   - elapsed: scene time in seconds
//
// Returns:
//   - *Cube: the cube now hovered, or nil if the ray misses everything
func (p *Picker) Update(ray Ray, elapsed float32) *Cube {
	p.mu.Lock()
	defer p.mu.Unlock()

	var nearest *Cube
	nearestT := float32(math.MaxFloat32)

	for _, c := range p.grid.Cubes() {
		if !c.Visible() || c.tower.ScaleY(elapsed) <= 0 {
			continue
		}
		if t, ok := raySphere(ray, c.WorldCenter(elapsed), c.BoundingRadius()); ok && t < nearestT {
			nearest = c
			nearestT = t
		}
	}

	if nearest != p.current {
		if p.current != nil {
			p.current.PointerExit()
		}
		if nearest != nil {
			nearest.PointerEnter()
		}
		p.current = nearest
	}
	return p.current
}

// Clear exits the current hover, if any. Called on teardown so the cursor
// is always restored.
func (p *Picker) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.PointerExit()
		p.current = nil
	}
}

// raySphere intersects a ray with a sphere and returns the nearest positive
// hit distance.
func raySphere(ray Ray, center [3]float32, radius float32) (float32, bool) {
	ox := ray.Origin[0] - center[0]
	oy := ray.Origin[1] - center[1]
	oz := ray.Origin[2] - center[2]

	b := ox*ray.Direction[0] + oy*ray.Direction[1] + oz*ray.Direction[2]
	c := ox*ox + oy*oy + oz*oz - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t := -b - sqrtDisc
	if t < 0 {
		t = -b + sqrtDisc
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
