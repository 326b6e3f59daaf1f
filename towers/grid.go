package towers

import (
	"fmt"
	"log"
	"math"

	"github.com/Carmen-Shannon/glowgrid/common"
	"github.com/Carmen-Shannon/glowgrid/engine/renderer"
	"github.com/Carmen-Shannon/glowgrid/engine/scene"
)

// Grid layout constants.
const (
	// GridSize is the default number of towers along each axis.
	GridSize = 12

	// Spacing is the default distance between adjacent tower centers.
	Spacing = 0.8

	// BaseHeight is the height of a tower at the grid center before noise.
	BaseHeight = 2.5

	// HeightVariation is how much height falls off toward the grid edges.
	HeightVariation = 1.5

	// HeightNoiseStddev is the standard deviation of the per-tower height
	// noise.
	HeightNoiseStddev = 0.3

	// MinHeight is the clamped floor for tower heights.
	MinHeight = 0.5

	// DelayStep is the growth delay per diagonal step, staggering the grow
	// animation from corner to corner.
	DelayStep = 0.08
)

// Descriptor is one tower's computed layout parameters.
type Descriptor struct {
	// X, Z are the tower's grid cell coordinates.
	X, Z int

	// Position is the tower base position in world space (pre-yaw).
	Position [3]float32

	// Height is the noisy, clamped tower height.
	Height float32

	// Delay is the growth animation delay in seconds.
	Delay float32
}

// Layout computes the deterministic grid layout: centered positions, heights
// falling off from the middle with Gaussian noise, and diagonal-staggered
// delays. Produces exactly size*size descriptors.
//
// Parameters:
//   - size: towers per axis
//   - spacing: distance between adjacent tower centers
//   - baseY: the shared base height of all towers
//   - src: random source for the height noise
//
// Returns:
//   - []Descriptor: size*size tower descriptors in row-major (x, then z) order
func Layout(size int, spacing, baseY float32, src Source) []Descriptor {
	half := float32(size) / 2
	// Normalize center distance by the half-diagonal of the grid in cells.
	halfDiagonal := float32(math.Sqrt2) * half

	descriptors := make([]Descriptor, 0, size*size)
	for x := 0; x < size; x++ {
		for z := 0; z < size; z++ {
			px := (float32(x) - half + 0.5) * spacing
			pz := (float32(z) - half + 0.5) * spacing

			dx := float32(x) - half + 0.5
			dz := float32(z) - half + 0.5
			normDist := float32(math.Sqrt(float64(dx*dx+dz*dz))) / halfDiagonal

			height := BaseHeight - HeightVariation*normDist + float32(Gaussian(src, 0, HeightNoiseStddev))
			if height < MinHeight {
				height = MinHeight
			}

			descriptors = append(descriptors, Descriptor{
				X:        x,
				Z:        z,
				Position: [3]float32{px, baseY, pz},
				Height:   height,
				Delay:    float32(x+z) * DelayStep,
			})
		}
	}
	return descriptors
}

// Grid owns the full tower assembly: layout, towers, their cubes, and the
// shared yaw rotation.
type Grid struct {
	size    int
	spacing float32
	baseY   float32
	seed    int64
	cursor  Cursor

	towers []*Tower
	cubes  []*Cube
}

// NewGrid computes the layout and assembles all towers and cubes. Tower
// visibility tickers are not started until Attach.
//
// Parameters:
//   - options: functional options for size, spacing, seed, and cursor
//
// Returns:
//   - *Grid: the assembled grid
func NewGrid(options ...GridBuilderOption) *Grid {
	g := &Grid{
		size:    GridSize,
		spacing: Spacing,
		seed:    1,
	}
	for _, opt := range options {
		opt(g)
	}

	layoutSource := NewSource(g.seed)
	descriptors := Layout(g.size, g.spacing, g.baseY, layoutSource)

	g.towers = make([]*Tower, 0, len(descriptors))
	cubeIndex := 0
	for i, d := range descriptors {
		flipSource := NewSource(g.seed + int64(i) + 1)
		t := NewTower(
			d.Position[0], d.Position[1], d.Position[2],
			d.Height, d.Delay,
			cubeIndex,
			layoutSource, flipSource,
			g.cursor,
		)
		g.towers = append(g.towers, t)
		g.cubes = append(g.cubes, t.Cubes()...)
		cubeIndex += len(t.Cubes())
	}

	log.Printf("[Grid] assembled %d towers, %d cubes", len(g.towers), len(g.cubes))
	return g
}

// Towers returns all towers in layout order.
//
// Returns:
//   - []*Tower: the towers
func (g *Grid) Towers() []*Tower {
	return g.towers
}

// Cubes returns every cube in the grid, grouped by tower.
//
// Returns:
//   - []*Cube: all cubes
func (g *Grid) Cubes() []*Cube {
	return g.cubes
}

// Yaw returns the assembly's rotation about the vertical axis at the given
// elapsed time. Recomputed from elapsed time every frame; never integrated.
//
// Parameters:
//   - elapsed: scene time in seconds
//
// Returns:
//   - float32: the yaw angle in radians
func (g *Grid) Yaw(elapsed float32) float32 {
	return RotationSpeed * elapsed
}

// Attach uploads per-cube uniform bindings, registers every cube with the
// scene, and starts the tower visibility tickers.
//
// Parameters:
//   - sc: the scene to add cubes to
//   - r: the renderer that owns the tower pipeline
//   - m: the shared cube mesh
//
// Returns:
//   - error: an error if a binding cannot be created
func (g *Grid) Attach(sc scene.Scene, r renderer.Renderer, m *renderer.Mesh) error {
	for i, c := range g.cubes {
		binding, err := r.NewBinding(c.PipelineKey(), fmt.Sprintf("Cube %d", i), uint64(common.SizeOf[GPUCubeUniforms]()))
		if err != nil {
			return fmt.Errorf("failed to create binding for cube %d: %w", i, err)
		}
		c.mesh = m
		c.binding = binding
		sc.Add(c)
	}
	for _, t := range g.towers {
		t.Start()
	}
	log.Printf("[Grid] attached %d cubes to scene %q", len(g.cubes), sc.Name())
	return nil
}

// Close stops every tower's visibility ticker.
func (g *Grid) Close() {
	for _, t := range g.towers {
		t.Close()
	}
	log.Println("[Grid] closed")
}
