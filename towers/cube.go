package towers

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/glowgrid/common"
	"github.com/Carmen-Shannon/glowgrid/engine/renderer"
	"github.com/Carmen-Shannon/glowgrid/engine/scene"
	"github.com/Carmen-Shannon/glowgrid/palette"
)

// CubeSize is the edge length of a single cube, leaving a visible gap
// between stacked cubes (stack step is 0.5).
const CubeSize = 0.45

// Cursor abstracts the window's pointer cursor so hover behavior can be
// tested without a windowing system.
type Cursor interface {
	// SetHand switches to the pointing-hand cursor.
	SetHand()

	// SetArrow restores the default arrow cursor.
	SetArrow()
}

// GPUCubeUniforms is the per-cube uniform block, field-for-field the WGSL
// Uniforms struct in the tower shader. 176 bytes, 16-byte aligned.
type GPUCubeUniforms struct {
	MVP       [16]float32
	Model     [16]float32
	BaseColor [4]float32
	CameraPos [4]float32
	// Params is (elapsed seconds, cube index, phase, hover strength).
	Params [4]float32
}

// Cube is one renderable cube in a tower's stack. It stages its own uniform
// block every frame from the shared clock plus its tower's growth state, and
// reacts to pointer enter/exit with a hover flag and cursor change.
type Cube struct {
	tower *Tower

	// offsetY is the cube's local height above the tower base before growth
	// scaling.
	offsetY float32

	index float32
	phase float32
	base  palette.RGB

	hover  atomic.Bool
	cursor Cursor

	mesh    *renderer.Mesh
	binding *renderer.Binding

	uniforms GPUCubeUniforms
}

var _ scene.Renderable = &Cube{}

func newCube(tower *Tower, stackIndex int, globalIndex int, phase float32, cursor Cursor) *Cube {
	return &Cube{
		tower:   tower,
		offsetY: float32(stackIndex) * CubeStep,
		index:   float32(globalIndex),
		phase:   phase,
		base:    palette.At(phase),
		cursor:  cursor,
	}
}

// PipelineKey returns the tower pipeline key.
//
// Returns:
//   - string: the pipeline key
func (c *Cube) PipelineKey() string {
	return "tower"
}

// Mesh returns the shared cube mesh.
//
// Returns:
//   - *renderer.Mesh: the mesh
func (c *Cube) Mesh() *renderer.Mesh {
	return c.mesh
}

// Binding returns the cube's uniform binding.
//
// Returns:
//   - *renderer.Binding: the binding
func (c *Cube) Binding() *renderer.Binding {
	return c.binding
}

// Visible reports whether the owning tower is currently visible.
//
// Returns:
//   - bool: true if the cube should be staged and drawn
func (c *Cube) Visible() bool {
	return c.tower.Visible()
}

// Phase returns the cube's palette phase.
//
// Returns:
//   - float32: phase in [0, 1)
func (c *Cube) Phase() float32 {
	return c.phase
}

// Hovered reports whether the pointer is currently over this cube.
//
// Returns:
//   - bool: the hover flag
func (c *Cube) Hovered() bool {
	return c.hover.Load()
}

// PointerEnter sets the hover flag and requests the hand cursor. Idempotent:
// repeated enters without an intervening exit change nothing.
func (c *Cube) PointerEnter() {
	if c.hover.CompareAndSwap(false, true) {
		if c.cursor != nil {
			c.cursor.SetHand()
		}
	}
}

// PointerExit clears the hover flag and restores the arrow cursor. Idempotent
// and always paired with the enter that set the hand cursor.
func (c *Cube) PointerExit() {
	if c.hover.CompareAndSwap(true, false) {
		if c.cursor != nil {
			c.cursor.SetArrow()
		}
	}
}

// WorldCenter returns the cube's center in world space at the given elapsed
// time, accounting for the tower's growth scale and the grid's yaw.
//
// Parameters:
//   - elapsed: scene time in seconds
//
// Returns:
//   - [3]float32: the world-space center
func (c *Cube) WorldCenter(elapsed float32) [3]float32 {
	sy := c.tower.ScaleY(elapsed)
	var yaw [16]float32
	common.RotationY(yaw[:], RotationSpeed*elapsed)
	return common.TransformPoint(yaw[:], c.tower.x, c.tower.baseY+sy*c.offsetY, c.tower.z)
}

// BoundingRadius returns the cube's world-space bounding sphere radius.
//
// Returns:
//   - float32: the radius
func (c *Cube) BoundingRadius() float32 {
	if c.mesh != nil {
		return c.mesh.BoundingRadius
	}
	return CubeSize * 0.8661
}

// StageUniforms computes this frame's uniform block: MVP and model from the
// tower position, growth scale, and grid yaw; params from the shared clock.
//
// Parameters:
//   - frame: the current frame values
//
// Returns:
//   - []byte: the 176-byte uniform block
func (c *Cube) StageUniforms(frame scene.Frame) []byte {
	sy := c.tower.ScaleY(frame.Time)

	var local, yaw [16]float32
	common.BuildModelMatrix(local[:],
		c.tower.x, c.tower.baseY+sy*c.offsetY, c.tower.z,
		0, 0, 0,
		CubeSize, CubeSize*sy, CubeSize,
	)
	common.RotationY(yaw[:], RotationSpeed*frame.Time)
	common.Mul4(c.uniforms.Model[:], yaw[:], local[:])
	common.Mul4(c.uniforms.MVP[:], frame.ViewProjection[:], c.uniforms.Model[:])

	c.uniforms.BaseColor = [4]float32{c.base.R, c.base.G, c.base.B, 1}
	c.uniforms.CameraPos = [4]float32{frame.CameraPosition[0], frame.CameraPosition[1], frame.CameraPosition[2], 1}

	hover := float32(0)
	if c.hover.Load() {
		hover = 1
	}
	c.uniforms.Params = [4]float32{frame.Time, c.index, c.phase, hover}

	return common.StructToBytes(&c.uniforms)
}
