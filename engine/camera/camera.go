package camera

import (
	"sync"

	"github.com/Carmen-Shannon/glowgrid/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	position [3]float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller Controller
}

// Camera holds perspective settings and computes view/projection matrices
// from an attached Controller each frame via Update().
type Camera interface {
	// Fov returns the field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the new aspect ratio (width / height)
	SetAspect(aspect float32)

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Position returns the camera's current world-space position,
	// valid after the most recent Update.
	//
	// Returns:
	//   - [3]float32: the eye position
	Position() [3]float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Controller returns the attached Controller, or nil if none is attached.
	//
	// Returns:
	//   - Controller: the attached controller or nil
	Controller() Controller

	// Update reads position/target from the controller and recomputes matrices.
	// Should be called once per frame before matrices are consumed.
	// If no controller is attached, this method does nothing.
	Update()

	// ScreenRay converts a pixel coordinate into a world-space picking ray by
	// unprojecting through the inverse view-projection matrix.
	//
	// Parameters:
	//   - px, py: pixel coordinates with the origin at the top-left
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - origin: the ray origin (the eye position)
	//   - dir: the unit ray direction
	ScreenRay(px, py float32, width, height int) (origin, dir [3]float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with the provided options.
// Defaults: fov 50°, aspect 16:9, near 0.1, far 1000, up +Y.
//
// Parameters:
//   - options: functional options for camera configuration
//
// Returns:
//   - Camera: the configured camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     [3]float32{0, 1, 0},
		fov:    float32(50.0 * 3.14159265 / 180.0),
		aspect: 16.0 / 9.0,
		near:   0.1,
		far:    1000,
	}
	for _, opt := range options {
		opt(c)
	}
	common.Identity(c.viewMatrix[:])
	c.recompute()
	return c
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.aspect = aspect
	}
	c.recompute()
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() Controller {
	return c.controller
}

func (c *cameraImpl) Update() {
	if c.controller == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	eye := c.controller.Position()
	target := c.controller.Target()
	c.position = eye

	common.LookAt(c.viewMatrix[:],
		eye[0], eye[1], eye[2],
		target[0], target[1], target[2],
		c.up[0], c.up[1], c.up[2],
	)
	c.recompute()
}

// recompute rebuilds the projection and combined matrices. Caller holds mu
// (or is the constructor).
func (c *cameraImpl) recompute() {
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}

func (c *cameraImpl) ScreenRay(px, py float32, width, height int) (origin, dir [3]float32) {
	c.mu.Lock()
	vp := c.viewProjectionMatrix
	origin = c.position
	c.mu.Unlock()

	var inv [16]float32
	if !common.Invert4(inv[:], vp[:]) {
		return origin, [3]float32{0, 0, -1}
	}

	ndcX := 2*px/float32(width) - 1
	ndcY := 1 - 2*py/float32(height)

	// Unproject a point on the near plane (depth 0 in WebGPU clip space) and
	// one on the far plane (depth 1), then aim from eye through them.
	nearPt := common.TransformVec4(inv[:], [4]float32{ndcX, ndcY, 0, 1})
	farPt := common.TransformVec4(inv[:], [4]float32{ndcX, ndcY, 1, 1})
	for i := 0; i < 3; i++ {
		nearPt[i] /= nearPt[3]
		farPt[i] /= farPt[3]
	}

	dir = common.Normalize3([3]float32{
		farPt[0] - nearPt[0],
		farPt[1] - nearPt[1],
		farPt[2] - nearPt[2],
	})
	return origin, dir
}
