package camera

// CameraBuilderOption configures a cameraImpl during NewCamera.
type CameraBuilderOption func(*cameraImpl)

// WithFov sets the vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: the option function
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if fov > 0 {
			c.fov = fov
		}
	}
}

// WithAspect sets the viewport aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - CameraBuilderOption: the option function
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance (must be > 0)
//
// Returns:
//   - CameraBuilderOption: the option function
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if near > 0 {
			c.near = near
		}
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: the option function
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if far > 0 {
			c.far = far
		}
	}
}

// WithController attaches an orbit Controller to the camera.
//
// Parameters:
//   - controller: the controller to attach
//
// Returns:
//   - CameraBuilderOption: the option function
func WithController(controller Controller) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = controller
	}
}
