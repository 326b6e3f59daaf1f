package camera

// OrbitBuilderOption configures an orbitController during NewOrbitController.
type OrbitBuilderOption func(*orbitController)

// WithTarget sets the point the camera orbits around.
//
// Parameters:
//   - x, y, z: the target position in world space
//
// Returns:
//   - OrbitBuilderOption: the option function
func WithTarget(x, y, z float32) OrbitBuilderOption {
	return func(c *orbitController) {
		c.target = [3]float32{x, y, z}
	}
}

// WithRadius sets the initial orbit distance from the target.
//
// Parameters:
//   - radius: the orbit distance
//
// Returns:
//   - OrbitBuilderOption: the option function
func WithRadius(radius float32) OrbitBuilderOption {
	return func(c *orbitController) {
		if radius > 0 {
			c.radius = radius
		}
	}
}

// WithRadiusBounds sets the minimum and maximum zoom distances.
//
// Parameters:
//   - min: the closest allowed distance
//   - max: the farthest allowed distance
//
// Returns:
//   - OrbitBuilderOption: the option function
func WithRadiusBounds(min, max float32) OrbitBuilderOption {
	return func(c *orbitController) {
		if min > 0 && max > min {
			c.minRadius = min
			c.maxRadius = max
		}
	}
}

// WithAngles sets the initial azimuth and elevation in radians.
//
// Parameters:
//   - azimuth: rotation around the Y axis
//   - elevation: angle above the horizontal plane
//
// Returns:
//   - OrbitBuilderOption: the option function
func WithAngles(azimuth, elevation float32) OrbitBuilderOption {
	return func(c *orbitController) {
		c.azimuth = azimuth
		c.elevation = elevation
	}
}

// WithDragSensitivity sets radians of rotation per pixel of drag.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - OrbitBuilderOption: the option function
func WithDragSensitivity(sensitivity float32) OrbitBuilderOption {
	return func(c *orbitController) {
		if sensitivity > 0 {
			c.dragSensitivity = sensitivity
		}
	}
}

// WithZoomSensitivity sets distance units per scroll step.
//
// Parameters:
//   - sensitivity: units per scroll step
//
// Returns:
//   - OrbitBuilderOption: the option function
func WithZoomSensitivity(sensitivity float32) OrbitBuilderOption {
	return func(c *orbitController) {
		if sensitivity > 0 {
			c.zoomSensitivity = sensitivity
		}
	}
}
