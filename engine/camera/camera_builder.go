package camera

// Camera2DBuilderOption is a functional option applied to a Camera2D during construction via NewCamera2D.
type Camera2DBuilderOption func(*camera2D)

// WithPosition sets the camera's initial position.
//
// Parameters:
//   - x, y, z: the initial translation
//
// Returns:
//   - Camera2DBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) Camera2DBuilderOption {
	return func(c *camera2D) {
		c.position = [3]float32{x, y, z}
	}
}

// WithDesignSize sets the logical width and height of the orthographic volume.
// Non-positive values are ignored.
//
// Parameters:
//   - width, height: the design resolution
//
// Returns:
//   - Camera2DBuilderOption: a function that sets the design size
func WithDesignSize(width, height float32) Camera2DBuilderOption {
	return func(c *camera2D) {
		if width > 0 && height > 0 {
			c.designWidth = width
			c.designHeight = height
		}
	}
}

// WithDepthRange sets the near and far planes of the orthographic volume.
//
// Parameters:
//   - near: near plane
//   - far: far plane (must differ from near)
//
// Returns:
//   - Camera2DBuilderOption: a function that sets the depth range
func WithDepthRange(near, far float32) Camera2DBuilderOption {
	return func(c *camera2D) {
		if near != far {
			c.near = near
			c.far = far
		}
	}
}

// WithScale sets the initial viewport scale. Non-positive values are ignored.
//
// Parameters:
//   - sx, sy: the x and y viewport scale
//
// Returns:
//   - Camera2DBuilderOption: a function that sets the scale
func WithScale(sx, sy float32) Camera2DBuilderOption {
	return func(c *camera2D) {
		if sx > 0 && sy > 0 {
			c.scale = [2]float32{sx, sy}
		}
	}
}
