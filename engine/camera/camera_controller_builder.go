package camera

// Controller2DOption is a functional option for configuring a Controller2D.
type Controller2DOption func(*controller2D)

// WithPanSpeed sets the pan speed in design units per second.
//
// Parameters:
//   - speed: the pan speed
//
// Returns:
//   - Controller2DOption: functional option to set the pan speed
func WithPanSpeed(speed float32) Controller2DOption {
	return func(cc *controller2D) {
		cc.panSpeed = speed
	}
}

// WithStartPosition sets the controller's initial position.
//
// Parameters:
//   - x, y, z: the initial position
//
// Returns:
//   - Controller2DOption: functional option to set the start position
func WithStartPosition(x, y, z float32) Controller2DOption {
	return func(cc *controller2D) {
		cc.position = [3]float32{x, y, z}
	}
}

// WithKeyBindings replaces the keys bound to each pan direction.
//
// Parameters:
//   - right, left, up, down: key codes for each direction
//
// Returns:
//   - Controller2DOption: functional option to set the key bindings
func WithKeyBindings(right, left, up, down []int) Controller2DOption {
	return func(cc *controller2D) {
		cc.rightKeys = right
		cc.leftKeys = left
		cc.upKeys = up
		cc.downKeys = down
	}
}
