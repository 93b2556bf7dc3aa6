package camera

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/common"
)

// controller2D is the implementation of Controller2D.
type controller2D struct {
	mu *sync.Mutex

	position [3]float32
	panSpeed float32

	rightKeys []int
	leftKeys  []int
	upKeys    []int
	downKeys  []int
}

// Controller2D owns the 2D camera position and pans it from held keys.
// The camera reads Position after Advance reports movement.
type Controller2D interface {
	// Position returns the controller's position.
	//
	// Returns:
	//   - [3]float32: the current position
	Position() [3]float32

	// SetPosition sets the position directly.
	//
	// Parameters:
	//   - x, y, z: the new position
	SetPosition(x, y, z float32)

	// PanRight moves the position along +X by delta scaled by the pan speed.
	//
	// Parameters:
	//   - delta: distance in design units before scaling
	PanRight(delta float32)

	// PanUp moves the position along +Y by delta scaled by the pan speed.
	//
	// Parameters:
	//   - delta: distance in design units before scaling
	PanUp(delta float32)

	// PanSpeed returns the pan speed in design units per second.
	//
	// Returns:
	//   - float32: the pan speed
	PanSpeed() float32

	// Advance pans for dt according to which bound keys are held.
	//
	// Parameters:
	//   - dt: elapsed time since the previous Advance
	//   - isDown: reports whether a key code is currently held
	//
	// Returns:
	//   - bool: true if the position changed
	Advance(dt time.Duration, isDown func(key int) bool) bool
}

var _ Controller2D = &controller2D{}

// NewController2D creates a pan controller bound to the arrow keys and WASD.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller2D: the newly created controller
func NewController2D(options ...Controller2DOption) Controller2D {
	cc := &controller2D{
		mu:        &sync.Mutex{},
		panSpeed:  200,
		rightKeys: []int{common.KeyRight, common.KeyD},
		leftKeys:  []int{common.KeyLeft, common.KeyA},
		upKeys:    []int{common.KeyUp, common.KeyW},
		downKeys:  []int{common.KeyDown, common.KeyS},
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *controller2D) Position() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *controller2D) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = [3]float32{x, y, z}
}

func (cc *controller2D) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[0] += delta * cc.panSpeed
}

func (cc *controller2D) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[1] += delta * cc.panSpeed
}

func (cc *controller2D) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func (cc *controller2D) Advance(dt time.Duration, isDown func(key int) bool) bool {
	if isDown == nil || dt <= 0 {
		return false
	}
	var dx, dy float32
	if anyDown(cc.rightKeys, isDown) {
		dx++
	}
	if anyDown(cc.leftKeys, isDown) {
		dx--
	}
	if anyDown(cc.upKeys, isDown) {
		dy++
	}
	if anyDown(cc.downKeys, isDown) {
		dy--
	}
	if dx == 0 && dy == 0 {
		return false
	}
	secs := float32(dt.Seconds())
	cc.PanRight(dx * secs)
	cc.PanUp(dy * secs)
	return true
}

func anyDown(keys []int, isDown func(key int) bool) bool {
	for _, k := range keys {
		if isDown(k) {
			return true
		}
	}
	return false
}
