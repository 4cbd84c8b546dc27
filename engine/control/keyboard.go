package control

import (
	"github.com/Carmen-Shannon/oxy-explorer/common"
)

// Arrow-key look response. Velocity accelerates toward the held direction,
// decays every frame and is clamped.
const (
	LookAcceleration  = 0.008
	LookDeceleration  = 0.92
	MaxLookVelocity   = 0.15
	lookVelocityFloor = 0.001
)

// Keyboard tracks WASD and arrow key state.
// Not safe for concurrent use; the Session serializes access.
type Keyboard struct {
	move   map[int]bool
	arrows map[int]bool

	lookVelocity Vector2
}

// NewKeyboard creates an empty key state.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		move:   make(map[int]bool, 4),
		arrows: make(map[int]bool, 4),
	}
}

// IsMovementKey reports whether key is one of W, A, S, D.
func IsMovementKey(key int) bool {
	switch key {
	case common.KeyW, common.KeyA, common.KeyS, common.KeyD:
		return true
	}
	return false
}

// IsLookKey reports whether key is an arrow key.
func IsLookKey(key int) bool {
	switch key {
	case common.KeyUp, common.KeyDown, common.KeyLeft, common.KeyRight:
		return true
	}
	return false
}

// Press records a key press. Returns false for keys the keyboard does not track.
func (k *Keyboard) Press(key int) bool {
	switch {
	case IsMovementKey(key):
		k.move[key] = true
	case IsLookKey(key):
		k.arrows[key] = true
	default:
		return false
	}
	return true
}

// Release records a key release. Releasing the last arrow key zeroes the look velocity.
func (k *Keyboard) Release(key int) bool {
	switch {
	case IsMovementKey(key):
		delete(k.move, key)
	case IsLookKey(key):
		delete(k.arrows, key)
		if len(k.arrows) == 0 {
			k.lookVelocity = Vector2{}
		}
	default:
		return false
	}
	return true
}

// MovementActive reports whether any WASD key is held.
func (k *Keyboard) MovementActive() bool {
	return len(k.move) > 0
}

// LookActive reports whether any arrow key is held.
func (k *Keyboard) LookActive() bool {
	return len(k.arrows) > 0
}

// Movement returns the unit movement vector for the held WASD keys.
// Opposite keys cancel; diagonals are normalized.
func (k *Keyboard) Movement() Vector2 {
	var v Vector2
	if k.move[common.KeyW] {
		v.Y -= 1
	}
	if k.move[common.KeyS] {
		v.Y += 1
	}
	if k.move[common.KeyA] {
		v.X -= 1
	}
	if k.move[common.KeyD] {
		v.X += 1
	}
	return v.Normalized()
}

// StepLook advances the arrow-key look velocity by one frame and returns it.
//
// Parameters:
//   - k60: frame scale relative to a 60 Hz frame (1 at 60 fps)
//
// Returns:
//   - Vector2: the look velocity after this frame
func (k *Keyboard) StepLook(k60 float32) Vector2 {
	if len(k.arrows) == 0 {
		k.lookVelocity = Vector2{}
		return k.lookVelocity
	}

	var target Vector2
	if k.arrows[common.KeyUp] {
		target.Y -= 1
	}
	if k.arrows[common.KeyDown] {
		target.Y += 1
	}
	if k.arrows[common.KeyLeft] {
		target.X -= 1
	}
	if k.arrows[common.KeyRight] {
		target.X += 1
	}

	k.lookVelocity.X = stepAxis(k.lookVelocity.X, target.X, k60)
	k.lookVelocity.Y = stepAxis(k.lookVelocity.Y, target.Y, k60)
	return k.lookVelocity
}

// LookVelocity returns the current arrow-key look velocity without stepping it.
func (k *Keyboard) LookVelocity() Vector2 {
	return k.lookVelocity
}

// Reset releases every key and zeroes the look velocity.
func (k *Keyboard) Reset() {
	clear(k.move)
	clear(k.arrows)
	k.lookVelocity = Vector2{}
}

func stepAxis(v, target, k60 float32) float32 {
	v += target * LookAcceleration * k60
	v *= pow32(LookDeceleration, k60)
	if v > MaxLookVelocity {
		v = MaxLookVelocity
	}
	if v < -MaxLookVelocity {
		v = -MaxLookVelocity
	}
	if v < lookVelocityFloor && v > -lookVelocityFloor {
		v = 0
	}
	return v
}
