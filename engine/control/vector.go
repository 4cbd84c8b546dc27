// Package control turns raw input (keys, virtual joysticks, pointer-lock mouse
// deltas and device orientation samples) into one first-person camera pose.
package control

import "math"

// Vector2 is a 2D input intent. Movement uses X for strafe and Y for forward
// (negative Y is forward). Look uses X for yaw and Y for pitch (negative Y looks up).
type Vector2 struct {
	X, Y float32
}

// Point is a screen-space position in pixels.
type Point struct {
	X, Y float32
}

// IsZero reports whether both components are zero.
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Len returns the Euclidean length of the vector.
func (v Vector2) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalized returns the unit vector in the same direction, or the zero vector.
func (v Vector2) Normalized() Vector2 {
	l := v.Len()
	if l == 0 {
		return Vector2{}
	}
	return Vector2{X: v.X / l, Y: v.Y / l}
}

// Scale multiplies both components by s.
func (v Vector2) Scale(s float32) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}
