// Package vec2 implements the 2D float32 vector arithmetic shared by every
// simulation kernel. It is a thin wrapper around mgl32.Vec2: storage and most
// operations defer to mathgl directly; SqMag is written out by hand, and
// normalize (whose mgl32 behavior diverges from the simulator's needs on the
// zero vector) is reimplemented.
package vec2

import "github.com/go-gl/mathgl/mgl32"

// Vec2 is a pair of 32-bit floats (x, y).
type Vec2 = mgl32.Vec2

// Zero is the additive identity.
var Zero = Vec2{0, 0}

// New builds a Vec2 from components.
func New(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Add returns a+b.
func Add(a, b Vec2) Vec2 {
	return a.Add(b)
}

// Sub returns a-b.
func Sub(a, b Vec2) Vec2 {
	return a.Sub(b)
}

// Scale returns a*f.
func Scale(a Vec2, f float32) Vec2 {
	return a.Mul(f)
}

// SqMag returns the squared Euclidean magnitude.
func SqMag(a Vec2) float32 {
	return a[0]*a[0] + a[1]*a[1]
}

// Mag returns the Euclidean magnitude.
func Mag(a Vec2) float32 {
	return a.Len()
}

// Normalize returns a unit vector in the direction of a, or Zero if a is the
// zero vector (mgl32.Vec2.Normalize divides by zero in that case instead).
func Normalize(a Vec2) Vec2 {
	l := Mag(a)
	if l == 0 {
		return Zero
	}
	return a.Mul(1 / l)
}
