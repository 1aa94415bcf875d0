package geom

import "math"

// Vec is a point or direction in 3-space.
type Vec struct {
	X, Y, Z float64
}

func (a Vec) Add(b Vec) Vec { return Vec{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vec) Sub(b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (a Vec) Scale(s float64) Vec { return Vec{a.X * s, a.Y * s, a.Z * s} }

func (a Vec) Dot(b Vec) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec) Cross(b Vec) Vec {
	return Vec{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec) Norm() float64 { return math.Sqrt(a.Dot(a)) }

func (a Vec) Dist(b Vec) float64 { return a.Sub(b).Norm() }

// Normalized returns the unit vector in the direction of a, or a unchanged
// when its magnitude is below tol.
func (a Vec) Normalized() Vec {
	n := a.Norm()
	if n < 1e-12 {
		return a
	}
	return a.Scale(1 / n)
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b Vec, t float64) Vec {
	return Vec{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Triple returns the scalar triple product a . (b x c).
func Triple(a, b, c Vec) float64 { return a.Dot(b.Cross(c)) }

// Clamp01 limits t to the closed unit interval.
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
