package tudat

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	deg2rad = math.Pi / 180
)

// unit returns the unit vector of a given vector, or the zero vector if its norm is (nearly) zero.
func unit(a r3.Vec) r3.Vec {
	n := r3.Norm(a)
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return r3.Vec{}
	}
	return r3.Scale(1/n, a)
}

// vecFromSlice returns the r3.Vec of a given slice which is supposed to be 3x1.
func vecFromSlice(a []float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
