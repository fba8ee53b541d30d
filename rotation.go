package tudat

import (
	"fmt"
	"math"

	"github.com/DominikStiller/tudat/electromagnetism"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rot313Vec converts a given vector from PQW frame to ECI frame.
func Rot313Vec(θ1, θ2, θ3 float64, vI r3.Vec) r3.Vec {
	return MxV33(R3R1R3(θ1, θ2, θ3), vI)
}

// R3R1R3 performs a 3-1-3 Euler parameter rotation.
// From Schaub and Junkins.
func R3R1R3(θ1, θ2, θ3 float64) *mat.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v r3.Vec) r3.Vec {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vec{X: rVec.AtVec(0), Y: rVec.AtVec(1), Z: rVec.AtVec(2)}
}

// Attitude defines the orientation of a body frame with respect to the inertial frame.
type Attitude interface {
	// BodyToInertial returns the rotation matrix from the body frame to the inertial frame at time t.
	BodyToInertial(t float64) mat.Matrix
}

// FixedAttitude is an attitude which never changes, set from 3-1-3 Euler angles (inertial to body).
type FixedAttitude struct {
	dcm *mat.Dense
}

// NewFixedAttitude returns a new FixedAttitude.
func NewFixedAttitude(θ1, θ2, θ3 float64) FixedAttitude {
	return FixedAttitude{R3R1R3(θ1, θ2, θ3)}
}

// BodyToInertial implements the Attitude interface.
func (a FixedAttitude) BodyToInertial(t float64) mat.Matrix {
	return a.dcm.T()
}

// SpinningAttitude is a body spinning about one of its axes at a constant rate, starting at epoch from the 3-1-3
// orientation. This is a rough model of a spin stabilized spacecraft.
type SpinningAttitude struct {
	initial *mat.Dense // inertial to body at epoch
	Axis    int        // body axis of the spin, 1, 2 or 3
	Rate    float64    // rad/s
	Epoch   float64    // seconds past J2000
}

// NewSpinningAttitude returns a new SpinningAttitude, or an error if the spin axis is not 1, 2 or 3.
func NewSpinningAttitude(θ1, θ2, θ3 float64, axis int, rate, epoch float64) (SpinningAttitude, error) {
	if axis < 1 || axis > 3 {
		return SpinningAttitude{}, fmt.Errorf("spin axis must be 1, 2 or 3 (got %d)", axis)
	}
	return SpinningAttitude{R3R1R3(θ1, θ2, θ3), axis, rate, epoch}, nil
}

// BodyToInertial implements the Attitude interface.
func (a SpinningAttitude) BodyToInertial(t float64) mat.Matrix {
	θ := a.Rate * (t - a.Epoch)
	var spin *mat.Dense
	switch a.Axis {
	case 1:
		spin = R1(θ)
	case 2:
		spin = R2(θ)
	default:
		spin = R3(θ)
	}
	var inertialToBody mat.Dense
	inertialToBody.Mul(spin, a.initial)
	return inertialToBody.T()
}

// BodyFixedNormal returns the surface normal provider of a panel fixed in the body frame.
func BodyFixedNormal(att Attitude, bodyNormal r3.Vec) electromagnetism.SurfaceNormalFunc {
	bodyNormal = unit(bodyNormal)
	return func(t float64) r3.Vec {
		return MxV33(att.BodyToInertial(t), bodyNormal)
	}
}

// SunTrackingNormal returns the surface normal provider of a panel articulated to always face the Sun, such as a
// solar array on a gimbal.
func SunTrackingNormal(sunPosition, bodyPosition electromagnetism.PositionFunc) electromagnetism.SurfaceNormalFunc {
	return func(t float64) r3.Vec {
		return unit(r3.Sub(sunPosition(t), bodyPosition(t)))
	}
}
