package tudat

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// EarthJ2 is the second zonal harmonic of the Earth.
const EarthJ2 = 1.082626925638815e-3

// AccelerationModel is an acceleration which must be updated to a given time before being read.
type AccelerationModel interface {
	UpdateMembers(t float64)
	Acceleration() r3.Vec
}

// Perturbations defines which perturbing accelerations act on a spacecraft about the Earth.
type Perturbations struct {
	J2            bool                            // Whether to include the Earth J2 perturbation
	Accelerations []AccelerationModel             // Acceleration models, such as radiation pressure
	Arbitrary     func(t float64, r r3.Vec) r3.Vec // Additional arbitrary acceleration.
}

func (p Perturbations) isEmpty() bool {
	return !p.J2 && len(p.Accelerations) == 0 && p.Arbitrary == nil
}

// Perturb returns the perturbing state vector derivative (position then velocity) at time t for a spacecraft
// at position R (in m) in an Earth centered inertial frame. Only the velocity derivative can be non zero.
func (p Perturbations) Perturb(t float64, R r3.Vec) []float64 {
	pert := make([]float64, 6)
	if p.isEmpty() {
		return pert
	}
	if p.J2 {
		z2 := R.Z * R.Z
		r2 := r3.Norm2(R)
		r252 := math.Pow(r2, 5/2.)
		r272 := math.Pow(r2, 7/2.)
		accJ2 := (3 / 2.) * EarthJ2 * math.Pow(EarthRadius, 2) * EarthGM
		pert[3] += accJ2 * (5*R.X*z2/r272 - R.X/r252)
		pert[4] += accJ2 * (5*R.Y*z2/r272 - R.Y/r252)
		pert[5] += accJ2 * (5*R.Z*z2/r272 - 3*R.Z/r252)
	}
	for _, acc := range p.Accelerations {
		acc.UpdateMembers(t)
		a := acc.Acceleration()
		pert[3] += a.X
		pert[4] += a.Y
		pert[5] += a.Z
	}
	if p.Arbitrary != nil {
		a := p.Arbitrary(t, R)
		pert[3] += a.X
		pert[4] += a.Y
		pert[5] += a.Z
	}
	return pert
}
