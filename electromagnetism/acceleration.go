package electromagnetism

import (
	"errors"
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNilProvider is returned when the acceleration model is missing one of its providers or its target model.
var ErrNilProvider = errors.New("radiation pressure acceleration requires all providers and a target model")

// PositionFunc returns the position of a body (in m) at time t.
type PositionFunc func(t float64) r3.Vec

// ScalarFunc returns a scalar quantity at time t, such as the irradiance (in W/m^2) or the mass (in kg).
type ScalarFunc func(t float64) float64

// RadiationPressureAcceleration converts the radiation pressure force on a target model into the acceleration of
// the body carrying it. All the quantities it uses are evaluated by UpdateMembers and cached for that time, so that
// repeated updates within an integration step return the very same acceleration.
type RadiationPressureAcceleration struct {
	sourcePosition      PositionFunc
	acceleratedPosition PositionFunc
	irradiance          ScalarFunc
	mass                ScalarFunc
	target              TargetModel
	metrics             *Metrics
	logger              kitlog.Logger

	currentTime              float64
	currentVectorToSource    r3.Vec // unit vector from the accelerated body to the source
	currentDistanceToSource  float64
	currentIrradiance        float64
	currentMass              float64
	currentForce             r3.Vec
	currentAcceleration      r3.Vec
	massWarningAlreadyLogged bool
}

// NewRadiationPressureAcceleration returns a new radiation pressure acceleration model.
// The metrics may be nil.
func NewRadiationPressureAcceleration(sourcePosition, acceleratedBodyPosition PositionFunc, irradiance, mass ScalarFunc, target TargetModel, metrics *Metrics) (*RadiationPressureAcceleration, error) {
	if sourcePosition == nil || acceleratedBodyPosition == nil || irradiance == nil || mass == nil || target == nil {
		return nil, ErrNilProvider
	}
	return &RadiationPressureAcceleration{
		sourcePosition:      sourcePosition,
		acceleratedPosition: acceleratedBodyPosition,
		irradiance:          irradiance,
		mass:                mass,
		target:              target,
		metrics:             metrics,
		logger:              kitlog.NewNopLogger(),
		currentTime:         NaT,
	}, nil
}

// SetLogger sets the logger used to report anomalies.
func (a *RadiationPressureAcceleration) SetLogger(logger kitlog.Logger) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	a.logger = logger
}

// UpdateMembers evaluates all providers and the target model at time t, unless this was already done for that exact
// time. Passing NaT forces a recomputation.
func (a *RadiationPressureAcceleration) UpdateMembers(t float64) {
	if a.currentTime == t {
		a.metrics.incCacheHits()
		return
	}
	a.metrics.incEvaluations()

	toSource := r3.Sub(a.sourcePosition(t), a.acceleratedPosition(t))
	a.currentDistanceToSource = r3.Norm(toSource)
	a.currentVectorToSource = unit(toSource)
	a.currentIrradiance = a.irradiance(t)
	a.currentMass = a.mass(t)
	if !(a.currentMass > 0) && !a.massWarningAlreadyLogged {
		level.Error(a.logger).Log("subsys", "srp", "mass(kg)", a.currentMass, "t", t)
		a.massWarningAlreadyLogged = true
	}

	a.target.UpdateMembers(t)
	a.currentForce = a.target.RadiationPressureForce(a.currentIrradiance, r3.Scale(-1, a.currentVectorToSource))
	a.currentAcceleration = r3.Scale(1/a.currentMass, a.currentForce)
	if math.IsNaN(a.currentAcceleration.X) || math.IsNaN(a.currentAcceleration.Y) || math.IsNaN(a.currentAcceleration.Z) {
		level.Warn(a.logger).Log("subsys", "srp", "acceleration", "NaN", "t", t, "distance(m)", a.currentDistanceToSource)
	}
	a.currentTime = t
}

// ResetCurrentTime invalidates the cached evaluation, so that the next UpdateMembers recomputes everything, even at
// the same time. Integrator stages which share a time but not a state must call it.
func (a *RadiationPressureAcceleration) ResetCurrentTime() {
	a.currentTime = NaT
	if r, ok := a.target.(interface{ ResetCurrentTime() }); ok {
		r.ResetCurrentTime()
	}
}

// Acceleration returns the acceleration (in m/s^2) computed by the last call to UpdateMembers.
func (a *RadiationPressureAcceleration) Acceleration() r3.Vec {
	return a.currentAcceleration
}

// CurrentForce returns the force (in N) computed by the last call to UpdateMembers.
func (a *RadiationPressureAcceleration) CurrentForce() r3.Vec {
	return a.currentForce
}

// CurrentVectorToSource returns the unit vector from the accelerated body to the source.
func (a *RadiationPressureAcceleration) CurrentVectorToSource() r3.Vec {
	return a.currentVectorToSource
}

// CurrentDistanceToSource returns the distance (in m) between the accelerated body and the source.
func (a *RadiationPressureAcceleration) CurrentDistanceToSource() float64 {
	return a.currentDistanceToSource
}

// CurrentIrradiance returns the irradiance (in W/m^2) at the accelerated body.
func (a *RadiationPressureAcceleration) CurrentIrradiance() float64 {
	return a.currentIrradiance
}

// CurrentMass returns the mass (in kg) of the accelerated body.
func (a *RadiationPressureAcceleration) CurrentMass() float64 {
	return a.currentMass
}

// CurrentTime returns the time of the last evaluation, NaT if none happened yet.
func (a *RadiationPressureAcceleration) CurrentTime() float64 {
	return a.currentTime
}

// TargetModel returns the target model of the accelerated body.
func (a *RadiationPressureAcceleration) TargetModel() TargetModel {
	return a.target
}
