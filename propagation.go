package tudat

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ode"
	"github.com/DominikStiller/tudat/electromagnetism"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gonum.org/v1/gonum/spatial/r3"
)

// Propagation is an ode.Integrable which propagates a spacecraft about the Earth with Cartesian two body
// dynamics and the provided perturbations.
type Propagation struct {
	Perts    Perturbations // perturbations to account for
	R, V     r3.Vec        // state at T (m, m/s)
	T        float64       // seconds past J2000
	StopT    float64       // end time of the integration
	trialT   float64       // time of the state being evaluated by the integrator
	trialR   r3.Vec
	collided bool
	logger   kitlog.Logger
}

// NewPropagation returns a new propagation from the provided state at epoch (seconds past J2000).
func NewPropagation(R, V r3.Vec, epoch float64, perts Perturbations) *Propagation {
	return &Propagation{Perts: perts, R: R, V: V, T: epoch, StopT: epoch, trialT: electromagnetism.NaT, trialR: R, logger: kitlog.NewNopLogger()}
}

// SetLogger sets the logger of this propagation.
func (p *Propagation) SetLogger(logger kitlog.Logger) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	p.logger = logger
}

// Position returns the position of the spacecraft at time t, which is either that of the state currently evaluated
// by the integrator or the latest state. It is meant to be the position provider of the acceleration models.
func (p *Propagation) Position(t float64) r3.Vec {
	if t == p.trialT {
		return p.trialR
	}
	return p.R
}

// GetState implements the Integrable interface.
func (p *Propagation) GetState() []float64 {
	return []float64{p.R.X, p.R.Y, p.R.Z, p.V.X, p.V.Y, p.V.Z}
}

// SetState implements the Integrable interface.
func (p *Propagation) SetState(t float64, s []float64) {
	p.R = r3.Vec{X: s[0], Y: s[1], Z: s[2]}
	p.V = r3.Vec{X: s[3], Y: s[4], Z: s[5]}
	p.T = t
	// Orbit sanity checks and warnings.
	if rNorm := r3.Norm(p.R); !p.collided && rNorm < EarthRadius {
		p.collided = true
		level.Error(p.logger).Log("subsys", "astro", "collided", "Earth", "dt", EpochFromJ2000Seconds(t), "r", rNorm)
	} else if p.collided && rNorm > EarthRadius*1.1 {
		// Now further from the 10% dead zone
		p.collided = false
		level.Warn(p.logger).Log("subsys", "astro", "revived", "Earth", "dt", EpochFromJ2000Seconds(t))
	}
}

// Stop implements the Integrable interface.
func (p *Propagation) Stop(t float64) bool {
	return p.T >= p.StopT-1e-6 // within a microsecond
}

// Func implements the Integrable interface.
func (p *Propagation) Func(t float64, f []float64) []float64 {
	fDot := make([]float64, 6) // init return vector
	R := r3.Vec{X: f[0], Y: f[1], Z: f[2]}
	p.trialT, p.trialR = t, R
	// Stages may share a time but never a state.
	for _, acc := range p.Perts.Accelerations {
		if r, ok := acc.(interface{ ResetCurrentTime() }); ok {
			r.ResetCurrentTime()
		}
	}
	bodyAcc := -EarthGM / math.Pow(r3.Norm(R), 3)
	// d\vec{R}/dt
	fDot[0] = f[3]
	fDot[1] = f[4]
	fDot[2] = f[5]
	// d\vec{V}/dt
	fDot[3] = bodyAcc * f[0]
	fDot[4] = bodyAcc * f[1]
	fDot[5] = bodyAcc * f[2]

	pert := p.Perts.Perturb(t, R)
	for i := 0; i < 6; i++ {
		fDot[i] += pert[i]
		if math.IsNaN(fDot[i]) {
			panic(fmt.Errorf("fDot[%d]=NaN @ t=%f\nR=%+v\tV=%+v", i, t, p.R, p.V))
		}
	}
	return fDot
}

// PropagateUntil propagates with a fixed step RK4 until the provided time; the last step may end after it.
func (p *Propagation) PropagateUntil(stopT, step float64) error {
	if stopT < p.T {
		return errors.New("cannot propagate backward")
	}
	if !(step > 0) || math.IsInf(step, 1) {
		return fmt.Errorf("invalid step %f", step)
	}
	p.StopT = stopT
	iterNum, _, err := ode.NewRK4(p.T, step, p).Solve() // Blocking.
	if err != nil {
		return err
	}
	level.Info(p.logger).Log("subsys", "astro", "status", "finished", "steps", iterNum, "r(km)", r3.Norm(p.R)/kmToM)
	return nil
}
