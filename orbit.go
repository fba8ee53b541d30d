package tudat

import (
	"errors"
	"fmt"
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	satellite "github.com/joshuaferrara/go-satellite"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// EarthGM is the gravitational parameter of the Earth (in m^3/s^2).
	EarthGM = 3.986004418e14
	// EarthRadius is the equatorial radius of the Earth (in m).
	EarthRadius = 6378136.3
	kmToM       = 1000.0
)

// Ephemeris provides the position of a body as a function of time (in seconds past J2000).
type Ephemeris interface {
	Position(t float64) r3.Vec
}

// TLEOrbit propagates a two-line element set with SGP4. Positions are in meters and in the TEME frame, which is
// taken as the equatorial frame of date of SunPosition. Both differ by the equation of the equinoxes, a rotation
// about the pole of at most about 16 arcseconds, negligible for the direction and distance to the Sun.
type TLEOrbit struct {
	Line1, Line2 string
	sat          satellite.Satellite
	decayed      bool
	logger       kitlog.Logger
}

// NewTLEOrbit returns a new TLEOrbit, or an error if the lines are malformed or rejected by SGP4.
func NewTLEOrbit(line1, line2 string) (*TLEOrbit, error) {
	if len(line1) < 69 || len(line2) < 69 || line1[0] != '1' || line2[0] != '2' {
		return nil, errors.New("malformed two-line element set")
	}
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	if sat.Error != 0 {
		return nil, fmt.Errorf("invalid two-line element set: %s (SGP4 error %d)", sat.ErrorStr, sat.Error)
	}
	return &TLEOrbit{Line1: line1, Line2: line2, sat: sat, logger: kitlog.NewNopLogger()}, nil
}

// SetLogger sets the logger of this orbit.
func (o *TLEOrbit) SetLogger(logger kitlog.Logger) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	o.logger = logger
}

// Position implements the Ephemeris interface. The time is rounded to the nearest second, which is the resolution
// of the SGP4 implementation.
func (o *TLEOrbit) Position(t float64) r3.Vec {
	dt := EpochFromJ2000Seconds(t).Round(time.Second)
	year, month, day := dt.Date()
	hour, min, sec := dt.Clock()
	posECI, _ := satellite.Propagate(o.sat, year, int(month), day, hour, min, sec)
	pos := r3.Scale(kmToM, r3.Vec{X: posECI.X, Y: posECI.Y, Z: posECI.Z})
	if !positionValid(pos) && !o.decayed {
		o.decayed = true
		level.Warn(o.logger).Log("subsys", "astro", "tle", o.Line1[2:7], "status", "decayed", "dt", dt, "r(km)", r3.Norm(pos)/kmToM)
	}
	return pos
}

// Decayed returns whether SGP4 returned a position below the surface of the Earth, or no position at all.
func (o *TLEOrbit) Decayed() bool {
	return o.decayed
}

// String implements the Stringer interface.
func (o *TLEOrbit) String() string {
	return fmt.Sprintf("TLE %s", o.Line1[2:7])
}

// positionValid returns whether a geocentric position is finite and above the surface of the Earth.
func positionValid(pos r3.Vec) bool {
	r := r3.Norm(pos)
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r >= EarthRadius
}

// CircularOrbit is an unperturbed circular orbit about the Earth.
type CircularOrbit struct {
	Radius float64 // m
	i, Ω   float64 // inclination and RAAN (rad)
	u0     float64 // argument of latitude at epoch (rad)
	epoch  float64 // seconds past J2000
	n      float64 // mean motion (rad/s)
}

// NewCircularOrbit returns a new circular orbit of the provided radius (m); the angles are in degrees.
func NewCircularOrbit(radius, inclination, raan, argLatitude, epoch float64) (*CircularOrbit, error) {
	if radius < EarthRadius {
		return nil, fmt.Errorf("circular orbit radius %f m is below the surface", radius)
	}
	return &CircularOrbit{radius, Deg2rad(inclination), Deg2rad(raan), Deg2rad(argLatitude), epoch, math.Sqrt(EarthGM / math.Pow(radius, 3))}, nil
}

// Period returns the orbital period in seconds.
func (o *CircularOrbit) Period() float64 {
	return 2 * math.Pi / o.n
}

// Position implements the Ephemeris interface.
func (o *CircularOrbit) Position(t float64) r3.Vec {
	u := o.u0 + o.n*(t-o.epoch)
	return Rot313Vec(-u, -o.i, -o.Ω, r3.Vec{X: o.Radius, Y: 0, Z: 0})
}

// Velocity returns the velocity (in m/s) at time t.
func (o *CircularOrbit) Velocity(t float64) r3.Vec {
	u := o.u0 + o.n*(t-o.epoch)
	return Rot313Vec(-u, -o.i, -o.Ω, r3.Vec{X: 0, Y: o.Radius * o.n, Z: 0})
}

// String implements the Stringer interface.
func (o *CircularOrbit) String() string {
	return fmt.Sprintf("circular r=%.1f km i=%.2f Ω=%.2f", o.Radius/kmToM, Rad2deg(o.i), Rad2deg(o.Ω))
}
