package tudat

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/DominikStiller/tudat/electromagnetism"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// AU is one astronomical unit in meters.
	AU = 1.49597870700e11
	// J2000 is the Julian date of the J2000 epoch.
	J2000 = 2451545.0
	// SolarLuminosity is the nominal total power output of the Sun (IAU 2015 B3) in W.
	SolarLuminosity = 3.828e26
	secondsPerDay   = 86400.0
)

// J2000Seconds returns the number of seconds past J2000 of the provided time.
func J2000Seconds(dt time.Time) float64 {
	return (julian.TimeToJD(dt.UTC()) - J2000) * secondsPerDay
}

// EpochFromJ2000Seconds returns the UTC time of the provided seconds past J2000.
func EpochFromJ2000Seconds(t float64) time.Time {
	return julian.JDToTime(J2000 + t/secondsPerDay).UTC()
}

// SunPosition returns the geocentric position of the Sun (in meters) at t seconds past J2000, from the apparent
// equatorial coordinates and radius vector of Meeus' solar theory. The frame is the apparent equatorial frame of
// date, not J2000: positions of other bodies must be in that frame too, as TLEOrbit positions (TEME) are up to
// a negligible equinox rotation.
func SunPosition(t float64) r3.Vec {
	jde := J2000 + t/secondsPerDay
	α, δ := solar.ApparentEquatorial(jde)
	r := solar.Radius(base.J2000Century(jde)) * AU
	sα, cα := math.Sincos(α.Rad())
	sδ, cδ := math.Sincos(δ.Rad())
	return r3.Vec{X: r * cδ * cα, Y: r * cδ * sα, Z: r * sδ}
}

// Body defines a body whose position is known as a function of time.
type Body struct {
	Name     string
	Position electromagnetism.PositionFunc
}

// String implements the Stringer interface.
func (b Body) String() string {
	return b.Name + " body"
}

// Sun as seen from the Earth.
var Sun = Body{"Sun", SunPosition}

// Earth is the origin of the frame.
var Earth = Body{"Earth", func(float64) r3.Vec { return r3.Vec{} }}

// BodyFromString returns the body from its name.
func BodyFromString(name string) (Body, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "earth":
		return Earth, nil
	default:
		return Body{}, fmt.Errorf("undefined body '%s'", name)
	}
}

// IsotropicSource is a point source radiating the same power in all directions, such as the Sun seen from far away.
type IsotropicSource struct {
	Body
	Luminosity float64 // W
}

// NewSolarSource returns the Sun as an isotropic source of nominal luminosity.
func NewSolarSource() IsotropicSource {
	return IsotropicSource{Sun, SolarLuminosity}
}

// Irradiance returns the irradiance (in W/m^2) at the provided distance (in m) of the source.
func (s IsotropicSource) Irradiance(distance float64) float64 {
	return s.Luminosity / (4 * math.Pi * distance * distance)
}

// IrradianceFunc returns the irradiance at the target position as a function of time.
func (s IsotropicSource) IrradianceFunc(target electromagnetism.PositionFunc) electromagnetism.ScalarFunc {
	return func(t float64) float64 {
		return s.Irradiance(r3.Norm(r3.Sub(s.Position(t), target(t))))
	}
}
