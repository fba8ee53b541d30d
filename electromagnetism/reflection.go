package electromagnetism

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	reflectivityε      = 1e-12 // tolerance on α + ρs + ρd = 1
	specularDirectionε = 1e-12 // relative tolerance of the mirror direction match
)

var (
	// ErrReflectivityRange is returned when a reflectivity or absorptivity is outside of [0, 1].
	ErrReflectivityRange = errors.New("reflectivity outside of [0, 1]")
	// ErrReflectivitySum is returned when absorptivity and reflectivities do not sum to 1.
	ErrReflectivitySum = errors.New("absorptivity and reflectivities do not sum to 1")
)

// ReflectionLaw defines how a surface reflects and reacts to incident radiation.
// All vectors must be expressed in the same frame.
type ReflectionLaw interface {
	// ReflectedFraction returns the fraction of radiation incident from incomingDirection which is reflected
	// towards observerDirection (in 1/sr).
	ReflectedFraction(surfaceNormal, incomingDirection, observerDirection r3.Vec) float64
	// ReactionVector returns the force per unit of radiation pressure on a unit area of the surface held normal
	// to the incident radiation. Callers account for the projected area themselves.
	ReactionVector(surfaceNormal, incomingDirection r3.Vec) r3.Vec
}

// MirrorlikeReflection returns the direction of a ray after a perfect mirror reflection about the surface normal.
// The zero vector is returned if the ray does not impinge on the front side of the surface.
func MirrorlikeReflection(incomingDirection, surfaceNormal r3.Vec) r3.Vec {
	vDotN := r3.Dot(incomingDirection, surfaceNormal)
	if vDotN >= 0 {
		// Backside (or grazing) incidence
		return r3.Vec{}
	}
	return r3.Sub(incomingDirection, r3.Scale(2*vDotN, surfaceNormal))
}

// SpecularDiffuseMixReflectionLaw splits incident radiation into an absorbed, a specularly reflected and a
// diffusely (Lambertian) reflected portion. Absorbed radiation may be instantaneously re-emitted as Lambertian
// radiation. It is immutable and may be shared by any number of panels.
type SpecularDiffuseMixReflectionLaw struct {
	α           float64 // absorptivity
	ρs          float64 // specular reflectivity
	ρd          float64 // diffuse reflectivity
	reradiation bool    // instantaneous Lambertian reradiation of absorbed radiation
}

// NewSpecularDiffuseMixReflectionLaw returns a new reflection law, or an error if the coefficients are invalid.
func NewSpecularDiffuseMixReflectionLaw(absorptivity, specularReflectivity, diffuseReflectivity float64, withInstantaneousLambertianReradiation bool) (*SpecularDiffuseMixReflectionLaw, error) {
	for _, c := range []struct {
		name string
		val  float64
	}{
		{"absorptivity", absorptivity},
		{"specular reflectivity", specularReflectivity},
		{"diffuse reflectivity", diffuseReflectivity},
	} {
		if math.IsNaN(c.val) || c.val < -reflectivityε || c.val > 1+reflectivityε {
			return nil, fmt.Errorf("%s = %g: %w", c.name, c.val, ErrReflectivityRange)
		}
	}
	if sum := absorptivity + specularReflectivity + diffuseReflectivity; !scalar.EqualWithinAbs(sum, 1, reflectivityε) {
		return nil, fmt.Errorf("α=%g, ρs=%g, ρd=%g sum to %g: %w", absorptivity, specularReflectivity, diffuseReflectivity, sum, ErrReflectivitySum)
	}
	return &SpecularDiffuseMixReflectionLaw{absorptivity, specularReflectivity, diffuseReflectivity, withInstantaneousLambertianReradiation}, nil
}

// ReflectionLawFromSpecularAndDiffuseReflectivity returns a reflection law whose absorptivity is what remains once
// the specular and diffuse reflectivities are accounted for.
func ReflectionLawFromSpecularAndDiffuseReflectivity(specularReflectivity, diffuseReflectivity float64, withInstantaneousLambertianReradiation bool) (*SpecularDiffuseMixReflectionLaw, error) {
	return NewSpecularDiffuseMixReflectionLaw(1-specularReflectivity-diffuseReflectivity, specularReflectivity, diffuseReflectivity, withInstantaneousLambertianReradiation)
}

// ReflectionLawFromAbsorptivityAndDiffuseReflectivity returns a reflection law whose specular reflectivity is what
// remains once the absorptivity and diffuse reflectivity are accounted for.
func ReflectionLawFromAbsorptivityAndDiffuseReflectivity(absorptivity, diffuseReflectivity float64, withInstantaneousLambertianReradiation bool) (*SpecularDiffuseMixReflectionLaw, error) {
	return NewSpecularDiffuseMixReflectionLaw(absorptivity, 1-absorptivity-diffuseReflectivity, diffuseReflectivity, withInstantaneousLambertianReradiation)
}

// Absorptivity returns α.
func (l *SpecularDiffuseMixReflectionLaw) Absorptivity() float64 {
	return l.α
}

// SpecularReflectivity returns ρs.
func (l *SpecularDiffuseMixReflectionLaw) SpecularReflectivity() float64 {
	return l.ρs
}

// DiffuseReflectivity returns ρd.
func (l *SpecularDiffuseMixReflectionLaw) DiffuseReflectivity() float64 {
	return l.ρd
}

// WithInstantaneousLambertianReradiation returns whether absorbed radiation is re-emitted instantaneously.
func (l *SpecularDiffuseMixReflectionLaw) WithInstantaneousLambertianReradiation() bool {
	return l.reradiation
}

// String implements the Stringer interface.
func (l *SpecularDiffuseMixReflectionLaw) String() string {
	return fmt.Sprintf("α=%.3f ρs=%.3f ρd=%.3f reradiation=%t", l.α, l.ρs, l.ρd, l.reradiation)
}

// ReflectedFraction implements the ReflectionLaw interface (Wetterer 2014, Eq. 4).
// Specular reflection only reaches an observer sitting exactly in the mirrored direction of the incident radiation,
// so this is mostly useful for diagnostics and not for integrated quantities.
func (l *SpecularDiffuseMixReflectionLaw) ReflectedFraction(surfaceNormal, incomingDirection, observerDirection r3.Vec) float64 {
	cosIn := r3.Dot(surfaceNormal, r3.Scale(-1, incomingDirection))
	cosObs := r3.Dot(surfaceNormal, observerDirection)
	if cosIn <= 0 || cosObs <= 0 {
		// Incident on backside, or observer behind the surface
		return 0
	}
	fraction := l.ρd / math.Pi
	if mirror := MirrorlikeReflection(incomingDirection, surfaceNormal); sameDirection(observerDirection, mirror) {
		fraction += l.ρs / cosIn
	}
	return fraction
}

// ReactionVector implements the ReflectionLaw interface (Montenbruck 2014, Eqs. 5 and 6).
func (l *SpecularDiffuseMixReflectionLaw) ReactionVector(surfaceNormal, incomingDirection r3.Vec) r3.Vec {
	cosIn := r3.Dot(surfaceNormal, r3.Scale(-1, incomingDirection))
	if cosIn <= 0 {
		return r3.Vec{}
	}
	fromIncidence := r3.Scale(l.α+l.ρd, incomingDirection)
	fromReflection := r3.Scale(-(2./3*l.ρd + 2*l.ρs*cosIn), surfaceNormal)
	reaction := r3.Add(fromIncidence, fromReflection)
	if l.reradiation {
		// Lambertian reradiation behaves like diffuse reflection of the absorbed part.
		reaction = r3.Add(reaction, r3.Scale(-2./3*l.α, surfaceNormal))
	}
	return reaction
}

// sameDirection mirrors an approximate vector equality: the difference must be small relative to the shorter vector.
func sameDirection(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) <= specularDirectionε*math.Min(r3.Norm(a), r3.Norm(b))
}
