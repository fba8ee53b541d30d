package electromagnetism

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrPanelArea is returned when a panel is not given a strictly positive area.
	ErrPanelArea = errors.New("panel area must be strictly positive")
	// ErrNilReflectionLaw is returned when a panel has no reflection law.
	ErrNilReflectionLaw = errors.New("reflection law is not set")
	// ErrNilSurfaceNormal is returned when a panel has no surface normal provider.
	ErrNilSurfaceNormal = errors.New("surface normal provider is not set")
)

// SurfaceNormalFunc returns the unit surface normal of a panel at time t (in seconds past J2000), expressed in the
// frame of the radiation direction.
type SurfaceNormalFunc func(t float64) r3.Vec

// FixedSurfaceNormal returns a SurfaceNormalFunc which always returns the normalized provided vector.
func FixedSurfaceNormal(n r3.Vec) SurfaceNormalFunc {
	n = r3.Unit(n)
	return func(float64) r3.Vec {
		return n
	}
}

// Panel is a flat surface element of a target body.
type Panel struct {
	area          float64
	normalFunc    SurfaceNormalFunc
	law           ReflectionLaw
	currentNormal r3.Vec
}

// NewPanel returns a new panel whose normal may change over time.
func NewPanel(area float64, normal SurfaceNormalFunc, law ReflectionLaw) (*Panel, error) {
	if !(area > 0) || math.IsInf(area, 1) {
		return nil, fmt.Errorf("area = %g: %w", area, ErrPanelArea)
	}
	if normal == nil {
		return nil, ErrNilSurfaceNormal
	}
	if isNilLaw(law) {
		return nil, ErrNilReflectionLaw
	}
	return &Panel{area: area, normalFunc: normal, law: law}, nil
}

// NewFixedPanel returns a new panel with a constant surface normal.
func NewFixedPanel(area float64, normal r3.Vec, law ReflectionLaw) (*Panel, error) {
	if r3.Norm(normal) == 0 {
		return nil, fmt.Errorf("zero length normal: %w", ErrNilSurfaceNormal)
	}
	return NewPanel(area, FixedSurfaceNormal(normal), law)
}

// Area returns the area of the panel in m^2.
func (p *Panel) Area() float64 {
	return p.area
}

// ReflectionLaw returns the (shared) reflection law of this panel.
func (p *Panel) ReflectionLaw() ReflectionLaw {
	return p.law
}

// SurfaceNormal returns the surface normal cached by the last update.
func (p *Panel) SurfaceNormal() r3.Vec {
	return p.currentNormal
}

// updateMembers evaluates the normal provider at t.
func (p *Panel) updateMembers(t float64) {
	p.currentNormal = unit(p.normalFunc(t))
}

// force returns the force on this panel for the provided radiation pressure (irradiance / c).
// Only the area projected onto the plane normal to the radiation intercepts it.
func (p *Panel) force(radiationPressure float64, sourceToTargetDirection r3.Vec) r3.Vec {
	cosIn := r3.Dot(p.currentNormal, r3.Scale(-1, sourceToTargetDirection))
	if cosIn <= 0 {
		return r3.Vec{}
	}
	return r3.Scale(radiationPressure*p.area*cosIn, p.law.ReactionVector(p.currentNormal, sourceToTargetDirection))
}

// isNilLaw catches both a nil interface and a typed nil pointer.
func isNilLaw(law ReflectionLaw) bool {
	if law == nil {
		return true
	}
	l, ok := law.(*SpecularDiffuseMixReflectionLaw)
	return ok && l == nil
}

// unit returns the unit vector of v, or the zero vector if v has no length.
func unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}
