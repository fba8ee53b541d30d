package electromagnetism

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// SpeedOfLight in vacuum in m/s.
	SpeedOfLight = 299792458.0
)

var (
	// NaT ("not a time") forces a recomputation when passed to UpdateMembers.
	NaT = math.NaN()
	// ErrNoPanels is returned when a paneled target model is built without any panel.
	ErrNoPanels = errors.New("paneled target requires at least one panel")
	// ErrCannonball is returned when a cannonball target has an invalid area or coefficient.
	ErrCannonball = errors.New("invalid cannonball target")
)

// TargetModel computes the radiation pressure force on a target body.
type TargetModel interface {
	// UpdateMembers refreshes any time dependent state of the target to time t. Passing NaT forces a refresh.
	UpdateMembers(t float64)
	// RadiationPressureForce returns the force (in N) due to the irradiance (in W/m^2) arriving along
	// sourceToTargetDirection, which must be a unit vector.
	RadiationPressureForce(irradiance float64, sourceToTargetDirection r3.Vec) r3.Vec
}

// CannonballTargetModel models the target as a single equivalent surface which is always perpendicular to the
// incident radiation.
type CannonballTargetModel struct {
	area        float64 // reference area (m^2)
	coefficient float64 // radiation pressure coefficient Cr
	currentTime float64
}

// NewCannonballTargetModel returns a new cannonball target model.
func NewCannonballTargetModel(area, coefficient float64) (*CannonballTargetModel, error) {
	if !(area > 0) || math.IsInf(area, 1) {
		return nil, fmt.Errorf("area = %g: %w", area, ErrCannonball)
	}
	if !(coefficient >= 0) || math.IsInf(coefficient, 1) {
		return nil, fmt.Errorf("coefficient = %g: %w", coefficient, ErrCannonball)
	}
	return &CannonballTargetModel{area, coefficient, NaT}, nil
}

// Area returns the reference area in m^2.
func (m *CannonballTargetModel) Area() float64 {
	return m.area
}

// Coefficient returns the radiation pressure coefficient.
func (m *CannonballTargetModel) Coefficient() float64 {
	return m.coefficient
}

// UpdateMembers implements the TargetModel interface. The cannonball has no time dependent state.
func (m *CannonballTargetModel) UpdateMembers(t float64) {
	m.currentTime = t
}

// RadiationPressureForce implements the TargetModel interface.
func (m *CannonballTargetModel) RadiationPressureForce(irradiance float64, sourceToTargetDirection r3.Vec) r3.Vec {
	// Montenbruck (2000), Eq. 3.75
	return r3.Scale(irradiance/SpeedOfLight*m.area*m.coefficient, sourceToTargetDirection)
}

// String implements the Stringer interface.
func (m *CannonballTargetModel) String() string {
	return fmt.Sprintf("cannonball (A=%g m^2, Cr=%g)", m.area, m.coefficient)
}

// PaneledTargetModel models the target as a set of flat panels, each with its own area, orientation and reflection
// law. Panels facing away from the source do not contribute, which accounts for self-shadowing of convex bodies.
type PaneledTargetModel struct {
	panels      []*Panel
	panelForces []r3.Vec // diagnostics from the last force evaluation
	currentTime float64
	updated     bool
}

// NewPaneledTargetModel returns a new paneled target model. The order of panels is kept for diagnostics.
func NewPaneledTargetModel(panels ...*Panel) (*PaneledTargetModel, error) {
	if len(panels) == 0 {
		return nil, ErrNoPanels
	}
	for i, p := range panels {
		if p == nil {
			return nil, fmt.Errorf("panel #%d is nil: %w", i, ErrNoPanels)
		}
	}
	return &PaneledTargetModel{
		panels:      append([]*Panel(nil), panels...),
		panelForces: make([]r3.Vec, len(panels)),
		currentTime: NaT,
	}, nil
}

// UpdateMembers implements the TargetModel interface by evaluating each panel normal at t, unless the normals were
// already evaluated at that exact time.
func (m *PaneledTargetModel) UpdateMembers(t float64) {
	if m.updated && m.currentTime == t {
		return
	}
	for _, p := range m.panels {
		p.updateMembers(t)
	}
	m.currentTime = t
	m.updated = true
}

// ResetCurrentTime forces the next UpdateMembers to evaluate the panel normals, even at the same time.
func (m *PaneledTargetModel) ResetCurrentTime() {
	m.currentTime = NaT
	m.updated = false
}

// RadiationPressureForce implements the TargetModel interface.
func (m *PaneledTargetModel) RadiationPressureForce(irradiance float64, sourceToTargetDirection r3.Vec) r3.Vec {
	if !m.updated {
		m.UpdateMembers(NaT)
	}
	radiationPressure := irradiance / SpeedOfLight
	var force r3.Vec
	for i, p := range m.panels {
		m.panelForces[i] = p.force(radiationPressure, sourceToTargetDirection)
		force = r3.Add(force, m.panelForces[i])
	}
	return force
}

// NumberOfPanels returns the number of panels.
func (m *PaneledTargetModel) NumberOfPanels() int {
	return len(m.panels)
}

// Panels returns the panels of this target.
func (m *PaneledTargetModel) Panels() []*Panel {
	return m.panels
}

// Panel returns panel i.
func (m *PaneledTargetModel) Panel(i int) *Panel {
	return m.panels[i]
}

// PanelNormal returns the normal of panel i as evaluated by the last update.
func (m *PaneledTargetModel) PanelNormal(i int) r3.Vec {
	return m.panels[i].currentNormal
}

// PanelForce returns the force on panel i from the last force evaluation.
func (m *PaneledTargetModel) PanelForce(i int) r3.Vec {
	return m.panelForces[i]
}

// TotalArea returns the summed area of all panels.
func (m *PaneledTargetModel) TotalArea() (area float64) {
	for _, p := range m.panels {
		area += p.area
	}
	return
}

// String implements the Stringer interface.
func (m *PaneledTargetModel) String() string {
	return fmt.Sprintf("paneled (%d panels, A=%g m^2)", len(m.panels), m.TotalArea())
}
