package electromagnetism

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// EvenlySpacedPoints returns the polar and azimuth angles (in radians) of n points evenly distributed over the unit
// sphere, on the staggered generalized spiral of Saff and Kuijlaars (1997).
func EvenlySpacedPoints(n int) (polar, azimuth []float64) {
	polar = make([]float64, n)
	azimuth = make([]float64, n)
	if n == 1 {
		return
	}
	for k := 0; k < n; k++ {
		h := -1 + 2*float64(k)/float64(n-1)
		polar[k] = math.Acos(h)
		if k == 0 || k == n-1 {
			// Poles
			continue
		}
		azimuth[k] = math.Mod(azimuth[k-1]+3.6/math.Sqrt(float64(n)*(1-h*h)), 2*math.Pi)
	}
	return
}

// NewSpherePanels returns n fixed panels of equal area approximating a sphere of the provided radius, with outward
// surface normals, all sharing the same reflection law.
func NewSpherePanels(radius float64, n int, law ReflectionLaw) ([]*Panel, error) {
	if n < 1 {
		return nil, ErrNoPanels
	}
	area := 4 * math.Pi * radius * radius / float64(n)
	polar, azimuth := EvenlySpacedPoints(n)
	panels := make([]*Panel, n)
	for i := range panels {
		sθ, cθ := math.Sincos(polar[i])
		sφ, cφ := math.Sincos(azimuth[i])
		p, err := NewFixedPanel(area, r3.Vec{X: sθ * cφ, Y: sθ * sφ, Z: cθ}, law)
		if err != nil {
			return nil, fmt.Errorf("sphere panel #%d: %w", i, err)
		}
		panels[i] = p
	}
	return panels, nil
}
