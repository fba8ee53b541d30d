package tudat

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	issLine1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	issLine2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

func TestTLEOrbit(t *testing.T) {
	o, err := NewTLEOrbit(issLine1, issLine2)
	if err != nil {
		t.Fatal(err)
	}
	t0 := J2000Seconds(time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC))
	r0 := o.Position(t0)
	// We don't check exact values (those belong to go-satellite), only that the ISS is in a low orbit and moving.
	if alt := r3.Norm(r0) - EarthRadius; alt < 350e3 || alt > 480e3 {
		t.Fatalf("ISS altitude of %f km", alt/kmToM)
	}
	r1 := o.Position(t0 + 60)
	if d := r3.Norm(r3.Sub(r1, r0)); d < 400e3 || d > 500e3 {
		t.Fatalf("ISS moved %f km in one minute", d/kmToM)
	}
	// Times within half a second of a whole second use that second.
	if r := o.Position(t0 + 60 - 4e-4); r != r1 {
		t.Fatalf("position 0.4 ms before the minute is %f km off", r3.Norm(r3.Sub(r, r1))/kmToM)
	}
	if o.Decayed() {
		t.Fatal("ISS flagged as decayed")
	}
	if o.String() != "TLE 25544" {
		t.Fatalf("incorrect String(): %s", o)
	}
	if _, err := NewTLEOrbit("1 25544U", issLine2); err == nil {
		t.Fatal("malformed TLE accepted")
	}
	if _, err := NewTLEOrbit(issLine2, issLine1); err == nil {
		t.Fatal("swapped TLE lines accepted")
	}
}

func TestPositionValid(t *testing.T) {
	for _, test := range []struct {
		pos   r3.Vec
		valid bool
	}{
		{r3.Vec{X: EarthRadius + 400e3, Y: 0, Z: 0}, true},
		{r3.Vec{X: 0, Y: 0, Z: EarthRadius}, true},
		{r3.Vec{}, false},
		{r3.Vec{X: 0, Y: 1e6, Z: 0}, false},
		{r3.Vec{X: math.NaN(), Y: 0, Z: 0}, false},
		{r3.Vec{X: math.Inf(1), Y: 0, Z: 0}, false},
	} {
		if got := positionValid(test.pos); got != test.valid {
			t.Fatalf("%+v: valid=%t, expected %t", test.pos, got, test.valid)
		}
	}
}

func TestCircularOrbit(t *testing.T) {
	r := EarthRadius + 500e3
	o, err := NewCircularOrbit(r, 90, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !vectorsEqual(o.Position(0), r3.Vec{X: r, Y: 0, Z: 0}, 1e-6) {
		t.Fatalf("incorrect position at epoch %+v", o.Position(0))
	}
	// A quarter of a polar orbit later, the spacecraft is above the north pole.
	if !vectorsEqual(o.Position(o.Period()/4), r3.Vec{X: 0, Y: 0, Z: r}, 1e-6) {
		t.Fatalf("incorrect position after a quarter period %+v", o.Position(o.Period()/4))
	}
	for _, dt := range []float64{0, 123, 4567, 89012} {
		if !scalar.EqualWithinRel(r3.Norm(o.Position(dt)), r, 1e-12) {
			t.Fatal("radius is not constant")
		}
	}
	if !scalar.EqualWithinAbs(o.Period(), 2*math.Pi*math.Sqrt(math.Pow(r, 3)/EarthGM), 1e-9) {
		t.Fatal("incorrect period")
	}
	if _, err := NewCircularOrbit(1e6, 0, 0, 0, 0); err == nil {
		t.Fatal("orbit below the surface accepted")
	}
}
