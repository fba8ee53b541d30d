package tudat

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestR1R2R3(t *testing.T) {
	x := math.Pi / 3.0
	s, c := math.Sincos(x)
	r1 := R1(x)
	r2 := R2(x)
	r3 := R3(x)
	// Test items equal to 1.
	if r1.At(0, 0) != r2.At(1, 1) || r1.At(0, 0) != r3.At(2, 2) || r3.At(2, 2) != 1 {
		t.Fatal("expected R1.At(0, 0) = R2.At(1, 1) = R3.At(2, 2) = 1\n")
	}
	// Test items equal to 0.
	if r1.At(0, 1) != r1.At(0, 2) || r1.At(1, 0) != r1.At(2, 0) || r1.At(0, 1) != 0 {
		t.Fatal("misplaced zeros in R1\n")
	}
	if r2.At(0, 1) != r2.At(1, 2) || r2.At(1, 0) != r2.At(1, 2) || r2.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R2\n")
	}
	if r3.At(2, 0) != r3.At(2, 1) || r3.At(0, 2) != r3.At(1, 2) || r3.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R3\n")
	}
	// Test R1.
	if r1.At(1, 1) != r1.At(2, 2) || r1.At(2, 2) != c {
		t.Fatal("expected R1 cosines misplaced\n")
	}
	if r1.At(2, 1) != -r1.At(1, 2) || r1.At(1, 2) != s {
		t.Fatal("expected R1 sines misplaced\n")
	}
	// Test R2.
	if r2.At(0, 0) != r2.At(2, 2) || r2.At(2, 2) != c {
		t.Fatal("expected R2 cosines misplaced\n")
	}
	if r2.At(2, 0) != -r2.At(0, 2) || r2.At(2, 0) != s {
		t.Fatal("expected R2 sines misplaced\n")
	}
	// Test R3.
	if r3.At(1, 1) != r3.At(0, 0) || r3.At(0, 0) != c {
		t.Fatal("expected R3 cosines misplaced\n")
	}
	if r3.At(0, 1) != -r3.At(1, 0) || r3.At(0, 1) != s {
		t.Fatal("expected R3 sines misplaced\n")
	}
}

func TestRot313(t *testing.T) {
	var R1R3, R3R1R3m mat.Dense
	θ1 := math.Pi / 17
	θ2 := math.Pi / 16
	θ3 := math.Pi / 15
	R1R3.Mul(R1(θ2), R3(θ1))
	R3R1R3m.Mul(R3(θ3), &R1R3)
	if !mat.EqualApprox(&R3R1R3m, R3R1R3(θ1, θ2, θ3), 1e-15) {
		t.Logf("\n%v", mat.Formatted(&R3R1R3m))
		t.Logf("\n%v", mat.Formatted(R3R1R3(θ1, θ2, θ3)))
		t.Fatal("failed")
	}
}

func TestMxV33(t *testing.T) {
	// A passive rotation of the frame by 90 degrees about z.
	got := MxV33(R3(math.Pi/2), r3.Vec{X: 1, Y: 0, Z: 0})
	if !vectorsEqual(got, r3.Vec{X: 0, Y: -1, Z: 0}, 1e-15) {
		t.Fatalf("got %+v", got)
	}
}

func TestBodyFixedNormal(t *testing.T) {
	fixed := BodyFixedNormal(NewFixedAttitude(0, 0, 0), r3.Vec{X: 0, Y: 0, Z: 2})
	if got := fixed(1e6); !vectorsEqual(got, r3.Vec{X: 0, Y: 0, Z: 1}, 1e-15) {
		t.Fatalf("identity attitude changed the normal: %+v", got)
	}

	spin, err := NewSpinningAttitude(0, 0, 0, 3, math.Pi/2, 100)
	if err != nil {
		t.Fatal(err)
	}
	n := BodyFixedNormal(spin, r3.Vec{X: 1, Y: 0, Z: 0})
	if got := n(100); !vectorsEqual(got, r3.Vec{X: 1, Y: 0, Z: 0}, 1e-15) {
		t.Fatalf("at epoch: %+v", got)
	}
	// After one second the body x axis has turned by a quarter towards inertial y.
	if got := n(101); !vectorsEqual(got, r3.Vec{X: 0, Y: 1, Z: 0}, 1e-15) {
		t.Fatalf("after a quarter turn: %+v", got)
	}
	// The spin axis does not move.
	axis := BodyFixedNormal(spin, r3.Vec{X: 0, Y: 0, Z: 1})
	if got := axis(137); !vectorsEqual(got, r3.Vec{X: 0, Y: 0, Z: 1}, 1e-15) {
		t.Fatalf("spin axis moved: %+v", got)
	}
}

func TestSpinningAttitudeAxes(t *testing.T) {
	for _, test := range []struct {
		axis                    int
		spinAxis, body, quarter r3.Vec
	}{
		{1, r3.Vec{X: 1, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0}, r3.Vec{X: 0, Y: 0, Z: 1}},
		{2, r3.Vec{X: 0, Y: 1, Z: 0}, r3.Vec{X: 0, Y: 0, Z: 1}, r3.Vec{X: 1, Y: 0, Z: 0}},
		{3, r3.Vec{X: 0, Y: 0, Z: 1}, r3.Vec{X: 1, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0}},
	} {
		spin, err := NewSpinningAttitude(0, 0, 0, test.axis, math.Pi/2, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got := BodyFixedNormal(spin, test.body)(1); !vectorsEqual(got, test.quarter, 1e-15) {
			t.Fatalf("axis %d: after a quarter turn %+v, expected %+v", test.axis, got, test.quarter)
		}
		if got := BodyFixedNormal(spin, test.spinAxis)(0.37); !vectorsEqual(got, test.spinAxis, 1e-15) {
			t.Fatalf("axis %d: spin axis moved to %+v", test.axis, got)
		}
	}
	for _, axis := range []int{0, 4, -1} {
		if _, err := NewSpinningAttitude(0, 0, 0, axis, 1, 0); err == nil {
			t.Fatalf("spin axis %d accepted", axis)
		}
	}
}

func TestSunTrackingNormal(t *testing.T) {
	n := SunTrackingNormal(func(float64) r3.Vec { return r3.Vec{X: 10, Y: 0, Z: 0} }, func(t float64) r3.Vec { return r3.Vec{X: 0, Y: t, Z: 0} })
	if got := n(10); !vectorsEqual(got, unit(r3.Vec{X: 1, Y: -1, Z: 0}), 1e-15) {
		t.Fatalf("got %+v", got)
	}
}
