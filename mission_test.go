package tudat

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DominikStiller/tudat/electromagnetism"
	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestAcceleration(t *testing.T, metrics *electromagnetism.Metrics) (*electromagnetism.RadiationPressureAcceleration, electromagnetism.PositionFunc) {
	target, err := electromagnetism.NewCannonballTargetModel(2, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	orbit, err := NewCircularOrbit(EarthRadius+700e3, 98, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	src := NewSolarSource()
	acc, err := electromagnetism.NewRadiationPressureAcceleration(src.Position, orbit.Position, src.IrradianceFunc(orbit.Position), func(float64) float64 { return 200 }, target, metrics)
	if err != nil {
		t.Fatal(err)
	}
	return acc, orbit.Position
}

func TestArcSampling(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := electromagnetism.NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	acc, pos := newTestAcceleration(t, metrics)
	arc, err := NewArc(acc, pos, 0, 600, 60, ExportConfig{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	arc.SetLogger(kitlog.NewLogfmtLogger(&buf))
	samples, err := arc.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if s.T != float64(i)*60 {
			t.Fatalf("sample #%d at %f s", i, s.T)
		}
		// A 2 m^2 cannonball of 200 kg with Cr = 1.5 near 1 AU.
		if a := r3.Norm(s.Acceleration); !scalar.EqualWithinRel(a, 1.5*2*s.Irradiance/electromagnetism.SpeedOfLight/200, 1e-12) {
			t.Fatalf("sample #%d: incorrect acceleration %e", i, a)
		}
		if !scalar.EqualWithinRel(s.Distance, r3.Norm(r3.Sub(SunPosition(s.T), pos(s.T))), 1e-12) {
			t.Fatalf("sample #%d: incorrect distance", i)
		}
	}
	// Each step evaluates at its middle twice and at its end, which is then sampled: only the first middle
	// evaluation and the end evaluation recompute the acceleration.
	if got := testutil.ToFloat64(metrics.Evaluations); got != 1+2*10 {
		t.Fatalf("expected 21 evaluations, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.CacheHits); got != 3*10 {
		t.Fatalf("expected 30 cache hits, got %f", got)
	}
	if !strings.Contains(buf.String(), "status=finished") {
		t.Fatalf("arc did not log its end:\n%s", buf.String())
	}
}

func TestArcLastStep(t *testing.T) {
	acc, pos := newTestAcceleration(t, nil)
	arc, err := NewArc(acc, pos, 0, 150, 60, ExportConfig{})
	if err != nil {
		t.Fatal(err)
	}
	samples, err := arc.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 4 || samples[3].T != 150 {
		t.Fatalf("incorrect last step: %+v", samples)
	}
}

func TestArcStop(t *testing.T) {
	acc, pos := newTestAcceleration(t, nil)
	arc, err := NewArc(acc, pos, 0, 6000, 60, ExportConfig{})
	if err != nil {
		t.Fatal(err)
	}
	arc.StopPropagation()
	arc.StopPropagation() // Must not block.
	samples, err := arc.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Fatalf("stopped arc returned %d samples", len(samples))
	}
}

func TestArcErrors(t *testing.T) {
	acc, pos := newTestAcceleration(t, nil)
	testValues := []struct {
		name              string
		start, stop, step float64
	}{
		{"zero step", 0, 10, 0},
		{"reversed", 10, 0, 1},
		{"too long", 0, 20 * 365.25 * secondsPerDay, 60},
	}
	for _, test := range testValues {
		if _, err := NewArc(acc, pos, test.start, test.stop, test.step, ExportConfig{}); err == nil {
			t.Fatalf("%s: arc accepted", test.name)
		}
	}
	if _, err := NewArc(nil, pos, 0, 10, 1, ExportConfig{}); err == nil {
		t.Fatal("arc without acceleration accepted")
	}
}

func TestArcExport(t *testing.T) {
	dir := t.TempDir()
	cfgLoaded = true
	config = _tudatconfig{outputDir: dir, logLevel: "info"}
	defer func() { cfgLoaded = false }()

	acc, pos := newTestAcceleration(t, nil)
	conf := ExportConfig{Filename: "test", AsCSV: true,
		CSVAppend:    func(s Sample) []string { return []string{formatFloat(r3.Norm(s.Acceleration))} },
		CSVAppendHdr: func() []string { return []string{"|a|"} },
	}
	arc, err := NewArc(acc, pos, 0, 300, 60, conf)
	if err != nil {
		t.Fatal(err)
	}
	samples, err := arc.Run()
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(filepath.Join(dir, "srp-test.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comment = '#'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(samples)+1 {
		t.Fatalf("expected %d records, got %d", len(samples)+1, len(records))
	}
	if len(records[0]) != len(sampleHeader)+1 || records[0][len(sampleHeader)] != "|a|" {
		t.Fatalf("incorrect header %v", records[0])
	}
	if records[2][1] != formatFloat(60) {
		t.Fatalf("incorrect time of second record %v", records[2])
	}
}
