package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DominikStiller/tudat"
	"github.com/DominikStiller/tudat/electromagnetism"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"
)

// This code reads the scenario file, and evaluates the radiation pressure acceleration along the orbit.

const (
	defaultScenario = "~~unset~~"
)

var (
	scenario string
	verbose  bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "radiation pressure scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	// Load scenario
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	viper.SetConfigFile(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("%s: Error %s", scenario, err)
	}

	// Read arc parameters
	start := tudat.J2000Seconds(confReadJDEorTime("arc.start"))
	end := tudat.J2000Seconds(confReadJDEorTime("arc.end"))
	step := tudat.StepSize
	if viper.IsSet("arc.step") {
		step = viper.GetDuration("arc.step").Seconds()
	}
	if verbose {
		log.Printf("[conf] arc from %f to %f s past J2000, step of %f s\n", start, end, step)
	}

	// Read vehicle
	vehicleFile := viper.GetString("vehicle.file")
	if !filepath.IsAbs(vehicleFile) {
		vehicleFile = filepath.Join(filepath.Dir(scenario), vehicleFile)
	}
	vehicle, err := tudat.LoadVehicle(vehicleFile)
	if err != nil {
		log.Fatalf("could not load vehicle: %s", err)
	}
	if verbose {
		log.Printf("[conf] vehicle: %s", vehicle)
	}

	// Read orbit
	var orbit tudat.Ephemeris
	switch kind := strings.ToLower(viper.GetString("orbit.kind")); kind {
	case "tle":
		orbit, err = tudat.NewTLEOrbit(viper.GetString("orbit.line1"), viper.GetString("orbit.line2"))
	case "circular":
		orbit, err = tudat.NewCircularOrbit(viper.GetFloat64("orbit.radius"), viper.GetFloat64("orbit.inc"), viper.GetFloat64("orbit.RAAN"), viper.GetFloat64("orbit.argLat"), start)
	default:
		log.Fatalf("could not understand orbit kind `%s`", kind)
	}
	if err != nil {
		log.Fatalf("could not create orbit: %s", err)
	}
	if verbose {
		log.Printf("[conf] orbit: %s", orbit)
	}

	// Read the radiation source
	source := tudat.NewSolarSource()
	if viper.IsSet("source.body") {
		if source.Body, err = tudat.BodyFromString(viper.GetString("source.body")); err != nil {
			log.Fatalf("could not create source: %s", err)
		}
	}
	if viper.IsSet("source.luminosity") {
		source.Luminosity = viper.GetFloat64("source.luminosity")
	}
	if !(source.Luminosity > 0) {
		log.Fatalf("source luminosity must be strictly positive (got %g W)", source.Luminosity)
	}
	if verbose {
		log.Printf("[conf] source: %s of %g W", source.Body, source.Luminosity)
	}
	logger := tudat.NewLogger(os.Stdout)
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "vehicle", vehicle.Name)
	tle, isTLE := orbit.(*tudat.TLEOrbit)
	if isTLE {
		tle.SetLogger(logger)
	}

	// Build the acceleration
	target, err := vehicle.NewTargetModel(source.Position, orbit.Position)
	if err != nil {
		log.Fatalf("could not create target model: %s", err)
	}
	reg := prometheus.NewRegistry()
	metrics, err := electromagnetism.NewMetrics(reg)
	if err != nil {
		log.Fatalf("could not register metrics: %s", err)
	}
	acc, err := electromagnetism.NewRadiationPressureAcceleration(source.Position, orbit.Position, source.IrradianceFunc(orbit.Position), vehicle.MassFunc(), target, metrics)
	if err != nil {
		log.Fatalf("could not create acceleration: %s", err)
	}

	conf := tudat.ExportConfig{Filename: viper.GetString("export.filename"), AsCSV: viper.GetBool("export.csv"), Timestamp: viper.GetBool("export.timestamp")}
	arc, err := tudat.NewArc(acc, orbit.Position, start, end, step, conf)
	if err != nil {
		log.Fatalf("could not create arc: %s", err)
	}
	arc.SetLogger(logger)
	samples, err := arc.Run()
	if err != nil {
		log.Fatalf("could not export samples: %s", err)
	}

	var maxAcc float64
	for _, s := range samples {
		if a := r3.Norm(s.Acceleration); a > maxAcc {
			maxAcc = a
		}
	}
	keyvals := []interface{}{"subsys", "srp", "samples", len(samples), "max|a|(m/s^2)", maxAcc}
	families, err := reg.Gather()
	if err != nil {
		log.Fatalf("could not gather metrics: %s", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			keyvals = append(keyvals, mf.GetName(), m.GetCounter().GetValue())
		}
	}
	level.Info(logger).Log(keyvals...)
	if isTLE && tle.Decayed() {
		level.Warn(logger).Log("subsys", "astro", "orbit", tle, "status", "decayed during the arc")
	}

	// Optionally propagate the circular orbit numerically with radiation pressure, and compare it to the analytical one.
	if circular, ok := orbit.(*tudat.CircularOrbit); ok && viper.GetBool("propagation.enabled") {
		propagate(circular, vehicle, source, start, end, step, logger)
	}
}

func propagate(orbit *tudat.CircularOrbit, vehicle *tudat.Vehicle, source tudat.IsotropicSource, start, end, step float64, logger kitlog.Logger) {
	prop := tudat.NewPropagation(orbit.Position(start), orbit.Velocity(start), start, tudat.Perturbations{J2: viper.GetBool("propagation.J2")})
	prop.SetLogger(logger)
	target, err := vehicle.NewTargetModel(source.Position, prop.Position)
	if err != nil {
		log.Fatalf("could not create target model: %s", err)
	}
	acc, err := electromagnetism.NewRadiationPressureAcceleration(source.Position, prop.Position, source.IrradianceFunc(prop.Position), vehicle.MassFunc(), target, nil)
	if err != nil {
		log.Fatalf("could not create acceleration: %s", err)
	}
	acc.SetLogger(logger)
	prop.Perts.Accelerations = append(prop.Perts.Accelerations, acc)
	if err := prop.PropagateUntil(end, step); err != nil {
		log.Fatalf("could not propagate: %s", err)
	}
	level.Info(logger).Log("subsys", "astro", "Δr(m)", r3.Norm(r3.Sub(prop.R, orbit.Position(prop.T))), "J2", prop.Perts.J2)
}

func confReadJDEorTime(key string) (dt time.Time) {
	jde := viper.GetFloat64(key)
	if jde == 0 {
		dt = viper.GetTime(key)
	} else {
		dt = julian.JDToTime(jde)
	}
	return dt.UTC()
}
