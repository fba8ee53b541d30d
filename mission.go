package tudat

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/DominikStiller/tudat/electromagnetism"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// StepSize is the default step size of an arc (in seconds).
	StepSize = 60.0
	// maxArcDuration is the hard limit of an arc (ten years, in seconds).
	maxArcDuration = 3652.5 * secondsPerDay
)

// rk4Nodes are the fractions of a step at which a classical RK4 integrator evaluates its accelerations.
var rk4Nodes = []float64{0, 0.5, 0.5, 1}

// Sample stores the radiation pressure state at a given time.
type Sample struct {
	T            float64 // seconds past J2000
	Position     r3.Vec  // of the accelerated body (m)
	Distance     float64 // to the source (m)
	Irradiance   float64 // W/m^2
	Force        r3.Vec  // N
	Acceleration r3.Vec  // m/s^2
}

// Epoch returns the UTC epoch of this sample.
func (s Sample) Epoch() time.Time {
	return EpochFromJ2000Seconds(s.T)
}

// Arc evaluates a radiation pressure acceleration along the trajectory of a body, the way an integrator would.
type Arc struct {
	Start, Stop, Step float64 // seconds past J2000, and seconds
	Acceleration      *electromagnetism.RadiationPressureAcceleration
	Position          electromagnetism.PositionFunc
	samples           uint64
	logger            kitlog.Logger
	stopChan          chan (bool)
	histChan          chan<- (Sample)
	wg                sync.WaitGroup
	exportErr         error
}

// NewArc returns a new Arc. If the export configuration is not useless, the samples are streamed to a CSV file.
func NewArc(acc *electromagnetism.RadiationPressureAcceleration, position electromagnetism.PositionFunc, start, stop, step float64, conf ExportConfig) (*Arc, error) {
	if acc == nil || position == nil {
		return nil, errors.New("arc requires an acceleration and a position")
	}
	if !(step > 0) {
		return nil, fmt.Errorf("arc step must be strictly positive (got %f s)", step)
	}
	if stop < start {
		return nil, fmt.Errorf("arc stops (%f) before it starts (%f)", stop, start)
	}
	if stop-start > maxArcDuration {
		return nil, fmt.Errorf("arc of %.1f days is too long", (stop-start)/secondsPerDay)
	}
	a := &Arc{Start: start, Stop: stop, Step: step, Acceleration: acc, Position: position, logger: kitlog.NewNopLogger(), stopChan: make(chan (bool), 1)}
	// If no filename is provided, then no output will be written.
	if !conf.IsUseless() {
		f, err := createSampleFile(conf, start)
		if err != nil {
			return nil, err
		}
		histChan := make(chan (Sample), 1000) // a 1k entry buffer
		a.histChan = histChan
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			defer f.Close()
			a.exportErr = StreamSamples(f, conf, histChan)
		}()
	}
	return a, nil
}

// SetLogger sets the logger of this arc, and of its acceleration model.
func (a *Arc) SetLogger(logger kitlog.Logger) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	a.logger = logger
	a.Acceleration.SetLogger(kitlog.With(logger, "caller", "acceleration"))
}

// LogStatus logs the status of the arc.
func (a *Arc) LogStatus() {
	acc := a.Acceleration
	level.Info(a.logger).Log("subsys", "arc", "date", EpochFromJ2000Seconds(acc.CurrentTime()), "samples", a.samples, "distance(AU)", acc.CurrentDistanceToSource()/AU, "|a|(m/s^2)", r3.Norm(acc.Acceleration()))
}

// StopPropagation is used to stop the arc before it is completed.
func (a *Arc) StopPropagation() {
	select {
	case a.stopChan <- true:
	default:
	}
}

// Run evaluates the acceleration at every node of every step until the end of the arc, and returns the samples
// taken at the end of each step. It blocks until all samples are exported.
func (a *Arc) Run() ([]Sample, error) {
	level.Info(a.logger).Log("subsys", "arc", "status", "started", "start", EpochFromJ2000Seconds(a.Start), "stop", EpochFromJ2000Seconds(a.Stop), "step(s)", a.Step)
	lastStatus := time.Now()
	samples := []Sample{a.sample(a.Start)}
	stopped := false
	for t := a.Start; t < a.Stop && !stopped; {
		select {
		case <-a.stopChan:
			level.Warn(a.logger).Log("subsys", "arc", "status", "stopped", "date", EpochFromJ2000Seconds(t))
			stopped = true
			continue
		default:
		}
		h := a.Step
		if t+h > a.Stop {
			h = a.Stop - t
		}
		if time.Since(lastStatus) > 10*time.Second {
			a.LogStatus()
			lastStatus = time.Now()
		}
		for _, node := range rk4Nodes {
			a.Acceleration.UpdateMembers(t + node*h)
		}
		t += h
		samples = append(samples, a.sample(t))
	}
	if a.histChan != nil {
		close(a.histChan)
	}
	a.wg.Wait() // Don't return until we're done writing the file.
	level.Info(a.logger).Log("subsys", "arc", "status", "finished", "samples", a.samples, "duration", time.Duration((samples[len(samples)-1].T-a.Start)*float64(time.Second)))
	return samples, a.exportErr
}

// sample returns the sample at time t and streams it to the exporter if needed.
func (a *Arc) sample(t float64) Sample {
	acc := a.Acceleration
	acc.UpdateMembers(t)
	s := Sample{T: t, Position: a.Position(t), Distance: acc.CurrentDistanceToSource(), Irradiance: acc.CurrentIrradiance(), Force: acc.CurrentForce(), Acceleration: acc.Acceleration()}
	a.samples++
	if a.histChan != nil {
		a.histChan <- s
	}
	return s
}

// createSampleFile returns a file which requires a defer close statement!
func createSampleFile(conf ExportConfig, start float64) (*os.File, error) {
	filename := fmt.Sprintf("%s/srp-%s.csv", tudatConfig().outputDir, conf.Filename)
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/srp-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", tudatConfig().outputDir, conf.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	// Header
	if _, err := f.WriteString(fmt.Sprintf("# Creation date (UTC): %s\n#   Arc start (UTC): %s\n", time.Now().UTC(), EpochFromJ2000Seconds(start))); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
