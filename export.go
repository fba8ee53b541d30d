package tudat

import (
	"encoding/csv"
	"io"
	"strconv"
)

// sampleHeader is the CSV header of exported samples; positions, distances and forces are in SI units.
var sampleHeader = []string{"time", "t", "x", "y", "z", "distance", "irradiance", "Fx", "Fy", "Fz", "ax", "ay", "az"}

// ExportConfig configures the exporting of an arc.
type ExportConfig struct {
	Filename     string
	AsCSV        bool
	Timestamp    bool
	CSVAppend    func(s Sample) []string // Custom export columns
	CSVAppendHdr func() []string         // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV || c.Filename == ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'e', 9, 64)
}

// StreamSamples streams the samples of the channel to the provided writer as CSV until the channel is closed. It
// keeps draining the channel after a write error, and returns the first error.
func StreamSamples(w io.Writer, conf ExportConfig, sampleChan <-chan (Sample)) error {
	cw := csv.NewWriter(w)
	hdr := sampleHeader
	if conf.CSVAppendHdr != nil {
		hdr = append(append([]string{}, sampleHeader...), conf.CSVAppendHdr()...)
	}
	err := cw.Write(hdr)
	for s := range sampleChan {
		if err != nil {
			continue
		}
		record := []string{
			s.Epoch().Format("2006-01-02 15:04:05.000"),
			formatFloat(s.T),
			formatFloat(s.Position.X), formatFloat(s.Position.Y), formatFloat(s.Position.Z),
			formatFloat(s.Distance),
			formatFloat(s.Irradiance),
			formatFloat(s.Force.X), formatFloat(s.Force.Y), formatFloat(s.Force.Z),
			formatFloat(s.Acceleration.X), formatFloat(s.Acceleration.Y), formatFloat(s.Acceleration.Z),
		}
		if conf.CSVAppend != nil {
			record = append(record, conf.CSVAppend(s)...)
		}
		err = cw.Write(record)
	}
	cw.Flush()
	if err != nil {
		return err
	}
	return cw.Error()
}
