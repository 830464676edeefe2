package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"google.golang.org/protobuf/types/known/structpb"
)

// A Summary accumulates statistics over the runs of one sweep
// configuration. The zero value has no parameters and no runs.
type Summary struct {
	params     map[string]interface{}
	fidelities []float64
	shots      int
	failures   int
	errors     int
}

// NewSummary returns an empty Summary for the configuration described by
// params. params must hold only values structpb.NewValue accepts.
func NewSummary(params map[string]interface{}) *Summary {
	p := make(map[string]interface{}, len(params))
	for k, v := range params {
		p[k] = v
	}
	return &Summary{params: p}
}

// Add records one completed run: its receiver fidelity, the shots sampled
// and how many of them failed verification.
func (s *Summary) Add(fidelity float64, shots, failures int) {
	s.fidelities = append(s.fidelities, fidelity)
	s.shots += shots
	s.failures += failures
}

// AddError records a run that did not complete.
func (s *Summary) AddError() {
	s.errors++
}

// Runs returns the number of completed runs.
func (s *Summary) Runs() int {
	return len(s.fidelities)
}

// Errors returns the number of runs that did not complete.
func (s *Summary) Errors() int {
	return s.errors
}

// MeanFidelity returns the mean receiver fidelity, or 0 without runs.
func (s *Summary) MeanFidelity() float64 {
	if len(s.fidelities) == 0 {
		return 0
	}
	return stat.Mean(s.fidelities, nil)
}

// WorstFidelity returns the lowest receiver fidelity, or 0 without runs.
func (s *Summary) WorstFidelity() float64 {
	if len(s.fidelities) == 0 {
		return 0
	}
	return floats.Min(s.fidelities)
}

// VerifyFailures returns the failed verifications over all runs.
func (s *Summary) VerifyFailures() int {
	return s.failures
}

// Struct encodes s. The configuration parameters are copied in as
// top-level fields. Fidelity statistics are only present once a run has
// completed, and the spread only once two have.
func (s *Summary) Struct() (*structpb.Struct, error) {
	m := make(map[string]interface{}, len(s.params)+8)
	for k, v := range s.params {
		m[k] = v
	}
	m["mode"] = "summary"
	m["runs"] = s.Runs()
	m["errors"] = s.errors
	m["shots"] = s.shots
	m["verify_failures"] = s.failures
	if n := len(s.fidelities); n > 0 {
		m["mean_fidelity"] = s.MeanFidelity()
		m["worst_fidelity"] = s.WorstFidelity()
		if n > 1 {
			_, std := stat.MeanStdDev(s.fidelities, nil)
			m["std_fidelity"] = std
		}
	}
	return structpb.NewStruct(m)
}
