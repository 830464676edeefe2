package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alan-christopher/teleport/teleport"
	"github.com/alan-christopher/teleport/teleport/qsim"
)

var psi = []complex128{0.6, 0.8i}

func TestExactReport(t *testing.T) {
	p, err := teleport.Assemble(psi, teleport.Options{})
	require.NoError(t, err)
	res, err := teleport.NewSimulator(teleport.SimulatorOpts{}).Exact(p)
	require.NoError(t, err)

	s, err := Exact(res, psi)
	require.NoError(t, err)
	f := s.GetFields()
	assert.Equal(t, p.ID(), f["run"].GetStringValue())
	assert.Equal(t, "exact", f["mode"].GetStringValue())
	assert.InDelta(t, 1, f["fidelity"].GetNumberValue(), 1e-9)
	assert.True(t, f["teleported"].GetBoolValue())
	assert.Len(t, f["amplitudes"].GetListValue().GetValues(), 8)

	var total float64
	for _, v := range f["probabilities"].GetListValue().GetValues() {
		total += v.GetNumberValue()
	}
	assert.InDelta(t, 1, total, 1e-12)

	in := f["input"].GetListValue().GetValues()
	require.Len(t, in, 2)
	assert.InDelta(t, 0.8, in[1].GetListValue().GetValues()[1].GetNumberValue(), 1e-12)
}

func TestSampledReportJSON(t *testing.T) {
	p, err := teleport.Assemble(psi, teleport.Options{Verify: true})
	require.NoError(t, err)
	sim := teleport.NewSimulator(teleport.SimulatorOpts{Shots: 256, Engine: qsim.New(qsim.Options{Seed: 7})})
	res, err := sim.Sample(p)
	require.NoError(t, err)

	s, err := Sampled(res)
	require.NoError(t, err)
	b, err := JSON(s)
	require.NoError(t, err)

	back := new(structpb.Struct)
	require.NoError(t, protojson.Unmarshal(b, back))
	f := back.GetFields()
	assert.Equal(t, "sampled", f["mode"].GetStringValue())
	assert.Equal(t, float64(256), f["shots"].GetNumberValue())
	assert.Zero(t, f["verify_failures"].GetNumberValue())

	counts := f["counts"].GetStructValue().GetFields()
	require.Len(t, counts, len(res.Counts))
	var total float64
	for k, v := range counts {
		assert.Equal(t, float64(res.Counts[k]), v.GetNumberValue(), "outcome %q", k)
		total += v.GetNumberValue()
	}
	assert.Equal(t, float64(256), total)

	crz := f["marginals"].GetStructValue().GetFields()["crz"].GetListValue().GetValues()
	require.Len(t, crz, 2)
	assert.Equal(t, float64(256), crz[0].GetNumberValue()+crz[1].GetNumberValue())
}

func TestText(t *testing.T) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"mode":   "sampled",
		"shots":  3,
		"ok":     true,
		"pair":   []interface{}{0.5, -1},
		"counts": map[string]interface{}{"1 0": 1, "0 0": 2},
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, s))
	want := strings.Join([]string{
		"counts:",
		"  0 0: 2",
		"  1 0: 1",
		"mode: sampled",
		"ok: true",
		"pair: [0.5 -1]",
		"shots: 3",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestSummary(t *testing.T) {
	type run struct {
		fidelity        float64
		shots, failures int
	}
	tcs := []struct {
		name      string
		runs      []run
		errors    int
		wantMean  float64
		wantWorst float64
		wantStd   bool
		wantFails int
		wantShots int
	}{
		{name: "empty"},
		{name: "errors only", errors: 2},
		{
			name:      "single run",
			runs:      []run{{fidelity: 1, shots: 100}},
			wantMean:  1,
			wantWorst: 1,
			wantShots: 100,
		},
		{
			name: "several runs",
			runs: []run{
				{fidelity: 1, shots: 100},
				{fidelity: 0.5, shots: 100, failures: 30},
				{fidelity: 0.75, shots: 50, failures: 2},
			},
			errors:    1,
			wantMean:  0.75,
			wantWorst: 0.5,
			wantStd:   true,
			wantFails: 32,
			wantShots: 250,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSummary(map[string]interface{}{"barriers": "all", "shots_per_run": 100})
			for _, r := range tc.runs {
				s.Add(r.fidelity, r.shots, r.failures)
			}
			for i := 0; i < tc.errors; i++ {
				s.AddError()
			}
			assert.Equal(t, len(tc.runs), s.Runs())
			assert.Equal(t, tc.errors, s.Errors())
			assert.InDelta(t, tc.wantMean, s.MeanFidelity(), 1e-12)
			assert.InDelta(t, tc.wantWorst, s.WorstFidelity(), 1e-12)
			assert.Equal(t, tc.wantFails, s.VerifyFailures())

			st, err := s.Struct()
			require.NoError(t, err)
			f := st.GetFields()
			assert.Equal(t, "summary", f["mode"].GetStringValue())
			assert.Equal(t, "all", f["barriers"].GetStringValue())
			assert.Equal(t, float64(len(tc.runs)), f["runs"].GetNumberValue())
			assert.Equal(t, float64(tc.errors), f["errors"].GetNumberValue())
			assert.Equal(t, float64(tc.wantShots), f["shots"].GetNumberValue())
			assert.Equal(t, float64(tc.wantFails), f["verify_failures"].GetNumberValue())
			_, hasMean := f["mean_fidelity"]
			assert.Equal(t, len(tc.runs) > 0, hasMean)
			_, hasStd := f["std_fidelity"]
			assert.Equal(t, tc.wantStd, hasStd)
			if len(tc.runs) > 0 {
				assert.InDelta(t, tc.wantWorst, f["worst_fidelity"].GetNumberValue(), 1e-12)
			}
		})
	}
}

func TestSummaryCopiesParams(t *testing.T) {
	params := map[string]interface{}{"barriers": "none"}
	s := NewSummary(params)
	params["barriers"] = "all"
	st, err := s.Struct()
	require.NoError(t, err)
	assert.Equal(t, "none", st.GetFields()["barriers"].GetStringValue())
}
