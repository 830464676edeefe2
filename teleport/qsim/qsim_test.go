package qsim

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alan-christopher/teleport/teleport/circuit"
)

func probs(amps []complex128) []float64 {
	r := make([]float64, len(amps))
	for i, a := range amps {
		r[i] = real(a * cmplx.Conj(a))
	}
	return r
}

func bell(t *testing.T) *circuit.Circuit {
	c := circuit.New(2, circuit.ClassicalRegister{Name: "c", Size: 2})
	require.NoError(t, c.H(0))
	require.NoError(t, c.CX(0, 1))
	return c
}

func TestExactBellPair(t *testing.T) {
	amps, err := New(Options{}).Exact(bell(t))
	require.NoError(t, err)
	p := probs(amps)
	assert.InDelta(t, 0.5, p[0b00], 1e-12)
	assert.InDelta(t, 0, p[0b01], 1e-12)
	assert.InDelta(t, 0, p[0b10], 1e-12)
	assert.InDelta(t, 0.5, p[0b11], 1e-12)
}

func TestExactQubitZeroIsLeastSignificant(t *testing.T) {
	c := circuit.New(3)
	require.NoError(t, c.X(0))
	amps, err := New(Options{}).Exact(c)
	require.NoError(t, err)
	assert.InDelta(t, 1, probs(amps)[1], 1e-12)
}

func TestExactDefersMeasurement(t *testing.T) {
	// Measuring q0 of |+> and flipping q1 on the result must leave the
	// Bell state, with no randomness involved.
	c := circuit.New(2, circuit.ClassicalRegister{Name: "c", Size: 1})
	require.NoError(t, c.H(0))
	require.NoError(t, c.Measure(0, 0))
	require.NoError(t, c.ApplyIf(circuit.PauliX(), 1, 0, 1))

	for i := 0; i < 3; i++ {
		amps, err := New(Options{Seed: uint64(i)}).Exact(c)
		require.NoError(t, err)
		assert.InDelta(t, 1/math.Sqrt2, real(amps[0b00]), 1e-12)
		assert.InDelta(t, 1/math.Sqrt2, real(amps[0b11]), 1e-12)
	}
}

func TestExactConditionOnZero(t *testing.T) {
	c := circuit.New(2, circuit.ClassicalRegister{Name: "c", Size: 1})
	require.NoError(t, c.H(0))
	require.NoError(t, c.Measure(0, 0))
	require.NoError(t, c.ApplyIf(circuit.PauliX(), 1, 0, 0))
	amps, err := New(Options{}).Exact(c)
	require.NoError(t, err)
	p := probs(amps)
	assert.InDelta(t, 0.5, p[0b10], 1e-12)
	assert.InDelta(t, 0.5, p[0b01], 1e-12)
}

func TestExactUnwrittenBitReadsZero(t *testing.T) {
	c := circuit.New(1, circuit.ClassicalRegister{Name: "c", Size: 1})
	require.NoError(t, c.ApplyIf(circuit.PauliX(), 0, 0, 1))
	amps, err := New(Options{}).Exact(c)
	require.NoError(t, err)
	assert.InDelta(t, 1, probs(amps)[0], 1e-12)

	c = circuit.New(1, circuit.ClassicalRegister{Name: "c", Size: 1})
	require.NoError(t, c.ApplyIf(circuit.PauliX(), 0, 0, 0))
	amps, err = New(Options{}).Exact(c)
	require.NoError(t, err)
	assert.InDelta(t, 1, probs(amps)[1], 1e-12)
}

func TestExactRejectsGateAfterMeasurement(t *testing.T) {
	c := circuit.New(1, circuit.ClassicalRegister{Name: "c", Size: 1})
	require.NoError(t, c.Measure(0, 0))
	require.NoError(t, c.H(0))
	_, err := New(Options{}).Exact(c)
	assert.ErrorIs(t, err, ErrNotDeferrable)
}

func TestSampleBellCorrelations(t *testing.T) {
	c := bell(t)
	require.NoError(t, c.Measure(0, 0))
	require.NoError(t, c.Measure(1, 1))
	counts, err := New(Options{Seed: 7}).Sample(c, 2000)
	require.NoError(t, err)
	assert.Equal(t, 2000, counts.Total())
	assert.Equal(t, []string{"00", "11"}, counts.Keys())
	assert.InDelta(t, 1000, counts["00"], 150)
}

func TestSampleIsReproducibleAcrossWorkers(t *testing.T) {
	c := circuit.New(3, circuit.ClassicalRegister{Name: "c", Size: 3})
	for q := 0; q < 3; q++ {
		require.NoError(t, c.H(q))
		require.NoError(t, c.Measure(q, q))
	}
	one, err := New(Options{Seed: 99, Workers: 1}).Sample(c, 500)
	require.NoError(t, err)
	many, err := New(Options{Seed: 99, Workers: 7}).Sample(c, 500)
	require.NoError(t, err)
	assert.Equal(t, one, many)

	other, err := New(Options{Seed: 100, Workers: 1}).Sample(c, 500)
	require.NoError(t, err)
	assert.NotEqual(t, one, other)
}

func TestSampleConditionalUsesMeasuredBit(t *testing.T) {
	c := circuit.New(2, circuit.ClassicalRegister{Name: "c", Size: 2})
	require.NoError(t, c.H(0))
	require.NoError(t, c.Measure(0, 0))
	require.NoError(t, c.ApplyIf(circuit.PauliX(), 1, 0, 1))
	require.NoError(t, c.Measure(1, 1))
	counts, err := New(Options{Seed: 3}).Sample(c, 300)
	require.NoError(t, err)
	for k := range counts {
		assert.Contains(t, []string{"00", "11"}, k)
	}
}

func TestSampleRejectsNonPositiveShots(t *testing.T) {
	_, err := New(Options{}).Sample(bell(t), 0)
	assert.Error(t, err)
}

func TestOutcomeFormatting(t *testing.T) {
	regs := circuit.New(3,
		circuit.ClassicalRegister{Name: "crz", Size: 1},
		circuit.ClassicalRegister{Name: "crx", Size: 1},
		circuit.ClassicalRegister{Name: "verify", Size: 1},
	).Registers()

	bits, err := ParseOutcome("0 1 0", regs)
	require.NoError(t, err)
	assert.False(t, bits.Get(0), "crz")
	assert.True(t, bits.Get(1), "crx")
	assert.False(t, bits.Get(2), "verify")
	assert.Equal(t, "0 1 0", outcome(bits, regs))

	_, err = ParseOutcome("01 0", regs)
	assert.Error(t, err)
	_, err = ParseOutcome("0 0 0 0", regs)
	assert.Error(t, err)
}

func TestMarginal(t *testing.T) {
	regs := circuit.New(2,
		circuit.ClassicalRegister{Name: "a", Size: 1},
		circuit.ClassicalRegister{Name: "b", Size: 1},
	).Registers()
	counts := Counts{"0 0": 3, "0 1": 4, "1 1": 5}
	zeros, ones, err := Marginal(counts, regs, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, zeros)
	assert.Equal(t, 9, ones)
	zeros, ones, err = Marginal(counts, regs, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, zeros)
	assert.Equal(t, 5, ones)

	_, _, err = Marginal(counts, regs, 2)
	assert.Error(t, err, "bit 2 lies outside both registers")
}
