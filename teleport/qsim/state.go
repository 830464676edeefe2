package qsim

import (
	"math"
	"math/cmplx"

	"github.com/alan-christopher/teleport/teleport/circuit"
)

// snap is the distance from 0 or 1 within which a measurement probability is
// treated as exact. Round-off in a noiseless circuit should never produce a
// spurious outcome.
const snap = 1e-12

// A state is a dense state vector over n qubits. Qubit q is bit q of the
// basis index, so qubit 0 is the least significant.
type state struct {
	amps []complex128
	n    int
}

func newState(n int) *state {
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &state{amps: amps, n: n}
}

// apply applies the 2x2 matrix of g to qubit q.
func (s *state) apply(g circuit.Gate, q int) {
	s.applyControlled(g, q, -1, false)
}

// applyControlled applies g to qubit q on the basis states where qubit
// control equals want. A negative control applies g unconditionally.
func (s *state) applyControlled(g circuit.Gate, q, control int, want bool) {
	m00, m01, m10, m11 := g.At(0, 0), g.At(0, 1), g.At(1, 0), g.At(1, 1)
	bit := 1 << q
	cBit := 0
	if control >= 0 {
		cBit = 1 << control
	}
	for i := range s.amps {
		if i&bit != 0 {
			continue
		}
		if cBit != 0 && (i&cBit != 0) != want {
			continue
		}
		j := i | bit
		a0, a1 := s.amps[i], s.amps[j]
		s.amps[i] = m00*a0 + m01*a1
		s.amps[j] = m10*a0 + m11*a1
	}
}

// prob1 returns the probability of observing qubit q as 1.
func (s *state) prob1(q int) float64 {
	bit := 1 << q
	var p0, p1 float64
	for i, a := range s.amps {
		w := real(a * cmplx.Conj(a))
		if i&bit != 0 {
			p1 += w
		} else {
			p0 += w
		}
	}
	p := p1 / (p0 + p1)
	switch {
	case p < snap:
		return 0
	case p > 1-snap:
		return 1
	}
	return p
}

// collapse projects qubit q onto outcome and renormalizes.
func (s *state) collapse(q int, outcome bool) {
	bit := 1 << q
	var norm float64
	for i, a := range s.amps {
		if (i&bit != 0) != outcome {
			s.amps[i] = 0
			continue
		}
		norm += real(a * cmplx.Conj(a))
	}
	if norm == 0 {
		return
	}
	scale := complex(1/math.Sqrt(norm), 0)
	for i := range s.amps {
		s.amps[i] *= scale
	}
}
