package circuit

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
)

// NormTolerance bounds how far |α|²+|β|² may stray from 1 for Initialize to
// accept a state. Amplitudes copied from printed output are often only good
// to eight or nine digits.
var NormTolerance = 1e-8

// Initialize returns a gate that prepares the single-qubit state psi from
// |0>, along with its exact inverse. psi must hold exactly two amplitudes
// whose squared magnitudes sum to 1.
//
// The preparation gate is [[α, -β*], [β, α*]], which is unitary exactly when
// psi is normalized. Accepted amplitudes are rescaled to unit norm before the
// gate is built, so prep is unitary to floating-point precision.
func Initialize(psi []complex128) (prep, unprep Gate, err error) {
	if len(psi) != 2 {
		return Gate{}, Gate{}, fmt.Errorf("%w: want 2 amplitudes, got %d", ErrInvalidState, len(psi))
	}
	for _, a := range psi {
		if cmplx.IsNaN(a) || cmplx.IsInf(a) {
			return Gate{}, Gate{}, fmt.Errorf("%w: non-finite amplitude %v", ErrInvalidState, a)
		}
	}
	n := cmplxs.Norm(psi, 2)
	if d := n*n - 1; d > NormTolerance || d < -NormTolerance {
		return Gate{}, Gate{}, fmt.Errorf("%w: sum of squared amplitudes is %v, want 1", ErrInvalidState, n*n)
	}
	alpha, beta := psi[0]/complex(n, 0), psi[1]/complex(n, 0)
	prep = NewGate("init", alpha, -cmplx.Conj(beta), beta, cmplx.Conj(alpha))
	unprep = prep.Inverse()
	unprep.Label = "disentangler"
	return prep, unprep, nil
}
