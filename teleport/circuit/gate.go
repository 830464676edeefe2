package circuit

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// A Gate is a labelled single-qubit unitary, stored as a 2x2 matrix acting on
// the (|0>, |1>) amplitude pair.
type Gate struct {
	Label  string
	Matrix *mat.CDense
}

// NewGate returns a gate with the given label and row-major matrix entries.
func NewGate(label string, m00, m01, m10, m11 complex128) Gate {
	return Gate{
		Label:  label,
		Matrix: mat.NewCDense(2, 2, []complex128{m00, m01, m10, m11}),
	}
}

// Hadamard returns H = 1/√2 [[1, 1], [1, -1]].
func Hadamard() Gate {
	s := complex(1/math.Sqrt2, 0)
	return NewGate("h", s, s, s, -s)
}

// PauliX returns the bit flip X = [[0, 1], [1, 0]].
func PauliX() Gate {
	return NewGate("x", 0, 1, 1, 0)
}

// PauliZ returns the phase flip Z = [[1, 0], [0, -1]].
func PauliZ() Gate {
	return NewGate("z", 1, 0, 0, -1)
}

// At returns the (i, j) matrix entry of g.
func (g Gate) At(i, j int) complex128 {
	return g.Matrix.At(i, j)
}

// Inverse returns the conjugate transpose of g, which is its inverse for any
// unitary g. The label gains a "_dg" suffix.
func (g Gate) Inverse() Gate {
	h := g.Matrix.H()
	return NewGate(g.Label+"_dg", h.At(0, 0), h.At(0, 1), h.At(1, 0), h.At(1, 1))
}

// Then returns the gate equivalent to applying g and then next.
func (g Gate) Then(next Gate) Gate {
	var e [4]complex128
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			e[2*i+j] = next.At(i, 0)*g.At(0, j) + next.At(i, 1)*g.At(1, j)
		}
	}
	return NewGate(g.Label+"."+next.Label, e[0], e[1], e[2], e[3])
}

// IsUnitary reports whether g†g equals the identity within tol.
func (g Gate) IsUnitary(tol float64) bool {
	p := g.Then(g.Inverse())
	return isIdentity(p, tol)
}

func isIdentity(g Gate, tol float64) bool {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			v := g.At(i, j)
			if !scalar.EqualWithinAbs(real(v), want, tol) || !scalar.EqualWithinAbs(imag(v), 0, tol) {
				return false
			}
		}
	}
	return true
}

// IsIdentity reports whether g is the identity within tol, ignoring global
// phase.
func (g Gate) IsIdentity(tol float64) bool {
	a := g.At(0, 0)
	if cmplx.Abs(a) < tol {
		return false
	}
	phase := cmplx.Conj(a) / complex(cmplx.Abs(a), 0)
	return isIdentity(NewGate(g.Label,
		phase*g.At(0, 0), phase*g.At(0, 1),
		phase*g.At(1, 0), phase*g.At(1, 1)), tol)
}

// U3 returns the angles (theta, phi, lambda) and global phase gamma such that
// g = e^{i*gamma} * U3(theta, phi, lambda), where
//
//	U3 = [[cos(θ/2),        -e^{iλ} sin(θ/2)],
//	      [e^{iφ} sin(θ/2), e^{i(φ+λ)} cos(θ/2)]]
func (g Gate) U3() (theta, phi, lambda, gamma float64) {
	const eps = 1e-12
	a, b, c, d := g.At(0, 0), g.At(0, 1), g.At(1, 0), g.At(1, 1)
	theta = 2 * math.Atan2(cmplx.Abs(c), cmplx.Abs(a))
	switch {
	case cmplx.Abs(c) < eps:
		gamma = cmplx.Phase(a)
		lambda = cmplx.Phase(d) - gamma
	case cmplx.Abs(a) < eps:
		gamma = cmplx.Phase(c)
		lambda = cmplx.Phase(-b) - gamma
	default:
		gamma = cmplx.Phase(a)
		phi = cmplx.Phase(c) - gamma
		lambda = cmplx.Phase(-b) - gamma
	}
	return theta, phi, lambda, gamma
}
