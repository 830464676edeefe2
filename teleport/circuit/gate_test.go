package circuit

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardGatesAreUnitary(t *testing.T) {
	for _, g := range []Gate{Hadamard(), PauliX(), PauliZ()} {
		assert.True(t, g.IsUnitary(1e-12), "%s", g.Label)
		assert.True(t, g.Then(g).IsIdentity(1e-12), "%s is self-inverse", g.Label)
	}
}

func TestXZAnticommute(t *testing.T) {
	xz := PauliX().Then(PauliZ())
	zx := PauliZ().Then(PauliX())
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, 0, cmplx.Abs(xz.At(i, j)+zx.At(i, j)), 1e-12)
		}
	}
	// Equal up to the global phase -1.
	assert.True(t, xz.Then(zx.Inverse()).IsIdentity(1e-12))
}

func TestInverse(t *testing.T) {
	g := NewGate("g", 0.6, -0.8i, -0.8i, 0.6)
	require.True(t, g.IsUnitary(1e-12))
	inv := g.Inverse()
	assert.Equal(t, "g_dg", inv.Label)
	assert.True(t, g.Then(inv).IsIdentity(1e-12))
	assert.True(t, inv.Then(g).IsIdentity(1e-12))
}

func TestIsIdentityIgnoresGlobalPhase(t *testing.T) {
	p := cmplx.Exp(complex(0, 0.7))
	assert.True(t, NewGate("phase", p, 0, 0, p).IsIdentity(1e-12))
	assert.False(t, PauliZ().IsIdentity(1e-12))
	assert.False(t, PauliX().IsIdentity(1e-12))
}

func TestU3Reconstructs(t *testing.T) {
	prep, _, err := Initialize([]complex128{0.45936609 + 0.56725257i, 0.40025413 + 0.55407937i})
	require.NoError(t, err)
	for _, g := range []Gate{Hadamard(), PauliX(), PauliZ(), prep, prep.Inverse()} {
		theta, phi, lambda, gamma := g.U3()
		u := u3(theta, phi, lambda, gamma)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				assert.InDelta(t, 0, cmplx.Abs(u.At(i, j)-g.At(i, j)), 1e-9, "%s[%d][%d]", g.Label, i, j)
			}
		}
	}
}

func u3(theta, phi, lambda, gamma float64) Gate {
	g := cmplx.Exp(complex(0, gamma))
	c, s := complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
	return NewGate("u3",
		g*c, -g*cmplx.Exp(complex(0, lambda))*s,
		g*cmplx.Exp(complex(0, phi))*s, g*cmplx.Exp(complex(0, phi+lambda))*c)
}
