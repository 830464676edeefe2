package teleport

import (
	"fmt"
	"math/cmplx"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"

	"github.com/alan-christopher/teleport/teleport/circuit"
	"github.com/alan-christopher/teleport/teleport/qsim"
)

// An Engine executes circuits. *qsim.Engine is the in-process
// implementation.
type Engine interface {
	// Exact returns the final amplitudes of c started from |0...0>.
	Exact(c *circuit.Circuit) ([]complex128, error)
	// Sample runs c shots times and tallies the classical outcomes.
	Sample(c *circuit.Circuit, shots int) (qsim.Counts, error)
}

// A Mode selects how a Simulator executes a protocol.
type Mode int

const (
	// ModeExact returns the full state vector after the receiver's
	// corrections.
	ModeExact Mode = iota
	// ModeSampled runs the verified protocol many times and returns outcome
	// counts.
	ModeSampled
)

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeSampled:
		return "sampled"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "exact":
		return ModeExact, nil
	case "sampled":
		return ModeSampled, nil
	}
	return 0, fmt.Errorf("unknown mode %q, want exact or sampled", s)
}

// SimulatorOpts configures a Simulator. The zero value is usable.
type SimulatorOpts struct {
	// Engine executes circuits. Defaults to a qsim.Engine with seed 0.
	Engine Engine

	// Shots is the number of sampled runs. Defaults to DefaultShots.
	Shots int

	// Logger receives one info line per simulation. Defaults to a disabled
	// logger.
	Logger *zerolog.Logger
}

// A Simulator runs assembled protocols on an Engine.
type Simulator struct {
	engine Engine
	shots  int
	log    zerolog.Logger
}

// NewSimulator returns a Simulator configured by opts.
func NewSimulator(opts SimulatorOpts) *Simulator {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	engine := opts.Engine
	if engine == nil {
		engine = qsim.New(qsim.Options{Logger: opts.Logger})
	}
	shots := opts.Shots
	if shots == 0 {
		shots = DefaultShots
	}
	return &Simulator{
		engine: engine,
		shots:  shots,
		log:    log.With().Str("component", "simulator").Logger(),
	}
}

// ExactResult is the outcome of an exact simulation.
type ExactResult struct {
	RunID string
	// Amplitudes of the 3-qubit state; qubit q is bit q of the index.
	Amplitudes []complex128

	reg Register
}

// SampleResult is the outcome of a sampled simulation.
type SampleResult struct {
	RunID  string
	Shots  int
	Counts qsim.Counts

	reg Register
}

// Exact simulates p up to and including the receiver's corrections. Any
// verification step is left out. p must have run every step through
// ReceiverCorrect.
func (s *Simulator) Exact(p *Protocol) (ExactResult, error) {
	if !p.Corrected() {
		return ExactResult{}, fmt.Errorf("%w: exact simulation needs every step through %v, last step was %v", ErrProtocolIncomplete, stepCorrected, p.step)
	}
	c := p.Circuit()
	if p.verifyAt >= 0 {
		var err error
		if c, err = c.Prefix(p.verifyAt); err != nil {
			return ExactResult{}, fmt.Errorf("%w: %w", ErrExecutionFailure, err)
		}
	}
	amps, err := s.engine.Exact(c)
	if err != nil {
		return ExactResult{}, fmt.Errorf("%w: %w", ErrExecutionFailure, err)
	}
	s.log.Info().Str("run", p.ID()).Stringer("mode", ModeExact).Int("ops", c.Len()).Msg("simulation complete")
	return ExactResult{RunID: p.ID(), Amplitudes: amps, reg: p.Register()}, nil
}

// Sample runs the fully verified protocol p for the configured number of
// shots.
func (s *Simulator) Sample(p *Protocol) (SampleResult, error) {
	if !p.Verified() {
		return SampleResult{}, fmt.Errorf("%w: sampled simulation needs every step through %v, last step was %v", ErrProtocolIncomplete, stepVerified, p.step)
	}
	counts, err := s.engine.Sample(p.Circuit(), s.shots)
	if err != nil {
		return SampleResult{}, fmt.Errorf("%w: %w", ErrExecutionFailure, err)
	}
	s.log.Info().Str("run", p.ID()).Stringer("mode", ModeSampled).Int("shots", s.shots).Int("outcomes", len(counts)).Msg("simulation complete")
	return SampleResult{RunID: p.ID(), Shots: s.shots, Counts: counts, reg: p.Register()}, nil
}

// Probabilities returns the probability of each basis state.
func (r ExactResult) Probabilities() []float64 {
	p := make([]float64, len(r.Amplitudes))
	for i, a := range r.Amplitudes {
		p[i] = real(a * cmplx.Conj(a))
	}
	return p
}

// ReducedDensity returns the 2x2 density matrix of the qubit playing role,
// with the other qubits traced out.
func (r ExactResult) ReducedDensity(role Role) (*mat.CDense, error) {
	q, err := r.reg.Qubit(role)
	if err != nil {
		return nil, err
	}
	bit := 1 << q
	rho := mat.NewCDense(2, 2, nil)
	for i, a := range r.Amplitudes {
		if i&bit != 0 {
			continue
		}
		a0, a1 := a, r.Amplitudes[i|bit]
		rho.Set(0, 0, rho.At(0, 0)+a0*cmplx.Conj(a0))
		rho.Set(0, 1, rho.At(0, 1)+a0*cmplx.Conj(a1))
		rho.Set(1, 0, rho.At(1, 0)+a1*cmplx.Conj(a0))
		rho.Set(1, 1, rho.At(1, 1)+a1*cmplx.Conj(a1))
	}
	return rho, nil
}

// Fidelity returns <psi|rho|psi>, where rho is the reduced state of the
// qubit playing role. It is 1 exactly when that qubit is in state psi up to
// global phase.
func (r ExactResult) Fidelity(role Role, psi []complex128) (float64, error) {
	if len(psi) != 2 {
		return 0, fmt.Errorf("%w: want 2 amplitudes, got %d", ErrInvalidState, len(psi))
	}
	n := cmplxs.Norm(psi, 2)
	if n == 0 {
		return 0, fmt.Errorf("%w: zero vector", ErrInvalidState)
	}
	rho, err := r.ReducedDensity(role)
	if err != nil {
		return 0, err
	}
	var f complex128
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			f += cmplx.Conj(psi[i]) * rho.At(i, j) * psi[j]
		}
	}
	return real(f) / (n * n), nil
}

// ReceiverFidelity is Fidelity(Receiver, psi).
func (r ExactResult) ReceiverFidelity(psi []complex128) (float64, error) {
	return r.Fidelity(Receiver, psi)
}

// Teleported reports whether the receiver holds psi up to global phase,
// within FidelityTolerance.
func (r ExactResult) Teleported(psi []complex128) (bool, error) {
	f, err := r.ReceiverFidelity(psi)
	if err != nil {
		return false, err
	}
	return f > 1-FidelityTolerance, nil
}

// Marginal returns how many shots left the classical bit c at 0 and at 1.
func (r SampleResult) Marginal(c Cond) (zeros, ones int, err error) {
	b, err := r.reg.Clbit(c)
	if err != nil {
		return 0, 0, err
	}
	return qsim.Marginal(r.Counts, r.reg.ClassicalRegisters(), b)
}

// VerifyFailures returns the number of shots whose verification bit read 1.
// It is 0 for a correct protocol on a noiseless engine.
func (r SampleResult) VerifyFailures() (int, error) {
	_, ones, err := r.Marginal(VerifyBit)
	return ones, err
}
