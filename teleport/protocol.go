package teleport

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alan-christopher/teleport/teleport/circuit"
)

// A step is a point in the assembly sequence. Steps only move forward.
type step int

const (
	stepNew step = iota
	stepPrepared
	stepEntangled
	stepInteracted
	stepMeasured
	stepCorrected
	stepVerified
)

func (s step) String() string {
	switch s {
	case stepNew:
		return "new"
	case stepPrepared:
		return "prepare"
	case stepEntangled:
		return "entangle"
	case stepInteracted:
		return "sender-interact"
	case stepMeasured:
		return "measure-and-send"
	case stepCorrected:
		return "receiver-correct"
	case stepVerified:
		return "verify"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// A Protocol assembles the teleportation circuit for one input state. Steps
// are methods that must be called in order; Assemble calls all of them.
//
// A Protocol is not safe for concurrent use. Once assembled its circuit is
// only read.
type Protocol struct {
	id     string
	psi    []complex128
	prep   circuit.Gate
	unprep circuit.Gate
	reg    Register
	circ   *circuit.Circuit
	opts   Options
	step   step
	// Index of the first verification op, or -1.
	verifyAt int
	log      zerolog.Logger
}

// NewProtocol validates psi and opts and returns a Protocol with an empty
// circuit.
func NewProtocol(psi []complex128, opts Options) (*Protocol, error) {
	prep, unprep, err := circuit.Initialize(psi)
	if err != nil {
		return nil, err
	}
	switch opts.Barriers {
	case BarriersSteps, BarriersNone, BarriersAll:
	default:
		return nil, fmt.Errorf("unknown barrier placement %v", opts.Barriers)
	}
	reg, err := NewRegister(opts.layout(), opts.RegisterOrder, opts.Verify)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	state := make([]complex128, len(psi))
	copy(state, psi)
	return &Protocol{
		id:       id,
		psi:      state,
		prep:     prep,
		unprep:   unprep,
		reg:      reg,
		circ:     reg.NewCircuit(),
		opts:     opts,
		verifyAt: -1,
		log:      opts.logger().With().Str("component", "protocol").Str("run", id).Logger(),
	}, nil
}

// Assemble builds the complete protocol for psi: Prepare, Entangle,
// SenderInteract, MeasureAndSend, ReceiverCorrect and, if opts.Verify is set,
// Verify.
func Assemble(psi []complex128, opts Options) (*Protocol, error) {
	p, err := NewProtocol(psi, opts)
	if err != nil {
		return nil, err
	}
	steps := []func() error{p.Prepare, p.Entangle, p.SenderInteract, p.MeasureAndSend, p.ReceiverCorrect}
	if opts.Verify {
		steps = append(steps, p.Verify)
	}
	for _, s := range steps {
		if err := s(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Prepare puts the third-party qubit into the input state.
func (p *Protocol) Prepare() error {
	return p.advance(stepPrepared, func() error {
		q, err := p.reg.Qubit(ThirdParty)
		if err != nil {
			return err
		}
		if err := p.circ.Apply(p.prep, q); err != nil {
			return slotErr(err)
		}
		return p.fence(BarriersSteps, BarriersAll)
	})
}

// Entangle turns the sender and receiver qubits into a Bell pair.
func (p *Protocol) Entangle() error {
	return p.advance(stepEntangled, func() error {
		if err := Entangle(p.circ, p.reg, Sender, Receiver); err != nil {
			return err
		}
		return p.fence(BarriersSteps, BarriersAll)
	})
}

// SenderInteract rotates the third-party and sender qubits into the Bell
// basis.
func (p *Protocol) SenderInteract() error {
	return p.advance(stepInteracted, func() error {
		return PrepareForMeasurement(p.circ, p.reg, ThirdParty, Sender)
	})
}

// MeasureAndSend measures the third-party and sender qubits. The two
// resulting bits are the only information the receiver gets.
func (p *Protocol) MeasureAndSend() error {
	return p.advance(stepMeasured, func() error {
		return MeasureAndRecord(p.circ, p.reg, ThirdParty, Sender)
	})
}

// ReceiverCorrect applies the classically-conditioned corrections to the
// receiver, which then holds the input state up to global phase.
func (p *Protocol) ReceiverCorrect() error {
	return p.advance(stepCorrected, func() error {
		if err := p.fence(BarriersAll); err != nil {
			return err
		}
		return ApplyCorrection(p.circ, p.reg, Receiver, ZCondition, XCondition)
	})
}

// Verify undoes the state preparation on the receiver and measures it into
// the verification bit, which reads 0 on every shot of a correct protocol.
// The Protocol must have been created with Options.Verify.
func (p *Protocol) Verify() error {
	return p.advance(stepVerified, func() error {
		q, err := p.reg.Qubit(Receiver)
		if err != nil {
			return err
		}
		v, err := p.reg.Clbit(VerifyBit)
		if err != nil {
			return err
		}
		at := p.circ.Len()
		if err := p.circ.Apply(p.unprep, q); err != nil {
			return slotErr(err)
		}
		if err := p.circ.Measure(q, v); err != nil {
			return slotErr(err)
		}
		p.verifyAt = at
		return nil
	})
}

func (p *Protocol) advance(to step, f func() error) error {
	if p.step >= to {
		return fmt.Errorf("%w: %v", ErrStepRepeated, to)
	}
	if p.step != to-1 {
		return fmt.Errorf("%w: %v requires %v, last step was %v", ErrProtocolIncomplete, to, to-1, p.step)
	}
	if err := f(); err != nil {
		return fmt.Errorf("%v: %w", to, err)
	}
	p.step = to
	p.log.Debug().Stringer("step", to).Int("ops", p.circ.Len()).Msg("step applied")
	return nil
}

func (p *Protocol) fence(when ...BarrierPlacement) error {
	for _, b := range when {
		if p.opts.Barriers == b {
			return slotErr(p.circ.Barrier())
		}
	}
	return nil
}

// ID returns the identifier attached to this protocol's log lines.
func (p *Protocol) ID() string {
	return p.id
}

// State returns a copy of the input state.
func (p *Protocol) State() []complex128 {
	r := make([]complex128, len(p.psi))
	copy(r, p.psi)
	return r
}

// Gates returns the state-preparation gate and its inverse.
func (p *Protocol) Gates() (prep, unprep circuit.Gate) {
	return p.prep, p.unprep
}

// Register returns the slot assignment used by p.
func (p *Protocol) Register() Register {
	return p.reg
}

// Circuit returns the circuit assembled so far. Callers must not append to
// it.
func (p *Protocol) Circuit() *circuit.Circuit {
	return p.circ
}

// Corrected reports whether every step up to ReceiverCorrect has run.
func (p *Protocol) Corrected() bool {
	return p.step >= stepCorrected
}

// Verified reports whether Verify has run.
func (p *Protocol) Verified() bool {
	return p.step >= stepVerified
}

// Step returns the name of the last step applied.
func (p *Protocol) Step() string {
	return p.step.String()
}
