// Package teleport builds and simulates the three-qubit quantum teleportation
// protocol: a state held by a third party is moved onto the receiver's qubit
// using a Bell pair shared by sender and receiver and two classical bits.
package teleport

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/alan-christopher/teleport/teleport/circuit"
)

var (
	// ErrInvalidState is returned for input amplitudes that are not a
	// normalized single-qubit state.
	ErrInvalidState = circuit.ErrInvalidState

	// ErrRoleViolation is returned when a step addresses a qubit or
	// classical bit outside its assigned role.
	ErrRoleViolation = errors.New("role violation")

	// ErrProtocolIncomplete is returned when a step, or a simulation, is
	// requested before the steps it depends on have run.
	ErrProtocolIncomplete = errors.New("protocol incomplete")

	// ErrStepRepeated is returned when a protocol step that has already run
	// is called again.
	ErrStepRepeated = errors.New("step already applied")

	// ErrExecutionFailure wraps errors reported by an Engine.
	ErrExecutionFailure = errors.New("execution failure")
)

var (
	// DefaultShots is the number of shots a Simulator samples when
	// SimulatorOpts.Shots is zero.
	DefaultShots = 1024
	// FidelityTolerance is how far below 1 a fidelity may fall for two
	// states to be considered equal up to global phase.
	FidelityTolerance = 1e-9
)

// A BarrierPlacement chooses where Assemble fences the protocol steps.
// Barriers never change the simulated result.
type BarrierPlacement int

const (
	// BarriersSteps fences after state preparation and after entanglement,
	// in addition to the fence that precedes measurement.
	BarriersSteps BarrierPlacement = iota
	// BarriersNone keeps only the fence that precedes measurement.
	BarriersNone
	// BarriersAll is BarriersSteps plus a fence before the receiver's
	// corrections.
	BarriersAll
)

func (b BarrierPlacement) String() string {
	switch b {
	case BarriersSteps:
		return "steps"
	case BarriersNone:
		return "none"
	case BarriersAll:
		return "all"
	}
	return fmt.Sprintf("BarrierPlacement(%d)", int(b))
}

// ParseBarrierPlacement is the inverse of BarrierPlacement.String.
func ParseBarrierPlacement(s string) (BarrierPlacement, error) {
	for _, b := range []BarrierPlacement{BarriersSteps, BarriersNone, BarriersAll} {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown barrier placement %q, want one of steps, none, all", s)
}

// ParseRegisterOrder is the inverse of RegisterOrder.String.
func ParseRegisterOrder(s string) (RegisterOrder, error) {
	for _, o := range []RegisterOrder{ZFirst, XFirst} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown register order %q, want z-first or x-first", s)
}

// Options configures a Protocol. The zero value yields the conventional
// protocol without verification.
type Options struct {
	// Layout assigns qubit indices to roles. The zero Layout means
	// DefaultLayout.
	Layout Layout

	// RegisterOrder chooses the declaration order of the crz and crx
	// registers. Defaults to ZFirst.
	RegisterOrder RegisterOrder

	// Verify appends the verification step: undo the state preparation on
	// the receiver and measure it. Sampled simulation requires it.
	Verify bool

	// Barriers chooses where fences are placed. Defaults to BarriersSteps.
	Barriers BarrierPlacement

	// Logger receives one debug line per protocol step. Defaults to a
	// disabled logger.
	Logger *zerolog.Logger
}

func (o Options) layout() Layout {
	if o.Layout == (Layout{}) {
		return DefaultLayout
	}
	return o.Layout
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}
