package teleport

import (
	"fmt"

	"github.com/alan-christopher/teleport/teleport/circuit"
)

// A Role names one of the three qubits taking part in teleportation.
type Role int

const (
	// ThirdParty holds the state to be teleported.
	ThirdParty Role = iota
	// Sender holds the sender's half of the shared Bell pair.
	Sender
	// Receiver holds the receiver's half of the Bell pair, and the
	// teleported state once corrections are applied.
	Receiver

	numRoles = 3
)

func (r Role) String() string {
	switch r {
	case ThirdParty:
		return "third-party"
	case Sender:
		return "sender"
	case Receiver:
		return "receiver"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// A Cond names one of the classical bits written during the protocol.
type Cond int

const (
	// ZCondition receives the third-party measurement and gates the Z
	// correction.
	ZCondition Cond = iota
	// XCondition receives the sender measurement and gates the X correction.
	XCondition
	// VerifyBit receives the receiver measurement taken after undoing the
	// state preparation.
	VerifyBit

	numConds = 3
)

func (c Cond) String() string {
	switch c {
	case ZCondition:
		return "crz"
	case XCondition:
		return "crx"
	case VerifyBit:
		return "verify"
	}
	return fmt.Sprintf("Cond(%d)", int(c))
}

// A Layout assigns a qubit index to each role. The zero value is not a valid
// layout; DefaultLayout is the conventional one.
type Layout struct {
	ThirdParty, Sender, Receiver int
}

// DefaultLayout places the third-party, sender and receiver qubits at 0, 1
// and 2.
var DefaultLayout = Layout{ThirdParty: 0, Sender: 1, Receiver: 2}

// Layouts returns every valid layout, DefaultLayout first.
func Layouts() []Layout {
	return []Layout{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
}

// A RegisterOrder chooses the order in which the classical registers are
// declared. It decides which classical bit index each register owns and how
// outcome strings are laid out, never which measurement feeds which
// correction.
type RegisterOrder int

const (
	// ZFirst declares crz, then crx.
	ZFirst RegisterOrder = iota
	// XFirst declares crx, then crz.
	XFirst
)

func (o RegisterOrder) String() string {
	switch o {
	case ZFirst:
		return "z-first"
	case XFirst:
		return "x-first"
	}
	return fmt.Sprintf("RegisterOrder(%d)", int(o))
}

// A Register binds roles to qubit indices and conds to classical bit indices
// for the lifetime of one circuit. Protocol steps address slots only through
// a Register.
type Register struct {
	qubits [numRoles]int
	clbits [numConds]int
	regs   []circuit.ClassicalRegister
	verify bool
}

// NewRegister validates layout and allocates the classical bits: crz and crx
// in the given order, followed by verify when verify is set.
func NewRegister(layout Layout, order RegisterOrder, verify bool) (Register, error) {
	r := Register{
		qubits: [numRoles]int{layout.ThirdParty, layout.Sender, layout.Receiver},
		verify: verify,
	}
	var seen [numRoles]bool
	for role, q := range r.qubits {
		if q < 0 || q >= numRoles {
			return Register{}, fmt.Errorf("%w: %v qubit at index %d, want 0..%d", ErrRoleViolation, Role(role), q, numRoles-1)
		}
		if seen[q] {
			return Register{}, fmt.Errorf("%w: qubit %d assigned to more than one role", ErrRoleViolation, q)
		}
		seen[q] = true
	}

	var conds []Cond
	switch order {
	case ZFirst:
		conds = []Cond{ZCondition, XCondition}
	case XFirst:
		conds = []Cond{XCondition, ZCondition}
	default:
		return Register{}, fmt.Errorf("unknown register order %v", order)
	}
	if verify {
		conds = append(conds, VerifyBit)
	}
	for i := range r.clbits {
		r.clbits[i] = -1
	}
	for i, c := range conds {
		r.clbits[c] = i
		r.regs = append(r.regs, circuit.ClassicalRegister{Name: c.String(), Size: 1, Offset: i})
	}
	return r, nil
}

// Qubit returns the qubit index assigned to role.
func (r Register) Qubit(role Role) (int, error) {
	if role < 0 || role >= numRoles {
		return 0, fmt.Errorf("%w: unknown role %v", ErrRoleViolation, role)
	}
	return r.qubits[role], nil
}

// Clbit returns the classical bit index assigned to c.
func (r Register) Clbit(c Cond) (int, error) {
	if c < 0 || c >= numConds {
		return 0, fmt.Errorf("%w: unknown condition bit %v", ErrRoleViolation, c)
	}
	if r.clbits[c] < 0 {
		return 0, fmt.Errorf("%w: %v is not allocated", ErrRoleViolation, c)
	}
	return r.clbits[c], nil
}

// Layout returns the role assignment of r.
func (r Register) Layout() Layout {
	return Layout{ThirdParty: r.qubits[ThirdParty], Sender: r.qubits[Sender], Receiver: r.qubits[Receiver]}
}

// HasVerify reports whether r allocates the verification bit.
func (r Register) HasVerify() bool {
	return r.verify
}

// NewCircuit returns an empty circuit with the slots r describes.
func (r Register) NewCircuit() *circuit.Circuit {
	return circuit.New(numRoles, r.regs...)
}

// ClassicalRegisters returns the classical registers of r in declaration
// order.
func (r Register) ClassicalRegisters() []circuit.ClassicalRegister {
	regs := make([]circuit.ClassicalRegister, len(r.regs))
	copy(regs, r.regs)
	return regs
}
