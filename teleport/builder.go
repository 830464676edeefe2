package teleport

import (
	"fmt"

	"github.com/alan-christopher/teleport/teleport/circuit"
)

// Entangle turns qubits a and b, both in |0>, into the Bell pair
// (|00> + |11>)/√2: Hadamard on a, then CNOT from a to b.
func Entangle(c *circuit.Circuit, reg Register, a, b Role) error {
	qa, qb, err := distinct(reg, a, b)
	if err != nil {
		return err
	}
	if err := c.H(qa); err != nil {
		return slotErr(err)
	}
	return slotErr(c.CX(qa, qb))
}

// PrepareForMeasurement rotates the state and sender qubits into the Bell
// basis: CNOT from state to sender, then Hadamard on state.
func PrepareForMeasurement(c *circuit.Circuit, reg Register, state, sender Role) error {
	qs, qn, err := distinct(reg, state, sender)
	if err != nil {
		return err
	}
	if err := c.CX(qs, qn); err != nil {
		return slotErr(err)
	}
	return slotErr(c.H(qs))
}

// MeasureAndRecord fences all qubits, then measures state into the
// z-condition bit and sender into the x-condition bit.
func MeasureAndRecord(c *circuit.Circuit, reg Register, state, sender Role) error {
	qs, qn, err := distinct(reg, state, sender)
	if err != nil {
		return err
	}
	z, err := reg.Clbit(ZCondition)
	if err != nil {
		return err
	}
	x, err := reg.Clbit(XCondition)
	if err != nil {
		return err
	}
	if err := slotErr(c.Barrier()); err != nil {
		return err
	}
	if err := c.Measure(qs, z); err != nil {
		return slotErr(err)
	}
	return slotErr(c.Measure(qn, x))
}

// ApplyCorrection applies X to receiver if the x bit is 1, then Z if the z
// bit is 1. X and Z anticommute, so the order is part of the protocol.
func ApplyCorrection(c *circuit.Circuit, reg Register, receiver Role, z, x Cond) error {
	if receiver != Receiver {
		return fmt.Errorf("%w: correction applied to %v, want %v", ErrRoleViolation, receiver, Receiver)
	}
	if z != ZCondition || x != XCondition {
		return fmt.Errorf("%w: corrections conditioned on (%v, %v), want (%v, %v)", ErrRoleViolation, z, x, ZCondition, XCondition)
	}
	q, err := reg.Qubit(receiver)
	if err != nil {
		return err
	}
	zb, err := reg.Clbit(z)
	if err != nil {
		return err
	}
	xb, err := reg.Clbit(x)
	if err != nil {
		return err
	}
	if err := slotErr(c.ApplyIf(circuit.PauliX(), q, xb, 1)); err != nil {
		return err
	}
	return slotErr(c.ApplyIf(circuit.PauliZ(), q, zb, 1))
}

func distinct(reg Register, a, b Role) (qa, qb int, err error) {
	if a == b {
		return 0, 0, fmt.Errorf("%w: %v used as both operands", ErrRoleViolation, a)
	}
	if qa, err = reg.Qubit(a); err != nil {
		return 0, 0, err
	}
	if qb, err = reg.Qubit(b); err != nil {
		return 0, 0, err
	}
	return qa, qb, nil
}

// slotErr marks a circuit error as a role violation: a register-resolved slot
// that the circuit rejects means the register and circuit disagree.
func slotErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRoleViolation, err)
}
