package circuit

import (
	"fmt"
	"strconv"
	"strings"
)

// QASM renders c as OpenQASM 2.0. Named gates (h, x, z) are emitted as
// themselves; any other gate is emitted as a u3 with its global phase
// dropped. Conditions are written against the one-bit register that owns
// the condition bit, so every conditioned bit must live in a register of
// size one.
func (c *Circuit) QASM() (string, error) {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n")
	fmt.Fprintf(&b, "qreg q[%d];\n", c.qubits)
	for _, r := range c.regs {
		fmt.Fprintf(&b, "creg %s[%d];\n", r.Name, r.Size)
	}
	for _, op := range c.ops {
		switch op.Kind {
		case KindGate:
			fmt.Fprintf(&b, "%s q[%d];\n", gateQASM(op.Gate), op.Target)
		case KindControlled:
			fmt.Fprintf(&b, "c%s q[%d],q[%d];\n", gateQASM(op.Gate), op.Control, op.Target)
		case KindMeasure:
			reg, bit := c.locate(op.Clbit)
			fmt.Fprintf(&b, "measure q[%d] -> %s[%d];\n", op.Target, reg.Name, bit)
		case KindConditional:
			reg, _ := c.locate(op.Clbit)
			if reg.Size != 1 {
				return "", fmt.Errorf("condition on bit %d of %d-bit register %s cannot be expressed in OpenQASM 2.0", op.Clbit, reg.Size, reg.Name)
			}
			fmt.Fprintf(&b, "if(%s==%d) %s q[%d];\n", reg.Name, op.Value, gateQASM(op.Gate), op.Target)
		case KindBarrier:
			qs := make([]string, 0, len(op.Qubits))
			for _, q := range op.Qubits {
				qs = append(qs, "q["+strconv.Itoa(q)+"]")
			}
			fmt.Fprintf(&b, "barrier %s;\n", strings.Join(qs, ","))
		default:
			return "", fmt.Errorf("unknown op kind %v", op.Kind)
		}
	}
	return b.String(), nil
}

// locate returns the register holding classical bit clbit and the bit's
// index within it.
func (c *Circuit) locate(clbit int) (ClassicalRegister, int) {
	for _, r := range c.regs {
		if clbit >= r.Offset && clbit < r.Offset+r.Size {
			return r, clbit - r.Offset
		}
	}
	return ClassicalRegister{Name: "c"}, clbit
}

func gateQASM(g Gate) string {
	switch g.Label {
	case "h", "x", "z":
		return g.Label
	}
	theta, phi, lambda, _ := g.U3()
	return fmt.Sprintf("u3(%s,%s,%s)", ftoa(theta), ftoa(phi), ftoa(lambda))
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', 17, 64)
}
