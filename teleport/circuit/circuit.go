// Package circuit models quantum circuits as an append-only list of tagged
// operations over indexed qubit and classical-bit slots.
package circuit

import (
	"errors"
	"fmt"
)

var (
	// ErrIndex is returned when an operation addresses a qubit or classical
	// bit that the circuit does not have.
	ErrIndex = errors.New("slot index out of range")

	// ErrInvalidState is returned by Initialize for amplitude vectors that do
	// not describe a single normalized qubit.
	ErrInvalidState = errors.New("invalid state vector")
)

// A Kind identifies which variant of Op is in use.
type Kind int

const (
	// KindGate applies Op.Gate to Op.Target.
	KindGate Kind = iota
	// KindControlled applies Op.Gate to Op.Target when Op.Control is |1>.
	KindControlled
	// KindMeasure measures Op.Target into classical bit Op.Clbit.
	KindMeasure
	// KindConditional applies Op.Gate to Op.Target when classical bit
	// Op.Clbit holds Op.Value at run time.
	KindConditional
	// KindBarrier fences Op.Qubits. It has no effect on the state.
	KindBarrier
)

func (k Kind) String() string {
	switch k {
	case KindGate:
		return "gate"
	case KindControlled:
		return "controlled"
	case KindMeasure:
		return "measure"
	case KindConditional:
		return "conditional"
	case KindBarrier:
		return "barrier"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// An Op is one circuit operation. Which fields are meaningful depends on
// Kind.
type Op struct {
	Kind    Kind
	Gate    Gate
	Target  int
	Control int
	Clbit   int
	Value   int
	Qubits  []int
}

// A ClassicalRegister names a contiguous run of classical bits. Offset is
// assigned by New in declaration order.
type ClassicalRegister struct {
	Name   string
	Size   int
	Offset int
}

// A Circuit is an ordered sequence of operations on NumQubits qubits and the
// classical bits of its registers. The zero value is not usable; build one
// with New.
type Circuit struct {
	qubits int
	clbits int
	regs   []ClassicalRegister
	ops    []Op
}

// New returns an empty circuit over the given number of qubits and classical
// registers. Registers receive consecutive classical bit indices in the order
// given.
func New(qubits int, regs ...ClassicalRegister) *Circuit {
	c := &Circuit{qubits: qubits}
	for _, r := range regs {
		r.Offset = c.clbits
		c.clbits += r.Size
		c.regs = append(c.regs, r)
	}
	return c
}

// NumQubits returns the number of qubits in c.
func (c *Circuit) NumQubits() int {
	return c.qubits
}

// NumClbits returns the number of classical bits in c.
func (c *Circuit) NumClbits() int {
	return c.clbits
}

// Registers returns the classical registers of c in declaration order.
func (c *Circuit) Registers() []ClassicalRegister {
	r := make([]ClassicalRegister, len(c.regs))
	copy(r, c.regs)
	return r
}

// Register returns the register with the given name.
func (c *Circuit) Register(name string) (ClassicalRegister, bool) {
	for _, r := range c.regs {
		if r.Name == name {
			return r, true
		}
	}
	return ClassicalRegister{}, false
}

// Len returns the number of operations appended so far.
func (c *Circuit) Len() int {
	return len(c.ops)
}

// Ops returns the operations of c in order. The slice is a copy.
func (c *Circuit) Ops() []Op {
	r := make([]Op, len(c.ops))
	copy(r, c.ops)
	return r
}

// Prefix returns a new circuit with the same slots as c and its first n
// operations.
func (c *Circuit) Prefix(n int) (*Circuit, error) {
	if n < 0 || n > len(c.ops) {
		return nil, fmt.Errorf("prefix of %d ops from a circuit of %d: %w", n, len(c.ops), ErrIndex)
	}
	p := &Circuit{qubits: c.qubits, clbits: c.clbits}
	p.regs = c.Registers()
	p.ops = make([]Op, n)
	copy(p.ops, c.ops[:n])
	return p, nil
}

// Apply appends gate g on qubit q.
func (c *Circuit) Apply(g Gate, q int) error {
	if err := c.checkQubits(q); err != nil {
		return err
	}
	c.ops = append(c.ops, Op{Kind: KindGate, Gate: g, Target: q})
	return nil
}

// H appends a Hadamard gate on q.
func (c *Circuit) H(q int) error {
	return c.Apply(Hadamard(), q)
}

// X appends a Pauli-X gate on q.
func (c *Circuit) X(q int) error {
	return c.Apply(PauliX(), q)
}

// Z appends a Pauli-Z gate on q.
func (c *Circuit) Z(q int) error {
	return c.Apply(PauliZ(), q)
}

// CX appends a controlled-NOT with the given control and target.
func (c *Circuit) CX(control, target int) error {
	if err := c.checkQubits(control, target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("controlled gate on qubit %d with itself as control: %w", target, ErrIndex)
	}
	c.ops = append(c.ops, Op{Kind: KindControlled, Gate: PauliX(), Control: control, Target: target})
	return nil
}

// Measure appends a computational-basis measurement of qubit q into
// classical bit clbit.
func (c *Circuit) Measure(q, clbit int) error {
	if err := c.checkQubits(q); err != nil {
		return err
	}
	if err := c.checkClbit(clbit); err != nil {
		return err
	}
	c.ops = append(c.ops, Op{Kind: KindMeasure, Target: q, Clbit: clbit})
	return nil
}

// ApplyIf appends gate g on qubit q, to be applied only if classical bit
// clbit equals value when the operation is reached.
func (c *Circuit) ApplyIf(g Gate, q, clbit, value int) error {
	if err := c.checkQubits(q); err != nil {
		return err
	}
	if err := c.checkClbit(clbit); err != nil {
		return err
	}
	if value != 0 && value != 1 {
		return fmt.Errorf("condition value %d on a single bit: %w", value, ErrIndex)
	}
	c.ops = append(c.ops, Op{Kind: KindConditional, Gate: g, Target: q, Clbit: clbit, Value: value})
	return nil
}

// Barrier appends a barrier across qs, or across every qubit if qs is empty.
func (c *Circuit) Barrier(qs ...int) error {
	if len(qs) == 0 {
		for q := 0; q < c.qubits; q++ {
			qs = append(qs, q)
		}
	} else if err := c.checkQubits(qs...); err != nil {
		return err
	}
	span := make([]int, len(qs))
	copy(span, qs)
	c.ops = append(c.ops, Op{Kind: KindBarrier, Qubits: span})
	return nil
}

func (c *Circuit) checkQubits(qs ...int) error {
	for _, q := range qs {
		if q < 0 || q >= c.qubits {
			return fmt.Errorf("qubit %d of %d: %w", q, c.qubits, ErrIndex)
		}
	}
	return nil
}

func (c *Circuit) checkClbit(b int) error {
	if b < 0 || b >= c.clbits {
		return fmt.Errorf("classical bit %d of %d: %w", b, c.clbits, ErrIndex)
	}
	return nil
}
