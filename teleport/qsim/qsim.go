// Package qsim executes circuits built with package circuit on a dense state
// vector, either exactly or by repeated sampling.
package qsim

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/alan-christopher/teleport/teleport/bitmap"
	"github.com/alan-christopher/teleport/teleport/circuit"
)

// MaxQubits bounds the state vector to 2^MaxQubits amplitudes.
var MaxQubits = 20

// ErrNotDeferrable is returned by Exact for circuits that act on a qubit
// after measuring it.
var ErrNotDeferrable = errors.New("measurement cannot be deferred")

// Counts maps an outcome string to the number of shots that produced it.
// Outcome strings list classical registers last-declared first, separated
// by single spaces, each register written most-significant bit first.
type Counts map[string]int

// Total returns the number of shots recorded in c.
func (c Counts) Total() int {
	var n int
	for _, v := range c {
		n += v
	}
	return n
}

// Keys returns the outcomes in c, sorted.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Options configures an Engine. The zero value is usable.
type Options struct {
	// Seed seeds the per-shot random sources. Two runs with the same seed
	// produce identical Counts, regardless of Workers.
	Seed uint64

	// Workers is the number of goroutines shots are spread over. Defaults to
	// GOMAXPROCS.
	Workers int

	// Logger receives one debug line per run. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// An Engine runs circuits. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	seed    uint64
	workers int
	log     zerolog.Logger
}

// New returns an Engine configured by opts.
func New(opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Engine{
		seed:    opts.Seed,
		workers: workers,
		log:     log.With().Str("component", "qsim").Logger(),
	}
}

// Exact evolves |0...0> through c and returns the final amplitudes.
//
// Measurements are deferred rather than sampled: each measured qubit is left
// in superposition, and a later gate conditioned on its classical bit is
// applied as a gate controlled by the qubit itself. The result is therefore
// deterministic. A circuit that acts on a qubit after measuring it cannot be
// rewritten this way and fails with ErrNotDeferrable.
func (e *Engine) Exact(c *circuit.Circuit) ([]complex128, error) {
	if err := checkSize(c); err != nil {
		return nil, err
	}
	s := newState(c.NumQubits())
	source := make([]int, c.NumClbits())
	for i := range source {
		source[i] = -1
	}
	measured := make([]bool, c.NumQubits())
	touch := func(i int, qs ...int) error {
		for _, q := range qs {
			if measured[q] {
				return fmt.Errorf("op %d acts on qubit %d after its measurement: %w", i, q, ErrNotDeferrable)
			}
		}
		return nil
	}

	for i, op := range c.Ops() {
		switch op.Kind {
		case circuit.KindGate:
			if err := touch(i, op.Target); err != nil {
				return nil, err
			}
			s.apply(op.Gate, op.Target)
		case circuit.KindControlled:
			if err := touch(i, op.Control, op.Target); err != nil {
				return nil, err
			}
			s.applyControlled(op.Gate, op.Target, op.Control, true)
		case circuit.KindMeasure:
			if err := touch(i, op.Target); err != nil {
				return nil, err
			}
			measured[op.Target] = true
			source[op.Clbit] = op.Target
		case circuit.KindConditional:
			if err := touch(i, op.Target); err != nil {
				return nil, err
			}
			q := source[op.Clbit]
			if q < 0 {
				// Unwritten bits read as 0.
				if op.Value == 0 {
					s.apply(op.Gate, op.Target)
				}
				continue
			}
			s.applyControlled(op.Gate, op.Target, q, op.Value == 1)
		case circuit.KindBarrier:
		default:
			return nil, fmt.Errorf("op %d: unknown kind %v", i, op.Kind)
		}
	}
	e.log.Debug().Int("qubits", c.NumQubits()).Int("ops", c.Len()).Msg("exact run complete")
	return s.amps, nil
}

// Sample runs c shots times from |0...0>, collapsing the state at every
// measurement, and tallies the classical bits left at the end of each shot.
func (e *Engine) Sample(c *circuit.Circuit, shots int) (Counts, error) {
	if err := checkSize(c); err != nil {
		return nil, err
	}
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	workers := e.workers
	if workers > shots {
		workers = shots
	}
	ops := c.Ops()
	regs := c.Registers()

	partial := make([]Counts, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			counts := make(Counts)
			for shot := w; shot < shots; shot += workers {
				src := rand.NewPCG(e.seed, uint64(shot))
				bits, err := runShot(c.NumQubits(), c.NumClbits(), ops, src)
				if err != nil {
					errs[w] = fmt.Errorf("shot %d: %w", shot, err)
					return
				}
				counts[outcome(bits, regs)]++
			}
			partial[w] = counts
		}(w)
	}
	wg.Wait()

	counts := make(Counts)
	for w := range partial {
		if errs[w] != nil {
			return nil, errs[w]
		}
		for k, v := range partial[w] {
			counts[k] += v
		}
	}
	e.log.Debug().Int("shots", shots).Int("workers", workers).Int("outcomes", len(counts)).Msg("sampled run complete")
	return counts, nil
}

func runShot(qubits, clbits int, ops []circuit.Op, src rand.Source) (bitmap.Dense, error) {
	s := newState(qubits)
	bits := bitmap.NewDense(nil, clbits)
	for i, op := range ops {
		switch op.Kind {
		case circuit.KindGate:
			s.apply(op.Gate, op.Target)
		case circuit.KindControlled:
			s.applyControlled(op.Gate, op.Target, op.Control, true)
		case circuit.KindMeasure:
			d := distuv.Bernoulli{P: s.prob1(op.Target), Src: src}
			one := d.Rand() == 1
			s.collapse(op.Target, one)
			bits.Set(op.Clbit, one)
		case circuit.KindConditional:
			if bits.Get(op.Clbit) == (op.Value == 1) {
				s.apply(op.Gate, op.Target)
			}
		case circuit.KindBarrier:
		default:
			return bitmap.Dense{}, fmt.Errorf("op %d: unknown kind %v", i, op.Kind)
		}
	}
	return bits, nil
}

// outcome formats bits register by register, last-declared register first.
func outcome(bits bitmap.Dense, regs []circuit.ClassicalRegister) string {
	if len(regs) == 0 {
		return bitmap.Format(bits)
	}
	parts := make([]string, 0, len(regs))
	for i := len(regs) - 1; i >= 0; i-- {
		r := regs[i]
		sub, err := bitmap.Slice(bits, r.Offset, r.Offset+r.Size)
		if err != nil {
			// Registers always lie within the circuit's classical bits.
			panic(err)
		}
		parts = append(parts, bitmap.Format(sub))
	}
	return strings.Join(parts, " ")
}

// ParseOutcome is the inverse of the outcome formatting used in Counts: it
// returns the classical bits, indexed as in the circuit, of an outcome string
// for a circuit with the given registers.
func ParseOutcome(key string, regs []circuit.ClassicalRegister) (bitmap.Dense, error) {
	if len(regs) == 0 {
		return bitmap.Parse(key)
	}
	parts := strings.Split(key, " ")
	if len(parts) != len(regs) {
		return bitmap.Dense{}, fmt.Errorf("outcome %q has %d registers, want %d", key, len(parts), len(regs))
	}
	subs := make([]bitmap.Dense, len(regs))
	for i, p := range parts {
		r := regs[len(regs)-1-i]
		d, err := bitmap.Parse(p)
		if err != nil {
			return bitmap.Dense{}, err
		}
		if d.Size() != r.Size {
			return bitmap.Dense{}, fmt.Errorf("register %s has %d bits in %q, want %d", r.Name, d.Size(), key, r.Size)
		}
		subs[len(regs)-1-i] = d
	}
	return bitmap.Concat(subs...), nil
}

// Marginal returns how many shots in counts left classical bit clbit at 0
// and at 1. A clbit outside the registers is an error.
func Marginal(counts Counts, regs []circuit.ClassicalRegister, clbit int) (zeros, ones int, err error) {
	for k, v := range counts {
		bits, err := ParseOutcome(k, regs)
		if err != nil {
			return 0, 0, err
		}
		b, err := bitmap.Slice(bits, clbit, clbit+1)
		if err != nil {
			return 0, 0, fmt.Errorf("classical bit %d of outcome %q: %w", clbit, k, err)
		}
		n := bitmap.CountOnes(b)
		ones += n * v
		zeros += (1 - n) * v
	}
	return zeros, ones, nil
}

func checkSize(c *circuit.Circuit) error {
	if c.NumQubits() > MaxQubits {
		return fmt.Errorf("%d qubits exceeds the simulator limit of %d", c.NumQubits(), MaxQubits)
	}
	return nil
}
