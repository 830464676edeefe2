// bench.go teleports a batch of random states for each entry in the cartesian
// product of a collection of protocol and simulation parameters, e.g. barrier
// placement and shot count, and outputs a CSV of relevant statistics for each
// run, e.g. receiver fidelity and verification failures.
package main

import (
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"os"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/alan-christopher/teleport/teleport"
	"github.com/alan-christopher/teleport/teleport/qsim"
	"github.com/alan-christopher/teleport/teleport/report"
)

var (
	states   = flag.Int("states", 10, "The number of random input states to teleport per parameterization.")
	seed     = flag.Uint64("seed", 1, "Seed for the random input states and sampled outcomes.")
	workers  = flag.Int("workers", 0, "Goroutines running shots; 0 means GOMAXPROCS.")
	frames   = flag.String("frames", "", "If set, append every run's reports, and a summary per parameterization, to this file as length-prefixed protobuf frames.")
	_        = flag.IntSlice("shots", []int{teleport.DefaultShots}, "The number of sampled shots per run.")
	_        = flag.StringSlice("barriers", []string{teleport.BarriersSteps.String()}, "Barrier placements: steps, none or all.")
	_        = flag.StringSlice("registerOrder", []string{teleport.ZFirst.String()}, "Declaration orders of the condition registers: z-first or x-first.")
	logLevel = flag.String("logLevel", "info", "Minimum level of log lines written to stderr.")
)

var (
	inputs  = []string{"shots", "barriers", "registerOrder"}
	columns = []string{"State", "Alpha", "Beta", "Shots", "Barriers", "RegisterOrder",
		"Fidelity", "VerifyFailures", "Outcomes", "Succeeded"}
)

// An Experiment packages together the result of benchmarking a single
// parameterization for easy formatting.
type Experiment struct {
	// Fields corresponding to experiment parameters
	State         int
	Alpha, Beta   complex128
	Shots         int
	Barriers      string
	RegisterOrder string

	// Fields corresponding to experiment results
	Fidelity       float64
	VerifyFailures int
	Outcomes       int
	Succeeded      bool
}

func main() {
	flag.Parse()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("bench failed")
	}
}

// run executes the sweep described by the parsed flags, writing CSV lines to
// out.
func run(out io.Writer, log zerolog.Logger) (err error) {
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	log = log.Level(level)
	var framer *report.Framer
	if *frames != "" {
		f, ferr := os.OpenFile(*frames, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if ferr != nil {
			return fmt.Errorf("opening frames file: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		framer = report.NewFramer(f)
	}

	if _, err := fmt.Fprintln(out, header()); err != nil {
		return err
	}
	tmpl := template.Must(template.New("line").Parse(lineTmpl()))
	var args [][]interface{}
	for _, inp := range inputs {
		args = append(args, lookupInput(inp))
	}
	r := rand.New(rand.NewPCG(*seed, 0))
	var psis [][]complex128
	for i := 0; i < *states; i++ {
		psis = append(psis, randomState(r))
	}
	b := &bencher{
		engine: qsim.New(qsim.Options{Seed: *seed, Workers: *workers}),
		framer: framer,
	}
	applyCartesian(func(args []interface{}) {
		if err != nil {
			return
		}
		err = b.sweep(out, tmpl, psis, args, log)
	}, args)
	return err
}

// sweep runs every input state under one parameterization, then logs and,
// if frames are being written, records a summary of the runs.
func (b *bencher) sweep(out io.Writer, tmpl *template.Template, psis [][]complex128, args []interface{}, log zerolog.Logger) error {
	params := map[string]interface{}{
		"shots_per_run":  args[inpIndex("shots")],
		"barriers":       args[inpIndex("barriers")],
		"register_order": args[inpIndex("registerOrder")],
	}
	summary := report.NewSummary(params)
	for i, psi := range psis {
		exp := &Experiment{
			State:         i,
			Alpha:         psi[0],
			Beta:          psi[1],
			Shots:         args[inpIndex("shots")].(int),
			Barriers:      args[inpIndex("barriers")].(string),
			RegisterOrder: args[inpIndex("registerOrder")].(string),
		}
		if err := b.bench(exp); err != nil {
			log.Error().Err(err).Interface("experiment", exp).Msg("bench failed")
			summary.AddError()
		} else {
			summary.Add(exp.Fidelity, exp.Shots, exp.VerifyFailures)
		}
		if err := tmpl.Execute(out, exp); err != nil {
			return fmt.Errorf("BUG: could not fill in line template: %w", err)
		}
	}
	log.Info().
		Fields(params).
		Int("runs", summary.Runs()).
		Int("errors", summary.Errors()).
		Float64("meanFidelity", summary.MeanFidelity()).
		Float64("worstFidelity", summary.WorstFidelity()).
		Int("verifyFailures", summary.VerifyFailures()).
		Msg("parameterization complete")
	if b.framer == nil {
		return nil
	}
	s, err := summary.Struct()
	if err != nil {
		return err
	}
	return b.framer.Write(s)
}

func inpIndex(v string) int {
	for i, inp := range inputs {
		if inp == v {
			return i
		}
	}
	return -1
}

type bencher struct {
	engine teleport.Engine
	framer *report.Framer
}

// bench runs exp's input state once exactly and once sampled, filling in the
// result fields of exp.
func (b *bencher) bench(exp *Experiment) error {
	barriers, err := teleport.ParseBarrierPlacement(exp.Barriers)
	if err != nil {
		return err
	}
	order, err := teleport.ParseRegisterOrder(exp.RegisterOrder)
	if err != nil {
		return err
	}
	psi := []complex128{exp.Alpha, exp.Beta}
	p, err := teleport.Assemble(psi, teleport.Options{
		Barriers:      barriers,
		RegisterOrder: order,
		Verify:        true,
	})
	if err != nil {
		return err
	}
	sim := teleport.NewSimulator(teleport.SimulatorOpts{Engine: b.engine, Shots: exp.Shots})
	exact, err := sim.Exact(p)
	if err != nil {
		return err
	}
	if exp.Fidelity, err = exact.ReceiverFidelity(psi); err != nil {
		return err
	}
	sampled, err := sim.Sample(p)
	if err != nil {
		return err
	}
	if exp.VerifyFailures, err = sampled.VerifyFailures(); err != nil {
		return err
	}
	exp.Outcomes = len(sampled.Counts)
	exp.Succeeded = exp.Fidelity > 1-teleport.FidelityTolerance && exp.VerifyFailures == 0
	if b.framer == nil {
		return nil
	}
	e, err := report.Exact(exact, psi)
	if err != nil {
		return err
	}
	if err := b.framer.Write(e); err != nil {
		return err
	}
	s, err := report.Sampled(sampled)
	if err != nil {
		return err
	}
	return b.framer.Write(s)
}

// randomState draws a state uniformly from the Bloch sphere.
func randomState(r *rand.Rand) []complex128 {
	theta := math.Acos(2*r.Float64() - 1)
	phi := 2 * math.Pi * r.Float64()
	return []complex128{
		complex(math.Cos(theta/2), 0),
		cmplx.Exp(complex(0, phi)) * complex(math.Sin(theta/2), 0),
	}
}

func header() string {
	return strings.Join(columns, ", ")
}

func lineTmpl() string {
	var els []string
	for _, c := range columns {
		els = append(els, "{{."+c+"}}")
	}
	return strings.Join(els, ", ") + "\n"
}

func lookupInput(name string) []interface{} {
	var r []interface{}
	if v, err := flag.CommandLine.GetIntSlice(name); err == nil {
		for _, val := range v {
			r = append(r, val)
		}
	} else if v, err := flag.CommandLine.GetStringSlice(name); err == nil {
		for _, val := range v {
			r = append(r, val)
		}
	} else {
		panic(fmt.Sprintf("unknown type for input %s", name))
	}
	return r
}

func applyCartesian(f func([]interface{}), args [][]interface{}) {
	for i := range args {
		if len(args[i]) == 1 {
			continue
		}
		l := make([][]interface{}, len(args))
		r := make([][]interface{}, len(args))
		copy(l, args)
		copy(r, args)
		l[i] = args[i][:1]
		r[i] = args[i][1:]
		applyCartesian(f, l)
		applyCartesian(f, r)
		return
	}
	x := make([]interface{}, 0, len(args))
	for _, a := range args {
		x = append(x, a[0])
	}
	f(x)
}
