// teleport assembles the quantum teleportation circuit for one input state and
// simulates it, either exactly (printing the final state and the receiver's
// fidelity) or by sampling shots (printing outcome counts).
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alan-christopher/teleport/teleport"
	"github.com/alan-christopher/teleport/teleport/qsim"
	"github.com/alan-christopher/teleport/teleport/report"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("teleport failed")
	}
}

func run(args []string, out io.Writer, log zerolog.Logger) error {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log = log.Level(level)

	psi, err := cfg.state()
	if err != nil {
		return err
	}
	opts, mode, err := cfg.options()
	if err != nil {
		return err
	}
	opts.Logger = &log
	p, err := teleport.Assemble(psi, opts)
	if err != nil {
		return err
	}
	log.Debug().Str("run", p.ID()).Stringer("mode", mode).Stringer("barriers", opts.Barriers).Msg("protocol assembled")

	if cfg.Format == "qasm" {
		q, err := p.Circuit().QASM()
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, q)
		return err
	}

	sim := teleport.NewSimulator(teleport.SimulatorOpts{
		Engine: qsim.New(qsim.Options{Seed: cfg.Seed, Workers: cfg.Workers, Logger: &log}),
		Shots:  cfg.Shots,
		Logger: &log,
	})
	var res *structpb.Struct
	switch mode {
	case teleport.ModeExact:
		r, err := sim.Exact(p)
		if err != nil {
			return err
		}
		if res, err = report.Exact(r, psi); err != nil {
			return err
		}
	case teleport.ModeSampled:
		r, err := sim.Sample(p)
		if err != nil {
			return err
		}
		failures, err := r.VerifyFailures()
		if err != nil {
			return err
		}
		if failures > 0 {
			log.Warn().Str("run", p.ID()).Int("failures", failures).Msg("verification bit read 1")
		}
		if res, err = report.Sampled(r); err != nil {
			return err
		}
	}

	if cfg.Format == "json" {
		b, err := report.JSON(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", b)
		return err
	}
	return report.Text(out, res)
}
