package main

import (
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alan-christopher/teleport/teleport"
)

// config is one CLI invocation. Fields map onto flag names, and a YAML file
// passed with --config may set any of them; flags given on the command line
// win.
type config struct {
	Alpha         string `mapstructure:"alpha"`
	Beta          string `mapstructure:"beta"`
	Mode          string `mapstructure:"mode"`
	Shots         int    `mapstructure:"shots"`
	Seed          uint64 `mapstructure:"seed"`
	Workers       int    `mapstructure:"workers"`
	Barriers      string `mapstructure:"barriers"`
	RegisterOrder string `mapstructure:"register-order"`
	Verify        bool   `mapstructure:"verify"`
	Format        string `mapstructure:"format"`
	LogLevel      string `mapstructure:"log-level"`
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("teleport", flag.ContinueOnError)
	fs.String("config", "", "Optional YAML file providing defaults for any of the flags below.")
	fs.String("alpha", "0.6", "Amplitude of |0> in the state to teleport, as a Go complex literal.")
	fs.String("beta", "0.8i", "Amplitude of |1> in the state to teleport, as a Go complex literal.")
	fs.String("mode", "exact", "Simulation mode: exact or sampled.")
	fs.Int("shots", teleport.DefaultShots, "Number of shots in sampled mode.")
	fs.Uint64("seed", 0, "Seed for sampled measurement outcomes.")
	fs.Int("workers", 0, "Goroutines running shots; 0 means GOMAXPROCS.")
	fs.String("barriers", teleport.BarriersSteps.String(), "Barrier placement: steps, none or all.")
	fs.String("register-order", teleport.ZFirst.String(), "Declaration order of the condition registers: z-first or x-first.")
	fs.Bool("verify", false, "Append the verification step. Always on in sampled mode.")
	fs.String("format", "text", "Output format: text, json or qasm.")
	fs.String("log-level", "info", "Minimum level of log lines written to stderr.")
	return fs
}

// loadConfig resolves the parsed flags in fs against the optional config
// file.
func loadConfig(fs *flag.FlagSet) (config, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return config{}, err
	}
	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) state() ([]complex128, error) {
	a, err := strconv.ParseComplex(strings.TrimSpace(c.Alpha), 128)
	if err != nil {
		return nil, fmt.Errorf("alpha: %w", err)
	}
	b, err := strconv.ParseComplex(strings.TrimSpace(c.Beta), 128)
	if err != nil {
		return nil, fmt.Errorf("beta: %w", err)
	}
	return []complex128{a, b}, nil
}

func (c config) options() (teleport.Options, teleport.Mode, error) {
	mode, err := teleport.ParseMode(c.Mode)
	if err != nil {
		return teleport.Options{}, 0, err
	}
	b, err := teleport.ParseBarrierPlacement(c.Barriers)
	if err != nil {
		return teleport.Options{}, 0, err
	}
	o, err := teleport.ParseRegisterOrder(c.RegisterOrder)
	if err != nil {
		return teleport.Options{}, 0, err
	}
	switch c.Format {
	case "text", "json", "qasm":
	default:
		return teleport.Options{}, 0, fmt.Errorf("unknown format %q, want text, json or qasm", c.Format)
	}
	if c.Shots <= 0 {
		return teleport.Options{}, 0, fmt.Errorf("shots must be positive, got %d", c.Shots)
	}
	return teleport.Options{
		RegisterOrder: o,
		Barriers:      b,
		Verify:        c.Verify || mode == teleport.ModeSampled,
	}, mode, nil
}
