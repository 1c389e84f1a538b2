package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"qtermstab/sampler"
	"qtermstab/simulator"
)

// Config holds the command line settings of qdeck.
type Config struct {
	Qubits        int
	Seed          uint64
	Bias          string
	Shots         int
	Workers       int
	ShotsPath     string
	ShotsFormat   string
	SavePath      string
	LogFile       string
	LogLevel      string
	MaxTermQubits int
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		Qubits:        4,
		Seed:          1,
		Bias:          simulator.CollapseRandom.String(),
		Shots:         256,
		ShotsPath:     "shots.01",
		ShotsFormat:   sampler.Format01.String(),
		SavePath:      "circuit.stim",
		LogLevel:      "info",
		MaxTermQubits: 6,
	}
}

// FlagSet binds every field to a flag, using the current values as defaults.
func (c *Config) FlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("qdeck", pflag.ContinueOnError)
	fs.IntVarP(&c.Qubits, "qubits", "n", c.Qubits, "number of qubit wires")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "seed for measurement randomness")
	fs.StringVar(&c.Bias, "bias", c.Bias, "collapse bias: random, toward-true or toward-false")
	fs.IntVar(&c.Shots, "shots", c.Shots, "shots drawn by the sample command")
	fs.IntVar(&c.Workers, "workers", c.Workers, "parallel sampling workers (0 means GOMAXPROCS)")
	fs.StringVar(&c.ShotsPath, "shots-out", c.ShotsPath, "file sampled shots are written to; a .zst suffix compresses")
	fs.StringVar(&c.ShotsFormat, "shots-format", c.ShotsFormat, "shot record format: 01 or b8")
	fs.StringVar(&c.SavePath, "save", c.SavePath, "file the circuit text is saved to")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write debug logs to this file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.IntVar(&c.MaxTermQubits, "max-term-qubits", c.MaxTermQubits, "largest register whose amplitudes are shown")
	return fs
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Qubits < 1 {
		return fmt.Errorf("qubits must be positive, got %d", c.Qubits)
	}
	if _, ok := simulator.ParseBias(c.Bias); !ok {
		return fmt.Errorf("unknown bias %q", c.Bias)
	}
	if c.Shots < 1 {
		return fmt.Errorf("shots must be positive, got %d", c.Shots)
	}
	if _, err := sampler.ParseFormat(c.ShotsFormat); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxTermQubits > simulator.MaxVectorQubits {
		return fmt.Errorf("max-term-qubits is capped at %d", simulator.MaxVectorQubits)
	}
	return nil
}

// CollapseBias returns the parsed bias. Call Validate first.
func (c *Config) CollapseBias() simulator.Bias {
	b, _ := simulator.ParseBias(c.Bias)
	return b
}

// OpenLogger creates the application logger. Without a log file the
// terminal belongs to the UI, so output is discarded.
func (c *Config) OpenLogger() (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if c.LogFile == "" {
		return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel}), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		Prefix:          "qdeck",
		ReportTimestamp: true,
	})
	return logger, f, nil
}
