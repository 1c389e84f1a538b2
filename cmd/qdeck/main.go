// Command qdeck is a terminal editor for Clifford circuits that shows the
// stabilizer state, measurement determinism and the measurement record at
// any step of the circuit.
package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	cfg := NewConfig()
	if err := cfg.FlagSet().Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "qdeck:", err)
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, closer, err := cfg.OpenLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("starting", "qubits", cfg.Qubits, "seed", cfg.Seed, "bias", cfg.Bias)
	_, err = tea.NewProgram(newModel(cfg, logger), tea.WithAltScreen()).Run()
	return err
}
