package simulator

import (
	"io"

	"github.com/charmbracelet/log"
)

// Bias selects how a non-deterministic collapse picks its outcome.
type Bias int8

const (
	// CollapseRandom draws each outcome from the bit source.
	CollapseRandom Bias = 0
	// CollapseTowardTrue makes every random outcome true without drawing.
	CollapseTowardTrue Bias = -1
	// CollapseTowardFalse makes every random outcome false without drawing.
	CollapseTowardFalse Bias = 1
)

func (b Bias) String() string {
	switch b {
	case CollapseRandom:
		return "random"
	case CollapseTowardTrue:
		return "toward-true"
	case CollapseTowardFalse:
		return "toward-false"
	default:
		return "invalid"
	}
}

// ParseBias accepts the names produced by Bias.String.
func ParseBias(s string) (Bias, bool) {
	for _, b := range []Bias{CollapseRandom, CollapseTowardTrue, CollapseTowardFalse} {
		if b.String() == s {
			return b, true
		}
	}
	return 0, false
}

type options struct {
	bias   Bias
	logger *log.Logger
}

// Option configures a TableauSimulator.
type Option func(*options)

// WithBias sets the collapse bias. Values other than the three Bias
// constants are treated as CollapseRandom.
func WithBias(b Bias) Option {
	return func(o *options) {
		switch b {
		case CollapseTowardTrue, CollapseTowardFalse:
			o.bias = b
		default:
			o.bias = CollapseRandom
		}
	}
}

// WithLogger sets the logger used for debug output. If nil is passed,
// logging is discarded.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{bias: CollapseRandom}
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
