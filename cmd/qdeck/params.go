package main

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadProbability is returned for argument text that is not a probability.
var ErrBadProbability = errors.New("not a probability")

// fractionRegex matches "a/b" with optional decimal parts.
var fractionRegex = regexp.MustCompile(`^(\d*\.?\d+)\s*/\s*(\d*\.?\d+)$`)

// parseProbability parses a single noise probability.
//
// Supported formats:
//   - Plain numbers: "0.01", "1e-3", ".5"
//   - Fractions: "1/8", "3 / 16"
//   - Percentages: "5%", "0.1%"
func parseProbability(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadProbability)
	}

	var p float64
	switch {
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadProbability, s)
		}
		p = v / 100
	case fractionRegex.MatchString(s):
		m := fractionRegex.FindStringSubmatch(s)
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den == 0 {
			return 0, fmt.Errorf("%w: %q divides by zero", ErrBadProbability, s)
		}
		p = num / den
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadProbability, s)
		}
		p = v
	}

	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: %q is outside [0, 1]", ErrBadProbability, s)
	}
	return p, nil
}

// parseArgs parses a comma separated argument list.
func parseArgs(input string) ([]float64, error) {
	var args []float64
	for _, part := range strings.Split(input, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := parseProbability(part)
		if err != nil {
			return nil, err
		}
		args = append(args, p)
	}
	return args, nil
}

// formatArgs renders gate arguments the way circuit text does.
func formatArgs(args []float64) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strconv.FormatFloat(a, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// acceptsArgKey reports whether a typed key may appear in argument text.
func acceptsArgKey(key string) bool {
	if len(key) != 1 {
		return false
	}
	ch := key[0]
	return (ch >= '0' && ch <= '9') || strings.IndexByte(".,-+eE/% ", ch) >= 0
}
