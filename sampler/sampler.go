// Package sampler draws many shots of a circuit in parallel and writes the
// measurement records out.
//
// Each shot runs on its own simulator with a generator seeded from
// (seed, shot index), so the records do not depend on the worker count or on
// scheduling order.
package sampler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/bits-and-blooms/bitset"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"qtermstab/circuit"
	"qtermstab/simulator"
)

type options struct {
	workers int
	logger  *log.Logger
}

// Option configures SampleShots.
type Option func(*options)

// WithWorkers bounds the number of shots simulated concurrently. Values
// below one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger passes a logger to every per-shot simulator.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// SampleShots runs c shots times and returns one measurement record per
// shot. The first error, or ctx cancellation, stops the remaining shots.
func SampleShots(ctx context.Context, c *circuit.Circuit, shots int, seed uint64, opts ...Option) ([]*bitset.BitSet, error) {
	if shots < 0 {
		return nil, fmt.Errorf("sampler: negative shot count %d", shots)
	}
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	var simOpts []simulator.Option
	if o.logger != nil {
		simOpts = append(simOpts, simulator.WithLogger(o.logger))
	}

	results := make([]*bitset.BitSet, shots)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for shot := range shots {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, uint64(shot)))
			rec, err := simulator.SampleCircuit(c, rng, simOpts...)
			if err != nil {
				return fmt.Errorf("shot %d: %w", shot, err)
			}
			results[shot] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
