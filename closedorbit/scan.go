package closedorbit

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/accelwork/orbit/lattice"
	"github.com/accelwork/orbit/phasespace"
	"github.com/accelwork/orbit/tracker"
)

// ScanMomentum finds the closed orbit at each relative momentum offset in
// deltas, which is how dispersion is measured: the orbit's momentum
// dependence at the monitors is the dispersion function.
//
// The scan runs transverse-only (the momentum offset is held fixed, not
// solved for) and fans out across offsets with one engine per offset, so no
// engine or bunch is ever shared between goroutines. The lattice model is
// shared read-only: monitors do not record during orbit searches.
func (f *Finder) ScanMomentum(ctx context.Context, newEngine func() tracker.Engine, seg lattice.Segment, guess phasespace.Vector, deltas []float64) ([]Result, error) {
	results := make([]Result, len(deltas))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, dp := range deltas {
		i, dp := i, dp
		g.Go(func() error {
			sub, err := NewFinder(newEngine(), f.model, f.p0, func(o *Options) {
				*o = f.opts
				o.TransverseOnly = true
			})
			if err != nil {
				return err
			}

			start := guess
			start[phasespace.DP] = dp
			res, err := sub.FindClosedOrbit(ctx, seg, start)
			if err != nil {
				return fmt.Errorf("momentum offset %g: %w", dp, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
