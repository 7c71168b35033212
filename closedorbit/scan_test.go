package closedorbit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelwork/orbit/closedorbit"
	"github.com/accelwork/orbit/phasespace"
	"github.com/accelwork/orbit/testutil"
	"github.com/accelwork/orbit/tracker"
)

func newEngine() tracker.Engine { return tracker.NewLinearEngine() }

func TestScanMomentumDispersion(t *testing.T) {
	ring := testutil.DispersiveRing(4)
	seg := fullSegment(t, ring)

	f, err := closedorbit.NewFinder(tracker.NewLinearEngine(), ring, 1.0)
	require.NoError(t, err)

	deltas := []float64{-1e-3, 0, 1e-3}
	results, err := f.ScanMomentum(context.Background(), newEngine, seg, phasespace.Vector{}, deltas)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// On momentum the ring is flat.
	assert.InDelta(t, 0.0, results[1].Orbit[phasespace.X], 1e-9)
	assert.InDelta(t, 0.0, results[1].Orbit[phasespace.Y], 1e-9)

	// The bends disperse the orbit horizontally with the sign of dp; the
	// vertical plane has no dispersion.
	assert.Less(t, results[0].Orbit[phasespace.X], -1e-6)
	assert.Greater(t, results[2].Orbit[phasespace.X], 1e-6)
	assert.InDelta(t, 0.0, results[0].Orbit[phasespace.Y], 1e-9)
	assert.InDelta(t, 0.0, results[2].Orbit[phasespace.Y], 1e-9)

	// The momentum offset is held fixed, not solved for.
	for i, dp := range deltas {
		assert.InDelta(t, dp, results[i].Orbit[phasespace.DP], 0)
	}
}

func TestScanMomentumMatchesDirectSolve(t *testing.T) {
	ring := testutil.DispersiveRing(4)
	seg := fullSegment(t, ring)

	f, err := closedorbit.NewFinder(tracker.NewLinearEngine(), ring, 1.0)
	require.NoError(t, err)

	const dp = 5e-4
	results, err := f.ScanMomentum(context.Background(), newEngine, seg, phasespace.Vector{}, []float64{dp})
	require.NoError(t, err)

	direct, err := closedorbit.NewFinder(tracker.NewLinearEngine(), ring, 1.0, func(o *closedorbit.Options) {
		o.TransverseOnly = true
	})
	require.NoError(t, err)

	var start phasespace.Vector
	start[phasespace.DP] = dp
	want, err := direct.FindClosedOrbit(context.Background(), seg, start)
	require.NoError(t, err)

	for m := 0; m < phasespace.Dimension; m++ {
		assert.InDelta(t, want.Orbit[m], results[0].Orbit[m], 1e-12, "coordinate %d", m)
	}
}

func TestScanMomentumManyOffsets(t *testing.T) {
	// A wide scan keeps many searches in flight at once; monitors must not
	// record probe passes, so the shared model is only ever read.
	ring := testutil.DispersiveRing(8)
	seg := fullSegment(t, ring)

	f, err := closedorbit.NewFinder(tracker.NewLinearEngine(), ring, 1.0)
	require.NoError(t, err)

	deltas := make([]float64, 32)
	for i := range deltas {
		deltas[i] = -1e-3 + float64(i)*(2e-3/31)
	}

	results, err := f.ScanMomentum(context.Background(), newEngine, seg, phasespace.Vector{}, deltas)
	require.NoError(t, err)
	require.Len(t, results, len(deltas))
	for i, res := range results {
		assert.InDelta(t, deltas[i], res.Orbit[phasespace.DP], 0)
	}

	bpms, err := ring.ROChannels(seg, "BPM.*")
	require.NoError(t, err)
	for _, ch := range bpms {
		assert.Zero(t, ch.Read(), "monitor %s written during scan", ch.ID())
	}
}

func TestScanMomentumCancelled(t *testing.T) {
	ring := testutil.DispersiveRing(2)
	seg := fullSegment(t, ring)

	f, err := closedorbit.NewFinder(tracker.NewLinearEngine(), ring, 1.0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.ScanMomentum(ctx, newEngine, seg, phasespace.Vector{}, []float64{0, 1e-3})
	assert.ErrorIs(t, err, context.Canceled)
}
