package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelwork/orbit/lattice"
	"github.com/accelwork/orbit/phasespace"
)

func driftLine(lengths ...float64) *lattice.Design {
	d := lattice.NewDesign("line")
	for i, l := range lengths {
		d.Append(lattice.Drift("D"+string(rune('A'+i)), l))
	}
	return d
}

func fullSegment(t *testing.T, m lattice.Model) lattice.Segment {
	t.Helper()
	seg, err := m.Beamline()
	require.NoError(t, err)
	return seg
}

func TestTrackRequiresSegment(t *testing.T) {
	eng := NewLinearEngine()
	b := phasespace.NewBunch(1, 1, phasespace.Vector{})

	assert.ErrorIs(t, eng.Track(b), ErrNoSegment)
	_, err := eng.TrackCopy(b)
	assert.ErrorIs(t, err, ErrNoSegment)
	_, err = eng.NewStepper(b)
	assert.ErrorIs(t, err, ErrNoSegment)
}

func TestSetSegmentValidatesRange(t *testing.T) {
	eng := NewLinearEngine()
	d := driftLine(1, 1)

	err := eng.SetSegment(d, lattice.Segment{First: 0, Last: 5})
	assert.ErrorIs(t, err, lattice.ErrInvalidSegment)
}

func TestTrackDrifts(t *testing.T) {
	eng := NewLinearEngine()
	d := driftLine(1.0, 2.0)
	require.NoError(t, eng.SetSegment(d, fullSegment(t, d)))

	v := phasespace.Vector{}
	v[phasespace.XP] = 0.1
	b := phasespace.NewBunch(1, 1, v)

	require.NoError(t, eng.Track(b))
	assert.InDelta(t, 0.3, b.First()[phasespace.X], 1e-15)
	assert.InDelta(t, 0.1, b.First()[phasespace.XP], 1e-15)
}

func TestTrackCopyLeavesInputUntouched(t *testing.T) {
	eng := NewLinearEngine()
	d := driftLine(1.0)
	require.NoError(t, eng.SetSegment(d, fullSegment(t, d)))

	v := phasespace.Vector{}
	v[phasespace.XP] = 0.1
	b := phasespace.NewBunch(1, 1, v)

	rb, err := eng.TrackCopy(b)
	require.NoError(t, err)

	assert.InDelta(t, 0.1, rb.First()[phasespace.X], 1e-15)
	assert.Zero(t, b.First()[phasespace.X], "input bunch must not be advanced")
}

func TestTrackSubSegment(t *testing.T) {
	eng := NewLinearEngine()
	d := driftLine(1.0, 1.0, 1.0)
	require.NoError(t, eng.SetSegment(d, lattice.Segment{First: 1, Last: 2}))

	v := phasespace.Vector{}
	v[phasespace.XP] = 0.5
	b := phasespace.NewBunch(1, 1, v)

	require.NoError(t, eng.Track(b))
	assert.InDelta(t, 1.0, b.First()[phasespace.X], 1e-15)
}

func TestMonitorRecordsReferenceRay(t *testing.T) {
	eng := NewLinearEngine()
	bpm := lattice.Monitor("M1")
	d := lattice.NewDesign("line", lattice.Drift("D1", 2.0), bpm)
	require.NoError(t, eng.SetSegment(d, fullSegment(t, d)))

	v := phasespace.Vector{}
	v[phasespace.XP] = 0.1
	v[phasespace.Y] = -0.4
	require.NoError(t, eng.Track(phasespace.NewBunch(1, 1, v)))

	assert.InDelta(t, 0.2, bpm.Attr(lattice.AttrReadX), 1e-15)
	assert.InDelta(t, -0.4, bpm.Attr(lattice.AttrReadY), 1e-15)
}

func TestMonitorRecordingToggle(t *testing.T) {
	eng := NewLinearEngine()
	bpm := lattice.Monitor("M1")
	d := lattice.NewDesign("line", lattice.Drift("D1", 1.0), bpm)
	require.NoError(t, eng.SetSegment(d, fullSegment(t, d)))

	v := phasespace.Vector{}
	v[phasespace.XP] = 0.1

	// With recording off the model stays untouched.
	eng.SetMonitorRecording(false)
	require.NoError(t, eng.Track(phasespace.NewBunch(1, 1, v)))
	assert.Zero(t, bpm.Attr(lattice.AttrReadX))

	eng.SetMonitorRecording(true)
	require.NoError(t, eng.Track(phasespace.NewBunch(1, 1, v)))
	assert.InDelta(t, 0.1, bpm.Attr(lattice.AttrReadX), 1e-15)
}

func TestStepper(t *testing.T) {
	eng := NewLinearEngine()
	d := driftLine(1.0, 2.0)
	require.NoError(t, eng.SetSegment(d, fullSegment(t, d)))

	v := phasespace.Vector{}
	v[phasespace.XP] = 0.1
	st, err := eng.NewStepper(phasespace.NewBunch(1, 1, v))
	require.NoError(t, err)

	assert.Equal(t, 1.0, st.ComponentLength())
	assert.True(t, st.Step())
	assert.InDelta(t, 0.1, st.Bunch().First()[phasespace.X], 1e-15)

	assert.Equal(t, 2.0, st.ComponentLength())
	assert.False(t, st.Step())
	assert.InDelta(t, 0.3, st.Bunch().First()[phasespace.X], 1e-15)

	// Exhausted stepper.
	assert.False(t, st.Step())
	assert.Zero(t, st.ComponentLength())
}

// recordProcess records the order in which processes fire.
type recordProcess struct {
	name     string
	priority int
	log      *[]string
}

func (p *recordProcess) Name() string                 { return p.name }
func (p *recordProcess) Priority() int                { return p.priority }
func (p *recordProcess) Steps(*lattice.Element) int   { return 1 }
func (p *recordProcess) Apply(*phasespace.Bunch, *lattice.Element, float64) {
	*p.log = append(*p.log, p.name)
}

func TestProcessOrderingAndRemoval(t *testing.T) {
	eng := NewLinearEngine()
	d := driftLine(1.0)
	require.NoError(t, eng.SetSegment(d, fullSegment(t, d)))

	var log []string
	second := &recordProcess{name: "second", priority: 2, log: &log}
	first := &recordProcess{name: "first", priority: 1, log: &log}

	eng.AddProcess(second)
	eng.AddProcess(first)
	require.Len(t, eng.Processes(), 2)

	require.NoError(t, eng.Track(phasespace.NewBunch(1, 1, phasespace.Vector{})))
	assert.Equal(t, []string{"first", "second"}, log)

	eng.RemoveProcess(first)
	procs := eng.Processes()
	require.Len(t, procs, 1)
	assert.Equal(t, "second", procs[0].Name())
}
