package tracker

import (
	"fmt"
	"sort"

	"github.com/accelwork/orbit/lattice"
	"github.com/accelwork/orbit/phasespace"
)

// LinearEngine transports bunches through the first-order maps of a lattice
// model. It is the reference Engine implementation: exact for linear
// lattices, with registered processes integrated in sub-steps at each
// element exit.
type LinearEngine struct {
	model  lattice.Model
	seg    lattice.Segment
	elems  []*lattice.Element
	procs  []Process
	record bool
}

var _ Engine = (*LinearEngine)(nil)

// NewLinearEngine creates an engine with no segment selected and monitor
// recording enabled.
func NewLinearEngine() *LinearEngine {
	return &LinearEngine{record: true}
}

// SetSegment implements Engine.
func (t *LinearEngine) SetSegment(m lattice.Model, seg lattice.Segment) error {
	elems, err := m.Elements(seg)
	if err != nil {
		return fmt.Errorf("tracker: select segment %v: %w", seg, err)
	}
	t.model = m
	t.seg = seg
	t.elems = elems
	return nil
}

// Segment returns the currently selected segment.
func (t *LinearEngine) Segment() lattice.Segment { return t.seg }

// SetMonitorRecording implements Engine.
func (t *LinearEngine) SetMonitorRecording(flag bool) { t.record = flag }

// AddProcess implements Engine.
func (t *LinearEngine) AddProcess(p Process) {
	t.procs = append(t.procs, p)
	sort.SliceStable(t.procs, func(i, j int) bool {
		return t.procs[i].Priority() < t.procs[j].Priority()
	})
}

// RemoveProcess implements Engine.
func (t *LinearEngine) RemoveProcess(p Process) {
	for i, q := range t.procs {
		if q == p {
			t.procs = append(t.procs[:i], t.procs[i+1:]...)
			return
		}
	}
}

// Processes implements Engine.
func (t *LinearEngine) Processes() []Process {
	out := make([]Process, len(t.procs))
	copy(out, t.procs)
	return out
}

// Track implements Engine.
func (t *LinearEngine) Track(b *phasespace.Bunch) error {
	if t.elems == nil {
		return ErrNoSegment
	}
	for _, e := range t.elems {
		t.trackElement(b, e)
	}
	return nil
}

// TrackCopy implements Engine.
func (t *LinearEngine) TrackCopy(b *phasespace.Bunch) (*phasespace.Bunch, error) {
	rb := b.Clone()
	if err := t.Track(rb); err != nil {
		return nil, err
	}
	return rb, nil
}

// NewStepper implements Engine.
func (t *LinearEngine) NewStepper(b *phasespace.Bunch) (Stepper, error) {
	if t.elems == nil {
		return nil, ErrNoSegment
	}
	return &linearStepper{engine: t, bunch: b}, nil
}

func (t *LinearEngine) trackElement(b *phasespace.Bunch, e *lattice.Element) {
	for i := 0; i < b.Len(); i++ {
		v := b.Particle(i)
		*v = e.Apply(*v)
	}

	// Monitors record the reference ray as it passes.
	if t.record && e.Keyword() == lattice.KeywordMonitor {
		ref := b.First()
		e.SetAttr(lattice.AttrReadX, ref[phasespace.X])
		e.SetAttr(lattice.AttrReadY, ref[phasespace.Y])
	}

	for _, p := range t.procs {
		n := p.Steps(e)
		if n < 1 {
			n = 1
		}
		ds := e.Length() / float64(n)
		for s := 0; s < n; s++ {
			p.Apply(b, e, ds)
		}
	}
}

type linearStepper struct {
	engine *LinearEngine
	bunch  *phasespace.Bunch
	next   int
}

func (s *linearStepper) ComponentLength() float64 {
	if s.next >= len(s.engine.elems) {
		return 0
	}
	return s.engine.elems[s.next].Length()
}

func (s *linearStepper) Step() bool {
	if s.next >= len(s.engine.elems) {
		return false
	}
	s.engine.trackElement(s.bunch, s.engine.elems[s.next])
	s.next++
	return s.next < len(s.engine.elems)
}

func (s *linearStepper) Bunch() *phasespace.Bunch { return s.bunch }
