package tracker

import (
	"errors"

	"github.com/accelwork/orbit/lattice"
	"github.com/accelwork/orbit/phasespace"
)

// ErrNoSegment is returned when tracking is requested before a segment has
// been selected on the engine.
var ErrNoSegment = errors.New("tracker: no segment selected")

// Engine advances particle bunches through a beamline segment, applying the
// registered processes as it goes. Engines are stateful (current segment,
// process list) and must be used by one caller at a time.
type Engine interface {
	// SetSegment selects the beamline sub-range that subsequent tracking
	// calls traverse.
	SetSegment(m lattice.Model, seg lattice.Segment) error

	// Track advances the bunch in place through the current segment.
	Track(b *phasespace.Bunch) error

	// TrackCopy tracks a copy of the bunch through the current segment and
	// returns the copy; the input bunch is left untouched.
	TrackCopy(b *phasespace.Bunch) (*phasespace.Bunch, error)

	// NewStepper returns an element-at-a-time stepper over the current
	// segment, tracking the given bunch in place.
	NewStepper(b *phasespace.Bunch) (Stepper, error)

	// SetMonitorRecording toggles whether monitors record the reference ray
	// during tracking. Recording is on by default; diagnostic passes that
	// probe the transfer map without physically advancing the beam turn it
	// off so they never write to the lattice model.
	SetMonitorRecording(flag bool)

	// AddProcess registers a process. Processes run in ascending priority
	// order during element traversal.
	AddProcess(p Process)

	// RemoveProcess unregisters a previously added process.
	RemoveProcess(p Process)

	// Processes returns the registered processes in application order.
	Processes() []Process
}

// Stepper advances a bunch one element at a time.
type Stepper interface {
	// ComponentLength returns the length of the element about to be stepped.
	ComponentLength() float64

	// Step tracks the bunch through the current element and reports whether
	// more elements remain.
	Step() bool

	// Bunch returns the bunch being stepped.
	Bunch() *phasespace.Bunch
}
