package lattice

// Placed is an element together with its beamline index. Extraction order is
// not guaranteed; callers that need beamline order must sort by Index.
type Placed struct {
	Index   int
	Element *Element
}

// Model is the beamline representation consumed by the tracking engine and
// the orbit finder. Implementations are not required to be safe for
// concurrent use.
type Model interface {
	// Beamline returns the segment spanning the whole model. It fails with
	// ErrInvalidSegment for an empty model.
	Beamline() (Segment, error)

	// SubBeamline returns the validated segment covering element indices
	// first through last. It fails with ErrInvalidSegment if the range is
	// degenerate or lies outside the model.
	SubBeamline(first, last int) (Segment, error)

	// Elements returns the ordered elements of the given segment. It fails
	// with ErrInvalidSegment if the segment lies outside the model.
	Elements(seg Segment) ([]*Element, error)

	// ROChannels returns the read-only channels within seg whose IDs match
	// the given glob pattern, in beamline order.
	ROChannels(seg Segment, pattern string) (ROChannelArray, error)

	// RWChannels returns the read-write channels within seg whose IDs match
	// the given glob pattern, in beamline order.
	RWChannels(seg Segment, pattern string) (RWChannelArray, error)

	// Indexes returns the set of element indices whose qualified names match
	// the given glob pattern.
	Indexes(pattern string) IndexSet

	// Extract returns every element with the given keyword, in no particular
	// order.
	Extract(keyword string) []Placed
}
