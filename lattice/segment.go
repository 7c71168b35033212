package lattice

import (
	"errors"
	"fmt"
)

// ErrInvalidSegment is returned for degenerate or out-of-range element
// ranges, and for tracking requests over an empty or zero-length beamline.
var ErrInvalidSegment = errors.New("lattice: invalid segment")

// Segment identifies a contiguous sub-range of lattice element indices,
// inclusive on both ends.
type Segment struct {
	First int
	Last  int
}

// NewSegment validates and constructs a segment. First must be non-negative
// and not greater than last.
func NewSegment(first, last int) (Segment, error) {
	if first < 0 || last < first {
		return Segment{}, fmt.Errorf("%w: [%d, %d]", ErrInvalidSegment, first, last)
	}
	return Segment{First: first, Last: last}, nil
}

// Count returns the number of elements in the segment.
func (s Segment) Count() int { return s.Last - s.First + 1 }

// Contains reports whether element index i lies within the segment.
func (s Segment) Contains(i int) bool { return i >= s.First && i <= s.Last }

func (s Segment) String() string { return fmt.Sprintf("[%d, %d]", s.First, s.Last) }
