package lattice

import (
	"fmt"

	"github.com/tidwall/match"
)

// roChannelKeys lists the readable attribute keys published per keyword.
var roChannelKeys = map[string][]string{
	KeywordMonitor: {AttrReadX, AttrReadY},
}

// rwChannelKeys lists the writable attribute keys published per keyword.
var rwChannelKeys = map[string][]string{
	KeywordXCor: {AttrField},
	KeywordYCor: {AttrField},
}

// Design is an in-memory Model: a flat ordered list of elements.
type Design struct {
	name  string
	elems []*Element
}

var _ Model = (*Design)(nil)

// NewDesign creates a design with the given elements in beamline order.
func NewDesign(name string, elems ...*Element) *Design {
	return &Design{name: name, elems: elems}
}

// Name returns the design's name.
func (d *Design) Name() string { return d.name }

// Append adds elements to the end of the beamline.
func (d *Design) Append(elems ...*Element) {
	d.elems = append(d.elems, elems...)
}

// Len returns the number of elements.
func (d *Design) Len() int { return len(d.elems) }

// Beamline implements Model.
func (d *Design) Beamline() (Segment, error) {
	if len(d.elems) == 0 {
		return Segment{}, fmt.Errorf("%w: design %q is empty", ErrInvalidSegment, d.name)
	}
	return Segment{First: 0, Last: len(d.elems) - 1}, nil
}

// SubBeamline implements Model.
func (d *Design) SubBeamline(first, last int) (Segment, error) {
	seg, err := NewSegment(first, last)
	if err != nil {
		return Segment{}, err
	}
	if last >= len(d.elems) {
		return Segment{}, fmt.Errorf("%w: %v outside design %q of %d elements",
			ErrInvalidSegment, seg, d.name, len(d.elems))
	}
	return seg, nil
}

// Elements implements Model.
func (d *Design) Elements(seg Segment) ([]*Element, error) {
	if seg.First < 0 || seg.Last < seg.First || seg.Last >= len(d.elems) {
		return nil, fmt.Errorf("%w: %v outside design %q of %d elements",
			ErrInvalidSegment, seg, d.name, len(d.elems))
	}
	return d.elems[seg.First : seg.Last+1], nil
}

// ROChannels implements Model.
func (d *Design) ROChannels(seg Segment, pattern string) (ROChannelArray, error) {
	elems, err := d.Elements(seg)
	if err != nil {
		return nil, err
	}
	var out ROChannelArray
	for _, e := range elems {
		for _, key := range roChannelKeys[e.Keyword()] {
			ch := attrChannel{elem: e, key: key}
			if match.Match(ch.ID(), pattern) {
				out = append(out, ch)
			}
		}
	}
	return out, nil
}

// RWChannels implements Model.
func (d *Design) RWChannels(seg Segment, pattern string) (RWChannelArray, error) {
	elems, err := d.Elements(seg)
	if err != nil {
		return nil, err
	}
	var out RWChannelArray
	for _, e := range elems {
		for _, key := range rwChannelKeys[e.Keyword()] {
			ch := attrChannel{elem: e, key: key}
			if match.Match(ch.ID(), pattern) {
				out = append(out, ch)
			}
		}
	}
	return out, nil
}

// Indexes implements Model.
func (d *Design) Indexes(pattern string) IndexSet {
	set := NewIndexSet()
	for i, e := range d.elems {
		if match.Match(e.QualifiedName(), pattern) {
			set.Add(i)
		}
	}
	return set
}

// Extract implements Model. The result order is intentionally unspecified.
func (d *Design) Extract(keyword string) []Placed {
	byName := make(map[string][]Placed)
	for i, e := range d.elems {
		if e.Keyword() == keyword {
			byName[e.Name()] = append(byName[e.Name()], Placed{Index: i, Element: e})
		}
	}
	var out []Placed
	for _, ps := range byName {
		out = append(out, ps...)
	}
	return out
}
