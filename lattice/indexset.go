package lattice

import "github.com/RoaringBitmap/roaring/v2"

// IndexSet is a set of beamline element indices.
type IndexSet struct {
	bm *roaring.Bitmap
}

// NewIndexSet creates an empty index set.
func NewIndexSet() IndexSet {
	return IndexSet{bm: roaring.New()}
}

// Add inserts index i into the set.
func (s IndexSet) Add(i int) { s.bm.Add(uint32(i)) }

// Contains reports whether index i is in the set.
func (s IndexSet) Contains(i int) bool { return s.bm.Contains(uint32(i)) }

// Len returns the number of indices in the set.
func (s IndexSet) Len() int { return int(s.bm.GetCardinality()) }

// Indices returns the indices in ascending order.
func (s IndexSet) Indices() []int {
	out := make([]int, 0, s.bm.GetCardinality())
	it := s.bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Intersect returns the intersection of s and t.
func (s IndexSet) Intersect(t IndexSet) IndexSet {
	return IndexSet{bm: roaring.And(s.bm, t.bm)}
}
