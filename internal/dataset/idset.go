package dataset

import "sort"

// IDSet is a set of curve ids.
type IDSet map[ID]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...ID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Add(id ID) {
	s[id] = struct{}{}
}

func (s IDSet) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Union returns a new set with the members of s and other.
func (s IDSet) Union(other IDSet) IDSet {
	u := s.Clone()
	for id := range other {
		u[id] = struct{}{}
	}
	return u
}

// Slice returns the members in ascending order.
func (s IDSet) Slice() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
