package wfc

// Frontier is the set of cell indices that are neither resolved nor known
// to be contradictory. Iteration is always in ascending index order so
// every scan over it is deterministic.
type Frontier struct {
	member []bool
	count  int
}

// NewFrontier creates a frontier holding every index in [0, n)
func NewFrontier(n int) *Frontier {
	f := &Frontier{member: make([]bool, n), count: n}
	for i := range f.member {
		f.member[i] = true
	}
	return f
}

// Len returns the number of indices still in the frontier
func (f *Frontier) Len() int {
	return f.count
}

// Empty reports whether the frontier has no indices left
func (f *Frontier) Empty() bool {
	return f.count == 0
}

// Contains reports whether i is in the frontier
func (f *Frontier) Contains(i int) bool {
	return i >= 0 && i < len(f.member) && f.member[i]
}

// Remove drops i from the frontier. Removing an absent index is a no-op.
func (f *Frontier) Remove(i int) {
	if f.Contains(i) {
		f.member[i] = false
		f.count--
	}
}

// Nth returns the k-th smallest index in the frontier (0-based).
func (f *Frontier) Nth(k int) (int, bool) {
	for i, ok := range f.member {
		if !ok {
			continue
		}
		if k == 0 {
			return i, true
		}
		k--
	}
	return 0, false
}

// Each calls fn for every index in ascending order
func (f *Frontier) Each(fn func(i int)) {
	for i, ok := range f.member {
		if ok {
			fn(i)
		}
	}
}
