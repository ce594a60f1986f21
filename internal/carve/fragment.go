// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package carve

import "sort"

// Fragment is a single detection event: a signature occurrence at an
// absolute device offset, annotated with the Shannon entropy of its
// surrounding window. Value object; never mutated after creation.
type Fragment struct {
	Offset  uint64
	Length  uint16
	Kind    FragmentKind
	Entropy float32
}

// Viable reports whether a header fragment's entropy is consistent with
// compressed image payload immediately following it.
func (f Fragment) Viable() bool {
	return f.Entropy >= ViableEntropyThreshold
}

// FragmentMap is an insertion-ordered, append-only collection of
// Fragments partitioned by FragmentKind. Per-kind sequences are always
// sorted by offset (the scanner visits offsets monotonically) and contain
// no duplicate (offset, kind) pairs.
type FragmentMap struct {
	byKind map[FragmentKind][]Fragment
	seen   map[fragmentKey]struct{}
}

type fragmentKey struct {
	offset uint64
	kind   FragmentKind
}

// NewFragmentMap returns an empty FragmentMap.
func NewFragmentMap() *FragmentMap {
	return &FragmentMap{
		byKind: make(map[FragmentKind][]Fragment),
		seen:   make(map[fragmentKey]struct{}),
	}
}

// Push appends f, rejecting duplicates at the same (offset, kind). O(1)
// amortized; callers must push in non-decreasing offset order per kind to
// preserve the sorted invariant (the scanner does this by construction).
func (m *FragmentMap) Push(f Fragment) bool {
	key := fragmentKey{offset: f.Offset, kind: f.Kind}
	if _, dup := m.seen[key]; dup {
		return false
	}
	m.seen[key] = struct{}{}
	m.byKind[f.Kind] = append(m.byKind[f.Kind], f)
	return true
}

// Iter returns the fragments of the given kind, in offset order.
func (m *FragmentMap) Iter(kind FragmentKind) []Fragment {
	return m.byKind[kind]
}

// Viable returns the fragments of kind whose entropy clears
// ViableEntropyThreshold, preserving offset order.
func (m *FragmentMap) Viable(kind FragmentKind) []Fragment {
	all := m.byKind[kind]
	out := make([]Fragment, 0, len(all))
	for _, f := range all {
		if f.Viable() {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the total number of fragments across all kinds.
func (m *FragmentMap) Len() int {
	return len(m.seen)
}

// Merge appends other's fragments into m, re-sorting each touched kind and
// deduplicating by (offset, kind). Used to reconcile FragmentMaps produced
// by independent parallel-scan stripes.
func (m *FragmentMap) Merge(other *FragmentMap) {
	for kind, fragments := range other.byKind {
		for _, f := range fragments {
			m.Push(f)
		}
		sort.Slice(m.byKind[kind], func(i, j int) bool {
			return m.byKind[kind][i].Offset < m.byKind[kind][j].Offset
		})
	}
}
