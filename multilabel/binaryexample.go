package multilabel

import (
	"sort"

	"github.com/gomlkit/gomlkit/classification"
	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/pkg/errors"
)

// BinaryExample presents a multi-label example as a single-label binary
// example without copying the wrapped feature list. It owns two pieces of
// mutable state: a replaceable binary label slot, and an append-only list
// of synthetic features layered on top of the wrapped example.
//
// Structural mutation of the inherited feature set is forbidden: Sort,
// RemoveFeatures and Densify fail with ImmutableViolationError rather than
// risking corruption of the shared underlying example.
type BinaryExample struct {
	inner data.Example[MultiLabel]
	label classification.Label
	extra []data.Feature
}

var _ data.MutableExample[classification.Label] = (*BinaryExample)(nil)

// NewBinaryExample wraps inner with the given binary label.
func NewBinaryExample(inner data.Example[MultiLabel], label classification.Label) *BinaryExample {
	return &BinaryExample{inner: inner, label: label}
}

// Output returns the current binary label.
func (e *BinaryExample) Output() classification.Label {
	return e.label
}

// SetLabel replaces the binary label slot. The wrapped example is
// untouched.
func (e *BinaryExample) SetLabel(l classification.Label) {
	e.label = l
}

// Inner returns the wrapped multi-label example.
func (e *BinaryExample) Inner() data.Example[MultiLabel] {
	return e.inner
}

// Weight returns the wrapped example's weight.
func (e *BinaryExample) Weight() float64 {
	return e.inner.Weight()
}

// Features returns the wrapped example's features merged with the appended
// synthetic features, in name order.
func (e *BinaryExample) Features() []data.Feature {
	inner := e.inner.Features()
	if len(e.extra) == 0 {
		return inner
	}
	merged := make([]data.Feature, 0, len(inner)+len(e.extra))
	merged = append(merged, inner...)
	merged = append(merged, e.extra...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged
}

// Lookup finds a feature by name in the appended list first, then in the
// wrapped example.
func (e *BinaryExample) Lookup(name string) (data.Feature, bool) {
	for _, f := range e.extra {
		if f.Name == name {
			return f, true
		}
	}
	return e.inner.Lookup(name)
}

// Size returns the wrapped feature count plus the appended feature count.
func (e *BinaryExample) Size() int {
	return e.inner.Size() + len(e.extra)
}

// AddFeature appends a synthetic feature to the adapter's own list.
func (e *BinaryExample) AddFeature(f data.Feature) error {
	e.extra = append(e.extra, f)
	return nil
}

// Sort fails: the inherited feature set cannot be structurally mutated.
func (e *BinaryExample) Sort() error {
	return errors.NewImmutableViolationError("Sort", "BinaryExample")
}

// RemoveFeatures fails: the inherited feature set cannot be structurally
// mutated.
func (e *BinaryExample) RemoveFeatures(...string) error {
	return errors.NewImmutableViolationError("RemoveFeatures", "BinaryExample")
}

// Densify fails: the inherited feature set cannot be structurally mutated.
func (e *BinaryExample) Densify([]string) error {
	return errors.NewImmutableViolationError("Densify", "BinaryExample")
}

// Copy returns a new adapter sharing the same wrapped example but with an
// independently mutable label slot and appended-feature list.
func (e *BinaryExample) Copy() *BinaryExample {
	extra := make([]data.Feature, len(e.extra))
	copy(extra, e.extra)
	return &BinaryExample{inner: e.inner, label: e.label, extra: extra}
}
