package data

import (
	"sort"
)

// Output is implemented by prediction target types: a single classification
// label, a multi-label set, and so on. Equal compares identity of the
// predicted value, not any attached confidence scores.
type Output interface {
	String() string
	Equal(other Output) bool
}

// Example is the read contract over one training or inference instance.
// Features are reported in name order.
type Example[T Output] interface {
	Output() T
	Weight() float64
	Features() []Feature
	Lookup(name string) (Feature, bool)
	Size() int
}

// MutableExample is the structural mutation surface of an example. Views
// that share feature storage with another example implement it by failing
// fast; see multilabel.BinaryExample.
type MutableExample[T Output] interface {
	Example[T]
	AddFeature(f Feature) error
	Sort() error
	RemoveFeatures(names ...string) error
	Densify(names []string) error
}

// ListExample is the standard Example implementation: an owned, name-sorted
// feature list plus one output and a weight.
type ListExample[T Output] struct {
	features []Feature
	output   T
	weight   float64
}

// NewListExample copies fs into a new example. Duplicate names are merged
// by summing their values.
func NewListExample[T Output](output T, fs []Feature) *ListExample[T] {
	owned := make([]Feature, len(fs))
	copy(owned, fs)
	return &ListExample[T]{
		features: sortFeatures(owned),
		output:   output,
		weight:   1.0,
	}
}

// Output returns the example's ground-truth output.
func (e *ListExample[T]) Output() T {
	return e.output
}

// SetOutput replaces the example's output.
func (e *ListExample[T]) SetOutput(output T) {
	e.output = output
}

// Weight returns the example weight (1.0 unless set).
func (e *ListExample[T]) Weight() float64 {
	return e.weight
}

// SetWeight sets the example weight.
func (e *ListExample[T]) SetWeight(w float64) {
	e.weight = w
}

// Features returns the features in name order. The returned slice is the
// example's own storage; callers must not modify it.
func (e *ListExample[T]) Features() []Feature {
	return e.features
}

// Lookup finds the feature with the given name.
func (e *ListExample[T]) Lookup(name string) (Feature, bool) {
	i := sort.Search(len(e.features), func(i int) bool { return e.features[i].Name >= name })
	if i < len(e.features) && e.features[i].Name == name {
		return e.features[i], true
	}
	return Feature{}, false
}

// Size returns the number of features.
func (e *ListExample[T]) Size() int {
	return len(e.features)
}

// AddFeature inserts a feature, keeping the list name-sorted. Adding an
// already-present name merges values.
func (e *ListExample[T]) AddFeature(f Feature) error {
	e.features = sortFeatures(append(e.features, f))
	return nil
}

// Sort re-sorts the feature list. A ListExample is always sorted, so this
// is a no-op kept for the MutableExample contract.
func (e *ListExample[T]) Sort() error {
	e.features = sortFeatures(e.features)
	return nil
}

// RemoveFeatures drops the named features if present.
func (e *ListExample[T]) RemoveFeatures(names ...string) error {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := e.features[:0]
	for _, f := range e.features {
		if !drop[f.Name] {
			kept = append(kept, f)
		}
	}
	e.features = kept
	return nil
}

// Densify adds an explicit zero-valued feature for every name in names that
// the example does not already carry.
func (e *ListExample[T]) Densify(names []string) error {
	for _, n := range names {
		if _, ok := e.Lookup(n); !ok {
			e.features = append(e.features, Feature{Name: n})
		}
	}
	e.features = sortFeatures(e.features)
	return nil
}

// Copy returns a deep copy of the example.
func (e *ListExample[T]) Copy() *ListExample[T] {
	fs := make([]Feature, len(e.features))
	copy(fs, e.features)
	return &ListExample[T]{features: fs, output: e.output, weight: e.weight}
}
