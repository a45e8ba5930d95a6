package data

import (
	"github.com/gomlkit/gomlkit/pkg/errors"
)

// OutputInfo tracks the output domain of a dataset: a dense id per output
// dimension name (assigned in first-seen order), per-name occurrence
// counts, and the number of examples carrying the unknown-output sentinel.
//
// The first-seen id order is load-bearing: ensemble combiners resolve score
// ties in favor of the lowest id.
type OutputInfo[T Output] interface {
	Observe(out T) error
	Reset()
	Size() int
	Names() []string
	ID(name string) (int, bool)
	Count(name string) int
	UnknownCount() int

	// Fresh returns an empty OutputInfo of the same concrete type.
	Fresh() OutputInfo[T]
}

// Summary is a compact dataset description attached to model provenance.
type Summary struct {
	Description  string
	NumExamples  int
	NumFeatures  int
	NumOutputs   int
	UnknownCount int
}

// Dataset is an in-memory collection of examples together with its feature
// and output domain statistics.
type Dataset[T Output] struct {
	description string
	examples    []Example[T]
	features    FeatureDomain
	outputs     OutputInfo[T]
}

// NewDataset creates an empty dataset using info to track the output
// domain.
func NewDataset[T Output](description string, info OutputInfo[T]) *Dataset[T] {
	return &Dataset[T]{
		description: description,
		features:    NewMutableFeatureMap(),
		outputs:     info,
	}
}

// Add appends an example, observing its output and features into the
// domain statistics.
func (d *Dataset[T]) Add(ex Example[T]) error {
	if err := d.outputs.Observe(ex.Output()); err != nil {
		return err
	}
	for _, f := range ex.Features() {
		d.features.Observe(f.Name)
	}
	d.examples = append(d.examples, ex)
	return nil
}

// Examples returns the backing example slice in insertion order.
func (d *Dataset[T]) Examples() []Example[T] {
	return d.examples
}

// Len returns the number of examples.
func (d *Dataset[T]) Len() int {
	return len(d.examples)
}

// Description returns the dataset description.
func (d *Dataset[T]) Description() string {
	return d.description
}

// FeatureMap returns the feature domain.
func (d *Dataset[T]) FeatureMap() FeatureDomain {
	return d.features
}

// SetFeatureMap replaces the feature domain. Used by transforms that
// re-key the feature space, such as Hash.
func (d *Dataset[T]) SetFeatureMap(fm FeatureDomain) {
	d.features = fm
}

// OutputInfo returns the output domain statistics.
func (d *Dataset[T]) OutputInfo() OutputInfo[T] {
	return d.outputs
}

// RegenerateInfo rebuilds the feature and output domain statistics from the
// current examples. Callers that mutate examples in place (the chain
// trainer relabels and extends its working set at every position) must
// regenerate before handing the dataset to a trainer.
func (d *Dataset[T]) RegenerateInfo() {
	if !d.features.Hashed() {
		d.features = NewMutableFeatureMap()
	}
	d.outputs.Reset()
	for _, ex := range d.examples {
		// Observe errors can only arise from malformed outputs, which Add
		// already rejected.
		_ = d.outputs.Observe(ex.Output())
		for _, f := range ex.Features() {
			d.features.Observe(f.Name)
		}
	}
}

// Summary captures the dataset's shape for provenance.
func (d *Dataset[T]) Summary() Summary {
	return Summary{
		Description:  d.description,
		NumExamples:  len(d.examples),
		NumFeatures:  d.features.Size(),
		NumOutputs:   d.outputs.Size(),
		UnknownCount: d.outputs.UnknownCount(),
	}
}

// Hash applies an irreversible feature-hashing transform, returning a new
// dataset whose examples carry bucket features and whose feature domain is
// a HashedFeatureMap with dim buckets. The input dataset is not modified.
func Hash[T Output](d *Dataset[T], dim int) (*Dataset[T], error) {
	if dim <= 0 {
		return nil, errors.NewInvalidArgumentError("data.Hash", "bucket count must be positive", dim)
	}

	hashed := NewHashedFeatureMap(dim)
	out := &Dataset[T]{
		description: d.description,
		features:    hashed,
		outputs:     d.outputs.Fresh(),
	}
	for _, ex := range d.examples {
		fs := make([]Feature, 0, ex.Size())
		for _, f := range ex.Features() {
			fs = append(fs, Feature{Name: hashed.BucketName(hashed.HashBucket(f.Name)), Value: f.Value})
		}
		hex := NewListExample(ex.Output(), fs)
		hex.SetWeight(ex.Weight())
		if err := out.Add(hex); err != nil {
			return nil, err
		}
	}
	return out, nil
}
