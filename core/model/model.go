// Package model defines the training and prediction contracts shared by
// every algorithm in the library.
//
// A Trainer consumes a dataset and produces an immutable Model. Models are
// safe for unsynchronized concurrent Predict calls. The type parameter ties
// a trainer, its models, and their predictions to one output type, so a
// multi-label ensemble cannot accidentally be fed a regression model.
package model

import (
	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/pkg/errors"
)

// Trainer builds a model from a dataset. Implementations may keep internal
// RNG state; Train must be safe to call concurrently on one instance.
type Trainer[T data.Output] interface {
	// Train builds a model. The dataset is read but not retained.
	Train(ds *data.Dataset[T]) (Model[T], error)

	// Name returns the trainer's class name for provenance and logging.
	Name() string
}

// Model is an immutable trained predictor.
type Model[T data.Output] interface {
	// Predict scores a single example.
	Predict(ex data.Example[T]) (*Prediction[T], error)

	// Name returns the model's class name.
	Name() string

	// Provenance describes how the model was trained.
	Provenance() Provenance
}

// Prediction carries a resolved output, the per-dimension score map, and
// feature-usage accounting.
type Prediction[T data.Output] struct {
	// Output is the resolved answer.
	Output T

	// Scores maps output dimension names to scores. Which dimensions are
	// present and how scores are normalized is model-specific.
	Scores map[string]float64

	// NumActiveFeatures is how many of the example's features the model
	// actually used.
	NumActiveFeatures int

	// NumExampleFeatures is how many features the example carried.
	NumExampleFeatures int
}

// Explainer is implemented by models that can attribute a prediction to
// input features. Models without an attribution method return
// errors.ErrNotImplemented from Explain rather than omitting the method,
// so callers can probe support uniformly.
type Explainer[T data.Output] interface {
	Explain(ex data.Example[T]) ([]data.Feature, error)
}

// NotImplementedExplain is a shared Explain stub for models whose
// attribution semantics are undefined.
func NotImplementedExplain[T data.Output](data.Example[T]) ([]data.Feature, error) {
	return nil, errors.ErrNotImplemented
}
