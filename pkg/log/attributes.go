// Package log defines standard attribute keys for training and prediction
// operations.
//
// Using these keys consistently keeps the JSON logs of long ensemble
// training runs filterable: every record of one run carries the trainer
// name, the operation, and the shape of the data it saw.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model or trainer type.
	// Examples: "ClassifierChainTrainer", "IndependentMultiLabelTrainer"
	ModelNameKey = "model.name"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "multilabel", "chain", "ensemble"
	ComponentKey = "ml.component"

	// OperationKey specifies the operation being performed.
	// Standard values: "train", "predict", "combine"
	OperationKey = "ml.operation"
)

// Data shape.
const (
	// SamplesKey is the number of examples in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the size of the feature domain.
	FeaturesKey = "data.features"

	// LabelsKey is the size of the label domain.
	LabelsKey = "data.labels"
)

// Ensemble context.
const (
	// ChainPositionKey is the index into the resolved label order that a
	// record refers to.
	ChainPositionKey = "chain.position"

	// ChainLabelKey is the label trained or predicted at that position.
	ChainLabelKey = "chain.label"

	// InvocationKey is the trainer invocation count at the time a training
	// run started; together with the seed it identifies the RNG stream.
	InvocationKey = "trainer.invocation"

	// SeedKey is the trainer's base RNG seed.
	SeedKey = "trainer.seed"

	// MembersKey is the number of ensemble members feeding a combiner.
	MembersKey = "ensemble.members"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
