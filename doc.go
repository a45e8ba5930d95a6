// Package gomlkit provides training, prediction, and evaluation
// abstractions for machine learning in Go, centered on multi-label
// classification ensembles.
//
// # Design
//
// Trainers consume datasets of named sparse features and produce immutable
// models; models are safe for concurrent prediction. Multi-label problems
// are reduced to binary classification two ways:
//
//   - multilabel.IndependentMultiLabelTrainer trains one binary classifier
//     per label, independently (binary relevance).
//   - multilabel/chain.Trainer trains the classifiers in sequence, feeding
//     each position's outcome forward as a feature (classifier chains).
//
// The ensemble package merges several models' predictions with voting
// combiners.
//
// # Quick start
//
//	inner, _ := classification.NewLogisticTrainer(classification.WithSeed(42))
//	trainer, _ := chain.NewTrainer(inner, chain.WithRandomOrder(42))
//
//	ds := data.NewDataset[multilabel.MultiLabel]("train", multilabel.NewInfo())
//	// ... add examples ...
//
//	m, err := trainer.Train(ds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pred, err := m.Predict(example)
//
// # Packages
//
//   - core/data: features, examples, datasets, domain statistics
//   - core/model: trainer/model/prediction contracts and provenance
//   - core/rng: seeded splittable RNG with invocation replay
//   - core/parallel: index-range parallelism
//   - classification: single-label outputs and binary trainers
//   - multilabel: multi-label outputs, binary relevance, classifier chains
//   - ensemble: voting combiners
//   - metrics: evaluation metrics
package gomlkit
