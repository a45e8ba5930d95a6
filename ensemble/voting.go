// Package ensemble provides combiners that merge the predictions of
// several models into one. Combiners are pure functions over their inputs:
// they hold no state and are safe to call concurrently.
package ensemble

import (
	"gonum.org/v1/gonum/floats"

	"github.com/gomlkit/gomlkit/classification"
	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/core/model"
	"github.com/gomlkit/gomlkit/pkg/errors"
)

// checkWeights validates an optional weight vector against the member
// count. A nil vector means equal weights.
func checkWeights(op string, members int, weights []float64) ([]float64, float64, error) {
	if members == 0 {
		return nil, 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if weights == nil {
		weights = make([]float64, members)
		for i := range weights {
			weights[i] = 1.0
		}
	}
	if len(weights) != members {
		return nil, 0, errors.NewInvalidArgumentError(op, "weights length must match predictions length", len(weights))
	}
	if floats.Min(weights) < 0 {
		return nil, 0, errors.NewInvalidArgumentError(op, "weights must be non-negative", floats.Min(weights))
	}
	sum := floats.Sum(weights)
	if sum == 0 {
		return nil, 0, errors.NewInvalidArgumentError(op, "weights must not all be zero", nil)
	}
	return weights, sum, nil
}

// resolve picks the highest-scoring dimension, iterating in dense id order
// so exact ties deterministically go to the lowest id.
func resolve(names []string, scores map[string]float64) (string, float64) {
	best := names[0]
	for _, name := range names[1:] {
		if scores[name] > scores[best] {
			best = name
		}
	}
	return best, scores[best]
}

func maxActive[T data.Output](preds []*model.Prediction[T]) (active, total int) {
	for _, p := range preds {
		if p.NumActiveFeatures > active {
			active = p.NumActiveFeatures
		}
		if p.NumExampleFeatures > total {
			total = p.NumExampleFeatures
		}
	}
	return active, total
}

// VotingCombiner merges single-label predictions by plurality vote: each
// member contributes its resolved label with its (normalized) weight.
type VotingCombiner struct{}

// Combine merges predictions with equal weights.
func (VotingCombiner) Combine(info data.OutputInfo[classification.Label], preds []*model.Prediction[classification.Label]) (*model.Prediction[classification.Label], error) {
	return VotingCombiner{}.CombineWeighted(info, preds, nil)
}

// CombineWeighted merges predictions with explicit weights. The weight
// vector length must match the prediction count.
func (VotingCombiner) CombineWeighted(info data.OutputInfo[classification.Label], preds []*model.Prediction[classification.Label], weights []float64) (*model.Prediction[classification.Label], error) {
	const op = "VotingCombiner.Combine"
	weights, sum, err := checkWeights(op, len(preds), weights)
	if err != nil {
		return nil, err
	}

	names := info.Names()
	scores := make(map[string]float64, len(names))
	for _, name := range names {
		scores[name] = 0
	}
	for i, p := range preds {
		scores[p.Output.Name()] += weights[i] / sum
	}

	best, score := resolve(names, scores)
	active, total := maxActive(preds)
	return &model.Prediction[classification.Label]{
		Output:             classification.NewScored(best, score),
		Scores:             scores,
		NumActiveFeatures:  active,
		NumExampleFeatures: total,
	}, nil
}

// FullyWeightedVotingCombiner merges single-label predictions using each
// member's entire score distribution rather than only its top label.
type FullyWeightedVotingCombiner struct{}

// Combine merges predictions with equal weights.
func (FullyWeightedVotingCombiner) Combine(info data.OutputInfo[classification.Label], preds []*model.Prediction[classification.Label]) (*model.Prediction[classification.Label], error) {
	return FullyWeightedVotingCombiner{}.CombineWeighted(info, preds, nil)
}

// CombineWeighted merges predictions with explicit weights, normalizing by
// the total weight mass.
func (FullyWeightedVotingCombiner) CombineWeighted(info data.OutputInfo[classification.Label], preds []*model.Prediction[classification.Label], weights []float64) (*model.Prediction[classification.Label], error) {
	const op = "FullyWeightedVotingCombiner.Combine"
	weights, sum, err := checkWeights(op, len(preds), weights)
	if err != nil {
		return nil, err
	}

	names := info.Names()
	scores := make(map[string]float64, len(names))
	for _, name := range names {
		var mass float64
		for i, p := range preds {
			mass += weights[i] * p.Scores[name]
		}
		scores[name] = mass / sum
	}

	best, score := resolve(names, scores)
	active, total := maxActive(preds)
	return &model.Prediction[classification.Label]{
		Output:             classification.NewScored(best, score),
		Scores:             scores,
		NumActiveFeatures:  active,
		NumExampleFeatures: total,
	}, nil
}
