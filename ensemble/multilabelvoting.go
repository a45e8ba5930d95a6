package ensemble

import (
	"github.com/gomlkit/gomlkit/classification"
	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/core/model"
	"github.com/gomlkit/gomlkit/multilabel"
)

// MultiLabelVotingCombiner merges multi-label predictions dimension by
// dimension. Each member's score for a dimension is thresholded at 0.5 to
// a positive or negative vote carrying the member's weight; a dimension is
// in the combined output iff the positive share of the vote mass exceeds
// 0.5. The per-dimension confidence is that positive share.
type MultiLabelVotingCombiner struct{}

// Combine merges predictions with equal weights.
func (MultiLabelVotingCombiner) Combine(info data.OutputInfo[multilabel.MultiLabel], preds []*model.Prediction[multilabel.MultiLabel]) (*model.Prediction[multilabel.MultiLabel], error) {
	return MultiLabelVotingCombiner{}.CombineWeighted(info, preds, nil)
}

// CombineWeighted merges predictions with explicit weights. The weight
// vector length must match the prediction count.
func (MultiLabelVotingCombiner) CombineWeighted(info data.OutputInfo[multilabel.MultiLabel], preds []*model.Prediction[multilabel.MultiLabel], weights []float64) (*model.Prediction[multilabel.MultiLabel], error) {
	const op = "MultiLabelVotingCombiner.Combine"
	weights, _, err := checkWeights(op, len(preds), weights)
	if err != nil {
		return nil, err
	}

	var included []classification.Label
	scores := make(map[string]float64, info.Size())
	for _, name := range info.Names() {
		var pos, neg float64
		for i, p := range preds {
			if p.Scores[name] > 0.5 {
				pos += weights[i]
			} else {
				neg += weights[i]
			}
		}
		share := pos / (pos + neg)
		scores[name] = share
		if share > 0.5 {
			included = append(included, classification.NewScored(name, share))
		}
	}

	out, err := multilabel.New(included...)
	if err != nil {
		return nil, err
	}
	active, total := maxActive(preds)
	return &model.Prediction[multilabel.MultiLabel]{
		Output:             out,
		Scores:             scores,
		NumActiveFeatures:  active,
		NumExampleFeatures: total,
	}, nil
}
