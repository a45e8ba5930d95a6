package classification

import (
	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/core/model"
	"github.com/gomlkit/gomlkit/pkg/errors"
)

// MostFrequentTrainer is a baseline that always predicts the most common
// training label. Count ties resolve to the lowest label id so the
// baseline is deterministic.
type MostFrequentTrainer struct{}

// NewMostFrequentTrainer creates the baseline trainer.
func NewMostFrequentTrainer() *MostFrequentTrainer {
	return &MostFrequentTrainer{}
}

// Name returns the trainer's class name.
func (t *MostFrequentTrainer) Name() string {
	return "MostFrequentTrainer"
}

// Train counts the label distribution and freezes it into a model.
func (t *MostFrequentTrainer) Train(ds *data.Dataset[Label]) (model.Model[Label], error) {
	const op = "MostFrequentTrainer.Train"
	if ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	info := ds.OutputInfo()
	if info.UnknownCount() > 0 {
		return nil, errors.NewInvalidArgumentError(op, "dataset contains unlabeled examples", info.UnknownCount())
	}
	names := info.Names()
	if len(names) == 0 {
		return nil, errors.NewInvalidArgumentError(op, "dataset has an empty label domain", nil)
	}

	total := 0
	for _, name := range names {
		total += info.Count(name)
	}
	scores := make(map[string]float64, len(names))
	best := names[0]
	for _, name := range names {
		scores[name] = float64(info.Count(name)) / float64(total)
		if info.Count(name) > info.Count(best) {
			best = name
		}
	}

	return &mostFrequentModel{
		output:     NewScored(best, scores[best]),
		scores:     scores,
		provenance: model.NewProvenance(t.Name(), nil, ds.Summary(), 0),
	}, nil
}

type mostFrequentModel struct {
	output     Label
	scores     map[string]float64
	provenance model.Provenance
}

func (m *mostFrequentModel) Name() string {
	return "MostFrequentModel"
}

func (m *mostFrequentModel) Provenance() model.Provenance {
	return m.provenance
}

func (m *mostFrequentModel) Predict(ex data.Example[Label]) (*model.Prediction[Label], error) {
	return &model.Prediction[Label]{
		Output:             m.output,
		Scores:             m.scores,
		NumActiveFeatures:  0,
		NumExampleFeatures: ex.Size(),
	}, nil
}
