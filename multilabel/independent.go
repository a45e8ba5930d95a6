package multilabel

import (
	"log/slog"

	"github.com/gomlkit/gomlkit/classification"
	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/core/model"
	"github.com/gomlkit/gomlkit/core/parallel"
	"github.com/gomlkit/gomlkit/pkg/errors"
	mllog "github.com/gomlkit/gomlkit/pkg/log"
)

// predictParallelThreshold is the label-domain size below which per-label
// sub-models are run inline rather than fanned out.
const predictParallelThreshold = 8

// IndependentMultiLabelTrainer decomposes an n-label problem into n
// independent binary problems and trains the supplied inner trainer on each
// one. Sub-models are trained over the label domain in dense id order, so
// runs over the same dataset are reproducible.
type IndependentMultiLabelTrainer struct {
	inner  model.Trainer[classification.Label]
	logger *slog.Logger
}

// NewIndependentMultiLabelTrainer creates the trainer. The inner binary
// trainer is required.
func NewIndependentMultiLabelTrainer(inner model.Trainer[classification.Label]) (*IndependentMultiLabelTrainer, error) {
	if inner == nil {
		return nil, errors.NewInvalidArgumentError("NewIndependentMultiLabelTrainer", "an inner trainer is required", nil)
	}
	t := &IndependentMultiLabelTrainer{inner: inner}
	t.logger = mllog.GetLoggerWithName(t.Name())
	return t, nil
}

// Name returns the trainer's class name.
func (t *IndependentMultiLabelTrainer) Name() string {
	return "IndependentMultiLabelTrainer"
}

// Train builds one binary sub-dataset per label in the domain and trains
// the inner trainer on each.
func (t *IndependentMultiLabelTrainer) Train(ds *data.Dataset[MultiLabel]) (model.Model[MultiLabel], error) {
	const op = "IndependentMultiLabelTrainer.Train"
	if ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	info := ds.OutputInfo()
	if info.UnknownCount() > 0 {
		return nil, errors.NewInvalidArgumentError(op, "dataset contains examples with unknown ground truth", info.UnknownCount())
	}
	labels := info.Names()
	if len(labels) == 0 {
		return nil, errors.NewInvalidArgumentError(op, "dataset has an empty label domain", nil)
	}

	prov := model.NewProvenance(t.Name(), map[string]interface{}{
		"inner_trainer": t.inner.Name(),
	}, ds.Summary(), 0)

	models := make([]model.Model[classification.Label], len(labels))
	for i, labelName := range labels {
		sub := data.NewDataset[classification.Label](ds.Description(), classification.NewLabelInfo())
		label := classification.New(labelName)
		positives := 0
		for _, ex := range ds.Examples() {
			bin := ex.Output().BinaryLabel(label)
			if !bin.Equal(NegativeLabel) {
				positives++
			}
			if err := sub.Add(NewBinaryExample(ex, bin)); err != nil {
				return nil, err
			}
		}
		switch positives {
		case 0:
			errors.Warn(errors.NewUnobservedLabelWarning(labelName, "positive"))
		case ds.Len():
			errors.Warn(errors.NewUnobservedLabelWarning(labelName, "negative"))
		}

		var sm model.Model[classification.Label]
		err := errors.SafeExecute(t.inner.Name()+".Train", func() error {
			var trainErr error
			sm, trainErr = t.inner.Train(sub)
			return trainErr
		})
		if err != nil {
			return nil, errors.Wrapf(err, "%s: training sub-model for label %q", op, labelName)
		}
		models[i] = sm

		t.logger.Debug("trained binary sub-model",
			slog.String(mllog.OperationKey, "train"),
			slog.String(mllog.ChainLabelKey, labelName),
			slog.Int(mllog.SamplesKey, sub.Len()),
		)
	}

	return &IndependentMultiLabelModel{
		labels:     labels,
		models:     models,
		provenance: prov,
	}, nil
}

// IndependentMultiLabelModel predicts each label dimension with its own
// binary sub-model. Immutable; safe for concurrent Predict calls.
type IndependentMultiLabelModel struct {
	labels     []string
	models     []model.Model[classification.Label]
	provenance model.Provenance
}

// Name returns the model's class name.
func (m *IndependentMultiLabelModel) Name() string {
	return "IndependentMultiLabelModel"
}

// Provenance describes the training run that produced this model.
func (m *IndependentMultiLabelModel) Provenance() model.Provenance {
	return m.provenance
}

// Labels returns the label domain in dense id order.
func (m *IndependentMultiLabelModel) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// Predict runs every per-label sub-model on ex. A label is in the output
// set iff its sub-model predicted something other than the negative
// sentinel. The reported active-feature count is the maximum across
// sub-models.
func (m *IndependentMultiLabelModel) Predict(ex data.Example[MultiLabel]) (*model.Prediction[MultiLabel], error) {
	bex := NewBinaryExample(ex, classification.Unknown)

	subPreds := make([]*model.Prediction[classification.Label], len(m.models))
	subErrs := make([]error, len(m.models))
	parallel.ParallelizeWithThreshold(len(m.models), predictParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			subPreds[i], subErrs[i] = m.models[i].Predict(bex)
		}
	})
	for i, err := range subErrs {
		if err != nil {
			return nil, errors.Wrapf(err, "IndependentMultiLabelModel.Predict: sub-model for label %q", m.labels[i])
		}
	}

	var predicted []classification.Label
	scores := make(map[string]float64, len(m.labels))
	maxActive := 0
	for i, labelName := range m.labels {
		p := subPreds[i]
		score := p.Scores[labelName]
		scores[labelName] = score
		if p.Output.Name() != NegativeLabelName {
			predicted = append(predicted, classification.NewScored(labelName, score))
		}
		if p.NumActiveFeatures > maxActive {
			maxActive = p.NumActiveFeatures
		}
	}

	out, err := New(predicted...)
	if err != nil {
		return nil, err
	}
	return &model.Prediction[MultiLabel]{
		Output:             out,
		Scores:             scores,
		NumActiveFeatures:  maxActive,
		NumExampleFeatures: ex.Size(),
	}, nil
}
