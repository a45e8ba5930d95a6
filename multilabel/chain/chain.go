// Package chain implements the Classifier Chain algorithm for multi-label
// classification.
//
// A chain trains one binary classifier per label in a fixed or randomized
// sequence; classifier i sees the outcomes of classifiers 0..i-1 as extra
// features. At training time those outcomes are the ground-truth labels; at
// prediction time they are the earlier classifiers' own predictions. The
// asymmetry is the algorithm (Read, Pfahringer, Holmes & Frank, "Classifier
// Chains for Multi-label Classification"), not an accident.
package chain

import (
	"log/slog"

	"github.com/gomlkit/gomlkit/classification"
	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/core/model"
	"github.com/gomlkit/gomlkit/core/rng"
	"github.com/gomlkit/gomlkit/multilabel"
	"github.com/gomlkit/gomlkit/pkg/errors"
	mllog "github.com/gomlkit/gomlkit/pkg/log"
)

// FeaturePrefix starts every synthetic chain feature name.
const FeaturePrefix = "CC##"

// FeatureName returns the chain feature injected after a position that
// resolved the given label positively or negatively. Chain features always
// carry value 1.0; absence of the feature is the third state.
func FeatureName(label string, positive bool) string {
	if positive {
		return FeaturePrefix + label + "##POSITIVE"
	}
	return FeaturePrefix + label + "##NEGATIVE"
}

// Trainer trains a classifier chain. The label order is either supplied
// explicitly or shuffled from a seeded RNG; in the random case every Train
// call splits a fresh RNG stream keyed by (seed, invocation count), so a
// pipeline can be reproduced or resumed via SetInvocationCount.
type Trainer struct {
	inner       model.Trainer[classification.Label]
	order       []string
	randomOrder bool
	seed        int64

	rng    *rng.Splittable
	logger *slog.Logger
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLabelOrder supplies an explicit label order. It must be a permutation
// of the training label domain; Train validates this.
func WithLabelOrder(order []string) Option {
	return func(t *Trainer) {
		t.order = make([]string, len(order))
		copy(t.order, order)
	}
}

// WithRandomOrder shuffles the label domain with the given seed instead of
// using an explicit order.
func WithRandomOrder(seed int64) Option {
	return func(t *Trainer) {
		t.randomOrder = true
		t.seed = seed
	}
}

// NewTrainer creates a chain trainer around the required inner binary
// trainer. Exactly one of WithLabelOrder and WithRandomOrder must be given;
// both and neither are configuration errors surfaced here, before any
// training can run.
func NewTrainer(inner model.Trainer[classification.Label], opts ...Option) (*Trainer, error) {
	const op = "chain.NewTrainer"
	t := &Trainer{inner: inner}
	for _, opt := range opts {
		opt(t)
	}
	if t.inner == nil {
		return nil, errors.NewInvalidArgumentError(op, "an inner trainer is required", nil)
	}
	if t.randomOrder && len(t.order) > 0 {
		return nil, errors.NewInvalidArgumentError(op, "supply either an explicit label order or a random order, not both", nil)
	}
	if !t.randomOrder && len(t.order) == 0 {
		return nil, errors.NewInvalidArgumentError(op, "neither a random order nor an explicit label order was specified", nil)
	}
	t.rng = rng.New(t.seed)
	t.logger = mllog.GetLoggerWithName(t.Name())
	return t, nil
}

// Name returns the trainer's class name.
func (t *Trainer) Name() string {
	return "ClassifierChainTrainer"
}

// InvocationCount returns how many Train calls have drawn an RNG stream.
func (t *Trainer) InvocationCount() uint64 {
	return t.rng.InvocationCount()
}

// SetInvocationCount fast-forwards the trainer's RNG to the state it would
// have after n Train calls from a freshly constructed trainer with the same
// seed. The next Train call then resolves the same label order the (n+1)-th
// natural call would have.
func (t *Trainer) SetInvocationCount(n uint64) {
	t.rng.SetInvocationCount(n)
}

func (t *Trainer) params() map[string]interface{} {
	p := map[string]interface{}{
		"inner_trainer": t.inner.Name(),
		"random_order":  t.randomOrder,
	}
	if t.randomOrder {
		p["seed"] = t.seed
	} else {
		p["label_order"] = append([]string(nil), t.order...)
	}
	return p
}

// resolveOrder produces the chain's label order for one Train call. The
// RNG split happens under the Splittable's lock together with the
// invocation increment, so concurrent Train calls get distinct streams.
func (t *Trainer) resolveOrder(domain []string) ([]string, uint64, error) {
	const op = "ClassifierChainTrainer.Train"
	r, inv := t.rng.Split()
	if t.randomOrder {
		order := make([]string, len(domain))
		copy(order, domain)
		r.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		return order, inv, nil
	}

	if len(t.order) != len(domain) {
		return nil, inv, errors.NewInvalidArgumentError(op, "must supply a total label ordering", t.order)
	}
	inDomain := make(map[string]bool, len(domain))
	for _, name := range domain {
		inDomain[name] = true
	}
	seen := make(map[string]bool, len(t.order))
	for _, name := range t.order {
		if !inDomain[name] {
			return nil, inv, errors.NewInvalidArgumentError(op, "label order contains a label outside the training domain", name)
		}
		if seen[name] {
			return nil, inv, errors.NewInvalidArgumentError(op, "label order repeats a label", name)
		}
		seen[name] = true
	}
	order := make([]string, len(t.order))
	copy(order, t.order)
	return order, inv, nil
}

// Train builds the chain. At each position the inner trainer sees the
// working dataset: every example reduced to a binary label for the current
// chain label and augmented with the chain features of all earlier
// positions, derived from ground truth.
func (t *Trainer) Train(ds *data.Dataset[multilabel.MultiLabel]) (model.Model[multilabel.MultiLabel], error) {
	const op = "ClassifierChainTrainer.Train"
	if ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}

	info := ds.OutputInfo()
	order, inv, err := t.resolveOrder(info.Names())
	if err != nil {
		return nil, err
	}
	if ds.FeatureMap().Hashed() {
		return nil, errors.NewIllegalStateError(op, "chain features cannot be injected into a hashed feature domain")
	}
	if info.UnknownCount() > 0 {
		return nil, errors.NewInvalidArgumentError(op, "dataset contains examples with unknown ground truth", info.UnknownCount())
	}
	if len(order) == 0 {
		return nil, errors.NewInvalidArgumentError(op, "dataset has an empty label domain", nil)
	}

	prov := model.NewProvenance(t.Name(), t.params(), ds.Summary(), inv)
	t.logger.Debug("resolved chain order",
		slog.String(mllog.OperationKey, "train"),
		slog.Uint64(mllog.InvocationKey, inv),
		slog.Any("chain.order", order),
	)

	// Working set: one adapter per example, starting at the first chain
	// label. The inner examples are never copied or mutated.
	examples := ds.Examples()
	working := data.NewDataset[classification.Label](ds.Description(), classification.NewLabelInfo())
	adapters := make([]*multilabel.BinaryExample, len(examples))
	first := classification.New(order[0])
	for i, ex := range examples {
		adapters[i] = multilabel.NewBinaryExample(ex, ex.Output().BinaryLabel(first))
		if err := working.Add(adapters[i]); err != nil {
			return nil, err
		}
	}

	models := make([]model.Model[classification.Label], len(order))
	for pos, labelName := range order {
		var sm model.Model[classification.Label]
		err := errors.SafeExecute(t.inner.Name()+".Train", func() error {
			var trainErr error
			sm, trainErr = t.inner.Train(working)
			return trainErr
		})
		if err != nil {
			return nil, errors.Wrapf(err, "%s: position %d (label %q)", op, pos, labelName)
		}
		models[pos] = sm

		t.logger.Debug("trained chain position",
			slog.String(mllog.OperationKey, "train"),
			slog.Int(mllog.ChainPositionKey, pos),
			slog.String(mllog.ChainLabelKey, labelName),
		)

		if pos == len(order)-1 {
			break
		}

		// Advance the chain: inject this position's ground-truth outcome as
		// a feature and rebind every adapter to the next label. Training
		// always uses ground truth here, never the just-trained model's
		// predictions.
		next := classification.New(order[pos+1])
		for i, adapter := range adapters {
			truth := examples[i].Output()
			if err := adapter.AddFeature(data.Feature{
				Name:  FeatureName(labelName, truth.Contains(labelName)),
				Value: 1.0,
			}); err != nil {
				return nil, err
			}
			adapter.SetLabel(truth.BinaryLabel(next))
		}
		working.RegenerateInfo()
	}

	return &Model{
		order:      order,
		models:     models,
		provenance: prov,
	}, nil
}

// Model is a trained classifier chain. Immutable; safe for concurrent
// Predict calls.
type Model struct {
	order      []string
	models     []model.Model[classification.Label]
	provenance model.Provenance
}

// Name returns the model's class name.
func (m *Model) Name() string {
	return "ClassifierChainModel"
}

// Provenance describes the training run that produced this model.
func (m *Model) Provenance() model.Provenance {
	return m.provenance
}

// Order returns the resolved label order the chain was trained with.
func (m *Model) Order() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Predict replays the chain: each position's sub-model predicts on the
// accumulating adapter, and its prediction (not ground truth, which does
// not exist here) is injected as the chain feature for later positions.
func (m *Model) Predict(ex data.Example[multilabel.MultiLabel]) (*model.Prediction[multilabel.MultiLabel], error) {
	adapter := multilabel.NewBinaryExample(ex, classification.Unknown)

	var predicted []classification.Label
	scores := make(map[string]float64, len(m.order))
	maxActive := 0
	for pos, labelName := range m.order {
		p, err := m.models[pos].Predict(adapter)
		if err != nil {
			return nil, errors.Wrapf(err, "ClassifierChainModel.Predict: position %d (label %q)", pos, labelName)
		}

		positive := p.Output.Name() != multilabel.NegativeLabelName
		score := p.Scores[labelName]
		scores[labelName] = score
		if positive {
			predicted = append(predicted, classification.NewScored(labelName, score))
		}
		if p.NumActiveFeatures > maxActive {
			maxActive = p.NumActiveFeatures
		}

		if err := adapter.AddFeature(data.Feature{
			Name:  FeatureName(labelName, positive),
			Value: 1.0,
		}); err != nil {
			return nil, err
		}
	}

	out, err := multilabel.New(predicted...)
	if err != nil {
		return nil, err
	}
	return &model.Prediction[multilabel.MultiLabel]{
		Output:             out,
		Scores:             scores,
		NumActiveFeatures:  maxActive,
		NumExampleFeatures: ex.Size(),
	}, nil
}

// Explain is not supported for classifier chains.
func (m *Model) Explain(ex data.Example[multilabel.MultiLabel]) ([]data.Feature, error) {
	return model.NotImplementedExplain(ex)
}
