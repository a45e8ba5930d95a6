package classification

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/core/model"
	"github.com/gomlkit/gomlkit/core/rng"
	"github.com/gomlkit/gomlkit/pkg/errors"
	mllog "github.com/gomlkit/gomlkit/pkg/log"
)

// LogisticTrainer trains a multinomial logistic regression over named
// features with plain SGD. It is deterministic for a fixed seed and safe to
// call concurrently: each Train call splits its own RNG stream.
type LogisticTrainer struct {
	learningRate float64
	epochs       int
	seed         int64

	rng    *rng.Splittable
	logger *slog.Logger
}

// LogisticOption configures a LogisticTrainer.
type LogisticOption func(*LogisticTrainer)

// WithLearningRate sets the SGD step size.
func WithLearningRate(lr float64) LogisticOption {
	return func(t *LogisticTrainer) {
		t.learningRate = lr
	}
}

// WithEpochs sets the number of passes over the dataset.
func WithEpochs(epochs int) LogisticOption {
	return func(t *LogisticTrainer) {
		t.epochs = epochs
	}
}

// WithSeed sets the RNG seed used for example shuffling.
func WithSeed(seed int64) LogisticOption {
	return func(t *LogisticTrainer) {
		t.seed = seed
	}
}

// NewLogisticTrainer creates a trainer with the given options.
func NewLogisticTrainer(opts ...LogisticOption) (*LogisticTrainer, error) {
	t := &LogisticTrainer{
		learningRate: 0.5,
		epochs:       20,
		seed:         1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.learningRate <= 0 {
		return nil, errors.NewInvalidArgumentError("NewLogisticTrainer", "learning rate must be positive", t.learningRate)
	}
	if t.epochs <= 0 {
		return nil, errors.NewInvalidArgumentError("NewLogisticTrainer", "epochs must be positive", t.epochs)
	}
	t.rng = rng.New(t.seed)
	t.logger = mllog.GetLoggerWithName(t.Name())
	return t, nil
}

// Name returns the trainer's class name.
func (t *LogisticTrainer) Name() string {
	return "LogisticTrainer"
}

func (t *LogisticTrainer) params() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": t.learningRate,
		"epochs":        t.epochs,
		"seed":          t.seed,
	}
}

// Train fits one weight row per label over the dataset's feature domain,
// plus a bias column.
func (t *LogisticTrainer) Train(ds *data.Dataset[Label]) (model.Model[Label], error) {
	const op = "LogisticTrainer.Train"
	if ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	info := ds.OutputInfo()
	if info.UnknownCount() > 0 {
		return nil, errors.NewInvalidArgumentError(op, "dataset contains unlabeled examples", info.UnknownCount())
	}
	classes := info.Names()
	if len(classes) == 0 {
		return nil, errors.NewInvalidArgumentError(op, "dataset has an empty label domain", nil)
	}

	fm := ds.FeatureMap()
	numFeatures := fm.Size()
	weights := mat.NewDense(len(classes), numFeatures+1, nil)

	r, inv := t.rng.Split()
	prov := model.NewProvenance(t.Name(), t.params(), ds.Summary(), inv)

	examples := ds.Examples()
	probs := make([]float64, len(classes))
	var prevLoss float64
	for epoch := 0; epoch < t.epochs; epoch++ {
		var loss float64
		for _, idx := range r.Perm(len(examples)) {
			ex := examples[idx]
			target, ok := info.ID(ex.Output().Name())
			if !ok {
				return nil, errors.NewInvalidArgumentError(op, "example output not in the label domain", ex.Output().Name())
			}

			softmaxScores(weights, fm, ex, numFeatures, probs)
			loss += -math.Log(math.Max(probs[target], 1e-12)) * ex.Weight()

			step := t.learningRate * ex.Weight()
			for k := range classes {
				g := probs[k]
				if k == target {
					g -= 1.0
				}
				if g == 0 {
					continue
				}
				for _, f := range ex.Features() {
					if id, ok := fm.ID(f.Name); ok && id < numFeatures {
						weights.Set(k, id, weights.At(k, id)-step*g*f.Value)
					}
				}
				weights.Set(k, numFeatures, weights.At(k, numFeatures)-step*g)
			}
		}
		loss /= float64(len(examples))
		if epoch == t.epochs-1 && epoch > 0 && loss > prevLoss {
			errors.Warn(errors.NewConvergenceWarning(t.Name(), t.epochs, ""))
		}
		prevLoss = loss
	}

	t.logger.Debug("training finished",
		slog.String(mllog.OperationKey, "train"),
		slog.Int(mllog.SamplesKey, ds.Len()),
		slog.Int(mllog.FeaturesKey, numFeatures),
		slog.Int(mllog.LabelsKey, len(classes)),
	)

	return &LogisticModel{
		classes:     classes,
		features:    fm,
		numFeatures: numFeatures,
		weights:     weights,
		provenance:  prov,
	}, nil
}

// LogisticModel is an immutable trained logistic regression.
type LogisticModel struct {
	classes     []string
	features    data.FeatureDomain
	numFeatures int
	weights     *mat.Dense
	provenance  model.Provenance
}

// Name returns the model's class name.
func (m *LogisticModel) Name() string {
	return "LogisticModel"
}

// Provenance describes the training run that produced this model.
func (m *LogisticModel) Provenance() model.Provenance {
	return m.provenance
}

// Predict scores ex against every label and resolves the argmax. Exact
// score ties resolve to the lowest label id.
func (m *LogisticModel) Predict(ex data.Example[Label]) (*model.Prediction[Label], error) {
	probs := make([]float64, len(m.classes))
	softmaxScores(m.weights, m.features, ex, m.numFeatures, probs)

	active := 0
	for _, f := range ex.Features() {
		if id, ok := m.features.ID(f.Name); ok && id < m.numFeatures {
			active++
		}
	}

	scores := make(map[string]float64, len(m.classes))
	best := 0
	for k, name := range m.classes {
		scores[name] = probs[k]
		if probs[k] > probs[best] {
			best = k
		}
	}

	return &model.Prediction[Label]{
		Output:             NewScored(m.classes[best], probs[best]),
		Scores:             scores,
		NumActiveFeatures:  active,
		NumExampleFeatures: ex.Size(),
	}, nil
}

// softmaxScores writes the class probabilities for ex into probs.
func softmaxScores[T data.Output](weights *mat.Dense, fm data.FeatureDomain, ex data.Example[T], numFeatures int, probs []float64) {
	for k := range probs {
		logit := weights.At(k, numFeatures)
		for _, f := range ex.Features() {
			if id, ok := fm.ID(f.Name); ok && id < numFeatures {
				logit += weights.At(k, id) * f.Value
			}
		}
		probs[k] = logit
	}

	// numerically stable softmax
	maxLogit := probs[0]
	for _, l := range probs[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	var sum float64
	for k, l := range probs {
		probs[k] = math.Exp(l - maxLogit)
		sum += probs[k]
	}
	for k := range probs {
		probs[k] /= sum
	}
}
