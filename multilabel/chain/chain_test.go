package chain

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlkit/gomlkit/classification"
	"github.com/gomlkit/gomlkit/core/data"
	"github.com/gomlkit/gomlkit/core/model"
	"github.com/gomlkit/gomlkit/multilabel"
	"github.com/gomlkit/gomlkit/pkg/errors"
)

func mustLabels(t *testing.T, names ...string) multilabel.MultiLabel {
	t.Helper()
	ml, err := multilabel.FromNames(names...)
	require.NoError(t, err)
	return ml
}

func addExample(t *testing.T, ds *data.Dataset[multilabel.MultiLabel], out multilabel.MultiLabel, featureNames ...string) {
	t.Helper()
	fs := make([]data.Feature, len(featureNames))
	for i, n := range featureNames {
		fs[i] = data.Feature{Name: n, Value: 1}
	}
	require.NoError(t, ds.Add(data.NewListExample(out, fs)))
}

// chainDataset has labels a and b where b always co-occurs with a, so the
// second chain position can learn b from the first position's outcome.
func chainDataset(t *testing.T) *data.Dataset[multilabel.MultiLabel] {
	t.Helper()
	ds := data.NewDataset[multilabel.MultiLabel]("chain test", multilabel.NewInfo())
	for i := 0; i < 10; i++ {
		addExample(t, ds, mustLabels(t, "a", "b"), "f1")
		addExample(t, ds, mustLabels(t), "f0")
	}
	return ds
}

// wideDataset spreads six labels over six features, one label each.
func wideDataset(t *testing.T) *data.Dataset[multilabel.MultiLabel] {
	t.Helper()
	ds := data.NewDataset[multilabel.MultiLabel]("wide", multilabel.NewInfo())
	names := []string{"l0", "l1", "l2", "l3", "l4", "l5"}
	for _, n := range names {
		addExample(t, ds, mustLabels(t, n), "f_"+n)
	}
	return ds
}

func TestNewTrainerConfiguration(t *testing.T) {
	inner := classification.NewMostFrequentTrainer()
	tests := []struct {
		name  string
		inner model.Trainer[classification.Label]
		opts  []Option
	}{
		{name: "nil inner", inner: nil, opts: []Option{WithRandomOrder(1)}},
		{name: "no order", inner: inner, opts: nil},
		{name: "both orders", inner: inner, opts: []Option{WithRandomOrder(1), WithLabelOrder([]string{"a"})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTrainer(tt.inner, tt.opts...)
			var argErr *errors.InvalidArgumentError
			assert.True(t, errors.As(err, &argErr))
		})
	}
}

func TestTrainRejectsBadOrders(t *testing.T) {
	ds := chainDataset(t) // domain {a, b}
	tests := []struct {
		name  string
		order []string
	}{
		{name: "partial order", order: []string{"a"}},
		{name: "outside domain", order: []string{"a", "z"}},
		{name: "repeated label", order: []string{"a", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trainer, err := NewTrainer(classification.NewMostFrequentTrainer(), WithLabelOrder(tt.order))
			require.NoError(t, err)
			_, err = trainer.Train(ds)
			var argErr *errors.InvalidArgumentError
			assert.True(t, errors.As(err, &argErr))
		})
	}
}

func TestTrainRejectsBadInput(t *testing.T) {
	trainer, err := NewTrainer(classification.NewMostFrequentTrainer(), WithRandomOrder(7))
	require.NoError(t, err)

	_, err = trainer.Train(data.NewDataset[multilabel.MultiLabel]("empty", multilabel.NewInfo()))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	unk := data.NewDataset[multilabel.MultiLabel]("unknowns", multilabel.NewInfo())
	addExample(t, unk, multilabel.Unknown(), "f")
	_, err = trainer.Train(unk)
	var argErr *errors.InvalidArgumentError
	assert.True(t, errors.As(err, &argErr))

	hashed, err := data.Hash(chainDataset(t), 16)
	require.NoError(t, err)
	_, err = trainer.Train(hashed)
	var stateErr *errors.IllegalStateError
	assert.True(t, errors.As(err, &stateErr))
}

func TestRandomOrderDeterminism(t *testing.T) {
	train := func(tr *Trainer) []string {
		m, err := tr.Train(wideDataset(t))
		require.NoError(t, err)
		return m.(*Model).Order()
	}

	a, err := NewTrainer(classification.NewMostFrequentTrainer(), WithRandomOrder(99))
	require.NoError(t, err)
	b, err := NewTrainer(classification.NewMostFrequentTrainer(), WithRandomOrder(99))
	require.NoError(t, err)

	first := train(a)
	second := train(a)
	assert.Equal(t, first, train(b), "same seed, same invocation, same order")
	assert.Equal(t, second, train(b))

	sorted := append([]string(nil), first...)
	sort.Strings(sorted)
	assert.Equal(t, []string{"l0", "l1", "l2", "l3", "l4", "l5"}, sorted, "order is a permutation of the domain")
}

func TestSetInvocationCountReplay(t *testing.T) {
	train := func(tr *Trainer) []string {
		m, err := tr.Train(wideDataset(t))
		require.NoError(t, err)
		return m.(*Model).Order()
	}

	a, err := NewTrainer(classification.NewMostFrequentTrainer(), WithRandomOrder(5))
	require.NoError(t, err)
	train(a)
	second := train(a)
	assert.Equal(t, uint64(2), a.InvocationCount())

	b, err := NewTrainer(classification.NewMostFrequentTrainer(), WithRandomOrder(5))
	require.NoError(t, err)
	b.SetInvocationCount(1)
	assert.Equal(t, second, train(b), "fast-forwarded trainer resolves the second call's order")
}

// recordingTrainer wraps the baseline trainer and records the feature domain
// it was handed at each chain position.
type recordingTrainer struct {
	inner        *classification.MostFrequentTrainer
	features     [][]string
	exampleSizes []int
}

func newRecordingTrainer() *recordingTrainer {
	return &recordingTrainer{inner: classification.NewMostFrequentTrainer()}
}

func (r *recordingTrainer) Train(ds *data.Dataset[classification.Label]) (model.Model[classification.Label], error) {
	names := ds.FeatureMap().Names()
	sort.Strings(names)
	r.features = append(r.features, names)
	r.exampleSizes = append(r.exampleSizes, ds.Examples()[0].Size())
	return r.inner.Train(ds)
}

func (r *recordingTrainer) Name() string { return "recordingTrainer" }

func TestTrainInjectsGroundTruthChainFeatures(t *testing.T) {
	rec := newRecordingTrainer()
	trainer, err := NewTrainer(rec, WithLabelOrder([]string{"l0", "l1", "l2", "l3", "l4", "l5"}))
	require.NoError(t, err)
	_, err = trainer.Train(wideDataset(t))
	require.NoError(t, err)

	require.Len(t, rec.features, 6)
	for pos, size := range rec.exampleSizes {
		assert.Equal(t, rec.exampleSizes[0]+pos, size, "every traversed position adds exactly one feature")
	}
	for pos, names := range rec.features {
		var chainFeatures []string
		for _, n := range names {
			if strings.HasPrefix(n, FeaturePrefix) {
				chainFeatures = append(chainFeatures, n)
			}
		}
		assert.Len(t, chainFeatures, 2*pos, "position %d sees one positive and one negative chain feature per earlier position", pos)
		for i := 0; i < pos; i++ {
			earlier := []string{"l0", "l1", "l2", "l3", "l4", "l5"}[i]
			assert.Contains(t, chainFeatures, FeatureName(earlier, true), "position %d", pos)
			assert.Contains(t, chainFeatures, FeatureName(earlier, false), "position %d", pos)
		}
	}
}

func TestChainEndToEnd(t *testing.T) {
	inner, err := classification.NewLogisticTrainer(classification.WithSeed(3), classification.WithEpochs(50))
	require.NoError(t, err)
	trainer, err := NewTrainer(inner, WithLabelOrder([]string{"a", "b"}))
	require.NoError(t, err)

	m, err := trainer.Train(chainDataset(t))
	require.NoError(t, err)
	cm := m.(*Model)
	assert.Equal(t, []string{"a", "b"}, cm.Order())

	tests := []struct {
		feature string
		want    []string
	}{
		{feature: "f1", want: []string{"a", "b"}},
		{feature: "f0", want: nil},
	}
	for _, tt := range tests {
		pred, err := cm.Predict(data.NewListExample(multilabel.Unknown(), []data.Feature{{Name: tt.feature, Value: 1}}))
		require.NoError(t, err)
		want := mustLabels(t, tt.want...)
		assert.True(t, want.Equal(pred.Output), "feature %s: got %q, want %q", tt.feature, pred.Output, want)
		assert.Contains(t, pred.Scores, "a")
		assert.Contains(t, pred.Scores, "b")
		assert.Equal(t, 1, pred.NumExampleFeatures)
	}
}

// stubModel predicts through a fixed function; it lets the chain's replay
// mechanics be observed without a real trainer in the loop.
type stubModel struct {
	fn func(ex data.Example[classification.Label]) classification.Label
}

func (s stubModel) Predict(ex data.Example[classification.Label]) (*model.Prediction[classification.Label], error) {
	l := s.fn(ex)
	return &model.Prediction[classification.Label]{
		Output: l,
		Scores: map[string]float64{l.Name(): 1.0},
	}, nil
}

func (s stubModel) Name() string                 { return "stubModel" }
func (s stubModel) Provenance() model.Provenance { return model.Provenance{} }

// Later chain positions must see earlier positions' predictions, injected
// as chain features on the accumulating adapter.
func TestPredictFeedsPredictionsForward(t *testing.T) {
	negative := classification.New(multilabel.NegativeLabelName)
	followA := stubModel{fn: func(ex data.Example[classification.Label]) classification.Label {
		if _, ok := ex.Lookup(FeatureName("a", true)); ok {
			return classification.New("b")
		}
		return negative
	}}

	tests := []struct {
		name  string
		first classification.Label
		want  []string
	}{
		{name: "positive outcome feeds forward", first: classification.New("a"), want: []string{"a", "b"}},
		{name: "negative outcome feeds forward", first: negative, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Model{
				order: []string{"a", "b"},
				models: []model.Model[classification.Label]{
					stubModel{fn: func(data.Example[classification.Label]) classification.Label { return tt.first }},
					followA,
				},
			}
			pred, err := m.Predict(data.NewListExample(multilabel.Unknown(), nil))
			require.NoError(t, err)
			want := mustLabels(t, tt.want...)
			assert.True(t, want.Equal(pred.Output), "got %q, want %q", pred.Output, want)
		})
	}
}

func TestModelExplainUnsupported(t *testing.T) {
	trainer, err := NewTrainer(classification.NewMostFrequentTrainer(), WithLabelOrder([]string{"a", "b"}))
	require.NoError(t, err)
	m, err := trainer.Train(chainDataset(t))
	require.NoError(t, err)

	_, err = m.(*Model).Explain(data.NewListExample(multilabel.Unknown(), nil))
	assert.True(t, errors.Is(err, errors.ErrNotImplemented))
}
