package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlkit/gomlkit/classification"
	"github.com/gomlkit/gomlkit/multilabel"
	"github.com/gomlkit/gomlkit/pkg/errors"
)

func sets(t *testing.T, nameSets ...[]string) []multilabel.MultiLabel {
	t.Helper()
	out := make([]multilabel.MultiLabel, len(nameSets))
	for i, names := range nameSets {
		ml, err := multilabel.FromNames(names...)
		require.NoError(t, err)
		out[i] = ml
	}
	return out
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []multilabel.MultiLabel
		yPred []multilabel.MultiLabel
		want  float64
	}{
		{
			name:  "perfect match",
			yTrue: sets(t, []string{"a", "b"}, []string{"c"}),
			yPred: sets(t, []string{"a", "b"}, []string{"c"}),
			want:  1.0,
		},
		{
			name:  "partial overlap",
			yTrue: sets(t, []string{"a", "b"}),
			yPred: sets(t, []string{"b", "c"}),
			want:  1.0 / 3.0,
		},
		{
			name:  "both empty counts as full agreement",
			yTrue: sets(t, nil, []string{"a"}),
			yPred: sets(t, nil, nil),
			want:  0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Jaccard(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestHammingLoss(t *testing.T) {
	domain := []string{"a", "b", "c"}
	yTrue := sets(t, []string{"a", "b"}, []string{"c"})
	yPred := sets(t, []string{"a"}, []string{"b", "c"})

	// sample 0 misses b, sample 1 adds b: 2 wrong of 6 cells
	got, err := HammingLoss(yTrue, yPred, domain)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/6.0, got, 1e-12)

	got, err = HammingLoss(yTrue, yTrue, domain)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestMicroF1(t *testing.T) {
	domain := []string{"a", "b"}
	yTrue := sets(t, []string{"a", "b"}, []string{"a"})
	yPred := sets(t, []string{"a"}, []string{"a", "b"})

	// tp=2 (a twice), fp=1 (b in sample 1), fn=1 (b in sample 0)
	got, err := MicroF1(yTrue, yPred, domain)
	require.NoError(t, err)
	assert.InDelta(t, 2.0*2/(2*2+1+1), got, 1e-12)
}

func TestMacroF1(t *testing.T) {
	domain := []string{"a", "b"}
	yTrue := sets(t, []string{"a", "b"}, []string{"a"})
	yPred := sets(t, []string{"a"}, []string{"a", "b"})

	// a: tp=2 fp=0 fn=0 -> 1.0; b: tp=0 fp=1 fn=1 -> 0.0
	got, err := MacroF1(yTrue, yPred, domain)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)
}

func TestAccuracy(t *testing.T) {
	yTrue := []classification.Label{classification.New("a"), classification.New("b")}
	yPred := []classification.Label{classification.New("a"), classification.New("a")}

	got, err := Accuracy(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)
}

func TestMetricInputValidation(t *testing.T) {
	domain := []string{"a"}
	one := sets(t, []string{"a"})
	two := sets(t, []string{"a"}, []string{"a"})

	var argErr *errors.InvalidArgumentError
	_, err := Jaccard(nil, nil)
	assert.True(t, errors.As(err, &argErr))
	_, err = HammingLoss(one, one, nil)
	assert.True(t, errors.As(err, &argErr))

	var dimErr *errors.DimensionError
	_, err = Jaccard(one, two)
	assert.True(t, errors.As(err, &dimErr))
	_, err = MicroF1(two, one, domain)
	assert.True(t, errors.As(err, &dimErr))
	_, err = MacroF1(two, one, domain)
	assert.True(t, errors.As(err, &dimErr))
	_, err = Accuracy(nil, nil)
	assert.True(t, errors.As(err, &argErr))
}
