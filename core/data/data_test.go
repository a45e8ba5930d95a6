package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOutput is a minimal Output for exercising the dataset machinery.
type testOutput string

func (o testOutput) String() string { return string(o) }
func (o testOutput) Equal(other Output) bool {
	t, ok := other.(testOutput)
	return ok && t == o
}

// testOutputInfo tracks testOutput names.
type testOutputInfo struct {
	ids     map[string]int
	counts  map[string]int
	names   []string
	unknown int
}

func newTestOutputInfo() *testOutputInfo {
	return &testOutputInfo{ids: map[string]int{}, counts: map[string]int{}}
}

func (i *testOutputInfo) Observe(out testOutput) error {
	name := string(out)
	if name == "" {
		i.unknown++
		return nil
	}
	if _, ok := i.ids[name]; !ok {
		i.ids[name] = len(i.names)
		i.names = append(i.names, name)
	}
	i.counts[name]++
	return nil
}

func (i *testOutputInfo) Reset() {
	*i = *newTestOutputInfo()
}

func (i *testOutputInfo) Size() int                  { return len(i.names) }
func (i *testOutputInfo) Names() []string            { return i.names }
func (i *testOutputInfo) ID(n string) (int, bool)    { id, ok := i.ids[n]; return id, ok }
func (i *testOutputInfo) Count(n string) int         { return i.counts[n] }
func (i *testOutputInfo) UnknownCount() int          { return i.unknown }
func (i *testOutputInfo) Fresh() OutputInfo[testOutput] {
	return newTestOutputInfo()
}

func TestListExampleSortedAndMerged(t *testing.T) {
	ex := NewListExample(testOutput("a"), []Feature{
		{Name: "z", Value: 1},
		{Name: "b", Value: 2},
		{Name: "z", Value: 3},
	})

	fs := ex.Features()
	require.Len(t, fs, 2)
	assert.Equal(t, "b", fs[0].Name)
	assert.Equal(t, "z", fs[1].Name)
	assert.InDelta(t, 4.0, fs[1].Value, 1e-12)

	f, ok := ex.Lookup("z")
	require.True(t, ok)
	assert.InDelta(t, 4.0, f.Value, 1e-12)

	_, ok = ex.Lookup("missing")
	assert.False(t, ok)
}

func TestListExampleMutators(t *testing.T) {
	ex := NewListExample(testOutput("a"), []Feature{{Name: "b", Value: 1}})

	require.NoError(t, ex.AddFeature(Feature{Name: "a", Value: 2}))
	assert.Equal(t, "a", ex.Features()[0].Name)

	require.NoError(t, ex.Densify([]string{"a", "c"}))
	assert.Equal(t, 3, ex.Size())
	f, ok := ex.Lookup("c")
	require.True(t, ok)
	assert.Zero(t, f.Value)

	require.NoError(t, ex.RemoveFeatures("b", "c"))
	assert.Equal(t, 1, ex.Size())
}

func TestMutableFeatureMapFirstSeenOrder(t *testing.T) {
	m := NewMutableFeatureMap()
	m.Observe("x")
	m.Observe("y")
	m.Observe("x")

	id, ok := m.ID("x")
	require.True(t, ok)
	assert.Equal(t, 0, id)
	id, ok = m.ID("y")
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, 2, m.Count("x"))
	assert.Equal(t, []string{"x", "y"}, m.Names())
	assert.False(t, m.Hashed())
}

func TestDatasetObservesAndRegenerates(t *testing.T) {
	ds := NewDataset[testOutput]("unit test data", newTestOutputInfo())
	require.NoError(t, ds.Add(NewListExample(testOutput("a"), []Feature{{Name: "f1", Value: 1}})))
	require.NoError(t, ds.Add(NewListExample(testOutput("b"), []Feature{{Name: "f2", Value: 1}})))

	assert.Equal(t, 2, ds.FeatureMap().Size())
	assert.Equal(t, 2, ds.OutputInfo().Size())

	// mutate an example in place, then regenerate
	ex := ds.Examples()[0].(*ListExample[testOutput])
	require.NoError(t, ex.AddFeature(Feature{Name: "f3", Value: 1}))
	ex.SetOutput(testOutput("c"))
	ds.RegenerateInfo()

	assert.Equal(t, 3, ds.FeatureMap().Size())
	_, ok := ds.OutputInfo().ID("c")
	assert.True(t, ok)

	sum := ds.Summary()
	assert.Equal(t, 2, sum.NumExamples)
	assert.Equal(t, 3, sum.NumFeatures)
	assert.Equal(t, "unit test data", sum.Description)
}

func TestDatasetTracksUnknownOutputs(t *testing.T) {
	ds := NewDataset[testOutput]("unknowns", newTestOutputInfo())
	require.NoError(t, ds.Add(NewListExample(testOutput(""), []Feature{{Name: "f", Value: 1}})))
	assert.Equal(t, 1, ds.OutputInfo().UnknownCount())
}

func TestHashTransform(t *testing.T) {
	ds := NewDataset[testOutput]("to hash", newTestOutputInfo())
	require.NoError(t, ds.Add(NewListExample(testOutput("a"), []Feature{
		{Name: "alpha", Value: 1},
		{Name: "beta", Value: 2},
	})))

	hashed, err := Hash(ds, 8)
	require.NoError(t, err)
	assert.True(t, hashed.FeatureMap().Hashed())
	assert.Equal(t, 8, hashed.FeatureMap().Size())
	assert.Equal(t, 1, hashed.Len())

	// original untouched
	assert.False(t, ds.FeatureMap().Hashed())

	// bucket names resolve to their own bucket
	hm := hashed.FeatureMap().(*HashedFeatureMap)
	for i := 0; i < 8; i++ {
		id, ok := hm.ID(hm.BucketName(i))
		require.True(t, ok)
		assert.Equal(t, i, id)
	}

	_, err = Hash(ds, 0)
	assert.Error(t, err)
}
