package termfreq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_BuildsStableVocabulary(t *testing.T) {
	v := NewVectorizer(16)
	require.NoError(t, v.Fit([]string{"neural networks", "networks learn", "gradient descent"}))
	require.True(t, v.Fitted())

	w := NewVectorizer(16)
	require.NoError(t, w.Fit([]string{"gradient descent", "networks learn", "neural networks"}))

	// Same corpus in any order yields the same projection.
	assert.Equal(t, v.Embed("neural gradient"), w.Embed("neural gradient"))
}

func TestFit_EmptyCorpus(t *testing.T) {
	v := NewVectorizer(8)
	assert.Error(t, v.Fit(nil))
	assert.Error(t, v.Fit([]string{"the and of"})) // stopwords only
	assert.False(t, v.Fitted())
}

func TestEmbed_CountsTerms(t *testing.T) {
	v := NewVectorizer(8)
	require.NoError(t, v.Fit([]string{"alpha beta", "beta gamma"}))

	vec := v.Embed("beta beta alpha")
	require.Len(t, vec, 8)

	var total float32
	for _, x := range vec {
		total += x
	}
	assert.Equal(t, float32(3), total)
}

func TestEmbed_TruncatesToDimension(t *testing.T) {
	v := NewVectorizer(2)
	require.NoError(t, v.Fit([]string{"alpha beta gamma delta epsilon"}))

	vec := v.Embed("alpha beta gamma delta epsilon")
	require.Len(t, vec, 2)
}

func TestEmbed_UnfittedReturnsZeroVector(t *testing.T) {
	v := NewVectorizer(4)
	assert.Equal(t, make([]float32, 4), v.Embed("anything"))
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	v := NewVectorizer(8)
	require.NoError(t, v.Fit([]string{"alpha beta", "beta gamma"}))

	state := v.Snapshot()
	require.NotNil(t, state)

	w := NewVectorizer(0)
	w.Restore(*state)
	assert.Equal(t, v.Embed("beta gamma gamma"), w.Embed("beta gamma gamma"))

	// never-fitted vectorizers have no state to persist
	assert.Nil(t, NewVectorizer(8).Snapshot())
}

func TestReset(t *testing.T) {
	v := NewVectorizer(8)
	require.NoError(t, v.Fit([]string{"alpha beta"}))
	v.Reset()
	assert.False(t, v.Fitted())
	assert.Equal(t, make([]float32, 8), v.Embed("alpha"))
}
