package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atihsingh22/research-agent/internal/embedding/termfreq"
)

type unavailableEmbedder struct{ dim int }

func (u *unavailableEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("connection refused")
}

func (u *unavailableEmbedder) Dimension() int { return u.dim }

func TestResilient_FallsBackOnProviderFailure(t *testing.T) {
	r := NewResilient(&unavailableEmbedder{dim: 8}, termfreq.NewVectorizer(8))
	r.Observe("alpha beta alpha")

	vec, err := r.Embed(context.Background(), "alpha beta alpha")
	require.NoError(t, err)
	require.Len(t, vec, 8)
	assert.True(t, r.FallbackUsed())

	var sum float32
	for _, x := range vec {
		sum += x
	}
	assert.Equal(t, float32(3), sum)
}

func TestResilient_SnapshotNilBeforeUse(t *testing.T) {
	r := NewResilient(nil, termfreq.NewVectorizer(8))
	assert.False(t, r.FallbackUsed())
	assert.Nil(t, r.SnapshotFallback())
}

func TestResilient_SnapshotRestoreRoundTrip(t *testing.T) {
	r := NewResilient(&unavailableEmbedder{dim: 8}, termfreq.NewVectorizer(8))
	r.Observe("gamma delta gamma")
	_, err := r.Embed(context.Background(), "gamma")
	require.NoError(t, err)

	state := r.SnapshotFallback()
	require.NotNil(t, state)

	r2 := NewResilient(&unavailableEmbedder{dim: 8}, termfreq.NewVectorizer(8))
	r2.RestoreFallback(*state)
	assert.True(t, r2.FallbackUsed())

	want, err := r.Embed(context.Background(), "gamma delta")
	require.NoError(t, err)
	got, err := r2.Embed(context.Background(), "gamma delta")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// Queries embed outside the engine lock while persistence snapshots the
// fallback model under it, so first-time fitting and snapshotting must
// be safe to run concurrently.
func TestResilient_ConcurrentEmbedAndSnapshot(t *testing.T) {
	r := NewResilient(&unavailableEmbedder{dim: 32}, termfreq.NewVectorizer(32))
	for i := 0; i < 8; i++ {
		r.Observe(fmt.Sprintf("document number %d about retrieval", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := r.Embed(context.Background(), fmt.Sprintf("retrieval query %d", i))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			if state := r.SnapshotFallback(); state != nil {
				assert.Equal(t, 32, state.Dimension)
			}
		}()
	}
	wg.Wait()

	state := r.SnapshotFallback()
	require.NotNil(t, state)
	assert.NotEmpty(t, state.Terms)
}
