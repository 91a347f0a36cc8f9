package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atihsingh22/research-agent/internal/domain"
	"github.com/atihsingh22/research-agent/internal/embedding/termfreq"
)

func TestLoad_EmptyDirectory(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	snap, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Vectors)
	assert.Empty(t, snap.Records)
	assert.Empty(t, snap.Meta)
	assert.Nil(t, snap.Vectorizer)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	want := &Snapshot{
		Vectors: [][]float32{{1, 0}, {0, 1}},
		Records: []domain.Record{
			{PaperID: "p1", Title: "A", Text: "first chunk", ChunkIndex: 0},
			{PaperID: "p1", Title: "A", Text: "methods text", Section: "methods"},
		},
		Meta: []domain.RowMeta{
			{PaperID: "p1", Title: "A", ChunkIndex: 0, TotalChunks: 1},
			{PaperID: "p1", Title: "A", Section: "methods", IsSection: true,
				Extra: map[string]string{"year": "2024"}},
		},
		Vectorizer: &termfreq.State{Terms: []string{"chunk", "methods"}, Dimension: 2},
	}
	require.NoError(t, s.Save(want))

	// fresh store over the same directory, as after process restart
	s2, err := NewStore(dir)
	require.NoError(t, err)
	got, err := s2.Load()
	require.NoError(t, err)

	assert.Equal(t, want.Vectors, got.Vectors)
	assert.Equal(t, want.Records, got.Records)
	assert.Equal(t, want.Meta, got.Meta)
	require.NotNil(t, got.Vectorizer)
	assert.Equal(t, want.Vectorizer.Terms, got.Vectorizer.Terms)
}

func TestSave_OmitsVectorizerUntilUsed(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(&Snapshot{}))
	_, err = os.Stat(filepath.Join(dir, "vectorizer.gob"))
	assert.True(t, os.IsNotExist(err))
}

func TestSave_DeletesStaleVectorizer(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(&Snapshot{
		Vectors:    [][]float32{{1}},
		Records:    []domain.Record{{PaperID: "p1"}},
		Meta:       []domain.RowMeta{{PaperID: "p1"}},
		Vectorizer: &termfreq.State{Terms: []string{"alpha"}, Dimension: 1},
	}))

	// model reset (e.g. last paper removed); the artifact must go too
	require.NoError(t, s.Save(&Snapshot{}))
	_, err = os.Stat(filepath.Join(dir, "vectorizer.gob"))
	assert.True(t, os.IsNotExist(err))

	snap, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, snap.Vectorizer)
}

func TestLoad_CorruptArtifactResetsToEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "documents.gob"), []byte("not gob"), 0o644))

	snap, err := s.Load()
	require.ErrorIs(t, err, domain.ErrCorruptSnapshot)
	assert.Empty(t, snap.Records)
	assert.Empty(t, snap.Vectors)
}

func TestLoad_LengthMismatchResetsToEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(&Snapshot{
		Vectors: [][]float32{{1}},
		Records: []domain.Record{{PaperID: "p1"}, {PaperID: "p1"}},
		Meta:    []domain.RowMeta{{PaperID: "p1"}, {PaperID: "p1"}},
	}))

	snap, err := s.Load()
	require.ErrorIs(t, err, domain.ErrCorruptSnapshot)
	assert.Empty(t, snap.Vectors)
	assert.Empty(t, snap.Records)
	assert.Empty(t, snap.Meta)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(&Snapshot{Vectors: [][]float32{{1}}, Records: []domain.Record{{}}, Meta: []domain.RowMeta{{}}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
