package library

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atihsingh22/research-agent/internal/domain"
)

func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestSaveAndGet(t *testing.T) {
	lib := openTestLibrary(t)
	ctx := context.Background()

	want := Paper{
		ID:       "p1",
		Title:    "Attention Is All You Need",
		Authors:  "Vaswani et al.",
		Abstract: "We propose the Transformer.",
		Filename: "attention.pdf",
		Pages:    15,
	}
	require.NoError(t, lib.Save(ctx, want))

	got, err := lib.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Authors, got.Authors)
	assert.Equal(t, want.Pages, got.Pages)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSave_ReplacesExisting(t *testing.T) {
	lib := openTestLibrary(t)
	ctx := context.Background()

	require.NoError(t, lib.Save(ctx, Paper{ID: "p1", Title: "Draft"}))
	require.NoError(t, lib.Save(ctx, Paper{ID: "p1", Title: "Final"}))

	got, err := lib.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)

	papers, err := lib.List(ctx)
	require.NoError(t, err)
	assert.Len(t, papers, 1)
}

func TestGet_Unknown(t *testing.T) {
	lib := openTestLibrary(t)
	_, err := lib.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	lib := openTestLibrary(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, lib.Save(ctx, Paper{ID: "old", Title: "Old", CreatedAt: base}))
	require.NoError(t, lib.Save(ctx, Paper{ID: "new", Title: "New", CreatedAt: base.Add(time.Hour)}))

	papers, err := lib.List(ctx)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "new", papers[0].ID)
	assert.Equal(t, "old", papers[1].ID)
}

func TestDelete(t *testing.T) {
	lib := openTestLibrary(t)
	ctx := context.Background()

	require.NoError(t, lib.Save(ctx, Paper{ID: "p1", Title: "A"}))
	require.NoError(t, lib.Delete(ctx, "p1"))

	_, err := lib.Get(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, lib.Delete(ctx, "p1"), domain.ErrNotFound)
}
