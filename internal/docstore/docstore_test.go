package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atihsingh22/research-agent/internal/domain"
)

func row(paperID, text, section string, idx int) (domain.Record, domain.RowMeta) {
	rec := domain.Record{PaperID: paperID, Title: "T-" + paperID, Text: text, Section: section, ChunkIndex: idx}
	m := domain.RowMeta{PaperID: paperID, Title: rec.Title, Section: section, ChunkIndex: idx, IsSection: section != ""}
	return rec, m
}

func TestAppendAndLookup(t *testing.T) {
	s := New()
	rec, m := row("p1", "chunk text", "", 0)
	s.Append(rec, m)

	require.Equal(t, 1, s.Len())
	assert.Equal(t, rec, s.Record(0))
	assert.Equal(t, m, s.Meta(0))
}

func TestFilterByPaper(t *testing.T) {
	s := New()
	s.Append(row("p1", "a", "", 0))
	s.Append(row("p2", "b", "", 0))
	s.Append(row("p1", "c", "methods", 0))

	got := s.FilterByPaper([]string{"p1"})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, "c", got[1].Text)

	assert.Empty(t, s.FilterByPaper([]string{"p9"}))
}

func TestRemovePaper(t *testing.T) {
	s := New()
	s.Append(row("p1", "a", "", 0))
	s.Append(row("p2", "b", "", 0))
	s.Append(row("p1", "c", "", 1))
	s.Append(row("p3", "d", "", 0))

	removed := s.RemovePaper("p1")
	assert.Equal(t, 2, removed)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "b", s.Record(0).Text)
	assert.Equal(t, "d", s.Record(1).Text)
	assert.False(t, s.HasPaper("p1"))

	assert.Equal(t, 0, s.RemovePaper("p1"))
}

func TestPaperIDs_SortedUnique(t *testing.T) {
	s := New()
	s.Append(row("zeta", "a", "", 0))
	s.Append(row("alpha", "b", "", 0))
	s.Append(row("zeta", "c", "", 1))

	assert.Equal(t, []string{"alpha", "zeta"}, s.PaperIDs())
}

func TestReplace_LengthMismatch(t *testing.T) {
	s := New()
	rec, m := row("p1", "a", "", 0)
	err := s.Replace([]domain.Record{rec}, []domain.RowMeta{m, m})
	assert.ErrorIs(t, err, domain.ErrCorruptSnapshot)
}
