package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atihsingh22/research-agent/internal/domain"
)

func TestNew_RejectsDegenerateParameters(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"overlap equals chunk size", 100, 100},
		{"overlap exceeds chunk size", 100, 150},
		{"zero chunk size", 0, 0},
		{"negative overlap", 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.chunkSize, tt.overlap)
			require.ErrorIs(t, err, domain.ErrInvalidChunking)
		})
	}
}

func TestSplit_ShortTextReturnsSingleChunk(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	chunks, err := c.Split("a short paragraph.")
	require.NoError(t, err)
	assert.Equal(t, []string{"a short paragraph."}, chunks)
}

func TestSplit_WindowsShareOverlap(t *testing.T) {
	// No periods, so no sentence snapping: windows are exact and the
	// non-overlap portions must reconstruct the input.
	c, err := New(50, 10)
	require.NoError(t, err)

	text := strings.Repeat("abcdefghij", 13) // 130 chars
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.True(t, len(chunks) > 1)

	rebuilt := chunks[0]
	for _, ch := range chunks[1:] {
		require.True(t, len(ch) >= 10)
		rebuilt += ch[10:]
	}
	assert.Equal(t, text, rebuilt)
}

func TestSplit_SnapsToSentenceBoundary(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	// A period 30 chars before the window end should become the cut point.
	text := strings.Repeat("a", 69) + "." + strings.Repeat("b", 130)
	chunks, err := c.Split(text)
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("a", 69)+".", chunks[0])
	// next window starts overlap chars before the snapped end
	assert.True(t, strings.HasPrefix(chunks[1], strings.Repeat("a", 19)+"."))
}

func TestSplit_DropsWhitespaceOnlyChunks(t *testing.T) {
	c, err := New(10, 2)
	require.NoError(t, err)

	text := "alphabetic" + strings.Repeat(" ", 12) + "words here"
	chunks, err := c.Split(text)
	require.NoError(t, err)
	for _, ch := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(ch))
	}
}

func TestSplit_TerminatesAtTextEnd(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	text := strings.Repeat("lorem ipsum dolor sit amet. ", 90)[:2500]
	chunks, err := c.Split(text)
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}
