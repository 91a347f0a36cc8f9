// Package chunker splits paper content into overlapping text windows
// aligned to sentence boundaries where possible.
package chunker

import (
	"strings"

	"github.com/atihsingh22/research-agent/internal/domain"
)

// snapRange is how far back from the window end we look for a period
// before cutting a chunk.
const snapRange = 100

// WindowChunker produces fixed-size chunks that share a configurable
// overlap of trailing context with their successor.
type WindowChunker struct {
	chunkSize int
	overlap   int
}

// New validates the chunking parameters up front; overlap >= chunkSize
// would never terminate.
func New(chunkSize, overlap int) (*WindowChunker, error) {
	if chunkSize <= 0 || overlap < 0 || chunkSize <= overlap {
		return nil, domain.ErrInvalidChunking
	}
	return &WindowChunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split cuts text into chunks of at most chunkSize characters. Each
// window is shortened to end just after the last period found in its
// final snapRange characters, so sentences stay intact. Consecutive
// chunks share overlap characters. Empty trimmed chunks are dropped.
func (c *WindowChunker) Split(text string) ([]string, error) {
	if len(text) <= c.chunkSize {
		return []string{text}, nil
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.chunkSize
		if end < len(text) {
			lo := end - snapRange
			if lo < start {
				lo = start
			}
			if p := strings.LastIndex(text[lo:end], "."); p >= 0 && lo+p > start {
				end = lo + p + 1
			}
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(text) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// sentence snapping shortened the window past the
			// overlap; move forward anyway to guarantee progress
			next = end
		}
		start = next
	}
	return chunks, nil
}
