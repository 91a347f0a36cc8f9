// Package summarizer produces extractive summaries by frequency-ranking
// sentences. Used for catalog abstracts when a paper has none of its
// own.
package summarizer

import (
	"math"
	"sort"
	"strings"

	"github.com/atihsingh22/research-agent/internal/textutil"
)

// FrequencySummarizer ranks sentences by normalized word frequency,
// stopwords filtered.
type FrequencySummarizer struct{}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{}
}

// Summarize returns the maxSentences highest-scoring sentences in their
// original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := textutil.Sentences(text)
	if len(sentences) == 0 {
		return "", nil
	}
	if len(sentences) == 1 {
		return strings.TrimSpace(sentences[0]), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range textutil.Tokenize(sent) {
			if textutil.IsStopword(tok) {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		tokens := textutil.Tokenize(sent)
		score := 0.0
		for _, tok := range tokens {
			if v, ok := freq[tok]; ok {
				score += v
			}
		}
		// length normalization so long sentences don't always win
		if l := float64(len(tokens)); l > 0 {
			score /= math.Sqrt(l)
		}
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}
