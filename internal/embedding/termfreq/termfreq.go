// Package termfreq implements the deterministic local fallback
// representation: a bag-of-terms projection fitted over the ingested
// corpus, padded or truncated to the provider dimension so both spaces
// share a vector length.
package termfreq

import (
	"errors"
	"sort"

	"github.com/atihsingh22/research-agent/internal/textutil"
)

// Vectorizer maps text to raw term-count vectors over a fitted
// vocabulary. Column order is the sorted term list, so fitting the same
// corpus always yields the same projection.
type Vectorizer struct {
	vocabulary map[string]int
	terms      []string
	dimension  int
	fitted     bool
}

// State is the serializable form of a fitted vectorizer.
type State struct {
	Terms     []string
	Dimension int
}

// NewVectorizer creates an unfitted vectorizer producing vectors of the
// given dimension.
func NewVectorizer(dimension int) *Vectorizer {
	return &Vectorizer{dimension: dimension}
}

// Fitted reports whether a vocabulary has been built.
func (v *Vectorizer) Fitted() bool { return v.fitted }

// Dimension returns the output vector length.
func (v *Vectorizer) Dimension() int { return v.dimension }

// Fit builds the vocabulary from the corpus. When the corpus holds more
// distinct terms than the output dimension, the most frequent terms by
// document count are kept, ties broken alphabetically.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range textutil.Tokenize(text) {
			if textutil.IsStopword(tok) {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return errors.New("no tokens found in corpus")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) > v.dimension {
		sort.Slice(terms, func(i, j int) bool {
			if df[terms[i]] != df[terms[j]] {
				return df[terms[i]] > df[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.dimension]
	}
	sort.Strings(terms)

	v.terms = terms
	v.vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
	}
	v.fitted = true
	return nil
}

// Reset discards the vocabulary, returning the vectorizer to its
// unfitted state.
func (v *Vectorizer) Reset() {
	v.vocabulary = nil
	v.terms = nil
	v.fitted = false
}

// Embed returns the raw term-count vector for the text, zero-padded to
// the configured dimension. Unknown terms and stopwords score nothing.
func (v *Vectorizer) Embed(text string) []float32 {
	vec := make([]float32, v.dimension)
	if !v.fitted {
		return vec
	}
	for _, tok := range textutil.Tokenize(text) {
		if textutil.IsStopword(tok) {
			continue
		}
		if idx, ok := v.vocabulary[tok]; ok {
			vec[idx]++
		}
	}
	return vec
}

// Snapshot captures the fitted vocabulary for persistence. Returns nil
// when the vectorizer has never been fitted.
func (v *Vectorizer) Snapshot() *State {
	if !v.fitted {
		return nil
	}
	terms := make([]string, len(v.terms))
	copy(terms, v.terms)
	return &State{Terms: terms, Dimension: v.dimension}
}

// Restore loads a previously snapshotted vocabulary.
func (v *Vectorizer) Restore(s State) {
	v.dimension = s.Dimension
	v.terms = make([]string, len(s.Terms))
	copy(v.terms, s.Terms)
	v.vocabulary = make(map[string]int, len(s.Terms))
	for i, term := range s.Terms {
		v.vocabulary[term] = i
	}
	v.fitted = true
}
