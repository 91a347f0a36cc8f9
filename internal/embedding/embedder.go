// Package embedding defines the text-to-vector contract and the
// resilient embedder that pairs a remote provider with the local
// term-frequency fallback.
package embedding

import (
	"context"
	"log"
	"sync"

	"github.com/atihsingh22/research-agent/internal/embedding/termfreq"
)

// Embedder converts free text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Resilient embeds through the primary provider and degrades to the
// term-frequency fallback on any provider failure. Provider errors are
// never surfaced to callers.
//
// The fallback model is fitted lazily, once, over the corpus observed so
// far. Rebuild-time refits go through Refit so the surviving entries end
// up in one comparable space.
type Resilient struct {
	primary  Embedder // nil means fallback-only deployment
	fallback *termfreq.Vectorizer

	mu       sync.Mutex
	corpus   []string
	used     bool
	reported bool
}

// NewResilient wires a primary embedder (may be nil) to a fallback
// vectorizer.
func NewResilient(primary Embedder, fallback *termfreq.Vectorizer) *Resilient {
	return &Resilient{primary: primary, fallback: fallback}
}

// Observe adds chunk text to the fallback fitting corpus. Ingestion
// calls this even while the provider path is healthy, so a later
// provider outage still has a corpus to fit on.
func (r *Resilient) Observe(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.corpus = append(r.corpus, text)
}

// Embed returns a vector for the text, falling back locally when the
// provider fails.
func (r *Resilient) Embed(ctx context.Context, text string) ([]float32, error) {
	if r.primary != nil {
		vec, err := r.primary.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		r.mu.Lock()
		if !r.reported {
			log.Printf("embedding provider unavailable, using term-frequency fallback: %v", err)
			r.reported = true
		}
		r.mu.Unlock()
	}
	return r.embedFallback(text), nil
}

func (r *Resilient) embedFallback(text string) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.fallback.Fitted() {
		corpus := r.corpus
		if len(corpus) == 0 {
			corpus = []string{text}
		}
		if err := r.fallback.Fit(corpus); err != nil {
			// nothing tokenizable yet; a zero vector is the best we can do
			return make([]float32, r.fallback.Dimension())
		}
	}
	r.used = true
	return r.fallback.Embed(text)
}

// Refit rebuilds the fallback model from the given corpus. Used after
// paper removal so post-rebuild vectors stay mutually comparable. An
// empty corpus resets the model to unfitted.
func (r *Resilient) Refit(corpus []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.corpus = append([]string(nil), corpus...)
	r.fallback.Reset()
	if len(corpus) > 0 {
		if err := r.fallback.Fit(corpus); err != nil {
			log.Printf("fallback refit failed: %v", err)
		}
	}
}

// FallbackUsed reports whether any vector has come from the fallback
// space.
func (r *Resilient) FallbackUsed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used
}

// SnapshotFallback captures the fallback model state for persistence.
// Returns nil when the fallback has never been fitted. All vectorizer
// access goes through this mutex; handing out the vectorizer itself
// would let callers race a concurrent lazy Fit.
func (r *Resilient) SnapshotFallback() *termfreq.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallback.Snapshot()
}

// RestoreFallback loads a persisted fallback model and marks the
// fallback space active.
func (r *Resilient) RestoreFallback(s termfreq.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback.Restore(s)
	r.used = true
}

// Dimension returns the shared vector length of both spaces.
func (r *Resilient) Dimension() int {
	if r.primary != nil {
		return r.primary.Dimension()
	}
	return r.fallback.Dimension()
}
