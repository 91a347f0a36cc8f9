// Package engine implements the retrieval core: ingestion of papers into
// the vector index and document store, diversified similarity search,
// multi-document context assembly, and removal with full index rebuild.
package engine

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/atihsingh22/research-agent/internal/docstore"
	"github.com/atihsingh22/research-agent/internal/domain"
	"github.com/atihsingh22/research-agent/internal/embedding"
	"github.com/atihsingh22/research-agent/internal/snapshot"
	"github.com/atihsingh22/research-agent/internal/vectorstore"
)

const (
	// defaultK is the result count when the caller passes k <= 0.
	defaultK = 5
	// candidateFactor widens the index query so post-filtering still
	// has enough rows to choose from.
	candidateFactor = 3
	// contextK is the search width used for context assembly.
	contextK = 8
	// defaultMaxContext bounds the assembled context in characters.
	defaultMaxContext = 3000
	// excerptLen is the citation excerpt length.
	excerptLen = 200
	// previewLen bounds the paper summary content preview.
	previewLen = 500
)

// Chunker splits paper content into indexable windows.
type Chunker interface {
	Split(text string) ([]string, error)
}

// Engine owns the vector index, the document store, and the cached raw
// vectors as one critical section. Writers (AddPaper, RemovePaper) take
// the lock exclusively; searches share it. Rebuild replaces the index
// wholesale, so a reader must never overlap one.
type Engine struct {
	chunker  Chunker
	embedder *embedding.Resilient
	snaps    *snapshot.Store // nil disables persistence

	mu    sync.RWMutex
	index *vectorstore.Index
	docs  *docstore.Store
	cache [][]float32 // raw vectors, row-parallel with docs; replayed on rebuild
}

// New assembles an engine and reloads any snapshot found in the store.
// Corrupt or inconsistent artifacts reset to an empty state instead of
// failing startup.
func New(chunker Chunker, embedder *embedding.Resilient, snaps *snapshot.Store) *Engine {
	e := &Engine{
		chunker:  chunker,
		embedder: embedder,
		snaps:    snaps,
		index:    vectorstore.NewIndex(embedder.Dimension()),
		docs:     docstore.New(),
	}
	if snaps == nil {
		return e
	}

	snap, err := snaps.Load()
	if err != nil {
		log.Printf("warning: %v; starting with an empty index", err)
		return e
	}
	if err := e.index.Rebuild(snap.Vectors); err != nil {
		log.Printf("warning: stored vectors unusable (%v); starting with an empty index", err)
		return e
	}
	if err := e.docs.Replace(snap.Records, snap.Meta); err != nil {
		log.Printf("warning: %v; starting with an empty index", err)
		e.index = vectorstore.NewIndex(embedder.Dimension())
		e.docs = docstore.New()
		return e
	}
	e.cache = snap.Vectors
	if snap.Vectorizer != nil {
		embedder.RestoreFallback(*snap.Vectorizer)
	}
	return e
}

// AddPaper chunks the content, embeds each chunk plus each non-empty
// named section, and appends the rows to the index and document store.
// Returns the number of rows added. State is persisted afterwards.
func (e *Engine) AddPaper(ctx context.Context, id, title, content string, sections map[string]string, metadata map[string]string) (int, error) {
	chunks, err := e.chunker.Split(content)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		rec := domain.Record{PaperID: id, Title: title, Text: chunk, ChunkIndex: i}
		meta := domain.RowMeta{
			PaperID:     id,
			Title:       title,
			ChunkIndex:  i,
			TotalChunks: len(chunks),
			Extra:       metadata,
		}
		if err := e.appendLocked(ctx, rec, meta); err != nil {
			return added, err
		}
		added++
	}

	// section names sorted for a reproducible row order
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		text := sections[name]
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec := domain.Record{PaperID: id, Title: title, Text: text, Section: name}
		meta := domain.RowMeta{
			PaperID:   id,
			Title:     title,
			Section:   name,
			IsSection: true,
			Extra:     metadata,
		}
		if err := e.appendLocked(ctx, rec, meta); err != nil {
			return added, err
		}
		added++
	}

	e.persistLocked()
	return added, nil
}

func (e *Engine) appendLocked(ctx context.Context, rec domain.Record, meta domain.RowMeta) error {
	e.embedder.Observe(rec.Text)
	vec, err := e.embedder.Embed(ctx, rec.Text)
	if err != nil {
		return fmt.Errorf("embedding row for paper %s: %w", rec.PaperID, err)
	}
	if err := e.index.Append(vec); err != nil {
		return err
	}
	e.docs.Append(rec, meta)
	e.cache = append(e.cache, vec)
	return nil
}

// Search embeds the query and returns at most k rows ranked by
// descending cosine similarity. An optional allow-list restricts hits to
// the given paper ids. A per-(paper, section) diversity cap defers
// repeat hits from an already-represented pair until unique pairs are
// exhausted.
func (e *Engine) Search(ctx context.Context, query string, k int, paperIDs []string) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = defaultK
	}
	qvec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	hits := e.index.Search(qvec, candidateFactor*k)
	if len(hits) == 0 {
		return nil, nil
	}

	var allowed map[string]struct{}
	if len(paperIDs) > 0 {
		allowed = make(map[string]struct{}, len(paperIDs))
		for _, id := range paperIDs {
			allowed[id] = struct{}{}
		}
	}

	type pairKey struct{ paper, section string }
	seen := make(map[pairKey]struct{})
	results := make([]domain.SearchResult, 0, k)
	var deferred []vectorstore.Hit

	for _, h := range hits {
		meta := e.docs.Meta(h.Row)
		if allowed != nil {
			if _, ok := allowed[meta.PaperID]; !ok {
				continue
			}
		}
		key := pairKey{meta.PaperID, meta.Section}
		if _, dup := seen[key]; dup {
			deferred = append(deferred, h)
			continue
		}
		seen[key] = struct{}{}
		results = append(results, e.resultLocked(h))
		if len(results) == k {
			break
		}
	}
	for _, h := range deferred {
		if len(results) == k {
			break
		}
		results = append(results, e.resultLocked(h))
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

func (e *Engine) resultLocked(h vectorstore.Hit) domain.SearchResult {
	rec := e.docs.Record(h.Row)
	meta := e.docs.Meta(h.Row)
	return domain.SearchResult{
		Score:     h.Score,
		PaperID:   rec.PaperID,
		Title:     rec.Title,
		Content:   rec.Text,
		Section:   rec.Section,
		IsSection: meta.IsSection,
		Metadata:  meta.Extra,
	}
}

// MultiDocumentContext searches across the given papers and greedily
// assembles result excerpts into a context buffer of at most maxChars,
// truncating the final entry if it would overflow. Each included result
// becomes a source citation. Empty is set when nothing relevant was
// found.
func (e *Engine) MultiDocumentContext(ctx context.Context, question string, paperIDs []string, maxChars int) (domain.ContextBundle, error) {
	if maxChars <= 0 {
		maxChars = defaultMaxContext
	}
	results, err := e.Search(ctx, question, contextK, paperIDs)
	if err != nil {
		return domain.ContextBundle{}, err
	}
	if len(results) == 0 {
		return domain.ContextBundle{Empty: true, PapersSearched: paperIDs}, nil
	}

	var parts []string
	var sources []domain.Source
	used := 0
	for _, r := range results {
		content := r.Content
		if used+len(content) > maxChars {
			content = truncateRunes(content, maxChars-used)
		}
		sectionInfo := ""
		if r.Section != "" {
			sectionInfo = fmt.Sprintf(" (Section: %s)", r.Section)
		}
		parts = append(parts, fmt.Sprintf("From %q%s:\n%s", r.Title, sectionInfo, content))

		excerpt := content
		if len(excerpt) > excerptLen {
			excerpt = truncateRunes(excerpt, excerptLen) + "..."
		}
		sources = append(sources, domain.Source{
			PaperID: r.PaperID,
			Title:   r.Title,
			Section: r.Section,
			Score:   r.Score,
			Excerpt: excerpt,
		})

		used += len(content)
		if used >= maxChars {
			break
		}
	}

	papers := paperIDs
	if len(papers) == 0 {
		seen := make(map[string]struct{})
		for _, s := range sources {
			if _, ok := seen[s.PaperID]; ok {
				continue
			}
			seen[s.PaperID] = struct{}{}
			papers = append(papers, s.PaperID)
		}
	}

	return domain.ContextBundle{
		Context:        strings.Join(parts, "\n\n"),
		Sources:        sources,
		PapersSearched: papers,
		TotalResults:   len(results),
	}, nil
}

// RemovePaper drops every row owned by the paper and rebuilds the index
// from the surviving cached vectors. When the fallback space is active
// the fallback model is refit over the surviving texts and the survivors
// re-embedded, so all remaining vectors stay mutually comparable.
// Returns domain.ErrNotFound, with no mutation, for an unknown id.
func (e *Engine) RemovePaper(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.docs.HasPaper(id) {
		return domain.ErrNotFound
	}

	survivors := make([][]float32, 0, len(e.cache))
	for i := 0; i < e.docs.Len(); i++ {
		if e.docs.Record(i).PaperID != id {
			survivors = append(survivors, e.cache[i])
		}
	}
	e.docs.RemovePaper(id)

	if e.embedder.FallbackUsed() {
		texts := make([]string, e.docs.Len())
		for i := range texts {
			texts[i] = e.docs.Record(i).Text
		}
		e.embedder.Refit(texts)
		for i := range texts {
			vec, err := e.embedder.Embed(ctx, texts[i])
			if err != nil {
				return fmt.Errorf("re-embedding row %d: %w", i, err)
			}
			survivors[i] = vec
		}
	}

	if err := e.index.Rebuild(survivors); err != nil {
		return err
	}
	e.cache = survivors
	e.persistLocked()
	return nil
}

// Stats reports the current index state.
func (e *Engine) Stats() domain.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.docs.PaperIDs()
	if ids == nil {
		ids = []string{}
	}
	return domain.Stats{
		TotalDocuments: e.docs.Len(),
		TotalPapers:    len(ids),
		PaperIDs:       ids,
		IndexSize:      e.index.Len(),
		Dimension:      e.embedder.Dimension(),
	}
}

// PaperSummary describes the rows held for one paper.
func (e *Engine) PaperSummary(id string) (domain.PaperSummary, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	recs := e.docs.FilterByPaper([]string{id})
	if len(recs) == 0 {
		return domain.PaperSummary{}, domain.ErrNotFound
	}

	var sections []string
	for _, rec := range recs {
		if rec.Section != "" {
			sections = append(sections, rec.Section)
		}
	}
	preview := recs[0].Text
	if len(preview) > previewLen {
		preview = truncateRunes(preview, previewLen) + "..."
	}
	return domain.PaperSummary{
		PaperID:        id,
		Title:          recs[0].Title,
		TotalDocuments: len(recs),
		Sections:       sections,
		ContentPreview: preview,
	}, nil
}

// truncateRunes cuts s to at most n bytes, backing up so the cut never
// lands inside a multibyte rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// persistLocked snapshots the engine state. Failures are logged, not
// fatal; the next mutating call writes a fresh snapshot that supersedes
// any partial state.
func (e *Engine) persistLocked() {
	if e.snaps == nil {
		return
	}
	snap := &snapshot.Snapshot{
		Vectors:    e.cache,
		Records:    e.docs.Records(),
		Meta:       e.docs.Metas(),
		Vectorizer: e.embedder.SnapshotFallback(),
	}
	if err := e.snaps.Save(snap); err != nil {
		log.Printf("warning: persisting snapshot failed: %v", err)
	}
}
