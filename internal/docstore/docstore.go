// Package docstore keeps the chunk records and per-row metadata that
// parallel the vector index, one row per index position.
package docstore

import (
	"sort"

	"github.com/atihsingh22/research-agent/internal/domain"
)

// Store holds two positional lists kept in lockstep with the vector
// index. Records are write-once; rows disappear only through paper
// removal. Callers synchronize access (the engine holds the lock).
type Store struct {
	records []domain.Record
	meta    []domain.RowMeta
}

// New creates an empty store.
func New() *Store { return &Store{} }

// Append adds a record and its row metadata at the next position.
func (s *Store) Append(rec domain.Record, m domain.RowMeta) {
	s.records = append(s.records, rec)
	s.meta = append(s.meta, m)
}

// Len returns the number of rows.
func (s *Store) Len() int { return len(s.records) }

// Record returns the record at row i.
func (s *Store) Record(i int) domain.Record { return s.records[i] }

// Meta returns the metadata at row i.
func (s *Store) Meta(i int) domain.RowMeta { return s.meta[i] }

// Records returns the record list for persistence.
func (s *Store) Records() []domain.Record { return s.records }

// Metas returns the metadata list for persistence.
func (s *Store) Metas() []domain.RowMeta { return s.meta }

// Replace swaps in loaded state. The lists must be the same length.
func (s *Store) Replace(records []domain.Record, meta []domain.RowMeta) error {
	if len(records) != len(meta) {
		return domain.ErrCorruptSnapshot
	}
	s.records = records
	s.meta = meta
	return nil
}

// FilterByPaper returns the records belonging to any of the given ids,
// in row order.
func (s *Store) FilterByPaper(ids []string) []domain.Record {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	var out []domain.Record
	for _, rec := range s.records {
		if _, ok := allowed[rec.PaperID]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// HasPaper reports whether any row belongs to the paper.
func (s *Store) HasPaper(id string) bool {
	for _, rec := range s.records {
		if rec.PaperID == id {
			return true
		}
	}
	return false
}

// RemovePaper drops every row owned by the paper and returns how many
// were removed. Surviving rows keep their relative order; their row
// positions shift, which is why the index is rebuilt afterwards.
func (s *Store) RemovePaper(id string) int {
	records := s.records[:0]
	meta := s.meta[:0]
	removed := 0
	for i, rec := range s.records {
		if rec.PaperID == id {
			removed++
			continue
		}
		records = append(records, rec)
		meta = append(meta, s.meta[i])
	}
	s.records = records
	s.meta = meta
	return removed
}

// PaperIDs returns the sorted distinct paper ids present in the store.
func (s *Store) PaperIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, rec := range s.records {
		if _, ok := seen[rec.PaperID]; ok {
			continue
		}
		seen[rec.PaperID] = struct{}{}
		ids = append(ids, rec.PaperID)
	}
	sort.Strings(ids)
	return ids
}
