// Package snapshot persists the engine state as four gob artifacts in a
// store directory: the vector list, the chunk records, the per-row
// metadata, and the fallback term-frequency model (present only once the
// fallback has been used). Every artifact is written to a temp file and
// renamed so a crash mid-save cannot corrupt the previous snapshot.
package snapshot

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atihsingh22/research-agent/internal/domain"
	"github.com/atihsingh22/research-agent/internal/embedding/termfreq"
)

const (
	indexFile      = "index.gob"
	documentsFile  = "documents.gob"
	metadataFile   = "metadata.gob"
	vectorizerFile = "vectorizer.gob"
)

// Snapshot is the complete serializable engine state.
type Snapshot struct {
	Vectors    [][]float32
	Records    []domain.Record
	Meta       []domain.RowMeta
	Vectorizer *termfreq.State // nil when the fallback was never used
}

// Store reads and writes snapshots under a single directory.
type Store struct {
	dir string
}

// NewStore creates the store directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes all artifacts. The vectorizer artifact exists on disk
// exactly when the fallback model does: a snapshot without one also
// deletes any stale file, so a reset model cannot be resurrected on the
// next load.
func (s *Store) Save(snap *Snapshot) error {
	if err := s.writeGob(indexFile, snap.Vectors); err != nil {
		return err
	}
	if err := s.writeGob(documentsFile, snap.Records); err != nil {
		return err
	}
	if err := s.writeGob(metadataFile, snap.Meta); err != nil {
		return err
	}
	if snap.Vectorizer != nil {
		return s.writeGob(vectorizerFile, snap.Vectorizer)
	}
	if err := os.Remove(filepath.Join(s.dir, vectorizerFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", vectorizerFile, err)
	}
	return nil
}

// Load reads whatever artifacts exist. A missing artifact yields empty
// state for that artifact. A decode failure, or artifact lists whose
// lengths disagree, returns an empty snapshot together with
// domain.ErrCorruptSnapshot so the caller can log and start clean.
func (s *Store) Load() (*Snapshot, error) {
	snap := &Snapshot{}

	if err := s.readGob(indexFile, &snap.Vectors); err != nil {
		return &Snapshot{}, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}
	if err := s.readGob(documentsFile, &snap.Records); err != nil {
		return &Snapshot{}, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}
	if err := s.readGob(metadataFile, &snap.Meta); err != nil {
		return &Snapshot{}, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}

	if len(snap.Vectors) != len(snap.Records) || len(snap.Records) != len(snap.Meta) {
		return &Snapshot{}, fmt.Errorf("%w: artifact lengths disagree (%d vectors, %d records, %d metadata)",
			domain.ErrCorruptSnapshot, len(snap.Vectors), len(snap.Records), len(snap.Meta))
	}

	var state termfreq.State
	switch err := s.readGob(vectorizerFile, &state); {
	case err == nil && len(state.Terms) > 0:
		snap.Vectorizer = &state
	case err != nil:
		return &Snapshot{}, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}

	return snap, nil
}

func (s *Store) writeGob(name string, value any) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(value); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", name, err)
	}
	return nil
}

// readGob decodes an artifact into out. A missing file is not an error;
// out keeps its zero value.
func (s *Store) readGob(name string, out any) error {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}
