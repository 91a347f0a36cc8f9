package domain

// Record is one retrievable unit of a paper: either a content chunk or a
// whole named section. Records are write-once and positionally aligned with
// the vector index (record i corresponds to index row i).
type Record struct {
	PaperID    string
	Title      string
	Text       string
	Section    string // empty for chunk records
	ChunkIndex int
}

// RowMeta carries the per-row bookkeeping for a Record.
type RowMeta struct {
	PaperID     string
	Title       string
	Section     string
	ChunkIndex  int
	TotalChunks int
	IsSection   bool
	Extra       map[string]string
}

// SearchResult is a ranked hit returned by the retrieval engine.
type SearchResult struct {
	Score     float32           `json:"score"`
	PaperID   string            `json:"paper_id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Section   string            `json:"section_name"`
	IsSection bool              `json:"is_section"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Source is a citation entry produced during context assembly.
type Source struct {
	PaperID string  `json:"paper_id"`
	Title   string  `json:"title"`
	Section string  `json:"section"`
	Score   float32 `json:"relevance_score"`
	Excerpt string  `json:"excerpt"`
}

// ContextBundle is the product of multi-document context assembly: the
// bounded context string handed to answer synthesis plus its citations.
// Empty is true when search yielded no relevant rows.
type ContextBundle struct {
	Context        string
	Sources        []Source
	PapersSearched []string
	TotalResults   int
	Empty          bool
}

// Stats summarizes the engine's index state.
type Stats struct {
	TotalDocuments int      `json:"total_documents"`
	TotalPapers    int      `json:"total_papers"`
	PaperIDs       []string `json:"paper_ids"`
	IndexSize      int      `json:"index_size"`
	Dimension      int      `json:"dimension"`
}

// PaperSummary describes what the engine holds for a single paper.
type PaperSummary struct {
	PaperID        string   `json:"paper_id"`
	Title          string   `json:"title"`
	TotalDocuments int      `json:"total_documents"`
	Sections       []string `json:"sections"`
	ContentPreview string   `json:"content_preview"`
}
