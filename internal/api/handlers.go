// Package api provides the HTTP surface of the research agent.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/atihsingh22/research-agent/internal/domain"
	"github.com/atihsingh22/research-agent/internal/engine"
	"github.com/atihsingh22/research-agent/internal/library"
	"github.com/atihsingh22/research-agent/internal/pdf"
	"github.com/atihsingh22/research-agent/internal/summarizer"
)

const maxUploadBytes = 64 << 20

// Answerer synthesizes a natural language answer from retrieval
// context. nil disables the chat endpoint's synthesis step.
type Answerer interface {
	Answer(ctx context.Context, question, retrievalContext string) string
}

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	engine     *engine.Engine
	library    *library.Library
	summarizer *summarizer.FrequencySummarizer
	answerer   Answerer
	uploadDir  string
	maxContext int
}

// NewHandler wires the handler dependencies. uploadDir receives
// uploaded PDF files; it is created on demand. maxContext is the
// default chat context cap when a request does not set its own.
func NewHandler(eng *engine.Engine, lib *library.Library, ans Answerer, uploadDir string, maxContext int) *Handler {
	return &Handler{
		engine:     eng,
		library:    lib,
		summarizer: summarizer.NewFrequencySummarizer(),
		answerer:   ans,
		uploadDir:  uploadDir,
		maxContext: maxContext,
	}
}

// AddPaperRequest is the JSON body for POST /papers.
type AddPaperRequest struct {
	ID       string            `json:"id,omitempty"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Sections map[string]string `json:"sections,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AddPaperResponse reports the outcome of an ingestion.
type AddPaperResponse struct {
	PaperID        string `json:"paper_id"`
	Title          string `json:"title"`
	DocumentsAdded int    `json:"documents_added"`
}

// SearchRequest is the JSON body for POST /search.
type SearchRequest struct {
	Query    string   `json:"query"`
	K        int      `json:"k,omitempty"`
	PaperIDs []string `json:"paper_ids,omitempty"`
}

// ChatRequest is the JSON body for POST /chat. MaxContext caps the
// assembled context in characters; zero uses the server default.
type ChatRequest struct {
	Question   string   `json:"question"`
	PaperIDs   []string `json:"paper_ids,omitempty"`
	MaxContext int      `json:"max_context,omitempty"`
}

// ChatResponse carries the synthesized answer with its citations.
type ChatResponse struct {
	Answer         string          `json:"answer"`
	Sources        []domain.Source `json:"sources"`
	PapersSearched []string        `json:"papers_searched"`
	TotalResults   int             `json:"total_results"`
}

// HandleAddPaper handles POST /papers. A multipart body is treated as a
// PDF upload; a JSON body supplies the content directly.
func (h *Handler) HandleAddPaper(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.addPaperUpload(w, r)
		return
	}

	var req AddPaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		sendError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Title == "" {
		req.Title = req.ID
	}

	added, err := h.engine.AddPaper(r.Context(), req.ID, req.Title, req.Content, req.Sections, req.Metadata)
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	abstract := req.Sections["abstract"]
	if abstract == "" {
		abstract, _ = h.summarizer.Summarize(req.Content, 3)
	}
	if err := h.library.Save(r.Context(), library.Paper{
		ID:       req.ID,
		Title:    req.Title,
		Abstract: abstract,
	}); err != nil {
		log.Printf("cataloging paper %s failed: %v", req.ID, err)
	}

	sendJSON(w, http.StatusCreated, AddPaperResponse{
		PaperID:        req.ID,
		Title:          req.Title,
		DocumentsAdded: added,
	})
}

func (h *Handler) addPaperUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		sendError(w, http.StatusBadRequest, "parsing upload: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		sendError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	id := uuid.NewString()
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	path := filepath.Join(h.uploadDir, id+".pdf")
	dst, err := os.Create(path)
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	dst.Close()

	text, pages, err := pdf.ExtractText(path)
	if err != nil {
		os.Remove(path)
		sendError(w, http.StatusBadRequest, "reading PDF: "+err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		os.Remove(path)
		sendError(w, http.StatusBadRequest, "PDF contains no extractable text")
		return
	}

	title := pdf.ExtractTitle(text)
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}
	sections := pdf.ExtractSections(text)

	added, err := h.engine.AddPaper(r.Context(), id, title, text, sections, nil)
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	abstract := pdf.ExtractAbstract(text)
	if abstract == "" {
		abstract, _ = h.summarizer.Summarize(text, 3)
	}
	if err := h.library.Save(r.Context(), library.Paper{
		ID:       id,
		Title:    title,
		Abstract: abstract,
		Filename: header.Filename,
		Pages:    pages,
	}); err != nil {
		log.Printf("cataloging paper %s failed: %v", id, err)
	}

	sendJSON(w, http.StatusCreated, AddPaperResponse{
		PaperID:        id,
		Title:          title,
		DocumentsAdded: added,
	})
}

// HandleListPapers handles GET /papers.
func (h *Handler) HandleListPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := h.library.List(r.Context())
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if papers == nil {
		papers = []library.Paper{}
	}
	sendJSON(w, http.StatusOK, map[string]any{"papers": papers})
}

// HandlePaperSummary handles GET /papers/{id}/summary.
func (h *Handler) HandlePaperSummary(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sum, err := h.engine.PaperSummary(id)
	if errors.Is(err, domain.ErrNotFound) {
		sendError(w, http.StatusNotFound, "paper not found: "+id)
		return
	}
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sendJSON(w, http.StatusOK, sum)
}

// HandleRemovePaper handles DELETE /papers/{id}.
func (h *Handler) HandleRemovePaper(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := h.engine.RemovePaper(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		sendError(w, http.StatusNotFound, "paper not found: "+id)
		return
	}
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.library.Delete(r.Context(), id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Printf("removing paper %s from catalog failed: %v", id, err)
	}
	sendJSON(w, http.StatusOK, map[string]string{"status": "deleted", "paper_id": id})
}

// HandleSearch handles POST /search.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		sendError(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := h.engine.Search(r.Context(), req.Query, req.K, req.PaperIDs)
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	sendJSON(w, http.StatusOK, map[string]any{"results": results})
}

// HandleChat handles POST /chat.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		sendError(w, http.StatusBadRequest, "question is required")
		return
	}

	maxContext := req.MaxContext
	if maxContext <= 0 {
		maxContext = h.maxContext
	}
	bundle, err := h.engine.MultiDocumentContext(r.Context(), req.Question, req.PaperIDs, maxContext)
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := ChatResponse{
		Sources:        bundle.Sources,
		PapersSearched: bundle.PapersSearched,
		TotalResults:   bundle.TotalResults,
	}
	if resp.Sources == nil {
		resp.Sources = []domain.Source{}
	}
	switch {
	case bundle.Empty:
		resp.Answer = "I could not find relevant information in the indexed papers to answer this question."
	case h.answerer != nil:
		resp.Answer = h.answerer.Answer(r.Context(), req.Question, bundle.Context)
	default:
		resp.Answer = bundle.Context
	}
	sendJSON(w, http.StatusOK, resp)
}

// HandleStats handles GET /stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, h.engine.Stats())
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"total_documents": h.engine.Stats().TotalDocuments,
	})
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, map[string]string{"error": message})
}
