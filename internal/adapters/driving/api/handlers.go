package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/core/ports/driving"
	"github.com/dspeziale/docsearch/internal/logger"
)

// searchRequest is the POST /api/search body.
type searchRequest struct {
	Query     string `json:"query"`
	Size      int    `json:"size"`
	UseRAG    *bool  `json:"use_rag"`
	TagFilter string `json:"tag_filter"`
}

// searchResponse flattens the synthesized answer alongside the
// results, matching what the search UI consumes.
type searchResponse struct {
	Success     bool                      `json:"success"`
	Query       string                    `json:"query"`
	Total       int                       `json:"total"`
	Results     []domain.SearchResult     `json:"results"`
	Answer      string                    `json:"answer,omitempty"`
	Confidence  *float64                  `json:"confidence,omitempty"`
	Sources     []domain.AnswerSource     `json:"sources,omitempty"`
	Flow        []string                  `json:"flow,omitempty"`
	Suggestions []string                  `json:"suggestions,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "healthy", "service": "docsearch"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	// Answer synthesis is on unless explicitly disabled.
	withAnswer := req.UseRAG == nil || *req.UseRAG

	resp, err := s.query.Search(r.Context(), req.Query, driving.QueryOptions{
		Size:       req.Size,
		TagFilter:  strings.TrimSpace(req.TagFilter),
		WithAnswer: withAnswer,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := searchResponse{
		Success: true,
		Query:   resp.Query,
		Total:   resp.Total,
		Results: resp.Results,
	}
	if resp.Answer != nil {
		out.Answer = resp.Answer.Answer
		out.Confidence = &resp.Answer.Confidence
		out.Sources = resp.Answer.Sources
		out.Flow = resp.Answer.Flow
		out.Suggestions = resp.Answer.Suggestions
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if filename == "" {
		respondError(w, http.StatusBadRequest, "no file selected")
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !s.isSupported(ext) {
		respondJSON(w, http.StatusBadRequest, errorBody{
			Success: false,
			Error:   fmt.Sprintf("unsupported file type: %s", ext),
			Details: s.supported,
		})
		return
	}

	path, err := s.saveUpload(file, filename)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store upload: "+err.Error())
		return
	}

	result, err := s.ingest.Ingest(r.Context(), path, driving.IngestOptions{
		Tags: splitTags(r.FormValue("tags")),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	// The stored copy carries a unique prefix; report the original name.
	result.Filename = filename

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Document uploaded and indexed successfully",
		"document": result,
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	size := intQuery(r, "size", 20)
	page := intQuery(r, "page", 1)

	resp, err := s.query.Search(r.Context(), "*", driving.QueryOptions{Size: size})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"documents": resp.Results,
		"total":     resp.Total,
		"page":      page,
		"size":      size,
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.query.Document(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "document": doc})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.query.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Document deleted successfully",
	})
}

func (s *Server) handleAttachments(w http.ResponseWriter, r *http.Request) {
	attachments, err := s.query.Attachments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"attachments": attachments,
		"total":       len(attachments),
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.query.Statistics(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "statistics": stats})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.query.Tags(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "tags": tags})
}

// saveUpload writes the payload under the upload directory with a
// timestamp and uuid prefix so concurrent uploads of the same name
// never collide.
func (s *Server) saveUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}

	unique := fmt.Sprintf("%s_%s_%s",
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8],
		filename,
	)
	path := filepath.Join(s.cfg.UploadDir, unique)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	logger.Debug("Saved upload: %s", unique)
	return path, nil
}

func (s *Server) isSupported(ext string) bool {
	for _, e := range s.supported {
		if e == ext {
			return true
		}
	}
	return false
}

// sanitizeFilename strips any path components a client smuggled into
// the multipart filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func intQuery(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
