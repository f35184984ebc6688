package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/hyperjump/vanban/internal/fileid"
	"github.com/hyperjump/vanban/internal/models"
	"github.com/hyperjump/vanban/internal/store"
)

var pdfMagic = []byte("%PDF")

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.config.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !isPDFUpload(header.Filename, header.Header.Get("Content-Type")) {
		s.respondError(w, http.StatusBadRequest, "only PDF files are accepted")
		return
	}
	if header.Size > maxSize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "file exceeds size limit")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		s.respondInternal(w, "read upload", err)
		return
	}
	if int64(len(data)) > maxSize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "file exceeds size limit")
		return
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		s.respondError(w, http.StatusBadRequest, "file is not a valid PDF")
		return
	}

	docID := fileid.DocumentID(header.Filename, int64(len(data)))

	if err := os.MkdirAll(s.config.Upload.Dir, 0755); err != nil {
		s.respondInternal(w, "create upload dir", err)
		return
	}
	savedPath := filepath.Join(s.config.Upload.Dir, docID+".pdf")
	if err := os.WriteFile(savedPath, data, 0644); err != nil {
		s.respondInternal(w, "save upload", err)
		return
	}

	// Structural probe: the magic bytes alone pass truncated files.
	if f, _, err := pdf.Open(savedPath); err != nil {
		_ = os.Remove(savedPath)
		s.respondError(w, http.StatusBadRequest, "file is not a readable PDF")
		return
	} else {
		_ = f.Close()
	}

	job := &models.Job{
		DocumentID: docID,
		FileName:   header.Filename,
		FilePath:   savedPath,
		Size:       int64(len(data)),
		Status:     models.StatusUploaded,
	}
	if err := s.store.CreateJob(r.Context(), job); err != nil {
		s.respondInternal(w, "register job", err)
		return
	}

	s.logger.Info("document uploaded",
		zap.String("doc_id", docID),
		zap.String("file", header.Filename),
		zap.Int("size", len(data)),
	)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"doc_id":    docID,
		"file_name": header.Filename,
		"size":      len(data),
		"status":    job.Status,
	})
}

func isPDFUpload(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	return contentType == "application/pdf"
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := s.orch.Trigger(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.respondInternal(w, "trigger processing", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"doc_id": id,
		"status": string(status),
	})
}

func (s *Server) handleExtractionResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.respondInternal(w, "load job", err)
		return
	}

	switch job.Status {
	case models.StatusUploaded, models.StatusProcessing:
		s.respondJSON(w, http.StatusOK, map[string]string{
			"doc_id": id,
			"status": string(models.StatusProcessing),
		})
	case models.StatusFailed:
		s.respondJSON(w, http.StatusOK, map[string]string{
			"doc_id": id,
			"status": string(models.StatusFailed),
			"error":  job.Error,
		})
	default:
		result := s.orch.Result(id)
		if result == nil {
			s.respondInternal(w, "load result", os.ErrNotExist)
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"doc_id": id,
			"status": string(models.StatusCompleted),
			"result": result,
		})
	}
}

func (s *Server) handleExtractions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetJob(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.respondInternal(w, "load job", err)
		return
	}
	records, err := s.store.GetExtractions(r.Context(), id)
	if err != nil {
		s.respondInternal(w, "load extractions", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"doc_id":      id,
		"count":       len(records),
		"extractions": records,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}
	jobs, err := s.store.ListJobs(r.Context(), offset, limit)
	if err != nil {
		s.respondInternal(w, "list jobs", err)
		return
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(jobs),
		"documents": jobs,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	hits, err := s.index.Search(r.Context(), query, limit)
	if err != nil {
		s.respondInternal(w, "search", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query": query,
		"count": len(hits),
		"hits":  hits,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"embedding_ready": s.embeddingReady,
	})
}
