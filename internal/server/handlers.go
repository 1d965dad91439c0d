package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/resume-rewrite/internal/pipeline"
	"github.com/jonathan/resume-rewrite/internal/schemas"
	"github.com/jonathan/resume-rewrite/internal/storage"
	"github.com/jonathan/resume-rewrite/internal/types"
)

// UploadRequest represents the request body for /api/presigned-upload
type UploadRequest struct {
	FileName string `json:"fileName" validate:"required,max=255"`
	FileType string `json:"fileType" validate:"required,max=255"`
}

// UploadResponse represents the response for /api/presigned-upload
type UploadResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

// DownloadRequest represents the request body for /api/download
type DownloadRequest struct {
	FileKey string `json:"fileKey" validate:"required,max=1024"`
}

// DownloadResponse represents the response for /api/download
type DownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return &ErrValidation{Field: "(body)", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// handleProcess analyzes a résumé against a job description
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req pipeline.ProcessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		verr := validationError(err)
		if verr.Field == "JobURL" {
			s.writeError(w, verr)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Resume and JD are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.processTimeout)
	defer cancel()

	result, err := s.service.Process(ctx, req)
	if err != nil {
		s.logger.Printf("[server] process failed: %v", err)
		s.writeError(w, err)
		return
	}

	if result.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	s.jsonResponse(w, http.StatusOK, result.Response)
}

// decodeResume validates the body against the résumé schema and the struct rules
func (s *Server) decodeResume(w http.ResponseWriter, r *http.Request) (*types.ResumeData, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "(body)", Message: err.Error()}
	}
	if err := schemas.ValidateResumeDocument(string(raw)); err != nil {
		return nil, err
	}

	var doc types.ResumeData
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ErrValidation{Field: "(body)", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(doc); err != nil {
		return nil, validationError(err)
	}
	return &doc, nil
}

// handleRender returns the LaTeX source for a résumé document
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, err := s.decodeResume(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	markup, err := s.service.RenderTeX(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/x-tex; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.tex"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, markup)
}

// handleGeneratePDF renders and compiles a résumé document
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	doc, err := s.decodeResume(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	pdf, err := s.service.GeneratePDF(r.Context(), doc)
	if err != nil {
		s.logger.Printf("[server] pdf generation failed: %v", err)
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// handlePresignedUpload issues a short-lived PUT URL under a fresh key
func (s *Server) handlePresignedUpload(w http.ResponseWriter, r *http.Request) {
	if s.presigner == nil {
		s.writeError(w, &pipeline.NotConfiguredError{Component: "object storage"})
		return
	}

	var req UploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing fileName or fileType")
		return
	}

	key := storage.UniqueKey(req.FileName, req.FileType)
	url, err := s.presigner.PresignUpload(r.Context(), key, req.FileType, storage.UploadURLTTL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, UploadResponse{
		URL:       url,
		Key:       key,
		ExpiresIn: int(storage.UploadURLTTL.Seconds()),
	})
}

// handleDownload issues a GET URL for a stored file
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if s.presigner == nil {
		s.writeError(w, &pipeline.NotConfiguredError{Component: "object storage"})
		return
	}

	var req DownloadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "fileKey is required")
		return
	}

	url, err := s.presigner.PresignDownload(r.Context(), req.FileKey, storage.DownloadURLTTL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, DownloadResponse{DownloadURL: url})
}
