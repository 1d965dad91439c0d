// Package pipeline wires storage, extraction, fetching, analysis, rendering and typesetting
// into the request-level operations the server and CLI expose.
package pipeline

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-rewrite/internal/analysis"
	"github.com/jonathan/resume-rewrite/internal/cache"
	"github.com/jonathan/resume-rewrite/internal/extraction"
	"github.com/jonathan/resume-rewrite/internal/fetch"
	"github.com/jonathan/resume-rewrite/internal/keywords"
	"github.com/jonathan/resume-rewrite/internal/rendering"
	"github.com/jonathan/resume-rewrite/internal/storage"
	"github.com/jonathan/resume-rewrite/internal/types"
)

// Analyst produces the model-backed analysis
type Analyst interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (*types.AnalysisResponse, error)
}

// ObjectSource downloads stored uploads
type ObjectSource interface {
	Download(ctx context.Context, key string) (*storage.Object, error)
}

// PostingSource fetches job postings by URL
type PostingSource interface {
	Fetch(ctx context.Context, url string) (*fetch.Posting, error)
}

// Compiler turns markup into a PDF
type Compiler interface {
	Compile(ctx context.Context, markup string) ([]byte, error)
}

// Deps are the collaborators of a Service. Only Analyzer is required; the others
// enable the request fields that need them.
type Deps struct {
	Analyzer Analyst
	Objects  ObjectSource
	Postings PostingSource
	Compiler Compiler
	Results  *cache.ResultCache
	Logger   *log.Logger
}

// Service is safe for concurrent use. The result cache is the only state shared between requests.
type Service struct {
	analyzer Analyst
	objects  ObjectSource
	postings PostingSource
	compiler Compiler
	results  *cache.ResultCache
	logger   *log.Logger
}

// New creates a Service
func New(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return &Service{
		analyzer: deps.Analyzer,
		objects:  deps.Objects,
		postings: deps.Postings,
		compiler: deps.Compiler,
		results:  deps.Results,
		logger:   deps.Logger,
	}
}

// ProcessRequest names the résumé by storage key or inline text, and the job by text or URL.
// Inline values win when both forms are given.
type ProcessRequest struct {
	ResumeKey      string `json:"resumeKey,omitempty" validate:"required_without=ResumeText,max=1024"`
	ResumeText     string `json:"resumeText,omitempty" validate:"required_without=ResumeKey"`
	JobDescription string `json:"jobDescription,omitempty" validate:"required_without=JobURL"`
	JobURL         string `json:"jobUrl,omitempty" validate:"omitempty,http_url"`
}

// ProcessResult is the response plus whether it was served from the cache
type ProcessResult struct {
	Response *types.AnalysisResponse
	Cached   bool
}

// Process resolves both inputs concurrently, then runs the keyword comparison and the
// model analysis, memoized by (résumé identity, job description).
func (s *Service) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	if s.analyzer == nil {
		return nil, &NotConfiguredError{Component: "analyzer"}
	}
	if strings.TrimSpace(req.ResumeKey) == "" && strings.TrimSpace(req.ResumeText) == "" {
		return nil, &analysis.InvalidInputError{Field: "resumeKey", Message: "resume key or resume text is required"}
	}
	if strings.TrimSpace(req.JobDescription) == "" && strings.TrimSpace(req.JobURL) == "" {
		return nil, &analysis.InvalidInputError{Field: "jobDescription", Message: "job description or job URL is required"}
	}

	var resumeText, jobDescription string
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := s.resolveResume(gCtx, req)
		resumeText = text
		return err
	})
	g.Go(func() error {
		text, err := s.resolveJobDescription(gCtx, req)
		jobDescription = text
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compute := func(ctx context.Context) (*types.AnalysisResponse, error) {
		resp, err := s.analyzer.Analyze(ctx, resumeText, jobDescription)
		if err != nil {
			return nil, err
		}
		resp.Keywords = keywords.Compare(resumeText, jobDescription)
		return resp, nil
	}

	if s.results == nil {
		resp, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return &ProcessResult{Response: resp}, nil
	}

	key := cache.Key(documentID(req, resumeText), jobDescription)
	resp, hit, err := s.results.Do(ctx, key, compute)
	if err != nil {
		return nil, err
	}
	if hit {
		s.logger.Printf("[pipeline] cache hit %s", key[:12])
	}
	return &ProcessResult{Response: resp, Cached: hit}, nil
}

// documentID identifies the résumé: its storage key, or its text when given inline
func documentID(req ProcessRequest, resumeText string) string {
	if req.ResumeText == "" && req.ResumeKey != "" {
		return "key:" + req.ResumeKey
	}
	return "text:" + resumeText
}

func (s *Service) resolveResume(ctx context.Context, req ProcessRequest) (string, error) {
	if strings.TrimSpace(req.ResumeText) != "" {
		return req.ResumeText, nil
	}
	if s.objects == nil {
		return "", &NotConfiguredError{Component: "object storage"}
	}

	obj, err := s.objects.Download(ctx, req.ResumeKey)
	if err != nil {
		return "", &SourceError{Source: "resume", Message: "failed to download", Cause: err}
	}
	text, err := extraction.ExtractText(req.ResumeKey, obj.ContentType, obj.Data)
	if err != nil {
		return "", &SourceError{Source: "resume", Message: "failed to extract text", Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &analysis.InvalidInputError{Field: "resumeKey", Message: "uploaded resume contains no text"}
	}
	s.logger.Printf("[pipeline] extracted %d chars from %s", len(text), req.ResumeKey)
	return text, nil
}

func (s *Service) resolveJobDescription(ctx context.Context, req ProcessRequest) (string, error) {
	if strings.TrimSpace(req.JobDescription) != "" {
		return req.JobDescription, nil
	}
	if s.postings == nil {
		return "", &NotConfiguredError{Component: "job posting fetcher"}
	}

	posting, err := s.postings.Fetch(ctx, req.JobURL)
	if err != nil {
		return "", &SourceError{Source: "jobDescription", Message: "failed to fetch job posting", Cause: err}
	}
	return posting.Text, nil
}

// RenderTeX renders a résumé document to markup
func (s *Service) RenderTeX(doc *types.ResumeData) (string, error) {
	if doc == nil {
		return "", &analysis.InvalidInputError{Field: "resumeData", Message: "resume data is required"}
	}
	return rendering.Render(doc), nil
}

// GeneratePDF renders and compiles a résumé document
func (s *Service) GeneratePDF(ctx context.Context, doc *types.ResumeData) ([]byte, error) {
	if s.compiler == nil {
		return nil, &NotConfiguredError{Component: "typesetter"}
	}
	markup, err := s.RenderTeX(doc)
	if err != nil {
		return nil, err
	}
	return s.compiler.Compile(ctx, markup)
}
