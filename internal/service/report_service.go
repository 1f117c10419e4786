// Package service turns profiles into reports for the HTTP and MCP surfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dotcommander/innerscope/internal/cache"
	"github.com/dotcommander/innerscope/internal/cue"
	"github.com/dotcommander/innerscope/internal/metrics"
	"github.com/dotcommander/innerscope/internal/profile"
	"github.com/dotcommander/innerscope/internal/scoring"
	"github.com/dotcommander/innerscope/internal/source"
)

// Entry points recorded in metrics.
const (
	EntryDocument = "document"
	EntryUser     = "user"
)

// InvalidProfileError is returned when a document fails schema validation.
type InvalidProfileError struct {
	Issues []cue.ValidationError
}

func (e *InvalidProfileError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Severity == cue.SeverityError {
			msgs = append(msgs, issue.String())
		}
	}
	return "invalid profile: " + strings.Join(msgs, "; ")
}

// Result is a generated or cached report plus any validation warnings.
type Result struct {
	Report   *scoring.Report
	Warnings []cue.ValidationError
	Cached   bool
}

// ReportService handles report generation
type ReportService struct {
	generator scoring.Generator
	source    source.Source
	cache     cache.Cache
	observer  *metrics.Observer
	logger    *zap.Logger

	// cue contexts are not safe for concurrent use
	mu        sync.Mutex
	validator *cue.Validator
}

// Option configures a ReportService.
type Option func(*ReportService)

// WithSource sets where ForUser loads profiles from.
func WithSource(src source.Source) Option {
	return func(s *ReportService) { s.source = src }
}

func WithCache(c cache.Cache) Option {
	return func(s *ReportService) { s.cache = c }
}

func WithObserver(o *metrics.Observer) Option {
	return func(s *ReportService) { s.observer = o }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *ReportService) { s.logger = l }
}

// NewReportService creates a new report service
func NewReportService(gen scoring.Generator, opts ...Option) (*ReportService, error) {
	v, err := cue.NewProfileValidator()
	if err != nil {
		return nil, fmt.Errorf("load profile schema: %w", err)
	}
	s := &ReportService{
		generator: gen,
		validator: v,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ForDocument validates a raw profile document and scores it.
func (s *ReportService) ForDocument(ctx context.Context, data []byte, enc profile.Encoding) (*Result, error) {
	start := time.Now()

	issues, err := s.validate(data)
	if err != nil {
		s.observe(EntryDocument, metrics.OutcomeError, nil, start)
		return nil, err
	}
	if cue.HasErrors(issues) {
		s.observe(EntryDocument, metrics.OutcomeInvalid, nil, start)
		return nil, &InvalidProfileError{Issues: issues}
	}

	in, err := profile.Parse(data, enc)
	if err != nil {
		s.observe(EntryDocument, metrics.OutcomeInvalid, nil, start)
		return nil, &InvalidProfileError{Issues: []cue.ValidationError{{
			Message:  err.Error(),
			Severity: cue.SeverityError,
			Source:   cue.SourceSchema,
		}}}
	}

	res, err := s.report(ctx, EntryDocument, in, start)
	if err != nil {
		return nil, err
	}
	res.Warnings = issues
	return res, nil
}

// ForUser loads a profile from the configured source and scores it.
func (s *ReportService) ForUser(ctx context.Context, userID string) (*Result, error) {
	start := time.Now()
	if s.source == nil {
		s.observe(EntryUser, metrics.OutcomeError, nil, start)
		return nil, source.ErrNoSource
	}

	in, err := s.source.Load(ctx, userID)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, source.ErrNotFound) {
			outcome = metrics.OutcomeNotFound
		}
		s.observe(EntryUser, outcome, nil, start)
		return nil, err
	}
	return s.report(ctx, EntryUser, in, start)
}

// ForInput scores an already decoded profile.
func (s *ReportService) ForInput(ctx context.Context, in *profile.Input) (*Result, error) {
	return s.report(ctx, EntryDocument, in, time.Now())
}

func (s *ReportService) report(ctx context.Context, entry string, in *profile.Input, start time.Time) (*Result, error) {
	if in == nil {
		in = &profile.Input{}
	}
	id := scoring.ReportID(in)

	if s.cache != nil {
		r, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("report cache lookup failed", zap.String("reportId", id), zap.Error(err))
		} else if ok {
			s.observe(entry, metrics.OutcomeCached, r, start)
			return &Result{Report: r, Cached: true}, nil
		}
	}

	r := s.generator.Generate(in)
	if s.cache != nil {
		if err := s.cache.Set(ctx, &r); err != nil {
			s.logger.Warn("report cache store failed", zap.String("reportId", id), zap.Error(err))
		}
	}
	s.logger.Debug("report generated",
		zap.String("reportId", r.Metadata.ReportID),
		zap.String("userId", in.UserID),
		zap.Int("dataPoints", r.Metadata.DataPoints),
	)
	s.observe(entry, metrics.OutcomeGenerated, &r, start)
	return &Result{Report: &r}, nil
}

func (s *ReportService) validate(data []byte) ([]cue.ValidationError, error) {
	doc, err := profile.ParseDocument(data)
	if err != nil {
		return []cue.ValidationError{{
			Message:  err.Error(),
			Severity: cue.SeverityError,
			Source:   cue.SourceSchema,
		}}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validator.ValidateProfile(doc)
}

func (s *ReportService) observe(entry, outcome string, r *scoring.Report, start time.Time) {
	var class string
	if r != nil {
		class = string(r.Metadata.Classification)
	}
	s.observer.ObserveReport(entry, outcome, class, time.Since(start))
}
