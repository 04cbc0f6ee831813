// Package service orchestrates the decode, extract, and compare steps
// behind one façade and owns everything the pure core does not: version
// identifiers, persistence, and logging.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/formlens/formdiff/internal/config"
	"github.com/formlens/formdiff/internal/diff"
	"github.com/formlens/formdiff/internal/extract"
	"github.com/formlens/formdiff/internal/pdfdec"
	"github.com/formlens/formdiff/internal/store"
)

// Service wires the decoder, extractor, and diff engine together.
type Service struct {
	decoder   *pdfdec.Decoder
	extractor *extract.Extractor
	engine    *diff.Engine
	store     *store.Store // nil disables persistence
	logger    *zap.Logger
}

// New creates a service from configuration. The store may be nil, in
// which case results are not persisted.
func New(cfg *config.Config, st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		decoder:   pdfdec.NewDecoder(cfg.MaxFileSize),
		extractor: extract.NewExtractor(),
		engine: diff.NewEngine(diff.Options{
			PositionTolerance: cfg.PositionTolerance,
			NormalizeNearText: cfg.NormalizeLabels,
		}),
		store:  st,
		logger: logger,
	}
}

// Extraction is one extracted document version. ID is assigned here, not
// by the core.
type Extraction struct {
	ID     string          `json:"id"`
	Path   string          `json:"path"`
	Empty  bool            `json:"empty"` // valid document, zero form fields
	Result *extract.Result `json:"result"`
}

// Comparison is one comparison between two extracted versions.
type Comparison struct {
	ID     string                 `json:"id"`
	Source *Extraction            `json:"source"`
	Target *Extraction            `json:"target"`
	Result *diff.ComparisonResult `json:"result"`
}

// ExtractFile decodes and extracts one PDF. A document with zero form
// fields is not an error here: the extraction comes back with Empty set
// and intact metadata.
func (s *Service) ExtractFile(ctx context.Context, path string) (*Extraction, error) {
	doc, err := s.decoder.DecodeFile(path)
	if err != nil {
		s.logger.Warn("decode failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	result, err := s.extractor.Extract(doc)
	empty := false
	if err != nil {
		var noFields *extract.NoFormFieldsError
		if !errors.As(err, &noFields) {
			s.logger.Warn("extraction failed", zap.String("path", path), zap.Error(err))
			return nil, err
		}
		empty = true
	}

	ext := &Extraction{
		ID:     uuid.NewString(),
		Path:   path,
		Empty:  empty,
		Result: result,
	}
	s.logger.Info("extracted document",
		zap.String("id", ext.ID),
		zap.String("path", path),
		zap.Int("pages", result.Meta.PageCount),
		zap.Int("fields", len(result.Fields)),
		zap.Int("diagnostics", len(result.Diagnostics)))

	if s.store != nil {
		rec := &store.ExtractionRecord{
			ID:        ext.ID,
			Path:      path,
			CreatedAt: time.Now(),
			Result:    result,
		}
		if err := s.store.SaveExtraction(ctx, rec); err != nil {
			s.logger.Warn("persist extraction failed", zap.String("id", ext.ID), zap.Error(err))
			return nil, err
		}
	}
	return ext, nil
}

// CompareFiles extracts both PDFs and compares their field structures.
func (s *Service) CompareFiles(ctx context.Context, sourcePath, targetPath string) (*Comparison, error) {
	source, err := s.ExtractFile(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	target, err := s.ExtractFile(ctx, targetPath)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Compare(
		source.Result.Fields, target.Result.Fields,
		source.Result.Meta, target.Result.Meta)
	if err != nil {
		s.logger.Warn("comparison failed",
			zap.String("source", sourcePath),
			zap.String("target", targetPath),
			zap.Error(err))
		return nil, err
	}

	cmp := &Comparison{
		ID:     uuid.NewString(),
		Source: source,
		Target: target,
		Result: result,
	}
	s.logger.Info("compared documents",
		zap.String("id", cmp.ID),
		zap.String("source", sourcePath),
		zap.String("target", targetPath),
		zap.Float64("modification_pct", result.GlobalMetrics.ModificationPercentage),
		zap.Int("changes", len(result.FieldChanges)))

	if s.store != nil {
		rec := &store.ComparisonRecord{
			ID:        cmp.ID,
			SourceID:  source.ID,
			TargetID:  target.ID,
			CreatedAt: time.Now(),
			Result:    result,
		}
		if err := s.store.SaveComparison(ctx, rec); err != nil {
			s.logger.Warn("persist comparison failed", zap.String("id", cmp.ID), zap.Error(err))
			return nil, err
		}
	}
	return cmp, nil
}
