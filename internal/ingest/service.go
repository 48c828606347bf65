// Package ingest orchestrates the import pipeline: parse a bibliographic
// source, normalize entries into publication drafts, filter duplicates
// against stored rows, and stage the unique drafts with pending_review
// status.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/siglab/publication-service/internal/dedup"
	"github.com/siglab/publication-service/internal/domain"
	"github.com/siglab/publication-service/internal/importer"
	"github.com/siglab/publication-service/internal/observability"
	"github.com/siglab/publication-service/internal/repository"
)

// Config holds the server-side directories import files are read from.
type Config struct {
	// YamlDir is the directory holding simplified YAML exports.
	YamlDir string

	// DblpDir is the directory holding DBLP text exports.
	DblpDir string
}

// Summary reports the outcome of one import operation.
type Summary struct {
	// Imported is the number of publications staged for review.
	Imported int `json:"imported"`

	// DuplicatesSkipped is the number of entries rejected as duplicates.
	DuplicatesSkipped int `json:"duplicatesSkipped"`

	// Total is the number of entries parsed from the input.
	Total int `json:"total"`

	// DuplicateTitles lists the titles of rejected duplicates so the
	// operator can verify them.
	DuplicateTitles []string `json:"duplicateTitles"`

	// ParseErrors is the number of entries skipped due to parse failures.
	ParseErrors int `json:"parseErrors,omitempty"`

	// InsertFailures is the number of rows that failed to insert and were
	// skipped.
	InsertFailures int `json:"insertFailures,omitempty"`

	// FileName is the server-side file the import read, when applicable.
	FileName string `json:"fileName,omitempty"`
}

// Service runs import operations. Each call snapshots stored publication
// identities fresh, so duplicate detection always sees the latest committed
// rows.
type Service struct {
	pubs    repository.PublicationRepository
	norm    *importer.Normalizer
	metrics *observability.Metrics
	logger  zerolog.Logger
	cfg     Config
}

// NewService creates an import service.
func NewService(pubs repository.PublicationRepository, norm *importer.Normalizer, metrics *observability.Metrics, logger zerolog.Logger, cfg Config) *Service {
	return &Service{
		pubs:    pubs,
		norm:    norm,
		metrics: metrics,
		logger:  logger.With().Str("component", "ingest").Logger(),
		cfg:     cfg,
	}
}

// ImportBibtex parses an uploaded BibTeX payload and stages the unique
// entries. Duplicates are matched on DOI first, then on title+year.
func (s *Service) ImportBibtex(ctx context.Context, data []byte) (*Summary, error) {
	source := string(domain.SourceBibtexImport)
	start := time.Now()
	s.metrics.RecordImportStarted(source)

	result, err := importer.ParseBibtex(data)
	if err != nil {
		s.metrics.RecordImportFailed(source, time.Since(start).Seconds())
		return nil, err
	}

	drafts := make([]domain.Publication, 0, len(result.Entries))
	for _, entry := range result.Entries {
		drafts = append(drafts, s.norm.FromBibtex(entry))
	}

	return s.stage(ctx, source, "", drafts, dedup.StrategyDOITitleYear, result.Skipped, start)
}

// ImportYamlFile reads a simplified YAML export from the configured
// directory and stages the unique works. Duplicates are matched on title.
func (s *Service) ImportYamlFile(ctx context.Context, fileName string) (*Summary, error) {
	source := string(domain.SourceYamlImport)
	start := time.Now()
	s.metrics.RecordImportStarted(source)

	data, err := s.readDataFile(s.cfg.YamlDir, fileName)
	if err != nil {
		s.metrics.RecordImportFailed(source, time.Since(start).Seconds())
		return nil, err
	}

	works, err := importer.ParseYamlWorks(data)
	if err != nil {
		s.metrics.RecordImportFailed(source, time.Since(start).Seconds())
		return nil, err
	}

	drafts := make([]domain.Publication, 0, len(works))
	for _, work := range works {
		drafts = append(drafts, s.norm.FromYamlWork(work))
	}

	return s.stage(ctx, source, fileName, drafts, dedup.StrategyTitle, 0, start)
}

// ImportDblpFile reads a DBLP text export from the configured directory and
// stages the unique entries. Duplicates are matched on title.
func (s *Service) ImportDblpFile(ctx context.Context, fileName string) (*Summary, error) {
	source := string(domain.SourceDblpImport)
	start := time.Now()
	s.metrics.RecordImportStarted(source)

	data, err := s.readDataFile(s.cfg.DblpDir, fileName)
	if err != nil {
		s.metrics.RecordImportFailed(source, time.Since(start).Seconds())
		return nil, err
	}

	entries, err := importer.ParseDblp(data)
	if err != nil {
		s.metrics.RecordImportFailed(source, time.Since(start).Seconds())
		return nil, err
	}

	drafts := make([]domain.Publication, 0, len(entries))
	for _, entry := range entries {
		drafts = append(drafts, s.norm.FromDblp(entry))
	}

	return s.stage(ctx, source, fileName, drafts, dedup.StrategyTitle, 0, start)
}

// ListYamlFiles returns the YAML export files available for import.
func (s *Service) ListYamlFiles() ([]string, error) {
	return listDataFiles(s.cfg.YamlDir, ".yml", ".yaml")
}

// ListDblpFiles returns the DBLP export files available for import.
func (s *Service) ListDblpFiles() ([]string, error) {
	return listDataFiles(s.cfg.DblpDir, ".txt")
}

// ClearPending removes every staged publication still awaiting review and
// reports how many rows were removed.
func (s *Service) ClearPending(ctx context.Context) (int64, error) {
	deleted, err := s.pubs.DeleteAllPending(ctx)
	if err != nil {
		return 0, err
	}
	s.metrics.RecordPendingDeleted(deleted)
	s.logger.Info().Int64("deleted", deleted).Msg("cleared pending publications")
	return deleted, nil
}

// stage runs the shared tail of every import: snapshot stored identities,
// filter duplicates, insert the unique drafts. Individual insert failures
// are absorbed and counted so one bad row does not abort the batch.
func (s *Service) stage(ctx context.Context, source, fileName string, drafts []domain.Publication, strategy dedup.Strategy, parseErrors int, start time.Time) (*Summary, error) {
	logger := observability.WithImportContext(s.logger, source, fileName)

	identities, err := s.pubs.ListIdentities(ctx)
	if err != nil {
		s.metrics.RecordImportFailed(source, time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to load stored identities: %w", err)
	}

	existing := make([]dedup.ExistingRecord, 0, len(identities))
	for _, ident := range identities {
		existing = append(existing, dedup.ExistingRecord{
			Title: ident.Title,
			Year:  ident.Year,
			DOI:   ident.DOIURL,
		})
	}

	result := dedup.NewChecker(existing).Filter(drafts, strategy)

	summary := &Summary{
		DuplicatesSkipped: len(result.DuplicateTitles),
		Total:             len(drafts),
		DuplicateTitles:   result.DuplicateTitles,
		ParseErrors:       parseErrors,
		FileName:          fileName,
	}
	if summary.DuplicateTitles == nil {
		summary.DuplicateTitles = []string{}
	}

	for i := range result.Unique {
		pub := result.Unique[i]
		pub.Status = domain.StatusPendingReview

		if _, err := s.pubs.Create(ctx, &pub); err != nil {
			summary.InsertFailures++
			s.metrics.RecordStagingFailure(source)
			logger.Warn().Err(err).Str("title", pub.Title).Msg("failed to stage publication, skipping row")
			continue
		}
		summary.Imported++
	}

	s.metrics.RecordParseErrors(source, parseErrors)
	s.metrics.RecordImportCompleted(source, summary.Total, summary.Imported, summary.DuplicatesSkipped, time.Since(start).Seconds())

	logger.Info().
		Int("total", summary.Total).
		Int("imported", summary.Imported).
		Int("duplicates_skipped", summary.DuplicatesSkipped).
		Int("parse_errors", summary.ParseErrors).
		Int("insert_failures", summary.InsertFailures).
		Msg("import completed")

	return summary, nil
}

// readDataFile reads fileName from dir. The file name is reduced to its base
// component so a crafted name cannot escape the data directory.
func (s *Service) readDataFile(dir, fileName string) ([]byte, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, domain.NewValidationError("fileName", "file name is required")
	}

	path := filepath.Join(dir, filepath.Base(fileName))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewNotFoundError("file", fileName)
		}
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return data, nil
}

func listDataFiles(dir string, extensions ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, allowed := range extensions {
			if ext == allowed {
				names = append(names, entry.Name())
				break
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
