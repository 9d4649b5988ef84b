package csvimport

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"github.com/richxcame/devcert-dashboard/pkg/storage"
	"go.uber.org/zap"
)

const (
	csvContentType = "text/csv"
	archiveURLTTL  = 15 * time.Minute
)

// ImportRequest is one uploaded CSV source
type ImportRequest struct {
	Source   io.Reader
	Filename string
	DryRun   bool
}

// Report summarizes an import
type Report struct {
	TotalRows        int                        `json:"total_rows"`
	Valid            int                        `json:"valid"`
	Created          int                        `json:"created"`
	Updated          int                        `json:"updated"`
	Failed           int                        `json:"failed"`
	Flagged          int                        `json:"flagged"`
	StructuralErrors []string                   `json:"structural_errors"`
	RowErrors        []string                   `json:"errors"`
	MissingColumns   []string                   `json:"missing_columns,omitempty"`
	Outcomes         []developers.UpsertOutcome `json:"outcomes"`
	// Records holds the enriched batch on dry runs
	Records    []developers.DeveloperRecord `json:"records,omitempty"`
	ArchiveKey string                       `json:"archive_key,omitempty"`
	DryRun     bool                         `json:"dry_run"`
}

// Rejected reports whether the source failed the structural check
func (r *Report) Rejected() bool {
	return len(r.StructuralErrors) > 0
}

// Service runs the parse, enrich, archive and store pipeline
type Service struct {
	importer *Importer
	enricher Enricher
	upserter Upserter
	archive  storage.Storage
	now      func() time.Time
}

// NewService creates a new import service. upserter may be nil when only dry
// runs are served.
func NewService(importer *Importer, enricher Enricher, upserter Upserter) *Service {
	return &Service{
		importer: importer,
		enricher: enricher,
		upserter: upserter,
		now:      time.Now,
	}
}

// SetArchive enables archiving raw uploads to object storage
func (s *Service) SetArchive(archive storage.Storage) {
	s.archive = archive
}

// Import parses the source and, unless it is a dry run, stores the valid records
func (s *Service) Import(ctx context.Context, req ImportRequest) (*Report, error) {
	raw, err := io.ReadAll(req.Source)
	if err != nil {
		recordImport(outcomeFailed, nil)
		return nil, common.NewBadRequestError("failed to read upload", err)
	}

	parsed, err := s.importer.Parse(bytes.NewReader(raw))
	if err != nil {
		recordImport(outcomeFailed, nil)
		return nil, common.NewUnprocessableEntityError("malformed csv", err)
	}

	report := &Report{
		TotalRows:        parsed.TotalRows,
		StructuralErrors: []string{},
		RowErrors:        []string{},
		Outcomes:         []developers.UpsertOutcome{},
		DryRun:           req.DryRun,
	}

	if parsed.Structural() {
		report.StructuralErrors = parsed.Errors
		report.MissingColumns = parsed.MissingColumns
		recordImport(outcomeRejected, report)
		logger.WithContext(ctx).Warn("CSV import rejected",
			zap.String("filename", req.Filename),
			zap.Strings("missing_columns", parsed.MissingColumns))
		return report, nil
	}

	report.RowErrors = parsed.Errors
	records := s.enricher.Enrich(parsed.ValidRecords)
	report.Valid = len(records)
	for i := range records {
		if records[i].IsSuspicious {
			report.Flagged++
		}
	}

	if req.DryRun || s.upserter == nil {
		report.DryRun = true
		report.Records = records
		recordImport(outcomeDryRun, report)
		return report, nil
	}

	report.ArchiveKey = s.archiveSource(ctx, req.Filename, raw)

	report.Outcomes = s.upserter.BulkUpsert(ctx, records)
	for _, o := range report.Outcomes {
		switch o.Status {
		case developers.UpsertCreated:
			report.Created++
		case developers.UpsertUpdated:
			report.Updated++
		case developers.UpsertFailed:
			report.Failed++
		}
	}

	recordImport(outcomeStored, report)
	logger.WithContext(ctx).Info("CSV import completed",
		zap.String("filename", req.Filename),
		zap.Int("total_rows", report.TotalRows),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
		zap.Int("flagged", report.Flagged),
		zap.Int("row_errors", len(report.RowErrors)))

	return report, nil
}

// ArchiveURL returns a short-lived download URL for an archived source
func (s *Service) ArchiveURL(ctx context.Context, key string) (string, error) {
	if s.archive == nil {
		return "", common.NewNotFoundError("import archive is not configured", nil)
	}
	if !storage.IsArchiveKey(key) {
		return "", common.NewBadRequestError("invalid archive key", nil)
	}

	result, err := s.archive.GetPresignedDownloadURL(ctx, key, archiveURLTTL)
	if err != nil {
		return "", common.NewInternalError("failed to sign archive url", err)
	}
	return result.URL, nil
}

// archiveSource uploads the raw source. Failures are logged and yield an
// empty key; they never block the import.
func (s *Service) archiveSource(ctx context.Context, filename string, raw []byte) string {
	if s.archive == nil {
		return ""
	}

	key := storage.GenerateImportArchiveKey(filename, s.now())
	if _, err := s.archive.Upload(ctx, key, bytes.NewReader(raw), int64(len(raw)), csvContentType); err != nil {
		logger.WithContext(ctx).Warn("Failed to archive CSV upload",
			zap.String("key", key),
			zap.Error(err))
		return ""
	}
	return key
}
