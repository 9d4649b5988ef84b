package fraud

import (
	"context"

	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// SybilReport lists wallets shared by several records
type SybilReport struct {
	Duplicates      map[string]int `json:"duplicates"`
	AffectedRecords int            `json:"affected_records"`
	RecordsScanned  int            `json:"records_scanned"`
	PartnerCode     string         `json:"partner_code,omitempty"`
}

// RescanReport summarizes a re-enrichment of the stored collection
type RescanReport struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
	Flagged int `json:"flagged"`
	Failed  int `json:"failed"`
}

// Service exposes fraud assessment over single records and the stored collection
type Service struct {
	engine *Engine
	store  RecordStore
}

// NewService creates a new fraud service. store may be nil for parse-only use.
func NewService(engine *Engine, store RecordStore) *Service {
	return &Service{engine: engine, store: store}
}

// Check scores one record with the heuristics only
func (s *Service) Check(rec developers.DeveloperRecord) CheckResult {
	return s.engine.Score(rec)
}

// Enrich annotates a batch and counts raised signals
func (s *Service) Enrich(records []developers.DeveloperRecord) []developers.DeveloperRecord {
	enriched := s.engine.Enrich(records)
	recordSignals(enriched)
	return enriched
}

// Sybil finds shared wallets across the stored records of a partner ("" for all)
func (s *Service) Sybil(ctx context.Context, partnerCode string) (*SybilReport, error) {
	records, err := s.store.List(ctx, partnerCode)
	if err != nil {
		return nil, err
	}

	duplicates := FindDuplicateWallets(records)
	affected := 0
	for _, n := range duplicates {
		affected += n
	}

	return &SybilReport{
		Duplicates:      duplicates,
		AffectedRecords: affected,
		RecordsScanned:  len(records),
		PartnerCode:     partnerCode,
	}, nil
}

// Rescan re-enriches every stored record from its raw fields and saves the
// records whose assessment changed
func (s *Service) Rescan(ctx context.Context) (*RescanReport, error) {
	records, err := s.store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	enriched := s.Enrich(records)
	report := &RescanReport{Scanned: len(records)}

	var cancelled error
	for i := range enriched {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}
		if enriched[i].IsSuspicious {
			report.Flagged++
		}
		if enriched[i].SameAssessment(&records[i]) {
			continue
		}
		if err := s.store.Save(ctx, &enriched[i]); err != nil {
			logger.WithContext(ctx).Warn("Failed to save rescanned record",
				zap.String("id", enriched[i].ID),
				zap.Error(err))
			report.Failed++
			continue
		}
		report.Changed++
	}

	if report.Changed > 0 {
		// saved records must not be served stale even when the request is gone
		s.store.InvalidateCache(context.WithoutCancel(ctx))
	}

	if cancelled != nil {
		logger.WithContext(ctx).Warn("Fraud rescan cancelled",
			zap.Int("scanned", report.Scanned),
			zap.Int("changed", report.Changed),
			zap.Int("failed", report.Failed),
			zap.Error(cancelled))
		return report, common.NewServiceUnavailableError("rescan cancelled")
	}

	logger.WithContext(ctx).Info("Fraud rescan completed",
		zap.Int("scanned", report.Scanned),
		zap.Int("changed", report.Changed),
		zap.Int("flagged", report.Flagged),
		zap.Int("failed", report.Failed))

	return report, nil
}
