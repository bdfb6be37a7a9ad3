package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"muanapay/internal/models/db_models"
	"muanapay/internal/models/request_models"
	"muanapay/internal/repositories"
	"muanapay/pkg/metrics"
	"muanapay/pkg/utils"
)

type IngestOutcome string

const (
	OutcomeStored    IngestOutcome = "stored"
	OutcomeDuplicate IngestOutcome = "duplicate"
	OutcomeFiltered  IngestOutcome = "filtered"
	OutcomeFailed    IngestOutcome = "failed"
)

type IngestResult struct {
	Outcome IngestOutcome
	// Record is set only for OutcomeStored.
	Record *db_models.SmsTransaction
}

type SmsServiceInterface interface {
	Ingest(ctx context.Context, req request_models.SmsIngestRequest) (*IngestResult, error)
}

type SmsService struct {
	repo     repositories.SmsTransactionRepository
	enricher EnrichmentServiceInterface
	log      *zap.Logger
	metrics  metrics.Recorder
}

func NewSmsService(
	repo repositories.SmsTransactionRepository,
	enricher EnrichmentServiceInterface,
	log *zap.Logger,
	recorder metrics.Recorder,
) SmsServiceInterface {
	return &SmsService{
		repo:     repo,
		enricher: enricher,
		log:      log,
		metrics:  recorder,
	}
}

// Ingest stores one forwarded SMS at most once. Marketing messages flagged by the
// classifier are acknowledged without touching the store.
func (s *SmsService) Ingest(ctx context.Context, req request_models.SmsIngestRequest) (*IngestResult, error) {
	sender := strings.TrimSpace(req.Sender)
	message := strings.TrimSpace(req.Message)
	if sender == "" || message == "" {
		return nil, utils.ErrMissingSmsFields
	}

	now := utils.NowUTC()
	fingerprint := utils.Fingerprint(sender, message)
	heuristic := utils.ExtractSmsFields(message)
	enriched := s.enricher.Enrich(ctx, message, heuristic)

	if enriched.Filtered {
		s.metrics.SmsIngested(string(OutcomeFiltered))
		return &IngestResult{Outcome: OutcomeFiltered}, nil
	}

	fields := enriched.Fields
	record := &db_models.SmsTransaction{
		Sender:             sender,
		Message:            message,
		Timestamp:          utils.ParseTimestamp((*string)(req.Timestamp), now),
		Fingerprint:        fingerprint,
		PaymentReference:   trimmedOrNil(fields.PaymentReference),
		AmountCents:        fields.AmountCents,
		Currency:           firstNonEmpty(fields.Currency, utils.DefaultSmsCurrency),
		CounterpartyNumber: fields.CounterpartyNumber,
		Provider:           fields.Provider,
		ParsedConfidence:   fields.ParsedConfidence,
		ParsedAt:           now,
		EnrichmentSource:   enriched.Source,
	}

	inserted, err := s.repo.InsertIgnoreDuplicate(ctx, record)
	if err != nil {
		s.log.Error("failed to store sms", zap.String("fingerprint", fingerprint), zap.Error(err))
		s.metrics.SmsIngested(string(OutcomeFailed))
		return nil, utils.WrapServiceError(utils.ErrSmsStoreFailed, err)
	}

	if !inserted {
		s.log.Debug("duplicate sms ignored", zap.String("fingerprint", fingerprint))
		s.metrics.SmsIngested(string(OutcomeDuplicate))
		return &IngestResult{Outcome: OutcomeDuplicate}, nil
	}

	s.log.Info("sms stored",
		zap.String("id", record.ID.String()),
		zap.String("source", string(record.EnrichmentSource)),
		zap.Bool("has_reference", record.PaymentReference != nil),
	)
	s.metrics.SmsIngested(string(OutcomeStored))
	return &IngestResult{Outcome: OutcomeStored, Record: record}, nil
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
