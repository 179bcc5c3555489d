package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/metrics"
	"infinite-experiment/engagesync/internal/models/dtos"
	"infinite-experiment/engagesync/internal/providers"
)

// RecordResolver resolves one record against the sync configuration
type RecordResolver interface {
	Resolve(ctx context.Context, record dtos.SourceRecord) (*Resolution, error)
}

// SyncAuditor records the outcome of one attempt
type SyncAuditor interface {
	Record(ctx context.Context, sourceID, entityType string, c Classification, requestBody []byte) *AuditError
}

type batchIDKey struct{}

// ContextWithBatchID tags ctx with the id of the batch being processed
func ContextWithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchIDKey{}, batchID)
}

func batchIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(batchIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

// RecordSyncService takes a batch of changed records through
// resolve, build, send, classify and audit.
type RecordSyncService struct {
	resolver RecordResolver
	delivery providers.DeliveryProvider
	auditor  SyncAuditor
	metrics  *metrics.MetricsRegistry
}

func NewRecordSyncService(
	resolver RecordResolver,
	delivery providers.DeliveryProvider,
	auditor SyncAuditor,
	metricsReg *metrics.MetricsRegistry,
) *RecordSyncService {
	return &RecordSyncService{
		resolver: resolver,
		delivery: delivery,
		auditor:  auditor,
		metrics:  metricsReg,
	}
}

// ProcessBatch syncs records one after another in the given order and
// returns the terminal outcome of each. It never panics and never fails as a
// whole; every problem is confined to the record it belongs to.
//
// Cancelling ctx does not stop the batch: each attempt runs to completion and
// is audited. Only the delivery timeout bounds a request.
func (s *RecordSyncService) ProcessBatch(ctx context.Context, records []dtos.SourceRecord) []dtos.RecordResult {
	if len(records) == 0 {
		return nil
	}
	ctx = context.WithoutCancel(ctx)

	batchID := batchIDFromContext(ctx)
	start := time.Now()
	results := make([]dtos.RecordResult, 0, len(records))

	for _, record := range records {
		results = append(results, s.processRecord(ctx, batchID, record))
	}

	if s.metrics != nil {
		s.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}
	logging.Info("Sync batch processed",
		"batch_id", batchID,
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return results
}

func (s *RecordSyncService) processRecord(ctx context.Context, batchID string, record dtos.SourceRecord) (result dtos.RecordResult) {
	log := logging.WithRecord(batchID, record.ID, record.EntityType)
	result = dtos.RecordResult{RecordID: record.ID, EntityType: record.EntityType}

	defer func() {
		if r := recover(); r != nil {
			log.Errorw("Panic while syncing record", "panic", r)
			c := FailedClassification(fmt.Sprintf("internal error: %v", r))
			s.audit(ctx, log, record, c, nil)
			result.Outcome = string(constants.OutcomeFailed)
			result.Detail = c.Diagnostic
		}
		s.countOutcome(record.EntityType, result.Outcome)
	}()

	resolution, err := s.resolver.Resolve(ctx, record)
	if err != nil {
		if IsSkip(err) {
			log.Debugw("Record skipped", "reason", err.Error())
			result.Outcome = string(constants.OutcomeSkipped)
			result.Detail = err.Error()
			return result
		}

		log.Warnw("Record failed mapping", "error", err)
		c := FailedClassification(err.Error())
		s.audit(ctx, log, record, c, nil)
		result.Outcome = string(constants.OutcomeFailed)
		result.Detail = c.Diagnostic
		return result
	}

	body, err := providers.BuildUploadBody(resolution.Payload)
	if err != nil {
		log.Warnw("Payload encoding failed", "error", err)
		c := FailedClassification(err.Error())
		s.audit(ctx, log, record, c, nil)
		result.Outcome = string(constants.OutcomeFailed)
		result.Detail = c.Diagnostic
		return result
	}

	sendStart := time.Now()
	resp, sendErr := s.delivery.Send(ctx, resolution.Credentials, body)
	s.observeDelivery(resp, time.Since(sendStart))

	c := Classify(resp, sendErr, body)
	if c.Status == constants.LogStatusSuccess {
		log.Infow("Record delivered", "status_code", resp.StatusCode)
		result.Outcome = string(constants.OutcomeSuccess)
	} else {
		log.Warnw("Record delivery failed", "diagnostic", c.Diagnostic)
		result.Outcome = string(constants.OutcomeFailed)
		result.Detail = c.Diagnostic
	}

	s.audit(ctx, log, record, c, body)
	return result
}

// audit writes the sync log row; a failed write is logged and dropped
func (s *RecordSyncService) audit(ctx context.Context, log *zap.SugaredLogger, record dtos.SourceRecord, c Classification, body []byte) {
	if auditErr := s.auditor.Record(ctx, record.ID, record.EntityType, c, body); auditErr != nil {
		log.Warnw("Sync log write failed", "code", auditErr.Code, "error", auditErr.Error())
		if s.metrics != nil {
			s.metrics.AuditWriteFailures.Inc()
		}
	}
}

func (s *RecordSyncService) observeDelivery(resp *providers.DeliveryResponse, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	label := "error"
	if resp != nil {
		label = strconv.Itoa(resp.StatusCode)
	}
	s.metrics.DeliveryDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

func (s *RecordSyncService) countOutcome(entityType, outcome string) {
	if s.metrics == nil || outcome == "" {
		return
	}
	s.metrics.RecordsProcessedTotal.WithLabelValues(entityType, outcome).Inc()
}
