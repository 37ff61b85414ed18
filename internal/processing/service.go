package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kassa/internal/audit"
	"kassa/internal/constants"
	"kassa/internal/dedup"
	"kassa/internal/docai"
	"kassa/internal/extraction"
	"kassa/internal/logger"
	"kassa/internal/receipt"
	"kassa/pkg/errors"
	"kassa/pkg/metrics"
	"kassa/pkg/models"
	"kassa/pkg/tracing"
)

// Service orchestrates the receipt pipeline: duplicate check, receipt
// detection, both extraction tiers, fusion, persistence and the outbound
// event. Process never returns an error; every failure mode is folded into
// the Result so the webhook can always answer the sender.
type Service interface {
	Process(ctx context.Context, msg models.InboundMessage) Result
}

type serviceImpl struct {
	receipts  receipt.Service
	extractor extraction.Service
	documents docai.Service
	dedup     dedup.Service
	audit     audit.Service
	producer  Publisher
	logger    logger.Logger
}

// Publisher is the subset of the broker producer the pipeline needs.
type Publisher interface {
	PublishReceiptCreated(ctx context.Context, event models.ReceiptEvent) error
}

func NewService(
	receipts receipt.Service,
	extractor extraction.Service,
	documents docai.Service,
	dedupSvc dedup.Service,
	auditSvc audit.Service,
	producer Publisher,
	log logger.Logger,
) Service {
	return &serviceImpl{
		receipts:  receipts,
		extractor: extractor,
		documents: documents,
		dedup:     dedupSvc,
		audit:     auditSvc,
		producer:  producer,
		logger:    log,
	}
}

func (s *serviceImpl) Process(ctx context.Context, msg models.InboundMessage) (result Result) {
	ctx, span := tracing.GetTracer("ingest-service").Start(ctx, "processing.process")
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := errors.RecoverPanic(r)
			s.logger.ErrorwCtx(ctx, "panic while processing email",
				"message_id", msg.MessageID,
				"error", err,
			)
			result = Result{
				Success: false,
				Message: "Error processing receipt",
				Errors:  []string{err.Error()},
			}
		}
		s.recordOutcome(ctx, msg, result, time.Since(start))
	}()

	s.logger.InfowCtx(ctx, "processing inbound email",
		"message_id", msg.MessageID,
		"from", msg.From,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)

	if done, r := s.checkDuplicate(ctx, msg); done {
		return r
	}

	if !isReceiptEmail(msg) {
		s.logger.InfowCtx(ctx, "email is not a receipt", "message_id", msg.MessageID)
		metrics.ProcessingMessagesTotal.WithLabelValues("ignored").Inc()
		return Result{
			Success: true,
			Message: "Email processed but no receipt detected",
		}
	}

	textData := s.extractor.Extract(ctx, msg.Body(), msg.From)
	docResult, attachmentDetails := s.parseAttachments(ctx, msg)

	finalData := fuse(textData, docResult)
	s.backfill(&finalData, msg)
	metrics.IncExtractionSource(finalData.Source, finalData.Confidence)

	created, err := s.persist(ctx, finalData, msg, docResult, attachmentDetails)
	if err != nil {
		if errors.IsConflict(err) {
			return s.alreadyProcessed(ctx, msg)
		}
		s.logger.ErrorwCtx(ctx, "failed to persist receipt",
			"message_id", msg.MessageID,
			"error", err,
		)
		metrics.ProcessingMessagesTotal.WithLabelValues("error").Inc()
		return Result{
			Success: false,
			Message: "Error processing receipt",
			Errors:  []string{err.Error()},
		}
	}

	s.publish(ctx, created)
	metrics.ProcessingMessagesTotal.WithLabelValues("processed").Inc()

	s.logger.InfowCtx(ctx, "receipt created from email",
		"receipt_id", created.ID,
		"message_id", msg.MessageID,
		"source", finalData.Source,
		"confidence", finalData.Confidence,
	)

	return Result{
		Success:   true,
		ReceiptID: created.ID,
		Message:   "Receipt successfully processed",
		Extracted: &finalData,
	}
}

// checkDuplicate runs the Redis pre-check and resolves positive hits against
// the store. A pre-check hit without a stored receipt means a previous run
// claimed the ID but failed before persisting; the message goes through and
// the unique index arbitrates.
func (s *serviceImpl) checkDuplicate(ctx context.Context, msg models.InboundMessage) (bool, Result) {
	isNew, err := s.dedup.IsNew(ctx, msg.MessageID)
	if err != nil {
		s.logger.ErrorwCtx(ctx, "duplicate check failed, rejecting message",
			"message_id", msg.MessageID,
			"error", err,
		)
		metrics.ProcessingMessagesTotal.WithLabelValues("error").Inc()
		return true, Result{
			Success: false,
			Message: "Error processing receipt",
			Errors:  []string{err.Error()},
		}
	}
	if isNew {
		return false, Result{}
	}

	existing, err := s.receipts.GetByMessageID(ctx, msg.MessageID)
	if err != nil {
		if errors.IsNotFound(err) {
			return false, Result{}
		}
		metrics.ProcessingMessagesTotal.WithLabelValues("error").Inc()
		return true, Result{
			Success: false,
			Message: "Error processing receipt",
			Errors:  []string{err.Error()},
		}
	}

	s.logger.InfowCtx(ctx, "email already processed",
		"message_id", msg.MessageID,
		"receipt_id", existing.ID,
	)
	metrics.ProcessingMessagesTotal.WithLabelValues("duplicate").Inc()
	return true, Result{
		Success:   true,
		ReceiptID: existing.ID,
		Message:   "Already processed",
	}
}

// parseAttachments runs receipt-like attachments through the document tier,
// first usable result wins. A result without an amount is not usable. The
// returned map records the per-attachment outcome for persistence.
func (s *serviceImpl) parseAttachments(ctx context.Context, msg models.InboundMessage) (*docai.Result, map[string]string) {
	if s.documents == nil || !s.documents.Enabled() || len(msg.Attachments) == 0 {
		return nil, nil
	}

	details := make(map[string]string)
	for _, att := range msg.Attachments {
		if !isDocumentCandidate(att) {
			continue
		}

		result := s.documents.ParseDocument(ctx, att.Content, att.Name)
		if result.Success && result.Amount != nil {
			s.logger.InfowCtx(ctx, "attachment parsed",
				"file_name", att.Name,
				"amount", *result.Amount,
				"confidence", result.OverallConfidence,
			)
			details[att.Name] = fmt.Sprintf("parsed, confidence %.2f", result.OverallConfidence)
			return &result, details
		}

		if !result.Success {
			details[att.Name] = "parse failed: " + result.ErrorMessage
		} else {
			details[att.Name] = "parsed, no amount found"
		}
	}
	return nil, details
}

func (s *serviceImpl) backfill(data *models.ExtractedData, msg models.InboundMessage) {
	if data.Merchant == "" {
		data.Merchant = constants.DefaultMerchant
	}
	if data.Category == "" || data.Category == constants.DefaultCategory {
		data.Category = extraction.CategoryForMerchant(data.Merchant)
	}
	if data.Date == nil && !msg.ReceivedAt.IsZero() {
		received := msg.ReceivedAt
		data.Date = &received
	}
	if data.Currency == "" {
		data.Currency = constants.DefaultCurrency
	}
}

func (s *serviceImpl) persist(ctx context.Context, data models.ExtractedData, msg models.InboundMessage, doc *docai.Result, attachmentDetails map[string]string) (*receipt.Receipt, error) {
	r := &receipt.Receipt{
		MessageID:    msg.MessageID,
		Merchant:     data.Merchant,
		Currency:     data.Currency,
		Category:     data.Category,
		ReceivedDate: msg.ReceivedAt,
		Sender:       msg.From,
		Subject:      msg.Subject,
		Body:         msg.Body(),
		Processed:    true,
		Source:       data.Source,
		Confidence:   data.Confidence,
		Additional:   data.Additional,
	}
	if data.Amount != nil {
		r.Amount = *data.Amount
	}
	if data.Date != nil {
		r.TransactionDate = *data.Date
	} else if !msg.ReceivedAt.IsZero() {
		r.TransactionDate = msg.ReceivedAt
	}

	if doc != nil {
		if serialized, err := json.Marshal(doc); err == nil {
			r.ExtractedText = string(serialized)
		}
	}

	for _, att := range msg.Attachments {
		if !isDocumentCandidate(att) {
			continue
		}
		detail := attachmentDetails[att.Name]
		if detail == "" {
			detail = "stored without parsing"
		}
		r.Attachments = append(r.Attachments, receipt.StoredAttachment{
			FileName:          att.Name,
			ContentType:       att.ContentType,
			Size:              att.Size,
			Content:           att.Content,
			ProcessingDetails: detail,
		})
	}

	if err := s.receipts.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *serviceImpl) alreadyProcessed(ctx context.Context, msg models.InboundMessage) Result {
	metrics.ProcessingMessagesTotal.WithLabelValues("duplicate").Inc()

	existing, err := s.receipts.GetByMessageID(ctx, msg.MessageID)
	if err != nil {
		return Result{Success: true, Message: "Already processed"}
	}
	return Result{
		Success:   true,
		ReceiptID: existing.ID,
		Message:   "Already processed",
	}
}

// publish emits the receipt-created event. Failures are logged, never
// propagated: the receipt is already stored.
func (s *serviceImpl) publish(ctx context.Context, r *receipt.Receipt) {
	if s.producer == nil {
		return
	}

	event := models.ReceiptEvent{
		ReceiptID:       r.ID,
		MessageID:       r.MessageID,
		Merchant:        r.Merchant,
		Amount:          r.Amount,
		Currency:        r.Currency,
		Category:        r.Category,
		TransactionDate: r.TransactionDate,
		CreatedAt:       r.CreatedAt,
	}
	if err := s.producer.PublishReceiptCreated(ctx, event); err != nil {
		s.logger.WarnwCtx(ctx, "failed to publish receipt event",
			"receipt_id", r.ID,
			"error", err,
		)
	}
}

func (s *serviceImpl) recordOutcome(ctx context.Context, msg models.InboundMessage, result Result, duration time.Duration) {
	status := audit.StatusProcessed
	switch {
	case !result.Success:
		status = audit.StatusFailed
	case result.Message == "Already processed":
		status = audit.StatusDuplicate
	case result.ReceiptID == "":
		status = audit.StatusIgnored
	}

	metrics.ObserveProcessingDuration(duration, status)

	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.WebhookLog{
		MessageID:       msg.MessageID,
		Sender:          msg.From,
		Subject:         msg.Subject,
		Status:          status,
		Detail:          result.Message,
		ReceiptID:       result.ReceiptID,
		AttachmentCount: len(msg.Attachments),
		DurationMs:      duration.Milliseconds(),
		ReceivedAt:      msg.ReceivedAt,
	})
}
