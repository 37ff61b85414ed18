package docai

import (
	"context"
	"strings"
	"time"

	"kassa/internal/config"
	"kassa/internal/constants"
	"kassa/internal/extraction"
	"kassa/internal/logger"
	"kassa/pkg/circuitbreaker"
	"kassa/pkg/errors"
	"kassa/pkg/metrics"
)

// Service parses receipt attachments through the external
// document-understanding provider. ParseDocument never returns an error:
// provider failures, breaker rejections and panics all surface as a Result
// with Success=false so the pipeline can fall back to text extraction.
type Service interface {
	Enabled() bool
	ParseDocument(ctx context.Context, content []byte, fileName string) Result
}

type serviceImpl struct {
	client  Client
	breaker *circuitbreaker.Wrapper
	enabled bool
	logger  logger.Logger
}

func NewService(cfg config.DocAIConfig, cbCfg config.CircuitBreakerConfig, log logger.Logger) Service {
	svc := &serviceImpl{
		enabled: cfg.Endpoint != "",
		logger:  log,
	}

	if !svc.enabled {
		log.Infow("document understanding disabled, no endpoint configured")
		return svc
	}

	svc.client = NewClient(cfg)

	if cbCfg.Enabled {
		breakerCfg := circuitbreaker.DefaultConfig("docai")
		if cbCfg.MaxRequests > 0 {
			breakerCfg.MaxRequests = cbCfg.MaxRequests
		}
		if cbCfg.Interval > 0 {
			breakerCfg.Interval = cbCfg.Interval
		}
		if cbCfg.Timeout > 0 {
			breakerCfg.Timeout = cbCfg.Timeout
		}
		if cbCfg.FailureRatio > 0 && cbCfg.MinRequests > 0 {
			breakerCfg.ReadyToTrip = nil
			breakerCfg.FailureRatio = cbCfg.FailureRatio
			breakerCfg.MinRequests = cbCfg.MinRequests
		}
		svc.breaker = circuitbreaker.NewWrapper(breakerCfg)
	}

	return svc
}

func (s *serviceImpl) Enabled() bool {
	return s.enabled
}

func (s *serviceImpl) ParseDocument(ctx context.Context, content []byte, fileName string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.RecoverPanic(r)
			s.logger.ErrorwCtx(ctx, "panic while parsing document", "file_name", fileName, "error", err)
			result = failureResult(fileName, err.Error())
		}
	}()

	if !s.enabled {
		return failureResult(fileName, "document understanding is not configured")
	}
	if len(content) == 0 {
		return failureResult(fileName, "attachment is empty")
	}

	start := time.Now()
	pred, err := s.parse(ctx, content, fileName)
	if err != nil {
		metrics.DocAIRequestsTotal.WithLabelValues("error").Inc()
		metrics.ObserveDocAIDuration(time.Since(start), "error")
		s.logger.WarnwCtx(ctx, "document parsing failed",
			"file_name", fileName,
			"error", err,
		)
		return failureResult(fileName, err.Error())
	}

	metrics.DocAIRequestsTotal.WithLabelValues("success").Inc()
	metrics.ObserveDocAIDuration(time.Since(start), "success")

	result = mapPrediction(fileName, pred)
	s.logger.DebugwCtx(ctx, "document parsed",
		"file_name", fileName,
		"merchant", result.Merchant,
		"overall_confidence", result.OverallConfidence,
	)
	return result
}

func (s *serviceImpl) parse(ctx context.Context, content []byte, fileName string) (*prediction, error) {
	if s.breaker == nil {
		return s.client.Parse(ctx, content, fileName)
	}

	out, err := s.breaker.ExecuteWithContext(ctx, func() (interface{}, error) {
		return s.client.Parse(ctx, content, fileName)
	})
	s.breaker.RecordRequest(err == nil)
	if err != nil {
		return nil, err
	}
	return out.(*prediction), nil
}

func failureResult(fileName, message string) Result {
	return Result{
		Success:      false,
		ErrorMessage: message,
		FileName:     fileName,
		Currency:     constants.DefaultCurrency,
		Merchant:     constants.DefaultMerchant,
		Category:     constants.DefaultCategory,
	}
}

func mapPrediction(fileName string, pred *prediction) Result {
	result := Result{
		Success:  true,
		FileName: fileName,
		Currency: constants.DefaultCurrency,
		Merchant: constants.DefaultMerchant,
	}

	if pred.TotalAmount.Value != nil && *pred.TotalAmount.Value >= 0 {
		v := *pred.TotalAmount.Value
		result.Amount = &v
		result.AmountConfidence = pred.TotalAmount.Confidence
	}

	if c := strings.ToUpper(strings.TrimSpace(pred.Currency.Value)); c != "" {
		result.Currency = c
	}

	if pred.Date.Value != "" {
		if d, err := time.Parse("2006-01-02", pred.Date.Value); err == nil {
			result.Date = &d
			result.DateConfidence = pred.Date.Confidence
		}
	}

	if m := strings.TrimSpace(pred.SupplierName.Value); m != "" {
		result.Merchant = m
		result.MerchantConfidence = pred.SupplierName.Confidence
	}

	result.Category = extraction.CategoryForMerchant(result.Merchant)
	if result.Category == constants.DefaultCategory && len(pred.LineItems) > 0 {
		descriptions := make([]string, 0, len(pred.LineItems))
		for _, item := range pred.LineItems {
			descriptions = append(descriptions, item.Description)
		}
		result.Category = extraction.CategoryForLineItems(descriptions)
	}

	result.OverallConfidence = overallConfidence(
		result.AmountConfidence,
		result.DateConfidence,
		result.MerchantConfidence,
	)
	result.Additional = additionalData(pred)

	return result
}

// overallConfidence averages the per-field confidences that are actually
// present. A missing field does not drag the score to zero.
func overallConfidence(confidences ...float64) float64 {
	var sum float64
	var n int
	for _, c := range confidences {
		if c > 0 {
			sum += c
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func additionalData(pred *prediction) map[string]interface{} {
	additional := make(map[string]interface{})

	if pred.TotalTax.Value != nil {
		additional["TotalTax"] = *pred.TotalTax.Value
	}
	if pred.Tip.Value != nil {
		additional["Tip"] = *pred.Tip.Value
	}
	if addr := strings.TrimSpace(pred.SupplierAddress.Value); addr != "" {
		additional["SupplierAddress"] = addr
	}
	if len(pred.LineItems) > 0 {
		items := make([]map[string]interface{}, 0, len(pred.LineItems))
		for _, li := range pred.LineItems {
			item := map[string]interface{}{"Description": li.Description}
			if li.Quantity != nil {
				item["Quantity"] = *li.Quantity
			}
			if li.UnitPrice != nil {
				item["UnitPrice"] = *li.UnitPrice
			}
			if li.TotalAmount != nil {
				item["TotalAmount"] = *li.TotalAmount
			}
			items = append(items, item)
		}
		additional["LineItems"] = items
		additional["LineItemCount"] = len(pred.LineItems)
	}

	if len(additional) == 0 {
		return nil
	}
	return additional
}
