package extraction

import (
	"context"
	"time"

	"kassa/internal/constants"
	"kassa/internal/logger"
	"kassa/internal/patterns"
	"kassa/pkg/models"
)

// Service turns free-form receipt text into structured fields. Each
// field is extracted independently and falls back through three tiers:
// merchant-pattern rule, generic rule set, safe default.
type Service interface {
	ExtractAmount(ctx context.Context, content string) *float64
	ExtractCurrency(ctx context.Context, content string) string
	ExtractDate(ctx context.Context, content string) *time.Time
	ExtractMerchant(ctx context.Context, content, fromEmail string) string
	Extract(ctx context.Context, content, fromEmail string) models.ExtractedData
}

type serviceImpl struct {
	logger logger.Logger
}

func NewService(log logger.Logger) Service {
	return &serviceImpl{logger: log}
}

func (s *serviceImpl) ExtractAmount(ctx context.Context, content string) *float64 {
	amount := extractAmount(content)
	if amount != nil {
		s.logger.DebugwCtx(ctx, "Extracted amount from text", "amount", *amount)
	}
	return amount
}

func (s *serviceImpl) ExtractCurrency(ctx context.Context, content string) string {
	return extractCurrency(content)
}

func (s *serviceImpl) ExtractDate(ctx context.Context, content string) *time.Time {
	date := extractDate(content)
	if date != nil {
		s.logger.DebugwCtx(ctx, "Extracted date from text", "date", date.Format("2006-01-02"))
	}
	return date
}

func (s *serviceImpl) ExtractMerchant(ctx context.Context, content, fromEmail string) string {
	merchant := extractMerchant(content, fromEmail)
	if merchant != constants.DefaultMerchant {
		s.logger.DebugwCtx(ctx, "Extracted merchant from text", "merchant", merchant)
	}
	return merchant
}

// Extract runs all field extractors over one text blob. Category and
// auxiliary fields come from the detected merchant pattern when there
// is one; the fused confidence is assigned later by the orchestrator.
func (s *serviceImpl) Extract(ctx context.Context, content, fromEmail string) models.ExtractedData {
	data := models.ExtractedData{
		Merchant: s.ExtractMerchant(ctx, content, fromEmail),
		Amount:   s.ExtractAmount(ctx, content),
		Currency: s.ExtractCurrency(ctx, content),
		Date:     s.ExtractDate(ctx, content),
		Source:   constants.ExtractionSourceText,
	}

	if p := patterns.Detect(content); p != nil {
		data.Category = p.Category

		for field, re := range p.Auxiliary {
			m := re.FindStringSubmatch(content)
			if len(m) > 1 {
				if data.Additional == nil {
					data.Additional = make(map[string]interface{})
				}
				data.Additional[field] = m[1]
			}
		}

		s.logger.DebugwCtx(ctx, "Merchant pattern matched",
			"pattern", p.Name,
			"category", p.Category,
		)
	}

	return data
}
