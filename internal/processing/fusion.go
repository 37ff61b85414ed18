package processing

import (
	"kassa/internal/constants"
	"kassa/internal/docai"
	"kassa/pkg/models"
)

// fuse merges the two extraction tiers. A document result only takes the
// lead when its overall confidence clears the threshold; even then, every
// field it failed to read falls back to the text tier. Otherwise the text
// result is used as-is at the fixed text-only confidence.
func fuse(text models.ExtractedData, doc *docai.Result) models.ExtractedData {
	if doc == nil || !doc.Success || doc.OverallConfidence <= constants.DocConfidenceThreshold {
		text.Source = constants.ExtractionSourceText
		text.Confidence = constants.TextOnlyConfidence
		return text
	}

	combined := models.ExtractedData{
		Source:     constants.ExtractionSourceDocument,
		Confidence: doc.OverallConfidence,
		Additional: mergeAdditional(doc.Additional, text.Additional),
	}

	combined.Amount = doc.Amount
	if combined.Amount == nil {
		combined.Amount = text.Amount
	}

	combined.Currency = doc.Currency
	if combined.Currency == "" {
		combined.Currency = text.Currency
	}
	if combined.Currency == "" {
		combined.Currency = constants.DefaultCurrency
	}

	combined.Date = doc.Date
	if combined.Date == nil {
		combined.Date = text.Date
	}

	combined.Merchant = doc.Merchant
	if combined.Merchant == "" || combined.Merchant == constants.DefaultMerchant {
		combined.Merchant = text.Merchant
	}

	combined.Category = doc.Category
	if (combined.Category == "" || combined.Category == constants.DefaultCategory) && text.Category != "" {
		combined.Category = text.Category
	}

	return combined
}

// mergeAdditional applies the same hole-filling to the auxiliary maps:
// document keys win, text-tier captures survive for keys the document
// result does not carry.
func mergeAdditional(doc, text map[string]interface{}) map[string]interface{} {
	if len(doc) == 0 && len(text) == 0 {
		return nil
	}

	merged := make(map[string]interface{}, len(doc)+len(text))
	for k, v := range text {
		merged[k] = v
	}
	for k, v := range doc {
		merged[k] = v
	}
	return merged
}
