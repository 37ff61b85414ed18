package processing

import "kassa/pkg/models"

// Result is the outcome of one processed inbound email. Success covers the
// pipeline itself: an email that turns out not to be a receipt is still a
// successful run.
type Result struct {
	Success   bool                  `json:"success"`
	ReceiptID string                `json:"receipt_id,omitempty"`
	Message   string                `json:"message"`
	Extracted *models.ExtractedData `json:"extracted_data,omitempty"`
	Errors    []string              `json:"errors,omitempty"`
}
