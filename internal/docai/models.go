package docai

import "time"

// Result is the outcome of parsing one attachment. A failed parse is a valid
// Result with Success=false; the processing pipeline decides whether to fall
// back to text extraction. Confidences are within [0, 1].
type Result struct {
	Success      bool                   `json:"success"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	FileName     string                 `json:"file_name"`
	Amount       *float64               `json:"amount,omitempty"`
	Currency     string                 `json:"currency"`
	Date         *time.Time             `json:"date,omitempty"`
	Merchant     string                 `json:"merchant"`
	Category     string                 `json:"category"`

	AmountConfidence   float64 `json:"amount_confidence"`
	DateConfidence     float64 `json:"date_confidence"`
	MerchantConfidence float64 `json:"merchant_confidence"`
	OverallConfidence  float64 `json:"overall_confidence"`

	Additional map[string]interface{} `json:"additional,omitempty"`
}

// Wire types for the provider response. Only the fields the mapper reads are
// declared; the provider sends more.

type amountField struct {
	Value      *float64 `json:"value"`
	Confidence float64  `json:"confidence"`
}

type stringField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

type dateField struct {
	Value      string  `json:"value"` // "2006-01-02"
	Confidence float64 `json:"confidence"`
}

type lineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	TotalAmount *float64 `json:"total_amount"`
}

type prediction struct {
	TotalAmount     amountField `json:"total_amount"`
	TotalTax        amountField `json:"total_tax"`
	Tip             amountField `json:"tip"`
	Date            dateField   `json:"date"`
	SupplierName    stringField `json:"supplier_name"`
	SupplierAddress stringField `json:"supplier_address"`
	Currency        stringField `json:"currency"`
	LineItems       []lineItem  `json:"line_items"`
}

type parseResponse struct {
	Document struct {
		Inference struct {
			Prediction *prediction `json:"prediction"`
		} `json:"inference"`
	} `json:"document"`
}
