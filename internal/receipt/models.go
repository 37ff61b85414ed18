package receipt

import "time"

// Receipt is the persisted outcome of one processed email. ExtractedText
// carries the serialized document-understanding result when that tier ran.
type Receipt struct {
	ID              string                 `bson:"_id" json:"id"`
	MessageID       string                 `bson:"message_id" json:"message_id"`
	Merchant        string                 `bson:"merchant" json:"merchant"`
	Amount          float64                `bson:"amount" json:"amount"`
	Currency        string                 `bson:"currency" json:"currency"`
	Category        string                 `bson:"category" json:"category"`
	TransactionDate time.Time              `bson:"transaction_date" json:"transaction_date"`
	ReceivedDate    time.Time              `bson:"received_date" json:"received_date"`
	Sender          string                 `bson:"sender" json:"sender"`
	Subject         string                 `bson:"subject" json:"subject"`
	Body            string                 `bson:"body,omitempty" json:"body,omitempty"`
	Processed       bool                   `bson:"processed" json:"processed"`
	Source          string                 `bson:"source" json:"source"`
	Confidence      float64                `bson:"confidence" json:"confidence"`
	ExtractedText   string                 `bson:"extracted_text,omitempty" json:"extracted_text,omitempty"`
	Additional      map[string]interface{} `bson:"additional,omitempty" json:"additional,omitempty"`
	Attachments     []StoredAttachment     `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt       time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time              `bson:"updated_at" json:"updated_at"`
}

// StoredAttachment keeps the original file alongside the receipt. Content is
// stored in the document but never serialized over the API.
type StoredAttachment struct {
	FileName          string `bson:"file_name" json:"file_name"`
	ContentType       string `bson:"content_type" json:"content_type"`
	Size              int64  `bson:"size" json:"size"`
	Content           []byte `bson:"content,omitempty" json:"-"`
	ProcessingDetails string `bson:"processing_details,omitempty" json:"processing_details,omitempty"`
}

// ListFilter narrows List queries. Zero values mean "no constraint".
type ListFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
