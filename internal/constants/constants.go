package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	CacheKeyPrefixDedup = "dedup:"
)

const (
	DefaultMongoDBName = "kassa"
	ReceiptsCollection = "receipts"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

const (
	FallbackAllow = "allow"
	FallbackDeny  = "deny"
)

const (
	DefaultCurrency = "EUR"
	DefaultCategory = "Sonstiges"
	DefaultMerchant = "Unknown"
)

// Fusion threshold: document-understanding results above this overall
// confidence take precedence over text extraction.
const (
	DocConfidenceThreshold = 0.7
	TextOnlyConfidence     = 0.5
)

const (
	ExtractionSourceText     = "text"
	ExtractionSourceDocument = "document"
)
