package logging

import (
	"context"
)

type contextKey string

const (
	messageIDKey contextKey = "message_id"
	receiptIDKey contextKey = "receipt_id"
	traceIDKey   contextKey = "trace_id"
)

func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, messageIDKey, messageID)
}

func WithReceiptID(ctx context.Context, receiptID string) context.Context {
	return context.WithValue(ctx, receiptIDKey, receiptID)
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func GetMessageID(ctx context.Context) string {
	if v, ok := ctx.Value(messageIDKey).(string); ok {
		return v
	}
	return ""
}

func GetReceiptID(ctx context.Context) string {
	if v, ok := ctx.Value(receiptIDKey).(string); ok {
		return v
	}
	return ""
}

func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// GetLogFields collects the context-scoped identifiers as zap key-value
// pairs so every log line within one processing pass carries them.
func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 6)

	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, "trace_id", traceID)
	}
	if messageID := GetMessageID(ctx); messageID != "" {
		fields = append(fields, "message_id", messageID)
	}
	if receiptID := GetReceiptID(ctx); receiptID != "" {
		fields = append(fields, "receipt_id", receiptID)
	}

	return fields
}
