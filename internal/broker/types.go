package broker

import (
	"context"

	"kassa/pkg/models"
)

type Producer interface {
	PublishReceiptCreated(ctx context.Context, event models.ReceiptEvent) error
	Close() error
}
