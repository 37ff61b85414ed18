package migrations

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kassa/internal/constants"
)

// EnsureReceiptIndexes creates the receipts indexes. The unique index on
// message_id is the dedup backstop; a duplicate insert fails there even
// when the Redis pre-check was skipped.
func EnsureReceiptIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(constants.ReceiptsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "message_id", Value: 1}},
			Options: options.Index().SetName("idx_receipts_message_id_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "transaction_date", Value: -1}},
			Options: options.Index().SetName("idx_receipts_category_date"),
		},
		{
			Keys:    bson.D{{Key: "transaction_date", Value: -1}},
			Options: options.Index().SetName("idx_receipts_transaction_date"),
		},
		{
			Keys:    bson.D{{Key: "merchant", Value: 1}},
			Options: options.Index().SetName("idx_receipts_merchant"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_receipts_created_at"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to create receipt indexes: %w", err)
		}
	}

	return nil
}
