package receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kassa/internal/constants"
	pkgerrors "kassa/pkg/errors"
	"kassa/pkg/metrics"
)

type Repository interface {
	Create(ctx context.Context, r *Receipt) error
	GetByID(ctx context.Context, id string) (*Receipt, error)
	GetByMessageID(ctx context.Context, messageID string) (*Receipt, error)
	List(ctx context.Context, filter ListFilter) ([]Receipt, error)
	Delete(ctx context.Context, id string) error
}

type MongoDBRepository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &MongoDBRepository{
		collection: db.Collection(constants.ReceiptsCollection),
	}
}

func (r *MongoDBRepository) Create(ctx context.Context, receipt *Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	now := time.Now()
	receipt.CreatedAt = now
	receipt.UpdatedAt = now

	start := time.Now()
	_, err := r.collection.InsertOne(ctx, receipt)
	metrics.ObserveDatabaseQueryDuration("mongodb", "insert_receipt", time.Since(start))

	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			metrics.IncDatabaseQuery("mongodb", "insert_receipt", "conflict")
			return pkgerrors.ErrConflict.WithCause(err).
				WithDetail("message", fmt.Sprintf("receipt for message '%s' already exists", receipt.MessageID))
		}
		metrics.IncDatabaseQuery("mongodb", "insert_receipt", "error")
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	metrics.IncDatabaseQuery("mongodb", "insert_receipt", "success")
	return nil
}

func (r *MongoDBRepository) GetByID(ctx context.Context, id string) (*Receipt, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoDBRepository) GetByMessageID(ctx context.Context, messageID string) (*Receipt, error) {
	return r.findOne(ctx, bson.M{"message_id": messageID})
}

func (r *MongoDBRepository) findOne(ctx context.Context, filter bson.M) (*Receipt, error) {
	var receipt Receipt
	err := r.collection.FindOne(ctx, filter).Decode(&receipt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find receipt: %w", err)
	}
	return &receipt, nil
}

func (r *MongoDBRepository) List(ctx context.Context, filter ListFilter) ([]Receipt, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		query["transaction_date"] = dateRange
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "transaction_date", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(filter.Offset)).
		SetProjection(bson.M{"attachments.content": 0})

	start := time.Now()
	cursor, err := r.collection.Find(ctx, query, opts)
	metrics.ObserveDatabaseQueryDuration("mongodb", "list_receipts", time.Since(start))
	if err != nil {
		metrics.IncDatabaseQuery("mongodb", "list_receipts", "error")
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer cursor.Close(ctx)

	var receipts []Receipt
	if err := cursor.All(ctx, &receipts); err != nil {
		return nil, fmt.Errorf("failed to decode receipts: %w", err)
	}

	metrics.IncDatabaseQuery("mongodb", "list_receipts", "success")
	return receipts, nil
}

func (r *MongoDBRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	if res.DeletedCount == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
