package mongo

import (
	"context"
	"errors"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const purchaseCollectionName = "purchase_history"

// mongoPurchaseHistoryRepository implements
// repository.PurchaseHistoryRepository using MongoDB.
type mongoPurchaseHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoPurchaseHistoryRepository creates a new instance backed by the
// purchase_history collection.
func NewMongoPurchaseHistoryRepository(db *mongo.Database) repository.PurchaseHistoryRepository {
	return &mongoPurchaseHistoryRepository{
		collection: db.Collection(purchaseCollectionName),
	}
}

func (r *mongoPurchaseHistoryRepository) Create(ctx context.Context, record *domain.PurchaseHistory) (primitive.ObjectID, error) {
	record.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoPurchaseHistoryRepository) GetByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.PurchaseHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "purchaseDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.PurchaseHistory
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
