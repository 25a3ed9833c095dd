package mongo

import (
	"context"
	"errors"
	"time"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository using MongoDB.
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new instance backed by the clients
// collection.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.UID == "" || client.Email == "" {
		return primitive.NilObjectID, errors.New("client uid and email are required")
	}

	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now
	client.BMI = client.CalculateBMI()

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoClientRepository) GetByUID(ctx context.Context, uid string) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"clientUid": uid})
}

func (r *mongoClientRepository) findOne(ctx context.Context, filter bson.M) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, filter).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// Update rewrites the profile fields. The membership ledger is deliberately
// excluded: it moves only through ReplaceMembership, DebitPoints, and
// ExpireMemberships.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	client.BMI = client.CalculateBMI()
	update := bson.M{"$set": bson.M{
		"name":            client.Name,
		"email":           client.Email,
		"gender":          client.Gender,
		"age":             client.Age,
		"height":          client.HeightCM,
		"weight":          client.WeightKG,
		"bmi":             client.BMI,
		"healthCondition": client.HealthCondition,
		"goals":           client.Goals,
		"updatedAt":       time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": client.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoClientRepository) ReplaceMembership(ctx context.Context, clientID primitive.ObjectID, m *domain.Membership) error {
	update := bson.M{"$set": bson.M{
		"membership": m,
		"updatedAt":  time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": clientID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DebitPoints is a single conditional decrement: the filter requires an
// active membership holding at least amount points, so two concurrent
// completions cannot double-spend a balance.
func (r *mongoClientRepository) DebitPoints(ctx context.Context, clientID primitive.ObjectID, amount int) (int, error) {
	filter := bson.M{
		"_id":                   clientID,
		"membership.isActive":   true,
		"membership.points":     bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"membership.points": -amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var client domain.Client
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, repository.ErrPreconditionFailed
		}
		return 0, err
	}
	if client.Membership == nil {
		return 0, errors.New("membership missing after debit")
	}
	return client.Membership.Points, nil
}

func (r *mongoClientRepository) ExpireMemberships(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"membership.isActive": true,
		"membership.endDate":  bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{
		"membership.isActive": false,
		"membership.points":   0,
		"updatedAt":           time.Now().UTC(),
	}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientUid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "membership.isActive", Value: 1}, {Key: "membership.endDate", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
