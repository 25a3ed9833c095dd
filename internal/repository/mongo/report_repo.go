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

const reportCollectionName = "reports"

// mongoReportRepository implements repository.ReportRepository using MongoDB.
type mongoReportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportRepository creates a new instance backed by the reports
// collection.
func NewMongoReportRepository(db *mongo.Database) repository.ReportRepository {
	return &mongoReportRepository{
		collection: db.Collection(reportCollectionName),
	}
}

func (r *mongoReportRepository) Create(ctx context.Context, report *domain.Report) (primitive.ObjectID, error) {
	report.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, report)
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

func (r *mongoReportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Report, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoReportRepository) GetByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*domain.Report, error) {
	return r.findOne(ctx, bson.M{"appointmentId": appointmentID})
}

func (r *mongoReportRepository) findOne(ctx context.Context, filter bson.M) (*domain.Report, error) {
	var report domain.Report
	err := r.collection.FindOne(ctx, filter).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *mongoReportRepository) Update(ctx context.Context, report *domain.Report) error {
	update := bson.M{"$set": bson.M{
		"exercises": report.Exercises,
		"notes":     report.Notes,
		"status":    report.Status,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": report.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureReportIndexes creates necessary indexes for the reports collection.
func EnsureReportIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "appointmentId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
