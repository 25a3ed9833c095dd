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

const appointmentCollectionName = "appointments"

// mongoAppointmentRepository implements repository.AppointmentRepository
// using MongoDB.
type mongoAppointmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAppointmentRepository creates a new instance backed by the
// appointments collection.
func NewMongoAppointmentRepository(db *mongo.Database) repository.AppointmentRepository {
	return &mongoAppointmentRepository{
		collection: db.Collection(appointmentCollectionName),
	}
}

// Create inserts a new appointment. Status must already be set by the
// caller; insertion never occupies a trainer slot because the uniqueness
// index only covers confirmed documents.
func (r *mongoAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) (primitive.ObjectID, error) {
	appt.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, appt)
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

func (r *mongoAppointmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error) {
	var appt domain.Appointment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&appt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (r *mongoAppointmentRepository) GetAll(ctx context.Context) ([]domain.Appointment, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *mongoAppointmentRepository) GetByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error) {
	return r.findMany(ctx, bson.M{"trainerId": trainerID})
}

// UpdateStatusIf compare-and-swaps the status field. A confirm that races
// another confirm for the same slot trips the partial unique index and
// surfaces as ErrConflict; a transition whose expected prior status is gone
// surfaces as ErrPreconditionFailed.
func (r *mongoAppointmentRepository) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to domain.AppointmentStatus) error {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		// Either the appointment does not exist or its status moved on.
		if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return repository.ErrPreconditionFailed
	}
	return nil
}

func (r *mongoAppointmentRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.AppointmentStatus) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoAppointmentRepository) FindAt(ctx context.Context, partyField string, partyID primitive.ObjectID, date time.Time, start string, statuses []domain.AppointmentStatus) ([]domain.Appointment, error) {
	filter := bson.M{
		partyField:              partyID,
		"appointmentDate":       date,
		"appointmentTime.start": start,
		"status":                bson.M{"$in": statuses},
	}
	return r.findMany(ctx, filter)
}

func (r *mongoAppointmentRepository) FindConfirmedOn(ctx context.Context, trainerID primitive.ObjectID, date time.Time) ([]domain.Appointment, error) {
	filter := bson.M{
		"trainerId":       trainerID,
		"appointmentDate": date,
		"status":          domain.StatusConfirmed,
	}
	return r.findMany(ctx, filter)
}

func (r *mongoAppointmentRepository) CountCommitted(ctx context.Context, clientID primitive.ObjectID, from time.Time) (int64, error) {
	filter := bson.M{
		"clientId":        clientID,
		"status":          bson.M{"$in": []domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed}},
		"appointmentDate": bson.M{"$gte": from},
	}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *mongoAppointmentRepository) findMany(ctx context.Context, filter bson.M) ([]domain.Appointment, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []domain.Appointment
	if err = cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// EnsureAppointmentIndexes creates the indexes the booking core relies on.
// The partial unique indexes are the store-level guards against two
// confirmed appointments occupying the same trainer slot and against one
// client holding two pending requests for the same slot.
func EnsureAppointmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "trainerId", Value: 1},
				{Key: "appointmentDate", Value: 1},
				{Key: "appointmentTime.start", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.StatusConfirmed)}),
		},
		{
			Keys: bson.D{
				{Key: "clientId", Value: 1},
				{Key: "appointmentDate", Value: 1},
				{Key: "appointmentTime.start", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.StatusPending)}),
		},
		{
			Keys: bson.D{
				{Key: "clientId", Value: 1},
				{Key: "status", Value: 1},
				{Key: "appointmentDate", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "appointmentDate", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
