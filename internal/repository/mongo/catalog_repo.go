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

const (
	packageCollectionName     = "membership_packages"
	serviceTypeCollectionName = "service_types"
)

// mongoPackageRepository implements repository.PackageRepository using MongoDB.
type mongoPackageRepository struct {
	collection *mongo.Collection
}

// NewMongoPackageRepository creates a new instance backed by the
// membership_packages collection.
func NewMongoPackageRepository(db *mongo.Database) repository.PackageRepository {
	return &mongoPackageRepository{
		collection: db.Collection(packageCollectionName),
	}
}

func (r *mongoPackageRepository) Create(ctx context.Context, pkg *domain.MembershipPackage) (primitive.ObjectID, error) {
	if pkg.Name == "" || pkg.DurationMonths <= 0 {
		return primitive.NilObjectID, errors.New("package name and duration are required")
	}

	pkg.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, pkg)
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

func (r *mongoPackageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPackage, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoPackageRepository) GetByName(ctx context.Context, name string) (*domain.MembershipPackage, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoPackageRepository) findOne(ctx context.Context, filter bson.M) (*domain.MembershipPackage, error) {
	var pkg domain.MembershipPackage
	err := r.collection.FindOne(ctx, filter).Decode(&pkg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *mongoPackageRepository) GetAll(ctx context.Context) ([]domain.MembershipPackage, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pkgs []domain.MembershipPackage
	if err = cursor.All(ctx, &pkgs); err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *mongoPackageRepository) Update(ctx context.Context, pkg *domain.MembershipPackage) error {
	update := bson.M{"$set": bson.M{
		"price":          pkg.Price,
		"durationMonths": pkg.DurationMonths,
		"points":         pkg.Points,
		"description":    pkg.Description,
		"updatedAt":      time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": pkg.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPackageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePackageIndexes creates necessary indexes for the package collection.
func EnsurePackageIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// mongoServiceTypeRepository implements repository.ServiceTypeRepository.
type mongoServiceTypeRepository struct {
	collection *mongo.Collection
}

// NewMongoServiceTypeRepository creates a new instance backed by the
// service_types collection.
func NewMongoServiceTypeRepository(db *mongo.Database) repository.ServiceTypeRepository {
	return &mongoServiceTypeRepository{
		collection: db.Collection(serviceTypeCollectionName),
	}
}

func (r *mongoServiceTypeRepository) GetByName(ctx context.Context, name string) (*domain.ServiceType, error) {
	var st domain.ServiceType
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&st)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *mongoServiceTypeRepository) GetAll(ctx context.Context) ([]domain.ServiceType, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []domain.ServiceType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *mongoServiceTypeRepository) Create(ctx context.Context, st *domain.ServiceType) (primitive.ObjectID, error) {
	st.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, st)
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
