package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roobaroo/internal/database"
	"roobaroo/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const registrationCollection = "registrations"

// documentValidationFailure is the server code for a write rejected by
// collection-level schema validation.
const documentValidationFailure = 121

type MongoRepository struct {
	db *database.MongoDatabase
}

func NewMongoRepository(db *database.MongoDatabase) *MongoRepository {
	return &MongoRepository{db: db}
}

func (r *MongoRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(registrationCollection)
}

// EnsureIndexes creates the unique email index that enforces
// at-most-one-registration-per-email, and the registration_date index
// the stats queries lean on.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "registration_date", Value: -1}},
		},
	})
	if err != nil {
		return classify(err)
	}

	slog.Info("Registration indexes ensured", "collection", registrationCollection)
	return nil
}

func (r *MongoRepository) CreateRegistration(ctx context.Context, reg model.Registration) (model.Registration, error) {
	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	if _, err := r.collection().InsertOne(ctx, reg); err != nil {
		return model.Registration{}, classify(err)
	}
	return reg, nil
}

func (r *MongoRepository) GetRegistrationByEmail(ctx context.Context, email string) (model.Registration, error) {
	var reg model.Registration
	err := r.collection().FindOne(ctx, bson.M{"email": email}).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Registration{}, ErrRegistrationNotFound
		}
		return model.Registration{}, classify(err)
	}
	return reg, nil
}

func (r *MongoRepository) CountRegistrations(ctx context.Context, filter Filter) (int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if !filter.RegisteredSince.IsZero() {
		query["registration_date"] = bson.M{"$gte": filter.RegisteredSince}
	}

	count, err := r.collection().CountDocuments(ctx, query)
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func (r *MongoRepository) HealthCheck(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// classify maps driver errors onto the closed store taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateEmail
	case isSchemaValidationError(err):
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %v", ErrConnection, err)
	default:
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}

func isSchemaValidationError(err error) bool {
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == documentValidationFailure {
				return true
			}
		}
	}

	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == documentValidationFailure
}
