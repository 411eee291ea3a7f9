package mongo

import (
	"context"
	"errors"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workingHoursCollectionName = "working_hours"

// mongoWorkingHoursRepository implements repository.WorkingHoursRepository.
// One document per coach, upserted in place.
type mongoWorkingHoursRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkingHoursRepository creates a new instance of mongoWorkingHoursRepository.
func NewMongoWorkingHoursRepository(db *mongo.Database) repository.WorkingHoursRepository {
	return &mongoWorkingHoursRepository{
		collection: db.Collection(workingHoursCollectionName),
	}
}

// GetByCoachID retrieves a coach's working-hours configuration.
func (r *mongoWorkingHoursRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) (*domain.WorkingHours, error) {
	var hours domain.WorkingHours
	err := r.collection.FindOne(ctx, bson.M{"coachId": coachID}).Decode(&hours)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &hours, nil
}

// Upsert writes the coach's configuration, creating it on first save.
func (r *mongoWorkingHoursRepository) Upsert(ctx context.Context, hours *domain.WorkingHours) error {
	if hours.CoachID == primitive.NilObjectID {
		return errors.New("working hours coach ID is required")
	}

	hours.UpdatedAt = time.Now().UTC()

	filter := bson.M{"coachId": hours.CoachID}
	update := bson.M{
		"$set": bson.M{
			"startTime":           hours.StartTime,
			"endTime":             hours.EndTime,
			"slotIntervalMinutes": hours.SlotIntervalMinutes,
			"workingDays":         hours.WorkingDays,
			"updatedAt":           hours.UpdatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// EnsureWorkingHoursIndexes creates indexes for the working_hours collection.
func EnsureWorkingHoursIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
