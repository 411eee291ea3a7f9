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

const lessonCollectionName = "lessons"

// mongoLessonRepository implements repository.LessonRepository using MongoDB.
//
// The partial unique index created by EnsureLessonIndexes is what makes the
// at-most-one-confirmed-booking-per-slot invariant hold under concurrent
// requests: two writers that both passed the in-memory conflict check race
// to the index, and exactly one insert/update wins. The loser surfaces as
// repository.ErrConflict.
type mongoLessonRepository struct {
	collection *mongo.Collection
}

// NewMongoLessonRepository creates a new instance of mongoLessonRepository.
func NewMongoLessonRepository(db *mongo.Database) repository.LessonRepository {
	return &mongoLessonRepository{
		collection: db.Collection(lessonCollectionName),
	}
}

// Create inserts a new lesson. A duplicate (coachId, startsAt) among
// confirmed lessons maps to repository.ErrConflict.
func (r *mongoLessonRepository) Create(ctx context.Context, lesson *domain.Lesson) (primitive.ObjectID, error) {
	if lesson.CoachID == primitive.NilObjectID || lesson.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("lesson coach ID and client ID are required")
	}
	if lesson.Status == "" {
		return primitive.NilObjectID, errors.New("lesson status is required")
	}

	lesson.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	lesson.StartsAt = lesson.StartsAt.UTC()

	result, err := r.collection.InsertOne(ctx, lesson)
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

// GetByID retrieves a lesson by its ObjectID.
func (r *mongoLessonRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *mongoLessonRepository) listInRange(ctx context.Context, filter bson.M, from, to time.Time) ([]domain.Lesson, error) {
	filter["startsAt"] = bson.M{
		"$gte": from.UTC(),
		"$lt":  to.UTC(),
	}

	opts := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	lessons := []domain.Lesson{}
	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// ListByCoachInRange returns the coach's lessons starting in [from, to),
// any status, ordered by start instant.
func (r *mongoLessonRepository) ListByCoachInRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return r.listInRange(ctx, bson.M{"coachId": coachID}, from, to)
}

// ListByClientInRange returns the client's lessons starting in [from, to).
func (r *mongoLessonRepository) ListByClientInRange(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return r.listInRange(ctx, bson.M{"clientId": clientID}, from, to)
}

// ListConfirmedInRange returns only confirmed lessons in [from, to).
func (r *mongoLessonRepository) ListConfirmedInRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return r.listInRange(ctx, bson.M{"coachId": coachID, "status": domain.LessonConfirmed}, from, to)
}

// ConfirmPending atomically transitions pending -> confirmed. The filter
// pins the current status, so an already-resolved lesson reads as not
// found; the unique confirmed index turns a taken slot into ErrConflict,
// leaving the pending document unchanged.
func (r *mongoLessonRepository) ConfirmPending(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error) {
	filter := bson.M{"_id": id, "status": domain.LessonPending}
	update := bson.M{
		"$set": bson.M{
			"status":    domain.LessonConfirmed,
			"updatedAt": time.Now().UTC(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var lesson domain.Lesson
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return &lesson, nil
}

// Reject moves a pending or confirmed lesson to rejected. Rejected lessons
// are terminal and never match the filter again.
func (r *mongoLessonRepository) Reject(ctx context.Context, id primitive.ObjectID, reason string) (*domain.Lesson, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": []domain.LessonStatus{domain.LessonPending, domain.LessonConfirmed}},
	}
	set := bson.M{
		"status":    domain.LessonRejected,
		"updatedAt": time.Now().UTC(),
	}
	if reason != "" {
		set["rejectReason"] = reason
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var lesson domain.Lesson
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// Delete removes a lesson document.
func (r *mongoLessonRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureLessonIndexes creates the lesson collection indexes. The partial
// unique index on (coachId, startsAt) for confirmed lessons is load-bearing:
// it is the storage-level enforcement of the no-double-booking invariant.
func EnsureLessonIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "startsAt", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.LessonConfirmed)}),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "startsAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "recurrenceGroupId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
