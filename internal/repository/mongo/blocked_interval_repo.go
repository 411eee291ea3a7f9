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

const blockedIntervalCollectionName = "blocked_intervals"

// mongoBlockedIntervalRepository implements repository.BlockedIntervalRepository.
//
// Guarded writes run inside a session transaction: the confirmed-lesson
// check and the interval write commit together, so they serialize against
// concurrent lesson writes on the same coach instead of racing them.
type mongoBlockedIntervalRepository struct {
	collection *mongo.Collection
	lessonColl *mongo.Collection
}

// NewMongoBlockedIntervalRepository creates a new instance backed by the
// given database. It also needs the lessons collection for guard checks.
func NewMongoBlockedIntervalRepository(db *mongo.Database) repository.BlockedIntervalRepository {
	return &mongoBlockedIntervalRepository{
		collection: db.Collection(blockedIntervalCollectionName),
		lessonColl: db.Collection(lessonCollectionName),
	}
}

// confirmedLessonsIn finds confirmed lessons of the coach starting inside
// the half-open guard span.
func (r *mongoBlockedIntervalRepository) confirmedLessonsIn(ctx context.Context, coachID primitive.ObjectID, guard repository.Guard) ([]domain.Lesson, error) {
	filter := bson.M{
		"coachId": coachID,
		"status":  domain.LessonConfirmed,
		"startsAt": bson.M{
			"$gte": guard.Start.UTC(),
			"$lt":  guard.End.UTC(),
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}})
	cursor, err := r.lessonColl.Find(ctx, filter, opts)
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

// withTransaction runs fn inside a mongo session transaction.
func (r *mongoBlockedIntervalRepository) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.collection.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// Create inserts a blocked interval unless a confirmed lesson starts inside
// the guard span. On refusal it returns the overlapping lessons together
// with repository.ErrConflict.
func (r *mongoBlockedIntervalRepository) Create(ctx context.Context, block *domain.BlockedInterval, guard repository.Guard) (primitive.ObjectID, []domain.Lesson, error) {
	if block.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, nil, errors.New("blocked interval coach ID is required")
	}

	block.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	block.CreatedAt = now
	block.UpdatedAt = now
	block.StartsAt = block.StartsAt.UTC()
	block.EndsAt = block.EndsAt.UTC()

	var overlapping []domain.Lesson
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		lessons, err := r.confirmedLessonsIn(sc, block.CoachID, guard)
		if err != nil {
			return err
		}
		if len(lessons) > 0 {
			overlapping = lessons
			return repository.ErrConflict
		}

		_, err = r.collection.InsertOne(sc, block)
		return err
	})
	if err != nil {
		return primitive.NilObjectID, overlapping, err
	}

	return block.ID, nil, nil
}

// Update replaces the mutable fields of an existing interval under the same
// guard as Create.
func (r *mongoBlockedIntervalRepository) Update(ctx context.Context, block *domain.BlockedInterval, guard repository.Guard) ([]domain.Lesson, error) {
	var overlapping []domain.Lesson
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		lessons, err := r.confirmedLessonsIn(sc, block.CoachID, guard)
		if err != nil {
			return err
		}
		if len(lessons) > 0 {
			overlapping = lessons
			return repository.ErrConflict
		}

		filter := bson.M{"_id": block.ID, "coachId": block.CoachID}
		update := bson.M{
			"$set": bson.M{
				"title":       block.Title,
				"description": block.Description,
				"startsAt":    block.StartsAt.UTC(),
				"endsAt":      block.EndsAt.UTC(),
				"isAllDay":    block.IsAllDay,
				"timezone":    block.Timezone,
				"updatedAt":   time.Now().UTC(),
			},
		}

		result, err := r.collection.UpdateOne(sc, filter, update)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return overlapping, err
	}
	return nil, nil
}

// GetByID retrieves a blocked interval by its ObjectID.
func (r *mongoBlockedIntervalRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BlockedInterval, error) {
	var block domain.BlockedInterval
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&block)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

// ListByCoachID returns all of a coach's blocked intervals ordered by start.
func (r *mongoBlockedIntervalRepository) ListByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.BlockedInterval, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	blocks := []domain.BlockedInterval{}
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ListOverlapping returns the coach's intervals intersecting [from, to).
// All-day intervals are matched on their start instant's day, which the
// service resolves before querying; here the standard half-open test
// startsAt < to && endsAt > from is widened to include isAllDay documents
// whose start falls inside the range.
func (r *mongoBlockedIntervalRepository) ListOverlapping(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.BlockedInterval, error) {
	filter := bson.M{
		"coachId": coachID,
		"$or": []bson.M{
			{
				"startsAt": bson.M{"$lt": to.UTC()},
				"endsAt":   bson.M{"$gt": from.UTC()},
			},
			{
				"isAllDay": true,
				"startsAt": bson.M{"$gte": from.UTC(), "$lt": to.UTC()},
			},
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	blocks := []domain.BlockedInterval{}
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// Delete removes an interval owned by the coach. Deletion is unrestricted;
// blocks never guard other blocks.
func (r *mongoBlockedIntervalRepository) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "coachId": coachID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureBlockedIntervalIndexes creates indexes for the blocked_intervals
// collection.
func EnsureBlockedIntervalIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "startsAt", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
