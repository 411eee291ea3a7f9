package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlockedInterval is a coach-declared span of unavailability, independent of
// bookings. Instants are absolute (stored UTC). When IsAllDay is set the
// interval covers the whole local day of StartsAt in the interval's Timezone,
// whatever StartsAt/EndsAt hold.
type BlockedInterval struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	StartsAt    time.Time          `bson:"startsAt" json:"startsAt"`
	EndsAt      time.Time          `bson:"endsAt" json:"endsAt"`
	IsAllDay    bool               `bson:"isAllDay" json:"isAllDay"`
	Timezone    string             `bson:"timezone" json:"timezone"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
