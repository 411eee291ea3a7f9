package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Defaults applied when a coach has no configuration, or when the stored
// start/end strings fail to parse.
const (
	DefaultStartTime           = "9:00 AM"
	DefaultEndTime             = "6:00 PM"
	DefaultSlotIntervalMinutes = 60
)

// WorkingHours is the per-coach availability configuration. StartTime and
// EndTime are wall-clock strings ("9:00 AM" or "09:00"); they carry no
// timezone until combined with a date and the coach's zone. Parsing and
// validation happen in the scheduling package; malformed values fall back to
// the defaults above rather than failing slot generation.
type WorkingHours struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID             primitive.ObjectID `bson:"coachId" json:"coachId"`
	StartTime           string             `bson:"startTime" json:"startTime"`
	EndTime             string             `bson:"endTime" json:"endTime"`
	SlotIntervalMinutes int                `bson:"slotIntervalMinutes" json:"slotIntervalMinutes"`
	WorkingDays         []time.Weekday     `bson:"workingDays" json:"workingDays"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultWorkingHours returns the fallback schedule: 9:00 AM to 6:00 PM,
// 60-minute slots, all seven weekdays.
func DefaultWorkingHours(coachID primitive.ObjectID) *WorkingHours {
	return &WorkingHours{
		CoachID:             coachID,
		StartTime:           DefaultStartTime,
		EndTime:             DefaultEndTime,
		SlotIntervalMinutes: DefaultSlotIntervalMinutes,
		WorkingDays: []time.Weekday{
			time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		},
	}
}
