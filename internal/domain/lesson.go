package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LessonStatus represents the lifecycle state of a booking.
type LessonStatus string

const (
	LessonPending   LessonStatus = "pending"
	LessonConfirmed LessonStatus = "confirmed"
	LessonRejected  LessonStatus = "rejected"
)

// Lesson is a booking between exactly one Coach and one Client.
// StartsAt is an absolute instant (stored UTC); Timezone records the IANA
// zone that was used to interpret the wall-clock input, so the lesson can be
// rendered back in the coach's local time across DST transitions.
type Lesson struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title             string             `bson:"title" json:"title"`
	StartsAt          time.Time          `bson:"startsAt" json:"startsAt"`
	Timezone          string             `bson:"timezone" json:"timezone"`
	Status            LessonStatus       `bson:"status" json:"status"`
	CoachID           primitive.ObjectID `bson:"coachId" json:"coachId"`
	ClientID          primitive.ObjectID `bson:"clientId" json:"clientId"`
	RecurrenceGroupID string             `bson:"recurrenceGroupId,omitempty" json:"recurrenceGroupId,omitempty"`
	RejectReason      string             `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CanTransitionTo encodes the lifecycle state machine:
// pending -> confirmed | rejected, confirmed -> rejected (cancel).
// rejected is terminal; a rejected lesson is never reactivated.
func (s LessonStatus) CanTransitionTo(next LessonStatus) bool {
	switch s {
	case LessonPending:
		return next == LessonConfirmed || next == LessonRejected
	case LessonConfirmed:
		return next == LessonRejected
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s LessonStatus) IsTerminal() bool {
	return s == LessonRejected
}
