package service

import (
	"context"
	"errors"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/logger"
	"peakform/coaching-app/internal/repository"
	"peakform/coaching-app/internal/scheduling"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrLessonInPast     = errors.New("lesson time must be in the future")
	ErrLessonNotOwned   = errors.New("lesson does not belong to this caller")
	ErrNotRosterPairing = errors.New("client is not on this coach's roster")
)

// Actor identifies the authenticated caller of an operation. Access-control
// decisions beyond this coach/client pairing check are the auth layer's job.
type Actor struct {
	ID   primitive.ObjectID
	Role domain.Role
}

// CreateLessonInput carries a single booking request. StartsAt is an
// absolute instant; Timezone is the IANA zone used to interpret wall-clock
// values related to it (blocked-day expansion, slot alignment).
type CreateLessonInput struct {
	CoachID  primitive.ObjectID
	ClientID primitive.ObjectID
	Title    string
	StartsAt time.Time
	Timezone string
}

// BlockedIntervalInput carries a blocked-interval create/update request.
// When IsAllDay is set, StartsAt picks the local day and EndsAt is ignored.
type BlockedIntervalInput struct {
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	IsAllDay    bool
	Timezone    string
}

// RecurrenceInput carries a recurring-lesson request. Anchor is the first
// occurrence's instant; EndDate bounds the series (inclusive, local date).
type RecurrenceInput struct {
	CoachID               primitive.ObjectID
	ClientID              primitive.ObjectID
	Title                 string
	Anchor                time.Time
	IntervalWeeks         int
	EndDate               time.Time
	Timezone              string
	RestrictToWorkingDays bool
}

// SkippedOccurrence reports one occurrence of a recurring series that was
// not booked, with the reason (title of the blocking entity).
type SkippedOccurrence struct {
	StartsAt time.Time `json:"startsAt"`
	Reason   string    `json:"reason"`
}

// RecurrenceReport is the partial-success result of a recurring-lesson
// request. The series is not atomic: created occurrences are persisted even
// when others were skipped.
type RecurrenceReport struct {
	GroupID string              `json:"groupId"`
	Created []domain.Lesson     `json:"created"`
	Skipped []SkippedOccurrence `json:"skipped"`
}

// LessonResult pairs a booked lesson with advisory warnings (titles of
// blocked intervals the booking falls into; the booking still succeeded).
type LessonResult struct {
	Lesson   *domain.Lesson `json:"lesson"`
	Warnings []string       `json:"warnings,omitempty"`
}

// ScheduleService is the scheduling orchestrator: the only component with
// side effects. It sequences slot generation, conflict detection, recurrence
// expansion and the lesson lifecycle to serve booking/blocking commands.
type ScheduleService interface {
	// Query side
	GetAvailableSlots(ctx context.Context, coachID primitive.ObjectID, date time.Time, zone string, coachView bool) (*scheduling.DaySlots, error)
	ListLessons(ctx context.Context, actor Actor, from, to time.Time) ([]domain.Lesson, error)
	GetWorkingHours(ctx context.Context, coachID primitive.ObjectID) (*domain.WorkingHours, error)
	ListBlockedIntervals(ctx context.Context, coachID primitive.ObjectID) ([]domain.BlockedInterval, error)

	// Command side
	CreateLesson(ctx context.Context, actor Actor, input CreateLessonInput) (*LessonResult, error)
	ApproveLesson(ctx context.Context, actor Actor, lessonID primitive.ObjectID) (*domain.Lesson, error)
	RejectLesson(ctx context.Context, actor Actor, lessonID primitive.ObjectID, reason string) (*domain.Lesson, error)
	DeleteLesson(ctx context.Context, actor Actor, lessonID primitive.ObjectID) error
	ScheduleRecurringLessons(ctx context.Context, actor Actor, input RecurrenceInput) (*RecurrenceReport, error)
	UpdateWorkingHours(ctx context.Context, coachID primitive.ObjectID, hours *domain.WorkingHours) error
	CreateBlockedInterval(ctx context.Context, coachID primitive.ObjectID, input BlockedIntervalInput) (*domain.BlockedInterval, error)
	UpdateBlockedInterval(ctx context.Context, coachID, intervalID primitive.ObjectID, input BlockedIntervalInput) (*domain.BlockedInterval, error)
	DeleteBlockedInterval(ctx context.Context, coachID, intervalID primitive.ObjectID) error
}

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	lessonRepo repository.LessonRepository
	blockRepo  repository.BlockedIntervalRepository
	hoursRepo  repository.WorkingHoursRepository
	userRepo   repository.UserRepository
	now        func() time.Time
	log        *zap.Logger
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	lessonRepo repository.LessonRepository,
	blockRepo repository.BlockedIntervalRepository,
	hoursRepo repository.WorkingHoursRepository,
	userRepo repository.UserRepository,
) ScheduleService {
	return newScheduleService(lessonRepo, blockRepo, hoursRepo, userRepo, time.Now)
}

// newScheduleService allows the clock to be injected; slot filtering and
// past-date guards depend on "now", so it is a parameter, never an ambient
// global.
func newScheduleService(
	lessonRepo repository.LessonRepository,
	blockRepo repository.BlockedIntervalRepository,
	hoursRepo repository.WorkingHoursRepository,
	userRepo repository.UserRepository,
	clock func() time.Time,
) *scheduleService {
	return &scheduleService{
		lessonRepo: lessonRepo,
		blockRepo:  blockRepo,
		hoursRepo:  hoursRepo,
		userRepo:   userRepo,
		now:        clock,
		log:        logger.Get(),
	}
}

// resolveLocation resolves the zone to use: explicit parameter first, then
// the coach's stored zone, then UTC. An unknown zone name is a BAD_REQUEST.
func (s *scheduleService) resolveLocation(zone string, coach *domain.User) (*time.Location, error) {
	name := zone
	if name == "" && coach != nil {
		name = coach.Timezone
	}
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, newBadRequest("unknown timezone: " + name)
	}
	return loc, nil
}

// loadCoach fetches a coach user, mapping lookup failure to NOT_FOUND.
func (s *scheduleService) loadCoach(ctx context.Context, coachID primitive.ObjectID) (*domain.User, error) {
	coach, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newNotFound("coach not found")
		}
		return nil, err
	}
	if !coach.IsCoach() {
		return nil, newNotFound("coach not found")
	}
	return coach, nil
}

// dayPlanFor resolves the coach's working-hours configuration; a missing or
// malformed configuration falls back to the default schedule.
func (s *scheduleService) dayPlanFor(ctx context.Context, coachID primitive.ObjectID) (scheduling.DayPlan, error) {
	hours, err := s.hoursRepo.GetByCoachID(ctx, coachID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return scheduling.DayPlan{}, err
	}
	return scheduling.ResolveDayPlan(hours), nil
}

// === Query side ===

// GetAvailableSlots generates the ordered slot candidates for one local
// date. Coaches see every candidate (blocked ones tagged, non-working days
// flagged); the client view filters to offerable slots only.
func (s *scheduleService) GetAvailableSlots(ctx context.Context, coachID primitive.ObjectID, date time.Time, zone string, coachView bool) (*scheduling.DaySlots, error) {
	coach, err := s.loadCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	loc, err := s.resolveLocation(zone, coach)
	if err != nil {
		return nil, err
	}

	plan, err := s.dayPlanFor(ctx, coachID)
	if err != nil {
		return nil, err
	}

	localDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	day := scheduling.DayBounds(localDate, loc)

	blocks, err := s.blockRepo.ListOverlapping(ctx, coachID, day.Start, day.End)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.lessonRepo.ListConfirmedInRange(ctx, coachID, day.Start, day.End)
	if err != nil {
		return nil, err
	}
	booked := make([]time.Time, len(confirmed))
	for i, l := range confirmed {
		booked[i] = l.StartsAt
	}

	slots := scheduling.GenerateSlots(localDate, plan, blocks, booked, s.now(), loc)
	if !coachView {
		slots.Slots = slots.Available()
	}
	return &slots, nil
}

// ListLessons returns the caller's own lessons starting in [from, to).
func (s *scheduleService) ListLessons(ctx context.Context, actor Actor, from, to time.Time) ([]domain.Lesson, error) {
	if !from.Before(to) {
		return nil, newBadRequest("empty date range")
	}
	if actor.Role == domain.RoleCoach {
		return s.lessonRepo.ListByCoachInRange(ctx, actor.ID, from, to)
	}
	return s.lessonRepo.ListByClientInRange(ctx, actor.ID, from, to)
}

// GetWorkingHours returns the coach's configuration, or the default
// schedule if none has been saved yet.
func (s *scheduleService) GetWorkingHours(ctx context.Context, coachID primitive.ObjectID) (*domain.WorkingHours, error) {
	hours, err := s.hoursRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.DefaultWorkingHours(coachID), nil
		}
		return nil, err
	}
	return hours, nil
}

// ListBlockedIntervals returns all of a coach's blocked intervals.
func (s *scheduleService) ListBlockedIntervals(ctx context.Context, coachID primitive.ObjectID) ([]domain.BlockedInterval, error) {
	return s.blockRepo.ListByCoachID(ctx, coachID)
}

// === Command side ===

// authorizePairing verifies the actor may book between this coach and
// client. It returns the loaded coach (callers also need its stored zone)
// and the status the new lesson enters: a coach books CONFIRMED directly, a
// client submits PENDING.
func (s *scheduleService) authorizePairing(ctx context.Context, actor Actor, coachID, clientID primitive.ObjectID) (*domain.User, domain.LessonStatus, error) {
	coach, err := s.loadCoach(ctx, coachID)
	if err != nil {
		return nil, "", err
	}

	switch actor.Role {
	case domain.RoleCoach:
		if actor.ID != coachID {
			return nil, "", newUnauthorized("coaches may only book their own schedule")
		}
		if !coach.HasClient(clientID) {
			return nil, "", newUnauthorized(ErrNotRosterPairing.Error())
		}
		return coach, domain.LessonConfirmed, nil
	case domain.RoleClient:
		if actor.ID != clientID {
			return nil, "", newUnauthorized("clients may only book lessons for themselves")
		}
		if coach.HasClient(clientID) {
			return coach, domain.LessonPending, nil
		}
		return nil, "", newUnauthorized(ErrNotRosterPairing.Error())
	default:
		return nil, "", newUnauthorized("unknown role")
	}
}

// confirmedLessonAt returns the confirmed lesson holding the exact instant,
// if any. Lessons conflict only at instant equality; all of a coach's
// lessons start on slot boundaries of a single granularity, so instant
// equality and interval overlap coincide here.
func (s *scheduleService) confirmedLessonAt(ctx context.Context, coachID primitive.ObjectID, instant time.Time) (*domain.Lesson, error) {
	lessons, err := s.lessonRepo.ListConfirmedInRange(ctx, coachID, instant, instant.Add(time.Second))
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		if lessons[i].StartsAt.Equal(instant) {
			return &lessons[i], nil
		}
	}
	return nil, nil
}

// blockWarningsAt collects the titles of blocked intervals containing the
// instant. Blocked overlap on a booking is advisory: it never refuses the
// write, but it is always surfaced.
func (s *scheduleService) blockWarningsAt(ctx context.Context, coachID primitive.ObjectID, instant time.Time, loc *time.Location) ([]string, error) {
	day := scheduling.DayBounds(instant.In(loc), loc)
	blocks, err := s.blockRepo.ListOverlapping(ctx, coachID, day.Start, day.End)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, b := range blocks {
		if scheduling.BlockSpan(b, loc).Contains(instant) {
			warnings = append(warnings, b.Title)
		}
	}
	return warnings, nil
}

// CreateLesson books a single lesson. The in-memory conflict check gives
// early, descriptive feedback; the storage-level unique constraint is what
// actually decides races (two concurrent requests for the same instant:
// exactly one insert wins, the other maps to CONFLICT here).
func (s *scheduleService) CreateLesson(ctx context.Context, actor Actor, input CreateLessonInput) (*LessonResult, error) {
	if input.CoachID == primitive.NilObjectID || input.ClientID == primitive.NilObjectID {
		return nil, newBadRequest("coach ID and client ID are required")
	}
	if !input.StartsAt.After(s.now()) {
		return nil, newBadRequest(ErrLessonInPast.Error())
	}

	coach, status, err := s.authorizePairing(ctx, actor, input.CoachID, input.ClientID)
	if err != nil {
		return nil, err
	}
	loc, err := s.resolveLocation(input.Timezone, coach)
	if err != nil {
		return nil, err
	}

	if taken, err := s.confirmedLessonAt(ctx, input.CoachID, input.StartsAt); err != nil {
		return nil, err
	} else if taken != nil {
		return nil, newConflict("time slot is already booked", taken.Title)
	}

	warnings, err := s.blockWarningsAt(ctx, input.CoachID, input.StartsAt, loc)
	if err != nil {
		return nil, err
	}

	lesson := &domain.Lesson{
		Title:    input.Title,
		StartsAt: input.StartsAt,
		Timezone: loc.String(),
		Status:   status,
		CoachID:  input.CoachID,
		ClientID: input.ClientID,
	}

	id, err := s.lessonRepo.Create(ctx, lesson)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the race to a concurrent booking.
			return nil, newConflict("time slot is already booked")
		}
		return nil, err
	}
	lesson.ID = id

	s.log.Info("lesson created",
		zap.String("lessonId", id.Hex()),
		zap.String("coachId", input.CoachID.Hex()),
		zap.Time("startsAt", input.StartsAt),
		zap.String("status", string(status)))

	return &LessonResult{Lesson: lesson, Warnings: warnings}, nil
}

// loadOwnedLesson fetches a lesson and hides it from callers who are party
// to neither side of the booking.
func (s *scheduleService) loadOwnedLesson(ctx context.Context, actor Actor, lessonID primitive.ObjectID) (*domain.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newNotFound("lesson not found")
		}
		return nil, err
	}
	if lesson.CoachID != actor.ID && lesson.ClientID != actor.ID {
		return nil, newNotFound("lesson not found")
	}
	return lesson, nil
}

// ApproveLesson confirms a pending request. The conflict check reruns at
// approval time: the slot may have been taken since the request was made,
// in which case approval fails with CONFLICT and the pending lesson is left
// unchanged.
func (s *scheduleService) ApproveLesson(ctx context.Context, actor Actor, lessonID primitive.ObjectID) (*domain.Lesson, error) {
	if actor.Role != domain.RoleCoach {
		return nil, newUnauthorized("only the coach may approve lessons")
	}
	lesson, err := s.loadOwnedLesson(ctx, actor, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CoachID != actor.ID {
		return nil, newUnauthorized("only the coach may approve lessons")
	}
	if !lesson.Status.CanTransitionTo(domain.LessonConfirmed) {
		return nil, newBadRequest("only pending lessons can be approved")
	}

	if taken, err := s.confirmedLessonAt(ctx, lesson.CoachID, lesson.StartsAt); err != nil {
		return nil, err
	} else if taken != nil {
		return nil, newConflict("time slot was taken after the request was made", taken.Title)
	}

	confirmed, err := s.lessonRepo.ConfirmPending(ctx, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, newConflict("time slot was taken after the request was made")
		case errors.Is(err, repository.ErrNotFound):
			// Resolved concurrently between our read and the update.
			return nil, newConflict("lesson is no longer pending")
		default:
			return nil, err
		}
	}

	s.log.Info("lesson approved", zap.String("lessonId", lessonID.Hex()))
	return confirmed, nil
}

// RejectLesson rejects a pending request or cancels a confirmed lesson.
// The optional reason is retained for audit and notification. Rejected is
// terminal.
func (s *scheduleService) RejectLesson(ctx context.Context, actor Actor, lessonID primitive.ObjectID, reason string) (*domain.Lesson, error) {
	if actor.Role != domain.RoleCoach {
		return nil, newUnauthorized("only the coach may reject lessons")
	}
	lesson, err := s.loadOwnedLesson(ctx, actor, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CoachID != actor.ID {
		return nil, newUnauthorized("only the coach may reject lessons")
	}
	if !lesson.Status.CanTransitionTo(domain.LessonRejected) {
		return nil, newBadRequest("lesson is already resolved")
	}

	rejected, err := s.lessonRepo.Reject(ctx, lessonID, reason)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newNotFound("lesson not found")
		}
		return nil, err
	}

	s.log.Info("lesson rejected", zap.String("lessonId", lessonID.Hex()))
	return rejected, nil
}

// DeleteLesson removes a booking. The coach may delete any of their
// lessons unconditionally; a client may delete only their own pending,
// not-yet-elapsed requests.
func (s *scheduleService) DeleteLesson(ctx context.Context, actor Actor, lessonID primitive.ObjectID) error {
	lesson, err := s.loadOwnedLesson(ctx, actor, lessonID)
	if err != nil {
		return err
	}

	if actor.Role != domain.RoleCoach || lesson.CoachID != actor.ID {
		if lesson.ClientID != actor.ID {
			return newUnauthorized(ErrLessonNotOwned.Error())
		}
		if lesson.Status != domain.LessonPending {
			return newUnauthorized("clients may only withdraw pending requests")
		}
		if !lesson.StartsAt.After(s.now()) {
			return newBadRequest("lesson has already elapsed")
		}
	}

	if err := s.lessonRepo.Delete(ctx, lessonID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newNotFound("lesson not found")
		}
		return err
	}

	s.log.Info("lesson deleted", zap.String("lessonId", lessonID.Hex()))
	return nil
}

// ScheduleRecurringLessons expands a weekly recurrence into independent
// booking attempts sharing one recurrence group. Partial success is the
// expected outcome: conflicting occurrences are skipped and reported while
// the rest are persisted. Only a wholly malformed request fails outright.
func (s *scheduleService) ScheduleRecurringLessons(ctx context.Context, actor Actor, input RecurrenceInput) (*RecurrenceReport, error) {
	if input.CoachID == primitive.NilObjectID || input.ClientID == primitive.NilObjectID {
		return nil, newBadRequest("coach ID and client ID are required")
	}
	if !input.Anchor.After(s.now()) {
		return nil, newBadRequest(ErrLessonInPast.Error())
	}

	coach, status, err := s.authorizePairing(ctx, actor, input.CoachID, input.ClientID)
	if err != nil {
		return nil, err
	}
	loc, err := s.resolveLocation(input.Timezone, coach)
	if err != nil {
		return nil, err
	}

	var workingDays map[time.Weekday]bool
	if input.RestrictToWorkingDays {
		plan, err := s.dayPlanFor(ctx, input.CoachID)
		if err != nil {
			return nil, err
		}
		workingDays = plan.WorkingDays
		if len(workingDays) == 0 {
			workingDays = nil // every day is a working day
		}
	}

	anchorDate, anchorTime := scheduling.ToWallClock(input.Anchor, loc)
	endDate := input.EndDate.In(loc)
	dates, err := scheduling.ExpandOccurrences(anchorDate, endDate, input.IntervalWeeks, workingDays)
	if err != nil {
		return nil, newBadRequest(err.Error())
	}

	report := &RecurrenceReport{
		GroupID: uuid.NewString(),
		Created: []domain.Lesson{},
		Skipped: []SkippedOccurrence{},
	}

	for _, date := range dates {
		instant := scheduling.ToInstant(date, anchorTime, loc)

		// Each occurrence is an independent read-check-write; the series is
		// deliberately not atomic.
		if taken, err := s.confirmedLessonAt(ctx, input.CoachID, instant); err != nil {
			return nil, err
		} else if taken != nil {
			report.Skipped = append(report.Skipped, SkippedOccurrence{StartsAt: instant, Reason: taken.Title})
			continue
		}

		if warnings, err := s.blockWarningsAt(ctx, input.CoachID, instant, loc); err != nil {
			return nil, err
		} else if len(warnings) > 0 {
			report.Skipped = append(report.Skipped, SkippedOccurrence{StartsAt: instant, Reason: warnings[0]})
			continue
		}

		lesson := &domain.Lesson{
			Title:             input.Title,
			StartsAt:          instant,
			Timezone:          loc.String(),
			Status:            status,
			CoachID:           input.CoachID,
			ClientID:          input.ClientID,
			RecurrenceGroupID: report.GroupID,
		}
		id, err := s.lessonRepo.Create(ctx, lesson)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				report.Skipped = append(report.Skipped, SkippedOccurrence{StartsAt: instant, Reason: "time slot is already booked"})
				continue
			}
			return nil, err
		}
		lesson.ID = id
		report.Created = append(report.Created, *lesson)
	}

	s.log.Info("recurring lessons scheduled",
		zap.String("groupId", report.GroupID),
		zap.Int("created", len(report.Created)),
		zap.Int("skipped", len(report.Skipped)))

	return report, nil
}

// UpdateWorkingHours validates and saves a coach's configuration. Unlike
// slot generation, which tolerates bad stored data, writes are strict:
// malformed times never enter the store through this path.
func (s *scheduleService) UpdateWorkingHours(ctx context.Context, coachID primitive.ObjectID, hours *domain.WorkingHours) error {
	start, err := scheduling.ParseTimeOfDay(hours.StartTime)
	if err != nil {
		return newBadRequest("invalid start time: " + hours.StartTime)
	}
	end, err := scheduling.ParseTimeOfDay(hours.EndTime)
	if err != nil {
		return newBadRequest("invalid end time: " + hours.EndTime)
	}
	if !start.Before(end) {
		return newBadRequest("start time must be before end time")
	}
	if hours.SlotIntervalMinutes <= 0 {
		return newBadRequest("slot interval must be positive")
	}

	hours.CoachID = coachID
	return s.hoursRepo.Upsert(ctx, hours)
}

// buildBlockedInterval validates input into a domain object plus its guard
// span. The interval's zone falls back to the coach's stored zone, and
// all-day spans are materialized against that zone, so the written instants
// hold in every caller zone.
func (s *scheduleService) buildBlockedInterval(coach *domain.User, input BlockedIntervalInput) (*domain.BlockedInterval, repository.Guard, error) {
	if input.Title == "" {
		return nil, repository.Guard{}, newBadRequest("blocked interval title is required")
	}
	loc, err := s.resolveLocation(input.Timezone, coach)
	if err != nil {
		return nil, repository.Guard{}, err
	}

	block := &domain.BlockedInterval{
		CoachID:     coach.ID,
		Title:       input.Title,
		Description: input.Description,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		IsAllDay:    input.IsAllDay,
		Timezone:    loc.String(),
	}
	if block.IsAllDay {
		day := scheduling.DayBounds(block.StartsAt.In(loc), loc)
		block.StartsAt = day.Start
		block.EndsAt = day.End
	} else if !block.StartsAt.Before(block.EndsAt) {
		return nil, repository.Guard{}, newBadRequest("interval start must precede its end")
	}

	span := scheduling.BlockSpan(*block, loc)
	return block, repository.Guard{Start: span.Start, End: span.End}, nil
}

// CreateBlockedInterval declares a span of unavailability. The write is
// refused with CONFLICT when any confirmed lesson starts inside the span;
// the conflicting lesson titles are listed in the error.
func (s *scheduleService) CreateBlockedInterval(ctx context.Context, coachID primitive.ObjectID, input BlockedIntervalInput) (*domain.BlockedInterval, error) {
	coach, err := s.loadCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	block, guard, err := s.buildBlockedInterval(coach, input)
	if err != nil {
		return nil, err
	}

	id, overlapping, err := s.blockRepo.Create(ctx, block, guard)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, newConflict("interval overlaps confirmed lessons", lessonTitles(overlapping)...)
		}
		return nil, err
	}
	block.ID = id

	s.log.Info("blocked interval created",
		zap.String("intervalId", id.Hex()),
		zap.String("coachId", coachID.Hex()))
	return block, nil
}

// UpdateBlockedInterval rewrites an existing interval under the same
// confirmed-lesson guard as creation.
func (s *scheduleService) UpdateBlockedInterval(ctx context.Context, coachID, intervalID primitive.ObjectID, input BlockedIntervalInput) (*domain.BlockedInterval, error) {
	existing, err := s.blockRepo.GetByID(ctx, intervalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newNotFound("blocked interval not found")
		}
		return nil, err
	}
	if existing.CoachID != coachID {
		return nil, newNotFound("blocked interval not found")
	}

	coach, err := s.loadCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	block, guard, err := s.buildBlockedInterval(coach, input)
	if err != nil {
		return nil, err
	}
	block.ID = intervalID
	block.CreatedAt = existing.CreatedAt

	overlapping, err := s.blockRepo.Update(ctx, block, guard)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, newConflict("interval overlaps confirmed lessons", lessonTitles(overlapping)...)
		case errors.Is(err, repository.ErrNotFound):
			return nil, newNotFound("blocked interval not found")
		default:
			return nil, err
		}
	}
	return block, nil
}

// DeleteBlockedInterval removes an interval. Deletion is always permitted.
func (s *scheduleService) DeleteBlockedInterval(ctx context.Context, coachID, intervalID primitive.ObjectID) error {
	err := s.blockRepo.Delete(ctx, intervalID, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newNotFound("blocked interval not found")
		}
		return err
	}
	return nil
}

func lessonTitles(lessons []domain.Lesson) []string {
	titles := make([]string, len(lessons))
	for i, l := range lessons {
		titles[i] = l.Title
	}
	return titles
}
