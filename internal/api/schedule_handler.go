package api

import (
	"fmt"
	"net/http"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/scheduling"
	"peakform/coaching-app/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleHandler holds the scheduling service dependency.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- Request/Response Structs ---

type CreateLessonRequest struct {
	CoachID  string    `json:"coachId" binding:"required"`
	ClientID string    `json:"clientId" binding:"required"`
	Title    string    `json:"title" binding:"required"`
	StartsAt time.Time `json:"startsAt" binding:"required"`
	Timezone string    `json:"timezone"`
}

type LessonResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	StartsAt          time.Time `json:"startsAt"`
	Timezone          string    `json:"timezone,omitempty"`
	Status            string    `json:"status"`
	CoachID           string    `json:"coachId"`
	ClientID          string    `json:"clientId"`
	RecurrenceGroupID string    `json:"recurrenceGroupId,omitempty"`
	RejectReason      string    `json:"rejectReason,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type CreateLessonResponse struct {
	Lesson   LessonResponse `json:"lesson"`
	Warnings []string       `json:"warnings,omitempty"`
}

type RejectLessonRequest struct {
	Reason string `json:"reason"`
}

type RecurringLessonRequest struct {
	CoachID               string    `json:"coachId" binding:"required"`
	ClientID              string    `json:"clientId" binding:"required"`
	Title                 string    `json:"title" binding:"required"`
	StartsAt              time.Time `json:"startsAt" binding:"required"`
	IntervalWeeks         int       `json:"intervalWeeks" binding:"required"`
	EndDate               time.Time `json:"endDate" binding:"required"`
	Timezone              string    `json:"timezone"`
	RestrictToWorkingDays bool      `json:"restrictToWorkingDays"`
}

type SkippedOccurrenceResponse struct {
	StartsAt time.Time `json:"startsAt"`
	Reason   string    `json:"reason"`
}

type RecurrenceReportResponse struct {
	GroupID string                      `json:"groupId"`
	Created []LessonResponse            `json:"created"`
	Skipped []SkippedOccurrenceResponse `json:"skipped"`
}

type SlotResponse struct {
	Time          string    `json:"time"`
	StartsAt      time.Time `json:"startsAt"`
	Blocked       bool      `json:"blocked,omitempty"`
	BlockedReason string    `json:"blockedReason,omitempty"`
}

type DaySlotsResponse struct {
	Date       string         `json:"date"`
	WorkingDay bool           `json:"workingDay"`
	Slots      []SlotResponse `json:"slots"`
}

// --- Mappers ---

func MapLessonToResponse(lesson *domain.Lesson) LessonResponse {
	if lesson == nil {
		return LessonResponse{}
	}
	return LessonResponse{
		ID:                lesson.ID.Hex(),
		Title:             lesson.Title,
		StartsAt:          lesson.StartsAt,
		Timezone:          lesson.Timezone,
		Status:            string(lesson.Status),
		CoachID:           lesson.CoachID.Hex(),
		ClientID:          lesson.ClientID.Hex(),
		RecurrenceGroupID: lesson.RecurrenceGroupID,
		RejectReason:      lesson.RejectReason,
		CreatedAt:         lesson.CreatedAt,
	}
}

func mapDaySlotsToResponse(day *scheduling.DaySlots) DaySlotsResponse {
	resp := DaySlotsResponse{
		Date:       day.Date.Format("2006-01-02"),
		WorkingDay: day.WorkingDay,
		Slots:      make([]SlotResponse, len(day.Slots)),
	}
	for i, s := range day.Slots {
		resp.Slots[i] = SlotResponse{
			Time:          s.Time.String(),
			StartsAt:      s.StartsAt,
			Blocked:       s.Blocked,
			BlockedReason: s.BlockedReason,
		}
	}
	return resp
}

// respondSchedulingError maps service error codes onto HTTP statuses and
// carries conflict titles through to the client.
func respondSchedulingError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.CodeOf(err) {
	case service.CodeBadRequest:
		status = http.StatusBadRequest
	case service.CodeNotFound:
		status = http.StatusNotFound
	case service.CodeUnauthorized:
		status = http.StatusForbidden
	case service.CodeConflict:
		status = http.StatusConflict
	}

	body := gin.H{"error": err.Error()}
	if titles := service.ConflictTitles(err); len(titles) > 0 {
		body["conflicts"] = titles
	}
	c.AbortWithStatusJSON(status, body)
}

func parseObjectID(c *gin.Context, value, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", label))
		return primitive.NilObjectID, false
	}
	return id, true
}

// --- Handler Methods ---

// GetCoachSlots godoc
// @Summary Get a coach's slot candidates for one date
// @Description Returns the bookable slots for the given local date. Coaches
// @Description viewing their own schedule also see blocked candidates.
// @Tags Schedule
// @Produce json
// @Param coachId path string true "Coach ID"
// @Param date query string true "Local date (YYYY-MM-DD)"
// @Param timezone query string false "IANA zone, defaults to the coach's"
// @Success 200 {object} DaySlotsResponse
// @Router /coaches/{coachId}/slots [get]
func (h *ScheduleHandler) GetCoachSlots(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	coachID, ok := parseObjectID(c, c.Param("coachId"), "coach ID")
	if !ok {
		return
	}

	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date query parameter must be YYYY-MM-DD")
		return
	}

	coachView := actor.Role == domain.RoleCoach && actor.ID == coachID
	slots, err := h.scheduleService.GetAvailableSlots(c.Request.Context(), coachID, date, c.Query("timezone"), coachView)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapDaySlotsToResponse(slots))
}

// CreateLesson godoc
// @Summary Book a single lesson
// @Description Coaches book confirmed directly; clients submit a pending
// @Description request. Booking over a blocked interval succeeds with warnings.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param lesson body CreateLessonRequest true "Booking details"
// @Success 201 {object} CreateLessonResponse
// @Failure 409 {object} gin.H "Time slot already booked"
// @Router /lessons [post]
func (h *ScheduleHandler) CreateLesson(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	coachID, ok := parseObjectID(c, req.CoachID, "coach ID")
	if !ok {
		return
	}
	clientID, ok := parseObjectID(c, req.ClientID, "client ID")
	if !ok {
		return
	}

	result, err := h.scheduleService.CreateLesson(c.Request.Context(), actor, service.CreateLessonInput{
		CoachID:  coachID,
		ClientID: clientID,
		Title:    req.Title,
		StartsAt: req.StartsAt,
		Timezone: req.Timezone,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateLessonResponse{
		Lesson:   MapLessonToResponse(result.Lesson),
		Warnings: result.Warnings,
	})
}

// CreateRecurringLessons godoc
// @Summary Book a weekly recurring lesson series
// @Description Expands the recurrence and books each occurrence
// @Description independently; conflicting occurrences are skipped and listed.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param series body RecurringLessonRequest true "Recurrence details"
// @Success 201 {object} RecurrenceReportResponse
// @Router /lessons/recurring [post]
func (h *ScheduleHandler) CreateRecurringLessons(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req RecurringLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	coachID, ok := parseObjectID(c, req.CoachID, "coach ID")
	if !ok {
		return
	}
	clientID, ok := parseObjectID(c, req.ClientID, "client ID")
	if !ok {
		return
	}

	report, err := h.scheduleService.ScheduleRecurringLessons(c.Request.Context(), actor, service.RecurrenceInput{
		CoachID:               coachID,
		ClientID:              clientID,
		Title:                 req.Title,
		Anchor:                req.StartsAt,
		IntervalWeeks:         req.IntervalWeeks,
		EndDate:               req.EndDate,
		Timezone:              req.Timezone,
		RestrictToWorkingDays: req.RestrictToWorkingDays,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	resp := RecurrenceReportResponse{
		GroupID: report.GroupID,
		Created: make([]LessonResponse, len(report.Created)),
		Skipped: make([]SkippedOccurrenceResponse, len(report.Skipped)),
	}
	for i := range report.Created {
		resp.Created[i] = MapLessonToResponse(&report.Created[i])
	}
	for i, s := range report.Skipped {
		resp.Skipped[i] = SkippedOccurrenceResponse{StartsAt: s.StartsAt, Reason: s.Reason}
	}
	c.JSON(http.StatusCreated, resp)
}

// ListLessons godoc
// @Summary List the caller's lessons in a date range
// @Tags Schedule
// @Produce json
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end, exclusive (RFC 3339)"
// @Success 200 {array} LessonResponse
// @Router /lessons [get]
func (h *ScheduleHandler) ListLessons(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "from query parameter must be RFC 3339")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "to query parameter must be RFC 3339")
		return
	}

	lessons, err := h.scheduleService.ListLessons(c.Request.Context(), actor, from, to)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	resp := make([]LessonResponse, len(lessons))
	for i := range lessons {
		resp[i] = MapLessonToResponse(&lessons[i])
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveLesson godoc
// @Summary Approve a pending lesson request
// @Description Reruns conflict detection; fails with 409 when the slot was
// @Description taken after the request was made.
// @Tags Schedule
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} LessonResponse
// @Router /lessons/{lessonId}/approve [post]
func (h *ScheduleHandler) ApproveLesson(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	lessonID, ok := parseObjectID(c, c.Param("lessonId"), "lesson ID")
	if !ok {
		return
	}

	lesson, err := h.scheduleService.ApproveLesson(c.Request.Context(), actor, lessonID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapLessonToResponse(lesson))
}

// RejectLesson godoc
// @Summary Reject a pending request or cancel a confirmed lesson
// @Tags Schedule
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Param body body RejectLessonRequest false "Optional reason"
// @Success 200 {object} LessonResponse
// @Router /lessons/{lessonId}/reject [post]
func (h *ScheduleHandler) RejectLesson(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	lessonID, ok := parseObjectID(c, c.Param("lessonId"), "lesson ID")
	if !ok {
		return
	}

	var req RejectLessonRequest
	// Body is optional; an empty reason is allowed.
	_ = c.ShouldBindJSON(&req)

	lesson, err := h.scheduleService.RejectLesson(c.Request.Context(), actor, lessonID, req.Reason)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapLessonToResponse(lesson))
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Description Coaches delete any of their lessons; clients may only withdraw
// @Description their own pending, future requests.
// @Tags Schedule
// @Param lessonId path string true "Lesson ID"
// @Success 204 "Deleted"
// @Router /lessons/{lessonId} [delete]
func (h *ScheduleHandler) DeleteLesson(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	lessonID, ok := parseObjectID(c, c.Param("lessonId"), "lesson ID")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteLesson(c.Request.Context(), actor, lessonID); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
