package api

import (
	"errors"
	"fmt"
	"net/http"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

// CoachHandler holds services for coach-only operations: the roster, the
// availability configuration, and blocked intervals.
type CoachHandler struct {
	coachService    service.CoachService
	scheduleService service.ScheduleService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService, scheduleService service.ScheduleService) *CoachHandler {
	return &CoachHandler{
		coachService:    coachService,
		scheduleService: scheduleService,
	}
}

// --- Request/Response Structs ---

type AddClientRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

type WorkingHoursRequest struct {
	StartTime           string `json:"startTime" binding:"required"`
	EndTime             string `json:"endTime" binding:"required"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes" binding:"required"`
	WorkingDays         []int  `json:"workingDays"` // 0 = Sunday .. 6 = Saturday
}

type WorkingHoursResponse struct {
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"`
	WorkingDays         []int  `json:"workingDays"`
}

type BlockedIntervalRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt"`
	IsAllDay    bool      `json:"isAllDay"`
	Timezone    string    `json:"timezone"`
}

type BlockedIntervalResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	IsAllDay    bool      `json:"isAllDay"`
	Timezone    string    `json:"timezone,omitempty"`
}

// --- Mappers ---

func mapWorkingHoursToResponse(hours *domain.WorkingHours) WorkingHoursResponse {
	days := make([]int, len(hours.WorkingDays))
	for i, d := range hours.WorkingDays {
		days[i] = int(d)
	}
	return WorkingHoursResponse{
		StartTime:           hours.StartTime,
		EndTime:             hours.EndTime,
		SlotIntervalMinutes: hours.SlotIntervalMinutes,
		WorkingDays:         days,
	}
}

func mapBlockedIntervalToResponse(block *domain.BlockedInterval) BlockedIntervalResponse {
	return BlockedIntervalResponse{
		ID:          block.ID.Hex(),
		Title:       block.Title,
		Description: block.Description,
		StartsAt:    block.StartsAt,
		EndsAt:      block.EndsAt,
		IsAllDay:    block.IsAllDay,
		Timezone:    block.Timezone,
	}
}

func (r BlockedIntervalRequest) toInput() service.BlockedIntervalInput {
	return service.BlockedIntervalInput{
		Title:       r.Title,
		Description: r.Description,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		IsAllDay:    r.IsAllDay,
		Timezone:    r.Timezone,
	}
}

// --- Roster ---

// AddClient godoc
// @Summary Add a client to the coach's roster by email
// @Tags Coach
// @Accept json
// @Produce json
// @Param client body AddClientRequest true "Client email"
// @Success 200 {object} UserResponse
// @Failure 404 {object} gin.H "Client user not found"
// @Failure 409 {object} gin.H "Client already assigned to another coach"
// @Router /coach/clients [post]
func (h *CoachHandler) AddClient(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.coachService.AddClientByEmail(c.Request.Context(), actor.ID, req.ClientEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetClients godoc
// @Summary List the coach's roster
// @Tags Coach
// @Produce json
// @Success 200 {array} UserResponse
// @Router /coach/clients [get]
func (h *CoachHandler) GetClients(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	clients, err := h.coachService.GetManagedClients(c.Request.Context(), actor.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	resp := make([]UserResponse, len(clients))
	for i := range clients {
		resp[i] = MapUserToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, resp)
}

// --- Working Hours ---

// GetWorkingHours godoc
// @Summary Get the coach's availability configuration
// @Description Returns the default schedule when none has been saved.
// @Tags Coach
// @Produce json
// @Success 200 {object} WorkingHoursResponse
// @Router /coach/working-hours [get]
func (h *CoachHandler) GetWorkingHours(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	hours, err := h.scheduleService.GetWorkingHours(c.Request.Context(), actor.ID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapWorkingHoursToResponse(hours))
}

// UpdateWorkingHours godoc
// @Summary Update the coach's availability configuration
// @Tags Coach
// @Accept json
// @Produce json
// @Param hours body WorkingHoursRequest true "New configuration"
// @Success 200 {object} WorkingHoursResponse
// @Failure 400 {object} gin.H "Malformed times or interval"
// @Router /coach/working-hours [put]
func (h *CoachHandler) UpdateWorkingHours(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req WorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	days := make([]time.Weekday, 0, len(req.WorkingDays))
	for _, d := range req.WorkingDays {
		if d < 0 || d > 6 {
			abortWithError(c, http.StatusBadRequest, "working days must be 0 (Sunday) through 6 (Saturday)")
			return
		}
		days = append(days, time.Weekday(d))
	}

	hours := &domain.WorkingHours{
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		SlotIntervalMinutes: req.SlotIntervalMinutes,
		WorkingDays:         days,
	}
	if err := h.scheduleService.UpdateWorkingHours(c.Request.Context(), actor.ID, hours); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapWorkingHoursToResponse(hours))
}

// --- Blocked Intervals ---

// CreateBlockedInterval godoc
// @Summary Declare a span of unavailability
// @Description Refused with 409 when a confirmed lesson starts inside the
// @Description span; the conflicting lesson titles are listed.
// @Tags Coach
// @Accept json
// @Produce json
// @Param interval body BlockedIntervalRequest true "Interval details"
// @Success 201 {object} BlockedIntervalResponse
// @Failure 409 {object} gin.H "Overlaps confirmed lessons"
// @Router /coach/blocked-intervals [post]
func (h *CoachHandler) CreateBlockedInterval(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req BlockedIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	block, err := h.scheduleService.CreateBlockedInterval(c.Request.Context(), actor.ID, req.toInput())
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapBlockedIntervalToResponse(block))
}

// ListBlockedIntervals godoc
// @Summary List the coach's blocked intervals
// @Tags Coach
// @Produce json
// @Success 200 {array} BlockedIntervalResponse
// @Router /coach/blocked-intervals [get]
func (h *CoachHandler) ListBlockedIntervals(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	blocks, err := h.scheduleService.ListBlockedIntervals(c.Request.Context(), actor.ID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	resp := make([]BlockedIntervalResponse, len(blocks))
	for i := range blocks {
		resp[i] = mapBlockedIntervalToResponse(&blocks[i])
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateBlockedInterval godoc
// @Summary Update a blocked interval
// @Tags Coach
// @Accept json
// @Produce json
// @Param intervalId path string true "Interval ID"
// @Param interval body BlockedIntervalRequest true "New interval details"
// @Success 200 {object} BlockedIntervalResponse
// @Router /coach/blocked-intervals/{intervalId} [put]
func (h *CoachHandler) UpdateBlockedInterval(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	intervalID, ok := parseObjectID(c, c.Param("intervalId"), "interval ID")
	if !ok {
		return
	}

	var req BlockedIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	block, err := h.scheduleService.UpdateBlockedInterval(c.Request.Context(), actor.ID, intervalID, req.toInput())
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapBlockedIntervalToResponse(block))
}

// DeleteBlockedInterval godoc
// @Summary Delete a blocked interval
// @Tags Coach
// @Param intervalId path string true "Interval ID"
// @Success 204 "Deleted"
// @Router /coach/blocked-intervals/{intervalId} [delete]
func (h *CoachHandler) DeleteBlockedInterval(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	intervalID, ok := parseObjectID(c, c.Param("intervalId"), "interval ID")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteBlockedInterval(c.Request.Context(), actor.ID, intervalID); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
