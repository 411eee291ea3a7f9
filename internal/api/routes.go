package api

import (
	"net/http"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	scheduleService service.ScheduleService,
) {

	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService, scheduleService)
	scheduleHandler := NewScheduleHandler(scheduleService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Slot Discovery ---
		// GET /api/v1/coaches/{coachId}/slots?date=YYYY-MM-DD&timezone=...
		// Clients browse availability; the coach sees their own full picture.
		protected.GET("/coaches/:coachId/slots", scheduleHandler.GetCoachSlots)

		// --- Lesson Routes ---
		lessonGroup := protected.Group("/lessons")
		{
			// POST /api/v1/lessons
			lessonGroup.POST("", scheduleHandler.CreateLesson)
			// POST /api/v1/lessons/recurring
			lessonGroup.POST("/recurring", scheduleHandler.CreateRecurringLessons)
			// GET /api/v1/lessons?from=...&to=...
			lessonGroup.GET("", scheduleHandler.ListLessons)

			// Lifecycle transitions are coach-only.
			lessonGroup.POST("/:lessonId/approve", RoleMiddleware(domain.RoleCoach), scheduleHandler.ApproveLesson)
			lessonGroup.POST("/:lessonId/reject", RoleMiddleware(domain.RoleCoach), scheduleHandler.RejectLesson)

			// DELETE /api/v1/lessons/{lessonId}
			// Both roles may call; the service applies the ownership rules.
			lessonGroup.DELETE("/:lessonId", scheduleHandler.DeleteLesson)
		}

		// --- Coach Specific Routes ---
		// All routes in this group require authentication (from 'protected')
		// AND the user to have the 'coach' role.
		coachApiGroup := protected.Group("/coach")
		coachApiGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			// POST /api/v1/coach/clients
			coachApiGroup.POST("/clients", coachHandler.AddClient)
			// GET /api/v1/coach/clients
			coachApiGroup.GET("/clients", coachHandler.GetClients)

			// --- Availability Configuration ---
			// GET /api/v1/coach/working-hours
			coachApiGroup.GET("/working-hours", coachHandler.GetWorkingHours)
			// PUT /api/v1/coach/working-hours
			coachApiGroup.PUT("/working-hours", coachHandler.UpdateWorkingHours)

			// --- Blocked Intervals ---
			// POST /api/v1/coach/blocked-intervals
			coachApiGroup.POST("/blocked-intervals", coachHandler.CreateBlockedInterval)
			// GET /api/v1/coach/blocked-intervals
			coachApiGroup.GET("/blocked-intervals", coachHandler.ListBlockedIntervals)
			// PUT /api/v1/coach/blocked-intervals/{intervalId}
			coachApiGroup.PUT("/blocked-intervals/:intervalId", coachHandler.UpdateBlockedInterval)
			// DELETE /api/v1/coach/blocked-intervals/{intervalId}
			coachApiGroup.DELETE("/blocked-intervals/:intervalId", coachHandler.DeleteBlockedInterval)
		}
	}
}
