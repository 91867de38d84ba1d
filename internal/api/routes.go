package api

import (
	"net/http"

	"github.com/FabienBounoir/muscouns/internal/auth"
	"github.com/FabienBounoir/muscouns/internal/metrics"
	"github.com/FabienBounoir/muscouns/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services groups what the handlers depend on.
type Services struct {
	Auth     service.AuthService
	Exercise service.ExerciseService
	Workout  service.WorkoutService
	Export   service.ExportService
}

// SetupRoutes registers every route on router. gatherer backs GET /metrics.
func SetupRoutes(
	router *gin.Engine,
	authenticator *auth.Authenticator,
	m *metrics.Manager,
	gatherer prometheus.Gatherer,
	services Services,
) {
	authHandler := NewAuthHandler(services.Auth, m)
	exerciseHandler := NewExerciseHandler(services.Exercise)
	workoutHandler := NewWorkoutHandler(services.Workout, services.Export)

	authMiddleware := AuthMiddleware(authenticator)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiV1 := router.Group("/api/v1")
	apiV1.Use(RequestMetrics(m))
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}

		// The catalog is readable without a token, creating entries is not.
		exerciseGroup := apiV1.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", authMiddleware, exerciseHandler.CreateExercise)
		}

		workoutGroup := apiV1.Group("/workouts")
		workoutGroup.Use(authMiddleware)
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/export", workoutHandler.ExportWorkouts)

			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:workoutId", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DeleteWorkout)

			workoutGroup.POST("/:workoutId/exercises", workoutHandler.AttachExercise)
			workoutGroup.DELETE("/:workoutId/exercises/:entryId", workoutHandler.DetachExercise)

			workoutGroup.POST("/:workoutId/exercises/:entryId/sets", workoutHandler.AddSet)
			workoutGroup.DELETE("/:workoutId/exercises/:entryId/sets/:setId", workoutHandler.RemoveSet)
		}
	}
}
