// internal/api/workout_handler.go
package api

import (
	"math"
	"net/http"
	"strings"

	"github.com/FabienBounoir/muscouns/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// WorkoutHandler serves the authenticated user's workouts. Every route runs behind
// AuthMiddleware, and every service call is scoped by the user id it stored.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	exportService  service.ExportService
}

func NewWorkoutHandler(workoutService service.WorkoutService, exportService service.ExportService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, exportService: exportService}
}

// --- DTOs ---

type CreateWorkoutRequest struct {
	Name string `json:"name"`
}

// Attach and add-set bodies are decoded loosely (map[string]any) because clients
// send numbers as strings and omit fields; coercion happens below.

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List my workouts, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "{workouts: [...]}"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	workouts, err := h.workoutService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workouts": workouts})
}

// CreateWorkout godoc
// @Summary Create an empty workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Workout name"
// @Success 200 {object} gin.H "{workout: {...}}"
// @Failure 400 {object} gin.H "Invalid workout name"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid workout name")
		return
	}

	workout, err := h.workoutService.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": workout})
}

// GetWorkout godoc
// @Summary Get one of my workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Success 200 {object} gin.H "{workout: {...}}"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{workoutId} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	workout, err := h.workoutService.Get(c.Request.Context(), userID, c.Param("workoutId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": workout})
}

// UpdateWorkout godoc
// @Summary Rename a workout and/or replace its exercises
// @Description Only the fields present in the body change. A present "exercises" value
// @Description is sanitized and replaces the whole array.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Success 200 {object} gin.H "{workout: {...}}"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{workoutId} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var input service.UpdateWorkoutInput
	if name, isString := payload["name"].(string); isString {
		input.Name = &name
	}
	input.Exercises, input.HasExercises = payload["exercises"]

	workout, err := h.workoutService.Update(c.Request.Context(), userID, c.Param("workoutId"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": workout})
}

// DeleteWorkout godoc
// @Summary Delete one of my workouts
// @Description Idempotent: deleting a missing workout also answers ok.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Success 200 {object} gin.H "{ok: true}"
// @Router /workouts/{workoutId} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.workoutService.Delete(c.Request.Context(), userID, c.Param("workoutId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AttachExercise godoc
// @Summary Add an exercise entry to a workout
// @Description Body {exerciseId} references a catalog exercise; without it {name, target}
// @Description creates (or reuses) the catalog entry first.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Success 200 {object} gin.H "{entry: {...}}"
// @Failure 400 {object} gin.H "Invalid exercise name"
// @Failure 404 {object} gin.H "Workout or exercise not found"
// @Router /workouts/{workoutId}/exercises [post]
func (h *WorkoutHandler) AttachExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.AttachExerciseInput{
		ExerciseID: stringField(payload, "exerciseId"),
		Name:       stringField(payload, "name"),
		Target:     stringField(payload, "target"),
	}

	entry, err := h.workoutService.AttachExercise(c.Request.Context(), userID, c.Param("workoutId"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DetachExercise godoc
// @Summary Remove an exercise entry (and its sets) from a workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Param entryId path string true "Entry id"
// @Success 200 {object} gin.H "{ok: true}"
// @Router /workouts/{workoutId}/exercises/{entryId} [delete]
func (h *WorkoutHandler) DetachExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	err := h.workoutService.DetachExercise(c.Request.Context(), userID, c.Param("workoutId"), c.Param("entryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AddSet godoc
// @Summary Append a set to an exercise entry
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Param entryId path string true "Entry id"
// @Success 200 {object} gin.H "{set: {...}}"
// @Failure 400 {object} gin.H "Invalid reps or weight"
// @Failure 404 {object} gin.H "Workout or entry not found"
// @Router /workouts/{workoutId}/exercises/{entryId}/sets [post]
func (h *WorkoutHandler) AddSet(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := h.workoutService.AddSet(
		c.Request.Context(),
		userID,
		c.Param("workoutId"),
		c.Param("entryId"),
		numberField(payload, "reps"),
		numberField(payload, "weight"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"set": set})
}

// RemoveSet godoc
// @Summary Remove one set from an exercise entry
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Param entryId path string true "Entry id"
// @Param setId path string true "Set id"
// @Success 200 {object} gin.H "{ok: true}"
// @Router /workouts/{workoutId}/exercises/{entryId}/sets/{setId} [delete]
func (h *WorkoutHandler) RemoveSet(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	err := h.workoutService.RemoveSet(c.Request.Context(), userID, c.Param("workoutId"), c.Param("entryId"), c.Param("setId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ExportWorkouts godoc
// @Summary Export all my workouts as a JSON document in object storage
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ExportResult
// @Failure 503 {object} gin.H "Export not configured"
// @Router /workouts/export [get]
func (h *WorkoutHandler) ExportWorkouts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	result, err := h.exportService.ExportWorkouts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

// numberField coerces a JSON number or numeric string. Missing or non-numeric
// values yield NaN, which the service rejects as a validation error.
func numberField(payload map[string]any, key string) float64 {
	v, ok := payload[key]
	if !ok || v == nil {
		return math.NaN()
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return math.NaN()
	}
	return f
}
