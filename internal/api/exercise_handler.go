package api

import (
	"net/http"

	"github.com/FabienBounoir/muscouns/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// CreateExerciseRequest defines the expected JSON for creating an exercise.
// A non-string name or target fails binding and is answered with 400.
type CreateExerciseRequest struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// ListExercises godoc
// @Summary Search the shared exercise catalog
// @Tags Exercises
// @Produce json
// @Param search query string false "Case-insensitive name fragment"
// @Success 200 {object} gin.H "{exercises: [...]}"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": exercises})
}

// CreateExercise godoc
// @Summary Create a catalog exercise, or return the existing one with the same name
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 200 {object} gin.H "{exercise: {...}}"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid exercise name or target")
		return
	}

	exercise, err := h.exerciseService.CreateOrGet(c.Request.Context(), userID, req.Name, req.Target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercise": exercise})
}
