package api

import (
	"errors"
	"net/http"

	"github.com/FabienBounoir/muscouns/internal/metrics"
	"github.com/FabienBounoir/muscouns/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	metrics     *metrics.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, m *metrics.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

// --- Request/Response Structs ---

// CredentialsRequest is the body of both register and login. Length rules are
// enforced by the service so both endpoints report them the same way.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body CredentialsRequest true "Registration details"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (username already taken)"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.countRegistration(metrics.OutcomeRejected)
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrUserAlreadyExists) {
			h.countRegistration(metrics.OutcomeRejected)
		} else {
			h.countRegistration(metrics.OutcomeError)
		}
		respondError(c, err)
		return
	}

	h.countRegistration(metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.countLogin(metrics.OutcomeRejected)
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			h.countLogin(metrics.OutcomeRejected)
		} else {
			h.countLogin(metrics.OutcomeError)
		}
		respondError(c, err)
		return
	}

	h.countLogin(metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Me returns the public profile of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) countRegistration(outcome string) {
	h.metrics.CounterRegistrations.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func (h *AuthHandler) countLogin(outcome string) {
	h.metrics.CounterLogins.With(prometheus.Labels{"outcome": outcome}).Inc()
}
