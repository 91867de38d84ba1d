package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/FabienBounoir/muscouns/internal/auth"
	"github.com/FabienBounoir/muscouns/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
)

// Messages of the two 401 answers of AuthMiddleware. Both mean the same thing to a
// client: authenticate again.
const (
	msgMissingToken   = "missing token"
	msgInvalidSession = "invalid session"
)

// AuthMiddleware rejects requests without a valid bearer token and stores the
// authenticated user id (primitive.ObjectID) in the context.
func AuthMiddleware(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := authenticator.ExtractBearer(c.Request.Header)

		userIDStr, err := authenticator.RequireUser(token)
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				abortWithError(c, http.StatusUnauthorized, msgMissingToken)
			} else {
				abortWithError(c, http.StatusUnauthorized, msgInvalidSession)
			}
			return
		}

		// A correctly signed token always carries an ObjectID hex; anything else is treated as forged.
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, msgInvalidSession)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}

// RequestMetrics records request count, in-flight requests and duration.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		defer func(begin time.Time) {
			m.GaugeRequests.Dec()
			m.HistRequestDuration.Observe(time.Since(begin).Seconds())
		}(time.Now())

		c.Next()

		m.CounterRequests.With(
			prometheus.Labels{
				"method": c.Request.Method,
				"status": strconv.Itoa(c.Writer.Status()),
			},
		).Inc()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers behind AuthMiddleware)
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	id, ok := idRaw.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return id, nil
}

// mustUserID aborts with 401 when no user id is in the context.
func mustUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, msgInvalidSession)
		return primitive.NilObjectID, false
	}
	return userID, true
}
