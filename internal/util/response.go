package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/backend/internal/errors"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/metrics"
	"go.uber.org/zap"
)

// MutationResponse is the discriminated result shape for mutation endpoints.
// Callers branch on Success and must never assume Data is present.
type MutationResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Field   string      `json:"field,omitempty"`
}

// RespondSuccess sends a successful mutation result
func RespondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, MutationResponse{Success: true, Data: data})
}

// RespondWithAPIError sends a structured failure response
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	endpoint := c.FullPath()
	if endpoint == "" {
		endpoint = c.Request.URL.Path
	}
	metrics.RecordError(string(apiErr.Code), endpoint)

	if apiErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("API error",
			zap.String("code", string(apiErr.Code)),
			zap.String("message", apiErr.Message),
			zap.String("field", apiErr.Field),
			zap.Int("status", apiErr.Status),
		)
	} else if apiErr.Status >= http.StatusBadRequest {
		logger.Log.Warn("API error",
			zap.String("code", string(apiErr.Code)),
			zap.String("message", apiErr.Message),
			zap.String("field", apiErr.Field),
		)
	}

	c.JSON(apiErr.Status, MutationResponse{
		Success: false,
		Error:   apiErr.Message,
		Code:    string(apiErr.Code),
		Field:   apiErr.Field,
	})
}

// RespondError maps any error to the failure shape
func RespondError(c *gin.Context, err error) {
	RespondWithAPIError(c, errors.AsAPIError(err))
}

// RespondUnauthenticated sends a 401 response
func RespondUnauthenticated(c *gin.Context, message ...string) {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Unauthenticated(msg))
}

// RespondNotFound sends a 404 Not Found response
func RespondNotFound(c *gin.Context, resource string) {
	RespondWithAPIError(c, errors.NotFound(resource))
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.BadRequest(message))
}
