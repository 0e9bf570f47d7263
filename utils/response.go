// utils/response.go
package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	correlationHeader  = "X-Correlation-Id"
	contextCorrelation = "correlationId"
)

type ValidationError struct {
	Field         string      `json:"field"`
	RejectedValue interface{} `json:"rejectedValue,omitempty"`
	Message       string      `json:"message"`
}

// ErrorResponse is the envelope every error leaves the API in.
type ErrorResponse struct {
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	Status           int               `json:"status"`
	Timestamp        time.Time         `json:"timestamp"`
	CorrelationID    string            `json:"correlationId,omitempty"`
	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`
}

// CorrelationMiddleware assigns every request a correlation id, honoring one
// supplied by the caller, and echoes it on the response.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextCorrelation, id)
		c.Writer.Header().Set(correlationHeader, id)
		c.Next()
	}
}

func CorrelationID(c *gin.Context) string {
	return c.GetString(contextCorrelation)
}

func newErrorResponse(c *gin.Context, status int, code, message string) ErrorResponse {
	return ErrorResponse{
		Error:         code,
		Message:       message,
		Path:          c.Request.URL.Path,
		Status:        status,
		Timestamp:     time.Now().UTC(),
		CorrelationID: CorrelationID(c),
	}
}

func RespondWithError(c *gin.Context, status int, code, message string) {
	c.JSON(status, newErrorResponse(c, status, code, message))
}

func AbortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, newErrorResponse(c, status, code, message))
}

// RespondWithValidationErrors reports per-field violations for rejected input.
func RespondWithValidationErrors(c *gin.Context, status int, code, message string, violations []ValidationError) {
	resp := newErrorResponse(c, status, code, message)
	resp.ValidationErrors = violations
	c.JSON(status, resp)
}
