package handlers

import (
	"net/http"

	"grocerylist-api/internal/errors"

	"github.com/labstack/echo/v4"
)

// Handlers respond to failures through SendError (4xx, known error code)
// or SendSystemError (500, internal detail hidden behind a trace ID).
// Validation errors from c.Validate are the one exception: they are
// returned as-is and formatted by the global HTTP error handler.

const (
	// TraceIDContextKey is the context key the trace ID is stored under
	TraceIDContextKey = "trace_id"
)

// SuccessResponse is the envelope for all successful API responses.
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty" swaggertype:"object"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty" swaggertype:"object"`
}

// ErrorResponse aliases the standardized error response type.
type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError writes a standardized error response for the given code.
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	errorResponse := errors.NewErrorResponse(code, getTraceID(c), opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError hides an internal error behind a generic SYSTEM_001
// response. The cause is only recoverable through the trace ID in logs.
func SendSystemError(c echo.Context, err error) error {
	errorResponse, _ := errors.WrapSystemError(err, getTraceID(c))
	return c.JSON(http.StatusInternalServerError, errorResponse)
}
