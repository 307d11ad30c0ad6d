package handlers

import (
	"net/http"
	"time"

	"grocerylist-api/internal/errors"
	"grocerylist-api/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthCheckHandler handles the health check endpoint
type HealthCheckHandler struct {
	db              *gorm.DB
	categoryService services.CategoryServiceInterface
	broadcaster     services.RealtimeBroadcasterInterface
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(db *gorm.DB, categoryService services.CategoryServiceInterface, broadcaster services.RealtimeBroadcasterInterface) *HealthCheckHandler {
	return &HealthCheckHandler{
		db:              db,
		categoryService: categoryService,
		broadcaster:     broadcaster,
	}
}

// HealthCheck adds the health check endpoint
// @Summary Health check
// @Description Check API and database connectivity status
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,time=string,learning_queue_depth=int,realtime_clients=int} "Service is healthy"
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003 - Service unavailable (database connection failed)"
// @Router /health [get]
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	// Check database connectivity by getting the underlying sql.DB
	sqlDB, err := h.db.DB()
	if err != nil {
		return h.sendUnavailable(c)
	}

	if err := sqlDB.Ping(); err != nil {
		return h.sendUnavailable(c)
	}

	response := map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}

	if h.categoryService != nil {
		response["learning_queue_depth"] = h.categoryService.QueueDepth()
	}
	if h.broadcaster != nil {
		response["realtime_clients"] = h.broadcaster.ClientCount()
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthCheckHandler) sendUnavailable(c echo.Context) error {
	traceID := getTraceIDFromContext(c)
	errorResponse := errors.NewErrorResponse(
		errors.SystemServiceUnavailable,
		traceID,
		errors.WithDetails("Database connection failed"),
	)
	return c.JSON(http.StatusServiceUnavailable, errorResponse)
}

// Helper to get trace ID from context
func getTraceIDFromContext(c echo.Context) string {
	traceID := c.Response().Header().Get("X-Trace-ID")
	if traceID == "" {
		if tid, ok := c.Get("trace_id").(string); ok {
			traceID = tid
		}
	}
	if traceID == "" {
		traceID = "unknown"
	}
	return traceID
}
