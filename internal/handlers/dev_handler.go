package handlers

import (
	"net/http"

	"grocerylist-api/internal/repositories"
	"grocerylist-api/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	itemRepo  repositories.ItemRepositoryInterface
	generator services.ItemGeneratorInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(
	itemRepo repositories.ItemRepositoryInterface,
	categoryService services.CategoryServiceInterface,
) *DevHandler {
	return &DevHandler{
		itemRepo:  itemRepo,
		generator: services.NewItemGenerator(categoryService),
	}
}

// SeedItems fills the shared list with realistic grocery items
//
// Method: POST /api/v1/dev/seed-items
// Authentication: Required
// Environment: Development only
//
// Query parameters:
//   - count: Number of items to generate (default: 25, max: 200)
//
// Success Response: 200 OK
//   - message: Success message
//   - items_created: Number of items created
func (h *DevHandler) SeedItems(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	count := getIntParam(c, "count", 25)
	if count < 1 {
		count = 1
	}
	if count > 200 {
		count = 200
	}

	items := h.generator.GenerateItems(userID, count)

	created := 0
	for _, item := range items {
		if err := h.itemRepo.Create(item); err != nil {
			continue
		}
		created++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "seed data generated successfully",
		"items_created": created,
	})
}

// ClearItems removes every item from the shared list
//
// Method: DELETE /api/v1/dev/items
// Authentication: Required
// Environment: Development only
func (h *DevHandler) ClearItems(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.itemRepo.GetAll(true)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list items")
	}

	deleted := 0
	for i := range items {
		if err := h.itemRepo.Delete(items[i].ID); err != nil {
			continue
		}
		deleted++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "list cleared",
		"items_deleted": deleted,
	})
}
