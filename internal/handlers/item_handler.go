package handlers

import (
	"net/http"

	"grocerylist-api/internal/dto"
	"grocerylist-api/internal/errors"
	"grocerylist-api/internal/models"
	"grocerylist-api/internal/repositories"
	"grocerylist-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ItemHandler handles grocery list item endpoints
type ItemHandler struct {
	itemService services.ItemServiceInterface
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService services.ItemServiceInterface) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// AddItem adds an item to the shared list
// @Summary Add a grocery item
// @Description Add an item to the shared list. When no category is given the item is categorized automatically.
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AddItemRequest true "Item details"
// @Success 201 {object} SuccessResponse{data=dto.ItemResponse} "Item added"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001, ITEM_002 or ITEM_003"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_001 or SYSTEM_002"
// @Router /items [post]
func (h *ItemHandler) AddItem(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	item, err := h.itemService.AddItem(&req, userID)
	if err != nil {
		switch err {
		case services.ErrItemNameRequired:
			return SendError(c, errors.ItemInvalidName)
		case services.ErrInvalidQuantity:
			return SendError(c, errors.ItemInvalidQuantity)
		case services.ErrInvalidCategory:
			return SendError(c, errors.CategoryInvalid)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    newItemResponse(item),
		Message: "Item added",
	})
}

// ListItems returns the shared list
// @Summary List grocery items
// @Description List items on the shared list, optionally filtered by category. Completed items are excluded unless requested.
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param category query string false "Category filter"
// @Param includeCompleted query bool false "Include completed items"
// @Success 200 {object} dto.ListItemsResponse "Items"
// @Failure 400 {object} errors.ErrorResponse "Unknown category - CATEGORY_001"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_002"
// @Router /items [get]
func (h *ItemHandler) ListItems(c echo.Context) error {
	var filters dto.ItemFilters
	if err := c.Bind(&filters); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	items, err := h.itemService.GetItems(filters)
	if err != nil {
		if err == services.ErrInvalidCategory {
			return SendError(c, errors.CategoryInvalid)
		}
		return SendSystemError(c, err)
	}

	responses := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *newItemResponse(&items[i]))
	}

	return c.JSON(http.StatusOK, dto.ListItemsResponse{
		Items: responses,
		Total: len(responses),
	})
}

// GetItem returns a single item
// @Summary Get a grocery item
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} SuccessResponse{data=dto.ItemResponse} "Item"
// @Failure 404 {object} errors.ErrorResponse "Item not found - ITEM_001"
// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid item ID"))
	}

	item, err := h.itemService.GetItemByID(itemID)
	if err != nil {
		if err == repositories.ErrItemNotFound {
			return SendError(c, errors.ItemNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: newItemResponse(item),
	})
}

// ToggleItem marks an item completed or reopens it
// @Summary Toggle item completion
// @Description Mark an item as picked up, or put it back on the open list
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.ToggleItemRequest true "Completion state"
// @Success 200 {object} SuccessResponse{data=dto.ItemResponse} "Item updated"
// @Failure 404 {object} errors.ErrorResponse "Item not found - ITEM_001"
// @Router /items/{id}/toggle [put]
func (h *ItemHandler) ToggleItem(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid item ID"))
	}

	var req dto.ToggleItemRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	item, err := h.itemService.ToggleItem(itemID, userID, req.Completed)
	if err != nil {
		if err == repositories.ErrItemNotFound {
			return SendError(c, errors.ItemNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: newItemResponse(item),
	})
}

// UpdateQuantity changes the quantity and unit of an item
// @Summary Update item quantity
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.UpdateQuantityRequest true "New quantity"
// @Success 200 {object} SuccessResponse{data=dto.ItemResponse} "Item updated"
// @Failure 400 {object} errors.ErrorResponse "Invalid quantity - ITEM_003"
// @Failure 404 {object} errors.ErrorResponse "Item not found - ITEM_001"
// @Router /items/{id}/quantity [put]
func (h *ItemHandler) UpdateQuantity(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid item ID"))
	}

	var req dto.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return SendError(c, errors.ItemInvalidQuantity)
	}

	item, err := h.itemService.UpdateQuantity(itemID, quantity, req.Unit)
	if err != nil {
		switch err {
		case services.ErrInvalidQuantity:
			return SendError(c, errors.ItemInvalidQuantity)
		case repositories.ErrItemNotFound:
			return SendError(c, errors.ItemNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: newItemResponse(item),
	})
}

// AssignCategory moves an item to a different category and teaches the
// categorizer the correction
// @Summary Assign item category
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.AssignCategoryRequest true "Target category"
// @Success 200 {object} SuccessResponse{data=dto.ItemResponse} "Item updated"
// @Failure 400 {object} errors.ErrorResponse "Unknown category - CATEGORY_001"
// @Failure 404 {object} errors.ErrorResponse "Item not found - ITEM_001"
// @Router /items/{id}/category [put]
func (h *ItemHandler) AssignCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid item ID"))
	}

	var req dto.AssignCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	item, err := h.itemService.AssignCategory(itemID, models.Category(req.Category), userID)
	if err != nil {
		switch err {
		case services.ErrInvalidCategory:
			return SendError(c, errors.CategoryInvalid)
		case repositories.ErrItemNotFound:
			return SendError(c, errors.ItemNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: newItemResponse(item),
	})
}

// DeleteItem removes an item from the list
// @Summary Delete a grocery item
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} SuccessResponse{message=string} "Item deleted"
// @Failure 404 {object} errors.ErrorResponse "Item not found - ITEM_001"
// @Router /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid item ID"))
	}

	if err := h.itemService.DeleteItem(itemID); err != nil {
		if err == repositories.ErrItemNotFound {
			return SendError(c, errors.ItemNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Item deleted",
	})
}

// GetCategorySummary returns per-category item counts
// @Summary Category summary
// @Description Aggregated item counts per category for aisle section headers
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]dto.CategorySummaryResponse} "Summary"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_002"
// @Router /items/summary [get]
func (h *ItemHandler) GetCategorySummary(c echo.Context) error {
	summary, err := h.itemService.GetCategorySummary()
	if err != nil {
		return SendSystemError(c, err)
	}

	responses := make([]dto.CategorySummaryResponse, 0, len(summary))
	for _, row := range summary {
		responses = append(responses, dto.CategorySummaryResponse{
			Category:       string(row.Category),
			ItemCount:      row.ItemCount,
			OpenCount:      row.OpenCount,
			CompletedCount: row.CompletedCount,
		})
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: responses,
	})
}

func newItemResponse(item *models.GroceryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    string(item.Category),
		Quantity:    item.Quantity.String(),
		Unit:        item.Unit,
		Completed:   item.Completed,
		AddedBy:     item.AddedBy,
		CompletedBy: item.CompletedBy,
		CompletedAt: item.CompletedAt,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
