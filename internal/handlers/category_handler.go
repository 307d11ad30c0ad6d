package handlers

import (
	"net/http"

	"grocerylist-api/internal/dto"
	"grocerylist-api/internal/errors"
	"grocerylist-api/internal/models"
	"grocerylist-api/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultKeywordPageLimit = 50
	maxKeywordPageLimit     = 200
)

// CategoryHandler handles category and keyword endpoints
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories returns all category definitions
// @Summary List categories
// @Description All category definitions with display metadata, in aisle walking order
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]dto.CategoryResponse} "Categories"
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	definitions := h.categoryService.ListCategories()

	responses := make([]dto.CategoryResponse, 0, len(definitions))
	for _, def := range definitions {
		responses = append(responses, dto.CategoryResponse{
			ID:    string(def.ID),
			Name:  def.Name,
			Icon:  def.Icon,
			Color: def.Color,
		})
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: responses,
	})
}

// ListKeywords returns learned keyword associations
// @Summary List learned keywords
// @Description Learned keyword associations, optionally filtered by category
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param category query string false "Category filter"
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} dto.ListKeywordsResponse "Keywords"
// @Failure 400 {object} errors.ErrorResponse "Unknown category - CATEGORY_001"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_002"
// @Router /keywords [get]
func (h *CategoryHandler) ListKeywords(c echo.Context) error {
	category := models.Category(c.QueryParam("category"))
	offset := getIntParam(c, "offset", 0)
	limit := getIntParam(c, "limit", defaultKeywordPageLimit)

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxKeywordPageLimit {
		limit = defaultKeywordPageLimit
	}

	keywords, total, err := h.categoryService.ListKeywords(category, offset, limit)
	if err != nil {
		if err == services.ErrInvalidCategory {
			return SendError(c, errors.CategoryInvalid)
		}
		return SendSystemError(c, err)
	}

	responses := make([]dto.KeywordResponse, 0, len(keywords))
	for _, kw := range keywords {
		responses = append(responses, dto.KeywordResponse{
			ID:        kw.ID,
			Keyword:   kw.Keyword,
			Category:  string(kw.CategoryID),
			CreatedAt: kw.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, dto.ListKeywordsResponse{
		Keywords: responses,
		Pagination: dto.PaginationInfo{
			Offset: offset,
			Limit:  limit,
			Total:  total,
		},
	})
}

// AddKeyword teaches the categorizer a keyword directly
// @Summary Add a keyword association
// @Description Associate a keyword with a category so future items matching it are categorized automatically
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AddKeywordRequest true "Keyword and category"
// @Success 201 {object} SuccessResponse{message=string} "Keyword learned"
// @Failure 400 {object} errors.ErrorResponse "Validation error - KEYWORD_001 or CATEGORY_001"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_002"
// @Router /keywords [post]
func (h *CategoryHandler) AddKeyword(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.AddKeywordRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	if err := h.categoryService.LearnKeyword(req.Keyword, models.Category(req.Category), &userID); err != nil {
		switch err {
		case services.ErrKeywordTooShort:
			return SendError(c, errors.KeywordTooShort)
		case services.ErrInvalidCategory:
			return SendError(c, errors.CategoryInvalid)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Keyword learned",
	})
}

// Categorize previews the category of an item name without creating an item
// @Summary Categorize an item name
// @Description Resolve the category an item name would get, without adding it to the list
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CategorizeRequest true "Item name"
// @Success 200 {object} dto.CategorizeResponse "Categorization outcome"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Router /categorize [post]
func (h *CategoryHandler) Categorize(c echo.Context) error {
	var req dto.CategorizeRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	result := h.categoryService.CategorizeItem(req.Name)

	return c.JSON(http.StatusOK, dto.CategorizeResponse{
		Name:           req.Name,
		Category:       string(result.Category),
		Source:         result.Source,
		MatchedKeyword: result.MatchedKeyword,
	})
}
