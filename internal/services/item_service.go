package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"grocerylist-api/internal/dto"
	"grocerylist-api/internal/models"
	"grocerylist-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNameRequired = errors.New("item name is required")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
)

type itemService struct {
	itemRepo        repositories.ItemRepositoryInterface
	categoryService CategoryServiceInterface
	broadcaster     RealtimeBroadcasterInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

// NewItemService creates the shared list service. broadcaster may be nil when
// realtime fan-out is not wired (tests, one-off tools).
func NewItemService(
	itemRepo repositories.ItemRepositoryInterface,
	categoryService CategoryServiceInterface,
	broadcaster RealtimeBroadcasterInterface,
	metrics MetricsRecorderInterface,
) ItemServiceInterface {
	return &itemService{
		itemRepo:        itemRepo,
		categoryService: categoryService,
		broadcaster:     broadcaster,
		metrics:         metrics,
		logger:          slog.Default(),
	}
}

// AddItem puts a new item on the shared list. Without an explicit category
// the item is categorized automatically; an explicit category is treated as
// a manual assignment and feeds the learning loop.
func (s *itemService) AddItem(req *dto.AddItemRequest, userID uuid.UUID) (*models.GroceryItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrItemNameRequired
	}

	item := &models.GroceryItem{
		Name:    name,
		AddedBy: userID,
	}

	if req.Quantity != "" {
		quantity, err := decimal.NewFromString(req.Quantity)
		if err != nil || !quantity.IsPositive() {
			return nil, ErrInvalidQuantity
		}
		item.Quantity = quantity
	}
	item.Unit = strings.TrimSpace(req.Unit)

	if req.Category != "" {
		category := models.Category(req.Category)
		if !models.IsValidCategory(category) {
			return nil, ErrInvalidCategory
		}
		item.Category = category
		s.categoryService.LearnItemCategorization(name, category, &userID)
	} else {
		result := s.categoryService.CategorizeItem(name)
		item.Category = result.Category
		s.logger.Debug("auto-categorized item",
			slog.String("name", name),
			slog.String("category", string(result.Category)),
			slog.String("source", result.Source),
		)
	}

	if err := s.itemRepo.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.metrics.IncrementCounter("item.added", map[string]string{"operation": "add"})
	s.broadcast(models.ChangeEventInsert, item)

	return item, nil
}

// GetItems returns list items, optionally filtered by category
func (s *itemService) GetItems(filters dto.ItemFilters) ([]models.GroceryItem, error) {
	if filters.Category != "" {
		category := models.Category(filters.Category)
		if !models.IsValidCategory(category) {
			return nil, ErrInvalidCategory
		}
		return s.itemRepo.GetByCategory(category)
	}

	return s.itemRepo.GetAll(filters.IncludeCompleted)
}

func (s *itemService) GetItemByID(itemID uuid.UUID) (*models.GroceryItem, error) {
	return s.itemRepo.GetByID(itemID)
}

// ToggleItem marks an item completed or reopens it, recording who picked it up
func (s *itemService) ToggleItem(itemID, userID uuid.UUID, completed bool) (*models.GroceryItem, error) {
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}

	if completed {
		item.Complete(userID)
	} else {
		item.Reopen()
	}

	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to toggle item: %w", err)
	}

	s.metrics.IncrementCounter("item.toggled", map[string]string{"operation": "toggle"})
	s.broadcast(models.ChangeEventUpdate, item)

	return item, nil
}

func (s *itemService) UpdateQuantity(itemID uuid.UUID, quantity decimal.Decimal, unit string) (*models.GroceryItem, error) {
	if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.Unit = strings.TrimSpace(unit)

	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	s.metrics.IncrementCounter("item.updated", map[string]string{"operation": "quantity"})
	s.broadcast(models.ChangeEventUpdate, item)

	return item, nil
}

// AssignCategory moves an item to a category picked by the user. The
// assignment feeds the learning loop so the next similar item lands in the
// right place automatically. Learning failures never fail the assignment.
func (s *itemService) AssignCategory(itemID uuid.UUID, category models.Category, userID uuid.UUID) (*models.GroceryItem, error) {
	if !models.IsValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}

	item.Category = category

	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to assign category: %w", err)
	}

	s.categoryService.LearnItemCategorization(item.Name, category, &userID)

	s.metrics.IncrementCounter("item.recategorized", map[string]string{"operation": "recategorize"})
	s.broadcast(models.ChangeEventUpdate, item)

	return item, nil
}

func (s *itemService) DeleteItem(itemID uuid.UUID) error {
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.metrics.IncrementCounter("item.deleted", map[string]string{"operation": "delete"})
	s.broadcast(models.ChangeEventDelete, item)

	return nil
}

func (s *itemService) GetCategorySummary() ([]models.CategorySummary, error) {
	return s.itemRepo.GetCategorySummary()
}

func (s *itemService) broadcast(eventType string, item *models.GroceryItem) {
	if s.broadcaster == nil {
		return
	}

	s.broadcaster.BroadcastItemChange(models.NewItemChangeEvent(eventType, item))
	s.metrics.IncrementCounter("realtime.broadcast", map[string]string{"event_type": eventType})

	if open, err := s.itemRepo.CountOpen(); err == nil {
		s.metrics.RecordGauge("items.open", float64(open), nil)
	}
}
