package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"grocerylist-api/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemGeneratorInterface produces realistic grocery items for development
// environments
type ItemGeneratorInterface interface {
	GenerateItems(userID uuid.UUID, count int) []*models.GroceryItem
}

type itemGenerator struct {
	categoryService CategoryServiceInterface
	faker           *gofakeit.Faker
	rng             *rand.Rand
}

var seedUnits = []string{"", "", "kg", "g", "l", "ml", "pack", "box", "can", "bottle"}

// NewItemGenerator creates a generator that categorizes each generated item
// the same way user input would be categorized
func NewItemGenerator(categoryService CategoryServiceInterface) ItemGeneratorInterface {
	seed := time.Now().UnixNano()
	return &itemGenerator{
		categoryService: categoryService,
		faker:           gofakeit.New(uint64(seed)),
		rng:             rand.New(rand.NewSource(seed)),
	}
}

// GenerateItems produces count grocery items attributed to the given user.
// A portion of the items are marked completed to make the list look lived-in.
func (g *itemGenerator) GenerateItems(userID uuid.UUID, count int) []*models.GroceryItem {
	items := make([]*models.GroceryItem, 0, count)

	for i := 0; i < count; i++ {
		name := g.generateItemName()

		item := &models.GroceryItem{
			Name:     name,
			Category: models.CategoryUnknown,
			Quantity: g.generateQuantity(),
			Unit:     seedUnits[g.rng.Intn(len(seedUnits))],
			AddedBy:  userID,
		}

		if g.categoryService != nil {
			item.Category = g.categoryService.CategorizeItem(name).Category
		}

		// Roughly a third of the list has already been picked up
		if g.rng.Intn(3) == 0 {
			item.Complete(userID)
		}

		items = append(items, item)
	}

	return items
}

func (g *itemGenerator) generateItemName() string {
	switch g.rng.Intn(6) {
	case 0:
		return g.faker.Fruit()
	case 1:
		return g.faker.Vegetable()
	case 2:
		return fmt.Sprintf("Organic %s", g.faker.Fruit())
	case 3:
		return fmt.Sprintf("Frozen %s", strings.ToLower(g.faker.Dinner()))
	case 4:
		return g.faker.Snack()
	default:
		return g.faker.Breakfast()
	}
}

func (g *itemGenerator) generateQuantity() decimal.Decimal {
	if g.rng.Intn(4) == 0 {
		// Weight-style fractional quantity
		return decimal.NewFromFloat(float64(g.rng.Intn(20)+1) / 4.0)
	}
	return decimal.NewFromInt(int64(g.rng.Intn(5) + 1))
}
