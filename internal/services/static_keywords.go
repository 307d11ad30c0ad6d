package services

import (
	"sort"

	"grocerylist-api/internal/models"
)

// initStaticKeywords initializes the built-in keyword to category mapping.
// These are the seed associations the categorizer knows before anything
// has been learned from household usage.
func initStaticKeywords() map[string]models.Category {
	return map[string]models.Category{
		// Produce
		"apple":      models.CategoryFruit,
		"banana":     models.CategoryFruit,
		"orange":     models.CategoryFruit,
		"grape":      models.CategoryFruit,
		"strawberry": models.CategoryFruit,
		"blueberry":  models.CategoryFruit,
		"raspberry":  models.CategoryFruit,
		"lettuce":    models.CategoryVegetables,
		"tomato":     models.CategoryVegetables,
		"cucumber":   models.CategoryVegetables,
		"carrot":     models.CategoryVegetables,
		"broccoli":   models.CategoryVegetables,
		"spinach":    models.CategoryVegetables,
		"kale":       models.CategoryVegetables,
		"onion":      models.CategoryVegetables,
		"potato":     models.CategoryVegetables,
		"avocado":    models.CategoryVegetables,

		// Dairy
		"milk":   models.CategoryDairy,
		"cheese": models.CategoryDairy,
		"yogurt": models.CategoryDairy,
		"butter": models.CategoryDairy,
		"cream":  models.CategoryDairy,
		"egg":    models.CategoryDairy,
		"eggs":   models.CategoryDairy,

		// Meat and seafood
		"chicken": models.CategoryMeat,
		"beef":    models.CategoryMeat,
		"pork":    models.CategoryMeat,
		"fish":    models.CategoryMeat,
		"salmon":  models.CategoryMeat,
		"tuna":    models.CategoryMeat,
		"shrimp":  models.CategoryMeat,
		"steak":   models.CategoryMeat,
		"ground":  models.CategoryMeat,

		// Bakery
		"bread":     models.CategoryBakery,
		"bagel":     models.CategoryBakery,
		"muffin":    models.CategoryBakery,
		"cake":      models.CategoryBakery,
		"cookie":    models.CategoryBakery,
		"pastry":    models.CategoryBakery,
		"croissant": models.CategoryBakery,

		// Pantry
		"rice":    models.CategoryDryGoods,
		"pasta":   models.CategoryDryGoods,
		"cereal":  models.CategoryDryGoods,
		"flour":   models.CategoryDryGoods,
		"sugar":   models.CategoryDryGoods,
		"oil":     models.CategoryDryGoods,
		"vinegar": models.CategoryDryGoods,
		"soup":    models.CategoryCanned,
		"beans":   models.CategoryCanned,
		"sauce":   models.CategorySauce,
		"nuts":    models.CategorySnacks,
		"peanut":  models.CategorySnacks,
		"chips":   models.CategorySnacks,
		"snack":   models.CategorySnacks,

		// Beverages
		"water":    models.CategoryBeverages,
		"juice":    models.CategoryBeverages,
		"soda":     models.CategoryBeverages,
		"pop":      models.CategoryBeverages,
		"coffee":   models.CategoryBeverages,
		"tea":      models.CategoryBeverages,
		"wine":     models.CategoryBeverages,
		"beer":     models.CategoryBeverages,
		"drink":    models.CategoryBeverages,
		"beverage": models.CategoryBeverages,

		// Frozen
		"icecream": models.CategoryFrozen,
		"pizza":    models.CategoryFrozen,
		"frozen":   models.CategoryFrozen,

		// Household
		"soap":      models.CategoryHousehold,
		"detergent": models.CategoryHousehold,
		"paper":     models.CategoryHousehold,
		"toilet":    models.CategoryHousehold,
		"tissue":    models.CategoryHousehold,
		"cleaner":   models.CategoryHousehold,
		"trash":     models.CategoryHousehold,
		"bag":       models.CategoryHousehold,
		"bags":      models.CategoryHousehold,
	}
}

// orderStaticKeywords returns the keywords sorted longest first, then
// alphabetically. Substring scans walk this slice so that a more specific
// keyword always beats a shorter one it contains.
func orderStaticKeywords(keywords map[string]models.Category) []string {
	ordered := make([]string, 0, len(keywords))
	for keyword := range keywords {
		ordered = append(ordered, keyword)
	}

	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})

	return ordered
}
