package models

// Category identifies a grocery aisle/grouping. The set is closed: values
// outside AllCategories are rejected at the storage boundary.
type Category string

const (
	CategoryUnknown     Category = "unknown"
	CategoryBaby        Category = "baby"
	CategoryHousehold   Category = "household"
	CategorySnacks      Category = "snacks"
	CategoryFrozen      Category = "frozen"
	CategoryBeverages   Category = "beverages"
	CategoryPets        Category = "pets"
	CategoryUtensils    Category = "utensils"
	CategoryCanned      Category = "canned"
	CategoryCheckout    Category = "checkout"
	CategoryEaster      Category = "easter"
	CategorySpices      Category = "spices"
	CategoryHygiene     Category = "hygiene"
	CategoryDryGoods    Category = "dry_goods"
	CategoryBakery      Category = "bakery"
	CategoryDairy       Category = "dairy"
	CategoryFruit       Category = "fruit"
	CategorySupplements Category = "supplements"
	CategorySpreads     Category = "spreads"
	CategorySauce       Category = "sauce"
	CategoryMeat        Category = "meat"
	CategoryMisc        Category = "misc"
	CategoryHerbs       Category = "herbs"
	CategoryVegetables  Category = "vegetables"
)

// Categorization sources, ordered by lookup priority
const (
	CategorizationSourceLearnedExact     = "LEARNED_EXACT"
	CategorizationSourceLearnedSubstring = "LEARNED_SUBSTRING"
	CategorizationSourceStaticWord       = "STATIC_WORD"
	CategorizationSourceStaticSubstring  = "STATIC_SUBSTRING"
	CategorizationSourceDefault          = "DEFAULT"
	CategorizationSourceManual           = "MANUAL"
)

// AllCategories returns all valid category identifiers
func AllCategories() []Category {
	return []Category{
		CategoryUnknown,
		CategoryBaby,
		CategoryHousehold,
		CategorySnacks,
		CategoryFrozen,
		CategoryBeverages,
		CategoryPets,
		CategoryUtensils,
		CategoryCanned,
		CategoryCheckout,
		CategoryEaster,
		CategorySpices,
		CategoryHygiene,
		CategoryDryGoods,
		CategoryBakery,
		CategoryDairy,
		CategoryFruit,
		CategorySupplements,
		CategorySpreads,
		CategorySauce,
		CategoryMeat,
		CategoryMisc,
		CategoryHerbs,
		CategoryVegetables,
	}
}

// IsValidCategory checks if a category identifier is part of the closed set
func IsValidCategory(category Category) bool {
	for _, validCategory := range AllCategories() {
		if category == validCategory {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// CategoryDefinition carries the display metadata the client renders for a
// category. The engine itself only cares about the identifier.
type CategoryDefinition struct {
	ID    Category `json:"id"`
	Name  string   `json:"name"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
}

// CategoryDefinitions returns display metadata for every category, in aisle
// walking order.
func CategoryDefinitions() []CategoryDefinition {
	return []CategoryDefinition{
		{ID: CategoryFruit, Name: "Fruit", Icon: "apple", Color: "#e74c3c"},
		{ID: CategoryVegetables, Name: "Vegetables", Icon: "carrot", Color: "#27ae60"},
		{ID: CategoryHerbs, Name: "Fresh Herbs", Icon: "leaf", Color: "#16a085"},
		{ID: CategoryBakery, Name: "Bakery", Icon: "bread", Color: "#d35400"},
		{ID: CategoryDairy, Name: "Dairy & Eggs", Icon: "milk", Color: "#3498db"},
		{ID: CategoryMeat, Name: "Meat & Fish", Icon: "drumstick", Color: "#c0392b"},
		{ID: CategoryFrozen, Name: "Frozen", Icon: "snowflake", Color: "#74b9ff"},
		{ID: CategoryCanned, Name: "Canned Goods", Icon: "can", Color: "#95a5a6"},
		{ID: CategoryDryGoods, Name: "Dry Goods & Pasta", Icon: "wheat", Color: "#e67e22"},
		{ID: CategorySpices, Name: "Spices", Icon: "pepper", Color: "#a0522d"},
		{ID: CategorySauce, Name: "Sauces & Oils", Icon: "bottle", Color: "#8e44ad"},
		{ID: CategorySpreads, Name: "Spreads", Icon: "jar", Color: "#f39c12"},
		{ID: CategorySnacks, Name: "Snacks", Icon: "cookie", Color: "#f1c40f"},
		{ID: CategoryBeverages, Name: "Beverages", Icon: "cup", Color: "#2980b9"},
		{ID: CategorySupplements, Name: "Supplements", Icon: "pill", Color: "#1abc9c"},
		{ID: CategoryBaby, Name: "Baby", Icon: "baby", Color: "#fd79a8"},
		{ID: CategoryPets, Name: "Pets", Icon: "paw", Color: "#6c5ce7"},
		{ID: CategoryHygiene, Name: "Hygiene", Icon: "soap", Color: "#00cec9"},
		{ID: CategoryHousehold, Name: "Household", Icon: "house", Color: "#636e72"},
		{ID: CategoryUtensils, Name: "Utensils", Icon: "fork", Color: "#b2bec3"},
		{ID: CategoryEaster, Name: "Seasonal", Icon: "egg", Color: "#ffeaa7"},
		{ID: CategoryCheckout, Name: "Checkout", Icon: "cart", Color: "#dfe6e9"},
		{ID: CategoryMisc, Name: "Miscellaneous", Icon: "box", Color: "#7f8c8d"},
		{ID: CategoryUnknown, Name: "Uncategorized", Icon: "question", Color: "#bdc3c7"},
	}
}

// CategorizationResult contains the outcome of a single categorization pass
type CategorizationResult struct {
	Category       Category `json:"category"`
	Source         string   `json:"source"`
	MatchedKeyword string   `json:"matched_keyword,omitempty"`
}
