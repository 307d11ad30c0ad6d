package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCategory(t *testing.T) {
	for _, category := range AllCategories() {
		assert.True(t, IsValidCategory(category), "expected %s to be valid", category)
	}

	assert.False(t, IsValidCategory(Category("")))
	assert.False(t, IsValidCategory(Category("aisle_99")))
	assert.False(t, IsValidCategory(Category("DAIRY")))
}

func TestCategoryDefinitions_CoverAllCategories(t *testing.T) {
	defined := make(map[Category]bool)
	for _, def := range CategoryDefinitions() {
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Color)
		assert.False(t, defined[def.ID], "duplicate definition for %s", def.ID)
		defined[def.ID] = true
	}

	for _, category := range AllCategories() {
		assert.True(t, defined[category], "missing definition for %s", category)
	}
}
