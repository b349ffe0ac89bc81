package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsWellFormedRecipe(t *testing.T) {
	r := Recipe{
		Type:        "shaped",
		Output:      "minecraft:diamond_sword",
		Ingredients: []string{"minecraft:stick", "minecraft:diamond"},
	}
	require.NoError(t, r.Validate())
}

func TestValidate_RejectsUnknownType(t *testing.T) {
	r := Recipe{Type: "alchemy", Output: "x", Ingredients: []string{"y"}}

	err := r.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}

func TestValidate_RejectsEmptyOutput(t *testing.T) {
	r := Recipe{Type: "smelting", Output: "   ", Ingredients: []string{"minecraft:iron_ore"}}

	var verr *ValidationError
	require.ErrorAs(t, r.Validate(), &verr)
	assert.Equal(t, "output", verr.Field)
}

func TestValidate_RejectsMissingIngredients(t *testing.T) {
	r := Recipe{Type: "smelting", Output: "minecraft:iron_ingot"}

	var verr *ValidationError
	require.ErrorAs(t, r.Validate(), &verr)
	assert.Equal(t, "ingredients", verr.Field)
}

func TestValidate_RejectsBlankIngredient(t *testing.T) {
	r := Recipe{Type: "shapeless", Output: "minecraft:bread", Ingredients: []string{"minecraft:wheat", "  "}}

	var verr *ValidationError
	require.ErrorAs(t, r.Validate(), &verr)
	assert.Equal(t, "ingredients", verr.Field)
}

func TestValidType(t *testing.T) {
	for _, typ := range Types {
		assert.True(t, ValidType(typ), "type %q should be valid", typ)
	}
	assert.False(t, ValidType("SHAPED"))
	assert.False(t, ValidType(""))
}

func TestParseIngredients(t *testing.T) {
	got := ParseIngredients(" minecraft:stick , minecraft:diamond ,, ")
	assert.Equal(t, []string{"minecraft:stick", "minecraft:diamond"}, got)

	assert.Empty(t, ParseIngredients("  ,  "))
	assert.Empty(t, ParseIngredients(""))
}
