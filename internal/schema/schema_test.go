package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igilq/kubejs-recipes/internal/recipe"
)

func TestValidate_AcceptsVanillaRecipe(t *testing.T) {
	r := recipe.Recipe{
		Type:        "shaped",
		Output:      "minecraft:diamond_sword",
		Ingredients: []string{"minecraft:stick", "minecraft:diamond"},
	}
	require.NoError(t, Validate("diamond_sword", r))
}

func TestValidate_AcceptsModdedRecipe(t *testing.T) {
	r := recipe.Recipe{
		Type:        "custom",
		Output:      "create:brass_ingot",
		Ingredients: []string{"create:copper_ingot", "minecraft:redstone"},
		Addon:       "KubeJS Create",
		AddonURL:    "https://kubejs.com/wiki/addons/kubejs-create",
	}
	require.NoError(t, Validate("brass", r))
}

func TestValidate_RejectsUnknownType(t *testing.T) {
	r := recipe.Recipe{
		Type:        "transmutation",
		Output:      "minecraft:gold_ingot",
		Ingredients: []string{"minecraft:iron_ingot"},
	}

	err := Validate("gold", r)
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "gold", serr.Name)
}

func TestValidate_RejectsWhitespaceInItemID(t *testing.T) {
	r := recipe.Recipe{
		Type:        "shapeless",
		Output:      "minecraft:diamond sword",
		Ingredients: []string{"minecraft:stick"},
	}
	assert.Error(t, Validate("bad_output", r))
}

func TestValidate_RejectsEmptyIngredients(t *testing.T) {
	r := recipe.Recipe{
		Type:        "smelting",
		Output:      "minecraft:glass",
		Ingredients: nil,
	}
	assert.Error(t, Validate("glass", r))
}

func TestValidate_RejectsHalfFilledProvenance(t *testing.T) {
	r := recipe.Recipe{
		Type:        "custom",
		Output:      "mekanism:steel_ingot",
		Ingredients: []string{"minecraft:iron_ingot", "minecraft:coal"},
		Addon:       "KubeJS Mekanism",
	}

	var serr *Error
	require.ErrorAs(t, Validate("steel", r), &serr)
}

func TestValidate_RejectsNonHTTPAddonURL(t *testing.T) {
	r := recipe.Recipe{
		Type:        "custom",
		Output:      "thermal:bronze_ingot",
		Ingredients: []string{"minecraft:copper_ingot"},
		Addon:       "KubeJS Thermal",
		AddonURL:    "ftp://kubejs.com/wiki/addons/kubejs-thermal",
	}
	assert.Error(t, Validate("bronze", r))
}
