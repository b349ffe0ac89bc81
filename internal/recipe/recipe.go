package recipe

import (
	"fmt"
	"strings"
)

// Recipe is a single KubeJS crafting/processing rule. The JSON field names
// match the on-disk recipe file format, which must stay human-editable.
type Recipe struct {
	// Type is one of the recipe type tags in Types.
	Type string `json:"type"`

	// Output is the produced item identifier (e.g. "minecraft:diamond_sword").
	Output string `json:"output"`

	// Ingredients is the ordered, non-empty list of input item identifiers.
	Ingredients []string `json:"ingredients"`

	// Addon and AddonURL record which KubeJS addon a modded recipe targets.
	// Both are empty for vanilla recipes.
	Addon    string `json:"addon,omitempty"`
	AddonURL string `json:"addon_url,omitempty"`
}

// Types lists the supported recipe type tags, in menu display order.
var Types = []string{
	"shaped",
	"shapeless",
	"smithing",
	"smelting",
	"blasting",
	"smoking",
	"campfire_cooking",
	"stonecutting",
	"brewing",
	"custom",
}

// ValidType reports whether t is one of the supported recipe types.
func ValidType(t string) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// ValidationError describes a recipe field that fails basic validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid recipe: %s: %s", e.Field, e.Message)
}

// Validate checks the structural requirements every recipe must satisfy:
// a known type, a non-empty output, and at least one non-blank ingredient.
// Deeper shape validation lives in internal/schema.
func (r Recipe) Validate() error {
	if !ValidType(r.Type) {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown type %q", r.Type)}
	}
	if strings.TrimSpace(r.Output) == "" {
		return &ValidationError{Field: "output", Message: "output item cannot be empty"}
	}
	if len(r.Ingredients) == 0 {
		return &ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing) == "" {
			return &ValidationError{Field: "ingredients", Message: fmt.Sprintf("ingredient %d is blank", i+1)}
		}
	}
	return nil
}

// ParseIngredients splits a comma-separated ingredient line into a cleaned
// list, dropping blank entries. Used by both the menu and the add command.
func ParseIngredients(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
