package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Igilq/kubejs-recipes/internal/recipe"
)

// Match pairs a recipe name with its record in a search result.
type Match struct {
	Name   string        `json:"name"`
	Recipe recipe.Recipe `json:"recipe"`
}

// Search returns every recipe whose name, type, output, or any ingredient
// contains term case-insensitively. Results follow collection iteration
// order (insertion order); matches are not ranked. Callers reject the empty
// term before it reaches the store.
//
// Both sides of the comparison are NFC-normalized before lowercasing, so
// recipes named with composed and decomposed Unicode forms match the same
// queries.
func (s *Store) Search(term string) []Match {
	needle := foldTerm(term)
	matches := make([]Match, 0)
	for _, name := range s.recipes.Names() {
		r, _ := s.recipes.Get(name)
		if recipeMatches(name, r, needle) {
			matches = append(matches, Match{Name: name, Recipe: r})
		}
	}
	return matches
}

func recipeMatches(name string, r recipe.Recipe, needle string) bool {
	if strings.Contains(foldTerm(name), needle) {
		return true
	}
	if strings.Contains(foldTerm(r.Type), needle) {
		return true
	}
	if strings.Contains(foldTerm(r.Output), needle) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(foldTerm(ing), needle) {
			return true
		}
	}
	return false
}

// foldTerm normalizes to NFC at the comparison boundary, then lowercases.
func foldTerm(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
