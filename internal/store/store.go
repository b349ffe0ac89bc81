// Package store owns the on-disk recipe collection.
//
// The collection is one JSON document (top-level keys are recipe names),
// loaded wholesale into memory and rewritten in full on every mutation.
// Writes go through a temp file + rename so readers only ever observe a
// fully-saved state.
//
// The store has no locking of its own: the backend worker is the single
// writer, and the presentation layer only sees read-only clones.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Igilq/kubejs-recipes/internal/recipe"
)

// Store holds the in-memory recipe collection and its backing file path.
type Store struct {
	path    string
	recipes *recipe.Collection
}

// Open loads the collection from path. A missing file yields an empty
// collection and writes an "{}" scaffold so the file is present and
// human-editable from the first run. An existing but unparseable file is a
// *StorageError.
func Open(path string) (*Store, error) {
	s := &Store{path: path, recipes: recipe.NewCollection()}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load re-reads the backing file into memory, replacing the in-memory
// collection. Called once at worker startup and again on explicit reloads.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("recipe file not found, creating scaffold", "path", s.path)
		s.recipes = recipe.NewCollection()
		if werr := s.flush(); werr != nil {
			return fmt.Errorf("create recipe file scaffold: %w", werr)
		}
		return nil
	}
	if err != nil {
		return &StorageError{Path: s.path, Err: err}
	}

	loaded := recipe.NewCollection()
	if err := json.Unmarshal(data, loaded); err != nil {
		return &StorageError{Path: s.path, Err: err}
	}
	s.recipes = loaded
	slog.Debug("recipes loaded", "path", s.path, "count", loaded.Len())
	return nil
}

// Collection returns a read-only clone for rendering. Mutations must go
// through Save and Delete.
func (s *Store) Collection() *recipe.Collection {
	return s.recipes.Clone()
}

// Get returns a single recipe by name.
func (s *Store) Get(name string) (recipe.Recipe, bool) {
	return s.recipes.Get(name)
}

// Save inserts or overwrites the recipe under name and rewrites the backing
// file in full. With isNew set, an existing name fails with ErrDuplicateName
// and the collection is left untouched.
func (s *Store) Save(name string, r recipe.Recipe, isNew bool) error {
	if isNew && s.recipes.Has(name) {
		return fmt.Errorf("save %q: %w", name, ErrDuplicateName)
	}
	prev, existed := s.recipes.Get(name)
	s.recipes.Put(name, r)
	if err := s.flush(); err != nil {
		// Roll the in-memory state back so memory and disk stay consistent.
		if existed {
			s.recipes.Put(name, prev)
		} else {
			s.recipes.Delete(name)
		}
		return err
	}
	return nil
}

// Delete removes the recipe under name and rewrites the backing file.
// An absent name fails with ErrNotFound.
func (s *Store) Delete(name string) error {
	r, ok := s.recipes.Get(name)
	if !ok {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	s.recipes.Delete(name)
	if err := s.flush(); err != nil {
		s.recipes.Put(name, r)
		return err
	}
	return nil
}

// flush rewrites the backing file from the in-memory collection, atomically
// via a temp file in the same directory.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.recipes, "", "    ")
	if err != nil {
		return fmt.Errorf("encode recipes: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".recipes-*.tmp")
	if err != nil {
		return fmt.Errorf("write recipes: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write recipes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write recipes: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write recipes: %w", err)
	}
	slog.Debug("recipes written", "path", s.path, "count", s.recipes.Len())
	return nil
}
