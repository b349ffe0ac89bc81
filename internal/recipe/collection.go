package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Collection is the full named set of recipes, persisted as one JSON document
// whose top-level keys are recipe names.
//
// Iteration order is insertion order, and that order survives a JSON
// round-trip. Go maps don't preserve key order, so the collection keeps a
// names slice alongside the index and implements its own (un)marshaling over
// the decoder token stream.
//
// Not safe for concurrent use; the backend worker is the single writer.
type Collection struct {
	names []string
	index map[string]Recipe
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]Recipe)}
}

// Len returns the number of recipes.
func (c *Collection) Len() int {
	return len(c.names)
}

// Names returns the recipe names in insertion order.
// The returned slice is a copy.
func (c *Collection) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns the recipe stored under name.
func (c *Collection) Get(name string) (Recipe, bool) {
	r, ok := c.index[name]
	return r, ok
}

// Has reports whether a recipe with the given name exists.
func (c *Collection) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Put inserts or overwrites the recipe under name. A new name goes to the
// end of the iteration order; overwriting keeps the original position.
func (c *Collection) Put(name string, r Recipe) {
	if _, exists := c.index[name]; !exists {
		c.names = append(c.names, name)
	}
	c.index[name] = r
}

// Delete removes the recipe under name.
// Returns false if the name is absent.
func (c *Collection) Delete(name string) bool {
	if _, exists := c.index[name]; !exists {
		return false
	}
	delete(c.index, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep-enough copy for read-only rendering. Recipes are
// value types apart from the ingredients slice, which is copied.
func (c *Collection) Clone() *Collection {
	out := NewCollection()
	for _, name := range c.names {
		r := c.index[name]
		ings := make([]string, len(r.Ingredients))
		copy(ings, r.Ingredients)
		r.Ingredients = ings
		out.Put(name, r)
	}
	return out
}

// MarshalJSON encodes the collection as a single JSON object with keys in
// insertion order.
func (c *Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("marshal recipe name %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c.index[name])
		if err != nil {
			return nil, fmt.Errorf("marshal recipe %q: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a top-level JSON object, preserving key order by
// walking the decoder token stream instead of decoding into a map.
func (c *Collection) UnmarshalJSON(data []byte) error {
	c.names = nil
	c.index = make(map[string]Recipe)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode collection: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode collection: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode collection key: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode collection: non-string key %v", keyTok)
		}
		var r Recipe
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("decode recipe %q: %w", name, err)
		}
		c.Put(name, r)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode collection: %w", err)
	}
	return nil
}
