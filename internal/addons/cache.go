package addons

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// cacheDoc is the on-disk shape of the addon database file.
type cacheDoc struct {
	Timestamp string  `json:"timestamp"`
	Addons    []Addon `json:"addons"`
}

// Cache is the local addon database: one JSON file holding the addon list
// and the time it was written.
type Cache struct {
	path string
}

// NewCache creates a cache backed by the given file path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Load reads the cached addon list and its write time. A missing file is not
// an error; it returns an empty list and a zero time.
func (c *Cache) Load() ([]Addon, time.Time, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("read addon cache %s: %w", c.path, err)
	}

	var doc cacheDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, time.Time{}, fmt.Errorf("parse addon cache %s: %w", c.path, err)
	}

	// An unparseable timestamp degrades to "stale", not to a hard error.
	ts, err := time.Parse(time.RFC3339, doc.Timestamp)
	if err != nil {
		ts = time.Time{}
	}
	return doc.Addons, ts, nil
}

// Save writes the addon list with the current time as its timestamp.
func (c *Cache) Save(addons []Addon, now time.Time) error {
	doc := cacheDoc{
		Timestamp: now.Format(time.RFC3339),
		Addons:    addons,
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode addon cache: %w", err)
	}
	if err := os.WriteFile(c.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write addon cache %s: %w", c.path, err)
	}
	return nil
}
