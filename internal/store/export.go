package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Export serializes the full collection to path as 4-space-indented JSON,
// the same shape as the backing file. Paths without a .js or .json suffix
// get .js appended, matching what KubeJS script directories expect.
func (s *Store) Export(path string) (string, error) {
	path = NormalizeExportPath(path)

	data, err := json.MarshalIndent(s.recipes, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode recipes for export: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export recipes to %s: %w", path, err)
	}
	return path, nil
}

// NormalizeExportPath appends .js to paths that carry neither a .js nor a
// .json suffix.
func NormalizeExportPath(path string) string {
	if strings.HasSuffix(path, ".js") || strings.HasSuffix(path, ".json") {
		return path
	}
	return path + ".js"
}
