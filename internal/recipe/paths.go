package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileName returns the export file name for a recipe name.
func FileName(name string, format Format) string {
	ext := ".json"
	if format == YAML {
		ext = ".yaml"
	}
	return Slug(name) + ext
}

// FindLatest finds the most recently modified recipe file in dir
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read recipes directory: %w", err)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var recipes []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		recipes = append(recipes, candidate{
			path: filepath.Join(dir, entry.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}

	if len(recipes) == 0 {
		return "", fmt.Errorf("no recipe files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].mod > recipes[j].mod
	})

	return recipes[0].path, nil
}
