package site

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads site placeholder values from path: a single YAML file, or
// a directory whose *.yml and *.yaml files are merged in lexicographic
// order, later files winning. A missing path yields an empty map. When
// HERO_URL is absent it is derived from ASSETS_BASE, ASSETS_SUBDIR and
// HERO_FILE.
func LoadConfig(path string) (map[string]string, error) {
	values := make(map[string]string)
	if path == "" {
		return values, nil
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("site config %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = configFiles(path)
		if err != nil {
			return nil, fmt.Errorf("site config %s: %w", path, err)
		}
	}

	for _, file := range files {
		if err := mergeConfigFile(values, file); err != nil {
			return nil, err
		}
	}

	deriveHeroURL(values)
	return values, nil
}

func configFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yml", ".yaml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func mergeConfigFile(values map[string]string, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("site config %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("site config %s: %w", path, err)
	}

	for key, value := range doc {
		if value == nil {
			continue
		}
		values[key] = fmt.Sprintf("%v", value)
	}
	return nil
}

// deriveHeroURL assembles HERO_URL from its parts when it was not given
// directly. Both the base and the file name are required; the subdirectory
// is optional.
func deriveHeroURL(values map[string]string) {
	if values["HERO_URL"] != "" {
		return
	}

	base := strings.TrimRight(values["ASSETS_BASE"], "/")
	sub := strings.Trim(values["ASSETS_SUBDIR"], "/")
	file := strings.TrimLeft(values["HERO_FILE"], "/")
	if base == "" || file == "" {
		return
	}

	parts := []string{base}
	if sub != "" {
		parts = append(parts, sub)
	}
	parts = append(parts, file)
	values["HERO_URL"] = strings.Join(parts, "/")
}
