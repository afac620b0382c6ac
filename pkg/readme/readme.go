// Package readme renders a repository README and its SVG banners from
// central templates and per-repository placeholder values.
package readme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"studyforge/pkg/tokens"
)

// Options configures a README build
type Options struct {
	// RepoDir is the repository receiving the rendered README and assets.
	// Defaults to the current directory.
	RepoDir string

	// CentralDir holds README.template.md, the SVG templates and the
	// shared theme assets
	CentralDir string

	// Values are the merged placeholder values, typically from
	// LoadPlaceholders. Defaults are applied on top.
	Values map[string]string
}

// Result reports what a build produced
type Result struct {
	ReadmePath string
	SVGPaths   []string

	// ThemeAsset is the repo-relative path of the copied theme image,
	// empty when no theme matched
	ThemeAsset string
}

var placeholderDefaults = map[string]string{
	"ASSETS_DIR":   ".github/readme",
	"README_OUT":   "README.md",
	"REPO_TAGLINE": "lectures • notebooks • references",
	"BG_1":         "#0b1220",
	"BG_2":         "#111827",
	"TEXT_MAIN":    "#e5e7eb",
	"TEXT_MUTED":   "#9ca3af",
	"ACCENT":       "#93c5fd",
	"CARD_RADIUS":  "18",
	"THEME":        "",
	"THEME_ASSET":  "",
}

var svgTemplates = []struct {
	in  string
	out string
}{
	{"hero.template.svg", "hero.svg"},
	{"access-site.template.svg", "access-site.svg"},
	{"repo-card.template.svg", "repo-card.svg"},
}

var themeAssetExts = []string{".webp", ".gif", ".png", ".jpg", ".jpeg"}

var svgOpenTag = regexp.MustCompile(`<svg\b`)

// LoadPlaceholders loads placeholder values from a YAML file, or from every
// .yml/.yaml file under a directory merged in lexicographic order so later
// files win. An empty path yields an empty map; a named path must exist.
func LoadPlaceholders(path string) (map[string]string, error) {
	values := map[string]string{}
	if path == "" {
		return values, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("placeholders: %w", err)
	}
	if !info.IsDir() {
		if err := mergePlaceholderFile(path, values); err != nil {
			return nil, err
		}
		return values, nil
	}

	files, err := placeholderFiles(path)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := mergePlaceholderFile(f, values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func placeholderFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yml", ".yaml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("placeholders: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func mergePlaceholderFile(path string, values map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("placeholders %s: %w", path, err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("placeholders %s: %w", path, err)
	}
	for k, v := range raw {
		if v == nil {
			continue
		}
		values[k] = fmt.Sprintf("%v", v)
	}
	return nil
}

// Build renders the SVG banners and the README into the repository and
// returns the paths it wrote. Missing SVG templates are skipped; a missing
// README.template.md is an error.
func Build(opts Options) (*Result, error) {
	if opts.CentralDir == "" {
		return nil, fmt.Errorf("central template directory is required")
	}
	repoDir := opts.RepoDir
	if repoDir == "" {
		repoDir = "."
	}

	values := withDefaults(opts.Values)
	values["TIMESTAMP"] = time.Now().UTC().Format(time.RFC3339)

	assetsDir := filepath.Join(repoDir, filepath.FromSlash(values["ASSETS_DIR"]))
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("asset directory: %w", err)
	}

	result := &Result{}
	if theme := strings.TrimSpace(values["THEME"]); theme != "" {
		if src := pickThemeAsset(opts.CentralDir, theme); src != "" {
			outName := "theme" + strings.ToLower(filepath.Ext(src))
			if err := copyFile(src, filepath.Join(assetsDir, outName)); err != nil {
				return nil, fmt.Errorf("theme asset: %w", err)
			}
			values["THEME_ASSET"] = strings.TrimRight(values["ASSETS_DIR"], "/") + "/" + outName
			result.ThemeAsset = values["THEME_ASSET"]
		}
	}

	for _, tpl := range svgTemplates {
		raw, err := os.ReadFile(filepath.Join(opts.CentralDir, tpl.in))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("svg template: %w", err)
		}
		rendered := injectBuildAttr(tokens.Replace(string(raw), values), values["TIMESTAMP"])
		outPath := filepath.Join(assetsDir, tpl.out)
		if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
			return nil, fmt.Errorf("svg output: %w", err)
		}
		result.SVGPaths = append(result.SVGPaths, outPath)
	}

	raw, err := os.ReadFile(filepath.Join(opts.CentralDir, "README.template.md"))
	if err != nil {
		return nil, fmt.Errorf("readme template: %w", err)
	}
	readmePath := filepath.Join(repoDir, filepath.FromSlash(values["README_OUT"]))
	if err := os.WriteFile(readmePath, []byte(tokens.Replace(string(raw), values)), 0o644); err != nil {
		return nil, fmt.Errorf("readme output: %w", err)
	}
	result.ReadmePath = readmePath

	return result, nil
}

// withDefaults copies values and fills absent keys. CTA_TEXT falls back to
// BANNER_ACCESS_CTA before its built-in default so older configs keep working.
func withDefaults(values map[string]string) map[string]string {
	out := make(map[string]string, len(values)+len(placeholderDefaults)+1)
	for k, v := range values {
		out[k] = v
	}
	for k, v := range placeholderDefaults {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	if _, ok := out["CTA_TEXT"]; !ok {
		if cta, ok := out["BANNER_ACCESS_CTA"]; ok {
			out["CTA_TEXT"] = cta
		} else {
			out["CTA_TEXT"] = "Access the site →"
		}
	}
	return out
}

// pickThemeAsset returns the first central asset matching the theme name,
// trying extensions in order of preference
func pickThemeAsset(centralDir, theme string) string {
	for _, ext := range themeAssetExts {
		p := filepath.Join(centralDir, "assets", theme+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// injectBuildAttr stamps data-build onto the first svg element so rendered
// banners are distinguishable from stale ones. Templates that already carry
// a data-build attribute are left alone.
func injectBuildAttr(svg, timestamp string) string {
	if timestamp == "" || strings.Contains(svg, "data-build=") {
		return svg
	}
	loc := svgOpenTag.FindStringIndex(svg)
	if loc == nil {
		return svg
	}
	return svg[:loc[1]] + fmt.Sprintf(" data-build=%q", timestamp) + svg[loc[1]:]
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}
