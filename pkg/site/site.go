// Package site builds a static course site from a repository of Jupyter
// notebooks. Every notebook is rendered to HTML via nbconvert, the
// resulting tree is embedded into the studies page, and the template's
// pages and assets are carried over with their placeholder tokens filled
// in.
package site

import (
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"studyforge/pkg/tokens"
)

// Options controls one site build.
type Options struct {
	// Src is the repository root scanned for notebooks.
	Src string
	// Out is the directory receiving the generated site.
	Out string
	// Template is the directory holding the page templates and assets.
	Template string
	// Title fills the TITLE token; empty derives a title from the source
	// directory name.
	Title string
	// Execute runs each notebook before rendering it.
	Execute bool
	// Config carries extra placeholder values for the page templates.
	Config map[string]string
}

// sitePages lists the template pages and whether they receive the tree.
var sitePages = []struct {
	name     string
	withTree bool
}{
	{"index.html", false},
	{"studies.html", true},
	{"publications.html", false},
	{"references.html", false},
}

// Builder renders notebook sites.
type Builder struct {
	conv Converter
}

// NewBuilder creates a Builder over the given notebook converter.
func NewBuilder(conv Converter) *Builder {
	return &Builder{conv: conv}
}

// Build generates the site and returns the number of notebooks converted.
// Template pages that do not exist are skipped; the template decides which
// of the four pages its site has.
func (b *Builder) Build(opts Options) (int, error) {
	src, err := filepath.Abs(opts.Src)
	if err != nil {
		return 0, err
	}
	out, err := filepath.Abs(opts.Out)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("site source %s: %w", src, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("site source %s is not a directory", src)
	}

	title := opts.Title
	if title == "" {
		title = "Notebooks Tree - " + filepath.Base(src)
	}

	if err := os.MkdirAll(out, 0755); err != nil {
		return 0, err
	}

	tree, count, err := b.collectTree(src, out, opts.Execute)
	if err != nil {
		return 0, err
	}

	values := make(map[string]string, len(opts.Config)+1)
	for k, v := range opts.Config {
		values[k] = v
	}

	refs, err := LoadReferences(src)
	if err != nil {
		fmt.Printf("⚠️  Ignoring invalid references.yml: %v\n", err)
	}
	values["REFERENCIAS"] = RenderReferencesHTML(refs)

	treeJSON, err := TreeJSON(tree)
	if err != nil {
		return 0, err
	}

	for _, page := range sitePages {
		tmplPath := filepath.Join(opts.Template, page.name)
		data, err := os.ReadFile(tmplPath)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("template %s: %w", tmplPath, err)
		}

		rendered := renderPage(string(data), title, count, values, treeJSON, page.withTree)
		if err := os.WriteFile(filepath.Join(out, page.name), []byte(rendered), 0644); err != nil {
			return 0, err
		}
	}

	for _, dir := range []string{"css", "assets", "js"} {
		if err := copyTree(filepath.Join(opts.Template, dir), filepath.Join(out, dir)); err != nil {
			return 0, err
		}
	}

	return count, nil
}

// renderPage fills the template tokens. The derived title is HTML escaped;
// config values and the tree JSON substitute literally so they can carry
// markup, and config values win over the built-in tokens.
func renderPage(tmpl, title string, nbCount int, values map[string]string, treeJSON string, withTree bool) string {
	repl := make(map[string]string, len(values)+3)
	for k, v := range values {
		repl[k] = v
	}
	if _, ok := repl["TITLE"]; !ok {
		repl["TITLE"] = html.EscapeString(title)
	}
	if _, ok := repl["TIMESTAMP"]; !ok {
		repl["TIMESTAMP"] = time.Now().UTC().Format("2006-01-02 15:04") + " UTC"
	}
	if _, ok := repl["NBCOUNT"]; !ok {
		repl["NBCOUNT"] = strconv.Itoa(nbCount)
	}
	if withTree {
		repl["TREE_JSON"] = treeJSON
	}
	return tokens.Replace(tmpl, repl)
}

// copyTree copies the whole tree under src into dst, overwriting files and
// keeping permissions. A missing src is a no-op; templates do not have to
// ship every asset directory.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("asset source %s is not a directory", src)
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, fi.Mode().Perm())
	})
}
