package site

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reference is one bibliography entry from the repository's references.yml.
type Reference struct {
	Title  string
	Author string
	Year   string
	Note   string
	URL    string
}

// LoadReferences reads references.yml from the repository root. A missing
// file yields an empty list.
func LoadReferences(repoDir string) ([]Reference, error) {
	path := filepath.Join(repoDir, "references.yml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("references %s: %w", path, err)
	}

	// Field values can be any scalar; years in particular are usually bare
	// numbers in the YAML.
	var doc struct {
		References []map[string]any `yaml:"references"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("references %s: %w", path, err)
	}

	refs := make([]Reference, 0, len(doc.References))
	for _, raw := range doc.References {
		refs = append(refs, Reference{
			Title:  refField(raw, "title"),
			Author: refField(raw, "author"),
			Year:   refField(raw, "year"),
			Note:   refField(raw, "note"),
			URL:    refField(raw, "url"),
		})
	}
	return refs, nil
}

func refField(raw map[string]any, key string) string {
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", value))
}

// RenderReferencesHTML renders the reference list as an HTML fragment for
// literal substitution into the references page.
func RenderReferencesHTML(refs []Reference) string {
	if len(refs) == 0 {
		return `<p class="muted"><em>No references provided yet.</em></p>`
	}

	var items []string
	for _, ref := range refs {
		title := html.EscapeString(ref.Title)
		if title == "" {
			title = "Untitled"
		}

		titleHTML := "<strong>" + title + "</strong>"
		if ref.URL != "" {
			safeURL := html.EscapeString(ref.URL)
			titleHTML = fmt.Sprintf("<a href='%s' target='_blank' rel='noopener noreferrer'>%s</a>", safeURL, titleHTML)
		}

		parts := []string{titleHTML}

		var meta []string
		if ref.Author != "" {
			meta = append(meta, html.EscapeString(ref.Author))
		}
		if ref.Year != "" {
			meta = append(meta, html.EscapeString(ref.Year))
		}
		if len(meta) > 0 {
			parts = append(parts, "<div class='ref-meta'>"+strings.Join(meta, " — ")+"</div>")
		}
		if ref.Note != "" {
			parts = append(parts, "<div class='ref-note'><em>"+html.EscapeString(ref.Note)+"</em></div>")
		}

		items = append(items, "<li class='ref-item'>"+strings.Join(parts, "\n")+"</li>")
	}

	return "<ul class='ref-list'>\n" + strings.Join(items, "\n") + "\n</ul>"
}
