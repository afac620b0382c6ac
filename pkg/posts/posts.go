// Package posts generates Jekyll post stubs from the course registry. Each
// entry becomes one front-matter-only markdown file; the ordering of the
// generated files fixes the modal-id every post is addressed by on the
// portfolio site.
package posts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"studyforge/pkg/registry"
)

// frontMatter is the Jekyll front matter of one generated post. Field order
// matters only for readability of the output; the site reads it by key.
type frontMatter struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Category    string `yaml:"category"`
	Area        string `yaml:"area"`
	Layout      string `yaml:"layout"`
	ModalID     int    `yaml:"modal-id"`
	Date        string `yaml:"date"`
	Img         string `yaml:"img"`
	Alt         string `yaml:"alt"`
	Description string `yaml:"description"`
}

// Generate writes one post per registry entry into outDir and returns the
// written paths in modal order. Entries are ordered by completion date and
// name; entries without a completion date count as completed today.
func Generate(entries []registry.Entry, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("posts output %s: %w", outDir, err)
	}

	today := time.Now().Format("2006-01-02")

	sorted := make([]registry.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := completionDate(sorted[i], today), completionDate(sorted[j], today)
		if di != dj {
			return di < dj
		}
		return sorted[i].Name < sorted[j].Name
	})

	var written []string
	for idx, entry := range sorted {
		if err := checkEntry(entry); err != nil {
			return written, err
		}

		date := completionDate(entry, today)
		fm := frontMatter{
			Title:       entry.ID + " " + entry.Title,
			Link:        "/" + entry.Name,
			Category:    entry.AcademicLevel,
			Area:        entry.AcademicArea,
			Layout:      "default",
			ModalID:     idx + 1,
			Date:        date,
			Img:         entry.SiteHeroImage,
			Alt:         "image-alt",
			Description: entry.SiteDescription,
		}

		data, err := yaml.Marshal(fm)
		if err != nil {
			return written, err
		}

		path := filepath.Join(outDir, fmt.Sprintf("%s-%s.markdown", date, entry.Name))
		content := "---\n" + string(data) + "---\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, err
		}

		fmt.Printf("✓ Generated %s\n", path)
		written = append(written, path)
	}

	return written, nil
}

func completionDate(e registry.Entry, today string) string {
	if e.CompletedOn != "" {
		return e.CompletedOn
	}
	return today
}

func checkEntry(e registry.Entry) error {
	var missing []string
	if e.Name == "" {
		missing = append(missing, "name")
	}
	if e.ID == "" {
		missing = append(missing, "id")
	}
	if e.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return fmt.Errorf("post entry %q is missing required fields: %s", e.Name, strings.Join(missing, ", "))
	}
	return nil
}
