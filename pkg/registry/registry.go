// Package registry loads the course repository registry: a YAML document
// listing the repositories studyforge manages. The document is either a bare
// list of entries or a mapping whose top-level org is distributed onto
// entries that do not set their own.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry describes one repository in the registry. Bootstrap uses the
// identity fields; the remaining metadata feeds the posts generator.
type Entry struct {
	Org         string `yaml:"org,omitempty"`
	Name        string `yaml:"name"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Private     bool   `yaml:"private,omitempty"`

	ID              string `yaml:"id,omitempty"`
	CompletedOn     string `yaml:"completed_on,omitempty"`
	AcademicArea    string `yaml:"academic_area,omitempty"`
	AcademicLevel   string `yaml:"academic_level,omitempty"`
	SiteHeroImage   string `yaml:"site_hero_image,omitempty"`
	SiteDescription string `yaml:"site_description,omitempty"`
}

// document is the mapping form of the registry file.
type document struct {
	Org   string  `yaml:"org"`
	Repos []Entry `yaml:"repos"`
}

// ConfigError reports a registry document that cannot be used at all:
// missing file, unreadable file, or a document that is neither a list of
// entries nor a mapping with a repos list.
type ConfigError struct {
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("registry %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("registry: %s", e.Message)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Load reads and parses the registry file at path.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: "cannot read registry file", Cause: err}
	}
	return Parse(data, path)
}

// Parse parses a registry document. The path is only used in error messages.
// Entries keep document order; duplicates are preserved.
func Parse(data []byte, path string) ([]Entry, error) {
	// Bare list form first, then the mapping form. Anything else is a
	// malformed registry, reported before any network work starts.
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err == nil {
		trimEntries(entries)
		return entries, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Path: path, Message: "document must be a list of entries or a mapping with a repos list", Cause: err}
	}

	org := strings.TrimSpace(doc.Org)
	for i := range doc.Repos {
		if strings.TrimSpace(doc.Repos[i].Org) == "" {
			doc.Repos[i].Org = org
		}
	}
	trimEntries(doc.Repos)
	return doc.Repos, nil
}

func trimEntries(entries []Entry) {
	for i := range entries {
		entries[i].Org = strings.TrimSpace(entries[i].Org)
		entries[i].Name = strings.TrimSpace(entries[i].Name)
	}
}

// DefaultPath returns the conventional registry location for an organization,
// relative to the manager repository root.
func DefaultPath(org string) string {
	return filepath.Join("org", "org_registry", strings.ToLower(org)+"-registry.yml")
}

// NormalizeName maps a registry name onto the repository name GitHub
// actually creates: parentheses collapse to hyphens, everything else is
// taken as-is.
func NormalizeName(name string) string {
	return strings.NewReplacer("(", "-", ")", "-").Replace(name)
}

// Slug returns the normalized repository name for this entry.
func (e Entry) Slug() string {
	return NormalizeName(e.Name)
}

// FullName returns the org-qualified normalized name, e.g. "acme/algebra-1".
func (e Entry) FullName() string {
	return e.Org + "/" + e.Slug()
}

// DisplayDescription returns the description GitHub should carry for this
// entry: the explicit description, falling back to the title.
func (e Entry) DisplayDescription() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Title
}

var validRepoName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Validate checks that the entry can be bootstrapped. It collects every
// problem instead of stopping at the first one.
func (e Entry) Validate() error {
	var errs ValidationErrors

	if e.Org == "" {
		errs.Add("org", "", "organization is required")
	}

	name := e.Slug()
	switch {
	case name == "":
		errs.Add("name", "", "repository name is required")
	case len(name) > 100:
		errs.Add("name", name, "repository name must be 100 characters or less")
	case !validRepoName.MatchString(name):
		errs.Add("name", name, "repository name can only contain alphanumeric characters, periods, hyphens, and underscores")
	case strings.HasPrefix(name, ".") || strings.HasSuffix(name, "."):
		errs.Add("name", name, "repository name cannot start or end with a period")
	}

	if len(e.Description) > 350 {
		errs.Add("description", "", "description must be 350 characters or less")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidationError represents a single invalid entry field
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error for field '%s' (value: %s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e), strings.Join(messages, "; "))
}

// Add adds a validation error to the collection
func (e *ValidationErrors) Add(field, value, message string) {
	*e = append(*e, ValidationError{Field: field, Value: value, Message: message})
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}
