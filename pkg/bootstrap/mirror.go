package bootstrap

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// rootExcludes protects version control metadata and the workflow area
// during the root mirror; workflow files arrive only from the workflow
// template.
var rootExcludes = []string{".git", ".DS_Store", "_work", ".github/workflows"}

// workflowExcludes applies to the workflow template mirror.
var workflowExcludes = []string{".git", ".DS_Store"}

// MirrorDir makes dst an exact copy of src: every file is copied over and
// every destination entry absent from the source is deleted. Excluded
// entries are neither copied nor deleted; a pattern containing a slash
// matches that relative path, a bare name matches at any depth. Directories
// that only survive because they shelter excluded entries are kept.
func MirrorDir(src, dst string, exclude []string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("mirror source %s: %w", src, err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("mirror source %s is not a directory", src)
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("mirror destination %s: %w", dst, err)
	}

	matcher := newExcludeMatcher(exclude)

	if err := mirrorCopy(src, dst, matcher); err != nil {
		return fmt.Errorf("mirror %s -> %s: %w", src, dst, err)
	}
	if err := mirrorDelete(src, dst, matcher); err != nil {
		return fmt.Errorf("mirror %s -> %s: %w", src, dst, err)
	}
	return nil
}

func mirrorCopy(src, dst string, matcher *excludeMatcher) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matcher.matches(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, filepath.FromSlash(rel))
		if d.IsDir() {
			// A file in the way of a directory loses
			if st, statErr := os.Lstat(target); statErr == nil && !st.IsDir() {
				if rmErr := os.Remove(target); rmErr != nil {
					return rmErr
				}
			}
			return os.MkdirAll(target, 0755)
		}
		return copyFile(p, target, d)
	})
}

func copyFile(src, dst string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	// A directory in the way of a file loses
	if st, statErr := os.Lstat(dst); statErr == nil && st.IsDir() {
		if rmErr := os.RemoveAll(dst); rmErr != nil {
			return rmErr
		}
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode().Perm())
}

func mirrorDelete(src, dst string, matcher *excludeMatcher) error {
	// Directories whose source vanished are emptied child by child, then
	// removed only if nothing protected is left inside.
	var orphanDirs []string

	err := filepath.WalkDir(dst, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		rel, err := filepath.Rel(dst, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matcher.matches(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		_, statErr := os.Stat(filepath.Join(src, filepath.FromSlash(rel)))
		if statErr == nil {
			return nil
		}
		if !os.IsNotExist(statErr) {
			return statErr
		}

		if d.IsDir() {
			orphanDirs = append(orphanDirs, p)
			return nil
		}
		return os.Remove(p)
	})
	if err != nil {
		return err
	}

	for i := len(orphanDirs) - 1; i >= 0; i-- {
		// Fails on directories still holding excluded entries; they stay.
		_ = os.Remove(orphanDirs[i])
	}
	return nil
}

type excludeMatcher struct {
	names map[string]bool
	paths map[string]bool
}

func newExcludeMatcher(patterns []string) *excludeMatcher {
	m := &excludeMatcher{
		names: make(map[string]bool),
		paths: make(map[string]bool),
	}
	for _, pattern := range patterns {
		pattern = path.Clean(filepath.ToSlash(pattern))
		if pattern == "." || pattern == "" {
			continue
		}
		if strings.Contains(pattern, "/") {
			m.paths[pattern] = true
		} else {
			m.names[pattern] = true
		}
	}
	return m
}

func (m *excludeMatcher) matches(rel string) bool {
	if m.names[path.Base(rel)] {
		return true
	}
	for p := rel; p != "." && p != "/"; p = path.Dir(p) {
		if m.paths[p] {
			return true
		}
	}
	return false
}
