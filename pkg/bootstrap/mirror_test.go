package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func readTestFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func pathExists(t *testing.T, root, rel string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	if err == nil {
		return true
	}
	require.True(t, os.IsNotExist(err))
	return false
}

func TestMirrorDir_CopiesTree(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "README.md", "# course")
	writeTestFile(t, src, "notebooks/week1/intro.ipynb", "{}")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.Equal(t, "# course", readTestFile(t, dst, "README.md"))
	assert.Equal(t, "{}", readTestFile(t, dst, "notebooks/week1/intro.ipynb"))
}

func TestMirrorDir_CreatesDestination(t *testing.T) {
	src := t.TempDir()
	writeTestFile(t, src, "a.txt", "a")
	dst := filepath.Join(t.TempDir(), "missing", "deep")

	require.NoError(t, MirrorDir(src, dst, nil))

	assert.Equal(t, "a", readTestFile(t, dst, "a.txt"))
}

func TestMirrorDir_OverwritesChangedFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "keep.txt", "new")
	writeTestFile(t, dst, "keep.txt", "old")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.Equal(t, "new", readTestFile(t, dst, "keep.txt"))
}

func TestMirrorDir_DeletesExtraEntries(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "keep.txt", "keep")
	writeTestFile(t, dst, "keep.txt", "keep")
	writeTestFile(t, dst, "stale.txt", "stale")
	writeTestFile(t, dst, "stale-dir/nested.txt", "stale")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.True(t, pathExists(t, dst, "keep.txt"))
	assert.False(t, pathExists(t, dst, "stale.txt"))
	assert.False(t, pathExists(t, dst, "stale-dir"))
}

func TestMirrorDir_NeverCopiesExcludedSourceEntries(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, ".git/HEAD", "ref: refs/heads/main")
	writeTestFile(t, src, ".DS_Store", "junk")
	writeTestFile(t, src, "notebooks/.DS_Store", "junk")
	writeTestFile(t, src, "_work/scratch.txt", "scratch")
	writeTestFile(t, src, ".github/workflows/ci.yml", "jobs:")
	writeTestFile(t, src, ".github/FUNDING.yml", "github: acme")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.False(t, pathExists(t, dst, ".git"))
	assert.False(t, pathExists(t, dst, ".DS_Store"))
	assert.False(t, pathExists(t, dst, "notebooks/.DS_Store"))
	assert.False(t, pathExists(t, dst, "_work"))
	assert.False(t, pathExists(t, dst, ".github/workflows"))
	assert.Equal(t, "github: acme", readTestFile(t, dst, ".github/FUNDING.yml"))
}

func TestMirrorDir_ProtectsExcludedDestinationEntries(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "index.md", "hello")
	writeTestFile(t, dst, ".git/config", "[core]")
	writeTestFile(t, dst, ".github/workflows/deploy.yml", "on: push")
	writeTestFile(t, dst, ".DS_Store", "junk")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.Equal(t, "[core]", readTestFile(t, dst, ".git/config"))
	assert.Equal(t, "on: push", readTestFile(t, dst, ".github/workflows/deploy.yml"))
	assert.True(t, pathExists(t, dst, ".DS_Store"))
	assert.Equal(t, "hello", readTestFile(t, dst, "index.md"))
}

func TestMirrorDir_KeepsShelteringDirs(t *testing.T) {
	// The destination .github exists only to hold workflows; the source has
	// no .github at all. The directory must survive the delete pass.
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "index.md", "hello")
	writeTestFile(t, dst, ".github/workflows/deploy.yml", "on: push")
	writeTestFile(t, dst, ".github/stale.md", "stale")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.Equal(t, "on: push", readTestFile(t, dst, ".github/workflows/deploy.yml"))
	assert.False(t, pathExists(t, dst, ".github/stale.md"))
}

func TestMirrorDir_RemovesOrphanDirectories(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "a.txt", "a")
	writeTestFile(t, dst, "orphan/deep/file.txt", "x")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.False(t, pathExists(t, dst, "orphan"))
}

func TestMirrorDir_WorkflowMirrorReplacesStaleWorkflows(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "site.yml", "new")
	writeTestFile(t, dst, "old.yml", "old")

	require.NoError(t, MirrorDir(src, dst, workflowExcludes))

	assert.Equal(t, "new", readTestFile(t, dst, "site.yml"))
	assert.False(t, pathExists(t, dst, "old.yml"))
}

func TestMirrorDir_ReplacesFileWithDirectory(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "thing/nested.txt", "dir now")
	writeTestFile(t, dst, "thing", "was a file")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.Equal(t, "dir now", readTestFile(t, dst, "thing/nested.txt"))
}

func TestMirrorDir_ReplacesDirectoryWithFile(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "thing", "file now")
	writeTestFile(t, dst, "thing/nested.txt", "was a dir")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.Equal(t, "file now", readTestFile(t, dst, "thing"))
}

func TestMirrorDir_MissingSource(t *testing.T) {
	err := MirrorDir(filepath.Join(t.TempDir(), "absent"), t.TempDir(), nil)
	assert.Error(t, err)
}

func TestMirrorDir_SourceMustBeDirectory(t *testing.T) {
	src := t.TempDir()
	writeTestFile(t, src, "file.txt", "x")

	err := MirrorDir(filepath.Join(src, "file.txt"), t.TempDir(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestMirrorDir_SecondRunIsStable(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, src, "a/b.txt", "b")
	writeTestFile(t, dst, ".github/workflows/deploy.yml", "on: push")

	require.NoError(t, MirrorDir(src, dst, rootExcludes))
	require.NoError(t, MirrorDir(src, dst, rootExcludes))

	assert.Equal(t, "b", readTestFile(t, dst, "a/b.txt"))
	assert.Equal(t, "on: push", readTestFile(t, dst, ".github/workflows/deploy.yml"))
}

func TestExcludeMatcher(t *testing.T) {
	m := newExcludeMatcher([]string{".git", ".github/workflows"})

	assert.True(t, m.matches(".git"))
	assert.True(t, m.matches("vendor/.git"))
	assert.True(t, m.matches(".github/workflows"))
	assert.True(t, m.matches(".github/workflows/ci.yml"))
	assert.False(t, m.matches(".github"))
	assert.False(t, m.matches("workflows"))
	assert.False(t, m.matches("docs/workflows.md"))
}
