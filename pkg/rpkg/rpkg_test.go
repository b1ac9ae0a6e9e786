package rpkg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarl-lint/jarl/pkg/rpkg"
)

func TestScanAssignments(t *testing.T) {
	content := "foo <- function(x) {\n" +
		"  bar <- function(y) y\n" + // indented: inside a body
		"}\n" +
		"baz = function() 1\n" +
		"qux <- \\(x) x\n" +
		"# quux <- function() 1\n" +
		"functional <- 2\n" +
		"data <- c(1, 2)\n"

	got := rpkg.ScanAssignments(content)
	require.Len(t, got, 3)

	assert.Equal(t, "foo", got[0].Name)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, 1, got[0].Col)
	assert.Equal(t, 0, got[0].Range.Start)
	assert.Equal(t, 3, got[0].Range.End)

	assert.Equal(t, "baz", got[1].Name)
	assert.Equal(t, 4, got[1].Line)

	assert.Equal(t, "qux", got[2].Name)
	assert.Equal(t, 5, got[2].Line)
}

func TestScanAssignmentsIgnoresComparisonsAndCalls(t *testing.T) {
	content := "x == function() 1\n" +
		"foo(function() 1)\n" +
		"foo <- 1\n"
	assert.Empty(t, rpkg.ScanAssignments(content))
}

func makePackage(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "DESCRIPTION"), []byte("Package: demo\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "R"), 0o755))
	return root
}

func writeR(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, "R", name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInPackage(t *testing.T) {
	root := makePackage(t)
	path := writeR(t, root, "a.R", "foo <- function() 1\n")
	assert.True(t, rpkg.InPackage(path))

	loose := filepath.Join(t.TempDir(), "a.R")
	require.NoError(t, os.WriteFile(loose, []byte("foo <- function() 1\n"), 0o644))
	assert.False(t, rpkg.InPackage(loose))
}

func TestDuplicatesAcrossFiles(t *testing.T) {
	root := makePackage(t)
	a := writeR(t, root, "aaa.R", "foo <- function() 1\n")
	b := writeR(t, root, "bbb.R", "foo <- function() 2\nbar <- function() 3\n")

	dups := rpkg.Duplicates([]string{b, a})
	assert.NotContains(t, dups, a, "first definition is never flagged")
	require.Len(t, dups[b], 1)
	assert.Equal(t, "foo", dups[b][0].Name)
	assert.Contains(t, dups[b][0].Help, "aaa.R:1:1")
}

func TestDuplicatesWithinOneFile(t *testing.T) {
	root := makePackage(t)
	path := writeR(t, root, "a.R", "foo <- function() 1\nfoo <- function() 2\n")

	dups := rpkg.Duplicates([]string{path})
	require.Len(t, dups[path], 1)
	assert.Equal(t, "foo", dups[path][0].Name)
	assert.Contains(t, dups[path][0].Help, "a.R:1:1")
}

func TestDuplicatesAreScopedToOnePackage(t *testing.T) {
	rootA := makePackage(t)
	rootB := makePackage(t)
	a := writeR(t, rootA, "a.R", "foo <- function() 1\n")
	b := writeR(t, rootB, "a.R", "foo <- function() 1\n")

	assert.Empty(t, rpkg.Duplicates([]string{a, b}))
}

func TestDuplicatesIgnoresNonPackageFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.R")
	require.NoError(t, os.WriteFile(path, []byte("foo <- function() 1\nfoo <- function() 2\n"), 0o644))

	assert.Empty(t, rpkg.Duplicates([]string{path}))
}
