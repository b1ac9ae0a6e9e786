package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

func diags(rule string) []diagnostic.Diagnostic {
	return []diagnostic.Diagnostic{
		diagnostic.New(rule, "message", "help", syntax.Range{Start: 0, End: 7}),
	}
}

func TestCache_GetPut(t *testing.T) {
	c := New(Options{MaxSize: 10})

	content := []byte("x == NA\n")
	_, found := c.Get("a.R", content)
	require.False(t, found)

	c.Put("a.R", content, diags("equals_na"))

	got, found := c.Get("a.R", content)
	require.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, "equals_na", got[0].Rule)
}

func TestCache_KeyedByContentNotPath(t *testing.T) {
	c := New(Options{MaxSize: 10})

	content := []byte("browser()\n")
	c.Put("a.R", content, diags("browser"))

	got, found := c.Get("b.R", content)
	require.True(t, found, "identical content under another path should hit")
	assert.Equal(t, "browser", got[0].Rule)

	_, found = c.Get("a.R", []byte("browser() # edited\n"))
	assert.False(t, found, "edited content should miss")
}

func TestCache_EmptyDiagnosticsAreCached(t *testing.T) {
	c := New(Options{MaxSize: 10})

	content := []byte("x <- 1\n")
	c.Put("clean.R", content, nil)

	got, found := c.Get("clean.R", content)
	require.True(t, found)
	assert.Empty(t, got)
}

func TestCache_LRUEviction(t *testing.T) {
	c := New(Options{MaxSize: 3})

	a := []byte("a")
	b := []byte("b")
	d := []byte("d")
	e := []byte("e")

	c.Put("a.R", a, diags("browser"))
	c.Put("b.R", b, diags("browser"))
	c.Put("d.R", d, diags("browser"))

	// Touch 'a' so 'b' becomes the eviction candidate.
	_, found := c.Get("a.R", a)
	require.True(t, found)

	c.Put("e.R", e, diags("browser"))

	assert.Equal(t, 3, c.Len())

	_, found = c.Get("b.R", b)
	assert.False(t, found, "b should have been evicted")
	_, found = c.Get("a.R", a)
	assert.True(t, found)
	_, found = c.Get("e.R", e)
	assert.True(t, found)
}

func TestCache_Stats(t *testing.T) {
	c := New(Options{})

	content := []byte("x\n")
	c.Get("x.R", content)
	c.Put("x.R", content, nil)
	c.Get("x.R", content)
	c.Get("x.R", content)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestCache_Clear(t *testing.T) {
	c := New(Options{})

	content := []byte("x == NA\n")
	c.Put("x.R", content, diags("equals_na"))
	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, found := c.Get("x.R", content)
	assert.False(t, found)
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultDir, DefaultFile)

	c := New(Options{})
	content := []byte("x == NA\n")
	want := []diagnostic.Diagnostic{
		diagnostic.New("equals_na",
			"Comparing to NA with `==`, `!=` or `%in%` is problematic.",
			"Use `is.na()` instead.",
			syntax.Range{Start: 0, End: 7},
		).WithFix(diagnostic.Fix{Content: "is.na(x)", Start: 0, End: 7}),
	}
	c.Put("x.R", content, want)
	require.NoError(t, c.Save(path))

	loaded := New(Options{})
	require.NoError(t, loaded.Load(path))

	got, found := loaded.Get("x.R", content)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestCache_SavePreservesRecencyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")

	c := New(Options{})
	for i := 0; i < 4; i++ {
		c.Put("f.R", []byte(fmt.Sprintf("content %d", i)), nil)
	}
	require.NoError(t, c.Save(path))

	loaded := New(Options{MaxSize: 2})
	require.NoError(t, loaded.Load(path))

	// Only the two most recently used entries fit.
	assert.Equal(t, 2, loaded.Len())
	_, found := loaded.Get("f.R", []byte("content 3"))
	assert.True(t, found)
	_, found = loaded.Get("f.R", []byte("content 0"))
	assert.False(t, found)
}

func TestCache_LoadMissingFile(t *testing.T) {
	c := New(Options{})
	require.NoError(t, c.Load(filepath.Join(t.TempDir(), "nope.bin")))
	assert.Equal(t, 0, c.Len())
}

func TestCache_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a cache"), 0o644))

	c := New(Options{})
	require.NoError(t, c.Load(path))
	assert.Equal(t, 0, c.Len())
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", ".jarl", "cache.bin"), DefaultPath("proj"))
}
