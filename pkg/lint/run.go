package lint

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// Result is the outcome of linting one file.
type Result struct {
	Path        string
	Diagnostics []diagnostic.Diagnostic
	Fixed       int
	Err         error
}

// Cache lets the runner skip re-linting files whose content has not changed
// since the cached diagnostics were produced.
type Cache interface {
	Get(path string, content []byte) ([]diagnostic.Diagnostic, bool)
	Put(path string, content []byte, diags []diagnostic.Diagnostic)
}

// Runner lints a set of files concurrently. Files are independent, so each
// worker owns its file end to end and no state is shared across them.
type Runner struct {
	Options Options
	// Fix applies safe fixes in place, re-linting until no applicable
	// fixes remain.
	Fix bool
	// Workers bounds the goroutine pool. Zero or negative means one
	// worker per file.
	Workers int
	// Cache is optional. It is only consulted when not fixing: a fix run
	// rewrites files, which invalidates what it would cache.
	Cache Cache
	// Duplicates maps a file path to the package-duplicate findings the
	// pre-pass attributed to it.
	Duplicates map[string][]Duplicate
}

// Run lints every path and returns the results sorted by path.
func (r *Runner) Run(paths []string) []Result {
	results := make([]Result, len(paths))

	workers := r.Workers
	if workers <= 0 || workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.checkPath(paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}

func (r *Runner) checkPath(path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	opts := r.Options
	opts.PackageDuplicates = r.Duplicates[path]

	if r.Fix {
		return r.lintFix(path, string(content), opts)
	}

	if r.Cache != nil {
		if diags, ok := r.Cache.Get(path, content); ok {
			return Result{Path: path, Diagnostics: diags}
		}
	}

	diags, err := checkSource(string(content), opts)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("%s: %w", path, err)}
	}
	if r.Cache != nil {
		r.Cache.Put(path, content, diags)
	}
	return Result{Path: path, Diagnostics: diags}
}

// lintFix alternates linting and fixing until no applicable fix remains,
// then writes the rewritten file back once. The diagnostics of the final
// round are what the user sees: everything that survived fixing.
func (r *Runner) lintFix(path, source string, opts Options) Result {
	current := source
	fixed := 0
	var diags []diagnostic.Diagnostic
	for {
		var err error
		diags, err = checkSource(current, opts)
		if err != nil {
			return Result{Path: path, Err: fmt.Errorf("%s: %w", path, err)}
		}
		next, applied := ApplyFixes(current, diags)
		if applied == 0 {
			break
		}
		current = next
		fixed += applied
	}
	if current != source {
		if err := os.WriteFile(path, []byte(current), 0o644); err != nil {
			return Result{Path: path, Err: fmt.Errorf("write %s: %w", path, err)}
		}
	}
	return Result{Path: path, Diagnostics: diags, Fixed: fixed}
}

func checkSource(source string, opts Options) ([]diagnostic.Diagnostic, error) {
	tree, err := syntax.Parse(source)
	if err != nil {
		return nil, err
	}
	return Check(tree, opts), nil
}
