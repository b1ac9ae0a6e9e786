package scanner

import (
	"path"
	"strings"
)

// IgnorePattern is a single gitignore-style pattern from a .jarlignore file
// or the configured exclude list.
type IgnorePattern struct {
	raw        string
	isNegation bool // pattern starts with !
	matchesDir bool // pattern ends with /, matches the dir and its contents
	anchored   bool // pattern starts with /, matches from the root only
	segments   []string
}

// ParseIgnorePattern parses a gitignore-style pattern string.
func ParseIgnorePattern(pattern string) IgnorePattern {
	p := IgnorePattern{raw: pattern}

	if strings.HasPrefix(pattern, "!") {
		p.isNegation = true
		pattern = pattern[1:]
	}
	if strings.HasSuffix(pattern, "/") {
		p.matchesDir = true
		pattern = strings.TrimSuffix(pattern, "/")
	}
	if strings.HasPrefix(pattern, "/") {
		p.anchored = true
		pattern = pattern[1:]
	}

	p.segments = strings.Split(pattern, "/")
	return p
}

// IsNegation returns true if this pattern re-includes matching paths.
func (p IgnorePattern) IsNegation() bool {
	return p.isNegation
}

// Match reports whether the slash-separated relative path matches the
// pattern. Directory patterns match the directory itself and anything
// inside it.
func (p IgnorePattern) Match(relPath string) bool {
	pathSegs := strings.Split(relPath, "/")

	if p.anchored {
		return matchSegments(p.segments, pathSegs, p.matchesDir)
	}
	for start := 0; start < len(pathSegs); start++ {
		if matchSegments(p.segments, pathSegs[start:], p.matchesDir) {
			return true
		}
	}
	return false
}

// matchSegments matches pattern segments against path segments. A "**"
// pattern segment spans any number of path segments. When prefix is true a
// fully consumed pattern matches even if path segments remain, which gives
// directory patterns their contents.
func matchSegments(patSegs, pathSegs []string, prefix bool) bool {
	if len(patSegs) == 0 {
		return prefix || len(pathSegs) == 0
	}

	if patSegs[0] == "**" {
		for i := 0; i <= len(pathSegs); i++ {
			if matchSegments(patSegs[1:], pathSegs[i:], prefix) {
				return true
			}
		}
		return false
	}

	if len(pathSegs) == 0 {
		return false
	}

	ok, err := path.Match(patSegs[0], pathSegs[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(patSegs[1:], pathSegs[1:], prefix)
}
