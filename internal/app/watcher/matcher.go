package watcher

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher checks if file names match the watched patterns
type Matcher interface {
	Match(path string) bool
}

type matcher struct {
	patterns []glob.Glob
	ignores  []glob.Glob
}

// NewMatcher creates a Matcher from include and ignore patterns matched against base names
func NewMatcher(includes, ignores []string) (Matcher, error) {
	m := &matcher{
		patterns: make([]glob.Glob, 0, len(includes)),
		ignores:  make([]glob.Glob, 0, len(ignores)),
	}

	for _, p := range includes {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}

		m.patterns = append(m.patterns, g)
	}

	for _, p := range ignores {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}

		m.ignores = append(m.ignores, g)
	}

	return m, nil
}

// Match returns true if the base name of path matches a pattern and no ignore
func (m *matcher) Match(path string) bool {
	name := filepath.Base(filepath.ToSlash(strings.TrimSpace(path)))

	for _, ignore := range m.ignores {
		if ignore.Match(name) {
			return false
		}
	}

	for _, pattern := range m.patterns {
		if pattern.Match(name) {
			return true
		}
	}

	return false
}
