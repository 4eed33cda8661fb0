package safety

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// PatternSet is a compiled set of glob patterns matched against file
// basenames. Matching is case-sensitive and whole-name: "*.key" matches
// "id_rsa.key" but not "key.txt".
type PatternSet struct {
	patterns []pattern
}

type pattern struct {
	source   string
	compiled glob.Glob
}

// CompilePatterns compiles the given glob patterns. A malformed pattern
// is a configuration error and fails compilation as a whole.
func CompilePatterns(sources []string) (*PatternSet, error) {
	ps := &PatternSet{}
	for _, src := range sources {
		g, err := glob.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", src, err)
		}
		ps.patterns = append(ps.patterns, pattern{source: src, compiled: g})
	}
	return ps, nil
}

// Match reports whether any pattern matches the basename of name, and
// returns the first matching pattern.
func (ps *PatternSet) Match(name string) (string, bool) {
	base := filepath.Base(name)
	for _, p := range ps.patterns {
		if p.compiled.Match(base) {
			return p.source, true
		}
	}
	return "", false
}

// Len returns the number of patterns in the set.
func (ps *PatternSet) Len() int {
	return len(ps.patterns)
}
