// Package inputs resolves command line input arguments, which may be plain
// paths or glob patterns, into the platform files to solve.
package inputs

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrNoMatch is returned when a pattern matches no file under the root
var ErrNoMatch = errors.New("pattern matches no input")

// Matcher matches slash separated relative paths against glob patterns.
// Besides the usual *, ? and [...] it understands ** for any number of
// directories.
type Matcher struct {
	patterns []string
	regexps  []*regexp.Regexp
}

// NewMatcher compiles the given patterns
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{
		patterns: make([]string, 0, len(patterns)),
		regexps:  make([]*regexp.Regexp, 0, len(patterns)),
	}

	for _, pattern := range patterns {
		pattern = Normalize(pattern)
		re, err := globToRegex(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, pattern)
		m.regexps = append(m.regexps, re)
	}

	return m, nil
}

// Match reports whether path matches any pattern
func (m *Matcher) Match(path string) bool {
	path = filepath.ToSlash(path)
	for _, re := range m.regexps {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Patterns returns the normalized patterns
func (m *Matcher) Patterns() []string {
	return m.patterns
}

func globToRegex(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")

	for i := 0; i < len(pattern); {
		switch c := pattern[i]; c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					// **/ also matches zero directories
					b.WriteString("(?:.*/)?")
					i += 3
				} else {
					b.WriteString(".*")
					i += 2
				}
				continue
			}
			b.WriteString("[^/]*")
			i++
		case '?':
			b.WriteString("[^/]")
			i++
		case '[':
			j := i + 1
			var class strings.Builder
			if j < len(pattern) && pattern[j] == '!' {
				class.WriteString("[^")
				j++
			} else {
				class.WriteString("[")
			}
			for j < len(pattern) && pattern[j] != ']' {
				if pattern[j] == '\\' && j+1 < len(pattern) {
					class.WriteByte(pattern[j])
					j++
				}
				class.WriteByte(pattern[j])
				j++
			}
			if j >= len(pattern) {
				// unclosed, literal bracket
				b.WriteString(`\[`)
				i++
				continue
			}
			class.WriteByte(']')
			b.WriteString(class.String())
			i = j + 1
		case '\\':
			if i+1 < len(pattern) {
				b.WriteString(regexp.QuoteMeta(pattern[i+1 : i+2]))
				i += 2
			} else {
				b.WriteString(`\\`)
				i++
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}

	b.WriteString("$")
	return regexp.Compile(b.String())
}

// IsPattern reports whether s contains glob wildcards
func IsPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// Normalize converts separators to slashes and strips a leading "./"
func Normalize(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	pattern = strings.TrimPrefix(pattern, "./")
	return strings.TrimSuffix(pattern, "/")
}

// skipDir reports directories never searched for inputs, such as the run
// state directory and version control metadata.
func skipDir(name string) bool {
	return name != "." && strings.HasPrefix(name, ".")
}

// Expand resolves args relative to root. Plain paths are returned as given;
// every pattern is replaced by the sorted relative paths of the regular
// files it matches. Duplicates keep their first position.
func Expand(root string, args []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if !IsPattern(arg) {
			add(arg)
			continue
		}

		matches, err := Glob(root, arg)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}

// Glob walks root and returns the slash separated relative paths of the
// regular files matching pattern.
func Glob(root, pattern string) ([]string, error) {
	m, err := NewMatcher([]string{pattern})
	if err != nil {
		return nil, err
	}

	var matches []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel = filepath.ToSlash(rel); m.Match(rel) {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", root, err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%s: %w", pattern, ErrNoMatch)
	}
	sort.Strings(matches)
	return matches, nil
}
