// Package codeowners parses CODEOWNERS rules and computes the owners of a set
// of changed paths.
//
// Rules are evaluated in the order they were written and the last matching
// rule wins for each path. Matching earlier rules are discarded, not merged.
package codeowners

import (
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Rule is one "<pattern> <owner>..." line.
type Rule struct {
	Pattern string   `json:"pattern"`
	Owners  []string `json:"owners"`
	Line    int      `json:"line"`

	matchers []glob.Glob
}

// ParseRules reads CODEOWNERS text. Blank lines and comments are ignored, as
// are lines with a pattern but no owner. Declaration order is preserved.
func ParseRules(text string) []Rule {
	var rules []Rule
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		owners := make([]string, 0, len(fields)-1)
		for _, f := range fields[1:] {
			if strings.HasPrefix(f, "#") {
				break
			}
			owners = append(owners, f)
		}
		if len(owners) == 0 {
			continue
		}

		rules = append(rules, NewRule(fields[0], owners, i+1))
	}
	return rules
}

// NewRule compiles a rule. A pattern that does not compile never matches.
func NewRule(pattern string, owners []string, line int) Rule {
	return Rule{
		Pattern:  pattern,
		Owners:   owners,
		Line:     line,
		matchers: compile(pattern),
	}
}

// Matches reports whether the rule applies to a repository relative path.
func (r Rule) Matches(path string) bool {
	path = cleanPath(path)
	for _, m := range r.matchers {
		if m.Match(path) {
			return true
		}
	}
	return false
}

// compile expands a CODEOWNERS pattern into the globs that implement it.
// A leading "/" anchors at the root, otherwise the pattern may match at any
// depth. A trailing "/" matches the directory itself and its contents. A
// pattern whose last segment is a plain name also covers a directory of that
// name, while "docs/*" stays limited to direct children.
func compile(pattern string) []glob.Glob {
	p, anchored := strings.CutPrefix(pattern, "/")
	p, dirOnly := strings.CutSuffix(p, "/")
	if p == "" {
		p = "**"
	}

	bases := []string{p}
	if !anchored && !strings.HasPrefix(p, "**") {
		bases = append(bases, "**/"+p)
	}

	below := dirOnly || !hasMeta(p[strings.LastIndex(p, "/")+1:])

	var exprs []string
	for _, b := range bases {
		exprs = append(exprs, b)
		if below {
			exprs = append(exprs, b+"/**")
		}
	}

	matchers := make([]glob.Glob, 0, len(exprs))
	for _, e := range exprs {
		g, err := glob.Compile(e, '/')
		if err != nil {
			return nil
		}
		matchers = append(matchers, g)
	}
	return matchers
}

func hasMeta(segment string) bool {
	return strings.ContainsAny(segment, "*?[{")
}

// OwnerOf returns the rule that decides the owners of path, if any.
func OwnerOf(path string, rules []Rule) (Rule, bool) {
	var (
		last  Rule
		found bool
	)
	for _, r := range rules {
		if r.Matches(path) {
			last, found = r, true
		}
	}
	return last, found
}

// MatchOwners returns the owners of the changed paths. Leading "@" is
// stripped from every owner. When valid is not empty only owners present in
// it (case-insensitively) are kept, using the casing from valid. The result is
// sorted and has no duplicates.
func MatchOwners(paths []string, rules []Rule, valid []string) []string {
	canonical := make(map[string]string, len(valid))
	for _, v := range valid {
		h := strings.TrimPrefix(strings.TrimSpace(v), "@")
		if h != "" {
			canonical[strings.ToLower(h)] = h
		}
	}

	set := make(map[string]struct{})
	for _, p := range paths {
		r, ok := OwnerOf(p, rules)
		if !ok {
			continue
		}
		for _, raw := range r.Owners {
			h := NormalizeHandle(raw)
			if h == "" {
				continue
			}
			if len(canonical) > 0 {
				c, known := canonical[strings.ToLower(h)]
				if !known {
					continue
				}
				h = c
			}
			set[h] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// NormalizeHandle strips the leading "@" from an owner token.
func NormalizeHandle(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "@")
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}
