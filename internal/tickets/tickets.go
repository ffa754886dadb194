// Package tickets extracts issue tracker ids (PROJ-123) from free text, URLs
// and branch names and renders them as markdown links.
package tickets

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/matepr/internal/regex"
)

// Reference is a ticket id extracted from user input.
type Reference struct {
	ID  string `json:"id"`
	Raw string `json:"raw"`
}

// Parse builds a Reference from user input.
func Parse(raw string) (Reference, bool) {
	id, ok := ExtractID(raw)
	if !ok {
		return Reference{Raw: raw}, false
	}
	return Reference{ID: id, Raw: raw}, true
}

// ExtractID returns the first whole-word ticket id in text, uppercased.
func ExtractID(text string) (string, bool) {
	m := regex.JiraTicketToken.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// IsURL reports whether text looks like an http(s) URL.
func IsURL(text string) bool {
	return regex.URLPrefix.MatchString(strings.TrimSpace(text))
}

// NormalizeLink renders text as a markdown link. A ticket id links to the
// input itself when it is a URL, or to baseURL + id otherwise. URLs without an
// id get a generic label and anything else is returned unchanged.
func NormalizeLink(text, baseURL string) string {
	text = strings.TrimSpace(text)

	if id, ok := ExtractID(text); ok {
		url := text
		if !IsURL(text) {
			url = strings.TrimRight(baseURL, "/") + "/" + id
		}
		return fmt.Sprintf("[%s](%s)", id, url)
	}

	if IsURL(text) {
		return fmt.Sprintf("[%s](%s)", linkLabel(text), text)
	}
	return text
}

func linkLabel(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "release"):
		return "Release"
	case strings.Contains(lower, "version"):
		return "Version"
	default:
		return "Link"
	}
}

// Prefix renders ids as the "[ID1][ID2]" title prefix.
func Prefix(ids []string) string {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString("[" + id + "]")
	}
	return b.String()
}

// IDs extracts the id of every input that has one, in order and without
// duplicates.
func IDs(inputs []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, in := range inputs {
		id, ok := ExtractID(in)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
