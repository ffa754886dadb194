package tickets

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thomas-vilte/matepr/internal/regex"
)

// ParseBranchName suggests tickets and a PR title from a branch name, e.g.
// "feature/PROJ-1-PROJ-2-some-fix" gives [PROJ-1 PROJ-2] and "Some Fix".
func ParseBranchName(name string) ([]string, string) {
	if _, rest, ok := strings.Cut(name, "/"); ok {
		name = rest
	}

	var ids []string
	for _, m := range regex.JiraTicket.FindAllString(name, -1) {
		ids = append(ids, strings.ToUpper(m))
		name = strings.ReplaceAll(name, m, "")
	}
	name = strings.Trim(name, " -_")

	title := strings.TrimSpace(regex.TitleSeparators.ReplaceAllString(name, " "))
	return ids, cases.Title(language.English).String(title)
}
