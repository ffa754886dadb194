package services

import (
	"fmt"
	"strings"
	"text/template"

	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/tickets"
)

// DefaultPRTemplate is used when the config does not set pr_template.
const DefaultPRTemplate = `## Tickets
{{.Tickets}}

## Description
{{.Description}}
`

type bodyData struct {
	Tickets     string
	Description string
}

// RenderTitle builds "[ID1][ID2][title][source] -> [target]". Empty parts are left out.
func RenderTitle(ids []string, title, source, target string) string {
	var b strings.Builder
	b.WriteString(tickets.Prefix(ids))
	if title = strings.TrimSpace(title); title != "" {
		b.WriteString("[" + title + "]")
	}
	fmt.Fprintf(&b, "[%s] -> [%s]", source, target)
	return b.String()
}

// RenderBody fills tmpl with the ticket links and the description.
func RenderBody(tmpl string, ticketInputs []string, baseURL, description string) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultPRTemplate
	}

	t, err := template.New("pr").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return "", domainErrors.ErrInvalidConfig.
			WithError(err).
			WithContext("field", "pr_template")
	}

	var b strings.Builder
	if err := t.Execute(&b, bodyData{
		Tickets:     TicketSection(ticketInputs, baseURL),
		Description: description,
	}); err != nil {
		return "", domainErrors.ErrInvalidConfig.
			WithError(err).
			WithContext("field", "pr_template")
	}
	return b.String(), nil
}

// TicketSection renders one normalized link per input line, or "None".
func TicketSection(inputs []string, baseURL string) string {
	var links []string
	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			continue
		}
		links = append(links, tickets.NormalizeLink(in, baseURL))
	}
	if len(links) == 0 {
		return "None"
	}
	return strings.Join(links, "\n")
}
