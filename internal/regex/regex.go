package regex

import "regexp"

var (
	// Release lifecycle branches. Anchored at the end so "-a"/"-b" suffixes are not
	// mistaken for trailing text of a staging branch.
	StagingBranch = regexp.MustCompile(`^release/(\d+\.\d+\.\d+)$`)
	AlphaBranch   = regexp.MustCompile(`^release/(\d+\.\d+\.\d+)-a$`)
	BetaBranch    = regexp.MustCompile(`^release/(\d+\.\d+\.\d+)-b$`)

	// Hotfix branches
	HotfixParentBranch = regexp.MustCompile(`^hotfix/(\d+\.\d+\.\d+)$`)
	HotfixChildBranch  = regexp.MustCompile(`^hotfix/(\d+\.\d+\.\d+)-(.+)$`)

	// Issue and Ticket patterns
	JiraTicket      = regexp.MustCompile(`([A-Za-z]+-\d+)`)
	JiraTicketToken = regexp.MustCompile(`\b([A-Za-z]+-\d+)\b`)
	URLPrefix       = regexp.MustCompile(`(?i)^https?://`)

	// Branch name cleanup
	TitleSeparators = regexp.MustCompile(`[-_]+`)

	// Identity parsing ("Name <email>")
	EmailInBrackets = regexp.MustCompile(`<([^>]+)>`)

	// Slack member ids ("U012AB3CD")
	SlackMemberID = regexp.MustCompile(`^[UW][A-Z0-9]{8,}$`)

	// Git and Repo patterns
	SSHRepo   = regexp.MustCompile(`git@([^:]+):([^/]+)/(.+)\.git$`)
	HTTPSRepo = regexp.MustCompile(`https://([^/]+)/([^/]+)/(.+?)(?:\.git)?$`)
)
