package models

type (
	// PullRequest is a pull request as reported by the hosting service.
	PullRequest struct {
		Number int    `json:"number"`
		URL    string `json:"url"`
		Title  string `json:"title"`
		Head   string `json:"head"`
		Base   string `json:"base"`
		Draft  bool   `json:"draft,omitempty"`
	}

	// PRRequest is everything needed to open one pull request.
	PRRequest struct {
		Title string
		Body  string
		Head  string
		Base  string
		Draft bool
	}

	// Preview is a rendered title/body pair shown before creation.
	Preview struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
)

// CreateOptions drives one creation run from a source into several targets.
type CreateOptions struct {
	Source      string
	Targets     []string
	Title       string
	Description string
	Tickets     []string
	Reviewers   []string
	Draft       bool
	Notify      bool
}

// PRResult is the outcome for a single target of a creation run.
type PRResult struct {
	Target    string   `json:"target"`
	Title     string   `json:"title,omitempty"`
	URL       string   `json:"url,omitempty"`
	Number    int      `json:"number,omitempty"`
	Skipped   bool     `json:"skipped,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	Error     string   `json:"error,omitempty"`
	Reviewers []string `json:"reviewers,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Created reports whether the target produced a new pull request.
func (r PRResult) Created() bool {
	return r.URL != "" && !r.Skipped && r.Error == ""
}

// CreateReport groups the per-target results of a run.
type CreateReport struct {
	Success bool       `json:"success"`
	Source  string     `json:"source"`
	Results []PRResult `json:"results"`
}

// RepoData is the snapshot printed by the data command.
type RepoData struct {
	CurrentBranch         string   `json:"current_branch"`
	RemoteBranches        []string `json:"remote_branches"`
	Contributors          []string `json:"contributors"`
	SuggestedTickets      []string `json:"suggested_tickets"`
	SuggestedTitle        string   `json:"suggested_title"`
	PersonalizedReviewers []string `json:"personalized_reviewers"`
	SuggestedReviewers    []string `json:"suggested_reviewers"`
}
