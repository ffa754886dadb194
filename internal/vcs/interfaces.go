package vcs

import (
	"context"

	"github.com/thomas-vilte/matepr/internal/models"
)

// VCSClient defines the hosting-service operations used when promoting branches.
type VCSClient interface {
	// FindOpenPR returns the open pull request from head into base, or nil when there is none.
	FindOpenPR(ctx context.Context, head, base string) (*models.PullRequest, error)
	// CreatePR opens a new pull request.
	CreatePR(ctx context.Context, req models.PRRequest) (*models.PullRequest, error)
	// RequestReviewers asks the given handles to review a pull request.
	RequestReviewers(ctx context.Context, number int, reviewers []string) error
	// ListContributors returns the logins of the repository contributors.
	ListContributors(ctx context.Context) ([]string, error)
	// GetAuthenticatedUser returns the login behind the configured token.
	GetAuthenticatedUser(ctx context.Context) (string, error)
	// SearchUserByEmail returns the login registered with email, or "" when nobody matches.
	SearchUserByEmail(ctx context.Context, email string) (string, error)
}
