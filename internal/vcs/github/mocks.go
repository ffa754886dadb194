package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockPRService struct {
	mock.Mock
}

func (m *MockPRService) List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	prs, _ := args.Get(0).([]*github.PullRequest)
	resp, _ := args.Get(1).(*github.Response)
	return prs, resp, args.Error(2)
}

func (m *MockPRService) Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, pull)
	pr, _ := args.Get(0).(*github.PullRequest)
	resp, _ := args.Get(1).(*github.Response)
	return pr, resp, args.Error(2)
}

func (m *MockPRService) RequestReviewers(ctx context.Context, owner, repo string, number int, reviewers github.ReviewersRequest) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, reviewers)
	pr, _ := args.Get(0).(*github.PullRequest)
	resp, _ := args.Get(1).(*github.Response)
	return pr, resp, args.Error(2)
}

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) ListContributors(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	contributors, _ := args.Get(0).([]*github.Contributor)
	resp, _ := args.Get(1).(*github.Response)
	return contributors, resp, args.Error(2)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, user string) (*github.User, *github.Response, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*github.User)
	resp, _ := args.Get(1).(*github.Response)
	return u, resp, args.Error(2)
}

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Users(ctx context.Context, query string, opts *github.SearchOptions) (*github.UsersSearchResult, *github.Response, error) {
	args := m.Called(ctx, query, opts)
	result, _ := args.Get(0).(*github.UsersSearchResult)
	resp, _ := args.Get(1).(*github.Response)
	return result, resp, args.Error(2)
}
