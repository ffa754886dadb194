package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/notify/slack"
)

type (
	MockGitService struct {
		mock.Mock
	}

	MockVCSClient struct {
		mock.Mock
	}

	MockNotifier struct {
		mock.Mock
	}
)

func (m *MockGitService) FetchAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGitService) GetRepoRoot(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) GetCurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) GetRemoteBranches(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	branches, _ := args.Get(0).([]string)
	return branches, args.Error(1)
}

func (m *MockGitService) GetCommitsBetween(ctx context.Context, base, head string) ([]string, error) {
	args := m.Called(ctx, base, head)
	commits, _ := args.Get(0).([]string)
	return commits, args.Error(1)
}

func (m *MockGitService) GetChangedFilesBetween(ctx context.Context, base, head string) ([]string, error) {
	args := m.Called(ctx, base, head)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

func (m *MockGitService) GetGitUserInfo(ctx context.Context) (string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockGitService) GetRepoInfo(ctx context.Context) (string, string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

func (m *MockVCSClient) FindOpenPR(ctx context.Context, head, base string) (*models.PullRequest, error) {
	args := m.Called(ctx, head, base)
	pr, _ := args.Get(0).(*models.PullRequest)
	return pr, args.Error(1)
}

func (m *MockVCSClient) CreatePR(ctx context.Context, req models.PRRequest) (*models.PullRequest, error) {
	args := m.Called(ctx, req)
	pr, _ := args.Get(0).(*models.PullRequest)
	return pr, args.Error(1)
}

func (m *MockVCSClient) RequestReviewers(ctx context.Context, number int, reviewers []string) error {
	args := m.Called(ctx, number, reviewers)
	return args.Error(0)
}

func (m *MockVCSClient) ListContributors(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]string)
	return list, args.Error(1)
}

func (m *MockVCSClient) GetAuthenticatedUser(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockVCSClient) SearchUserByEmail(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockNotifier) Send(ctx context.Context, msg slack.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
