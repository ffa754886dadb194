package pr

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matepr/internal/codeowners"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/strategy"
)

type (
	MockPRService struct {
		mock.Mock
	}

	MockPrompter struct {
		mock.Mock
	}
)

func (m *MockPRService) Defaults() strategy.Defaults {
	args := m.Called()
	return args.Get(0).(strategy.Defaults)
}

func (m *MockPRService) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPRService) RemoteBranches(ctx context.Context, fetch bool) ([]string, error) {
	args := m.Called(ctx, fetch)
	branches, _ := args.Get(0).([]string)
	return branches, args.Error(1)
}

func (m *MockPRService) GatherData(ctx context.Context, fetch bool) (models.RepoData, error) {
	args := m.Called(ctx, fetch)
	return args.Get(0).(models.RepoData), args.Error(1)
}

func (m *MockPRService) Description(ctx context.Context, source, target string) (string, error) {
	args := m.Called(ctx, source, target)
	return args.String(0), args.Error(1)
}

func (m *MockPRService) Preview(ctx context.Context, opts models.CreateOptions, target string) (models.Preview, error) {
	args := m.Called(ctx, opts, target)
	return args.Get(0).(models.Preview), args.Error(1)
}

func (m *MockPRService) CreatePRs(ctx context.Context, opts models.CreateOptions) (models.CreateReport, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(models.CreateReport), args.Error(1)
}

func (m *MockPRService) Contributors(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]string)
	return list, args.Error(1)
}

func (m *MockPRService) SuggestReviewers(ctx context.Context, base, head string) ([]string, error) {
	args := m.Called(ctx, base, head)
	list, _ := args.Get(0).([]string)
	return list, args.Error(1)
}

func (m *MockPRService) ChangedFiles(ctx context.Context, base, head string) ([]string, error) {
	args := m.Called(ctx, base, head)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

func (m *MockPRService) OwnershipRules(ctx context.Context) ([]codeowners.Rule, string, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]codeowners.Rule)
	return rules, args.String(1), args.Error(2)
}

func (m *MockPrompter) Select(title string, options []string, def string) (string, error) {
	args := m.Called(title, options, def)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) MultiSelect(title string, options []string, selected []string) ([]string, error) {
	args := m.Called(title, options, selected)
	list, _ := args.Get(0).([]string)
	return list, args.Error(1)
}

func (m *MockPrompter) Input(title, def string) (string, error) {
	args := m.Called(title, def)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) Text(title, def string) (string, error) {
	args := m.Called(title, def)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) Confirm(title string, def bool) (bool, error) {
	args := m.Called(title, def)
	return args.Bool(0), args.Error(1)
}
