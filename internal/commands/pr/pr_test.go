package pr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matepr/internal/codeowners"
	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/strategy"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/urfave/cli/v3"
)

func setupTest(t *testing.T) (*MockPRService, PRServiceProvider, *i18n.Translations, *config.Config) {
	t.Helper()

	prev := ui.Out
	ui.Out = io.Discard
	t.Cleanup(func() { ui.Out = prev })

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	svc := new(MockPRService)
	provider := func(ctx context.Context) (PRService, error) {
		return svc, nil
	}
	cfg := &config.Config{Language: "en", DefaultTargetBranch: "main"}
	return svc, provider, translations, cfg
}

func failingProvider(ctx context.Context) (PRService, error) {
	return nil, errors.New("factory error")
}

func run(t *testing.T, cmd *cli.Command, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.Writer = &buf
	err := cmd.Run(context.Background(), append([]string{cmd.Name}, args...))
	return &buf, err
}

func TestDataCommand(t *testing.T) {
	t.Run("should print repository data as JSON", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("GatherData", mock.Anything, true).Return(models.RepoData{
			CurrentBranch:  "feature/PROJ-1-login",
			RemoteBranches: []string{"develop", "main"},
		}, nil)
		cmd := NewDataCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "--fetch")

		// Assert
		require.NoError(t, err)
		var data models.RepoData
		require.NoError(t, json.Unmarshal(out.Bytes(), &data))
		assert.Equal(t, "feature/PROJ-1-login", data.CurrentBranch)
		assert.Equal(t, []string{"develop", "main"}, data.RemoteBranches)
		svc.AssertExpectations(t)
	})

	t.Run("should print the error document when gathering fails", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("GatherData", mock.Anything, false).Return(models.RepoData{}, domainErrors.ErrNotInGitRepo)
		cmd := NewDataCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, domainErrors.ErrNotInGitRepo)
		assert.Contains(t, out.String(), `"error"`)
	})

	t.Run("should fail when factory returns error", func(t *testing.T) {
		// Arrange
		_, _, translations, cfg := setupTest(t)
		cmd := NewDataCommand(failingProvider).CreateCommand(translations, cfg)

		// Act
		_, err := run(t, cmd)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "factory error")
	})
}

func TestDescriptionCommand(t *testing.T) {
	t.Run("should require source and target", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		cmd := NewDescriptionCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "--source", "feature/x")

		// Assert
		require.Error(t, err)
		assert.Contains(t, out.String(), `"error"`)
		svc.AssertNotCalled(t, "Description", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should print the commit based description", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("Description", mock.Anything, "feature/x", "develop").Return("- fix login\n- add tests", nil)
		cmd := NewDescriptionCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "-s", "feature/x", "-t", "develop")

		// Assert
		require.NoError(t, err)
		var got map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "- fix login\n- add tests", got["description"])
	})
}

func TestPreviewCommand(t *testing.T) {
	t.Run("should preview against the first target", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		opts := models.CreateOptions{
			Source:  "feature/x",
			Targets: []string{"develop", "main"},
			Title:   "Login",
			Tickets: []string{"PROJ-1"},
		}
		svc.On("Preview", mock.Anything, opts, "develop").Return(models.Preview{
			Title: "[PROJ-1][Login][feature/x] -> [develop]",
			Body:  "body",
		}, nil)
		cmd := NewPreviewCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "-s", "feature/x", "-t", "develop", "-t", "main", "--title", "Login", "--ticket", "PROJ-1")

		// Assert
		require.NoError(t, err)
		var got models.Preview
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "[PROJ-1][Login][feature/x] -> [develop]", got.Title)
		svc.AssertExpectations(t)
	})
}

func TestCreateCommand(t *testing.T) {
	t.Run("should create pull requests and print the report", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("RemoteBranches", mock.Anything, true).Return([]string{"develop"}, nil)
		svc.On("CreatePRs", mock.Anything, mock.MatchedBy(func(o models.CreateOptions) bool {
			return o.Source == "feature/x" &&
				assert.ObjectsAreEqual([]string{"develop"}, o.Targets) &&
				assert.ObjectsAreEqual([]string{"alice", "bob"}, o.Reviewers) &&
				o.Draft && o.Notify
		})).Return(models.CreateReport{
			Success: true,
			Source:  "feature/x",
			Results: []models.PRResult{{Target: "develop", URL: "https://github.com/o/r/pull/1", Number: 1}},
		}, nil)
		cmd := NewCreateCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "-s", "feature/x", "-t", "develop", "-r", "alice", "-r", "bob", "--draft", "--notify")

		// Assert
		require.NoError(t, err)
		var report models.CreateReport
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.True(t, report.Success)
		require.Len(t, report.Results, 1)
		assert.Equal(t, 1, report.Results[0].Number)
		svc.AssertExpectations(t)
	})

	t.Run("should keep going when fetching fails", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("RemoteBranches", mock.Anything, true).Return(nil, domainErrors.ErrFetch)
		svc.On("CreatePRs", mock.Anything, mock.Anything).Return(models.CreateReport{}, domainErrors.ErrNoTargets)
		cmd := NewCreateCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd)

		// Assert
		assert.ErrorIs(t, err, domainErrors.ErrNoTargets)
		assert.Contains(t, out.String(), `"error"`)
	})
}

func TestPlanCommand(t *testing.T) {
	t.Run("should reject an unknown strategy", func(t *testing.T) {
		// Arrange
		_, provider, translations, cfg := setupTest(t)
		cmd := NewPlanCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "--strategy", "sideways")

		// Assert
		assert.ErrorIs(t, err, domainErrors.ErrUnknownStrategy)
		assert.Contains(t, out.String(), `"error"`)
	})

	t.Run("should resolve a manual promotion", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("RemoteBranches", mock.Anything, false).Return([]string{"develop", "main"}, nil)
		svc.On("CurrentBranch", mock.Anything).Return("feature/x", nil)
		svc.On("Defaults").Return(strategy.Defaults{DefaultTarget: "main"})
		cmd := NewPlanCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "--strategy", "manual", "-t", "develop", "-t", "develop")

		// Assert
		require.NoError(t, err)
		var got struct {
			Resolved strategy.Outcome `json:"resolved"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "feature/x", got.Resolved.Source)
		assert.Equal(t, []string{"develop"}, got.Resolved.Targets)
	})

	t.Run("should honor an explicit source for a release stage", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("RemoteBranches", mock.Anything, false).Return([]string{"release/1.0.0", "release/2.0.0"}, nil)
		svc.On("CurrentBranch", mock.Anything).Return("feature/x", nil)
		svc.On("Defaults").Return(strategy.Defaults{DefaultTarget: "main"})
		cmd := NewPlanCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "--strategy", "release-staging-alpha", "--source", "release/1.0.0")

		// Assert
		require.NoError(t, err)
		var got struct {
			Resolved strategy.Outcome `json:"resolved"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "release/1.0.0", got.Resolved.Source)
		assert.Equal(t, []string{"release/1.0.0-a"}, got.Resolved.Targets)
	})
}

func TestStagesCommand(t *testing.T) {
	t.Run("should print an empty list when nothing can be promoted", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("RemoteBranches", mock.Anything, false).Return([]string{}, nil)
		svc.On("CurrentBranch", mock.Anything).Return("feature/x", nil)
		svc.On("Defaults").Return(strategy.Defaults{DefaultTarget: "main"})
		cmd := NewStagesCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "--family", "hotfix", "--json")

		// Assert
		require.NoError(t, err)
		assert.JSONEq(t, "[]", out.String())
	})
}

func TestOwnersCommand(t *testing.T) {
	t.Run("should list the owners of the given paths", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		rules := codeowners.ParseRules("* @lead\n/api/ @alice @org/backend\n")
		svc.On("OwnershipRules", mock.Anything).Return(rules, "/repo/CODEOWNERS", nil)
		cmd := NewOwnersCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "--json", "api/handler.go", "README.md")

		// Assert
		require.NoError(t, err)
		var got ownersOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "/repo/CODEOWNERS", got.Source)
		require.Len(t, got.Files, 2)
		assert.Equal(t, []string{"alice", "org/backend"}, got.Files[0].Owners)
		assert.Equal(t, []string{"lead"}, got.Files[1].Owners)
		assert.Equal(t, []string{"alice", "lead", "org/backend"}, got.Reviewers)
		svc.AssertNotCalled(t, "ChangedFiles", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should fall back to the changed files", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("OwnershipRules", mock.Anything).Return([]codeowners.Rule(nil), "", nil)
		svc.On("ChangedFiles", mock.Anything, "develop", "").Return([]string{"go.mod"}, nil)
		cmd := NewOwnersCommand(provider).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "--json", "--base", "develop")

		// Assert
		require.NoError(t, err)
		var got ownersOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got.Files, 1)
		assert.Empty(t, got.Files[0].Owners)
		assert.Empty(t, got.Reviewers)
	})
}

func TestPromoteCommand(t *testing.T) {
	t.Run("should promote without prompts when confirmed up front", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		prompter := new(MockPrompter)
		svc.On("RemoteBranches", mock.Anything, false).Return([]string{"develop", "main"}, nil)
		svc.On("CurrentBranch", mock.Anything).Return("feature/PROJ-7-login-page", nil)
		svc.On("Defaults").Return(strategy.Defaults{DefaultTarget: "main"})
		svc.On("SuggestReviewers", mock.Anything, "develop", "feature/PROJ-7-login-page").Return([]string{"alice"}, nil)
		svc.On("Contributors", mock.Anything).Return([]string{"alice", "bob"}, nil)
		svc.On("Description", mock.Anything, "feature/PROJ-7-login-page", "develop").Return("- add login page", nil)
		svc.On("Preview", mock.Anything, mock.Anything, "develop").Return(models.Preview{Title: "t", Body: "b"}, nil)
		svc.On("CreatePRs", mock.Anything, mock.MatchedBy(func(o models.CreateOptions) bool {
			return o.Source == "feature/PROJ-7-login-page" &&
				assert.ObjectsAreEqual([]string{"develop"}, o.Targets) &&
				assert.ObjectsAreEqual([]string{"alice"}, o.Reviewers) &&
				assert.ObjectsAreEqual([]string{"PROJ-7"}, o.Tickets) &&
				o.Description == "- add login page" &&
				o.Notify
		})).Return(models.CreateReport{
			Success: true,
			Results: []models.PRResult{{Target: "develop", URL: "https://github.com/o/r/pull/3", Number: 3}},
		}, nil)
		cmd := NewPromoteCommand(provider, prompter).CreateCommand(translations, cfg)

		// Act
		out, err := run(t, cmd, "--strategy", "manual", "-t", "develop", "--yes")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out.String(), "https://github.com/o/r/pull/3")
		svc.AssertExpectations(t)
		prompter.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	})

	t.Run("should require a strategy when prompts are disabled", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		svc.On("RemoteBranches", mock.Anything, false).Return([]string{"develop"}, nil)
		svc.On("CurrentBranch", mock.Anything).Return("feature/x", nil)
		cmd := NewPromoteCommand(provider, new(MockPrompter)).CreateCommand(translations, cfg)

		// Act
		_, err := run(t, cmd, "--yes")

		// Assert
		assert.ErrorIs(t, err, domainErrors.ErrUnknownStrategy)
		svc.AssertNotCalled(t, "CreatePRs", mock.Anything, mock.Anything)
	})

	t.Run("should stop quietly when the user declines", func(t *testing.T) {
		// Arrange
		svc, provider, translations, cfg := setupTest(t)
		prompter := new(MockPrompter)
		svc.On("RemoteBranches", mock.Anything, false).Return([]string{"develop", "main"}, nil)
		svc.On("CurrentBranch", mock.Anything).Return("feature/x", nil)
		svc.On("Defaults").Return(strategy.Defaults{DefaultTarget: "main"})
		svc.On("SuggestReviewers", mock.Anything, "main", "feature/x").Return([]string(nil), nil)
		svc.On("Contributors", mock.Anything).Return([]string(nil), nil)
		svc.On("Description", mock.Anything, "feature/x", "main").Return("", nil)
		svc.On("Preview", mock.Anything, mock.Anything, "main").Return(models.Preview{Title: "t"}, nil)

		prompter.On("Select", mock.Anything, []string{"release", "hotfix", "manual"}, "release").Return("manual", nil)
		prompter.On("MultiSelect", mock.Anything, []string{"develop", "main"}, []string{"main"}).Return([]string{"main"}, nil)
		prompter.On("Input", mock.Anything, "").Return("", nil)
		prompter.On("Input", mock.Anything, "X").Return("X", nil)
		prompter.On("Text", mock.Anything, "").Return("", nil)
		prompter.On("Confirm", mock.Anything, true).Return(false, nil)
		cmd := NewPromoteCommand(provider, prompter).CreateCommand(translations, cfg)

		// Act
		_, err := run(t, cmd, "--source", "feature/x", "--notify=false")

		// Assert
		require.NoError(t, err)
		prompter.AssertExpectations(t)
		svc.AssertNotCalled(t, "CreatePRs", mock.Anything, mock.Anything)
	})
}

func TestPromptDecider(t *testing.T) {
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	prev := ui.Out
	ui.Out = io.Discard
	t.Cleanup(func() { ui.Out = prev })

	t.Run("should return the picked source", func(t *testing.T) {
		// Arrange
		prompter := new(MockPrompter)
		prompter.On("Select", mock.Anything, []string{"staging-v2.0.0", "staging-v1.0.0"}, "staging-v2.0.0").Return("staging-v1.0.0", nil)
		d := &promptDecider{prompter: prompter, t: translations}

		// Act
		got, err := d.Decide(context.Background(), strategy.Question{
			Kind:       strategy.AskSource,
			Candidates: []string{"staging-v2.0.0", "staging-v1.0.0"},
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "staging-v1.0.0", got)
	})

	t.Run("should drop a skipped target", func(t *testing.T) {
		// Arrange
		prompter := new(MockPrompter)
		skip := translations.GetMessage("promote.skip_target", 0, nil)
		prompter.On("Select", mock.Anything, []string{"hotfix-v1.0.0", skip}, "hotfix-v1.0.0").Return(skip, nil)
		d := &promptDecider{prompter: prompter, t: translations}

		// Act
		got, err := d.Decide(context.Background(), strategy.Question{
			Kind:       strategy.AskTarget,
			Candidates: []string{"hotfix-v1.0.0"},
		})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("should drop a target without candidates without asking", func(t *testing.T) {
		// Arrange
		prompter := new(MockPrompter)
		d := &promptDecider{prompter: prompter, t: translations}

		// Act
		got, err := d.Decide(context.Background(), strategy.Question{Kind: strategy.AskTarget})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, got)
		prompter.AssertNotCalled(t, "Select", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"PROJ-1", "PROJ-2", "https://x/browse/PROJ-3"}, splitList(" PROJ-1, PROJ-2 ,\nhttps://x/browse/PROJ-3,"))
	assert.Nil(t, splitList("  "))
}
