package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedDecider struct {
	answers   []string
	err       error
	questions []Question
}

func (s *scriptedDecider) Decide(_ context.Context, q Question) (string, error) {
	s.questions = append(s.questions, q)
	if s.err != nil {
		return "", s.err
	}
	if len(s.answers) == 0 {
		return "", nil
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func TestFinalize(t *testing.T) {
	ctx := context.Background()
	remote := []string{
		"develop", "main",
		"release/1.0.0", "release/1.1.0",
		"release/1.1.0-a", "release/1.1.0-b",
		"hotfix/1.1.1",
	}

	t.Run("headless picks latest and drops empty slots", func(t *testing.T) {
		// Arrange
		plan := Resolve(Request{Strategy: HotfixParentToAll, CurrentBranch: "hotfix/1.1.1", RemoteBranches: remote})

		// Act
		out, err := Finalize(ctx, plan, Defaults{DefaultTarget: "main"}, HeadlessDecider{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "hotfix/1.1.1", out.Source)
		assert.Equal(t, []string{"develop", "release/1.1.0", "release/1.1.0-a", "release/1.1.0-b", "main"}, out.Targets)
		assert.Empty(t, out.Dropped)
	})

	t.Run("source selection rederives targets", func(t *testing.T) {
		d := &scriptedDecider{answers: []string{"release/1.0.0"}}
		plan := Resolve(Request{Strategy: ReleaseStagingToAlpha, CurrentBranch: "feature/x", RemoteBranches: remote})

		out, err := Finalize(ctx, plan, Defaults{}, d)

		require.NoError(t, err)
		require.Len(t, d.questions, 1)
		assert.Equal(t, AskSource, d.questions[0].Kind)
		assert.Equal(t, []string{"release/1.1.0", "release/1.0.0"}, d.questions[0].Candidates)
		assert.Equal(t, "release/1.0.0", out.Source)
		assert.Equal(t, []string{"release/1.0.0-a"}, out.Targets)
	})

	t.Run("no source candidates keeps current branch", func(t *testing.T) {
		d := &scriptedDecider{}
		plan := Resolve(Request{Strategy: ReleaseBetaToLive, CurrentBranch: "feature/x", RemoteBranches: []string{"main"}})

		out, err := Finalize(ctx, plan, Defaults{}, d)

		require.NoError(t, err)
		assert.Empty(t, d.questions)
		assert.Equal(t, "feature/x", out.Source)
		assert.Equal(t, []string{"main"}, out.Targets)
	})

	t.Run("empty answer drops target", func(t *testing.T) {
		d := &scriptedDecider{}
		plan := Resolve(Request{Strategy: ReleaseFeature, CurrentBranch: "feature/x", RemoteBranches: remote})

		out, err := Finalize(ctx, plan, Defaults{}, d)

		require.NoError(t, err)
		assert.Equal(t, []string{"develop"}, out.Targets)
		assert.Equal(t, []TargetSpec{PlaceholderSpec(LatestStaging)}, out.Dropped)
		assert.Equal(t, AskTarget, d.questions[0].Kind)
	})

	t.Run("decider error is returned", func(t *testing.T) {
		d := &scriptedDecider{err: errors.New("aborted")}
		plan := Resolve(Request{Strategy: ReleaseFeature, CurrentBranch: "feature/x", RemoteBranches: remote})

		_, err := Finalize(ctx, plan, Defaults{}, d)

		assert.ErrorContains(t, err, "aborted")
	})

	t.Run("duplicates removed after resolution", func(t *testing.T) {
		d := &scriptedDecider{answers: []string{"develop"}}
		plan := Resolve(Request{Strategy: ReleaseFeature, CurrentBranch: "feature/x", RemoteBranches: remote})

		out, err := Finalize(ctx, plan, Defaults{}, d)

		require.NoError(t, err)
		assert.Equal(t, []string{"develop"}, out.Targets)
	})
}

func TestSuggestStages(t *testing.T) {
	remote := []string{"develop", "master", "release/1.0.0", "release/1.0.0-a", "release/1.0.0-b", "hotfix/1.0.1", "hotfix/1.0.1-fix"}

	t.Run("release", func(t *testing.T) {
		stages := SuggestStages(FamilyRelease, "feature/x", remote, Defaults{})

		require.Len(t, stages, 4)
		assert.Equal(t, []string{"develop", "release/1.0.0"}, stages[0].Targets)
		assert.Equal(t, "feature/x", stages[0].Source)
		assert.Equal(t, []string{"release/1.0.0-a"}, stages[1].Targets)
		assert.Equal(t, []string{"release/1.0.0-b"}, stages[2].Targets)
		assert.Equal(t, "release/1.0.0-b -> master (Live)", stages[3].Title)
	})

	t.Run("release without staging branches", func(t *testing.T) {
		stages := SuggestStages(FamilyRelease, "feature/x", []string{"develop"}, Defaults{})

		require.Len(t, stages, 1)
		assert.Equal(t, []string{"develop"}, stages[0].Targets)
	})

	t.Run("live guess without main or master", func(t *testing.T) {
		stages := SuggestStages(FamilyRelease, "feature/x", []string{"release/1.0.0-b", "prod"}, Defaults{LiveFallback: "prod"})

		require.Len(t, stages, 2)
		assert.Equal(t, []string{"prod"}, stages[1].Targets)
	})

	t.Run("hotfix", func(t *testing.T) {
		stages := SuggestStages(FamilyHotfix, "feature/x", remote, Defaults{})

		require.Len(t, stages, 2)
		assert.Equal(t, HotfixChildToParent, stages[0].Strategy)
		assert.Equal(t, []string{"hotfix/1.0.1"}, stages[0].Targets)
		assert.Equal(t, []string{"develop", "release/1.0.0", "release/1.0.0-a", "release/1.0.0-b", "master"}, stages[1].Targets)
	})

	t.Run("manual has no suggestions", func(t *testing.T) {
		assert.Nil(t, SuggestStages(FamilyManual, "x", remote, Defaults{}))
	})
}
