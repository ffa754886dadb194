package strategy

import (
	"fmt"

	"github.com/thomas-vilte/matepr/internal/branch"
)

// Stage is a concrete promotion suggested from the remote branch set.
type Stage struct {
	Title    string   `json:"title"`
	Strategy Strategy `json:"strategy"`
	Source   string   `json:"source"`
	Targets  []string `json:"targets"`
}

// SuggestStages lists the promotions that make sense for a family given the
// remote branches: one per staging branch for features, one per existing
// release line for the following stages and one per hotfix branch.
func SuggestStages(f Family, current string, remote []string, d Defaults) []Stage {
	switch f {
	case FamilyRelease:
		return releaseStages(current, remote, d)
	case FamilyHotfix:
		return hotfixStages(remote, d)
	default:
		return nil
	}
}

func releaseStages(current string, remote []string, d Defaults) []Stage {
	staging := branch.SortDescending(remote, branch.Is(branch.ShapeStaging))
	var stages []Stage

	for _, s := range staging {
		stages = append(stages, Stage{
			Title:    fmt.Sprintf("Feature -> %s & %s", branch.Develop, s),
			Strategy: ReleaseFeature,
			Source:   current,
			Targets:  []string{branch.Develop, s},
		})
	}
	if len(staging) == 0 {
		stages = append(stages, Stage{
			Title:    fmt.Sprintf("Feature -> %s (no release branch found)", branch.Develop),
			Strategy: ReleaseFeature,
			Source:   current,
			Targets:  []string{branch.Develop},
		})
	}

	for _, s := range staging {
		stages = append(stages, suggested(ReleaseStagingToAlpha, s, remote, d, "%s -> %s (Alpha)"))
	}
	for _, a := range branch.SortDescending(remote, branch.Is(branch.ShapeAlpha)) {
		stages = append(stages, suggested(ReleaseAlphaToBeta, a, remote, d, "%s -> %s (Beta)"))
	}
	for _, b := range branch.SortDescending(remote, branch.Is(branch.ShapeBeta)) {
		stages = append(stages, suggested(ReleaseBetaToLive, b, remote, d, "%s -> %s (Live)"))
	}
	return stages
}

func hotfixStages(remote []string, d Defaults) []Stage {
	var stages []Stage
	for _, c := range branch.SortDescending(remote, branch.Is(branch.ShapeHotfixChild)) {
		parent, _ := branch.HotfixParentOf(c)
		stages = append(stages, Stage{
			Title:    fmt.Sprintf("%s -> %s", c, parent),
			Strategy: HotfixChildToParent,
			Source:   c,
			Targets:  []string{parent},
		})
	}
	for _, p := range branch.SortDescending(remote, branch.Is(branch.ShapeHotfixParent)) {
		stages = append(stages, Stage{
			Title:    fmt.Sprintf("%s -> all branches (propagate)", p),
			Strategy: HotfixParentToAll,
			Source:   p,
			Targets:  firstChoices(Targets(HotfixParentToAll, p, remote), remote, d),
		})
	}
	return stages
}

func suggested(s Strategy, source string, remote []string, d Defaults, title string) Stage {
	targets := firstChoices(Targets(s, source, remote), remote, d)
	label := branch.Main
	if len(targets) > 0 {
		label = targets[0]
	}
	return Stage{
		Title:    fmt.Sprintf(title, source, label),
		Strategy: s,
		Source:   source,
		Targets:  targets,
	}
}

// firstChoices resolves specs taking the first candidate wherever a choice is
// needed, which is the latest version for versioned placeholders.
func firstChoices(specs []TargetSpec, remote []string, d Defaults) []string {
	var names []string
	for _, r := range ResolveTargets(specs, remote, d) {
		switch r.Status {
		case StatusResolved:
			names = append(names, r.Branch)
		case StatusNeedsChoice:
			if r.Spec.Placeholder == LiveDefault {
				names = append(names, liveGuess(d))
				continue
			}
			names = append(names, r.Candidates[0])
		}
	}
	return Dedupe(names)
}

func liveGuess(d Defaults) string {
	if d.LiveFallback != "" {
		return d.LiveFallback
	}
	return branch.Main
}
