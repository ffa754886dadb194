package strategy

import (
	"slices"

	"github.com/thomas-vilte/matepr/internal/branch"
)

// Status tells whether a target spec produced a branch or needs a decision.
type Status string

const (
	StatusResolved     Status = "resolved"
	StatusNoCandidates Status = "no-candidates"
	StatusNeedsChoice  Status = "needs-choice"
)

// Resolution is the outcome of resolving one TargetSpec. Branch is set only
// when Status is StatusResolved; Candidates only when it is StatusNeedsChoice.
type Resolution struct {
	Spec       TargetSpec `json:"spec"`
	Status     Status     `json:"status"`
	Branch     string     `json:"branch,omitempty"`
	Candidates []string   `json:"candidates,omitempty"`
}

// Defaults are the configured fallbacks used when the remote set gives no
// better answer.
type Defaults struct {
	DefaultTarget string
	LiveFallback  string
}

// ResolveTargets resolves every spec against the remote branch snapshot. Specs
// are resolved independently and in order; no branch name is produced that is
// not in remote, except literals and the configured default.
func ResolveTargets(specs []TargetSpec, remote []string, d Defaults) []Resolution {
	out := make([]Resolution, 0, len(specs))
	for _, s := range specs {
		out = append(out, resolveOne(s, remote, d))
	}
	return out
}

func resolveOne(s TargetSpec, remote []string, d Defaults) Resolution {
	if !s.IsPlaceholder() {
		return resolved(s, s.Name)
	}

	if shape, ok := s.Placeholder.shapeOf(); ok {
		candidates := branch.SortDescending(remote, branch.Is(shape))
		switch len(candidates) {
		case 0:
			return Resolution{Spec: s, Status: StatusNoCandidates}
		case 1:
			return resolved(s, candidates[0])
		default:
			return choice(s, candidates)
		}
	}

	switch s.Placeholder {
	case LiveDefault:
		for _, name := range []string{branch.Main, branch.Master, d.LiveFallback} {
			if name != "" && slices.Contains(remote, name) {
				return resolved(s, name)
			}
		}
		return choiceOrNone(s, slices.Clone(remote))
	case AnyParentHotfix:
		parents := branch.SortDescending(remote, branch.Is(branch.ShapeHotfixParent))
		if len(parents) == 0 {
			parents = slices.Clone(remote)
		}
		return choiceOrNone(s, parents)
	case ConfiguredDefault:
		if d.DefaultTarget == "" {
			return Resolution{Spec: s, Status: StatusNoCandidates}
		}
		return resolved(s, d.DefaultTarget)
	}
	return Resolution{Spec: s, Status: StatusNoCandidates}
}

func resolved(s TargetSpec, name string) Resolution {
	return Resolution{Spec: s, Status: StatusResolved, Branch: name}
}

func choice(s TargetSpec, candidates []string) Resolution {
	return Resolution{Spec: s, Status: StatusNeedsChoice, Candidates: candidates}
}

func choiceOrNone(s TargetSpec, candidates []string) Resolution {
	if len(candidates) == 0 {
		return Resolution{Spec: s, Status: StatusNoCandidates}
	}
	return choice(s, candidates)
}

// Branches returns the resolved branch names in order, skipping slots that
// still need a decision or have no candidates.
func Branches(rs []Resolution) []string {
	var out []string
	for _, r := range rs {
		if r.Status == StatusResolved {
			out = append(out, r.Branch)
		}
	}
	return out
}

// Pending reports whether any resolution still needs a decision.
func Pending(rs []Resolution) bool {
	return slices.ContainsFunc(rs, func(r Resolution) bool {
		return r.Status == StatusNeedsChoice
	})
}

// Dedupe removes repeated branch names keeping the first occurrence. Empty
// names are dropped.
func Dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
