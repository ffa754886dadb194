package strategy

import (
	"slices"

	"github.com/thomas-vilte/matepr/internal/branch"
)

// Request is everything Resolve needs for one promotion.
type Request struct {
	Strategy       Strategy
	CurrentBranch  string
	RemoteBranches []string

	// Source, when set, replaces the strategy's source rule.
	Source string
	// Manual strategy only.
	ManualTargets []string
}

// SourceSelection reports that the current branch does not have the shape the
// strategy expects. Candidates holds the remote branches of the right shape,
// newest first. An empty candidate list means nothing suitable exists remotely
// and the caller keeps the current branch.
type SourceSelection struct {
	NeedsSelection bool         `json:"needs_selection"`
	Shape          branch.Shape `json:"-"`
	ShapeName      string       `json:"shape,omitempty"`
	Candidates     []string     `json:"candidates,omitempty"`
}

// Plan is the outcome of Resolve: a source, possibly still awaiting
// selection, and the ordered target specs derived from it.
type Plan struct {
	Strategy  Strategy        `json:"strategy"`
	Source    string          `json:"source"`
	Selection SourceSelection `json:"selection"`
	Targets   []TargetSpec    `json:"targets"`

	remote []string
}

// Resolve applies the strategy's source rule and derives its targets. It never
// fails; when the source precondition does not hold the plan carries a
// SourceSelection and targets derived from the current branch, to be replaced
// through WithSource once the caller has picked.
func Resolve(req Request) Plan {
	p := Plan{
		Strategy: req.Strategy,
		Source:   req.CurrentBranch,
		remote:   req.RemoteBranches,
	}

	switch req.Strategy {
	case ReleaseStagingToAlpha, ReleaseAlphaToBeta, ReleaseBetaToLive:
		p.Selection = requireShape(req.CurrentBranch, req.Strategy.RequiredSourceShape(), req.RemoteBranches)
	case HotfixParentToAll:
		p.Source, p.Selection = hotfixParentSource(req.CurrentBranch, req.RemoteBranches)
	case Manual:
		if req.Source != "" {
			p.Source = req.Source
		}
		p.Targets = manualTargets(req.ManualTargets)
		return p
	}

	if req.Source != "" {
		return p.WithSource(req.Source)
	}
	p.Targets = Targets(p.Strategy, p.Source, p.remote)
	return p
}

// WithSource returns a copy of the plan using src as the source, with the
// targets derived again and the pending selection cleared.
func (p Plan) WithSource(src string) Plan {
	p.Source = src
	p.Selection = SourceSelection{}
	if p.Strategy != Manual {
		p.Targets = Targets(p.Strategy, src, p.remote)
	}
	return p
}

// Remote returns the branch snapshot the plan was resolved against.
func (p Plan) Remote() []string {
	return p.remote
}

// Targets derives the target specs of a strategy for a given source.
func Targets(s Strategy, source string, remote []string) []TargetSpec {
	switch s {
	case ReleaseFeature:
		return []TargetSpec{Literal(branch.Develop), PlaceholderSpec(LatestStaging)}
	case ReleaseStagingToAlpha:
		return []TargetSpec{Literal(branch.AlphaOf(source))}
	case ReleaseAlphaToBeta:
		return []TargetSpec{Literal(branch.BetaOf(source))}
	case ReleaseBetaToLive:
		return []TargetSpec{PlaceholderSpec(LiveDefault)}
	case HotfixChildToParent:
		if parent, ok := branch.HotfixParentOf(source); ok && slices.Contains(remote, parent) {
			return []TargetSpec{Literal(parent)}
		}
		return []TargetSpec{PlaceholderSpec(AnyParentHotfix)}
	case HotfixParentToAll:
		return dedupeSpecs([]TargetSpec{
			Literal(branch.Develop),
			PlaceholderSpec(LatestStaging),
			PlaceholderSpec(LatestAlpha),
			PlaceholderSpec(LatestBeta),
			PlaceholderSpec(LiveDefault),
		})
	default:
		return nil
	}
}

func requireShape(current string, shape branch.Shape, remote []string) SourceSelection {
	if branch.Classify(current) == shape {
		return SourceSelection{}
	}
	return SourceSelection{
		NeedsSelection: true,
		Shape:          shape,
		ShapeName:      shape.String(),
		Candidates:     branch.SortDescending(remote, branch.Is(shape)),
	}
}

// hotfixParentSource prefers the current branch when it is a hotfix parent,
// then the parent derived from a hotfix child if it exists remotely.
func hotfixParentSource(current string, remote []string) (string, SourceSelection) {
	if branch.Classify(current) == branch.ShapeHotfixParent {
		return current, SourceSelection{}
	}
	if parent, ok := branch.HotfixParentOf(current); ok && slices.Contains(remote, parent) {
		return parent, SourceSelection{}
	}
	return current, requireShape(current, branch.ShapeHotfixParent, remote)
}

func manualTargets(names []string) []TargetSpec {
	if len(names) == 0 {
		return []TargetSpec{PlaceholderSpec(ConfiguredDefault)}
	}
	specs := make([]TargetSpec, 0, len(names))
	for _, n := range names {
		specs = append(specs, Literal(n))
	}
	return dedupeSpecs(specs)
}

func dedupeSpecs(specs []TargetSpec) []TargetSpec {
	seen := make(map[TargetSpec]struct{}, len(specs))
	out := make([]TargetSpec, 0, len(specs))
	for _, s := range specs {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
