// Package strategy derives the source and target branches of a promotion.
//
// Resolve turns a chosen Strategy and the current branch into a Plan whose
// targets may still contain placeholders ("latest staging branch"), and
// ResolveTargets expands those placeholders against a remote branch snapshot.
// Neither step performs I/O or fails: anything that needs a human (or a
// headless policy) to decide is reported back as a selection or a choice.
package strategy

import "github.com/thomas-vilte/matepr/internal/branch"

// Strategy is a promotion rule from a source branch to a set of targets.
type Strategy string

const (
	ReleaseFeature        Strategy = "release-feature"
	ReleaseStagingToAlpha Strategy = "release-staging-alpha"
	ReleaseAlphaToBeta    Strategy = "release-alpha-beta"
	ReleaseBetaToLive     Strategy = "release-beta-live"
	HotfixChildToParent   Strategy = "hotfix-child-parent"
	HotfixParentToAll     Strategy = "hotfix-parent-all"
	Manual                Strategy = "manual"
)

// Family groups strategies the way they are offered to the user: first the
// family, then the stage within it.
type Family string

const (
	FamilyRelease Family = "release"
	FamilyHotfix  Family = "hotfix"
	FamilyManual  Family = "manual"
)

var displayNames = map[Strategy]string{
	ReleaseFeature:        "Release: Feature",
	ReleaseStagingToAlpha: "Release: Staging->Alpha",
	ReleaseAlphaToBeta:    "Release: Alpha->Beta",
	ReleaseBetaToLive:     "Release: Beta->Live",
	HotfixChildToParent:   "Hotfix: Child",
	HotfixParentToAll:     "Hotfix: Parent->All",
	Manual:                "Manual",
}

// All returns every strategy in presentation order.
func All() []Strategy {
	return []Strategy{
		ReleaseFeature,
		ReleaseStagingToAlpha,
		ReleaseAlphaToBeta,
		ReleaseBetaToLive,
		HotfixChildToParent,
		HotfixParentToAll,
		Manual,
	}
}

// Families returns the strategy families in presentation order.
func Families() []Family {
	return []Family{FamilyRelease, FamilyHotfix, FamilyManual}
}

// Stages returns the strategies that belong to a family.
func Stages(f Family) []Strategy {
	switch f {
	case FamilyRelease:
		return []Strategy{ReleaseFeature, ReleaseStagingToAlpha, ReleaseAlphaToBeta, ReleaseBetaToLive}
	case FamilyHotfix:
		return []Strategy{HotfixChildToParent, HotfixParentToAll}
	case FamilyManual:
		return []Strategy{Manual}
	default:
		return nil
	}
}

// Parse accepts a strategy id as used on the command line.
func Parse(s string) (Strategy, bool) {
	for _, st := range All() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Strategy) String() string {
	return string(s)
}

// DisplayName is the label used in logs, PR results and notifications.
func (s Strategy) DisplayName() string {
	if n, ok := displayNames[s]; ok {
		return n
	}
	return string(s)
}

// Family returns the family a strategy belongs to.
func (s Strategy) Family() Family {
	switch s {
	case HotfixChildToParent, HotfixParentToAll:
		return FamilyHotfix
	case Manual:
		return FamilyManual
	default:
		return FamilyRelease
	}
}

// RequiredSourceShape is the shape the source branch must have for the
// strategy, or ShapeUnclassified when any branch is accepted.
func (s Strategy) RequiredSourceShape() branch.Shape {
	switch s {
	case ReleaseStagingToAlpha:
		return branch.ShapeStaging
	case ReleaseAlphaToBeta:
		return branch.ShapeAlpha
	case ReleaseBetaToLive:
		return branch.ShapeBeta
	case HotfixParentToAll:
		return branch.ShapeHotfixParent
	default:
		return branch.ShapeUnclassified
	}
}

// Placeholder names a target that is only known once the remote branches are
// inspected.
type Placeholder string

const (
	LatestStaging     Placeholder = "latest-staging"
	LatestAlpha       Placeholder = "latest-alpha"
	LatestBeta        Placeholder = "latest-beta"
	LiveDefault       Placeholder = "live-default"
	AnyParentHotfix   Placeholder = "any-parent-hotfix"
	ConfiguredDefault Placeholder = "configured-default"
)

// TargetSpec is either a literal branch name or a placeholder, never both.
type TargetSpec struct {
	Name        string      `json:"name,omitempty"`
	Placeholder Placeholder `json:"placeholder,omitempty"`
}

// Literal builds a spec for a concrete branch name.
func Literal(name string) TargetSpec {
	return TargetSpec{Name: name}
}

// PlaceholderSpec builds a spec for a placeholder.
func PlaceholderSpec(p Placeholder) TargetSpec {
	return TargetSpec{Placeholder: p}
}

func (t TargetSpec) IsPlaceholder() bool {
	return t.Placeholder != ""
}

func (t TargetSpec) String() string {
	if t.IsPlaceholder() {
		return "<" + string(t.Placeholder) + ">"
	}
	return t.Name
}

// shapeOf returns the branch shape a Latest* placeholder selects.
func (p Placeholder) shapeOf() (branch.Shape, bool) {
	switch p {
	case LatestStaging:
		return branch.ShapeStaging, true
	case LatestAlpha:
		return branch.ShapeAlpha, true
	case LatestBeta:
		return branch.ShapeBeta, true
	default:
		return branch.ShapeUnclassified, false
	}
}
