// Package branch classifies branch names against the release and hotfix
// lifecycle conventions and orders them by their embedded version.
//
// Recognised shapes:
//
//	release/X.Y.Z      staging
//	release/X.Y.Z-a    alpha
//	release/X.Y.Z-b    beta
//	hotfix/X.Y.Z       hotfix parent
//	hotfix/X.Y.Z-name  hotfix child
//
// Anything else is unclassified.
package branch

import (
	"regexp"
	"strings"

	"github.com/thomas-vilte/matepr/internal/regex"
)

const (
	releasePrefix = "release/"
	hotfixPrefix  = "hotfix/"

	AlphaSuffix = "-a"
	BetaSuffix  = "-b"

	Develop = "develop"
	Main    = "main"
	Master  = "master"
)

// Shape is the lifecycle role a branch name plays.
type Shape int

const (
	ShapeUnclassified Shape = iota
	ShapeStaging
	ShapeAlpha
	ShapeBeta
	ShapeHotfixParent
	ShapeHotfixChild
)

func (s Shape) String() string {
	switch s {
	case ShapeStaging:
		return "staging"
	case ShapeAlpha:
		return "alpha"
	case ShapeBeta:
		return "beta"
	case ShapeHotfixParent:
		return "hotfix-parent"
	case ShapeHotfixChild:
		return "hotfix-child"
	default:
		return "unclassified"
	}
}

// Classify maps a branch name to exactly one Shape. It never fails.
func Classify(name string) Shape {
	switch {
	case regex.StagingBranch.MatchString(name):
		return ShapeStaging
	case regex.AlphaBranch.MatchString(name):
		return ShapeAlpha
	case regex.BetaBranch.MatchString(name):
		return ShapeBeta
	case regex.HotfixParentBranch.MatchString(name):
		return ShapeHotfixParent
	case regex.HotfixChildBranch.MatchString(name):
		return ShapeHotfixChild
	default:
		return ShapeUnclassified
	}
}

// Is returns a predicate matching names of the given shape.
func Is(shape Shape) func(string) bool {
	return func(name string) bool {
		return Classify(name) == shape
	}
}

// Version returns the "X.Y.Z" part of a classified branch name.
func Version(name string) (string, bool) {
	for _, re := range versionPatterns {
		if m := re.FindStringSubmatch(name); m != nil {
			return m[1], true
		}
	}
	return "", false
}

var versionPatterns = []*regexp.Regexp{
	regex.StagingBranch,
	regex.AlphaBranch,
	regex.BetaBranch,
	regex.HotfixParentBranch,
	regex.HotfixChildBranch,
}

// HotfixParentOf guesses the parent of a hotfix child: everything before the
// first "-" after the "hotfix/" prefix. The guess is not checked against any
// remote, callers must validate it before trusting it.
func HotfixParentOf(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, hotfixPrefix)
	if !ok {
		return "", false
	}
	idx := strings.Index(rest, "-")
	if idx <= 0 {
		return "", false
	}
	return hotfixPrefix + rest[:idx], true
}

// AlphaOf returns the alpha branch that follows a staging branch.
func AlphaOf(staging string) string {
	return staging + AlphaSuffix
}

// BetaOf returns the beta branch that follows an alpha branch.
func BetaOf(alpha string) string {
	return strings.Replace(alpha, AlphaSuffix, BetaSuffix, 1)
}

// IsRelease reports whether the name belongs to the release/ namespace.
func IsRelease(name string) bool {
	return strings.HasPrefix(name, releasePrefix)
}

// IsHotfix reports whether the name belongs to the hotfix/ namespace.
func IsHotfix(name string) bool {
	return strings.HasPrefix(name, hotfixPrefix)
}
