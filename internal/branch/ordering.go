package branch

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// SortDescending keeps the names accepted by keep and orders them by their
// numeric (major, minor, patch) version, newest first. Comparison is numeric,
// so release/10.0.0 sorts above release/9.9.9. Equal versions keep their input
// order, and names without a recognisable version go last in input order.
func SortDescending(names []string, keep func(string) bool) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if keep == nil || keep(n) {
			out = append(out, n)
		}
	}

	slices.SortStableFunc(out, func(a, b string) int {
		va, okA := semverOf(a)
		vb, okB := semverOf(b)
		switch {
		case okA && okB:
			return semver.Compare(vb, va)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Latest returns the newest name accepted by keep.
func Latest(names []string, keep func(string) bool) (string, bool) {
	sorted := SortDescending(names, keep)
	if len(sorted) == 0 {
		return "", false
	}
	return sorted[0], true
}

// Filter returns the names of the given shape, preserving input order.
func Filter(names []string, shape Shape) []string {
	var out []string
	for _, n := range names {
		if Classify(n) == shape {
			out = append(out, n)
		}
	}
	return out
}

// semverOf builds the canonical vX.Y.Z of a branch version. Components are
// parsed as integers so release/1.02.0 compares as 1.2.0.
func semverOf(name string) (string, bool) {
	v, ok := Version(name)
	if !ok {
		return "", false
	}
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return "", false
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}
	sv := fmt.Sprintf("v%d.%d.%d", nums[0], nums[1], nums[2])
	if !semver.IsValid(sv) {
		return "", false
	}
	return sv, true
}
