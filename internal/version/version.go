package version

// Version is the current mate-pr release. Overridden at build time with
// -ldflags "-X github.com/thomas-vilte/matepr/internal/version.Version=...".
var Version = "0.3.0"

// FullVersion returns the version with its "v" prefix.
func FullVersion() string {
	return "v" + Version
}
