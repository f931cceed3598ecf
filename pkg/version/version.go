package version

// Version is the release of the archive site. Commit is set at build time
// with -ldflags "-X github.com/msugsc-shs/research-archive/pkg/version.Commit=...".
const Version = "1.2.0"

var Commit = ""

// BuildVersion returns the version string printed by the version command
func BuildVersion() string {
	v := "shs-archive version " + Version
	if Commit != "" {
		v += " (" + Commit + ")"
	}
	return v
}

// APIVersion returns just the version number for API responses
func APIVersion() string {
	return Version
}
