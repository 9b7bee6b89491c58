package version

import (
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Release and development versions of quillzy. Both can be set with
// -ldflags "-X github.com/quillzy/quillzy/internal/version.Release=0.2.0".
var (
	Release     = "0.1.0"
	Development = "0.1.0-dev"
	// Commit is the git revision the binary was built from, if known.
	Commit = ""
)

// ForMode returns the version reported by an instance running in mode.
// Only prod instances report the release version.
func ForMode(mode string) string {
	v := Development
	if mode == "prod" {
		v = Release
	}
	if len(Commit) >= 7 {
		v += "+" + Commit[:7]
	}
	return v
}

// Compare orders two "major.minor.patch" strings like semver.Compare. Strings
// that are not versions sort before every valid version.
func Compare(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

// Newer reports whether v comes after base.
func Newer(v, base string) bool {
	return Compare(v, base) > 0
}

// Sort orders versions oldest first, in place.
func Sort(versions []string) {
	slices.SortFunc(versions, Compare)
}

func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
