package ami

import (
	"regexp"
	"strconv"
	"strings"
)

// debianOwnerID is the Debian project's publishing account.
const debianOwnerID = "136693071363"

// Debian naming: "debian-12-amd64-20240507-1740". The major version leads
// and the build date follows the architecture.
var debianNamePattern = regexp.MustCompile(`^debian-(\d+)-(?:amd64|arm64)-(\d{8})(?:-\d+)?$`)

type debianMatcher struct{}

func (debianMatcher) Family() Family { return FamilyDebian }

func (debianMatcher) Matches(img *Image) bool {
	return img.OwnerID == debianOwnerID && strings.HasPrefix(img.Name, "debian-")
}

// VersionKey derives the key from the embedded build date, with the Debian
// major version as the release. A name that matched the family but not the
// full pattern (backports, unusual spins) is matched-but-unranked.
func (debianMatcher) VersionKey(img *Image) Key {
	m := debianNamePattern.FindStringSubmatch(img.Name)
	if m == nil {
		return Key{}
	}
	release, _ := strconv.Atoi(m[1])
	return Key{Date: dateKey(m[2]), Release: release, Ranked: true}
}
