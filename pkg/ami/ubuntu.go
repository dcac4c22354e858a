package ami

import (
	"regexp"
	"strconv"
	"strings"
)

// canonicalOwnerID is Canonical's publishing account.
const canonicalOwnerID = "099720109477"

// Ubuntu naming:
// "ubuntu/images/hvm-ssd/ubuntu-jammy-22.04-amd64-server-20240514". The
// release number and serial both matter: a newer point release outranks an
// older one published on the same day.
var ubuntuNamePattern = regexp.MustCompile(
	`ubuntu-[a-z]+-(\d{2})\.(\d{2})-(?:amd64|arm64)-server-(\d{8})(?:\.\d+)?$`)

type ubuntuMatcher struct{}

func (ubuntuMatcher) Family() Family { return FamilyUbuntu }

func (ubuntuMatcher) Matches(img *Image) bool {
	return img.OwnerID == canonicalOwnerID && strings.HasPrefix(img.Name, "ubuntu/images/")
}

// VersionKey derives the key from the embedded serial date plus the release
// number (22.04 -> 2204) so newer LTS and point releases outrank older ones
// built the same day. Names without a parseable release/serial are
// matched-but-unranked.
func (ubuntuMatcher) VersionKey(img *Image) Key {
	m := ubuntuNamePattern.FindStringSubmatch(img.Name)
	if m == nil {
		return Key{}
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return Key{Date: dateKey(m[3]), Release: major*100 + minor, Ranked: true}
}
