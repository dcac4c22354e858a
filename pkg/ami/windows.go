package ami

import (
	"regexp"
	"strconv"
	"strings"
)

// windowsOwnerID is the account Amazon publishes Windows Server images from.
const windowsOwnerID = "801119661308"

// Windows Server naming: "Windows_Server-2022-English-Full-Base-2024.05.15".
// The fields are server release, locale, edition (Full/Core), variant
// (Base, SQL bundles, ContainersLatest, ...), and a dotted build date.
var windowsNamePattern = regexp.MustCompile(
	`^Windows_Server-(\d{4})-([A-Za-z_]+)-(Full|Core)-(.+)-(\d{4})\.(\d{2})\.(\d{2})$`)

type windowsMatcher struct {
	// includeVariants admits non-English locales and non-Base variants
	// (SQL bundles, container images), which are rejected otherwise.
	includeVariants bool
}

func (windowsMatcher) Family() Family { return FamilyWindows }

func (m windowsMatcher) Matches(img *Image) bool {
	if img.OwnerID != windowsOwnerID || !strings.HasPrefix(img.Name, "Windows_Server-") {
		return false
	}
	if m.includeVariants {
		return true
	}
	parts := windowsNamePattern.FindStringSubmatch(img.Name)
	if parts == nil {
		// Family prefix matched but the name shape is unknown; keep it so
		// selection can surface it as matched-but-unranked.
		return true
	}
	return parts[2] == "English" && parts[3] == "Full" && parts[4] == "Base"
}

// VersionKey ranks by the trailing build date with the server release year
// as the secondary order. Unparseable names are matched-but-unranked.
func (windowsMatcher) VersionKey(img *Image) Key {
	m := windowsNamePattern.FindStringSubmatch(img.Name)
	if m == nil {
		return Key{}
	}
	release, _ := strconv.Atoi(m[1])
	date := dateKey(m[5] + m[6] + m[7])
	return Key{Date: date, Release: release, Ranked: true}
}
