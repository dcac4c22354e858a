package ami

import (
	"regexp"
	"strconv"
)

// amazonOwnerID is the account Amazon publishes Amazon Linux images from.
const amazonOwnerID = "137112412989"

// Amazon Linux naming: "al2023-ami-2023.4.20240528.0-kernel-6.1-x86_64" and
// the older "amzn2-ami-hvm-2.0.20240521.0-x86_64-gp2" style. The prefix
// carries the release (al2023, amzn2, amzn) and the dotted version stamp
// carries the build date.
var (
	amazonNamePattern = regexp.MustCompile(`^(?:al(\d{4})|amzn(\d?))-ami-`)
	amazonDatePattern = regexp.MustCompile(`[.-](20\d{6})[.-]`)
)

type amazonMatcher struct{}

func (amazonMatcher) Family() Family { return FamilyAmazonLinux }

func (amazonMatcher) Matches(img *Image) bool {
	return img.OwnerID == amazonOwnerID && amazonNamePattern.MatchString(img.Name)
}

// VersionKey ranks by the embedded build-date stamp, with the release number
// (2023 for AL2023, 2 for AL2, 1 for the original Amazon Linux) breaking
// same-day ties. When the name carries no date stamp the creation timestamp
// serves as the date, so Amazon Linux records are always ranked.
func (amazonMatcher) VersionKey(img *Image) Key {
	release := 0
	if m := amazonNamePattern.FindStringSubmatch(img.Name); m != nil {
		switch {
		case m[1] != "":
			release, _ = strconv.Atoi(m[1])
		case m[2] != "":
			release, _ = strconv.Atoi(m[2])
		default:
			release = 1
		}
	}

	date := 0
	if m := amazonDatePattern.FindStringSubmatch(img.Name); m != nil {
		date = dateKey(m[1])
	}
	if date == 0 {
		date = dateKey(img.CreatedAt.Format("20060102"))
	}

	return Key{Date: date, Release: release, Ranked: true}
}
