package ami

// Matcher encodes one family's image-naming and publisher conventions. A
// matcher decides whether a normalized record belongs to its family and
// extracts the record's comparable version key.
//
// The naming conventions are publisher-specific free text, not structured
// fields, so each family's parsing quirks live behind this interface and
// selection never branches on family.
type Matcher interface {
	// Family returns the family this matcher recognizes.
	Family() Family
	// Matches reports whether the image belongs to this family, based on
	// the publisher's owner identity and name conventions.
	Matches(img *Image) bool
	// VersionKey extracts the comparable ranking value from the image's
	// name. Images that matched but carry no parseable version return an
	// unranked key.
	VersionKey(img *Image) Key
}

// MatcherFor returns the matcher for the requested family. The query's
// variant policy only affects Windows, where non-English and non-Base
// editions are rejected unless explicitly requested.
func MatcherFor(q Query) (Matcher, error) {
	switch q.Family {
	case FamilyAmazonLinux:
		return amazonMatcher{}, nil
	case FamilyDebian:
		return debianMatcher{}, nil
	case FamilyUbuntu:
		return ubuntuMatcher{}, nil
	case FamilyWindows:
		return windowsMatcher{includeVariants: q.IncludeVariants}, nil
	default:
		return nil, ErrUnknownFamily
	}
}

// dateKey converts an eight-digit yyyymmdd string to its integer form.
// Returns 0 for anything that is not eight digits.
func dateKey(s string) int {
	if len(s) != 8 {
		return 0
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
