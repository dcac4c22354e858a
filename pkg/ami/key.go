package ami

// Key is the comparable ranking value a family matcher extracts from an
// image's name. It unifies the families' heterogeneous versioning schemes
// (date stamps, release numbers) behind one total order so selection stays
// family-agnostic.
//
// Records whose family matched but whose version could not be parsed carry
// an unranked key, which sorts after every ranked key. They are never
// silently dropped, so "no recent image found" stays distinguishable from
// "only unparseable images found".
type Key struct {
	// Date is the embedded build date as yyyymmdd.
	Date int
	// Release orders distribution releases published on the same date
	// (e.g. Ubuntu 24.04 as 2404, Amazon Linux 2023 as 2023).
	Release int
	// Ranked is false when no version information could be parsed.
	Ranked bool
}

// Compare returns -1, 0, or 1 as k orders before, equal to, or after o.
// Any ranked key orders after every unranked key; among ranked keys the
// date is primary and the release number secondary. Remaining ties are the
// selector's to break.
func (k Key) Compare(o Key) int {
	if k.Ranked != o.Ranked {
		if k.Ranked {
			return 1
		}
		return -1
	}
	if k.Date != o.Date {
		if k.Date < o.Date {
			return -1
		}
		return 1
	}
	if k.Release != o.Release {
		if k.Release < o.Release {
			return -1
		}
		return 1
	}
	return 0
}
