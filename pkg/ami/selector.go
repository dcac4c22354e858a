package ami

import (
	"fmt"
	"sort"
)

// candidate pairs an image with its precomputed version key so sorting does
// not re-parse names.
type candidate struct {
	img *Image
	key Key
}

// Select filters the normalized images to the query's family and
// architecture, ranks them most recent first, and applies the query's mode.
// It is a pure function: the same inputs always produce the same result,
// regardless of input ordering.
//
// Region is not re-checked here; records are region-scoped by the data
// source's own query parameters.
func Select(images []*Image, q Query) (*Result, error) {
	matcher, err := MatcherFor(q)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(images))
	for _, img := range images {
		if img.Arch != q.Arch || !matcher.Matches(img) {
			continue
		}
		// Tag a copy so the caller's input stays untouched.
		tagged := *img
		tagged.Family = q.Family
		candidates = append(candidates, candidate{img: &tagged, key: matcher.VersionKey(img)})
	}

	// Descending by key; ties broken by creation time, then identifier,
	// for full determinism.
	sort.Slice(candidates, func(i, j int) bool {
		if c := candidates[i].key.Compare(candidates[j].key); c != 0 {
			return c > 0
		}
		if !candidates[i].img.CreatedAt.Equal(candidates[j].img.CreatedAt) {
			return candidates[i].img.CreatedAt.After(candidates[j].img.CreatedAt)
		}
		return candidates[i].img.ID < candidates[j].img.ID
	})

	switch q.Mode {
	case ModeAll:
		result := &Result{Images: make([]*Image, 0, len(candidates))}
		for _, c := range candidates {
			result.Images = append(result.Images, c.img)
		}
		return result, nil
	case ModeFirst, ModeSingleton:
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w for %s/%s in %s", ErrNoMatch, q.Family, q.Arch, q.Region)
		}
		if q.Mode == ModeSingleton {
			if tied := topRankTies(candidates); len(tied) > 1 {
				return nil, &AmbiguousError{IDs: tied}
			}
		}
		return &Result{Images: []*Image{candidates[0].img}}, nil
	default:
		return nil, fmt.Errorf("unknown selection mode %d", q.Mode)
	}
}

// topRankTies returns the identifiers of every candidate whose version key
// equals the top-ranked candidate's key. Candidates must already be sorted.
func topRankTies(candidates []candidate) []string {
	ids := []string{candidates[0].img.ID}
	for _, c := range candidates[1:] {
		if c.key.Compare(candidates[0].key) != 0 {
			break
		}
		ids = append(ids, c.img.ID)
	}
	return ids
}
