package ami

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for normalization and selection.
var (
	// ErrUnknownFamily indicates an operating-system family outside the
	// supported set.
	ErrUnknownFamily = errors.New("unknown operating-system family")
	// ErrUnknownArchitecture indicates an architecture string that maps to
	// no known Arch value.
	ErrUnknownArchitecture = errors.New("unknown architecture")
	// ErrUnparseableTimestamp indicates a creation timestamp that is not
	// valid RFC 3339.
	ErrUnparseableTimestamp = errors.New("unparseable creation timestamp")
	// ErrNoMatch indicates a query that produced zero candidates.
	ErrNoMatch = errors.New("no matching image found")
)

// AmbiguousError reports a singleton selection where more than one candidate
// shares the top rank. It lists the tied identifiers so the caller can
// diagnose which images collided.
type AmbiguousError struct {
	IDs []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("singleton requested but %d images share the top rank: %s",
		len(e.IDs), strings.Join(e.IDs, ", "))
}
