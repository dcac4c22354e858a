// Package ami implements the image resolution engine: normalization of raw
// EC2 catalog records into a comparable representation, per-family matching
// of provider naming conventions, and recency-based selection.
package ami

import (
	"fmt"
	"time"
)

// Family identifies an operating-system distribution lineage with its own
// image-naming convention.
type Family string

// Supported operating-system families.
const (
	FamilyAmazonLinux Family = "amazon"
	FamilyDebian      Family = "debian"
	FamilyUbuntu      Family = "ubuntu"
	FamilyWindows     Family = "windows"
)

// Families lists every supported family in a stable order.
var Families = []Family{FamilyAmazonLinux, FamilyDebian, FamilyUbuntu, FamilyWindows}

// ParseFamily converts a user-supplied family name to a Family value.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "amazon":
		return FamilyAmazonLinux, nil
	case "debian":
		return FamilyDebian, nil
	case "ubuntu":
		return FamilyUbuntu, nil
	case "windows":
		return FamilyWindows, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
}

// DisplayName returns the human-readable family name used in table output.
func (f Family) DisplayName() string {
	switch f {
	case FamilyAmazonLinux:
		return "Amazon Linux"
	case FamilyDebian:
		return "Debian"
	case FamilyUbuntu:
		return "Ubuntu"
	case FamilyWindows:
		return "Windows"
	default:
		return string(f)
	}
}

// Arch is a canonical CPU architecture value. Synonymous provider spellings
// (x86_64, aarch64) normalize to one canonical value.
type Arch string

// Supported architectures.
const (
	ArchAmd64 Arch = "amd64"
	ArchArm64 Arch = "arm64"
)

// ParseArch converts a raw architecture string to its canonical Arch value.
// Both the provider's spellings (x86_64, arm64) and the canonical forms are
// accepted.
func ParseArch(s string) (Arch, error) {
	switch s {
	case "amd64", "x86_64":
		return ArchAmd64, nil
	case "arm64", "aarch64":
		return ArchArm64, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownArchitecture, s)
	}
}

// InstanceGroup returns the burstable instance family matching the
// architecture, used when emitting smoke-test launch arguments.
func (a Arch) InstanceGroup() string {
	switch a {
	case ArchArm64:
		return "t4g"
	default:
		return "t3a"
	}
}

// RawImage is an opaque provider-native catalog record. It is read-only
// input to the engine; the data-source collaborator owns its contents.
type RawImage struct {
	ID           string
	Name         string
	OwnerID      string
	Architecture string
	CreationDate string
	Description  string
}

// Image is the normalized, comparable representation of one catalog record.
// It is never mutated after creation. Family is left empty by Normalize and
// set during matching, because family determination requires family-specific
// inspection of the raw name and owner.
type Image struct {
	ID        string    `json:"id"`
	Family    Family    `json:"family,omitempty"`
	Arch      Arch      `json:"architecture"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"-"`
}

// Mode controls how many candidates a selection returns and how ties are
// treated.
type Mode int

const (
	// ModeFirst returns the single most recent candidate.
	ModeFirst Mode = iota
	// ModeSingleton returns the most recent candidate but fails when more
	// than one candidate shares the top rank.
	ModeSingleton
	// ModeAll returns every candidate, most recent first.
	ModeAll
)

// Query describes one selection request. It is constructed once per
// invocation and never modified.
type Query struct {
	Family Family
	Arch   Arch
	// Region is carried for error messages only; region scoping is the
	// data source's contract and is not re-validated here.
	Region string
	Mode   Mode
	// IncludeVariants admits non-English and non-Base Windows editions,
	// which the Windows matcher rejects otherwise.
	IncludeVariants bool
}

// Result holds the outcome of a selection. First and Singleton modes yield
// exactly one image; All mode yields every match ordered most recent first.
type Result struct {
	Images []*Image
}
