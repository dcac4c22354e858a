package ami

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNormalize(t *testing.T, raws ...RawImage) []*Image {
	t.Helper()
	images, skipped := NormalizeAll(raws)
	require.Zero(t, skipped)
	return images
}

func ubuntuRaw(id, serial, created string) RawImage {
	return RawImage{
		ID:           id,
		Name:         "ubuntu/images/hvm-ssd/ubuntu-jammy-22.04-amd64-server-" + serial,
		OwnerID:      canonicalOwnerID,
		Architecture: "x86_64",
		CreationDate: created,
	}
}

func TestSelectFirstReturnsMostRecent(t *testing.T) {
	images := mustNormalize(t,
		ubuntuRaw("ami-111", "20240101", "2024-01-01T00:00:00Z"),
		ubuntuRaw("ami-222", "20240601", "2024-06-01T00:00:00Z"),
	)

	result, err := Select(images, Query{Family: FamilyUbuntu, Arch: ArchAmd64, Region: "us-east-2", Mode: ModeFirst})
	require.NoError(t, err)
	require.Len(t, result.Images, 1)
	assert.Equal(t, "ami-222", result.Images[0].ID)
	assert.Equal(t, FamilyUbuntu, result.Images[0].Family)
}

func TestSelectFiltersArchitecture(t *testing.T) {
	images := mustNormalize(t,
		ubuntuRaw("ami-111", "20240101", "2024-01-01T00:00:00Z"),
		RawImage{
			ID:           "ami-arm",
			Name:         "ubuntu/images/hvm-ssd/ubuntu-jammy-22.04-arm64-server-20240601",
			OwnerID:      canonicalOwnerID,
			Architecture: "arm64",
			CreationDate: "2024-06-01T00:00:00Z",
		},
	)

	result, err := Select(images, Query{Family: FamilyUbuntu, Arch: ArchArm64, Mode: ModeAll})
	require.NoError(t, err)
	require.Len(t, result.Images, 1)
	assert.Equal(t, "ami-arm", result.Images[0].ID)
	for _, img := range result.Images {
		assert.Equal(t, ArchArm64, img.Arch)
		assert.Equal(t, FamilyUbuntu, img.Family)
	}
}

func TestSelectNoMatch(t *testing.T) {
	// Zero records match {Windows, arm64}: explicit NoMatch, never a crash.
	result, err := Select(nil, Query{Family: FamilyWindows, Arch: ArchArm64, Region: "us-east-2", Mode: ModeFirst})
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Nil(t, result)
}

func TestSelectSingletonAmbiguous(t *testing.T) {
	// Two Debian builds with the same embedded build date share the top
	// rank; singleton must refuse to pick one.
	images := mustNormalize(t,
		RawImage{
			ID:           "ami-aaa",
			Name:         "debian-12-amd64-20240507-1740",
			OwnerID:      debianOwnerID,
			Architecture: "x86_64",
			CreationDate: "2024-05-07T00:00:00Z",
		},
		RawImage{
			ID:           "ami-bbb",
			Name:         "debian-12-amd64-20240507-1741",
			OwnerID:      debianOwnerID,
			Architecture: "x86_64",
			CreationDate: "2024-05-07T00:00:00Z",
		},
	)

	result, err := Select(images, Query{Family: FamilyDebian, Arch: ArchAmd64, Mode: ModeSingleton})
	require.Error(t, err)
	assert.Nil(t, result)

	var ambiguous *AmbiguousError
	require.ErrorAs(t, err, &ambiguous)
	assert.ElementsMatch(t, []string{"ami-aaa", "ami-bbb"}, ambiguous.IDs)
	assert.Contains(t, ambiguous.Error(), "ami-aaa")
	assert.Contains(t, ambiguous.Error(), "ami-bbb")
}

func TestSelectSingletonAcceptsUniqueTopRank(t *testing.T) {
	images := mustNormalize(t,
		ubuntuRaw("ami-old", "20240101", "2024-01-01T00:00:00Z"),
		ubuntuRaw("ami-new", "20240601", "2024-06-01T00:00:00Z"),
	)

	result, err := Select(images, Query{Family: FamilyUbuntu, Arch: ArchAmd64, Mode: ModeSingleton})
	require.NoError(t, err)
	require.Len(t, result.Images, 1)
	assert.Equal(t, "ami-new", result.Images[0].ID)
}

func TestSelectSingletonIgnoresCoreEditionPublishedSameDay(t *testing.T) {
	// Amazon publishes Full and Core builds of the same release on the same
	// day. The default policy excludes Core, so the Full build is a clean
	// singleton rather than a spurious tie.
	images := mustNormalize(t,
		RawImage{
			ID:           "ami-full",
			Name:         "Windows_Server-2022-English-Full-Base-2024.05.15",
			OwnerID:      windowsOwnerID,
			Architecture: "x86_64",
			CreationDate: "2024-05-15T00:00:00Z",
		},
		RawImage{
			ID:           "ami-core",
			Name:         "Windows_Server-2022-English-Core-Base-2024.05.15",
			OwnerID:      windowsOwnerID,
			Architecture: "x86_64",
			CreationDate: "2024-05-15T00:00:00Z",
		},
	)

	result, err := Select(images, Query{Family: FamilyWindows, Arch: ArchAmd64, Mode: ModeSingleton})
	require.NoError(t, err)
	require.Len(t, result.Images, 1)
	assert.Equal(t, "ami-full", result.Images[0].ID)
}

func TestSelectFirstPicksArbitrarilyButDeterministicallyOnTies(t *testing.T) {
	images := mustNormalize(t,
		RawImage{
			ID:           "ami-zzz",
			Name:         "debian-12-amd64-20240507-1740",
			OwnerID:      debianOwnerID,
			Architecture: "x86_64",
			CreationDate: "2024-05-07T00:00:00Z",
		},
		RawImage{
			ID:           "ami-aaa",
			Name:         "debian-12-amd64-20240507-1741",
			OwnerID:      debianOwnerID,
			Architecture: "x86_64",
			CreationDate: "2024-05-07T00:00:00Z",
		},
	)

	// Identifier ordering breaks the tie, so First still succeeds and the
	// pick does not depend on input order.
	result, err := Select(images, Query{Family: FamilyDebian, Arch: ArchAmd64, Mode: ModeFirst})
	require.NoError(t, err)
	assert.Equal(t, "ami-aaa", result.Images[0].ID)

	reversed := []*Image{images[1], images[0]}
	result2, err := Select(reversed, Query{Family: FamilyDebian, Arch: ArchAmd64, Mode: ModeFirst})
	require.NoError(t, err)
	assert.Equal(t, result.Images[0].ID, result2.Images[0].ID)
}

func TestSelectAllSortedDescending(t *testing.T) {
	images := mustNormalize(t,
		ubuntuRaw("ami-mid", "20240301", "2024-03-01T00:00:00Z"),
		ubuntuRaw("ami-new", "20240601", "2024-06-01T00:00:00Z"),
		ubuntuRaw("ami-old", "20240101", "2024-01-01T00:00:00Z"),
	)

	result, err := Select(images, Query{Family: FamilyUbuntu, Arch: ArchAmd64, Mode: ModeAll})
	require.NoError(t, err)

	var ids []string
	for _, img := range result.Images {
		ids = append(ids, img.ID)
	}
	if diff := cmp.Diff([]string{"ami-new", "ami-mid", "ami-old"}, ids); diff != "" {
		t.Errorf("unexpected ordering (-want +got):\n%s", diff)
	}
}

func TestSelectAllEmptyIsValid(t *testing.T) {
	result, err := Select(nil, Query{Family: FamilyUbuntu, Arch: ArchAmd64, Mode: ModeAll})
	require.NoError(t, err)
	assert.Empty(t, result.Images)
}

func TestSelectUnrankedSortsAfterRanked(t *testing.T) {
	images := mustNormalize(t,
		RawImage{
			ID:           "ami-unranked",
			Name:         "debian-12-backports-amd64-20990101-0001",
			OwnerID:      debianOwnerID,
			Architecture: "x86_64",
			CreationDate: "2099-01-01T00:00:00Z",
		},
		RawImage{
			ID:           "ami-ranked",
			Name:         "debian-12-amd64-20240507-1740",
			OwnerID:      debianOwnerID,
			Architecture: "x86_64",
			CreationDate: "2024-05-07T00:00:00Z",
		},
	)

	result, err := Select(images, Query{Family: FamilyDebian, Arch: ArchAmd64, Mode: ModeAll})
	require.NoError(t, err)
	require.Len(t, result.Images, 2)
	assert.Equal(t, "ami-ranked", result.Images[0].ID)
	assert.Equal(t, "ami-unranked", result.Images[1].ID, "unparseable names sort last but are never dropped")
}

func TestSelectSkipsMalformedRecordsUpstream(t *testing.T) {
	// One Amazon Linux record with an unparseable timestamp mixed with one
	// valid record: normalization skips the bad one, selection still
	// returns the valid one.
	raws := []RawImage{
		{
			ID:           "ami-bad",
			Name:         "al2023-ami-2023.4.20240601.0-kernel-6.1-x86_64",
			OwnerID:      amazonOwnerID,
			Architecture: "x86_64",
			CreationDate: "yesterday",
		},
		{
			ID:           "ami-good",
			Name:         "al2023-ami-2023.4.20240528.0-kernel-6.1-x86_64",
			OwnerID:      amazonOwnerID,
			Architecture: "x86_64",
			CreationDate: "2024-05-28T00:00:00Z",
		},
	}

	images, skipped := NormalizeAll(raws)
	assert.Equal(t, 1, skipped)

	result, err := Select(images, Query{Family: FamilyAmazonLinux, Arch: ArchAmd64, Mode: ModeFirst})
	require.NoError(t, err)
	assert.Equal(t, "ami-good", result.Images[0].ID)
}

func TestSelectIdempotent(t *testing.T) {
	images := mustNormalize(t,
		ubuntuRaw("ami-111", "20240101", "2024-01-01T00:00:00Z"),
		ubuntuRaw("ami-222", "20240601", "2024-06-01T00:00:00Z"),
	)
	q := Query{Family: FamilyUbuntu, Arch: ArchAmd64, Mode: ModeAll}

	first, err := Select(images, q)
	require.NoError(t, err)
	second, err := Select(images, q)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("selection is not idempotent (-first +second):\n%s", diff)
	}
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	images := mustNormalize(t,
		ubuntuRaw("ami-111", "20240101", "2024-01-01T00:00:00Z"),
	)

	_, err := Select(images, Query{Family: FamilyUbuntu, Arch: ArchAmd64, Mode: ModeFirst})
	require.NoError(t, err)
	assert.Empty(t, images[0].Family, "input images must stay untagged")
	assert.True(t, images[0].CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}
