package ami

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func windowsImage(name string) *Image {
	return &Image{
		ID:        "ami-win",
		Arch:      ArchAmd64,
		CreatedAt: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		Name:      name,
		OwnerID:   windowsOwnerID,
	}
}

func TestWindowsMatcherMatchesBaseOnly(t *testing.T) {
	m := windowsMatcher{}

	tests := []struct {
		name    string
		img     *Image
		matches bool
	}{
		{
			name:    "english full base",
			img:     windowsImage("Windows_Server-2022-English-Full-Base-2024.05.15"),
			matches: true,
		},
		{
			name:    "older release english full base",
			img:     windowsImage("Windows_Server-2019-English-Full-Base-2024.05.15"),
			matches: true,
		},
		{
			name:    "core edition is rejected by default",
			img:     windowsImage("Windows_Server-2022-English-Core-Base-2024.05.15"),
			matches: false,
		},
		{
			name:    "non-english locale is rejected by default",
			img:     windowsImage("Windows_Server-2022-Japanese-Full-Base-2024.05.15"),
			matches: false,
		},
		{
			name:    "sql bundle is rejected by default",
			img:     windowsImage("Windows_Server-2022-English-Full-SQL_2022_Standard-2024.05.15"),
			matches: false,
		},
		{
			name:    "containers variant is rejected by default",
			img:     windowsImage("Windows_Server-2022-English-Full-ContainersLatest-2024.05.15"),
			matches: false,
		},
		{
			name: "wrong owner",
			img: &Image{
				ID:        "ami-fake",
				Arch:      ArchAmd64,
				CreatedAt: time.Now(),
				Name:      "Windows_Server-2022-English-Full-Base-2024.05.15",
				OwnerID:   "000000000000",
			},
			matches: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.matches, m.Matches(tc.img))
		})
	}
}

func TestWindowsMatcherIncludeVariants(t *testing.T) {
	m := windowsMatcher{includeVariants: true}

	assert.True(t, m.Matches(windowsImage("Windows_Server-2022-Japanese-Full-Base-2024.05.15")))
	assert.True(t, m.Matches(windowsImage("Windows_Server-2022-English-Core-Base-2024.05.15")))
	assert.True(t, m.Matches(windowsImage("Windows_Server-2022-English-Full-SQL_2022_Standard-2024.05.15")))
}

func TestWindowsMatcherVersionKey(t *testing.T) {
	m := windowsMatcher{}

	key := m.VersionKey(windowsImage("Windows_Server-2022-English-Full-Base-2024.05.15"))
	assert.Equal(t, Key{Date: 20240515, Release: 2022, Ranked: true}, key)

	key = m.VersionKey(windowsImage("Windows_Server-2019-English-Full-Base-2023.11.08"))
	assert.Equal(t, Key{Date: 20231108, Release: 2019, Ranked: true}, key)
}

func TestWindowsMatcherUnparseableNameIsUnranked(t *testing.T) {
	m := windowsMatcher{}

	key := m.VersionKey(windowsImage("Windows_Server-Legacy-Build"))
	assert.False(t, key.Ranked)
}
