package ami

import (
	"fmt"
	"time"

	log "github.com/lucas-albers-lz4/amifind/pkg/log"
)

// Normalize converts one raw catalog record into its comparable form.
// The creation timestamp must be RFC 3339 (the EC2 CreationDate format) and
// the architecture must map to a known Arch value. Family is left empty;
// matching sets it later.
func Normalize(raw RawImage) (*Image, error) {
	arch, err := ParseArch(raw.Architecture)
	if err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339, raw.CreationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnparseableTimestamp, raw.CreationDate)
	}

	return &Image{
		ID:        raw.ID,
		Arch:      arch,
		CreatedAt: createdAt.UTC(),
		Name:      raw.Name,
		OwnerID:   raw.OwnerID,
	}, nil
}

// NormalizeAll normalizes a batch of raw records, skipping records that fail
// to normalize. Skipped records are counted and logged, not fatal; an
// all-bad batch simply yields an empty slice, which selection reports as
// no match.
func NormalizeAll(raws []RawImage) ([]*Image, int) {
	images := make([]*Image, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		img, err := Normalize(raw)
		if err != nil {
			skipped++
			log.Warn("Skipping malformed catalog record", "id", raw.ID, "name", raw.Name, "error", err)
			continue
		}
		images = append(images, img)
	}
	if skipped > 0 {
		log.Debug("Normalized catalog batch", "total", len(raws), "skipped", skipped)
	}
	return images, skipped
}
