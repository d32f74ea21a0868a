package models

import (
	"github.com/simplescore/simplescore-backend/internal/shared"
)

// Chart is a persisted chart file, identified by the fingerprint of its raw bytes.
//
// The fingerprint is assigned once at creation and never recomputed.
type Chart struct {
	record
	fingerprint string
	songID      string
	ChartMetadata
}

// NewChart creates an unsaved [Chart] for the song with songID.
// The shortname is normalized to uppercase.
func NewChart(sequence int, fingerprint, songID string, meta ChartMetadata) *Chart {
	return &Chart{
		record:        newRecord(sequence),
		fingerprint:   fingerprint,
		songID:        songID,
		ChartMetadata: meta.Normalize(),
	}
}

func (c *Chart) Fingerprint() string { return c.fingerprint }
func (c *Chart) SongID() string      { return c.songID }

// Metadata returns the chart metadata.
func (c *Chart) Metadata() ChartMetadata {
	return c.ChartMetadata
}

// Validate checks the fingerprint, the song reference and the chart metadata.
func (c *Chart) Validate() error {
	if err := ValidateFingerprint("fingerprint", c.fingerprint); err != nil {
		return err
	}
	if c.songID == "" {
		return shared.NewFieldError(shared.ErrValidation, "song", "is required")
	}
	return c.ChartMetadata.Validate()
}
