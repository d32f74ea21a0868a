package models

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/simplescore/simplescore-backend/internal/shared"
)

// Column limits of the catalog schema.
const (
	MaxTextLength           = 100
	MaxDifficultyNameLength = 50
	MaxShortnameLength      = 8
	MaxDifficultyIndex      = 32767
	FingerprintLength       = 128
)

var fingerprintPattern = regexp.MustCompile(`^[0-9a-f]{128}$`)

// ValidFingerprint reports whether s is a 128 character lowercase hex digest.
func ValidFingerprint(s string) bool {
	return fingerprintPattern.MatchString(s)
}

// ValidateFingerprint returns a [shared.FieldError] for field when s is not a valid fingerprint.
func ValidateFingerprint(field, s string) error {
	if !ValidFingerprint(s) {
		return shared.NewFieldError(shared.ErrValidation, field, "must be %d lowercase hexadecimal characters", FingerprintLength)
	}
	return nil
}

// SongMetadata identifies a song. Two songs are the same song only when both fields match exactly.
type SongMetadata struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Validate checks both fields against the schema limits.
func (m SongMetadata) Validate() error {
	if err := requireText("title", m.Title, MaxTextLength); err != nil {
		return err
	}
	return requireText("artist", m.Artist, MaxTextLength)
}

// ChartMetadata describes one difficulty of a song as read from a chart file header.
type ChartMetadata struct {
	Charter             string `json:"charter"`
	DifficultyIndex     int    `json:"difficulty_index"`
	DifficultyName      string `json:"difficulty_name"`
	DifficultyShortname string `json:"difficulty_shortname"`
}

// Normalize returns a copy with the shortname stored uppercase.
func (m ChartMetadata) Normalize() ChartMetadata {
	m.DifficultyShortname = strings.ToUpper(m.DifficultyShortname)
	return m
}

// Validate checks every field against the schema limits.
func (m ChartMetadata) Validate() error {
	if err := requireText("charter", m.Charter, MaxTextLength); err != nil {
		return err
	}
	if m.DifficultyIndex < 0 || m.DifficultyIndex > MaxDifficultyIndex {
		return shared.NewFieldError(shared.ErrValidation, "difficulty_index", "must be between 0 and %d", MaxDifficultyIndex)
	}
	if err := requireText("difficulty_name", m.DifficultyName, MaxDifficultyNameLength); err != nil {
		return err
	}
	if err := requireText("difficulty_shortname", m.DifficultyShortname, MaxShortnameLength); err != nil {
		return err
	}
	if m.DifficultyShortname != strings.ToUpper(m.DifficultyShortname) {
		return shared.NewFieldError(shared.ErrValidation, "difficulty_shortname", "must be uppercase")
	}
	return nil
}

func requireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return shared.NewFieldError(shared.ErrValidation, field, "may not be blank")
	}
	if n := utf8.RuneCountInString(value); n > max {
		return shared.NewFieldError(shared.ErrValidation, field, "has %d characters, at most %d allowed", n, max)
	}
	return nil
}
