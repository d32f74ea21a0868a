package models

import (
	"encoding/json"

	"github.com/simplescore/simplescore-backend/internal/shared"
)

// ScoreInput is a score submission as decoded from a client request.
// Counters are pointers so a missing key is told apart from an explicit zero.
type ScoreInput struct {
	ChartFingerprint string          `json:"chart_fingerprint"`
	DisplayScore     *int64          `json:"display_score"`
	Judgements       json.RawMessage `json:"judgements"`
	MaxChain         *int64          `json:"max_chain"`
	Gauge            *int64          `json:"gauge"`
}

// Submission checks that every counter was sent and returns the validated [ScoreSubmission].
func (in ScoreInput) Submission() (ScoreSubmission, error) {
	var sub ScoreSubmission
	for _, c := range []struct {
		field string
		value *int64
	}{
		{"display_score", in.DisplayScore},
		{"max_chain", in.MaxChain},
		{"gauge", in.Gauge},
	} {
		if c.value == nil {
			return sub, shared.NewFieldError(shared.ErrValidation, c.field, "is required")
		}
	}

	sub = ScoreSubmission{
		ChartFingerprint: in.ChartFingerprint,
		ScoreFields: ScoreFields{
			DisplayScore: *in.DisplayScore,
			Judgements:   in.Judgements,
			MaxChain:     *in.MaxChain,
			Gauge:        *in.Gauge,
		},
	}
	return sub, sub.Validate()
}

// ChartMetadataInput is chart metadata as decoded from a client request.
type ChartMetadataInput struct {
	Charter             string `json:"charter"`
	DifficultyIndex     *int   `json:"difficulty_index"`
	DifficultyName      string `json:"difficulty_name"`
	DifficultyShortname string `json:"difficulty_shortname"`
}

// Metadata checks that difficulty_index was sent and returns the [ChartMetadata].
// Text fields are validated later by [ChartMetadata.Validate].
func (in ChartMetadataInput) Metadata() (ChartMetadata, error) {
	if in.DifficultyIndex == nil {
		return ChartMetadata{}, shared.NewFieldError(shared.ErrValidation, "difficulty_index", "is required")
	}
	return ChartMetadata{
		Charter:             in.Charter,
		DifficultyIndex:     *in.DifficultyIndex,
		DifficultyName:      in.DifficultyName,
		DifficultyShortname: in.DifficultyShortname,
	}, nil
}
