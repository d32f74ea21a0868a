package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/simplescore/simplescore-backend/internal/shared"
)

// ScoreKind tells whether a submitted score was attached to a registered chart.
type ScoreKind string

const (
	ScoreKindFull    ScoreKind = "full"
	ScoreKindPartial ScoreKind = "partial"
)

// ScoreFields are the client supplied values of a play.
//
// Judgements is owned by the client and stored verbatim.
type ScoreFields struct {
	DisplayScore int64           `json:"display_score"`
	Judgements   json.RawMessage `json:"judgements"`
	MaxChain     int64           `json:"max_chain"`
	Gauge        int64           `json:"gauge"`
}

// Validate checks that the counters are non-negative and judgements is a JSON object.
func (f ScoreFields) Validate() error {
	for _, c := range []struct {
		field string
		value int64
	}{
		{"display_score", f.DisplayScore},
		{"max_chain", f.MaxChain},
		{"gauge", f.Gauge},
	} {
		if c.value < 0 {
			return shared.NewFieldError(shared.ErrValidation, c.field, "must be non-negative")
		}
	}

	trimmed := bytes.TrimSpace(f.Judgements)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return shared.NewFieldError(shared.ErrValidation, "judgements", "must be a JSON object")
	}
	return nil
}

// ScoreSubmission is a play submitted against a chart fingerprint.
type ScoreSubmission struct {
	ChartFingerprint string `json:"chart_fingerprint"`
	ScoreFields
}

// Validate checks the fingerprint format and the score fields.
func (s ScoreSubmission) Validate() error {
	if err := ValidateFingerprint("chart_fingerprint", s.ChartFingerprint); err != nil {
		return err
	}
	return s.ScoreFields.Validate()
}

// Score is a persisted play attached to a registered chart.
type Score struct {
	record
	playerID string
	chartID  string
	ScoreFields
}

// NewScore creates an unsaved [Score]. The submission time is the creation time.
func NewScore(sequence int, playerID, chartID string, fields ScoreFields) *Score {
	return &Score{record: newRecord(sequence), playerID: playerID, chartID: chartID, ScoreFields: fields}
}

func (s *Score) PlayerID() string       { return s.playerID }
func (s *Score) ChartID() string        { return s.chartID }
func (s *Score) SubmittedAt() time.Time { return s.createdAt }

// Validate checks the references and the score fields.
func (s *Score) Validate() error {
	if s.playerID == "" {
		return shared.NewFieldError(shared.ErrValidation, "player", "is required")
	}
	if s.chartID == "" {
		return shared.NewFieldError(shared.ErrValidation, "chart", "is required")
	}
	return s.ScoreFields.Validate()
}

// PartialScore is a play submitted for a fingerprint that no registered chart has yet.
//
// Partial scores are not promoted when a matching chart is registered later.
type PartialScore struct {
	record
	playerID         string
	chartFingerprint string
	ScoreFields
}

// NewPartialScore creates an unsaved [PartialScore].
func NewPartialScore(sequence int, playerID, fingerprint string, fields ScoreFields) *PartialScore {
	return &PartialScore{record: newRecord(sequence), playerID: playerID, chartFingerprint: fingerprint, ScoreFields: fields}
}

func (s *PartialScore) PlayerID() string         { return s.playerID }
func (s *PartialScore) ChartFingerprint() string { return s.chartFingerprint }
func (s *PartialScore) SubmittedAt() time.Time   { return s.createdAt }

// Validate checks the player reference, the fingerprint and the score fields.
func (s *PartialScore) Validate() error {
	if s.playerID == "" {
		return shared.NewFieldError(shared.ErrValidation, "player", "is required")
	}
	if err := ValidateFingerprint("chart_fingerprint", s.chartFingerprint); err != nil {
		return err
	}
	return s.ScoreFields.Validate()
}
