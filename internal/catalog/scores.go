package catalog

import (
	"context"
	"errors"

	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/shared"
)

// ScoreResult is the outcome of a score submission. Exactly one of Score and Partial is set, matching Kind.
type ScoreResult struct {
	Kind    models.ScoreKind
	Player  *models.Player
	Score   *models.Score
	Partial *models.PartialScore
}

// SubmitScore records a play by the player named username.
//
// When a chart with the submitted fingerprint is registered the play becomes a full score attached to
// it; otherwise it is kept as a partial score holding the fingerprint. The submission time comes from
// the catalog clock.
func (c *Catalog) SubmitScore(ctx context.Context, username string, sub models.ScoreSubmission) (*ScoreResult, error) {
	if username == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	submittedAt := c.now().UTC()

	var result *ScoreResult
	err := c.backend.WithTx(ctx, func(s Store) error {
		player, err := s.EnsurePlayer(ctx, username)
		if err != nil {
			return err
		}

		chart, err := s.FindChart(ctx, sub.ChartFingerprint)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			partial := models.NewPartialScore(0, player.ID(), sub.ChartFingerprint, sub.ScoreFields)
			partial.SetCreatedAt(submittedAt)
			if err := s.CreatePartialScore(ctx, partial); err != nil {
				return err
			}
			result = &ScoreResult{Kind: models.ScoreKindPartial, Player: player, Partial: partial}
			return nil
		case err != nil:
			return err
		}

		score := models.NewScore(0, player.ID(), chart.ID(), sub.ScoreFields)
		score.SetCreatedAt(submittedAt)
		if err := s.CreateScore(ctx, score); err != nil {
			return err
		}
		result = &ScoreResult{Kind: models.ScoreKindFull, Player: player, Score: score}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("recorded score",
		"player", username,
		"kind", result.Kind,
		"fingerprint", shared.ShortFingerprint(sub.ChartFingerprint),
		"display_score", sub.DisplayScore,
	)
	return result, nil
}

// PartialScores lists the partial scores submitted for fingerprint. They are never promoted to full
// scores, even after a matching chart is registered.
func (c *Catalog) PartialScores(ctx context.Context, fingerprint string) ([]*models.PartialScore, error) {
	if err := models.ValidateFingerprint("fingerprint", fingerprint); err != nil {
		return nil, err
	}
	return c.backend.FindPartialScores(ctx, fingerprint)
}
