package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/shared"
)

const partialScoreColumns = "id, sequence, player_id, chart_fingerprint, display_score, judgements, max_chain, gauge, submitted_at"

// PartialScoreRepository implements models.Repository[*models.PartialScore] for plays whose chart is not registered.
type PartialScoreRepository struct {
	db DBTX
}

// NewPartialScoreRepository creates a new [PartialScoreRepository] with the given database connection
func NewPartialScoreRepository(db DBTX) *PartialScoreRepository {
	return &PartialScoreRepository{db: db}
}

// Create inserts a new [models.PartialScore]
func (r *PartialScoreRepository) Create(ctx context.Context, score *models.PartialScore) error {
	if err := score.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(ctx, r.db, "partial_scores")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO partial_scores ("+partialScoreColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id,
		sequence,
		score.PlayerID(),
		score.ChartFingerprint(),
		score.DisplayScore,
		string(score.Judgements),
		score.MaxChain,
		score.Gauge,
		score.SubmittedAt(),
	)
	if IsForeignKeyViolation(err) {
		return shared.NewFieldError(shared.ErrValidation, "player", "%s does not exist", score.PlayerID())
	}
	if err != nil {
		return fmt.Errorf("failed to insert partial score: %w", err)
	}

	score.SetID(id)
	score.SetSequence(sequence)
	return nil
}

// Get retrieves a partial score by ID
func (r *PartialScoreRepository) Get(ctx context.Context, id string) (*models.PartialScore, error) {
	score, err := r.scan(r.db.QueryRowContext(ctx, "SELECT "+partialScoreColumns+" FROM partial_scores WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("partial score", id)
	}
	return score, err
}

// Delete removes a partial score by ID
func (r *PartialScoreRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "partial_scores", "partial score", id)
}

// ListByFingerprint returns the partial scores waiting on a chart fingerprint, oldest first
func (r *PartialScoreRepository) ListByFingerprint(ctx context.Context, fingerprint string) ([]*models.PartialScore, error) {
	return r.List(ctx, map[string]any{"chart_fingerprint": fingerprint})
}

// List retrieves all partial scores matching the given criteria ("player_id", "chart_fingerprint")
func (r *PartialScoreRepository) List(ctx context.Context, criteria map[string]any) ([]*models.PartialScore, error) {
	query := "SELECT " + partialScoreColumns + " FROM partial_scores WHERE 1 = 1"
	args := []any{}

	if playerID, ok := criteria["player_id"].(string); ok && playerID != "" {
		query += " AND player_id = ?"
		args = append(args, playerID)
	}

	if fingerprint, ok := criteria["chart_fingerprint"].(string); ok && fingerprint != "" {
		query += " AND chart_fingerprint = ?"
		args = append(args, fingerprint)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query partial scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.PartialScore
	for rows.Next() {
		score, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return scores, nil
}

func (r *PartialScoreRepository) scan(row rowScanner) (*models.PartialScore, error) {
	var (
		id          string
		sequence    int
		playerID    string
		fingerprint string
		fields      models.ScoreFields
		judgements  string
		submittedAt time.Time
	)

	err := row.Scan(&id, &sequence, &playerID, &fingerprint, &fields.DisplayScore, &judgements, &fields.MaxChain, &fields.Gauge, &submittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan partial score: %w", err)
	}
	fields.Judgements = json.RawMessage(judgements)

	score := models.NewPartialScore(sequence, playerID, fingerprint, fields)
	score.SetID(id)
	score.SetCreatedAt(submittedAt)
	return score, nil
}
