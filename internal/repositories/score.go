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

const scoreColumns = "id, sequence, player_id, chart_id, display_score, judgements, max_chain, gauge, submitted_at"

// ScoreRepository implements models.Repository[*models.Score] for plays attached to a registered chart.
type ScoreRepository struct {
	db DBTX
}

// NewScoreRepository creates a new [ScoreRepository] with the given database connection
func NewScoreRepository(db DBTX) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Create inserts a new [models.Score]. The submission time is the model's creation time.
func (r *ScoreRepository) Create(ctx context.Context, score *models.Score) error {
	if err := score.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(ctx, r.db, "scores")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO scores ("+scoreColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id,
		sequence,
		score.PlayerID(),
		score.ChartID(),
		score.DisplayScore,
		string(score.Judgements),
		score.MaxChain,
		score.Gauge,
		score.SubmittedAt(),
	)
	if IsForeignKeyViolation(err) {
		return shared.NewFieldError(shared.ErrValidation, "chart", "player or chart does not exist")
	}
	if err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}

	score.SetID(id)
	score.SetSequence(sequence)
	return nil
}

// Get retrieves a score by ID
func (r *ScoreRepository) Get(ctx context.Context, id string) (*models.Score, error) {
	score, err := r.scan(r.db.QueryRowContext(ctx, "SELECT "+scoreColumns+" FROM scores WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("score", id)
	}
	return score, err
}

// Delete removes a score by ID
func (r *ScoreRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "scores", "score", id)
}

// List retrieves all scores matching the given criteria ("player_id", "chart_id"), newest first
func (r *ScoreRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Score, error) {
	query := "SELECT " + scoreColumns + " FROM scores WHERE 1 = 1"
	args := []any{}

	if playerID, ok := criteria["player_id"].(string); ok && playerID != "" {
		query += " AND player_id = ?"
		args = append(args, playerID)
	}

	if chartID, ok := criteria["chart_id"].(string); ok && chartID != "" {
		query += " AND chart_id = ?"
		args = append(args, chartID)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.Score
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

func (r *ScoreRepository) scan(row rowScanner) (*models.Score, error) {
	var (
		id          string
		sequence    int
		playerID    string
		chartID     string
		fields      models.ScoreFields
		judgements  string
		submittedAt time.Time
	)

	err := row.Scan(&id, &sequence, &playerID, &chartID, &fields.DisplayScore, &judgements, &fields.MaxChain, &fields.Gauge, &submittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan score: %w", err)
	}
	fields.Judgements = json.RawMessage(judgements)

	score := models.NewScore(sequence, playerID, chartID, fields)
	score.SetID(id)
	score.SetCreatedAt(submittedAt)
	return score, nil
}
