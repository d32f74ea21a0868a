package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/shared"
)

const chartColumns = "id, sequence, fingerprint, song_id, charter, difficulty_index, difficulty_name, difficulty_shortname, created_at"

// ChartRepository implements models.Repository[*models.Chart].
//
// The fingerprint column is UNIQUE; a second insert of the same fingerprint is reported as
// [shared.ErrDuplicateFingerprint] no matter which writer won the race.
type ChartRepository struct {
	db DBTX
}

// NewChartRepository creates a new [ChartRepository] with the given database connection
func NewChartRepository(db DBTX) *ChartRepository {
	return &ChartRepository{db: db}
}

// Create inserts a new [models.Chart] with generated ID and sequence
func (r *ChartRepository) Create(ctx context.Context, chart *models.Chart) error {
	if err := chart.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(ctx, r.db, "charts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO charts ("+chartColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id,
		sequence,
		chart.Fingerprint(),
		chart.SongID(),
		chart.Charter,
		chart.DifficultyIndex,
		chart.DifficultyName,
		chart.DifficultyShortname,
		chart.CreatedAt(),
	)
	switch {
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %s", shared.ErrDuplicateFingerprint, shared.ShortFingerprint(chart.Fingerprint()))
	case IsForeignKeyViolation(err):
		return shared.NewFieldError(shared.ErrValidation, "song", "%s does not exist", chart.SongID())
	case err != nil:
		return fmt.Errorf("failed to insert chart: %w", err)
	}

	chart.SetID(id)
	chart.SetSequence(sequence)
	return nil
}

// Get retrieves a chart by ID
func (r *ChartRepository) Get(ctx context.Context, id string) (*models.Chart, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+chartColumns+" FROM charts WHERE id = ?", id)
	return r.scanOne(row, id)
}

// GetByFingerprint retrieves a chart by the fingerprint of its file
func (r *ChartRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*models.Chart, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+chartColumns+" FROM charts WHERE fingerprint = ?", fingerprint)
	return r.scanOne(row, shared.ShortFingerprint(fingerprint))
}

// Exists reports whether a chart with this fingerprint is registered
func (r *ChartRepository) Exists(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM charts WHERE fingerprint = ?)", fingerprint).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check chart: %w", err)
	}
	return exists, nil
}

// Delete removes a chart by ID. Scores attached to it are removed by ON DELETE CASCADE.
//
// Song cleanup is not done here; see [Store.DeleteChart].
func (r *ChartRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "charts", "chart", id)
}

// List retrieves all charts matching the given criteria
// ("song_id", "charter", "difficulty_index", "difficulty_name", "difficulty_shortname")
func (r *ChartRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Chart, error) {
	query := "SELECT " + chartColumns + " FROM charts WHERE 1 = 1"
	args := []any{}

	if songID, ok := criteria["song_id"].(string); ok && songID != "" {
		query += " AND song_id = ?"
		args = append(args, songID)
	}

	if charter, ok := criteria["charter"].(string); ok && charter != "" {
		query += " AND charter = ?"
		args = append(args, charter)
	}

	if index, ok := criteria["difficulty_index"].(int); ok {
		query += " AND difficulty_index = ?"
		args = append(args, index)
	}

	for _, key := range []string{"difficulty_name", "difficulty_shortname"} {
		if v, ok := criteria[key].(string); ok && v != "" {
			query += " AND " + key + " = ?"
			args = append(args, v)
		}
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query charts: %w", err)
	}
	defer rows.Close()

	var charts []*models.Chart
	for rows.Next() {
		chart, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		charts = append(charts, chart)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return charts, nil
}

func (r *ChartRepository) scanOne(row *sql.Row, key string) (*models.Chart, error) {
	chart, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("chart", key)
	}
	return chart, err
}

// scan reads one row into a [models.Chart]
func (r *ChartRepository) scan(row rowScanner) (*models.Chart, error) {
	var (
		id          string
		sequence    int
		fingerprint string
		songID      string
		meta        models.ChartMetadata
		createdAt   time.Time
	)

	err := row.Scan(
		&id, &sequence, &fingerprint, &songID,
		&meta.Charter, &meta.DifficultyIndex, &meta.DifficultyName, &meta.DifficultyShortname,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan chart: %w", err)
	}

	chart := models.NewChart(sequence, fingerprint, songID, meta)
	chart.SetID(id)
	chart.SetCreatedAt(createdAt)
	return chart, nil
}
