package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/shared"
)

// Store groups the repositories over one [DBTX] and exposes the catalog operations as explicit methods.
//
// Lifecycle rules that an ORM would hide in delete hooks live here: [Store.DeleteChart] removes
// the owning song when its last chart goes.
type Store struct {
	Songs         *SongRepository
	Charts        *ChartRepository
	Players       *PlayerRepository
	Scores        *ScoreRepository
	PartialScores *PartialScoreRepository
}

// NewStore binds every repository to q.
func NewStore(q DBTX) *Store {
	return &Store{
		Songs:         NewSongRepository(q),
		Charts:        NewChartRepository(q),
		Players:       NewPlayerRepository(q),
		Scores:        NewScoreRepository(q),
		PartialScores: NewPartialScoreRepository(q),
	}
}

// CreateSong inserts a song for meta.
func (s *Store) CreateSong(ctx context.Context, meta models.SongMetadata) (*models.Song, error) {
	song := models.NewSong(0, meta)
	if err := s.Songs.Create(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

// FindSong looks a song up by its exact title and artist.
func (s *Store) FindSong(ctx context.Context, meta models.SongMetadata) (*models.Song, error) {
	return s.Songs.GetByMetadata(ctx, meta)
}

// GetSong looks a song up by ID.
func (s *Store) GetSong(ctx context.Context, id string) (*models.Song, error) {
	return s.Songs.Get(ctx, id)
}

// DeleteSong removes a song and its charts.
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	return s.Songs.Delete(ctx, id)
}

// CreateChart inserts a chart for the song with songID.
func (s *Store) CreateChart(ctx context.Context, fingerprint, songID string, meta models.ChartMetadata) (*models.Chart, error) {
	chart := models.NewChart(0, fingerprint, songID, meta)
	if err := s.Charts.Create(ctx, chart); err != nil {
		return nil, err
	}
	return chart, nil
}

// FindChart looks a chart up by fingerprint.
func (s *Store) FindChart(ctx context.Context, fingerprint string) (*models.Chart, error) {
	return s.Charts.GetByFingerprint(ctx, fingerprint)
}

// ChartExists reports whether a chart with this fingerprint is registered.
func (s *Store) ChartExists(ctx context.Context, fingerprint string) (bool, error) {
	return s.Charts.Exists(ctx, fingerprint)
}

// ChartsForSong lists the charts of a song.
func (s *Store) ChartsForSong(ctx context.Context, songID string) ([]*models.Chart, error) {
	return s.Charts.List(ctx, map[string]any{"song_id": songID})
}

// MetadataClashes lists the charts of a song whose metadata equals meta in every field.
// Such charts describe the same difficulty with different file contents.
func (s *Store) MetadataClashes(ctx context.Context, songID string, meta models.ChartMetadata) ([]*models.Chart, error) {
	meta = meta.Normalize()
	return s.Charts.List(ctx, map[string]any{
		"song_id":              songID,
		"charter":              meta.Charter,
		"difficulty_index":     meta.DifficultyIndex,
		"difficulty_name":      meta.DifficultyName,
		"difficulty_shortname": meta.DifficultyShortname,
	})
}

// DeleteChart removes a chart, then its song if no charts remain.
// It reports whether the song was removed too.
func (s *Store) DeleteChart(ctx context.Context, id string) (bool, error) {
	chart, err := s.Charts.Get(ctx, id)
	if err != nil {
		return false, err
	}

	if err := s.Charts.Delete(ctx, id); err != nil {
		return false, err
	}

	return s.maybeDeleteSong(ctx, chart.SongID())
}

// maybeDeleteSong removes the song when it has zero charts.
func (s *Store) maybeDeleteSong(ctx context.Context, songID string) (bool, error) {
	count, err := s.Songs.CountCharts(ctx, songID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if err := s.Songs.Delete(ctx, songID); err != nil {
		return false, fmt.Errorf("failed to remove song without charts: %w", err)
	}
	return true, nil
}

// EnsurePlayer returns the player for username, creating it on first use.
//
// A concurrent insert of the same username is resolved by reading the winner's row.
func (s *Store) EnsurePlayer(ctx context.Context, username string) (*models.Player, error) {
	player, err := s.Players.GetByUsername(ctx, username)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	player = models.NewPlayer(0, username)
	err = s.Players.Create(ctx, player)
	if errors.Is(err, shared.ErrConflict) {
		return s.Players.GetByUsername(ctx, username)
	}
	if err != nil {
		return nil, err
	}
	return player, nil
}

// CreateScore inserts a full score.
func (s *Store) CreateScore(ctx context.Context, score *models.Score) error {
	return s.Scores.Create(ctx, score)
}

// CreatePartialScore inserts a partial score.
func (s *Store) CreatePartialScore(ctx context.Context, score *models.PartialScore) error {
	return s.PartialScores.Create(ctx, score)
}

// FindPartialScores lists the partial scores submitted for a fingerprint.
func (s *Store) FindPartialScores(ctx context.Context, fingerprint string) ([]*models.PartialScore, error) {
	return s.PartialScores.ListByFingerprint(ctx, fingerprint)
}

// Database owns the connection pool and hands out transaction-bound [Store] values.
type Database struct {
	db *sql.DB
	*Store
}

// NewDatabase wraps db. The embedded [Store] runs outside any transaction.
func NewDatabase(db *sql.DB) *Database {
	return &Database{db: db, Store: NewStore(db)}
}

// DB returns the underlying pool.
func (d *Database) DB() *sql.DB {
	return d.db
}

// WithTx runs fn inside a transaction, committing when fn returns nil and rolling back otherwise.
func (d *Database) WithTx(ctx context.Context, fn func(*Store) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
