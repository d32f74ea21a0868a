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

const songColumns = "id, sequence, title, artist, created_at"

// SongRepository implements models.Repository[*models.Song].
//
// Songs are unique on the exact (title, artist) pair.
type SongRepository struct {
	db DBTX
}

// NewSongRepository creates a new [SongRepository] with the given database connection
func NewSongRepository(db DBTX) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new [models.Song] with generated ID and sequence.
//
// A song with the same title and artist already present yields [shared.ErrConflict].
func (r *SongRepository) Create(ctx context.Context, song *models.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(ctx, r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO songs ("+songColumns+") VALUES (?, ?, ?, ?, ?)",
		id, sequence, song.Title, song.Artist, song.CreatedAt(),
	)
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: song %q by %q", shared.ErrConflict, song.Title, song.Artist)
	}
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	song.SetID(id)
	song.SetSequence(sequence)
	return nil
}

// Get retrieves a song by ID
func (r *SongRepository) Get(ctx context.Context, id string) (*models.Song, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+songColumns+" FROM songs WHERE id = ?", id)
	return r.scanOne(row, id)
}

// GetByMetadata retrieves the song with exactly this title and artist
func (r *SongRepository) GetByMetadata(ctx context.Context, meta models.SongMetadata) (*models.Song, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE title = ? AND artist = ?",
		meta.Title, meta.Artist,
	)
	return r.scanOne(row, fmt.Sprintf("%q by %q", meta.Title, meta.Artist))
}

// Delete removes a song by ID. Its charts go with it through ON DELETE CASCADE.
func (r *SongRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "songs", "song", id)
}

// CountCharts returns how many charts reference the song.
func (r *SongRepository) CountCharts(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM charts WHERE song_id = ?", id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count charts: %w", err)
	}
	return count, nil
}

// List retrieves all songs matching the given criteria ("title", "artist")
func (r *SongRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Song, error) {
	query := "SELECT " + songColumns + " FROM songs WHERE 1 = 1"
	args := []any{}

	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title = ?"
		args = append(args, title)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

func (r *SongRepository) scanOne(row *sql.Row, key string) (*models.Song, error) {
	song, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("song", key)
	}
	return song, err
}

// scan reads one row into a [models.Song]
func (r *SongRepository) scan(row rowScanner) (*models.Song, error) {
	var (
		id        string
		sequence  int
		meta      models.SongMetadata
		createdAt time.Time
	)

	if err := row.Scan(&id, &sequence, &meta.Title, &meta.Artist, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song := models.NewSong(sequence, meta)
	song.SetID(id)
	song.SetCreatedAt(createdAt)
	return song, nil
}
