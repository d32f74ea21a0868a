package catalog

import (
	"context"

	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/repositories"
)

// Store is the storage surface the catalog needs. [repositories.Store] implements it.
type Store interface {
	ChartExists(ctx context.Context, fingerprint string) (bool, error)
	FindChart(ctx context.Context, fingerprint string) (*models.Chart, error)
	CreateChart(ctx context.Context, fingerprint, songID string, meta models.ChartMetadata) (*models.Chart, error)
	DeleteChart(ctx context.Context, id string) (bool, error)
	ChartsForSong(ctx context.Context, songID string) ([]*models.Chart, error)
	MetadataClashes(ctx context.Context, songID string, meta models.ChartMetadata) ([]*models.Chart, error)

	FindSong(ctx context.Context, meta models.SongMetadata) (*models.Song, error)
	GetSong(ctx context.Context, id string) (*models.Song, error)
	CreateSong(ctx context.Context, meta models.SongMetadata) (*models.Song, error)
	DeleteSong(ctx context.Context, id string) error

	EnsurePlayer(ctx context.Context, username string) (*models.Player, error)
	CreateScore(ctx context.Context, score *models.Score) error
	CreatePartialScore(ctx context.Context, score *models.PartialScore) error
	FindPartialScores(ctx context.Context, fingerprint string) ([]*models.PartialScore, error)
}

// Backend is a [Store] that can also run a function inside a transaction.
type Backend interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}

type sqlBackend struct {
	*repositories.Database
}

// FromDatabase adapts a [repositories.Database] into a [Backend].
func FromDatabase(db *repositories.Database) Backend {
	return sqlBackend{Database: db}
}

func (b sqlBackend) WithTx(ctx context.Context, fn func(Store) error) error {
	return b.Database.WithTx(ctx, func(s *repositories.Store) error { return fn(s) })
}

type directBackend struct {
	Store
}

// Direct returns a [Backend] whose transactions call fn on s with no rollback.
// Writes that fail halfway are undone only by the explicit cleanup in [Catalog.Reconcile].
func Direct(s Store) Backend {
	return directBackend{Store: s}
}

func (b directBackend) WithTx(ctx context.Context, fn func(Store) error) error {
	return fn(b.Store)
}
