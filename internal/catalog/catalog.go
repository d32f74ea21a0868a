package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/simplescore/simplescore-backend/internal/ksh"
	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/shared"
)

// Catalog reconciles chart files into songs and charts and records scores.
// It is safe for concurrent use; all coordination happens in the [Backend].
type Catalog struct {
	backend Backend
	logger  *log.Logger
	now     func() time.Time
}

// New creates a [Catalog] over backend. A nil logger discards output.
func New(backend Backend, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Catalog{backend: backend, logger: logger, now: time.Now}
}

// SetClock replaces the clock used for score submission times.
func (c *Catalog) SetClock(now func() time.Time) {
	c.now = now
}

// ReconcileResult is the outcome of registering one chart.
type ReconcileResult struct {
	Chart      *models.Chart
	Song       *models.Song
	SongWasNew bool
	Clashes    []*models.Chart // charts of the same song with identical metadata, registered earlier
}

// Ingest parses and fingerprints a chart file, then registers it with [Catalog.Reconcile].
func (c *Catalog) Ingest(ctx context.Context, filename, text string) (*ReconcileResult, error) {
	loaded, err := ksh.Load(filename, text)
	if err != nil {
		return nil, err
	}
	return c.Reconcile(ctx, loaded.Fingerprint, loaded.Song, loaded.Chart)
}

// Reconcile registers a chart under the song described by song, creating the song when no song with
// the same title and artist exists.
//
// The whole operation is one transaction. When the chart cannot be created a song made for it is
// deleted, so a failure leaves no trace.
func (c *Catalog) Reconcile(ctx context.Context, fingerprint string, song models.SongMetadata, chart models.ChartMetadata) (*ReconcileResult, error) {
	if err := models.ValidateFingerprint("fingerprint", fingerprint); err != nil {
		return nil, err
	}
	if err := song.Validate(); err != nil {
		return nil, err
	}

	var result *ReconcileResult
	err := c.backend.WithTx(ctx, func(s Store) error {
		exists, err := s.ChartExists(ctx, fingerprint)
		if err != nil {
			return err
		}
		if exists {
			return duplicate(fingerprint)
		}

		found, isNew, err := findOrCreateSong(ctx, s, song)
		if err != nil {
			return err
		}

		var clashes []*models.Chart
		if !isNew {
			if clashes, err = s.MetadataClashes(ctx, found.ID(), chart); err != nil {
				return err
			}
		}

		created, err := s.CreateChart(ctx, fingerprint, found.ID(), chart)
		if err != nil {
			if isNew {
				if derr := s.DeleteSong(ctx, found.ID()); derr != nil {
					return errors.Join(err, fmt.Errorf("failed to remove song created for chart: %w", derr))
				}
			}
			return err
		}

		result = &ReconcileResult{Chart: created, Song: found, SongWasNew: isNew, Clashes: clashes}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateFingerprint) {
			c.logger.Debug("chart already registered", "fingerprint", shared.ShortFingerprint(fingerprint))
		}
		return nil, err
	}

	if len(result.Clashes) > 0 {
		c.logger.Warn("registered chart with the same metadata as an existing chart",
			"fingerprint", shared.ShortFingerprint(fingerprint),
			"existing", shared.ShortFingerprint(result.Clashes[0].Fingerprint()),
			"clashes", len(result.Clashes),
		)
	}

	c.logger.Info("registered chart",
		"fingerprint", shared.ShortFingerprint(fingerprint),
		"title", result.Song.Title,
		"difficulty", result.Chart.DifficultyShortname,
		"new_song", result.SongWasNew,
	)
	return result, nil
}

// findOrCreateSong looks the song up by exact metadata and creates it when absent.
// A concurrent creation of the same song surfaces as [shared.ErrConflict] and is retried once as a lookup.
func findOrCreateSong(ctx context.Context, s Store, meta models.SongMetadata) (*models.Song, bool, error) {
	song, err := s.FindSong(ctx, meta)
	if err == nil {
		return song, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	song, err = s.CreateSong(ctx, meta)
	if errors.Is(err, shared.ErrConflict) {
		song, err = s.FindSong(ctx, meta)
		return song, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return song, true, nil
}

// Chart returns the chart registered under fingerprint.
func (c *Catalog) Chart(ctx context.Context, fingerprint string) (*models.Chart, error) {
	if err := models.ValidateFingerprint("fingerprint", fingerprint); err != nil {
		return nil, err
	}
	return c.backend.FindChart(ctx, fingerprint)
}

// SongDetail is a song with every chart registered for it.
type SongDetail struct {
	Song   *models.Song
	Charts []*models.Chart
}

// Song returns the song with id and its charts.
func (c *Catalog) Song(ctx context.Context, id string) (*SongDetail, error) {
	song, err := c.backend.GetSong(ctx, id)
	if err != nil {
		return nil, err
	}

	charts, err := c.backend.ChartsForSong(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SongDetail{Song: song, Charts: charts}, nil
}

// DeleteResult describes what [Catalog.DeleteChart] removed.
type DeleteResult struct {
	Chart       *models.Chart
	SongDeleted bool
}

// DeleteChart removes the chart registered under fingerprint together with its scores.
// The owning song is removed in the same transaction when this was its last chart.
func (c *Catalog) DeleteChart(ctx context.Context, fingerprint string) (*DeleteResult, error) {
	if err := models.ValidateFingerprint("fingerprint", fingerprint); err != nil {
		return nil, err
	}

	var result DeleteResult
	err := c.backend.WithTx(ctx, func(s Store) error {
		chart, err := s.FindChart(ctx, fingerprint)
		if err != nil {
			return err
		}

		songDeleted, err := s.DeleteChart(ctx, chart.ID())
		if err != nil {
			return err
		}

		result = DeleteResult{Chart: chart, SongDeleted: songDeleted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("deleted chart",
		"fingerprint", shared.ShortFingerprint(fingerprint),
		"song_deleted", result.SongDeleted,
	)
	return &result, nil
}

func duplicate(fingerprint string) error {
	return shared.NewFieldError(shared.ErrDuplicateFingerprint, "fingerprint", "chart %s is already registered", shared.ShortFingerprint(fingerprint))
}
