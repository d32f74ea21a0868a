package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/simplescore/simplescore-backend/internal/models"
	"github.com/simplescore/simplescore-backend/internal/shared"
)

func TestSongRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewSongRepository(setupTestDB(t))
			song := models.NewSong(0, models.SongMetadata{Title: "", Artist: "Artist"})

			err := repo.Create(ctx, song)
			if !errors.Is(err, shared.ErrValidation) {
				t.Fatalf("expected validation error for empty title, got %v", err)
			}

			var fe *shared.FieldError
			if !errors.As(err, &fe) || fe.Field != "title" {
				t.Errorf("expected field title, got %v", err)
			}
		})

		t.Run("DuplicateMetadata", func(t *testing.T) {
			repo := NewSongRepository(setupTestDB(t))

			if err := repo.Create(ctx, models.NewSong(0, songMeta())); err != nil {
				t.Fatalf("failed to create first song: %v", err)
			}

			err := repo.Create(ctx, models.NewSong(0, songMeta()))
			if !errors.Is(err, shared.ErrConflict) {
				t.Fatalf("expected ErrConflict, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewSongRepository(setupTestDB(t))

			_, err := repo.Get(ctx, "nonexistent-id")
			if !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewSongRepository(setupTestDB(t))

			if err := repo.Delete(ctx, "nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()
		repo := NewSongRepository(db)

		if err := repo.Create(ctx, models.NewSong(0, songMeta())); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := repo.List(ctx, map[string]any{}); err == nil {
			t.Error("expected error on closed database")
		}
	})
}

func TestChartRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateFingerprint", func(t *testing.T) {
		store := NewStore(setupTestDB(t))
		song := createSong(t, store)
		createChart(t, store, song.ID(), fingerprint('a'))

		_, err := store.CreateChart(ctx, fingerprint('a'), song.ID(), chartMeta())
		if !errors.Is(err, shared.ErrDuplicateFingerprint) {
			t.Fatalf("expected ErrDuplicateFingerprint, got %v", err)
		}
	})

	t.Run("MissingSong", func(t *testing.T) {
		store := NewStore(setupTestDB(t))

		_, err := store.CreateChart(ctx, fingerprint('a'), "nonexistent-song", chartMeta())
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("InvalidFingerprint", func(t *testing.T) {
		store := NewStore(setupTestDB(t))
		song := createSong(t, store)

		_, err := store.CreateChart(ctx, "ABC", song.ID(), chartMeta())
		var fe *shared.FieldError
		if !errors.As(err, &fe) || fe.Field != "fingerprint" {
			t.Fatalf("expected fingerprint field error, got %v", err)
		}
	})

	t.Run("InvalidMetadata", func(t *testing.T) {
		store := NewStore(setupTestDB(t))
		song := createSong(t, store)
		meta := chartMeta()
		meta.DifficultyIndex = models.MaxDifficultyIndex + 1

		_, err := store.CreateChart(ctx, fingerprint('a'), song.ID(), meta)
		var fe *shared.FieldError
		if !errors.As(err, &fe) || fe.Field != "difficulty_index" {
			t.Fatalf("expected difficulty_index field error, got %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		store := NewStore(setupTestDB(t))

		if _, err := store.FindChart(ctx, fingerprint('z')); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := store.DeleteChart(ctx, "nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPlayerRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateUsername", func(t *testing.T) {
		repo := NewPlayerRepository(setupTestDB(t))
		if err := repo.Create(ctx, models.NewPlayer(0, "player")); err != nil {
			t.Fatalf("failed to create player: %v", err)
		}

		if err := repo.Create(ctx, models.NewPlayer(0, "player")); !errors.Is(err, shared.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("EmptyUsername", func(t *testing.T) {
		repo := NewPlayerRepository(setupTestDB(t))

		if err := repo.Create(ctx, models.NewPlayer(0, "")); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestScoreRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingChart", func(t *testing.T) {
		store := NewStore(setupTestDB(t))
		player, err := store.EnsurePlayer(ctx, "player")
		if err != nil {
			t.Fatalf("failed to create player: %v", err)
		}

		score := models.NewScore(0, player.ID(), "nonexistent-chart", scoreFields())
		if err := store.CreateScore(ctx, score); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("NegativeValues", func(t *testing.T) {
		store := NewStore(setupTestDB(t))
		player, err := store.EnsurePlayer(ctx, "player")
		if err != nil {
			t.Fatalf("failed to create player: %v", err)
		}

		fields := scoreFields()
		fields.MaxChain = -1
		score := models.NewPartialScore(0, player.ID(), fingerprint('a'), fields)
		if err := store.CreatePartialScore(ctx, score); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		store := NewStore(setupTestDB(t))

		if _, err := store.Scores.Get(ctx, "nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := store.PartialScores.Get(ctx, "nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
