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

// PlayerRepository implements [models.Repository] for [models.Player] persistence.
type PlayerRepository struct {
	db DBTX
}

// NewPlayerRepository creates a new [PlayerRepository] with the given database connection
func NewPlayerRepository(db DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create inserts a new player into the database with generated ID and sequence
func (r *PlayerRepository) Create(ctx context.Context, player *models.Player) error {
	if err := player.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(ctx, r.db, "players")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO players (id, sequence, username, created_at) VALUES (?, ?, ?, ?)",
		id, sequence, player.Username(), player.CreatedAt(),
	)
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: player %q", shared.ErrConflict, player.Username())
	}
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}

	player.SetID(id)
	player.SetSequence(sequence)
	return nil
}

// Get retrieves a player by ID
func (r *PlayerRepository) Get(ctx context.Context, id string) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, sequence, username, created_at FROM players WHERE id = ?", id)
	return r.scanOne(row, id)
}

// GetByUsername retrieves a player by the token subject
func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, sequence, username, created_at FROM players WHERE username = ?", username)
	return r.scanOne(row, username)
}

// Delete removes a player and, through ON DELETE CASCADE, their scores
func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "players", "player", id)
}

// List retrieves all players matching the given criteria ("username")
func (r *PlayerRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Player, error) {
	query := "SELECT id, sequence, username, created_at FROM players WHERE 1 = 1"
	args := []any{}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return players, nil
}

func (r *PlayerRepository) scanOne(row *sql.Row, key string) (*models.Player, error) {
	player, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("player", key)
	}
	return player, err
}

func (r *PlayerRepository) scan(row rowScanner) (*models.Player, error) {
	var (
		id        string
		sequence  int
		username  string
		createdAt time.Time
	)

	if err := row.Scan(&id, &sequence, &username, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	player := models.NewPlayer(sequence, username)
	player.SetID(id)
	player.SetCreatedAt(createdAt)
	return player, nil
}
