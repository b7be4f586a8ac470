package chess

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fbarrios/ajedrez-bot/internal/domain"
)

var ErrDuplicateGame = errors.New("chess game already archived")

// Repository archives finished games.
type Repository interface {
	InsertGame(ctx context.Context, game *domain.GameRecord) (int64, error)
	GetRecentGames(ctx context.Context, chatHash string, limit int) ([]*domain.GameRecord, error)
	GetGame(ctx context.Context, id int64, chatHash string) (*domain.GameRecord, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertGame(ctx context.Context, game *domain.GameRecord) (int64, error) {
	if game == nil {
		return 0, fmt.Errorf("nil game record")
	}

	const query = `
		INSERT INTO chess_games (
			session_uuid,
			chat_hash,
			result,
			result_method,
			pgn,
			final_fen,
			move_count,
			started_at,
			ended_at,
			duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_uuid) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err := r.db.QueryRowContext(
		ctx,
		query,
		game.SessionUUID,
		game.ChatHash,
		game.Result,
		game.ResultMethod,
		game.PGN,
		game.FinalFEN,
		game.MoveCount,
		game.StartedAt,
		game.EndedAt,
		game.Duration.Milliseconds(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !id.Valid) {
		return 0, ErrDuplicateGame
	}
	if err != nil {
		return 0, fmt.Errorf("insert chess game: %w", err)
	}
	return id.Int64, nil
}

func (r *repository) GetRecentGames(ctx context.Context, chatHash string, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT
			id,
			session_uuid,
			chat_hash,
			result,
			result_method,
			pgn,
			final_fen,
			move_count,
			started_at,
			ended_at,
			duration_ms
		FROM chess_games
		WHERE chat_hash = $1
		ORDER BY ended_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, chatHash, limit)
	if err != nil {
		return nil, fmt.Errorf("select chess games: %w", err)
	}
	defer rows.Close()

	games := make([]*domain.GameRecord, 0, limit)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (r *repository) GetGame(ctx context.Context, id int64, chatHash string) (*domain.GameRecord, error) {
	const query = `
		SELECT
			id,
			session_uuid,
			chat_hash,
			result,
			result_method,
			pgn,
			final_fen,
			move_count,
			started_at,
			ended_at,
			duration_ms
		FROM chess_games
		WHERE id = $1 AND chat_hash = $2`

	game, err := scanGame(r.db.QueryRowContext(ctx, query, id, chatHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return game, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.GameRecord, error) {
	var (
		game       domain.GameRecord
		durationMS sql.NullInt64
	)
	if err := row.Scan(
		&game.ID,
		&game.SessionUUID,
		&game.ChatHash,
		&game.Result,
		&game.ResultMethod,
		&game.PGN,
		&game.FinalFEN,
		&game.MoveCount,
		&game.StartedAt,
		&game.EndedAt,
		&durationMS,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan chess game: %w", err)
	}
	if durationMS.Valid {
		game.Duration = time.Duration(durationMS.Int64) * time.Millisecond
	}
	return &game, nil
}
