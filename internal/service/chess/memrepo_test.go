package chess

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fbarrios/ajedrez-bot/internal/domain"
)

func record(uuid, chat string, endedAt time.Time) *domain.GameRecord {
	return &domain.GameRecord{
		SessionUUID: uuid,
		ChatHash:    chat,
		Result:      "white",
		PGN:         "1. e4 *",
		FinalFEN:    "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		MoveCount:   1,
		StartedAt:   endedAt.Add(-time.Minute),
		EndedAt:     endedAt,
	}
}

func TestMemoryRepositoryInsertAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	id, err := repo.InsertGame(ctx, record("uuid-1", "chat-a", time.Now()))
	if err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want positive", id)
	}

	g, err := repo.GetGame(ctx, id, "chat-a")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if g == nil || g.SessionUUID != "uuid-1" {
		t.Fatalf("got %+v", g)
	}

	// Wrong chat hash must not leak another conversation's game.
	g, err = repo.GetGame(ctx, id, "chat-b")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if g != nil {
		t.Fatalf("cross-chat lookup returned %+v", g)
	}
}

func TestMemoryRepositoryDuplicateUUID(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.InsertGame(ctx, record("uuid-1", "chat-a", time.Now())); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	if _, err := repo.InsertGame(ctx, record("uuid-1", "chat-a", time.Now())); !errors.Is(err, ErrDuplicateGame) {
		t.Fatalf("duplicate insert = %v, want ErrDuplicateGame", err)
	}
}

func TestMemoryRepositoryRecentGamesOrderAndLimit(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 3; i++ {
		r := record(string(rune('a'+i)), "chat-a", base.Add(time.Duration(i)*time.Minute))
		if _, err := repo.InsertGame(ctx, r); err != nil {
			t.Fatalf("InsertGame: %v", err)
		}
	}

	games, err := repo.GetRecentGames(ctx, "chat-a", 2)
	if err != nil {
		t.Fatalf("GetRecentGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("len = %d, want 2", len(games))
	}
	if !games[0].EndedAt.After(games[1].EndedAt) {
		t.Fatalf("not sorted newest first: %v then %v", games[0].EndedAt, games[1].EndedAt)
	}

	games, err = repo.GetRecentGames(ctx, "chat-unknown", 5)
	if err != nil {
		t.Fatalf("GetRecentGames: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("unknown chat returned %d games", len(games))
	}
}
