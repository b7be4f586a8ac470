package chess

import (
	"context"
	"sort"
	"sync"

	"github.com/fbarrios/ajedrez-bot/internal/domain"
)

// memrepo is an in-memory repository used when no database is configured
// and in tests.
type memrepo struct {
	mu sync.RWMutex

	nextID int64

	gamesByID   map[int64]*domain.GameRecord
	gamesByChat map[string][]*domain.GameRecord
	gamesByUUID map[string]*domain.GameRecord
}

func NewMemoryRepository() Repository {
	return &memrepo{
		gamesByID:   make(map[int64]*domain.GameRecord),
		gamesByChat: make(map[string][]*domain.GameRecord),
		gamesByUUID: make(map[string]*domain.GameRecord),
	}
}

func (m *memrepo) InsertGame(ctx context.Context, game *domain.GameRecord) (int64, error) {
	if game == nil {
		return 0, ErrDuplicateGame
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.gamesByUUID[game.SessionUUID]; exists {
		return 0, ErrDuplicateGame
	}

	m.nextID++
	id := m.nextID
	stored := *game
	stored.ID = id

	m.gamesByID[id] = &stored
	m.gamesByUUID[game.SessionUUID] = &stored
	m.gamesByChat[game.ChatHash] = append(m.gamesByChat[game.ChatHash], &stored)

	return id, nil
}

func (m *memrepo) GetRecentGames(ctx context.Context, chatHash string, limit int) ([]*domain.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.gamesByChat[chatHash]
	if len(list) == 0 {
		return []*domain.GameRecord{}, nil
	}
	items := append([]*domain.GameRecord(nil), list...)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memrepo) GetGame(ctx context.Context, id int64, chatHash string) (*domain.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.gamesByID[id]
	if !ok || g == nil || g.ChatHash != chatHash {
		return nil, nil
	}
	stored := *g
	return &stored, nil
}
