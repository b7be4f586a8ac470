package chessbuilder

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fbarrios/ajedrez-bot/internal/config"
	"github.com/fbarrios/ajedrez-bot/internal/engine"
	"github.com/fbarrios/ajedrez-bot/internal/game"
	"github.com/fbarrios/ajedrez-bot/internal/service/cache"
	svcchess "github.com/fbarrios/ajedrez-bot/internal/service/chess"
)

type Deps struct {
	Service  *svcchess.Service
	Analyzer *engine.Analyzer
	Store    *game.Store
	Cache    *cache.CacheService
	Repo     svcchess.Repository
}

// New assembles the chess stack from the loaded configuration. Redis
// and Postgres are optional: without Redis sessions live only in
// memory, without Postgres finished games go to an in-memory archive.
func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.TrimSpace(cfg.EnginePath) == "" {
		return nil, fmt.Errorf("ENGINE_PATH is required for the chess engine")
	}

	analyzer, err := engine.NewAnalyzer(engine.Config{
		BinaryPath: cfg.EnginePath,
		Threads:    cfg.EngineThreads,
		HashMB:     cfg.EngineHashMB,
	})
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}

	store, err := game.NewStore(cfg.SessionCapacity)
	if err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}

	var cacheSvc *cache.CacheService
	if strings.TrimSpace(cfg.RedisURL) != "" {
		cconf, perr := parseRedisURL(cfg.RedisURL)
		if perr != nil {
			return nil, fmt.Errorf("parse redis url: %w", perr)
		}
		cacheSvc, err = cache.NewCacheService(*cconf, logger)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
	}

	var repo svcchess.Repository
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(8)
		db.SetConnMaxLifetime(30 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		repo = svcchess.NewRepository(db)
	} else {
		repo = svcchess.NewMemoryRepository()
	}

	svcCfg := svcchess.Config{
		SessionTTL:      time.Duration(cfg.SessionTTLSec) * time.Second,
		DefaultMoveTime: time.Duration(cfg.AnalyzeMoveTimeMillis) * time.Millisecond,
		AnalysisLines:   cfg.AnalyzeMultiPV,
	}

	service, err := svcchess.NewService(store, analyzer, cacheSvc, repo, svcCfg, logger)
	if err != nil {
		return nil, err
	}

	return &Deps{Service: service, Analyzer: analyzer, Store: store, Cache: cacheSvc, Repo: repo}, nil
}

func parseRedisURL(raw string) (*cache.CacheConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	host := u.Hostname()
	portStr := u.Port()
	if portStr == "" {
		portStr = "6379"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}
	db := 0
	if u.Path != "" {
		p := strings.TrimPrefix(u.Path, "/")
		if p != "" {
			if n, err := strconv.Atoi(p); err == nil {
				db = n
			}
		}
	}
	pass, _ := u.User.Password()
	return &cache.CacheConfig{Host: host, Port: port, Password: pass, DB: db}, nil
}
