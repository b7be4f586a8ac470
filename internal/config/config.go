package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	EnginePath string

	RedisURL    string
	DatabaseURL string

	SessionTTLSec   int
	SessionCapacity int

	AnalyzeMoveTimeMillis int
	AnalyzeDepth          int
	AnalyzeMultiPV        int
	EngineThreads         int
	EngineHashMB          int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		SessionTTLSec:         3600,
		SessionCapacity:       256,
		AnalyzeMoveTimeMillis: 500,
		AnalyzeMultiPV:        1,
		EngineThreads:         1,
		EngineHashMB:          64,
	}

	cfg.EnginePath = strings.TrimSpace(os.Getenv("ENGINE_PATH"))
	if cfg.EnginePath == "" {
		// Legacy name used by earlier deployments.
		cfg.EnginePath = strings.TrimSpace(os.Getenv("STOCKFISH_PATH"))
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("CHESS_SESSION_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_SESSION_CAPACITY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionCapacity = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_ANALYZE_MOVETIME_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AnalyzeMoveTimeMillis = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_ANALYZE_DEPTH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AnalyzeDepth = n
			cfg.AnalyzeMoveTimeMillis = 0
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_ANALYZE_MULTIPV")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AnalyzeMultiPV = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ENGINE_THREADS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EngineThreads = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ENGINE_HASH_MB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EngineHashMB = n
		}
	}

	if cfg.EnginePath == "" {
		return nil, errors.New("ENGINE_PATH is required")
	}

	return cfg, nil
}
