package config

import "testing"

func TestLoadRequiresEnginePath(t *testing.T) {
	t.Setenv("ENGINE_PATH", "")
	t.Setenv("STOCKFISH_PATH", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without ENGINE_PATH")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENGINE_PATH", "/usr/bin/stockfish")
	t.Setenv("STOCKFISH_PATH", "")
	t.Setenv("CHESS_SESSION_TTL", "")
	t.Setenv("CHESS_SESSION_CAPACITY", "")
	t.Setenv("CHESS_ANALYZE_MOVETIME_MS", "")
	t.Setenv("CHESS_ANALYZE_DEPTH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnginePath != "/usr/bin/stockfish" {
		t.Fatalf("engine path = %q", cfg.EnginePath)
	}
	if cfg.SessionTTLSec != 3600 || cfg.SessionCapacity != 256 {
		t.Fatalf("session defaults: ttl=%d cap=%d", cfg.SessionTTLSec, cfg.SessionCapacity)
	}
	if cfg.AnalyzeMoveTimeMillis != 500 || cfg.AnalyzeDepth != 0 {
		t.Fatalf("analyze defaults: mt=%d depth=%d", cfg.AnalyzeMoveTimeMillis, cfg.AnalyzeDepth)
	}
	if cfg.EngineThreads != 1 || cfg.EngineHashMB != 64 {
		t.Fatalf("engine defaults: threads=%d hash=%d", cfg.EngineThreads, cfg.EngineHashMB)
	}
}

func TestLoadLegacyEngineVar(t *testing.T) {
	t.Setenv("ENGINE_PATH", "")
	t.Setenv("STOCKFISH_PATH", "/opt/stockfish")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnginePath != "/opt/stockfish" {
		t.Fatalf("engine path = %q", cfg.EnginePath)
	}
}

func TestLoadDepthDisablesMoveTime(t *testing.T) {
	t.Setenv("ENGINE_PATH", "/usr/bin/stockfish")
	t.Setenv("CHESS_ANALYZE_DEPTH", "18")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AnalyzeDepth != 18 {
		t.Fatalf("depth = %d", cfg.AnalyzeDepth)
	}
	if cfg.AnalyzeMoveTimeMillis != 0 {
		t.Fatalf("movetime = %d, want 0 when depth is set", cfg.AnalyzeMoveTimeMillis)
	}
}
