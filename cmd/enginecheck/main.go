package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fbarrios/ajedrez-bot/internal/engine"
	"github.com/fbarrios/ajedrez-bot/internal/poscat"
)

// enginecheck probes a UCI engine binary: it analyzes a named catalog
// position and reports whether the engine answered in time and, for
// positions with a known best move, whether it found it.
func main() {
	binary := os.Getenv("ENGINE_PATH")
	if binary == "" {
		binary = os.Getenv("STOCKFISH_PATH")
	}
	if binary == "" {
		log.Fatal("ENGINE_PATH is required")
	}

	key := os.Getenv("ENGINECHECK_POSITION")
	if key == "" {
		key = "back-rank-mate"
	}

	catalog, err := poscat.New("")
	if err != nil {
		log.Fatalf("position catalog error: %v", err)
	}
	pos, ok := catalog.Get(key)
	if !ok {
		log.Fatalf("unknown position %q (have: %s)", key, strings.Join(catalog.Keys(), ", "))
	}

	analyzer, err := engine.NewAnalyzer(engine.Config{BinaryPath: binary})
	if err != nil {
		log.Fatalf("engine init error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	start := time.Now()
	analysis, err := analyzer.Analyze(ctx, engine.Request{
		FEN:   pos.FEN,
		Limit: engine.Limit{MoveTime: 1500 * time.Millisecond},
	})
	if err != nil {
		log.Fatalf("analysis error: %v", err)
	}

	fmt.Printf("position: %s (%s)\n", pos.Key, pos.About)
	fmt.Printf("fen:      %s\n", pos.FEN)
	fmt.Printf("bestmove: %s\n", analysis.BestMove)
	fmt.Printf("score:    cp=%d mate=%v\n", analysis.Score.CP, analysis.Score.HasMate)
	fmt.Printf("elapsed:  %s\n", time.Since(start).Round(time.Millisecond))

	if pos.Best != "" {
		if strings.EqualFold(analysis.BestMove, pos.Best) {
			fmt.Println("check:    OK, engine found the expected move")
		} else {
			fmt.Printf("check:    engine played %s, expected %s\n", analysis.BestMove, pos.Best)
			os.Exit(1)
		}
	}
}
