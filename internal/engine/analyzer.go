package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fbarrios/ajedrez-bot/internal/engine/uci"
)

var (
	ErrUnavailable = errors.New("engine unavailable")
	ErrTimeout     = errors.New("engine timeout")
	ErrNoMoveFound = errors.New("engine found no move")
)

// Limit is the resource budget for one analysis. Exactly one of MoveTime
// or Depth must be set.
type Limit struct {
	MoveTime time.Duration
	Depth    int
}

func (l Limit) toUCI() uci.Limits {
	return uci.Limits{
		Depth:          l.Depth,
		MoveTimeMillis: int(l.MoveTime / time.Millisecond),
	}
}

// Validate reports whether the limit is usable: exactly one of MoveTime
// or Depth must be set.
func (l Limit) Validate() error {
	return l.toUCI().Validate()
}

type Request struct {
	FEN   string
	Limit Limit
	Lines int
}

// Analysis is the raw outcome of one engine run. Score is relative to
// the side to move in the analyzed position; normalization happens at a
// higher layer.
type Analysis struct {
	FEN        string
	BestMove   string
	Score      uci.Score
	Principal  []string
	Candidates []uci.Candidate
	Duration   time.Duration
}

type Config struct {
	BinaryPath string
	Threads    int
	HashMB     int
}

// Analyzer runs the external engine one process per request. Each call
// pays the startup handshake in exchange for strict isolation between
// analyses.
type Analyzer struct {
	binaryPath string
	threads    int
	hashMB     int
}

func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if strings.TrimSpace(cfg.BinaryPath) == "" {
		return nil, fmt.Errorf("engine binary path required")
	}
	if _, err := os.Stat(cfg.BinaryPath); err != nil {
		return nil, fmt.Errorf("engine binary check: %w", err)
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = 1
	}
	hashMB := cfg.HashMB
	if hashMB <= 0 {
		hashMB = 64
	}
	return &Analyzer{binaryPath: cfg.BinaryPath, threads: threads, hashMB: hashMB}, nil
}

func (a *Analyzer) Analyze(ctx context.Context, req Request) (Analysis, error) {
	limits := req.Limit.toUCI()
	if err := limits.Validate(); err != nil {
		return Analysis{}, err
	}
	lines := req.Lines
	if lines <= 0 {
		lines = 1
	}

	start := time.Now()
	session, err := uci.NewSession(ctx, a.binaryPath, uci.Options{
		Threads: a.threads,
		HashMB:  a.hashMB,
		MultiPV: lines,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer session.Close()

	resp, err := session.Search(ctx, uci.SearchRequest{FEN: req.FEN, Limits: limits})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Analysis{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Analysis{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	best := strings.ToLower(strings.TrimSpace(resp.BestMove))
	if best == "" {
		return Analysis{}, ErrNoMoveFound
	}

	analysis := Analysis{
		FEN:        req.FEN,
		BestMove:   best,
		Candidates: resp.Candidates,
		Duration:   time.Since(start),
	}
	for _, cand := range resp.Candidates {
		if strings.EqualFold(cand.Move, best) {
			analysis.Score = cand.Score
			analysis.Principal = append([]string(nil), cand.Principal...)
			break
		}
	}
	if len(analysis.Principal) == 0 {
		if len(resp.Candidates) > 0 {
			analysis.Score = resp.Candidates[0].Score
			analysis.Principal = append([]string(nil), resp.Candidates[0].Principal...)
		} else {
			analysis.Principal = []string{best}
		}
	}
	return analysis, nil
}
