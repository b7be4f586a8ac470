package chess

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/fbarrios/ajedrez-bot/internal/domain"
	"github.com/fbarrios/ajedrez-bot/internal/engine"
	"github.com/fbarrios/ajedrez-bot/internal/game"
	"github.com/fbarrios/ajedrez-bot/internal/service/cache"
	"github.com/fbarrios/ajedrez-bot/pkg/chessdto"
)

// Typed rejections surfaced to the presentation layer. Move and
// position errors come from the game package, engine errors from the
// engine package; they are re-exported here so callers have one
// boundary to match against.
var (
	ErrInvalidNotation   = game.ErrInvalidNotation
	ErrIllegalMove       = game.ErrIllegalMove
	ErrInvalidFEN        = game.ErrInvalidFEN
	ErrGameAlreadyOver   = game.ErrGameOver
	ErrEngineUnavailable = engine.ErrUnavailable
	ErrEngineTimeout     = engine.ErrTimeout
	ErrNoMoveFound       = engine.ErrNoMoveFound
	ErrStaleAnalysis     = errors.New("analysis no longer matches the session position")
)

const (
	defaultSessionTTL      = time.Hour
	defaultAnalyzeMoveTime = 500 * time.Millisecond
	analysisBuffer         = 2 * time.Second
	maxPrincipalMoves      = 10
)

// Analyzer is the engine adapter consumed by the service.
type Analyzer interface {
	Analyze(ctx context.Context, req engine.Request) (engine.Analysis, error)
}

type Config struct {
	SessionTTL      time.Duration
	DefaultMoveTime time.Duration
	AnalysisLines   int
}

// Service owns the per-conversation game sessions and drives the engine
// adapter. Analysis never mutates a session; applying a suggested move
// is a separate, fingerprint-checked call.
type Service struct {
	store    *game.Store
	analyzer Analyzer
	cache    *cache.CacheService
	repo     Repository
	cfg      Config
	logger   *zap.Logger
}

// snapshotPayload is the persisted form of a session.
type snapshotPayload struct {
	SessionUUID string    `json:"session_uuid"`
	FEN         string    `json:"fen"`
	History     []string  `json:"history"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewService wires the session store and engine adapter. cacheSvc and
// repo may be nil: without a cache sessions live only in memory, without
// a repository finished games are not archived.
func NewService(store *game.Store, analyzer Analyzer, cacheSvc *cache.CacheService, repo Repository, cfg Config, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if analyzer == nil {
		return nil, fmt.Errorf("engine analyzer is required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.DefaultMoveTime <= 0 {
		cfg.DefaultMoveTime = defaultAnalyzeMoveTime
	}
	if cfg.AnalysisLines <= 0 {
		cfg.AnalysisLines = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		analyzer: analyzer,
		cache:    cacheSvc,
		repo:     repo,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// ApplyMove resolves free-form move text against the session's current
// position and commits it.
func (s *Service) ApplyMove(ctx context.Context, id, moveText string) (*chessdto.MoveResult, error) {
	h := s.handle(ctx, id)
	h.Lock()
	defer h.Unlock()

	sess := h.Session
	if sess.GameOver() {
		return nil, ErrGameAlreadyOver
	}

	rm, err := game.Resolve(sess.Position(), moveText)
	if err != nil {
		return nil, err
	}
	if err := sess.Apply(rm); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, id, sess)
	return &chessdto.MoveResult{
		SAN:   rm.SAN,
		UCI:   rm.UCI,
		State: summarize(sess, rm.SAN, rm.UCI),
	}, nil
}

// Undo takes back up to n moves. It never fails: with an empty history
// the returned count is 0 and the session is untouched.
func (s *Service) Undo(ctx context.Context, id string, n int) (*chessdto.UndoResult, error) {
	h := s.handle(ctx, id)
	h.Lock()
	defer h.Unlock()

	sess := h.Session
	undone := sess.Undo(n)
	if undone > 0 {
		s.afterMutation(ctx, id, sess)
	}
	return &chessdto.UndoResult{
		Undone: undone,
		State:  summarize(sess, "", ""),
	}, nil
}

// Reset discards the session and starts a fresh game. Any analysis
// computed against the old position becomes stale by fingerprint.
func (s *Service) Reset(ctx context.Context, id string) (*chessdto.StateSummary, error) {
	h := s.handle(ctx, id)
	h.Lock()
	defer h.Unlock()

	h.Session = game.NewSession()
	s.afterMutation(ctx, id, h.Session)
	state := summarize(h.Session, "", "")
	return &state, nil
}

// SetPosition replaces the session wholesale with the given position.
// On invalid text the prior board and history remain unchanged.
func (s *Service) SetPosition(ctx context.Context, id, fen string) (*chessdto.StateSummary, error) {
	h := s.handle(ctx, id)
	h.Lock()
	defer h.Unlock()

	fresh, err := game.NewSessionFromFEN(fen)
	if err != nil {
		return nil, err
	}
	h.Session = fresh
	s.afterMutation(ctx, id, fresh)
	state := summarize(fresh, "", "")
	return &state, nil
}

// Status reports the session's current state without mutating it.
func (s *Service) Status(ctx context.Context, id string) (*chessdto.StateSummary, error) {
	h := s.handle(ctx, id)
	h.Lock()
	defer h.Unlock()

	state := summarize(h.Session, "", "")
	return &state, nil
}

// Analyze runs the engine against an immutable snapshot of the current
// position. The session lock is not held for the engine run, so the
// session stays usable while analysis is outstanding; the returned
// report carries the snapshot FEN for staleness checks.
func (s *Service) Analyze(ctx context.Context, id string, limit engine.Limit) (*chessdto.AnalysisReport, error) {
	h := s.handle(ctx, id)
	h.Lock()
	sess := h.Session
	fen := sess.FEN()
	pos := sess.Position()
	h.Unlock()

	if limit.MoveTime <= 0 && limit.Depth <= 0 {
		limit.MoveTime = s.cfg.DefaultMoveTime
	}
	// A bad limit is the caller's mistake, not an engine failure; reject
	// it before an engine process is ever involved.
	if err := limit.Validate(); err != nil {
		return nil, err
	}

	evalCtx, cancel := context.WithTimeout(ctx, analysisTimeout(limit))
	defer cancel()

	analysis, err := s.analyzer.Analyze(evalCtx, engine.Request{
		FEN:   fen,
		Limit: limit,
		Lines: s.cfg.AnalysisLines,
	})
	if err != nil {
		s.logger.Warn("engine analysis failed",
			zap.Error(err),
			zap.String("fen", fen),
			zap.Int("depth", limit.Depth),
			zap.Duration("movetime", limit.MoveTime),
		)
		return nil, mapEngineError(err)
	}

	eval := engine.Normalize(analysis.Score, pos.Turn() == nchess.White)

	san := ""
	if mv, decodeErr := (nchess.UCINotation{}).Decode(pos, analysis.BestMove); decodeErr == nil {
		san = (nchess.AlgebraicNotation{}).Encode(pos, mv)
	}

	principal := analysis.Principal
	if len(principal) > maxPrincipalMoves {
		principal = principal[:maxPrincipalMoves]
	}

	return &chessdto.AnalysisReport{
		FEN:         fen,
		BestMoveUCI: analysis.BestMove,
		BestMoveSAN: san,
		Eval: chessdto.EvalReport{
			Centipawns: eval.Centipawns,
			Mate:       eval.Mate,
			Display:    eval.String(),
		},
		Principal:    append([]string(nil), principal...),
		PrincipalSAN: principalSAN(pos, principal),
		Duration:     analysis.Duration,
	}, nil
}

// ApplySuggested commits a previously computed best move, provided the
// session is still at the position the analysis was computed against. A
// stale report is rejected, never applied.
func (s *Service) ApplySuggested(ctx context.Context, id string, report *chessdto.AnalysisReport) (*chessdto.MoveResult, error) {
	if report == nil || strings.TrimSpace(report.BestMoveUCI) == "" {
		return nil, ErrStaleAnalysis
	}

	h := s.handle(ctx, id)
	h.Lock()
	defer h.Unlock()

	sess := h.Session
	if sess.FEN() != report.FEN {
		return nil, ErrStaleAnalysis
	}
	if sess.GameOver() {
		return nil, ErrGameAlreadyOver
	}

	rm, err := game.Resolve(sess.Position(), report.BestMoveUCI)
	if err != nil {
		return nil, err
	}
	if err := sess.Apply(rm); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, id, sess)
	return &chessdto.MoveResult{
		SAN:   rm.SAN,
		UCI:   rm.UCI,
		State: summarize(sess, rm.SAN, rm.UCI),
	}, nil
}

// RecentGames lists archived finished games for the conversation.
func (s *Service) RecentGames(ctx context.Context, id string, limit int) ([]*domain.GameRecord, error) {
	if s.repo == nil {
		return []*domain.GameRecord{}, nil
	}
	return s.repo.GetRecentGames(ctx, chatHash(id), limit)
}

// handle resolves the store entry for id, restoring a persisted
// snapshot on a store miss when a cache is configured.
func (s *Service) handle(ctx context.Context, id string) *game.Handle {
	if h, ok := s.store.Peek(id); ok {
		return h
	}
	if s.cache != nil {
		payload := &snapshotPayload{}
		if err := s.cache.Get(ctx, sessionKey(id), payload); err != nil {
			s.logger.Warn("session snapshot load failed", zap.Error(err))
		} else if payload.FEN != "" {
			sess, err := game.Restore(payload.SessionUUID, payload.FEN, payload.History)
			if err == nil {
				return s.store.Adopt(id, sess)
			}
			s.logger.Warn("session snapshot restore failed", zap.Error(err))
		}
	}
	h, _ := s.store.GetOrCreate(id)
	return h
}

// afterMutation persists the session snapshot and archives the game if
// it just ended. Both are best effort; failures never surface as
// operation errors.
func (s *Service) afterMutation(ctx context.Context, id string, sess *game.Session) {
	if s.cache != nil {
		payload := &snapshotPayload{
			SessionUUID: sess.UUID(),
			FEN:         sess.FEN(),
			History:     sess.HistoryFENs(),
			UpdatedAt:   time.Now(),
		}
		if err := s.cache.Set(ctx, sessionKey(id), payload, s.cfg.SessionTTL); err != nil {
			s.logger.Warn("session snapshot save failed", zap.Error(err))
		}
	}
	if sess.GameOver() {
		s.archiveFinished(ctx, id, sess)
	}
}

func (s *Service) archiveFinished(ctx context.Context, id string, sess *game.Session) {
	if s.repo == nil {
		return
	}
	now := time.Now()
	record := &domain.GameRecord{
		SessionUUID:  sess.UUID(),
		ChatHash:     chatHash(id),
		Result:       resultFromOutcome(sess.Outcome()),
		ResultMethod: strings.ToLower(sess.Method().String()),
		PGN:          sess.Game().String(),
		FinalFEN:     sess.FEN(),
		MoveCount:    sess.HistoryLen(),
		StartedAt:    sess.CreatedAt(),
		EndedAt:      now,
		Duration:     now.Sub(sess.CreatedAt()),
	}
	if _, err := s.repo.InsertGame(ctx, record); err != nil && !errors.Is(err, ErrDuplicateGame) {
		s.logger.Warn("failed to archive finished game",
			zap.Error(err),
			zap.String("session_uuid", sess.UUID()),
		)
	}
}

func mapEngineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrEngineTimeout), errors.Is(err, ErrEngineUnavailable), errors.Is(err, ErrNoMoveFound):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrEngineTimeout
	default:
		return ErrEngineUnavailable
	}
}

// analysisTimeout is the ceiling for one analysis call: the advisory
// budget plus fixed teardown headroom.
func analysisTimeout(limit engine.Limit) time.Duration {
	if limit.MoveTime > 0 {
		return limit.MoveTime + analysisBuffer
	}
	base := time.Duration(limit.Depth) * 300 * time.Millisecond
	if base < 6*time.Second {
		base = 6 * time.Second
	}
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	return base + analysisBuffer
}

// principalSAN replays the engine's main line from pos, rendering each
// move as SAN. The walk stops at the first move that no longer decodes;
// whatever rendered up to that point is returned.
func principalSAN(pos *nchess.Position, line []string) []string {
	out := make([]string, 0, len(line))
	cur := pos
	for _, token := range line {
		mv, err := (nchess.UCINotation{}).Decode(cur, token)
		if err != nil {
			break
		}
		out = append(out, (nchess.AlgebraicNotation{}).Encode(cur, mv))
		next := cur.Update(mv)
		if next == nil {
			break
		}
		cur = next
	}
	return out
}

func summarize(sess *game.Session, lastSAN, lastUCI string) chessdto.StateSummary {
	turn := strings.ToLower(sess.Position().Turn().String())
	check := game.InCheck(sess.Position())
	return chessdto.StateSummary{
		SessionUUID: sess.UUID(),
		FEN:         sess.FEN(),
		Turn:        turn,
		HistoryLen:  sess.HistoryLen(),
		GameOver:    sess.GameOver(),
		Outcome:     sess.Outcome().String(),
		Method:      strings.ToLower(sess.Method().String()),
		Check:       check,
		LastMoveSAN: lastSAN,
		LastMoveUCI: lastUCI,
	}
}

func resultFromOutcome(outcome nchess.Outcome) string {
	switch outcome {
	case nchess.WhiteWon:
		return "white"
	case nchess.BlackWon:
		return "black"
	case nchess.Draw:
		return "draw"
	default:
		return "unknown"
	}
}

func sessionKey(id string) string {
	return "chess:sessions:" + chatHash(id)
}

func chatHash(id string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(id)))
	return hex.EncodeToString(sum[:])
}
