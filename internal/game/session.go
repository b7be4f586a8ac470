package game

import (
	"errors"
	"fmt"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
)

var (
	ErrInvalidFEN      = errors.New("invalid position text")
	ErrInvalidNotation = errors.New("unrecognized move notation")
	ErrIllegalMove     = errors.New("illegal chess move")
	ErrGameOver        = errors.New("game already over")
)

// Session is one conversation's game: the live board plus an undo stack
// of pre-move position snapshots, most recent last.
type Session struct {
	sessionUUID string
	game        *nchess.Game
	history     []string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewSession() *Session {
	now := time.Now()
	return &Session{
		sessionUUID: uuid.NewString(),
		game:        nchess.NewGame(),
		createdAt:   now,
		updatedAt:   now,
	}
}

// NewSessionFromFEN creates a fresh session at the given position.
// History starts empty.
func NewSessionFromFEN(fen string) (*Session, error) {
	g, err := gameFromFEN(fen)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		sessionUUID: uuid.NewString(),
		game:        g,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Restore rebuilds a session from a persisted snapshot.
func Restore(sessionUUID, fen string, history []string) (*Session, error) {
	g, err := gameFromFEN(fen)
	if err != nil {
		return nil, err
	}
	if sessionUUID == "" {
		sessionUUID = uuid.NewString()
	}
	now := time.Now()
	return &Session{
		sessionUUID: sessionUUID,
		game:        g,
		history:     append([]string(nil), history...),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func gameFromFEN(fen string) (*nchess.Game, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return nchess.NewGame(opt), nil
}

func (s *Session) UUID() string { return s.sessionUUID }

func (s *Session) FEN() string { return s.game.FEN() }

func (s *Session) Position() *nchess.Position { return s.game.Position() }

func (s *Session) Game() *nchess.Game { return s.game }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

func (s *Session) HistoryLen() int { return len(s.history) }

// HistoryFENs returns a copy of the undo stack, oldest first.
func (s *Session) HistoryFENs() []string {
	return append([]string(nil), s.history...)
}

func (s *Session) GameOver() bool {
	return s.game.Outcome() != nchess.NoOutcome
}

func (s *Session) Outcome() nchess.Outcome { return s.game.Outcome() }

func (s *Session) Method() nchess.Method { return s.game.Method() }

// Apply pushes the pre-move snapshot and commits the move. The snapshot
// push and the commit are atomic from the caller's view: a failed commit
// leaves the history untouched.
func (s *Session) Apply(rm *ResolvedMove) error {
	if rm == nil || rm.Move == nil {
		return ErrIllegalMove
	}
	if s.GameOver() {
		return ErrGameOver
	}
	snapshot := s.game.FEN()
	if err := s.game.Move(rm.Move, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	s.history = append(s.history, snapshot)
	s.updatedAt = time.Now()
	return nil
}

// Undo pops up to n snapshots, leaving the board at the oldest popped
// position. It returns the number of moves actually undone and never
// fails: on an empty history it returns 0 and changes nothing.
func (s *Session) Undo(n int) int {
	if n <= 0 || len(s.history) == 0 {
		return 0
	}
	count := n
	if count > len(s.history) {
		count = len(s.history)
	}
	target := s.history[len(s.history)-count]
	g, err := gameFromFEN(target)
	if err != nil {
		// Snapshots are produced by the board library itself; a failed
		// re-parse means corrupted state and must not eat the stack.
		return 0
	}
	s.history = s.history[:len(s.history)-count]
	s.game = g
	s.updatedAt = time.Now()
	return count
}
