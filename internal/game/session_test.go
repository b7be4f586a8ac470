package game

import (
	"errors"
	"testing"

	nchess "github.com/corentings/chess/v2"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func mustApply(t *testing.T, s *Session, text string) *ResolvedMove {
	t.Helper()
	rm, err := Resolve(s.Position(), text)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", text, err)
	}
	if err := s.Apply(rm); err != nil {
		t.Fatalf("Apply(%q): %v", text, err)
	}
	return rm
}

func TestNewSessionStartsAtInitialPosition(t *testing.T) {
	s := NewSession()
	if s.FEN() != startFEN {
		t.Fatalf("unexpected start FEN: %s", s.FEN())
	}
	if s.UUID() == "" {
		t.Fatal("expected non-empty session uuid")
	}
	if s.HistoryLen() != 0 {
		t.Fatalf("fresh session has history len %d", s.HistoryLen())
	}
	if s.GameOver() {
		t.Fatal("fresh session reports game over")
	}
}

func TestApplyThenUndoRestoresEveryPosition(t *testing.T) {
	s := NewSession()
	moves := []string{"e4", "e5", "Nf3", "Nc6", "Bc4"}
	for _, m := range moves {
		mustApply(t, s, m)
	}
	if s.HistoryLen() != len(moves) {
		t.Fatalf("history len = %d, want %d", s.HistoryLen(), len(moves))
	}

	undone := s.Undo(len(moves))
	if undone != len(moves) {
		t.Fatalf("Undo = %d, want %d", undone, len(moves))
	}
	if s.FEN() != startFEN {
		t.Fatalf("after full undo FEN = %s, want start", s.FEN())
	}
	if s.HistoryLen() != 0 {
		t.Fatalf("after full undo history len = %d", s.HistoryLen())
	}
}

func TestUndoPartial(t *testing.T) {
	s := NewSession()
	mustApply(t, s, "e4")
	afterOne := s.FEN()
	mustApply(t, s, "e5")
	mustApply(t, s, "Nf3")

	if undone := s.Undo(2); undone != 2 {
		t.Fatalf("Undo(2) = %d", undone)
	}
	if s.FEN() != afterOne {
		t.Fatalf("after Undo(2) FEN = %s, want %s", s.FEN(), afterOne)
	}
	if s.HistoryLen() != 1 {
		t.Fatalf("history len = %d, want 1", s.HistoryLen())
	}
}

func TestUndoMoreThanHistoryClamps(t *testing.T) {
	s := NewSession()
	mustApply(t, s, "e4")
	if undone := s.Undo(10); undone != 1 {
		t.Fatalf("Undo(10) = %d, want 1", undone)
	}
	if s.FEN() != startFEN {
		t.Fatalf("FEN = %s, want start", s.FEN())
	}
}

func TestUndoOnEmptyHistoryIsNoop(t *testing.T) {
	s := NewSession()
	if undone := s.Undo(3); undone != 0 {
		t.Fatalf("Undo on empty history = %d, want 0", undone)
	}
	if s.FEN() != startFEN {
		t.Fatalf("FEN changed on empty undo: %s", s.FEN())
	}
}

func TestFoolsMateEndsGame(t *testing.T) {
	s := NewSession()
	for _, m := range []string{"f3", "e5", "g4", "Qh4"} {
		mustApply(t, s, m)
	}
	if !s.GameOver() {
		t.Fatal("expected game over after fool's mate")
	}
	if s.Outcome() != nchess.BlackWon {
		t.Fatalf("outcome = %s, want 0-1", s.Outcome())
	}
	if s.Method() != nchess.Checkmate {
		t.Fatalf("method = %s, want checkmate", s.Method())
	}

	rm, err := Resolve(s.Position(), "a2a3")
	if err == nil {
		if applyErr := s.Apply(rm); !errors.Is(applyErr, ErrGameOver) {
			t.Fatalf("Apply after mate = %v, want ErrGameOver", applyErr)
		}
	}
}

func TestUndoAfterGameOverReopensGame(t *testing.T) {
	s := NewSession()
	for _, m := range []string{"f3", "e5", "g4", "Qh4"} {
		mustApply(t, s, m)
	}
	if undone := s.Undo(1); undone != 1 {
		t.Fatalf("Undo(1) = %d", undone)
	}
	if s.GameOver() {
		t.Fatal("expected game playable again after undoing the mate")
	}
	mustApply(t, s, "Nc3")
}

func TestNewSessionFromFEN(t *testing.T) {
	fen := "k7/4P3/8/8/8/8/8/4K3 w - - 0 1"
	s, err := NewSessionFromFEN(fen)
	if err != nil {
		t.Fatalf("NewSessionFromFEN: %v", err)
	}
	if s.FEN() != fen {
		t.Fatalf("FEN = %s, want %s", s.FEN(), fen)
	}
	if s.HistoryLen() != 0 {
		t.Fatal("expected empty history for a fresh position")
	}
}

func TestNewSessionFromFENRejectsGarbage(t *testing.T) {
	if _, err := NewSessionFromFEN("not a position"); !errors.Is(err, ErrInvalidFEN) {
		t.Fatalf("err = %v, want ErrInvalidFEN", err)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	s := NewSession()
	mustApply(t, s, "e4")
	mustApply(t, s, "c5")

	restored, err := Restore(s.UUID(), s.FEN(), s.HistoryFENs())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.UUID() != s.UUID() {
		t.Fatalf("uuid = %s, want %s", restored.UUID(), s.UUID())
	}
	if restored.FEN() != s.FEN() {
		t.Fatalf("fen = %s, want %s", restored.FEN(), s.FEN())
	}
	if restored.HistoryLen() != 2 {
		t.Fatalf("history len = %d, want 2", restored.HistoryLen())
	}

	if undone := restored.Undo(2); undone != 2 {
		t.Fatalf("Undo on restored session = %d", undone)
	}
	if restored.FEN() != startFEN {
		t.Fatalf("restored session did not rewind to start: %s", restored.FEN())
	}
}
