package game

import "testing"

func positionFromFEN(t *testing.T, fen string) *Session {
	t.Helper()
	s, err := NewSessionFromFEN(fen)
	if err != nil {
		t.Fatalf("NewSessionFromFEN(%q): %v", fen, err)
	}
	return s
}

func TestInCheckOnFreshPositions(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want bool
	}{
		{"start position", startFEN, false},
		{"rook gives check along the file", "4k3/8/8/8/8/8/8/4RK2 b - - 0 1", true},
		{"rook check blocked by own pawn", "4k3/4p3/8/8/8/8/8/4RK2 b - - 0 1", false},
		{"knight gives check", "4k3/8/3N4/8/8/8/8/4K3 b - - 0 1", true},
		{"pawn gives check", "8/8/8/8/8/8/1p6/K3k3 w - - 0 1", true},
		{"kings apart", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := positionFromFEN(t, tc.fen)
			if got := InCheck(s.Position()); got != tc.want {
				t.Fatalf("InCheck(%q) = %v, want %v", tc.fen, got, tc.want)
			}
		})
	}
}

func TestInCheckAfterCheckingMove(t *testing.T) {
	// 1.e4 e5 2.Qh5 Nc6 3.Qxf7+ puts the black king in check.
	s := NewSession()
	for _, m := range []string{"e4", "e5", "Qh5", "Nc6", "Qxf7"} {
		mustApply(t, s, m)
	}
	if !InCheck(s.Position()) {
		t.Fatal("expected check after Qxf7+")
	}

	if undone := s.Undo(1); undone != 1 {
		t.Fatalf("Undo = %d", undone)
	}
	if InCheck(s.Position()) {
		t.Fatal("check flag must clear after the checking move is undone")
	}
}

func TestInCheckDiagonalSliders(t *testing.T) {
	s := positionFromFEN(t, "4k3/8/8/8/q7/8/8/3K4 b - - 0 1")
	if InCheck(s.Position()) {
		t.Fatal("black to move is not in check here")
	}

	// Same board, white to move: the a4 queen eyes d1 through b3/c2.
	s = positionFromFEN(t, "4k3/8/8/8/q7/8/8/3K4 w - - 0 1")
	if !InCheck(s.Position()) {
		t.Fatal("expected check from the a4 queen on the a4-d1 diagonal")
	}
}
