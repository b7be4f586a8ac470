package chessdto

import "time"

// MoveResult summarises one applied move.
type MoveResult struct {
	SAN   string
	UCI   string
	State StateSummary
}

// UndoResult reports how many moves were actually taken back.
type UndoResult struct {
	Undone int
	State  StateSummary
}

// EvalReport is a color-stable evaluation: positive favors White.
// Exactly one of Centipawns or Mate is set.
type EvalReport struct {
	Centipawns *int
	Mate       *int
	Display    string
}

// AnalysisReport is the outcome of one engine analysis. FEN identifies
// the position the analysis was computed against; the session must still
// be at that position for the suggestion to be applicable.
type AnalysisReport struct {
	FEN         string
	BestMoveUCI string
	BestMoveSAN string
	Eval        EvalReport
	// Principal is the engine's main line in coordinate notation;
	// PrincipalSAN is the same line rendered as SAN, best effort.
	Principal    []string
	PrincipalSAN []string
	Duration     time.Duration
}
