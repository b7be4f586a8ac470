package engine

import (
	"strconv"

	"github.com/fbarrios/ajedrez-bot/internal/engine/uci"
)

// Eval is a color-stable evaluation. Positive values favor White,
// negative favor Black, regardless of which side had the move when the
// engine ran.
type Eval struct {
	// Centipawns is the evaluation in centipawns from White's
	// perspective. Nil when the position has a forced mate.
	Centipawns *int

	// Mate is the forced-mate distance from White's perspective.
	// Positive means White delivers mate, negative means Black.
	// Nil when there is no forced mate.
	Mate *int
}

// Normalize converts the engine's side-to-move-relative score into a
// White-perspective Eval. whiteToMove reports whose turn it was in the
// analyzed position.
func Normalize(raw uci.Score, whiteToMove bool) Eval {
	sign := 1
	if !whiteToMove {
		sign = -1
	}
	if raw.HasMate {
		mate := sign * raw.Mate
		return Eval{Mate: &mate}
	}
	cp := sign * raw.CP
	return Eval{Centipawns: &cp}
}

// IsMate returns true if the evaluation is a forced checkmate.
func (e Eval) IsMate() bool {
	return e.Mate != nil
}

// Equal returns true when the position is dead even: no mate and a
// centipawn score of exactly zero.
func (e Eval) Equal() bool {
	return e.Mate == nil && e.Centipawns != nil && *e.Centipawns == 0
}

// String renders the evaluation in pawns from White's perspective.
// Examples: "+1.25", "-0.50", "#3", "#-5", "0.00".
func (e Eval) String() string {
	if e.Mate != nil {
		return "#" + strconv.Itoa(*e.Mate)
	}
	if e.Centipawns == nil {
		return "?"
	}
	cp := *e.Centipawns
	if cp == 0 {
		return "0.00"
	}
	sign := "+"
	if cp < 0 {
		sign = "-"
		cp = -cp
	}
	whole := cp / 100
	frac := cp % 100
	if frac < 10 {
		return sign + strconv.Itoa(whole) + ".0" + strconv.Itoa(frac)
	}
	return sign + strconv.Itoa(whole) + "." + strconv.Itoa(frac)
}
