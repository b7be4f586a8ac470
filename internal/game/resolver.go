package game

import (
	"regexp"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Coordinate notation: origin square, destination square, optional
// promotion piece (e2e4, e7e8q).
var coordPattern = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

// ResolvedMove is a validated, legal move together with both of its
// textual renderings.
type ResolvedMove struct {
	Move *nchess.Move
	SAN  string
	UCI  string
}

// Resolve turns free-form move text into a legal move for the position.
// Coordinate notation is tried first, then standard algebraic notation.
// Text that parses in neither form yields ErrInvalidNotation; text that
// parses but names a move outside the position's legal-move set yields
// ErrIllegalMove.
func Resolve(pos *nchess.Position, text string) (*ResolvedMove, error) {
	input := strings.TrimSpace(text)
	if input == "" || pos == nil {
		return nil, ErrInvalidNotation
	}

	var move *nchess.Move

	lowered := strings.ToLower(input)
	if coordPattern.MatchString(lowered) {
		mv, err := (nchess.UCINotation{}).Decode(pos, lowered)
		if err != nil {
			// Syntactically a coordinate move, so the only way to fail
			// here is that no piece can make it.
			return nil, ErrIllegalMove
		}
		move = mv
	} else {
		if err := nchess.ValidateSAN(input); err != nil {
			return nil, ErrInvalidNotation
		}
		mv, err := (nchess.AlgebraicNotation{}).Decode(pos, input)
		if err != nil {
			return nil, ErrIllegalMove
		}
		move = mv
	}

	// A successful parse does not imply legality (a syntactically fine
	// move can still leave the king in check), so membership in the
	// legal-move set is checked regardless.
	moveUCI := strings.ToLower((nchess.UCINotation{}).Encode(pos, move))
	if !isLegal(pos, moveUCI) {
		return nil, ErrIllegalMove
	}

	return &ResolvedMove{
		Move: move,
		SAN:  (nchess.AlgebraicNotation{}).Encode(pos, move),
		UCI:  moveUCI,
	}, nil
}

func isLegal(pos *nchess.Position, moveUCI string) bool {
	for _, legal := range pos.ValidMoves() {
		mv := legal
		if strings.EqualFold((nchess.UCINotation{}).Encode(pos, &mv), moveUCI) {
			return true
		}
	}
	return false
}
