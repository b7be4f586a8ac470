package game

import (
	nchess "github.com/corentings/chess/v2"
)

type offset struct{ df, dr int }

var (
	knightJumps = []offset{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	diagonals   = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonals = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// InCheck reports whether the side to move has its king under attack.
// It works from the board alone, so it holds for positions decoded
// straight from FEN with no move history behind them.
func InCheck(pos *nchess.Position) bool {
	if pos == nil {
		return false
	}
	board := pos.Board()
	defender := pos.Turn()

	kingSq, ok := findKing(board, defender)
	if !ok {
		return false
	}
	return squareAttackedBy(board, kingSq, defender.Other())
}

func findKing(board *nchess.Board, color nchess.Color) (nchess.Square, bool) {
	for file := nchess.FileA; file <= nchess.FileH; file++ {
		for rank := nchess.Rank1; rank <= nchess.Rank8; rank++ {
			sq := nchess.NewSquare(file, rank)
			p := board.Piece(sq)
			if p != nchess.NoPiece && p.Type() == nchess.King && p.Color() == color {
				return sq, true
			}
		}
	}
	return nchess.NewSquare(nchess.FileA, nchess.Rank1), false
}

func squareAttackedBy(board *nchess.Board, target nchess.Square, by nchess.Color) bool {
	f := int(target.File())
	r := int(target.Rank())

	// Pawns attack diagonally toward the enemy side.
	pawnRank := r - 1
	if by == nchess.Black {
		pawnRank = r + 1
	}
	for _, df := range []int{-1, 1} {
		if p := pieceAt(board, f+df, pawnRank); p != nchess.NoPiece && p.Color() == by && p.Type() == nchess.Pawn {
			return true
		}
	}

	for _, d := range knightJumps {
		if p := pieceAt(board, f+d.df, r+d.dr); p != nchess.NoPiece && p.Color() == by && p.Type() == nchess.Knight {
			return true
		}
	}

	for _, d := range diagonals {
		p := firstAlong(board, f, r, d)
		if p != nchess.NoPiece && p.Color() == by && (p.Type() == nchess.Bishop || p.Type() == nchess.Queen) {
			return true
		}
	}
	for _, d := range orthogonals {
		p := firstAlong(board, f, r, d)
		if p != nchess.NoPiece && p.Color() == by && (p.Type() == nchess.Rook || p.Type() == nchess.Queen) {
			return true
		}
	}

	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			if p := pieceAt(board, f+df, r+dr); p != nchess.NoPiece && p.Color() == by && p.Type() == nchess.King {
				return true
			}
		}
	}
	return false
}

func pieceAt(board *nchess.Board, f, r int) nchess.Piece {
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return nchess.NoPiece
	}
	return board.Piece(nchess.NewSquare(nchess.File(f), nchess.Rank(r)))
}

// firstAlong returns the first piece met walking from (f, r) in
// direction d, or NoPiece if the ray leaves the board empty.
func firstAlong(board *nchess.Board, f, r int, d offset) nchess.Piece {
	for i := 1; i < 8; i++ {
		ff := f + i*d.df
		rr := r + i*d.dr
		if ff < 0 || ff > 7 || rr < 0 || rr > 7 {
			return nchess.NoPiece
		}
		if p := board.Piece(nchess.NewSquare(nchess.File(ff), nchess.Rank(rr))); p != nchess.NoPiece {
			return p
		}
	}
	return nchess.NoPiece
}
