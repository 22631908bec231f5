//
// robocide-go - UCI chess engine in Go
//
// MIT License
//

package evaluator

import (
	"robocide-go/internal/position"
	. "robocide-go/internal/types"
)

// MatType classifies the material left on the board into the handful of
// combinations the search treats specially, grounded on eval.h's
// EvalMatType enum.
type MatType uint8

const (
	MatTypeInvalid MatType = iota
	MatTypeOther
	// MatTypeDraw: insufficient material to force mate (KvK, KNvK, and
	// bishops of a single colour against a lone king).
	MatTypeDraw
	MatTypeKNNvK
	MatTypeKPvK
	// MatTypeKBPvK: lone king against pawns and bishops of a single
	// colour, at least one of each.
	MatTypeKBPvK
)

func (mt MatType) String() string {
	switch mt {
	case MatTypeOther:
		return "other"
	case MatTypeDraw:
		return "draw"
	case MatTypeKNNvK:
		return "KNNvK"
	case MatTypeKPvK:
		return "KPvK"
	case MatTypeKBPvK:
		return "KBPvK"
	default:
		return "invalid"
	}
}

// ClassifyMaterial returns pos's MatType. The spec's 64-bit material-info
// word is replaced here with explicit PieceCount lookups (the spec permits
// this aliasing trick to be swapped for an explicit counter so long as the
// classification stays bit-exact).
func ClassifyMaterial(pos *position.Position) MatType {
	wPawns := pos.PieceCount(WhitePawn)
	bPawns := pos.PieceCount(BlackPawn)
	wKnights := pos.PieceCount(WhiteKnight)
	bKnights := pos.PieceCount(BlackKnight)
	wBishopL := pos.PieceCount(WhiteBishopL)
	wBishopD := pos.PieceCount(WhiteBishopD)
	bBishopL := pos.PieceCount(BlackBishopL)
	bBishopD := pos.PieceCount(BlackBishopD)
	wRooks := pos.PieceCount(WhiteRook)
	bRooks := pos.PieceCount(BlackRook)
	wQueens := pos.PieceCount(WhiteQueen)
	bQueens := pos.PieceCount(BlackQueen)

	wBishops := wBishopL + wBishopD
	bBishops := bBishopL + bBishopD
	wNonPawn := wKnights + wBishops + wRooks + wQueens
	bNonPawn := bKnights + bBishops + bRooks + bQueens

	// KNNvK: a bare king against exactly two knights and nothing else.
	if wPawns == 0 && bPawns == 0 && wRooks == 0 && bRooks == 0 && wQueens == 0 && bQueens == 0 && wBishops == 0 && bBishops == 0 {
		if wKnights == 2 && bKnights == 0 {
			return MatTypeKNNvK
		}
		if bKnights == 2 && wKnights == 0 {
			return MatTypeKNNvK
		}
	}

	// KPvK: exactly one pawn on the board, nothing else but the two kings.
	if wPawns+bPawns == 1 && wNonPawn == 0 && bNonPawn == 0 {
		return MatTypeKPvK
	}

	// KBPvK: one side is a bare king, the other has only pawns and bishops
	// confined to a single square colour.
	if wNonPawn == 0 && wPawns == 0 && bKnights == 0 && bRooks == 0 && bQueens == 0 && bPawns > 0 && bBishops > 0 && (bBishopL == 0 || bBishopD == 0) {
		return MatTypeKBPvK
	}
	if bNonPawn == 0 && bPawns == 0 && wKnights == 0 && wRooks == 0 && wQueens == 0 && wPawns > 0 && wBishops > 0 && (wBishopL == 0 || wBishopD == 0) {
		return MatTypeKBPvK
	}

	if pos.HasInsufficientMaterial() {
		return MatTypeDraw
	}

	return MatTypeOther
}
