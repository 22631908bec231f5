//
// robocide-go - UCI chess engine in Go
//
// MIT License
//

package evaluator

import (
	"math"

	. "robocide-go/internal/types"
)

// material holds the tapered value of one piece of each type, grounded on
// eval.c's EvalMaterial table.
var material = [PtLength]VPair{
	PtNone:  {MG: 0, EG: 0},
	Pawn:    {MG: 90, EG: 130},
	Knight:  {MG: 325, EG: 325},
	BishopL: {MG: 325, EG: 325},
	BishopD: {MG: 325, EG: 325},
	Rook:    {MG: 500, EG: 500},
	Queen:   {MG: 1000, EG: 1000},
	King:    {MG: 0, EG: 0},
}

// Piece-square tables, one entry per square with White on ranks 1-2 and a1
// indexed first, transcribed verbatim from eval.c's EvalPawnPST/
// EvalKnightPST/EvalBishopPST/EvalKingPST. Black's score is read through
// Square.Flip() rather than keeping a mirrored copy, matching EvalKnight/
// EvalBishop/EvalKing's "AdjSq=(Colour==white ? Sq : SqFlip(Sq))".
var pawnPST = [64]VPair{
	{-3, -41}, {-15, -40}, {-23, -38}, {-27, -37}, {-27, -37}, {-23, -38}, {-15, -40}, {-3, -41},
	{-15, -38}, {0, -35}, {-6, -34}, {-9, -32}, {-9, -32}, {-6, -34}, {0, -35}, {-15, -38},
	{-21, -30}, {-4, -27}, {7, -25}, {4, -22}, {4, -22}, {7, -25}, {-4, -27}, {-21, -30},
	{-22, -19}, {-5, -16}, {7, -12}, {21, -3}, {21, -3}, {7, -12}, {-5, -16}, {-22, -19},
	{-19, -5}, {-2, -2}, {11, 1}, {24, 10}, {24, 10}, {11, 1}, {-2, -2}, {-19, -5},
	{-10, 12}, {5, 14}, {17, 17}, {15, 20}, {15, 20}, {17, 17}, {5, 14}, {-10, 12},
	{2, 33}, {18, 35}, {11, 37}, {8, 38}, {8, 38}, {11, 37}, {18, 35}, {2, 33},
	{21, 58}, {9, 59}, {1, 61}, {-2, 62}, {-2, 62}, {1, 61}, {9, 59}, {21, 58},
}

var knightPST = [64]VPair{
	{-17, -12}, {-12, -6}, {-8, -3}, {-6, -1}, {-6, -1}, {-8, -3}, {-12, -6}, {-17, -12},
	{-11, -6}, {-6, -1}, {-3, 2}, {-1, 3}, {-1, 3}, {-3, 2}, {-6, -1}, {-11, -6},
	{-7, -3}, {-2, 2}, {1, 5}, {2, 6}, {2, 6}, {1, 5}, {-2, 2}, {-7, -3},
	{-4, -1}, {1, 3}, {3, 6}, {4, 7}, {4, 7}, {3, 6}, {1, 3}, {-4, -1},
	{-1, -1}, {3, 3}, {6, 6}, {6, 7}, {6, 7}, {6, 6}, {3, 3}, {-1, -1},
	{0, -3}, {4, 2}, {7, 5}, {8, 6}, {8, 6}, {7, 5}, {4, 2}, {0, -3},
	{-1, -6}, {4, -1}, {7, 2}, {9, 3}, {9, 3}, {7, 2}, {4, -1}, {-1, -6},
	{-2, -12}, {2, -6}, {6, -3}, {8, -1}, {8, -1}, {6, -3}, {2, -6}, {-2, -12},
}

var bishopPST = [64]VPair{
	{-11, -15}, {-6, -8}, {-3, -4}, {-2, -1}, {-2, -1}, {-3, -4}, {-6, -8}, {-11, -15},
	{-6, -8}, {-2, -1}, {0, 2}, {2, 4}, {2, 4}, {0, 2}, {-2, -1}, {-6, -8},
	{-3, -4}, {0, 2}, {4, 6}, {6, 8}, {6, 8}, {4, 6}, {0, 2}, {-3, -4},
	{-2, -1}, {2, 4}, {6, 8}, {12, 9}, {12, 9}, {6, 8}, {2, 4}, {-2, -1},
	{-2, -1}, {2, 4}, {6, 8}, {12, 9}, {12, 9}, {6, 8}, {2, 4}, {-2, -1},
	{-3, -4}, {0, 2}, {4, 6}, {6, 8}, {6, 8}, {4, 6}, {0, 2}, {-3, -4},
	{-6, -8}, {-2, -1}, {0, 2}, {2, 4}, {2, 4}, {0, 2}, {-2, -1}, {-6, -8},
	{-11, -15}, {-6, -8}, {-3, -4}, {-2, -1}, {-2, -1}, {-3, -4}, {-6, -8}, {-11, -15},
}

var kingPST = [64]VPair{
	{57, -94}, {57, -51}, {41, -24}, {33, -10}, {33, -10}, {41, -24}, {57, -51}, {57, -94},
	{56, -51}, {32, -10}, {14, 15}, {3, 27}, {3, 27}, {14, 15}, {32, -10}, {56, -51},
	{37, -24}, {11, 15}, {-11, 39}, {-26, 49}, {-26, 49}, {-11, 39}, {11, 15}, {37, -24},
	{24, -10}, {-4, 27}, {-32, 49}, {-79, 55}, {-79, 55}, {-32, 49}, {-4, 27}, {24, -10},
	{17, -10}, {-11, 27}, {-39, 49}, {-86, 55}, {-86, 55}, {-39, 49}, {-11, 27}, {17, -10},
	{16, -24}, {-10, 15}, {-32, 39}, {-48, 49}, {-48, 49}, {-32, 39}, {-10, 15}, {16, -24},
	{20, -51}, {-3, -10}, {-21, 15}, {-31, 27}, {-31, 27}, {-21, 15}, {-3, -10}, {20, -51},
	{29, -94}, {7, -51}, {-8, -24}, {-16, -10}, {-16, -10}, {-8, -24}, {7, -51}, {29, -94},
}

// knightPawnAffinity and rookPawnAffinity are per-unit values for a
// (own pawn count - 5) scaling and bishopPairBonus is a flat bonus, grounded
// on eval.c's EvalKnightPawnAffinity/EvalBishopPair/EvalRookPawnAffinity.
// Only bishopPairBonus is applied by the evaluator (once per side holding
// both bishop colours); the two affinity values are not used anywhere.
var (
	knightPawnAffinity = VPair{MG: 6, EG: 6}
	bishopPairBonus    = VPair{MG: 50, EG: 50}
	rookPawnAffinity   = VPair{MG: -13, EG: -13}
)

func init() {
	// EvalInit bakes material into the pawn/knight/bishop PSTs once at
	// startup rather than adding it on every lookup.
	for sq := 0; sq < 64; sq++ {
		pawnPST[sq].AddTo(material[Pawn])
		knightPST[sq].AddTo(material[Knight])
		bishopPST[sq].AddTo(material[BishopL])
	}
}

func pstFor(pt PieceType, c Color, sq Square) VPair {
	adj := sq
	if c == Black {
		adj = sq.Flip()
	}
	switch pt {
	case Pawn:
		return pawnPST[adj]
	case Knight:
		return knightPST[adj]
	case BishopL, BishopD:
		return bishopPST[adj]
	case King:
		return kingPST[adj]
	default:
		return VPair{}
	}
}

// weightEG computes the endgame interpolation weight (0-256), grounded on
// eval.c's EvalInterpolate: W grows with remaining minor/rook/queen
// material and the weight decays as W^2/144 in the exponent, so the score
// glides from middlegame to endgame rather than switching abruptly.
func weightEG(w int) int {
	we := int(math.Floor(256.0 * math.Exp2(-(float64(w*w) / 144.0))))
	if we < 0 {
		we = 0
	}
	if we > 256 {
		we = 256
	}
	return we
}
