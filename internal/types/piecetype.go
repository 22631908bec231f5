package types

// PieceType enumerates the kinds of piece, keeping the light- and
// dark-squared bishop as distinct types. This mirrors the original engine's
// layout so bishop-pair, wrong-bishop endgame, and pawn-structure code need
// no square-colour test to tell the two bishops apart.
type PieceType uint8

const (
	PtNone PieceType = iota
	Pawn
	Knight
	BishopL
	BishopD
	Rook
	Queen
	King
	PtLength
)

// IsValid reports whether pt is one of the seven piece types above (PtNone excluded).
func (pt PieceType) IsValid() bool {
	return pt < PtLength && pt != PtNone
}

// IsBishop reports whether pt is either bishop colour.
func (pt PieceType) IsBishop() bool {
	return pt == BishopL || pt == BishopD
}

var pieceTypeChars = [PtLength]string{"", "p", "n", "b", "b", "r", "q", "k"}

// Char returns the lower-case FEN piece-letter for pt ('b' for both bishops).
func (pt PieceType) Char() string {
	if pt >= PtLength {
		return "-"
	}
	return pieceTypeChars[pt]
}

var pieceTypeStrings = [PtLength]string{"none", "pawn", "knight", "bishop", "bishop", "rook", "queen", "king"}

// String returns a descriptive name of pt.
func (pt PieceType) String() string {
	if pt >= PtLength {
		return "none"
	}
	return pieceTypeStrings[pt]
}

// gamePhaseValue is used by the game-phase interpolation weight (minors=1, rooks=2, queens=4).
var gamePhaseValue = [PtLength]int{0, 0, 1, 1, 1, 2, 4, 0}

// GamePhaseValue returns this piece type's contribution to the
// non-pawn-material phase weight W = minors + 2*rooks + 4*queens.
func (pt PieceType) GamePhaseValue() int {
	return gamePhaseValue[pt]
}

// seeValue is the coarse piece value table used by SEE and move-ordering
// margins, not the tapered evaluator material (king is a large sentinel so
// it always "wins" a SEE exchange comparison).
var seeValue = [PtLength]Value{0, 1, 3, 3, 3, 5, 9, 255}

// SeeValue returns pt's coarse exchange value for Static Exchange Evaluation
// and move-ordering margins.
func (pt PieceType) SeeValue() Value {
	return seeValue[pt]
}

// materialValue is the centipawn material table used for incremental
// material tracking and futility-pruning margins.
var materialValue = [PtLength]Value{0, 100, 320, 330, 330, 500, 900, 2000}

// MaterialValue returns pt's centipawn material value.
func (pt PieceType) MaterialValue() Value {
	return materialValue[pt]
}

// PromotionChar returns the lower-case promotion-piece letter for pt, or ""
// if pt cannot be a promotion target.
func (pt PieceType) PromotionChar() string {
	switch pt {
	case Knight:
		return "n"
	case BishopL, BishopD:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	default:
		return ""
	}
}

// PieceTypeFromPromotionChar maps a promotion letter (n/b/r/q) to a
// PieceType. Bishop promotions resolve light/dark via the destination
// square at the call site (promotionPieceType does that); this helper
// returns BishopL as a placeholder bishop type for 'b'.
func PieceTypeFromPromotionChar(c byte) PieceType {
	switch c {
	case 'n':
		return Knight
	case 'b':
		return BishopL
	case 'r':
		return Rook
	case 'q':
		return Queen
	default:
		return PtNone
	}
}
