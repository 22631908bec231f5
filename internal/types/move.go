package types

// Move is a 16-bit packed move: 6 bits from-square, 6 bits to-square, 4 bits
// to-piece (the piece standing on the to-square after the move is played,
// so promotions need no separate flag). from==to is reserved for the two
// sentinels below.
type Move uint16

const (
	moveShiftToSq    = 0
	moveShiftFromSq  = 6
	moveShiftToPiece = 12
	moveMaskSq       = 0x3F
	moveMaskPiece    = 0xF
)

// MoveInvalid is the zero-ish sentinel: from==to==SqA1.
const MoveInvalid Move = 0

// MoveNone is the "pass"/null move sentinel: from==to==SqB1.
var MoveNone = makeRawMove(SqB1, SqB1, PieceNone)

func makeRawMove(from, to Square, toPiece Piece) Move {
	return Move(uint16(from)<<moveShiftFromSq | uint16(to)<<moveShiftToSq | uint16(toPiece)<<moveShiftToPiece)
}

// NewMove builds a move given the origin square, destination square and the
// piece that will occupy the destination square once the move is made.
func NewMove(from, to Square, toPiece Piece) Move {
	return makeRawMove(from, to, toPiece)
}

// NewNormalMove builds a non-promoting move where the to-piece is simply
// the moving piece (no change of piece type).
func NewNormalMove(from, to Square, moving Piece) Move {
	return makeRawMove(from, to, moving)
}

// FromSq returns the move's origin square.
func (m Move) FromSq() Square {
	return Square(m>>moveShiftFromSq) & moveMaskSq
}

// ToSq returns the move's destination square.
func (m Move) ToSq() Square {
	return Square(m>>moveShiftToSq) & moveMaskSq
}

// ToPiece returns the piece that stands on ToSq() after the move is made.
func (m Move) ToPiece() Piece {
	return Piece(m>>moveShiftToPiece) & moveMaskPiece
}

// ToPieceType returns the piece type of ToPiece().
func (m Move) ToPieceType() PieceType {
	return m.ToPiece().TypeOf()
}

// IsValid reports whether m is neither Invalid nor Null: a genuine move has
// distinct from/to squares.
func (m Move) IsValid() bool {
	return m.FromSq() != m.ToSq()
}

// IsNone reports whether m is the null/pass move.
func (m Move) IsNone() bool {
	return m == MoveNone
}

// IsPromotion reports whether m changes the moving piece's type (i.e. it is
// a pawn promoting), given the piece that actually stood on FromSq before
// the move.
func (m Move) IsPromotion(moving Piece) bool {
	return m.ToPiece().TypeOf() != moving.TypeOf()
}

// IsCastling reports whether m is a king move of two files, the encoding
// this engine uses for castling.
func (m Move) IsCastling(moving Piece) bool {
	if moving.TypeOf() != King {
		return false
	}
	df := int(m.ToSq().FileOf()) - int(m.FromSq().FileOf())
	return df == 2 || df == -2
}

// String renders m as long algebraic notation (e.g. "e2e4", "a7a8q"), or
// "0000" for the null move.
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	s := m.FromSq().String() + m.ToSq().String()
	if p := m.ToPiece().TypeOf().PromotionChar(); p != "" {
		s += p
	}
	return s
}

// ScoredMove packs a 48-bit ordering score (high bits) with a 16-bit Move
// (low bits) into one 64-bit integer, so that comparing packed values
// compares scores first and moves as a tiebreaker.
type ScoredMove uint64

const scoredMoveBit = 16

// NewScoredMove packs score and move together.
func NewScoredMove(move Move, score int64) ScoredMove {
	return ScoredMove(uint64(score)<<scoredMoveBit | uint64(move))
}

// Move extracts the packed Move.
func (sm ScoredMove) Move() Move {
	return Move(sm)
}

// Score extracts the packed ordering score. The shift is done on the signed
// view of sm so a negative score (set via NewScoredMove) sign-extends back
// out correctly instead of reading back as a large positive value.
func (sm ScoredMove) Score() int64 {
	return int64(sm) >> scoredMoveBit
}
