package types

// Piece packs a colour and a piece type: colour occupies bit 3,
// PieceType the low 3 bits, matching the original engine's PieceMake.
type Piece uint8

const (
	PieceNone Piece = iota
	WhitePawn
	WhiteKnight
	WhiteBishopL
	WhiteBishopD
	WhiteRook
	WhiteQueen
	WhiteKing
	_ // pad so Black pieces start at bit 3 (colour shift)
	BlackPawn
	BlackKnight
	BlackBishopL
	BlackBishopD
	BlackRook
	BlackQueen
	BlackKing
	PieceLength
)

const pieceColorShift = 3

// MakePiece builds a Piece from a colour and a piece type.
func MakePiece(c Color, pt PieceType) Piece {
	return Piece(int(c)<<pieceColorShift | int(pt))
}

// IsValid reports whether p is a real piece (not PieceNone and not a pad slot).
func (p Piece) IsValid() bool {
	return p.TypeOf().IsValid()
}

// ColorOf returns the colour of p.
func (p Piece) ColorOf() Color {
	return Color(p >> pieceColorShift)
}

// TypeOf returns the PieceType of p, discarding colour.
func (p Piece) TypeOf() PieceType {
	return PieceType(p & 0x7)
}

var pieceChars = [PieceLength]string{
	PieceNone: "-",
	WhitePawn: "P", WhiteKnight: "N", WhiteBishopL: "B", WhiteBishopD: "B",
	WhiteRook: "R", WhiteQueen: "Q", WhiteKing: "K",
	BlackPawn: "p", BlackKnight: "n", BlackBishopL: "b", BlackBishopD: "b",
	BlackRook: "r", BlackQueen: "q", BlackKing: "k",
}

// Char returns the FEN character for p ("-" if none).
func (p Piece) Char() string {
	if int(p) >= len(pieceChars) {
		return "-"
	}
	if s := pieceChars[p]; s != "" {
		return s
	}
	return "-"
}

// String is an alias of Char.
func (p Piece) String() string {
	return p.Char()
}

// PieceFromChar parses a single FEN piece character into a Piece.
// Upper case letters are White, lower case Black. Bishops default to
// BishopL; callers that know the destination square should use
// MakePiece(c, BishopTypeForSquare(sq)) instead when the square's colour
// determines which bishop bitboard the piece belongs on.
func PieceFromChar(s string) Piece {
	if len(s) != 1 {
		return PieceNone
	}
	switch s[0] {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishopL
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishopL
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return PieceNone
	}
}

// BishopTypeForSquare returns BishopL for light squares and BishopD for dark
// squares, used whenever a bishop is placed on the board (FEN load, move
// make, promotion) so it ends up on the bitboard matching its square colour.
func BishopTypeForSquare(sq Square) PieceType {
	if sq.IsLight() {
		return BishopL
	}
	return BishopD
}

// MakeBishop returns the correctly-coloured-square bishop piece for sq.
func MakeBishop(c Color, sq Square) Piece {
	return MakePiece(c, BishopTypeForSquare(sq))
}
