//
// robocide-go - UCI chess engine in Go
//
// MIT License
//

package position

import (
	. "robocide-go/internal/types"
)

// zobrist holds the three independent incremental hash key tables the
// position maintains: the main key (pieces, side to move, en passant file,
// castling rights), the pawn-only key (used to index the pawn-structure
// cache) and the material key (used to index material/endgame recognizers).
// Grounded in the original engine's posKeyPiece/posPawnKeyPiece/posMatKey.
type zobrist struct {
	pieces         [PieceLength][SqLength]Key
	castlingRights [CastlingRightsLength]Key
	enPassantFile  [8]Key
	nextPlayer     Key

	pawnPieces [PieceLength][SqLength]Key

	// matKey[piece][n] is XORed in/out as the nth instance of piece is
	// added/removed, mirroring posMatKey[piece<<4 | count].
	matKey [PieceLength][16]Key
}

var zobristBase = zobrist{}

func initZobrist() {
	r := NewRandom(1070372)
	for pc := PieceNone; pc < PieceLength; pc++ {
		for sq := SqA1; sq <= SqH8; sq++ {
			zobristBase.pieces[pc][sq] = Key(r.Rand64())
			zobristBase.pawnPieces[pc][sq] = Key(r.Rand64())
		}
		for n := 0; n < 16; n++ {
			zobristBase.matKey[pc][n] = Key(r.Rand64())
		}
	}
	for cr := CastlingNone; cr <= CastlingAny; cr++ {
		zobristBase.castlingRights[cr] = Key(r.Rand64())
	}
	for f := FileA; f <= FileH; f++ {
		zobristBase.enPassantFile[f] = Key(r.Rand64())
	}
	zobristBase.nextPlayer = Key(r.Rand64())
}
