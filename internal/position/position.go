//
// robocide-go - UCI chess engine in Go
//
// MIT License
//

// Package position represents a chess board and its position: an 8x8 piece
// board, bitboards per colour and piece type, piece lists for fast iteration,
// a stack for undo moves, and three independent Zobrist keys (main, pawn,
// material).
//
// Create a new instance with NewPosition() or NewPosition(fen).
package position

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/op/go-logging"

	"robocide-go/internal/assert"
	myLogging "robocide-go/internal/logging"
	. "robocide-go/internal/types"
)

var log *logging.Logger

var initialized = false

func init() {
	if !initialized {
		initZobrist()
		initialized = true
	}
}

// StartFen is the FEN of the standard chess starting position.
const StartFen string = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// maxPieceListLen is the most instances of a single Piece that can exist at
// once (promotions make this higher than the natural 2/2/2/2/1/1 start).
const maxPieceListLen = 10

// Position represents a chess position.
//
// Needs to be created with NewPosition() or NewPosition(fen).
type Position struct {
	zobristKey Key
	pawnKey    Key
	matKey     Key

	board           [SqLength]Piece
	castlingRights  CastlingRights
	enPassantSquare Square
	halfMoveClock   int
	nextPlayer      Color

	kingSquare         [ColorLength]Square
	nextHalfMoveNumber int

	piecesBb   [ColorLength][PtLength]Bitboard
	occupiedBb [ColorLength]Bitboard

	// material and materialNonPawn are kept up to date incrementally by
	// putPiece/removePiece so forward-pruning margins never need to rescan
	// the board.
	material        [ColorLength]Value
	materialNonPawn [ColorLength]Value

	// piece lists: every square occupied by a given Piece, for fast
	// iteration by the evaluator. pieceListIdx[sq] is that square's index
	// within pieceList[piece] so removal can swap-with-last in O(1).
	pieceList    [PieceLength][maxPieceListLen]Square
	pieceCount   [PieceLength]int
	pieceListIdx [SqLength]int

	historyCounter int
	history        [maxHistory]historyState

	// cached check flag for the current position; reset to flagTBD every
	// time a move is made or unmade.
	hasCheckFlag int
}

type historyState struct {
	zobristKey      Key
	pawnKey         Key
	matKey          Key
	move            Move
	fromPiece       Piece
	capturedPiece   Piece
	castlingRights  CastlingRights
	enpassantSquare Square
	halfMoveClock   int
	hasCheckFlag    int
}

const maxHistory int = 1024

const (
	flagTBD   int = 0
	flagFalse int = 1
	flagTrue  int = 2
)

// //////////////////////////////////////////////////////
// Public
// //////////////////////////////////////////////////////

// NewPosition creates a new position: the start position with no argument,
// or the position described by fen[0] otherwise (additional args ignored).
func NewPosition(fen ...string) *Position {
	if len(fen) == 0 {
		f, _ := NewPositionFen(StartFen)
		return f
	}
	f, _ := NewPositionFen(fen[0])
	return f
}

// NewPositionFen creates a new position from the given FEN, or returns an
// error if the FEN is invalid.
func NewPositionFen(fen string) (*Position, error) {
	if log == nil {
		log = myLogging.GetLog()
	}
	p := &Position{}
	if e := p.setupBoard(fen); e != nil {
		log.Errorf("fen for position setup not valid and position can't be created: %s", e)
		return nil, e
	}
	return p, nil
}

// DoMove commits a move to the board. The move's type (normal, capture,
// castling, en passant, promotion) is inferred from the moving piece and the
// squares involved, exactly as the engine's move encoding carries no
// explicit type tag. There is no legality check here: the caller either used
// a MoveGenerator (legal by construction modulo IsLegalMove/WasLegalMove) or
// checked IsLegalMove beforehand.
func (p *Position) DoMove(m Move) {
	fromSq := m.FromSq()
	fromPc := p.board[fromSq]
	myColor := fromPc.ColorOf()
	toSq := m.ToSq()
	targetPc := p.board[toSq]
	fromPt := fromPc.TypeOf()

	if assert.DEBUG {
		assert.Assert(m.IsValid(), "Position DoMove: Invalid move %s", m.String())
		assert.Assert(fromPc != PieceNone, "Position DoMove: No piece on %s for move %s", fromSq.String(), m.String())
		assert.Assert(myColor == p.nextPlayer, "Position DoMove: Piece to move does not belong to next player %s", fromPc.String())
		assert.Assert(targetPc.TypeOf() != King, "Position DoMove: King cannot be captured yet target piece is %s", targetPc.String())
	}

	h := &p.history[p.historyCounter]
	h.zobristKey = p.zobristKey
	h.pawnKey = p.pawnKey
	h.matKey = p.matKey
	h.move = m
	h.fromPiece = fromPc
	h.capturedPiece = targetPc
	h.castlingRights = p.castlingRights
	h.enpassantSquare = p.enPassantSquare
	h.halfMoveClock = p.halfMoveClock
	h.hasCheckFlag = p.hasCheckFlag
	p.historyCounter++

	switch {
	case fromPt == Pawn && fromSq.FileOf() != toSq.FileOf() && targetPc == PieceNone:
		// diagonal pawn move onto an empty square: en passant capture
		p.doEnPassantMove(fromSq, toSq, myColor)
	case fromPt == Pawn && m.ToPiece().TypeOf() != Pawn:
		p.doPromotionMove(m, fromPc, myColor, fromSq, toSq, targetPc)
	case fromPt == King && toSq.FileOf() == fromSq.FileOf()+2:
		p.doCastlingMove(fromPc, myColor, fromSq, toSq, true)
	case fromPt == King && int(toSq.FileOf())+2 == int(fromSq.FileOf()):
		p.doCastlingMove(fromPc, myColor, fromSq, toSq, false)
	default:
		p.doNormalMove(fromSq, toSq, targetPc, fromPc, myColor)
	}

	p.hasCheckFlag = flagTBD
	p.nextHalfMoveNumber++
	p.nextPlayer = p.nextPlayer.Flip()
	p.zobristKey ^= zobristBase.nextPlayer
}

// UndoMove resets the position to the state before the last move was made.
func (p *Position) UndoMove() {
	if assert.DEBUG {
		assert.Assert(p.historyCounter > 0, "Position UndoMove: Cannot undo initial position")
	}

	p.historyCounter--
	p.nextHalfMoveNumber--
	p.nextPlayer = p.nextPlayer.Flip()
	h := &p.history[p.historyCounter]
	move := h.move
	fromSq := move.FromSq()
	toSq := move.ToSq()
	fromPt := h.fromPiece.TypeOf()

	switch {
	case fromPt == Pawn && fromSq.FileOf() != toSq.FileOf() && h.capturedPiece == PieceNone:
		p.movePiece(toSq, fromSq)
		p.putPiece(MakePiece(p.nextPlayer.Flip(), Pawn), toSq.To(p.nextPlayer.Flip().PawnPushDirection().Opposite()))
	case fromPt == Pawn && move.ToPiece().TypeOf() != Pawn:
		p.removePiece(toSq)
		p.putPiece(MakePiece(p.nextPlayer, Pawn), fromSq)
		if h.capturedPiece != PieceNone {
			p.putPiece(h.capturedPiece, toSq)
		}
	case fromPt == King && toSq.FileOf() == fromSq.FileOf()+2:
		p.movePiece(toSq, fromSq)
		p.movePiece(toSq.To(West), toSq.To(East))
	case fromPt == King && int(toSq.FileOf())+2 == int(fromSq.FileOf()):
		p.movePiece(toSq, fromSq)
		p.movePiece(toSq.To(East), toSq.To(West).To(West))
	default:
		p.movePiece(toSq, fromSq)
		if h.capturedPiece != PieceNone {
			p.putPiece(h.capturedPiece, toSq)
		}
	}

	p.castlingRights = h.castlingRights
	p.enPassantSquare = h.enpassantSquare
	p.halfMoveClock = h.halfMoveClock
	p.hasCheckFlag = h.hasCheckFlag
	p.zobristKey = h.zobristKey
	p.pawnKey = h.pawnKey
	p.matKey = h.matKey
}

// DoNullMove passes the move without changing the board, used by null-move
// pruning. The external view of the position (FEN, Zobrist key) before and
// after a DoNullMove/UndoNullMove pair is identical.
func (p *Position) DoNullMove() {
	h := &p.history[p.historyCounter]
	h.zobristKey = p.zobristKey
	h.pawnKey = p.pawnKey
	h.matKey = p.matKey
	h.move = MoveNone
	h.fromPiece = PieceNone
	h.capturedPiece = PieceNone
	h.castlingRights = p.castlingRights
	h.enpassantSquare = p.enPassantSquare
	h.halfMoveClock = p.halfMoveClock
	h.hasCheckFlag = p.hasCheckFlag
	p.historyCounter++
	p.hasCheckFlag = flagTBD
	p.clearEnPassant()
	p.nextHalfMoveNumber++
	p.nextPlayer = p.nextPlayer.Flip()
	p.zobristKey ^= zobristBase.nextPlayer
}

// UndoNullMove restores the state from before DoNullMove.
func (p *Position) UndoNullMove() {
	p.historyCounter--
	p.nextHalfMoveNumber--
	p.nextPlayer = p.nextPlayer.Flip()
	h := &p.history[p.historyCounter]
	p.castlingRights = h.castlingRights
	p.enPassantSquare = h.enpassantSquare
	p.halfMoveClock = h.halfMoveClock
	p.hasCheckFlag = h.hasCheckFlag
	p.zobristKey = h.zobristKey
	p.pawnKey = h.pawnKey
	p.matKey = h.matKey
}

// IsAttacked reports whether sq is attacked by a piece of colour by.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	if (GetPawnAttacks(by.Flip(), sq)&p.piecesBb[by][Pawn] != 0) ||
		(GetPseudoAttacks(Knight, sq)&p.piecesBb[by][Knight] != 0) ||
		(GetPseudoAttacks(King, sq)&p.piecesBb[by][King] != 0) {
		return true
	}
	bishops := p.piecesBb[by][BishopL] | p.piecesBb[by][BishopD]
	occ := p.OccupiedAll()
	if GetAttacksBb(BishopL, sq, occ)&(bishops|p.piecesBb[by][Queen]) != 0 ||
		GetAttacksBb(Rook, sq, occ)&(p.piecesBb[by][Rook]|p.piecesBb[by][Queen]) != 0 {
		return true
	}
	if p.enPassantSquare != SqNone {
		switch by {
		case White:
			if p.board[p.enPassantSquare.To(South)] == BlackPawn && p.enPassantSquare.To(South) == sq {
				if sq.FileOf() > FileA && p.board[sq.To(West)] == WhitePawn {
					return true
				}
				return sq.FileOf() < FileH && p.board[sq.To(East)] == WhitePawn
			}
		case Black:
			if p.board[p.enPassantSquare.To(North)] == WhitePawn && p.enPassantSquare.To(North) == sq {
				if sq.FileOf() > FileA && p.board[sq.To(West)] == BlackPawn {
					return true
				}
				return sq.FileOf() < FileH && p.board[sq.To(East)] == BlackPawn
			}
		}
	}
	return false
}

// IsLegalMove reports whether move is legal on the current position: the
// moving side's king must not be left in check, and castling must not cross
// or land on an attacked square.
func (p *Position) IsLegalMove(move Move) bool {
	fromPt := p.board[move.FromSq()].TypeOf()
	if fromPt == King && abs(int(move.ToSq().FileOf())-int(move.FromSq().FileOf())) == 2 {
		if p.IsAttacked(move.FromSq(), p.nextPlayer.Flip()) {
			return false
		}
		mid := Square((int(move.FromSq()) + int(move.ToSq())) / 2)
		if p.IsAttacked(mid, p.nextPlayer.Flip()) {
			return false
		}
	}
	p.DoMove(move)
	legal := !p.IsAttacked(p.kingSquare[p.nextPlayer.Flip()], p.nextPlayer)
	p.UndoMove()
	return legal
}

// WasLegalMove reports whether the move just applied via DoMove was legal:
// it must not leave the mover's own king in check, and a castling move must
// not start from or cross an attacked square. Call it immediately after
// DoMove instead of doing a speculative DoMove/UndoMove round trip through
// IsLegalMove.
func (p *Position) WasLegalMove() bool {
	if p.historyCounter > 0 {
		h := &p.history[p.historyCounter-1]
		from, to := h.move.FromSq(), h.move.ToSq()
		if h.fromPiece.TypeOf() == King && abs(int(to.FileOf())-int(from.FileOf())) == 2 {
			mid := Square((int(from) + int(to)) / 2)
			if p.IsAttacked(from, p.nextPlayer) || p.IsAttacked(mid, p.nextPlayer) {
				return false
			}
		}
	}
	return !p.IsAttacked(p.kingSquare[p.nextPlayer.Flip()], p.nextPlayer)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// HasCheck reports whether the side to move is in check, cached for the
// current position.
func (p *Position) HasCheck() bool {
	if p.hasCheckFlag != flagTBD {
		return p.hasCheckFlag == flagTrue
	}
	check := p.IsAttacked(p.kingSquare[p.nextPlayer], p.nextPlayer.Flip())
	if check {
		p.hasCheckFlag = flagTrue
	} else {
		p.hasCheckFlag = flagFalse
	}
	return check
}

// IsCapturingMove reports whether move captures a piece, including en passant.
func (p *Position) IsCapturingMove(move Move) bool {
	if p.occupiedBb[p.nextPlayer.Flip()].Has(move.ToSq()) {
		return true
	}
	fromPc := p.board[move.FromSq()]
	return fromPc.TypeOf() == Pawn && move.FromSq().FileOf() != move.ToSq().FileOf()
}

// CheckRepetitions reports whether the current position has occurred reps
// times before (2 for a 3-fold repetition claim).
func (p *Position) CheckRepetitions(reps int) bool {
	counter := 0
	i := p.historyCounter - 2
	lastHalfMove := p.halfMoveClock
	for i >= 0 {
		if p.history[i].halfMoveClock >= lastHalfMove {
			break
		}
		lastHalfMove = p.history[i].halfMoveClock
		if p.zobristKey == p.history[i].zobristKey {
			counter++
		}
		if counter >= reps {
			return true
		}
		i -= 2
	}
	return false
}

// HasInsufficientMaterial reports whether neither side has enough material
// to force a mate. This is a coarse, symmetric check by piece counts; the
// evaluator's material recognizers catch the remaining special endgames
// (KPvK, KBPvK wrong-bishop, etc).
func (p *Position) HasInsufficientMaterial() bool {
	if p.piecesBb[White][Pawn]|p.piecesBb[Black][Pawn] != 0 {
		return false
	}
	if p.piecesBb[White][Rook]|p.piecesBb[White][Queen]|p.piecesBb[Black][Rook]|p.piecesBb[Black][Queen] != 0 {
		return false
	}
	wKnights := p.piecesBb[White][Knight].PopCount()
	bKnights := p.piecesBb[Black][Knight].PopCount()
	wBishopL := p.piecesBb[White][BishopL].PopCount()
	wBishopD := p.piecesBb[White][BishopD].PopCount()
	bBishopL := p.piecesBb[Black][BishopL].PopCount()
	bBishopD := p.piecesBb[Black][BishopD].PopCount()
	wMinors := wKnights + wBishopL + wBishopD
	bMinors := bKnights + bBishopL + bBishopD

	// a true bishop pair (one light- and one dark-squared bishop) forces
	// mate against a lone king or a lone knight, but a lone bishop of either
	// colour can set up a fortress against it.
	if wBishopL > 0 && wBishopD > 0 && bMinors <= 1 {
		return bMinors == 1 && bKnights == 0
	}
	if bBishopL > 0 && bBishopD > 0 && wMinors <= 1 {
		return wMinors == 1 && wKnights == 0
	}

	maxMinors, minMinors := wMinors, bMinors
	if minMinors > maxMinors {
		maxMinors, minMinors = minMinors, maxMinors
	}
	return maxMinors <= 2 && minMinors <= 1
}

// GivesCheck reports whether move would give check to the opponent.
func (p *Position) GivesCheck(move Move) bool {
	us := p.nextPlayer
	them := us.Flip()
	kingSq := p.kingSquare[them]

	fromSq := move.FromSq()
	toSq := move.ToSq()
	fromPc := p.board[fromSq]
	fromPt := fromPc.TypeOf()
	epTargetSq := SqNone

	switch {
	case fromPt == Pawn && move.ToPiece().TypeOf() != Pawn:
		fromPt = move.ToPiece().TypeOf()
	case fromPt == King && toSq.FileOf() == fromSq.FileOf()+2:
		fromPt = Rook
		toSq = toSq.To(West)
	case fromPt == King && int(toSq.FileOf())+2 == int(fromSq.FileOf()):
		fromPt = Rook
		toSq = toSq.To(East)
	case fromPt == Pawn && fromSq.FileOf() != toSq.FileOf() && p.board[move.ToSq()] == PieceNone:
		epTargetSq = move.ToSq().To(us.PawnPushDirection().Opposite())
	}

	boardAfterMove := p.OccupiedAll()
	boardAfterMove.PopSquare(fromSq)
	boardAfterMove.PushSquare(move.ToSq())
	if epTargetSq != SqNone {
		boardAfterMove.PopSquare(epTargetSq)
	}

	switch fromPt {
	case Pawn:
		if GetPawnAttacks(us, toSq).Has(kingSq) {
			return true
		}
	case King:
		// a king move (not castling's rook) cannot give direct check
	default:
		if GetAttacksBb(fromPt, toSq, boardAfterMove).Has(kingSq) {
			return true
		}
	}

	bishops := p.piecesBb[us][BishopL] | p.piecesBb[us][BishopD]
	switch {
	case GetAttacksBb(BishopL, kingSq, boardAfterMove)&bishops != 0:
		return true
	case GetAttacksBb(Rook, kingSq, boardAfterMove)&p.piecesBb[us][Rook] != 0:
		return true
	case GetAttacksBb(Queen, kingSq, boardAfterMove)&p.piecesBb[us][Queen] != 0:
		return true
	}
	return false
}

// Mirror returns a copy of the position reflected across the board's
// horizontal axis (rank r <-> rank 7-r) with colours swapped, used to test
// evaluator symmetry.
func (p *Position) Mirror() *Position {
	mirrored := &Position{}
	mirrored.nextHalfMoveNumber = 1
	mirrored.enPassantSquare = SqNone
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := p.board[sq]
		if pc == PieceNone {
			continue
		}
		mpt := pc.TypeOf()
		if mpt == BishopL {
			mpt = BishopD
		} else if mpt == BishopD {
			mpt = BishopL
		}
		mirrored.putPiece(MakePiece(pc.ColorOf().Flip(), mpt), sq.Flip())
	}
	mirrored.nextPlayer = p.nextPlayer.Flip()
	if p.castlingRights.Has(CastlingWhiteOO) {
		mirrored.castlingRights.Add(CastlingBlackOO)
	}
	if p.castlingRights.Has(CastlingWhiteOOO) {
		mirrored.castlingRights.Add(CastlingBlackOOO)
	}
	if p.castlingRights.Has(CastlingBlackOO) {
		mirrored.castlingRights.Add(CastlingWhiteOO)
	}
	if p.castlingRights.Has(CastlingBlackOOO) {
		mirrored.castlingRights.Add(CastlingWhiteOOO)
	}
	if p.enPassantSquare != SqNone {
		mirrored.enPassantSquare = p.enPassantSquare.Flip()
	}
	mirrored.halfMoveClock = p.halfMoveClock
	return mirrored
}

// IsConsistent audits the position's redundant state (bitboards, board
// array, piece counts, king squares) against each other, for use in tests and
// debug builds. It is grounded on the original engine's posIsConsistent.
func (p *Position) IsConsistent() bool {
	var occAll [ColorLength]Bitboard
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := p.board[sq]
		if pc == PieceNone {
			continue
		}
		c := pc.ColorOf()
		pt := pc.TypeOf()
		if !p.piecesBb[c][pt].Has(sq) {
			return false
		}
		occAll[c].PushSquare(sq)
		if pt == King && p.kingSquare[c] != sq {
			return false
		}
	}
	if occAll[White] != p.occupiedBb[White] || occAll[Black] != p.occupiedBb[Black] {
		return false
	}
	for c := White; c <= Black; c++ {
		for pt := PtNone; pt < PtLength; pt++ {
			if p.pieceCount[MakePiece(c, pt)] != p.piecesBb[c][pt].PopCount() {
				return false
			}
		}
	}
	return true
}

// String renders the FEN and an ASCII board.
func (p *Position) String() string {
	var os strings.Builder
	os.WriteString(p.StringFen())
	os.WriteString("\n")
	os.WriteString(p.StringBoard())
	os.WriteString("\n")
	os.WriteString(fmt.Sprintf("Next Player    : %s\n", p.nextPlayer.String()))
	return os.String()
}

// StringFen returns the FEN of the current position.
func (p *Position) StringFen() string {
	return p.fen()
}

// StringBoard returns a visual matrix of the board.
func (p *Position) StringBoard() string {
	var os strings.Builder
	os.WriteString("+---+---+---+---+---+---+---+---+\n")
	for r := Rank1; r <= Rank8; r++ {
		for f := FileA; f <= FileH; f++ {
			os.WriteString("| ")
			os.WriteString(p.board[SquareOf(f, Rank8-r)].Char())
			os.WriteString(" ")
		}
		os.WriteString("|\n+---+---+---+---+---+---+---+---+\n")
	}
	return os.String()
}

// //////////////////////////////////////////////////////////
// Private
// //////////////////////////////////////////////////////////

func (p *Position) doNormalMove(fromSq, toSq Square, targetPc, fromPc Piece, myColor Color) {
	if p.castlingRights != CastlingNone {
		cr := GetCastlingRights(fromSq) | GetCastlingRights(toSq)
		if cr != CastlingNone {
			p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
			p.castlingRights.Remove(cr)
			p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
		}
	}
	p.clearEnPassant()
	if targetPc != PieceNone {
		p.removePiece(toSq)
		p.halfMoveClock = 0
	} else if fromPc.TypeOf() == Pawn {
		p.halfMoveClock = 0
		if SquareDistance(fromSq, toSq) == 2 {
			p.enPassantSquare = toSq.To(myColor.Flip().PawnPushDirection())
			p.zobristKey ^= zobristBase.enPassantFile[p.enPassantSquare.FileOf()]
		}
	} else {
		p.halfMoveClock++
	}
	p.movePiece(fromSq, toSq)
}

func (p *Position) doCastlingMove(fromPc Piece, myColor Color, fromSq, toSq Square, kingSide bool) {
	if assert.DEBUG {
		assert.Assert(fromPc == MakePiece(myColor, King), "Position DoMove: Move type castling but from piece not king")
	}
	var rookFrom, rookTo Square
	var lost CastlingRights
	if myColor == White {
		lost = CastlingWhite
		if kingSide {
			rookFrom, rookTo = SqH1, SqF1
		} else {
			rookFrom, rookTo = SqA1, SqD1
		}
	} else {
		lost = CastlingBlack
		if kingSide {
			rookFrom, rookTo = SqH8, SqF8
		} else {
			rookFrom, rookTo = SqA8, SqD8
		}
	}
	p.movePiece(fromSq, toSq)
	p.movePiece(rookFrom, rookTo)
	p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
	p.castlingRights.Remove(lost)
	p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
	p.clearEnPassant()
	p.halfMoveClock++
}

func (p *Position) doEnPassantMove(fromSq, toSq Square, myColor Color) {
	capSq := toSq.To(myColor.Flip().PawnPushDirection())
	if assert.DEBUG {
		assert.Assert(p.enPassantSquare != SqNone, "Position DoMove: EnPassant move type without en passant")
		assert.Assert(p.board[capSq] == MakePiece(myColor.Flip(), Pawn), "Position DoMove: Captured en passant piece invalid")
	}
	p.removePiece(capSq)
	p.movePiece(fromSq, toSq)
	p.clearEnPassant()
	p.halfMoveClock = 0
}

func (p *Position) doPromotionMove(m Move, fromPc Piece, myColor Color, fromSq, toSq Square, targetPc Piece) {
	if assert.DEBUG {
		assert.Assert(fromPc == MakePiece(myColor, Pawn), "Position DoMove: Move type promotion but From piece not Pawn")
		assert.Assert(myColor.PromotionRankBb().Has(toSq), "Position DoMove: Promotion move but wrong Rank")
	}
	if targetPc != PieceNone {
		p.removePiece(toSq)
	}
	if p.castlingRights != CastlingNone {
		cr := GetCastlingRights(fromSq) | GetCastlingRights(toSq)
		if cr != CastlingNone {
			p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
			p.castlingRights.Remove(cr)
			p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
		}
	}
	p.removePiece(fromSq)
	p.putPiece(MakePiece(myColor, m.ToPiece().TypeOf()), toSq)
	p.clearEnPassant()
	p.halfMoveClock = 0
}

func (p *Position) movePiece(fromSq, toSq Square) {
	p.putPiece(p.removePiece(fromSq), toSq)
}

func (p *Position) putPiece(piece Piece, square Square) {
	color := piece.ColorOf()
	pieceType := piece.TypeOf()

	if assert.DEBUG {
		assert.Assert(p.board[square] == PieceNone, "tried to put piece on an occupied square: %s", square.String())
	}

	p.board[square] = piece
	if pieceType == King {
		p.kingSquare[color] = square
	}
	p.piecesBb[color][pieceType].PushSquare(square)
	p.occupiedBb[color].PushSquare(square)

	p.zobristKey ^= zobristBase.pieces[piece][square]
	if pieceType == Pawn {
		p.pawnKey ^= zobristBase.pawnPieces[piece][square]
	}

	n := p.pieceCount[piece]
	p.pieceList[piece][n] = square
	p.pieceListIdx[square] = n
	p.pieceCount[piece]++
	p.matKey ^= zobristBase.matKey[piece][n]

	p.material[color] += pieceType.MaterialValue()
	if pieceType != Pawn && pieceType != King {
		p.materialNonPawn[color] += pieceType.MaterialValue()
	}
}

func (p *Position) removePiece(square Square) Piece {
	removed := p.board[square]
	color := removed.ColorOf()
	pieceType := removed.TypeOf()

	if assert.DEBUG {
		assert.Assert(p.board[square] != PieceNone, "tried to remove piece from an empty square: %s", square.String())
	}

	p.board[square] = PieceNone
	p.piecesBb[color][pieceType].PopSquare(square)
	p.occupiedBb[color].PopSquare(square)

	p.zobristKey ^= zobristBase.pieces[removed][square]
	if pieceType == Pawn {
		p.pawnKey ^= zobristBase.pawnPieces[removed][square]
	}

	p.pieceCount[removed]--
	n := p.pieceCount[removed]
	p.matKey ^= zobristBase.matKey[removed][n]

	p.material[color] -= pieceType.MaterialValue()
	if pieceType != Pawn && pieceType != King {
		p.materialNonPawn[color] -= pieceType.MaterialValue()
	}
	idx := p.pieceListIdx[square]
	last := p.pieceList[removed][n]
	p.pieceList[removed][idx] = last
	p.pieceListIdx[last] = idx

	return removed
}

func (p *Position) clearEnPassant() {
	if p.enPassantSquare != SqNone {
		p.zobristKey ^= zobristBase.enPassantFile[p.enPassantSquare.FileOf()]
		p.enPassantSquare = SqNone
	}
}

func (p *Position) fen() string {
	var fen strings.Builder
	for r := Rank1; r <= Rank8; r++ {
		emptySquares := 0
		for f := FileA; f <= FileH; f++ {
			pc := p.board[SquareOf(f, Rank8-r)]
			if pc == PieceNone {
				emptySquares++
			} else {
				if emptySquares > 0 {
					fen.WriteString(strconv.Itoa(emptySquares))
					emptySquares = 0
				}
				fen.WriteString(pc.String())
			}
		}
		if emptySquares > 0 {
			fen.WriteString(strconv.Itoa(emptySquares))
		}
		if r < Rank8 {
			fen.WriteString("/")
		}
	}
	fen.WriteString(" ")
	fen.WriteString(p.nextPlayer.String())
	fen.WriteString(" ")
	fen.WriteString(p.castlingRights.String())
	fen.WriteString(" ")
	fen.WriteString(p.enPassantSquare.String())
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa(p.halfMoveClock))
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa((p.nextHalfMoveNumber + 1) / 2))
	return fen.String()
}

var regexFenPos = regexp.MustCompile("[0-8pPnNbBrRqQkK/]+")
var regexWorB = regexp.MustCompile("^[w|b]$")
var regexCastlingRights = regexp.MustCompile("^(K?Q?k?q?|-)$")
var regexEnPassant = regexp.MustCompile("^([a-h][1-8]|-)$")

// setupBoard parses fen and initializes all position state from it. This is
// the only way to populate a Position.
func (p *Position) setupBoard(fen string) error {
	fen = strings.TrimSpace(fen)
	fenParts := strings.Split(fen, " ")

	if len(fenParts) == 0 {
		return errors.New("fen must not be empty")
	}
	if !regexFenPos.MatchString(fenParts[0]) {
		return errors.New("fen position contains invalid characters")
	}

	currentSquare := SqA8
	for _, c := range fenParts[0] {
		if number, e := strconv.Atoi(string(c)); e == nil {
			currentSquare = Square(int(currentSquare) + (number * int(East)))
		} else if string(c) == "/" {
			currentSquare = Square(int(currentSquare) - 16)
		} else {
			pc := PieceFromChar(string(c))
			if pc == PieceNone {
				return fmt.Errorf("invalid piece character: %s", string(c))
			}
			if pc.TypeOf() == BishopL {
				pc = MakeBishop(pc.ColorOf(), currentSquare)
			}
			p.putPiece(pc, currentSquare)
			currentSquare++
		}
	}
	if currentSquare != SqA2 {
		return errors.New("not reached last square (h1) after reading fen")
	}

	p.nextHalfMoveNumber = 1
	p.enPassantSquare = SqNone

	if len(fenParts) >= 2 {
		if !regexWorB.MatchString(fenParts[1]) {
			return errors.New("fen next player contains invalid characters")
		}
		switch fenParts[1] {
		case "w":
			p.nextPlayer = White
		case "b":
			p.nextPlayer = Black
			p.zobristKey ^= zobristBase.nextPlayer
			p.nextHalfMoveNumber++
		}
	}

	if len(fenParts) >= 3 {
		if !regexCastlingRights.MatchString(fenParts[2]) {
			return errors.New("fen castling rights contains invalid characters")
		}
		if fenParts[2] != "-" {
			for _, c := range fenParts[2] {
				switch string(c) {
				case "K":
					p.castlingRights.Add(CastlingWhiteOO)
				case "Q":
					p.castlingRights.Add(CastlingWhiteOOO)
				case "k":
					p.castlingRights.Add(CastlingBlackOO)
				case "q":
					p.castlingRights.Add(CastlingBlackOOO)
				}
			}
		}
		p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
	}

	if len(fenParts) >= 4 {
		if !regexEnPassant.MatchString(fenParts[3]) {
			return errors.New("fen en passant square contains invalid characters")
		}
		if fenParts[3] != "-" {
			p.enPassantSquare = MakeSquare(fenParts[3])
		}
	}

	if len(fenParts) >= 5 {
		if number, e := strconv.Atoi(fenParts[4]); e == nil {
			p.halfMoveClock = number
		} else {
			return e
		}
	}

	if len(fenParts) >= 6 {
		if moveNumber, e := strconv.Atoi(fenParts[5]); e == nil {
			if moveNumber == 0 {
				moveNumber = 1
			}
			p.nextHalfMoveNumber = 2*moveNumber - (1 - int(p.nextPlayer))
		} else {
			return e
		}
	}

	return nil
}

// //////////////////////////////////////////////////////
// Getters
// //////////////////////////////////////////////////////

// ZobristKey returns the main Zobrist key of the position.
func (p *Position) ZobristKey() Key { return p.zobristKey }

// PawnKey returns the pawn-only Zobrist key, used to index the pawn cache.
func (p *Position) PawnKey() Key { return p.pawnKey }

// MaterialKey returns the material Zobrist key, used to index material recognizers.
func (p *Position) MaterialKey() Key { return p.matKey }

// Material returns the total centipawn material value for colour c.
func (p *Position) Material(c Color) Value { return p.material[c] }

// MaterialNonPawn returns the non-pawn, non-king centipawn material value
// for colour c, used by insufficient-material and endgame-phase checks.
func (p *Position) MaterialNonPawn(c Color) Value { return p.materialNonPawn[c] }

// NextPlayer returns the side to move.
func (p *Position) NextPlayer() Color { return p.nextPlayer }

// GetPiece returns the piece on sq, or PieceNone if empty.
func (p *Position) GetPiece(sq Square) Piece { return p.board[sq] }

// PiecesBb returns the bitboard of piece type pt for colour c.
func (p *Position) PiecesBb(c Color, pt PieceType) Bitboard { return p.piecesBb[c][pt] }

// PieceList returns the squares occupied by piece, for fast iteration.
func (p *Position) PieceList(piece Piece) []Square {
	return p.pieceList[piece][:p.pieceCount[piece]]
}

// PieceCount returns how many of piece are currently on the board.
func (p *Position) PieceCount(piece Piece) int { return p.pieceCount[piece] }

// OccupiedAll returns a bitboard of every occupied square.
func (p *Position) OccupiedAll() Bitboard { return p.occupiedBb[White] | p.occupiedBb[Black] }

// OccupiedBb returns a bitboard of all squares occupied by colour c.
func (p *Position) OccupiedBb(c Color) Bitboard { return p.occupiedBb[c] }

// GetEnPassantSquare returns the en passant target square, or SqNone.
func (p *Position) GetEnPassantSquare() Square { return p.enPassantSquare }

// CastlingRights returns the position's castling rights.
func (p *Position) CastlingRights() CastlingRights { return p.castlingRights }

// KingSquare returns the current king square of colour c.
func (p *Position) KingSquare(c Color) Square { return p.kingSquare[c] }

// HalfMoveClock returns the position's half-move clock (50-move rule).
func (p *Position) HalfMoveClock() int { return p.halfMoveClock }

// LastMove returns the last move made, or MoveNone if there is no history.
func (p *Position) LastMove() Move {
	if p.historyCounter <= 0 {
		return MoveNone
	}
	return p.history[p.historyCounter-1].move
}

// LastCapturedPiece returns the piece captured by the last move, or
// PieceNone if the last move was non-capturing or there is no history.
func (p *Position) LastCapturedPiece() Piece {
	if p.historyCounter <= 0 {
		return PieceNone
	}
	return p.history[p.historyCounter-1].capturedPiece
}

// WasCapturingMove reports whether the last move made was a capture.
func (p *Position) WasCapturingMove() bool {
	return p.LastCapturedPiece() != PieceNone
}
