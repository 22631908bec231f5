/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package movegen contains functionality to create moves on a
// chess position. It implements several variants like
// generate pseudo legal moves, legal moves or on demand
// generation of pseudo legal moves.
package movegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/op/go-logging"

	"robocide-go/internal/history"
	myLogging "robocide-go/internal/logging"
	"robocide-go/internal/moveslice"
	"robocide-go/internal/position"
	. "robocide-go/internal/types"
)

var log *logging.Logger

// MaxMoves bounds the number of pseudo-legal moves any one position can
// produce; move lists are preallocated to this capacity.
const MaxMoves = 512

// Movegen data structure. Create new move generator via
//  movegen.NewMoveGen()
// Creating this directly will not work.
type Movegen struct {
	pseudoLegalMoves   *moveslice.MoveSlice
	legalMoves         *moveslice.MoveSlice
	onDemandMoves      *moveslice.MoveSlice
	scoredMoves        *moveslice.ScoredMoveSlice
	killerMoves        uint64 // four packed 16-bit move slots, slot 0 (lowest bits) most recent
	historyData        *history.History
	currentIteratorKey Key
	takeIndex          int
	pvMove             Move
	currentODStage     int8
	pvMovePushed       bool
}

// killerSlots is the number of packed killer-move slots per ply.
const killerSlots = 4

// killerAt extracts the move stored in the given slot (0 = most recent) of a
// packed killer word.
func killerAt(word uint64, slot int) Move {
	return Move(uint16(word >> uint(slot*16)))
}

// Sort-value bands used while scoring a batch of pseudo-legal moves. PV
// outranks everything; captures occupy a band around zero (MVV minus LVA);
// killers and plain quiets sit below captures, with history counts nudging
// quiets upward within their band.
const (
	pvSortValue    int64 = 1_000_000
	quietBaseValue int64 = -10_000
	killerBase     int64 = -4_000
)

// //////////////////////////////////////////////////////
// // Public
// //////////////////////////////////////////////////////

// GenMode generation modes for on demand move generation
type GenMode int

// GenMode generation modes for on demand move generation
const (
	GenZero   GenMode = 0b00
	GenCap    GenMode = 0b01
	GenNonCap GenMode = 0b10
	GenAll    GenMode = 0b11
)

// NewMoveGen creates a new instance of a move generator
func NewMoveGen() *Movegen {
	if log == nil {
		log = myLogging.GetLog()
	}
	tmpMg := &Movegen{
		pseudoLegalMoves:   moveslice.NewMoveSlice(MaxMoves),
		legalMoves:         moveslice.NewMoveSlice(MaxMoves),
		onDemandMoves:      moveslice.NewMoveSlice(MaxMoves),
		scoredMoves:        moveslice.NewScoredMoveSlice(MaxMoves),
		killerMoves:        0,
		historyData:        nil,
		pvMove:             MoveNone,
		currentODStage:     odNew,
		currentIteratorKey: 0,
		pvMovePushed:       false,
		takeIndex:          0,
	}
	return tmpMg
}

// GeneratePseudoLegalMoves generates pseudo moves for the next player. Does not check if
// king is left in check or if it passes an attacked square when castling or has been in check
// before castling.
func (mg *Movegen) GeneratePseudoLegalMoves(p *position.Position, mode GenMode) *moveslice.MoveSlice {
	mg.scoredMoves.Clear()
	if mode&GenCap != 0 {
		mg.generatePawnMoves(p, GenCap, mg.scoredMoves)
		mg.generateCastling(p, GenCap, mg.scoredMoves)
		mg.generateKingMoves(p, GenCap, mg.scoredMoves)
		mg.generateMoves(p, GenCap, mg.scoredMoves)
	}
	if mode&GenNonCap != 0 {
		mg.generatePawnMoves(p, GenNonCap, mg.scoredMoves)
		mg.generateCastling(p, GenNonCap, mg.scoredMoves)
		mg.generateKingMoves(p, GenNonCap, mg.scoredMoves)
		mg.generateMoves(p, GenNonCap, mg.scoredMoves)
	}
	mg.applyOrderingHints(p, mg.scoredMoves)
	mg.scoredMoves.Sort()
	mg.pseudoLegalMoves.Clear()
	mg.scoredMoves.AppendMovesTo(mg.pseudoLegalMoves)
	return mg.pseudoLegalMoves
}

// applyOrderingHints raises the sort value of the PV move, killer moves and
// (for plain quiets) moves with a good history count.
func (mg *Movegen) applyOrderingHints(p *position.Position, sms *moveslice.ScoredMoveSlice) {
	sms.ForEach(func(i int) {
		mo := sms.At(i).Move()
		switch {
		case mo == mg.pvMove:
			sms.SetScore(i, pvSortValue)
		case mo == killerAt(mg.killerMoves, 0):
			sms.SetScore(i, killerBase)
		case mo == killerAt(mg.killerMoves, 1):
			sms.SetScore(i, killerBase-1)
		case mo == killerAt(mg.killerMoves, 2):
			sms.SetScore(i, killerBase-2)
		case mo == killerAt(mg.killerMoves, 3):
			sms.SetScore(i, killerBase-3)
		case mg.historyData != nil && !p.IsCapturingMove(mo):
			fromPiece := p.GetPiece(mo.FromSq())
			if count := mg.historyData.Get(fromPiece, mo.ToSq()); count > 0 {
				sms.SetScore(i, sms.At(i).Score()+int64(count/100))
			}
		}
	})
}

// GenerateLegalMoves generates legal moves for the next player.
// Uses GeneratePseudoLegalMoves and filters out illegal moves.
//
func (mg *Movegen) GenerateLegalMoves(p *position.Position, mode GenMode) *moveslice.MoveSlice {
	mg.legalMoves.Clear()
	mg.GeneratePseudoLegalMoves(p, mode)
	mg.pseudoLegalMoves.FilterCopy(mg.legalMoves, func(i int) bool {
		return p.IsLegalMove(mg.pseudoLegalMoves.At(i))
	})
	return mg.legalMoves
}

// GetNextMove returns the next move for the given position. Usually this would be used in a loop
// during search.
//
// If a PV move is set with SetPvMove(move) this will be returned first
// and will not be returned at its normal place.
// Killer moves will be played as soon as possible. As Killer moves are stored for
// the whole ply a Killer move might not be valid for the current position. Therefore
// we need to wait until they are generated by the phased move generation. Killers will
// then be pushed to the top of the list of the generation stage.
//
// To reuse this on the sames position a call to ResetOnDemand() is necessary. This
// is not necessary when a different position is called as this func will reset it self
// in this case.
func (mg *Movegen) GetNextMove(p *position.Position, mode GenMode) Move {

	// if the position changes during iteration the iteration
	// will be reset and generation will be restart with the
	// new position.
	if p.ZobristKey() != mg.currentIteratorKey {
		mg.onDemandMoves.Clear()
		mg.currentODStage = odNew
		mg.pvMovePushed = false
		mg.takeIndex = 0
		mg.currentIteratorKey = p.ZobristKey()
	}

	// ad takeIndex
	// With the takeIndex we can take from the front of the vector
	// without removing the element from the vector which would
	// be expensive as all elements would have to be shifted.
	// (although our Moveslice class can handle this efficiently
	// through a similar mechanism)

	// If the list is currently empty and we have not generated all moves yet
	// generate the next batch until we have new moves or there are no more
	// moves to generate
	if mg.onDemandMoves.Len() == 0 {
		mg.fillOnDemandMoveList(p, mode)
	}

	// If we have generated moves we will return the first move and
	// increase the takeIndex to the next move. If the list is empty
	// even after all stages of generating we have no more moves
	// and return MOVE_NONE
	// If we have pushed a pvMove into the list we will need to
	// skip this pvMove for each subsequent phases.
	if mg.onDemandMoves.Len() != 0 {

		// Handle PvMove
		// if we pushed a pv move and the list is not empty we
		// check if the pv is the next move in list and skip it.
		if mg.currentODStage != od1 &&
			mg.pvMovePushed &&
			(*mg.onDemandMoves)[mg.takeIndex] == mg.pvMove {

			// skip pv move
			mg.takeIndex++

			// We found the pv move and skipped it.
			// No need to check this for this generation cycle
			mg.pvMovePushed = false

			// PV move last in move list
			if mg.takeIndex >= mg.onDemandMoves.Len() {
				// The pv move was the last move in this iterations list.
				// We will try to generate more moves. If no more moves
				// can be generated we will return MOVE_NONE.
				// Otherwise we return the move below.
				mg.takeIndex = 0
				mg.onDemandMoves.Clear()
				mg.fillOnDemandMoveList(p, mode)
				// no more moves - return MOVE_NONE
				if mg.onDemandMoves.Len() == 0 {
					return MoveNone
				}
			}
		}

		// we have at least one move in the list and
		// it is not the pvMove. Increase the takeIndex
		// and return the move
		move := (*mg.onDemandMoves)[mg.takeIndex]
		mg.takeIndex++
		if mg.takeIndex >= mg.onDemandMoves.Len() {
			mg.takeIndex = 0
			mg.onDemandMoves.Clear()
		}
		return move
	}

	// no more moves to be generated
	mg.takeIndex = 0
	mg.pvMovePushed = false
	return MoveNone
}

// ResetOnDemand resets the move on demand generator to start fresh.
// Also deletes the PV move; stored killer moves are kept.
func (mg *Movegen) ResetOnDemand() {
	mg.onDemandMoves.Clear()
	mg.currentODStage = odNew
	mg.currentIteratorKey = 0
	mg.pvMove = MoveNone
	mg.pvMovePushed = false
	mg.takeIndex = 0
}

// SetPvMove sets a PV move which should be returned first by
// the OnDemand MoveGenerator.
func (mg *Movegen) SetPvMove(move Move) {
	mg.pvMove = move
}

// StoreKiller provides the on demand move generator with a new killer move
// which should be returned as soon as possible when generating moves with
// the on demand generator. The four most recent distinct killers for the
// ply are kept, most recent in slot 0; a move already present is promoted
// to slot 0 rather than duplicated.
func (mg *Movegen) StoreKiller(move Move) {
	for slot := 0; slot < killerSlots; slot++ {
		if killerAt(mg.killerMoves, slot) != move {
			continue
		}
		if slot == 0 {
			return
		}
		below := mg.killerMoves & (uint64(1)<<uint(slot*16) - 1)
		above := mg.killerMoves &^ (uint64(1)<<uint((slot+1)*16) - 1)
		mg.killerMoves = above | (below << 16) | uint64(move)
		return
	}
	// not present: prepend, the oldest slot falls off the top
	mg.killerMoves = (mg.killerMoves << 16) | uint64(move)
}

// ClearKillers drops all stored killer moves, as done once per root search
// iteration.
func (mg *Movegen) ClearKillers() {
	mg.killerMoves = 0
}

// SetHistoryData provides a pointer to the search's history data used to
// order quiet moves that are neither the PV move nor a killer.
func (mg *Movegen) SetHistoryData(historyData *history.History) {
	mg.historyData = historyData
}

// HasLegalMove determines if we have at least one legal move. We only have to find
// one legal move. We search for any KING, PAWN, KNIGHT, BISHOP, ROOK, QUEEN move
// and return immediately if we found one.
// The order of our search is approx from the most likely to the least likely
func (mg *Movegen) HasLegalMove(p *position.Position) bool {

	nextPlayer := p.NextPlayer()
	nextPlayerBb := p.OccupiedBb(nextPlayer)

	// KING
	// We do not need to check castling as possible castling implies King or Rook moves
	kingSquare := p.KingSquare(nextPlayer)
	kingPiece := MakePiece(nextPlayer, King)
	tmpMoves := GetPseudoAttacks(King, kingSquare) &^ nextPlayerBb
	for tmpMoves != 0 {
		toSquare := tmpMoves.PopLsb()
		if p.IsLegalMove(NewNormalMove(kingSquare, toSquare, kingPiece)) {
			return true
		}
	}

	myPawns := p.PiecesBb(nextPlayer, Pawn)
	opponentBb := p.OccupiedBb(nextPlayer.Flip())
	pawnPiece := MakePiece(nextPlayer, Pawn)
	forward := nextPlayer.PawnPushDirection()

	// PAWN
	// normal pawn captures to the west (includes promotions)
	tmpMoves = ShiftBitboard(myPawns, forward+West) & opponentBb
	for tmpMoves != 0 {
		toSquare := tmpMoves.PopLsb()
		fromSquare := toSquare.To(forward.Opposite() + East)
		if p.IsLegalMove(NewNormalMove(fromSquare, toSquare, pawnPiece)) {
			return true
		}
	}

	// normal pawn captures to the east - promotions first
	tmpMoves = ShiftBitboard(myPawns, forward+East) & opponentBb
	for tmpMoves != 0 {
		toSquare := tmpMoves.PopLsb()
		fromSquare := toSquare.To(forward.Opposite() + West)
		if p.IsLegalMove(NewNormalMove(fromSquare, toSquare, pawnPiece)) {
			return true
		}
	}

	occupiedBb := p.OccupiedAll()

	// pawn pushes - check step one to unoccupied squares
	// don't have to test double steps as they would be redundant to single steps
	// for the purpose of finding at least one legal move
	tmpMoves = ShiftBitboard(myPawns, forward) &^ occupiedBb
	for tmpMoves != 0 {
		toSquare := tmpMoves.PopLsb()
		fromSquare := toSquare.To(forward.Opposite())
		if p.IsLegalMove(NewNormalMove(fromSquare, toSquare, pawnPiece)) {
			return true
		}
	}

	// OFFICERS
	for pt := Knight; pt <= Queen; pt++ {
		pieces := p.PiecesBb(nextPlayer, pt)
		piece := MakePiece(nextPlayer, pt)
		for pieces != 0 {
			fromSquare := pieces.PopLsb()
			moves := GetPseudoAttacks(pt, fromSquare) &^ nextPlayerBb
			for moves != 0 {
				toSquare := moves.PopLsb()
				if pt > Knight { // sliding pieces
					if Intermediate(fromSquare, toSquare)&occupiedBb == 0 {
						if p.IsLegalMove(NewNormalMove(fromSquare, toSquare, piece)) {
							return true
						}
					}
				} else { // knight cannot be blocked
					if p.IsLegalMove(NewNormalMove(fromSquare, toSquare, piece)) {
						return true
					}
				}
			}
		}
	}

	// en passant captures
	enPassantSquare := p.GetEnPassantSquare()
	if enPassantSquare != SqNone {
		back := nextPlayer.Flip().PawnPushDirection()
		// left
		tmpMoves = ShiftBitboard(enPassantSquare.Bb(), back+West) & myPawns
		if tmpMoves != 0 {
			fromSquare := tmpMoves.PopLsb()
			if p.IsLegalMove(NewNormalMove(fromSquare, fromSquare.To(forward+East), pawnPiece)) {
				return true
			}
		}
		// right
		tmpMoves = ShiftBitboard(enPassantSquare.Bb(), back+East) & myPawns
		if tmpMoves != 0 {
			fromSquare := tmpMoves.PopLsb()
			if p.IsLegalMove(NewNormalMove(fromSquare, fromSquare.To(forward+West), pawnPiece)) {
				return true
			}
		}
	}

	// no move found
	return false
}

// Regex for UCI notation (UCI)
var regexUciMove = regexp.MustCompile("([a-h][1-8][a-h][1-8])([NBRQnbrq])?")

// GetMoveFromUci Generates all legal moves and matches the given UCI
// move string against them. If there is a match the actual move is returned.
// Otherwise MoveNone is returned.
//
// As this uses string creation and comparison this is not very efficient.
// Use only when performance is not critical.
func (mg *Movegen) GetMoveFromUci(posPtr *position.Position, uciMove string) Move {
	matches := regexUciMove.FindStringSubmatch(uciMove)
	if matches == nil {
		return MoveNone
	}

	// get the parts from the pattern match
	movePart := matches[1]
	promotionPart := ""
	if len(matches) == 3 {
		// we allow lower case promotion letters
		// not really UCI but many input files have this wrong
		promotionPart = strings.ToUpper(matches[2])
	}

	// check against all legal moves on position
	mg.GenerateLegalMoves(posPtr, GenAll)
	for _, m := range *mg.legalMoves {
		if m.String() == strings.ToLower(movePart)+strings.ToLower(promotionPart) {
			// move found
			return m
		}
	}
	// move not found
	return MoveNone
}

var regexSanMove = regexp.MustCompile("([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8]|O-O-O|O-O)(=?([NBRQ]))?([!?+#]*)?")

// GetMoveFromSan Generates all legal moves and matches the given SAN
// move string against them. If there is a match the actual move is returned.
// Otherwise MoveNone is returned.
//
// As this uses string creation and comparison this is not very efficient.
// Use only when performance is not critical.
func (mg *Movegen) GetMoveFromSan(posPtr *position.Position, sanMove string) Move {
	matches := regexSanMove.FindStringSubmatch(sanMove)
	if matches == nil {
		return MoveNone
	}

	// get parts
	pieceType := matches[1]
	disambFile := matches[2]
	disambRank := matches[3]
	toSquare := matches[4]
	promotion := matches[6]
	// checkSign := matches[7]

	movesFound := 0
	moveFromSAN := MoveNone

	// check against all legal moves on position
	mg.GenerateLegalMoves(posPtr, GenAll)
	for _, genMove := range *mg.legalMoves {

		legalPt := posPtr.GetPiece(genMove.FromSq()).TypeOf()

		// castling moves
		if legalPt == King && genMove.IsCastling(posPtr.GetPiece(genMove.FromSq())) {
			kingToSquare := genMove.ToSq()
			var castlingString string
			switch kingToSquare {
			case SqG1:
				fallthrough
			case SqG8:
				castlingString = "O-O"
			case SqC1:
				fallthrough
			case SqC8:
				castlingString = "O-O-O"
			default:
				log.Errorf("Move type CASTLING but wrong to square: %s", kingToSquare.String())
				continue
			}
			if castlingString == toSquare {
				moveFromSAN = genMove
				movesFound++
				continue
			}
		}

		// normal moves
		moveTarget := genMove.ToSq().String()
		if moveTarget == toSquare {

			// determine if piece types match - if not skip
			legalPtChar := legalPt.Char()
			if (len(pieceType) == 0 || legalPtChar != strings.ToLower(pieceType)) &&
				(len(pieceType) != 0 || legalPt != Pawn) {
				continue
			}

			// Disambiguation File
			if len(disambFile) != 0 && genMove.FromSq().FileOf().String() != disambFile {
				continue
			}

			// Disambiguation Rank
			if len(disambRank) != 0 && genMove.FromSq().RankOf().String() != disambRank {
				continue
			}

			// promotion
			isPromo := legalPt == Pawn && genMove.ToPieceType() != Pawn
			if (len(promotion) != 0 && (!isPromo || genMove.ToPieceType().PromotionChar() != strings.ToLower(promotion))) ||
				(len(promotion) == 0 && isPromo) {
				continue
			}

			// we should have our move if we end up here
			moveFromSAN = genMove
			movesFound++
		}
	}

	// we should only have one move here
	if movesFound > 1 {
		log.Warningf("SAN move %s is ambiguous (%d matches) on %s!", sanMove, movesFound, posPtr.StringFen())
	} else if movesFound == 0 || !moveFromSAN.IsValid() {
		log.Warningf("SAN move not valid! SAN move %s not found on position: %s", sanMove, posPtr.StringFen())
	} else {
		return moveFromSAN
	}
	// no move found
	return MoveNone
}

// ValidateMove validates if a move is a valid move on the given position
func (mg *Movegen) ValidateMove(p *position.Position, move Move) bool {
	if move == MoveNone {
		return false
	}
	ml := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *ml {
		if move == m {
			return true
		}
	}
	return false
}

// PvMove returns the current PV move
func (mg *Movegen) PvMove() Move {
	return mg.pvMove
}

// KillerMoves returns the four packed killer-move slots for the ply, slot 0
// most recent.
func (mg *Movegen) KillerMoves() [killerSlots]Move {
	var killers [killerSlots]Move
	for slot := 0; slot < killerSlots; slot++ {
		killers[slot] = killerAt(mg.killerMoves, slot)
	}
	return killers
}

// String returns a string representation of a MoveGen instance
func (mg *Movegen) String() string {
	return fmt.Sprintf("MoveGen: { OnDemand Stage: { %d }, PV Move: %s Killer Moves: %s %s %s %s }",
		mg.currentODStage, mg.pvMove.String(),
		killerAt(mg.killerMoves, 0).String(), killerAt(mg.killerMoves, 1).String(),
		killerAt(mg.killerMoves, 2).String(), killerAt(mg.killerMoves, 3).String())
}

// //////////////////////////////////////////////////////
// // Private
// //////////////////////////////////////////////////////

// States for the on demand move generator
const (
	odNew = iota
	odPv  = iota
	od1   = iota
	od2   = iota
	od3   = iota
	od4   = iota
	od5   = iota
	od6   = iota
	od7   = iota
	od8   = iota
	odEnd = iota
)

// This calls the actual generation of moves in phases. The phases match roughly
// the order of most promising moves first.
func (mg *Movegen) fillOnDemandMoveList(p *position.Position, mode GenMode) {
	for mg.onDemandMoves.Len() == 0 && mg.currentODStage < odEnd {
		mg.scoredMoves.Clear()
		switch mg.currentODStage {
		case odNew:
			mg.currentODStage = odPv
			fallthrough
		case odPv:
			// If a pvMove is set we return it first and filter it out before
			// returning a move
			if mg.pvMove != MoveNone {
				switch mode {
				case GenAll:
					mg.pvMovePushed = true
					mg.onDemandMoves.PushBack(mg.pvMove)
				case GenCap:
					if p.IsCapturingMove(mg.pvMove) {
						mg.pvMovePushed = true
						mg.onDemandMoves.PushBack(mg.pvMove)
					}
				case GenNonCap:
					if !p.IsCapturingMove(mg.pvMove) {
						mg.pvMovePushed = true
						mg.onDemandMoves.PushBack(mg.pvMove)
					}
				}
			}
			// decide which state we should continue with
			// captures or non captures or both
			if mode&GenCap != 0 {
				mg.currentODStage = od1
			} else {
				mg.currentODStage = od4
			}
		case od1: // capture
			mg.generatePawnMoves(p, GenCap, mg.scoredMoves)
			mg.currentODStage = od2
		case od2:
			mg.generateMoves(p, GenCap, mg.scoredMoves)
			mg.currentODStage = od3
		case od3:
			mg.generateKingMoves(p, GenCap, mg.scoredMoves)
			mg.currentODStage = od4
		case od4:
			if mode&GenNonCap != 0 {
				mg.currentODStage = od5
			} else {
				mg.currentODStage = odEnd
			}
		case od5: // non capture
			mg.generatePawnMoves(p, GenNonCap, mg.scoredMoves)
			mg.currentODStage = od6
		case od6:
			mg.generateCastling(p, GenNonCap, mg.scoredMoves)
			mg.currentODStage = od7
		case od7:
			mg.generateMoves(p, GenNonCap, mg.scoredMoves)
			mg.currentODStage = od8
		case od8:
			mg.generateKingMoves(p, GenNonCap, mg.scoredMoves)
			mg.currentODStage = odEnd
		case odEnd:
			break
		}
		// classify, sort and flatten this stage's batch into the on-demand list
		if mg.scoredMoves.Len() > 0 {
			mg.applyOrderingHints(p, mg.scoredMoves)
			mg.scoredMoves.Sort()
			mg.scoredMoves.AppendMovesTo(mg.onDemandMoves)
		}
	} // while onDemandMoves.empty()
}

func (mg *Movegen) generatePawnMoves(p *position.Position, mode GenMode, sms *moveslice.ScoredMoveSlice) {

	nextPlayer := p.NextPlayer()
	myPawns := p.PiecesBb(nextPlayer, Pawn)
	oppPieces := p.OccupiedBb(nextPlayer.Flip())
	piece := MakePiece(nextPlayer, Pawn)
	forward := nextPlayer.PawnPushDirection()

	// captures
	if mode&GenCap != 0 {

		// This algorithm shifts the own pawn bitboard in the direction of pawn captures
		// and ANDs it with the opponents pieces. With this we get all possible captures
		// and can easily create the moves by using a loop over all captures and using
		// the backward shift for the from-Square.
		// Values for sorting are descending - the most valuable move has the highest value.

		var tmpCaptures, promCaptures Bitboard

		for _, dir := range []Direction{West, East} {
			// normal pawn captures - promotions first
			tmpCaptures = ShiftBitboard(myPawns, forward+dir) & oppPieces
			promCaptures = tmpCaptures & nextPlayer.PromotionRankBb()
			// promotion captures
			for promCaptures != 0 {
				toSquare := promCaptures.PopLsb()
				fromSquare := toSquare.To(forward.Opposite() - dir)
				base := 1000*int64(p.GetPiece(toSquare).TypeOf().SeeValue()) - int64(Pawn.SeeValue())
				sms.PushBack(NewMove(fromSquare, toSquare, MakePiece(nextPlayer, Queen)), base+1000*int64(Queen.SeeValue()))
				sms.PushBack(NewMove(fromSquare, toSquare, MakePiece(nextPlayer, Knight)), base+1000*int64(Knight.SeeValue()))
				// rook and bishops are usually redundant to queen promotion (except in stale mate situations)
				// therefore we give them lower sort order
				sms.PushBack(NewMove(fromSquare, toSquare, MakePiece(nextPlayer, Rook)), base+1000*int64(Rook.SeeValue())-2000)
				sms.PushBack(NewMove(fromSquare, toSquare, MakeBishop(nextPlayer, toSquare)), base+1000*int64(BishopL.SeeValue())-2000)
			}
			// non promotion pawn captures
			tmpCaptures &= ^nextPlayer.PromotionRankBb()
			for tmpCaptures != 0 {
				toSquare := tmpCaptures.PopLsb()
				fromSquare := toSquare.To(forward.Opposite() - dir)
				value := 1000*int64(p.GetPiece(toSquare).TypeOf().SeeValue()) - int64(Pawn.SeeValue())
				sms.PushBack(NewNormalMove(fromSquare, toSquare, piece), value)
			}
		}

		// en passant captures
		enPassantSquare := p.GetEnPassantSquare()
		if enPassantSquare != SqNone {
			back := nextPlayer.Flip().PawnPushDirection()
			for _, dir := range []Direction{West, East} {
				tmpCaptures = ShiftBitboard(enPassantSquare.Bb(), back+dir) & myPawns
				if tmpCaptures != 0 {
					fromSquare := tmpCaptures.PopLsb()
					toSquare := fromSquare.To(forward - dir)
					value := 1000*int64(Pawn.SeeValue()) - int64(Pawn.SeeValue())
					sms.PushBack(NewNormalMove(fromSquare, toSquare, piece), value)
				}
			}
		}
	}

	// non captures
	if mode&GenNonCap != 0 {

		//  Move my pawns forward one step and keep all on not occupied squares
		//  Move pawns now on rank 3 (rank 6) another square forward to check for pawn doubles.
		//  Loop over pawns remaining on unoccupied squares and add moves.

		// pawns - check step one to unoccupied squares
		tmpMoves := ShiftBitboard(myPawns, forward) &^ p.OccupiedAll()
		// pawns double - check step two to unoccupied squares
		tmpMovesDouble := ShiftBitboard(tmpMoves&nextPlayer.PawnDoubleRankBb(), forward) &^ p.OccupiedAll()

		// single pawn steps - promotions first
		promMoves := tmpMoves & nextPlayer.PromotionRankBb()
		for promMoves != 0 {
			toSquare := promMoves.PopLsb()
			fromSquare := toSquare.To(forward.Opposite())
			sms.PushBack(NewMove(fromSquare, toSquare, MakePiece(nextPlayer, Queen)), quietBaseValue+1000*int64(Queen.SeeValue()))
			sms.PushBack(NewMove(fromSquare, toSquare, MakePiece(nextPlayer, Knight)), quietBaseValue+1000*int64(Knight.SeeValue()))
			sms.PushBack(NewMove(fromSquare, toSquare, MakePiece(nextPlayer, Rook)), quietBaseValue+1000*int64(Rook.SeeValue())-2000)
			sms.PushBack(NewMove(fromSquare, toSquare, MakeBishop(nextPlayer, toSquare)), quietBaseValue+1000*int64(BishopL.SeeValue())-2000)
		}
		// double pawn steps
		for tmpMovesDouble != 0 {
			toSquare := tmpMovesDouble.PopLsb()
			fromSquare := toSquare.To(forward.Opposite()).To(forward.Opposite())
			sms.PushBack(NewNormalMove(fromSquare, toSquare, piece), quietBaseValue)
		}
		// normal single pawn steps
		tmpMoves &= ^nextPlayer.PromotionRankBb()
		for tmpMoves != 0 {
			toSquare := tmpMoves.PopLsb()
			fromSquare := toSquare.To(forward.Opposite())
			sms.PushBack(NewNormalMove(fromSquare, toSquare, piece), quietBaseValue)
		}
	}
}

func (mg *Movegen) generateCastling(p *position.Position, mode GenMode, sms *moveslice.ScoredMoveSlice) {
	nextPlayer := p.NextPlayer()
	occupiedBB := p.OccupiedAll()
	kingPiece := MakePiece(nextPlayer, King)

	// castling - pseudo castling - we will not check if we are in check after the move
	// or if we have passed an attacked square with the king or if the king has been in check

	if mode&GenNonCap != 0 && p.CastlingRights() != CastlingNone {
		cr := p.CastlingRights()
		if nextPlayer == White {
			if cr.Has(CastlingWhiteOO) && Intermediate(SqE1, SqH1)&occupiedBB == 0 {
				sms.PushBack(NewNormalMove(SqE1, SqG1, kingPiece), quietBaseValue+5000)
			}
			if cr.Has(CastlingWhiteOOO) && Intermediate(SqE1, SqA1)&occupiedBB == 0 {
				sms.PushBack(NewNormalMove(SqE1, SqC1, kingPiece), quietBaseValue+5000)
			}
		} else {
			if cr.Has(CastlingBlackOO) && Intermediate(SqE8, SqH8)&occupiedBB == 0 {
				sms.PushBack(NewNormalMove(SqE8, SqG8, kingPiece), quietBaseValue+5000)
			}
			if cr.Has(CastlingBlackOOO) && Intermediate(SqE8, SqA8)&occupiedBB == 0 {
				sms.PushBack(NewNormalMove(SqE8, SqC8, kingPiece), quietBaseValue+5000)
			}
		}
	}
}

func (mg *Movegen) generateKingMoves(p *position.Position, mode GenMode, sms *moveslice.ScoredMoveSlice) {
	nextPlayer := p.NextPlayer()
	piece := MakePiece(nextPlayer, King)
	kingSquareBb := p.PiecesBb(nextPlayer, King)
	fromSquare := kingSquareBb.PopLsb()

	// pseudo attacks include all moves no matter if the king would be in check
	pseudoMoves := GetPseudoAttacks(King, fromSquare)

	// captures
	if mode&GenCap != 0 {
		captures := pseudoMoves & p.OccupiedBb(nextPlayer.Flip())
		for captures != 0 {
			toSquare := captures.PopLsb()
			value := 1000*int64(p.GetPiece(toSquare).TypeOf().SeeValue()) - int64(King.SeeValue())
			sms.PushBack(NewNormalMove(fromSquare, toSquare, piece), value)
		}
	}

	// non captures
	if mode&GenNonCap != 0 {
		nonCaptures := pseudoMoves &^ p.OccupiedAll()
		for nonCaptures != 0 {
			toSquare := nonCaptures.PopLsb()
			sms.PushBack(NewNormalMove(fromSquare, toSquare, piece), quietBaseValue)
		}
	}
}

// generates officers moves using the attacks pre-computed with magic bitboards
func (mg *Movegen) generateMoves(p *position.Position, mode GenMode, sms *moveslice.ScoredMoveSlice) {
	nextPlayer := p.NextPlayer()
	occupiedBb := p.OccupiedAll()

	// loop through all piece types, get pseudo attacks for the piece and
	// AND it with the opponents pieces.
	// For sliding pieces check if there are other pieces in between the
	// piece and the target square. If free this is a valid move (or
	// capture)

	for pt := Knight; pt <= Queen; pt++ {
		pieces := p.PiecesBb(nextPlayer, pt)
		piece := MakePiece(nextPlayer, pt)

		for pieces != 0 {
			fromSquare := pieces.PopLsb()

			moves := GetAttacksBb(pt, fromSquare, occupiedBb)

			// captures
			if mode&GenCap != 0 {
				captures := moves & p.OccupiedBb(nextPlayer.Flip())
				for captures != 0 {
					toSquare := captures.PopLsb()
					value := 1000*int64(p.GetPiece(toSquare).TypeOf().SeeValue()) - int64(pt.SeeValue())
					sms.PushBack(NewNormalMove(fromSquare, toSquare, piece), value)
				}
			}

			// non captures
			if mode&GenNonCap != 0 {
				nonCaptures := moves &^ occupiedBb
				for nonCaptures != 0 {
					toSquare := nonCaptures.PopLsb()
					sms.PushBack(NewNormalMove(fromSquare, toSquare, piece), quietBaseValue)
				}
			}
		}
	}
}
