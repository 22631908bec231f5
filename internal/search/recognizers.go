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

package search

import (
	"robocide-go/internal/bitbase"
	"robocide-go/internal/evaluator"
	"robocide-go/internal/movegen"
	"robocide-go/internal/position"
	. "robocide-go/internal/types"
)

// interiorRecognizer tests the cheap, exact-result special cases search would
// otherwise have to spend a full move loop to discover: draws by rule,
// fortress-like blocked positions and a handful of material-specific
// recognisers. Grounded on searchInteriorRecog/searchInteriorRecogBlocked/
// searchInteriorRecogKNNvK/KPvK/KBPvK in original_source/src/search.c.
func (s *Search) interiorRecognizer(p *position.Position, ply int, beta Value) (Value, bool) {
	// Draws by rule (repetition, 50-move rule, insufficient material), and
	// the rare checkmate that can be delivered on the 100th half move.
	if p.CheckRepetitions(2) || p.HalfMoveClock() >= 100 || p.HasInsufficientMaterial() {
		if p.HasCheck() && p.HalfMoveClock() >= 100 && !s.mg[ply].HasLegalMove(p) {
			return -ValueCheckMate + Value(ply), true
		}
		return ValueDraw, true
	}

	// Blocked fortress positions: only worth the cost of looking when the
	// caller cannot use anything better than a draw anyway.
	if beta <= ValueDraw && recognizeBlocked(p) {
		return ValueDraw, true
	}

	// Special material combination recognisers.
	switch evaluator.ClassifyMaterial(p) {
	case evaluator.MatTypeKNNvK:
		if recognizeKNNvK(s.mg[ply], p) {
			return ValueDraw, true
		}
	case evaluator.MatTypeKPvK:
		if recognizeKPvK(p) {
			return ValueDraw, true
		}
	case evaluator.MatTypeKBPvK:
		if recognizeKBPvK(p) {
			return ValueDraw, true
		}
	}

	return ValueNA, false
}

// recognizeKNNvK reports whether the side with a bare king against two
// knights is on the move and not facing an unavoidable mate-in-1, which
// means it can shuffle forever: KNNvK can never be forced.
func recognizeKNNvK(mg *movegen.Movegen, p *position.Position) bool {
	defender := White
	if p.PieceCount(WhiteKnight) > 0 {
		defender = Black
	}
	return p.NextPlayer() == defender && (!p.HasCheck() || mg.HasLegalMove(p))
}

// recognizeKPvK probes the king+pawn-vs-king bitbase and reports a draw
// recognised result. A bitbase win is deliberately not short-circuited here:
// evaluation is left to guide the search towards the shortest mate.
func recognizeKPvK(p *position.Position) bool {
	attackerIsWhite := p.PieceCount(WhitePawn) > 0
	pawnPiece := WhitePawn
	attacker, defender := White, Black
	if !attackerIsWhite {
		pawnPiece = BlackPawn
		attacker, defender = Black, White
	}
	pawns := p.PieceList(pawnPiece)
	if len(pawns) == 0 {
		return false
	}
	result := bitbase.Probe(pawns[0], p.KingSquare(attacker), p.KingSquare(defender), p.NextPlayer(), attackerIsWhite)
	return result == bitbase.ResultDraw
}

// recognizeKBPvK detects the "wrong rook pawn" fortress: the attacker's
// pawns are all confined to the a- or h-file, its bishop cannot control the
// queening square, and the defending king already sits on or can reach that
// square, making the position an unconditional draw.
func recognizeKBPvK(p *position.Position) bool {
	atkColor := White
	if p.PieceCount(WhitePawn) == 0 {
		atkColor = Black
	}
	defColor := atkColor.Flip()

	pawns := p.PiecesBb(atkColor, Pawn)
	bishopIsLight := p.PieceCount(MakePiece(atkColor, BishopL)) > 0

	wrongFile := FileH
	if bishopIsLight != (atkColor == White) {
		wrongFile = FileA
	}
	if pawns&^wrongFile.Bb() != BbZero {
		return false // at least one pawn off the wrong-rook-pawn file
	}

	promoRank := Rank8
	if atkColor == Black {
		promoRank = Rank1
	}
	promoBb := wrongFile.Bb() & promoRank.Bb()

	defKingSq := p.KingSquare(defColor)
	reach := defKingSq.Bb() | GetAttacksBb(King, defKingSq, BbZero)
	return reach&promoBb != BbZero
}

// recognizeBlocked reports whether the side to move (the defender) can hold
// its current pawn structure and shuffle a piece indefinitely, which means
// the position is at least a draw for it. Grounded on
// searchInteriorRecogBlocked; deliberately over-estimates the attacker's
// reach and under-estimates the defender's, so it only ever returns false
// positives in the defender's favour, never the attacker's.
func recognizeBlocked(p *position.Position) bool {
	def := p.NextPlayer()
	atk := def.Flip()
	occ := p.OccupiedAll()

	atkPawns := p.PiecesBb(atk, Pawn)
	atkPawnStops := ShiftBitboard(atkPawns, atk.PawnPushDirection())
	atkPawnAtks := ShiftBitboard(atkPawnStops, East) | ShiftBitboard(atkPawnStops, West)
	defOcc := p.OccupiedBb(def)
	defPawns := p.PiecesBb(def, Pawn)
	defKing := p.KingSquare(def).Bb()

	// Can any attacker pawn move, either by pushing into an empty square or
	// capturing one of the defender's pieces?
	if ((atkPawnStops &^ (defOcc | atkPawns)) | (atkPawnAtks & defOcc)) != BbZero {
		return false
	}

	// Can any attacker piece reach one of the defender's blockers (pieces
	// holding back the attacker's pawns) or the defending king?
	atkInfluence := atkPawnAtks
	blockers := atkPawnStops & defOcc
	target := blockers | defKing
	fillOcc := blockers | atkPawns

	for _, pt := range []PieceType{Knight, BishopL, BishopD, Rook, Queen} {
		attackers := p.PiecesBb(atk, pt)
		fill := searchFill(pt, attackers, fillOcc, target)
		if fill&target != BbZero {
			return false
		}
		atkInfluence |= fill
	}

	// Squares the defender's blockers attack: the attacker's king cannot
	// safely walk through these.
	var defAttacks Bitboard
	set := blockers
	for set != BbZero {
		sq := set.PopLsb()
		defAttacks |= pieceAttacksFrom(p.GetPiece(sq), sq, occ)
	}

	atkKing := p.KingSquare(atk).Bb()
	fill := searchFill(King, atkKing, defAttacks|atkPawns, target)
	if fill&target != BbZero {
		return false
	}
	atkInfluence |= fill

	// Finally, does the defender have a piece that can shuffle between two
	// squares without disturbing the fortress (not a pawn, not a blocker,
	// and not reachable by the attacker)?
	mobile := defOcc &^ (defPawns | blockers | atkInfluence)
	safe := ^(occ | atkInfluence)
	for mobile != BbZero {
		sq := mobile.PopLsb()
		if pieceAttacksFrom(p.GetPiece(sq), sq, occ)&safe != BbZero {
			return true
		}
	}

	return false
}

// searchFill floods out from init along pt's move pattern without crossing
// occ, stopping and returning immediately once target is reached. Grounded
// on searchFill in original_source/src/search.c.
func searchFill(pt PieceType, init, occ, target Bitboard) Bitboard {
	fill := init
	done := occ
	todo := init
	for todo != BbZero {
		sq := todo.PopLsb()
		done |= sq.Bb()
		attacks := GetAttacksBb(pt, sq, occ)
		if attacks&target != BbZero {
			return attacks
		}
		todo |= attacks &^ done
		fill |= attacks
	}
	return fill
}

// pieceAttacksFrom returns piece's attacks from sq, dispatching pawns to the
// pawn attack tables since GetAttacksBb only covers non-pawn piece types.
func pieceAttacksFrom(piece Piece, sq Square, occ Bitboard) Bitboard {
	pt := piece.TypeOf()
	if pt == Pawn {
		return GetPawnAttacks(piece.ColorOf(), sq)
	}
	return GetAttacksBb(pt, sq, occ)
}
