//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package evaluator contains structures and functions to calculate
// the value of a chess position to be used in a chess engine search
package evaluator

import (
	"strings"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"robocide-go/internal/attacks"
	"robocide-go/internal/config"
	myLogging "robocide-go/internal/logging"
	"robocide-go/internal/position"
	. "robocide-go/internal/types"
)

var out = message.NewPrinter(language.German)

// Evaluator represents a data structure and functionality for
// evaluating chess positions by using various evaluation
// heuristics like material, positional values, pawn structure, etc.
// Create a new instance with NewEvaluator()
type Evaluator struct {
	log *logging.Logger

	position  *position.Position
	weightEG  int
	us        Color
	them      Color
	ourKing   Square
	theirKing Square
	kingRing  [ColorLength]Bitboard
	allPieces Bitboard
	ourPieces Bitboard

	score VPair

	attack *attacks.Attacks

	pawnCache *pawnCache
}

// pre-computed lazy-eval threshold per endgame weight (0-256), grown for
// lower (more middlegame-like) weights, mirroring the teacher's game-phase
// scaled threshold table.
var threshold [257]Value

func init() {
	for i := 0; i <= 256; i++ {
		mgFactor := float64(256-i) / 256
		threshold[i] = Value(float64(config.Settings.Eval.LazyEvalThreshold) * (1 + mgFactor))
	}
}

// NewEvaluator creates a new instance of an Evaluator.
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		log:       myLogging.GetLog(),
		attack:    attacks.NewAttacks(),
		pawnCache: nil,
	}
	if config.Settings.Eval.UsePawnCache {
		e.pawnCache = newPawnCache()
	} else {
		e.log.Info("Pawn Cache is disabled in configuration")
	}
	return e
}

// InitEval initializes data structures and values which are used several times.
// Is called at the beginning of Evaluate() but can be called separately to be able
// to run single evaluations in unit tests.
func (e *Evaluator) InitEval(p *position.Position) {
	e.position = p
	e.weightEG = e.computeWeightEG()
	e.us = p.NextPlayer()
	e.them = e.us.Flip()
	e.ourKing = e.position.KingSquare(e.us)
	e.theirKing = e.position.KingSquare(e.them)
	e.kingRing[e.us] = GetAttacksBb(King, e.ourKing, BbZero)
	e.kingRing[e.them] = GetAttacksBb(King, e.theirKing, BbZero)
	e.allPieces = e.position.OccupiedAll()
	e.ourPieces = e.position.OccupiedBb(e.us)

	e.score = VPair{}

	if config.Settings.Eval.UseAttacksInEval {
		e.attack.Clear()
	}
}

// computeWeightEG derives the tapered endgame weight from the material still
// on the board, grounded on eval.c's EvalInterpolate (see pst.go's weightEG).
func (e *Evaluator) computeWeightEG() int {
	w := 0
	for _, c := range [2]Color{White, Black} {
		w += e.position.PieceCount(MakePiece(c, Knight))
		w += e.position.PieceCount(MakePiece(c, BishopL))
		w += e.position.PieceCount(MakePiece(c, BishopD))
		w += 2 * e.position.PieceCount(MakePiece(c, Rook))
		w += 4 * e.position.PieceCount(MakePiece(c, Queen))
	}
	return weightEG(w)
}

// Evaluate calculates a value for a chess positions by
// using various evaluation heuristics like material,
// positional values, pawn structure, etc.
// It calls InitEval and then the internal evaluation function
// which calculates the value for the position of the given
// position for the current game phase and from the
// view of the next player.
func (e *Evaluator) Evaluate(pos *position.Position) Value {
	e.InitEval(pos)
	return e.evaluate()
}

// value interpolates the mid and end game scores with the tapered endgame
// weight and scales the result to centipawns by dividing through by the
// value of one pawn, interpolated with the same weight.
func (e *Evaluator) value() Value {
	wMG := 256 - e.weightEG
	num := e.score.MG*wMG + e.score.EG*e.weightEG
	den := material[Pawn].MG*wMG + material[Pawn].EG*e.weightEG
	return Value(num * 100 / den)
}

// internal evaluation to sum up all partial evaluations.
// This assumes that InitEval() has been called beforehand.
func (e *Evaluator) evaluate() Value {
	// if not enough material on the board to achieve a mate it is a draw
	if e.position.HasInsufficientMaterial() {
		return ValueDraw
	}

	// Each position is evaluated from the view of the white
	// player. Before returning the value this will be adjusted
	// to the next player's color.

	// Material and piece-square tables, always computed: they are the
	// backbone every other heuristic is layered onto.
	e.score.AddTo(e.materialAndPsq())

	// TEMPO bonus for the side to move (helps evaluation alternate less
	// between plies, which makes aspiration search faster).
	e.score.MG += int(config.Settings.Eval.Tempo) * e.us.Direction()

	// early exit - arbitrary threshold, scaled wider in middlegame-like
	// positions (low weightEG) than in the endgame.
	if config.Settings.Eval.UseLazyEval {
		valueFromScore := e.value()
		th := threshold[e.weightEG]
		if valueFromScore > th {
			return e.finalEval(valueFromScore)
		}
	}

	// evaluate pawns
	if config.Settings.Eval.UsePawnEval {
		// white and black are handled in evaluatePawns()
		e.score.AddTo(e.evaluatePawns())
	}

	// Get all attacks - expensive, so only done once per evaluation when
	// any attack-dependent heuristic is enabled.
	if config.Settings.Eval.UseAttacksInEval {
		e.attack.Compute(e.position)
		if config.Settings.Eval.UseMobility {
			mob := int(e.attack.Mobility[White]-e.attack.Mobility[Black]) * int(config.Settings.Eval.MobilityBonus)
			e.score.MG += mob
			e.score.EG += mob
		}
	}

	// evaluate pieces - builds attacks and mobility
	if config.Settings.Eval.UseAdvancedPieceEval {
		e.score.AddTo(e.evalPiece(White, Knight))
		e.score.SubFrom(e.evalPiece(Black, Knight))
		e.score.AddTo(e.evalPiece(White, BishopL))
		e.score.SubFrom(e.evalPiece(Black, BishopL))
		e.score.AddTo(e.evalPiece(White, BishopD))
		e.score.SubFrom(e.evalPiece(Black, BishopD))
		e.score.AddTo(e.evalPiece(White, Rook))
		e.score.SubFrom(e.evalPiece(Black, Rook))
		e.score.AddTo(e.evalPiece(White, Queen))
		e.score.SubFrom(e.evalPiece(Black, Queen))

		// bishop pair bonus needs both colour-complements present, which the
		// per-bishop-type loop above can't see on its own.
		if e.position.PieceCount(WhiteBishopL) > 0 && e.position.PieceCount(WhiteBishopD) > 0 {
			e.score.AddTo(bishopPairBonus)
		}
		if e.position.PieceCount(BlackBishopL) > 0 && e.position.PieceCount(BlackBishopD) > 0 {
			e.score.SubFrom(bishopPairBonus)
		}
	}

	// evaluate king
	if config.Settings.Eval.UseKingEval {
		e.score.AddTo(e.evalKing(White))
		e.score.SubFrom(e.evalKing(Black))
	}

	// value is always from the view of the next player
	valueFromScore := e.value()

	return e.finalEval(valueFromScore)
}

// materialAndPsq sums material and piece-square values for every piece on
// the board, grounded on eval.c's EvalInit/EvalMaterial/EvalPawnPST et al.
func (e *Evaluator) materialAndPsq() VPair {
	var score VPair
	// Pawn/Knight/Bishop PSTs already have the piece's material value baked
	// in by pst.go's init(); Rook and Queen have no PST and fall back to
	// plain material.
	for _, pt := range [6]PieceType{Pawn, Knight, BishopL, BishopD, Rook, Queen} {
		for _, c := range [2]Color{White, Black} {
			sign := 1
			if c == Black {
				sign = -1
			}
			for _, sq := range e.position.PieceList(MakePiece(c, pt)) {
				var v VPair
				switch pt {
				case Rook, Queen:
					v = material[pt]
				default:
					v = pstFor(pt, c, sq)
				}
				score.MG += sign * v.MG
				score.EG += sign * v.EG
			}
		}
	}
	wKing := pstFor(King, White, e.position.KingSquare(White))
	bKing := pstFor(King, Black, e.position.KingSquare(Black))
	score.MG += wKing.MG - bKing.MG
	score.EG += wKing.EG - bKing.EG
	return score
}

// finalEval returns the value which is calculated always from the view of
// white from the view of the next player of the position.
func (e *Evaluator) finalEval(value Value) Value {
	// we can use the Direction factor to avoid an if statement
	// Direction returns positive 1 for White and negative 1 (-1) for Black
	return value * Value(e.position.NextPlayer().Direction())
}

// evalPiece is the evaluation function for all pieces except pawns and kings.
func (e *Evaluator) evalPiece(c Color, pieceType PieceType) VPair {
	var score VPair

	pieceBb := e.position.PiecesBb(c, pieceType)
	if pieceBb == BbZero {
		return score
	}

	us := c
	them := us.Flip()

	switch pieceType {
	case Knight:
		for pieceBb != BbZero {
			e.knightEval(&score, us, them, pieceBb.PopLsb())
		}
	case BishopL, BishopD:
		for pieceBb != BbZero {
			e.bishopEval(&score, us, them, pieceBb.PopLsb())
		}
	case Rook:
		for pieceBb != BbZero {
			e.rookEval(&score, us, pieceBb.PopLsb())
		}
	case Queen:
		// none yet
	}

	return score
}

func (e *Evaluator) knightEval(score *VPair, us Color, them Color, sq Square) {
	// Knight behind pawn
	down := them.PawnPushDirection()
	if ShiftBitboard(e.position.PiecesBb(us, Pawn), down)&sq.Bb() > 0 {
		score.MG += int(config.Settings.Eval.MinorBehindPawnBonus)
	}
}

func (e *Evaluator) bishopEval(score *VPair, us Color, them Color, sq Square) {
	// behind a pawn
	down := them.PawnPushDirection()
	if ShiftBitboard(e.position.PiecesBb(us, Pawn), down)&sq.Bb() > 0 {
		score.MG += int(config.Settings.Eval.MinorBehindPawnBonus)
	}

	// malus for own pawns on the bishop's own square colour - worse in the
	// end game
	if sq.IsLight() {
		popCount := (e.position.PiecesBb(us, Pawn) & SquaresBb(White)).PopCount()
		score.EG -= int(config.Settings.Eval.BishopPawnMalus) * popCount
	} else {
		popCount := (e.position.PiecesBb(us, Pawn) & SquaresBb(Black)).PopCount()
		score.EG -= int(config.Settings.Eval.BishopPawnMalus) * popCount
	}

	// long diagonal / seeing center
	popCount := (GetAttacksBb(BishopL, sq, BbZero) & CenterSquares).PopCount()
	score.MG += int(config.Settings.Eval.BishopCenterAimBonus) * popCount

	// bishop blocked / mobility
	if (us == White && sq.RankOf() == Rank1) || (us == Black && sq.RankOf() == Rank8) {
		if GetAttacksBb(BishopL, sq, e.allPieces)&^e.position.OccupiedBb(us) == BbZero {
			score.MG -= int(config.Settings.Eval.BishopBlockedMalus)
			score.EG -= int(config.Settings.Eval.BishopBlockedMalus)
		}
	}
}

func (e *Evaluator) rookEval(score *VPair, us Color, sq Square) {
	// same file as queen
	if sq.FileOf().Bb()&e.position.PiecesBb(us, Queen) > 0 {
		score.MG += int(config.Settings.Eval.RookOnQueenFileBonus)
		score.EG += int(config.Settings.Eval.RookOnQueenFileBonus)
	}

	// open file / semi open file (no own pawns on the file)
	if sq.FileOf().Bb()&e.position.PiecesBb(us, Pawn) == 0 {
		score.MG += int(config.Settings.Eval.RookOnOpenFileBonus)
	}

	// trapped by king - on the same row as the king, on the outside
	kingSquare := e.position.KingSquare(us)
	if KingSideCastleMask(us).Has(kingSquare) {
		if sq.RankOf() == kingSquare.RankOf() && sq > kingSquare { // east of king
			score.MG -= int(config.Settings.Eval.RookTrappedMalus)
		}
	} else if QueenSideCastMask(us).Has(kingSquare) {
		if sq.RankOf() == kingSquare.RankOf() && sq < kingSquare { // west of king
			score.MG -= int(config.Settings.Eval.RookTrappedMalus)
		}
	}
}

func (e *Evaluator) evalKing(c Color) VPair {
	var score VPair
	us := c
	them := us.Flip()

	// pawn shield - pawns in front of a castled king get a bonus, higher in
	// the middle game, none in the end game
	if KingSideCastleMask(us).Has(e.position.KingSquare(us)) {
		count := (ShiftBitboard(KingSideCastleMask(us), us.PawnPushDirection()) & e.position.PiecesBb(us, Pawn)).PopCount()
		score.MG += count * int(config.Settings.Eval.KingCastlePawnShieldBonus)
	} else if QueenSideCastMask(us).Has(e.position.KingSquare(us)) {
		count := (ShiftBitboard(QueenSideCastMask(us), us.PawnPushDirection()) & e.position.PiecesBb(us, Pawn)).PopCount()
		score.MG += count * int(config.Settings.Eval.KingCastlePawnShieldBonus)
	}

	// king safety / attacks to the king and king ring
	if config.Settings.Eval.UseAttacksInEval {
		enemyAttacks := e.kingRing[us] & e.attack.All[them]
		ourDefence := e.kingRing[us] & e.attack.All[us]
		if enemyAttacks.PopCount() > ourDefence.PopCount() {
			malus := (enemyAttacks.PopCount() - ourDefence.PopCount()) * int(config.Settings.Eval.KingDangerMalus)
			score.MG -= malus
			score.EG -= malus
		} else {
			bonus := (ourDefence.PopCount() - enemyAttacks.PopCount()) * int(config.Settings.Eval.KingDefenderBonus)
			score.MG += bonus
			score.EG += bonus
		}

		// king ring attacks
		if a := e.attack.All[us] & e.kingRing[them]; a > 0 {
			score.MG += int(config.Settings.Eval.KingRingAttacksBonus)
			score.EG += int(config.Settings.Eval.KingRingAttacksBonus)
		}
	}
	return score
}

// Report prints a report about the evaluations done. Used in debugging.
func (e *Evaluator) Report() string {
	var report strings.Builder

	report.WriteString("Evaluation Report\n")
	report.WriteString("=============================================\n")
	report.WriteString(out.Sprintf("Position: %s\n", e.position.StringFen()))
	report.WriteString(out.Sprintf("%s\n", e.position.StringBoard()))
	report.WriteString(out.Sprintf("Endgame weight: %d/256\n", e.weightEG))
	report.WriteString(out.Sprintf("-------------------------\n"))
	report.WriteString(out.Sprintf("Eval value  : %d \n(from the view of next player = %s)\n", e.Evaluate(e.position), e.position.NextPlayer().String()))

	return report.String()
}
