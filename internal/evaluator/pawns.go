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

package evaluator

import (
	"robocide-go/internal/config"
	. "robocide-go/internal/types"
)

// passedFactor scales PawnPassedMidBonus/EndBonus by rank, matching the
// shape of eval.c's EvalPawnPassed[8] table ({0,5,30,65,110,175,250,0})
// normalised to its own maximum.
var passedFactor = [8]float64{0, 5.0 / 250, 30.0 / 250, 65.0 / 250, 110.0 / 250, 175.0 / 250, 1, 0}

// evaluatePawns scores the pawn structure of both colours together (the
// pawn hash key covers both sides' pawns at once), grounded on eval.c's
// EvalComputePawns: each pawn is tested for being doubled, isolated,
// blocked or passed.
func (e *Evaluator) evaluatePawns() VPair {
	if config.Settings.Eval.UsePawnCache {
		if entry := e.pawnCache.getEntry(e.position.PawnKey()); entry != nil {
			return entry.score
		}
	}

	score := e.computePawns()

	if config.Settings.Eval.UsePawnCache {
		e.pawnCache.put(e.position.PawnKey(), score)
	}

	return score
}

func (e *Evaluator) computePawns() VPair {
	var score VPair
	occ := e.position.OccupiedAll()

	for _, c := range [2]Color{White, Black} {
		sign := 1
		if c == Black {
			sign = -1
		}
		us := c
		them := us.Flip()
		ownPawns := e.position.PiecesBb(us, Pawn)
		enemyPawns := e.position.PiecesBb(them, Pawn)
		forward := us.PawnPushDirection()
		behind := them.PawnPushDirection() // == forward.Opposite(), i.e. "south" for White

		for _, sq := range e.position.PieceList(MakePiece(us, Pawn)) {
			bb := sq.Bb()

			doubled := (ownPawns&^bb)&sq.FileOf().Bb() != BbZero
			blocked := ShiftBitboard(occ, behind)&bb != BbZero
			isolated := (sq.FileWestMask()|sq.FileEastMask())&ownPawns == BbZero

			// A pawn is passed if no enemy pawn can ever stop or capture it:
			// none on its file or an adjacent file, ahead of it.
			var aheadMask Bitboard
			if us == White {
				aheadMask = sq.RanksNorthMask()
			} else {
				aheadMask = sq.RanksSouthMask()
			}
			passed := enemyPawns&aheadMask&(sq.FileOf().Bb()|sq.FileWestMask()|sq.FileEastMask()) == BbZero

			rankIdx := int(sq.RankOf())
			if c == Black {
				rankIdx = int(sq.Flip().RankOf())
			}

			var mg, eg int
			if doubled {
				mg += int(config.Settings.Eval.PawnDoubledMidMalus)
				eg += int(config.Settings.Eval.PawnDoubledEndMalus)
			} else if passed {
				mg += int(float64(config.Settings.Eval.PawnPassedMidBonus) * passedFactor[rankIdx])
				eg += int(float64(config.Settings.Eval.PawnPassedEndBonus) * passedFactor[rankIdx])
			}
			if isolated {
				mg += int(config.Settings.Eval.PawnIsolatedMidMalus)
				eg += int(config.Settings.Eval.PawnIsolatedEndMalus)
			}
			if blocked {
				mg += int(config.Settings.Eval.PawnBlockedMidMalus)
				eg += int(config.Settings.Eval.PawnBlockedEndMalus)
			}

			// Phalanx: an own pawn on the adjacent file, same rank.
			if (ShiftBitboard(bb, East)|ShiftBitboard(bb, West))&ownPawns != BbZero {
				mg += int(config.Settings.Eval.PawnPhalanxMidBonus)
				eg += int(config.Settings.Eval.PawnPhalanxEndBonus)
			}
			// Supported: attacked (defended) by an own pawn one rank behind,
			// diagonally.
			supportBb := ShiftBitboard(ownPawns, forward+East) | ShiftBitboard(ownPawns, forward+West)
			if supportBb&bb != BbZero {
				mg += int(config.Settings.Eval.PawnSupportedMidBonus)
				eg += int(config.Settings.Eval.PawnSupportedEndBonus)
			}

			score.MG += sign * mg
			score.EG += sign * eg
		}
	}

	return score
}
