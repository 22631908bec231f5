//
// robocide-go - UCI chess engine in Go
//
// MIT License
//

// Package bitbase implements the King+Pawn-vs-King endgame bitbase: an
// offline retrograde solve over every (pawn file/rank, white king square,
// side to move, black king square) tuple, packed one bit per
// defending-king square. Grounded on original_source/src/bitbase.c.
package bitbase

import (
	. "robocide-go/internal/types"
)

// Result is the probe outcome, always from the attacker's (pawn side's)
// point of view.
type Result uint8

const (
	ResultDraw Result = 0
	ResultWin  Result = 1
)

// resultFull is the richer per-position state used only while generating
// the table; bitbase itself packs only Draw/Win (everything that never
// resolves to Win is treated as a draw, per bitbaseGen's final pass).
type resultFull uint8

const (
	resultFullInvalid resultFull = iota
	resultFullUnknown
	resultFullDraw
	resultFullWin
)

// table holds one packed bit per defending-king square: bit set means the
// position is a win for the attacker. Indexed by bitbaseIndex.
var table []uint64

const (
	pawnFileCount = 4 // pawn is always normalised onto files a-d
	rankCount     = int(RankLength)
	sqCount       = int(SqLength)
	colorCount    = ColorLength
)

func init() {
	table = make([]uint64, pawnFileCount*rankCount*sqCount*colorCount)
	generate()
}

// Probe reports whether the given KPvK position (exactly three pieces: the
// two kings and one pawn) is a win for the side with the pawn. The caller
// must already have confirmed the position is KPvK (see
// evaluator.ClassifyMaterial).
func Probe(pawnSq, attackerKingSq, defenderKingSq Square, stm Color, attackerIsWhite bool) Result {
	// Adjust so as if white has the pawn: flip vertically, swap king labels
	// and swap side to move, mirroring bitbaseProbe's raw-pawn-colour fixup.
	var wKingSq, bKingSq Square
	if attackerIsWhite {
		wKingSq, bKingSq = attackerKingSq, defenderKingSq
	} else {
		pawnSq = pawnSq.Flip()
		wKingSq = defenderKingSq.Flip()
		bKingSq = attackerKingSq.Flip()
		stm = stm.Flip()
	}
	return probeRaw(pawnSq, wKingSq, bKingSq, stm)
}

func probeRaw(pawnSq, wKingSq, bKingSq Square, stm Color) Result {
	pawnFile := pawnSq.FileOf()
	pawnRank := pawnSq.RankOf()
	if pawnFile > FileD {
		pawnFile = mirrorFile(pawnFile)
		wKingSq = wKingSq.Mirror()
		bKingSq = bKingSq.Mirror()
	}
	idx := index(pawnFile, pawnRank, wKingSq, stm)
	return Result((table[idx] >> uint(bKingSq)) & 1)
}

func mirrorFile(f File) File {
	return FileH - f
}

func index(pawnFile File, pawnRank Rank, wKingSq Square, stm Color) int {
	return ((int(pawnFile)*rankCount+int(pawnRank))*sqCount+int(wKingSq))*colorCount + int(stm)
}

func indexFull(pawnFile File, pawnRank Rank, wKingSq Square, stm Color, bKingSq Square) int {
	return index(pawnFile, pawnRank, wKingSq, stm)*sqCount + int(bKingSq)
}

// generate runs the full retrograde solve, mirroring bitbaseGen. Pawn files
// a-d are independent of each other and each file is solved rank-by-rank
// starting from rank 7 down to rank 2, since a rank-N position's children
// only ever live on rank N or rank N+1 (or rank 4 for a double push from
// rank 2).
func generate() {
	full := make([]resultFull, pawnFileCount*rankCount*sqCount*colorCount*sqCount)

	// Mark every statically-resolvable position (won/drawn/invalid); the
	// rest start life as unknown.
	for pawnFile := FileA; pawnFile <= FileD; pawnFile++ {
		for pawnRank := Rank8; ; pawnRank-- {
			pawnSq := makeSquare(pawnFile, pawnRank)
			for wKingSq := Square(0); wKingSq < SqNone; wKingSq++ {
				for stm := Color(0); stm < Color(colorCount); stm++ {
					for bKingSq := Square(0); bKingSq < SqNone; bKingSq++ {
						full[indexFull(pawnFile, pawnRank, wKingSq, stm, bKingSq)] =
							computeStaticResult(pawnSq, wKingSq, stm, bKingSq)
					}
				}
			}
			if pawnRank == Rank2 {
				break
			}
		}
	}

	// Solve each file from rank 7 down to rank 2, iterating to a fixed
	// point since several king moves within the same rank can depend on
	// each other.
	for pawnFile := FileA; pawnFile <= FileD; pawnFile++ {
		for pawnRank := Rank7; ; pawnRank-- {
			pawnSq := makeSquare(pawnFile, pawnRank)

			for {
				changed := false
				for wKingSq := Square(0); wKingSq < SqNone; wKingSq++ {
					for stm := Color(0); stm < Color(colorCount); stm++ {
						for bKingSq := Square(0); bKingSq < SqNone; bKingSq++ {
							idx := indexFull(pawnFile, pawnRank, wKingSq, stm, bKingSq)
							if full[idx] != resultFullUnknown {
								continue
							}
							result := computeDynamicResult(full, pawnSq, wKingSq, stm, bKingSq)
							if result != resultFullUnknown {
								full[idx] = result
								changed = true
							}
						}
					}
				}
				if !changed {
					break
				}
			}

			// Pack into the public table: anything left unknown is a draw
			// (neither side can force a result, so it is scored as one).
			for wKingSq := Square(0); wKingSq < SqNone; wKingSq++ {
				for stm := Color(0); stm < Color(colorCount); stm++ {
					var mask uint64
					for bKingSq := Square(0); bKingSq < SqNone; bKingSq++ {
						if full[indexFull(pawnFile, pawnRank, wKingSq, stm, bKingSq)] == resultFullWin {
							mask |= 1 << uint(bKingSq)
						}
					}
					table[index(pawnFile, pawnRank, wKingSq, stm)] = mask
				}
			}

			if pawnRank == Rank2 {
				break
			}
		}
	}
}

func makeSquare(f File, r Rank) Square {
	return Square(int(r)<<3 | int(f))
}

func computeStaticResult(pawnSq, wKingSq Square, stm Color, bKingSq Square) resultFull {
	wKingAtks := GetAttacksBb(King, wKingSq, BbZero)
	bKingAtks := GetAttacksBb(King, bKingSq, BbZero)
	pawnAtks := GetPawnAttacks(White, pawnSq)
	wKingBB := wKingSq.Bb()
	bKingBB := bKingSq.Bb()
	pawnBB := pawnSq.Bb()
	occ := pawnBB | wKingBB | bKingBB

	if pawnSq == wKingSq || pawnSq == bKingSq || wKingSq == bKingSq ||
		pawnSq.RankOf() == Rank1 ||
		wKingAtks&bKingBB != BbZero ||
		(stm == White && pawnAtks&bKingBB != BbZero) {
		return resultFullInvalid
	}

	// Pawn can promote without being captured: win.
	if pawnSq.RankOf() == Rank7 && stm == White {
		promoSq := pawnSq + 8
		if promoSq != wKingSq && promoSq != bKingSq &&
			(GetAttacksBb(King, bKingSq, BbZero)&promoSq.Bb() == BbZero ||
				GetAttacksBb(King, wKingSq, BbZero)&promoSq.Bb() != BbZero) {
			return resultFullWin
		}
	}

	// Black can capture the undefended pawn: draw.
	pawnAttacked := bKingAtks&pawnBB != BbZero
	pawnDefended := wKingAtks&pawnBB != BbZero
	if stm == Black && pawnAttacked && !pawnDefended {
		return resultFullDraw
	}

	// Pawn already queened (reachable only via a child lookup): win.
	if pawnSq.RankOf() == Rank8 {
		return resultFullWin
	}

	// Side to move has no legal move: stalemate draw.
	if stm == White {
		safe := ^(bKingAtks | occ)
		if wKingAtks&safe == BbZero && (pawnSq+8 == wKingSq || pawnSq+8 == bKingSq) {
			return resultFullDraw
		}
	} else {
		safe := ^(wKingAtks | pawnAtks | occ)
		if bKingAtks&safe == BbZero {
			return resultFullDraw
		}
	}

	return resultFullUnknown
}

func computeDynamicResult(full []resultFull, pawnSq, wKingSq Square, stm Color, bKingSq Square) resultFull {
	pawnFile := pawnSq.FileOf()
	pawnRank := pawnSq.RankOf()
	xstm := stm.Flip()

	if stm == White {
		allDraws := true

		set := GetAttacksBb(King, wKingSq, BbZero)
		for set != BbZero {
			to := set.PopLsb()
			switch full[indexFull(pawnFile, pawnRank, to, xstm, bKingSq)] {
			case resultFullInvalid:
			case resultFullUnknown:
				allDraws = false
			case resultFullDraw:
			case resultFullWin:
				return resultFullWin
			}
		}

		singlePushOk := true
		switch full[indexFull(pawnFile, pawnRank+1, wKingSq, xstm, bKingSq)] {
		case resultFullInvalid:
			singlePushOk = false
		case resultFullUnknown:
			allDraws = false
		case resultFullDraw:
		case resultFullWin:
			return resultFullWin
		}

		if pawnRank == Rank2 && singlePushOk {
			switch full[indexFull(pawnFile, pawnRank+2, wKingSq, xstm, bKingSq)] {
			case resultFullInvalid:
			case resultFullUnknown:
				allDraws = false
			case resultFullDraw:
			case resultFullWin:
				return resultFullWin
			}
		}

		if allDraws {
			return resultFullDraw
		}
		return resultFullUnknown
	}

	allWins := true
	set := GetAttacksBb(King, bKingSq, BbZero)
	for set != BbZero {
		to := set.PopLsb()
		switch full[indexFull(pawnFile, pawnRank, wKingSq, xstm, to)] {
		case resultFullInvalid:
		case resultFullUnknown:
			allWins = false
		case resultFullDraw:
			return resultFullDraw
		case resultFullWin:
		}
	}
	if allWins {
		return resultFullWin
	}
	return resultFullUnknown
}
