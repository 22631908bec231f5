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

// Package history provides data structures and functionality to manage
// history driven move tables (history counter, counter moves, etc.), used
// by the move generator to order quiet moves during search.
package history

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	. "robocide-go/internal/types"
)

var out = message.NewPrinter(language.German)

// counterBit is the highest bit a single historyInc call may set, grounded
// on history.c's HistoryCounterBit=41: depth is clamped to this many bits of
// headroom before the counter is considered full and aged down.
const counterBit = 41

// counterMax is the value a counter must stay below, mirroring
// HistoryCounterMax=1<<HistoryCounterBit.
const counterMax uint64 = 1 << counterBit

// History is a data structure updated during search to provide the move
// generator with valuable information for move sorting: a per (piece, to
// square) counter incremented on every beta cutoff by a quiet move, plus a
// counter-move table recording the move that refuted the opponent's last
// move (maintained but, per robocide's own move ordering, not consulted by
// the scoring function - see Inc/Get vs. counterMoves.Set/Get callers).
type History struct {
	counters     [PieceLength][SqLength]uint64
	CounterMoves [SqLength][SqLength]Move
}

// NewHistory creates a new History instance.
func NewHistory() *History {
	return &History{}
}

// Inc increments the history counter for a quiet move (fromPiece moving to
// toSq) by 1<<min(depth, counterBit-1), halving the whole table if that
// pushes the counter past counterMax, grounded on history.c's historyInc.
func (h *History) Inc(fromPiece Piece, toSq Square, depth int) {
	shift := depth
	if shift > counterBit-1 {
		shift = counterBit - 1
	}
	h.counters[fromPiece][toSq] += uint64(1) << uint(shift)
	if h.counters[fromPiece][toSq] >= counterMax {
		h.Age()
	}
}

// Get returns the current history counter for (fromPiece, toSq).
func (h *History) Get(fromPiece Piece, toSq Square) uint64 {
	return h.counters[fromPiece][toSq]
}

// Age halves every counter in the table, grounded on history.c's
// historyAge. Called once per root search so that recent iterations always
// outweigh stale ones.
func (h *History) Age() {
	for p := Piece(0); p < PieceLength; p++ {
		for sq := Square(0); sq < SqLength; sq++ {
			h.counters[p][sq] /= 2
		}
	}
}

// Clear resets the counters and counter-move table to zero.
func (h *History) Clear() {
	h.counters = [PieceLength][SqLength]uint64{}
	h.CounterMoves = [SqLength][SqLength]Move{}
}

func (h *History) String() string {
	sb := strings.Builder{}
	for fromSq := SqA1; fromSq < SqNone; fromSq++ {
		for toSq := SqA1; toSq < SqNone; toSq++ {
			cm := h.CounterMoves[fromSq][toSq]
			if cm == MoveNone {
				continue
			}
			sb.WriteString(out.Sprintf("%s%s: cm=%s\n", fromSq.String(), toSq.String(), cm.String()))
		}
	}
	return sb.String()
}
