//
// robocide-go - UCI chess engine in Go
//
// MIT License
//

package types

import "fmt"

// VPair carries a middlegame and an endgame value together, the way the
// evaluator accumulates tapered scores: every positional term contributes
// to both halves at once and the search only cares about the final
// interpolated Value.
type VPair struct {
	MG int
	EG int
}

// AddTo adds a to p in place, mirroring EvalSPairAdd.
func (p *VPair) AddTo(a VPair) {
	p.MG += a.MG
	p.EG += a.EG
}

// SubFrom subtracts a from p in place, mirroring EvalSPairSub.
func (p *VPair) SubFrom(a VPair) {
	p.MG -= a.MG
	p.EG -= a.EG
}

// AddMulTo adds a scaled by n to p in place, mirroring EvalSPairAddMul.
func (p *VPair) AddMulTo(a VPair, n int) {
	p.MG += a.MG * n
	p.EG += a.EG * n
}

// SubMulFrom subtracts a scaled by n from p in place, mirroring EvalSPairSubMul.
func (p *VPair) SubMulFrom(a VPair, n int) {
	p.MG -= a.MG * n
	p.EG -= a.EG * n
}

// Interpolate blends MG and EG using weightEG out of 256 (the tapered-eval
// endgame weight computed from remaining material), mirroring EvalInterpolate's
// (WeightMG*mg + WeightEG*eg) contribution before final scaling.
func (p VPair) Interpolate(weightEG int) Value {
	weightMG := 256 - weightEG
	return Value((p.MG*weightMG + p.EG*weightEG) / 256)
}

func (p VPair) String() string {
	return fmt.Sprintf("{mg:%d eg:%d}", p.MG, p.EG)
}
