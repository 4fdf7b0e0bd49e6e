package generator

// NameLCG is the registry name of the linear congruential generator.
const NameLCG = "lcg"

// LCG is a linear congruential generator over the full 32-bit ring:
//
//	X_{n+1} = a*X_n + c (mod 2^32)
//
// with a = 1664525 and c = 1013904223 (Numerical Recipes parameters).
type LCG struct {
	state uint32
}

const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// NewLCG creates an LCG from the given seed. A zero seed selects the
// conventional starting state 1.
func NewLCG(seed uint32) *LCG {
	if seed == 0 {
		seed = 1
	}
	return &LCG{state: seed}
}

// Next advances the state and returns the next value.
func (g *LCG) Next() uint32 {
	g.state = lcgMultiplier*g.state + lcgIncrement
	return g.state
}

// Name identifies the algorithm.
func (g *LCG) Name() string { return NameLCG }
