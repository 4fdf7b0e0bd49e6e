package generator

// NameXORShift32 is the registry name of the 32-bit xorshift generator.
const NameXORShift32 = "xorshift32"

// XORShift32 is Marsaglia's 32-bit xorshift generator with the 13/17/5
// shift triple. A zero state is absorbing, so seeding with zero selects the
// conventional starting state instead.
type XORShift32 struct {
	state uint32
}

// xorshift32DefaultSeed is Marsaglia's published starting state.
const xorshift32DefaultSeed uint32 = 2463534242

// NewXORShift32 creates a generator from the given seed.
func NewXORShift32(seed uint32) *XORShift32 {
	if seed == 0 {
		seed = xorshift32DefaultSeed
	}
	return &XORShift32{state: seed}
}

// Next advances the state and returns the next value.
func (g *XORShift32) Next() uint32 {
	x := g.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	g.state = x
	return x
}

// Name identifies the algorithm.
func (g *XORShift32) Name() string { return NameXORShift32 }
