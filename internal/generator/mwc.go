package generator

// NameMWC is the registry name of the multiply-with-carry generator.
const NameMWC = "mwc"

// MWC is a multiply-with-carry generator with multiplier 4294957665.
// The 64-bit seed packs the carry in the high 32 bits and the state in the
// low 32 bits.
type MWC struct {
	state uint32
	carry uint32
}

const (
	mwcMultiplier          = 4294957665
	mwcDefaultSeed  uint64 = 88172645463325252
)

// NewMWC creates a generator from the given packed seed. A zero seed selects
// the conventional starting state.
func NewMWC(seed uint64) *MWC {
	if seed == 0 {
		seed = mwcDefaultSeed
	}
	return &MWC{
		state: uint32(seed),
		carry: uint32(seed >> 32),
	}
}

// Next advances the state and returns the next value.
func (g *MWC) Next() uint32 {
	p := uint64(mwcMultiplier)*uint64(g.state) + uint64(g.carry)
	g.state = uint32(p)
	g.carry = uint32(p >> 32)
	return g.state
}

// Name identifies the algorithm.
func (g *MWC) Name() string { return NameMWC }
