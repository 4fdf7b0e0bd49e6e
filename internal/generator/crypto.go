package generator

import (
	"crypto/rand"
	"encoding/binary"
	"io"
)

// NameCrypto identifies the hardware-entropy source.
const NameCrypto = "crypto"

// CryptoSource draws 32-bit values from a cryptographically strong entropy
// reader. It is the reference point the deterministic generators are judged
// against and backs the service health check.
// GLI-19 §3.3.3: Dynamic Output Monitoring
//
// Unlike the deterministic sources it cannot be seeded, so it is excluded
// from the evaluation registry.
type CryptoSource struct {
	entropy io.Reader
}

// NewCryptoSource returns a source backed by crypto/rand.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{entropy: rand.Reader}
}

// Next returns the next value from the entropy reader.
// An entropy read failure means the platform RNG is broken; there is no
// meaningful recovery, so Next panics like the runtime does in that case.
func (g *CryptoSource) Next() uint32 {
	var buf [4]byte
	if _, err := io.ReadFull(g.entropy, buf[:]); err != nil {
		panic("generator: entropy source failed: " + err.Error())
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// Name identifies the source.
func (g *CryptoSource) Name() string { return NameCrypto }
