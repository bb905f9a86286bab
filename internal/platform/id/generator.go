package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// rawLen is the entropy per identifier; hex encoding doubles it on the wire.
const rawLen = 16

// Generator mints opaque identifiers. Team IDs come from here so the registry
// never derives identity from anything player-supplied.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator backs IDs with crypto/rand. 128 bits keeps collisions out
// of consideration without coordinating state across restarts.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	raw := make([]byte, rawLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate id entropy: %w", err)
	}

	return hex.EncodeToString(raw), nil
}
