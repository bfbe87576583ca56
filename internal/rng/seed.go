// Package rng implements the deterministic randomness pipeline: per-round
// and per-(round,seat) seed derivation from a single game seed, a seeded
// shuffle, and hand partitioning.
package rng

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

const (
	dealTag   = "nommie/deal/v1"
	memoryTag = "nommie/memory/v1"
)

// GameSeed is the 32-byte seed fixed at game creation.
type GameSeed [32]byte

// DealingSeed derives the per-round dealing seed:
// H("nommie/deal/v1" || seed || round_no).
func DealingSeed(seed GameSeed, roundNo uint8) [32]byte {
	h := blake3.New(32, nil)
	h.Write([]byte(dealTag))
	h.Write(seed[:])
	h.Write([]byte{roundNo})
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// MemorySeed derives the per-(round,seat) AI-memory seed: the first 8 bytes
// of H("nommie/memory/v1" || seed || round_no || seat), interpreted as a
// little-endian u64.
func MemorySeed(seed GameSeed, roundNo uint8, seat uint8) uint64 {
	h := blake3.New(32, nil)
	h.Write([]byte(memoryTag))
	h.Write(seed[:])
	h.Write([]byte{roundNo, seat})
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// dealingSeedToStreamSeed derives the u64 seed fed to the stream generator
// from the 32-byte dealing seed, by the same first-8-bytes-little-endian
// convention used for the memory seed.
func dealingSeedToStreamSeed(seed [32]byte) uint64 {
	return binary.LittleEndian.Uint64(seed[:8])
}
