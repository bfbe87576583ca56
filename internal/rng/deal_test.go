package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDealDeterministicRegression(t *testing.T) {
	var seed GameSeed // all-zero, round_no = 1, hand_size = 13
	h1, err := Deal(seed, 1, 13)
	require.NoError(t, err)
	h2, err := Deal(seed, 1, 13)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestDealDisjointAndExactSize(t *testing.T) {
	var seed GameSeed
	for i := range seed {
		seed[i] = byte(i)
	}
	hands, err := Deal(seed, 7, 9)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, hand := range hands {
		require.Len(t, hand, 9)
		for _, c := range hand {
			key := c.String()
			require.False(t, seen[key], "card %s dealt twice", key)
			seen[key] = true
		}
	}
	require.Len(t, seen, 36)
}

func TestDealDiffersAcrossRounds(t *testing.T) {
	var seed GameSeed
	h1, err := Deal(seed, 1, 13)
	require.NoError(t, err)
	h2, err := Deal(seed, 2, 13)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestDealRejectsOversizedHand(t *testing.T) {
	var seed GameSeed
	_, err := Deal(seed, 1, 14)
	require.Error(t, err)
}

func TestMemorySeedVariesBySeatAndRound(t *testing.T) {
	var seed GameSeed
	m1 := MemorySeed(seed, 1, 0)
	m2 := MemorySeed(seed, 1, 1)
	m3 := MemorySeed(seed, 2, 0)
	require.NotEqual(t, m1, m2)
	require.NotEqual(t, m1, m3)
}

func TestSourceUint64nWithinBounds(t *testing.T) {
	src := NewSource(42)
	for i := 0; i < 1000; i++ {
		v := src.Uint64n(7)
		require.Less(t, v, uint64(7))
	}
}
