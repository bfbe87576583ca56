package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandSizeScheduleAllRounds(t *testing.T) {
	for n := 1; n <= TotalRounds; n++ {
		size, ok := HandSizeForRound(n)
		require.True(t, ok, "round %d", n)
		require.GreaterOrEqual(t, size, 2)
		require.LessOrEqual(t, size, 13)
	}
	sizeAt := func(n int) int {
		s, _ := HandSizeForRound(n)
		return s
	}
	require.Equal(t, 13, sizeAt(1))
	require.Equal(t, 2, sizeAt(12))
	require.Equal(t, 2, sizeAt(13))
	require.Equal(t, 2, sizeAt(14))
	require.Equal(t, 3, sizeAt(15))
	require.Equal(t, 13, sizeAt(25))
	require.Equal(t, 13, sizeAt(26))
}

func TestHandSizeScheduleOutOfRange(t *testing.T) {
	_, ok := HandSizeForRound(0)
	require.False(t, ok)
	_, ok = HandSizeForRound(27)
	require.False(t, ok)
}

func TestDealerSeatRotates(t *testing.T) {
	require.Equal(t, 0, DealerSeatForRound(0, 1))
	require.Equal(t, 1, DealerSeatForRound(0, 2))
	require.Equal(t, 3, DealerSeatForRound(1, 3))
	require.Equal(t, 2, DealerSeatForRound(2, 1))
}
