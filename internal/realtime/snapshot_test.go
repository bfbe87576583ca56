package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotCachePutGet(t *testing.T) {
	c := NewSnapshotCache()
	_, _, ok := c.Get(1)
	require.False(t, ok)

	c.Put(1, 3, json.RawMessage(`{"phase":"bidding"}`))
	public, version, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, int32(3), version)
	require.JSONEq(t, `{"phase":"bidding"}`, string(public))
}

func TestSnapshotCacheIgnoresStaleVersion(t *testing.T) {
	c := NewSnapshotCache()
	c.Put(1, 5, json.RawMessage(`{"phase":"trick"}`))
	c.Put(1, 2, json.RawMessage(`{"phase":"bidding"}`))

	public, version, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, int32(5), version)
	require.JSONEq(t, `{"phase":"trick"}`, string(public))
}

func TestSnapshotCacheKeepsDistinctGames(t *testing.T) {
	c := NewSnapshotCache()
	c.Put(1, 1, json.RawMessage(`{"game":1}`))
	c.Put(2, 1, json.RawMessage(`{"game":2}`))

	p1, _, _ := c.Get(1)
	p2, _, _ := c.Get(2)
	require.JSONEq(t, `{"game":1}`, string(p1))
	require.JSONEq(t, `{"game":2}`, string(p2))
}
