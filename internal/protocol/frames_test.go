package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeClientFrameHello(t *testing.T) {
	typ, frame, err := DecodeClientFrame([]byte(`{"type":"hello","protocol":1}`))
	require.NoError(t, err)
	require.Equal(t, FrameHello, typ)
	require.Equal(t, Hello{Protocol: 1}, frame)
}

func TestDecodeClientFrameSubscribe(t *testing.T) {
	typ, frame, err := DecodeClientFrame([]byte(`{"type":"subscribe","topic":{"kind":"game","id":42}}`))
	require.NoError(t, err)
	require.Equal(t, FrameSubscribe, typ)
	require.Equal(t, Subscribe{Topic: Topic{Kind: TopicGame, ID: 42}}, frame)
}

func TestDecodeClientFrameUnknownType(t *testing.T) {
	_, _, err := DecodeClientFrame([]byte(`{"type":"bogus"}`))
	require.Error(t, err)
}

func TestEncodeHelloAckStampsType(t *testing.T) {
	raw, err := EncodeHelloAck(HelloAck{Protocol: 1, UserID: 7})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "hello_ack", decoded["type"])
	require.Equal(t, float64(7), decoded["user_id"])
}

func TestEncodeAckRoundTrip(t *testing.T) {
	raw, err := EncodeAck(Ack{Command: AckSubscribe, Topic: Topic{Kind: TopicGame, ID: 5}})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "ack", decoded["type"])
	require.Equal(t, "subscribe", decoded["command"])
}

func TestEncodeGameStatePreservesRawPayloads(t *testing.T) {
	raw, err := EncodeGameState(GameState{
		Topic:   Topic{Kind: TopicGame, ID: 1},
		Version: 3,
		Game:    json.RawMessage(`{"phase":"Bidding"}`),
		Viewer:  json.RawMessage(`{"seat":0}`),
	})
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.JSONEq(t, `{"phase":"Bidding"}`, string(decoded["game"]))
	require.JSONEq(t, `{"seat":0}`, string(decoded["viewer"]))
}
