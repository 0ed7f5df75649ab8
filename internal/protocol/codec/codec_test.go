package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/math-battle/internal/protocol"
)

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgFlipCard, protocol.FlipCardPayload{Index: 7})
	data, err := Encode(msg)
	require.NoError(t, err)
	PutMessage(msg)
	assert.JSONEq(t, `{"type":"flip_card","payload":{"index":7}}`, string(data))

	decoded, err := Decode(data)
	require.NoError(t, err)
	defer PutMessage(decoded)

	assert.Equal(t, protocol.MsgFlipCard, decoded.Type)
	payload, err := ParsePayload[protocol.FlipCardPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, 7, payload.Index)
}

func TestNewMessage_WithoutPayload(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(protocol.MsgSkipTimer, nil)
	require.NoError(t, err)
	data, err := Encode(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"skip_timer"}`, string(data))
}

func TestNewMessage_UnencodablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewMessage(protocol.MsgEvent, make(chan int))
	assert.Error(t, err)
	assert.Panics(t, func() {
		MustNewMessage(protocol.MsgEvent, func() {})
	})
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestParsePayload_Invalid(t *testing.T) {
	t.Parallel()

	msg := &protocol.Message{Type: protocol.MsgFlipCard, Payload: []byte(`{"index":"seven"}`)}
	_, err := ParsePayload[protocol.FlipCardPayload](msg)
	assert.Error(t, err)

	_, err = ParsePayload[protocol.FlipCardPayload](&protocol.Message{Type: protocol.MsgFlipCard})
	assert.Error(t, err)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(protocol.ErrCodeRoomNotFound)
	assert.Equal(t, protocol.MsgError, msg.Type)

	payload, err := ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeRoomNotFound, payload.Code)
	assert.Equal(t, "Room not found", payload.Message)

	custom := NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "bad index")
	payload, err = ParsePayload[protocol.ErrorPayload](custom)
	require.NoError(t, err)
	assert.Equal(t, "bad index", payload.Message)
}
