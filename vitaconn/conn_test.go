package vitaconn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaoxipad/vitaoxipad-go/vitaconn"
	"github.com/vitaoxipad/vitaoxipad-go/vitareport"
	"github.com/vitaoxipad/vitaoxipad-go/vitawire"
)

func TestHandshakeLifecycle(t *testing.T) {
	c := vitaconn.New()
	assert.Equal(t, vitaconn.Init, c.State())

	require.NoError(t, c.SendHandshake(5001))
	assert.Equal(t, vitaconn.HandshakeSent, c.State())
	out := c.RetrieveOutData()
	assert.NotEmpty(t, out)

	frame := vitawire.EncodeHandshakeResponse(vitawire.HandshakeResponse{HeartbeatFreqSeconds: 30})
	events, err := c.Feed(frame)
	require.NoError(t, err)
	require.Len(t, events, 1)
	resp, ok := events[0].(vitaconn.HandshakeResponseReceived)
	require.True(t, ok)
	assert.Equal(t, uint32(30), resp.HeartbeatFreqSeconds)
	assert.Equal(t, vitaconn.Established, c.State())
}

func TestPadRejectedBeforeHandshake(t *testing.T) {
	c := vitaconn.New()
	padFrame := vitawire.EncodePad(vitareport.Pad{Timestamp: 1})
	_, err := c.Feed(padFrame)
	assert.Error(t, err)
	assert.Equal(t, vitaconn.Closed, c.State())
}

func TestPadAcceptedAfterHandshake(t *testing.T) {
	c := vitaconn.New()
	require.NoError(t, c.SendHandshake(5001))
	_, err := c.Feed(vitawire.EncodeHandshakeResponse(vitawire.HandshakeResponse{HeartbeatFreqSeconds: 30}))
	require.NoError(t, err)

	pad := vitareport.Pad{Timestamp: 42}
	events, err := c.Feed(vitawire.EncodePad(pad))
	require.NoError(t, err)
	require.Len(t, events, 1)
	pdr, ok := events[0].(vitaconn.PadDataReceived)
	require.True(t, ok)
	assert.Equal(t, pad, pdr.Pad)
}

func TestDecodeErrorClosesConnection(t *testing.T) {
	c := vitaconn.New()
	require.NoError(t, c.SendHandshake(5001))
	_, err := c.Feed([]byte{1, 0, 0, 0, 0xFF})
	assert.Error(t, err)
	assert.Equal(t, vitaconn.Closed, c.State())

	_, err = c.Feed(nil)
	assert.Error(t, err)
}

func TestUnexpectedFirstFrameCloses(t *testing.T) {
	c := vitaconn.New()
	require.NoError(t, c.SendHandshake(5001))
	_, err := c.Feed(vitawire.EncodeHeartbeat())
	assert.Error(t, err)
	assert.Equal(t, vitaconn.Closed, c.State())
}
