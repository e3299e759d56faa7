package psk_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaoxipad/vitaoxipad-go/psk"
)

func TestHandshakeRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	key := []byte("shared-secret")

	serverKeyCh := make(chan []byte, 1)
	serverErr := make(chan error, 1)
	go func() {
		sessionKey, err := psk.ServerHandshake(server, key)
		serverKeyCh <- sessionKey
		serverErr <- err
	}()

	clientSessionKey, err := psk.ClientHandshake(client, key)
	require.NoError(t, err)
	require.NoError(t, <-serverErr)
	serverSessionKey := <-serverKeyCh

	assert.Len(t, clientSessionKey, 32)
	assert.Equal(t, serverSessionKey, clientSessionKey)
}

func TestWrapConnRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	sessionKey := psk.DeriveSessionKey([]byte("key"), []byte("client-nonce-000000000000000000"), []byte("server-nonce-000000000000000000"))

	wrappedClient, err := psk.WrapConn(client, sessionKey)
	require.NoError(t, err)
	wrappedServer, err := psk.WrapConn(server, sessionKey)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 64)
		n, err := wrappedServer.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "hello over chacha20poly1305", string(buf[:n]))
	}()

	_, err = wrappedClient.Write([]byte("hello over chacha20poly1305"))
	require.NoError(t, err)
	<-done
}

func TestHandshakeRejectsWrongKey(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverErr := make(chan error, 1)
	go func() {
		_, err := psk.ServerHandshake(server, []byte("server-key"))
		serverErr <- err
	}()

	_, clientErr := psk.ClientHandshake(client, []byte("wrong-key"))
	assert.Error(t, clientErr)
	assert.Error(t, <-serverErr)
}

func TestClientHandshakeRequiresKey(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	_, err := psk.ClientHandshake(client, nil)
	assert.Error(t, err)
}
