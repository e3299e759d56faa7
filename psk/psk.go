// Package psk implements the optional pre-shared-key extension from
// spec.md §6/SPEC_FULL.md §7: an HMAC-SHA256 challenge exchanged before the
// plaintext wire handshake, in the same shape as
// internal/server/api/auth/handshake.go's HandleAuthHandshake — magic
// prefix, client nonce + HMAC, "OK\0" + server nonce reply. The two nonces
// then derive a session key (DeriveSessionKey) for WrapConn, which
// encrypts the control channel with ChaCha20-Poly1305 the way
// internal/server/api/auth/conn.go wraps its API connections.
package psk

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

const (
	// Magic prefixes the handshake so a server without --psk configured can
	// still be told apart from one expecting it.
	Magic       = "VOP1\x00"
	NonceSize   = 32
	authContext = "VitaOxiPad-PSK-v1"
)

func macOf(key, context, nonce []byte) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write(context)
	_, _ = mac.Write(nonce)
	return mac.Sum(nil)
}

// ClientHandshake performs the client side of the PSK exchange: send magic
// + client nonce + HMAC(key, nonce), then read the server's "OK\0" + server
// nonce reply. Returns a session key derived from both nonces (via
// DeriveSessionKey) for use with WrapConn, or an error if the server
// rejects the HMAC.
func ClientHandshake(rw io.ReadWriter, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("psk: missing key")
	}

	clientNonce := make([]byte, NonceSize)
	if _, err := rand.Read(clientNonce); err != nil {
		return nil, fmt.Errorf("psk: generate client nonce: %w", err)
	}
	clientAuth := macOf(key, []byte(authContext), clientNonce)

	msg := append([]byte(Magic), clientNonce...)
	msg = append(msg, clientAuth...)
	if _, err := rw.Write(msg); err != nil {
		return nil, fmt.Errorf("psk: write handshake: %w", err)
	}

	respPrefix := make([]byte, 3)
	if _, err := io.ReadFull(rw, respPrefix); err != nil {
		return nil, fmt.Errorf("psk: read handshake response: %w", err)
	}
	if string(respPrefix) != "OK\x00" {
		return nil, fmt.Errorf("psk: server rejected handshake")
	}

	serverNonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rw, serverNonce); err != nil {
		return nil, fmt.Errorf("psk: read server nonce: %w", err)
	}
	return DeriveSessionKey(key, clientNonce, serverNonce), nil
}

// ServerHandshake performs the server side: discard the magic, read the
// client nonce + HMAC, verify it against key, then reply "OK\0" + a fresh
// server nonce ("NO\0" when the HMAC does not verify). Returns the same session key ClientHandshake derives, for
// WrapConn. Kept alongside ClientHandshake so both halves of the exchange
// are covered by the same package's tests even though this program only
// ever plays the client role against a Vita.
func ServerHandshake(rw io.ReadWriter, key []byte) (sessionKey []byte, err error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("psk: missing key")
	}

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(rw, magic); err != nil {
		return nil, fmt.Errorf("psk: read magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("psk: bad magic")
	}

	clientNonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rw, clientNonce); err != nil {
		return nil, fmt.Errorf("psk: read client nonce: %w", err)
	}

	clientAuth := make([]byte, sha256.Size)
	if _, err := io.ReadFull(rw, clientAuth); err != nil {
		return nil, fmt.Errorf("psk: read client auth: %w", err)
	}

	expected := macOf(key, []byte(authContext), clientNonce)
	if !hmac.Equal(clientAuth, expected) {
		_, _ = rw.Write([]byte("NO\x00"))
		return nil, fmt.Errorf("psk: invalid key")
	}

	serverNonce := make([]byte, NonceSize)
	if _, err := rand.Read(serverNonce); err != nil {
		return nil, fmt.Errorf("psk: generate server nonce: %w", err)
	}
	resp := append([]byte("OK\x00"), serverNonce...)
	if _, err := rw.Write(resp); err != nil {
		return nil, fmt.Errorf("psk: write response: %w", err)
	}
	return DeriveSessionKey(key, clientNonce, serverNonce), nil
}
