package psk

import (
	"bytes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// maxPacketSize bounds a single sealed frame, in the same spirit as
// auth.Conn (internal/server/api/auth/conn.go).
const maxPacketSize = 2 * 1024 * 1024

// DeriveSessionKey folds the PSK and both handshake nonces into a 32-byte
// ChaCha20-Poly1305 key, so a successful handshake (which proves both sides
// hold the same key) also pins the session key to that specific exchange.
func DeriveSessionKey(key, clientNonce, serverNonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(clientNonce)
	h.Write(serverNonce)
	return h.Sum(nil)
}

// Conn wraps a net.Conn, sealing every Write and opening every Read with
// ChaCha20-Poly1305 under a per-direction monotonic nonce counter, adapted
// from auth.Conn's (internal/server/api/auth/conn.go) framing for the
// control-channel encryption that backs --psk.
type Conn struct {
	net.Conn
	aead    cipher.AEAD
	sendCtr uint64
	recvBuf bytes.Buffer
	mu      sync.Mutex
}

// WrapConn returns a Conn that transparently encrypts conn's byte stream
// under sessionKey.
func WrapConn(conn net.Conn, sessionKey []byte) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("psk: init aead: %w", err)
	}
	return &Conn{Conn: conn, aead: aead}, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nonce := make([]byte, chacha20poly1305.NonceSize)
	binary.BigEndian.PutUint64(nonce[4:], c.sendCtr)
	c.sendCtr++

	ct := c.aead.Seal(nil, nonce, p, nil)
	frame := make([]byte, 4+len(nonce)+len(ct))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(nonce)+len(ct)))
	copy(frame[4:], nonce)
	copy(frame[4+len(nonce):], ct)

	if _, err := c.Conn.Write(frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Conn) Read(p []byte) (int, error) {
	if c.recvBuf.Len() == 0 {
		var hdr [4]byte
		if _, err := io.ReadFull(c.Conn, hdr[:]); err != nil {
			return 0, err
		}
		length := binary.BigEndian.Uint32(hdr[:])
		if length > maxPacketSize || length < chacha20poly1305.NonceSize {
			return 0, io.ErrUnexpectedEOF
		}

		pkt := make([]byte, length)
		if _, err := io.ReadFull(c.Conn, pkt); err != nil {
			return 0, err
		}

		nonce := pkt[:chacha20poly1305.NonceSize]
		ct := pkt[chacha20poly1305.NonceSize:]
		pt, err := c.aead.Open(nil, nonce, ct, nil)
		if err != nil {
			return 0, fmt.Errorf("psk: decrypt: %w", err)
		}
		c.recvBuf.Write(pt)
	}
	return c.recvBuf.Read(p)
}
