// Package vitawire implements the length-prefixed binary wire protocol
// described in spec.md §4.1 and §6: a little-endian u32 length prefix
// followed by exactly that many bytes of a tagged payload.
//
// Encoding follows device/dualshock4/inputstate.go's MarshalBinary/
// UnmarshalBinary style: fixed byte offsets, encoding/binary.LittleEndian,
// explicit length checks that return io.ErrUnexpectedEOF rather than
// panicking.
package vitawire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/vitaoxipad/vitaoxipad-go/vitareport"
)

// Endpoint identifies which side of the handshake a Handshake message names.
type Endpoint uint8

const (
	EndpointClient Endpoint = 0
	EndpointServer Endpoint = 1
)

// Content-type tags for the frame payload.
const (
	tagHandshake         = 0
	tagHandshakeResponse = 1
	tagHeartbeat         = 2
	tagConfig            = 3
	tagPad               = 4
)

// button bit layout on the wire (spec.md §3 lists the 15 boolean buttons).
const (
	bitUp uint16 = 1 << iota
	bitDown
	bitLeft
	bitRight
	bitCross
	bitCircle
	bitSquare
	bitTriangle
	bitStart
	bitSelect
	bitLT
	bitRT
	bitPS
	bitVolUp
	bitVolDown
)

// Handshake is the client->server session-open message.
type Handshake struct {
	Endpoint Endpoint
	Port     uint16
}

// HandshakeResponse is the server->client reply naming the heartbeat cadence.
type HandshakeResponse struct {
	HeartbeatFreqSeconds uint32
}

// Heartbeat is an empty-body liveness ping, sent in both directions.
type Heartbeat struct{}

// Config pushes a polling-interval override to the Vita, in microseconds.
type Config struct {
	PollingIntervalMicros uint64
}

// frame wraps payload bytes with the u32 LE length prefix.
func frame(payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(out[:4], uint32(len(payload)))
	copy(out[4:], payload)
	return out
}

// EncodeHandshake builds a framed Handshake message.
func EncodeHandshake(h Handshake) []byte {
	payload := make([]byte, 4)
	payload[0] = tagHandshake
	payload[1] = uint8(h.Endpoint)
	binary.LittleEndian.PutUint16(payload[2:4], h.Port)
	return frame(payload)
}

// EncodeHeartbeat builds a framed, empty-body Heartbeat message.
func EncodeHeartbeat() []byte {
	return frame([]byte{tagHeartbeat})
}

// EncodeConfig builds a framed Config message.
func EncodeConfig(c Config) []byte {
	payload := make([]byte, 9)
	payload[0] = tagConfig
	binary.LittleEndian.PutUint64(payload[1:9], c.PollingIntervalMicros)
	return frame(payload)
}

// EncodeHandshakeResponse and EncodePad exist so round-trip tests (in this
// package and others, e.g. vitaconn and vitaclient, which synthesize a fake
// server's wire bytes) can construct frames without a live server;
// production client code never calls them (it only decodes these message
// kinds).

func EncodeHandshakeResponse(r HandshakeResponse) []byte {
	payload := make([]byte, 5)
	payload[0] = tagHandshakeResponse
	binary.LittleEndian.PutUint32(payload[1:5], r.HeartbeatFreqSeconds)
	return frame(payload)
}

func EncodePad(p vitareport.Pad) []byte {
	payload := make([]byte, padPayloadSize(p))
	payload[0] = tagPad
	off := 1
	binary.LittleEndian.PutUint64(payload[off:off+8], p.Timestamp)
	off += 8
	binary.LittleEndian.PutUint16(payload[off:off+2], encodeButtons(p.Buttons))
	off += 2
	payload[off] = p.LX
	payload[off+1] = p.LY
	payload[off+2] = p.RX
	payload[off+3] = p.RY
	off += 4
	off = putF32(payload, off, p.Motion.AccelX)
	off = putF32(payload, off, p.Motion.AccelY)
	off = putF32(payload, off, p.Motion.AccelZ)
	off = putF32(payload, off, p.Motion.GyroX)
	off = putF32(payload, off, p.Motion.GyroY)
	off = putF32(payload, off, p.Motion.GyroZ)
	off = putTouchReport(payload, off, p.FrontTouch)
	off = putTouchReport(payload, off, p.BackTouch)
	payload[off] = p.ChargePercent
	return frame(payload)
}

func padPayloadSize(p vitareport.Pad) int {
	return 1 + 8 + 2 + 4 + 4*6 + 1 + len(p.FrontTouch.Reports)*6 + 1 + len(p.BackTouch.Reports)*6 + 1
}

func putF32(b []byte, off int, v float32) int {
	binary.LittleEndian.PutUint32(b[off:off+4], math.Float32bits(v))
	return off + 4
}

func getF32(b []byte, off int) (float32, int) {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4])), off + 4
}

func putTouchReport(b []byte, off int, t vitareport.TouchReport) int {
	b[off] = uint8(len(t.Reports))
	off++
	for _, tp := range t.Reports {
		b[off] = tp.ID
		binary.LittleEndian.PutUint16(b[off+1:off+3], tp.X)
		binary.LittleEndian.PutUint16(b[off+3:off+5], tp.Y)
		b[off+5] = tp.Force
		off += 6
	}
	return off
}

func getTouchReport(b []byte, off int) (vitareport.TouchReport, int, error) {
	if off >= len(b) {
		return vitareport.TouchReport{}, off, io.ErrUnexpectedEOF
	}
	n := int(b[off])
	off++
	if off+n*6 > len(b) {
		return vitareport.TouchReport{}, off, io.ErrUnexpectedEOF
	}
	var t vitareport.TouchReport
	if n > 0 {
		t.Reports = make([]vitareport.TouchPoint, n)
	}
	for i := 0; i < n; i++ {
		t.Reports[i] = vitareport.TouchPoint{
			ID:    b[off],
			X:     binary.LittleEndian.Uint16(b[off+1 : off+3]),
			Y:     binary.LittleEndian.Uint16(b[off+3 : off+5]),
			Force: b[off+5],
		}
		off += 6
	}
	return t, off, nil
}

func encodeButtons(b vitareport.Buttons) uint16 {
	var v uint16
	set := func(bit uint16, on bool) {
		if on {
			v |= bit
		}
	}
	set(bitUp, b.Up)
	set(bitDown, b.Down)
	set(bitLeft, b.Left)
	set(bitRight, b.Right)
	set(bitCross, b.Cross)
	set(bitCircle, b.Circle)
	set(bitSquare, b.Square)
	set(bitTriangle, b.Triangle)
	set(bitStart, b.Start)
	set(bitSelect, b.Select)
	set(bitLT, b.LT)
	set(bitRT, b.RT)
	set(bitPS, b.PS)
	set(bitVolUp, b.VolUp)
	set(bitVolDown, b.VolDown)
	return v
}

func decodeButtons(v uint16) vitareport.Buttons {
	has := func(bit uint16) bool { return v&bit != 0 }
	return vitareport.Buttons{
		Up: has(bitUp), Down: has(bitDown), Left: has(bitLeft), Right: has(bitRight),
		Cross: has(bitCross), Circle: has(bitCircle), Square: has(bitSquare), Triangle: has(bitTriangle),
		Start: has(bitStart), Select: has(bitSelect),
		LT: has(bitLT), RT: has(bitRT),
		PS:      has(bitPS),
		VolUp:   has(bitVolUp),
		VolDown: has(bitVolDown),
	}
}

// DecodePayload parses a single already-length-delimited payload (the bytes
// after the 4-byte length prefix) into one of the three client-facing
// message kinds. Returns an error on an unparsable payload or unknown tag,
// per the decode contract in spec.md §4.1.
func DecodePayload(payload []byte) (any, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("vitawire: empty payload")
	}
	switch payload[0] {
	case tagHandshakeResponse:
		if len(payload) < 5 {
			return nil, io.ErrUnexpectedEOF
		}
		return HandshakeResponse{HeartbeatFreqSeconds: binary.LittleEndian.Uint32(payload[1:5])}, nil
	case tagHeartbeat:
		return Heartbeat{}, nil
	case tagPad:
		return decodePad(payload)
	default:
		return nil, fmt.Errorf("vitawire: unknown content tag %d", payload[0])
	}
}

func decodePad(payload []byte) (vitareport.Pad, error) {
	var p vitareport.Pad
	off := 1
	need := func(n int) error {
		if off+n > len(payload) {
			return io.ErrUnexpectedEOF
		}
		return nil
	}
	if err := need(8); err != nil {
		return p, err
	}
	p.Timestamp = binary.LittleEndian.Uint64(payload[off : off+8])
	off += 8

	if err := need(2); err != nil {
		return p, err
	}
	p.Buttons = decodeButtons(binary.LittleEndian.Uint16(payload[off : off+2]))
	off += 2

	if err := need(4); err != nil {
		return p, err
	}
	p.LX, p.LY, p.RX, p.RY = payload[off], payload[off+1], payload[off+2], payload[off+3]
	off += 4

	if err := need(24); err != nil {
		return p, err
	}
	p.Motion.AccelX, off = getF32(payload, off)
	p.Motion.AccelY, off = getF32(payload, off)
	p.Motion.AccelZ, off = getF32(payload, off)
	p.Motion.GyroX, off = getF32(payload, off)
	p.Motion.GyroY, off = getF32(payload, off)
	p.Motion.GyroZ, off = getF32(payload, off)

	var err error
	p.FrontTouch, off, err = getTouchReport(payload, off)
	if err != nil {
		return p, err
	}
	p.BackTouch, off, err = getTouchReport(payload, off)
	if err != nil {
		return p, err
	}

	if err := need(1); err != nil {
		return p, err
	}
	p.ChargePercent = payload[off]
	return p, nil
}
