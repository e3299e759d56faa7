// Package vitaconn drives the handshake/heartbeat session state machine
// described in spec.md §4.2, independent of any actual socket: it is a pure
// function over fed bytes plus caller-driven encoder calls, in the same
// spirit as internal/server/api/auth/handshake.go's auth helpers, but
// adapted from a request/response RPC handshake to a streaming session
// with a persistent heartbeat cadence.
package vitaconn

import (
	"fmt"

	"github.com/vitaoxipad/vitaoxipad-go/vitareport"
	"github.com/vitaoxipad/vitaoxipad-go/vitawire"
)

// State is one of the four session states in spec.md §4.2.
type State int

const (
	Init State = iota
	HandshakeSent
	Established
	Closed
)

func (s State) String() string {
	switch s {
	case Init:
		return "Init"
	case HandshakeSent:
		return "HandshakeSent"
	case Established:
		return "Established"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// PadDataReceived is the typed event produced for every accepted pad report.
type PadDataReceived struct {
	Pad vitareport.Pad
}

// HandshakeResponseReceived is the typed event produced for the one
// handshake-response frame expected in the HandshakeSent state.
type HandshakeResponseReceived struct {
	HeartbeatFreqSeconds uint32
}

// Conn is the connection state machine. It is not safe for concurrent use.
type Conn struct {
	state   State
	dec     *vitawire.Decoder
	outData []byte
}

// New returns a state machine in the Init state.
func New() *Conn {
	return &Conn{state: Init, dec: vitawire.NewDecoder()}
}

// State returns the current session state.
func (c *Conn) State() State { return c.state }

// SendHandshake transitions Init -> HandshakeSent and queues a Handshake
// frame naming the bound UDP port for the encoder to drain.
func (c *Conn) SendHandshake(udpPort uint16) error {
	if c.state != Init {
		return fmt.Errorf("vitaconn: SendHandshake called in state %s, want Init", c.state)
	}
	c.outData = append(c.outData, vitawire.EncodeHandshake(vitawire.Handshake{
		Endpoint: vitawire.EndpointClient,
		Port:     udpPort,
	})...)
	c.state = HandshakeSent
	return nil
}

// SendHeartbeat queues a Heartbeat frame. Valid in any state except Closed;
// the main loop calls it once Established, including for the initial NAT
// punch-through heartbeat (spec.md §4.6), which follows the handshake
// response.
func (c *Conn) SendHeartbeat() error {
	if c.state == Closed {
		return fmt.Errorf("vitaconn: SendHeartbeat called on closed connection")
	}
	c.outData = append(c.outData, vitawire.EncodeHeartbeat()...)
	return nil
}

// SendConfig queues a Config frame overriding the polling interval.
func (c *Conn) SendConfig(pollingIntervalMicros uint64) error {
	if c.state == Closed {
		return fmt.Errorf("vitaconn: SendConfig called on closed connection")
	}
	c.outData = append(c.outData, vitawire.EncodeConfig(vitawire.Config{
		PollingIntervalMicros: pollingIntervalMicros,
	})...)
	return nil
}

// RetrieveOutData drains and returns all bytes queued by Send* calls since
// the last call to RetrieveOutData.
func (c *Conn) RetrieveOutData() []byte {
	out := c.outData
	c.outData = nil
	return out
}

// Feed decodes newly received bytes into typed events. Any decode error, or
// any frame that arrives out of the sequence the state machine expects,
// transitions the connection to Closed and is returned to the caller.
func (c *Conn) Feed(data []byte) ([]any, error) {
	if c.state == Closed {
		return nil, fmt.Errorf("vitaconn: Feed called on closed connection")
	}

	raw, err := c.dec.Feed(data)
	if err != nil {
		c.state = Closed
		return nil, err
	}

	events := make([]any, 0, len(raw))
	for _, ev := range raw {
		switch v := ev.(type) {
		case vitawire.HandshakeResponse:
			if c.state != HandshakeSent {
				prev := c.state
				c.state = Closed
				return events, fmt.Errorf("vitaconn: unexpected HandshakeResponse in state %s", prev)
			}
			c.state = Established
			events = append(events, HandshakeResponseReceived{HeartbeatFreqSeconds: v.HeartbeatFreqSeconds})
		case vitawire.Heartbeat:
			if c.state != Established {
				prev := c.state
				c.state = Closed
				return events, fmt.Errorf("vitaconn: unexpected Heartbeat in state %s", prev)
			}
			// Liveness ping only; nothing to surface to the translator.
		case vitareport.Pad:
			if c.state != Established {
				prev := c.state
				c.state = Closed
				return events, fmt.Errorf("vitaconn: PadData received before handshake completed (state %s)", prev)
			}
			events = append(events, PadDataReceived{Pad: v})
		default:
			c.state = Closed
			return events, fmt.Errorf("vitaconn: unrecognized decoded event %T", ev)
		}
	}
	return events, nil
}
