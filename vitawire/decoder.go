package vitawire

import (
	"encoding/binary"
	"fmt"
)

// Decoder is a streaming frame decoder. It owns an internal byte buffer and
// an "expected size" field: when unset it buffers until 4 length-prefix
// bytes are available; once the length is known it waits for that many
// payload bytes before parsing and emitting exactly one event. The decoder
// never consumes bytes it could not parse (spec.md §4.1's contract), so a
// caller that gets an error can simply stop feeding it rather than having to
// rewind any state.
type Decoder struct {
	buf          []byte
	expectedSize int
	haveSize     bool
}

// NewDecoder returns an empty streaming decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends newly received bytes and decodes as many complete frames as
// are now available, returning them in arrival order. An error aborts after
// the frames already extracted are returned; the caller should treat the
// connection as closed per spec.md §4.2 ("any decode error in any state ->
// Closed").
func (d *Decoder) Feed(data []byte) ([]any, error) {
	d.buf = append(d.buf, data...)

	var events []any
	for {
		if !d.haveSize {
			if len(d.buf) < 4 {
				return events, nil
			}
			d.expectedSize = int(binary.LittleEndian.Uint32(d.buf[:4]))
			d.buf = d.buf[4:]
			d.haveSize = true
		}

		if len(d.buf) < d.expectedSize {
			return events, nil
		}

		payload := d.buf[:d.expectedSize]
		ev, err := DecodePayload(payload)
		if err != nil {
			return events, fmt.Errorf("vitawire: decode frame: %w", err)
		}
		d.buf = d.buf[d.expectedSize:]
		d.haveSize = false
		events = append(events, ev)
	}
}
