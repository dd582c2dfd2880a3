package llm

import (
	"bytes"
	"encoding/json"
	"strings"
)

// fragment is one decoded unit of the backend's NDJSON output.
type fragment struct {
	Message struct {
		Content string `json:"content"`
		// Some models emit a scratch-pad alongside the content delta.
		// It is decoded so the field has a name, and never appended:
		// surfacing it would duplicate content into the reply.
		Thinking string `json:"thinking"`
	} `json:"message"`
	Done bool `json:"done"`
}

// aggregator reassembles a chunked NDJSON stream into one reply string.
// Bytes are fed in whatever sizes the transport delivers them; only
// complete lines are decoded, partial lines wait in the buffer for more
// bytes. A line that fails to decode is a transport artifact and is
// dropped without failing the stream.
type aggregator struct {
	buf  []byte
	out  strings.Builder
	done bool
}

// Feed appends raw bytes and consumes every complete line now buffered.
func (a *aggregator) Feed(p []byte) {
	a.buf = append(a.buf, p...)
	for {
		i := bytes.IndexByte(a.buf, '\n')
		if i < 0 {
			return
		}
		line := a.buf[:i]
		a.buf = a.buf[i+1:]
		a.consume(line)
	}
}

// Finish decodes any residual tail left without a trailing newline.
// A decode failure here is as non-fatal as anywhere else.
func (a *aggregator) Finish() {
	if tail := bytes.TrimSpace(a.buf); len(tail) > 0 {
		a.consume(tail)
	}
	a.buf = nil
}

func (a *aggregator) consume(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}
	var frag fragment
	if err := json.Unmarshal(line, &frag); err != nil {
		return
	}
	a.out.WriteString(frag.Message.Content)
	if frag.Done {
		a.done = true
	}
}

// Text returns the accumulated reply trimmed of surrounding whitespace.
func (a *aggregator) Text() string {
	return strings.TrimSpace(a.out.String())
}
