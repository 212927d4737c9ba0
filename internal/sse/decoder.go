package sse

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// chunk is the OpenAI-style streaming frame payload.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Decoder incrementally parses a line-oriented chat-completion event stream.
// Bytes may arrive split at arbitrary boundaries: complete lines are processed
// as they form, incomplete trailing bytes are carried forward until more bytes
// arrive. A malformed complete frame is skipped without aborting the stream.
//
// Each extracted delta is appended to the accumulated output and, when set,
// OnDelta and OnFrame fire immediately so the caller can forward tokens without
// buffering the whole response.
type Decoder struct {
	// OnFrame is called with the raw payload of each non-terminal data frame,
	// in arrival order.
	OnFrame func(data string)
	// OnDelta is called with each incremental content fragment.
	OnDelta func(delta string)

	phrases []string

	buf     []byte
	out     strings.Builder
	done    bool
	closed  bool
	warning bool
}

// NewDecoder creates a decoder. phrases is the uncertainty phrase list scanned
// (case-insensitively) over the completed output.
func NewDecoder(phrases []string) *Decoder {
	return &Decoder{phrases: phrases}
}

// Feed consumes the next slice of stream bytes, processing every complete line
// and buffering the remainder.
func (d *Decoder) Feed(p []byte) {
	if d.done || d.closed {
		return
	}
	d.buf = append(d.buf, p...)
	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			return
		}
		line := string(d.buf[:idx])
		d.buf = d.buf[idx+1:]
		d.processLine(line)
		if d.done {
			return
		}
	}
}

func (d *Decoder) processLine(line string) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return
	}
	// SSE comment lines keep the connection alive; nothing to parse.
	if strings.HasPrefix(line, ":") {
		return
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return
	}

	data := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if data == doneSentinel {
		d.done = true
		return
	}

	var c chunk
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		// A single malformed frame must not destroy an otherwise-good
		// response.
		return
	}

	if d.OnFrame != nil {
		d.OnFrame(data)
	}
	if len(c.Choices) == 0 {
		return
	}
	delta := c.Choices[0].Delta.Content
	if delta == "" {
		return
	}
	d.out.WriteString(delta)
	if d.OnDelta != nil {
		d.OnDelta(delta)
	}
}

// Close finishes decoding: if end-of-stream left unconsumed buffered bytes, a
// final best-effort parse pass runs over them, then the completed output is
// scanned once for uncertainty phrases.
func (d *Decoder) Close() {
	if d.closed {
		return
	}
	d.closed = true

	if !d.done && len(d.buf) > 0 {
		d.processLine(string(d.buf))
	}
	d.buf = nil

	d.warning = ContainsUncertainty(d.out.String(), d.phrases)
}

// Output returns the accumulated response text.
func (d *Decoder) Output() string {
	return d.out.String()
}

// Done reports whether the terminal sentinel was seen.
func (d *Decoder) Done() bool {
	return d.done
}

// HasWarning reports whether the completed output carried an uncertainty
// phrase. Valid after Close.
func (d *Decoder) HasWarning() bool {
	return d.warning
}

// ContainsUncertainty scans text case-insensitively for any of the phrases.
func ContainsUncertainty(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if p == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
