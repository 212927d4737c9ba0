package sse

import (
	"strings"
	"testing"
)

var testPhrases = []string{"i'm not certain", "please verify"}

func deltaFrame(content string) string {
	return `data: {"choices":[{"index":0,"delta":{"content":"` + content + `"},"finish_reason":null}]}` + "\n\n"
}

func TestDecoder_ThreeChunks(t *testing.T) {
	stream := deltaFrame("Hel") + deltaFrame("lo") + deltaFrame(" world") + "data: [DONE]\n\n"

	d := NewDecoder(testPhrases)
	d.Feed([]byte(stream))
	d.Close()

	if got := d.Output(); got != "Hello world" {
		t.Errorf("expected output %q, got %q", "Hello world", got)
	}
	if !d.Done() {
		t.Error("expected Done after [DONE] sentinel")
	}
	if d.HasWarning() {
		t.Error("expected no warning for output without uncertainty phrases")
	}
}

func TestDecoder_ChunkBoundaryInvariance(t *testing.T) {
	stream := deltaFrame("Hel") + deltaFrame("lo") + deltaFrame(" world") + "data: [DONE]\n\n"

	// Whole stream at once.
	whole := NewDecoder(testPhrases)
	whole.Feed([]byte(stream))
	whole.Close()

	// One byte at a time.
	byByte := NewDecoder(testPhrases)
	for i := 0; i < len(stream); i++ {
		byByte.Feed([]byte{stream[i]})
	}
	byByte.Close()

	// Arbitrary split sizes.
	for _, n := range []int{2, 3, 7, 16, 100} {
		d := NewDecoder(testPhrases)
		for i := 0; i < len(stream); i += n {
			end := i + n
			if end > len(stream) {
				end = len(stream)
			}
			d.Feed([]byte(stream[i:end]))
		}
		d.Close()
		if d.Output() != whole.Output() {
			t.Errorf("split size %d: output %q != %q", n, d.Output(), whole.Output())
		}
	}

	if byByte.Output() != whole.Output() {
		t.Errorf("byte-at-a-time output %q != whole-stream output %q", byByte.Output(), whole.Output())
	}
}

func TestDecoder_DeltasEmittedIncrementally(t *testing.T) {
	var deltas []string
	d := NewDecoder(testPhrases)
	d.OnDelta = func(s string) { deltas = append(deltas, s) }

	d.Feed([]byte(deltaFrame("a")))
	if len(deltas) != 1 || deltas[0] != "a" {
		t.Fatalf("expected first delta emitted immediately, got %v", deltas)
	}
	d.Feed([]byte(deltaFrame("b") + "data: [DONE]\n\n"))
	d.Close()

	if strings.Join(deltas, "") != "ab" {
		t.Errorf("expected deltas ab, got %v", deltas)
	}
}

func TestDecoder_SkipsCommentsBlanksAndOtherFields(t *testing.T) {
	stream := ": keep-alive\n\n" +
		"event: message\n" +
		deltaFrame("ok") +
		"data: [DONE]\n\n"

	d := NewDecoder(testPhrases)
	d.Feed([]byte(stream))
	d.Close()

	if d.Output() != "ok" {
		t.Errorf("expected output %q, got %q", "ok", d.Output())
	}
}

func TestDecoder_MalformedFrameSkipped(t *testing.T) {
	stream := deltaFrame("good") +
		"data: {not valid json\n\n" +
		deltaFrame(" still good") +
		"data: [DONE]\n\n"

	d := NewDecoder(testPhrases)
	d.Feed([]byte(stream))
	d.Close()

	if d.Output() != "good still good" {
		t.Errorf("expected malformed frame to be skipped, got %q", d.Output())
	}
	if !d.Done() {
		t.Error("expected decoding to reach [DONE] despite malformed frame")
	}
}

func TestDecoder_TrailingBufferFlushedOnClose(t *testing.T) {
	// Stream ends without a final newline or [DONE]; the last frame is only
	// parsed by the best-effort pass in Close.
	stream := deltaFrame("start") + `data: {"choices":[{"delta":{"content":" end"}}]}`

	d := NewDecoder(testPhrases)
	d.Feed([]byte(stream))
	if d.Output() != "start" {
		t.Fatalf("incomplete frame must not be parsed early, got %q", d.Output())
	}
	d.Close()
	if d.Output() != "start end" {
		t.Errorf("expected trailing frame recovered on Close, got %q", d.Output())
	}
}

func TestDecoder_StopsAtDone(t *testing.T) {
	stream := deltaFrame("kept") + "data: [DONE]\n\n" + deltaFrame("dropped")

	d := NewDecoder(testPhrases)
	d.Feed([]byte(stream))
	d.Close()

	if d.Output() != "kept" {
		t.Errorf("expected frames after [DONE] ignored, got %q", d.Output())
	}
}

func TestDecoder_UncertaintyWarning(t *testing.T) {
	tests := []struct {
		name    string
		content string
		warning bool
	}{
		{"exact", "I'm not certain about this", true},
		{"upper", "PLEASE VERIFY the output", true},
		{"mixed", "...so Please Verify before use.", true},
		{"absent", "Here is the answer.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsUncertainty(tt.content, testPhrases); got != tt.warning {
				t.Errorf("ContainsUncertainty(%q) = %v, want %v", tt.content, got, tt.warning)
			}
		})
	}
}

func TestDecoder_EmptyDeltaIgnored(t *testing.T) {
	stream := `data: {"choices":[{"delta":{"role":"assistant"},"finish_reason":null}]}` + "\n\n" +
		deltaFrame("text") +
		`data: {"choices":[{"delta":{},"finish_reason":"stop"}]}` + "\n\n" +
		"data: [DONE]\n\n"

	d := NewDecoder(testPhrases)
	d.Feed([]byte(stream))
	d.Close()

	if d.Output() != "text" {
		t.Errorf("expected role/empty deltas ignored, got %q", d.Output())
	}
}
