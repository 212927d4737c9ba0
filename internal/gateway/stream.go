package gateway

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/code-yaar/assistant-gateway/internal/httputil"
	"github.com/code-yaar/assistant-gateway/internal/sse"
)

// relayStream forwards the upstream event stream to the client frame by frame,
// flushing after every frame so the learner sees token-by-token delivery. The
// decoder accumulates the full output for auditing and the uncertainty scan;
// if the finished response carries an uncertainty phrase, a warning frame is
// emitted before the terminal sentinel.
//
// Returns the accumulated output and the warning flag. A non-nil error means
// the relay could not start or was cut off mid-stream.
func (h *Handler) relayStream(w http.ResponseWriter, reqID string, body io.Reader) (string, bool, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteInternalError(w, reqID, "Streaming not supported")
		return "", false, errors.New("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Request-ID", reqID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	dec := sse.NewDecoder(h.prompts().UncertaintyPhrases)
	dec.OnFrame = func(data string) {
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	buf := make([]byte, 32*1024)
	var readErr error
	for {
		n, err := body.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n])
		}
		if dec.Done() {
			break
		}
		if err != nil {
			if err != io.EOF {
				readErr = err
			}
			break
		}
	}
	dec.Close()

	if readErr != nil {
		return dec.Output(), false, fmt.Errorf("read upstream stream: %w", readErr)
	}

	if dec.HasWarning() {
		fmt.Fprintf(w, "data: %s\n\n", `{"warning":true}`)
		flusher.Flush()
	}
	fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()

	return dec.Output(), dec.HasWarning(), nil
}
