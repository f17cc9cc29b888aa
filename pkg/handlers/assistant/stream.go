package assistant

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/de-tools/blocks/pkg/models/api"
	"github.com/rs/zerolog"
)

const (
	eventChunk  = "chunk"
	eventResult = "result"
)

// stream writes the response text as "chunk" events split at sentence
// boundaries, then the full response as a "result" event. Chunks never split
// an inline reference marker and concatenate to the response text.
func stream(w http.ResponseWriter, r *http.Request, resp api.AssistantResponse) {
	logger := zerolog.Ctx(r.Context())
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for i, text := range splitChunks(resp.Response) {
		if err := writeEvent(w, eventChunk, api.StreamChunk{Index: i, Text: text}); err != nil {
			logger.Warn().Err(err).Msg("client went away during stream")
			return
		}
		if err := rc.Flush(); err != nil {
			logger.Debug().Err(err).Msg("response writer does not support flushing")
		}
	}
	if err := writeEvent(w, eventResult, resp); err != nil {
		logger.Warn().Err(err).Msg("failed to write stream result")
		return
	}
	_ = rc.Flush()
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

// splitChunks cuts text after sentence punctuation that is followed by
// whitespace, and after newlines.
func splitChunks(text string) []string {
	var chunks []string
	start := 0
	depth := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '\n':
			if depth == 0 {
				chunks = append(chunks, text[start:i+1])
				start = i + 1
			}
		case '.', '?', '!':
			if depth == 0 && i+1 < len(text) && text[i+1] == ' ' {
				chunks = append(chunks, text[start:i+2])
				start = i + 2
				i++
			}
		}
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}
