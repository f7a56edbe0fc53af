// Package sse relays a Server-Sent-Events response from an upstream LLM to
// the client byte-for-byte, while parsing each event to extract token usage
// as it goes by.
package sse

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// UsageSink receives token counts parsed out of a streamed event.
type UsageSink interface {
	RecordTokenUsage(llm string, prompt, completion, total uint64)
}

type ssePayload struct {
	Choices []struct {
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     uint64 `json:"prompt_tokens"`
		CompletionTokens uint64 `json:"completion_tokens"`
		TotalTokens      uint64 `json:"total_tokens"`
	} `json:"usage"`
}

// Relay copies src to w one read at a time, flushing after every write so
// the client sees events as they arrive, and feeds each complete "\n\n"-
// delimited event to the usage parser. It returns once src is exhausted or
// a read/write error occurs.
//
// Token-usage accounting fires whenever a parsed event carries a "usage"
// object, regardless of finish_reason — streaming and buffered responses
// are accounted the same way; see DESIGN.md for why that's worth calling
// out.
func Relay(w io.Writer, flusher http.Flusher, src io.Reader, llmName string, sink UsageSink, logger *zap.Logger) error {
	var carry bytes.Buffer
	buf := make([]byte, 32*1024)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if _, err := w.Write(chunk); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}

			carry.Write(chunk)
			processEvents(&carry, llmName, sink, logger)
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}

// processEvents splits carry on "\n\n", parses every complete event, and
// leaves any trailing partial event in carry for the next read.
func processEvents(carry *bytes.Buffer, llmName string, sink UsageSink, logger *zap.Logger) {
	data := carry.String()
	parts := strings.Split(data, "\n\n")
	if len(parts) == 1 {
		return
	}

	// The last element is whatever followed the final "\n\n" — may be
	// empty, may be a partial event still arriving.
	complete, tail := parts[:len(parts)-1], parts[len(parts)-1]

	for _, event := range complete {
		handleEvent(event, llmName, sink, logger)
	}

	carry.Reset()
	carry.WriteString(tail)
}

func handleEvent(event, llmName string, sink UsageSink, logger *zap.Logger) {
	cleaned := strings.TrimSpace(event)
	cleaned = strings.TrimPrefix(cleaned, "data: ")

	if cleaned == "" || cleaned == "[DONE]" {
		return
	}

	var payload ssePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		if logger != nil {
			logger.Warn("failed to parse SSE event", zap.Error(err))
		}
		return
	}

	if payload.Usage == nil {
		return
	}
	sink.RecordTokenUsage(llmName, payload.Usage.PromptTokens, payload.Usage.CompletionTokens, payload.Usage.TotalTokens)
}
