// Package upstream dispatches the rewritten request to the chosen LLM and
// returns either a buffered response or a live stream for the caller to
// relay.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/rewrite"
	"github.com/nvidia-cloud-ai/llm-router-gateway/types"
)

// Response is what the dispatcher hands back to the orchestrator. Body is
// always non-nil and must be closed by the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
	// Stream is true when the caller asked for a streamed completion and
	// the upstream returned success — the orchestrator should relay Body
	// through the SSE adapter rather than buffering it.
	Stream bool
}

// Dispatcher sends the rewritten request over a shared *http.Client.
type Dispatcher struct {
	httpClient *http.Client
}

// NewDispatcher wraps httpClient.
func NewDispatcher(httpClient *http.Client) *Dispatcher {
	return &Dispatcher{httpClient: httpClient}
}

// Dispatch sends rw to the upstream LLM. A non-2xx response is returned as
// a Response the caller should pass through verbatim — it is never turned
// into an error, per the error-handling design's pass-through rule.
func (d *Dispatcher) Dispatch(ctx context.Context, rw rewrite.Rewritten, stream bool) (*Response, error) {
	body, err := json.Marshal(rw.Body)
	if err != nil {
		return nil, types.New(types.KindInfrastructure, 500, "failed to encode outbound request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rw.URL, bytes.NewReader(body))
	if err != nil {
		return nil, types.New(types.KindInfrastructure, 500, "failed to build outbound request").WithCause(err)
	}
	req.Header = rw.Headers.Clone()

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, types.New(types.KindUpstreamFailure, 503, "upstream LLM is unreachable").WithCause(err)
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
		Stream:     stream && success,
	}, nil
}
