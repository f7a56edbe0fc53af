package upstream

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/rewrite"
	"github.com/nvidia-cloud-ai/llm-router-gateway/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchBuffersSuccessWhenNotStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	d := NewDispatcher(srv.Client())
	rw := rewrite.Build(srv.URL, "/v1/chat/completions", "key", "model-a", map[string]any{})

	resp, err := d.Dispatch(t.Context(), rw, false)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.False(t, resp.Stream)
}

func TestDispatchMarksStreamOnlyOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.Client())
	rw := rewrite.Build(srv.URL, "/v1/chat/completions", "key", "model-a", map[string]any{})

	resp, err := d.Dispatch(t.Context(), rw, true)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 500, resp.StatusCode)
	assert.False(t, resp.Stream, "a non-2xx response must never be treated as a stream")
}

func TestDispatchMapsTransportErrorToUpstreamFailure(t *testing.T) {
	d := NewDispatcher(http.DefaultClient)
	rw := rewrite.Build("http://127.0.0.1:0", "/v1/chat/completions", "key", "model-a", map[string]any{})

	_, err := d.Dispatch(t.Context(), rw, false)
	require.Error(t, err)
	assert.Equal(t, types.KindUpstreamFailure, types.KindOf(err))
	assert.Equal(t, 503, types.StatusOf(err))
}
