package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func parseBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}

func TestExtractMissingEnvelope(t *testing.T) {
	body := parseBody(t, `{"messages":[]}`)
	_, ok := Extract(body)
	assert.False(t, ok)
}

func TestExtractDefaultsThreshold(t *testing.T) {
	body := parseBody(t, `{"nim-llm-router":{"policy":"default","routing_strategy":"triton"}}`)
	p, ok := Extract(body)
	require.True(t, ok)
	assert.Equal(t, "default", p.Policy)
	assert.Equal(t, StrategyTriton, p.RoutingStrategy)
	assert.False(t, p.HasThreshold)
	assert.Equal(t, 0.5, p.Threshold)
}

func TestExtractManualParams(t *testing.T) {
	body := parseBody(t, `{"nim-llm-router":{"policy":"default","routing_strategy":"manual","model":"fast"}}`)
	p, ok := Extract(body)
	require.True(t, ok)
	assert.True(t, p.HasModel)
	assert.Equal(t, "fast", p.Model)
}

func TestStripRemovesEnvelopeOnly(t *testing.T) {
	body := parseBody(t, `{"nim-llm-router":{"policy":"default"},"model":"x","messages":[]}`)
	out := Strip(body)

	_, present := out["nim-llm-router"]
	assert.False(t, present)
	assert.Equal(t, "x", out["model"])

	// Original map is untouched.
	_, stillPresent := body["nim-llm-router"]
	assert.True(t, stillPresent)
}

func TestStripIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z]{1,8}`), func(s string) string { return s }).Draw(t, "keys")
		body := make(map[string]any, len(keys))
		for _, k := range keys {
			body[k] = "v"
		}
		body["nim-llm-router"] = map[string]any{"policy": "p"}

		once := Strip(body)
		twice := Strip(once)
		assert.Equal(t, once, twice)
	})
}
