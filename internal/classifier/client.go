// Package classifier talks to the Triton-style classifier service a policy
// names, and turns its probability vector into a chosen LLM index.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/routerconfig"
	"github.com/nvidia-cloud-ai/llm-router-gateway/types"
)

// inferInputs is the Triton inference request envelope.
type inferInputs struct {
	Inputs []inferInputTensor `json:"inputs"`
}

type inferInputTensor struct {
	Name     string     `json:"name"`
	Datatype string     `json:"datatype"`
	Shape    []int64    `json:"shape"`
	Data     [][]string `json:"data"`
}

// inferOutput is the Triton inference response envelope.
type inferOutput struct {
	ModelName    string             `json:"model_name"`
	ModelVersion string             `json:"model_version"`
	Outputs      []inferOutputTensor `json:"outputs"`
}

type inferOutputTensor struct {
	Name     string    `json:"name"`
	Datatype string    `json:"datatype"`
	Shape    []int64   `json:"shape"`
	Data     []float64 `json:"data"`
}

// Client dispatches classification requests over a shared *http.Client.
type Client struct {
	httpClient *http.Client
}

// NewClient wraps httpClient. The caller is expected to share one
// transport-tuned client across the classifier and upstream dispatch,
// rather than constructing one per request.
func NewClient(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Choose posts text to policy's classifier URL and returns the argmax index
// into policy.Llms (see argmax for tie-breaking).
func (c *Client) Choose(ctx context.Context, policy routerconfig.Policy, text string) (int, error) {
	reqBody := inferInputs{
		Inputs: []inferInputTensor{{
			Name:     "INPUT",
			Datatype: "BYTES",
			Shape:    []int64{1, 1},
			Data:     [][]string{{text}},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return 0, types.New(types.KindInfrastructure, 500, "failed to encode classifier request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, policy.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, types.New(types.KindInfrastructure, 500, "failed to build classifier request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, types.New(types.KindClassifierFailure, 503, "Triton server is unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, types.New(types.KindClassifierFailure, 503, "failed to read Triton response").WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, types.New(types.KindClassifierFailure, resp.StatusCode,
			fmt.Sprintf("Triton service error (%d): %s", resp.StatusCode, string(body)))
	}

	var out inferOutput
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, types.New(types.KindClassifierFailure, 500, "invalid Triton response").WithCause(err)
	}

	if len(out.Outputs) == 0 {
		return 0, types.New(types.KindClassifierFailure, 500, "no outputs returned from the Triton response")
	}

	data := out.Outputs[0].Data
	if len(data) == 0 {
		return 0, types.New(types.KindClassifierFailure, 500, "could not determine model selection from probability distribution")
	}

	if len(data) != len(policy.Llms) {
		return 0, types.New(types.KindClassifierFailure, 500,
			fmt.Sprintf("classifier returned %d scores for a policy with %d llms", len(data), len(policy.Llms)))
	}

	return argmax(data), nil
}

// argmax returns the index of the largest value in data. Ties are broken by
// first occurrence: scanning left to right, a later value only replaces the
// current best when it is strictly greater.
func argmax(data []float64) int {
	best := 0
	for i, v := range data {
		if v > data[best] {
			best = i
		}
	}
	return best
}
