package classifier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/routerconfig"
	"github.com/nvidia-cloud-ai/llm-router-gateway/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func policyWith(n int) routerconfig.Policy {
	llms := make([]routerconfig.Llm, n)
	for i := range llms {
		llms[i] = routerconfig.Llm{Name: "llm"}
	}
	return routerconfig.Policy{Name: "p", Llms: llms}
}

func triServer(t *testing.T, data []float64, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != 200 {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		out := inferOutput{
			ModelName: "bert",
			Outputs:   []inferOutputTensor{{Name: "logits", Data: data}},
		}
		json.NewEncoder(w).Encode(out)
	}))
}

func TestChooseReturnsArgmaxFirstOccurrence(t *testing.T) {
	srv := triServer(t, []float64{0.2, 0.9, 0.9}, 200)
	defer srv.Close()

	policy := policyWith(3)
	policy.URL = srv.URL
	c := NewClient(srv.Client())

	idx, err := c.Choose(t.Context(), policy, "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "ties must resolve to the first maximum, not the last")
}

func TestChooseMapsNon2xxToClassifierFailure(t *testing.T) {
	srv := triServer(t, nil, 503)
	defer srv.Close()

	policy := policyWith(2)
	policy.URL = srv.URL
	c := NewClient(srv.Client())

	_, err := c.Choose(t.Context(), policy, "hello")
	require.Error(t, err)
	assert.Equal(t, types.KindClassifierFailure, types.KindOf(err))
	assert.Equal(t, 503, types.StatusOf(err))
}

func TestChooseRejectsScoreCountMismatch(t *testing.T) {
	srv := triServer(t, []float64{0.1, 0.2}, 200)
	defer srv.Close()

	policy := policyWith(3)
	policy.URL = srv.URL
	c := NewClient(srv.Client())

	_, err := c.Choose(t.Context(), policy, "hello")
	require.Error(t, err)
	assert.Equal(t, types.KindClassifierFailure, types.KindOf(err))
}

// TestArgmaxPicksFirstMaximum checks, for any non-empty slice of scores,
// that argmax returns an index whose value is the maximum, and that no
// earlier index also holds that maximum — i.e. ties resolve to the first
// occurrence, never a later one.
func TestArgmaxPicksFirstMaximum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Float64Range(-1000, 1000), 1, 20).Draw(t, "data")

		idx := argmax(data)

		max := data[0]
		for _, v := range data {
			if v > max {
				max = v
			}
		}
		assert.Equal(t, max, data[idx], "argmax must return the maximum value")
		for i := 0; i < idx; i++ {
			assert.Less(t, data[i], data[idx], "no earlier index may equal the chosen maximum")
		}
	})
}

func TestChooseMapsTransportErrorToUnreachable(t *testing.T) {
	c := NewClient(http.DefaultClient)
	policy := policyWith(1)
	policy.URL = "http://127.0.0.1:0/unreachable"

	_, err := c.Choose(t.Context(), policy, "hello")
	require.Error(t, err)
	assert.Equal(t, types.KindClassifierFailure, types.KindOf(err))
	assert.Equal(t, 503, types.StatusOf(err))
}
