// Package envelope extracts and strips the "nim-llm-router" routing
// envelope embedded in an inbound chat-completion request body.
package envelope

import "encoding/json"

// Strategy is the routing strategy named in the envelope.
type Strategy string

const (
	StrategyManual Strategy = "manual"
	StrategyTriton Strategy = "triton"
)

// Params is the parsed "nim-llm-router" object.
type Params struct {
	Policy          string
	RoutingStrategy Strategy
	HasStrategy     bool
	Model           string
	HasModel        bool
	Threshold       float64
	HasThreshold    bool
}

type wireParams struct {
	Policy          string   `json:"policy"`
	RoutingStrategy *string  `json:"routing_strategy"`
	Model           *string  `json:"model"`
	Threshold       *float64 `json:"threshold"`
}

// Extract pulls the "nim-llm-router" object out of a parsed request body. It
// returns ok=false when the key is absent or doesn't unmarshal into the
// expected shape — both are treated identically by the caller (a missing
// envelope).
func Extract(body map[string]any) (Params, bool) {
	raw, present := body["nim-llm-router"]
	if !present {
		return Params{}, false
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return Params{}, false
	}

	var wp wireParams
	if err := json.Unmarshal(encoded, &wp); err != nil {
		return Params{}, false
	}

	params := Params{Policy: wp.Policy, Threshold: 0.5}
	if wp.RoutingStrategy != nil {
		params.RoutingStrategy = Strategy(*wp.RoutingStrategy)
		params.HasStrategy = true
	}
	if wp.Model != nil {
		params.Model = *wp.Model
		params.HasModel = true
	}
	if wp.Threshold != nil {
		params.Threshold = *wp.Threshold
		params.HasThreshold = true
	}
	return params, true
}

// Strip removes the "nim-llm-router" key from body, returning a new map so
// the caller's original value is left untouched.
func Strip(body map[string]any) map[string]any {
	out := make(map[string]any, len(body))
	for k, v := range body {
		if k == "nim-llm-router" {
			continue
		}
		out[k] = v
	}
	return out
}
