// Package rewrite turns a chosen LLM and the inbound request into the
// outbound request the upstream dispatcher sends: "model" is substituted
// and Accept/Content-Type/Authorization headers are set. The envelope is
// not removed here; the orchestrator strips it with envelope.Strip before
// calling Build.
package rewrite

import (
	"fmt"
	"net/http"
)

// Rewritten is the outbound request shape the dispatcher needs.
type Rewritten struct {
	URL     string
	Headers http.Header
	Body    map[string]any
}

// Build assembles the outbound request: apiBase + forwardPath is the target
// URL, model replaces the "model" field of body, and apiKey becomes a
// Bearer Authorization header.
func Build(apiBase, forwardPath, apiKey, model string, body map[string]any) Rewritten {
	out := make(map[string]any, len(body))
	for k, v := range body {
		out[k] = v
	}
	out["model"] = model

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	headers.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))

	return Rewritten{
		URL:     apiBase + forwardPath,
		Headers: headers,
		Body:    out,
	}
}

// ForwardPath returns the request's path and query string, exactly as it
// arrived, for appending onto the chosen LLM's api_base.
func ForwardPath(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}
