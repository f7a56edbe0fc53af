// Package proxy implements the per-request state machine that ties
// together policy/model selection, request rewriting, upstream dispatch,
// and response relay.
package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/nvidia-cloud-ai/llm-router-gateway/api"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/classifier"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/envelope"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/metrics"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/rewrite"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/routerconfig"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/sse"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/upstream"
	"github.com/nvidia-cloud-ai/llm-router-gateway/types"
	"go.uber.org/zap"
)

// shortenText keeps the last maxLen bytes of s, dropping the front. It only
// bounds the logged messages array; the text fed to the classifier is not
// truncated.
func shortenText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[len(s)-maxLen:]
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func extractMessages(body map[string]any) []message {
	raw, ok := body["messages"]
	if !ok {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var msgs []message
	if err := json.Unmarshal(encoded, &msgs); err != nil {
		return nil
	}
	return msgs
}

func lastMessageContent(msgs []message) string {
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Content
}

// Orchestrator is the HTTP handler backing /v1/chat/completions and
// /completions.
type Orchestrator struct {
	view       *routerconfig.View
	classifier *classifier.Client
	dispatcher *upstream.Dispatcher
	metrics    *metrics.Collector
	logger     *zap.Logger
}

// New builds an Orchestrator over the given collaborators.
func New(view *routerconfig.View, cls *classifier.Client, disp *upstream.Dispatcher, m *metrics.Collector, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{view: view, classifier: cls, dispatcher: disp, metrics: m, logger: logger.With(zap.String("component", "proxy"))}
}

// ServeHTTP implements the full request lifecycle described in the design
// doc's latency-decomposition and result-classification rules: every branch
// writes a response and returns, and the deferred block at the top records
// latency and outcome metrics on every one of those paths.
func (o *Orchestrator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	overallStart := time.Now()
	o.metrics.RecordRequestStart()

	var modelSelectionTime time.Duration
	var llmResponseTime time.Duration
	finalStatus := 0

	defer func() {
		overall := time.Since(overallStart).Seconds()
		o.metrics.ObserveRequestLatency(overall)
		overhead := overall - modelSelectionTime.Seconds() - llmResponseTime.Seconds()
		o.metrics.ObserveProxyOverhead(overhead)
		if finalStatus != 0 {
			o.metrics.RecordOutcome(finalStatus, false)
		}
	}()

	forwardPath := rewrite.ForwardPath(r)

	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		finalStatus = http.StatusBadRequest
		api.WriteError(w, types.New(types.KindClientError, finalStatus, "failed to read request body").WithCause(err), o.logger)
		return
	}

	var body map[string]any
	if err := json.Unmarshal(rawBody, &body); err != nil {
		finalStatus = http.StatusBadRequest
		api.WriteError(w, types.New(types.KindClientError, finalStatus, "request body is not valid JSON").WithCause(err), o.logger)
		return
	}

	isStream, _ := body["stream"].(bool)

	msgs := extractMessages(body)
	o.logger.Debug("decoded request", zap.String("messages", shortenText(string(mustMarshal(msgs)), 2000)))

	params, hasEnvelope := envelope.Extract(body)
	if !hasEnvelope {
		finalStatus = http.StatusBadRequest
		api.WriteError(w, types.New(types.KindClientError, finalStatus, "nim-llm-router envelope is required"), o.logger)
		return
	}

	policy, ok := o.view.PolicyByName(params.Policy)
	if !ok {
		finalStatus = http.StatusBadRequest
		api.WriteError(w, types.New(types.KindRoutingError, finalStatus, "policy not found: "+params.Policy), o.logger)
		return
	}
	o.metrics.RecordPolicyUsage(policy.Name)

	if !params.HasStrategy {
		finalStatus = http.StatusBadRequest
		api.WriteError(w, types.New(types.KindRoutingError, finalStatus, "no routing strategy specified"), o.logger)
		return
	}

	var modelIndex int
	switch params.RoutingStrategy {
	case envelope.StrategyManual:
		o.metrics.RecordRoutingStrategy("manual")
		if !params.HasModel {
			finalStatus = http.StatusBadRequest
			api.WriteError(w, types.New(types.KindClientError, finalStatus, "no model specified for manual routing"), o.logger)
			return
		}
		idx, found := routerconfig.LLMIndexByName(policy, params.Model)
		if !found {
			finalStatus = http.StatusNotFound
			api.WriteError(w, types.New(types.KindRoutingError, finalStatus, "model not found: "+params.Model), o.logger)
			return
		}
		modelIndex = idx

	case envelope.StrategyTriton:
		o.metrics.RecordRoutingStrategy("triton")
		selectionStart := time.Now()
		idx, err := o.classifier.Choose(r.Context(), policy, lastMessageContent(msgs))
		modelSelectionTime = time.Since(selectionStart)
		if err != nil {
			o.metrics.ObserveModelSelectionTime(modelSelectionTime.Seconds())
			gwErr, ok := err.(*types.Error)
			if !ok {
				gwErr = types.New(types.KindClassifierFailure, http.StatusInternalServerError, "classifier failure").WithCause(err)
			}
			finalStatus = gwErr.Status
			api.WriteError(w, gwErr, o.logger)
			return
		}
		o.metrics.ObserveModelSelectionTime(modelSelectionTime.Seconds())
		modelIndex = idx

	default:
		finalStatus = http.StatusBadRequest
		api.WriteError(w, types.New(types.KindRoutingError, finalStatus, "unknown routing strategy: "+string(params.RoutingStrategy)), o.logger)
		return
	}

	chosenLLM, ok := routerconfig.LLMByIndex(policy, modelIndex)
	if !ok {
		finalStatus = http.StatusInternalServerError
		api.WriteError(w, types.New(types.KindRoutingError, finalStatus, "llm not found at chosen index"), o.logger)
		return
	}
	o.metrics.RecordModelUsage(chosenLLM.Name)

	strippedBody := envelope.Strip(body)
	rw := rewrite.Build(chosenLLM.APIBase, forwardPath, chosenLLM.APIKey, chosenLLM.Model, strippedBody)

	llmStart := time.Now()
	upstreamResp, err := o.dispatcher.Dispatch(r.Context(), rw, isStream)
	if err != nil {
		gwErr, ok := err.(*types.Error)
		if !ok {
			gwErr = types.New(types.KindUpstreamFailure, http.StatusBadGateway, "upstream dispatch failed").WithCause(err)
		}
		finalStatus = gwErr.Status
		api.WriteError(w, gwErr, o.logger)
		return
	}
	llmResponseTime = time.Since(llmStart)
	o.metrics.ObserveLLMResponseTime(chosenLLM.Name, llmResponseTime.Seconds())
	defer upstreamResp.Body.Close()

	o.relayResponse(w, upstreamResp, chosenLLM.Name, &finalStatus)
}

func (o *Orchestrator) relayResponse(w http.ResponseWriter, resp *upstream.Response, llmName string, finalStatus *int) {
	copyHeaders(w.Header(), resp.Header)
	w.Header().Set("X-Chosen-Classifier", llmName)
	*finalStatus = resp.StatusCode

	// A non-2xx response is passed through verbatim and never treated as a
	// gateway error, nor scanned for usage.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
		return
	}

	if resp.Stream {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(resp.StatusCode)
		flusher, _ := w.(http.Flusher)
		if err := sse.Relay(w, flusher, resp.Body, llmName, o.metrics, o.logger); err != nil {
			o.logger.Warn("sse relay ended early", zap.Error(err))
		}
		return
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		o.logger.Warn("failed to read upstream body", zap.Error(err))
		w.WriteHeader(resp.StatusCode)
		return
	}

	var parsed struct {
		Usage *struct {
			PromptTokens     uint64 `json:"prompt_tokens"`
			CompletionTokens uint64 `json:"completion_tokens"`
			TotalTokens      uint64 `json:"total_tokens"`
		} `json:"usage"`
	}
	if json.Unmarshal(bodyBytes, &parsed) == nil && parsed.Usage != nil {
		o.metrics.RecordTokenUsage(llmName, parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens, parsed.Usage.TotalTokens)
	}

	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(bodyBytes)
}

func copyHeaders(dst, src http.Header) {
	for k, values := range src {
		for _, v := range values {
			dst.Add(k, v)
		}
	}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
