package handlers

import (
	"net/http"

	"github.com/nvidia-cloud-ai/llm-router-gateway/api"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/routerconfig"
	"github.com/nvidia-cloud-ai/llm-router-gateway/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Proxy is implemented by the proxy orchestrator; kept as an interface
// here so this package doesn't import internal/proxy directly and create a
// cycle with anything proxy itself needs from api/handlers.
type Proxy interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// NewRouter builds the single mux the gateway serves on :8084 — every
// endpoint from the external-interfaces table lives on one listener, unlike
// the split HTTP/metrics-port convention some services use.
func NewRouter(view *routerconfig.View, proxy Proxy) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", HandleHealth)
	mux.HandleFunc("/config", ConfigHandler(view))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/chat/completions", proxy.ServeHTTP)
	mux.HandleFunc("/completions", proxy.ServeHTTP)
	mux.HandleFunc("/", notFound)

	return mux
}

func notFound(w http.ResponseWriter, r *http.Request) {
	api.WriteError(w, types.New(types.KindClientError, http.StatusNotFound, "unavailable"), nil)
}
