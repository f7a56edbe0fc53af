package handlers

import (
	"net/http"

	"github.com/nvidia-cloud-ai/llm-router-gateway/api"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/routerconfig"
)

// ConfigHandler serves the redacted policy catalog over /config.
func ConfigHandler(view *routerconfig.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, view.Sanitized())
	}
}
