// Package api holds the JSON response shapes the gateway writes, shared by
// every handler.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/nvidia-cloud-ai/llm-router-gateway/types"
	"go.uber.org/zap"
)

// ErrorEnvelope is the body of every synthesized (non-passthrough) error
// response: {"error":{"message":...,"status":...}}.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the nested object inside ErrorEnvelope.
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// WriteJSON writes data as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes err as {"error":{"message":...,"status":...}}, logging
// the cause (never exposed to the caller) at warn level.
func WriteError(w http.ResponseWriter, err *types.Error, logger *zap.Logger) {
	if logger != nil {
		fields := []zap.Field{zap.String("kind", string(err.Kind)), zap.Int("status", err.Status)}
		if err.Cause != nil {
			fields = append(fields, zap.Error(err.Cause))
		}
		logger.Warn(err.Message, fields...)
	}
	WriteJSON(w, err.Status, ErrorEnvelope{Error: ErrorBody{Message: err.Message, Status: err.Status}})
}
