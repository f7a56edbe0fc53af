// Package handlers implements the gateway's HTTP surface: the endpoint
// router dispatching to /config, /health, /metrics, and the proxy
// endpoints, plus the small health and config handlers that don't need a
// dedicated package.
package handlers
