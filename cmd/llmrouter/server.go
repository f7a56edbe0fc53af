package main

import (
	"context"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/nvidia-cloud-ai/llm-router-gateway/api/handlers"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/classifier"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/metrics"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/proxy"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/routerconfig"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/server"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/tracing"
	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/upstream"
)

// Server wires the gateway's collaborators together and owns the single
// listener's lifecycle.
type Server struct {
	cfg    routerconfig.RouterConfig
	logger *zap.Logger

	httpManager     *server.Manager
	tracingShutdown tracing.Shutdown
}

// NewServer builds a Server from a loaded config. Construction is cheap and
// side-effect-free; Start does the actual wiring and binds the listener.
func NewServer(cfg routerconfig.RouterConfig, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start initializes tracing, the shared HTTP client, the routing
// collaborators, and begins serving.
func (s *Server) Start(ctx context.Context) error {
	s.tracingShutdown = tracing.Init(ctx, "llm-router-gateway", s.logger)

	httpClient := newHTTPClient(otelhttp.NewTransport(nil))

	view := routerconfig.NewView(s.cfg)
	cls := classifier.NewClient(httpClient)
	disp := upstream.NewDispatcher(httpClient)
	collector := metrics.NewCollector("llmrouter", s.logger)
	orchestrator := proxy.New(view, cls, disp, collector, s.logger)

	router := handlers.NewRouter(view, orchestrator)
	chained := Chain(router,
		Recovery(s.logger),
		RequestID(),
		RequestLogger(s.logger),
	)

	httpConfig := server.DefaultConfig()
	s.httpManager = server.NewManager(chained, httpConfig, s.logger)

	return s.httpManager.Start()
}

// WaitForShutdown blocks until the server is told to stop, then tears down
// tracing.
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	if s.tracingShutdown != nil {
		if err := s.tracingShutdown(context.Background()); err != nil {
			s.logger.Warn("tracing shutdown error", zap.Error(err))
		}
	}
}
